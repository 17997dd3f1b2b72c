package ontology

import (
	"time"

	"go.uber.org/zap"

	pkgerrors "github.com/XenocodeRCE/SophIA-sub000/pkg/errors"
)

// DefaultMaxPathDepth bounds FindPath when callers pass a non-positive depth.
// Path search is exponential in branching factor and meant for small,
// interactive lookups only.
const DefaultMaxPathDepth = 3

// GraphMetadata contains graph-level aggregate information, refreshed on
// every mutating call.
type GraphMetadata struct {
	Version        string    `json:"version"`
	CreationDate   time.Time `json:"creation_date"`
	LastModified   time.Time `json:"last_modified"`
	TotalConcepts  int       `json:"total_concepts"`
	TotalRelations int       `json:"total_relations"`
}

// ConceptGraph is the aggregate root for all concepts and their relations.
// It exclusively owns the name-to-Concept mapping. Concepts are never
// removed once added.
//
// A ConceptGraph is not safe for concurrent mutation; callers sharing an
// instance across goroutines must serialize mutating calls.
type ConceptGraph struct {
	concepts map[string]*Concept
	metadata GraphMetadata
	logger   *zap.Logger
}

// NewConceptGraph creates an empty graph. A nil logger is replaced with a
// no-op logger.
func NewConceptGraph(logger *zap.Logger) *ConceptGraph {
	if logger == nil {
		logger = zap.NewNop()
	}
	now := time.Now()
	return &ConceptGraph{
		concepts: make(map[string]*Concept),
		metadata: GraphMetadata{
			Version:      "1.0",
			CreationDate: now,
			LastModified: now,
		},
		logger: logger,
	}
}

// NewCoreConceptGraph creates a graph pre-seeded with the core concept and
// relation catalogue.
func NewCoreConceptGraph(logger *zap.Logger) *ConceptGraph {
	g := NewConceptGraph(logger)

	for _, entry := range coreConcepts {
		if _, err := g.AddConcept(entry.name, entry.conceptType, ConceptAttrs{Source: SourceCore}); err != nil {
			g.logger.Warn("failed to seed core concept",
				zap.String("concept", entry.name),
				zap.Error(err),
			)
		}
	}
	for _, entry := range coreRelations {
		g.AddRelation(entry.from, entry.relationType, entry.to)
	}

	g.logger.Info("core concept graph loaded",
		zap.Int("concepts", g.ConceptCount()),
		zap.Int("relations", g.RelationCount()),
	)
	return g
}

// AddConcept adds a new concept or merges attributes into an existing one
// (upsert). It never fails on valid non-empty input.
func (g *ConceptGraph) AddConcept(name string, conceptType ConceptType, attrs ConceptAttrs) (*Concept, error) {
	normalized := NormalizeName(name)
	if normalized == "" {
		return nil, pkgerrors.NewValidation("concept name cannot be empty")
	}

	if existing, ok := g.concepts[normalized]; ok {
		g.logger.Debug("concept already exists, merging attributes", zap.String("concept", normalized))
		if conceptType != "" {
			existing.conceptType = conceptType
		}
		existing.merge(attrs)
		g.touch()
		return existing, nil
	}

	concept, err := NewConcept(normalized, conceptType, attrs)
	if err != nil {
		return nil, err
	}
	g.concepts[normalized] = concept
	g.touch()

	g.logger.Debug("concept added",
		zap.String("concept", normalized),
		zap.String("type", conceptType.String()),
	)
	return concept, nil
}

// GetConcept looks up a concept by normalized name.
func (g *ConceptGraph) GetConcept(name string) (*Concept, bool) {
	concept, ok := g.concepts[NormalizeName(name)]
	return concept, ok
}

// HasConcept reports whether the named concept exists.
func (g *ConceptGraph) HasConcept(name string) bool {
	_, ok := g.concepts[NormalizeName(name)]
	return ok
}

// AddRelation stores a typed relation between two existing concepts.
// It returns false without mutating when either concept is unknown, when the
// relation would self-reference a self-exclusive type, or when the opposite
// relation (implies vs contradicts) already exists for the same pair.
// Relation types with a defined inverse also store the inverse on the target.
func (g *ConceptGraph) AddRelation(from string, relationType RelationType, to string) bool {
	fromName := NormalizeName(from)
	toName := NormalizeName(to)

	fromConcept, ok := g.concepts[fromName]
	if !ok {
		g.logger.Warn("source concept does not exist", zap.String("concept", fromName))
		return false
	}
	toConcept, ok := g.concepts[toName]
	if !ok {
		g.logger.Warn("target concept does not exist", zap.String("concept", toName))
		return false
	}

	if !g.isRelationConsistent(fromConcept, relationType, toName) {
		g.logger.Warn("inconsistent relation rejected",
			zap.String("from", fromName),
			zap.String("relation", relationType.String()),
			zap.String("to", toName),
		)
		return false
	}

	fromConcept.addRelation(relationType, toName)
	if inverse, hasInverse := InverseRelation(relationType); hasInverse {
		toConcept.addRelation(inverse, fromName)
	}

	g.touch()
	return true
}

// isRelationConsistent enforces the pairwise consistency rules checked inline
// on every relation addition. Full-graph validation lives in
// ValidateConsistency.
func (g *ConceptGraph) isRelationConsistent(from *Concept, relationType RelationType, to string) bool {
	if from.name == to && selfExclusiveRelations[relationType] {
		return false
	}

	// A cannot both imply and contradict B.
	switch relationType {
	case RelationContradicts:
		if from.HasRelation(RelationImplies, to) {
			return false
		}
	case RelationImplies:
		if from.HasRelation(RelationContradicts, to) {
			return false
		}
	}
	return true
}

// FindPath returns every simple path from start to end, following the union
// of all relation types, up to maxDepth hops. Concepts already on the current
// path are never revisited. A non-positive maxDepth uses DefaultMaxPathDepth.
func (g *ConceptGraph) FindPath(start, end string, maxDepth int) [][]string {
	startName := NormalizeName(start)
	endName := NormalizeName(end)

	if maxDepth <= 0 {
		maxDepth = DefaultMaxPathDepth
	}
	if !g.HasConcept(startName) || !g.HasConcept(endName) {
		return nil
	}

	var paths [][]string
	path := []string{startName}
	g.depthFirstSearch(startName, endName, path, 0, maxDepth, &paths)
	return paths
}

func (g *ConceptGraph) depthFirstSearch(current, target string, path []string, depth, maxDepth int, paths *[][]string) {
	if depth > maxDepth {
		return
	}

	if current == target && len(path) > 1 {
		found := make([]string, len(path))
		copy(found, path)
		*paths = append(*paths, found)
		return
	}

	concept, ok := g.concepts[current]
	if !ok {
		return
	}
	for _, next := range concept.RelatedConcepts() {
		if containsName(path, next) {
			continue
		}
		g.depthFirstSearch(next, target, append(path, next), depth+1, maxDepth, paths)
	}
}

func containsName(path []string, name string) bool {
	for _, p := range path {
		if p == name {
			return true
		}
	}
	return false
}

// RelatedConcepts returns the relation targets of a concept, optionally
// filtered to the given relation types. An unknown concept yields nil.
func (g *ConceptGraph) RelatedConcepts(name string, relationTypes ...RelationType) map[RelationType][]string {
	concept, ok := g.GetConcept(name)
	if !ok {
		return nil
	}

	if len(relationTypes) == 0 {
		return concept.Relations()
	}

	filtered := make(map[RelationType][]string)
	all := concept.Relations()
	for _, relType := range relationTypes {
		if targets, present := all[relType]; present {
			filtered[relType] = targets
		}
	}
	return filtered
}

// ConceptsByType returns all concepts of the given type.
func (g *ConceptGraph) ConceptsByType(conceptType ConceptType) []*Concept {
	var matched []*Concept
	for _, concept := range g.concepts {
		if concept.conceptType == conceptType {
			matched = append(matched, concept)
		}
	}
	return matched
}

// Concepts returns a copy of the name-to-Concept mapping.
func (g *ConceptGraph) Concepts() map[string]*Concept {
	concepts := make(map[string]*Concept, len(g.concepts))
	for name, concept := range g.concepts {
		concepts[name] = concept
	}
	return concepts
}

// ConceptNames returns the names of all stored concepts.
func (g *ConceptGraph) ConceptNames() []string {
	names := make([]string, 0, len(g.concepts))
	for name := range g.concepts {
		names = append(names, name)
	}
	return names
}

// ConceptCount returns the number of stored concepts.
func (g *ConceptGraph) ConceptCount() int {
	return len(g.concepts)
}

// RelationCount returns the total number of stored relation entries.
func (g *ConceptGraph) RelationCount() int {
	total := 0
	for _, concept := range g.concepts {
		for _, targets := range concept.relations {
			total += len(targets)
		}
	}
	return total
}

// Metadata returns the current aggregate metadata.
func (g *ConceptGraph) Metadata() GraphMetadata {
	meta := g.metadata
	meta.TotalConcepts = len(g.concepts)
	meta.TotalRelations = g.RelationCount()
	return meta
}

// touch refreshes the aggregate metadata after a mutation.
func (g *ConceptGraph) touch() {
	g.metadata.TotalConcepts = len(g.concepts)
	g.metadata.TotalRelations = g.RelationCount()
	g.metadata.LastModified = time.Now()
}

// GraphStats summarizes the shape of the graph.
type GraphStats struct {
	TotalConcepts  int
	TotalRelations int
	ConceptsByType map[ConceptType]int
	MostConnected  string
	LeastConnected string
}

// Stats computes summary statistics over the graph.
func (g *ConceptGraph) Stats() GraphStats {
	stats := GraphStats{
		TotalConcepts:  len(g.concepts),
		TotalRelations: g.RelationCount(),
		ConceptsByType: make(map[ConceptType]int),
	}

	maxConnections := -1
	minConnections := -1
	for name, concept := range g.concepts {
		stats.ConceptsByType[concept.conceptType]++

		connections := len(concept.RelatedConcepts())
		if maxConnections < 0 || connections > maxConnections {
			maxConnections = connections
			stats.MostConnected = name
		}
		if minConnections < 0 || connections < minConnections {
			minConnections = connections
			stats.LeastConnected = name
		}
	}
	return stats
}

// GraphSnapshot is the persisted form of a ConceptGraph. Field names are part
// of the stable document format.
type GraphSnapshot struct {
	Metadata GraphMetadata              `json:"metadata"`
	Concepts map[string]ConceptSnapshot `json:"concepts"`
}

// Snapshot captures the graph for persistence.
func (g *ConceptGraph) Snapshot() GraphSnapshot {
	concepts := make(map[string]ConceptSnapshot, len(g.concepts))
	for name, concept := range g.concepts {
		concepts[name] = concept.Snapshot()
	}
	return GraphSnapshot{
		Metadata: g.Metadata(),
		Concepts: concepts,
	}
}

// GraphFromSnapshot rebuilds a graph from its persisted form without
// re-seeding or re-validating relations.
func GraphFromSnapshot(snap GraphSnapshot, logger *zap.Logger) (*ConceptGraph, error) {
	g := NewConceptGraph(logger)
	g.metadata = snap.Metadata
	if g.metadata.Version == "" {
		g.metadata.Version = "1.0"
	}

	for name, conceptSnap := range snap.Concepts {
		concept, err := ConceptFromSnapshot(conceptSnap)
		if err != nil {
			return nil, pkgerrors.Wrap(err, "failed to restore concept "+name)
		}
		g.concepts[concept.Name()] = concept
	}
	return g, nil
}
