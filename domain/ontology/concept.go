package ontology

import (
	"strings"
	"time"

	pkgerrors "github.com/XenocodeRCE/SophIA-sub000/pkg/errors"
)

// Concept source tags.
const (
	SourceCore    = "core"
	SourceLearned = "learned"
	SourceUser    = "user_defined"
)

// NormalizeName canonicalizes a concept name: trimmed and uppercased.
// All lookups and stored names go through this.
func NormalizeName(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// Concept is a named, typed node in the knowledge graph.
// Relation target lists are ordered and deduplicated.
type Concept struct {
	name        string
	conceptType ConceptType
	domain      string
	relations   map[RelationType][]string
	properties  map[string]interface{}
	definitions []string
	examples    []string

	// Learning metadata
	learningWeight float64
	lastUpdated    time.Time
	source         string
}

// ConceptAttrs carries the optional attributes of a concept. Zero-valued
// fields are ignored on upsert so an update never clears existing data.
type ConceptAttrs struct {
	Domain         string
	Properties     map[string]interface{}
	Definitions    []string
	Examples       []string
	LearningWeight float64
	Source         string
}

// NewConcept creates a concept with a normalized, non-empty name.
func NewConcept(name string, conceptType ConceptType, attrs ConceptAttrs) (*Concept, error) {
	normalized := NormalizeName(name)
	if normalized == "" {
		return nil, pkgerrors.NewValidation("concept name cannot be empty")
	}
	if conceptType == "" {
		conceptType = TypeUserDefined
	}

	c := &Concept{
		name:           normalized,
		conceptType:    conceptType,
		relations:      make(map[RelationType][]string),
		properties:     make(map[string]interface{}),
		learningWeight: 1.0,
		source:         SourceCore,
		lastUpdated:    time.Now(),
	}
	c.merge(attrs)
	return c, nil
}

// merge applies non-zero attributes onto the concept.
func (c *Concept) merge(attrs ConceptAttrs) {
	if attrs.Domain != "" {
		c.domain = attrs.Domain
	}
	for k, v := range attrs.Properties {
		c.properties[k] = v
	}
	for _, d := range attrs.Definitions {
		c.appendDefinition(d)
	}
	for _, e := range attrs.Examples {
		c.appendExample(e)
	}
	if attrs.LearningWeight > 0 {
		c.learningWeight = attrs.LearningWeight
	}
	if attrs.Source != "" {
		c.source = attrs.Source
	}
	c.lastUpdated = time.Now()
}

// Name returns the normalized concept name.
func (c *Concept) Name() string {
	return c.name
}

// Type returns the concept's type.
func (c *Concept) Type() ConceptType {
	return c.conceptType
}

// Domain returns the optional domain tag.
func (c *Concept) Domain() string {
	return c.domain
}

// Source returns the provenance tag (core, learned, user_defined).
func (c *Concept) Source() string {
	return c.source
}

// LearningWeight returns the concept's learning weight.
func (c *Concept) LearningWeight() float64 {
	return c.learningWeight
}

// LastUpdated returns the last mutation time.
func (c *Concept) LastUpdated() time.Time {
	return c.lastUpdated
}

// Properties returns a copy of the open key-value property map.
func (c *Concept) Properties() map[string]interface{} {
	props := make(map[string]interface{}, len(c.properties))
	for k, v := range c.properties {
		props[k] = v
	}
	return props
}

// Definitions returns a copy of the ordered definition list.
func (c *Concept) Definitions() []string {
	defs := make([]string, len(c.definitions))
	copy(defs, c.definitions)
	return defs
}

// Examples returns a copy of the ordered example list.
func (c *Concept) Examples() []string {
	examples := make([]string, len(c.examples))
	copy(examples, c.examples)
	return examples
}

// addRelation records a relation target, keeping the list deduplicated.
// Graph-level consistency rules are enforced by ConceptGraph.AddRelation;
// this only maintains the local list invariant.
func (c *Concept) addRelation(relationType RelationType, target string) {
	target = NormalizeName(target)
	for _, existing := range c.relations[relationType] {
		if existing == target {
			return
		}
	}
	c.relations[relationType] = append(c.relations[relationType], target)
	c.lastUpdated = time.Now()
}

// RemoveRelation deletes a relation target; returns false if it was absent.
func (c *Concept) RemoveRelation(relationType RelationType, target string) bool {
	target = NormalizeName(target)
	targets, ok := c.relations[relationType]
	if !ok {
		return false
	}
	for i, existing := range targets {
		if existing == target {
			c.relations[relationType] = append(targets[:i], targets[i+1:]...)
			if len(c.relations[relationType]) == 0 {
				delete(c.relations, relationType)
			}
			c.lastUpdated = time.Now()
			return true
		}
	}
	return false
}

// HasRelation reports whether the concept holds the given relation to target.
func (c *Concept) HasRelation(relationType RelationType, target string) bool {
	target = NormalizeName(target)
	for _, existing := range c.relations[relationType] {
		if existing == target {
			return true
		}
	}
	return false
}

// Relations returns a copy of the full relation map.
func (c *Concept) Relations() map[RelationType][]string {
	relations := make(map[RelationType][]string, len(c.relations))
	for relType, targets := range c.relations {
		copied := make([]string, len(targets))
		copy(copied, targets)
		relations[relType] = copied
	}
	return relations
}

// RelatedConcepts returns the deduplicated names of all related concepts,
// optionally filtered to a single relation type.
func (c *Concept) RelatedConcepts(filter ...RelationType) []string {
	if len(filter) > 0 {
		targets := c.relations[filter[0]]
		copied := make([]string, len(targets))
		copy(copied, targets)
		return copied
	}

	seen := make(map[string]bool)
	var related []string
	for _, targets := range c.relations {
		for _, target := range targets {
			if !seen[target] {
				seen[target] = true
				related = append(related, target)
			}
		}
	}
	return related
}

// AddDefinition appends a definition annotated with its source.
func (c *Concept) AddDefinition(definition, source string) {
	if source == "" {
		source = "unknown"
	}
	c.appendDefinition(definition + " (source: " + source + ")")
	c.lastUpdated = time.Now()
}

// AddExample appends a usage example.
func (c *Concept) AddExample(example string) {
	c.appendExample(example)
	c.lastUpdated = time.Now()
}

func (c *Concept) appendDefinition(definition string) {
	for _, existing := range c.definitions {
		if existing == definition {
			return
		}
	}
	c.definitions = append(c.definitions, definition)
}

func (c *Concept) appendExample(example string) {
	for _, existing := range c.examples {
		if existing == example {
			return
		}
	}
	c.examples = append(c.examples, example)
}

// SetLearningWeight updates the learning weight; negative values are rejected.
func (c *Concept) SetLearningWeight(weight float64) error {
	if weight < 0 {
		return pkgerrors.NewValidation("learning weight cannot be negative")
	}
	c.learningWeight = weight
	c.lastUpdated = time.Now()
	return nil
}

// ConceptSnapshot is the persisted form of a Concept. Field names are part of
// the stable document format.
type ConceptSnapshot struct {
	Name           string                    `json:"name"`
	ConceptType    ConceptType               `json:"concept_type"`
	Domain         string                    `json:"domain,omitempty"`
	Relations      map[RelationType][]string `json:"relations"`
	Properties     map[string]interface{}    `json:"properties"`
	Definitions    []string                  `json:"definitions"`
	Examples       []string                  `json:"examples"`
	LearningWeight float64                   `json:"learning_weight"`
	LastUpdated    string                    `json:"last_updated,omitempty"`
	Source         string                    `json:"source"`
}

// Snapshot captures the concept for persistence.
func (c *Concept) Snapshot() ConceptSnapshot {
	snap := ConceptSnapshot{
		Name:           c.name,
		ConceptType:    c.conceptType,
		Domain:         c.domain,
		Relations:      c.Relations(),
		Properties:     c.Properties(),
		Definitions:    c.Definitions(),
		Examples:       c.Examples(),
		LearningWeight: c.learningWeight,
		Source:         c.source,
	}
	if !c.lastUpdated.IsZero() {
		snap.LastUpdated = c.lastUpdated.Format(time.RFC3339Nano)
	}
	return snap
}

// ConceptFromSnapshot rebuilds a concept from its persisted form.
func ConceptFromSnapshot(snap ConceptSnapshot) (*Concept, error) {
	c, err := NewConcept(snap.Name, snap.ConceptType, ConceptAttrs{})
	if err != nil {
		return nil, err
	}
	c.domain = snap.Domain
	for relType, targets := range snap.Relations {
		for _, target := range targets {
			c.addRelation(relType, target)
		}
	}
	for k, v := range snap.Properties {
		c.properties[k] = v
	}
	c.definitions = append([]string(nil), snap.Definitions...)
	c.examples = append([]string(nil), snap.Examples...)
	if snap.LearningWeight > 0 {
		c.learningWeight = snap.LearningWeight
	}
	if snap.Source != "" {
		c.source = snap.Source
	}
	if snap.LastUpdated != "" {
		if ts, tsErr := time.Parse(time.RFC3339Nano, snap.LastUpdated); tsErr == nil {
			c.lastUpdated = ts
		}
	}
	return c, nil
}
