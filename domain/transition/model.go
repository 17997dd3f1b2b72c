package transition

import (
	"math"
	"math/rand"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/XenocodeRCE/SophIA-sub000/domain/ontology"
	pkgerrors "github.com/XenocodeRCE/SophIA-sub000/pkg/errors"
)

// DefaultLearningRate scales weight reinforcement on repeated observations.
const DefaultLearningRate = 0.1

// minProbability floors per-step probabilities so sequence evaluation never
// takes log(0).
const minProbability = 1e-10

// fallbackRelationWeights ranks graph relations when a concept has no
// learned transitions. Unlisted relation types get fallbackDefaultWeight.
var fallbackRelationWeights = map[ontology.RelationType]float64{
	ontology.RelationImplies:     0.8,
	ontology.RelationIsA:         0.7,
	ontology.RelationEnables:     0.6,
	ontology.RelationDefines:     0.5,
	ontology.RelationExplains:    0.4,
	ontology.RelationHasProperty: 0.3,
}

const fallbackDefaultWeight = 0.2

// Candidate is one possible next concept with its normalized probability.
type Candidate struct {
	Concept     string
	Probability float64
}

// TrainingRecord summarizes one TrainOnSequences call. Processed counts only
// the sequences long enough to contribute at least one pair; PairsTrained
// counts every adjacent pair trained, repeats included, while
// UniqueTransitions is the number of distinct edges the model holds after the
// call.
type TrainingRecord struct {
	Sequences         int       `json:"sequences"`
	Processed         int       `json:"processed"`
	PairsTrained      int       `json:"total_transitions_learned"`
	UniqueTransitions int       `json:"unique_transitions"`
	Timestamp         time.Time `json:"timestamp"`
}

// Model is a first-order transition model over the concepts of a graph.
// Probabilities are derived from accumulated edge weights scaled by the
// square root of observation frequency, normalized per source concept.
//
// A Model is not safe for concurrent use.
type Model struct {
	graph              *ontology.ConceptGraph
	learningRate       float64
	transitions        map[string]*Transition
	totalSequencesSeen int
	trainingHistory    []TrainingRecord

	cache      map[string][]Candidate
	cacheValid bool

	rng    *rand.Rand
	logger *zap.Logger
}

// NewModel creates a model bound to a concept graph. A non-positive learning
// rate falls back to DefaultLearningRate; a nil logger becomes a no-op.
func NewModel(graph *ontology.ConceptGraph, learningRate float64, logger *zap.Logger) (*Model, error) {
	if graph == nil {
		return nil, pkgerrors.NewValidation("concept graph is required")
	}
	if learningRate <= 0 {
		learningRate = DefaultLearningRate
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Model{
		graph:        graph,
		learningRate: learningRate,
		transitions:  make(map[string]*Transition),
		cache:        make(map[string][]Candidate),
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
		logger:       logger,
	}, nil
}

// SetRandomSource replaces the sampling source, mainly for deterministic
// tests.
func (m *Model) SetRandomSource(src rand.Source) {
	m.rng = rand.New(src)
}

// Graph returns the bound concept graph.
func (m *Model) Graph() *ontology.ConceptGraph {
	return m.graph
}

// LearningRate returns the configured learning rate.
func (m *Model) LearningRate() float64 {
	return m.learningRate
}

// TransitionCount returns the number of distinct directed pairs observed.
func (m *Model) TransitionCount() int {
	return len(m.transitions)
}

// TotalSequencesSeen returns how many sequences have been trained on.
func (m *Model) TotalSequencesSeen() int {
	return m.totalSequencesSeen
}

// Transition looks up the learned edge for a directed pair.
func (m *Model) Transition(from, to string) (*Transition, bool) {
	t, ok := m.transitions[TransitionKey(from, to)]
	return t, ok
}

// AddTransition records one observation of a directed concept pair. A pair
// seen before is reinforced: its weight grows by weight*learningRate and its
// frequency increments. A pair naming a concept outside the graph is skipped
// with a warning rather than recorded, so the model never references
// concepts it cannot resolve.
func (m *Model) AddTransition(from, to string, weight float64, relationType ontology.RelationType, context string) error {
	fromName := ontology.NormalizeName(from)
	toName := ontology.NormalizeName(to)
	if !m.graph.HasConcept(fromName) {
		m.logger.Warn("transition source not in graph, skipping", zap.String("concept", fromName))
		return nil
	}
	if !m.graph.HasConcept(toName) {
		m.logger.Warn("transition target not in graph, skipping", zap.String("concept", toName))
		return nil
	}
	if weight < 0 {
		return pkgerrors.NewValidation("transition weight cannot be negative")
	}

	key := TransitionKey(fromName, toName)
	if existing, ok := m.transitions[key]; ok {
		existing.reinforce(weight * m.learningRate)
	} else {
		t, err := NewTransition(fromName, toName, weight, relationType, context)
		if err != nil {
			return err
		}
		m.transitions[key] = t
	}
	m.invalidateCache()
	return nil
}

// TrainOnSequence learns every adjacent pair of a sequence and returns the
// number of pairs trained. Pair i gets the decaying observation weight
// 1/(1+0.1*i), so early pairs count more. The relation type recorded on a
// new edge is the first direct relation the graph holds for that pair, if
// any. Pairs naming a concept outside the graph are skipped with a warning;
// sequences shorter than two concepts are ignored entirely.
func (m *Model) TrainOnSequence(sequence []string, context string) int {
	if len(sequence) < 2 {
		return 0
	}
	pairs := 0
	for i := 0; i+1 < len(sequence); i++ {
		from := ontology.NormalizeName(sequence[i])
		to := ontology.NormalizeName(sequence[i+1])
		if !m.graph.HasConcept(from) || !m.graph.HasConcept(to) {
			m.logger.Warn("skipping pair with unknown concept",
				zap.String("from", from),
				zap.String("to", to),
			)
			continue
		}
		weight := 1.0 / (1.0 + 0.1*float64(i))
		relationType := m.directRelation(from, to)
		if err := m.AddTransition(from, to, weight, relationType, context); err != nil {
			continue
		}
		pairs++
	}
	m.totalSequencesSeen++
	return pairs
}

// TrainOnSequences trains on a batch of sequences and appends a record to
// the training history.
func (m *Model) TrainOnSequences(sequences [][]string, context string) TrainingRecord {
	pairs := 0
	processed := 0
	for _, sequence := range sequences {
		pairs += m.TrainOnSequence(sequence, context)
		if len(sequence) >= 2 {
			processed++
		}
	}
	record := TrainingRecord{
		Sequences:         len(sequences),
		Processed:         processed,
		PairsTrained:      pairs,
		UniqueTransitions: len(m.transitions),
		Timestamp:         time.Now(),
	}
	m.trainingHistory = append(m.trainingHistory, record)
	m.logger.Debug("trained on sequence batch",
		zap.Int("sequences", record.Sequences),
		zap.Int("pairs_trained", record.PairsTrained),
		zap.Int("unique_transitions", record.UniqueTransitions),
	)
	return record
}

// directRelation returns the first relation type the graph holds from one
// concept straight to another, or empty when none exists.
func (m *Model) directRelation(from, to string) ontology.RelationType {
	concept, ok := m.graph.GetConcept(from)
	if !ok {
		return ""
	}
	toName := ontology.NormalizeName(to)
	for relType, targets := range concept.Relations() {
		for _, target := range targets {
			if target == toName {
				return relType
			}
		}
	}
	return ""
}

// NextConcepts returns up to limit learned candidates from a concept, most
// probable first. A non-positive limit returns all candidates. An empty
// result means the concept has no learned outgoing transitions.
func (m *Model) NextConcepts(from string, limit int) []Candidate {
	if !m.cacheValid {
		m.rebuildCache()
	}
	candidates := m.cache[ontology.NormalizeName(from)]
	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}
	out := make([]Candidate, len(candidates))
	copy(out, candidates)
	return out
}

// OntologicalNextConcepts derives candidates from the graph's relations when
// the model has learned nothing from a concept. Each relation type maps to a
// fixed prior weight; the result is normalized and sorted like learned
// candidates.
func (m *Model) OntologicalNextConcepts(from string, limit int) []Candidate {
	concept, ok := m.graph.GetConcept(from)
	if !ok {
		return nil
	}

	weights := make(map[string]float64)
	for relType, targets := range concept.Relations() {
		w, listed := fallbackRelationWeights[relType]
		if !listed {
			w = fallbackDefaultWeight
		}
		for _, target := range targets {
			if w > weights[target] {
				weights[target] = w
			}
		}
	}
	if len(weights) == 0 {
		return nil
	}

	total := 0.0
	for _, w := range weights {
		total += w
	}
	candidates := make([]Candidate, 0, len(weights))
	for target, w := range weights {
		candidates = append(candidates, Candidate{Concept: target, Probability: w / total})
	}
	sortCandidates(candidates)
	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates
}

// TransitionProbability returns the normalized probability of moving from
// one concept to another, floored at minProbability.
func (m *Model) TransitionProbability(from, to string) float64 {
	toName := ontology.NormalizeName(to)
	for _, candidate := range m.NextConcepts(from, 0) {
		if candidate.Concept == toName {
			if candidate.Probability < minProbability {
				return minProbability
			}
			return candidate.Probability
		}
	}
	return minProbability
}

// rebuildCache recomputes the per-source probability distributions. Raw
// scores are weight*sqrt(frequency); each source's scores are normalized to
// sum to one and sorted by descending probability, ties broken by name for
// stable output.
func (m *Model) rebuildCache() {
	m.cache = make(map[string][]Candidate)

	scores := make(map[string]map[string]float64)
	for _, t := range m.transitions {
		if scores[t.from] == nil {
			scores[t.from] = make(map[string]float64)
		}
		scores[t.from][t.to] = t.weight * math.Sqrt(float64(t.frequency))
	}

	for from, targets := range scores {
		total := 0.0
		for _, score := range targets {
			total += score
		}
		candidates := make([]Candidate, 0, len(targets))
		for to, score := range targets {
			p := 0.0
			if total > 0 {
				p = score / total
			}
			candidates = append(candidates, Candidate{Concept: to, Probability: p})
		}
		sortCandidates(candidates)
		m.cache[from] = candidates
	}
	m.cacheValid = true
}

func sortCandidates(candidates []Candidate) {
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Probability != candidates[j].Probability {
			return candidates[i].Probability > candidates[j].Probability
		}
		return candidates[i].Concept < candidates[j].Concept
	})
}

// invalidateCache marks the distributions stale. Exposed within the module
// so ontology-driven weight adjustment can force a rebuild.
func (m *Model) invalidateCache() {
	m.cacheValid = false
}

// InvalidateCache forces the next probability query to recompute
// distributions. Callers that mutate transition weights through
// AdjustTransitionWeight do not need it.
func (m *Model) InvalidateCache() {
	m.invalidateCache()
}

// AdjustTransitionWeight rescales a learned edge's weight by the given
// factor and invalidates the cached distributions. It returns the weight
// delta, zero when the pair is unknown.
func (m *Model) AdjustTransitionWeight(from, to string, factor float64) float64 {
	t, ok := m.transitions[TransitionKey(from, to)]
	if !ok {
		return 0
	}
	old := t.weight
	t.weight = old * factor
	if t.weight < 0 {
		t.weight = 0
	}
	m.invalidateCache()
	return t.weight - old
}

// Transitions returns a copy of the learned transition map keyed by
// "FROM->TO".
func (m *Model) Transitions() map[string]*Transition {
	out := make(map[string]*Transition, len(m.transitions))
	for key, t := range m.transitions {
		out[key] = t
	}
	return out
}

// TrainingHistory returns a copy of the per-batch training records.
func (m *Model) TrainingHistory() []TrainingRecord {
	history := make([]TrainingRecord, len(m.trainingHistory))
	copy(history, m.trainingHistory)
	return history
}

// ModelStats summarizes the learned model. CoverageRatio is the fraction of
// graph concepts with at least one learned outgoing transition.
type ModelStats struct {
	TotalTransitions     int     `json:"total_transitions"`
	TotalSequencesSeen   int     `json:"total_sequences_seen"`
	AverageWeight        float64 `json:"average_weight"`
	MostFrequent         string  `json:"most_frequent,omitempty"`
	ConceptsWithOutgoing int     `json:"concepts_with_outgoing"`
	ConceptsWithIncoming int     `json:"concepts_with_incoming"`
	CoverageRatio        float64 `json:"coverage_ratio"`
}

// Stats computes summary statistics over the learned transitions.
func (m *Model) Stats() ModelStats {
	stats := ModelStats{
		TotalTransitions:   len(m.transitions),
		TotalSequencesSeen: m.totalSequencesSeen,
	}
	if len(m.transitions) == 0 {
		return stats
	}
	totalWeight := 0.0
	maxFrequency := -1
	outgoing := make(map[string]bool)
	incoming := make(map[string]bool)
	for key, t := range m.transitions {
		totalWeight += t.weight
		outgoing[t.from] = true
		incoming[t.to] = true
		if t.frequency > maxFrequency {
			maxFrequency = t.frequency
			stats.MostFrequent = key
		}
	}
	stats.AverageWeight = totalWeight / float64(len(m.transitions))
	stats.ConceptsWithOutgoing = len(outgoing)
	stats.ConceptsWithIncoming = len(incoming)
	if count := m.graph.ConceptCount(); count > 0 {
		stats.CoverageRatio = float64(len(outgoing)) / float64(count)
	}
	return stats
}

// ModelState is the persisted form of a model. Field names are part of the
// stable document format.
type ModelState struct {
	Transitions        map[string]TransitionSnapshot `json:"transitions"`
	LearningRate       float64                       `json:"learning_rate"`
	TotalSequencesSeen int                           `json:"total_sequences_seen"`
	TrainingHistory    []TrainingRecord              `json:"training_history"`
}

// State captures the model for persistence.
func (m *Model) State() ModelState {
	transitions := make(map[string]TransitionSnapshot, len(m.transitions))
	for key, t := range m.transitions {
		transitions[key] = t.Snapshot()
	}
	history := make([]TrainingRecord, len(m.trainingHistory))
	copy(history, m.trainingHistory)
	return ModelState{
		Transitions:        transitions,
		LearningRate:       m.learningRate,
		TotalSequencesSeen: m.totalSequencesSeen,
		TrainingHistory:    history,
	}
}

// RestoreState replaces the model's learned content with a persisted state.
// The bound graph is unchanged; transitions referencing concepts missing
// from the graph are restored as-is and only surface through consistency
// checks.
func (m *Model) RestoreState(state ModelState) error {
	transitions := make(map[string]*Transition, len(state.Transitions))
	for key, snap := range state.Transitions {
		t, err := TransitionFromSnapshot(snap)
		if err != nil {
			return pkgerrors.Wrap(err, "failed to restore transition "+key)
		}
		transitions[t.Key()] = t
	}
	m.transitions = transitions
	if state.LearningRate > 0 {
		m.learningRate = state.LearningRate
	}
	m.totalSequencesSeen = state.TotalSequencesSeen
	m.trainingHistory = append([]TrainingRecord(nil), state.TrainingHistory...)
	m.invalidateCache()
	return nil
}
