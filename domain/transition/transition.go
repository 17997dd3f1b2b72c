package transition

import (
	"fmt"

	"github.com/XenocodeRCE/SophIA-sub000/domain/ontology"
	pkgerrors "github.com/XenocodeRCE/SophIA-sub000/pkg/errors"
)

// Transition is a directed, weighted edge between two concepts observed
// during training. Weight accumulates across observations and frequency
// counts how often the pair was seen.
type Transition struct {
	from         string
	to           string
	weight       float64
	relationType ontology.RelationType
	context      string
	frequency    int
}

// NewTransition validates and creates a transition with frequency 1.
func NewTransition(from, to string, weight float64, relationType ontology.RelationType, context string) (*Transition, error) {
	fromName := ontology.NormalizeName(from)
	toName := ontology.NormalizeName(to)
	if fromName == "" || toName == "" {
		return nil, pkgerrors.NewValidation("transition endpoints cannot be empty")
	}
	if weight < 0 {
		return nil, pkgerrors.NewValidation(fmt.Sprintf("transition weight cannot be negative: %f", weight))
	}
	return &Transition{
		from:         fromName,
		to:           toName,
		weight:       weight,
		relationType: relationType,
		context:      context,
		frequency:    1,
	}, nil
}

// From returns the source concept name.
func (t *Transition) From() string {
	return t.from
}

// To returns the target concept name.
func (t *Transition) To() string {
	return t.to
}

// Weight returns the accumulated weight.
func (t *Transition) Weight() float64 {
	return t.weight
}

// RelationType returns the ontological relation observed for this edge,
// empty when none applies.
func (t *Transition) RelationType() ontology.RelationType {
	return t.relationType
}

// Context returns the free-form context label the transition was observed in.
func (t *Transition) Context() string {
	return t.context
}

// Frequency returns how many times this pair was observed.
func (t *Transition) Frequency() int {
	return t.frequency
}

// Key returns the map key identifying this directed pair.
func (t *Transition) Key() string {
	return TransitionKey(t.from, t.to)
}

// TransitionKey builds the canonical "FROM->TO" identifier for a directed
// concept pair. The arrow form is part of the stable document format.
func TransitionKey(from, to string) string {
	return ontology.NormalizeName(from) + "->" + ontology.NormalizeName(to)
}

// reinforce folds a new observation into the transition. The increment is
// scaled by the model's learning rate before being applied.
func (t *Transition) reinforce(scaledWeight float64) {
	t.weight += scaledWeight
	t.frequency++
}

// TransitionSnapshot is the persisted form of a transition. Field names are
// part of the stable document format.
type TransitionSnapshot struct {
	FromConcept  string                `json:"from_concept"`
	ToConcept    string                `json:"to_concept"`
	Weight       float64               `json:"weight"`
	RelationType ontology.RelationType `json:"relation_type,omitempty"`
	Context      string                `json:"context,omitempty"`
	Frequency    int                   `json:"frequency"`
}

// Snapshot captures the transition for persistence.
func (t *Transition) Snapshot() TransitionSnapshot {
	return TransitionSnapshot{
		FromConcept:  t.from,
		ToConcept:    t.to,
		Weight:       t.weight,
		RelationType: t.relationType,
		Context:      t.context,
		Frequency:    t.frequency,
	}
}

// TransitionFromSnapshot rebuilds a transition from its persisted form.
func TransitionFromSnapshot(snap TransitionSnapshot) (*Transition, error) {
	t, err := NewTransition(snap.FromConcept, snap.ToConcept, snap.Weight, snap.RelationType, snap.Context)
	if err != nil {
		return nil, err
	}
	if snap.Frequency > 0 {
		t.frequency = snap.Frequency
	}
	return t, nil
}
