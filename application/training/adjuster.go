package training

import (
	"go.uber.org/zap"

	"github.com/XenocodeRCE/SophIA-sub000/domain/ontology"
	"github.com/XenocodeRCE/SophIA-sub000/domain/transition"
)

// DefaultConsistencyWeight controls how strongly ontological constraints
// rescale learned transition weights.
const DefaultConsistencyWeight = 0.3

// adjustmentThreshold is the smallest weight delta counted as an effective
// adjustment.
const adjustmentThreshold = 0.01

// constraintWeights maps a relation type to its constraint strength.
// Positive strengths reinforce transitions along the relation; negative
// strengths suppress them. Unlisted types get constraintDefaultWeight.
var constraintWeights = map[ontology.RelationType]float64{
	ontology.RelationImplies:     1.0,
	ontology.RelationIsA:         0.8,
	ontology.RelationEnables:     0.7,
	ontology.RelationDefines:     0.6,
	ontology.RelationExplains:    0.5,
	ontology.RelationHasProperty: 0.4,
	ontology.RelationContradicts: -1.0,
	ontology.RelationOpposes:     -0.8,
}

const constraintDefaultWeight = 0.2

// constraint is one directed concept pair with its ontological strength.
type constraint struct {
	from   string
	to     string
	weight float64
}

// OntologyAdjuster rescales a model's learned transition weights toward the
// graph's ontological structure. Constraints are extracted once at
// construction; a graph mutated afterwards needs a new adjuster.
type OntologyAdjuster struct {
	constraints       []constraint
	consistencyWeight float64
	logger            *zap.Logger
}

// NewOntologyAdjuster extracts every relation of the graph into a weighted
// constraint. A non-positive consistencyWeight falls back to
// DefaultConsistencyWeight; a nil logger becomes a no-op.
func NewOntologyAdjuster(graph *ontology.ConceptGraph, consistencyWeight float64, logger *zap.Logger) *OntologyAdjuster {
	if consistencyWeight <= 0 {
		consistencyWeight = DefaultConsistencyWeight
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	var constraints []constraint
	for name, concept := range graph.Concepts() {
		for relType, targets := range concept.Relations() {
			weight, listed := constraintWeights[relType]
			if !listed {
				weight = constraintDefaultWeight
			}
			for _, target := range targets {
				constraints = append(constraints, constraint{from: name, to: target, weight: weight})
			}
		}
	}

	logger.Debug("ontological constraints extracted", zap.Int("constraints", len(constraints)))
	return &OntologyAdjuster{
		constraints:       constraints,
		consistencyWeight: consistencyWeight,
		logger:            logger,
	}
}

// ConstraintCount returns how many constraints were extracted.
func (a *OntologyAdjuster) ConstraintCount() int {
	return len(a.constraints)
}

// ConsistencyWeight returns the configured rescale strength.
func (a *OntologyAdjuster) ConsistencyWeight() float64 {
	return a.consistencyWeight
}

// Apply rescales every learned transition covered by a constraint: the
// weight is multiplied by 1+consistencyWeight*strength, so positive
// constraints amplify and negative ones dampen. It returns the number of
// transitions whose weight moved by more than the adjustment threshold.
func (a *OntologyAdjuster) Apply(model *transition.Model) int {
	adjusted := 0
	for _, c := range a.constraints {
		factor := 1.0 + a.consistencyWeight*c.weight
		delta := model.AdjustTransitionWeight(c.from, c.to, factor)
		if delta > adjustmentThreshold || delta < -adjustmentThreshold {
			adjusted++
		}
	}
	if adjusted > 0 {
		a.logger.Debug("transition weights adjusted", zap.Int("adjusted", adjusted))
	}
	return adjusted
}
