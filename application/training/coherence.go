package training

import (
	"github.com/XenocodeRCE/SophIA-sub000/domain/ontology"
)

// coherenceRelationWeights scores a direct relation between two adjacent
// sequence concepts. Contradictory relations pull the score down.
var coherenceRelationWeights = map[ontology.RelationType]float64{
	ontology.RelationImplies:     1.0,
	ontology.RelationIsA:         0.8,
	ontology.RelationEnables:     0.7,
	ontology.RelationDefines:     0.6,
	ontology.RelationContradicts: -1.0,
	ontology.RelationOpposes:     -0.5,
}

// coherenceDefaultWeight applies per direct relation of a type not listed
// above. Pairs with no relation at all earn nothing.
const coherenceDefaultWeight = 0.3

// typeCompatibilityBonus rewards adjacent concepts whose types naturally
// combine.
const typeCompatibilityBonus = 0.2

// maxPairScore is the nominal per-pair maximum (the strongest single
// relation plus the type bonus) used to normalize the total; a multiply
// related pair can exceed it and is absorbed by the final clamp.
const maxPairScore = 1.0 + typeCompatibilityBonus

var compatibleTypePairs = map[[2]ontology.ConceptType]bool{
	{ontology.TypeEntity, ontology.TypeProperty}:   true,
	{ontology.TypeEntity, ontology.TypeEpistemic}:  true,
	{ontology.TypeEpistemic, ontology.TypeLogical}: true,
	{ontology.TypeLogical, ontology.TypeEpistemic}: true,
	{ontology.TypeMoral, ontology.TypeValue}:       true,
	{ontology.TypeValue, ontology.TypeMoral}:       true,
}

// SequenceCoherence scores how well a sequence follows the graph's
// ontological structure, in [0,1]. Each adjacent pair contributes the summed
// weights of its direct relations plus a bonus when the two concept types
// are compatible; a pair with no relation and incompatible types contributes
// nothing. The total is normalized by the nominal per-pair maximum and
// clamped. Sequences shorter than two concepts score zero.
func SequenceCoherence(graph *ontology.ConceptGraph, sequence []string) float64 {
	if len(sequence) < 2 {
		return 0
	}

	total := 0.0
	for i := 0; i+1 < len(sequence); i++ {
		total += pairCoherence(graph, sequence[i], sequence[i+1])
	}

	normalized := total / (maxPairScore * float64(len(sequence)-1))
	if normalized < 0 {
		return 0
	}
	if normalized > 1 {
		return 1
	}
	return normalized
}

func pairCoherence(graph *ontology.ConceptGraph, from, to string) float64 {
	fromConcept, okFrom := graph.GetConcept(from)
	toConcept, okTo := graph.GetConcept(to)
	if !okFrom || !okTo {
		return 0
	}

	score := 0.0
	toName := toConcept.Name()
	for relType, targets := range fromConcept.Relations() {
		for _, target := range targets {
			if target != toName {
				continue
			}
			weight, listed := coherenceRelationWeights[relType]
			if !listed {
				weight = coherenceDefaultWeight
			}
			score += weight
			break
		}
	}

	if typesCompatible(fromConcept.Type(), toConcept.Type()) {
		score += typeCompatibilityBonus
	}
	return score
}

func typesCompatible(a, b ontology.ConceptType) bool {
	return compatibleTypePairs[[2]ontology.ConceptType{a, b}] ||
		compatibleTypePairs[[2]ontology.ConceptType{b, a}]
}

// countViolations counts adjacent pairs that the graph explicitly marks as
// contradictory, in either direction.
func countViolations(graph *ontology.ConceptGraph, sequence []string) int {
	violations := 0
	for i := 0; i+1 < len(sequence); i++ {
		from, okFrom := graph.GetConcept(sequence[i])
		to, okTo := graph.GetConcept(sequence[i+1])
		if !okFrom || !okTo {
			continue
		}
		if from.HasRelation(ontology.RelationContradicts, to.Name()) ||
			to.HasRelation(ontology.RelationContradicts, from.Name()) {
			violations++
		}
	}
	return violations
}
