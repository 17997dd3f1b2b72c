package ontology

import (
	"fmt"

	"go.uber.org/zap"
)

// ConsistencyReport lists every structural problem found in a graph. Empty
// slices mean a consistent graph.
type ConsistencyReport struct {
	Contradictions     []string `json:"contradictions"`
	CircularReferences []string `json:"circular_references"`
	MissingConcepts    []string `json:"missing_concepts"`
	OrphanedConcepts   []string `json:"orphaned_concepts"`
}

// IsConsistent reports whether the graph passed all checks.
func (r ConsistencyReport) IsConsistent() bool {
	return len(r.Contradictions) == 0 &&
		len(r.CircularReferences) == 0 &&
		len(r.MissingConcepts) == 0 &&
		len(r.OrphanedConcepts) == 0
}

// ValidateConsistency inspects the whole graph for logical contradictions
// (a concept both implying and contradicting the same target), self-loops,
// relation targets that are not registered concepts, and concepts with no
// relations at all in either direction.
func (g *ConceptGraph) ValidateConsistency() ConsistencyReport {
	report := ConsistencyReport{
		Contradictions:     []string{},
		CircularReferences: []string{},
		MissingConcepts:    []string{},
		OrphanedConcepts:   []string{},
	}

	missing := make(map[string]bool)
	inbound := make(map[string]bool)

	for name, concept := range g.concepts {
		for relType, targets := range concept.relations {
			for _, target := range targets {
				if _, ok := g.concepts[target]; !ok {
					missing[target] = true
					continue
				}
				inbound[target] = true
				if target == name {
					report.CircularReferences = append(report.CircularReferences,
						fmt.Sprintf("%s %s %s", name, relType, target))
				}
			}
		}

		for _, target := range concept.relations[RelationImplies] {
			if concept.HasRelation(RelationContradicts, target) {
				report.Contradictions = append(report.Contradictions,
					fmt.Sprintf("%s both implies and contradicts %s", name, target))
			}
		}
	}

	for target := range missing {
		report.MissingConcepts = append(report.MissingConcepts, target)
	}
	for name, concept := range g.concepts {
		if len(concept.relations) == 0 && !inbound[name] {
			report.OrphanedConcepts = append(report.OrphanedConcepts, name)
		}
	}

	if !report.IsConsistent() {
		g.logger.Warn("graph consistency check found issues",
			zap.Int("contradictions", len(report.Contradictions)),
			zap.Int("circular_references", len(report.CircularReferences)),
			zap.Int("missing_concepts", len(report.MissingConcepts)),
			zap.Int("orphaned_concepts", len(report.OrphanedConcepts)),
		)
	}
	return report
}
