package transition

import (
	"math"

	"go.uber.org/zap"

	"github.com/XenocodeRCE/SophIA-sub000/domain/ontology"
	pkgerrors "github.com/XenocodeRCE/SophIA-sub000/pkg/errors"
)

// generationCandidateLimit caps how many next-concept candidates are
// considered at each generation step.
const generationCandidateLimit = 10

// GenerateSequence walks the transition model from a starting concept and
// returns a sequence of at most length concepts, the start included. Each
// step considers the top learned candidates, falling back to the graph's
// ontological candidates when nothing was learned. Concepts already emitted
// are filtered out before choosing, so a step never burns on a cycle; the
// walk stops early when no unused candidate remains.
//
// Temperature zero picks the most probable candidate; a positive temperature
// samples after raising probabilities to the power 1/temperature, so high
// temperatures flatten the distribution.
func (m *Model) GenerateSequence(start string, length int, temperature float64) ([]string, error) {
	startName := ontology.NormalizeName(start)
	if !m.graph.HasConcept(startName) {
		m.logger.Warn("generation start concept not in graph", zap.String("concept", startName))
		return nil, pkgerrors.NewNotFound("concept not in graph: " + startName)
	}
	if temperature < 0 {
		return nil, pkgerrors.NewValidation("temperature cannot be negative")
	}
	if length < 1 {
		return nil, pkgerrors.NewValidation("sequence length must be at least 1")
	}

	sequence := []string{startName}
	used := map[string]bool{startName: true}
	current := startName

	for len(sequence) < length {
		candidates := m.NextConcepts(current, generationCandidateLimit)
		if len(candidates) == 0 {
			candidates = m.OntologicalNextConcepts(current, generationCandidateLimit)
		}

		unused := candidates[:0:0]
		for _, c := range candidates {
			if !used[c.Concept] {
				unused = append(unused, c)
			}
		}
		if len(unused) == 0 {
			m.logger.Debug("generation stopped early",
				zap.String("at", current),
				zap.Int("emitted", len(sequence)),
			)
			break
		}

		next := m.chooseCandidate(unused, temperature)
		sequence = append(sequence, next)
		used[next] = true
		current = next
	}
	return sequence, nil
}

// chooseCandidate picks from a non-empty candidate list. Candidates must be
// sorted by descending probability.
func (m *Model) chooseCandidate(candidates []Candidate, temperature float64) string {
	if temperature == 0 || len(candidates) == 1 {
		return candidates[0].Concept
	}

	weights := make([]float64, len(candidates))
	total := 0.0
	for i, c := range candidates {
		weights[i] = math.Pow(c.Probability, 1.0/temperature)
		total += weights[i]
	}
	if total <= 0 {
		return candidates[0].Concept
	}

	r := m.rng.Float64() * total
	acc := 0.0
	for i, w := range weights {
		acc += w
		if r <= acc {
			return candidates[i].Concept
		}
	}
	return candidates[len(candidates)-1].Concept
}

// EvaluateSequenceProbability scores how plausible a sequence is under the
// model, as the product of per-step transition probabilities with each step
// floored at a small epsilon. A sequence shorter than two concepts scores 1.
// The product is computed in log space to avoid underflow on long sequences.
func (m *Model) EvaluateSequenceProbability(sequence []string) float64 {
	if len(sequence) < 2 {
		return 1.0
	}
	logSum := 0.0
	for i := 0; i+1 < len(sequence); i++ {
		logSum += math.Log(m.TransitionProbability(sequence[i], sequence[i+1]))
	}
	return math.Exp(logSum)
}
