package training

import "time"

// TrainingMetrics captures the outcome of one training epoch.
type TrainingMetrics struct {
	Epoch                 int       `json:"epoch"`
	Loss                  float64   `json:"loss"`
	CoherenceScore        float64   `json:"coherence_score"`
	OntologicalViolations int       `json:"ontological_violations"`
	TransitionsLearned    int       `json:"transitions_learned"`
	SequenceCoverage      float64   `json:"sequence_coverage"`
	Timestamp             time.Time `json:"timestamp"`
}

// Summary aggregates a full training run. All fields are zero when no epoch
// ran. The improvement deltas compare the last epoch against the first, so
// LossImprovement is positive when the loss went down and
// CoherenceImprovement is positive when the coherence went up.
type Summary struct {
	TotalEpochs           int     `json:"total_epochs"`
	FinalLoss             float64 `json:"final_loss"`
	BestLoss              float64 `json:"best_loss"`
	LossImprovement       float64 `json:"loss_improvement"`
	FinalCoherence        float64 `json:"final_coherence"`
	BestCoherence         float64 `json:"best_coherence"`
	CoherenceImprovement  float64 `json:"coherence_improvement"`
	TotalViolations       int     `json:"total_violations"`
	TransitionsLearned    int     `json:"transitions_learned"`
	FinalSequenceCoverage float64 `json:"final_sequence_coverage"`
}

// Summarize folds a metric history into a Summary.
func Summarize(history []TrainingMetrics) Summary {
	summary := Summary{TotalEpochs: len(history)}
	if len(history) == 0 {
		return summary
	}
	first := history[0]
	last := history[len(history)-1]
	summary.FinalLoss = last.Loss
	summary.BestLoss = first.Loss
	summary.LossImprovement = first.Loss - last.Loss
	summary.FinalCoherence = last.CoherenceScore
	summary.CoherenceImprovement = last.CoherenceScore - first.CoherenceScore
	summary.FinalSequenceCoverage = last.SequenceCoverage
	for _, m := range history {
		if m.Loss < summary.BestLoss {
			summary.BestLoss = m.Loss
		}
		if m.CoherenceScore > summary.BestCoherence {
			summary.BestCoherence = m.CoherenceScore
		}
		summary.TotalViolations += m.OntologicalViolations
		summary.TransitionsLearned += m.TransitionsLearned
	}
	return summary
}
