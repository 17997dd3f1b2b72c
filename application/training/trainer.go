package training

import (
	"math"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/XenocodeRCE/SophIA-sub000/domain/ontology"
	"github.com/XenocodeRCE/SophIA-sub000/domain/transition"
	pkgerrors "github.com/XenocodeRCE/SophIA-sub000/pkg/errors"
)

// Trainer wire-format type names.
const (
	TypeBase          = "base"
	TypeOntologyAware = "ontology_aware"
)

// Training hyperparameter defaults.
const (
	DefaultBatchSize       = 32
	DefaultValidationSplit = 0.2
)

// lossEpsilon floors sequence probabilities before taking the loss
// logarithm.
const lossEpsilon = 1e-10

// Options tunes a Trainer. Zero values fall back to the defaults.
type Options struct {
	BatchSize       int
	ValidationSplit float64
}

// Trainer drives epoch-based training of a transition model over concept
// sequences. With an ontology adjuster attached it also pulls learned
// weights toward the graph's structure after every epoch.
//
// A Trainer is not safe for concurrent use.
type Trainer struct {
	model           *transition.Model
	batchSize       int
	validationSplit float64
	adjuster        *OntologyAdjuster
	history         []TrainingMetrics
	rng             *rand.Rand
	logger          *zap.Logger
}

// NewTrainer creates a plain trainer without ontological adjustment.
func NewTrainer(model *transition.Model, opts Options, logger *zap.Logger) (*Trainer, error) {
	if model == nil {
		return nil, pkgerrors.NewValidation("transition model is required")
	}
	if opts.ValidationSplit < 0 || opts.ValidationSplit >= 1 {
		return nil, pkgerrors.NewValidation("validation split must be in [0,1)")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	validationSplit := opts.ValidationSplit
	if validationSplit == 0 {
		validationSplit = DefaultValidationSplit
	}

	return &Trainer{
		model:           model,
		batchSize:       batchSize,
		validationSplit: validationSplit,
		rng:             rand.New(rand.NewSource(time.Now().UnixNano())),
		logger:          logger,
	}, nil
}

// NewOntologyAwareTrainer creates a trainer that applies ontological
// constraints from the model's graph after every epoch.
func NewOntologyAwareTrainer(model *transition.Model, opts Options, consistencyWeight float64, logger *zap.Logger) (*Trainer, error) {
	trainer, err := NewTrainer(model, opts, logger)
	if err != nil {
		return nil, err
	}
	trainer.adjuster = NewOntologyAdjuster(model.Graph(), consistencyWeight, trainer.logger)
	return trainer, nil
}

// Type returns the trainer's wire-format type name.
func (t *Trainer) Type() string {
	if t.adjuster != nil {
		return TypeOntologyAware
	}
	return TypeBase
}

// Model returns the trained model.
func (t *Trainer) Model() *transition.Model {
	return t.model
}

// Adjuster returns the attached ontology adjuster, nil for a base trainer.
func (t *Trainer) Adjuster() *OntologyAdjuster {
	return t.adjuster
}

// BatchSize returns the configured batch size.
func (t *Trainer) BatchSize() int {
	return t.batchSize
}

// ValidationSplit returns the configured validation fraction.
func (t *Trainer) ValidationSplit() float64 {
	return t.validationSplit
}

// History returns a copy of the per-epoch metrics accumulated across all
// Train calls.
func (t *Trainer) History() []TrainingMetrics {
	history := make([]TrainingMetrics, len(t.history))
	copy(history, t.history)
	return history
}

// SetRandomSource replaces the shuffling source, mainly for deterministic
// tests.
func (t *Trainer) SetRandomSource(src rand.Source) {
	t.rng = rand.New(src)
}

// Train runs the given number of epochs over the sequences and returns the
// per-epoch metrics for this call. Concepts absent from the graph are
// filtered out of each sequence first, and sequences left too short by the
// filtering are dropped, so one bad sequence never aborts a run. The tail of
// the remaining input is held out as a validation set for coherence scoring
// and never trained on; only the training portion is reshuffled between
// epochs. Epoch numbering continues across calls.
func (t *Trainer) Train(sequences [][]string, epochs int) ([]TrainingMetrics, error) {
	if epochs < 1 {
		return nil, pkgerrors.NewValidation("epochs must be at least 1")
	}
	if len(sequences) == 0 {
		return nil, pkgerrors.NewValidation("no training sequences provided")
	}
	sequences = t.filterKnown(sequences)
	if len(sequences) == 0 {
		return nil, pkgerrors.NewValidation("no trainable sequences after filtering unknown concepts")
	}

	split := len(sequences) - int(float64(len(sequences))*t.validationSplit)
	trainSet := make([][]string, split)
	copy(trainSet, sequences[:split])
	validationSet := sequences[split:]

	t.logger.Info("training started",
		zap.String("trainer", t.Type()),
		zap.Int("epochs", epochs),
		zap.Int("train_sequences", len(trainSet)),
		zap.Int("validation_sequences", len(validationSet)),
	)

	run := make([]TrainingMetrics, 0, epochs)
	for i := 0; i < epochs; i++ {
		t.rng.Shuffle(len(trainSet), func(a, b int) {
			trainSet[a], trainSet[b] = trainSet[b], trainSet[a]
		})

		metrics := t.trainEpoch(trainSet)

		if t.adjuster != nil {
			t.adjuster.Apply(t.model)
		}

		metrics.Epoch = len(t.history) + 1
		metrics.CoherenceScore = t.meanCoherence(validationSet)
		metrics.Timestamp = time.Now()

		t.history = append(t.history, metrics)
		run = append(run, metrics)

		t.logger.Info("epoch finished",
			zap.Int("epoch", metrics.Epoch),
			zap.Float64("loss", metrics.Loss),
			zap.Float64("coherence", metrics.CoherenceScore),
			zap.Int("violations", metrics.OntologicalViolations),
		)
	}
	return run, nil
}

// trainEpoch runs one pass over the training set in batches. The loss for a
// sequence is the negative log ratio of its model probability after versus
// before training on it, so a model that keeps improving reports negative
// loss. Sequences shorter than two concepts are skipped and excluded from
// the loss mean. TransitionsLearned counts every pair trained during the
// epoch, repeats included.
func (t *Trainer) trainEpoch(trainSet [][]string) TrainingMetrics {
	var metrics TrainingMetrics

	totalLoss := 0.0
	processed := 0

	for start := 0; start < len(trainSet); start += t.batchSize {
		end := start + t.batchSize
		if end > len(trainSet) {
			end = len(trainSet)
		}
		for _, sequence := range trainSet[start:end] {
			if len(sequence) < 2 {
				continue
			}

			before := t.model.EvaluateSequenceProbability(sequence)
			metrics.TransitionsLearned += t.model.TrainOnSequence(sequence, "")
			after := t.model.EvaluateSequenceProbability(sequence)

			totalLoss += -math.Log(math.Max(after, lossEpsilon) / math.Max(before, lossEpsilon))
			processed++

			metrics.OntologicalViolations += countViolations(t.model.Graph(), sequence)
		}
	}

	if processed > 0 {
		metrics.Loss = totalLoss / float64(processed)
	}
	metrics.SequenceCoverage = t.sequenceCoverage(trainSet)
	return metrics
}

// filterKnown strips concepts the graph does not hold from each sequence and
// drops sequences that the filtering leaves shorter than one pair. Dropped
// names are logged so bad input stays visible.
func (t *Trainer) filterKnown(sequences [][]string) [][]string {
	out := make([][]string, 0, len(sequences))
	for _, sequence := range sequences {
		known := make([]string, 0, len(sequence))
		var dropped []string
		for _, name := range sequence {
			normalized := ontology.NormalizeName(name)
			if t.model.Graph().HasConcept(normalized) {
				known = append(known, normalized)
			} else {
				dropped = append(dropped, normalized)
			}
		}
		if len(dropped) > 0 {
			t.logger.Warn("dropping concepts not in the graph", zap.Strings("concepts", dropped))
		}
		if len(known) < 2 {
			continue
		}
		out = append(out, known)
	}
	return out
}

// meanCoherence averages the ontological coherence over a sequence set. An
// empty set, such as a run without a held-out validation split, scores zero.
func (t *Trainer) meanCoherence(sequences [][]string) float64 {
	if len(sequences) == 0 {
		return 0
	}
	total := 0.0
	for _, sequence := range sequences {
		total += SequenceCoherence(t.model.Graph(), sequence)
	}
	return total / float64(len(sequences))
}

// sequenceCoverage reports the fraction of graph concepts touched by the
// sequences.
func (t *Trainer) sequenceCoverage(sequences [][]string) float64 {
	conceptCount := t.model.Graph().ConceptCount()
	if conceptCount == 0 {
		return 0
	}
	seen := make(map[string]bool)
	for _, sequence := range sequences {
		for _, name := range sequence {
			normalized := ontology.NormalizeName(name)
			if t.model.Graph().HasConcept(normalized) {
				seen[normalized] = true
			}
		}
	}
	return float64(len(seen)) / float64(conceptCount)
}

// Summary aggregates the trainer's full metric history.
func (t *Trainer) Summary() Summary {
	return Summarize(t.history)
}
