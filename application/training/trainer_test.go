package training

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/XenocodeRCE/SophIA-sub000/domain/ontology"
	"github.com/XenocodeRCE/SophIA-sub000/domain/transition"
)

func buildGraph(t *testing.T, concepts ...string) *ontology.ConceptGraph {
	t.Helper()
	g := ontology.NewConceptGraph(nil)
	for _, name := range concepts {
		_, err := g.AddConcept(name, ontology.TypeEpistemic, ontology.ConceptAttrs{})
		require.NoError(t, err)
	}
	return g
}

func buildModel(t *testing.T, g *ontology.ConceptGraph) *transition.Model {
	t.Helper()
	m, err := transition.NewModel(g, transition.DefaultLearningRate, nil)
	require.NoError(t, err)
	return m
}

func TestNewTrainer(t *testing.T) {
	t.Run("requires a model", func(t *testing.T) {
		_, err := NewTrainer(nil, Options{}, nil)
		assert.Error(t, err)
	})

	t.Run("applies defaults", func(t *testing.T) {
		m := buildModel(t, buildGraph(t, "A"))
		trainer, err := NewTrainer(m, Options{}, nil)
		require.NoError(t, err)

		assert.Equal(t, DefaultBatchSize, trainer.BatchSize())
		assert.Equal(t, DefaultValidationSplit, trainer.ValidationSplit())
		assert.Equal(t, TypeBase, trainer.Type())
		assert.Nil(t, trainer.Adjuster())
	})

	t.Run("rejects out-of-range validation split", func(t *testing.T) {
		m := buildModel(t, buildGraph(t, "A"))
		_, err := NewTrainer(m, Options{ValidationSplit: 1.0}, nil)
		assert.Error(t, err)
		_, err = NewTrainer(m, Options{ValidationSplit: -0.1}, nil)
		assert.Error(t, err)
	})

	t.Run("ontology aware trainer has an adjuster", func(t *testing.T) {
		m := buildModel(t, buildGraph(t, "A"))
		trainer, err := NewOntologyAwareTrainer(m, Options{}, 0, nil)
		require.NoError(t, err)

		assert.Equal(t, TypeOntologyAware, trainer.Type())
		require.NotNil(t, trainer.Adjuster())
		assert.Equal(t, DefaultConsistencyWeight, trainer.Adjuster().ConsistencyWeight())
	})
}

func TestTrainSingleSequence(t *testing.T) {
	g := buildGraph(t, "TRUTH", "KNOWLEDGE", "BEING")
	m := buildModel(t, g)
	trainer, err := NewTrainer(m, Options{}, nil)
	require.NoError(t, err)

	run, err := trainer.Train([][]string{{"TRUTH", "KNOWLEDGE", "BEING"}}, 1)
	require.NoError(t, err)
	require.Len(t, run, 1)

	assert.Equal(t, 1, run[0].Epoch)
	assert.Equal(t, 2, run[0].TransitionsLearned)
	assert.Zero(t, run[0].OntologicalViolations)
	assert.Equal(t, 1.0, run[0].SequenceCoverage)
	// No sequence was held out, so there is nothing to score coherence on.
	assert.Zero(t, run[0].CoherenceScore)

	sequence, err := m.GenerateSequence("TRUTH", 3, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"TRUTH", "KNOWLEDGE", "BEING"}, sequence)
}

func TestTrainValidation(t *testing.T) {
	g := buildGraph(t, "A", "B")
	m := buildModel(t, g)
	trainer, err := NewTrainer(m, Options{}, nil)
	require.NoError(t, err)

	_, err = trainer.Train(nil, 1)
	assert.Error(t, err)

	_, err = trainer.Train([][]string{{"A", "B"}}, 0)
	assert.Error(t, err)

	t.Run("nothing trainable after filtering", func(t *testing.T) {
		_, err := trainer.Train([][]string{{"GHOST", "PHANTOM"}}, 1)
		assert.Error(t, err)
	})
}

func TestTrainSkipsUnknownConcepts(t *testing.T) {
	g := buildGraph(t, "TRUTH", "KNOWLEDGE", "BEING")
	m := buildModel(t, g)
	trainer, err := NewTrainer(m, Options{}, nil)
	require.NoError(t, err)

	// A sequence naming an unknown concept trains on its known remainder and
	// never aborts the run.
	run, err := trainer.Train([][]string{
		{"TRUTH", "GHOST", "BEING"},
		{"TRUTH", "KNOWLEDGE", "BEING"},
	}, 1)
	require.NoError(t, err)
	require.Len(t, run, 1)

	_, ok := m.Transition("KNOWLEDGE", "BEING")
	assert.True(t, ok)
	_, ok = m.Transition("TRUTH", "BEING")
	assert.True(t, ok)
	_, ok = m.Transition("TRUTH", "GHOST")
	assert.False(t, ok)
}

func TestTrainHoldsOutValidationSet(t *testing.T) {
	g := buildGraph(t, "A", "B", "C", "D", "E", "F")
	m := buildModel(t, g)
	trainer, err := NewTrainer(m, Options{ValidationSplit: 0.5}, nil)
	require.NoError(t, err)
	trainer.SetRandomSource(rand.NewSource(1))

	sequences := [][]string{
		{"A", "B"},
		{"C", "D"},
		{"E", "F"}, // held out
		{"F", "E"}, // held out
	}
	_, err = trainer.Train(sequences, 2)
	require.NoError(t, err)

	_, trained := m.Transition("A", "B")
	assert.True(t, trained)
	_, heldOut := m.Transition("E", "F")
	assert.False(t, heldOut)
}

func TestTrainEpochNumberingContinues(t *testing.T) {
	g := buildGraph(t, "A", "B")
	m := buildModel(t, g)
	trainer, err := NewTrainer(m, Options{}, nil)
	require.NoError(t, err)

	_, err = trainer.Train([][]string{{"A", "B"}}, 2)
	require.NoError(t, err)
	run, err := trainer.Train([][]string{{"A", "B"}}, 1)
	require.NoError(t, err)

	assert.Equal(t, 3, run[0].Epoch)
	assert.Len(t, trainer.History(), 3)
}

func TestTrainLossDecreasesAcrossEpochs(t *testing.T) {
	g := buildGraph(t, "A", "B", "C")
	m := buildModel(t, g)
	trainer, err := NewTrainer(m, Options{}, nil)
	require.NoError(t, err)

	run, err := trainer.Train([][]string{{"A", "B", "C"}}, 3)
	require.NoError(t, err)
	require.Len(t, run, 3)

	// The first epoch learns the sequence outright; later epochs only
	// reinforce, so their loss magnitude shrinks.
	assert.Less(t, run[0].Loss, 0.0)
	assert.Greater(t, run[2].Loss, run[0].Loss)
}

func TestTrainCountsViolations(t *testing.T) {
	g := buildGraph(t, "TRUTH", "FALSEHOOD")
	require.True(t, g.AddRelation("TRUTH", ontology.RelationContradicts, "FALSEHOOD"))
	m := buildModel(t, g)
	trainer, err := NewTrainer(m, Options{}, nil)
	require.NoError(t, err)

	run, err := trainer.Train([][]string{{"TRUTH", "FALSEHOOD"}}, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, run[0].OntologicalViolations)
}

func TestOntologyAwareTrainingAdjustsWeights(t *testing.T) {
	g := buildGraph(t, "KNOWLEDGE", "TRUTH")
	require.True(t, g.AddRelation("KNOWLEDGE", ontology.RelationImplies, "TRUTH"))
	m := buildModel(t, g)
	trainer, err := NewOntologyAwareTrainer(m, Options{}, DefaultConsistencyWeight, nil)
	require.NoError(t, err)

	_, err = trainer.Train([][]string{{"KNOWLEDGE", "TRUTH"}}, 1)
	require.NoError(t, err)

	// The implies constraint rescales the learned weight by 1+0.3*1.0.
	tr, ok := m.Transition("KNOWLEDGE", "TRUTH")
	require.True(t, ok)
	assert.InDelta(t, 1.3, tr.Weight(), 1e-12)
}

func TestTrainCoherenceUsesHeldOutSplit(t *testing.T) {
	g := buildGraph(t, "KNOWLEDGE", "TRUTH", "A", "B")
	require.True(t, g.AddRelation("KNOWLEDGE", ontology.RelationImplies, "TRUTH"))
	m := buildModel(t, g)
	trainer, err := NewTrainer(m, Options{ValidationSplit: 0.5}, nil)
	require.NoError(t, err)

	// The unrelated pair trains; the implied pair is the held-out half and
	// alone determines the coherence score.
	run, err := trainer.Train([][]string{
		{"A", "B"},
		{"KNOWLEDGE", "TRUTH"},
	}, 1)
	require.NoError(t, err)
	assert.InDelta(t, 1.0/1.2, run[0].CoherenceScore, 1e-12)
}

func TestTrainCountsPairsEveryEpoch(t *testing.T) {
	g := buildGraph(t, "A", "B")
	m := buildModel(t, g)
	trainer, err := NewTrainer(m, Options{}, nil)
	require.NoError(t, err)

	run, err := trainer.Train([][]string{{"A", "B"}}, 2)
	require.NoError(t, err)
	require.Len(t, run, 2)

	// The second epoch retrains the same pair and still reports it.
	assert.Equal(t, 1, run[0].TransitionsLearned)
	assert.Equal(t, 1, run[1].TransitionsLearned)
}

func TestTrainerSummary(t *testing.T) {
	g := buildGraph(t, "A", "B")
	m := buildModel(t, g)
	trainer, err := NewTrainer(m, Options{}, nil)
	require.NoError(t, err)

	_, err = trainer.Train([][]string{{"A", "B"}}, 2)
	require.NoError(t, err)

	history := trainer.History()
	summary := trainer.Summary()
	assert.Equal(t, 2, summary.TotalEpochs)
	assert.Equal(t, 2, summary.TransitionsLearned)
	assert.Equal(t, history[1].Loss, summary.FinalLoss)
	assert.Equal(t, history[0].Loss, summary.BestLoss)
	assert.Equal(t, history[0].Loss-history[1].Loss, summary.LossImprovement)
	assert.Equal(t, history[1].CoherenceScore, summary.FinalCoherence)
	assert.Equal(t, history[1].CoherenceScore-history[0].CoherenceScore, summary.CoherenceImprovement)
}
