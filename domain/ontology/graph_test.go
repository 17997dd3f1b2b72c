package ontology

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGraph(t *testing.T) *ConceptGraph {
	t.Helper()
	return NewConceptGraph(nil)
}

func TestAddConcept(t *testing.T) {
	t.Run("adds and normalizes", func(t *testing.T) {
		g := newTestGraph(t)

		c, err := g.AddConcept("  truth ", TypeEpistemic, ConceptAttrs{})
		require.NoError(t, err)
		assert.Equal(t, "TRUTH", c.Name())

		got, ok := g.GetConcept("truth")
		require.True(t, ok)
		assert.Same(t, c, got)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		g := newTestGraph(t)
		_, err := g.AddConcept("   ", TypeEntity, ConceptAttrs{})
		assert.Error(t, err)
		assert.Equal(t, 0, g.ConceptCount())
	})

	t.Run("re-adding merges instead of replacing", func(t *testing.T) {
		g := newTestGraph(t)

		first, err := g.AddConcept("truth", TypeEpistemic, ConceptAttrs{})
		require.NoError(t, err)
		first.addRelation(RelationImplies, "BEING")

		second, err := g.AddConcept("TRUTH", TypeEpistemic, ConceptAttrs{Domain: "epistemology"})
		require.NoError(t, err)

		assert.Same(t, first, second)
		assert.Equal(t, 1, g.ConceptCount())
		assert.Equal(t, "epistemology", second.Domain())
		assert.True(t, second.HasRelation(RelationImplies, "BEING"))
	})
}

func TestAddRelation(t *testing.T) {
	setup := func(t *testing.T) *ConceptGraph {
		t.Helper()
		g := newTestGraph(t)
		for _, name := range []string{"TRUTH", "KNOWLEDGE", "FALSEHOOD"} {
			_, err := g.AddConcept(name, TypeEpistemic, ConceptAttrs{})
			require.NoError(t, err)
		}
		return g
	}

	t.Run("stores relation between known concepts", func(t *testing.T) {
		g := setup(t)

		assert.True(t, g.AddRelation("knowledge", RelationImplies, "truth"))
		c, _ := g.GetConcept("KNOWLEDGE")
		assert.True(t, c.HasRelation(RelationImplies, "TRUTH"))
	})

	t.Run("rejects unknown concepts", func(t *testing.T) {
		g := setup(t)

		assert.False(t, g.AddRelation("KNOWLEDGE", RelationImplies, "WISDOM"))
		assert.False(t, g.AddRelation("WISDOM", RelationImplies, "KNOWLEDGE"))
	})

	t.Run("rejects self contradiction and opposition", func(t *testing.T) {
		g := setup(t)

		assert.False(t, g.AddRelation("TRUTH", RelationContradicts, "TRUTH"))
		assert.False(t, g.AddRelation("TRUTH", RelationOpposes, "TRUTH"))
		assert.True(t, g.AddRelation("TRUTH", RelationIsEquivalent, "TRUTH"))
	})

	t.Run("rejects implies after contradicts for same pair", func(t *testing.T) {
		g := setup(t)

		require.True(t, g.AddRelation("TRUTH", RelationContradicts, "FALSEHOOD"))
		assert.False(t, g.AddRelation("TRUTH", RelationImplies, "FALSEHOOD"))
	})

	t.Run("rejects contradicts after implies for same pair", func(t *testing.T) {
		g := setup(t)

		require.True(t, g.AddRelation("KNOWLEDGE", RelationImplies, "TRUTH"))
		assert.False(t, g.AddRelation("KNOWLEDGE", RelationContradicts, "TRUTH"))
	})

	t.Run("stores symmetric inverse", func(t *testing.T) {
		g := setup(t)

		require.True(t, g.AddRelation("TRUTH", RelationContradicts, "FALSEHOOD"))
		falsehood, _ := g.GetConcept("FALSEHOOD")
		assert.True(t, falsehood.HasRelation(RelationContradicts, "TRUTH"))
	})
}

func TestFindPath(t *testing.T) {
	g := newTestGraph(t)
	for _, name := range []string{"A", "B", "C", "D"} {
		_, err := g.AddConcept(name, TypeEntity, ConceptAttrs{})
		require.NoError(t, err)
	}
	require.True(t, g.AddRelation("A", RelationImplies, "B"))
	require.True(t, g.AddRelation("B", RelationImplies, "C"))
	require.True(t, g.AddRelation("A", RelationEnables, "C"))

	t.Run("finds all simple paths", func(t *testing.T) {
		paths := g.FindPath("A", "C", 3)
		assert.ElementsMatch(t, [][]string{
			{"A", "B", "C"},
			{"A", "C"},
		}, paths)
	})

	t.Run("respects max depth", func(t *testing.T) {
		paths := g.FindPath("A", "C", 1)
		assert.Equal(t, [][]string{{"A", "C"}}, paths)
	})

	t.Run("unknown endpoints yield no paths", func(t *testing.T) {
		assert.Nil(t, g.FindPath("A", "Z", 3))
	})

	t.Run("no route yields no paths", func(t *testing.T) {
		assert.Empty(t, g.FindPath("D", "A", 3))
	})
}

func TestCoreConceptGraph(t *testing.T) {
	g := NewCoreConceptGraph(nil)

	assert.Greater(t, g.ConceptCount(), 50)
	assert.Greater(t, g.RelationCount(), 50)

	knowledge, ok := g.GetConcept("KNOWLEDGE")
	require.True(t, ok)
	assert.True(t, knowledge.HasRelation(RelationImplies, "TRUTH"))

	report := g.ValidateConsistency()
	assert.Empty(t, report.Contradictions)
	assert.Empty(t, report.MissingConcepts)
}

func TestConceptsByTypeAndStats(t *testing.T) {
	g := newTestGraph(t)
	_, err := g.AddConcept("TRUTH", TypeEpistemic, ConceptAttrs{})
	require.NoError(t, err)
	_, err = g.AddConcept("KNOWLEDGE", TypeEpistemic, ConceptAttrs{})
	require.NoError(t, err)
	_, err = g.AddConcept("GOOD", TypeMoral, ConceptAttrs{})
	require.NoError(t, err)
	require.True(t, g.AddRelation("KNOWLEDGE", RelationImplies, "TRUTH"))

	assert.Len(t, g.ConceptsByType(TypeEpistemic), 2)
	assert.Len(t, g.ConceptsByType(TypeMoral), 1)
	assert.Empty(t, g.ConceptsByType(TypeAesthetic))

	stats := g.Stats()
	assert.Equal(t, 3, stats.TotalConcepts)
	assert.Equal(t, 1, stats.TotalRelations)
	assert.Equal(t, 2, stats.ConceptsByType[TypeEpistemic])
	assert.Equal(t, "KNOWLEDGE", stats.MostConnected)
	assert.Equal(t, "GOOD", stats.LeastConnected)
}

func TestValidateConsistency(t *testing.T) {
	t.Run("flags concept that implies and contradicts same target", func(t *testing.T) {
		g := newTestGraph(t)
		a, err := g.AddConcept("A", TypeEntity, ConceptAttrs{})
		require.NoError(t, err)
		_, err = g.AddConcept("B", TypeEntity, ConceptAttrs{})
		require.NoError(t, err)

		// Bypass AddRelation to simulate a corrupted snapshot.
		a.addRelation(RelationImplies, "B")
		a.addRelation(RelationContradicts, "B")

		report := g.ValidateConsistency()
		assert.Len(t, report.Contradictions, 1)
		assert.False(t, report.IsConsistent())
	})

	t.Run("flags missing targets and self loops", func(t *testing.T) {
		g := newTestGraph(t)
		a, err := g.AddConcept("A", TypeEntity, ConceptAttrs{})
		require.NoError(t, err)
		a.addRelation(RelationImplies, "GHOST")
		a.addRelation(RelationIsA, "A")

		report := g.ValidateConsistency()
		assert.Equal(t, []string{"GHOST"}, report.MissingConcepts)
		require.Len(t, report.CircularReferences, 1)
		assert.Contains(t, report.CircularReferences[0], "A is_a A")
	})

	t.Run("flags orphaned concepts", func(t *testing.T) {
		g := newTestGraph(t)
		_, err := g.AddConcept("A", TypeEntity, ConceptAttrs{})
		require.NoError(t, err)
		_, err = g.AddConcept("B", TypeEntity, ConceptAttrs{})
		require.NoError(t, err)
		_, err = g.AddConcept("LONER", TypeEntity, ConceptAttrs{})
		require.NoError(t, err)
		require.True(t, g.AddRelation("A", RelationImplies, "B"))

		report := g.ValidateConsistency()
		assert.Equal(t, []string{"LONER"}, report.OrphanedConcepts)
	})

	t.Run("clean graph is consistent", func(t *testing.T) {
		g := newTestGraph(t)
		_, err := g.AddConcept("A", TypeEntity, ConceptAttrs{})
		require.NoError(t, err)
		_, err = g.AddConcept("B", TypeEntity, ConceptAttrs{})
		require.NoError(t, err)
		require.True(t, g.AddRelation("A", RelationCauses, "B"))
		require.True(t, g.AddRelation("B", RelationFollows, "A"))

		assert.True(t, g.ValidateConsistency().IsConsistent())
	})
}

func TestGraphSnapshotRoundTrip(t *testing.T) {
	g := newTestGraph(t)
	_, err := g.AddConcept("TRUTH", TypeEpistemic, ConceptAttrs{Domain: "epistemology"})
	require.NoError(t, err)
	_, err = g.AddConcept("KNOWLEDGE", TypeEpistemic, ConceptAttrs{})
	require.NoError(t, err)
	require.True(t, g.AddRelation("KNOWLEDGE", RelationImplies, "TRUTH"))

	restored, err := GraphFromSnapshot(g.Snapshot(), nil)
	require.NoError(t, err)

	assert.Equal(t, g.ConceptCount(), restored.ConceptCount())
	assert.Equal(t, g.RelationCount(), restored.RelationCount())

	knowledge, ok := restored.GetConcept("KNOWLEDGE")
	require.True(t, ok)
	assert.True(t, knowledge.HasRelation(RelationImplies, "TRUTH"))

	truth, ok := restored.GetConcept("TRUTH")
	require.True(t, ok)
	assert.Equal(t, "epistemology", truth.Domain())
}
