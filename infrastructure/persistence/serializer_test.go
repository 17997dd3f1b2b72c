package persistence

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/XenocodeRCE/SophIA-sub000/application/training"
	"github.com/XenocodeRCE/SophIA-sub000/domain/ontology"
	"github.com/XenocodeRCE/SophIA-sub000/domain/transition"
	pkgerrors "github.com/XenocodeRCE/SophIA-sub000/pkg/errors"
)

func trainedFixture(t *testing.T) (*transition.Model, *training.Trainer) {
	t.Helper()
	g := ontology.NewConceptGraph(nil)
	for _, name := range []string{"TRUTH", "KNOWLEDGE", "BEING"} {
		_, err := g.AddConcept(name, ontology.TypeEpistemic, ontology.ConceptAttrs{})
		require.NoError(t, err)
	}
	require.True(t, g.AddRelation("KNOWLEDGE", ontology.RelationImplies, "TRUTH"))

	model, err := transition.NewModel(g, transition.DefaultLearningRate, nil)
	require.NoError(t, err)
	trainer, err := training.NewOntologyAwareTrainer(model, training.Options{}, 0, nil)
	require.NoError(t, err)
	_, err = trainer.Train([][]string{{"TRUTH", "KNOWLEDGE", "BEING"}}, 2)
	require.NoError(t, err)
	return model, trainer
}

func TestSaveAndLoadCompleteModel(t *testing.T) {
	dir := t.TempDir()
	s, err := NewSerializer(dir, nil)
	require.NoError(t, err)

	model, trainer := trainedFixture(t)

	path, err := s.SaveCompleteModel("phi model", model, trainer, map[string]interface{}{
		"corpus":  "dialogues",
		"curated": true,
	})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, ModelFileExt))
	assert.Contains(t, filepath.Base(path), "phi_model_")

	// Sidecar written next to the document.
	_, err = os.Stat(trainingDataPath(path))
	require.NoError(t, err)

	loaded, err := s.LoadCompleteModel(path)
	require.NoError(t, err)

	assert.Equal(t, "phi model", loaded.Document.ModelName)
	assert.Equal(t, DocumentVersion, loaded.Document.Version)
	assert.NotEmpty(t, loaded.Document.SnapshotID)
	assert.Equal(t, "dialogues", loaded.Document.Metadata["corpus"])
	assert.Equal(t, true, loaded.Document.Metadata["curated"])
	assert.Equal(t, model.TransitionCount(), loaded.Model.TransitionCount())
	assert.Equal(t, model.TotalSequencesSeen(), loaded.Model.TotalSequencesSeen())
	assert.Equal(t, 3, loaded.Graph.ConceptCount())
	assert.Len(t, loaded.History, 2)

	require.NotNil(t, loaded.Document.Trainer)
	assert.Equal(t, training.TypeOntologyAware, loaded.Document.Trainer.TrainerType)
	require.NotNil(t, loaded.Document.Trainer.ConsistencyWeight)
	assert.Equal(t, training.DefaultConsistencyWeight, *loaded.Document.Trainer.ConsistencyWeight)
	require.NotNil(t, loaded.Document.Trainer.OntologicalConstraintsCount)
	assert.Equal(t, 1, *loaded.Document.Trainer.OntologicalConstraintsCount)

	t.Run("loaded model keeps its distributions", func(t *testing.T) {
		assert.Equal(t, model.NextConcepts("TRUTH", 0), loaded.Model.NextConcepts("TRUTH", 0))
	})
}

func TestLoadCompleteModelFailures(t *testing.T) {
	dir := t.TempDir()
	s, err := NewSerializer(dir, nil)
	require.NoError(t, err)

	t.Run("missing file is not found", func(t *testing.T) {
		_, err := s.LoadCompleteModel(filepath.Join(dir, "missing.sophia"))
		assert.True(t, pkgerrors.IsNotFound(err))
	})

	t.Run("corrupt document is an internal error", func(t *testing.T) {
		path := filepath.Join(dir, "broken.sophia")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
		_, err := s.LoadCompleteModel(path)
		assert.True(t, pkgerrors.IsInternal(err))
	})

	t.Run("missing sidecar only drops history", func(t *testing.T) {
		model, trainer := trainedFixture(t)
		path, err := s.SaveCompleteModel("nosidecar", model, trainer, nil)
		require.NoError(t, err)
		require.NoError(t, os.Remove(trainingDataPath(path)))

		loaded, err := s.LoadCompleteModel(path)
		require.NoError(t, err)
		assert.Empty(t, loaded.History)
		assert.Equal(t, model.TransitionCount(), loaded.Model.TransitionCount())
	})
}

func TestListSavedModels(t *testing.T) {
	dir := t.TempDir()
	s, err := NewSerializer(dir, nil)
	require.NoError(t, err)

	model, trainer := trainedFixture(t)
	_, err = s.SaveModelAs("first", "first", model, trainer, nil)
	require.NoError(t, err)
	_, err = s.SaveModelAs("second", "second", model, trainer, nil)
	require.NoError(t, err)

	// Corrupt files are skipped, not fatal.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "junk.sophia"), []byte("junk"), 0o644))

	infos, err := s.ListSavedModels()
	require.NoError(t, err)
	require.Len(t, infos, 2)

	names := []string{infos[0].ModelName, infos[1].ModelName}
	assert.ElementsMatch(t, []string{"first", "second"}, names)
	assert.Equal(t, 2, infos[0].SaveStats.TransitionsCount)
}

func TestDeleteModel(t *testing.T) {
	dir := t.TempDir()
	s, err := NewSerializer(dir, nil)
	require.NoError(t, err)

	model, trainer := trainedFixture(t)
	path, err := s.SaveCompleteModel("todelete", model, trainer, nil)
	require.NoError(t, err)

	require.NoError(t, s.DeleteModel(path))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(trainingDataPath(path))
	assert.True(t, os.IsNotExist(err))

	assert.True(t, pkgerrors.IsNotFound(s.DeleteModel(path)))
}

func TestExportModelSummary(t *testing.T) {
	dir := t.TempDir()
	s, err := NewSerializer(dir, nil)
	require.NoError(t, err)

	model, trainer := trainedFixture(t)
	path, err := s.SaveCompleteModel("summarized", model, trainer, nil)
	require.NoError(t, err)

	summary, err := s.ExportModelSummary(path)
	require.NoError(t, err)

	assert.Equal(t, "summarized", summary.ModelName)
	assert.Equal(t, 3, summary.Concepts)
	assert.Equal(t, 2, summary.Transitions)
	assert.Equal(t, 2, summary.TrainingEpochs)
	assert.Equal(t, training.TypeOntologyAware, summary.TrainerType)
	assert.Equal(t, 2, summary.Summary.TotalEpochs)
}
