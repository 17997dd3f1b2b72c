package persistence

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/XenocodeRCE/SophIA-sub000/application/training"
	"github.com/XenocodeRCE/SophIA-sub000/domain/ontology"
	"github.com/XenocodeRCE/SophIA-sub000/domain/transition"
	pkgerrors "github.com/XenocodeRCE/SophIA-sub000/pkg/errors"
)

// File naming conventions of the save directory.
const (
	ModelFileExt        = ".sophia"
	TrainingDataFileExt = ".training_data"
	fileTimestampLayout = "20060102_150405"
)

// Serializer writes and reads complete model documents in a directory.
// Writes go through a temp file and rename, so a crash never leaves a
// half-written document behind.
type Serializer struct {
	dir    string
	logger *zap.Logger
}

// NewSerializer creates the save directory if needed.
func NewSerializer(dir string, logger *zap.Logger) (*Serializer, error) {
	if dir == "" {
		return nil, pkgerrors.NewValidation("save directory is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, pkgerrors.Wrap(err, "failed to create save directory")
	}
	return &Serializer{dir: dir, logger: logger}, nil
}

// Dir returns the save directory.
func (s *Serializer) Dir() string {
	return s.dir
}

// SaveCompleteModel writes the model, its graph and the trainer state under
// a timestamped file name and returns the path of the main document. The
// free-form metadata map is carried into the document and comes back on
// load; nil is fine. The full metric history goes to a sidecar file next to
// the document.
func (s *Serializer) SaveCompleteModel(name string, model *transition.Model, trainer *training.Trainer, metadata map[string]interface{}) (string, error) {
	if model == nil {
		return "", pkgerrors.NewValidation("model is required")
	}
	fileName := fmt.Sprintf("%s_%s%s", sanitizeName(name), time.Now().Format(fileTimestampLayout), ModelFileExt)
	return s.saveAs(filepath.Join(s.dir, fileName), name, model, trainer, metadata)
}

// SaveModelAs writes the document under an explicit file name inside the
// save directory, overwriting any previous content. Checkpointing relies on
// this to keep one file per epoch.
func (s *Serializer) SaveModelAs(fileName, name string, model *transition.Model, trainer *training.Trainer, metadata map[string]interface{}) (string, error) {
	if model == nil {
		return "", pkgerrors.NewValidation("model is required")
	}
	if !strings.HasSuffix(fileName, ModelFileExt) {
		fileName += ModelFileExt
	}
	return s.saveAs(filepath.Join(s.dir, fileName), name, model, trainer, metadata)
}

func (s *Serializer) saveAs(path, name string, model *transition.Model, trainer *training.Trainer, metadata map[string]interface{}) (string, error) {
	doc := BuildDocument(name, model, trainer, metadata)
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", pkgerrors.Wrap(err, "failed to encode model document")
	}
	if err := writeFileAtomic(path, data); err != nil {
		return "", err
	}

	sidecar := TrainingData{
		ModelName: name,
		SavedAt:   doc.Timestamp,
	}
	if trainer != nil {
		sidecar.History = trainer.History()
	}
	sidecarData, err := json.MarshalIndent(sidecar, "", "  ")
	if err != nil {
		return "", pkgerrors.Wrap(err, "failed to encode training data")
	}
	if err := writeFileAtomic(trainingDataPath(path), sidecarData); err != nil {
		return "", err
	}

	s.logger.Info("model saved",
		zap.String("model", name),
		zap.String("path", path),
		zap.Int("concepts", doc.SaveStats.ConceptsCount),
		zap.Int("transitions", doc.SaveStats.TransitionsCount),
	)
	return path, nil
}

// LoadedModel is the result of reading a saved document back: the rebuilt
// graph and model plus everything needed to reconstruct a trainer.
type LoadedModel struct {
	Document Document
	Graph    *ontology.ConceptGraph
	Model    *transition.Model
	History  []training.TrainingMetrics
}

// LoadCompleteModel reads a document and rebuilds the graph and model. A
// missing or unreadable sidecar only costs the metric history; a missing or
// corrupt main document is an error.
func (s *Serializer) LoadCompleteModel(path string) (*LoadedModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, pkgerrors.NewNotFound("model file not found: " + path)
		}
		return nil, pkgerrors.Wrap(err, "failed to read model file")
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, pkgerrors.NewInternal("failed to decode model document", err)
	}

	graph, err := ontology.GraphFromSnapshot(ontology.GraphSnapshot{
		Metadata: doc.Ontology.Metadata,
		Concepts: doc.Ontology.Concepts,
	}, s.logger)
	if err != nil {
		return nil, err
	}

	model, err := transition.NewModel(graph, doc.Model.LearningRate, s.logger)
	if err != nil {
		return nil, err
	}
	if err := model.RestoreState(doc.Model.ModelState); err != nil {
		return nil, err
	}

	loaded := &LoadedModel{Document: doc, Graph: graph, Model: model}

	sidecarData, err := os.ReadFile(trainingDataPath(path))
	switch {
	case err == nil:
		var sidecar TrainingData
		if jsonErr := json.Unmarshal(sidecarData, &sidecar); jsonErr != nil {
			s.logger.Warn("training data sidecar is unreadable, continuing without history",
				zap.String("path", trainingDataPath(path)),
				zap.Error(jsonErr),
			)
		} else {
			loaded.History = sidecar.History
		}
	case os.IsNotExist(err):
		s.logger.Warn("training data sidecar missing, continuing without history",
			zap.String("path", trainingDataPath(path)),
		)
	default:
		return nil, pkgerrors.Wrap(err, "failed to read training data sidecar")
	}

	s.logger.Info("model loaded",
		zap.String("model", doc.ModelName),
		zap.String("path", path),
		zap.Int("concepts", doc.SaveStats.ConceptsCount),
		zap.Int("transitions", doc.SaveStats.TransitionsCount),
	)
	return loaded, nil
}

// ModelInfo describes one saved document without loading its full content.
type ModelInfo struct {
	Path      string    `json:"path"`
	ModelName string    `json:"model_name"`
	Timestamp time.Time `json:"timestamp"`
	SaveStats SaveStats `json:"save_stats"`
}

// ListSavedModels returns the saved documents in the directory, newest
// first. Files that fail to parse are skipped with a warning.
func (s *Serializer) ListSavedModels() ([]ModelInfo, error) {
	paths, err := filepath.Glob(filepath.Join(s.dir, "*"+ModelFileExt))
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to scan save directory")
	}

	infos := make([]ModelInfo, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			s.logger.Warn("skipping unreadable model file", zap.String("path", path), zap.Error(err))
			continue
		}
		var doc Document
		if err := json.Unmarshal(data, &doc); err != nil {
			s.logger.Warn("skipping corrupt model file", zap.String("path", path), zap.Error(err))
			continue
		}
		infos = append(infos, ModelInfo{
			Path:      path,
			ModelName: doc.ModelName,
			Timestamp: doc.Timestamp,
			SaveStats: doc.SaveStats,
		})
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Timestamp.After(infos[j].Timestamp)
	})
	return infos, nil
}

// DeleteModel removes a saved document and its sidecar. A missing sidecar is
// not an error.
func (s *Serializer) DeleteModel(path string) error {
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return pkgerrors.NewNotFound("model file not found: " + path)
		}
		return pkgerrors.Wrap(err, "failed to delete model file")
	}
	if err := os.Remove(trainingDataPath(path)); err != nil && !os.IsNotExist(err) {
		return pkgerrors.Wrap(err, "failed to delete training data sidecar")
	}
	s.logger.Info("model deleted", zap.String("path", path))
	return nil
}

// ModelSummary is a compact human-oriented digest of a saved document.
type ModelSummary struct {
	ModelName      string           `json:"model_name"`
	SavedAt        time.Time        `json:"saved_at"`
	Version        string           `json:"version"`
	Concepts       int              `json:"concepts"`
	Transitions    int              `json:"transitions"`
	TrainingEpochs int              `json:"training_epochs"`
	TrainerType    string           `json:"trainer_type,omitempty"`
	Summary        training.Summary `json:"training_summary"`
}

// ExportModelSummary reads only the document and condenses it, without
// rebuilding graph or model.
func (s *Serializer) ExportModelSummary(path string) (ModelSummary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ModelSummary{}, pkgerrors.NewNotFound("model file not found: " + path)
		}
		return ModelSummary{}, pkgerrors.Wrap(err, "failed to read model file")
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return ModelSummary{}, pkgerrors.NewInternal("failed to decode model document", err)
	}

	summary := ModelSummary{
		ModelName:      doc.ModelName,
		SavedAt:        doc.Timestamp,
		Version:        doc.Version,
		Concepts:       doc.SaveStats.ConceptsCount,
		Transitions:    doc.SaveStats.TransitionsCount,
		TrainingEpochs: doc.SaveStats.TrainingEpochs,
	}
	if doc.Trainer != nil {
		summary.TrainerType = doc.Trainer.TrainerType
		summary.Summary = doc.Trainer.TrainingSummary
	}
	return summary, nil
}

// trainingDataPath maps a document path to its sidecar path by swapping the
// extension.
func trainingDataPath(modelPath string) string {
	return strings.TrimSuffix(modelPath, ModelFileExt) + TrainingDataFileExt
}

// writeFileAtomic writes via a temp file in the target directory followed by
// a rename.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return pkgerrors.Wrap(err, "failed to create temp file")
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return pkgerrors.Wrap(err, "failed to write temp file")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return pkgerrors.Wrap(err, "failed to close temp file")
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return pkgerrors.Wrap(err, "failed to replace target file")
	}
	return nil
}

// sanitizeName makes a model name safe to embed in a file name.
func sanitizeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "model"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", ":", "_")
	return replacer.Replace(name)
}
