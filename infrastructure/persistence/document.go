package persistence

import (
	"time"

	"github.com/google/uuid"

	"github.com/XenocodeRCE/SophIA-sub000/application/training"
	"github.com/XenocodeRCE/SophIA-sub000/domain/ontology"
	"github.com/XenocodeRCE/SophIA-sub000/domain/transition"
)

// DocumentVersion identifies the on-disk document layout.
const DocumentVersion = "1.0"

// ModelTypeTransition is the model_type written for transition models.
const ModelTypeTransition = "transition"

// Document is the complete on-disk form of a model together with its graph
// and training state. Field names are the stable wire format; readers of any
// 1.x version must keep succeeding.
type Document struct {
	Version    string                 `json:"version"`
	SnapshotID string                 `json:"snapshot_id"`
	Timestamp  time.Time              `json:"timestamp"`
	ModelName  string                 `json:"model_name"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	Ontology   OntologyDocument       `json:"ontology"`
	Model      ModelDocument          `json:"model"`
	Trainer    *TrainerDocument       `json:"trainer,omitempty"`
	SaveStats  SaveStats              `json:"save_stats"`
}

// OntologyDocument carries the serialized concept graph.
type OntologyDocument struct {
	Metadata ontology.GraphMetadata              `json:"metadata"`
	Concepts map[string]ontology.ConceptSnapshot `json:"concepts"`
}

// ModelDocument carries the serialized transition model.
type ModelDocument struct {
	ModelType    string                `json:"model_type"`
	LearningRate float64               `json:"learning_rate"`
	ModelState   transition.ModelState `json:"model_state"`
	ModelStats   transition.ModelStats `json:"model_stats"`
}

// TrainerDocument carries the trainer configuration and run summary. The
// ontology-aware fields stay absent for base trainers.
type TrainerDocument struct {
	TrainerType                 string           `json:"trainer_type"`
	LearningRate                float64          `json:"learning_rate"`
	BatchSize                   int              `json:"batch_size"`
	ValidationSplit             float64          `json:"validation_split"`
	TrainingSummary             training.Summary `json:"training_summary"`
	ConsistencyWeight           *float64         `json:"consistency_weight,omitempty"`
	OntologicalConstraintsCount *int             `json:"ontological_constraints_count,omitempty"`
}

// SaveStats summarizes a saved document for quick listing without loading
// the whole model.
type SaveStats struct {
	ConceptsCount    int `json:"concepts_count"`
	TransitionsCount int `json:"transitions_count"`
	TrainingEpochs   int `json:"training_epochs"`
}

// TrainingData is the sidecar document holding the full per-epoch metric
// history, kept out of the main file so listings stay cheap.
type TrainingData struct {
	ModelName string                     `json:"model_name"`
	SavedAt   time.Time                  `json:"saved_at"`
	History   []training.TrainingMetrics `json:"history"`
}

// BuildDocument assembles the on-disk form of a named model. A nil trainer
// leaves the trainer section out; a nil metadata map leaves the metadata
// field out.
func BuildDocument(name string, model *transition.Model, trainer *training.Trainer, metadata map[string]interface{}) Document {
	graphSnap := model.Graph().Snapshot()
	state := model.State()

	doc := Document{
		Version:    DocumentVersion,
		SnapshotID: uuid.NewString(),
		Timestamp:  time.Now(),
		ModelName:  name,
		Metadata:   metadata,
		Ontology: OntologyDocument{
			Metadata: graphSnap.Metadata,
			Concepts: graphSnap.Concepts,
		},
		Model: ModelDocument{
			ModelType:    ModelTypeTransition,
			LearningRate: model.LearningRate(),
			ModelState:   state,
			ModelStats:   model.Stats(),
		},
		SaveStats: SaveStats{
			ConceptsCount:    len(graphSnap.Concepts),
			TransitionsCount: len(state.Transitions),
		},
	}

	if trainer != nil {
		trainerDoc := &TrainerDocument{
			TrainerType:     trainer.Type(),
			LearningRate:    model.LearningRate(),
			BatchSize:       trainer.BatchSize(),
			ValidationSplit: trainer.ValidationSplit(),
			TrainingSummary: trainer.Summary(),
		}
		if adjuster := trainer.Adjuster(); adjuster != nil {
			cw := adjuster.ConsistencyWeight()
			count := adjuster.ConstraintCount()
			trainerDoc.ConsistencyWeight = &cw
			trainerDoc.OntologicalConstraintsCount = &count
		}
		doc.Trainer = trainerDoc
		doc.SaveStats.TrainingEpochs = trainerDoc.TrainingSummary.TotalEpochs
	}
	return doc
}
