package persistence

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/XenocodeRCE/SophIA-sub000/application/training"
	"github.com/XenocodeRCE/SophIA-sub000/domain/transition"
	pkgerrors "github.com/XenocodeRCE/SophIA-sub000/pkg/errors"
)

const (
	sessionMetadataFile = "session_metadata.json"
	finalModelBaseName  = "final_model"
	checkpointPattern   = "checkpoint_epoch_%04d"
)

// CheckpointRecord is one entry of a session's checkpoint history.
type CheckpointRecord struct {
	Epoch    int                       `json:"epoch"`
	FileName string                    `json:"file_name"`
	SavedAt  time.Time                 `json:"saved_at"`
	Metrics  *training.TrainingMetrics `json:"metrics,omitempty"`
}

// sessionMetadata is the persisted session index.
type sessionMetadata struct {
	SessionID          string             `json:"session_id"`
	SessionName        string             `json:"session_name"`
	ModelName          string             `json:"model_name"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
	CheckpointsHistory []CheckpointRecord `json:"checkpoints_history"`
	FinalModelFile     string             `json:"final_model_file,omitempty"`
}

// Session groups the checkpoints of one training run under a dedicated
// directory with a metadata index. Reopening an existing session directory
// resumes its history.
type Session struct {
	name       string
	serializer *Serializer
	metadata   sessionMetadata
	logger     *zap.Logger
}

// NewSession opens or creates the session directory baseDir/name.
func NewSession(baseDir, name, modelName string, logger *zap.Logger) (*Session, error) {
	if name == "" {
		return nil, pkgerrors.NewValidation("session name is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	serializer, err := NewSerializer(filepath.Join(baseDir, name), logger)
	if err != nil {
		return nil, err
	}

	session := &Session{
		name:       name,
		serializer: serializer,
		logger:     logger,
	}

	metadataPath := session.metadataPath()
	data, err := os.ReadFile(metadataPath)
	switch {
	case err == nil:
		if jsonErr := json.Unmarshal(data, &session.metadata); jsonErr != nil {
			return nil, pkgerrors.Wrap(jsonErr, "failed to decode session metadata")
		}
		if modelName != "" && session.metadata.ModelName != modelName {
			return nil, pkgerrors.NewConflict(fmt.Sprintf(
				"session %s belongs to model %s, not %s", name, session.metadata.ModelName, modelName))
		}
		logger.Info("training session resumed",
			zap.String("session", name),
			zap.Int("checkpoints", len(session.metadata.CheckpointsHistory)),
		)
	case os.IsNotExist(err):
		session.metadata = sessionMetadata{
			SessionID:   uuid.NewString(),
			SessionName: name,
			ModelName:   modelName,
			CreatedAt:   time.Now(),
		}
		if err := session.writeMetadata(); err != nil {
			return nil, err
		}
	default:
		return nil, pkgerrors.Wrap(err, "failed to read session metadata")
	}
	return session, nil
}

// Name returns the session name.
func (s *Session) Name() string {
	return s.name
}

// Dir returns the session directory.
func (s *Session) Dir() string {
	return s.serializer.Dir()
}

func (s *Session) metadataPath() string {
	return filepath.Join(s.serializer.Dir(), sessionMetadataFile)
}

func (s *Session) writeMetadata() error {
	s.metadata.UpdatedAt = time.Now()
	data, err := json.MarshalIndent(s.metadata, "", "  ")
	if err != nil {
		return pkgerrors.Wrap(err, "failed to encode session metadata")
	}
	return writeFileAtomic(s.metadataPath(), data)
}

// SaveCheckpoint writes the model state for an epoch. Saving an epoch that
// already has a checkpoint replaces the old file and its history entry, so
// the history never holds duplicate epochs.
func (s *Session) SaveCheckpoint(epoch int, model *transition.Model, trainer *training.Trainer, metrics *training.TrainingMetrics) (string, error) {
	if epoch < 1 {
		return "", pkgerrors.NewValidation("checkpoint epoch must be at least 1")
	}

	fileName := fmt.Sprintf(checkpointPattern, epoch) + ModelFileExt
	path, err := s.serializer.SaveModelAs(fileName, s.metadata.ModelName, model, trainer, map[string]interface{}{
		"session_id":   s.metadata.SessionID,
		"session_name": s.metadata.SessionName,
		"epoch":        epoch,
	})
	if err != nil {
		return "", err
	}

	record := CheckpointRecord{
		Epoch:    epoch,
		FileName: fileName,
		SavedAt:  time.Now(),
		Metrics:  metrics,
	}

	replaced := false
	for i, existing := range s.metadata.CheckpointsHistory {
		if existing.Epoch == epoch {
			s.metadata.CheckpointsHistory[i] = record
			replaced = true
			break
		}
	}
	if !replaced {
		s.metadata.CheckpointsHistory = append(s.metadata.CheckpointsHistory, record)
		sort.Slice(s.metadata.CheckpointsHistory, func(i, j int) bool {
			return s.metadata.CheckpointsHistory[i].Epoch < s.metadata.CheckpointsHistory[j].Epoch
		})
	}
	if err := s.writeMetadata(); err != nil {
		return "", err
	}

	s.logger.Info("checkpoint saved",
		zap.String("session", s.name),
		zap.Int("epoch", epoch),
		zap.Bool("replaced", replaced),
	)
	return path, nil
}

// LoadCheckpoint rebuilds the model saved for an epoch.
func (s *Session) LoadCheckpoint(epoch int) (*LoadedModel, error) {
	for _, record := range s.metadata.CheckpointsHistory {
		if record.Epoch == epoch {
			return s.serializer.LoadCompleteModel(filepath.Join(s.serializer.Dir(), record.FileName))
		}
	}
	return nil, pkgerrors.NewNotFound(fmt.Sprintf("no checkpoint for epoch %d in session %s", epoch, s.name))
}

// LatestEpoch returns the highest checkpointed epoch, zero when none exist.
func (s *Session) LatestEpoch() int {
	latest := 0
	for _, record := range s.metadata.CheckpointsHistory {
		if record.Epoch > latest {
			latest = record.Epoch
		}
	}
	return latest
}

// ResumeTrainingFromLatest loads the most recent checkpoint and returns it
// with its epoch number, so training can continue where it stopped.
func (s *Session) ResumeTrainingFromLatest() (*LoadedModel, int, error) {
	epoch := s.LatestEpoch()
	if epoch == 0 {
		return nil, 0, pkgerrors.NewNotFound("session has no checkpoints: " + s.name)
	}
	loaded, err := s.LoadCheckpoint(epoch)
	if err != nil {
		return nil, 0, err
	}
	return loaded, epoch, nil
}

// ListCheckpoints returns a copy of the checkpoint history in epoch order.
func (s *Session) ListCheckpoints() []CheckpointRecord {
	records := make([]CheckpointRecord, len(s.metadata.CheckpointsHistory))
	copy(records, s.metadata.CheckpointsHistory)
	return records
}

// SaveFinalModel writes the end-of-run model under a fixed name and records
// it in the session metadata.
func (s *Session) SaveFinalModel(model *transition.Model, trainer *training.Trainer) (string, error) {
	fileName := finalModelBaseName + ModelFileExt
	path, err := s.serializer.SaveModelAs(fileName, s.metadata.ModelName, model, trainer, map[string]interface{}{
		"session_id":   s.metadata.SessionID,
		"session_name": s.metadata.SessionName,
	})
	if err != nil {
		return "", err
	}
	s.metadata.FinalModelFile = fileName
	if err := s.writeMetadata(); err != nil {
		return "", err
	}
	s.logger.Info("final model saved", zap.String("session", s.name), zap.String("path", path))
	return path, nil
}

// LoadFinalModel rebuilds the end-of-run model.
func (s *Session) LoadFinalModel() (*LoadedModel, error) {
	if s.metadata.FinalModelFile == "" {
		return nil, pkgerrors.NewNotFound("session has no final model: " + s.name)
	}
	return s.serializer.LoadCompleteModel(filepath.Join(s.serializer.Dir(), s.metadata.FinalModelFile))
}

// CleanupOldCheckpoints deletes all but the keepLatest highest-epoch
// checkpoints and returns how many files were removed. The final model is
// never touched.
func (s *Session) CleanupOldCheckpoints(keepLatest int) (int, error) {
	if keepLatest < 0 {
		return 0, pkgerrors.NewValidation("keepLatest cannot be negative")
	}
	if len(s.metadata.CheckpointsHistory) <= keepLatest {
		return 0, nil
	}

	// History is sorted by epoch; everything before the cut goes.
	cut := len(s.metadata.CheckpointsHistory) - keepLatest
	removed := 0
	for _, record := range s.metadata.CheckpointsHistory[:cut] {
		path := filepath.Join(s.serializer.Dir(), record.FileName)
		if err := s.serializer.DeleteModel(path); err != nil && !pkgerrors.IsNotFound(err) {
			return removed, err
		}
		removed++
	}
	s.metadata.CheckpointsHistory = append([]CheckpointRecord(nil), s.metadata.CheckpointsHistory[cut:]...)
	if err := s.writeMetadata(); err != nil {
		return removed, err
	}

	s.logger.Info("old checkpoints removed",
		zap.String("session", s.name),
		zap.Int("removed", removed),
		zap.Int("kept", keepLatest),
	)
	return removed, nil
}

// SessionSummary describes the state of a session.
type SessionSummary struct {
	SessionID     string    `json:"session_id"`
	SessionName   string    `json:"session_name"`
	ModelName     string    `json:"model_name"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	Checkpoints   int       `json:"checkpoints"`
	LatestEpoch   int       `json:"latest_epoch"`
	HasFinalModel bool      `json:"has_final_model"`
	SizeBytes     int64     `json:"size_bytes"`
}

// Summary reports the session's current state.
func (s *Session) Summary() SessionSummary {
	return SessionSummary{
		SessionID:     s.metadata.SessionID,
		SessionName:   s.metadata.SessionName,
		ModelName:     s.metadata.ModelName,
		CreatedAt:     s.metadata.CreatedAt,
		UpdatedAt:     s.metadata.UpdatedAt,
		Checkpoints:   len(s.metadata.CheckpointsHistory),
		LatestEpoch:   s.LatestEpoch(),
		HasFinalModel: s.metadata.FinalModelFile != "",
		SizeBytes:     s.sizeBytes(),
	}
}

// sizeBytes sums the sizes of the session's files. The directory is flat.
func (s *Session) sizeBytes() int64 {
	entries, err := os.ReadDir(s.serializer.Dir())
	if err != nil {
		return 0
	}
	var total int64
	for _, entry := range entries {
		if info, err := entry.Info(); err == nil && !info.IsDir() {
			total += info.Size()
		}
	}
	return total
}
