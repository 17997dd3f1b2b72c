package config

import (
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	pkgerrors "github.com/XenocodeRCE/SophIA-sub000/pkg/errors"
)

// ModelConfig holds the learning hyperparameters.
type ModelConfig struct {
	// LearningRate scales weight reinforcement on repeated transitions.
	LearningRate float64 `yaml:"learning_rate" validate:"gt=0,lte=1"`
	// BatchSize chunks the training set within an epoch.
	BatchSize int `yaml:"batch_size" validate:"gte=1"`
	// ValidationSplit is the fraction of sequences held out for coherence
	// scoring.
	ValidationSplit float64 `yaml:"validation_split" validate:"gte=0,lt=1"`
	// ConsistencyWeight controls how strongly ontological constraints
	// rescale learned weights.
	ConsistencyWeight float64 `yaml:"consistency_weight" validate:"gt=0,lte=1"`
	// GenerationTemperature is the default sampling temperature for
	// sequence generation. Zero means greedy.
	GenerationTemperature float64 `yaml:"generation_temperature" validate:"gte=0"`
}

// PersistenceConfig holds the save locations and retention policy.
type PersistenceConfig struct {
	SaveDir    string `yaml:"save_dir" validate:"required"`
	SessionDir string `yaml:"session_dir" validate:"required"`
	// KeepLatestCheckpoints bounds how many checkpoints survive cleanup.
	KeepLatestCheckpoints int `yaml:"keep_latest_checkpoints" validate:"gte=1"`
}

// LoggingConfig holds logger construction parameters.
type LoggingConfig struct {
	Level string `yaml:"level" validate:"oneof=debug info warn error"`
}

// Config holds all application configuration.
type Config struct {
	Environment string            `yaml:"environment" validate:"oneof=development staging production"`
	Model       ModelConfig       `yaml:"model"`
	Persistence PersistenceConfig `yaml:"persistence"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Environment: "development",
		Model: ModelConfig{
			LearningRate:          0.1,
			BatchSize:             32,
			ValidationSplit:       0.2,
			ConsistencyWeight:     0.3,
			GenerationTemperature: 1.0,
		},
		Persistence: PersistenceConfig{
			SaveDir:               "./models",
			SessionDir:            "./sessions",
			KeepLatestCheckpoints: 5,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load builds the configuration in three layers: defaults, then the YAML
// file at path (skipped when path is empty or the file does not exist), then
// environment variable overrides. The result is validated before returning.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, pkgerrors.Wrap(err, "failed to parse config file")
			}
		case os.IsNotExist(err):
			// Defaults plus env only.
		default:
			return nil, pkgerrors.Wrap(err, "failed to read config file")
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides configuration from SOPHIA_* environment variables.
func (c *Config) applyEnv() {
	c.Environment = getEnv("SOPHIA_ENVIRONMENT", c.Environment)
	c.Logging.Level = getEnv("SOPHIA_LOG_LEVEL", c.Logging.Level)

	c.Model.LearningRate = getEnvFloat("SOPHIA_LEARNING_RATE", c.Model.LearningRate)
	c.Model.BatchSize = getEnvInt("SOPHIA_BATCH_SIZE", c.Model.BatchSize)
	c.Model.ValidationSplit = getEnvFloat("SOPHIA_VALIDATION_SPLIT", c.Model.ValidationSplit)
	c.Model.ConsistencyWeight = getEnvFloat("SOPHIA_CONSISTENCY_WEIGHT", c.Model.ConsistencyWeight)
	c.Model.GenerationTemperature = getEnvFloat("SOPHIA_GENERATION_TEMPERATURE", c.Model.GenerationTemperature)

	c.Persistence.SaveDir = getEnv("SOPHIA_SAVE_DIR", c.Persistence.SaveDir)
	c.Persistence.SessionDir = getEnv("SOPHIA_SESSION_DIR", c.Persistence.SessionDir)
	c.Persistence.KeepLatestCheckpoints = getEnvInt("SOPHIA_KEEP_CHECKPOINTS", c.Persistence.KeepLatestCheckpoints)
}

// Validate checks the configuration against its declared constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return pkgerrors.Wrap(err, "invalid configuration")
	}
	return nil
}

// IsDevelopment checks if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer environment variable with a default value.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvFloat gets a float environment variable with a default value.
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}
