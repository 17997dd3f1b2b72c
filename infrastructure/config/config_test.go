package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 0.1, cfg.Model.LearningRate)
	assert.Equal(t, 32, cfg.Model.BatchSize)
	assert.Equal(t, 0.2, cfg.Model.ValidationSplit)
	assert.Equal(t, 0.3, cfg.Model.ConsistencyWeight)
	assert.Equal(t, 5, cfg.Persistence.KeepLatestCheckpoints)
	assert.Equal(t, "info", cfg.Logging.Level)

	assert.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	t.Run("empty path uses defaults", func(t *testing.T) {
		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("missing file uses defaults", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("yaml file overrides defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		content := []byte(`
environment: production
model:
  learning_rate: 0.05
  batch_size: 64
persistence:
  save_dir: /var/lib/sophia/models
logging:
  level: warn
`)
		require.NoError(t, os.WriteFile(path, content, 0o644))

		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, "production", cfg.Environment)
		assert.Equal(t, 0.05, cfg.Model.LearningRate)
		assert.Equal(t, 64, cfg.Model.BatchSize)
		assert.Equal(t, "/var/lib/sophia/models", cfg.Persistence.SaveDir)
		assert.Equal(t, "warn", cfg.Logging.Level)
		// Untouched values keep their defaults.
		assert.Equal(t, 0.3, cfg.Model.ConsistencyWeight)
	})

	t.Run("environment overrides file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("model:\n  batch_size: 64\n"), 0o644))
		t.Setenv("SOPHIA_BATCH_SIZE", "16")
		t.Setenv("SOPHIA_LOG_LEVEL", "debug")

		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, 16, cfg.Model.BatchSize)
		assert.Equal(t, "debug", cfg.Logging.Level)
	})

	t.Run("unparseable file is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("model: [unclosed"), 0o644))
		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("invalid values are rejected", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("model:\n  learning_rate: -1\n"), 0o644))
		_, err := Load(path)
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults are valid", mutate: func(c *Config) {}},
		{name: "bad environment", mutate: func(c *Config) { c.Environment = "qa" }, wantErr: true},
		{name: "bad log level", mutate: func(c *Config) { c.Logging.Level = "verbose" }, wantErr: true},
		{name: "zero batch size", mutate: func(c *Config) { c.Model.BatchSize = 0 }, wantErr: true},
		{name: "validation split of one", mutate: func(c *Config) { c.Model.ValidationSplit = 1 }, wantErr: true},
		{name: "empty save dir", mutate: func(c *Config) { c.Persistence.SaveDir = "" }, wantErr: true},
		{name: "staging environment", mutate: func(c *Config) { c.Environment = "staging" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestWatcher(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("model:\n  batch_size: 8\n"), 0o644))

	w, err := NewWatcher(path, nil)
	require.NoError(t, err)
	defer w.Stop()

	assert.Equal(t, 8, w.Current().Model.BatchSize)

	t.Run("save replaces current", func(t *testing.T) {
		cfg := Default()
		cfg.Model.BatchSize = 128
		require.NoError(t, w.Save(cfg))

		assert.Equal(t, 128, w.Current().Model.BatchSize)

		reloaded, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, 128, reloaded.Model.BatchSize)
	})

	t.Run("save rejects invalid config", func(t *testing.T) {
		cfg := Default()
		cfg.Model.BatchSize = 0
		assert.Error(t, w.Save(cfg))
	})
}
