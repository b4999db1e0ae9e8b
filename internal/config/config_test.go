package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, "model", cfg.Model.Dir)
	assert.Equal(t, "Family-Income-and-Expenditure.csv", cfg.Training.DatasetPath)
	assert.Equal(t, 40, cfg.Training.NumTrees)
	assert.Equal(t, 10, cfg.Training.MaxDepth)
	assert.Equal(t, int64(42), cfg.Training.RandomState)
	assert.Equal(t, 0.3, cfg.Training.TestSize)
}

func TestLoadConfigFromFile(t *testing.T) {
	content := `server:
  host: "127.0.0.1"
  port: "9000"
model:
  dir: "artifacts"
training:
  dataset_path: "data/fies.csv"
  num_trees: 20
  max_depth: 6
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "artifacts", cfg.Model.Dir)
	assert.Equal(t, "data/fies.csv", cfg.Training.DatasetPath)
	assert.Equal(t, 20, cfg.Training.NumTrees)
	assert.Equal(t, 6, cfg.Training.MaxDepth)

	// Values absent from the file keep their defaults.
	assert.Equal(t, int64(42), cfg.Training.RandomState)
	assert.Equal(t, 0.3, cfg.Training.TestSize)
}

func TestLoadConfigMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [not: valid"), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}
