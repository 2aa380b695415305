package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
}

func TestLoadDefaults(t *testing.T) {
	resetViper(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "INFO", cfg.LogLevel)
	assert.Equal(t, 500, cfg.Engine.ChunkSize)
	assert.Equal(t, "rest", cfg.Node.Kind)
	assert.Equal(t, "valid_mappings.csv", cfg.Output.PartitionMappingFile)
	assert.Equal(t, "valid_combinations.csv", cfg.Output.SubsetPairsFile)
}

func TestLoadFromFile(t *testing.T) {
	resetViper(t)

	path := filepath.Join(t.TempDir(), "txflow.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logLevel: DEBUG\nengine:\n  chunkSize: 42\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "DEBUG", cfg.LogLevel)
	assert.Equal(t, 42, cfg.Engine.ChunkSize)
}

func TestLoadMissingFile(t *testing.T) {
	resetViper(t)

	_, err := Load("/no/such/file.yaml")
	assert.ErrorIs(t, err, ErrConfigFile)
}
