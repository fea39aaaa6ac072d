package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(PathEnvVar, "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 5, cfg.Analysis.MinLogs)
	assert.Equal(t, 30, cfg.Analysis.DaysBack)
	assert.Equal(t, 6*time.Hour, cfg.Analysis.RetrainCooldown)
	assert.InDelta(t, 0.6, cfg.Training.AUCThreshold, 1e-9)
	assert.False(t, cfg.Model.PartitionByPet)
}

func TestLoad_FileThenEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yml := []byte("analysis:\n  min_logs: 7\n  retrain_cooldown: 2h\nmodel:\n  path: /tmp/m.json\n")
	require.NoError(t, os.WriteFile(path, yml, 0o600))

	t.Setenv(PathEnvVar, path)
	t.Setenv("ANALYSIS_MIN_LOGS", "9")
	t.Setenv("PORT", "9090")
	t.Setenv("MODEL_PARTITION_BY_PET", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9, cfg.Analysis.MinLogs, "env wins over file")
	assert.Equal(t, 2*time.Hour, cfg.Analysis.RetrainCooldown)
	assert.Equal(t, "/tmp/m.json", cfg.Model.Path)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.True(t, cfg.Model.PartitionByPet)
}

func TestValidate_RejectsBadThreshold(t *testing.T) {
	cfg := Defaults()
	cfg.Training.AUCThreshold = 1.5
	require.Error(t, cfg.Validate())
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "analysis.fetch_limit", envKey("ANALYSIS_FETCH_LIMIT"))
	assert.Equal(t, "db.dsn", envKey("DB_DSN"))
	assert.Equal(t, "pets.seed_file", envKey("PETS_SEED_FILE"))
	assert.Equal(t, "", envKey("HOME"))
	assert.Equal(t, "", envKey("GOPATH_X"))
}
