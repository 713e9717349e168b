package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, ":8080", cfg.HTTPAddr)
	require.Equal(t, filepath.Join("data", "appliances_energy.csv"), cfg.DatasetPath())
	require.Equal(t, "models", cfg.ModelsDir)
	require.Equal(t, 24, cfg.DefaultHorizon)
	require.Equal(t, 168, cfg.MaxHorizon)
	require.Equal(t, 30*24, cfg.ValidationHours())
	require.Equal(t, 100, cfg.GBTTrees)
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("DATA_DIR", "/var/lib/gridcast")
	t.Setenv("MAX_HORIZON_HOURS", "72")
	t.Setenv("GBT_LEARNING_RATE", "0.05")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.HTTPAddr)
	require.Equal(t, filepath.Join("/var/lib/gridcast", "appliances_energy.csv"), cfg.DatasetPath())
	require.Equal(t, 72, cfg.MaxHorizon)
	require.Equal(t, 0.05, cfg.GBTLearningRate)
}

func TestLoadRejectsBadHorizonBounds(t *testing.T) {
	t.Setenv("DEFAULT_HORIZON_HOURS", "48")
	t.Setenv("MAX_HORIZON_HOURS", "24")

	_, err := Load()
	require.Error(t, err)
}
