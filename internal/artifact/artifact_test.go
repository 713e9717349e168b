package artifact

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gridsmith/gridcast/internal/features"
	"github.com/gridsmith/gridcast/internal/model"
)

func testBundle() *Bundle {
	names := features.Names([]string{"T1", "RH_1"})
	scaler := &features.Scaler{
		Mean: make([]float64, len(names)),
		Std:  make([]float64, len(names)),
	}
	for i := range scaler.Std {
		scaler.Mean[i] = float64(i)
		scaler.Std[i] = 1
	}
	return &Bundle{
		FeatureNames:  names,
		Scaler:        scaler,
		SeasonalOrder: model.DefaultSeasonalOrder(),
		TrainedAt:     time.Date(2023, 5, 1, 12, 0, 0, 0, time.UTC),
		TrainingRows:  19735,
		DatasetPath:   "data/appliances_energy.csv",
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	want := testBundle()

	require.NoError(t, Save(dir, want))

	got, err := Load(dir)
	require.NoError(t, err)
	require.Equal(t, want.FeatureNames, got.FeatureNames)
	require.Equal(t, want.Scaler.Mean, got.Scaler.Mean)
	require.Equal(t, want.Scaler.Std, got.Scaler.Std)
	require.Equal(t, want.SeasonalOrder, got.SeasonalOrder)
	require.True(t, want.TrainedAt.Equal(got.TrainedAt))
	require.Equal(t, want.TrainingRows, got.TrainingRows)
}

func TestSaveCreatesModelsDir(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "models")
	require.NoError(t, Save(dir, testBundle()))

	_, err := Load(dir)
	require.NoError(t, err)
}

func TestValidateRejectsDimensionMismatch(t *testing.T) {
	t.Parallel()

	b := testBundle()
	b.Scaler.Mean = b.Scaler.Mean[:2]
	b.Scaler.Std = b.Scaler.Std[:2]

	err := b.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "scaler fitted on 2 features")

	require.Error(t, Save(t.TempDir(), b))
}

func TestValidateRejectsEmptyBundle(t *testing.T) {
	t.Parallel()

	require.Error(t, (&Bundle{}).Validate())

	b := testBundle()
	b.Scaler = nil
	require.Error(t, b.Validate())
}

func TestLoadMissingBundle(t *testing.T) {
	t.Parallel()

	_, err := Load(t.TempDir())
	require.Error(t, err)
}

func TestGBTModelPath(t *testing.T) {
	t.Parallel()

	require.Equal(t, filepath.Join("models", "gbt_model.txt"), GBTModelPath("models"))
}
