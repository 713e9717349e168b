package features

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gridsmith/gridcast/internal/dataset"
)

// syntheticTable builds n hourly rows with target = row index and one sensor.
func syntheticTable(n int) *dataset.Table {
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	t := &dataset.Table{
		SensorNames: []string{"T1"},
		Sensors:     map[string][]float64{"T1": {}},
	}
	for i := 0; i < n; i++ {
		t.Times = append(t.Times, start.Add(time.Duration(i)*time.Hour))
		t.Target = append(t.Target, float64(i))
		t.Sensors["T1"] = append(t.Sensors["T1"], 20.0+float64(i)*0.1)
	}
	return t
}

func TestBuildFeatureLayout(t *testing.T) {
	t.Parallel()

	table := syntheticTable(200)
	m, err := Build(table)
	require.NoError(t, err)

	require.Equal(t, []string{"T1", "hour", "day_of_week", "month", "lag_1", "lag_24", "lag_168"}, m.Names)

	// The first max-lag rows are dropped.
	rows, cols := m.X.Dims()
	require.Equal(t, 200-168, rows)
	require.Equal(t, len(m.Names), cols)
	require.Len(t, m.Y, rows)
	require.Len(t, m.Times, rows)
}

func TestBuildLagValues(t *testing.T) {
	t.Parallel()

	table := syntheticTable(200)
	m, err := Build(table)
	require.NoError(t, err)

	// Row 0 corresponds to source row 168: target 168, lag_1=167, lag_24=144, lag_168=0.
	require.Equal(t, 168.0, m.Y[0])
	require.Equal(t, 167.0, m.X.At(0, 4))
	require.Equal(t, 144.0, m.X.At(0, 5))
	require.Equal(t, 0.0, m.X.At(0, 6))

	// Temporal features for source row 168 = 2023-01-08 00:00 UTC (a Sunday).
	require.Equal(t, 0.0, m.X.At(0, 1))
	require.Equal(t, 0.0, m.X.At(0, 2))
	require.Equal(t, 1.0, m.X.At(0, 3))
}

func TestBuildRejectsShortDataset(t *testing.T) {
	t.Parallel()

	_, err := Build(syntheticTable(100))
	require.Error(t, err)
}

func TestInferenceMatrixFillsTemporalOnly(t *testing.T) {
	t.Parallel()

	names := Names([]string{"T1", "RH_1"})
	start := time.Date(2023, 6, 15, 10, 0, 0, 0, time.UTC) // a Thursday

	x := InferenceMatrix(names, start, 3)
	rows, cols := x.Dims()
	require.Equal(t, 3, rows)
	require.Equal(t, len(names), cols)

	// First forecast hour is start+1h = 11:00.
	require.Equal(t, 11.0, x.At(0, 2))
	require.Equal(t, 4.0, x.At(0, 3))
	require.Equal(t, 6.0, x.At(0, 4))

	// Sensor and lag columns stay zero.
	require.Equal(t, 0.0, x.At(0, 0))
	require.Equal(t, 0.0, x.At(0, 1))
	require.Equal(t, 0.0, x.At(0, 5))

	// Hour advances per row.
	require.Equal(t, 12.0, x.At(1, 2))
	require.Equal(t, 13.0, x.At(2, 2))
}
