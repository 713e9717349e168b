package features

import (
	"bytes"
	"encoding/gob"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestFitScalerStandardizes(t *testing.T) {
	t.Parallel()

	x := mat.NewDense(4, 2, []float64{
		1, 10,
		2, 10,
		3, 10,
		4, 10,
	})

	s, err := FitScaler(x)
	require.NoError(t, err)
	require.Equal(t, 2, s.Dim())
	require.InDelta(t, 2.5, s.Mean[0], 1e-9)

	// Constant column keeps std=1 so the transform maps it to zero.
	require.Equal(t, 1.0, s.Std[1])

	out, err := s.Transform(x)
	require.NoError(t, err)

	rows, _ := out.Dims()
	sum := 0.0
	for r := 0; r < rows; r++ {
		sum += out.At(r, 0)
		require.Equal(t, 0.0, out.At(r, 1))
	}
	require.InDelta(t, 0.0, sum, 1e-9)
}

func TestFitScalerNeedsRows(t *testing.T) {
	t.Parallel()

	_, err := FitScaler(mat.NewDense(1, 2, []float64{1, 2}))
	require.Error(t, err)
}

func TestTransformRejectsDimensionMismatch(t *testing.T) {
	t.Parallel()

	s, err := FitScaler(mat.NewDense(2, 2, []float64{1, 2, 3, 4}))
	require.NoError(t, err)

	_, err = s.Transform(mat.NewDense(2, 3, nil))
	require.Error(t, err)
	require.Contains(t, err.Error(), "fitted on 2 features")
}

func TestScalerGobRoundTrip(t *testing.T) {
	t.Parallel()

	s, err := FitScaler(mat.NewDense(3, 2, []float64{1, 4, 2, 5, 3, 6}))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, gob.NewEncoder(&buf).Encode(s))

	var got Scaler
	require.NoError(t, gob.NewDecoder(&buf).Decode(&got))
	require.Equal(t, s.Mean, got.Mean)
	require.Equal(t, s.Std, got.Std)
}
