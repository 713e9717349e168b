package model

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// gbtTrainingData builds a small regression problem: y depends on the first
// feature with some structure in the second.
func gbtTrainingData(n int) (*mat.Dense, []float64) {
	x := mat.NewDense(n, 2, nil)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		a := float64(i % 10)
		b := float64(i % 3)
		x.Set(i, 0, a)
		x.Set(i, 1, b)
		y[i] = 10*a + 2*b
	}
	return x, y
}

func TestTrainGBTAndPredict(t *testing.T) {
	t.Parallel()

	x, y := gbtTrainingData(300)
	p := GBTParams{Trees: 20, MaxDepth: 4, LearningRate: 0.1}

	g, err := TrainGBT(x, y, p)
	require.NoError(t, err)
	require.Equal(t, p, g.Params)

	pred, err := g.Predict(x)
	require.NoError(t, err)
	require.Len(t, pred, 300)
}

func TestTrainGBTRejectsBadInput(t *testing.T) {
	t.Parallel()

	x, y := gbtTrainingData(10)

	_, err := TrainGBT(x, y[:5], GBTParams{Trees: 5, MaxDepth: 3, LearningRate: 0.1})
	require.Error(t, err)
	require.Contains(t, err.Error(), "10 rows")

	_, err = TrainGBT(x, nil, GBTParams{Trees: 5, MaxDepth: 3, LearningRate: 0.1})
	require.Error(t, err)
}

func TestLoadGBTMissingFile(t *testing.T) {
	t.Parallel()

	_, err := LoadGBT("nonexistent/model.txt")
	require.Error(t, err)
}
