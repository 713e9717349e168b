// Package model wraps the third-party forecasting models behind small
// domain-shaped types: a gradient-boosted-tree regressor for feature-driven
// forecasts and a SARIMA model for seasonal ones.
package model

import (
	"fmt"

	"github.com/YuminosukeSato/scigo/sklearn/lightgbm"
	"gonum.org/v1/gonum/mat"
)

// GBTParams are the gradient boosting hyperparameters.
type GBTParams struct {
	Trees        int
	MaxDepth     int
	LearningRate float64
}

// GBT is a trainable gradient-boosted-tree regressor.
type GBT struct {
	reg    *lightgbm.LGBMRegressor
	Params GBTParams
}

// TrainGBT fits a LightGBM regressor on a scaled design matrix.
func TrainGBT(x *mat.Dense, y []float64, p GBTParams) (*GBT, error) {
	rows, _ := x.Dims()
	if rows != len(y) {
		return nil, fmt.Errorf("x has %d rows, y has %d values", rows, len(y))
	}
	if rows == 0 {
		return nil, fmt.Errorf("empty training matrix")
	}

	reg := lightgbm.NewLGBMRegressor().
		WithNumIterations(p.Trees).
		WithMaxDepth(p.MaxDepth).
		WithLearningRate(p.LearningRate)

	target := mat.NewDense(rows, 1, y)
	if err := reg.Fit(x, target); err != nil {
		return nil, fmt.Errorf("fit gbt: %w", err)
	}
	return &GBT{reg: reg, Params: p}, nil
}

// Predict returns one prediction per row of x.
func (g *GBT) Predict(x *mat.Dense) ([]float64, error) {
	pred, err := g.reg.Predict(x)
	if err != nil {
		return nil, fmt.Errorf("gbt predict: %w", err)
	}
	return flatten(pred), nil
}

// Save writes the trained model in LightGBM text format.
func (g *GBT) Save(path string) error {
	if err := g.reg.SaveModel(path); err != nil {
		return fmt.Errorf("save gbt model: %w", err)
	}
	return nil
}

// LoadedGBT is a pre-trained regressor loaded from disk for serving.
type LoadedGBT struct {
	m *lightgbm.Model
}

// LoadGBT reads a LightGBM text-format model file.
func LoadGBT(path string) (*LoadedGBT, error) {
	m, err := lightgbm.LoadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("load gbt model: %w", err)
	}
	return &LoadedGBT{m: m}, nil
}

// Predict returns one prediction per row of x.
func (g *LoadedGBT) Predict(x *mat.Dense) ([]float64, error) {
	pred, err := g.m.Predict(x)
	if err != nil {
		return nil, fmt.Errorf("gbt predict: %w", err)
	}
	return flatten(pred), nil
}

// flatten extracts the first column of a prediction matrix.
func flatten(m mat.Matrix) []float64 {
	rows, _ := m.Dims()
	out := make([]float64, rows)
	for i := 0; i < rows; i++ {
		out[i] = m.At(i, 0)
	}
	return out
}
