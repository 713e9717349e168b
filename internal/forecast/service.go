// Package forecast turns loaded models into horizon forecasts.
package forecast

import (
	"errors"
	"fmt"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/gridsmith/gridcast/internal/features"
)

// Model names accepted by the API.
const (
	ModelGBT      = "gbt"
	ModelSeasonal = "seasonal"
)

// ErrModelUnavailable means the requested model was not loaded at startup,
// typically because training has not been run yet.
var ErrModelUnavailable = errors.New("model not available, run the train command first")

// Regressor predicts one value per feature row.
type Regressor interface {
	Predict(x *mat.Dense) ([]float64, error)
}

// SeasonalModel forecasts the target series directly.
type SeasonalModel interface {
	Forecast(steps int) (point, lower, upper []float64, err error)
}

// Service generates forecasts from whichever models were loaded.
type Service struct {
	GBT          Regressor
	Scaler       *features.Scaler
	FeatureNames []string

	Seasonal SeasonalModel

	// Now is the clock; overridable in tests.
	Now func() time.Time
}

// Result is one generated forecast. Lower and Upper are set only for models
// that produce prediction intervals.
type Result struct {
	Values     []float64
	Lower      []float64
	Upper      []float64
	Timestamps []time.Time
	ModelUsed  string
}

// ModelsLoaded reports whether any forecasting model is ready to serve.
func (s *Service) ModelsLoaded() bool {
	return s.GBT != nil || s.Seasonal != nil
}

// Forecast predicts the next horizon hours with the named model. Values are
// clipped to zero since load is non-negative.
func (s *Service) Forecast(horizon int, modelName string) (*Result, error) {
	if horizon < 1 {
		return nil, fmt.Errorf("horizon must be at least 1, got %d", horizon)
	}

	now := time.Now().UTC()
	if s.Now != nil {
		now = s.Now().UTC()
	}

	var res *Result
	var err error
	switch modelName {
	case ModelGBT:
		res, err = s.gbtForecast(now, horizon)
	case ModelSeasonal:
		res, err = s.seasonalForecast(horizon)
	default:
		return nil, fmt.Errorf("unknown model %q", modelName)
	}
	if err != nil {
		return nil, err
	}

	res.Timestamps = make([]time.Time, horizon)
	for i := 0; i < horizon; i++ {
		res.Timestamps[i] = now.Add(time.Duration(i+1) * time.Hour)
	}
	return res, nil
}

func (s *Service) gbtForecast(now time.Time, horizon int) (*Result, error) {
	if s.GBT == nil || len(s.FeatureNames) == 0 {
		return nil, fmt.Errorf("gbt: %w", ErrModelUnavailable)
	}
	if s.Scaler != nil && s.Scaler.Dim() != len(s.FeatureNames) {
		return nil, fmt.Errorf("scaler dimension %d does not match %d features",
			s.Scaler.Dim(), len(s.FeatureNames))
	}

	x := features.InferenceMatrix(s.FeatureNames, now, horizon)
	if s.Scaler != nil {
		scaled, err := s.Scaler.Transform(x)
		if err != nil {
			return nil, err
		}
		x = scaled
	}

	values, err := s.GBT.Predict(x)
	if err != nil {
		return nil, err
	}

	return &Result{
		Values:    clip(values),
		ModelUsed: ModelGBT,
	}, nil
}

func (s *Service) seasonalForecast(horizon int) (*Result, error) {
	if s.Seasonal == nil {
		return nil, fmt.Errorf("seasonal: %w", ErrModelUnavailable)
	}

	point, lower, upper, err := s.Seasonal.Forecast(horizon)
	if err != nil {
		return nil, err
	}

	return &Result{
		Values:    clip(point),
		Lower:     clip(lower),
		Upper:     upper,
		ModelUsed: ModelSeasonal,
	}, nil
}

// clip replaces negative predictions with zero in place.
func clip(vals []float64) []float64 {
	for i, v := range vals {
		if v < 0 {
			vals[i] = 0
		}
	}
	return vals
}
