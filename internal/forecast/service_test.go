package forecast

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/gridsmith/gridcast/internal/features"
)

type stubRegressor struct {
	values []float64
	err    error
	gotX   *mat.Dense
}

func (r *stubRegressor) Predict(x *mat.Dense) ([]float64, error) {
	r.gotX = x
	return r.values, r.err
}

type stubSeasonal struct {
	point, lower, upper []float64
	err                 error
}

func (s *stubSeasonal) Forecast(steps int) ([]float64, []float64, []float64, error) {
	return s.point, s.lower, s.upper, s.err
}

func fixedNow() time.Time {
	return time.Date(2023, 3, 10, 14, 30, 0, 0, time.UTC)
}

func TestForecastGBT(t *testing.T) {
	t.Parallel()

	names := features.Names([]string{"T1"})
	reg := &stubRegressor{values: []float64{50, -3, 70}}
	svc := &Service{GBT: reg, FeatureNames: names, Now: fixedNow}

	res, err := svc.Forecast(3, ModelGBT)
	require.NoError(t, err)
	require.Equal(t, ModelGBT, res.ModelUsed)

	// Negative predictions are clipped to zero.
	require.Equal(t, []float64{50, 0, 70}, res.Values)
	require.Nil(t, res.Lower)
	require.Nil(t, res.Upper)

	// Timestamps are hourly, starting one hour after now.
	require.Len(t, res.Timestamps, 3)
	require.Equal(t, fixedNow().Add(time.Hour), res.Timestamps[0])
	require.Equal(t, fixedNow().Add(3*time.Hour), res.Timestamps[2])

	rows, cols := reg.gotX.Dims()
	require.Equal(t, 3, rows)
	require.Equal(t, len(names), cols)
}

func TestForecastGBTScalesInput(t *testing.T) {
	t.Parallel()

	names := features.Names([]string{"T1"})
	scaler := &features.Scaler{
		Mean: make([]float64, len(names)),
		Std:  make([]float64, len(names)),
	}
	for i := range scaler.Std {
		scaler.Std[i] = 2
	}

	reg := &stubRegressor{values: []float64{10}}
	svc := &Service{GBT: reg, Scaler: scaler, FeatureNames: names, Now: fixedNow}

	_, err := svc.Forecast(1, ModelGBT)
	require.NoError(t, err)

	// Hour column: now is 14:30, first forecast hour is 15, scaled by std 2.
	hourCol := 1 // after the single sensor column
	require.Equal(t, 7.5, reg.gotX.At(0, hourCol))
}

func TestForecastSeasonal(t *testing.T) {
	t.Parallel()

	svc := &Service{
		Seasonal: &stubSeasonal{
			point: []float64{60, -1},
			lower: []float64{40, -20},
			upper: []float64{80, 30},
		},
		Now: fixedNow,
	}

	res, err := svc.Forecast(2, ModelSeasonal)
	require.NoError(t, err)
	require.Equal(t, ModelSeasonal, res.ModelUsed)
	require.Equal(t, []float64{60, 0}, res.Values)
	require.Equal(t, []float64{40, 0}, res.Lower)
	require.Equal(t, []float64{80, 30}, res.Upper)
	require.Len(t, res.Timestamps, 2)
}

func TestForecastUnknownModel(t *testing.T) {
	t.Parallel()

	svc := &Service{GBT: &stubRegressor{}, FeatureNames: features.Names(nil), Now: fixedNow}

	_, err := svc.Forecast(1, "lstm")
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown model")
}

func TestForecastModelUnavailable(t *testing.T) {
	t.Parallel()

	svc := &Service{Now: fixedNow}

	_, err := svc.Forecast(1, ModelGBT)
	require.ErrorIs(t, err, ErrModelUnavailable)

	_, err = svc.Forecast(1, ModelSeasonal)
	require.ErrorIs(t, err, ErrModelUnavailable)
}

func TestForecastRejectsInvalidHorizon(t *testing.T) {
	t.Parallel()

	svc := &Service{GBT: &stubRegressor{}, FeatureNames: features.Names(nil), Now: fixedNow}

	_, err := svc.Forecast(0, ModelGBT)
	require.Error(t, err)
}

func TestForecastPropagatesModelError(t *testing.T) {
	t.Parallel()

	boom := errors.New("bad booster")
	svc := &Service{
		GBT:          &stubRegressor{err: boom},
		FeatureNames: features.Names(nil),
		Now:          fixedNow,
	}

	_, err := svc.Forecast(1, ModelGBT)
	require.ErrorIs(t, err, boom)
}

func TestModelsLoaded(t *testing.T) {
	t.Parallel()

	require.False(t, (&Service{}).ModelsLoaded())
	require.True(t, (&Service{GBT: &stubRegressor{}}).ModelsLoaded())
	require.True(t, (&Service{Seasonal: &stubSeasonal{}}).ModelsLoaded())
}
