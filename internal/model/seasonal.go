package model

import (
	"fmt"

	"github.com/sartorproj/goarima/autoarima"
	"github.com/sartorproj/goarima/sarima"
	"github.com/sartorproj/goarima/timeseries"
)

// ConfidenceLevel is the prediction interval width for seasonal forecasts.
const ConfidenceLevel = 0.95

// SeasonalPeriod is the daily cycle length for hourly data.
const SeasonalPeriod = 24

// SeasonalOrder is a SARIMA order (p,d,q)(P,D,Q)[m]. It is the persistent
// description of the seasonal model: the fitted coefficients live only in
// memory and the server refits from this order at startup.
type SeasonalOrder struct {
	P, D, Q    int
	SP, SD, SQ int
	M          int
}

// DefaultSeasonalOrder models hourly load with a daily seasonal cycle.
func DefaultSeasonalOrder() SeasonalOrder {
	return SeasonalOrder{P: 1, D: 0, Q: 1, SP: 1, SD: 1, SQ: 1, M: SeasonalPeriod}
}

// String renders the order in the usual SARIMA notation.
func (o SeasonalOrder) String() string {
	return fmt.Sprintf("(%d,%d,%d)(%d,%d,%d)[%d]", o.P, o.D, o.Q, o.SP, o.SD, o.SQ, o.M)
}

// Seasonal is a fitted SARIMA model.
type Seasonal struct {
	m     *sarima.Model
	Order SeasonalOrder
}

// FitSeasonal fits a SARIMA model of the given order on the target series.
func FitSeasonal(series *timeseries.Series, o SeasonalOrder) (*Seasonal, error) {
	m := sarima.New(o.P, o.D, o.Q, o.SP, o.SD, o.SQ, o.M)
	if err := m.Fit(series); err != nil {
		return nil, fmt.Errorf("fit sarima %s: %w", o, err)
	}
	return &Seasonal{m: m, Order: o}, nil
}

// Forecast returns point forecasts with a 95% prediction interval.
func (s *Seasonal) Forecast(steps int) (point, lower, upper []float64, err error) {
	point, lower, upper, err = s.m.PredictWithInterval(steps, ConfidenceLevel)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("sarima forecast: %w", err)
	}
	return point, lower, upper, nil
}

// AIC returns the fitted model's information criterion, used in run records.
func (s *Seasonal) AIC() float64 { return s.m.AIC }

// SelectSeasonalOrder runs a stepwise auto-ARIMA search with a daily seasonal
// period and returns the chosen order. Used by `train -auto`.
func SelectSeasonalOrder(series *timeseries.Series) (SeasonalOrder, error) {
	cfg := autoarima.DefaultConfig()
	cfg.AutoSeasonal = true
	cfg.SeasonalPeriods = []int{SeasonalPeriod}
	cfg.MaxP = 2
	cfg.MaxQ = 2

	res, err := autoarima.AutoARIMA(series, cfg)
	if err != nil {
		return SeasonalOrder{}, fmt.Errorf("auto order selection: %w", err)
	}
	if res == nil || !res.IsSeasonal {
		return DefaultSeasonalOrder(), nil
	}
	return SeasonalOrder{
		P: res.P, D: res.D, Q: res.Q,
		SP: res.SP, SD: res.SD, SQ: res.SQ,
		M: res.M,
	}, nil
}
