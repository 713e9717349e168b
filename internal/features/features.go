// Package features derives model inputs from the prepared dataset: sensor
// readings, calendar features and lagged target values.
package features

import (
	"errors"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/gridsmith/gridcast/internal/dataset"
)

// LagHours are the lagged target features: previous hour, previous day,
// previous week.
var LagHours = []int{1, 24, 168}

// TemporalNames are the calendar features derived from each row's timestamp.
var TemporalNames = []string{"hour", "day_of_week", "month"}

// Matrix is a training design matrix with the target aligned per row.
type Matrix struct {
	X     *mat.Dense
	Y     []float64
	Names []string
	Times []time.Time
}

// Build assembles the training matrix from a dataset table. Feature order is
// sensors, then temporal, then lags; the first max(LagHours) rows are dropped
// because their lags are undefined.
func Build(t *dataset.Table) (*Matrix, error) {
	maxLag := 0
	for _, l := range LagHours {
		if l > maxLag {
			maxLag = l
		}
	}
	if t.Len() <= maxLag {
		return nil, errors.New("dataset too short for lag features")
	}

	names := Names(t.SensorNames)
	rows := t.Len() - maxLag
	x := mat.NewDense(rows, len(names), nil)
	y := make([]float64, rows)
	times := make([]time.Time, rows)

	for r := 0; r < rows; r++ {
		i := r + maxLag
		c := 0
		for _, name := range t.SensorNames {
			x.Set(r, c, t.Sensors[name][i])
			c++
		}
		for _, v := range temporal(t.Times[i]) {
			x.Set(r, c, v)
			c++
		}
		for _, lag := range LagHours {
			x.Set(r, c, t.Target[i-lag])
			c++
		}
		y[r] = t.Target[i]
		times[r] = t.Times[i]
	}

	return &Matrix{X: x, Y: y, Names: names, Times: times}, nil
}

// Names returns the full ordered feature name list for the given sensor
// columns. The order is the contract between the scaler and the regressor.
func Names(sensorNames []string) []string {
	names := make([]string, 0, len(sensorNames)+len(TemporalNames)+len(LagHours))
	names = append(names, sensorNames...)
	names = append(names, TemporalNames...)
	for _, lag := range LagHours {
		names = append(names, lagName(lag))
	}
	return names
}

func lagName(hours int) string {
	switch hours {
	case 1:
		return "lag_1"
	case 24:
		return "lag_24"
	case 168:
		return "lag_168"
	}
	return "lag_x"
}

// temporal returns hour-of-day, day-of-week and month for a timestamp.
func temporal(ts time.Time) []float64 {
	return []float64{
		float64(ts.Hour()),
		float64(int(ts.Weekday())),
		float64(int(ts.Month())),
	}
}

// InferenceMatrix builds feature rows for future hours starting at start+1h.
// Sensor and lag values are unknown at prediction time and stay at zero; the
// calendar features carry the signal, matching how the model is queried in
// production.
func InferenceMatrix(names []string, start time.Time, horizon int) *mat.Dense {
	x := mat.NewDense(horizon, len(names), nil)

	pos := map[string]int{}
	for i, n := range names {
		pos[n] = i
	}

	for h := 0; h < horizon; h++ {
		ts := start.Add(time.Duration(h+1) * time.Hour)
		vals := temporal(ts)
		for i, name := range TemporalNames {
			if c, ok := pos[name]; ok {
				x.Set(h, c, vals[i])
			}
		}
	}
	return x
}
