// Package dataset loads and prepares the hourly appliance energy CSV.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/sartorproj/goarima/timeseries"
)

const (
	// DateColumn is the timestamp column of the UCI appliances dataset.
	DateColumn = "date"
	// TargetColumn is the appliance load in Wh.
	TargetColumn = "Appliances"

	// defaultStart anchors synthetic timestamps when the CSV has no date column.
	defaultStart = "2023-01-01"
)

// SensorColumns lists the optional sensor columns used as model features when
// present: zone temperatures (T1..T9), zone humidities (RH_1..RH_9) and
// outdoor weather readings.
var SensorColumns = []string{
	"lights",
	"T1", "RH_1",
	"T2", "RH_2",
	"T3", "RH_3",
	"T4", "RH_4",
	"T5", "RH_5",
	"T6", "RH_6",
	"T7", "RH_7",
	"T8", "RH_8",
	"T9", "RH_9",
	"T_out",
	"Press_mm_hg",
	"RH_out",
	"Windspeed",
	"Visibility",
	"Tdewpoint",
}

// dateLayouts are tried in order when parsing the date column.
var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02",
}

// Table is the prepared dataset: rows sorted by time, one target value and a
// set of sensor readings per row.
type Table struct {
	Times  []time.Time
	Target []float64

	// SensorNames holds the sensor columns found in the file, in the
	// canonical SensorColumns order. Sensors maps each of those names to a
	// column of values aligned with Times.
	SensorNames []string
	Sensors     map[string][]float64
}

// Stats summarizes the target column.
type Stats struct {
	Mean   float64 `json:"avg_consumption_wh"`
	Peak   float64 `json:"peak_consumption_wh"`
	Min    float64 `json:"min_consumption_wh"`
	StdDev float64 `json:"std_deviation_wh"`
	Count  int     `json:"samples"`
}

// Load reads and prepares the dataset from a CSV file on disk.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	t, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", path, err)
	}
	return t, nil
}

// Read parses a dataset from CSV. Rows with an unparseable date or target are
// skipped. When the date column is missing, hourly timestamps are synthesized
// so the file can still be used for training.
func Read(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	dateIdx := -1
	targetIdx := -1
	sensorIdx := map[string]int{}
	for i, h := range header {
		switch h {
		case DateColumn:
			dateIdx = i
		case TargetColumn:
			targetIdx = i
		}
	}
	for _, name := range SensorColumns {
		for i, h := range header {
			if h == name {
				sensorIdx[name] = i
				break
			}
		}
	}
	if targetIdx == -1 {
		return nil, fmt.Errorf("target column %q not found", TargetColumn)
	}
	if dateIdx == -1 {
		log.Printf("dataset: date column %q not found, synthesizing hourly timestamps", DateColumn)
	}

	t := &Table{Sensors: map[string][]float64{}}
	for _, name := range SensorColumns {
		if _, ok := sensorIdx[name]; ok {
			t.SensorNames = append(t.SensorNames, name)
		}
	}

	start, _ := time.Parse("2006-01-02", defaultStart)
	row := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}

		target, err := strconv.ParseFloat(rec[targetIdx], 64)
		if err != nil {
			continue
		}

		var ts time.Time
		if dateIdx >= 0 {
			ts, err = parseDate(rec[dateIdx])
			if err != nil {
				continue
			}
		} else {
			ts = start.Add(time.Duration(row) * time.Hour)
		}

		t.Times = append(t.Times, ts)
		t.Target = append(t.Target, target)
		for _, name := range t.SensorNames {
			idx := sensorIdx[name]
			v := 0.0
			if idx < len(rec) {
				if parsed, err := strconv.ParseFloat(rec[idx], 64); err == nil {
					v = parsed
				}
			}
			t.Sensors[name] = append(t.Sensors[name], v)
		}
		row++
	}

	if len(t.Target) == 0 {
		return nil, errors.New("no usable rows in dataset")
	}

	t.sortByTime()
	return t, nil
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

func (t *Table) sortByTime() {
	idx := make([]int, len(t.Times))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return t.Times[idx[a]].Before(t.Times[idx[b]])
	})

	reorderTimes(t.Times, idx)
	reorder(t.Target, idx)
	for _, name := range t.SensorNames {
		reorder(t.Sensors[name], idx)
	}
}

func reorder(vals []float64, idx []int) {
	out := make([]float64, len(vals))
	for i, j := range idx {
		out[i] = vals[j]
	}
	copy(vals, out)
}

func reorderTimes(vals []time.Time, idx []int) {
	out := make([]time.Time, len(vals))
	for i, j := range idx {
		out[i] = vals[j]
	}
	copy(vals, out)
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Target) }

// Series converts the target column into a goarima time series.
func (t *Table) Series() *timeseries.Series {
	s, err := timeseries.NewWithTimestamps(t.Times, t.Target)
	if err != nil {
		// Lengths are aligned by construction.
		return timeseries.New(t.Target)
	}
	s.Name = TargetColumn
	return s
}

// TargetStats summarizes the target column for the explanation agent.
func (t *Table) TargetStats() Stats {
	s := t.Series()
	return Stats{
		Mean:   s.Mean(),
		Peak:   s.Max(),
		Min:    s.Min(),
		StdDev: s.Std(),
		Count:  s.Len(),
	}
}
