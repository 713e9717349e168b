package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gridsmith/gridcast/internal/dataset"
)

// StatsSource supplies historical target statistics, typically backed by the
// training dataset.
type StatsSource func() (dataset.Stats, error)

// QueryEnergyData returns consumption statistics from historical data as a
// JSON blob the model can quote from.
func QueryEnergyData(source StatsSource) Tool {
	return Tool{
		Name:        "QueryEnergyData",
		Description: "Get historical energy consumption statistics (average, peak, min, std dev)",
		Run: func(ctx context.Context, _ string) (string, error) {
			stats, err := source()
			if err != nil {
				return "", fmt.Errorf("load energy data: %w", err)
			}
			out, err := json.Marshal(stats)
			if err != nil {
				return "", err
			}
			return string(out), nil
		},
	}
}

// TemplatedFallback builds a Fallback that summarizes historical statistics
// without an LLM, used when the backend is unreachable.
func TemplatedFallback(source StatsSource) Fallback {
	return func(question string, forecastValue float64) string {
		stats, err := source()
		if err != nil {
			return fmt.Sprintf(
				"The language model backend is currently unavailable. The forecast value is %.2f Wh; historical statistics could not be loaded.",
				forecastValue)
		}
		return fmt.Sprintf(
			"The language model backend is currently unavailable, so this is a data summary instead of a full explanation. "+
				"The forecast of %.2f Wh compares to a historical average of %.2f Wh (min %.2f, peak %.2f, std dev %.2f over %d samples).",
			forecastValue, stats.Mean, stats.Min, stats.Peak, stats.StdDev, stats.Count)
	}
}
