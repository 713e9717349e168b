// Package api exposes the HTTP endpoints: health, forecast, explain, and the
// service introspection routes.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gridsmith/gridcast/internal/activity"
	"github.com/gridsmith/gridcast/internal/forecast"
	"github.com/gridsmith/gridcast/internal/metrics"
	"github.com/gridsmith/gridcast/internal/store"
)

// Version reported by the root and health endpoints.
const Version = "0.1.0"

// Explainer generates natural-language explanations, satisfied by
// *agent.Agent. Nil means the agent never initialized.
type Explainer interface {
	Explain(ctx context.Context, question string, forecastValue float64) (string, error)
}

// Handler wires the HTTP surface to the forecast service and the agent.
type Handler struct {
	Forecaster *forecast.Service
	Explainer  Explainer
	History    *store.Store
	Activity   *activity.Log
	Latency    *metrics.Tracker

	DefaultHorizon int
	MaxHorizon     int

	// Now is the clock; overridable in tests.
	Now func() time.Time
}

// Register attaches all routes to the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/", h.handleIndex)
	mux.HandleFunc("/health", h.handleHealth)
	mux.HandleFunc("/forecast", h.handleForecast)
	mux.HandleFunc("/explain", h.handleExplain)
	mux.HandleFunc("/runs", h.handleRuns)
	mux.HandleFunc("/activity", h.handleActivity)
}

func (h *Handler) now() time.Time {
	if h.Now != nil {
		return h.Now().UTC()
	}
	return time.Now().UTC()
}
