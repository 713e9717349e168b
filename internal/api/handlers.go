package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gridsmith/gridcast/internal/activity"
	"github.com/gridsmith/gridcast/internal/forecast"
	"github.com/gridsmith/gridcast/internal/httpx"
	"github.com/gridsmith/gridcast/internal/store"
)

type forecastRequest struct {
	Horizon int    `json:"horizon"`
	Model   string `json:"model"`
}

type forecastResponse struct {
	Forecast   []float64 `json:"forecast"`
	Lower      []float64 `json:"lower,omitempty"`
	Upper      []float64 `json:"upper,omitempty"`
	Timestamps []string  `json:"timestamps"`
	ModelUsed  string    `json:"model_used"`
	Horizon    int       `json:"horizon"`
}

func (h *Handler) handleForecast(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req forecastRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, fmt.Sprintf("invalid json: %v", err))
		return
	}
	if req.Horizon == 0 {
		req.Horizon = h.DefaultHorizon
	}
	if req.Horizon < 1 || req.Horizon > h.MaxHorizon {
		httpx.WriteError(w, http.StatusBadRequest,
			fmt.Sprintf("horizon must be between 1 and %d, got %d", h.MaxHorizon, req.Horizon))
		return
	}
	if req.Model == "" {
		req.Model = forecast.ModelGBT
	}
	if req.Model != forecast.ModelGBT && req.Model != forecast.ModelSeasonal {
		httpx.WriteError(w, http.StatusBadRequest, fmt.Sprintf("unknown model %q", req.Model))
		return
	}

	start := time.Now()
	res, err := h.Forecaster.Forecast(req.Horizon, req.Model)
	elapsed := time.Since(start)

	if h.Latency != nil {
		h.Latency.Observe(req.Model, elapsed, err == nil)
	}
	if err != nil {
		if errors.Is(err, forecast.ErrModelUnavailable) {
			httpx.WriteError(w, http.StatusServiceUnavailable, err.Error())
			return
		}
		log.Printf("api: forecast model=%s horizon=%d: %v", req.Model, req.Horizon, err)
		httpx.WriteError(w, http.StatusInternalServerError, fmt.Sprintf("forecast error: %v", err))
		return
	}

	h.recordForecast(res.ModelUsed, req.Horizon, elapsed)

	timestamps := make([]string, len(res.Timestamps))
	for i, ts := range res.Timestamps {
		timestamps[i] = ts.Format(time.RFC3339)
	}

	httpx.WriteJSON(w, http.StatusOK, forecastResponse{
		Forecast:   res.Values,
		Lower:      res.Lower,
		Upper:      res.Upper,
		Timestamps: timestamps,
		ModelUsed:  res.ModelUsed,
		Horizon:    req.Horizon,
	})
}

// recordForecast persists history and activity without blocking the response.
func (h *Handler) recordForecast(model string, horizon int, elapsed time.Duration) {
	if h.Activity != nil {
		h.Activity.Add(activity.Event{
			Type:  activity.EventForecastServed,
			Model: model,
			Note:  fmt.Sprintf("horizon=%dh", horizon),
		})
	}
	if h.History == nil {
		return
	}
	rec := store.ForecastRecord{
		RequestedAt: h.now(),
		Model:       model,
		Horizon:     horizon,
		Duration:    elapsed,
	}
	go func() {
		if err := h.History.RecordForecast(context.Background(), rec); err != nil {
			log.Printf("api: record forecast: %v", err)
		}
	}()
}

type explainRequest struct {
	Question      string   `json:"question"`
	ForecastValue *float64 `json:"forecast_value"`
}

type explainResponse struct {
	Question    string `json:"question"`
	Explanation string `json:"explanation"`
	Timestamp   string `json:"timestamp"`
}

// defaultForecastValue mirrors the historical average load used when the
// caller does not supply a value.
const defaultForecastValue = 62.5

func (h *Handler) handleExplain(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req explainRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, fmt.Sprintf("invalid json: %v", err))
		return
	}
	if req.Question == "" {
		httpx.WriteError(w, http.StatusBadRequest, "question is required")
		return
	}
	if h.Explainer == nil {
		httpx.WriteError(w, http.StatusServiceUnavailable, "explanation agent not initialized")
		return
	}

	value := defaultForecastValue
	if req.ForecastValue != nil {
		value = *req.ForecastValue
	}

	explanation, err := h.Explainer.Explain(r.Context(), req.Question, value)
	if err != nil {
		log.Printf("api: explain: %v", err)
		httpx.WriteError(w, http.StatusInternalServerError, fmt.Sprintf("explanation error: %v", err))
		return
	}

	if h.Activity != nil {
		h.Activity.Add(activity.Event{Type: activity.EventExplainServed})
	}

	httpx.WriteJSON(w, http.StatusOK, explainResponse{
		Question:    req.Question,
		Explanation: explanation,
		Timestamp:   h.now().Format(time.RFC3339),
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"status":        "ok",
		"models_loaded": h.Forecaster != nil && h.Forecaster.ModelsLoaded(),
		"timestamp":     h.now().Format(time.RFC3339),
	})
}

func (h *Handler) handleRuns(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	if h.History == nil {
		httpx.WriteJSON(w, http.StatusOK, []store.RunRecord{})
		return
	}

	runs, err := h.History.ListRuns(r.Context())
	if err != nil {
		log.Printf("api: list runs: %v", err)
		httpx.WriteError(w, http.StatusInternalServerError, "failed to list training runs")
		return
	}
	if runs == nil {
		runs = []store.RunRecord{}
	}
	httpx.WriteJSON(w, http.StatusOK, runs)
}

func (h *Handler) handleActivity(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	var events []activity.Event
	if h.Activity != nil {
		events = h.Activity.ListN(100)
	}
	if events == nil {
		events = []activity.Event{}
	}
	httpx.WriteJSON(w, http.StatusOK, events)
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	status := "models_not_loaded"
	if h.Forecaster != nil && h.Forecaster.ModelsLoaded() {
		status = "ready"
	}

	var latency any
	if h.Latency != nil {
		latency = h.Latency.Snapshot()
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"service":     "gridcast",
		"version":     Version,
		"description": "Energy load forecasting with LLM explanations",
		"status":      status,
		"latency":     latency,
		"endpoints": map[string]string{
			"GET /health":    "service health and model readiness",
			"POST /forecast": fmt.Sprintf("energy load forecast, horizon 1..%d hours, model gbt|seasonal", h.MaxHorizon),
			"POST /explain":  "natural-language explanation for a forecast value",
			"GET /runs":      "training run registry",
			"GET /activity":  "recent service events",
		},
	})
}
