package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gridsmith/gridcast/internal/activity"
	"github.com/gridsmith/gridcast/internal/agent"
	"github.com/gridsmith/gridcast/internal/api"
	"github.com/gridsmith/gridcast/internal/artifact"
	"github.com/gridsmith/gridcast/internal/config"
	"github.com/gridsmith/gridcast/internal/dataset"
	"github.com/gridsmith/gridcast/internal/forecast"
	"github.com/gridsmith/gridcast/internal/httpx"
	"github.com/gridsmith/gridcast/internal/metrics"
	"github.com/gridsmith/gridcast/internal/model"
	"github.com/gridsmith/gridcast/internal/ollama"
	"github.com/gridsmith/gridcast/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Forecast history / run registry.
	history, err := store.Open(cfg.HistoryDB)
	if err != nil {
		log.Fatalf("open history store: %v", err)
	}
	defer history.Close()

	svc := buildForecastService(cfg)
	if !svc.ModelsLoaded() {
		log.Printf("no models loaded, /forecast will return 503 until `train` has been run")
	}

	events := activity.New(300)
	explainer := buildAgent(ctx, cfg, events)

	handler := &api.Handler{
		Forecaster:     svc,
		Explainer:      explainer,
		History:        history,
		Activity:       events,
		Latency:        metrics.NewTracker(0.2),
		DefaultHorizon: cfg.DefaultHorizon,
		MaxHorizon:     cfg.MaxHorizon,
	}

	mux := http.NewServeMux()
	handler.Register(mux)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpx.CORS{AllowOrigin: "*"}.Wrap(mux),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	log.Printf("HTTP listening on %s", cfg.HTTPAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("http serve: %v", err)
	}
	log.Printf("shut down")
}

// buildForecastService loads whatever trained artifacts exist. Missing
// artifacts degrade the corresponding model instead of failing startup.
func buildForecastService(cfg config.Config) *forecast.Service {
	svc := &forecast.Service{}

	bundle, err := artifact.Load(cfg.ModelsDir)
	if err != nil {
		log.Printf("artifacts: %v", err)
		return svc
	}
	svc.Scaler = bundle.Scaler
	svc.FeatureNames = bundle.FeatureNames

	gbt, err := model.LoadGBT(artifact.GBTModelPath(cfg.ModelsDir))
	if err != nil {
		log.Printf("gbt model: %v", err)
	} else {
		svc.GBT = gbt
		log.Printf("loaded gbt model with %d features", len(bundle.FeatureNames))
	}

	// The seasonal model is refit from the dataset using the persisted order:
	// SARIMA coefficients live only in memory.
	table, err := dataset.Load(cfg.DatasetPath())
	if err != nil {
		log.Printf("seasonal model: %v", err)
		return svc
	}
	seasonal, err := model.FitSeasonal(table.Series(), bundle.SeasonalOrder)
	if err != nil {
		log.Printf("seasonal model: %v", err)
		return svc
	}
	svc.Seasonal = seasonal
	log.Printf("refit seasonal model %s on %d rows", seasonal.Order, table.Len())

	return svc
}

// buildAgent initializes the explanation agent. An unreachable Ollama backend
// is logged but does not abort startup; the agent then answers through its
// templated fallback until the backend comes back.
func buildAgent(ctx context.Context, cfg config.Config, events *activity.Log) api.Explainer {
	llm := ollama.New(cfg.OllamaBaseURL, cfg.OllamaModel)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := llm.Ping(pingCtx); err != nil {
		log.Printf("ollama not reachable at %s: %v", cfg.OllamaBaseURL, err)
		log.Printf("ensure Ollama is running: ollama serve")
	} else {
		log.Printf("connected to Ollama at %s (model %s)", cfg.OllamaBaseURL, cfg.OllamaModel)
	}

	stats := func() (dataset.Stats, error) {
		table, err := dataset.Load(cfg.DatasetPath())
		if err != nil {
			return dataset.Stats{}, err
		}
		return table.TargetStats(), nil
	}

	a := agent.New(llm, agent.QueryEnergyData(stats))
	a.Fallback = agent.TemplatedFallback(stats)
	a.OnFallback = func() {
		events.Add(activity.Event{Type: activity.EventExplainFellBack})
	}
	return a
}
