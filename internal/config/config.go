// Package config holds the process configuration for all gridcast binaries.
//
// Everything is read from the environment so the server, the trainer and the
// dataset fetcher can share one configuration surface without flag plumbing.
package config

import (
	"fmt"
	"path/filepath"

	"github.com/caarlos0/env/v11"
)

// Config is the environment-driven configuration shared by all commands.
type Config struct {
	// HTTP server.
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`

	// Directories and files.
	DataDir     string `env:"DATA_DIR" envDefault:"data"`
	ModelsDir   string `env:"MODELS_DIR" envDefault:"models"`
	DatasetFile string `env:"DATASET_FILE" envDefault:"appliances_energy.csv"`
	HistoryDB   string `env:"HISTORY_DB_PATH" envDefault:"gridcast.db"`

	// Upstream dataset source (UCI appliances energy prediction data).
	DatasetURL string `env:"DATASET_URL" envDefault:"https://archive.ics.uci.edu/ml/machine-learning-databases/00374/energydata_complete.csv"`

	// Ollama backend for the explanation agent.
	OllamaBaseURL string `env:"OLLAMA_BASE_URL" envDefault:"http://localhost:11434"`
	OllamaModel   string `env:"OLLAMA_MODEL" envDefault:"gpt-oss:120b-cloud"`

	// Forecast horizon bounds, in hours.
	DefaultHorizon int `env:"DEFAULT_HORIZON_HOURS" envDefault:"24"`
	MaxHorizon     int `env:"MAX_HORIZON_HOURS" envDefault:"168"`

	// Training.
	ValidationDays  int     `env:"VALIDATION_DAYS" envDefault:"30"`
	GBTTrees        int     `env:"GBT_TREES" envDefault:"100"`
	GBTMaxDepth     int     `env:"GBT_MAX_DEPTH" envDefault:"6"`
	GBTLearningRate float64 `env:"GBT_LEARNING_RATE" envDefault:"0.1"`
}

// Load parses the configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.DefaultHorizon < 1 || cfg.MaxHorizon < cfg.DefaultHorizon {
		return Config{}, fmt.Errorf("invalid horizon bounds: default=%d max=%d", cfg.DefaultHorizon, cfg.MaxHorizon)
	}
	return cfg, nil
}

// DatasetPath returns the on-disk location of the training CSV.
func (c Config) DatasetPath() string {
	return filepath.Join(c.DataDir, c.DatasetFile)
}

// ValidationHours returns the size of the hold-out window in hours.
func (c Config) ValidationHours() int {
	return c.ValidationDays * 24
}
