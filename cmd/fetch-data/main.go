// Command fetch-data downloads the UCI appliances energy dataset used for
// training, skipping the download when the file already exists.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gridsmith/gridcast/internal/config"
	"github.com/gridsmith/gridcast/internal/dataset"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := dataset.Fetch(ctx, cfg.DatasetURL, cfg.DatasetPath()); err != nil {
		log.Fatalf("fetch dataset: %v", err)
	}
	log.Printf("dataset ready at %s", cfg.DatasetPath())
}
