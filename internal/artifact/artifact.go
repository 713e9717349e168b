// Package artifact persists the training outputs the server needs at startup:
// the feature name list, the fitted scaler, and the seasonal model manifest.
// The gradient-boosted-tree model itself is saved by its own library in
// LightGBM text format next to the bundle.
package artifact

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gridsmith/gridcast/internal/features"
	"github.com/gridsmith/gridcast/internal/model"
)

const (
	bundleFile = "bundle.gob"
	gbtFile    = "gbt_model.txt"
)

// Bundle is the persistent artifact set written by `train` and loaded
// wholesale by the server.
type Bundle struct {
	FeatureNames  []string
	Scaler        *features.Scaler
	SeasonalOrder model.SeasonalOrder

	TrainedAt    time.Time
	TrainingRows int
	DatasetPath  string
}

// Validate checks the invariant the original system left implicit: the scaler
// and the feature list must describe the same vector layout.
func (b *Bundle) Validate() error {
	if len(b.FeatureNames) == 0 {
		return fmt.Errorf("bundle has no feature names")
	}
	if b.Scaler == nil {
		return fmt.Errorf("bundle has no scaler")
	}
	if b.Scaler.Dim() != len(b.FeatureNames) {
		return fmt.Errorf("scaler fitted on %d features but bundle lists %d names",
			b.Scaler.Dim(), len(b.FeatureNames))
	}
	return nil
}

// Save writes the bundle to dir, creating it if needed.
func Save(dir string, b *Bundle) error {
	if err := b.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create models dir: %w", err)
	}

	f, err := os.Create(filepath.Join(dir, bundleFile))
	if err != nil {
		return fmt.Errorf("create bundle: %w", err)
	}
	defer f.Close()

	if err := gob.NewEncoder(f).Encode(b); err != nil {
		return fmt.Errorf("encode bundle: %w", err)
	}
	return nil
}

// Load reads and validates the bundle from dir.
func Load(dir string) (*Bundle, error) {
	f, err := os.Open(filepath.Join(dir, bundleFile))
	if err != nil {
		return nil, fmt.Errorf("open bundle: %w", err)
	}
	defer f.Close()

	var b Bundle
	if err := gob.NewDecoder(f).Decode(&b); err != nil {
		return nil, fmt.Errorf("decode bundle: %w", err)
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return &b, nil
}

// GBTModelPath returns the model file location inside dir.
func GBTModelPath(dir string) string {
	return filepath.Join(dir, gbtFile)
}
