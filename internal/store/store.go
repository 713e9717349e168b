// Package store persists training runs and served-forecast history in a
// local SQLite database. The run registry replaces external experiment
// tracking: every `train` invocation is recorded with its metrics.
package store

import (
	"context"
	"database/sql"
	"time"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS training_runs (
  run_id TEXT PRIMARY KEY,
  started_at DATETIME NOT NULL,
  finished_at DATETIME NOT NULL,
  dataset_rows INTEGER NOT NULL DEFAULT 0,
  gbt_mae REAL NOT NULL DEFAULT 0,
  gbt_rmse REAL NOT NULL DEFAULT 0,
  seasonal_mae REAL NOT NULL DEFAULT 0,
  seasonal_rmse REAL NOT NULL DEFAULT 0,
  gbt_trees INTEGER NOT NULL DEFAULT 0,
  gbt_max_depth INTEGER NOT NULL DEFAULT 0,
  gbt_learning_rate REAL NOT NULL DEFAULT 0,
  seasonal_order TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS forecast_requests (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  requested_at DATETIME NOT NULL,
  model TEXT NOT NULL,
  horizon INTEGER NOT NULL,
  duration_ms INTEGER NOT NULL DEFAULT 0
);
`)
	return err
}

// RunRecord is one training pipeline execution.
type RunRecord struct {
	ID          string
	StartedAt   time.Time
	FinishedAt  time.Time
	DatasetRows int

	GBTMAE       float64
	GBTRMSE      float64
	SeasonalMAE  float64
	SeasonalRMSE float64

	GBTTrees        int
	GBTMaxDepth     int
	GBTLearningRate float64
	SeasonalOrder   string
}

// ForecastRecord is one served /forecast request.
type ForecastRecord struct {
	RequestedAt time.Time
	Model       string
	Horizon     int
	Duration    time.Duration
}

func (s *Store) RecordRun(ctx context.Context, r RunRecord) error {
	if s.db == nil {
		return nil
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO training_runs(
  run_id, started_at, finished_at, dataset_rows,
  gbt_mae, gbt_rmse, seasonal_mae, seasonal_rmse,
  gbt_trees, gbt_max_depth, gbt_learning_rate, seasonal_order
) VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
`, r.ID, r.StartedAt, r.FinishedAt, r.DatasetRows,
		r.GBTMAE, r.GBTRMSE, r.SeasonalMAE, r.SeasonalRMSE,
		r.GBTTrees, r.GBTMaxDepth, r.GBTLearningRate, r.SeasonalOrder)
	return err
}

func (s *Store) ListRuns(ctx context.Context) ([]RunRecord, error) {
	if s.db == nil {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT run_id, started_at, finished_at, dataset_rows,
       gbt_mae, gbt_rmse, seasonal_mae, seasonal_rmse,
       gbt_trees, gbt_max_depth, gbt_learning_rate, seasonal_order
FROM training_runs ORDER BY started_at DESC;
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var r RunRecord
		if err := rows.Scan(&r.ID, &r.StartedAt, &r.FinishedAt, &r.DatasetRows,
			&r.GBTMAE, &r.GBTRMSE, &r.SeasonalMAE, &r.SeasonalRMSE,
			&r.GBTTrees, &r.GBTMaxDepth, &r.GBTLearningRate, &r.SeasonalOrder); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// LatestRun returns the most recent training run, if any.
func (s *Store) LatestRun(ctx context.Context) (RunRecord, bool, error) {
	if s.db == nil {
		return RunRecord{}, false, nil
	}
	row := s.db.QueryRowContext(ctx, `
SELECT run_id, started_at, finished_at, dataset_rows,
       gbt_mae, gbt_rmse, seasonal_mae, seasonal_rmse,
       gbt_trees, gbt_max_depth, gbt_learning_rate, seasonal_order
FROM training_runs ORDER BY started_at DESC LIMIT 1;
`)

	var r RunRecord
	err := row.Scan(&r.ID, &r.StartedAt, &r.FinishedAt, &r.DatasetRows,
		&r.GBTMAE, &r.GBTRMSE, &r.SeasonalMAE, &r.SeasonalRMSE,
		&r.GBTTrees, &r.GBTMaxDepth, &r.GBTLearningRate, &r.SeasonalOrder)
	if err == sql.ErrNoRows {
		return RunRecord{}, false, nil
	}
	if err != nil {
		return RunRecord{}, false, err
	}
	return r, true, nil
}

func (s *Store) RecordForecast(ctx context.Context, r ForecastRecord) error {
	if s.db == nil {
		return nil
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO forecast_requests(requested_at, model, horizon, duration_ms)
VALUES(?, ?, ?, ?);
`, r.RequestedAt, r.Model, r.Horizon, r.Duration.Milliseconds())
	return err
}

// CountForecasts returns the number of served forecasts since the database
// was created.
func (s *Store) CountForecasts(ctx context.Context) (int64, error) {
	if s.db == nil {
		return 0, nil
	}
	var n int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM forecast_requests;").Scan(&n)
	return n, err
}
