// Command train runs the full training pipeline: it fits the gradient
// boosting and seasonal models on the local dataset, evaluates both on a
// hold-out window, persists the artifacts, and records the run in the
// registry.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"

	"github.com/gridsmith/gridcast/internal/artifact"
	"github.com/gridsmith/gridcast/internal/config"
	"github.com/gridsmith/gridcast/internal/dataset"
	"github.com/gridsmith/gridcast/internal/features"
	"github.com/gridsmith/gridcast/internal/model"
	"github.com/gridsmith/gridcast/internal/store"
	"github.com/sartorproj/goarima/stats"
	"github.com/sartorproj/goarima/timeseries"
)

func main() {
	autoOrder := flag.Bool("auto", false, "select the seasonal order with auto-ARIMA instead of the default")
	report := flag.Bool("report", false, "print a seasonal decomposition summary of the dataset")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	table, err := dataset.Load(cfg.DatasetPath())
	if err != nil {
		log.Fatalf("load dataset: %v (run fetch-data first)", err)
	}
	log.Printf("loaded %d rows from %s to %s",
		table.Len(),
		table.Times[0].Format("2006-01-02 15:04"),
		table.Times[table.Len()-1].Format("2006-01-02 15:04"))

	if *report {
		printDecomposition(table.Series())
	}

	startedAt := time.Now().UTC()
	run := store.RunRecord{
		ID:              uuid.NewString(),
		StartedAt:       startedAt,
		DatasetRows:     table.Len(),
		GBTTrees:        cfg.GBTTrees,
		GBTMaxDepth:     cfg.GBTMaxDepth,
		GBTLearningRate: cfg.GBTLearningRate,
	}

	bundle := &artifact.Bundle{
		TrainedAt:    startedAt,
		TrainingRows: table.Len(),
		DatasetPath:  cfg.DatasetPath(),
	}

	gbtMetrics := trainGBT(cfg, table, bundle)
	run.GBTMAE = gbtMetrics.MAE
	run.GBTRMSE = gbtMetrics.RMSE

	seasonalMetrics, order := trainSeasonal(cfg, table, *autoOrder)
	run.SeasonalMAE = seasonalMetrics.MAE
	run.SeasonalRMSE = seasonalMetrics.RMSE
	run.SeasonalOrder = order.String()
	bundle.SeasonalOrder = order

	if err := artifact.Save(cfg.ModelsDir, bundle); err != nil {
		log.Fatalf("save artifacts: %v", err)
	}
	log.Printf("artifacts saved to %s", cfg.ModelsDir)

	run.FinishedAt = time.Now().UTC()
	recordRun(cfg, run)
	log.Printf("training complete, run %s", run.ID)
}

func trainGBT(cfg config.Config, table *dataset.Table, bundle *artifact.Bundle) model.Metrics {
	m, err := features.Build(table)
	if err != nil {
		log.Fatalf("build features: %v", err)
	}

	rows, _ := m.X.Dims()
	valRows := cfg.ValidationHours()
	if valRows >= rows {
		log.Fatalf("dataset too small: %d feature rows, %d needed for validation", rows, valRows)
	}
	split := rows - valRows

	xTrain := denseSlice(m.X, 0, split)
	xVal := denseSlice(m.X, split, rows)
	yTrain := m.Y[:split]
	yVal := m.Y[split:]

	log.Printf("gbt: %d features, %d training rows, %d validation rows", len(m.Names), split, valRows)

	scaler, err := features.FitScaler(xTrain)
	if err != nil {
		log.Fatalf("fit scaler: %v", err)
	}
	xTrainScaled, err := scaler.Transform(xTrain)
	if err != nil {
		log.Fatalf("scale training set: %v", err)
	}
	xValScaled, err := scaler.Transform(xVal)
	if err != nil {
		log.Fatalf("scale validation set: %v", err)
	}

	gbt, err := model.TrainGBT(xTrainScaled, yTrain, model.GBTParams{
		Trees:        cfg.GBTTrees,
		MaxDepth:     cfg.GBTMaxDepth,
		LearningRate: cfg.GBTLearningRate,
	})
	if err != nil {
		log.Fatalf("train gbt: %v", err)
	}

	pred, err := gbt.Predict(xValScaled)
	if err != nil {
		log.Fatalf("evaluate gbt: %v", err)
	}
	metrics, err := model.Evaluate(yVal, pred)
	if err != nil {
		log.Fatalf("evaluate gbt: %v", err)
	}
	log.Printf("gbt: MAE=%.4f RMSE=%.4f", metrics.MAE, metrics.RMSE)

	if err := gbt.Save(artifact.GBTModelPath(cfg.ModelsDir)); err != nil {
		log.Fatalf("save gbt model: %v", err)
	}

	bundle.FeatureNames = m.Names
	bundle.Scaler = scaler
	return metrics
}

func trainSeasonal(cfg config.Config, table *dataset.Table, auto bool) (model.Metrics, model.SeasonalOrder) {
	series := table.Series()
	valRows := cfg.ValidationHours()
	if valRows >= series.Len() {
		log.Fatalf("dataset too small for seasonal validation window")
	}
	split := series.Len() - valRows
	train := series.Slice(0, split)

	order := model.DefaultSeasonalOrder()
	if auto {
		log.Printf("seasonal: running auto order selection")
		selected, err := model.SelectSeasonalOrder(train)
		if err != nil {
			log.Printf("seasonal: auto selection failed, keeping default: %v", err)
		} else {
			order = selected
		}
	}

	log.Printf("seasonal: fitting SARIMA %s on %d rows", order, train.Len())
	seasonal, err := model.FitSeasonal(train, order)
	if err != nil {
		log.Fatalf("fit seasonal: %v", err)
	}

	pred, _, _, err := seasonal.Forecast(valRows)
	if err != nil {
		log.Fatalf("evaluate seasonal: %v", err)
	}
	metrics, err := model.Evaluate(series.Values[split:], pred)
	if err != nil {
		log.Fatalf("evaluate seasonal: %v", err)
	}
	log.Printf("seasonal: MAE=%.4f RMSE=%.4f AIC=%.2f", metrics.MAE, metrics.RMSE, seasonal.AIC())

	return metrics, order
}

func recordRun(cfg config.Config, run store.RunRecord) {
	registry, err := store.Open(cfg.HistoryDB)
	if err != nil {
		log.Printf("run registry: %v", err)
		return
	}
	defer registry.Close()

	if err := registry.RecordRun(context.Background(), run); err != nil {
		log.Printf("record run: %v", err)
		return
	}
	log.Printf("run recorded: gbt MAE=%.4f, seasonal MAE=%.4f", run.GBTMAE, run.SeasonalMAE)
}

// printDecomposition summarizes trend and daily seasonality of the target.
func printDecomposition(series *timeseries.Series) {
	dec := stats.Decompose(series, model.SeasonalPeriod, "additive")
	if dec == nil {
		log.Printf("report: series too short for decomposition")
		return
	}
	log.Printf("report: target mean=%.2f std=%.2f", series.Mean(), series.Std())
	log.Printf("report: seasonal amplitude=%.2f (period %dh), residual std=%.2f",
		dec.Seasonal.Max()-dec.Seasonal.Min(), dec.Period, dec.Residual.Std())
}

// denseSlice copies rows [from, to) of x into a new matrix.
func denseSlice(x *mat.Dense, from, to int) *mat.Dense {
	_, cols := x.Dims()
	out := mat.NewDense(to-from, cols, nil)
	for r := from; r < to; r++ {
		for c := 0; c < cols; c++ {
			out.Set(r-from, c, x.At(r, c))
		}
	}
	return out
}
