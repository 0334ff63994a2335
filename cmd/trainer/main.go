package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"heartrisk/internal/artifact"
	"heartrisk/internal/config"
	"heartrisk/internal/data"
	"heartrisk/internal/evaluate"
	"heartrisk/internal/models"
	"heartrisk/internal/report"
	"heartrisk/internal/storage"
	"heartrisk/pkg/utils"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type options struct {
	regen           bool
	n               int
	seed            int64
	data            string
	out             string
	algo            string
	estimators      int
	maxDepth        int
	minSamples      int
	lr              float64
	curve           bool
	curvePoints     int
	curveImg        string
	curveCSV        string
	curveMin        int
	curveLog        bool
	threshold       float64
	thresholdAuto   bool
	thresholdMetric string
	thrMin          float64
	thrMax          float64
	upload          string
	envDir          string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		l := utils.CLILogger()
		l.Error("command failed", zap.Error(err))
		_ = l.Sync()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var o options
	cmd := &cobra.Command{
		Use:           "trainer",
		Short:         "Train a heart-disease classifier and write its artifact",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return train(cmd.Context(), o)
		},
	}
	f := cmd.Flags()
	f.BoolVar(&o.regen, "regen", false, "regenerate the synthetic dataset even if the CSV exists")
	f.IntVar(&o.n, "n", 1000, "number of synthetic records")
	f.Int64Var(&o.seed, "seed", 42, "seed for data generation, splitting and training")
	f.StringVar(&o.data, "data", "data/heart.csv", "dataset CSV (generated when missing)")
	f.StringVar(&o.out, "out", "models/heart_model.gob", "artifact output path")
	f.StringVar(&o.algo, "algo", "rf", "algorithm: "+strings.Join(models.Kinds, "|"))
	f.IntVar(&o.estimators, "estimators", 0, "ensemble size (rf/bagging/gb) or epochs (lr); 0 keeps the model default")
	f.IntVar(&o.maxDepth, "max_depth", 6, "maximum tree depth")
	f.IntVar(&o.minSamples, "min_samples", 10, "minimum samples to split")
	f.Float64Var(&o.lr, "lr", 0.1, "learning rate (gb/lr)")
	f.BoolVar(&o.curve, "curve", false, "write a learning curve (PNG and CSV)")
	f.IntVar(&o.curvePoints, "curve_points", 8, "points on the learning curve")
	f.StringVar(&o.curveImg, "curve_out_img", "reports/learning_curve.png", "learning curve PNG")
	f.StringVar(&o.curveCSV, "curve_out_csv", "reports/learning_curve.csv", "learning curve CSV")
	f.IntVar(&o.curveMin, "curve_min", 50, "smallest training size on the curve")
	f.BoolVar(&o.curveLog, "curve_log", true, "space curve sizes logarithmically")
	f.Float64Var(&o.threshold, "threshold", 0.5, "decision threshold when not chosen automatically")
	f.BoolVar(&o.thresholdAuto, "threshold_auto", true, "pick the threshold that maximises threshold_metric")
	f.StringVar(&o.thresholdMetric, "threshold_metric", "f1", "metric for the automatic threshold: f1|acc")
	f.Float64Var(&o.thrMin, "threshold_min", 0.05, "lower bound for the automatic threshold")
	f.Float64Var(&o.thrMax, "threshold_max", 0.95, "upper bound for the automatic threshold")
	f.StringVar(&o.upload, "upload", "", "also upload the artifact to s3://bucket/key (storage settings from .env)")
	f.StringVar(&o.envDir, "env", ".", "directory holding the .env file")
	return cmd
}

func train(ctx context.Context, o options) error {
	logger := utils.CLILogger()
	defer logger.Sync()

	obj, err := evaluate.ParseObjective(o.thresholdMetric)
	if err != nil {
		return err
	}
	if o.thrMin <= 0 || o.thrMax >= 1 || o.thrMin >= o.thrMax {
		return fmt.Errorf("threshold bounds must satisfy 0 < min < max < 1")
	}
	if o.threshold <= 0 || o.threshold >= 1 {
		return fmt.Errorf("threshold must lie in (0, 1)")
	}

	records, err := loadDataset(logger, o)
	if err != nil {
		return err
	}
	X, y := data.XY(records)
	split := evaluate.StratifiedSplit(X, y, 0.8, o.seed)
	pos := 0
	for _, v := range y {
		pos += v
	}
	logger.Info("Class distribution", zap.Int("positive", pos), zap.Int("negative", len(y)-pos),
		zap.Int("train", len(split.XTrain)), zap.Int("test", len(split.XTest)))

	params := models.Params{
		Estimators: o.estimators, MaxDepth: o.maxDepth, MinSamples: o.minSamples,
		LearningRate: o.lr, Seed: o.seed,
	}
	mdl := models.New(o.algo, params)
	if err := mdl.Fit(split.XTrain, split.YTrain); err != nil {
		return fmt.Errorf("train %s: %w", mdl.Name(), err)
	}

	policy := evaluate.ThresholdPolicy{
		Fixed: o.threshold, Auto: o.thresholdAuto, Objective: obj, Min: o.thrMin, Max: o.thrMax,
	}
	thr := policy.Choose(mdl, split.XTrain, split.YTrain, 100)
	m := evaluate.Evaluate(split.YTest, mdl.PredictProba(split.XTest), thr)
	logger.Info("Holdout metrics",
		zap.String("model", mdl.Name()),
		zap.Float64("accuracy", m.Accuracy),
		zap.Float64("f1", m.F1),
		zap.Float64("precision", m.Precision),
		zap.Float64("recall", m.Recall),
		zap.Float64("roc_auc", m.ROCAUC),
		zap.Float64("pr_auc", m.PRAUC),
		zap.Float64("threshold", thr),
	)

	meta := artifact.Meta{
		Threshold: thr,
		TrainedAt: time.Now().UTC(),
		Samples:   len(split.XTrain),
		Metrics:   m.Map(),
	}
	if err := artifact.Save(o.out, mdl, meta); err != nil {
		return fmt.Errorf("save model: %w", err)
	}
	logger.Info("Model saved", zap.String("path", o.out), zap.String("model", mdl.Name()))

	if o.curve {
		sizes := evaluate.CurveSizes(len(split.XTrain), o.curvePoints, o.curveMin, o.curveLog)
		build := func() models.Model { return models.New(o.algo, params) }
		pts, err := evaluate.LearningCurve(build, split, sizes, policy)
		if err != nil {
			return err
		}
		if err := report.WriteCurveCSV(o.curveCSV, pts); err != nil {
			logger.Warn("Failed to write curve CSV", zap.Error(err))
		}
		if err := report.PlotCurvePNG(o.curveImg, "Learning curve: "+mdl.Name(), pts); err != nil {
			logger.Warn("Failed to write curve PNG", zap.Error(err))
		} else {
			logger.Info("Learning curve written", zap.String("png", o.curveImg), zap.String("csv", o.curveCSV))
		}
	}

	if o.upload != "" {
		return upload(ctx, logger, o)
	}
	return nil
}

// loadDataset reads the CSV, generating a synthetic one first when asked or when it is missing.
func loadDataset(logger *zap.Logger, o options) ([]data.Record, error) {
	_, statErr := os.Stat(o.data)
	if o.regen || os.IsNotExist(statErr) {
		logger.Info("Generating synthetic dataset", zap.Int("n", o.n), zap.String("out", o.data))
		if err := data.WriteCSV(o.data, data.GenerateSynthetic(o.n, o.seed)); err != nil {
			return nil, fmt.Errorf("generate dataset: %w", err)
		}
	}
	records, err := data.ReadCSV(o.data)
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", o.data, err)
	}
	return records, nil
}

func upload(ctx context.Context, logger *zap.Logger, o options) error {
	bucket, key, err := artifact.ParseObjectRef(o.upload)
	if err != nil {
		return err
	}
	cfg, err := config.LoadConfig(o.envDir)
	if err != nil {
		return err
	}
	if !cfg.Storage.Enabled() {
		return fmt.Errorf("upload to %s: STORAGE_ENDPOINT is not set", o.upload)
	}
	client, err := storage.NewClient(cfg.Storage)
	if err != nil {
		return err
	}
	info, err := storage.UploadFile(ctx, client, bucket, key, o.out)
	if err != nil {
		return fmt.Errorf("upload to %s: %w", o.upload, err)
	}
	logger.Info("Model uploaded", zap.String("ref", o.upload), zap.Int64("size", info.Size), zap.String("etag", info.ETag))
	return nil
}
