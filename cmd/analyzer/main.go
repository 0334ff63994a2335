package main

import (
	"fmt"
	"os"
	"strings"

	"heartrisk/internal/data"
	"heartrisk/internal/evaluate"
	"heartrisk/internal/models"
	"heartrisk/internal/report"
	"heartrisk/pkg/utils"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		l := utils.CLILogger()
		l.Error("command failed", zap.Error(err))
		_ = l.Sync()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		algo       string
		estimators int
		maxDepth   int
		minSamples int
		lr         float64
		points     int
		seed       int64
		dataPath   string
		outImg     string
		outCSV     string
	)
	cmd := &cobra.Command{
		Use:           "analyzer",
		Short:         "Draw a learning curve for one algorithm over a heart dataset",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := utils.CLILogger()
			defer logger.Sync()

			records, err := data.ReadCSV(dataPath)
			if err != nil {
				return fmt.Errorf("read dataset %s: %w", dataPath, err)
			}
			X, y := data.XY(records)
			split := evaluate.StratifiedSplit(X, y, 0.8, seed)

			params := models.Params{
				Estimators: estimators, MaxDepth: maxDepth, MinSamples: minSamples,
				LearningRate: lr, Seed: seed,
			}
			build := func() models.Model { return models.New(algo, params) }
			sizes := evaluate.CurveSizes(len(split.XTrain), points, 50, false)
			pts, err := evaluate.LearningCurve(build, split, sizes, evaluate.ThresholdPolicy{Fixed: 0.5})
			if err != nil {
				return err
			}
			name := build().Name()
			for _, p := range pts {
				logger.Info("Curve point",
					zap.String("model", name),
					zap.Int("size", p.Size),
					zap.Float64("train_acc", p.Train.Accuracy),
					zap.Float64("test_acc", p.Test.Accuracy),
					zap.Float64("test_roc_auc", p.Test.ROCAUC),
				)
			}

			if err := report.WriteCurveCSV(outCSV, pts); err != nil {
				return fmt.Errorf("write curve CSV: %w", err)
			}
			if err := report.PlotCurvePNG(outImg, "Learning curve: "+name, pts); err != nil {
				return fmt.Errorf("write curve PNG: %w", err)
			}
			logger.Info("Curve saved", zap.String("csv", outCSV), zap.String("png", outImg))
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&algo, "algo", "dt", "algorithm: "+strings.Join(models.Kinds, "|"))
	f.IntVar(&estimators, "estimators", 0, "ensemble size (rf/bagging/gb) or epochs (lr); 0 keeps the model default")
	f.IntVar(&maxDepth, "max_depth", 6, "maximum tree depth")
	f.IntVar(&minSamples, "min_samples", 10, "minimum samples to split")
	f.Float64Var(&lr, "lr", 0.1, "learning rate (gb/lr)")
	f.IntVar(&points, "points", 8, "points on the curve")
	f.Int64Var(&seed, "seed", 42, "seed for splitting and training")
	f.StringVar(&dataPath, "data", "data/heart.csv", "input CSV")
	f.StringVar(&outImg, "out_img", "reports/learning_curve.png", "output PNG")
	f.StringVar(&outCSV, "out_csv", "reports/learning_curve.csv", "output CSV")
	return cmd
}
