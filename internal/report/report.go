// Package report writes learning curves as CSV and PNG.
package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"heartrisk/internal/evaluate"
)

var curveHeader = []string{
	"size", "train_acc", "test_acc", "train_f1", "test_f1",
	"train_roc_auc", "test_roc_auc", "train_pr_auc", "test_pr_auc", "threshold",
}

func WriteCurveCSV(path string, pts []evaluate.CurvePoint) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(curveHeader); err != nil {
		return err
	}
	for _, p := range pts {
		rec := []string{strconv.Itoa(p.Size)}
		for _, v := range []float64{
			p.Train.Accuracy, p.Test.Accuracy, p.Train.F1, p.Test.F1,
			p.Train.ROCAUC, p.Test.ROCAUC, p.Train.PRAUC, p.Test.PRAUC, p.Test.Threshold,
		} {
			rec = append(rec, fmt.Sprintf("%.6f", v))
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// PlotCurvePNG draws train/test accuracy and F1 against training-set size.
func PlotCurvePNG(path, title string, pts []evaluate.CurvePoint) error {
	if len(pts) == 0 {
		return fmt.Errorf("no curve points to plot")
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Training samples"
	p.Y.Label.Text = "Score"
	p.Y.Min = 0
	p.Y.Max = 1

	series := func(get func(evaluate.CurvePoint) float64) plotter.XYs {
		xys := make(plotter.XYs, len(pts))
		for i, pt := range pts {
			xys[i].X = float64(pt.Size)
			xys[i].Y = get(pt)
		}
		return xys
	}
	if err := plotutil.AddLinePoints(p,
		"Train (Acc)", series(func(c evaluate.CurvePoint) float64 { return c.Train.Accuracy }),
		"Test (Acc)", series(func(c evaluate.CurvePoint) float64 { return c.Test.Accuracy }),
		"Train (F1)", series(func(c evaluate.CurvePoint) float64 { return c.Train.F1 }),
		"Test (F1)", series(func(c evaluate.CurvePoint) float64 { return c.Test.F1 }),
	); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return p.Save(8*vg.Inch, 4*vg.Inch, path)
}
