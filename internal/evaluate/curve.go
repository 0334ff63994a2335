package evaluate

import (
	"fmt"

	"heartrisk/internal/models"
)

// ThresholdPolicy decides the cut-off used when scoring a fitted model.
// With Auto unset, Fixed is used as is.
type ThresholdPolicy struct {
	Fixed     float64
	Auto      bool
	Objective Objective
	Min, Max  float64
}

// Choose tunes the threshold on the last tenth of the training set (at least
// minRows rows) when Auto is set, then clamps it.
func (p ThresholdPolicy) Choose(m models.Model, X [][]float64, y []int, minRows int) float64 {
	thr := p.Fixed
	if p.Auto {
		vX, vY := Tail(X, y, 0.1, minRows)
		thr, _ = BestThreshold(vY, m.PredictProba(vX), p.Objective)
	}
	if p.Max > p.Min {
		thr = Clamp(thr, p.Min, p.Max)
	}
	return thr
}

// CurvePoint is one training-set size of a learning curve.
type CurvePoint struct {
	Size  int
	Train Metrics
	Test  Metrics
}

// LearningCurve refits a fresh model on growing prefixes of the training set
// and scores it on both the prefix and the full test set.
func LearningCurve(build func() models.Model, s Split, sizes []int, policy ThresholdPolicy) ([]CurvePoint, error) {
	out := make([]CurvePoint, 0, len(sizes))
	for _, size := range sizes {
		if size <= 0 || size > len(s.XTrain) {
			return nil, fmt.Errorf("curve size %d outside training set of %d rows", size, len(s.XTrain))
		}
		subX, subY := s.XTrain[:size], s.YTrain[:size]
		m := build()
		if err := m.Fit(subX, subY); err != nil {
			return nil, fmt.Errorf("fit at size %d: %w", size, err)
		}
		thr := policy.Choose(m, subX, subY, 50)
		out = append(out, CurvePoint{
			Size:  size,
			Train: Evaluate(subY, m.PredictProba(subX), thr),
			Test:  Evaluate(s.YTest, m.PredictProba(s.XTest), thr),
		})
	}
	return out, nil
}
