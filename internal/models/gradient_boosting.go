package models

import (
	"math"
	"sort"
)

// Stump is a depth-one regression tree on the logistic loss residuals.
type Stump struct {
	Feature   int
	Threshold float64
	LeftVal   float64
	RightVal  float64
}

func (s Stump) value(x []float64) float64 {
	if x[s.Feature] > s.Threshold {
		return s.RightVal
	}
	return s.LeftVal
}

// GradientBoosting fits stumps to the residuals of a logistic model, starting
// from the training prior's log-odds.
type GradientBoosting struct {
	NEstimators        int
	LearningRate       float64
	MinSamples         int
	MaxThresholdsPerFe int
	NFeatures          int
	Init               float64
	Trees              []Stump
}

func NewGradientBoosting() *GradientBoosting {
	return &GradientBoosting{NEstimators: 50, LearningRate: 0.1, MaxThresholdsPerFe: 32}
}

func (gb *GradientBoosting) Name() string { return "GradientBoosting" }

func (gb *GradientBoosting) Trained() bool { return len(gb.Trees) > 0 }

func sigmoid(z float64) float64 { return 1.0 / (1.0 + math.Exp(-z)) }

func (gb *GradientBoosting) Fit(X [][]float64, y []int) error {
	if err := checkXY(X, y); err != nil {
		return err
	}
	n := len(X)
	pos := 0
	for i := 0; i < n; i++ {
		pos += y[i]
	}
	base := math.Min(math.Max(float64(pos)/float64(n), 1e-3), 1-1e-3)
	gb.Init = math.Log(base / (1.0 - base))
	gb.Trees = gb.Trees[:0]

	F := make([]float64, n)
	for i := range F {
		F[i] = gb.Init
	}
	r := make([]float64, n)
	nFeats := len(X[0])
	gb.NFeatures = nFeats
	cands := make([][]float64, nFeats)
	for j := 0; j < nFeats; j++ {
		cands[j] = quantileThresholds(X, j, gb.MaxThresholdsPerFe)
	}

	for m := 0; m < gb.NEstimators; m++ {
		for i := 0; i < n; i++ {
			r[i] = float64(y[i]) - sigmoid(F[i])
		}
		best, ok := gb.bestStump(X, r, cands)
		if !ok {
			break
		}
		gb.Trees = append(gb.Trees, best)
		for i := 0; i < n; i++ {
			F[i] += gb.LearningRate * best.value(X[i])
		}
	}
	return nil
}

func (gb *GradientBoosting) bestStump(X [][]float64, r []float64, cands [][]float64) (Stump, bool) {
	best := Stump{Feature: -1}
	bestSSE := math.MaxFloat64
	for j, thrs := range cands {
		for _, thr := range thrs {
			var lSum, lCount, rSum, rCount, lSq, rSq float64
			for i := range X {
				if X[i][j] <= thr {
					lSum += r[i]
					lSq += r[i] * r[i]
					lCount++
				} else {
					rSum += r[i]
					rSq += r[i] * r[i]
					rCount++
				}
			}
			if lCount == 0 || rCount == 0 || int(lCount) < gb.MinSamples || int(rCount) < gb.MinSamples {
				continue
			}
			// sum of squared deviations from each side's mean
			sse := (lSq - lSum*lSum/lCount) + (rSq - rSum*rSum/rCount)
			if sse < bestSSE {
				bestSSE = sse
				best = Stump{Feature: j, Threshold: thr, LeftVal: lSum / lCount, RightVal: rSum / rCount}
			}
		}
	}
	return best, best.Feature >= 0
}

func (gb *GradientBoosting) CheckInputs(width int) error {
	if gb.NFeatures != width {
		return inputsErr("%s fitted on %d features, want %d", gb.Name(), gb.NFeatures, width)
	}
	for i, s := range gb.Trees {
		if s.Feature < 0 || s.Feature >= width {
			return inputsErr("stump %d splits on feature %d outside [0, %d)", i, s.Feature, width)
		}
	}
	return nil
}

func (gb *GradientBoosting) PredictProba(X [][]float64) []float64 {
	out := make([]float64, len(X))
	for i := range X {
		f := gb.Init
		for _, t := range gb.Trees {
			f += gb.LearningRate * t.value(X[i])
		}
		out[i] = sigmoid(f)
	}
	return out
}

func (gb *GradientBoosting) Predict(X [][]float64) []int { return toLabels(gb.PredictProba(X)) }

func quantileThresholds(X [][]float64, j int, nCand int) []float64 {
	if nCand <= 0 {
		nCand = 16
	}
	n := len(X)
	vals := make([]float64, n)
	for i := 0; i < n; i++ {
		vals[i] = X[i][j]
	}
	sort.Float64s(vals)
	out := make([]float64, 0, nCand)
	for k := 1; k < nCand; k++ {
		idx := int(math.Round(float64(k) / float64(nCand) * float64(n-1)))
		if idx <= 0 || idx >= n {
			continue
		}
		if thr := vals[idx]; len(out) == 0 || thr != out[len(out)-1] {
			out = append(out, thr)
		}
	}
	if len(out) == 0 {
		sum := 0.0
		for _, v := range vals {
			sum += v
		}
		out = append(out, sum/float64(n))
	}
	return out
}
