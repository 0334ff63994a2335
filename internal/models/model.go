package models

import "math/rand"

// Model is a binary classifier over fixed-order feature vectors.
// PredictProba returns the probability of the positive class per row.
type Model interface {
	Fit(X [][]float64, y []int) error
	Predict(X [][]float64) []int
	PredictProba(X [][]float64) []float64
	Name() string
	Trained() bool
	// CheckInputs reports whether every feature index and weight the model
	// holds fits vectors of the given width.
	CheckInputs(width int) error
}

// Kinds lists the short names accepted by New, in the order the CLIs show them.
var Kinds = []string{"dt", "rf", "bagging", "gb", "lr"}

// Params are the tunables shared by the CLIs. Zero values keep each model's defaults.
type Params struct {
	Estimators   int
	MaxDepth     int
	MinSamples   int
	LearningRate float64
	Seed         int64
}

// New builds an untrained model of the given kind. Unknown kinds fall back to a decision tree.
func New(kind string, p Params) Model {
	switch kind {
	case "rf":
		rf := NewRandomForest()
		if p.Estimators > 0 {
			rf.NEstimators = p.Estimators
		}
		if p.MaxDepth > 0 {
			rf.MaxDepth = p.MaxDepth
		}
		if p.MinSamples > 0 {
			rf.MinSamples = p.MinSamples
		}
		rf.Seed = p.Seed
		return rf
	case "bagging":
		bg := NewBagging()
		if p.Estimators > 0 {
			bg.NEstimators = p.Estimators
		}
		if p.MaxDepth > 0 {
			bg.MaxDepth = p.MaxDepth
		}
		if p.MinSamples > 0 {
			bg.MinSamples = p.MinSamples
		}
		bg.Seed = p.Seed
		return bg
	case "gb":
		gb := NewGradientBoosting()
		if p.Estimators > 0 {
			gb.NEstimators = p.Estimators
		}
		if p.LearningRate > 0 {
			gb.LearningRate = p.LearningRate
		}
		if p.MinSamples > 0 {
			gb.MinSamples = p.MinSamples
		}
		return gb
	case "lr":
		lr := NewLogisticRegression()
		if p.Estimators > 0 {
			lr.Epochs = p.Estimators
		}
		if p.LearningRate > 0 {
			lr.LearningRate = p.LearningRate
		}
		return lr
	default:
		dt := NewDecisionTree()
		if p.MaxDepth > 0 {
			dt.MaxDepth = p.MaxDepth
		}
		if p.MinSamples > 0 {
			dt.MinSamplesSplit = p.MinSamples
		}
		dt.Seed = p.Seed
		return dt
	}
}

func newRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = 1
	}
	return rand.New(rand.NewSource(seed))
}

func toLabels(ps []float64) []int {
	out := make([]int, len(ps))
	for i := range ps {
		if ps[i] >= 0.5 {
			out[i] = 1
		}
	}
	return out
}

func checkXY(X [][]float64, y []int) error {
	if len(X) == 0 {
		return ErrEmptyDataset
	}
	if len(X) != len(y) {
		return ErrSizeMismatch
	}
	for _, row := range X[1:] {
		if len(row) != len(X[0]) {
			return ErrRaggedRows
		}
	}
	return nil
}
