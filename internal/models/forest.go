package models

import (
	"fmt"
	"math"
	"math/rand"
)

// RandomForest averages bootstrap trees that each consider a random feature subset per split.
type RandomForest struct {
	NEstimators        int
	MaxDepth           int
	MinSamples         int
	MaxThresholdsPerFe int
	MaxFeatures        int
	Seed               int64
	Trees              []*DecisionTree
}

func NewRandomForest() *RandomForest {
	return &RandomForest{NEstimators: 30, MaxDepth: 6, MinSamples: 10, MaxThresholdsPerFe: 32}
}

func (rf *RandomForest) Name() string { return "RandomForest" }

func (rf *RandomForest) Trained() bool { return len(rf.Trees) > 0 }

func (rf *RandomForest) Fit(X [][]float64, y []int) error {
	if err := checkXY(X, y); err != nil {
		return err
	}
	if rf.MaxFeatures <= 0 {
		nFeats := float64(len(X[0]))
		rf.MaxFeatures = int(math.Max(1, math.Min(nFeats, math.Sqrt(nFeats))))
	}
	trees, err := fitBootstrapTrees(X, y, rf.NEstimators, rf.Seed, func() *DecisionTree {
		dt := NewDecisionTree()
		dt.MaxDepth = rf.MaxDepth
		dt.MinSamplesSplit = rf.MinSamples
		dt.MaxThresholdsPerFe = rf.MaxThresholdsPerFe
		dt.MaxFeatures = rf.MaxFeatures
		return dt
	})
	if err != nil {
		return err
	}
	rf.Trees = trees
	return nil
}

func (rf *RandomForest) CheckInputs(width int) error { return checkTrees(rf.Trees, width) }

func (rf *RandomForest) Predict(X [][]float64) []int { return toLabels(rf.PredictProba(X)) }

func (rf *RandomForest) PredictProba(X [][]float64) []float64 { return averageTrees(rf.Trees, X) }

// Bagging is a forest without per-split feature sampling.
type Bagging struct {
	NEstimators        int
	MaxDepth           int
	MinSamples         int
	MaxThresholdsPerFe int
	Seed               int64
	Trees              []*DecisionTree
}

func NewBagging() *Bagging {
	return &Bagging{NEstimators: 30, MaxDepth: 6, MinSamples: 10, MaxThresholdsPerFe: 32}
}

func (bg *Bagging) Name() string { return "Bagging" }

func (bg *Bagging) Trained() bool { return len(bg.Trees) > 0 }

func (bg *Bagging) Fit(X [][]float64, y []int) error {
	if err := checkXY(X, y); err != nil {
		return err
	}
	trees, err := fitBootstrapTrees(X, y, bg.NEstimators, bg.Seed, func() *DecisionTree {
		dt := NewDecisionTree()
		dt.MaxDepth = bg.MaxDepth
		dt.MinSamplesSplit = bg.MinSamples
		dt.MaxThresholdsPerFe = bg.MaxThresholdsPerFe
		return dt
	})
	if err != nil {
		return err
	}
	bg.Trees = trees
	return nil
}

func (bg *Bagging) CheckInputs(width int) error { return checkTrees(bg.Trees, width) }

func (bg *Bagging) Predict(X [][]float64) []int { return toLabels(bg.PredictProba(X)) }

func (bg *Bagging) PredictProba(X [][]float64) []float64 { return averageTrees(bg.Trees, X) }

func fitBootstrapTrees(X [][]float64, y []int, n int, seed int64, mk func() *DecisionTree) ([]*DecisionTree, error) {
	if n <= 0 {
		n = 30
	}
	rng := newRand(seed)
	rows := len(X)
	trees := make([]*DecisionTree, 0, n)
	for k := 0; k < n; k++ {
		Xb := make([][]float64, rows)
		yb := make([]int, rows)
		for i := 0; i < rows; i++ {
			j := rng.Intn(rows)
			Xb[i], yb[i] = X[j], y[j]
		}
		dt := mk()
		dt.rng = rand.New(rand.NewSource(rng.Int63()))
		if err := dt.Fit(Xb, yb); err != nil {
			return nil, err
		}
		trees = append(trees, dt)
	}
	return trees, nil
}

func checkTrees(trees []*DecisionTree, width int) error {
	for i, dt := range trees {
		if dt == nil {
			return inputsErr("tree %d is empty", i)
		}
		if err := dt.CheckInputs(width); err != nil {
			return fmt.Errorf("tree %d: %w", i, err)
		}
	}
	return nil
}

func averageTrees(trees []*DecisionTree, X [][]float64) []float64 {
	out := make([]float64, len(X))
	if len(trees) == 0 {
		for i := range out {
			out[i] = 0.5
		}
		return out
	}
	for _, dt := range trees {
		for i, p := range dt.PredictProba(X) {
			out[i] += p
		}
	}
	m := float64(len(trees))
	for i := range out {
		out[i] /= m
	}
	return out
}
