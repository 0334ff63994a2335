package models

import (
	"math"
	"math/rand"
)

type DTNode struct {
	Feature   int
	Threshold float64
	Left      *DTNode
	Right     *DTNode
	IsLeaf    bool
	ProbaLeaf float64
}

// DecisionTree is a CART classifier split on gini impurity. Leaves hold the
// positive-class frequency of the training rows that reached them.
type DecisionTree struct {
	MaxDepth           int
	MinSamplesSplit    int
	MaxThresholdsPerFe int
	MaxFeatures        int
	Seed               int64
	NFeatures          int
	Root               *DTNode

	rng *rand.Rand
}

func NewDecisionTree() *DecisionTree {
	return &DecisionTree{MaxDepth: 6, MinSamplesSplit: 10, MaxThresholdsPerFe: 64}
}

func (dt *DecisionTree) Name() string { return "DecisionTree" }

func (dt *DecisionTree) Trained() bool { return dt.Root != nil }

func (dt *DecisionTree) Fit(X [][]float64, y []int) error {
	if err := checkXY(X, y); err != nil {
		return err
	}
	if dt.rng == nil {
		dt.rng = newRand(dt.Seed)
	}
	idx := make([]int, len(X))
	for i := range idx {
		idx[i] = i
	}
	dt.NFeatures = len(X[0])
	dt.Root = dt.build(X, y, idx, 0)
	return nil
}

func (dt *DecisionTree) Predict(X [][]float64) []int {
	return toLabels(dt.PredictProba(X))
}

func (dt *DecisionTree) PredictProba(X [][]float64) []float64 {
	out := make([]float64, len(X))
	for i := range X {
		out[i] = dt.probaOne(X[i])
	}
	return out
}

func (dt *DecisionTree) probaOne(x []float64) float64 {
	n := dt.Root
	if n == nil {
		return 0.5
	}
	for !n.IsLeaf {
		if n.Feature < 0 || n.Feature >= len(x) {
			return 0.5
		}
		if x[n.Feature] <= n.Threshold {
			n = n.Left
		} else {
			n = n.Right
		}
		if n == nil {
			return 0.5
		}
	}
	return n.ProbaLeaf
}

func (dt *DecisionTree) CheckInputs(width int) error {
	if dt.NFeatures != width {
		return inputsErr("%s fitted on %d features, want %d", dt.Name(), dt.NFeatures, width)
	}
	return checkNode(dt.Root, width)
}

func checkNode(n *DTNode, width int) error {
	if n == nil || n.IsLeaf {
		return nil
	}
	if n.Feature < 0 || n.Feature >= width {
		return inputsErr("split on feature %d outside [0, %d)", n.Feature, width)
	}
	if err := checkNode(n.Left, width); err != nil {
		return err
	}
	return checkNode(n.Right, width)
}

func (dt *DecisionTree) build(X [][]float64, y []int, idx []int, depth int) *DTNode {
	p := classProba(y, idx)
	if len(idx) < dt.MinSamplesSplit || depth >= dt.MaxDepth || p == 0 || p == 1 {
		return &DTNode{IsLeaf: true, ProbaLeaf: p}
	}

	bestFeature := -1
	bestThr := 0.0
	bestImp := math.MaxFloat64
	var bestLeft, bestRight []int

	for _, f := range pickFeatures(dt.rng, len(X[0]), dt.MaxFeatures) {
		for _, thr := range candidateThresholds(dt.rng, X, idx, f, dt.MaxThresholdsPerFe) {
			l, r := splitIdx(X, idx, f, thr)
			if len(l) == 0 || len(r) == 0 {
				continue
			}
			if imp := giniImpurity(y, l, r); imp < bestImp {
				bestImp, bestFeature, bestThr = imp, f, thr
				bestLeft, bestRight = l, r
			}
		}
	}
	if bestFeature == -1 {
		return &DTNode{IsLeaf: true, ProbaLeaf: p}
	}
	return &DTNode{
		Feature:   bestFeature,
		Threshold: bestThr,
		Left:      dt.build(X, y, bestLeft, depth+1),
		Right:     dt.build(X, y, bestRight, depth+1),
	}
}

func classProba(y []int, idx []int) float64 {
	if len(idx) == 0 {
		return 0.5
	}
	sum := 0
	for _, i := range idx {
		sum += y[i]
	}
	return float64(sum) / float64(len(idx))
}

func splitIdx(X [][]float64, idx []int, f int, thr float64) ([]int, []int) {
	l := make([]int, 0, len(idx))
	r := make([]int, 0, len(idx))
	for _, i := range idx {
		if X[i][f] <= thr {
			l = append(l, i)
		} else {
			r = append(r, i)
		}
	}
	return l, r
}

func giniImpurity(y []int, lIdx, rIdx []int) float64 {
	g := func(ids []int) float64 {
		p := classProba(y, ids)
		return 2 * p * (1 - p)
	}
	wl := float64(len(lIdx))
	wr := float64(len(rIdx))
	n := wl + wr
	return (wl/n)*g(lIdx) + (wr/n)*g(rIdx)
}

// candidateThresholds samples up to maxC distinct observed values of feature f.
func candidateThresholds(rng *rand.Rand, X [][]float64, idx []int, f int, maxC int) []float64 {
	seen := make(map[float64]struct{}, len(idx))
	values := make([]float64, 0, len(idx))
	for _, i := range idx {
		v := X[i][f]
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}
	if maxC <= 0 || maxC >= len(values) {
		return values
	}
	rng.Shuffle(len(values), func(i, j int) { values[i], values[j] = values[j], values[i] })
	return values[:maxC]
}

func pickFeatures(rng *rand.Rand, nFeats int, maxFeats int) []int {
	idx := make([]int, nFeats)
	for i := range idx {
		idx[i] = i
	}
	if maxFeats <= 0 || maxFeats >= nFeats {
		return idx
	}
	rng.Shuffle(nFeats, func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })
	return idx[:maxFeats]
}
