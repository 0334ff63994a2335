package models

import "math"

// LogisticRegression is a linear model z = Bias + sum(Weights[i] * x'[i]) passed
// through a sigmoid, where x' is x standardized with the training means and scales.
type LogisticRegression struct {
	Epochs       int
	LearningRate float64
	L2           float64
	NFeatures    int
	Bias         float64
	Weights      []float64
	Means        []float64
	Scales       []float64
}

func NewLogisticRegression() *LogisticRegression {
	return &LogisticRegression{Epochs: 300, LearningRate: 0.1, L2: 1e-3}
}

func (lr *LogisticRegression) Name() string { return "LogisticRegression" }

func (lr *LogisticRegression) Trained() bool { return len(lr.Weights) > 0 }

// Fit runs full-batch gradient descent, so results depend only on the data.
func (lr *LogisticRegression) Fit(X [][]float64, y []int) error {
	if err := checkXY(X, y); err != nil {
		return err
	}
	n, d := len(X), len(X[0])
	lr.NFeatures = d
	lr.Means = make([]float64, d)
	lr.Scales = make([]float64, d)
	for j := 0; j < d; j++ {
		var sum, sq float64
		for i := 0; i < n; i++ {
			sum += X[i][j]
		}
		mean := sum / float64(n)
		for i := 0; i < n; i++ {
			sq += (X[i][j] - mean) * (X[i][j] - mean)
		}
		lr.Means[j] = mean
		lr.Scales[j] = math.Sqrt(sq / float64(n))
		if lr.Scales[j] == 0 {
			lr.Scales[j] = 1
		}
	}

	Z := make([][]float64, n)
	for i := range X {
		Z[i] = lr.standardize(X[i])
	}
	lr.Weights = make([]float64, d)
	lr.Bias = 0
	grad := make([]float64, d)
	for epoch := 0; epoch < lr.Epochs; epoch++ {
		for j := range grad {
			grad[j] = 0
		}
		gBias := 0.0
		for i := 0; i < n; i++ {
			e := lr.linear(Z[i]) - float64(y[i])
			gBias += e
			for j := 0; j < d; j++ {
				grad[j] += e * Z[i][j]
			}
		}
		lr.Bias -= lr.LearningRate * gBias / float64(n)
		for j := 0; j < d; j++ {
			lr.Weights[j] -= lr.LearningRate * (grad[j]/float64(n) + lr.L2*lr.Weights[j])
		}
	}
	return nil
}

func (lr *LogisticRegression) CheckInputs(width int) error {
	if lr.NFeatures != width {
		return inputsErr("%s fitted on %d features, want %d", lr.Name(), lr.NFeatures, width)
	}
	if len(lr.Weights) != width || len(lr.Means) != width || len(lr.Scales) != width {
		return inputsErr("weights %d, means %d, scales %d, want %d each",
			len(lr.Weights), len(lr.Means), len(lr.Scales), width)
	}
	for j, s := range lr.Scales {
		if s == 0 || math.IsNaN(s) {
			return inputsErr("scale %d is %g", j, s)
		}
	}
	return nil
}

func (lr *LogisticRegression) standardize(x []float64) []float64 {
	z := make([]float64, len(lr.Means))
	for j := range z {
		if j < len(x) {
			z[j] = (x[j] - lr.Means[j]) / lr.Scales[j]
		}
	}
	return z
}

func (lr *LogisticRegression) linear(z []float64) float64 {
	s := lr.Bias
	for j, w := range lr.Weights {
		s += w * z[j]
	}
	return sigmoid(s)
}

func (lr *LogisticRegression) PredictProba(X [][]float64) []float64 {
	out := make([]float64, len(X))
	for i := range X {
		if !lr.Trained() {
			out[i] = 0.5
			continue
		}
		out[i] = lr.linear(lr.standardize(X[i]))
	}
	return out
}

func (lr *LogisticRegression) Predict(X [][]float64) []int { return toLabels(lr.PredictProba(X)) }
