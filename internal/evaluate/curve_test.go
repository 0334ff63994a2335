package evaluate

import (
	"testing"

	"heartrisk/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func separable(n int) ([][]float64, []int) {
	X := make([][]float64, n)
	y := make([]int, n)
	for i := range X {
		v := float64(i%20) / 20
		X[i] = []float64{v, float64(i % 3)}
		if v >= 0.5 {
			y[i] = 1
		}
	}
	return X, y
}

func TestLearningCurve(t *testing.T) {
	X, y := separable(400)
	s := StratifiedSplit(X, y, 0.8, 3)
	sizes := CurveSizes(len(s.XTrain), 4, 40, true)

	build := func() models.Model { return models.New("dt", models.Params{MaxDepth: 3, MinSamples: 2}) }
	pts, err := LearningCurve(build, s, sizes, ThresholdPolicy{Fixed: 0.5})
	require.NoError(t, err)
	require.Len(t, pts, len(sizes))
	for i, p := range pts {
		assert.Equal(t, sizes[i], p.Size)
		assert.GreaterOrEqual(t, p.Test.Accuracy, 0.9)
		assert.Equal(t, 0.5, p.Test.Threshold)
	}
	assert.InDelta(t, 1.0, pts[len(pts)-1].Train.Accuracy, 1e-9)

	_, err = LearningCurve(build, s, []int{len(s.XTrain) + 1}, ThresholdPolicy{Fixed: 0.5})
	assert.Error(t, err)
}

func TestThresholdPolicy(t *testing.T) {
	X, y := separable(200)
	m := models.New("dt", models.Params{MaxDepth: 3, MinSamples: 2})
	require.NoError(t, m.Fit(X, y))

	assert.Equal(t, 0.3, ThresholdPolicy{Fixed: 0.3}.Choose(m, X, y, 20))
	assert.Equal(t, 0.4, ThresholdPolicy{Fixed: 0.3, Min: 0.4, Max: 0.9}.Choose(m, X, y, 20))

	thr := ThresholdPolicy{Auto: true, Objective: ObjectiveF1, Min: 0.05, Max: 0.95}.Choose(m, X, y, 20)
	assert.GreaterOrEqual(t, thr, 0.05)
	assert.LessOrEqual(t, thr, 0.95)
	assert.Equal(t, 1.0, Accuracy(y, ToLabels(m.PredictProba(X), thr)))
}
