package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// separable: label is 1 when the first feature is above 5.
func toyData() ([][]float64, []int) {
	var X [][]float64
	var y []int
	for i := 0; i < 60; i++ {
		a := float64(i % 10)
		b := float64((i * 7) % 13)
		X = append(X, []float64{a, b, float64(i % 2)})
		if a > 5 {
			y = append(y, 1)
		} else {
			y = append(y, 0)
		}
	}
	return X, y
}

func TestModelsLearnToyData(t *testing.T) {
	X, y := toyData()
	for _, kind := range Kinds {
		t.Run(kind, func(t *testing.T) {
			m := New(kind, Params{Estimators: 40, MaxDepth: 4, MinSamples: 2, Seed: 7})
			assert.False(t, m.Trained())
			require.NoError(t, m.Fit(X, y))
			assert.True(t, m.Trained())

			preds := m.Predict(X)
			correct := 0
			for i := range preds {
				assert.Contains(t, []int{0, 1}, preds[i])
				if preds[i] == y[i] {
					correct++
				}
			}
			assert.GreaterOrEqual(t, float64(correct)/float64(len(y)), 0.85, m.Name())

			for _, p := range m.PredictProba(X) {
				assert.True(t, p >= 0 && p <= 1)
			}
		})
	}
}

func TestFitIsReproducibleWithSeed(t *testing.T) {
	X, y := toyData()
	a := New("rf", Params{Estimators: 5, Seed: 42})
	b := New("rf", Params{Estimators: 5, Seed: 42})
	require.NoError(t, a.Fit(X, y))
	require.NoError(t, b.Fit(X, y))
	assert.Equal(t, a.PredictProba(X), b.PredictProba(X))
}

func TestFitRejectsBadInput(t *testing.T) {
	for _, kind := range Kinds {
		m := New(kind, Params{})
		assert.ErrorIs(t, m.Fit(nil, nil), ErrEmptyDataset, kind)
		assert.ErrorIs(t, m.Fit([][]float64{{1}}, []int{1, 0}), ErrSizeMismatch, kind)
	}
}

func TestUntrainedModelsAreUndecided(t *testing.T) {
	X := [][]float64{{1, 2, 3}}
	assert.Equal(t, []float64{0.5}, NewDecisionTree().PredictProba(X))
	assert.Equal(t, []float64{0.5}, NewRandomForest().PredictProba(X))
	assert.Equal(t, []float64{0.5}, NewLogisticRegression().PredictProba(X))
}

func TestCheckInputs(t *testing.T) {
	X, y := toyData()
	for _, kind := range Kinds {
		t.Run(kind, func(t *testing.T) {
			m := New(kind, Params{Estimators: 5, MaxDepth: 3, MinSamples: 2, Seed: 1})
			require.NoError(t, m.Fit(X, y))
			assert.NoError(t, m.CheckInputs(3))
			assert.ErrorIs(t, m.CheckInputs(2), ErrInputs)
			assert.ErrorIs(t, m.CheckInputs(4), ErrInputs)
		})
	}

	t.Run("NegativeSplitFeature", func(t *testing.T) {
		dt := New("dt", Params{MaxDepth: 3, MinSamples: 2}).(*DecisionTree)
		require.NoError(t, dt.Fit(X, y))
		require.False(t, dt.Root.IsLeaf)
		dt.Root.Feature = -1
		assert.ErrorIs(t, dt.CheckInputs(3), ErrInputs)
		assert.Equal(t, 0.5, dt.PredictProba([][]float64{{9, 0, 0}})[0])
	})

	t.Run("StumpOutOfRange", func(t *testing.T) {
		gb := New("gb", Params{Estimators: 3, MinSamples: 2}).(*GradientBoosting)
		require.NoError(t, gb.Fit(X, y))
		gb.Trees[0].Feature = 3
		assert.ErrorIs(t, gb.CheckInputs(3), ErrInputs)
	})
}

func TestFitRejectsRaggedRows(t *testing.T) {
	X := [][]float64{{1, 2}, {3}}
	for _, kind := range Kinds {
		assert.ErrorIs(t, New(kind, Params{}).Fit(X, []int{0, 1}), ErrRaggedRows, kind)
	}
}

func TestZeroParamsKeepModelDefaults(t *testing.T) {
	assert.Equal(t, 300, New("lr", Params{}).(*LogisticRegression).Epochs)
	assert.Equal(t, 30, New("rf", Params{}).(*RandomForest).NEstimators)
	assert.Equal(t, 30, New("bagging", Params{}).(*Bagging).NEstimators)
	assert.Equal(t, 50, New("gb", Params{}).(*GradientBoosting).NEstimators)
	assert.Equal(t, 6, New("dt", Params{}).(*DecisionTree).MaxDepth)
}
