package artifact

import (
	"maps"
	"slices"

	"heartrisk/internal/models"
)

// Handle is a loaded classifier. It is never mutated after Decode returns, so
// one Handle can serve any number of goroutines.
type Handle struct {
	model models.Model
	meta  Meta
}

// Proba returns the positive-class probability for one vector. The caller
// validates the vector.
func (h *Handle) Proba(x []float64) float64 {
	return h.model.PredictProba([][]float64{x})[0]
}

// ProbaBatch is Proba over many rows.
func (h *Handle) ProbaBatch(X [][]float64) []float64 {
	return h.model.PredictProba(X)
}

func (h *Handle) Name() string { return h.meta.Name }

func (h *Handle) Threshold() float64 { return h.meta.Threshold }

// Meta returns a copy of the artifact metadata.
func (h *Handle) Meta() Meta {
	m := h.meta
	m.Features = slices.Clone(h.meta.Features)
	m.Metrics = maps.Clone(h.meta.Metrics)
	return m
}
