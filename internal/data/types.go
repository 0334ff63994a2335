package data

import "heartrisk/internal/features"

// Record is one labelled row of the heart dataset. Target 1 means disease present.
type Record struct {
	features.Patient
	Target int `json:"target"`
}

// XY splits records into a feature matrix and label vector in training order.
func XY(records []Record) ([][]float64, []int) {
	X := make([][]float64, len(records))
	y := make([]int, len(records))
	for i, r := range records {
		X[i], _ = features.Vectorize(r.Patient)
		y[i] = r.Target
	}
	return X, y
}
