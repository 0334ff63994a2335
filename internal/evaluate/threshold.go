package evaluate

import "fmt"

const thresholdSteps = 200

// Objective picks the metric a threshold search maximises.
type Objective string

const (
	ObjectiveF1       Objective = "f1"
	ObjectiveAccuracy Objective = "acc"
)

func ParseObjective(s string) (Objective, error) {
	switch Objective(s) {
	case ObjectiveF1, ObjectiveAccuracy:
		return Objective(s), nil
	}
	return "", fmt.Errorf("unknown threshold metric %q (want f1|acc)", s)
}

// BestThreshold scans thresholds in [0,1] and returns the first one reaching
// the best score. An empty set yields 0.5.
func BestThreshold(y []int, ps []float64, obj Objective) (thr, best float64) {
	if len(ps) == 0 {
		return 0.5, 0
	}
	best = -1
	thr = 0.5
	for i := 0; i <= thresholdSteps; i++ {
		t := float64(i) / thresholdSteps
		var score float64
		if obj == ObjectiveAccuracy {
			score = Accuracy(y, ToLabels(ps, t))
		} else {
			_, _, score = PRF1(y, ps, t)
		}
		if score > best {
			best, thr = score, t
		}
	}
	return
}

// Clamp keeps thr within [lo, hi].
func Clamp(thr, lo, hi float64) float64 {
	if thr < lo {
		return lo
	}
	if thr > hi {
		return hi
	}
	return thr
}
