package inference

import (
	"errors"
	"fmt"

	"heartrisk/internal/artifact"
	"heartrisk/internal/features"
)

// Label is the classifier's decision.
type Label int

const (
	Absent  Label = 0
	Present Label = 1
)

// Verdict is the display state for the label.
func (l Label) Verdict() string {
	if l == Present {
		return "high risk"
	}
	return "no disease detected"
}

// Message is the sentence shown to the user next to the verdict.
func (l Label) Message() string {
	if l == Present {
		return "High Risk of Heart Disease!"
	}
	return "No Heart Disease Detected!"
}

// Result pairs the label with the probability it was derived from.
type Result struct {
	Label       Label   `json:"label"`
	Probability float64 `json:"probability"`
}

// Invoker runs validated feature vectors through a loaded classifier.
// It holds no mutable state and is safe for concurrent use.
type Invoker struct {
	handle *artifact.Handle
}

func New(h *artifact.Handle) (*Invoker, error) {
	if h == nil {
		return nil, errors.New("inference: nil model handle")
	}
	return &Invoker{handle: h}, nil
}

func (inv *Invoker) Handle() *artifact.Handle { return inv.handle }

// Predict returns the label for v or a *features.ShapeError.
func (inv *Invoker) Predict(v []float64) (Label, error) {
	r, err := inv.Score(v)
	return r.Label, err
}

// Score is Predict plus the positive-class probability.
func (inv *Invoker) Score(v []float64) (Result, error) {
	if err := features.Validate(v); err != nil {
		return Result{}, err
	}
	p := inv.handle.Proba(v)
	return Result{Label: inv.decide(p), Probability: p}, nil
}

// BatchError points at the first invalid row of a batch.
type BatchError struct {
	Index int
	Err   error
}

func (e *BatchError) Error() string { return fmt.Sprintf("row %d: %v", e.Index, e.Err) }

func (e *BatchError) Unwrap() error { return e.Err }

// PredictBatch validates every row before running any of them.
func (inv *Invoker) PredictBatch(vs [][]float64) ([]Result, error) {
	for i, v := range vs {
		if err := features.Validate(v); err != nil {
			return nil, &BatchError{Index: i, Err: err}
		}
	}
	ps := inv.handle.ProbaBatch(vs)
	out := make([]Result, len(ps))
	for i, p := range ps {
		out[i] = Result{Label: inv.decide(p), Probability: p}
	}
	return out, nil
}

func (inv *Invoker) decide(p float64) Label {
	if p >= inv.handle.Threshold() {
		return Present
	}
	return Absent
}
