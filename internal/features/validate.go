package features

import (
	"fmt"
	"strings"

	"go.uber.org/multierr"
)

// ShapeError reports a feature vector that cannot be fed to a classifier:
// either its length is wrong or some fields are outside their domain.
type ShapeError struct {
	Got  int
	Want int
	// Violations holds one error per out-of-domain field, combined with multierr.
	Violations error
}

func (e *ShapeError) Error() string {
	if e.Got != e.Want {
		return fmt.Sprintf("feature vector has %d fields, want %d", e.Got, e.Want)
	}
	return "feature vector out of domain: " + e.Violations.Error()
}

func (e *ShapeError) Unwrap() error { return e.Violations }

// Details returns one message per problem, for API responses.
func (e *ShapeError) Details() []string {
	if e.Got != e.Want {
		return []string{e.Error()}
	}
	errs := multierr.Errors(e.Violations)
	out := make([]string, len(errs))
	for i, err := range errs {
		out[i] = err.Error()
	}
	return out
}

// FieldError is a single out-of-domain value.
type FieldError struct {
	Index int
	Field string
	Value float64
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s = %g: want %s", e.Field, e.Value, fields[e.Index].domain())
}

// Validate checks length and per-field domains. Every offending field is reported.
func Validate(v []float64) error {
	if len(v) != Size {
		return &ShapeError{Got: len(v), Want: Size}
	}
	var errs error
	for i, f := range fields {
		if !f.Contains(v[i]) {
			errs = multierr.Append(errs, &FieldError{Index: i, Field: f.Name, Value: v[i]})
		}
	}
	if errs != nil {
		return &ShapeError{Got: Size, Want: Size, Violations: errs}
	}
	return nil
}

// Lookup returns the field with the given name, case-insensitively.
func Lookup(name string) (Field, int, bool) {
	for i, f := range fields {
		if strings.EqualFold(f.Name, name) {
			return f, i, true
		}
	}
	return Field{}, -1, false
}
