package models

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyDataset = errors.New("models: empty training set")
	ErrSizeMismatch = errors.New("models: features and labels size mismatch")
	ErrRaggedRows   = errors.New("models: rows have different widths")
)

// ErrInputs marks a model whose stored structure does not fit the requested input width.
var ErrInputs = errors.New("models: model does not fit input width")

func inputsErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInputs, fmt.Sprintf(format, args...))
}
