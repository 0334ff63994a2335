package artifact

import "fmt"

// Reason classifies a LoadError.
type Reason string

const (
	ReasonMissing      Reason = "missing"
	ReasonCorrupt      Reason = "corrupt"
	ReasonIncompatible Reason = "incompatible"
	// ReasonUnavailable means the storage behind the reference could not be
	// read: unreachable endpoint, rejected credentials, I/O failure.
	ReasonUnavailable Reason = "unavailable"
)

// LoadError is returned when an artifact cannot be turned into a Handle.
// It is fatal for the serving process.
type LoadError struct {
	Path   string
	Reason Reason
	Err    error
}

func (e *LoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("load model: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("load model %s: %s: %v", e.Path, e.Reason, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

func loadErr(reason Reason, format string, args ...any) *LoadError {
	return &LoadError{Reason: reason, Err: fmt.Errorf(format, args...)}
}
