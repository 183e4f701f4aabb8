package schema

import "errors"

var (
	// ErrInvariantViolation marks programming errors: a node shared between
	// two parents, or a node the render layer expects but cannot find.
	ErrInvariantViolation = errors.New("invariant violation")

	// ErrClassification is returned when a schema fragment maps to none of the known types.
	ErrClassification = errors.New("could not infer type from schema")

	ErrMissingTitle  = errors.New("class schema found without title")
	ErrCircularRef   = errors.New("circular $ref")
	ErrUnresolvedRef = errors.New("unresolved $ref")

	// ErrInvalidPath is returned when a node path does not resolve against a tree.
	ErrInvalidPath = errors.New("invalid node path")
)

// ClassificationError carries the schema fragment that could not be classified.
type ClassificationError struct {
	Fragment string
	Reason   string
}

func (e *ClassificationError) Error() string {
	if e.Reason != "" {
		return ErrClassification.Error() + " " + e.Fragment + ": " + e.Reason
	}
	return ErrClassification.Error() + " " + e.Fragment
}

func (e *ClassificationError) Unwrap() error { return ErrClassification }
