package errors

import "errors"

var (
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrIntegrity marks a write that references a missing parent row.
	ErrIntegrity = errors.New("integrity violation")
	// ErrExtraction marks a failure in the upstream page-text source.
	ErrExtraction = errors.New("page extraction failed")
	// ErrGenerationParse marks generator output that could not be coerced
	// into the expected structure.
	ErrGenerationParse = errors.New("generator output unparseable")
	// ErrInvalidArgument is a generic sentinel for invalid input.
	ErrInvalidArgument = errors.New("invalid argument")
)
