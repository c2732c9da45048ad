package utils

import "errors"

// Error taxonomy for the lease engine. Workflow operations wrap these with
// fmt.Errorf("%w: ...") so callers can branch with errors.Is while still
// getting a human-readable message.
var (
	ErrorRecordNotFound   = errors.New("record not found")
	ErrorUnauthorized     = errors.New("unauthorized")
	ErrorInvalidState     = errors.New("invalid state")
	ErrorValidationFailed = errors.New("validation failed")

	// ErrorExternalFailure marks failures of outside collaborators (e.g. the
	// headless rendering engine). The document pipeline absorbs these into
	// fallbacks; everywhere else they surface to the caller.
	ErrorExternalFailure = errors.New("external failure")
)

func ErrorPanic(err error) {
	if err != nil {
		panic(err)
	}
}
