package subscription

import "errors"

// Sentinel errors for the subscription service layer.
var (
	// ErrTokenNotFound means the confirmation token is unknown. This is an
	// expected outcome of a stale or forged link, not a system fault.
	ErrTokenNotFound = errors.New("subscription token not found")
)

// ValidationError reports caller-supplied form data that violates a domain
// rule. The reason is safe to return to the caller verbatim.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }
