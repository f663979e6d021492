package coach

import (
	"errors"
	"fmt"
	"time"
)

// ErrNotConfigured is returned by NewClient when the selected provider has
// no API key. The service answers with canned replies in that case.
var ErrNotConfigured = errors.New("coach: no API key configured")

// ErrRateLimit is a 429 from the provider.
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	return fmt.Sprintf("rate limited (retry after %s): %v", e.RetryAfter, e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrInvalidResponse means the model answered but the text could not be
// used: empty, not JSON, or failing the advice schema.
type ErrInvalidResponse struct {
	Content string
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("invalid coach response: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrProviderUnavailable covers 5xx answers and transport failures.
type ErrProviderUnavailable struct {
	Err error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("coach provider unavailable: %v", e.Err)
	}
	return "coach provider unavailable"
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }
