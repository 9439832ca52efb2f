package translation

import (
	"errors"
	"fmt"
)

// ErrNoProvider reports that no translation provider is configured.
var ErrNoProvider = errors.New("no translation provider is available")

// ValidationError reports a request that fails input validation.
// Validation failures are never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ProviderError reports a failed call to one translation backend.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
