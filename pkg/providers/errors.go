package providers

import (
	"errors"
	"fmt"
)

// Failure classes. Every client error wraps exactly one of them.
var (
	// ErrUnavailable means the provider could not be attempted (missing credentials).
	ErrUnavailable = errors.New("provider unavailable")
	// ErrQuotaExceeded means the provider rejected the call for volume reasons.
	ErrQuotaExceeded = errors.New("provider quota exceeded")
	// ErrProviderFailure covers other statuses, transport errors and malformed bodies.
	ErrProviderFailure = errors.New("provider request failed")
)

// Error carries diagnostic detail for logs. Callers branch on the Kind via errors.Is.
type Error struct {
	ProviderID string
	Kind       error
	Status     int
	Detail     string
	Err        error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %v", e.ProviderID, e.Kind)
	if e.Status != 0 {
		msg += fmt.Sprintf(" (status %d)", e.Status)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func unavailable(providerID, detail string) error {
	return &Error{ProviderID: providerID, Kind: ErrUnavailable, Detail: detail}
}

func failure(providerID string, status int, detail string, err error) error {
	return &Error{ProviderID: providerID, Kind: ErrProviderFailure, Status: status, Detail: detail, Err: err}
}

func quota(providerID string, status int, detail string) error {
	return &Error{ProviderID: providerID, Kind: ErrQuotaExceeded, Status: status, Detail: detail}
}

// IsQuota reports whether err should trigger rotation to the next provider.
func IsQuota(err error) bool { return errors.Is(err, ErrQuotaExceeded) }

// Outcome names the failure class of err for logs and metrics.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrQuotaExceeded):
		return "quota"
	case errors.Is(err, ErrUnavailable):
		return "unavailable"
	default:
		return "failure"
	}
}
