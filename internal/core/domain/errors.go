package domain

import (
	"errors"
	"fmt"
)

var (
	ErrShipmentNotFound   = errors.New("shipment not found")
	ErrAssignmentNotFound = errors.New("no active assignment")
	ErrPeriodNotFound     = errors.New("usage period not found")

	ErrTransportFailure    = errors.New("provider transport failure")
	ErrQuotaExceeded       = errors.New("monthly api quota exceeded")
	ErrRateLimited         = errors.New("refresh cooldown active")
	ErrCooldownUnavailable = errors.New("refresh cooldown store unavailable")
	ErrNotRegistered       = errors.New("no active sim registration")
	ErrLifecycleDisabled   = errors.New("tracking disabled")

	ErrInvalidPhone = errors.New("driver phone must be 10 digits")
	ErrInvalidDays  = errors.New("invalid registration days")
)

// RateLimitedError carries the remaining cooldown so callers can count down.
type RateLimitedError struct {
	WaitSeconds int64
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("refresh available in %d seconds", e.WaitSeconds)
}

func (e *RateLimitedError) Unwrap() error { return ErrRateLimited }

// QuotaExceededError reports the period usage that blocked the call.
type QuotaExceededError struct {
	Period string
	Used   int64
	Limit  int64
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("monthly api limit reached: used %d/%d this month", e.Used, e.Limit)
}

func (e *QuotaExceededError) Unwrap() error { return ErrQuotaExceeded }

// LifecycleDisabledError carries the reason tracking is not permitted.
type LifecycleDisabledError struct {
	Reason string
}

func (e *LifecycleDisabledError) Error() string {
	return "tracking disabled: " + e.Reason
}

func (e *LifecycleDisabledError) Unwrap() error { return ErrLifecycleDisabled }

// TransportError wraps a network, status or decode failure from a provider.
type TransportError struct {
	Provider string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s provider: %v", e.Provider, e.Err)
}

func (e *TransportError) Unwrap() []error { return []error{ErrTransportFailure, e.Err} }
