package core

import (
	"errors"
	"fmt"
)

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrPrinterNotFound    = errors.New("printer not found")
	ErrAlreadyPaid        = errors.New("payment already confirmed")
	ErrNoPrinterAvailable = errors.New("no printer available")
	ErrNoFileAttached     = errors.New("no file attached to order")
	ErrNotConfigured      = errors.New("not configured")

	// ErrVersionConflict is returned by stores when a compare-and-swap write
	// loses against a concurrent writer.
	ErrVersionConflict = errors.New("record version conflict")
)

// ValidationError rejects a malformed request before anything is applied.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalidField(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// InvalidTransitionError reports a state-machine guard violation with enough
// detail for the caller to distinguish cause.
type InvalidTransitionError struct {
	OrderID string
	From    OrderStatus
	To      OrderStatus
	Reason  string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("order %s: cannot move %s -> %s: %s", e.OrderID, e.From, e.To, e.Reason)
}

// ConfigurationError reports a rate table or threshold set missing required
// values.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Reason
}

// DeviceError wraps a failure reported by the printer driver layer. The core
// never retries these; the caller decides.
type DeviceError struct {
	PrinterName string
	Err         error
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("printer %s: device error: %v", e.PrinterName, e.Err)
}

func (e *DeviceError) Unwrap() error {
	return e.Err
}
