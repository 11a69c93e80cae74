package catalog

import (
	"errors"
	"fmt"
)

// NotFoundError reports an id lookup miss for any stored entity kind.
type NotFoundError struct {
	// Kind names the entity kind, e.g. "product", "supplier", "order".
	Kind string

	// ID is the identifier that was looked up.
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

// IsNotFound reports whether err is a NotFoundError.
// Uses errors.As to handle wrapped errors.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// InsufficientStockError reports a stock check failure. It names the
// offending product together with the required and available amounts so
// callers can present an actionable message.
type InsufficientStockError struct {
	ProductID string
	Required  int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %q: required %d, available %d",
		e.ProductID, e.Required, e.Available)
}

// IsInsufficientStock reports whether err is an InsufficientStockError.
func IsInsufficientStock(err error) bool {
	var is *InsufficientStockError
	return errors.As(err, &is)
}

// ValidationError reports malformed constructor or mutator arguments:
// blank ids, non-positive quantities, negative stock or cost.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func errBlank(field string) error {
	return &ValidationError{Field: field, Reason: "must not be blank"}
}

func errNonPositive(field string) error {
	return &ValidationError{Field: field, Reason: "must be positive"}
}
