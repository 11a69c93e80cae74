package orders

import (
	"errors"
	"fmt"
)

// ErrEmptyOrder rejects sending an order that has no items.
var ErrEmptyOrder = errors.New("cannot send an order with no items")

// InvalidStateError reports an operation attempted from a lifecycle state
// that does not allow it.
type InvalidStateError struct {
	OrderID   string
	From      Status
	Attempted string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("order %q: cannot %s from state %s", e.OrderID, e.Attempted, e.From)
}

// IsInvalidState reports whether err is an InvalidStateError.
// Uses errors.As to handle wrapped errors.
func IsInvalidState(err error) bool {
	var is *InvalidStateError
	return errors.As(err, &is)
}
