package subscription

import (
	"errors"
	"fmt"
)

var (
	ErrSubscriptionNotFound    = errors.New("subscription not found")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrCheckoutSessionAssigned = errors.New("checkout session already assigned")
	ErrExternalRefMismatch     = errors.New("external reference mismatch")
	ErrConcurrentUpdate        = errors.New("subscription modified concurrently")
	ErrInvalidPrice            = errors.New("price must not be negative")
)

func ErrInvalidTransition(from, to string) error {
	return fmt.Errorf("%w: from %s to %s", ErrInvalidStatusTransition, from, to)
}
