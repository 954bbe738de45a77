package domain

import (
	"errors"
	"fmt"
)

type DeliveryFailure string

const (
	DeliveryTransient   DeliveryFailure = "transient"
	DeliveryUnreachable DeliveryFailure = "unreachable"
)

// DeliveryError is returned by transports when a message could not be delivered.
type DeliveryError struct {
	Kind DeliveryFailure
	Err  error
}

func NewDeliveryError(kind DeliveryFailure, err error) *DeliveryError {
	return &DeliveryError{Kind: kind, Err: err}
}

func (e *DeliveryError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("delivery failed (%s)", e.Kind)
	}
	return fmt.Sprintf("delivery failed (%s): %v", e.Kind, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// IsUnreachable reports whether err marks the recipient as permanently unreachable.
func IsUnreachable(err error) bool {
	var deliveryErr *DeliveryError
	if !errors.As(err, &deliveryErr) {
		return false
	}
	return deliveryErr.Kind == DeliveryUnreachable
}
