package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing resource on the backend.
	ErrNotFound = errors.New("not found")
	// ErrSuiteNotRegistered signals a single-expectation operation on a
	// suite that has no backend id yet.
	ErrSuiteNotRegistered = errors.New(
		"expectation suite is not registered: attach it to a feature group before using the single-expectation API",
	)
	// ErrExpectationIDMissing signals an expectation update with no id.
	ErrExpectationIDMissing = errors.New(
		"expectation id is required: set it directly or through the expectationId meta field",
	)
	// ErrServiceDiscovery signals a missing service discovery domain.
	ErrServiceDiscovery = errors.New(
		"could not locate service_discovery_domain in the cluster configuration or the variable is empty",
	)
	// ErrConverterNotConfigured signals a native-framework conversion on a
	// client built without an expectation converter.
	ErrConverterNotConfigured = errors.New(
		"validation framework support is not configured (use WithExpectationConverter)",
	)
)

// UnsupportedExpectationError wraps an expectation input that cannot be
// normalized into the SDK expectation type.
type UnsupportedExpectationError struct {
	Value any
}

func (e *UnsupportedExpectationError) Error() string {
	return fmt.Sprintf("expectation of type %T is not supported", e.Value)
}

// NewUnsupportedExpectation creates an unsupported expectation error.
func NewUnsupportedExpectation(value any) error {
	return &UnsupportedExpectationError{Value: value}
}
