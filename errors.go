package hopsworks

import "github.com/logicalclocks/hopsworks-go/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound               = domain.ErrNotFound
	ErrSuiteNotRegistered     = domain.ErrSuiteNotRegistered
	ErrExpectationIDMissing   = domain.ErrExpectationIDMissing
	ErrServiceDiscovery       = domain.ErrServiceDiscovery
	ErrConverterNotConfigured = domain.ErrConverterNotConfigured
)
