package models

import "fmt"

// ConfigurationError reports invalid configuration (weights, profile) at
// construction or load time. It is never raised for incomplete opportunity
// data; callers may fall back to a last-known-good configuration.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Reason
}

// NewConfigurationError builds a ConfigurationError with a formatted reason.
func NewConfigurationError(format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Reason: fmt.Sprintf(format, args...)}
}
