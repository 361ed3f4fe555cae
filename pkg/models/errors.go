package models

import (
	"errors"
	"fmt"
)

// ConfigurationError indicates invalid configuration (thresholds out of
// order, empty weight map, unknown provider name). Fatal: raised before
// processing starts.
type ConfigurationError struct {
	Setting string
	Message string
}

func NewConfigurationErrorf(setting, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{
		Setting: setting,
		Message: fmt.Sprintf(format, args...),
	}
}

func (e *ConfigurationError) Error() string {
	if e.Setting == "" {
		return "configuration error: " + e.Message
	}
	return fmt.Sprintf("configuration error for '%s': %s", e.Setting, e.Message)
}

// IsConfigurationError reports whether err is (or wraps) a ConfigurationError.
func IsConfigurationError(err error) bool {
	var target *ConfigurationError
	return errors.As(err, &target)
}

// ResolutionBackendError indicates the probabilistic resolver was unavailable
// or failed. Recovered locally by degrading to the fallback resolver.
type ResolutionBackendError struct {
	Backend string
	Err     error
}

func NewResolutionBackendError(backend string, err error) *ResolutionBackendError {
	return &ResolutionBackendError{Backend: backend, Err: err}
}

func (e *ResolutionBackendError) Error() string {
	return fmt.Sprintf("resolution backend '%s' failed: %v", e.Backend, e.Err)
}

func (e *ResolutionBackendError) Unwrap() error {
	return e.Err
}

// IsResolutionBackendError reports whether err is (or wraps) a
// ResolutionBackendError.
func IsResolutionBackendError(err error) bool {
	var target *ResolutionBackendError
	return errors.As(err, &target)
}

// ValidationAdapterError indicates the contact validator failed for a record.
// Recovered by treating the confidences as absent.
type ValidationAdapterError struct {
	RecordID string
	Err      error
}

func NewValidationAdapterError(recordID string, err error) *ValidationAdapterError {
	return &ValidationAdapterError{RecordID: recordID, Err: err}
}

func (e *ValidationAdapterError) Error() string {
	return fmt.Sprintf("contact validation failed for record '%s': %v", e.RecordID, e.Err)
}

func (e *ValidationAdapterError) Unwrap() error {
	return e.Err
}

// IsValidationAdapterError reports whether err is (or wraps) a
// ValidationAdapterError.
func IsValidationAdapterError(err error) bool {
	var target *ValidationAdapterError
	return errors.As(err, &target)
}
