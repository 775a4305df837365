package metrics

import (
	"errors"
	"fmt"
)

// Common errors for metrics construction
var (
	// ErrInvalidName indicates a malformed metric or label name
	ErrInvalidName = errors.New("invalid metric name")

	// ErrInvalidSuffix indicates a malformed name suffix
	ErrInvalidSuffix = errors.New("invalid name suffix")

	// ErrInvalidObjective indicates an out-of-range summary objective
	ErrInvalidObjective = errors.New("invalid summary objective")

	// ErrInvalidBuckets indicates invalid histogram buckets
	ErrInvalidBuckets = errors.New("invalid histogram buckets")

	// ErrAlreadyRegistered indicates a family is already registered under the same name
	ErrAlreadyRegistered = errors.New("metric already registered")

	// ErrNarrowed indicates a handle is already bound to specific label values
	ErrNarrowed = errors.New("handle already narrowed to specific labels")
)

// ValidationError reports a value that failed construction-time validation.
// Validation never happens at observation time; a ValidationError always
// surfaces from a constructor.
type ValidationError struct {
	Field string      // logical field that failed, e.g. "name", "quantile"
	Value interface{} // offending value
	Err   error       // underlying error
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field %s (value: %v): %v", e.Field, e.Value, e.Err)
}

// Unwrap returns the underlying error
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// RegistrationError reports a backend registration failure during family
// construction, name collisions included.
type RegistrationError struct {
	Name string
	Err  error
}

// Error implements the error interface
func (e *RegistrationError) Error() string {
	return fmt.Sprintf("registration error for %s: %v", e.Name, e.Err)
}

// Unwrap returns the underlying error
func (e *RegistrationError) Unwrap() error {
	return e.Err
}

// ArityError reports an extractor that produced a label-value count different
// from the arity the family was declared with.
type ArityError struct {
	Name string // fully qualified family name
	Want int    // declared arity
	Got  int    // values the extractor returned
}

// Error implements the error interface
func (e *ArityError) Error() string {
	return fmt.Sprintf("metrics: %s: extractor returned %d label values, family declares %d", e.Name, e.Got, e.Want)
}

// NarrowedError reports an attempt to retrieve the family-level backend
// collector from a handle that is already bound to specific label values.
type NarrowedError struct {
	Name string
}

// Error implements the error interface
func (e *NarrowedError) Error() string {
	return fmt.Sprintf("metrics: %s: %v", e.Name, ErrNarrowed)
}

// Unwrap returns the underlying error
func (e *NarrowedError) Unwrap() error {
	return ErrNarrowed
}

// IsValidationError checks if an error is a ValidationError
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsRegistrationError checks if an error is a RegistrationError
func IsRegistrationError(err error) bool {
	var re *RegistrationError
	return errors.As(err, &re)
}

// IsArityError checks if an error is an ArityError
func IsArityError(err error) bool {
	var ae *ArityError
	return errors.As(err, &ae)
}

// IsNarrowedError checks if an error is a NarrowedError
func IsNarrowedError(err error) bool {
	var ne *NarrowedError
	return errors.As(err, &ne)
}
