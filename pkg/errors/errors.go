// Package errors provides structured error types used across the engine.
// We prefer these over raw fmt.Errorf strings to enable reliable checks with
// errors.Is / errors.As and to carry minimal context about the failure.
package errors

import (
	"errors"
	"fmt"
)

// ValidationError indicates malformed options or configuration supplied by a
// caller: threshold out of range, unknown algorithm or field name, negative
// batch size. These surface before any comparison work begins and should be
// treated as programming errors, not retried.
type ValidationError struct {
	Op  string // where it happened (package.Function)
	Msg string // human friendly message
	Err error  // underlying cause (optional)
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("validation: %s: %s: %v", e.Op, e.Msg, e.Err)
	}
	return fmt.Sprintf("validation: %s: %s", e.Op, e.Msg)
}

func (e *ValidationError) Unwrap() error     { return e.Err }
func (e *ValidationError) Operation() string { return e.Op }
func (e *ValidationError) Message() string   { return e.Msg }

func NewValidation(op, msg string, err error) error {
	return &ValidationError{Op: op, Msg: msg, Err: err}
}

// DataQualityError marks a record unusable for comparison (missing id,
// no comparable fields). Recorded per record in batch results; never fatal
// for a whole call.
type DataQualityError struct {
	Op  string
	Msg string
	Err error
}

func (e *DataQualityError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("data quality: %s: %s: %v", e.Op, e.Msg, e.Err)
	}
	return fmt.Sprintf("data quality: %s: %s", e.Op, e.Msg)
}

func (e *DataQualityError) Unwrap() error     { return e.Err }
func (e *DataQualityError) Operation() string { return e.Op }
func (e *DataQualityError) Message() string   { return e.Msg }

func NewDataQuality(op, msg string, err error) error {
	return &DataQualityError{Op: op, Msg: msg, Err: err}
}

// ScorerError represents failures in the pluggable match scorer (timeout,
// service error). Recovered locally by falling back to algorithmic-only
// scoring; attached as metadata, not propagated.
type ScorerError struct {
	Op     string
	Msg    string
	Err    error
	Scorer string // scorer name, e.g. "ml"
}

func (e *ScorerError) Error() string {
	if e == nil {
		return "<nil>"
	}
	scorer := e.Scorer
	if scorer == "" {
		scorer = "scorer"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %s: %v", scorer, e.Op, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s: %s", scorer, e.Op, e.Msg)
}

func (e *ScorerError) Unwrap() error     { return e.Err }
func (e *ScorerError) Operation() string { return e.Op }
func (e *ScorerError) Message() string   { return e.Msg }

func NewScorer(op, scorer, msg string, err error) error {
	return &ScorerError{Op: op, Scorer: scorer, Msg: msg, Err: err}
}

// StoreError represents record store access failures.
type StoreError struct {
	Op  string
	Msg string
	Err error
}

func (e *StoreError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("store: %s: %s: %v", e.Op, e.Msg, e.Err)
	}
	return fmt.Sprintf("store: %s: %s", e.Op, e.Msg)
}

func (e *StoreError) Unwrap() error     { return e.Err }
func (e *StoreError) Operation() string { return e.Op }
func (e *StoreError) Message() string   { return e.Msg }

func NewStore(op, msg string, err error) error { return &StoreError{Op: op, Msg: msg, Err: err} }

// Kind sentinels: allow callers to check error kind without type assertions.
// Example: if errors.Is(err, errors.ErrValidation) { ... }
var (
	ErrValidation  = &ValidationError{}
	ErrDataQuality = &DataQualityError{}
	ErrScorer      = &ScorerError{}
	ErrStore       = &StoreError{}
)

// Is enables errors.Is(err, ErrValidation) via errors.As semantics.
// We delegate to errors.As with the zero-value pointer of each type.
func Is(err, target error) bool {
	if err == nil || target == nil {
		return errors.Is(err, target)
	}
	switch target.(type) {
	case *ValidationError:
		var v *ValidationError
		return errors.As(err, &v)
	case *DataQualityError:
		var d *DataQualityError
		return errors.As(err, &d)
	case *ScorerError:
		var s *ScorerError
		return errors.As(err, &s)
	case *StoreError:
		var st *StoreError
		return errors.As(err, &st)
	default:
		return errors.Is(err, target)
	}
}
