package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies conversion failures for callers that map them to
// user-facing text, status codes or metric labels.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindInvalidInput
	KindConfig
	KindInvalidConversion
	KindUnknown
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "ok"
	case KindInvalidInput:
		return "invalid_input"
	case KindConfig:
		return "config"
	case KindInvalidConversion:
		return "invalid_conversion"
	default:
		return "unknown"
	}
}

// InvalidInputError reports a value that is not a finite real number.
type InvalidInputError struct {
	Input  string
	Reason string
	Err    error
}

func (e *InvalidInputError) Error() string {
	if e.Input == "" {
		return "invalid input: " + e.Reason
	}
	return fmt.Sprintf("invalid input %q: %s", e.Input, e.Reason)
}

func (e *InvalidInputError) Unwrap() error { return e.Err }

// ConfigError reports a category or unit label that is not in the unit table.
// Seeing one means a caller offered a choice the table does not have.
type ConfigError struct {
	Category string
	Unit     string
	Reason   string
}

func (e *ConfigError) Error() string {
	if e.Unit == "" {
		return fmt.Sprintf("category %q: %s", e.Category, e.Reason)
	}
	return fmt.Sprintf("category %q unit %q: %s", e.Category, e.Unit, e.Reason)
}

// InvalidConversionError reports a temperature pair with no formula.
type InvalidConversionError struct {
	From Scale
	To   Scale
}

func (e *InvalidConversionError) Error() string {
	return fmt.Sprintf("invalid temperature conversion %s -> %s", e.From, e.To)
}

// KindOf returns the kind of err, or KindNone for a nil error.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindNone
	}
	var inputErr *InvalidInputError
	var configErr *ConfigError
	var convErr *InvalidConversionError
	switch {
	case errors.As(err, &inputErr):
		return KindInvalidInput
	case errors.As(err, &configErr):
		return KindConfig
	case errors.As(err, &convErr):
		return KindInvalidConversion
	default:
		return KindUnknown
	}
}
