// =============================================================================
// Political Fund Report Compiler - Validation Engine
// =============================================================================
//
// Structural validation of the profile and of every converted section.
//
// VALIDATION STRATEGY:
//   - Field-level: required text, maximum length, closed value sets
//   - Row-level:   amounts must be positive
//   - Profile:     financial year format, optional records
//
// ERROR HANDLING:
//   - Errors are collected, never thrown
//   - Validators never mutate their input
//   - Each error is {code, path}; path is a dotted field path such as
//     "profile.details.representative.lastName" or
//     "expense.publication[0].rows[2].counterpart.name"
//   - Whether errors block compilation is the compiler's decision
//
// =============================================================================

package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// =============================================================================
// VALIDATION ERROR TYPES
// =============================================================================

// Code classifies a validation error.
type Code string

const (
	Required          Code = "REQUIRED"
	MaxLengthExceeded Code = "MAX_LENGTH_EXCEEDED"
	NegativeValue     Code = "NEGATIVE_VALUE"
	InvalidFormat     Code = "INVALID_FORMAT"
	InvalidValue      Code = "INVALID_VALUE"
)

// Maximum lengths in characters.
const (
	MaxNameLength       = 120
	MaxAddressLength    = 80
	MaxPersonNameLength = 30
	MaxPurposeLength    = 50
	MaxRemarksLength    = 120
	MaxTelLength        = 20
	MaxContactPersons   = 3
)

// ValidationError is a single validation error.
type ValidationError struct {
	Code Code   `json:"code" yaml:"code"`
	Path string `json:"path" yaml:"path"`
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Path)
}

// =============================================================================
// COLLECTOR
// =============================================================================

// collector accumulates errors under a path prefix.
type collector struct {
	errs []*ValidationError
}

func (c *collector) add(code Code, path string) {
	c.errs = append(c.errs, &ValidationError{Code: code, Path: path})
}

// required records REQUIRED when value is blank and MAX_LENGTH_EXCEEDED when
// it is longer than max characters.
func (c *collector) required(path, value string, max int) {
	if strings.TrimSpace(value) == "" {
		c.add(Required, path)
		return
	}
	c.maxLength(path, value, max)
}

func (c *collector) maxLength(path, value string, max int) {
	if utf8.RuneCountInString(value) > max {
		c.add(MaxLengthExceeded, path)
	}
}

// positive records NEGATIVE_VALUE for negative and INVALID_VALUE for zero.
func (c *collector) positive(path string, amount int64) {
	switch {
	case amount < 0:
		c.add(NegativeValue, path)
	case amount == 0:
		c.add(InvalidValue, path)
	}
}

func (c *collector) nonNegative(path string, amount int64) {
	if amount < 0 {
		c.add(NegativeValue, path)
	}
}

func (c *collector) oneOf(path, value string, allowed []string) {
	if value == "" {
		c.add(Required, path)
		return
	}
	for _, a := range allowed {
		if value == a {
			return
		}
	}
	c.add(InvalidValue, path)
}

func join(parts ...string) string {
	return strings.Join(parts, ".")
}

func index(name string, i int) string {
	return fmt.Sprintf("%s[%d]", name, i)
}

// =============================================================================
// REPORTING
// =============================================================================

// FormatErrors formats validation errors for display or logging.
func FormatErrors(errors []*ValidationError) string {
	if len(errors) == 0 {
		return "No validation errors."
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("Validation completed with %d error(s):\n\n", len(errors)))
	for i, err := range errors {
		builder.WriteString(fmt.Sprintf("%d. %s\n", i+1, err.Error()))
	}
	return builder.String()
}
