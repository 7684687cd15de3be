// Package errors provides the error taxonomy used across trajsmooth.
// Every failure in this library is a deterministic caller-input error;
// the types below keep the failures structured so callers can branch on
// them and loggers can emit them as fields rather than flat strings.
package errors

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	Structured error types
//
// ===========================================================================

// ValidationError reports an input parameter that failed validation:
// a degenerate grid size, an out-of-range lineage index, a malformed
// column-naming convention, and so on.
type ValidationError struct {
	ParamName string
	Reason    string
	Value     interface{}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("trajsmooth: validation failed for parameter '%s': %s (got: %v)", e.ParamName, e.Reason, e.Value)
}

// MarshalZerologObject adds the structured validation failure to a zerolog event.
func (e *ValidationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("param_name", e.ParamName).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "ValidationError")
}

// NewValidationError creates a ValidationError with an attached stack trace.
func NewValidationError(param, reason string, value interface{}) error {
	err := &ValidationError{ParamName: param, Reason: reason, Value: value}
	return errors.WithStack(err)
}

// DimensionError reports a matrix or slice whose size disagrees with the
// model structure it is paired with.
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 for rows, 1 for columns
}

func (e *DimensionError) Error() string {
	axisName := "columns"
	if e.Axis == 0 {
		axisName = "rows"
	}
	return fmt.Sprintf("trajsmooth: %s: dimension mismatch on axis %d (%s). Expected %d, got %d", e.Op, e.Axis, axisName, e.Expected, e.Got)
}

// MarshalZerologObject adds the structured dimension mismatch to a zerolog event.
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	axisName := "columns"
	if e.Axis == 0 {
		axisName = "rows"
	}
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Int("axis", e.Axis).
		Str("axis_name", axisName).
		Str("type", "DimensionError")
}

// NewDimensionError creates a DimensionError with an attached stack trace.
func NewDimensionError(op string, expected, got, axis int) error {
	err := &DimensionError{Op: op, Expected: expected, Got: got, Axis: axis}
	return errors.WithStack(err)
}

// GeneNotFoundError reports requested gene identifiers that could not be
// resolved against a coefficient table or a per-gene model collection.
// It is raised before any prediction work starts; a call that carries one
// unknown gene produces no output for the known ones either.
type GeneNotFoundError struct {
	Op      string
	Missing []string
}

func (e *GeneNotFoundError) Error() string {
	return fmt.Sprintf("trajsmooth: %s: not all gene IDs are present: missing [%s]", e.Op, strings.Join(e.Missing, ", "))
}

// MarshalZerologObject adds the unresolved identifiers to a zerolog event.
func (e *GeneNotFoundError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Strs("missing_genes", e.Missing).
		Int("missing_count", len(e.Missing)).
		Str("type", "GeneNotFoundError")
}

// NewGeneNotFoundError creates a GeneNotFoundError with an attached stack trace.
func NewGeneNotFoundError(op string, missing []string) error {
	err := &GeneNotFoundError{Op: op, Missing: missing}
	return errors.WithStack(err)
}

// StructuralMismatchError reports a per-gene model whose covariate schema
// disagrees with the reference model of its collection. The per-gene
// prediction path assumes all models were fitted against the same design;
// a violation must fail loudly instead of silently misaligning columns.
type StructuralMismatchError struct {
	Gene     string
	Field    string
	Expected string
	Got      string
}

func (e *StructuralMismatchError) Error() string {
	return fmt.Sprintf("trajsmooth: model for gene '%s' disagrees with the reference model on %s: expected %s, got %s",
		e.Gene, e.Field, e.Expected, e.Got)
}

// MarshalZerologObject adds the structural disagreement to a zerolog event.
func (e *StructuralMismatchError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("gene", e.Gene).
		Str("field", e.Field).
		Str("expected", e.Expected).
		Str("got", e.Got).
		Str("type", "StructuralMismatchError")
}

// NewStructuralMismatchError creates a StructuralMismatchError with an
// attached stack trace.
func NewStructuralMismatchError(gene, field, expected, got string) error {
	err := &StructuralMismatchError{Gene: gene, Field: field, Expected: expected, Got: got}
	return errors.WithStack(err)
}

// ValueError reports an argument whose value is unusable for the requested
// operation even though its shape is fine.
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("trajsmooth: %s: %s", e.Op, e.Message)
}

// NewValueError creates a ValueError with an attached stack trace.
func NewValueError(op, message string) error {
	err := &ValueError{Op: op, Message: message}
	return errors.WithStack(err)
}

// ===========================================================================
//
//	cockroachdb/errors wrappers
//
// ===========================================================================

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap wraps an existing error with a message.
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf wraps an existing error with a format string.
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New creates a new error with a stack trace.
func New(message string) error {
	return errors.New(message)
}

// Newf creates a new formatted error with a stack trace.
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack annotates err with a stack trace at the point of the call.
func WithStack(err error) error {
	return errors.WithStack(err)
}

// ===========================================================================
//
//	Common error values
//
// ===========================================================================

var (
	// ErrEmptyData is returned when an empty matrix or collection is supplied.
	ErrEmptyData = New("empty data")
)
