package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind classifies a pipeline failure
type Kind string

const (
	KindSourceNotFound       Kind = "SOURCE_NOT_FOUND"
	KindEmptySeries          Kind = "EMPTY_SERIES"
	KindInsufficientData     Kind = "INSUFFICIENT_DATA"
	KindInconsistentSeriesID Kind = "INCONSISTENT_SERIES_ID"
	KindWriteFailure         Kind = "WRITE_FAILURE"
	KindParseFailure         Kind = "PARSE_FAILURE"
	KindConfig               Kind = "CONFIG"
	KindUnknown              Kind = "UNKNOWN"
)

// Sentinels for errors.Is checks. A *PipelineError matches the sentinel of its Kind.
var (
	ErrSourceNotFound       = stderrors.New("source not found")
	ErrEmptySeries          = stderrors.New("empty series")
	ErrInsufficientData     = stderrors.New("insufficient data")
	ErrInconsistentSeriesID = stderrors.New("inconsistent series id")
	ErrWriteFailure         = stderrors.New("write failure")
	ErrParseFailure         = stderrors.New("parse failure")
	ErrConfig               = stderrors.New("invalid configuration")
)

var sentinels = map[Kind]error{
	KindSourceNotFound:       ErrSourceNotFound,
	KindEmptySeries:          ErrEmptySeries,
	KindInsufficientData:     ErrInsufficientData,
	KindInconsistentSeriesID: ErrInconsistentSeriesID,
	KindWriteFailure:         ErrWriteFailure,
	KindParseFailure:         ErrParseFailure,
	KindConfig:               ErrConfig,
}

// PipelineError is a failure tied to one source of the batch
type PipelineError struct {
	Kind    Kind
	Source  string
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *PipelineError) Error() string {
	if e == nil {
		return "unknown pipeline error"
	}
	msg := fmt.Sprintf("[%s] %s", e.Kind, e.Message)
	if e.Source != "" {
		msg = fmt.Sprintf("[%s] %s: %s", e.Kind, e.Source, e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap allows errors.Is and errors.As to reach the cause
func (e *PipelineError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Is matches the sentinel for the error's kind
func (e *PipelineError) Is(target error) bool {
	if e == nil {
		return false
	}
	sentinel, ok := sentinels[e.Kind]
	return ok && sentinel == target
}

// WithContext adds a key/value pair to the error context
func (e *PipelineError) WithContext(key string, value interface{}) *PipelineError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// New creates a pipeline error without a cause
func New(kind Kind, source, message string) *PipelineError {
	return &PipelineError{
		Kind:    kind,
		Source:  source,
		Message: message,
	}
}

// Wrap creates a pipeline error around cause
func Wrap(kind Kind, source, message string, cause error) *PipelineError {
	return &PipelineError{
		Kind:    kind,
		Source:  source,
		Message: message,
		Cause:   cause,
	}
}

// WithSource attaches a source identifier to err. A *PipelineError that already
// names a source is returned unchanged; other errors become KindUnknown.
func WithSource(err error, source string) error {
	if err == nil {
		return nil
	}
	var pErr *PipelineError
	if stderrors.As(err, &pErr) {
		if pErr.Source == "" {
			pErr.Source = source
		}
		return err
	}
	return Wrap(KindUnknown, source, "processing failed", err)
}

// KindOf returns the kind of the first PipelineError in err's chain
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var pErr *PipelineError
	if stderrors.As(err, &pErr) {
		return pErr.Kind
	}
	return KindUnknown
}

// Helper constructors

// NewSourceNotFound reports a source that does not exist
func NewSourceNotFound(source string, cause error) *PipelineError {
	return Wrap(KindSourceNotFound, source, "source not found", cause)
}

// NewEmptySeries reports a series with no rows
func NewEmptySeries(source string) *PipelineError {
	return New(KindEmptySeries, source, "series has no rows")
}

// NewInsufficientData reports a window too small to extrapolate from
func NewInsufficientData(source string, have, need int) *PipelineError {
	return New(KindInsufficientData, source, fmt.Sprintf("need at least %d rows, have %d", need, have)).
		WithContext("have", have).
		WithContext("need", need)
}

// NewInconsistentSeriesID reports a window mixing instruments
func NewInconsistentSeriesID(source, want, got string, row int) *PipelineError {
	return New(KindInconsistentSeriesID, source, fmt.Sprintf("row %d has id %q, expected %q", row, got, want)).
		WithContext("row", row)
}

// NewWriteFailure reports a failed output write
func NewWriteFailure(source string, cause error) *PipelineError {
	return Wrap(KindWriteFailure, source, "failed to write output", cause)
}

// NewParseFailure reports malformed input
func NewParseFailure(source, message string, cause error) *PipelineError {
	return Wrap(KindParseFailure, source, message, cause)
}

// NewConfigError reports invalid configuration
func NewConfigError(message string, cause error) *PipelineError {
	return Wrap(KindConfig, "", message, cause)
}
