// Package apperr defines the failure taxonomy of the document pipeline.
package apperr

import (
	"context"
	"errors"
	"fmt"
)

// Kind classifies a pipeline failure
type Kind string

const (
	KindInvalidInput  Kind = "INVALID_INPUT"
	KindNotFound      Kind = "NOT_FOUND"
	KindRenderFailure Kind = "RENDER_FAILURE"
	KindCanceled      Kind = "CANCELED"
	KindInternal      Kind = "INTERNAL"
)

// Stage is the pipeline state in which a failure happened
type Stage string

const (
	StageResolvingRecords   Stage = "resolving_records"
	StageGeneratingAnalysis Stage = "generating_analysis"
	StageAssembling         Stage = "assembling"
	StageDone               Stage = "done"
)

// Error is a classified pipeline failure
type Error struct {
	Kind    Kind
	Stage   Stage
	Message string
	// ID is the offending record id, when there is one
	ID  int64
	Err error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Stage != "" {
		return fmt.Sprintf("%s[%s]: %s", e.Kind, e.Stage, msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind, msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error with the same Kind, so errors.Is(err, apperr.ErrNotFound) works
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Message == "" && t.Kind == e.Kind
}

// Sentinels for errors.Is checks
var (
	ErrInvalidInput  = &Error{Kind: KindInvalidInput}
	ErrNotFound      = &Error{Kind: KindNotFound}
	ErrRenderFailure = &Error{Kind: KindRenderFailure}
	ErrCanceled      = &Error{Kind: KindCanceled}
)

// InvalidInput creates a non-retryable input error
func InvalidInput(format string, args ...interface{}) *Error {
	return &Error{Kind: KindInvalidInput, Message: fmt.Sprintf(format, args...)}
}

// InvalidRecord creates an input error naming the offending record
func InvalidRecord(id int64, format string, args ...interface{}) *Error {
	return &Error{Kind: KindInvalidInput, ID: id, Message: fmt.Sprintf(format, args...)}
}

// NotFound creates an error for a missing record
func NotFound(recordKind string, id int64) *Error {
	return &Error{Kind: KindNotFound, ID: id, Message: fmt.Sprintf("%s %d not found", recordKind, id)}
}

// RenderFailure wraps a drawing surface error
func RenderFailure(err error) *Error {
	return &Error{Kind: KindRenderFailure, Message: "document rendering failed", Err: err}
}

// Canceled wraps a context cancellation
func Canceled(err error) *Error {
	return &Error{Kind: KindCanceled, Message: "request canceled", Err: err}
}

// AtStage tags err with the stage it happened in. Unclassified errors become
// internal failures; context errors become cancellations.
func AtStage(stage Stage, err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		out := *e
		if out.Stage == "" {
			out.Stage = stage
		}
		return &out
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		c := Canceled(err)
		c.Stage = stage
		return c
	}
	return &Error{Kind: KindInternal, Stage: stage, Message: "internal error", Err: err}
}

// KindOf returns the Kind of err, or KindInternal for unclassified errors
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
