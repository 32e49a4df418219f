// Package apperr defines the error taxonomy shared by the lifecycle engine.
//
// Every failure surfaced to a caller carries a Kind (how the caller should react) and a Code
// (which remediation message to show). errors.Is matches on Code, so sentinels keep matching
// after being wrapped with fmt.Errorf("...: %w", err).
package apperr

import (
	"errors"
	"fmt"
)

// Kind groups codes by the reaction expected from the caller.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindForbidden
	KindInvalidState
	KindValidation
	KindDownstream
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindForbidden:
		return "forbidden"
	case KindInvalidState:
		return "invalid_state"
	case KindValidation:
		return "validation"
	case KindDownstream:
		return "downstream_failure"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// Code is the stable, client-visible reason for a failure.
type Code string

const (
	CodeJobNotFound               Code = "JOB_NOT_FOUND"
	CodeDraftNotFound             Code = "DRAFT_NOT_FOUND"
	CodeTemplateNotFound          Code = "TEMPLATE_NOT_FOUND"
	CodeRateTemplateNotFound      Code = "RATE_TEMPLATE_NOT_FOUND"
	CodeProfileNotFound           Code = "PROFILE_NOT_FOUND"
	CodeForbidden                 Code = "FORBIDDEN"
	CodeAlreadyAccepted           Code = "ALREADY_ACCEPTED"
	CodeAlreadyDeclined           Code = "ALREADY_DECLINED"
	CodeQuoteExpired              Code = "QUOTE_EXPIRED"
	CodeQuoteDeclined             Code = "QUOTE_DECLINED"
	CodeQuoteNotSent              Code = "QUOTE_NOT_SENT"
	CodeCannotRegenerateConfirmed Code = "CANNOT_REGENERATE_CONFIRMED"
	CodeCannotRegenerateAccepted  Code = "CANNOT_REGENERATE_ACCEPTED"
	CodeNotConfirmed              Code = "NOT_CONFIRMED"
	CodeVersionConflict           Code = "VERSION_CONFLICT"
	CodeValidation                Code = "VALIDATION"
	CodeGenerationFailed          Code = "GENERATION_FAILED"
	CodeExportFailed              Code = "EXPORT_FAILED"
)

// Error is the typed failure returned by services.
type Error struct {
	Kind    Kind
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}

	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error with the same Code.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}

	return t.Code == e.Code
}

func New(kind Kind, code Code, msg string) *Error {
	return &Error{Kind: kind, Code: code, Message: msg}
}

func NotFound(code Code, msg string) *Error { return New(KindNotFound, code, msg) }

func Forbidden(msg string) *Error { return New(KindForbidden, CodeForbidden, msg) }

func InvalidState(code Code, msg string) *Error { return New(KindInvalidState, code, msg) }

func Validation(msg string) *Error { return New(KindValidation, CodeValidation, msg) }

func Validationf(format string, args ...any) *Error {
	return New(KindValidation, CodeValidation, fmt.Sprintf(format, args...))
}

// Downstream wraps a failure of an external collaborator (text generation, export).
func Downstream(code Code, msg string, err error) *Error {
	return &Error{Kind: KindDownstream, Code: code, Message: msg, Err: err}
}

// KindOf returns the Kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return KindInternal
}

// CodeOf returns the Code of the first *Error in err's chain, or "".
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}

	return ""
}
