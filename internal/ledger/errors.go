package ledger

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"
)

// ErrorCode categorizes ledger errors. Every failure is terminal for the
// attempted call; nothing in the core retries automatically.
type ErrorCode string

const (
	// ErrCodeImmutabilityViolation indicates an update or delete was
	// attempted on an append-only entity.
	ErrCodeImmutabilityViolation ErrorCode = "IMMUTABILITY_VIOLATION"

	// ErrCodeReferentialError indicates a fact references a day, task or
	// config that does not exist yet.
	ErrCodeReferentialError ErrorCode = "REFERENTIAL_ERROR"

	// ErrCodeDuplicateLog indicates a second daily log submission for an
	// already-logged day.
	ErrCodeDuplicateLog ErrorCode = "DUPLICATE_LOG"

	// ErrCodeConstraintViolation indicates a numeric or domain check failed.
	ErrCodeConstraintViolation ErrorCode = "CONSTRAINT_VIOLATION"

	// ErrCodeFocusLockActive indicates a session start was attempted while
	// another session is open.
	ErrCodeFocusLockActive ErrorCode = "FOCUS_LOCK_ACTIVE"

	// ErrCodeSessionAlreadyClosed indicates a close was attempted on a
	// session whose end time is already set.
	ErrCodeSessionAlreadyClosed ErrorCode = "SESSION_ALREADY_CLOSED"

	// ErrCodeSessionNotFound indicates an unknown session id.
	ErrCodeSessionNotFound ErrorCode = "SESSION_NOT_FOUND"

	// ErrCodeNotFound indicates a plan entry or task lookup failed.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"

	// ErrCodeNoConfigHistory indicates day routing was requested with no
	// prior seed configuration.
	ErrCodeNoConfigHistory ErrorCode = "NO_CONFIG_HISTORY"

	// ErrCodeNoLogYet indicates scoring was attempted before a log exists.
	ErrCodeNoLogYet ErrorCode = "NO_LOG_YET"
)

// Error is a structured ledger error with enough context (entity, field,
// day) for the caller to decide the next action.
type Error struct {
	Code    ErrorCode
	Message string
	Entity  string
	Field   string
	Day     string
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Day != "" && e.Field != "":
		return fmt.Sprintf("%s: %s (day=%s, field=%s)", e.Code, e.Message, e.Day, e.Field)
	case e.Day != "":
		return fmt.Sprintf("%s: %s (day=%s)", e.Code, e.Message, e.Day)
	case e.Field != "":
		return fmt.Sprintf("%s: %s (field=%s)", e.Code, e.Message, e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// CodeOf extracts the ErrorCode from an error, or "" if it is not a
// ledger error. Uses errors.As to handle wrapped errors.
func CodeOf(err error) ErrorCode {
	var le *Error
	if errors.As(err, &le) {
		return le.Code
	}
	return ""
}

// IsImmutabilityViolation reports whether err is an append-only violation.
func IsImmutabilityViolation(err error) bool {
	return CodeOf(err) == ErrCodeImmutabilityViolation
}

// IsReferentialError reports whether err is a missing-reference failure.
func IsReferentialError(err error) bool {
	return CodeOf(err) == ErrCodeReferentialError
}

// IsDuplicateLog reports whether err is a repeated daily log submission.
func IsDuplicateLog(err error) bool {
	return CodeOf(err) == ErrCodeDuplicateLog
}

// IsConstraintViolation reports whether err is a field-level check failure.
func IsConstraintViolation(err error) bool {
	return CodeOf(err) == ErrCodeConstraintViolation
}

// IsFocusLockActive reports whether err is a focus lock rejection.
func IsFocusLockActive(err error) bool {
	return CodeOf(err) == ErrCodeFocusLockActive
}

// IsSessionAlreadyClosed reports whether err is a re-close attempt.
func IsSessionAlreadyClosed(err error) bool {
	return CodeOf(err) == ErrCodeSessionAlreadyClosed
}

// IsSessionNotFound reports whether err is an unknown session id.
func IsSessionNotFound(err error) bool {
	return CodeOf(err) == ErrCodeSessionNotFound
}

// IsNotFound reports whether err is a plan or task lookup failure.
func IsNotFound(err error) bool {
	return CodeOf(err) == ErrCodeNotFound
}

// IsNoConfigHistory reports whether err indicates an unseeded registry.
func IsNoConfigHistory(err error) bool {
	return CodeOf(err) == ErrCodeNoConfigHistory
}

// IsNoLogYet reports whether err indicates scoring before log submission.
func IsNoLogYet(err error) bool {
	return CodeOf(err) == ErrCodeNoLogYet
}

// Trigger marker strings, matched against RAISE(ABORT, ...) messages from
// schema.sql. The schema is the source of truth for enforcement; these
// markers only map its rejections onto the error taxonomy.
const (
	markerImmutability = "IMMUTABILITY VIOLATION"
	markerFocusLock    = "FOCUS LOCK"
	markerSessionLock  = "SESSION LOCKED"
	markerTampering    = "TAMPERING DETECTED"
	markerIntegrity    = "DATA INTEGRITY"
	markerInvalidOp    = "INVALID OPERATION"
)

// classify maps a raw SQLite failure onto the ledger error taxonomy.
// Errors that are already ledger errors pass through unchanged; unknown
// failures are returned as-is for the caller to wrap.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var le *Error
	if errors.As(err, &le) {
		return err
	}

	var serr sqlite3.Error
	if !errors.As(err, &serr) {
		return err
	}

	msg := serr.Error()
	switch serr.ExtendedCode {
	case sqlite3.ErrConstraintTrigger:
		switch {
		case strings.Contains(msg, markerImmutability):
			return &Error{Code: ErrCodeImmutabilityViolation, Message: msg}
		case strings.Contains(msg, markerFocusLock):
			return &Error{Code: ErrCodeFocusLockActive, Message: "an open session already exists"}
		case strings.Contains(msg, markerSessionLock):
			return &Error{Code: ErrCodeSessionAlreadyClosed, Message: "session is already closed"}
		case strings.Contains(msg, markerTampering),
			strings.Contains(msg, markerIntegrity),
			strings.Contains(msg, markerInvalidOp):
			return &Error{Code: ErrCodeConstraintViolation, Message: msg}
		}
		return &Error{Code: ErrCodeConstraintViolation, Message: msg}
	case sqlite3.ErrConstraintForeignKey:
		return &Error{Code: ErrCodeReferentialError, Message: "referenced day, task or config does not exist"}
	case sqlite3.ErrConstraintCheck, sqlite3.ErrConstraintNotNull:
		return &Error{Code: ErrCodeConstraintViolation, Message: msg}
	case sqlite3.ErrConstraintPrimaryKey, sqlite3.ErrConstraintUnique:
		return &Error{Code: ErrCodeConstraintViolation, Message: msg}
	}
	return err
}
