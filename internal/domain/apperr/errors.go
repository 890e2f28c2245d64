// Package apperr defines the error taxonomy shared by services and transports.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error so transports can map it to a stable code
type Kind int

const (
	KindInternal Kind = iota
	KindUnauthorized
	KindSubscriptionNotFound
	KindPerceptionUnavailable
	KindEvidenceRejected
	KindDuplicateLog
	KindPastDateLog
	KindStoreError
	KindInvalidArgument
	KindConflict
	KindNotFound
	KindLocationNotSet
)

var kindCodes = map[Kind]string{
	KindInternal:              "INTERNAL",
	KindUnauthorized:          "UNAUTHORIZED",
	KindSubscriptionNotFound:  "SUBSCRIPTION_NOT_FOUND",
	KindPerceptionUnavailable: "PERCEPTION_UNAVAILABLE",
	KindEvidenceRejected:      "EVIDENCE_REJECTED",
	KindDuplicateLog:          "DUPLICATE_LOG",
	KindPastDateLog:           "PAST_DATE_LOG",
	KindStoreError:            "STORE_ERROR",
	KindInvalidArgument:       "INVALID_ARGUMENT",
	KindConflict:              "CONFLICT",
	KindNotFound:              "NOT_FOUND",
	KindLocationNotSet:        "LOCATION_NOT_SET",
}

// Code returns the stable client-facing code for the kind
func (k Kind) Code() string {
	if code, ok := kindCodes[k]; ok {
		return code
	}
	return kindCodes[KindInternal]
}

func (k Kind) String() string {
	return k.Code()
}

// IsInternal reports whether errors of this kind are infrastructure faults
// whose details must not reach the caller.
func (k Kind) IsInternal() bool {
	switch k {
	case KindInternal, KindStoreError, KindPerceptionUnavailable:
		return true
	default:
		return false
	}
}

// Error is a classified application error
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so sentinels work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinels for errors.Is checks
var (
	ErrUnauthorized          = &Error{Kind: KindUnauthorized, Message: "unauthorized"}
	ErrSubscriptionNotFound  = &Error{Kind: KindSubscriptionNotFound, Message: "habit subscription not found"}
	ErrPerceptionUnavailable = &Error{Kind: KindPerceptionUnavailable, Message: "image captioning unavailable"}
	ErrEvidenceRejected      = &Error{Kind: KindEvidenceRejected, Message: "Habit was not verified due to incorrect image"}
	ErrDuplicateLog          = &Error{Kind: KindDuplicateLog, Message: "You have already logged this habit for today"}
	ErrPastDateLog           = &Error{Kind: KindPastDateLog, Message: "Cannot log a habit for a past date."}
	ErrStoreError            = &Error{Kind: KindStoreError, Message: "store failure"}
	ErrInvalidArgument       = &Error{Kind: KindInvalidArgument, Message: "invalid argument"}
	ErrConflict              = &Error{Kind: KindConflict, Message: "conflict"}
	ErrNotFound              = &Error{Kind: KindNotFound, Message: "not found"}
	ErrLocationNotSet        = &Error{Kind: KindLocationNotSet, Message: "User location is not set."}
)

// New creates an error of the given kind
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates an error of the given kind that wraps a cause
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the kind of err. Unclassified errors are KindInternal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// MessageOf returns the message that is safe to show a client.
func MessageOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) && !appErr.Kind.IsInternal() {
		return appErr.Message
	}
	return "Internal server error"
}
