package httperr

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindValidation        Kind = "validation_error"
	KindInvalidSchedule   Kind = "invalid_schedule"
	KindSlotUnavailable   Kind = "slot_unavailable"
	KindInvalidTransition Kind = "invalid_transition"
	KindNotAuthorized     Kind = "not_authorized"
	KindNotFound          Kind = "not_found"
)

// BusinessError is a domain failure the caller is expected to branch on.
// Fields carries per-field messages for validation failures.
type BusinessError struct {
	Kind   Kind
	Code   string
	Fields map[string]string
}

func (e BusinessError) Error() string {
	if e.Kind == "" {
		return e.Code
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Code)
}

func ErrBusiness(code string) error {
	return BusinessError{Kind: KindValidation, Code: code}
}

func Validation(code string, fields map[string]string) error {
	return BusinessError{Kind: KindValidation, Code: code, Fields: fields}
}

func InvalidSchedule(code string) error {
	return BusinessError{Kind: KindInvalidSchedule, Code: code}
}

func SlotUnavailable(code string) error {
	return BusinessError{Kind: KindSlotUnavailable, Code: code}
}

func InvalidTransition(code string) error {
	return BusinessError{Kind: KindInvalidTransition, Code: code}
}

func NotAuthorized(code string) error {
	return BusinessError{Kind: KindNotAuthorized, Code: code}
}

func NotFoundErr(code string) error {
	return BusinessError{Kind: KindNotFound, Code: code}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// KindOf returns the kind of a wrapped BusinessError, or "" for anything else.
func KindOf(err error) Kind {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Kind
	}
	return ""
}
