// services/errors.go - Error kinds surfaced by the event service
package services

import (
	"errors"
	"fmt"
)

type ErrorKind int

const (
	KindValidation ErrorKind = iota + 1
	KindGeneration
	KindNotFound
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindGeneration:
		return "generation"
	case KindNotFound:
		return "not found"
	default:
		return "unknown"
	}
}

// Error is returned for every rejected operation. State is never modified when
// an Error is returned.
type Error struct {
	Kind ErrorKind
	Msg  string
}

func (e *Error) Error() string {
	return e.Msg
}

func validationErrorf(format string, args ...any) error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

func generationErrorf(format string, args ...any) error {
	return &Error{Kind: KindGeneration, Msg: fmt.Sprintf(format, args...)}
}

func notFoundErrorf(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

func kindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func IsValidation(err error) bool { return kindOf(err) == KindValidation }
func IsGeneration(err error) bool { return kindOf(err) == KindGeneration }
func IsNotFound(err error) bool   { return kindOf(err) == KindNotFound }
