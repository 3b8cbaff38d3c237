package errs

import (
	"errors"
	"fmt"
	"strings"

	"talentlink/tools/errs/stack"
)

type Error interface {
	Is(err error) bool
	Wrap() error
	WrapMsg(msg string, kv ...any) error
	error
}

func New(s string, kv ...any) Error {
	return &errorString{s: toString(s, kv)}
}

type errorString struct {
	s string
}

func (e *errorString) Is(err error) bool {
	if err == nil {
		return false
	}
	var t *errorString
	ok := errors.As(err, &t)
	return ok && e.s == t.s
}

func (e *errorString) Error() string { return e.s }

func (e *errorString) Wrap() error { return stack.New(e, stackSkip) }

func (e *errorString) WrapMsg(msg string, kv ...any) error {
	return WrapMsg(e, msg, kv...)
}

// ErrWrapper pairs a cause with an annotation added while unwinding.
type ErrWrapper interface {
	Unwrap() error
	error
}

func NewErrorWrapper(err error, s string) ErrWrapper {
	return &errorWrapper{err: err, s: s}
}

type errorWrapper struct {
	err error
	s   string
}

func (e *errorWrapper) Error() string {
	if e.s == "" {
		return e.err.Error()
	}
	return e.s + ": " + e.err.Error()
}

func (e *errorWrapper) Unwrap() error { return e.err }

func toString(s string, kv []any) string {
	if len(kv) == 0 {
		return s
	}
	var sb strings.Builder
	sb.WriteString(s)
	for i := 0; i < len(kv); i += 2 {
		if i > 0 || s != "" {
			sb.WriteString(", ")
		}
		key := fmt.Sprint(kv[i])
		var val any = "missing"
		if i+1 < len(kv) {
			val = kv[i+1]
		}
		sb.WriteString(key)
		sb.WriteString("=")
		sb.WriteString(fmt.Sprint(val))
	}
	return sb.String()
}
