package stack

import (
	"fmt"
	"runtime"
	"strconv"
	"strings"
)

// stackError carries the wrapped error plus the file:line of the wrap site.
type stackError struct {
	err  error
	site string
}

func New(err error, skip int) error {
	if err == nil {
		return nil
	}
	_, file, line, ok := runtime.Caller(skip - 2)
	if !ok {
		return &stackError{err: err}
	}
	if i := strings.LastIndexByte(file, '/'); i >= 0 {
		file = file[i+1:]
	}
	return &stackError{err: err, site: file + ":" + strconv.Itoa(line)}
}

func (e *stackError) Error() string {
	if e.site == "" {
		return e.err.Error()
	}
	return fmt.Sprintf("%s [%s]", e.err.Error(), e.site)
}

func (e *stackError) Unwrap() error { return e.err }
