package safe

import (
	"reflect"

	"go.uber.org/zap"

	"talentlink/logger"
)

// MustNotNil panics if the given value is nil.
// Useful for enforcing required collaborators during wiring.
func MustNotNil(v any, name string) {
	if reflect.ValueOf(v).IsNil() {
		panic(name + " must not be nil")
	}
}

// Go starts a goroutine that recovers from panics, so fire-and-forget work
// (notification dispatch) can never take the request handler down with it.
func Go(f func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("goroutine panic recovered", zap.Any("panic", r))
			}
		}()
		f()
	}()
}
