package mongoutil

import (
	"go.mongodb.org/mongo-driver/mongo"

	errs "talentlink/tools/errs"
)

// WrapError maps driver failures onto the error taxonomy. Timeouts and network
// errors are retryable by the caller; everything else surfaces as-is.
func WrapError(err error, msg string, kv ...any) error {
	if err == nil {
		return nil
	}
	if mongo.IsTimeout(err) || mongo.IsNetworkError(err) {
		return errs.ErrStoreTransient.WrapMsg(msg, kv...)
	}
	return errs.WrapMsg(err, msg, kv...)
}
