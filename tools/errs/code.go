package errs

// Taxonomy codes. Handlers map these onto HTTP statuses; services return them
// wrapped with detail.
const (
	ServerInternalError = 500

	ArgsError           = 1001 // malformed input
	RecordNotFoundError = 1002
	NoPermissionError   = 1003 // actor mismatch or missing role
	ConflictError       = 1004 // transition from a terminal/incompatible state
	StoreTransientError = 1005 // retryable I/O failure

	TokenInvalidError = 1101
	TokenExpiredError = 1102
)

var (
	ErrInternalServer = NewCodeError(ServerInternalError, "ServerInternalError")

	ErrArgs           = NewCodeError(ArgsError, "ArgsError")
	ErrRecordNotFound = NewCodeError(RecordNotFoundError, "RecordNotFoundError")
	ErrNoPermission   = NewCodeError(NoPermissionError, "NoPermissionError")
	ErrConflict       = NewCodeError(ConflictError, "ConflictError")
	ErrStoreTransient = NewCodeError(StoreTransientError, "StoreTransientError")

	ErrTokenInvalid = NewCodeError(TokenInvalidError, "TokenInvalidError")
	ErrTokenExpired = NewCodeError(TokenExpiredError, "TokenExpiredError")
)
