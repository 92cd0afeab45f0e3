package netkeiba

// SourceError represents a failure talking to netkeiba.
type SourceError struct {
	Op      string // operation name, e.g. "race_card"
	Code    string // error code, e.g. "network_error"
	Message string
	Err     error
}

func (e SourceError) Error() string {
	if e.Err != nil {
		return e.Op + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Op + ": " + e.Code + ": " + e.Message
}

func (e SourceError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrCodeRateLimitExceeded = "rate_limit_exceeded"
	ErrCodeNotFound          = "not_found"
	ErrCodeInvalidData       = "invalid_data"
	ErrCodeNetworkError      = "network_error"
	ErrCodeServerError       = "server_error"
)

// NewSourceError creates a new source error
func NewSourceError(op, code, message string, err error) SourceError {
	return SourceError{
		Op:      op,
		Code:    code,
		Message: message,
		Err:     err,
	}
}
