package errors

import (
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/status"
)

// Domain is the error domain reported in ErrorInfo details.
const Domain = "github.com/louisbranch/benchseed"

// Error is a domain error with a code and template metadata.
type Error struct {
	Code     Code
	Message  string            // internal message for logs and traces
	Metadata map[string]string // values for the localized template
	Cause    error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// New creates a domain error with a code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap creates a domain error that wraps cause.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// WithMetadata returns a copy of e carrying metadata.
func (e *Error) WithMetadata(metadata map[string]string) *Error {
	out := *e
	out.Metadata = metadata
	return &out
}

// ToGRPCStatus converts e to a gRPC status error carrying an ErrorInfo and a
// LocalizedMessage detail. The status message keeps the internal message.
func (e *Error) ToGRPCStatus(locale, userMessage string) error {
	st := status.New(e.Code.GRPCCode(), e.Message)
	detailed, err := st.WithDetails(
		&errdetails.ErrorInfo{
			Reason:   string(e.Code),
			Domain:   Domain,
			Metadata: e.Metadata,
		},
		&errdetails.LocalizedMessage{
			Locale:  locale,
			Message: userMessage,
		},
	)
	if err != nil {
		return st.Err()
	}
	return detailed.Err()
}
