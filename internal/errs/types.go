package errs

import "strings"

// FieldError is a single field-level validation failure.
//
//	{ "field": "page_size", "error": "must be at most 100" }
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// ActionType tells the client what to do next.
type ActionType string

const (
	ActionTypeRedirect ActionType = "redirect"
)

// Action is an optional client instruction attached to an error.
type Action struct {
	Type    ActionType `json:"type"`
	Message string     `json:"message"`
	Value   string     `json:"value"`
}

// HTTPError is the error shape every endpoint answers with.
//
// Fields:
//   - Code: machine-friendly code (e.g. "NOT_FOUND", "USER_ALREADY_EXISTS").
//   - Message: human-friendly message such as "User not found".
//   - Detail: the underlying failure text, serialized as "error". The
//     global error handler strips it in production.
//   - Status: HTTP status code.
//   - Override: the message is safe to show to end users as is.
//   - Errors: per-field validation failures.
//   - Action: optional client instruction.
type HTTPError struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Detail   string `json:"error,omitempty"`
	Status   int    `json:"status"`
	Override bool   `json:"override"`

	Errors []FieldError `json:"errors"`
	Action *Action      `json:"action"`

	cause error
}

// Error returns the client-facing message.
func (e *HTTPError) Error() string {
	return e.Message
}

// Unwrap exposes the wrapped cause to errors.Is / errors.As.
func (e *HTTPError) Unwrap() error {
	return e.cause
}

// Is matches any *HTTPError regardless of code or status.
func (e *HTTPError) Is(target error) bool {
	_, ok := target.(*HTTPError)
	return ok
}

// WithMessage returns a copy of e with Message replaced.
func (e *HTTPError) WithMessage(message string) *HTTPError {
	out := e.clone()
	out.Message = message
	return out
}

// WithCause returns a copy of e wrapping err. The cause text becomes
// Detail so operators can see why a request failed.
func (e *HTTPError) WithCause(err error) *HTTPError {
	out := e.clone()
	out.cause = err
	if err != nil {
		out.Detail = err.Error()
	}
	return out
}

func (e *HTTPError) clone() *HTTPError {
	return &HTTPError{
		Code:     e.Code,
		Message:  e.Message,
		Detail:   e.Detail,
		Status:   e.Status,
		Override: e.Override,
		Errors:   e.Errors,
		Action:   e.Action,
		cause:    e.cause,
	}
}

// MakeUpperCaseWithUnderscores turns status text into a stable code:
//
//	"Bad Request" -> "BAD_REQUEST"
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
