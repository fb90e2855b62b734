package error

import "errors"

// Notification errors.
var (
	// ErrEmailQueueFailed is returned when a welcome email cannot be enqueued.
	ErrEmailQueueFailed = errors.New("failed to queue email")

	// ErrUnknownTemplate is returned when a job references a template that is not registered.
	ErrUnknownTemplate = errors.New("unknown email template")

	// ErrTemplateRenderFailed is returned when template execution fails.
	ErrTemplateRenderFailed = errors.New("failed to render email template")

	// ErrEmailJobNotFound is returned when an email job is not found.
	ErrEmailJobNotFound = errors.New("email job not found")

	// ErrPermanentEmailFailure marks a provider rejection that must not be retried.
	ErrPermanentEmailFailure = errors.New("permanent email failure")
)

// EmailErrorCode defines error codes for email errors.
// Format: EMAIL-XXYYYY where XX is category and YYYY is specific error.
type EmailErrorCode string

const (
	ErrCodeEmailQueueFailed      EmailErrorCode = "EMAIL-010001"
	ErrCodeEmailJobNotFound      EmailErrorCode = "EMAIL-010002"
	ErrCodePermanentEmailFailure EmailErrorCode = "EMAIL-020002"
	ErrCodeUnknownTemplate       EmailErrorCode = "EMAIL-030001"
	ErrCodeTemplateRenderFailed  EmailErrorCode = "EMAIL-030002"
)

// EmailError wraps a notification failure with a stable code.
type EmailError struct {
	Code    EmailErrorCode
	Message string
	Err     error
}

func (e *EmailError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *EmailError) Unwrap() error {
	return e.Err
}

// NewEmailError creates a new EmailError.
func NewEmailError(code EmailErrorCode, message string, err error) *EmailError {
	return &EmailError{Code: code, Message: message, Err: err}
}
