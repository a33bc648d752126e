package serverutils

import "github.com/gofiber/fiber/v2"

const (
	ErrorTypeInput           = "input_error"
	ErrorTypeExtraction      = "extraction_error"
	ErrorTypeIndexNotReady   = "index_not_ready"
	ErrorTypeUpstreamService = "upstream_service_error"
)

// ApiError is an application error with an HTTP status and a stable error
// type. Controllers and services return it; the error-handler middleware
// renders it.
type ApiError struct {
	Code      int
	ErrorType string
	Message   string
	Err       error
}

func (e *ApiError) Error() string {
	return e.Message
}

func (e *ApiError) Unwrap() error {
	return e.Err
}

// NewInputError rejects a request before any expensive work begins: wrong
// file type, empty question, oversized upload.
func NewInputError(message string) *ApiError {
	return &ApiError{
		Code:      fiber.StatusBadRequest,
		ErrorType: ErrorTypeInput,
		Message:   message,
	}
}

// NewExtractionError reports an unreadable or corrupt document. No partial
// index is committed.
func NewExtractionError(message string, err error) *ApiError {
	return &ApiError{
		Code:      fiber.StatusUnprocessableEntity,
		ErrorType: ErrorTypeExtraction,
		Message:   message,
		Err:       err,
	}
}

// NewIndexNotReadyError reports a query before any successful build,
// distinct from a generic server error.
func NewIndexNotReadyError(message string) *ApiError {
	return &ApiError{
		Code:      fiber.StatusConflict,
		ErrorType: ErrorTypeIndexNotReady,
		Message:   message,
	}
}

// NewUpstreamServiceError reports an unreachable or failing external
// collaborator (embedding provider, LLM API).
func NewUpstreamServiceError(message string, err error) *ApiError {
	return &ApiError{
		Code:      fiber.StatusBadGateway,
		ErrorType: ErrorTypeUpstreamService,
		Message:   message,
		Err:       err,
	}
}
