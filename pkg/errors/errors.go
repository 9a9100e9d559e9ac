package errors

import "errors"

// Error codes shared across the recommendation pipeline. The HTTP layer maps
// each code to a transport status, so services must not collapse them into a
// generic failure.
const (
	CodeInvalidInput    = "invalid_input"
	CodeUnauthorized    = "unauthorized"
	CodeNotFound        = "not_found"
	CodeStorageError    = "storage_error"
	CodeDataUnavailable = "data_unavailable"
	CodeEmptyCatalog    = "empty_catalog"
	CodeNoCandidates    = "no_candidates"
	CodeNoSurveyData    = "no_survey_data"
	CodeLLMError        = "llm_error"
	CodeMalformedRec    = "malformed_recommendation"
)

// AppError encodes domain specific error details.
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Wrap produces a new AppError instance.
func Wrap(code, message string, err error) error {
	if err == nil {
		return &AppError{Code: code, Message: message}
	}
	return &AppError{Code: code, Message: message, Err: err}
}

// IsCode helps handler differentiate failures.
func IsCode(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// CodeOf extracts the code for logging, empty if err is not an AppError.
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}
