package errors

import "fmt"

var (
	ErrNotFound   = fmt.Errorf("record not found")
	ErrBadRequest = fmt.Errorf("bad request")

	ErrIncidentNotFound = fmt.Errorf("incident not found")
	ErrTicketNotFound   = fmt.Errorf("ticket not found")

	ErrEmptyWorkbook     = fmt.Errorf("workbook contains no data rows")
	ErrHeaderRowNotFound = fmt.Errorf("header row not found in workbook")
	ErrUnsupportedUpload = fmt.Errorf("unsupported upload file type")
	ErrRecomputeConflict = fmt.Errorf("recompute already in progress")
)

// HttpError carries an HTTP status plus a user-facing message; Err and
// Context stay server-side for logging.
type HttpError struct {
	Code    int
	Message string
	Err     error
	Context map[string]interface{}
	Details interface{}
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *HttpError) Unwrap() error { return e.Err }

func NewHttpError(code int, message string, err error, context map[string]interface{}) *HttpError {
	return &HttpError{Code: code, Message: message, Err: err, Context: context}
}

// InvalidInputError marks caller-supplied data that failed validation before
// reaching storage.
type InvalidInputError struct {
	Message string
}

func (e *InvalidInputError) Error() string { return e.Message }

func NewInvalidInputError(format string, args ...interface{}) error {
	return &InvalidInputError{Message: fmt.Sprintf(format, args...)}
}
