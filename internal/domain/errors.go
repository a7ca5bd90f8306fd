package domain

import "errors"

// ErrorCode is the stable machine-readable code surfaced to the caller.
type ErrorCode string

const (
	CodeValidation      ErrorCode = "VALIDATION_ERROR"
	CodeMetadataFetch   ErrorCode = "YOUTUBE_FETCH_FAILED"
	CodeTranscriptFetch ErrorCode = "TRANSCRIPT_FAILED"
)

// Non-fatal transcript outcomes. Both are absorbed by the orchestrator:
// ingestion continues with an empty transcript.
var (
	ErrNoTranscript     = errors.New("no transcript available")
	ErrVideoUnavailable = errors.New("video unavailable")
)

type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return string(e.Code) + ": " + e.Message + ": " + e.Err.Error()
	}
	return string(e.Code) + ": " + e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NewError(code ErrorCode, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// CodeOf extracts the stable code from err, or "" when err carries none.
func CodeOf(err error) ErrorCode {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}
