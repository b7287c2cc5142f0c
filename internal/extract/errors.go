package extract

import (
	"errors"
	"fmt"
)

// UnreadableDocumentError reports input that could not be decoded into
// text: an empty buffer, non-PDF bytes, an encrypted or corrupt file, or
// a document without an extractable text layer.
type UnreadableDocumentError struct {
	Reason string
	Err    error
}

func (e *UnreadableDocumentError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("unreadable document: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("unreadable document: %s", e.Reason)
}

func (e *UnreadableDocumentError) Unwrap() error {
	return e.Err
}

// ExtractionFailedError reports an internal failure while analyzing a
// document that was already decoded. Trace holds everything recorded up
// to the failure point.
type ExtractionFailedError struct {
	Stage string
	Trace Trace
	Err   error
}

func (e *ExtractionFailedError) Error() string {
	return fmt.Sprintf("extraction failed in %s stage: %v", e.Stage, e.Err)
}

func (e *ExtractionFailedError) Unwrap() error {
	return e.Err
}

// IsUnreadable reports whether err wraps an UnreadableDocumentError.
func IsUnreadable(err error) bool {
	var target *UnreadableDocumentError
	return errors.As(err, &target)
}

// IsExtractionFailed reports whether err wraps an ExtractionFailedError.
func IsExtractionFailed(err error) bool {
	var target *ExtractionFailedError
	return errors.As(err, &target)
}
