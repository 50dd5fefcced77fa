// Package errors provides standardized error handling for the evidence
// aggregation pipeline.
package errors

import (
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Fatal retrieval errors: the whole run aborts.
	ErrCodeLiteratureSearchFailed ErrorCode = "LITERATURE_SEARCH_FAILED"
	ErrCodeLiteratureFetchFailed  ErrorCode = "LITERATURE_FETCH_FAILED"
	ErrCodeLiteratureParseFailed  ErrorCode = "LITERATURE_PARSE_FAILED"
	ErrCodeVariantSearchFailed    ErrorCode = "VARIANT_SEARCH_FAILED"
	ErrCodeVariantFetchFailed     ErrorCode = "VARIANT_FETCH_FAILED"

	// Isolated: a single variant record is skipped, the run continues.
	ErrCodeVariantRecordSkipped ErrorCode = "VARIANT_RECORD_SKIPPED"

	// Degraded: the summarizer substitutes a diagnostic narrative.
	ErrCodeSummaryFailed ErrorCode = "SUMMARY_FAILED"

	// Persist-stage errors.
	ErrCodeReportWriteFailed   ErrorCode = "REPORT_WRITE_FAILED"
	ErrCodeReportArchiveFailed ErrorCode = "REPORT_ARCHIVE_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// NewLiteratureSearchFailedError wraps a failed PubMed ID search.
func NewLiteratureSearchFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeLiteratureSearchFailed,
		Message:   "PubMed ID search request failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewLiteratureFetchFailedError wraps a failed PubMed batch detail fetch.
func NewLiteratureFetchFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeLiteratureFetchFailed,
		Message:   "PubMed abstract fetch request failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewLiteratureParseFailedError wraps an XML parse failure. One malformed
// article aborts the whole literature call.
func NewLiteratureParseFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeLiteratureParseFailed,
		Message:   "PubMed response could not be parsed",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewVariantSearchFailedError wraps a failed ClinVar ID search.
func NewVariantSearchFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeVariantSearchFailed,
		Message:   "ClinVar ID search request failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewVariantFetchFailedError wraps a failed ClinVar batch summary fetch.
func NewVariantFetchFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeVariantFetchFailed,
		Message:   "ClinVar summary fetch request failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewVariantRecordSkippedError records a single malformed ClinVar entry.
// It is surfaced as a warning, never as a run failure.
func NewVariantRecordSkippedError(uid string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeVariantRecordSkipped,
		Message:   "ClinVar record skipped",
		Details:   fmt.Sprintf("uid: %s, error: %s", uid, err.Error()),
		Retryable: false,
		Metadata:  map[string]interface{}{"uid": uid},
		Timestamp: time.Now().UTC(),
	}
}

// NewSummaryFailedError records a GenAI backend failure. The pipeline absorbs
// it into a diagnostic narrative.
func NewSummaryFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSummaryFailed,
		Message:   "narrative synthesis failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewReportWriteFailedError wraps a file-sink failure in the Persist stage.
func NewReportWriteFailedError(path string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeReportWriteFailed,
		Message:   "report file write failed",
		Details:   fmt.Sprintf("path: %s, error: %s", path, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewReportArchiveFailedError wraps a database archive failure in the
// Persist stage.
func NewReportArchiveFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeReportArchiveFailed,
		Message:   "report archive insert failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// IsRetryable reports whether an error is a retryable StandardError.
func IsRetryable(err error) bool {
	if stdErr, ok := err.(*StandardError); ok {
		return stdErr.Retryable
	}
	return false
}

// CodeOf extracts the ErrorCode from an error, or "INTERNAL_ERROR".
func CodeOf(err error) ErrorCode {
	if stdErr, ok := err.(*StandardError); ok {
		return stdErr.Code
	}
	return "INTERNAL_ERROR"
}
