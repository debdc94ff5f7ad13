package errors

import "fmt"

// DatashedError is the structured error type for datashed.
// Every failure of the indexing pipeline surfaces as one of these.
type DatashedError struct {
	// Code is the unique error code (e.g., "ERR_101_NOT_A_CORPUS").
	Code string

	// Message is the human-readable error message.
	Message string

	// Category is the error category (Config, IO, Validation, Internal).
	Category Category

	// Details contains additional context as key-value pairs.
	Details map[string]string

	// Cause is the underlying error that caused this error.
	Cause error

	// Suggestion is an actionable suggestion for the user.
	Suggestion string
}

// Sentinels for errors.Is. Matching is by code, so any DatashedError
// carrying the same code matches regardless of message.
var (
	ErrNotACorpus          = &DatashedError{Code: ErrCodeNotACorpus}
	ErrMetadataUnavailable = &DatashedError{Code: ErrCodeMetadataUnavailable}
	ErrNonTextPath         = &DatashedError{Code: ErrCodeNonTextPath}
	ErrWriteFailed         = &DatashedError{Code: ErrCodeWriteFailed}
	ErrReadFailed          = &DatashedError{Code: ErrCodeReadFailed}
	ErrCorpusLocked        = &DatashedError{Code: ErrCodeCorpusLocked}
	ErrConfigInvalid       = &DatashedError{Code: ErrCodeConfigInvalid}
	ErrInvalidVersion      = &DatashedError{Code: ErrCodeInvalidVersion}
)

// Error implements the error interface.
func (e *DatashedError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *DatashedError) Unwrap() error {
	return e.Cause
}

// Is checks if this error matches the target error by code.
func (e *DatashedError) Is(target error) bool {
	if t, ok := target.(*DatashedError); ok {
		return e.Code == t.Code
	}
	return false
}

// WithDetail adds a key-value detail to the error.
// Returns the error for method chaining.
func (e *DatashedError) WithDetail(key, value string) *DatashedError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// WithSuggestion adds an actionable suggestion for the user.
func (e *DatashedError) WithSuggestion(suggestion string) *DatashedError {
	e.Suggestion = suggestion
	return e
}

// New creates a new DatashedError with the given code and message.
func New(code string, message string, cause error) *DatashedError {
	return &DatashedError{
		Code:     code,
		Message:  message,
		Category: categoryFromCode(code),
		Cause:    cause,
	}
}

// NotACorpus reports that no manifest was found in dir or any ancestor.
func NotACorpus(dir string) *DatashedError {
	return New(ErrCodeNotACorpus, "not a datashed (or any parent directory)", nil).
		WithDetail("dir", dir).
		WithSuggestion("run 'datashed init' to create one")
}

// MetadataUnavailable reports that a document's file-system metadata could not be read.
func MetadataUnavailable(path string, cause error) *DatashedError {
	return New(ErrCodeMetadataUnavailable,
		fmt.Sprintf("unable to read metadata of %s: %v", path, cause), cause).
		WithDetail("path", path)
}

// NonTextPath reports a document path that is not valid UTF-8.
func NonTextPath(path string) *DatashedError {
	return New(ErrCodeNonTextPath,
		fmt.Sprintf("document path is not valid UTF-8: %q", path), nil).
		WithDetail("path", path)
}

// WriteFailed reports an I/O failure while writing an index artifact.
func WriteFailed(path string, cause error) *DatashedError {
	return New(ErrCodeWriteFailed,
		fmt.Sprintf("failed to write %s: %v", path, cause), cause).
		WithDetail("path", path)
}

// ReadFailed reports an I/O or decoding failure while reading an index artifact.
func ReadFailed(path string, cause error) *DatashedError {
	return New(ErrCodeReadFailed,
		fmt.Sprintf("failed to read %s: %v", path, cause), cause).
		WithDetail("path", path)
}

// CorpusLocked reports that another process holds the corpus lock.
func CorpusLocked(lockPath string) *DatashedError {
	return New(ErrCodeCorpusLocked, "another index run holds the corpus lock", nil).
		WithDetail("lock", lockPath).
		WithSuggestion("wait for the other run to finish")
}

// ConfigError creates a manifest-related error.
func ConfigError(message string, cause error) *DatashedError {
	return New(ErrCodeConfigInvalid, message, cause)
}
