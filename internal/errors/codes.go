// Package errors provides structured error handling for datashed.
//
// Error codes follow the pattern ERR_XXX_DESCRIPTION where:
//   - 1XX: Corpus and configuration errors
//   - 2XX: IO errors (file, disk)
//   - 4XX: Validation errors
//   - 5XX: Internal errors
package errors

// Category defines error categories for classification.
type Category string

const (
	// CategoryConfig indicates corpus discovery and manifest errors.
	CategoryConfig Category = "CONFIG"
	// CategoryIO indicates file and disk I/O errors.
	CategoryIO Category = "IO"
	// CategoryValidation indicates input validation errors.
	CategoryValidation Category = "VALIDATION"
	// CategoryInternal indicates unexpected internal errors.
	CategoryInternal Category = "INTERNAL"
)

// Error codes organized by category.
const (
	// Corpus/config errors (100-199)
	ErrCodeNotACorpus    = "ERR_101_NOT_A_CORPUS"
	ErrCodeConfigInvalid = "ERR_102_CONFIG_INVALID"

	// IO errors (200-299)
	ErrCodeMetadataUnavailable = "ERR_201_METADATA_UNAVAILABLE"
	ErrCodeWriteFailed         = "ERR_202_WRITE_FAILED"
	ErrCodeReadFailed          = "ERR_203_READ_FAILED"
	ErrCodeCorpusLocked        = "ERR_204_CORPUS_LOCKED"

	// Validation errors (400-499)
	ErrCodeNonTextPath    = "ERR_401_NON_TEXT_PATH"
	ErrCodeInvalidVersion = "ERR_402_INVALID_VERSION"
)

// categoryFromCode extracts category from error code.
func categoryFromCode(code string) Category {
	if len(code) < 7 {
		return CategoryInternal
	}

	// "101" from "ERR_101_NOT_A_CORPUS"
	switch code[4] {
	case '1':
		return CategoryConfig
	case '2':
		return CategoryIO
	case '4':
		return CategoryValidation
	default:
		return CategoryInternal
	}
}
