package vocab

import (
	"errors"
	"fmt"
)

// VocabularyError reports a value outside one of the closed vocabularies:
// an identifier missing from the installed sets, an unknown operator or
// function token, or a malformed definition.
//
// VocabularyError includes structured fields for diagnostics. Callers
// should match it with errors.As (or IsVocabularyError) rather than by
// message text.
type VocabularyError struct {
	// Code identifies the error category.
	Code VocabularyErrorCode

	// Message is a human-readable description.
	Message string

	// Value is the rejected identifier or token, when there is one.
	Value string
}

// VocabularyErrorCode categorizes vocabulary errors.
type VocabularyErrorCode string

const (
	// ErrCodeUnknownTable indicates a table name outside the vocabulary.
	ErrCodeUnknownTable VocabularyErrorCode = "UNKNOWN_TABLE"

	// ErrCodeUnknownColumn indicates a column name outside the vocabulary.
	ErrCodeUnknownColumn VocabularyErrorCode = "UNKNOWN_COLUMN"

	// ErrCodeUnknownToken indicates an operator or function token outside
	// its closed set.
	ErrCodeUnknownToken VocabularyErrorCode = "UNKNOWN_TOKEN"

	// ErrCodeBadIdentifier indicates a definition identifier that is not
	// lexically safe to render verbatim.
	ErrCodeBadIdentifier VocabularyErrorCode = "BAD_IDENTIFIER"

	// ErrCodeDuplicateColumn indicates a column declared twice by one table.
	ErrCodeDuplicateColumn VocabularyErrorCode = "DUPLICATE_COLUMN"

	// ErrCodeEmptyVocabulary indicates a definition with nothing to enroll.
	ErrCodeEmptyVocabulary VocabularyErrorCode = "EMPTY_VOCABULARY"

	// ErrCodeAlreadyInstalled indicates a second Install in one process.
	ErrCodeAlreadyInstalled VocabularyErrorCode = "ALREADY_INSTALLED"

	// ErrCodeNotInstalled indicates Active was called before Install.
	ErrCodeNotInstalled VocabularyErrorCode = "NOT_INSTALLED"
)

// Error implements the error interface.
func (e *VocabularyError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("%s: %s (value=%q)", e.Code, e.Message, e.Value)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsVocabularyError returns true if the error is a VocabularyError.
// Uses errors.As to handle wrapped errors.
func IsVocabularyError(err error) bool {
	var ve *VocabularyError
	return errors.As(err, &ve)
}
