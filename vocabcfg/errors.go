package vocabcfg

import (
	"errors"
	"fmt"

	"cuelang.org/go/cue/token"
)

// Error code constants - unified across all loader entry points.
const (
	ErrCodeGeneric       = "E001" // Unclassified error
	ErrCodeScanError     = "E002" // Directory scan error
	ErrCodeNoFiles       = "E003" // No CUE files found
	ErrCodeCompileFailed = "E004" // CUE compile or load failed
	ErrCodeNotFound      = "E005" // Path not found
	ErrCodeInvalidSchema = "E006" // Definition does not satisfy the schema
	ErrCodeMissingField  = "E007" // Required field absent
)

// LoadError represents an error that occurred during definition loading.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsLoadError reports whether err is or wraps a *LoadError.
func IsLoadError(err error) bool {
	var le *LoadError
	return errors.As(err, &le)
}
