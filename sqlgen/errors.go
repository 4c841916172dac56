package sqlgen

import (
	"errors"
	"fmt"
)

// TranslationError reports a value the translator has no rendering for.
// Queries built through the ir constructors never trigger one; reaching
// it means a node or token was added to the data model without a
// matching arm here.
type TranslationError struct {
	// Node is the node kind being rendered.
	Node string

	// Message is a human-readable description.
	Message string
}

// Error implements the error interface.
func (e *TranslationError) Error() string {
	return fmt.Sprintf("cannot translate %s: %s", e.Node, e.Message)
}

// IsTranslationError returns true if the error is a TranslationError.
// Uses errors.As to handle wrapped errors.
func IsTranslationError(err error) bool {
	var te *TranslationError
	return errors.As(err, &te)
}
