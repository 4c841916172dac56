package ir

import (
	"errors"
	"fmt"
)

// ShapeError reports a structurally invalid node: wrong arity, a missing
// required field, or a field combination the data model forbids.
type ShapeError struct {
	// Node is the node kind that rejected construction.
	Node string

	// Field names the offending field. Empty when the whole node is
	// malformed.
	Field string

	// Message is a human-readable description.
	Message string
}

// Error implements the error interface.
func (e *ShapeError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid %s: %s: %s", e.Node, e.Field, e.Message)
	}
	return fmt.Sprintf("invalid %s: %s", e.Node, e.Message)
}

// IsShapeError returns true if the error is a ShapeError.
// Uses errors.As to handle wrapped errors.
func IsShapeError(err error) bool {
	var se *ShapeError
	return errors.As(err, &se)
}

// DepthViolation reports serialized input that asks for more subquery
// nesting than the representation can express. Only DecodeQuery raises
// it: the constructor API has no way to build the offending shape.
type DepthViolation struct {
	// Path locates the offending field in the input document.
	Path string
}

// Error implements the error interface.
func (e *DepthViolation) Error() string {
	return fmt.Sprintf("%s: subquery nesting exceeds the supported depth", e.Path)
}

// IsDepthViolation returns true if the error is a DepthViolation.
// Uses errors.As to handle wrapped errors.
func IsDepthViolation(err error) bool {
	var dv *DepthViolation
	return errors.As(err, &dv)
}
