// Package rdfox provides a CGO-free Go client for the RDFox knowledge graph engine.
package rdfox

import (
	"fmt"
)

// ErrorType represents different types of RDFox errors.
type ErrorType int

const (
	// ErrGeneric is a generic error.
	ErrGeneric ErrorType = iota
	// ErrEngine is an exception reported by the native engine.
	ErrEngine
	// ErrConnection is a server or data store connection error.
	ErrConnection
	// ErrLicense is a license discovery or validation error.
	ErrLicense
	// ErrDataStore is a data store creation or deletion error.
	ErrDataStore
	// ErrDataType is an unknown or unsupported datatype error.
	ErrDataType
	// ErrLiteral is a literal that does not parse under its datatype.
	ErrLiteral
	// ErrUnresolved is a resource that the cursor could not resolve.
	ErrUnresolved
	// ErrRowLimit is a cursor that produced more rows than allowed.
	ErrRowLimit
	// ErrMultiplicity is a single answer whose multiplicity reached the row limit.
	ErrMultiplicity
	// ErrTransaction is a transaction lifecycle error.
	ErrTransaction
	// ErrStatement is a statement or prefix construction error.
	ErrStatement
	// ErrStream is a streaming sink failure during evaluate-to-stream.
	ErrStream
	// ErrImport is a data import error.
	ErrImport
)

// Error is an RDFox-specific error type.
type Error struct {
	Type    ErrorType
	Message string
	// Exception holds the native exception name for ErrEngine errors.
	Exception string
}

// Error returns the error message.
func (e *Error) Error() string {
	return fmt.Sprintf("rdfox: %s", e.Message)
}

// NewError creates a new Error.
func NewError(typ ErrorType, message string) *Error {
	return &Error{
		Type:    typ,
		Message: message,
	}
}

// IsError checks if an error is of a specific type.
func IsError(err error, typ ErrorType) bool {
	rdfErr, ok := err.(*Error)
	if !ok {
		return false
	}
	return rdfErr.Type == typ
}

// newEngineError wraps an exception raised by the native engine.
func newEngineError(name, what string) *Error {
	return &Error{
		Type:      ErrEngine,
		Message:   fmt.Sprintf("%s: %s", name, what),
		Exception: name,
	}
}

func errUnknownDataType(id uint8) *Error {
	return NewError(ErrDataType, fmt.Sprintf("unknown datatype id %d", id))
}

func errUnknownLiteral(value string, dt DataType) *Error {
	return NewError(ErrLiteral, fmt.Sprintf("unknown literal value %q for datatype %s", value, dt))
}

func errUnresolvedResource(resourceID uint64) *Error {
	return NewError(ErrUnresolved, fmt.Sprintf("could not resolve resource id %d", resourceID))
}

func errRowLimit(maxRows uint64, statement string) *Error {
	return NewError(ErrRowLimit, fmt.Sprintf("exceeded maximum number of rows %d while evaluating: %s", maxRows, statement))
}

func errMultiplicityLimit(multiplicity, maxRows uint64, statement string) *Error {
	return NewError(ErrMultiplicity, fmt.Sprintf("answer multiplicity %d exceeded maximum number of rows %d while evaluating: %s", multiplicity, maxRows, statement))
}
