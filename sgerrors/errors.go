// Package sgerrors provides structured error types for SGSchemaSync.
//
// These error types enable programmatic error handling via errors.Is() and
// errors.As(), allowing callers to distinguish between recoverable data
// problems and fatal configuration problems.
//
// # Error Categories
//
//   - ParseError: YAML/JSON parsing failures and structural issues
//   - ReferenceError: $ref resolution failures and circular references
//   - ConfigError: invalid or incomplete project configuration (fatal)
//   - GenerateError: generation invariant violations (fatal)
//
// Recoverable conditions (a single schema fragment failing to compile, a
// response without a usable schema) are never modeled as errors; they are
// reported as issues on the generation result instead.
package sgerrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrParse indicates a parsing failure occurred.
	ErrParse = errors.New("parse error")

	// ErrReference indicates a reference resolution failure.
	ErrReference = errors.New("reference error")

	// ErrCircularReference indicates a circular $ref was detected.
	ErrCircularReference = errors.New("circular reference")

	// ErrConfig indicates an invalid configuration.
	ErrConfig = errors.New("configuration error")

	// ErrGenerate indicates a generation invariant violation.
	ErrGenerate = errors.New("generation error")
)

// ParseError represents a failure to parse an OpenAPI document.
type ParseError struct {
	// Path is the file path or source identifier
	Path string
	// Message describes the parsing failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ParseError) Error() string {
	msg := "parse error"
	if e.Path != "" {
		msg += " in " + e.Path
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ParseError) Unwrap() error { return e.Cause }

// Is reports whether target matches this error type.
func (e *ParseError) Is(target error) bool { return target == ErrParse }

// ReferenceError represents a failure to resolve a $ref. This includes
// missing references and circular references.
type ReferenceError struct {
	// Ref is the reference string that failed to resolve
	Ref string
	// RefType indicates the reference type: "local" or "file"
	RefType string
	// IsCircular is true if this error is due to a circular reference
	IsCircular bool
	// Message provides additional context about the failure
	Message string
}

// Error returns a human-readable error message.
func (e *ReferenceError) Error() string {
	switch {
	case e.IsCircular:
		return fmt.Sprintf("circular reference detected: %s", e.Ref)
	case e.Message != "":
		return fmt.Sprintf("failed to resolve %s reference %s: %s", e.RefType, e.Ref, e.Message)
	default:
		return fmt.Sprintf("failed to resolve %s reference %s", e.RefType, e.Ref)
	}
}

// Is reports whether target matches this error type.
func (e *ReferenceError) Is(target error) bool {
	if target == ErrReference {
		return true
	}
	return e.IsCircular && target == ErrCircularReference
}

// ConfigError represents an invalid or incomplete project configuration.
// Configuration errors are fatal: generation aborts before any tag group
// is processed.
type ConfigError struct {
	// Field is the configuration field that is invalid (e.g., "requester.module")
	Field string
	// Message describes what is wrong with the field
	Message string
}

// Error returns a human-readable error message.
func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Message)
	}
	return "configuration error: " + e.Message
}

// Is reports whether target matches this error type.
func (e *ConfigError) Is(target error) bool { return target == ErrConfig }

// GenerateError represents a generation invariant violation, such as a
// custom requester mode without a resolvable module path. These indicate a
// caller or configuration bug, not a data problem, and abort the run.
type GenerateError struct {
	// Message describes the violated invariant
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *GenerateError) Error() string {
	msg := "generation error: " + e.Message
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *GenerateError) Unwrap() error { return e.Cause }

// Is reports whether target matches this error type.
func (e *GenerateError) Is(target error) bool { return target == ErrGenerate }
