// Package synerr defines the structured error taxonomy shared by every stage
// of a synthesis run. All failures carry a machine-readable code, the
// identity of the offending node where one exists, the field path involved,
// and a human-readable description of the violated rule. A synthesis run
// aborts on the first error; there is no partial or valid-with-warnings
// outcome.
package synerr

import (
	"errors"
	"fmt"
	"strings"
)

// Code classifies a synthesis failure.
type Code string

const (
	// CodeInvalidSchema reports a structurally invalid schema spec tree,
	// detected at definition time.
	CodeInvalidSchema Code = "invalid_schema"
	// CodeUnknownKind reports a build against a kind that was never
	// registered in the catalog.
	CodeUnknownKind Code = "unknown_kind"
	// CodeMissingField reports a required field absent from raw input.
	CodeMissingField Code = "missing_field"
	// CodeConstraintViolation reports a per-field value that fails a
	// declared constraint (type, bounds, pattern, enum, collection size).
	CodeConstraintViolation Code = "constraint_violation"
	// CodeInvariantViolation reports a cross-field rule failure after all
	// fields individually passed.
	CodeInvariantViolation Code = "invariant_violation"
	// CodeDuplicateIdentity reports two nodes registered under the same
	// (kind, name) pair within one run.
	CodeDuplicateIdentity Code = "duplicate_identity"
	// CodeUnknownOutput reports an output accessor for a name the kind
	// never declared.
	CodeUnknownOutput Code = "unknown_output"
	// CodeUnresolvedReference reports, at emission time, a local reference
	// token whose target was never registered.
	CodeUnresolvedReference Code = "unresolved_reference"
	// CodeExtensionPointAlreadyOverridden reports a second override on the
	// same composite extension point.
	CodeExtensionPointAlreadyOverridden Code = "extension_point_already_overridden"
	// CodeUnknownExtensionPoint reports an override targeting a point the
	// blueprint never declared.
	CodeUnknownExtensionPoint Code = "unknown_extension_point"
	// CodeCompositeLifecycle reports a blueprint operation out of order,
	// such as an override after finalization.
	CodeCompositeLifecycle Code = "composite_lifecycle"
)

// Error is the single error shape produced by the engine. Kind, Name and
// Path are filled in as far as they are known at the point of detection.
type Error struct {
	Code Code
	Kind string
	Name string
	Path string // dotted field path within the node's attributes
	Rule string // human-readable description of the violated rule
}

// Error renders the code, the (kind, name, path) triple and the rule.
func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(string(e.Code))
	if e.Kind != "" || e.Name != "" {
		fmt.Fprintf(&sb, ": %s.%s", e.Kind, e.Name)
	}
	if e.Path != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Path)
	}
	if e.Rule != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Rule)
	}
	return sb.String()
}

// CodeOf extracts the Code from err, or "" when err is not a synthesis error.
func CodeOf(err error) Code {
	var se *Error
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}

// InvalidSchema reports a malformed spec tree at the given path.
func InvalidSchema(path, rule string) *Error {
	return &Error{Code: CodeInvalidSchema, Path: path, Rule: rule}
}

// UnknownKind reports a build against an unregistered kind.
func UnknownKind(kind, name string) *Error {
	return &Error{Code: CodeUnknownKind, Kind: kind, Name: name, Rule: "kind is not registered in the catalog"}
}

// MissingField reports a required field absent from raw input.
func MissingField(kind, name, path string) *Error {
	return &Error{Code: CodeMissingField, Kind: kind, Name: name, Path: path, Rule: "required field is missing"}
}

// Constraint reports a per-field constraint failure.
func Constraint(kind, name, path, rule string) *Error {
	return &Error{Code: CodeConstraintViolation, Kind: kind, Name: name, Path: path, Rule: rule}
}

// Invariant reports a cross-field rule failure. Path names the field (or
// comma-joined fields) involved.
func Invariant(kind, name, path, rule string) *Error {
	return &Error{Code: CodeInvariantViolation, Kind: kind, Name: name, Path: path, Rule: rule}
}

// Duplicate reports a second node registered under an existing identity.
func Duplicate(kind, name string) *Error {
	return &Error{Code: CodeDuplicateIdentity, Kind: kind, Name: name, Rule: "a node with this identity is already registered in the run"}
}

// UnknownOutput reports an accessor for an undeclared output.
func UnknownOutput(kind, name, output string) *Error {
	return &Error{Code: CodeUnknownOutput, Kind: kind, Name: name, Path: output, Rule: "output is not declared by the kind"}
}

// Unresolved reports a local reference token whose target is absent from the
// run at emission time.
func Unresolved(kind, name, path string) *Error {
	return &Error{Code: CodeUnresolvedReference, Kind: kind, Name: name, Path: path, Rule: "reference target was never registered in this run"}
}

// Overridden reports a second override on the same extension point.
func Overridden(composite, point string) *Error {
	return &Error{Code: CodeExtensionPointAlreadyOverridden, Name: composite, Path: point, Rule: "extension point has already been overridden"}
}

// UnknownPoint reports an override against an undeclared extension point.
func UnknownPoint(composite, point string) *Error {
	return &Error{Code: CodeUnknownExtensionPoint, Name: composite, Path: point, Rule: "blueprint declares no such extension point"}
}

// Lifecycle reports a blueprint operation attempted in the wrong phase.
func Lifecycle(composite, rule string) *Error {
	return &Error{Code: CodeCompositeLifecycle, Name: composite, Rule: rule}
}
