package model

import (
	"fmt"
	"strings"
)

// ValidationError holds a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation failure on a named field.
type FieldError struct {
	Field   string
	Message string
}

// Error formats the validation error as a semicolon-separated list of field messages.
func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// HasErrors reports whether the validation error contains any field errors.
func (e *ValidationError) HasErrors() bool {
	return len(e.Errors) > 0
}

// ValidateNode checks a Node for constraint violations.
// It returns a *ValidationError if any rules fail, or nil if the node is valid.
func ValidateNode(n *Node) error {
	var ve ValidationError

	if strings.TrimSpace(n.ID) == "" {
		ve.Errors = append(ve.Errors, FieldError{Field: "id", Message: "is required"})
	}

	if strings.TrimSpace(n.Title) == "" {
		ve.Errors = append(ve.Errors, FieldError{Field: "title", Message: "is required"})
	}

	if !n.Depth.IsValid() {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   "depth",
			Message: fmt.Sprintf("must be between %d and %d, got %d", DepthChapter, DepthTopic, n.Depth),
		})
	}

	// Chapters have no parent; everything else must have one.
	if n.Depth == DepthChapter && n.Parent != "" {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   "parent",
			Message: "must be empty for chapters",
		})
	}
	if n.Depth != DepthChapter && n.Parent == "" {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   "parent",
			Message: fmt.Sprintf("is required for %s nodes", n.Depth),
		})
	}

	if n.Ordinal < 1 {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   "ordinal",
			Message: fmt.Sprintf("must be at least 1, got %d", n.Ordinal),
		})
	}

	if ve.HasErrors() {
		return &ve
	}
	return nil
}

// ValidateEdge checks an Edge for constraint violations.
func ValidateEdge(e *Edge) error {
	var ve ValidationError

	if !e.Kind.IsValid() {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   "kind",
			Message: fmt.Sprintf("invalid value %q", e.Kind),
		})
	}

	if strings.TrimSpace(e.Source) == "" {
		ve.Errors = append(ve.Errors, FieldError{Field: "source", Message: "is required"})
	}

	// An unresolved edge has no target but must carry the raw reference text.
	if e.Unresolved {
		if strings.TrimSpace(e.RawRef) == "" {
			ve.Errors = append(ve.Errors, FieldError{
				Field:   "raw_ref",
				Message: "is required for unresolved edges",
			})
		}
	} else if strings.TrimSpace(e.Target) == "" {
		ve.Errors = append(ve.Errors, FieldError{Field: "target", Message: "is required"})
	}

	if ve.HasErrors() {
		return &ve
	}
	return nil
}
