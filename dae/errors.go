package dae

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateID is returned when an entity is added to a library that already holds its id.
	ErrDuplicateID = errors.New("dae: duplicate id")
	// ErrUnresolvedReference is returned when a URL, fragment or sid does not name anything in the document.
	ErrUnresolvedReference = errors.New("dae: unresolved reference")
	// ErrMissingField is returned when a required field or attribute is empty.
	ErrMissingField = errors.New("dae: missing required field")
	// ErrUnsupported is returned for COLLADA constructs this package does not model (convex_mesh, tristrips, ...).
	ErrUnsupported = errors.New("dae: unsupported element")
	// ErrMalformedNumber is returned when numeric text can't be parsed.
	ErrMalformedNumber = errors.New("dae: malformed number")
	// ErrInconsistentInputs is returned when the inputs or index data of a primitive group don't agree.
	ErrInconsistentInputs = errors.New("dae: inconsistent primitive inputs")
	// ErrStructure is returned when the element structure of the document is wrong (no root, two scenes, ...).
	ErrStructure = errors.New("dae: bad document structure")
	// ErrInternalState is returned when the parser's state stack doesn't match the incoming events.
	ErrInternalState = errors.New("dae: internal parser state error")
)

// FormatError describes a token that could not be parsed as a number.
type FormatError struct {
	Token string
	Kind  string // "float" or "int"
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("dae: malformed %s %q", e.Kind, e.Token)
}

func (e *FormatError) Unwrap() error { return ErrMalformedNumber }

// ReferenceError describes a reference that could not be resolved.
type ReferenceError struct {
	Kind string // what was being looked up, e.g. "geometry" or "effect"
	Ref  string // the reference as written in the document
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("dae: unresolved %s reference %q", e.Kind, e.Ref)
}

func (e *ReferenceError) Unwrap() error { return ErrUnresolvedReference }

// UnsupportedError names a COLLADA construct that isn't supported.
type UnsupportedError struct {
	Element string
	Context string
}

func (e *UnsupportedError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("dae: unsupported <%s> in <%s>", e.Element, e.Context)
	}
	return fmt.Sprintf("dae: unsupported <%s>", e.Element)
}

func (e *UnsupportedError) Unwrap() error { return ErrUnsupported }

// ParseError wraps any error that aborted a read with the position it happened at.
type ParseError struct {
	Line    int
	Element string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Element != "" {
		return fmt.Sprintf("line %d, <%s>: %v", e.Line, e.Element, e.Err)
	}
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func missingField(entity, field string) error {
	return fmt.Errorf("%w: %s.%s", ErrMissingField, entity, field)
}
