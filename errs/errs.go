// Package errs defines the error taxonomy of the marshalling compiler.
//
// Every error raised while loading or dumping a value carries the full field
// path from the outermost record down to the offending fragment. Container
// and record routines prepend their segment via Prefix as errors propagate,
// so callers see e.g. `order: field "items": [2]: cannot coerce "x" into int`.
package errs

import (
	"fmt"
	"reflect"
	"strings"
)

// pather is implemented by every error type in this package; Prefix uses it
// to push path segments in place instead of wrapping.
type pather interface {
	pushPath(seg string)
}

// Prefix attributes err to the given path segment. Errors from this package
// accumulate the segment into their path; foreign errors are wrapped.
func Prefix(err error, seg string) error {
	if err == nil {
		return nil
	}

	if p, ok := err.(pather); ok {
		p.pushPath(seg)
		return err
	}

	return fmt.Errorf("%s: %w", seg, err)
}

type pathed struct {
	segs []string
}

func (p *pathed) pushPath(seg string) {
	// segments arrive innermost-last because errors bubble outwards
	p.segs = append([]string{seg}, p.segs...)
}

// Path returns the accumulated field path, outermost segment first.
func (p *pathed) Path() string {
	return strings.Join(p.segs, ": ")
}

func (p *pathed) at() string {
	if len(p.segs) == 0 {
		return ""
	}

	return p.Path() + ": "
}

// ResolveError reports a declared type that could not be normalized into a
// descriptor: forward-referenced interfaces with no registered alternatives,
// double pointers, or kinds the compiler has no handler for.
type ResolveError struct {
	pathed
	Type   reflect.Type
	Reason string
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("%scannot resolve type %v: %s", e.at(), e.Type, e.Reason)
}

// MissingFieldError reports a required field for which every alias candidate
// was absent and no default exists.
type MissingFieldError struct {
	pathed
	Field      string
	Candidates []string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%smissing required field %q (tried keys %s)",
		e.at(), e.Field, quoteList(e.Candidates))
}

// UnknownKeyError reports a source key that matched no field, raised under
// the OnUnknownKey=Raise policy.
type UnknownKeyError struct {
	pathed
	Key   string
	Known []string
}

func (e *UnknownKeyError) Error() string {
	return fmt.Sprintf("%sunknown key %q (known fields: %s)",
		e.at(), e.Key, quoteList(e.Known))
}

// TypeMismatchError reports a dynamic value that does not coerce to the
// expected shape.
type TypeMismatchError struct {
	pathed
	Expected string
	Value    any
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("%scannot coerce %v (%T) into %s", e.at(), e.Value, e.Value, e.Expected)
}

// TagDispatchError reports a union value whose discriminator matched no
// registered alternative, or an untagged value no alternative accepted.
type TagDispatchError struct {
	pathed
	Tag   string
	Known []string
}

func (e *TagDispatchError) Error() string {
	if e.Tag == "" {
		return fmt.Sprintf("%sno union alternative accepted the value (known tags: %s)",
			e.at(), quoteList(e.Known))
	}

	return fmt.Sprintf("%sunknown union tag %q (known tags: %s)",
		e.at(), e.Tag, quoteList(e.Known))
}

// PatternParseError reports a structured scalar that matched none of the
// configured patterns. Patterns lists every layout tried, in order.
type PatternParseError struct {
	pathed
	Value    string
	Patterns []string
}

func (e *PatternParseError) Error() string {
	return fmt.Sprintf("%scannot parse %q, tried patterns %s",
		e.at(), e.Value, quoteList(e.Patterns))
}

// UnsupportedTypeError reports a type with no built-in handler and no
// registered extension hook.
type UnsupportedTypeError struct {
	pathed
	Type reflect.Type
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("%sunsupported type %v", e.at(), e.Type)
}

// LengthMismatchError reports a fixed-arity tuple loaded from a sequence of
// the wrong length.
type LengthMismatchError struct {
	pathed
	Want, Got int
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("%slength mismatch: want %d elements, got %d", e.at(), e.Want, e.Got)
}

func quoteList(items []string) string {
	if len(items) == 0 {
		return "none"
	}

	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = fmt.Sprintf("%q", s)
	}

	return strings.Join(quoted, ", ")
}
