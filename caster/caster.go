// Package caster converts between typed record structs and the generic
// dynamic value trees produced by configuration and interchange parsers
// (maps, sequences, scalars).
//
// Conversion routines are compiled per (record type, configuration) pair on
// first use and cached for the process lifetime, so the per-call cost is the
// conversion itself, not type inspection. Load fills a struct from a dynamic
// tree; Dump renders a struct back into an interchange-safe tree.
//
// External types, enumerations, and union interfaces must be registered
// before the first Load or Dump that needs them; see Register, RegisterEnum,
// and RegisterUnion.
package caster

import (
	"fmt"
	"reflect"

	"dyncast/internal/compile"
	"dyncast/internal/registry"
	"dyncast/options"
)

// Routine is a compiled load/dump pair for one record type under one
// effective configuration. Routines are immutable and safe for concurrent
// use.
type Routine struct {
	inner *compile.Routine
}

// Type returns the record type the routine was compiled for.
func (r *Routine) Type() reflect.Type {
	return r.inner.Type
}

// Config returns the effective configuration the routine was compiled under.
func (r *Routine) Config() options.Resolved {
	return r.inner.Config
}

// Symbols lists the names bound in the routine's symbol table, sorted.
// Intended for debugging and tests.
func (r *Routine) Symbols() []string {
	return r.inner.Symbols()
}

// Load fills the record pointed to by out from a dynamic value tree.
func (r *Routine) Load(data any, out any) error {
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("caster: out must be a non-nil pointer, got %T", out)
	}
	if rv.Elem().Type() != r.inner.Type {
		return fmt.Errorf("caster: routine compiled for %v, out points to %v", r.inner.Type, rv.Elem().Type())
	}

	v, err := r.inner.Load(data)
	if err != nil {
		return err
	}

	rv.Elem().Set(v)

	return nil
}

// Dump renders a record value into a dynamic value tree.
func (r *Routine) Dump(v any) (any, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, fmt.Errorf("caster: cannot dump nil %T", v)
		}
		rv = rv.Elem()
	}

	if rv.Type() != r.inner.Type {
		return nil, fmt.Errorf("caster: routine compiled for %v, got %v", r.inner.Type, rv.Type())
	}

	return r.inner.Dump(rv)
}

// Compile builds (or fetches) the routine for a record type under the given
// call-site options. Explicit pre-compilation is optional: Load and Dump
// compile on first use.
func Compile(t reflect.Type, opts ...options.Option) (*Routine, error) {
	if t == nil {
		return nil, fmt.Errorf("caster: nil type")
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	inner, err := compile.For(t, registry.Global, options.New(opts...), options.Default())
	if err != nil {
		return nil, err
	}

	return &Routine{inner: inner}, nil
}

// Load fills the record pointed to by out from a dynamic value tree,
// compiling the routine on first use.
func Load(data any, out any, opts ...options.Option) error {
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("caster: out must be a non-nil pointer, got %T", out)
	}

	r, err := Compile(rv.Elem().Type(), opts...)
	if err != nil {
		return err
	}

	return r.Load(data, out)
}

// As loads a dynamic value tree into a fresh record value.
func As[T any](data any, opts ...options.Option) (T, error) {
	var out T
	err := Load(data, &out, opts...)

	return out, err
}

// Dump renders a record value (or pointer to one) into a dynamic value tree,
// compiling the routine on first use.
func Dump(v any, opts ...options.Option) (any, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, fmt.Errorf("caster: cannot dump nil %T", v)
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return nil, fmt.Errorf("caster: cannot dump nil")
	}

	r, err := Compile(rv.Type(), opts...)
	if err != nil {
		return nil, err
	}

	return r.inner.Dump(rv)
}
