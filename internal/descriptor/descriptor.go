package descriptor

import (
	"reflect"
	"strings"
	"time"

	"dyncast/errs"
)

// Lookup answers the registry questions the resolver needs. Implemented by
// the process-wide type registry; abstracted here to keep the dependency
// arrow pointing inward.
type Lookup interface {
	IsEnum(t reflect.Type) bool
	IsUnion(t reflect.Type) bool
	HasHook(t reflect.Type) bool
	UnionAlternatives(t reflect.Type) []reflect.Type
}

// Descriptor is the canonical, immutable representation of a declared type.
// Container descriptors compose: a sequence holds its element descriptor in
// Args, a mapping holds key and value, a union holds its alternatives in
// declaration order.
type Descriptor struct {
	Kind KindEnum
	Type reflect.Type // concrete type after unwrapping the optional pointer
	Args []Descriptor

	// Ordinal is unique across one whole record resolution; the assembler
	// derives collision-free symbol stems from it.
	Ordinal int
	// Index is the position of this descriptor within its parent expansion.
	Index int
	// Arity is the exact element count required by fixed tuples.
	Arity int

	InOptional bool
	// Recursive marks a record type equal to an ancestor currently being
	// compiled; the recursion guard binds its routine late.
	Recursive bool
}

var (
	timeType     = reflect.TypeOf(time.Time{})
	durationType = reflect.TypeOf(time.Duration(0))
	emptyStruct  = reflect.TypeOf(struct{}{})
)

// Resolver walks declared types into descriptors. One resolver serves one
// record compilation: it owns the per-schema ordinal counter and the
// ancestor stack used for self-reference detection. Not safe for concurrent
// use; the compiler creates one per compilation.
type Resolver struct {
	lookup  Lookup
	tagName string
	stack   []reflect.Type
	ordinal int
}

func NewResolver(lookup Lookup, tagName string) *Resolver {
	return &Resolver{lookup: lookup, tagName: tagName}
}

// Push marks a record type as currently compiling. Nested resolutions that
// reach it again come back marked Recursive instead of descending.
func (r *Resolver) Push(t reflect.Type) {
	r.stack = append(r.stack, t)
}

func (r *Resolver) Pop() {
	r.stack = r.stack[:len(r.stack)-1]
}

func (r *Resolver) onStack(t reflect.Type) bool {
	for _, ancestor := range r.stack {
		if ancestor == t {
			return true
		}
	}

	return false
}

// Resolve normalizes a declared type into a descriptor.
func (r *Resolver) Resolve(t reflect.Type) (Descriptor, error) {
	return r.resolve(t, 0)
}

func (r *Resolver) resolve(t reflect.Type, index int) (Descriptor, error) {
	r.ordinal++
	d := Descriptor{Type: t, Ordinal: r.ordinal, Index: index}

	if t.Kind() == reflect.Ptr {
		if t.Elem().Kind() == reflect.Ptr {
			return d, &errs.ResolveError{Type: t, Reason: "double pointers are not supported"}
		}

		inner, err := r.resolve(t.Elem(), index)
		if err != nil {
			return d, err
		}

		inner.InOptional = true
		inner.Ordinal = d.Ordinal

		return inner, nil
	}

	switch t {
	case timeType:
		d.Kind = KindTime
		return d, nil
	case durationType:
		d.Kind = KindDuration
		return d, nil
	}

	if r.lookup != nil {
		switch {
		case r.lookup.IsEnum(t):
			d.Kind = KindEnumeration
			return d, nil
		case r.lookup.HasHook(t):
			d.Kind = KindCustom
			return d, nil
		}
	}

	if t.Kind() == reflect.Interface {
		return r.resolveInterface(t, d)
	}

	switch t.Kind() {
	case reflect.String:
		d.Kind = KindString
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		d.Kind = KindInt
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		d.Kind = KindUint
	case reflect.Float32, reflect.Float64:
		d.Kind = KindFloat
	case reflect.Bool:
		d.Kind = KindBool

	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			d.Kind = KindBytes
			return d, nil
		}

		elem, err := r.resolve(t.Elem(), 0)
		if err != nil {
			return d, err
		}

		d.Kind = KindSequence
		d.Args = []Descriptor{elem}

	case reflect.Array:
		elem, err := r.resolve(t.Elem(), 0)
		if err != nil {
			return d, err
		}

		d.Kind = KindFixedTuple
		d.Arity = t.Len()
		d.Args = []Descriptor{elem}

	case reflect.Map:
		if t.Elem() == emptyStruct {
			key, err := r.resolve(t.Key(), 0)
			if err != nil {
				return d, err
			}

			d.Kind = KindSet
			d.Args = []Descriptor{key}

			return d, nil
		}

		key, err := r.resolve(t.Key(), 0)
		if err != nil {
			return d, err
		}

		value, err := r.resolve(t.Elem(), 1)
		if err != nil {
			return d, err
		}

		d.Kind = KindMapping
		d.Args = []Descriptor{key, value}

	case reflect.Struct:
		if r.onStack(t) {
			d.Recursive = true
		}
		if hasTupleMarker(t, r.tagName) {
			d.Kind = KindStructTuple
		} else {
			d.Kind = KindRecord
		}

	default:
		return d, &errs.ResolveError{Type: t, Reason: "kind " + t.Kind().String() + " has no handler"}
	}

	return d, nil
}

func (r *Resolver) resolveInterface(t reflect.Type, d Descriptor) (Descriptor, error) {
	if r.lookup != nil && r.lookup.IsUnion(t) {
		d.Kind = KindUnion

		alts := r.lookup.UnionAlternatives(t)
		d.Args = make([]Descriptor, 0, len(alts))

		for i, alt := range alts {
			ad, err := r.resolve(alt, i)
			if err != nil {
				return d, err
			}

			d.Args = append(d.Args, ad)
		}

		return d, nil
	}

	if t.NumMethod() == 0 {
		d.Kind = KindAny
		return d, nil
	}

	return d, &errs.ResolveError{
		Type:   t,
		Reason: "interface has no registered union alternatives and no extension hook (unresolved forward reference)",
	}
}

// hasTupleMarker reports whether a struct carries the positional-encoding
// marker: a blank field tagged `cast:",tuple"`.
func hasTupleMarker(t reflect.Type, tagName string) bool {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Name != "_" {
			continue
		}

		tag, ok := f.Tag.Lookup(tagName)
		if !ok {
			continue
		}

		for _, opt := range strings.Split(tag, ",") {
			if opt == "tuple" {
				return true
			}
		}
	}

	return false
}
