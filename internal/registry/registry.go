// Package registry holds the process-scoped tables the compiler consults
// during dispatch: extension hooks for external types, enumeration member
// sets, union alternative lists, and per-record configurations.
//
// Tables are mutex-guarded with insert-or-fetch semantics. Initialization
// order matters only in one direction: a type must be registered before the
// first load or dump that needs it, because compiled routines are cached and
// never recompiled for the same configuration fingerprint.
package registry

import (
	"fmt"
	"reflect"
	"sort"
	"sync"

	"dyncast/options"
)

// Hook adapts an arbitrary external type into the compiler. Either side may
// be nil: a missing direction surfaces as an unsupported-type failure only
// when that direction is actually compiled.
type Hook struct {
	Type     reflect.Type
	MakeLoad func(cfg options.Resolved) (func(src any) (reflect.Value, error), error)
	MakeDump func(cfg options.Resolved) (func(v reflect.Value) (any, error), error)
}

// EnumSpec is the registered member set of an enumeration type.
type EnumSpec struct {
	Type   reflect.Type
	Names  []string // sorted, for deterministic error listings
	ByName map[string]reflect.Value
	// ByValue maps the normalized underlying value (string or int64/uint64)
	// to the member name.
	ByValue map[any]string
}

// UnionAlt is one alternative of a union: a concrete type plus its declared
// tag ("" when the tag should be auto-assigned from the type name).
type UnionAlt struct {
	Type reflect.Type
	Tag  string
}

// UnionSpec is the ordered alternative list registered for an interface.
type UnionSpec struct {
	Iface reflect.Type
	Alts  []UnionAlt
}

// Table is one registry instance. The package-level Global table serves the
// public API; tests may build private tables.
type Table struct {
	mu      sync.RWMutex
	hooks   map[reflect.Type]Hook
	enums   map[reflect.Type]EnumSpec
	unions  map[reflect.Type]UnionSpec
	configs map[reflect.Type]*options.Config
}

// Global is the process-wide registry consumed by the public API.
var Global = NewTable()

func NewTable() *Table {
	return &Table{
		hooks:   make(map[reflect.Type]Hook),
		enums:   make(map[reflect.Type]EnumSpec),
		unions:  make(map[reflect.Type]UnionSpec),
		configs: make(map[reflect.Type]*options.Config),
	}
}

// AddHook installs (or replaces) the extension hook for a type.
func (t *Table) AddHook(h Hook) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.hooks[h.Type] = h
}

// AddEnum installs the member set of an enumeration type. Member values are
// normalized to their underlying primitive form for value matching.
func (t *Table) AddEnum(typ reflect.Type, members map[string]reflect.Value) error {
	spec := EnumSpec{
		Type:    typ,
		ByName:  make(map[string]reflect.Value, len(members)),
		ByValue: make(map[any]string, len(members)),
	}

	for name, v := range members {
		if v.Type() != typ {
			return fmt.Errorf("registry: enum member %q has type %v, want %v", name, v.Type(), typ)
		}

		normalized, err := NormalizeEnumValue(v)
		if err != nil {
			return fmt.Errorf("registry: enum member %q: %w", name, err)
		}

		spec.ByName[name] = v
		spec.ByValue[normalized] = name
		spec.Names = append(spec.Names, name)
	}

	sort.Strings(spec.Names)

	t.mu.Lock()
	defer t.mu.Unlock()

	t.enums[typ] = spec

	return nil
}

// AddUnion installs the ordered alternative list for an interface type.
// Every alternative must implement the interface.
func (t *Table) AddUnion(iface reflect.Type, alts []UnionAlt) error {
	if iface.Kind() != reflect.Interface {
		return fmt.Errorf("registry: union type %v is not an interface", iface)
	}

	tags := make(map[string]reflect.Type, len(alts))

	for _, alt := range alts {
		if !alt.Type.Implements(iface) {
			return fmt.Errorf("registry: union alternative %v does not implement %v", alt.Type, iface)
		}

		if alt.Tag != "" {
			if prev, dup := tags[alt.Tag]; dup {
				return fmt.Errorf("registry: union tag %q declared by both %v and %v", alt.Tag, prev, alt.Type)
			}
			tags[alt.Tag] = alt.Type
		}
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.unions[iface] = UnionSpec{Iface: iface, Alts: alts}

	return nil
}

// SetConfig attaches a record type's own marshalling configuration.
func (t *Table) SetConfig(typ reflect.Type, cfg *options.Config) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.configs[typ] = cfg
}

// ConfigFor returns a record's own configuration, or nil.
func (t *Table) ConfigFor(typ reflect.Type) *options.Config {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.configs[typ]
}

// HookFor returns the extension hook for a type.
func (t *Table) HookFor(typ reflect.Type) (Hook, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	h, ok := t.hooks[typ]

	return h, ok
}

// EnumFor returns the enumeration spec for a type.
func (t *Table) EnumFor(typ reflect.Type) (EnumSpec, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	spec, ok := t.enums[typ]

	return spec, ok
}

// UnionFor returns the union spec for an interface type.
func (t *Table) UnionFor(typ reflect.Type) (UnionSpec, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	spec, ok := t.unions[typ]

	return spec, ok
}

// The descriptor resolver's view of the registry.

func (t *Table) IsEnum(typ reflect.Type) bool {
	_, ok := t.EnumFor(typ)
	return ok
}

func (t *Table) IsUnion(typ reflect.Type) bool {
	_, ok := t.UnionFor(typ)
	return ok
}

func (t *Table) HasHook(typ reflect.Type) bool {
	_, ok := t.HookFor(typ)
	return ok
}

func (t *Table) UnionAlternatives(typ reflect.Type) []reflect.Type {
	spec, ok := t.UnionFor(typ)
	if !ok {
		return nil
	}

	alts := make([]reflect.Type, len(spec.Alts))
	for i, alt := range spec.Alts {
		alts[i] = alt.Type
	}

	return alts
}

// NormalizeEnumValue reduces an enum member to its comparable underlying
// form: string, int64, or uint64.
func NormalizeEnumValue(v reflect.Value) (any, error) {
	switch v.Kind() {
	case reflect.String:
		return v.String(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint(), nil
	default:
		return nil, fmt.Errorf("enum underlying kind %v is not string or integer", v.Kind())
	}
}
