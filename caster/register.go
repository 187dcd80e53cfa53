package caster

import (
	"fmt"
	"reflect"

	"dyncast/internal/registry"
	"dyncast/options"
)

// Register installs a conversion hook for an external type. load has shape
// `func(src any) (T, error)` and dump `func(v T) (any, error)`; either may
// also be a configuration-aware builder `func(reflect.Type,
// options.Resolved) (inner, error)` returning the plain shape, and either
// may be nil to leave that direction unsupported.
//
// Both directions must target the same T. Hooks take precedence over the
// built-in handling of T's kind and must be registered before the first
// Load or Dump involving T.
func Register(load, dump any) error {
	var hook registry.Hook

	if load != nil {
		t, makeLoad, err := registry.ParseLoadHook(load)
		if err != nil {
			return fmt.Errorf("caster: load hook: %w", err)
		}

		hook.Type = t
		hook.MakeLoad = makeLoad
	}

	if dump != nil {
		t, makeDump, err := registry.ParseDumpHook(dump)
		if err != nil {
			return fmt.Errorf("caster: dump hook: %w", err)
		}

		if hook.Type != nil && hook.Type != t {
			return fmt.Errorf("caster: hook direction mismatch: load targets %v, dump targets %v", hook.Type, t)
		}

		hook.Type = t
		hook.MakeDump = makeDump
	}

	if hook.Type == nil {
		return fmt.Errorf("caster: at least one hook direction is required")
	}

	registry.Global.AddHook(hook)

	return nil
}

// MustRegister is Register that panics on a malformed hook. Intended for
// package-level init of well-known types.
func MustRegister(load, dump any) {
	if err := Register(load, dump); err != nil {
		panic(err)
	}
}

// RegisterEnum installs the member set of an enumeration type: a mapping
// from member name to member value. Load then accepts either form and
// rejects values outside the set; dump direction is controlled by
// options.EnumByName.
func RegisterEnum[T comparable](members map[string]T) error {
	typ := reflect.TypeOf((*T)(nil)).Elem()

	rm := make(map[string]reflect.Value, len(members))
	for name, v := range members {
		rm[name] = reflect.ValueOf(v)
	}

	return registry.Global.AddEnum(typ, rm)
}

// Tagged pairs a union alternative with its dispatch tag. Built with Tag.
type Tagged struct {
	value any
	tag   string
}

// Tag declares the dispatch tag of one union alternative passed to
// RegisterUnion.
func Tag(alt any, name string) Tagged {
	return Tagged{value: alt, tag: name}
}

// RegisterUnion installs the ordered alternative list for the interface I.
// Alternatives are zero values of the concrete types (pointer values for
// pointer-receiver implementations), optionally wrapped with Tag. Order
// matters for untagged dispatch: earlier alternatives are tried first.
func RegisterUnion[I any](alternatives ...any) error {
	iface := reflect.TypeOf((*I)(nil)).Elem()

	alts := make([]registry.UnionAlt, 0, len(alternatives))
	for _, alt := range alternatives {
		ua := registry.UnionAlt{}

		if tagged, ok := alt.(Tagged); ok {
			ua.Tag = tagged.tag
			alt = tagged.value
		}

		ua.Type = reflect.TypeOf(alt)
		if ua.Type == nil {
			return fmt.Errorf("caster: union alternative for %v is untyped nil", iface)
		}

		alts = append(alts, ua)
	}

	return registry.Global.AddUnion(iface, alts)
}

// Configure attaches a record type's own marshalling configuration. It
// applies whenever T is loaded or dumped, refined by call-site options and
// by whatever cascades from an enclosing record.
func Configure[T any](opts ...options.Option) {
	typ := reflect.TypeOf((*T)(nil)).Elem()

	registry.Global.SetConfig(typ, options.New(opts...))
}
