package compile

import (
	"reflect"
	"strings"

	"dyncast/errs"
	"dyncast/internal/descriptor"
	"dyncast/internal/registry"
	"dyncast/options"
)

// emitEnum compiles a type with a registered member set. Load accepts the
// member name or the underlying value and rejects everything outside the
// set; dump emits the underlying value, or the name under EnumByName.
func (c *compiler) emitEnum(d descriptor.Descriptor) (fragment, error) {
	spec, ok := c.sess.reg.EnumFor(d.Type)
	if !ok {
		return fragment{}, &errs.UnsupportedTypeError{Type: d.Type}
	}

	t := d.Type
	byName := c.cfg.EnumByName
	allow := c.cfg.Coercions
	expected := t.String() + " (one of " + strings.Join(spec.Names, ", ") + ")"

	c.syms.bind("enum_"+t.Name()+"_", spec)

	load := func(src any) (reflect.Value, error) {
		if s, ok := src.(string); ok {
			if v, ok := spec.ByName[s]; ok {
				return v, nil
			}
		}

		normalized, err := normalizeEnumSource(t, src, allow)
		if err != nil {
			return reflect.Value{}, &errs.TypeMismatchError{Expected: expected, Value: src}
		}

		name, ok := spec.ByValue[normalized]
		if !ok {
			return reflect.Value{}, &errs.TypeMismatchError{Expected: expected, Value: src}
		}

		return spec.ByName[name], nil
	}

	dump := func(v reflect.Value) (any, error) {
		normalized, err := registry.NormalizeEnumValue(v)
		if err != nil {
			return nil, &errs.UnsupportedTypeError{Type: t}
		}

		name, ok := spec.ByValue[normalized]
		if !ok {
			return nil, &errs.TypeMismatchError{Expected: expected, Value: v.Interface()}
		}

		if byName {
			return name, nil
		}

		return normalized, nil
	}

	return fragment{load: load, dump: dump}, nil
}

// normalizeEnumSource coerces a dynamic scalar into the comparable form the
// member table is keyed by, following the enum's underlying kind.
func normalizeEnumSource(t reflect.Type, src any, allow options.CoercionSet) (any, error) {
	switch t.Kind() {
	case reflect.String:
		return dynamicString(src)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return dynamicInt(src, true, allow)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := dynamicInt(src, true, allow)
		if err != nil || n < 0 {
			return nil, &errs.TypeMismatchError{Expected: t.String(), Value: src}
		}

		return uint64(n), nil

	default:
		return nil, &errs.UnsupportedTypeError{Type: t}
	}
}
