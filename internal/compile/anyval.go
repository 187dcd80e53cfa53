package compile

import (
	"encoding/base64"
	"reflect"
	"time"

	"dyncast/errs"
	"dyncast/internal/descriptor"
)

// emitAny compiles the empty interface: load stores the dynamic value as-is,
// dump canonicalizes whatever the program put there back into dynamic-tree
// shape.
func (c *compiler) emitAny(d descriptor.Descriptor) (fragment, error) {
	t := d.Type

	return fragment{
		load: func(src any) (reflect.Value, error) {
			out := reflect.New(t).Elem()
			if src != nil {
				out.Set(reflect.ValueOf(src))
			}

			return out, nil
		},
		dump: func(v reflect.Value) (any, error) {
			if v.Kind() == reflect.Interface && v.IsNil() {
				return nil, nil
			}

			return sanitize(v.Interface(), c)
		},
	}, nil
}

// sanitize canonicalizes an arbitrary Go value into dynamic-tree shape:
// integers widen to int64/uint64, floats to float64, byte slices render as
// base64, times and durations as strings, map keys as canonical strings.
// Structs route through their own compiled dump routine.
func sanitize(src any, c *compiler) (any, error) {
	switch s := src.(type) {
	case nil:
		return nil, nil
	case bool, string, int64, uint64, float64:
		return s, nil
	case []byte:
		return base64.StdEncoding.EncodeToString(s), nil
	case time.Time:
		return s.Format(c.cfg.DateTimeOutputForm), nil
	case time.Duration:
		return s.String(), nil
	}

	rv := reflect.ValueOf(src)

	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool(), nil
	case reflect.String:
		return rv.String(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint(), nil
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil

	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil, nil
		}

		return sanitize(rv.Elem().Interface(), c)

	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
			return base64.StdEncoding.EncodeToString(rv.Bytes()), nil
		}

		out := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			v, err := sanitize(rv.Index(i).Interface(), c)
			if err != nil {
				return nil, errs.Prefix(err, indexSegment(i))
			}

			out[i] = v
		}

		return out, nil

	case reflect.Map:
		out := make(map[string]any, rv.Len())

		iter := rv.MapRange()
		for iter.Next() {
			ks, err := keyString(iter.Key().Interface())
			if err != nil {
				return nil, err
			}

			v, err := sanitize(iter.Value().Interface(), c)
			if err != nil {
				return nil, errs.Prefix(err, keySegment(ks))
			}

			out[ks] = v
		}

		return out, nil

	case reflect.Struct:
		r, err := For(rv.Type(), c.sess.reg, nil, c.cfg.Inheritable())
		if err != nil {
			return nil, err
		}

		return r.dump(rv)

	default:
		return nil, &errs.UnsupportedTypeError{Type: rv.Type()}
	}
}
