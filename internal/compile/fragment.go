package compile

import (
	"fmt"
	"reflect"
	"strconv"

	"dyncast/errs"
	"dyncast/internal/descriptor"
)

// fragment is the unit the per-kind emitters produce: a load closure turning
// a dynamic value into a typed reflect.Value, and a dump closure doing the
// reverse. Container fragments capture their element fragments; record
// fragments capture routine handles.
type fragment struct {
	load func(src any) (reflect.Value, error)
	dump func(v reflect.Value) (any, error)
}

// optionalFragment lifts a fragment over the optional pointer wrapper:
// nil dynamic values load into nil pointers, nil pointers dump into nil.
func optionalFragment(d descriptor.Descriptor, inner fragment) fragment {
	ptrType := reflect.PointerTo(d.Type)

	return fragment{
		load: func(src any) (reflect.Value, error) {
			if src == nil {
				return reflect.Zero(ptrType), nil
			}

			v, err := inner.load(src)
			if err != nil {
				return reflect.Value{}, err
			}

			p := reflect.New(d.Type)
			p.Elem().Set(v)

			return p, nil
		},
		dump: func(v reflect.Value) (any, error) {
			if v.IsNil() {
				return nil, nil
			}

			return inner.dump(v.Elem())
		},
	}
}

// dynamicMap views a dynamic value as a string-keyed map. YAML parsers
// produce map[any]any for some documents; those are copied with scalar keys
// rendered canonically.
func dynamicMap(src any) (map[string]any, bool) {
	switch m := src.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, v := range m {
			ks, err := keyString(k)
			if err != nil {
				return nil, false
			}
			out[ks] = v
		}

		return out, true
	default:
		return nil, false
	}
}

// keyString renders a scalar into the canonical string form used for map
// keys on dump and for any-keyed map normalization on load.
func keyString(key any) (string, error) {
	switch k := key.(type) {
	case string:
		return k, nil
	case bool:
		return strconv.FormatBool(k), nil
	case int:
		return strconv.FormatInt(int64(k), 10), nil
	case int64:
		return strconv.FormatInt(k, 10), nil
	case uint64:
		return strconv.FormatUint(k, 10), nil
	case float64:
		return strconv.FormatFloat(k, 'g', -1, 64), nil
	}

	rv := reflect.ValueOf(key)
	switch rv.Kind() {
	case reflect.String:
		return rv.String(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), nil
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'g', -1, 64), nil
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool()), nil
	default:
		return "", &errs.TypeMismatchError{Expected: "string-formable map key", Value: key}
	}
}

// segment renders an error-path segment for a sequence position.
func indexSegment(i int) string {
	return "[" + strconv.Itoa(i) + "]"
}

// fieldSegment renders an error-path segment for a record field.
func fieldSegment(name string) string {
	return fmt.Sprintf("field %q", name)
}

// keySegment renders an error-path segment for a map key.
func keySegment(key string) string {
	return fmt.Sprintf("key %q", key)
}
