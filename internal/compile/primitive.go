package compile

import (
	"encoding/base64"
	"math"
	"reflect"
	"strconv"
	"strings"

	"dyncast/errs"
	"dyncast/internal/descriptor"
	"dyncast/options"
)

// truthyTokens is the fixed set a scalar must match, case-insensitively, to
// load as true. Every other scalar loads as false.
var truthyTokens = map[string]struct{}{
	"TRUE": {}, "T": {}, "YES": {}, "Y": {}, "ON": {}, "1": {},
}

func (c *compiler) emitPrimitive(d descriptor.Descriptor, fc fieldCtx) (fragment, error) {
	t := d.Type
	strict := c.cfg.StrictIntegers
	allow := c.cfg.Coercions
	force := fc.forceString

	switch d.Kind {
	case descriptor.KindString:
		return fragment{
			load: func(src any) (reflect.Value, error) {
				s, err := dynamicString(src)
				if err != nil {
					return reflect.Value{}, &errs.TypeMismatchError{Expected: t.String(), Value: src}
				}

				out := reflect.New(t).Elem()
				out.SetString(s)

				return out, nil
			},
			dump: func(v reflect.Value) (any, error) {
				return v.String(), nil
			},
		}, nil

	case descriptor.KindInt:
		return fragment{
			load: func(src any) (reflect.Value, error) {
				n, err := dynamicInt(src, strict, allow)
				if err != nil {
					return reflect.Value{}, &errs.TypeMismatchError{Expected: t.String(), Value: src}
				}

				out := reflect.New(t).Elem()
				if out.OverflowInt(n) {
					return reflect.Value{}, &errs.TypeMismatchError{Expected: t.String() + " (out of range)", Value: src}
				}
				out.SetInt(n)

				return out, nil
			},
			dump: func(v reflect.Value) (any, error) {
				if force {
					return strconv.FormatInt(v.Int(), 10), nil
				}

				return v.Int(), nil
			},
		}, nil

	case descriptor.KindUint:
		return fragment{
			load: func(src any) (reflect.Value, error) {
				n, err := dynamicInt(src, strict, allow)
				if err != nil || n < 0 {
					return reflect.Value{}, &errs.TypeMismatchError{Expected: t.String(), Value: src}
				}

				out := reflect.New(t).Elem()
				if out.OverflowUint(uint64(n)) {
					return reflect.Value{}, &errs.TypeMismatchError{Expected: t.String() + " (out of range)", Value: src}
				}
				out.SetUint(uint64(n))

				return out, nil
			},
			dump: func(v reflect.Value) (any, error) {
				if force {
					return strconv.FormatUint(v.Uint(), 10), nil
				}

				return v.Uint(), nil
			},
		}, nil

	case descriptor.KindFloat:
		return fragment{
			load: func(src any) (reflect.Value, error) {
				f, err := dynamicFloat(src, allow)
				if err != nil {
					return reflect.Value{}, &errs.TypeMismatchError{Expected: t.String(), Value: src}
				}

				out := reflect.New(t).Elem()
				if out.OverflowFloat(f) {
					return reflect.Value{}, &errs.TypeMismatchError{Expected: t.String() + " (out of range)", Value: src}
				}
				out.SetFloat(f)

				return out, nil
			},
			dump: func(v reflect.Value) (any, error) {
				if force {
					return strconv.FormatFloat(v.Float(), 'g', -1, 64), nil
				}

				return v.Float(), nil
			},
		}, nil

	case descriptor.KindBool:
		return fragment{
			load: func(src any) (reflect.Value, error) {
				b, err := dynamicBool(src, allow)
				if err != nil {
					return reflect.Value{}, &errs.TypeMismatchError{Expected: t.String(), Value: src}
				}

				out := reflect.New(t).Elem()
				out.SetBool(b)

				return out, nil
			},
			dump: func(v reflect.Value) (any, error) {
				if force {
					return strconv.FormatBool(v.Bool()), nil
				}

				return v.Bool(), nil
			},
		}, nil

	case descriptor.KindBytes:
		return fragment{
			load: func(src any) (reflect.Value, error) {
				var raw []byte

				switch s := src.(type) {
				case []byte:
					raw = s
				case string:
					decoded, err := base64.StdEncoding.DecodeString(s)
					if err != nil {
						// not valid base64: take the text itself
						decoded = []byte(s)
					}
					raw = decoded
				default:
					return reflect.Value{}, &errs.TypeMismatchError{Expected: t.String(), Value: src}
				}

				out := reflect.New(t).Elem()
				out.SetBytes(append([]byte(nil), raw...))

				return out, nil
			},
			dump: func(v reflect.Value) (any, error) {
				return base64.StdEncoding.EncodeToString(v.Bytes()), nil
			},
		}, nil
	}

	return fragment{}, &errs.UnsupportedTypeError{Type: t}
}

func dynamicString(src any) (string, error) {
	switch s := src.(type) {
	case string:
		return s, nil
	case []byte:
		return string(s), nil
	}

	rv := reflect.ValueOf(src)
	if rv.IsValid() && rv.Kind() == reflect.String {
		return rv.String(), nil
	}

	return "", &errs.TypeMismatchError{Expected: "string", Value: src}
}

// dynamicInt coerces a dynamic scalar into int64. Numeric strings are
// accepted under CoerceTextNumber; floats under CoerceFloatWhole, rounding
// to nearest unless strict mode rejects fractional remainders.
func dynamicInt(src any, strict bool, allow options.CoercionSet) (int64, error) {
	rv := reflect.ValueOf(src)
	if !rv.IsValid() {
		return 0, &errs.TypeMismatchError{Expected: "integer", Value: src}
	}

	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return 0, &errs.TypeMismatchError{Expected: "integer (out of range)", Value: src}
		}

		return int64(u), nil

	case reflect.Float32, reflect.Float64:
		if !allow.Has(options.CoerceFloatWhole) {
			return 0, &errs.TypeMismatchError{Expected: "integer", Value: src}
		}

		return floatToInt(rv.Float(), src, strict)

	case reflect.String:
		if !allow.Has(options.CoerceTextNumber) {
			return 0, &errs.TypeMismatchError{Expected: "integer", Value: src}
		}

		s := rv.String()
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n, nil
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return floatToInt(f, src, strict)
		}

		return 0, &errs.TypeMismatchError{Expected: "integer", Value: src}

	default:
		return 0, &errs.TypeMismatchError{Expected: "integer", Value: src}
	}
}

func floatToInt(f float64, src any, strict bool) (int64, error) {
	if f != math.Trunc(f) && strict {
		return 0, &errs.TypeMismatchError{Expected: "integer (fractional remainder)", Value: src}
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, &errs.TypeMismatchError{Expected: "integer (out of range)", Value: src}
	}

	return int64(math.Round(f)), nil
}

func dynamicFloat(src any, allow options.CoercionSet) (float64, error) {
	rv := reflect.ValueOf(src)
	if !rv.IsValid() {
		return 0, &errs.TypeMismatchError{Expected: "float", Value: src}
	}

	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), nil
	case reflect.String:
		if !allow.Has(options.CoerceTextNumber) {
			return 0, &errs.TypeMismatchError{Expected: "float", Value: src}
		}

		f, err := strconv.ParseFloat(rv.String(), 64)
		if err != nil {
			return 0, &errs.TypeMismatchError{Expected: "float", Value: src}
		}

		return f, nil
	default:
		return 0, &errs.TypeMismatchError{Expected: "float", Value: src}
	}
}

// dynamicBool canonicalizes a scalar to its string form and matches the
// truthy token set case-insensitively; every other scalar is false.
// Containers do not coerce.
func dynamicBool(src any, allow options.CoercionSet) (bool, error) {
	if b, ok := src.(bool); ok {
		return b, nil
	}

	rv := reflect.ValueOf(src)
	if !rv.IsValid() {
		return false, &errs.TypeMismatchError{Expected: "boolean", Value: src}
	}

	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool(), nil
	case reflect.String:
		if !allow.Has(options.CoerceTextualBool) {
			return false, &errs.TypeMismatchError{Expected: "boolean", Value: src}
		}

		_, truthy := truthyTokens[strings.ToUpper(strings.TrimSpace(rv.String()))]

		return truthy, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		if !allow.Has(options.CoerceNumericBool) {
			return false, &errs.TypeMismatchError{Expected: "boolean", Value: src}
		}

		canonical, err := keyString(src)
		if err != nil {
			return false, err
		}

		_, truthy := truthyTokens[canonical]

		return truthy, nil
	default:
		return false, &errs.TypeMismatchError{Expected: "boolean", Value: src}
	}
}
