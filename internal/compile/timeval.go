package compile

import (
	"math"
	"reflect"
	"time"

	"dyncast/errs"
	"dyncast/internal/descriptor"
	"dyncast/options"
)

// emitTime compiles time.Time. String sources parse as the canonical
// interchange form first, then each of the field's custom patterns in
// declaration order; integer and float sources are Unix seconds. Dump
// always renders the configured output form.
func (c *compiler) emitTime(d descriptor.Descriptor, fc fieldCtx) (fragment, error) {
	patterns := append([]string{time.RFC3339Nano, time.RFC3339}, fc.patterns...)
	allow := c.cfg.Coercions
	outForm := c.cfg.DateTimeOutputForm

	load := func(src any) (reflect.Value, error) {
		switch s := src.(type) {
		case time.Time:
			return reflect.ValueOf(s), nil

		case string:
			for _, pattern := range patterns {
				if ts, err := time.Parse(pattern, s); err == nil {
					return reflect.ValueOf(ts), nil
				}
			}

			return reflect.Value{}, &errs.PatternParseError{Value: s, Patterns: patterns}
		}

		rv := reflect.ValueOf(src)
		if !rv.IsValid() {
			return reflect.Value{}, &errs.TypeMismatchError{Expected: "time.Time", Value: src}
		}

		if allow.Has(options.CoerceTimestamp) {
			switch rv.Kind() {
			case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
				return reflect.ValueOf(time.Unix(rv.Int(), 0).UTC()), nil

			case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
				u := rv.Uint()
				if u > math.MaxInt64 {
					return reflect.Value{}, &errs.TypeMismatchError{Expected: "time.Time (out of range)", Value: src}
				}

				return reflect.ValueOf(time.Unix(int64(u), 0).UTC()), nil

			case reflect.Float32, reflect.Float64:
				sec, frac := math.Modf(rv.Float())

				return reflect.ValueOf(time.Unix(int64(sec), int64(frac*float64(time.Second))).UTC()), nil
			}
		}

		return reflect.Value{}, &errs.TypeMismatchError{Expected: "time.Time", Value: src}
	}

	dump := func(v reflect.Value) (any, error) {
		ts, ok := v.Interface().(time.Time)
		if !ok {
			return nil, &errs.TypeMismatchError{Expected: "time.Time", Value: v.Interface()}
		}

		return ts.Format(outForm), nil
	}

	return fragment{load: load, dump: dump}, nil
}

// emitDuration compiles time.Duration: strings go through ParseDuration,
// integers are nanoseconds, floats are seconds. Dump renders the canonical
// "1h2m3s" form.
func (c *compiler) emitDuration(d descriptor.Descriptor) (fragment, error) {
	allow := c.cfg.Coercions

	load := func(src any) (reflect.Value, error) {
		switch s := src.(type) {
		case time.Duration:
			return reflect.ValueOf(s), nil

		case string:
			dur, err := time.ParseDuration(s)
			if err != nil {
				return reflect.Value{}, &errs.TypeMismatchError{Expected: "time.Duration", Value: src}
			}

			return reflect.ValueOf(dur), nil
		}

		rv := reflect.ValueOf(src)
		if !rv.IsValid() {
			return reflect.Value{}, &errs.TypeMismatchError{Expected: "time.Duration", Value: src}
		}

		switch rv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			if allow.Has(options.CoerceNanoseconds) {
				return reflect.ValueOf(time.Duration(rv.Int())), nil
			}

		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			if allow.Has(options.CoerceNanoseconds) {
				u := rv.Uint()
				if u > math.MaxInt64 {
					return reflect.Value{}, &errs.TypeMismatchError{Expected: "time.Duration (out of range)", Value: src}
				}

				return reflect.ValueOf(time.Duration(u)), nil
			}

		case reflect.Float32, reflect.Float64:
			if allow.Has(options.CoerceSeconds) {
				return reflect.ValueOf(time.Duration(rv.Float() * float64(time.Second))), nil
			}
		}

		return reflect.Value{}, &errs.TypeMismatchError{Expected: "time.Duration", Value: src}
	}

	dump := func(v reflect.Value) (any, error) {
		dur, ok := v.Interface().(time.Duration)
		if !ok {
			return nil, &errs.TypeMismatchError{Expected: "time.Duration", Value: v.Interface()}
		}

		return dur.String(), nil
	}

	return fragment{load: load, dump: dump}, nil
}
