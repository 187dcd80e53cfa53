package registry

import (
	"errors"
	"reflect"

	"dyncast/options"
)

var (
	ErrHookIsNotAFunction = errors.New("provided hook is not a function")
	ErrBadHookShape       = errors.New("provided function is not a recognizable hook")
)

var (
	anyType      = reflect.TypeOf((*any)(nil)).Elem()
	errorType    = reflect.TypeOf((*error)(nil)).Elem()
	rtypeType    = reflect.TypeOf((*reflect.Type)(nil)).Elem()
	resolvedType = reflect.TypeOf(options.Resolved{})
)

// ParseLoadHook inspects fn and returns the hook's target type plus a
// factory producing the load closure.
//
// Supported shapes:
//   - func(src any) (T, error)                      plain value transform
//   - func(reflect.Type, options.Resolved)
//     (func(src any) (T, error), error)             configuration-aware builder
func ParseLoadHook(fn any) (reflect.Type, func(options.Resolved) (func(any) (reflect.Value, error), error), error) {
	fnVal := reflect.ValueOf(fn)
	if fnVal.Kind() != reflect.Func {
		return nil, nil, ErrHookIsNotAFunction
	}

	fnType := fnVal.Type()

	if target, ok := plainLoadShape(fnType); ok {
		loader := wrapLoad(fnVal)

		return target, func(options.Resolved) (func(any) (reflect.Value, error), error) {
			return loader, nil
		}, nil
	}

	if inner, ok := builderShape(fnType); ok {
		if target, ok := plainLoadShape(inner); ok {
			return target, func(cfg options.Resolved) (func(any) (reflect.Value, error), error) {
				results := fnVal.Call([]reflect.Value{
					reflect.ValueOf(target), reflect.ValueOf(cfg),
				})
				if err := asError(results[1]); err != nil {
					return nil, err
				}

				return wrapLoad(results[0]), nil
			}, nil
		}
	}

	return nil, nil, ErrBadHookShape
}

// ParseDumpHook inspects fn and returns the hook's target type plus a
// factory producing the dump closure.
//
// Supported shapes:
//   - func(v T) (any, error)                        plain value transform
//   - func(reflect.Type, options.Resolved)
//     (func(v T) (any, error), error)               configuration-aware builder
func ParseDumpHook(fn any) (reflect.Type, func(options.Resolved) (func(reflect.Value) (any, error), error), error) {
	fnVal := reflect.ValueOf(fn)
	if fnVal.Kind() != reflect.Func {
		return nil, nil, ErrHookIsNotAFunction
	}

	fnType := fnVal.Type()

	if target, ok := plainDumpShape(fnType); ok {
		dumper := wrapDump(fnVal)

		return target, func(options.Resolved) (func(reflect.Value) (any, error), error) {
			return dumper, nil
		}, nil
	}

	if inner, ok := builderShape(fnType); ok {
		if target, ok := plainDumpShape(inner); ok {
			return target, func(cfg options.Resolved) (func(reflect.Value) (any, error), error) {
				results := fnVal.Call([]reflect.Value{
					reflect.ValueOf(target), reflect.ValueOf(cfg),
				})
				if err := asError(results[1]); err != nil {
					return nil, err
				}

				return wrapDump(results[0]), nil
			}, nil
		}
	}

	return nil, nil, ErrBadHookShape
}

// plainLoadShape matches func(any) (T, error) and returns T.
func plainLoadShape(fnType reflect.Type) (reflect.Type, bool) {
	ok := fnType.Kind() == reflect.Func &&
		fnType.NumIn() == 1 && fnType.In(0) == anyType &&
		fnType.NumOut() == 2 && fnType.Out(1) == errorType &&
		fnType.Out(0) != errorType

	if !ok {
		return nil, false
	}

	return fnType.Out(0), true
}

// plainDumpShape matches func(T) (any, error) and returns T.
func plainDumpShape(fnType reflect.Type) (reflect.Type, bool) {
	ok := fnType.Kind() == reflect.Func &&
		fnType.NumIn() == 1 && fnType.In(0) != anyType &&
		fnType.NumOut() == 2 && fnType.Out(0) == anyType && fnType.Out(1) == errorType

	if !ok {
		return nil, false
	}

	return fnType.In(0), true
}

// builderShape matches func(reflect.Type, options.Resolved) (F, error) and
// returns F for further shape checking.
func builderShape(fnType reflect.Type) (reflect.Type, bool) {
	ok := fnType.NumIn() == 2 &&
		fnType.In(0) == rtypeType && fnType.In(1) == resolvedType &&
		fnType.NumOut() == 2 && fnType.Out(1) == errorType

	if !ok {
		return nil, false
	}

	return fnType.Out(0), true
}

func wrapLoad(fnVal reflect.Value) func(any) (reflect.Value, error) {
	return func(src any) (reflect.Value, error) {
		in := reflect.New(anyType).Elem()
		if src != nil {
			in.Set(reflect.ValueOf(src))
		}

		results := fnVal.Call([]reflect.Value{in})
		if err := asError(results[1]); err != nil {
			return reflect.Value{}, err
		}

		return results[0], nil
	}
}

func wrapDump(fnVal reflect.Value) func(reflect.Value) (any, error) {
	return func(v reflect.Value) (any, error) {
		results := fnVal.Call([]reflect.Value{v})
		if err := asError(results[1]); err != nil {
			return nil, err
		}

		return results[0].Interface(), nil
	}
}

func asError(v reflect.Value) error {
	if v.IsNil() {
		return nil
	}

	return v.Interface().(error)
}
