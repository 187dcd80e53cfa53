package compile

import (
	"reflect"

	"dyncast/errs"
	"dyncast/internal/descriptor"
)

func (c *compiler) emitMapping(d descriptor.Descriptor, fc fieldCtx) (fragment, error) {
	key, err := c.emit(d.Args[0], fc)
	if err != nil {
		return fragment{}, err
	}

	value, err := c.emit(d.Args[1], fc)
	if err != nil {
		return fragment{}, err
	}

	t := d.Type

	return fragment{
		load: func(src any) (reflect.Value, error) {
			m, ok := dynamicMap(src)
			if !ok {
				return reflect.Value{}, &errs.TypeMismatchError{Expected: t.String(), Value: src}
			}

			out := reflect.MakeMapWithSize(t, len(m))
			for rawKey, rawValue := range m {
				// keys arrive in canonical string form and round-trip
				// through the key fragment's own coercion
				kv, err := key.load(rawKey)
				if err != nil {
					return reflect.Value{}, errs.Prefix(err, keySegment(rawKey))
				}

				vv, err := value.load(rawValue)
				if err != nil {
					return reflect.Value{}, errs.Prefix(err, keySegment(rawKey))
				}

				out.SetMapIndex(kv, vv)
			}

			return out, nil
		},
		dump: func(v reflect.Value) (any, error) {
			out := make(map[string]any, v.Len())

			iter := v.MapRange()
			for iter.Next() {
				dk, err := key.dump(iter.Key())
				if err != nil {
					return nil, err
				}

				ks, err := keyString(dk)
				if err != nil {
					return nil, err
				}

				dv, err := value.dump(iter.Value())
				if err != nil {
					return nil, errs.Prefix(err, keySegment(ks))
				}

				out[ks] = dv
			}

			return out, nil
		},
	}, nil
}
