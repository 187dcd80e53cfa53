package compile

import (
	"reflect"

	"dyncast/errs"
	"dyncast/internal/descriptor"
)

// emitCustom compiles a type through its registered extension hook. Hook
// builders run once, at compile time, against the effective configuration;
// a missing direction compiles to a fragment that fails only when that
// direction is invoked.
func (c *compiler) emitCustom(d descriptor.Descriptor) (fragment, error) {
	hook, ok := c.sess.reg.HookFor(d.Type)
	if !ok {
		return fragment{}, &errs.UnsupportedTypeError{Type: d.Type}
	}

	t := d.Type
	frag := fragment{
		load: func(any) (reflect.Value, error) {
			return reflect.Value{}, &errs.UnsupportedTypeError{Type: t}
		},
		dump: func(reflect.Value) (any, error) {
			return nil, &errs.UnsupportedTypeError{Type: t}
		},
	}

	if hook.MakeLoad != nil {
		load, err := hook.MakeLoad(c.cfg)
		if err != nil {
			return fragment{}, err
		}

		frag.load = load
	}

	if hook.MakeDump != nil {
		dump, err := hook.MakeDump(c.cfg)
		if err != nil {
			return fragment{}, err
		}

		// hook output re-enters the dynamic tree, so it gets the same
		// canonicalization as everything else
		inner := dump
		frag.dump = func(v reflect.Value) (any, error) {
			dv, err := inner(v)
			if err != nil {
				return nil, err
			}

			return sanitize(dv, c)
		}
	}

	return frag, nil
}
