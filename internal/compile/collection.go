package compile

import (
	"fmt"
	"reflect"
	"sort"

	"dyncast/errs"
	"dyncast/internal/descriptor"
)

func (c *compiler) emitSequence(d descriptor.Descriptor, fc fieldCtx) (fragment, error) {
	elem, err := c.emit(d.Args[0], fc)
	if err != nil {
		return fragment{}, err
	}

	t := d.Type

	return fragment{
		load: func(src any) (reflect.Value, error) {
			seq, ok := src.([]any)
			if !ok {
				return reflect.Value{}, &errs.TypeMismatchError{Expected: "sequence of " + t.Elem().String(), Value: src}
			}

			out := reflect.MakeSlice(t, len(seq), len(seq))
			for i, item := range seq {
				v, err := elem.load(item)
				if err != nil {
					return reflect.Value{}, errs.Prefix(err, indexSegment(i))
				}

				out.Index(i).Set(v)
			}

			return out, nil
		},
		dump: func(v reflect.Value) (any, error) {
			out := make([]any, v.Len())
			for i := 0; i < v.Len(); i++ {
				dv, err := elem.dump(v.Index(i))
				if err != nil {
					return nil, errs.Prefix(err, indexSegment(i))
				}

				out[i] = dv
			}

			return out, nil
		},
	}, nil
}

// emitSet handles map[T]struct{}: a sequence on the wire, deduplicated in
// memory. Dump order is deterministic, sorted by the canonical string form
// of each member.
func (c *compiler) emitSet(d descriptor.Descriptor, fc fieldCtx) (fragment, error) {
	key, err := c.emit(d.Args[0], fc)
	if err != nil {
		return fragment{}, err
	}

	t := d.Type
	member := reflect.ValueOf(struct{}{})

	return fragment{
		load: func(src any) (reflect.Value, error) {
			seq, ok := src.([]any)
			if !ok {
				return reflect.Value{}, &errs.TypeMismatchError{Expected: "sequence (set of " + t.Key().String() + ")", Value: src}
			}

			out := reflect.MakeMapWithSize(t, len(seq))
			for i, item := range seq {
				kv, err := key.load(item)
				if err != nil {
					return reflect.Value{}, errs.Prefix(err, indexSegment(i))
				}

				out.SetMapIndex(kv, member)
			}

			return out, nil
		},
		dump: func(v reflect.Value) (any, error) {
			type dumped struct {
				sortKey string
				value   any
			}

			members := make([]dumped, 0, v.Len())

			iter := v.MapRange()
			for iter.Next() {
				dv, err := key.dump(iter.Key())
				if err != nil {
					return nil, err
				}

				members = append(members, dumped{sortKey: fmt.Sprint(dv), value: dv})
			}

			sort.Slice(members, func(i, j int) bool { return members[i].sortKey < members[j].sortKey })

			out := make([]any, len(members))
			for i, m := range members {
				out[i] = m.value
			}

			return out, nil
		},
	}, nil
}

// emitFixedTuple handles array types: exact arity on load, positional
// encoding both ways.
func (c *compiler) emitFixedTuple(d descriptor.Descriptor, fc fieldCtx) (fragment, error) {
	elem, err := c.emit(d.Args[0], fc)
	if err != nil {
		return fragment{}, err
	}

	t := d.Type
	arity := d.Arity

	return fragment{
		load: func(src any) (reflect.Value, error) {
			seq, ok := src.([]any)
			if !ok {
				return reflect.Value{}, &errs.TypeMismatchError{Expected: t.String(), Value: src}
			}
			if len(seq) != arity {
				return reflect.Value{}, &errs.LengthMismatchError{Want: arity, Got: len(seq)}
			}

			out := reflect.New(t).Elem()
			for i, item := range seq {
				v, err := elem.load(item)
				if err != nil {
					return reflect.Value{}, errs.Prefix(err, indexSegment(i))
				}

				out.Index(i).Set(v)
			}

			return out, nil
		},
		dump: func(v reflect.Value) (any, error) {
			out := make([]any, arity)
			for i := 0; i < arity; i++ {
				dv, err := elem.dump(v.Index(i))
				if err != nil {
					return nil, errs.Prefix(err, indexSegment(i))
				}

				out[i] = dv
			}

			return out, nil
		},
	}, nil
}
