package compile

import (
	"strconv"
	"strings"

	"dyncast/errs"
	"dyncast/internal/descriptor"
)

// fieldCtx carries per-field metadata that influences emitted fragments and
// cascades into container elements: time patterns and the forced string
// form. It is compile-time-only state.
type fieldCtx struct {
	name        string
	patterns    []string
	forceString bool
}

// emit dispatches a descriptor to its kind's emitter, wraps the optional
// layer, and binds the resulting fragment into the symbol table under a
// stem derived from the descriptor's ordinal.
func (c *compiler) emit(d descriptor.Descriptor, fc fieldCtx) (fragment, error) {
	var (
		frag fragment
		err  error
	)

	switch d.Kind {
	case descriptor.KindString, descriptor.KindInt, descriptor.KindUint,
		descriptor.KindFloat, descriptor.KindBool, descriptor.KindBytes:
		frag, err = c.emitPrimitive(d, fc)

	case descriptor.KindTime:
		frag, err = c.emitTime(d, fc)
	case descriptor.KindDuration:
		frag, err = c.emitDuration(d)

	case descriptor.KindSequence:
		frag, err = c.emitSequence(d, fc)
	case descriptor.KindSet:
		frag, err = c.emitSet(d, fc)
	case descriptor.KindFixedTuple:
		frag, err = c.emitFixedTuple(d, fc)

	case descriptor.KindMapping:
		frag, err = c.emitMapping(d, fc)

	case descriptor.KindRecord, descriptor.KindStructTuple:
		frag, err = c.emitRecordCall(d)

	case descriptor.KindUnion:
		frag, err = c.emitUnion(d, fc)
	case descriptor.KindEnumeration:
		frag, err = c.emitEnum(d)
	case descriptor.KindCustom:
		frag, err = c.emitCustom(d)
	case descriptor.KindAny:
		frag, err = c.emitAny(d)

	default:
		return fragment{}, &errs.UnsupportedTypeError{Type: d.Type}
	}

	if err != nil {
		return fragment{}, err
	}

	if d.InOptional {
		frag = optionalFragment(d, frag)
	}

	c.syms.bind(stemFor(d), frag)

	return frag, nil
}

// stemFor derives the symbol stem for a descriptor: the per-field global
// ordinal keeps stems collision-free across the whole record expansion.
func stemFor(d descriptor.Descriptor) string {
	kind := strings.ToLower(strings.TrimPrefix(d.Kind.String(), "Kind"))

	return "f" + strconv.Itoa(d.Ordinal) + "_" + kind + "_"
}
