// Package descriptor normalizes declared Go types into canonical type
// descriptors: an origin kind, its type arguments, and the compile-time
// bookkeeping (ordinals, optional flags, recursion marks) the routine
// assembler needs to generate unique bindings.
package descriptor

//go:generate go tool stringer -type=KindEnum -output=kind_string.go

type KindEnum int

const (
	_ KindEnum = iota // skip zero value, use it as a default (invalid) value for KindEnum

	KindString
	KindInt
	KindUint
	KindFloat
	KindBool
	KindBytes
	KindTime
	KindDuration
	KindAny
	KindSequence
	KindSet
	KindFixedTuple
	KindStructTuple
	KindMapping
	KindRecord
	KindUnion
	KindEnumeration
	KindCustom

	// KindTotal is a constant that represents the total number of kinds defined
	KindTotal = int(iota)
)

// IsPrimitive reports whether the kind coerces through a scalar expression
// rather than a container or record routine.
func (k KindEnum) IsPrimitive() bool {
	switch k {
	default:
		return false
	case KindString, KindInt, KindUint, KindFloat, KindBool, KindBytes:
		return true
	}
}

// IsContainer reports whether the kind wraps element descriptors.
func (k KindEnum) IsContainer() bool {
	switch k {
	default:
		return false
	case KindSequence, KindSet, KindFixedTuple, KindMapping:
		return true
	}
}
