package options

//go:generate go tool stringer -type=Casing -output=casing_string.go

// Casing selects the key transform applied to field names when deriving
// source keys (load) or emitted keys (dump).
type Casing int

const (
	CasingExact Casing = iota // field name verbatim
	CasingSnake
	CasingCamel
	CasingPascal
	CasingKebab
	CasingScreamingSnake
	CasingLower
	// CasingAuto is load-only: candidates are generated for every transform
	// above, in declaration order.
	CasingAuto

	// CasingTotal is a constant that represents the total number of casings defined
	CasingTotal = int(iota)
)

// UnknownKeyPolicy controls what load does with source keys that match no
// field of the target record.
type UnknownKeyPolicy int

const (
	UnknownKeyIgnore UnknownKeyPolicy = iota
	UnknownKeyWarn
	UnknownKeyRaise
)

// String returns a human-readable policy name.
func (p UnknownKeyPolicy) String() string {
	switch p {
	case UnknownKeyIgnore:
		return "ignore"
	case UnknownKeyWarn:
		return "warn"
	case UnknownKeyRaise:
		return "raise"
	default:
		return "unknown"
	}
}
