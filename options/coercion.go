package options

// CoercionSet is a bitmask of the cross-kind coercions load is willing to
// perform. The default is CoerceAll; restricting the set makes routines
// reject dynamic values whose kind does not directly match the target.
type CoercionSet int

const (
	CoerceTextNumber  CoercionSet = 1 << iota // "42" -> int, uint, float
	CoerceFloatWhole                          // 42.0 -> int, uint (StrictIntegers additionally rejects fractions)
	CoerceNumericBool                         // 1 -> bool via the truthy token set
	CoerceTextualBool                         // "yes", "on", "true" -> bool
	CoerceTimestamp                           // int or float Unix seconds -> time.Time
	CoerceNanoseconds                         // int -> time.Duration
	CoerceSeconds                             // float -> time.Duration

	CoerceAll  = (1 << iota) - 1
	CoerceNone CoercionSet = 0
)

// Has reports whether every coercion in mask is enabled.
func (s CoercionSet) Has(mask CoercionSet) bool {
	return s&mask == mask
}

// Coercions restricts the cross-kind coercions load performs.
func Coercions(s CoercionSet) Option {
	return func(cfg *Config) { cfg.coercions = coercionOption{s, true} }
}
