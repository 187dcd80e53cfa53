// Package options defines the marshalling configuration surface: key casing
// policies, field aliasing, union tagging, unknown-key handling, dump skip
// predicates, and the merge rules that cascade a configuration from an outer
// record into the nested records compiled under it.
//
// A Config records which options were explicitly set so that merging can
// distinguish "set to the default value" from "not set at all". The merged
// view is a Resolved, a plain value: mutating a Config after resolution never
// changes routines that were already compiled from it.
package options

import (
	"log"
	"reflect"
	"time"
)

// DefaultTagName is the struct tag consulted for field metadata.
const DefaultTagName = "cast"

// AliasSpec declares alternate keys for one field. Load lists candidate keys
// (or dotted paths) in precedence order; Dump names the single emitted key
// (or path) and defaults to the first Load entry.
type AliasSpec struct {
	Load []string
	Dump string
}

// Predicate is a named dump-skip predicate. The name participates in the
// configuration fingerprint, so predicates must be referentially transparent
// per name: two predicates sharing a name are assumed interchangeable.
type Predicate struct {
	Name string
	Fn   func(field string, value any) bool
}

// SkipZero skips fields whose value is the zero value of its type.
var SkipZero = Predicate{
	Name: "zero",
	Fn: func(_ string, value any) bool {
		if value == nil {
			return true
		}

		return reflect.ValueOf(value).IsZero()
	},
}

type casingOption struct {
	value Casing
	set   bool
}

type boolOption struct {
	value bool
	set   bool
}

type stringOption struct {
	value string
	set   bool
}

type policyOption struct {
	value UnknownKeyPolicy
	set   bool
}

type predicateOption struct {
	value Predicate
	set   bool
}

type coercionOption struct {
	value CoercionSet
	set   bool
}

// Config is the buildable, explicit-set-tracking form of the configuration.
// Construct with New and the Option functions.
type Config struct {
	keyCasingLoad        casingOption
	keyCasingDump        casingOption
	fieldAliases         map[string]AliasSpec
	tagKey               stringOption
	autoAssignTags       boolOption
	unsafeUnionDispatch  boolOption
	onUnknownKey         policyOption
	skipFieldIf          predicateOption
	recursivePropagation boolOption
	dateTimeOutputForm   stringOption
	customPatterns       map[string][]string
	tupleAsMap           boolOption
	strictIntegers       boolOption
	coercions            coercionOption
	enumByName           boolOption
	tagName              stringOption
	warnf                func(format string, args ...any)
}

// Option mutates a Config under construction.
type Option func(*Config)

// New builds a Config from the given options.
func New(opts ...Option) *Config {
	cfg := &Config{}
	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

// KeyCasingLoad sets the casing transform for load-side key candidates.
func KeyCasingLoad(c Casing) Option {
	return func(cfg *Config) { cfg.keyCasingLoad = casingOption{c, true} }
}

// KeyCasingDump sets the casing transform for emitted keys.
// CasingAuto is load-only and is treated as CasingSnake on dump.
func KeyCasingDump(c Casing) Option {
	return func(cfg *Config) { cfg.keyCasingDump = casingOption{c, true} }
}

// FieldAlias declares alternate keys for one field of the record this
// configuration is attached to. Aliases are never inherited by nested
// records.
func FieldAlias(field string, spec AliasSpec) Option {
	return func(cfg *Config) {
		if cfg.fieldAliases == nil {
			cfg.fieldAliases = make(map[string]AliasSpec)
		}
		cfg.fieldAliases[field] = spec
	}
}

// TagKey names the discriminator key used for union dispatch.
func TagKey(key string) Option {
	return func(cfg *Config) { cfg.tagKey = stringOption{key, true} }
}

// AutoAssignTags assigns each record-typed union alternative its own type
// name as implicit tag and makes dump inject the tag pair.
func AutoAssignTags(on bool) Option {
	return func(cfg *Config) { cfg.autoAssignTags = boolOption{on, true} }
}

// UnsafeUnionDispatch makes untagged union load skip shape validation and
// bind the first record-typed alternative unconditionally.
func UnsafeUnionDispatch(on bool) Option {
	return func(cfg *Config) { cfg.unsafeUnionDispatch = boolOption{on, true} }
}

// OnUnknownKey sets the policy for source keys matching no field.
func OnUnknownKey(p UnknownKeyPolicy) Option {
	return func(cfg *Config) { cfg.onUnknownKey = policyOption{p, true} }
}

// SkipFieldIf sets the dump-side skip predicate, evaluated per field before
// the field is emitted.
func SkipFieldIf(p Predicate) Option {
	return func(cfg *Config) { cfg.skipFieldIf = predicateOption{p, true} }
}

// RecursivePropagation controls whether the effective configuration of a
// record cascades into the nested records compiled under it. The flag itself
// is never inherited.
func RecursivePropagation(on bool) Option {
	return func(cfg *Config) { cfg.recursivePropagation = boolOption{on, true} }
}

// DateTimeOutputForm sets the layout emitted for time values on dump.
func DateTimeOutputForm(layout string) Option {
	return func(cfg *Config) { cfg.dateTimeOutputForm = stringOption{layout, true} }
}

// CustomPatterns appends per-field time parse patterns, tried in order after
// the canonical interchange form fails.
func CustomPatterns(field string, patterns ...string) Option {
	return func(cfg *Config) {
		if cfg.customPatterns == nil {
			cfg.customPatterns = make(map[string][]string)
		}
		cfg.customPatterns[field] = append(cfg.customPatterns[field], patterns...)
	}
}

// TupleAsMap switches tuple-marked records from positional to keyed encoding.
func TupleAsMap(on bool) Option {
	return func(cfg *Config) { cfg.tupleAsMap = boolOption{on, true} }
}

// StrictIntegers rejects float inputs with a fractional remainder during
// integer coercion instead of accepting whole floats only.
func StrictIntegers(on bool) Option {
	return func(cfg *Config) { cfg.strictIntegers = boolOption{on, true} }
}

// EnumByName dumps enumeration members as their registered names instead of
// their underlying values. Load always accepts either form.
func EnumByName(on bool) Option {
	return func(cfg *Config) { cfg.enumByName = boolOption{on, true} }
}

// TagName overrides the struct tag consulted for field metadata.
func TagName(name string) Option {
	return func(cfg *Config) { cfg.tagName = stringOption{name, true} }
}

// WarnSink routes UnknownKeyWarn messages. The sink is ambient: it is not
// part of the configuration fingerprint, so the sink captured by the first
// compilation of a fingerprint wins.
func WarnSink(fn func(format string, args ...any)) Option {
	return func(cfg *Config) { cfg.warnf = fn }
}

// Resolved is the effective configuration: a plain value consumed by the
// compiler after all merging is done.
type Resolved struct {
	KeyCasingLoad        Casing
	KeyCasingDump        Casing
	FieldAliases         map[string]AliasSpec
	TagKey               string
	AutoAssignTags       bool
	UnsafeUnionDispatch  bool
	OnUnknownKey         UnknownKeyPolicy
	SkipFieldIf          Predicate
	RecursivePropagation bool
	DateTimeOutputForm   string
	CustomPatterns       map[string][]string
	TupleAsMap           bool
	StrictIntegers       bool
	Coercions            CoercionSet
	EnumByName           bool
	TagName              string
	Warnf                func(format string, args ...any)
}

// Default returns the effective configuration used when nothing was set:
// snake_case keys both ways, unknown keys ignored, propagation on,
// RFC3339Nano datetime output, `cast` struct tags.
func Default() Resolved {
	return Resolved{
		KeyCasingLoad:        CasingSnake,
		KeyCasingDump:        CasingSnake,
		OnUnknownKey:         UnknownKeyIgnore,
		RecursivePropagation: true,
		DateTimeOutputForm:   time.RFC3339Nano,
		Coercions:            CoerceAll,
		TagName:              DefaultTagName,
		Warnf:                log.Printf,
	}
}
