package options_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dyncast/options"
)

func TestMergeOwnExplicitWins(t *testing.T) {
	t.Parallel()

	inherited := options.Default()
	inherited.KeyCasingLoad = options.CasingCamel
	inherited.OnUnknownKey = options.UnknownKeyRaise

	own := options.New(
		options.KeyCasingLoad(options.CasingKebab),
	)

	eff := own.Merge(inherited)

	assert.Equal(t, options.CasingKebab, eff.KeyCasingLoad, "explicitly set option wins")
	assert.Equal(t, options.UnknownKeyRaise, eff.OnUnknownKey, "unset option inherits")
}

func TestMergeSetToDefaultStillWins(t *testing.T) {
	t.Parallel()

	inherited := options.Default()
	inherited.OnUnknownKey = options.UnknownKeyRaise

	// explicitly setting the default value is not the same as not setting it
	own := options.New(options.OnUnknownKey(options.UnknownKeyIgnore))
	eff := own.Merge(inherited)

	assert.Equal(t, options.UnknownKeyIgnore, eff.OnUnknownKey)
}

func TestMergeNeverInherited(t *testing.T) {
	t.Parallel()

	inherited := options.Default()
	inherited.FieldAliases = map[string]options.AliasSpec{
		"Name": {Load: []string{"n"}},
	}
	inherited.RecursivePropagation = false

	var own *options.Config
	eff := own.Merge(inherited)

	assert.Empty(t, eff.FieldAliases, "aliases never cascade into nested records")
	assert.True(t, eff.RecursivePropagation, "the propagation flag itself never cascades")
}

func TestOverlayKeepsAliases(t *testing.T) {
	t.Parallel()

	base := options.Default()
	base.FieldAliases = map[string]options.AliasSpec{
		"Name": {Load: []string{"n"}},
		"Age":  {Load: []string{"a"}},
	}

	callSite := options.New(options.FieldAlias("Name", options.AliasSpec{Load: []string{"nm"}}))
	eff := callSite.Overlay(base)

	require.Len(t, eff.FieldAliases, 2)
	assert.Equal(t, []string{"nm"}, eff.FieldAliases["Name"].Load, "call-site alias replaces the record's own")
	assert.Equal(t, []string{"a"}, eff.FieldAliases["Age"].Load, "untouched alias survives")
}

func TestInheritable(t *testing.T) {
	t.Parallel()

	eff := options.Default()
	eff.KeyCasingLoad = options.CasingPascal
	assert.Equal(t, options.CasingPascal, eff.Inheritable().KeyCasingLoad)

	eff.RecursivePropagation = false

	// Resolved carries the Warnf func, which never compares equal; strip it
	// from both sides before comparing the rest
	reset := eff.Inheritable()
	reset.Warnf = nil
	want := options.Default()
	want.Warnf = nil
	assert.Equal(t, want, reset, "disabled propagation resets nested records to defaults")
}

func TestFingerprint(t *testing.T) {
	t.Parallel()

	a := options.New().Merge(options.Default())
	b := options.New().Merge(options.Default())
	assert.Equal(t, a.Fingerprint(), b.Fingerprint(), "equal configurations fingerprint equally")

	c := options.New(options.StrictIntegers(true)).Merge(options.Default())
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())

	d := options.New(options.DateTimeOutputForm(time.RFC1123)).Merge(options.Default())
	assert.NotEqual(t, a.Fingerprint(), d.Fingerprint())
}

func TestFingerprintIgnoresWarnSink(t *testing.T) {
	t.Parallel()

	a := options.New(options.WarnSink(func(string, ...any) {})).Merge(options.Default())
	b := options.New().Merge(options.Default())

	assert.Equal(t, a.Fingerprint(), b.Fingerprint(), "the warn sink is ambient, not configuration")
}

func TestFingerprintPredicateByName(t *testing.T) {
	t.Parallel()

	p1 := options.Predicate{Name: "custom", Fn: func(string, any) bool { return true }}
	p2 := options.Predicate{Name: "custom", Fn: func(string, any) bool { return false }}

	a := options.New(options.SkipFieldIf(p1)).Merge(options.Default())
	b := options.New(options.SkipFieldIf(p2)).Merge(options.Default())
	c := options.New(options.SkipFieldIf(options.SkipZero)).Merge(options.Default())

	assert.Equal(t, a.Fingerprint(), b.Fingerprint(), "predicates are identified by name")
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())
}

func TestSkipZero(t *testing.T) {
	t.Parallel()

	assert.True(t, options.SkipZero.Fn("x", 0))
	assert.True(t, options.SkipZero.Fn("x", ""))
	assert.True(t, options.SkipZero.Fn("x", nil))
	assert.False(t, options.SkipZero.Fn("x", 7))
	assert.False(t, options.SkipZero.Fn("x", "a"))
}
