package caster_test

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dyncast/caster"
	"dyncast/errs"
	"dyncast/options"
)

type priority int

const (
	low    priority = 1
	normal priority = 2
	high   priority = 3
)

type colorName string

func init() {
	if err := caster.RegisterEnum(map[string]priority{
		"low":    low,
		"normal": normal,
		"high":   high,
	}); err != nil {
		panic(err)
	}

	if err := caster.RegisterEnum(map[string]colorName{
		"red":   "#f00",
		"green": "#0f0",
	}); err != nil {
		panic(err)
	}
}

type ticket struct {
	Title    string
	Priority priority
}

func TestEnumLoad(t *testing.T) {
	t.Parallel()

	tk, err := caster.As[ticket](map[string]any{"title": "x", "priority": "high"})
	require.NoError(t, err)
	assert.Equal(t, high, tk.Priority)

	tk, err = caster.As[ticket](map[string]any{"title": "x", "priority": 2})
	require.NoError(t, err)
	assert.Equal(t, normal, tk.Priority, "the underlying value is accepted too")

	_, err = caster.As[ticket](map[string]any{"title": "x", "priority": "urgent"})
	var mismatch *errs.TypeMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Contains(t, mismatch.Error(), "high", "the error lists the member set")

	_, err = caster.As[ticket](map[string]any{"title": "x", "priority": 9})
	require.ErrorAs(t, err, &mismatch, "values outside the member set are rejected")
}

func TestEnumDump(t *testing.T) {
	t.Parallel()

	tree, err := caster.Dump(ticket{Title: "x", Priority: high})
	require.NoError(t, err)
	assert.Equal(t, int64(3), tree.(map[string]any)["priority"], "default dump is the underlying value")

	tree, err = caster.Dump(ticket{Title: "x", Priority: high}, options.EnumByName(true))
	require.NoError(t, err)
	assert.Equal(t, "high", tree.(map[string]any)["priority"])

	_, err = caster.Dump(ticket{Title: "x", Priority: 42})
	assert.Error(t, err, "a non-member value cannot dump")
}

func TestStringEnum(t *testing.T) {
	t.Parallel()

	type paint struct {
		Color colorName
	}

	p, err := caster.As[paint](map[string]any{"color": "red"})
	require.NoError(t, err)
	assert.Equal(t, colorName("#f00"), p.Color)

	p, err = caster.As[paint](map[string]any{"color": "#0f0"})
	require.NoError(t, err)
	assert.Equal(t, colorName("#0f0"), p.Color)
}

// centsAmount is an external money type converted through hooks: dynamic
// trees carry "12.95" strings, memory carries integer cents.
type centsAmount int64

func loadCents(src any) (centsAmount, error) {
	s, ok := src.(string)
	if !ok {
		return 0, fmt.Errorf("expected a decimal string, got %T", src)
	}

	whole, frac, _ := strings.Cut(s, ".")

	w, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, err
	}

	f := int64(0)
	if frac != "" {
		if f, err = strconv.ParseInt(frac, 10, 64); err != nil {
			return 0, err
		}
	}

	return centsAmount(w*100 + f), nil
}

func dumpCents(v centsAmount) (any, error) {
	return fmt.Sprintf("%d.%02d", v/100, v%100), nil
}

func init() {
	caster.MustRegister(loadCents, dumpCents)
}

type invoice struct {
	Total centsAmount
}

func TestHooks(t *testing.T) {
	t.Parallel()

	inv, err := caster.As[invoice](map[string]any{"total": "12.95"})
	require.NoError(t, err)
	assert.Equal(t, centsAmount(1295), inv.Total)

	tree, err := caster.Dump(inv)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"total": "12.95"}, tree)

	_, err = caster.As[invoice](map[string]any{"total": 12.95})
	assert.Error(t, err, "hook errors surface as load errors")
}

func TestRegisterRejectsBadShapes(t *testing.T) {
	t.Parallel()

	assert.Error(t, caster.Register(42, nil))
	assert.Error(t, caster.Register(func() {}, nil))
	assert.Error(t, caster.Register(nil, nil))
	assert.Error(t, caster.Register(loadCents, func(v int32) (any, error) { return nil, nil }),
		"directions targeting different types are rejected")
}

// upperTag is converted through a configuration-aware builder hook.
type upperTag string

func init() {
	caster.MustRegister(
		func(_ reflect.Type, _ options.Resolved) (func(src any) (upperTag, error), error) {
			return func(src any) (upperTag, error) {
				s, ok := src.(string)
				if !ok {
					return "", fmt.Errorf("expected string, got %T", src)
				}

				return upperTag(strings.ToUpper(s)), nil
			}, nil
		},
		func(v upperTag) (any, error) { return strings.ToLower(string(v)), nil },
	)
}

func TestBuilderShapedHook(t *testing.T) {
	t.Parallel()

	type tagged struct {
		Tag upperTag
	}

	tg, err := caster.As[tagged](map[string]any{"tag": "beta"})
	require.NoError(t, err)
	assert.Equal(t, upperTag("BETA"), tg.Tag)

	tree, err := caster.Dump(tg)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"tag": "beta"}, tree)
}
