package caster_test

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dyncast/caster"
	"dyncast/errs"
	"dyncast/options"
)

type boolRec struct {
	Active bool
}

func TestBooleanCoercion(t *testing.T) {
	t.Parallel()

	truthy := []any{true, "true", "TRUE", "t", "yes", "Y", "on", "ON", "1", 1, int64(1)}
	for _, src := range truthy {
		b, err := caster.As[boolRec](map[string]any{"active": src})
		require.NoError(t, err, "src %v (%T)", src, src)
		assert.True(t, b.Active, "src %v (%T)", src, src)
	}

	falsy := []any{false, "false", "no", "off", "0", "anything-else", 0, 2, 0.5, ""}
	for _, src := range falsy {
		b, err := caster.As[boolRec](map[string]any{"active": src})
		require.NoError(t, err, "src %v (%T)", src, src)
		assert.False(t, b.Active, "src %v (%T)", src, src)
	}

	_, err := caster.As[boolRec](map[string]any{"active": []any{true}})
	var mismatch *errs.TypeMismatchError
	require.ErrorAs(t, err, &mismatch, "containers never coerce to bool")
}

func TestIntegerCoercion(t *testing.T) {
	t.Parallel()

	type intRec struct{ N int }

	tests := []struct {
		src  any
		want int
	}{
		{42, 42},
		{int64(42), 42},
		{uint16(42), 42},
		{"42", 42},
		{42.0, 42},
		{42.6, 43},  // fractional input rounds to nearest
		{"42.6", 43},
		{-7, -7},
	}

	for _, tt := range tests {
		r, err := caster.As[intRec](map[string]any{"n": tt.src})
		require.NoError(t, err, "src %v (%T)", tt.src, tt.src)
		assert.Equal(t, tt.want, r.N, "src %v (%T)", tt.src, tt.src)
	}

	_, err := caster.As[intRec](map[string]any{"n": "forty-two"})
	assert.Error(t, err)
}

func TestStrictIntegers(t *testing.T) {
	t.Parallel()

	type strictRec struct{ N int }

	r, err := caster.As[strictRec](map[string]any{"n": 42.0}, options.StrictIntegers(true))
	require.NoError(t, err, "whole floats still pass")
	assert.Equal(t, 42, r.N)

	_, err = caster.As[strictRec](map[string]any{"n": 42.6}, options.StrictIntegers(true))
	var mismatch *errs.TypeMismatchError
	require.ErrorAs(t, err, &mismatch)
}

func TestCoercionRestriction(t *testing.T) {
	t.Parallel()

	type mixedRec struct {
		N      int
		Active bool
	}

	t.Run("none rejects cross-kind sources", func(t *testing.T) {
		t.Parallel()

		_, err := caster.As[mixedRec](
			map[string]any{"n": "42", "active": true},
			options.Coercions(options.CoerceNone),
		)
		var mismatch *errs.TypeMismatchError
		require.ErrorAs(t, err, &mismatch)

		_, err = caster.As[mixedRec](
			map[string]any{"n": 42.0, "active": true},
			options.Coercions(options.CoerceNone),
		)
		require.ErrorAs(t, err, &mismatch, "whole floats need CoerceFloatWhole")

		_, err = caster.As[mixedRec](
			map[string]any{"n": 42, "active": "yes"},
			options.Coercions(options.CoerceNone),
		)
		require.ErrorAs(t, err, &mismatch)

		_, err = caster.As[mixedRec](
			map[string]any{"n": 42, "active": 1},
			options.Coercions(options.CoerceNone),
		)
		require.ErrorAs(t, err, &mismatch)
	})

	t.Run("none still loads matching kinds", func(t *testing.T) {
		t.Parallel()

		r, err := caster.As[mixedRec](
			map[string]any{"n": 42, "active": true},
			options.Coercions(options.CoerceNone),
		)
		require.NoError(t, err)
		assert.Equal(t, mixedRec{N: 42, Active: true}, r)
	})

	t.Run("single bit enables exactly that coercion", func(t *testing.T) {
		t.Parallel()

		r, err := caster.As[mixedRec](
			map[string]any{"n": "42", "active": true},
			options.Coercions(options.CoerceTextNumber),
		)
		require.NoError(t, err)
		assert.Equal(t, 42, r.N)

		_, err = caster.As[mixedRec](
			map[string]any{"n": 42.6, "active": true},
			options.Coercions(options.CoerceTextNumber),
		)
		var mismatch *errs.TypeMismatchError
		require.ErrorAs(t, err, &mismatch, "float sources stay gated")
	})

	t.Run("timestamps and durations", func(t *testing.T) {
		t.Parallel()

		type stamped struct {
			At      time.Time
			Timeout time.Duration
		}

		restricted := options.Coercions(options.CoerceNone)

		_, err := caster.As[stamped](
			map[string]any{"at": 1709296200, "timeout": "1s"},
			restricted,
		)
		assert.Error(t, err, "Unix seconds need CoerceTimestamp")

		_, err = caster.As[stamped](
			map[string]any{"at": "2024-03-01T12:30:00Z", "timeout": int64(time.Second)},
			restricted,
		)
		assert.Error(t, err, "nanosecond integers need CoerceNanoseconds")

		s, err := caster.As[stamped](
			map[string]any{"at": "2024-03-01T12:30:00Z", "timeout": "1s"},
			restricted,
		)
		require.NoError(t, err, "canonical string forms are not coercions")
		assert.Equal(t, time.Second, s.Timeout)
	})
}

func TestIntegerRange(t *testing.T) {
	t.Parallel()

	type smallRec struct{ N int8 }

	_, err := caster.As[smallRec](map[string]any{"n": 1000})
	assert.Error(t, err)

	type unsignedRec struct{ N uint }

	_, err = caster.As[unsignedRec](map[string]any{"n": -1})
	assert.Error(t, err)
}

func TestForceString(t *testing.T) {
	t.Parallel()

	type priced struct {
		Cents int `cast:",string"`
	}

	p, err := caster.As[priced](map[string]any{"cents": "1295"})
	require.NoError(t, err)
	assert.Equal(t, 1295, p.Cents)

	tree, err := caster.Dump(p)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"cents": "1295"}, tree, "forced fields dump as strings")
}

func TestBytes(t *testing.T) {
	t.Parallel()

	type blobRec struct{ Data []byte }

	payload := []byte{0x01, 0x02, 0xff}
	encoded := base64.StdEncoding.EncodeToString(payload)

	b, err := caster.As[blobRec](map[string]any{"data": encoded})
	require.NoError(t, err)
	assert.Equal(t, payload, b.Data)

	b, err = caster.As[blobRec](map[string]any{"data": payload})
	require.NoError(t, err)
	assert.Equal(t, payload, b.Data, "raw byte slices pass through")

	b, err = caster.As[blobRec](map[string]any{"data": "not base64!!"})
	require.NoError(t, err)
	assert.Equal(t, []byte("not base64!!"), b.Data, "non-base64 text is taken verbatim")

	tree, err := caster.Dump(blobRec{Data: payload})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"data": encoded}, tree)
}

func TestTime(t *testing.T) {
	t.Parallel()

	type stamped struct {
		At time.Time
	}

	t.Run("rfc3339", func(t *testing.T) {
		t.Parallel()

		s, err := caster.As[stamped](map[string]any{"at": "2024-03-01T12:30:00Z"})
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC), s.At)
	})

	t.Run("passthrough", func(t *testing.T) {
		t.Parallel()

		now := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
		s, err := caster.As[stamped](map[string]any{"at": now})
		require.NoError(t, err)
		assert.Equal(t, now, s.At)
	})

	t.Run("unix seconds", func(t *testing.T) {
		t.Parallel()

		s, err := caster.As[stamped](map[string]any{"at": 1709296200})
		require.NoError(t, err)
		assert.Equal(t, time.Unix(1709296200, 0).UTC(), s.At)
	})

	t.Run("dump uses configured layout", func(t *testing.T) {
		t.Parallel()

		s := stamped{At: time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)}

		tree, err := caster.Dump(s)
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"at": "2024-03-01T12:30:00Z"}, tree)

		tree, err = caster.Dump(s, options.DateTimeOutputForm("2006-01-02"))
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"at": "2024-03-01"}, tree)
	})
}

func TestTimePatterns(t *testing.T) {
	t.Parallel()

	type dated struct {
		Day time.Time `pattern:"02.01.2006;2006-01-02"`
	}

	d, err := caster.As[dated](map[string]any{"day": "31.12.2023"})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC), d.Day)

	d, err = caster.As[dated](map[string]any{"day": "2023-12-31"})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC), d.Day)

	_, err = caster.As[dated](map[string]any{"day": "12/31/2023"})
	var parseErr *errs.PatternParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, parseErr.Patterns, "02.01.2006")
	assert.Contains(t, parseErr.Patterns, time.RFC3339Nano, "the canonical form is always tried")

	tree, err := caster.Dump(dated{Day: time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"day": "2023-12-31T00:00:00Z"}, tree, "dump always renders the canonical output form")
}

func TestTimeCanonicalBeforePatterns(t *testing.T) {
	t.Parallel()

	// a day-first layout that also parses RFC 3339 text, with day and month
	// swapped; the canonical form must win before the pattern is consulted
	type swapped struct {
		At time.Time `pattern:"2006-02-01T15:04:05Z07:00"`
	}

	s, err := caster.As[swapped](map[string]any{"at": "2024-03-04T05:06:07Z"})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 4, 5, 6, 7, 0, time.UTC), s.At)

	tree, err := caster.Dump(swapped{At: time.Date(2024, 3, 4, 5, 6, 7, 0, time.UTC)})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"at": "2024-03-04T05:06:07Z"}, tree)
}

func TestCustomPatternsOption(t *testing.T) {
	t.Parallel()

	type optDated struct {
		Day time.Time
	}

	d, err := caster.As[optDated](
		map[string]any{"day": "31/12/2023"},
		options.CustomPatterns("Day", "02/01/2006"),
	)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC), d.Day)
}

func TestDuration(t *testing.T) {
	t.Parallel()

	type timed struct {
		Timeout time.Duration
	}

	d, err := caster.As[timed](map[string]any{"timeout": "1h30m"})
	require.NoError(t, err)
	assert.Equal(t, 90*time.Minute, d.Timeout)

	d, err = caster.As[timed](map[string]any{"timeout": int64(time.Second)})
	require.NoError(t, err)
	assert.Equal(t, time.Second, d.Timeout, "integers are nanoseconds")

	d, err = caster.As[timed](map[string]any{"timeout": 1.5})
	require.NoError(t, err)
	assert.Equal(t, 1500*time.Millisecond, d.Timeout, "floats are seconds")

	_, err = caster.As[timed](map[string]any{"timeout": "soon"})
	assert.Error(t, err)

	tree, err := caster.Dump(timed{Timeout: 90 * time.Minute})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"timeout": "1h30m0s"}, tree)
}
