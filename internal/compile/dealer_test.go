package compile

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDealerVisitsEachTypeOnce(t *testing.T) {
	t.Parallel()

	var d Dealer

	intType := reflect.TypeOf(0)
	strType := reflect.TypeOf("")

	d.Needs(intType)
	d.Needs(strType)
	d.Needs(intType) // diamond: scheduling twice is fine

	seen := map[reflect.Type]int{}
	for {
		u, ok := d.Next()
		if !ok {
			break
		}
		seen[u]++

		// handling one type may schedule already-done types again
		d.Needs(intType)
	}

	require.Len(t, seen, 2)
	assert.Equal(t, 1, seen[intType])
	assert.Equal(t, 1, seen[strType])
}

func TestDealerEmpty(t *testing.T) {
	t.Parallel()

	var d Dealer
	_, ok := d.Next()
	assert.False(t, ok)
}
