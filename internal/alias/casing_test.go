package alias_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"dyncast/internal/alias"
	"dyncast/options"
)

func TestTransform(t *testing.T) {
	tests := []struct {
		name     string
		casing   options.Casing
		expected string
	}{
		{"UserName", options.CasingSnake, "user_name"},
		{"UserName", options.CasingCamel, "userName"},
		{"UserName", options.CasingPascal, "UserName"},
		{"UserName", options.CasingKebab, "user-name"},
		{"UserName", options.CasingScreamingSnake, "USER_NAME"},
		{"UserName", options.CasingLower, "username"},
		{"UserName", options.CasingExact, "UserName"},

		// acronym runs stay together
		{"XMLParser", options.CasingSnake, "xml_parser"},
		{"OrderID", options.CasingSnake, "order_id"},
		{"OrderID", options.CasingCamel, "orderId"},
		{"HTTPSPort", options.CasingKebab, "https-port"},

		// already-separated identifiers re-tokenize
		{"order_id", options.CasingCamel, "orderId"},
		{"order-id", options.CasingPascal, "OrderId"},

		// auto falls back to snake for a single key
		{"UserName", options.CasingAuto, "user_name"},

		{"A", options.CasingSnake, "a"},
		{"", options.CasingSnake, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name+"/"+tt.casing.String(), func(t *testing.T) {
			got := alias.Transform(tt.name, tt.casing)
			if got != tt.expected {
				t.Errorf("Transform(%q, %v) = %q, want %q", tt.name, tt.casing, got, tt.expected)
			}
		})
	}
}

func TestCandidates(t *testing.T) {
	t.Parallel()

	t.Run("explicit aliases come first", func(t *testing.T) {
		t.Parallel()

		got := alias.Candidates("UserName", []string{"login", "user"}, options.CasingSnake)
		assert.Equal(t, []string{"login", "user", "user_name"}, got)
	})

	t.Run("auto fans out in fixed trial order", func(t *testing.T) {
		t.Parallel()

		got := alias.Candidates("OrderID", nil, options.CasingAuto)
		assert.Equal(t, []string{"OrderID", "order_id", "orderId", "OrderId", "order-id", "ORDER_ID", "orderid"}, got)
	})

	t.Run("duplicates collapse, first wins", func(t *testing.T) {
		t.Parallel()

		got := alias.Candidates("Name", []string{"name"}, options.CasingSnake)
		assert.Equal(t, []string{"name"}, got)
	})
}

func TestDumpKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "nm", alias.DumpKey("UserName", options.AliasSpec{Dump: "nm"}, options.CasingSnake))
	assert.Equal(t, "login", alias.DumpKey("UserName", options.AliasSpec{Load: []string{"login", "user"}}, options.CasingSnake))
	assert.Equal(t, "user_name", alias.DumpKey("UserName", options.AliasSpec{}, options.CasingSnake))
	assert.Equal(t, "userName", alias.DumpKey("UserName", options.AliasSpec{}, options.CasingCamel))
	assert.Equal(t, "user_name", alias.DumpKey("UserName", options.AliasSpec{}, options.CasingAuto),
		"auto is load-only and dumps as snake")
}
