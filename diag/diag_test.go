package diag_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dyncast/diag"
)

func TestReport(t *testing.T) {
	t.Parallel()

	var r diag.Report
	assert.False(t, r.HasErrors())
	assert.NoError(t, r.Err())

	r.AddWarning("w1", "looks odd", "pkg.T", "Field")
	assert.False(t, r.HasErrors())

	r.AddError("e1", "unsupported", "pkg.T", "Other")
	require.True(t, r.HasErrors())
	assert.EqualError(t, r.Err(), "[pkg.T] Other: [e1] unsupported")

	var other diag.Report
	other.AddError("e2", "also broken", "pkg.U", "")
	r.Merge(other)

	assert.Len(t, r.Errors, 2)
	assert.EqualError(t, r.Err(), "[pkg.T] Other: [e1] unsupported; [pkg.U]: [e2] also broken")
}

func TestFindingString(t *testing.T) {
	t.Parallel()

	f := diag.Finding{Severity: diag.Warning, Code: "c", Message: "m"}
	assert.Equal(t, "[c] m", f.String())
	assert.Equal(t, "warning", f.Severity.String())

	f.Type = "pkg.T"
	assert.Equal(t, "[pkg.T]: [c] m", f.String())
}

func TestSdumpDeterministic(t *testing.T) {
	t.Parallel()

	v := map[string]int{"b": 2, "a": 1}
	assert.Equal(t, diag.Sdump(v), diag.Sdump(v), "sorted keys keep output stable")
	assert.Contains(t, diag.Sdump(v), `"a"`)
}
