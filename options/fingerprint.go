package options

import (
	"sort"
	"strconv"
	"strings"
)

// Fingerprint renders the effective configuration into a stable string used
// in the compiled-routine cache key. Two Resolved values with the same
// fingerprint produce behaviorally identical routines.
//
// The warn sink is deliberately excluded: it is ambient plumbing, not
// routine semantics. Skip predicates participate by name only.
func (r Resolved) Fingerprint() string {
	var b strings.Builder

	b.WriteString("lc=")
	b.WriteString(r.KeyCasingLoad.String())
	b.WriteString(";dc=")
	b.WriteString(r.KeyCasingDump.String())

	b.WriteString(";al=")
	for _, field := range sortedKeys(r.FieldAliases) {
		spec := r.FieldAliases[field]
		b.WriteString(field)
		b.WriteString(">")
		b.WriteString(strings.Join(spec.Load, "|"))
		b.WriteString("^")
		b.WriteString(spec.Dump)
		b.WriteString(",")
	}

	b.WriteString(";tk=")
	b.WriteString(r.TagKey)
	b.WriteString(";at=")
	b.WriteString(strconv.FormatBool(r.AutoAssignTags))
	b.WriteString(";uu=")
	b.WriteString(strconv.FormatBool(r.UnsafeUnionDispatch))
	b.WriteString(";uk=")
	b.WriteString(r.OnUnknownKey.String())
	b.WriteString(";sp=")
	b.WriteString(r.SkipFieldIf.Name)
	b.WriteString(";rp=")
	b.WriteString(strconv.FormatBool(r.RecursivePropagation))
	b.WriteString(";dt=")
	b.WriteString(r.DateTimeOutputForm)

	b.WriteString(";pt=")
	for _, field := range sortedKeys(r.CustomPatterns) {
		b.WriteString(field)
		b.WriteString(">")
		b.WriteString(strings.Join(r.CustomPatterns[field], "|"))
		b.WriteString(",")
	}

	b.WriteString(";tm=")
	b.WriteString(strconv.FormatBool(r.TupleAsMap))
	b.WriteString(";si=")
	b.WriteString(strconv.FormatBool(r.StrictIntegers))
	b.WriteString(";co=")
	b.WriteString(strconv.FormatInt(int64(r.Coercions), 10))
	b.WriteString(";en=")
	b.WriteString(strconv.FormatBool(r.EnumByName))
	b.WriteString(";tn=")
	b.WriteString(r.TagName)

	return b.String()
}

func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys
}
