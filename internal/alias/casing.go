// Package alias computes, per field, the ordered list of acceptable source
// keys for load and the single key (or nested key path) to emit for dump.
package alias

import (
	"strings"
	"unicode"

	"dyncast/options"
)

// autoTrialOrder is the fixed order in which CasingAuto generates load
// candidates beyond the explicit aliases.
var autoTrialOrder = []options.Casing{
	options.CasingExact,
	options.CasingSnake,
	options.CasingCamel,
	options.CasingPascal,
	options.CasingKebab,
	options.CasingScreamingSnake,
	options.CasingLower,
}

// Transform renders a Go field name under the given casing policy.
// CasingAuto falls back to CasingSnake; candidate fan-out for auto mode is
// handled by Candidates.
func Transform(name string, c options.Casing) string {
	switch c {
	case options.CasingExact:
		return name
	case options.CasingSnake, options.CasingAuto:
		return strings.ToLower(strings.Join(tokenize(name), "_"))
	case options.CasingScreamingSnake:
		return strings.ToUpper(strings.Join(tokenize(name), "_"))
	case options.CasingKebab:
		return strings.ToLower(strings.Join(tokenize(name), "-"))
	case options.CasingLower:
		return strings.ToLower(name)
	case options.CasingCamel:
		tokens := tokenize(name)
		for i, t := range tokens {
			if i == 0 {
				tokens[i] = strings.ToLower(t)
			} else {
				tokens[i] = capitalize(t)
			}
		}
		return strings.Join(tokens, "")
	case options.CasingPascal:
		tokens := tokenize(name)
		for i, t := range tokens {
			tokens[i] = capitalize(t)
		}
		return strings.Join(tokens, "")
	default:
		return name
	}
}

// Candidates returns the ordered load-key candidate list for a field:
// explicit aliases first, then the field name under the load casing, then,
// for CasingAuto, every other supported transform in fixed trial order.
// Duplicates are removed, first occurrence wins.
func Candidates(field string, explicit []string, load options.Casing) []string {
	out := make([]string, 0, len(explicit)+1)
	seen := make(map[string]struct{}, len(explicit)+1)

	push := func(key string) {
		if key == "" {
			return
		}
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}

	for _, a := range explicit {
		push(a)
	}

	if load != options.CasingAuto {
		push(Transform(field, load))
		return out
	}

	for _, c := range autoTrialOrder {
		push(Transform(field, c))
	}

	return out
}

// DumpKey returns the single key emitted for a field: the explicit dump
// alias if declared, else the first load alias, else the field name under
// the dump casing.
func DumpKey(field string, spec options.AliasSpec, dump options.Casing) string {
	if spec.Dump != "" {
		return spec.Dump
	}
	if len(spec.Load) > 0 {
		return spec.Load[0]
	}
	if dump == options.CasingAuto {
		dump = options.CasingSnake
	}

	return Transform(field, dump)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}

	runes := []rune(strings.ToLower(s))
	runes[0] = unicode.ToUpper(runes[0])

	return string(runes)
}

// tokenize splits a CamelCase, camelCase, or separator-delimited identifier
// into tokens. Acronym runs stay together: "XMLParser" -> ["XML", "Parser"].
func tokenize(s string) []string {
	if s == "" {
		return nil
	}

	var tokens []string

	var current strings.Builder

	runes := []rune(s)
	for i := range runes {
		r := runes[i]

		if isSeparator(r) {
			if current.Len() > 0 {
				tokens = append(tokens, current.String())
				current.Reset()
			}

			continue
		}

		if i > 0 && startsNewToken(runes, i) {
			if current.Len() > 0 {
				tokens = append(tokens, current.String())
				current.Reset()
			}
		}

		current.WriteRune(r)
	}

	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}

	return tokens
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == ' '
}

func startsNewToken(runes []rune, i int) bool {
	r := runes[i]
	prev := runes[i-1]
	isUpper := unicode.IsUpper(r)
	isPrevUpper := unicode.IsUpper(prev)
	isPrevSep := isSeparator(prev)

	// lowercase to uppercase transition: "orderID" splits before 'I'
	if isUpper && !isPrevUpper && !isPrevSep {
		return true
	}

	// end of an acronym run: "XMLParser" splits before 'P'
	hasNextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
	if isUpper && isPrevUpper && hasNextLower {
		return true
	}

	// letter following a digit: "Addr2Line" splits before 'L' but keeps "Addr2"
	if unicode.IsDigit(prev) && isUpper {
		return true
	}

	return false
}
