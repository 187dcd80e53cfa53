package alias

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Segment is one step of a key path: either a map key or a sequence index.
type Segment struct {
	Key     string
	Index   int
	IsIndex bool
}

// Path is a parsed key path like "meta.labels.0.name": a chain of map keys
// and sequence indices addressing a value deep inside a dynamic tree.
type Path []Segment

// IsPath reports whether a key string contains path separators and should be
// parsed as a Path rather than used as a flat key.
func IsPath(s string) bool {
	return strings.Contains(s, ".")
}

// ParsePath parses a dotted key path. Purely numeric segments address
// sequence indices; everything else addresses map keys.
func ParsePath(s string) (Path, error) {
	if s == "" {
		return nil, errors.New("empty path")
	}

	parts := strings.Split(s, ".")
	path := make(Path, 0, len(parts))

	for _, part := range parts {
		if part == "" {
			return nil, fmt.Errorf("invalid path %q: empty segment", s)
		}

		if idx, err := strconv.Atoi(part); err == nil {
			if idx < 0 {
				return nil, fmt.Errorf("invalid path %q: negative index %d", s, idx)
			}

			path = append(path, Segment{Index: idx, IsIndex: true})

			continue
		}

		path = append(path, Segment{Key: part})
	}

	return path, nil
}

// String renders the path back into its dotted form.
func (p Path) String() string {
	var b strings.Builder
	for i, seg := range p {
		if i > 0 {
			b.WriteString(".")
		}
		if seg.IsIndex {
			b.WriteString(strconv.Itoa(seg.Index))
		} else {
			b.WriteString(seg.Key)
		}
	}

	return b.String()
}

// Root returns the first map-key segment name, or "" for index roots.
func (p Path) Root() string {
	if len(p) == 0 || p[0].IsIndex {
		return ""
	}

	return p[0].Key
}

// Lookup walks the path through a dynamic tree. The second result is false
// as soon as any segment is absent or the tree shape does not match.
func (p Path) Lookup(root any) (any, bool) {
	current := root

	for _, seg := range p {
		if seg.IsIndex {
			seq, ok := current.([]any)
			if !ok || seg.Index >= len(seq) {
				return nil, false
			}

			current = seq[seg.Index]

			continue
		}

		value, ok := lookupKey(current, seg.Key)
		if !ok {
			return nil, false
		}

		current = value
	}

	return current, true
}

// Write stores a value at the path inside a dynamic map, creating
// intermediate maps and padding intermediate sequences with nils as needed.
// The root segment must be a map key.
func (p Path) Write(root map[string]any, value any) error {
	if len(p) == 0 || p[0].IsIndex {
		return errors.New("path must start with a map key")
	}

	var parent any = root

	for i, seg := range p {
		last := i == len(p)-1

		if seg.IsIndex {
			seq, ok := parent.([]any)
			if !ok {
				return fmt.Errorf("path %q: index %d addresses a non-sequence", p, seg.Index)
			}
			if last {
				seq[seg.Index] = value
				return nil
			}
			if seq[seg.Index] == nil {
				seq[seg.Index] = containerFor(p[i+1])
			}
			parent = seq[seg.Index]

			continue
		}

		m, ok := parent.(map[string]any)
		if !ok {
			return fmt.Errorf("path %q: segment %q is not a map", p, seg.Key)
		}

		if last {
			m[seg.Key] = value
			return nil
		}

		next := p[i+1]
		child, exists := m[seg.Key]
		if !exists || child == nil {
			child = containerFor(next)
			m[seg.Key] = child
		}

		if next.IsIndex {
			seq, ok := child.([]any)
			if !ok {
				return fmt.Errorf("path %q: segment %q is not a sequence", p, seg.Key)
			}
			if grown := growSeq(seq, next.Index); len(grown) != len(seq) {
				seq = grown
				m[seg.Key] = seq
			}
			parent = seq

			continue
		}

		parent = child
	}

	return nil
}

func containerFor(next Segment) any {
	if next.IsIndex {
		return growSeq(nil, next.Index)
	}

	return map[string]any{}
}

func growSeq(seq []any, index int) []any {
	for len(seq) <= index {
		seq = append(seq, nil)
	}

	return seq
}

// lookupKey fetches a key from either string-keyed or any-keyed dynamic
// maps. YAML parsers produce the latter for non-scalar-keyed documents.
func lookupKey(v any, key string) (any, bool) {
	switch m := v.(type) {
	case map[string]any:
		value, ok := m[key]
		return value, ok
	case map[any]any:
		value, ok := m[key]
		return value, ok
	default:
		return nil, false
	}
}
