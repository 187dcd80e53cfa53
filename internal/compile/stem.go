package compile

import (
	"sort"
	"strconv"
)

// NewStem creates a name allocator over the provided stem and namespace.
// A nil namespace is treated as free: all names are available.
func NewStem(stem string, namespace map[string]struct{}) *Stem {
	return &Stem{
		taken: namespace,
		stem:  stem,
		last:  0,
	}
}

// Stem hands out collision-free numbered names sharing one prefix. Several
// stems may share a namespace map, in which case a name taken by one is
// skipped by all.
type Stem struct {
	taken map[string]struct{}
	stem  string
	last  int
}

func (s *Stem) Next() string {
	if s.taken == nil {
		s.taken = make(map[string]struct{})
	}

	for {
		s.last++
		name := s.stem + strconv.Itoa(s.last)

		if _, ok := s.taken[name]; !ok {
			s.taken[name] = struct{}{}
			return name
		}
	}
}

// symtab is the symbol table a routine closes over: every runtime value a
// fragment needs (nested routine handles, enum lookup tables, pattern
// lists, helper coercers) is bound under a unique name. Names are allocated
// through per-prefix stems sharing one namespace, so bindings never shadow
// each other across nested expansions.
type symtab struct {
	taken  map[string]struct{}
	stems  map[string]*Stem
	values map[string]any
}

func newSymtab() *symtab {
	return &symtab{
		taken:  make(map[string]struct{}),
		stems:  make(map[string]*Stem),
		values: make(map[string]any),
	}
}

// bind stores a runtime value under the next free name for the prefix and
// returns the allocated name.
func (s *symtab) bind(prefix string, v any) string {
	st, ok := s.stems[prefix]
	if !ok {
		st = NewStem(prefix, s.taken)
		s.stems[prefix] = st
	}

	name := st.Next()
	s.values[name] = v

	return name
}

// Names returns every bound name, sorted.
func (s *symtab) Names() []string {
	names := make([]string, 0, len(s.values))
	for name := range s.values {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}
