package compile

import (
	"reflect"
	"sort"

	"dyncast/errs"
	"dyncast/internal/alias"
	"dyncast/internal/descriptor"
	"dyncast/internal/schema"
	"dyncast/options"
)

// candidate is one acceptable source location for a field on load: a flat
// key or a parsed key path.
type candidate struct {
	key  string
	path alias.Path // nil for flat keys
}

// fieldPlan is the compiled per-field state the assembled routines close
// over.
type fieldPlan struct {
	name  string
	index []int
	frag  fragment

	candidates []candidate
	tried      []string // candidate spellings, for missing-field errors

	dumpKey  string
	dumpPath alias.Path

	def       *reflect.Value
	defFn     func() (reflect.Value, error)
	optional  bool
	omitEmpty bool
}

func (p *fieldPlan) lookup(m map[string]any, root any) (any, bool) {
	for _, cand := range p.candidates {
		if cand.path != nil {
			if v, ok := cand.path.Lookup(root); ok {
				return v, true
			}

			continue
		}

		if v, ok := m[cand.key]; ok {
			return v, true
		}
	}

	return nil, false
}

// emitRecordCall emits the fragment for a nested record field: a call into
// the nested schema's own compiled routine, requested through the cache
// rather than inlined. Ancestor types currently compiling get a late-bound
// call instead, resolved against the cache at invocation time once the
// cycle has closed.
func (c *compiler) emitRecordCall(d descriptor.Descriptor) (fragment, error) {
	t := d.Type
	reg := c.sess.reg
	inherited := c.cfg.Inheritable()

	if d.Recursive {
		return fragment{
			load: func(src any) (reflect.Value, error) {
				r, err := For(t, reg, nil, inherited)
				if err != nil {
					return reflect.Value{}, err
				}

				return r.load(src)
			},
			dump: func(v reflect.Value) (any, error) {
				r, err := For(t, reg, nil, inherited)
				if err != nil {
					return nil, err
				}

				return r.dump(v)
			},
		}, nil
	}

	child, err := forInSession(t, nil, inherited, c.sess)
	if err != nil {
		return fragment{}, err
	}

	c.syms.bind("rec_"+t.Name()+"_", child)

	return fragment{load: child.load, dump: child.dump}, nil
}

// compileRecord assembles the load and dump routines for one record type.
func (c *compiler) compileRecord(t reflect.Type) (*Routine, error) {
	if t.Kind() != reflect.Struct {
		return nil, &errs.ResolveError{Type: t, Reason: "record types must be structs"}
	}

	sch, err := schema.Discover(t, c.cfg.TagName)
	if err != nil {
		return nil, err
	}

	c.res.Push(t)
	defer c.res.Pop()
	c.sess.push(t)
	defer c.sess.pop()

	plans := make([]*fieldPlan, 0, len(sch.Fields))
	recognized := make(map[string]struct{})
	known := make([]string, 0, len(sch.Fields))

	for i := range sch.Fields {
		f := &sch.Fields[i]

		plan, err := c.planField(f, recognized)
		if err != nil {
			return nil, errs.Prefix(err, fieldSegment(f.Name))
		}

		if len(plan.candidates) > 0 && plan.candidates[0].path == nil {
			known = append(known, plan.candidates[0].key)
		} else {
			known = append(known, f.Key())
		}

		plans = append(plans, plan)
	}

	routine := &Routine{Type: t, Config: c.cfg, syms: c.syms}

	if sch.Tuple && !c.cfg.TupleAsMap {
		routine.load, routine.dump = c.assembleTuple(t, plans)
	} else {
		routine.load, routine.dump = c.assembleMap(t, plans, recognized, known)
	}

	return routine, nil
}

func (c *compiler) planField(f *schema.Field, recognized map[string]struct{}) (*fieldPlan, error) {
	d, err := c.res.Resolve(f.Type)
	if err != nil {
		return nil, err
	}

	fc := fieldCtx{name: f.Name, forceString: f.ForceString}
	fc.patterns = append(append([]string{}, c.cfg.CustomPatterns[f.Name]...), f.Patterns...)

	frag, err := c.emit(d, fc)
	if err != nil {
		return nil, err
	}

	plan := &fieldPlan{
		name:      f.Name,
		index:     f.Index,
		frag:      frag,
		optional:  d.InOptional || nilable(d.Kind),
		omitEmpty: f.OmitEmpty,
	}

	spec := c.cfg.FieldAliases[f.Name]
	explicit := append(append([]string{}, spec.Load...), f.Aliases...)

	seen := make(map[string]struct{})
	add := func(key string) error {
		if key == "" {
			return nil
		}
		if _, dup := seen[key]; dup {
			return nil
		}
		seen[key] = struct{}{}

		plan.tried = append(plan.tried, key)

		if alias.IsPath(key) {
			p, err := alias.ParsePath(key)
			if err != nil {
				return err
			}

			plan.candidates = append(plan.candidates, candidate{key: key, path: p})
			if root := p.Root(); root != "" {
				recognized[root] = struct{}{}
			}

			return nil
		}

		plan.candidates = append(plan.candidates, candidate{key: key})
		recognized[key] = struct{}{}

		return nil
	}

	for _, key := range explicit {
		if err := add(key); err != nil {
			return nil, err
		}
	}

	if f.Path != "" {
		// the path replaces the name-derived flat key
		if err := add(f.Path); err != nil {
			return nil, err
		}
	} else {
		for _, key := range alias.Candidates(f.Key(), nil, c.cfg.KeyCasingLoad) {
			if err := add(key); err != nil {
				return nil, err
			}
		}
	}

	dumpRaw := alias.DumpKey(f.Key(), options.AliasSpec{Load: explicit, Dump: spec.Dump}, c.cfg.KeyCasingDump)
	if f.Path != "" && spec.Dump == "" && len(explicit) == 0 {
		dumpRaw = f.Path
	}

	if alias.IsPath(dumpRaw) {
		p, err := alias.ParsePath(dumpRaw)
		if err != nil {
			return nil, err
		}

		plan.dumpPath = p
	} else {
		plan.dumpKey = dumpRaw
	}

	if f.HasDefault {
		dv, err := frag.load(f.Default)
		if err != nil {
			return nil, errs.Prefix(err, "default value")
		}

		switch dv.Kind() {
		case reflect.Pointer, reflect.Map, reflect.Slice:
			// a single cached value would share one pointee across every
			// loaded record; rebuild reference kinds per invocation
			raw := f.Default
			plan.defFn = func() (reflect.Value, error) { return frag.load(raw) }
		default:
			plan.def = &dv
		}
	}

	return plan, nil
}

// nilable reports the kinds whose Go representation has a natural nil zero;
// fields of these kinds load as nil when every candidate key is absent
// instead of raising a missing-field error.
func nilable(k descriptor.KindEnum) bool {
	switch k {
	case descriptor.KindSequence, descriptor.KindSet, descriptor.KindMapping,
		descriptor.KindUnion, descriptor.KindAny:
		return true
	default:
		return false
	}
}

func (c *compiler) assembleMap(
	t reflect.Type, plans []*fieldPlan, recognized map[string]struct{}, known []string,
) (func(any) (reflect.Value, error), func(reflect.Value) (any, error)) {
	cfg := c.cfg

	load := func(src any) (reflect.Value, error) {
		m, ok := dynamicMap(src)
		if !ok {
			return reflect.Value{}, &errs.TypeMismatchError{Expected: "record " + t.String() + " (map)", Value: src}
		}

		out := reflect.New(t)

		defaulted := false
		if d, ok := out.Interface().(schema.Defaulter); ok {
			d.SetDefaults()
			defaulted = true
		}

		elem := out.Elem()

		for _, plan := range plans {
			raw, found := plan.lookup(m, src)
			if !found {
				switch {
				case plan.def != nil:
					elem.FieldByIndex(plan.index).Set(*plan.def)
				case plan.defFn != nil:
					dv, err := plan.defFn()
					if err != nil {
						return reflect.Value{}, errs.Prefix(err, fieldSegment(plan.name))
					}
					elem.FieldByIndex(plan.index).Set(dv)
				case plan.optional:
				case defaulted && !elem.FieldByIndex(plan.index).IsZero():
					// SetDefaults already filled it
				default:
					return reflect.Value{}, &errs.MissingFieldError{Field: plan.name, Candidates: plan.tried}
				}

				continue
			}

			v, err := plan.frag.load(raw)
			if err != nil {
				return reflect.Value{}, errs.Prefix(err, fieldSegment(plan.name))
			}

			elem.FieldByIndex(plan.index).Set(v)
		}

		if cfg.OnUnknownKey != options.UnknownKeyIgnore {
			if err := sweepUnknown(m, recognized, known, cfg); err != nil {
				return reflect.Value{}, err
			}
		}

		return elem, nil
	}

	dump := func(v reflect.Value) (any, error) {
		out := make(map[string]any, len(plans))

		for _, plan := range plans {
			fv := v.FieldByIndex(plan.index)

			if plan.omitEmpty && fv.IsZero() {
				continue
			}
			if cfg.SkipFieldIf.Fn != nil && cfg.SkipFieldIf.Fn(plan.name, fv.Interface()) {
				continue
			}

			dv, err := plan.frag.dump(fv)
			if err != nil {
				return nil, errs.Prefix(err, fieldSegment(plan.name))
			}

			if plan.dumpPath != nil {
				if err := plan.dumpPath.Write(out, dv); err != nil {
					return nil, errs.Prefix(err, fieldSegment(plan.name))
				}

				continue
			}

			out[plan.dumpKey] = dv
		}

		return out, nil
	}

	return load, dump
}

// assembleTuple produces the positional encoding for tuple-marked records:
// one sequence element per field, in declaration order, exact arity.
func (c *compiler) assembleTuple(
	t reflect.Type, plans []*fieldPlan,
) (func(any) (reflect.Value, error), func(reflect.Value) (any, error)) {
	load := func(src any) (reflect.Value, error) {
		seq, ok := src.([]any)
		if !ok {
			return reflect.Value{}, &errs.TypeMismatchError{Expected: "tuple " + t.String() + " (sequence)", Value: src}
		}
		if len(seq) != len(plans) {
			return reflect.Value{}, &errs.LengthMismatchError{Want: len(plans), Got: len(seq)}
		}

		out := reflect.New(t).Elem()
		for i, plan := range plans {
			v, err := plan.frag.load(seq[i])
			if err != nil {
				return reflect.Value{}, errs.Prefix(err, fieldSegment(plan.name))
			}

			out.FieldByIndex(plan.index).Set(v)
		}

		return out, nil
	}

	dump := func(v reflect.Value) (any, error) {
		out := make([]any, len(plans))
		for i, plan := range plans {
			dv, err := plan.frag.dump(v.FieldByIndex(plan.index))
			if err != nil {
				return nil, errs.Prefix(err, fieldSegment(plan.name))
			}

			out[i] = dv
		}

		return out, nil
	}

	return load, dump
}

// sweepUnknown applies the unknown-key policy over source keys that matched
// no field candidate. Keys are visited in sorted order so the raised error
// is deterministic.
func sweepUnknown(m map[string]any, recognized map[string]struct{}, known []string, cfg options.Resolved) error {
	var unknown []string

	for key := range m {
		if _, ok := recognized[key]; !ok {
			unknown = append(unknown, key)
		}
	}

	if len(unknown) == 0 {
		return nil
	}

	sort.Strings(unknown)

	if cfg.OnUnknownKey == options.UnknownKeyRaise {
		return &errs.UnknownKeyError{Key: unknown[0], Known: known}
	}

	for _, key := range unknown {
		cfg.Warnf("dyncast: ignoring unknown key %q (known fields: %v)", key, known)
	}

	return nil
}
