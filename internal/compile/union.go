package compile

import (
	"reflect"
	"sort"

	"dyncast/errs"
	"dyncast/internal/descriptor"
)

// unionAlt is one compiled alternative: its fragment, its dispatch tag (""
// when untagged), and the concrete Go type a dumped interface value must
// carry to select it.
type unionAlt struct {
	frag     fragment
	tag      string
	concrete reflect.Type
	record   bool
}

// emitUnion compiles an interface field with registered alternatives.
//
// With a tag key configured, load reads the discriminator out of the source
// map, strips it, and delegates to the matching alternative. Without one,
// alternatives are tried in registration order and the first that loads
// cleanly wins; that is best-effort and order-sensitive, which is why tagged
// dispatch is the recommended mode. UnsafeUnionDispatch skips the trials and
// commits to the first record alternative unconditionally.
func (c *compiler) emitUnion(d descriptor.Descriptor, fc fieldCtx) (fragment, error) {
	spec, ok := c.sess.reg.UnionFor(d.Type)
	if !ok {
		return fragment{}, &errs.UnsupportedTypeError{Type: d.Type}
	}

	alts := make([]unionAlt, 0, len(d.Args))
	byTag := make(map[string]int, len(d.Args))

	for i, ad := range d.Args {
		frag, err := c.emit(ad, fc)
		if err != nil {
			return fragment{}, err
		}

		alt := unionAlt{
			frag:     frag,
			tag:      spec.Alts[i].Tag,
			concrete: ad.Type,
			record:   ad.Kind == descriptor.KindRecord || ad.Kind == descriptor.KindStructTuple,
		}
		if ad.InOptional {
			alt.concrete = reflect.PointerTo(ad.Type)
		}
		if alt.tag == "" && c.cfg.AutoAssignTags {
			alt.tag = ad.Type.Name()
		}

		if alt.tag != "" {
			byTag[alt.tag] = len(alts)
		}

		alts = append(alts, alt)
	}

	known := make([]string, 0, len(byTag))
	for tag := range byTag {
		known = append(known, tag)
	}
	sort.Strings(known)

	iface := d.Type
	tagKey := c.cfg.TagKey
	unsafe := c.cfg.UnsafeUnionDispatch

	wrap := func(v reflect.Value) (reflect.Value, error) {
		out := reflect.New(iface).Elem()
		out.Set(v)

		return out, nil
	}

	load := func(src any) (reflect.Value, error) {
		if src == nil {
			return reflect.Zero(iface), nil
		}

		if tagKey != "" {
			m, ok := dynamicMap(src)
			if !ok {
				return reflect.Value{}, &errs.TypeMismatchError{Expected: "union " + iface.String() + " (map)", Value: src}
			}

			raw, ok := m[tagKey]
			if !ok {
				return reflect.Value{}, &errs.MissingFieldError{Field: tagKey, Candidates: []string{tagKey}}
			}

			tag, err := dynamicString(raw)
			if err != nil {
				return reflect.Value{}, errs.Prefix(err, keySegment(tagKey))
			}

			i, ok := byTag[tag]
			if !ok {
				return reflect.Value{}, &errs.TagDispatchError{Tag: tag, Known: known}
			}

			// the discriminator is dispatch metadata, not payload
			stripped := make(map[string]any, len(m)-1)
			for k, v := range m {
				if k != tagKey {
					stripped[k] = v
				}
			}

			v, err := alts[i].frag.load(stripped)
			if err != nil {
				return reflect.Value{}, err
			}

			return wrap(v)
		}

		if unsafe {
			for _, alt := range alts {
				if !alt.record {
					continue
				}

				v, err := alt.frag.load(src)
				if err != nil {
					return reflect.Value{}, err
				}

				return wrap(v)
			}
		}

		for _, alt := range alts {
			v, err := alt.frag.load(src)
			if err == nil {
				return wrap(v)
			}
		}

		return reflect.Value{}, &errs.TagDispatchError{Known: known}
	}

	dump := func(v reflect.Value) (any, error) {
		if v.IsNil() {
			return nil, nil
		}

		concrete := v.Elem()
		ct := concrete.Type()

		for _, alt := range alts {
			if alt.concrete != ct {
				continue
			}

			dv, err := alt.frag.dump(concrete)
			if err != nil {
				return nil, err
			}

			if tagKey != "" && alt.tag != "" {
				if m, ok := dv.(map[string]any); ok {
					m[tagKey] = alt.tag
				}
			}

			return dv, nil
		}

		return nil, &errs.UnsupportedTypeError{Type: ct}
	}

	return fragment{load: load, dump: dump}, nil
}
