package options

// Merge resolves the receiver against an inherited effective configuration.
//
// Rules: an option explicitly set on the receiver wins; otherwise the
// inherited value is used. Two options never inherit and fall back to the
// package default instead: FieldAliases (per-record key overrides) and
// RecursivePropagation (the cascade flag itself). Per-alternative union tag
// values live in the type registry and likewise never cascade.
//
// Merge is safe on a nil receiver, which resolves to the inherited
// configuration with the never-inherited options reset.
func (c *Config) Merge(inherited Resolved) Resolved {
	base := inherited
	base.FieldAliases = nil
	base.RecursivePropagation = Default().RecursivePropagation

	return c.Overlay(base)
}

// Overlay applies the receiver's explicitly-set options on top of an already
// effective configuration, with no never-inherited reset. Call-site options
// refine the top-level record's own configuration this way; explicit
// per-field overrides therefore take highest precedence.
func (c *Config) Overlay(base Resolved) Resolved {
	out := base
	if c == nil {
		return out
	}

	if c.keyCasingLoad.set {
		out.KeyCasingLoad = c.keyCasingLoad.value
	}
	if c.keyCasingDump.set {
		out.KeyCasingDump = c.keyCasingDump.value
	}
	if len(c.fieldAliases) > 0 {
		merged := make(map[string]AliasSpec, len(out.FieldAliases)+len(c.fieldAliases))
		for field, spec := range out.FieldAliases {
			merged[field] = spec
		}
		for field, spec := range c.fieldAliases {
			merged[field] = spec
		}
		out.FieldAliases = merged
	}
	if c.tagKey.set {
		out.TagKey = c.tagKey.value
	}
	if c.autoAssignTags.set {
		out.AutoAssignTags = c.autoAssignTags.value
	}
	if c.unsafeUnionDispatch.set {
		out.UnsafeUnionDispatch = c.unsafeUnionDispatch.value
	}
	if c.onUnknownKey.set {
		out.OnUnknownKey = c.onUnknownKey.value
	}
	if c.skipFieldIf.set {
		out.SkipFieldIf = c.skipFieldIf.value
	}
	if c.recursivePropagation.set {
		out.RecursivePropagation = c.recursivePropagation.value
	}
	if c.dateTimeOutputForm.set {
		out.DateTimeOutputForm = c.dateTimeOutputForm.value
	}
	if len(c.customPatterns) > 0 {
		merged := make(map[string][]string, len(out.CustomPatterns)+len(c.customPatterns))
		for field, patterns := range out.CustomPatterns {
			merged[field] = patterns
		}
		for field, patterns := range c.customPatterns {
			merged[field] = patterns
		}
		out.CustomPatterns = merged
	}
	if c.tupleAsMap.set {
		out.TupleAsMap = c.tupleAsMap.value
	}
	if c.strictIntegers.set {
		out.StrictIntegers = c.strictIntegers.value
	}
	if c.coercions.set {
		out.Coercions = c.coercions.value
	}
	if c.enumByName.set {
		out.EnumByName = c.enumByName.value
	}
	if c.tagName.set {
		out.TagName = c.tagName.value
	}
	if c.warnf != nil {
		out.Warnf = c.warnf
	}

	return out
}

// Inheritable returns the view of an effective configuration that cascades
// into nested records: the configuration itself when propagation is on, or
// the package default when the record disabled propagation.
func (r Resolved) Inheritable() Resolved {
	if !r.RecursivePropagation {
		return Default()
	}

	return r
}
