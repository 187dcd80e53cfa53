package caster

import (
	"reflect"

	"dyncast/diag"
	"dyncast/internal/compile"
	"dyncast/internal/descriptor"
	"dyncast/internal/registry"
	"dyncast/internal/schema"
	"dyncast/options"
)

// Validate checks a whole record graph against the compiler's capabilities
// without compiling it, collecting every problem instead of stopping at the
// first. Use it in tests or startup assertions to surface all unsupported
// fields, schema conflicts, and dispatch ambiguities in one pass.
//
// Nested record configurations are approximated by cascading the root's
// effective configuration, which matches compilation whenever nested records
// do not override inherited options.
func Validate(t reflect.Type, opts ...options.Option) diag.Report {
	var report diag.Report

	if t == nil {
		report.AddError("nil-type", "nil type", "", "")
		return report
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	eff := options.New(opts...).Overlay(registry.Global.ConfigFor(t).Merge(options.Default()))

	v := &validator{
		report:    &report,
		inherited: eff.Inheritable(),
	}

	v.dealer.Needs(t)

	for {
		u, ok := v.dealer.Next()
		if !ok {
			break
		}

		cfg := registry.Global.ConfigFor(u).Merge(v.inherited)
		if u == t {
			cfg = eff
		}

		v.validateRecord(u, cfg)
	}

	return report
}

type validator struct {
	report    *diag.Report
	dealer    compile.Dealer
	inherited options.Resolved
}

func (v *validator) validateRecord(t reflect.Type, cfg options.Resolved) {
	name := t.String()

	if t.Kind() != reflect.Struct {
		v.report.AddError("not-a-record", "record types must be structs", name, "")
		return
	}

	sch, err := schema.Discover(t, cfg.TagName)
	if err != nil {
		v.report.AddError("schema", err.Error(), name, "")
		return
	}

	if len(sch.Fields) == 0 {
		v.report.AddInfo("no-fields", "record has no marshalled fields", name, "")
	}

	res := descriptor.NewResolver(registry.Global, cfg.TagName)
	res.Push(t)

	for i := range sch.Fields {
		f := &sch.Fields[i]

		d, err := res.Resolve(f.Type)
		if err != nil {
			v.report.AddError("resolve", err.Error(), name, f.Name)
			continue
		}

		v.walk(d, cfg, name, f.Name)
	}
}

// walk descends one field's descriptor tree, scheduling nested records and
// flagging dispatch hazards.
func (v *validator) walk(d descriptor.Descriptor, cfg options.Resolved, typeName, fieldPath string) {
	switch d.Kind {
	case descriptor.KindRecord, descriptor.KindStructTuple:
		if !d.Recursive {
			v.dealer.Needs(d.Type)
		}

		return

	case descriptor.KindUnion:
		v.checkUnion(d, cfg, typeName, fieldPath)

	case descriptor.KindCustom:
		if hook, ok := registry.Global.HookFor(d.Type); ok {
			if hook.MakeLoad == nil {
				v.report.AddWarning("partial-hook", "hook for "+d.Type.String()+" has no load direction", typeName, fieldPath)
			}
			if hook.MakeDump == nil {
				v.report.AddWarning("partial-hook", "hook for "+d.Type.String()+" has no dump direction", typeName, fieldPath)
			}
		}

		return
	}

	for _, arg := range d.Args {
		v.walk(arg, cfg, typeName, fieldPath)
	}
}

func (v *validator) checkUnion(d descriptor.Descriptor, cfg options.Resolved, typeName, fieldPath string) {
	spec, ok := registry.Global.UnionFor(d.Type)
	if !ok {
		return
	}

	if cfg.TagKey == "" {
		records := 0
		for _, arg := range d.Args {
			if arg.Kind == descriptor.KindRecord || arg.Kind == descriptor.KindStructTuple {
				records++
			}
		}

		if records > 1 {
			v.report.Warnings = append(v.report.Warnings, diag.Finding{
				Severity:  diag.Warning,
				Code:      "ambiguous-union",
				Message:   "untagged dispatch over " + d.Type.String() + " tries multiple record alternatives in order; results depend on registration order",
				Type:      typeName,
				FieldPath: fieldPath,
				Suggestions: []string{
					"set options.TagKey and tag the alternatives",
					"set options.AutoAssignTags(true)",
				},
			})
		}

		return
	}

	if cfg.AutoAssignTags {
		return
	}

	for _, alt := range spec.Alts {
		if alt.Tag == "" {
			v.report.AddWarning("untagged-alternative",
				"alternative "+alt.Type.String()+" of "+d.Type.String()+" has no tag and is unreachable under tagged dispatch",
				typeName, fieldPath)
		}
	}
}
