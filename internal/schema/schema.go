// Package schema discovers record schemas: the ordered field set of a struct
// type together with the marshalling metadata carried in its struct tags.
// Discovery happens once per (type, tag name) pair and is cached for the
// process lifetime.
//
// Recognized tags (default tag name `cast`, overridable via options):
//
//	cast:"name"            rename the field's derived key
//	cast:"-"               exclude the field entirely
//	cast:",omitempty"      skip the field on dump when zero
//	cast:",string"         coerce through a string form on both sides
//	cast:",tuple"          on a blank `_` field: positional record marker
//	alias:"a,b"            extra load keys, highest precedence first
//	path:"meta.labels.0"   nested key path replacing the flat key
//	pattern:"l1;l2"        ordered time layouts, ';'-separated because
//	                       layouts may contain commas
//	default:"literal"      default value, parsed with the field's own loader
package schema

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// Schema is the ordered field set of one record type. Field order follows
// struct declaration order and is positional for tuple-marked records.
type Schema struct {
	Type   reflect.Type
	Tuple  bool
	Fields []Field
}

// Field carries one field's declared type and tag metadata.
type Field struct {
	Name  string // Go field name
	Index []int  // reflect field index
	Type  reflect.Type

	Rename      string // tag name override, "" when absent
	OmitEmpty   bool
	ForceString bool

	Aliases  []string // extra load keys from the alias tag
	Path     string   // dotted key path from the path tag, "" when absent
	Patterns []string // ordered time layouts from the pattern tag

	Default    string
	HasDefault bool
}

// Key returns the name the casing transform applies to: the tag rename when
// present, else the Go field name.
func (f Field) Key() string {
	if f.Rename != "" {
		return f.Rename
	}

	return f.Name
}

type cacheKey struct {
	t       reflect.Type
	tagName string
}

type cacheEntry struct {
	schema *Schema
	err    error
}

var cache sync.Map // cacheKey -> cacheEntry

// Discover returns the schema of a record type, computing it on first use.
func Discover(t reflect.Type, tagName string) (*Schema, error) {
	key := cacheKey{t: t, tagName: tagName}
	if entry, ok := cache.Load(key); ok {
		e := entry.(cacheEntry)
		return e.schema, e.err
	}

	s, err := discover(t, tagName)

	entry, _ := cache.LoadOrStore(key, cacheEntry{schema: s, err: err})
	e := entry.(cacheEntry)

	return e.schema, e.err
}

func discover(t reflect.Type, tagName string) (*Schema, error) {
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("schema: %v is not a struct type", t)
	}

	s := &Schema{Type: t}
	seen := make(map[string]string) // effective name -> Go field name

	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)

		tag := sf.Tag.Get(tagName)

		if sf.Name == "_" {
			for _, opt := range strings.Split(tag, ",") {
				if opt == "tuple" {
					s.Tuple = true
				}
			}

			continue
		}

		if !sf.IsExported() {
			continue
		}

		name, opts, _ := strings.Cut(tag, ",")
		if name == "-" && opts == "" {
			continue
		}

		f := Field{
			Name:   sf.Name,
			Index:  sf.Index,
			Type:   sf.Type,
			Rename: name,
		}

		for _, opt := range strings.Split(opts, ",") {
			switch opt {
			case "omitempty":
				f.OmitEmpty = true
			case "string":
				f.ForceString = true
			case "", "tuple":
			default:
				return nil, fmt.Errorf("schema: %v.%s: unknown tag option %q", t, sf.Name, opt)
			}
		}

		if aliasTag := sf.Tag.Get("alias"); aliasTag != "" {
			for _, a := range strings.Split(aliasTag, ",") {
				if a = strings.TrimSpace(a); a != "" {
					f.Aliases = append(f.Aliases, a)
				}
			}
		}

		f.Path = sf.Tag.Get("path")

		if patternTag := sf.Tag.Get("pattern"); patternTag != "" {
			for _, p := range strings.Split(patternTag, ";") {
				if p != "" {
					f.Patterns = append(f.Patterns, p)
				}
			}
		}

		if def, ok := sf.Tag.Lookup("default"); ok {
			f.Default = def
			f.HasDefault = true
		}

		effective := f.Key()
		if prev, dup := seen[effective]; dup {
			return nil, fmt.Errorf("schema: %v: fields %s and %s resolve to the same key %q",
				t, prev, sf.Name, effective)
		}
		seen[effective] = sf.Name

		s.Fields = append(s.Fields, f)
	}

	return s, nil
}

// Defaulter lets a record type install programmatic defaults before load
// fills its fields: the default-factory counterpart of the `default` tag.
type Defaulter interface {
	SetDefaults()
}
