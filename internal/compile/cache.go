// Package compile turns record types into load/dump routine pairs: it
// dispatches canonical type descriptors to per-kind fragment emitters,
// assembles the emitted fragments into one routine per record, and caches
// the result per (type, configuration fingerprint) for the process lifetime.
//
// Routines are composed closures, not generated source: each emitter returns
// a fragment capturing the precompiled sub-routines it needs, so invocation
// performs no type inspection beyond what the closures already bound.
package compile

import (
	"reflect"
	"sync"

	"dyncast/internal/descriptor"
	"dyncast/internal/registry"
	"dyncast/options"
)

type routineKey struct {
	t  reflect.Type
	fp string
}

// cache owns every published routine. Entries are immutable after
// publication and never evicted; LoadOrStore guarantees at most one
// completed compilation per key is observably used, while redundant
// concurrent compilations are discarded.
var cache sync.Map // routineKey -> *Routine

// Routine is a compiled load/dump pair for one record type under one
// effective configuration, bound to the symbol table it closed over.
type Routine struct {
	Type   reflect.Type
	Config options.Resolved

	load func(src any) (reflect.Value, error)
	dump func(v reflect.Value) (any, error)
	syms *symtab
}

// Load converts a dynamic value tree into a value of the routine's record
// type.
func (r *Routine) Load(src any) (reflect.Value, error) {
	return r.load(src)
}

// Dump converts a record value into an interchange-safe dynamic value tree.
func (r *Routine) Dump(v reflect.Value) (any, error) {
	return r.dump(v)
}

// Symbols lists the names bound in the routine's symbol table, sorted.
func (r *Routine) Symbols() []string {
	return r.syms.Names()
}

// session spans one compilation request, including every nested record
// compiled under it. It carries the ancestor stack used for cycle
// detection across nested compilations.
type session struct {
	reg   *registry.Table
	stack []reflect.Type
}

func (s *session) push(t reflect.Type) { s.stack = append(s.stack, t) }
func (s *session) pop()                { s.stack = s.stack[:len(s.stack)-1] }

// For returns the routine for a record type, compiling it on first use.
// call carries call-site options refining the top-level record's own
// configuration; inherited is the effective configuration cascading from an
// enclosing record (options.Default() at the top).
func For(t reflect.Type, reg *registry.Table, call *options.Config, inherited options.Resolved) (*Routine, error) {
	return forInSession(t, call, inherited, &session{reg: reg})
}

func forInSession(t reflect.Type, call *options.Config, inherited options.Resolved, sess *session) (*Routine, error) {
	// configuration resolves to a stable fingerprint before the cache is
	// consulted, so resolution never races with compilation
	eff := call.Overlay(sess.reg.ConfigFor(t).Merge(inherited))

	key := routineKey{t: t, fp: eff.Fingerprint()}
	if r, ok := cache.Load(key); ok {
		return r.(*Routine), nil
	}

	c := newCompiler(eff, sess)

	r, err := c.compileRecord(t)
	if err != nil {
		return nil, err
	}

	actual, _ := cache.LoadOrStore(key, r)

	return actual.(*Routine), nil
}

// compiler drives one record's compilation. Not safe for concurrent use;
// every compilation builds its own.
type compiler struct {
	cfg  options.Resolved
	sess *session
	res  *descriptor.Resolver
	syms *symtab
}

func newCompiler(cfg options.Resolved, sess *session) *compiler {
	res := descriptor.NewResolver(sess.reg, cfg.TagName)
	for _, ancestor := range sess.stack {
		res.Push(ancestor)
	}

	return &compiler{
		cfg:  cfg,
		sess: sess,
		res:  res,
		syms: newSymtab(),
	}
}
