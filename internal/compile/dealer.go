package compile

import "reflect"

// Dealer tracks record types that still need visiting during a whole-graph
// walk, deduplicating against those already handled. Schema validation uses
// it to traverse nested records exactly once even through diamonds and
// cycles.
type Dealer struct {
	needs map[reflect.Type]struct{}
	done  map[reflect.Type]struct{}
}

// Next pops a pending type, marking it done. ok is false once nothing is
// pending.
func (d *Dealer) Next() (t reflect.Type, ok bool) {
	for t := range d.needs {
		delete(d.needs, t)

		if _, seen := d.done[t]; !seen {
			d.Done(t)
			return t, true
		}
	}

	return nil, false
}

// Needs schedules a type unless it was already handled.
func (d *Dealer) Needs(t reflect.Type) {
	if d.needs == nil {
		d.needs = make(map[reflect.Type]struct{})
	}

	if _, seen := d.done[t]; !seen {
		d.needs[t] = struct{}{}
	}
}

// Done marks a type handled and drops any pending entry for it.
func (d *Dealer) Done(t reflect.Type) {
	if d.done == nil {
		d.done = make(map[reflect.Type]struct{})
	}

	delete(d.needs, t)
	d.done[t] = struct{}{}
}
