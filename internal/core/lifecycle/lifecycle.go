// Package lifecycle holds the shared state-transition rules for all entity
// kinds. The table is plain data, injected once at wiring time; services
// never encode per-kind status conditionals themselves.
package lifecycle

import "github.com/example/cmms/internal/errs"

// Kind identifies an entity kind in the transition table.
type Kind string

const (
	KindPMTask    Kind = "pm_task"
	KindWorkOrder Kind = "work_order"
)

// Table maps entity kind -> current state -> allowed next states.
// A state mapped to an empty set is terminal.
type Table map[Kind]map[string][]string

// Default returns the transition rules for all entity kinds.
//
// A completed pm_task is terminal for its execution cycle: the next cycle
// is represented by advanced due-date fields, not a transition edge.
func Default() Table {
	return Table{
		KindPMTask: {
			"pending":   {"due_today", "overdue", "completed"},
			"due_today": {"overdue", "completed"},
			"overdue":   {"completed"},
			"completed": {},
		},
		KindWorkOrder: {
			"open":   {"closed"},
			"closed": {},
		},
	}
}

// Allowed reports whether the move from -> to is legal for the kind.
// Unknown kinds and unknown source states are never legal.
func (t Table) Allowed(kind Kind, from, to string) bool {
	states, ok := t[kind]
	if !ok {
		return false
	}
	next, ok := states[from]
	if !ok {
		return false
	}
	for _, s := range next {
		if s == to {
			return true
		}
	}
	return false
}

// Validate returns a StateTransitionError naming kind, from and to when the
// move is illegal, nil otherwise.
func (t Table) Validate(kind Kind, from, to string) error {
	if t.Allowed(kind, from, to) {
		return nil
	}
	return &errs.StateTransitionError{Kind: string(kind), From: from, To: to}
}
