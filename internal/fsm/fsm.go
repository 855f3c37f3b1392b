// Package fsm implements a small table-driven finite state machine.
// A Machine holds the allowed (state, event) pairs and the state each pair leads to.
// Anything not in the table is rejected.
package fsm

import (
	"errors"
	"fmt"
)

// ErrInvalidTransition is returned when an event is not allowed from the current state.
var ErrInvalidTransition = errors.New("invalid state transition")

// Transition is a single row of the transition table.
type Transition[S comparable, E comparable] struct {
	From  S
	Event E
	To    S
}

type key[S comparable, E comparable] struct {
	state S
	event E
}

// Machine is an immutable transition table. It is safe for concurrent use.
type Machine[S comparable, E comparable] struct {
	name   string
	table  map[key[S, E]]S
	events map[S][]E
	states []S
}

// New builds a machine from a list of transitions. It panics if the same
// (From, Event) pair is declared twice with different targets.
func New[S comparable, E comparable](name string, transitions ...Transition[S, E]) *Machine[S, E] {
	m := &Machine[S, E]{
		name:   name,
		table:  make(map[key[S, E]]S, len(transitions)),
		events: make(map[S][]E),
	}
	seen := make(map[S]bool)
	addState := func(s S) {
		if !seen[s] {
			seen[s] = true
			m.states = append(m.states, s)
		}
	}
	for _, t := range transitions {
		k := key[S, E]{t.From, t.Event}
		if to, ok := m.table[k]; ok {
			if to != t.To {
				panic(fmt.Sprintf("fsm %s: conflicting transition %v --%v--> %v and %v", name, t.From, t.Event, to, t.To))
			}
			continue
		}
		m.table[k] = t.To
		m.events[t.From] = append(m.events[t.From], t.Event)
		addState(t.From)
		addState(t.To)
	}
	return m
}

// Name returns the machine name used in error messages.
func (m *Machine[S, E]) Name() string {
	return m.name
}

// Fire returns the state reached from current through event.
func (m *Machine[S, E]) Fire(current S, event E) (S, error) {
	next, ok := m.table[key[S, E]{current, event}]
	if !ok {
		var zero S
		return zero, fmt.Errorf("%s: cannot %v from %v: %w", m.name, event, current, ErrInvalidTransition)
	}
	return next, nil
}

// Can reports whether event is allowed from current.
func (m *Machine[S, E]) Can(current S, event E) bool {
	_, ok := m.table[key[S, E]{current, event}]
	return ok
}

// Events lists the events allowed from current, in declaration order.
func (m *Machine[S, E]) Events(current S) []E {
	events := m.events[current]
	out := make([]E, len(events))
	copy(out, events)
	return out
}

// States lists every state mentioned in the table, in declaration order.
func (m *Machine[S, E]) States() []S {
	out := make([]S, len(m.states))
	copy(out, m.states)
	return out
}

// Terminal reports whether no event leaves the given state.
func (m *Machine[S, E]) Terminal(state S) bool {
	return len(m.events[state]) == 0
}
