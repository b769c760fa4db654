// Package exec is a pure, immutable state-machine executor. Instance is
// a value type: every step produces a new Instance and the receiver is
// left untouched.
package exec

import (
	"errors"

	"github.com/ormasoftchile/bsif/pkg/bsif/schema"
)

// ErrNoTransition is returned by Send when no enabled transition matches.
var ErrNoTransition = errors.New("no enabled transition")

// Instance is an immutable handle on a running state machine. Zero value
// is not useful; construct with New.
type Instance struct {
	machine      schema.StateMachine
	currentState string
	history      []string
	actions      []string
}

// New builds the initial instance: history is [initial], and actions
// holds the initial state's entry action if set.
func New(sm schema.StateMachine) *Instance {
	inst := &Instance{
		machine:      sm,
		currentState: sm.Initial,
		history:      []string{sm.Initial},
	}
	if entry := entryAction(sm, sm.Initial); entry != "" {
		inst.actions = []string{entry}
	}
	return inst
}

func (i *Instance) CurrentState() string { return i.currentState }
func (i *Instance) History() []string    { return append([]string(nil), i.history...) }
func (i *Instance) Actions() []string    { return append([]string(nil), i.actions...) }

// Send returns a new Instance after firing the first declaration-order
// transition whose from/event match. Guards are opaque labels to this
// executor: they are recorded, never evaluated. It never mutates the
// receiver.
func (i *Instance) Send(event string) (*Instance, error) {
	t, ok := i.findTransition(event)
	if !ok {
		return nil, ErrNoTransition
	}
	return i.apply(t), nil
}

// CanSend reports whether Send(event) would succeed, without evaluating
// guards (matching Send's opaque-guard semantics, per the open question in
// design notes: canSend must agree with send).
func (i *Instance) CanSend(event string) bool {
	_, ok := i.findTransition(event)
	return ok
}

// IsInFinalState reports whether the current state is a declared final
// state.
func (i *Instance) IsInFinalState() bool {
	for _, f := range i.machine.Final {
		if f == i.currentState {
			return true
		}
	}
	return false
}

// ApplyTransition steps the instance along t directly, skipping the
// from/event match in Send. It exists for collaborators (such as a
// guard-evaluating executor) that pick among several transitions sharing
// a (from, event) pair using their own selection rule, then need the same
// history/actions bookkeeping Send performs.
func (i *Instance) ApplyTransition(t schema.Transition) *Instance {
	return i.apply(t)
}

func (i *Instance) findTransition(event string) (schema.Transition, bool) {
	for _, t := range i.machine.Transitions {
		if t.From == i.currentState && t.Event == event {
			return t, true
		}
	}
	return schema.Transition{}, false
}

func (i *Instance) apply(t schema.Transition) *Instance {
	var actions []string
	if exit := exitAction(i.machine, t.From); exit != "" {
		actions = append(actions, exit)
	}
	if t.Action != "" {
		actions = append(actions, t.Action)
	}
	if entry := entryAction(i.machine, t.To); entry != "" {
		actions = append(actions, entry)
	}
	next := &Instance{
		machine:      i.machine,
		currentState: t.To,
		history:      append(append([]string(nil), i.history...), t.To),
		actions:      actions,
	}
	return next
}

func entryAction(sm schema.StateMachine, name string) string {
	for _, s := range sm.States {
		if s.Name == name {
			return s.Entry
		}
	}
	return ""
}

func exitAction(sm schema.StateMachine, name string) string {
	for _, s := range sm.States {
		if s.Name == name {
			return s.Exit
		}
	}
	return ""
}
