// Package guard is the richer, guard-evaluating executor mentioned as an
// external collaborator in the design notes: it wraps exec.Instance and
// actually compiles and runs guard expression strings instead of treating
// them as opaque labels. Each guard is compiled as a boolean expression
// against the caller's environment; a guard that fails to compile or run
// counts as false. Action strings are not evaluated: they are recorded as
// labels, exactly as exec.Instance records them.
package guard

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/ormasoftchile/bsif/pkg/bsif/exec"
	"github.com/ormasoftchile/bsif/pkg/bsif/schema"
)

// Evaluator wraps an exec.Instance, adding guard evaluation against a
// caller-supplied environment (event payload plus arbitrary context
// variables). CanSend and Send share the same matching logic so they
// never disagree about which transition would fire.
type Evaluator struct {
	inst *exec.Instance
	sm   schema.StateMachine
	env  map[string]any
}

// New wraps inst with guard evaluation against env. env is consulted as
// the expr environment for every guard string; it is typically
// {"ctx": ..., "evt": ...}.
func New(inst *exec.Instance, sm schema.StateMachine, env map[string]any) *Evaluator {
	return &Evaluator{inst: inst, sm: sm, env: env}
}

// CanSend reports whether event has at least one enabled transition whose
// guard (if any) evaluates to true against env.
func (e *Evaluator) CanSend(event string) bool {
	_, ok := e.findEnabled(event)
	return ok
}

// Send evaluates guards and fires the first enabled transition, returning
// a new Evaluator wrapping the resulting instance.
func (e *Evaluator) Send(event string) (*Evaluator, error) {
	t, ok := e.findEnabled(event)
	if !ok {
		return nil, exec.ErrNoTransition
	}
	next := e.inst.ApplyTransition(t)
	return &Evaluator{inst: next, sm: e.sm, env: e.env}, nil
}

func (e *Evaluator) Instance() *exec.Instance { return e.inst }

func (e *Evaluator) findEnabled(event string) (schema.Transition, bool) {
	for _, t := range e.sm.Transitions {
		if t.From != e.inst.CurrentState() || t.Event != event {
			continue
		}
		if t.Guard == "" {
			return t, true
		}
		ok, err := e.evalGuard(t.Guard)
		if err == nil && ok {
			return t, true
		}
	}
	return schema.Transition{}, false
}

func (e *Evaluator) evalGuard(guard string) (bool, error) {
	prog, err := expr.Compile(guard, expr.Env(e.env), expr.AsBool())
	if err != nil {
		return false, fmt.Errorf("compile guard %q: %w", guard, err)
	}
	out, err := expr.Run(prog, e.env)
	if err != nil {
		return false, fmt.Errorf("run guard %q: %w", guard, err)
	}
	b, _ := out.(bool)
	return b, nil
}
