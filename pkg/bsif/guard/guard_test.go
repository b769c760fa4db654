package guard_test

import (
	"testing"

	"github.com/ormasoftchile/bsif/pkg/bsif/exec"
	"github.com/ormasoftchile/bsif/pkg/bsif/guard"
	"github.com/ormasoftchile/bsif/pkg/bsif/schema"
)

func doorSM() schema.StateMachine {
	return schema.StateMachine{
		States: []schema.State{{Name: "closed"}, {Name: "open"}, {Name: "locked"}},
		Transitions: []schema.Transition{
			{From: "closed", To: "open", Event: "toggle", Guard: "ctx.unlocked"},
			{From: "closed", To: "locked", Event: "toggle", Guard: "!ctx.unlocked"},
			{From: "open", To: "closed", Event: "toggle"},
		},
		Initial: "closed",
	}
}

func TestEvaluator_PicksGuardedBranch(t *testing.T) {
	sm := doorSM()
	ev := guard.New(exec.New(sm), sm, map[string]any{"ctx": map[string]any{"unlocked": true}})
	next, err := ev.Send("toggle")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if next.Instance().CurrentState() != "open" {
		t.Errorf("state = %q, want open (guard ctx.unlocked was true)", next.Instance().CurrentState())
	}
}

func TestEvaluator_PicksOtherGuardedBranch(t *testing.T) {
	sm := doorSM()
	ev := guard.New(exec.New(sm), sm, map[string]any{"ctx": map[string]any{"unlocked": false}})
	next, err := ev.Send("toggle")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if next.Instance().CurrentState() != "locked" {
		t.Errorf("state = %q, want locked (guard ctx.unlocked was false)", next.Instance().CurrentState())
	}
}

func TestEvaluator_CanSendAgreesWithSend(t *testing.T) {
	sm := doorSM()
	env := map[string]any{"ctx": map[string]any{"unlocked": true}}
	ev := guard.New(exec.New(sm), sm, env)
	if !ev.CanSend("toggle") {
		t.Error("CanSend(toggle) = false, want true")
	}
	if ev.CanSend("bogus") {
		t.Error("CanSend(bogus) = true, want false")
	}
}

func TestEvaluator_NoEnabledGuardFails(t *testing.T) {
	sm := schema.StateMachine{
		States:      []schema.State{{Name: "a"}, {Name: "b"}},
		Transitions: []schema.Transition{{From: "a", To: "b", Event: "go", Guard: "ctx.ready"}},
		Initial:     "a",
	}
	ev := guard.New(exec.New(sm), sm, map[string]any{"ctx": map[string]any{"ready": false}})
	if _, err := ev.Send("go"); err != exec.ErrNoTransition {
		t.Errorf("err = %v, want ErrNoTransition", err)
	}
}
