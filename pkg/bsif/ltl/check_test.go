package ltl_test

import (
	"testing"

	"github.com/ormasoftchile/bsif/pkg/bsif/ltl"
)

// TestCheck_Globally checks G x over all-true and mid-trace-false
// traces, including the witness index on failure.
func TestCheck_Globally(t *testing.T) {
	f := ltl.Globally(ltl.Variable("x"))

	holdsTrace := []ltl.Snapshot{{"x": true}, {"x": true}, {"x": true}}
	res := ltl.Check(f, holdsTrace)
	if !res.Holds {
		t.Errorf("holds = false, want true for all-true trace")
	}

	failsTrace := []ltl.Snapshot{{"x": true}, {"x": false}, {"x": true}}
	res = ltl.Check(f, failsTrace)
	if res.Holds {
		t.Fatal("holds = true, want false for trace with a false step")
	}
	if res.Witness == nil || *res.Witness != 1 {
		t.Errorf("witness = %v, want 1", res.Witness)
	}
}

func TestCheck_Finally(t *testing.T) {
	f := ltl.Finally(ltl.Variable("x"))
	trace := []ltl.Snapshot{{"x": false}, {"x": false}, {"x": true}}
	if res := ltl.Check(f, trace); !res.Holds {
		t.Error("expected F x to hold when x eventually becomes true")
	}
	allFalse := []ltl.Snapshot{{"x": false}, {"x": false}}
	if res := ltl.Check(f, allFalse); res.Holds {
		t.Error("expected F x to fail when x is never true")
	}
}

// TestCheck_NextStrictAtLastIndex checks X is strictly false at the
// last step of a finite trace, never vacuously true.
func TestCheck_NextStrictAtLastIndex(t *testing.T) {
	f := ltl.Next(ltl.Variable("x"))
	trace := []ltl.Snapshot{{"x": true}}
	res := ltl.Check(f, trace)
	if res.Holds {
		t.Error("X x at the last index of a finite trace must be false (strict semantics)")
	}
}

func TestCheck_Until(t *testing.T) {
	f := ltl.Until(ltl.Variable("a"), ltl.Variable("b"))
	trace := []ltl.Snapshot{{"a": true, "b": false}, {"a": true, "b": false}, {"a": false, "b": true}}
	if res := ltl.Check(f, trace); !res.Holds {
		t.Error("expected a U b to hold when a holds until b becomes true")
	}

	neverB := []ltl.Snapshot{{"a": true, "b": false}, {"a": true, "b": false}}
	if res := ltl.Check(f, neverB); res.Holds {
		t.Error("expected a U b to fail when b never holds")
	}
}

func TestCheck_Release(t *testing.T) {
	f := ltl.Release(ltl.Variable("a"), ltl.Variable("b"))
	// b holds at every step, a never needs to hold: R is satisfied.
	allB := []ltl.Snapshot{{"a": false, "b": true}, {"a": false, "b": true}}
	if res := ltl.Check(f, allB); !res.Holds {
		t.Error("expected a R b to hold when b holds at every step")
	}
	// b fails before a ever holds: R is violated.
	bFailsEarly := []ltl.Snapshot{{"a": false, "b": false}, {"a": true, "b": true}}
	if res := ltl.Check(f, bFailsEarly); res.Holds {
		t.Error("expected a R b to fail when b fails before a holds")
	}
}

// TestCheck_ClassicalSubsumption checks G phi == not F not phi on every
// finite trace.
func TestCheck_ClassicalSubsumption(t *testing.T) {
	traces := [][]ltl.Snapshot{
		{{"x": true}, {"x": true}, {"x": true}},
		{{"x": true}, {"x": false}, {"x": true}},
		{{"x": false}},
		{{"x": true}},
	}
	gPhi := ltl.Globally(ltl.Variable("x"))
	notFNotPhi := ltl.Not(ltl.Finally(ltl.Not(ltl.Variable("x"))))
	for i, trace := range traces {
		a := ltl.Check(gPhi, trace).Holds
		b := ltl.Check(notFNotPhi, trace).Holds
		if a != b {
			t.Errorf("trace %d: G x = %v, !F!x = %v, want equal", i, a, b)
		}
	}
}

func TestCheck_EmptyTrace(t *testing.T) {
	res := ltl.Check(ltl.Variable("x"), nil)
	if res.Holds {
		t.Error("expected an empty trace to never satisfy a formula")
	}
}

func TestCheck_ClassicalOperators(t *testing.T) {
	trace := []ltl.Snapshot{{"a": true, "b": false}}
	cases := []struct {
		name string
		f    *ltl.Formula
		want bool
	}{
		{"not", ltl.Not(ltl.Variable("a")), false},
		{"and", ltl.And(ltl.Variable("a"), ltl.Variable("b")), false},
		{"or", ltl.Or(ltl.Variable("a"), ltl.Variable("b")), true},
		{"implies", ltl.Implies(ltl.Variable("a"), ltl.Variable("b")), false},
		{"implies-vacuous", ltl.Implies(ltl.Variable("b"), ltl.Variable("a")), true},
		{"iff", ltl.Iff(ltl.Variable("a"), ltl.Variable("b")), false},
	}
	for _, c := range cases {
		if got := ltl.Check(c.f, trace).Holds; got != c.want {
			t.Errorf("%s: holds = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestArity(t *testing.T) {
	cases := map[ltl.Op]int{
		ltl.OpVariable: 0, ltl.OpLiteral: 0,
		ltl.OpNot: 1, ltl.OpNext: 1, ltl.OpGlobally: 1, ltl.OpFinally: 1,
		ltl.OpAnd: 2, ltl.OpOr: 2, ltl.OpImplies: 2, ltl.OpIff: 2, ltl.OpUntil: 2, ltl.OpRelease: 2,
	}
	for op, want := range cases {
		if got := ltl.Arity(op); got != want {
			t.Errorf("Arity(%s) = %d, want %d", op, got, want)
		}
	}
	if ltl.Arity("bogus") != -1 {
		t.Error("Arity of an unknown operator should be -1")
	}
}
