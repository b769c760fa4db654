// Package validate runs cross-reference and reachability checks on a
// decoded document, beyond what the decoder already enforces
// structurally.
package validate

import (
	"fmt"
	"strconv"

	"github.com/ormasoftchile/bsif/pkg/bsif/diag"
	"github.com/ormasoftchile/bsif/pkg/bsif/schema"
)

// Options selects which validation phases run.
type Options struct {
	// CheckSemantics enables the cross-reference, reachability and
	// determinism checks; when false only the structural re-checks run.
	CheckSemantics bool
}

// Verdict buckets one validation pass's findings the way callers make
// exit-code decisions: Valid is false iff Errors is non-empty.
type Verdict struct {
	Valid    bool
	Errors   diag.List
	Warnings diag.List
}

// Check runs validation per opts and folds the diagnostics into a
// Verdict. Like Validate it is pure: equal inputs yield equal verdicts.
func Check(doc *schema.Document, opts Options) Verdict {
	var errs diag.List
	errs = append(errs, validateVersion(doc.Metadata)...)
	if opts.CheckSemantics {
		errs = append(errs, validateSemantics(doc)...)
	}
	return Verdict{Valid: !errs.HasErrors(), Errors: errs.Errors(), Warnings: errs.Warnings()}
}

// Validate runs every semantic check applicable to doc's variant and
// returns the accumulated diagnostics. It is a pure function: the same
// document always yields an equal diagnostic list.
func Validate(doc *schema.Document) diag.List {
	var errs diag.List
	errs = append(errs, validateVersion(doc.Metadata)...)
	errs = append(errs, validateSemantics(doc)...)
	return errs
}

func validateSemantics(doc *schema.Document) diag.List {
	var errs diag.List

	switch sem := doc.Semantics.(type) {
	case schema.StateMachine:
		errs = append(errs, validateStateMachine(sem, []string{"semantics"})...)
	case schema.Temporal:
		errs = append(errs, validateTemporal(sem, []string{"semantics"})...)
	case schema.Constraints:
		errs = append(errs, validateConstraints(sem, []string{"semantics"})...)
	case schema.Events:
		errs = append(errs, validateEvents(sem, []string{"semantics"})...)
	case schema.Interaction:
		errs = append(errs, validateInteraction(sem, []string{"semantics"})...)
	case schema.Hybrid:
		errs = append(errs, validateHybrid(sem, []string{"semantics"})...)
	}

	return errs
}

func validateVersion(m schema.Metadata) diag.List {
	if !versionRe.MatchString(m.BSIFVersion) {
		return diag.List{diag.Errorf(diag.CodeInvalidFieldValue, []string{"metadata", "bsif_version"}, "bsif_version %q does not match ^\\d+\\.\\d+\\.\\d+$", m.BSIFVersion)}
	}
	return nil
}

// --- StateMachine ---

func validateStateMachine(sm schema.StateMachine, path []string) diag.List {
	var errs diag.List

	names := map[string]bool{}
	parent := map[string]string{}
	for _, s := range sm.States {
		names[s.Name] = true
		parent[s.Name] = s.Parent
	}

	if sm.Initial != "" && !names[sm.Initial] {
		errs = append(errs, diag.Errorf(diag.CodeUnknownState, append(path, "initial"), "initial state %q is not declared", sm.Initial))
	}
	for _, f := range sm.Final {
		if !names[f] {
			errs = append(errs, diag.Errorf(diag.CodeUnknownState, append(path, "final"), "final state %q is not declared", f))
		}
	}
	for i, t := range sm.Transitions {
		tpath := append(append([]string{}, path...), "transitions", strconv.Itoa(i))
		if !names[t.From] {
			errs = append(errs, diag.Errorf(diag.CodeUnknownState, tpath, "transition from unknown state %q", t.From))
		}
		if !names[t.To] {
			errs = append(errs, diag.Errorf(diag.CodeUnknownState, tpath, "transition to unknown state %q", t.To))
		}
	}

	if err := checkParentForest(parent); err != nil {
		errs = append(errs, diag.Errorf(diag.CodeCircularReference, append(path, "states"), "%v", err))
	}

	errs = append(errs, validateReachability(sm, path)...)
	errs = append(errs, validateDeterminism(sm, path)...)

	return errs
}

func checkParentForest(parent map[string]string) error {
	visiting := map[string]bool{}
	var visit func(name string) error
	visit = func(name string) error {
		if visiting[name] {
			return fmt.Errorf("cycle in state hierarchy at %q", name)
		}
		p, ok := parent[name]
		if !ok || p == "" {
			return nil
		}
		visiting[name] = true
		err := visit(p)
		visiting[name] = false
		return err
	}
	for name := range parent {
		if err := visit(name); err != nil {
			return err
		}
	}
	return nil
}

// validateReachability flags every state not reachable from initial via
// transitions, ignoring guards (code: UnreachableState).
func validateReachability(sm schema.StateMachine, path []string) diag.List {
	if sm.Initial == "" {
		return nil
	}
	adj := map[string][]string{}
	for _, t := range sm.Transitions {
		adj[t.From] = append(adj[t.From], t.To)
	}
	reached := map[string]bool{sm.Initial: true}
	queue := []string{sm.Initial}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range adj[cur] {
			if !reached[next] {
				reached[next] = true
				queue = append(queue, next)
			}
		}
	}
	var errs diag.List
	for _, s := range sm.States {
		if !reached[s.Name] {
			errs = append(errs, diag.Errorf(diag.CodeUnreachableState, append(append([]string{}, path...), "states", s.Name), "state %q is unreachable from initial state %q", s.Name, sm.Initial))
		}
	}
	return errs
}

// validateDeterminism emits a warning when two transitions share (from,
// event) without guards or with guards that cannot be statically
// disproved — approximated here as: share (from,event) and either has no
// guard, or both have the identical guard string.
func validateDeterminism(sm schema.StateMachine, path []string) diag.List {
	type key struct{ from, event string }
	byKey := map[key][]schema.Transition{}
	for _, t := range sm.Transitions {
		if t.Event == "" {
			continue
		}
		k := key{t.From, t.Event}
		byKey[k] = append(byKey[k], t)
	}
	var errs diag.List
	for k, ts := range byKey {
		if len(ts) < 2 {
			continue
		}
		conflict := false
		for _, t := range ts {
			if t.Guard == "" {
				conflict = true
			}
		}
		if !conflict {
			for i := 0; i < len(ts); i++ {
				for j := i + 1; j < len(ts); j++ {
					if ts[i].Guard == ts[j].Guard {
						conflict = true
					}
				}
			}
		}
		if conflict {
			errs = append(errs, diag.Warnf(diag.CodeNondeterministicTransition, append(append([]string{}, path...), "transitions"), "nondeterministic transitions from %q on event %q", k.from, k.event))
		}
	}
	return errs
}
