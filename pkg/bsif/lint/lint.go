// Package lint runs style-only checks that never block validation:
// unused declarations and overly deep state hierarchies. These rules
// are layered on top of, not inside, the semantic validator.
package lint

import (
	"github.com/ormasoftchile/bsif/pkg/bsif/diag"
	"github.com/ormasoftchile/bsif/pkg/bsif/ltl"
	"github.com/ormasoftchile/bsif/pkg/bsif/schema"
)

const maxRecommendedNesting = 6

// Lint runs the style checks applicable to doc's variant.
func Lint(doc *schema.Document) diag.List {
	var warns diag.List
	if t, ok := doc.Semantics.(schema.Temporal); ok {
		warns = append(warns, unusedVariables(t)...)
	}
	if sm, ok := doc.Semantics.(schema.StateMachine); ok {
		warns = append(warns, deepNesting(sm)...)
	}
	return warns
}

func unusedVariables(t schema.Temporal) diag.List {
	used := map[string]bool{}
	for _, p := range t.Properties {
		ltl.Walk(p.Formula, func(f *ltl.Formula) {
			if f.Op == ltl.OpVariable {
				used[f.Var] = true
			}
		})
	}
	var warns diag.List
	for name := range t.Variables {
		if !used[name] {
			warns = append(warns, diag.Warnf(diag.CodeUnusedDeclaration, []string{"semantics", "variables", name}, "variable %q is declared but never referenced by a property", name))
		}
	}
	return warns
}

func deepNesting(sm schema.StateMachine) diag.List {
	parent := map[string]string{}
	for _, s := range sm.States {
		parent[s.Name] = s.Parent
	}
	var warns diag.List
	for _, s := range sm.States {
		depth := 0
		cur := s.Name
		for parent[cur] != "" {
			cur = parent[cur]
			depth++
			if depth > maxRecommendedNesting {
				warns = append(warns, diag.Warnf(diag.CodeDeepNesting, []string{"semantics", "states", s.Name}, "state %q is nested %d levels deep", s.Name, depth))
				break
			}
		}
	}
	return warns
}
