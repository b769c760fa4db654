package lint_test

import (
	"testing"

	"github.com/ormasoftchile/bsif/pkg/bsif/lint"
	"github.com/ormasoftchile/bsif/pkg/bsif/validate"
)

func TestLint_UnusedVariable(t *testing.T) {
	doc, errs := validate.ValidateBytes([]byte(`{
		"metadata": {"bsif_version": "1.0.0", "name": "t"},
		"semantics": {
			"type": "temporal",
			"logic": "ltl",
			"variables": {"used": "bool", "unused": "bool"},
			"properties": [{"name": "p", "formula": {"op": "variable", "var": "used"}}]
		}
	}`), "d.json")
	if errs.HasErrors() {
		t.Fatalf("unexpected validation errors: %v", errs)
	}
	warns := lint.Lint(doc)
	found := false
	for _, w := range warns {
		if w.Code == "W302" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an UnusedDeclaration (W302) warning, got %v", warns)
	}
}

func TestLint_DeepNestingWarning(t *testing.T) {
	sm := `{
		"metadata": {"bsif_version": "1.0.0", "name": "deep"},
		"semantics": {
			"type": "state-machine",
			"states": [
				{"name": "s0"}, {"name": "s1", "parent": "s0"}, {"name": "s2", "parent": "s1"},
				{"name": "s3", "parent": "s2"}, {"name": "s4", "parent": "s3"}, {"name": "s5", "parent": "s4"},
				{"name": "s6", "parent": "s5"}, {"name": "s7", "parent": "s6"}
			],
			"transitions": [
				{"from": "s0", "to": "s1", "event": "e1"}, {"from": "s1", "to": "s2", "event": "e2"},
				{"from": "s2", "to": "s3", "event": "e3"}, {"from": "s3", "to": "s4", "event": "e4"},
				{"from": "s4", "to": "s5", "event": "e5"}, {"from": "s5", "to": "s6", "event": "e6"},
				{"from": "s6", "to": "s7", "event": "e7"}
			],
			"initial": "s0"
		}
	}`
	doc, errs := validate.ValidateBytes([]byte(sm), "d.json")
	if errs.HasErrors() {
		t.Fatalf("unexpected validation errors: %v", errs)
	}
	warns := lint.Lint(doc)
	found := false
	for _, w := range warns {
		if w.Code == "W303" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a DeepNesting (W303) warning for an 8-level-deep hierarchy, got %v", warns)
	}
}

func TestLint_NoWarningsForClean(t *testing.T) {
	doc, errs := validate.ValidateBytes([]byte(`{
		"metadata": {"bsif_version": "1.0.0", "name": "clean"},
		"semantics": {
			"type": "temporal",
			"logic": "ltl",
			"variables": {"x": "bool"},
			"properties": [{"name": "p", "formula": {"op": "variable", "var": "x"}}]
		}
	}`), "d.json")
	if errs.HasErrors() {
		t.Fatalf("unexpected validation errors: %v", errs)
	}
	if warns := lint.Lint(doc); len(warns) != 0 {
		t.Errorf("expected no lint warnings, got %v", warns)
	}
}
