package smtlib_test

import (
	"strings"
	"testing"

	"github.com/ormasoftchile/bsif/pkg/bsif/project/smtlib"
	"github.com/ormasoftchile/bsif/pkg/bsif/schema"
)

func balanceDoc() *schema.Document {
	return &schema.Document{
		Metadata: schema.Metadata{BSIFVersion: "1.0.0", Name: "Account Balance"},
		Semantics: schema.Constraints{
			Target: schema.ConstraintTarget{Function: "withdraw"},
			Preconditions: []schema.Constraint{
				{Description: "sufficient funds", Expression: "(>= balance amount)"},
			},
			Invariants: []schema.Constraint{
				{Description: "balance never negative", Expression: ">= balance 0"},
			},
		},
	}
}

func TestExport_EmitsAssertForms(t *testing.T) {
	out, err := smtlib.Export(balanceDoc())
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	src := string(out)
	if !strings.Contains(src, "(assert (>= balance amount)) ; pre: sufficient funds") {
		t.Errorf("missing precondition assert, already-wrapped expr should not be double-wrapped:\n%s", src)
	}
	if !strings.Contains(src, "(assert (>= balance 0)) ; inv: balance never negative") {
		t.Errorf("missing invariant assert, bare expr should be wrapped:\n%s", src)
	}
}

func TestExport_RejectsNonConstraints(t *testing.T) {
	doc := &schema.Document{
		Metadata:  schema.Metadata{BSIFVersion: "1.0.0", Name: "t"},
		Semantics: schema.StateMachine{},
	}
	if _, err := smtlib.Export(doc); err == nil {
		t.Fatal("expected an error for non-constraints semantics")
	}
}

func TestImport_ExtractsTopLevelAsserts(t *testing.T) {
	src := `; account
(assert (>= balance 0))
(assert (<= balance limit))
`
	doc, err := smtlib.Import([]byte(src), "account")
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if doc.Semantics.Type() != schema.VariantConstraints {
		t.Fatalf("type = %s, want %s", doc.Semantics.Type(), schema.VariantConstraints)
	}
	c := doc.Semantics.(schema.Constraints)
	if len(c.Invariants) != 2 {
		t.Fatalf("invariants = %d, want 2", len(c.Invariants))
	}
	if c.Target.Module != "account" {
		t.Errorf("target module = %q, want account", c.Target.Module)
	}
}

func TestRoundTrip_PreservesDiscriminator(t *testing.T) {
	original := balanceDoc()
	exported, err := smtlib.Export(original)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	reimported, err := smtlib.Import(exported, "account")
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if reimported.Semantics.Type() != original.Semantics.Type() {
		t.Errorf("type = %s, want %s", reimported.Semantics.Type(), original.Semantics.Type())
	}
}
