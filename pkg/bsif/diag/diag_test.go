package diag_test

import (
	"strings"
	"testing"

	"github.com/ormasoftchile/bsif/pkg/bsif/diag"
)

func TestJoinPath(t *testing.T) {
	cases := []struct {
		path []string
		want string
	}{
		{nil, "$"},
		{[]string{"semantics"}, "$/semantics"},
		{[]string{"semantics", "states", "0", "name"}, "$/semantics/states/0/name"},
	}
	for _, c := range cases {
		if got := diag.JoinPath(c.path); got != c.want {
			t.Errorf("JoinPath(%v) = %q, want %q", c.path, got, c.want)
		}
	}
}

func TestList_Bucketing(t *testing.T) {
	l := diag.List{
		diag.Errorf(diag.CodeUnknownState, []string{"semantics", "initial"}, "unknown initial state %q", "bogus"),
		diag.Warnf(diag.CodeUnusedDeclaration, []string{"semantics", "variables", "x"}, "variable %q is never referenced", "x"),
	}
	if !l.HasErrors() {
		t.Fatal("expected HasErrors to be true")
	}
	if len(l.Errors()) != 1 {
		t.Errorf("Errors() = %d, want 1", len(l.Errors()))
	}
	if len(l.Warnings()) != 1 {
		t.Errorf("Warnings() = %d, want 1", len(l.Warnings()))
	}
}

func TestList_HasErrorsFalseForWarningsOnly(t *testing.T) {
	l := diag.List{diag.Warnf(diag.CodeNondeterministicTransition, nil, "two transitions share (from, event)")}
	if l.HasErrors() {
		t.Fatal("expected HasErrors to be false for a warnings-only list")
	}
}

func TestDiagnostic_ErrorStringIncludesCodePathAndSuggestion(t *testing.T) {
	d := diag.New(diag.CodeUnknownState, diag.SeverityError, "transition targets unknown state", "semantics", "transitions", "2", "to")
	d.Suggestion = "did you mean \"closed\"?"
	msg := d.Error()
	if !strings.Contains(msg, string(diag.CodeUnknownState)) {
		t.Errorf("missing code in %q", msg)
	}
	if !strings.Contains(msg, "$/semantics/transitions/2/to") {
		t.Errorf("missing path in %q", msg)
	}
	if !strings.Contains(msg, "suggestion:") {
		t.Errorf("missing suggestion in %q", msg)
	}
}

func TestLocation_StringNilReceiver(t *testing.T) {
	var loc *diag.Location
	if got := loc.String(); got != "" {
		t.Errorf("String() on nil Location = %q, want empty", got)
	}
}
