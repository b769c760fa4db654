package scxml_test

import (
	"strings"
	"testing"

	"github.com/ormasoftchile/bsif/pkg/bsif/project/scxml"
	"github.com/ormasoftchile/bsif/pkg/bsif/schema"
)

func doorDoc() *schema.Document {
	return &schema.Document{
		Metadata: schema.Metadata{BSIFVersion: "1.0.0", Name: "Door"},
		Semantics: schema.StateMachine{
			States: []schema.State{
				{Name: "closed", Entry: "lock"},
				{Name: "open", Exit: "chime"},
			},
			Transitions: []schema.Transition{
				{From: "closed", To: "open", Event: "push"},
				{From: "open", To: "closed", Event: "release"},
			},
			Initial: "closed",
		},
	}
}

func TestExport_EmitsSCXMLStates(t *testing.T) {
	out, err := scxml.Export(doorDoc())
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	src := string(out)
	if !strings.Contains(src, `initial="closed"`) {
		t.Errorf("missing initial attribute:\n%s", src)
	}
	if !strings.Contains(src, `id="open"`) || !strings.Contains(src, `id="closed"`) {
		t.Errorf("missing state ids:\n%s", src)
	}
	if !strings.Contains(src, `event="push"`) {
		t.Errorf("missing transition event:\n%s", src)
	}
}

func TestRoundTrip_PreservesDiscriminator(t *testing.T) {
	original := doorDoc()
	exported, err := scxml.Export(original)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	reimported, err := scxml.Import(exported)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if reimported.Semantics.Type() != original.Semantics.Type() {
		t.Errorf("type = %s, want %s", reimported.Semantics.Type(), original.Semantics.Type())
	}
	sm := reimported.Semantics.(schema.StateMachine)
	if sm.Initial != "closed" {
		t.Errorf("initial = %q, want closed", sm.Initial)
	}
	if len(sm.States) != 2 {
		t.Errorf("states = %d, want 2", len(sm.States))
	}
	if len(sm.Transitions) != 2 {
		t.Errorf("transitions = %d, want 2", len(sm.Transitions))
	}
}

func TestExport_RejectsNonStateMachine(t *testing.T) {
	doc := &schema.Document{
		Metadata:  schema.Metadata{BSIFVersion: "1.0.0", Name: "t"},
		Semantics: schema.Events{},
	}
	if _, err := scxml.Export(doc); err == nil {
		t.Fatal("expected an error for non-state-machine semantics")
	}
}

func TestImport_RejectsMalformedXML(t *testing.T) {
	if _, err := scxml.Import([]byte("<scxml><state")); err == nil {
		t.Fatal("expected an error for truncated XML")
	}
}
