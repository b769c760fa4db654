package testgen_test

import (
	"strings"
	"testing"

	"github.com/ormasoftchile/bsif/pkg/bsif/testgen"
	"github.com/ormasoftchile/bsif/pkg/bsif/validate"
)

func TestEmitGoTest_WalksToFinal(t *testing.T) {
	doc, errs := validate.ValidateBytes([]byte(`{
		"metadata": {"bsif_version": "1.0.0", "name": "Door Cycle"},
		"semantics": {
			"type": "state-machine",
			"states": [{"name": "idle"}, {"name": "running"}, {"name": "done"}],
			"transitions": [
				{"from": "idle", "to": "running", "event": "start"},
				{"from": "running", "to": "done", "event": "finish"}
			],
			"initial": "idle",
			"final": ["done"]
		}
	}`), "d.json")
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs)
	}
	out, err := testgen.EmitGoTest(doc, "main")
	if err != nil {
		t.Fatalf("EmitGoTest: %v", err)
	}
	src := string(out)
	if !strings.Contains(src, "package main") {
		t.Errorf("missing package clause:\n%s", src)
	}
	if !strings.Contains(src, `mustSend(t, inst, "start")`) || !strings.Contains(src, `mustSend(t, inst, "finish")`) {
		t.Errorf("expected both events walked in order:\n%s", src)
	}
	if !strings.Contains(src, `"done"`) {
		t.Errorf("expected final state done in output:\n%s", src)
	}
}

func TestEmitGoTest_RejectsNonStateMachine(t *testing.T) {
	doc, errs := validate.ValidateBytes([]byte(`{
		"metadata": {"bsif_version": "1.0.0", "name": "t"},
		"semantics": {"type": "temporal", "logic": "ltl", "variables": {}, "properties": []}
	}`), "d.json")
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if _, err := testgen.EmitGoTest(doc, "main"); err == nil {
		t.Fatal("expected an error for non-state-machine semantics")
	}
}
