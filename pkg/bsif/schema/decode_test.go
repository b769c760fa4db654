package schema

import (
	"encoding/json"
	"testing"

	"github.com/ormasoftchile/bsif/pkg/bsif/diag"
)

const trafficLightJSON = `{
	"metadata": {"bsif_version": "1.0.0", "name": "traffic-light"},
	"semantics": {
		"type": "state-machine",
		"states": [{"name": "red"}, {"name": "green"}, {"name": "yellow"}],
		"transitions": [
			{"from": "red", "to": "green", "event": "timer"},
			{"from": "green", "to": "yellow", "event": "timer"},
			{"from": "yellow", "to": "red", "event": "timer"}
		],
		"initial": "red"
	}
}`

func TestDecode_StateMachine(t *testing.T) {
	doc, _, errs := Decode([]byte(trafficLightJSON), "doc.json", DefaultLimits())
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if doc.Metadata.Name != "traffic-light" {
		t.Errorf("name = %q, want traffic-light", doc.Metadata.Name)
	}
	sm, ok := doc.Semantics.(StateMachine)
	if !ok {
		t.Fatalf("semantics = %T, want StateMachine", doc.Semantics)
	}
	if len(sm.States) != 3 || len(sm.Transitions) != 3 {
		t.Errorf("states=%d transitions=%d, want 3/3", len(sm.States), len(sm.Transitions))
	}
	if sm.Initial != "red" {
		t.Errorf("initial = %q, want red", sm.Initial)
	}
}

func TestDecode_YAMLEquivalent(t *testing.T) {
	yamlDoc := `
metadata:
  bsif_version: "1.0.0"
  name: traffic-light
semantics:
  type: state-machine
  states:
    - name: red
    - name: green
    - name: yellow
  transitions:
    - from: red
      to: green
      event: timer
    - from: green
      to: yellow
      event: timer
    - from: yellow
      to: red
      event: timer
  initial: red
`
	jsonDoc, _, jsonErrs := Decode([]byte(trafficLightJSON), "doc.json", DefaultLimits())
	yamlDocDecoded, _, yamlErrs := Decode([]byte(yamlDoc), "doc.yaml", DefaultLimits())
	if jsonErrs.HasErrors() || yamlErrs.HasErrors() {
		t.Fatalf("unexpected errors: json=%v yaml=%v", jsonErrs, yamlErrs)
	}
	jb, _ := EncodeJSON(jsonDoc)
	yb, _ := EncodeJSON(yamlDocDecoded)
	if string(jb) != string(yb) {
		t.Errorf("JSON and YAML decodes diverge:\n%s\nvs\n%s", jb, yb)
	}
}

func TestDecode_MissingMetadata(t *testing.T) {
	_, _, errs := Decode([]byte(`{"semantics": {"type": "state-machine", "states": [], "transitions": [], "initial": "a"}}`), "d.json", DefaultLimits())
	if !errs.HasErrors() {
		t.Fatal("expected missing-field error for absent metadata")
	}
}

func TestDecode_UnknownVariant(t *testing.T) {
	data := []byte(`{"metadata": {"bsif_version": "1.0.0", "name": "x"}, "semantics": {"type": "bogus"}}`)
	_, _, errs := Decode(data, "d.json", DefaultLimits())
	if !errs.HasErrors() {
		t.Fatal("expected error for unknown semantics variant")
	}
	if errs[0].Code != diag.CodeInvalidFieldValue {
		t.Errorf("code = %s, want %s for an unknown semantics type", errs[0].Code, diag.CodeInvalidFieldValue)
	}
}

func TestDecode_UnknownField(t *testing.T) {
	data := []byte(`{"metadata": {"bsif_version": "1.0.0", "name": "x"}, "semantics": {"type": "state-machine", "states": [], "transitions": [], "initial": "a"}, "bogus": true}`)
	_, _, errs := Decode(data, "d.json", DefaultLimits())
	if !errs.HasErrors() {
		t.Fatal("expected error for unknown top-level field")
	}
}

func TestDecode_DuplicateStateName(t *testing.T) {
	data := []byte(`{"metadata": {"bsif_version": "1.0.0", "name": "x"}, "semantics": {
		"type": "state-machine",
		"states": [{"name": "a"}, {"name": "a"}],
		"transitions": [],
		"initial": "a"
	}}`)
	_, _, errs := Decode(data, "d.json", DefaultLimits())
	if !errs.HasErrors() {
		t.Fatal("expected error for duplicate state name")
	}
}

func TestDecode_BadVersionFormat(t *testing.T) {
	data := []byte(`{"metadata": {"bsif_version": "v1", "name": "x"}, "semantics": {"type": "state-machine", "states": [{"name":"a"}], "transitions": [], "initial": "a"}}`)
	_, _, errs := Decode(data, "d.json", DefaultLimits())
	if !errs.HasErrors() {
		t.Fatal("expected error for malformed bsif_version")
	}
}

func TestDecode_MalformedJSON(t *testing.T) {
	_, _, errs := Decode([]byte(`{not json`), "d.json", DefaultLimits())
	if !errs.HasErrors() || errs[0].Code != diag.CodeInvalidJSON {
		t.Fatalf("expected an InvalidJson error, got %v", errs)
	}
}

func TestDecode_UnrecognizedExtension(t *testing.T) {
	_, _, errs := Decode([]byte(`{}`), "d.txt", DefaultLimits())
	if !errs.HasErrors() {
		t.Fatal("expected error for unrecognized extension")
	}
}

func TestDecode_DocumentTooLarge(t *testing.T) {
	lim := DefaultLimits()
	lim.MaxBytes = 4
	_, _, errs := Decode([]byte(trafficLightJSON), "d.json", lim)
	if !errs.HasErrors() || errs[0].Code != diag.CodeDocumentTooLarge {
		t.Fatalf("expected a DocumentTooLarge error, got %v", errs)
	}
}

func TestDecode_NestingTooDeep(t *testing.T) {
	lim := DefaultLimits()
	lim.MaxDepth = 1
	_, _, errs := Decode([]byte(trafficLightJSON), "d.json", lim)
	if !errs.HasErrors() || errs[0].Code != diag.CodeNestingTooDeep {
		t.Fatalf("expected a NestingTooDeep error, got %v", errs)
	}
}

func TestDecode_StringTooLong(t *testing.T) {
	lim := DefaultLimits()
	lim.MaxStringBytes = 2
	_, _, errs := Decode([]byte(trafficLightJSON), "d.json", lim)
	if !errs.HasErrors() {
		t.Fatal("expected error for over-length string")
	}
}

func TestDecode_LTLFormula(t *testing.T) {
	data := []byte(`{
		"metadata": {"bsif_version": "1.0.0", "name": "t"},
		"semantics": {
			"type": "temporal",
			"logic": "ltl",
			"variables": {"x": "bool"},
			"properties": [{"name": "always-x", "formula": {"op": "globally", "children": [{"op": "variable", "var": "x"}]}}]
		}
	}`)
	doc, _, errs := Decode(data, "d.json", DefaultLimits())
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs)
	}
	temp, ok := doc.Semantics.(Temporal)
	if !ok {
		t.Fatalf("semantics = %T, want Temporal", doc.Semantics)
	}
	if len(temp.Properties) != 1 || temp.Properties[0].Formula.Op != "globally" {
		t.Errorf("unexpected formula decode: %+v", temp.Properties)
	}
}

// TestDecode_RoundTrip verifies that decoding
// the canonical JSON re-serialization of a document yields an equal
// document (compared via their own canonical JSON forms, since Document
// embeds an unexported-interface field that cannot be compared with
// reflect.DeepEqual across decode passes involving map iteration order).
func TestDecode_RoundTrip(t *testing.T) {
	doc, _, errs := Decode([]byte(trafficLightJSON), "d.json", DefaultLimits())
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs)
	}
	encoded, err := EncodeJSON(doc)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	doc2, _, errs2 := Decode(encoded, "d.json", DefaultLimits())
	if errs2.HasErrors() {
		t.Fatalf("unexpected errors decoding re-serialized document: %v", errs2)
	}
	encoded2, _ := EncodeJSON(doc2)
	if string(encoded) != string(encoded2) {
		t.Errorf("decode(serialize(d)) != d:\n%s\nvs\n%s", encoded, encoded2)
	}
}

func TestDecode_ReferencesSection(t *testing.T) {
	data := []byte(`{
		"metadata": {"bsif_version": "1.0.0", "name": "root"},
		"semantics": {"type": "state-machine", "states": [{"name":"a"}], "transitions": [], "initial": "a"},
		"references": {"child": {"path": "./child.bsif.json", "version": "1.0.0"}}
	}`)
	doc, _, errs := Decode(data, "d.json", DefaultLimits())
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs)
	}
	ref, ok := doc.References["child"]
	if !ok || ref.Path != "./child.bsif.json" || ref.Version != "1.0.0" {
		t.Errorf("references[child] = %+v", ref)
	}
}

func TestEncodeJSON_IsValidJSON(t *testing.T) {
	doc, _, errs := Decode([]byte(trafficLightJSON), "d.json", DefaultLimits())
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs)
	}
	out, err := EncodeJSON(doc)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	var tree any
	if err := json.Unmarshal(out, &tree); err != nil {
		t.Fatalf("encoded output is not valid JSON: %v", err)
	}
}
