package convert_test

import (
	"encoding/json"
	"testing"

	"github.com/ormasoftchile/bsif/pkg/bsif/convert"
)

const yamlDoc = `
metadata:
  bsif_version: "1.0.0"
  name: sample
semantics:
  type: state-machine
  states:
    - name: a
    - name: b
  transitions:
    - from: a
      to: b
      event: go
  initial: a
`

func TestToJSON_FromYAML(t *testing.T) {
	out, err := convert.ToJSON([]byte(yamlDoc), "sample.yaml")
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	var tree map[string]any
	if err := json.Unmarshal(out, &tree); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	meta := tree["metadata"].(map[string]any)
	if meta["name"] != "sample" {
		t.Errorf("name = %v, want sample", meta["name"])
	}
}

func TestToYAML_RoundTripsThroughCanonicalJSON(t *testing.T) {
	jsonOut, err := convert.ToJSON([]byte(yamlDoc), "sample.yaml")
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	yamlOut, err := convert.ToYAML([]byte(yamlDoc), "sample.yaml")
	if err != nil {
		t.Fatalf("ToYAML: %v", err)
	}
	reJSON, err := convert.ToJSON(yamlOut, "sample.yaml")
	if err != nil {
		t.Fatalf("re-decoding converted YAML failed: %v", err)
	}
	if string(jsonOut) != string(reJSON) {
		t.Errorf("YAML conversion did not round-trip to the same canonical JSON:\n%s\nvs\n%s", jsonOut, reJSON)
	}
}

func TestToJSON_RejectsMalformedInput(t *testing.T) {
	if _, err := convert.ToJSON([]byte("not: [valid"), "bad.yaml"); err == nil {
		t.Fatal("expected an error for malformed YAML input")
	}
}
