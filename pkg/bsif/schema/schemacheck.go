package schema

import (
	"bytes"
	"encoding/json"
	"fmt"

	jsonschemav6 "github.com/santhosh-tekuri/jsonschema/v6"
)

// ValidateAgainstJSONSchema compiles the exported BSIF JSON Schema and
// checks doc (already-decoded JSON bytes, not YAML) against it. This is a
// second, independent validation path alongside the typed decoder: the
// generated schema is a public deliverable in its own right, so it is
// worth round-tripping through a standalone JSON Schema engine instead of
// only trusting the Go struct tags that produced it.
func ValidateAgainstJSONSchema(doc []byte) error {
	schemaBytes, err := GenerateJSONSchema()
	if err != nil {
		return fmt.Errorf("generate schema: %w", err)
	}

	c := jsonschemav6.NewCompiler()
	schemaDoc, err := jsonschemav6.UnmarshalJSON(bytes.NewReader(schemaBytes))
	if err != nil {
		return fmt.Errorf("unmarshal generated schema: %w", err)
	}
	const schemaURL = "mem://bsif-v1.json"
	if err := c.AddResource(schemaURL, schemaDoc); err != nil {
		return fmt.Errorf("add schema resource: %w", err)
	}
	compiled, err := c.Compile(schemaURL)
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}

	var instance any
	if err := json.Unmarshal(doc, &instance); err != nil {
		return fmt.Errorf("unmarshal document: %w", err)
	}
	if err := compiled.Validate(instance); err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}
	return nil
}
