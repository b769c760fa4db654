package schema

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
)

// variantSamples is reflected to produce one $defs entry per semantics
// variant, in discriminator order.
var variantSamples = []Semantics{
	StateMachine{}, Temporal{}, Constraints{}, Events{}, Interaction{}, Hybrid{},
}

// GenerateJSONSchema produces a JSON Schema Draft 2020-12 document for the
// BSIF document model. The reflector cannot express a Go interface field
// (Document.Semantics) as a oneOf over concrete variants on its own, so
// each variant is reflected separately, spliced into the root schema's
// $defs, and the semantics property is rewritten as a oneOf over them.
func GenerateJSONSchema() ([]byte, error) {
	r := new(jsonschema.Reflector)
	root := r.Reflect(&Document{})
	root.ID = "https://github.com/ormasoftchile/bsif/schemas/bsif-v1.json"
	root.Title = "Behavioral Specification Interchange Format"
	root.Description = "Schema for BSIF documents (Draft 2020-12)"
	if root.Definitions == nil {
		root.Definitions = jsonschema.Definitions{}
	}

	variantRefs := make([]*jsonschema.Schema, 0, len(variantSamples))
	for _, sample := range variantSamples {
		vr := new(jsonschema.Reflector)
		s := vr.Reflect(sample)
		for defName, def := range s.Definitions {
			root.Definitions[defName] = def
		}
		name := strings.TrimPrefix(fmt.Sprintf("%T", sample), "schema.")
		if def, ok := root.Definitions[name]; ok {
			patchVariant(def, sample.Type())
		}
		variantRefs = append(variantRefs, &jsonschema.Schema{Ref: "#/$defs/" + name})
	}

	if docDef, ok := root.Definitions["Document"]; ok {
		if semProp, ok := docDef.Properties.Get("semantics"); ok {
			semProp.Ref = ""
			semProp.Type = ""
			semProp.OneOf = variantRefs
		}
	}

	data, err := json.MarshalIndent(root, "", "\t")
	if err != nil {
		return nil, fmt.Errorf("marshal bsif schema: %w", err)
	}
	return data, nil
}

// patchVariant reshapes a reflected variant definition into the wire
// format: every variant carries a required "type" discriminator, the
// events declaration block is a name-keyed map rather than the slice the
// Go model uses, and interaction participants accept the bare-string
// shorthand.
func patchVariant(def *jsonschema.Schema, vt VariantType) {
	def.Properties.Set("type", &jsonschema.Schema{
		Type: "string",
		Enum: []any{string(vt)},
	})
	def.Required = append(def.Required, "type")

	switch vt {
	case VariantEvents:
		def.Properties.Set("events", &jsonschema.Schema{
			Type:                 "object",
			AdditionalProperties: &jsonschema.Schema{Ref: "#/$defs/EventDeclaration"},
		})
	case VariantInteraction:
		def.Properties.Set("participants", &jsonschema.Schema{
			Type: "array",
			Items: &jsonschema.Schema{
				AnyOf: []*jsonschema.Schema{
					{Type: "string"},
					{Ref: "#/$defs/Participant"},
				},
			},
		})
	}
}
