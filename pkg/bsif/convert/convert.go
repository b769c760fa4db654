// Package convert pretty-prints a BSIF document between JSON and YAML
// without changing its semantics.
package convert

import (
	"fmt"

	"github.com/ormasoftchile/bsif/pkg/bsif/schema"
	"gopkg.in/yaml.v3"
)

// ToJSON decodes data (detected by pathHint) and re-renders it as
// canonical JSON.
func ToJSON(data []byte, pathHint string) ([]byte, error) {
	doc, _, errs := schema.Decode(data, pathHint, schema.DefaultLimits())
	if errs.HasErrors() {
		return nil, fmt.Errorf("decode: %s", errs.Errors()[0].Error())
	}
	return schema.EncodeJSON(doc)
}

// ToYAML decodes data and re-renders it as YAML. It round-trips through
// the canonical JSON tree so the output always reflects the document's
// declared-order/lexicographic-order rules.
func ToYAML(data []byte, pathHint string) ([]byte, error) {
	jsonBytes, err := ToJSON(data, pathHint)
	if err != nil {
		return nil, err
	}
	var tree any
	if err := yaml.Unmarshal(jsonBytes, &tree); err != nil {
		return nil, fmt.Errorf("reparse canonical json: %w", err)
	}
	return yaml.Marshal(tree)
}
