package validate

import (
	"github.com/ormasoftchile/bsif/pkg/bsif/diag"
	"github.com/ormasoftchile/bsif/pkg/bsif/schema"
)

// ValidateFile decodes path and, if decoding succeeds, runs semantic
// validation. Structural diagnostics from decode abort before semantic
// checks run, mirroring the decoder's fail-fast contract. Semantic
// diagnostics are located through the decoder's source map so they carry
// the same file:line:column prefix decode errors do.
func ValidateFile(path string) (*schema.Document, diag.List) {
	doc, sm, errs := schema.DecodeFile(path)
	if errs.HasErrors() {
		return nil, errs
	}
	diags := Validate(doc)
	sm.Annotate(diags)
	return doc, diags
}

// ValidateBytes is ValidateFile for in-memory documents, with pathHint
// used for format detection and diagnostic locations.
func ValidateBytes(data []byte, pathHint string) (*schema.Document, diag.List) {
	doc, sm, errs := schema.Decode(data, pathHint, schema.DefaultLimits())
	if errs.HasErrors() {
		return nil, errs
	}
	diags := Validate(doc)
	sm.Annotate(diags)
	return doc, diags
}
