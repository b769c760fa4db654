// Package tla maps a BSIF state-machine document to TLA+ surface syntax
// and back; other semantics variants are rejected. Projection is best-effort in the TLA+→BSIF
// direction; its only hard obligation is round-tripping semantics.type.
// Rendering goes through text/template rather than hand-built string
// concatenation.
package tla

import (
	"bytes"
	"fmt"
	"regexp"
	"text/template"

	"github.com/ormasoftchile/bsif/pkg/bsif/schema"
)

var moduleTmpl = template.Must(template.New("tla").Parse(`---- MODULE {{.Name}} ----
EXTENDS Naturals, Sequences

VARIABLE state

Init == state = "{{.Initial}}"

Next ==
{{range $i, $t := .Transitions}}{{if $i}}  \/ {{else}}  \/ {{end}}(state = "{{$t.From}}" /\ state' = "{{$t.To}}"){{"\n"}}{{end}}
====
`))

type transitionView struct{ From, To string }

// Export renders doc's state machine as a TLA+ module. Non-state-machine
// variants are not yet supported and return an error.
func Export(doc *schema.Document) ([]byte, error) {
	sm, ok := doc.Semantics.(schema.StateMachine)
	if !ok {
		return nil, fmt.Errorf("tla export only supports state-machine semantics, got %s", doc.Semantics.Type())
	}
	views := make([]transitionView, 0, len(sm.Transitions))
	for _, t := range sm.Transitions {
		views = append(views, transitionView{From: t.From, To: t.To})
	}
	var buf bytes.Buffer
	data := struct {
		Name        string
		Initial     string
		Transitions []transitionView
	}{Name: sanitizeModuleName(doc.Metadata.Name), Initial: sm.Initial, Transitions: views}
	if err := moduleTmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render tla module: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	moduleNameRe = regexp.MustCompile(`MODULE\s+(\w+)`)
	initRe       = regexp.MustCompile(`Init\s*==\s*state\s*=\s*"([^"]+)"`)
	nextLineRe   = regexp.MustCompile(`state\s*=\s*"([^"]+)"\s*/\\\s*state'\s*=\s*"([^"]+)"`)
)

// Import does best-effort parsing of the subset of TLA+ Export produces
// back into a state-machine document. Surface TLA+ written by hand is out
// of scope; the only hard obligation is that Import(Export(doc)) preserves
// semantics.type.
func Import(data []byte) (*schema.Document, error) {
	text := string(data)
	nameMatch := moduleNameRe.FindStringSubmatch(text)
	if nameMatch == nil {
		return nil, fmt.Errorf("no MODULE header found")
	}
	initMatch := initRe.FindStringSubmatch(text)
	if initMatch == nil {
		return nil, fmt.Errorf("no Init clause found")
	}
	sm := schema.StateMachine{Initial: initMatch[1]}
	seen := map[string]bool{}
	addState := func(name string) {
		if !seen[name] {
			seen[name] = true
			sm.States = append(sm.States, schema.State{Name: name})
		}
	}
	addState(sm.Initial)
	for _, m := range nextLineRe.FindAllStringSubmatch(text, -1) {
		addState(m[1])
		addState(m[2])
		sm.Transitions = append(sm.Transitions, schema.Transition{From: m[1], To: m[2]})
	}
	return &schema.Document{
		Metadata:  schema.Metadata{BSIFVersion: "1.0.0", Name: nameMatch[1]},
		Semantics: sm,
	}, nil
}

// sanitizeModuleName collapses a document name to a TLA+-safe module
// identifier: non-alphanumerics are dropped and the following letter is
// capitalized, so "Traffic Light" becomes "TrafficLight".
func sanitizeModuleName(name string) string {
	out := make([]rune, 0, len(name))
	upper := true
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			if upper && r >= 'a' && r <= 'z' {
				r = r - 'a' + 'A'
			}
			out = append(out, r)
			upper = false
		} else {
			upper = true
		}
	}
	if len(out) == 0 {
		return "Spec"
	}
	return string(out)
}
