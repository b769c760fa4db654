// Package testgen emits target-language test scaffolding from a decoded
// state machine: a single test that walks one path through the machine's
// transitions and asserts the state it ends in (plain testing.T).
package testgen

import (
	"bytes"
	"fmt"
	"text/template"
	"unicode"

	"github.com/ormasoftchile/bsif/pkg/bsif/schema"
)

var goTestTmpl = template.Must(template.New("gotest").Parse(`package {{.Package}}

import "testing"

func Test{{.Name}}_Walk(t *testing.T) {
	inst := New{{.Name}}()
{{range .Events}}	inst = mustSend(t, inst, "{{.}}")
{{end}}	if inst.CurrentState() != "{{.FinalState}}" {
		t.Fatalf("final state = %q, want %q", inst.CurrentState(), "{{.FinalState}}")
	}
}
`))

type walkData struct {
	Package    string
	Name       string
	Events     []string
	FinalState string
}

// EmitGoTest renders a Go test walking doc's state machine from initial,
// taking each state's first declared outgoing transition, until it reaches
// a final state, a state with no outgoing transitions, or a state already
// visited; the test asserts that last state.
func EmitGoTest(doc *schema.Document, pkg string) ([]byte, error) {
	sm, ok := doc.Semantics.(schema.StateMachine)
	if !ok {
		return nil, fmt.Errorf("testgen only supports state-machine semantics, got %s", doc.Semantics.Type())
	}
	finals := map[string]bool{}
	for _, f := range sm.Final {
		finals[f] = true
	}
	adj := map[string][]schema.Transition{}
	for _, t := range sm.Transitions {
		adj[t.From] = append(adj[t.From], t)
	}

	var events []string
	cur := sm.Initial
	visited := map[string]bool{cur: true}
	for !finals[cur] {
		outs := adj[cur]
		if len(outs) == 0 {
			break
		}
		next := outs[0]
		events = append(events, next.Event)
		cur = next.To
		if visited[cur] {
			break
		}
		visited[cur] = true
	}

	data := walkData{
		Package:    pkg,
		Name:       sanitize(doc.Metadata.Name),
		Events:     events,
		FinalState: cur,
	}
	var buf bytes.Buffer
	if err := goTestTmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render go test: %w", err)
	}
	return buf.Bytes(), nil
}

func sanitize(name string) string {
	out := make([]rune, 0, len(name))
	upper := true
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			if upper {
				r = unicode.ToUpper(r)
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
