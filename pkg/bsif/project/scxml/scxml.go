// Package scxml maps a BSIF state-machine document to/from SCXML via
// encoding/xml.
package scxml

import (
	"encoding/xml"
	"fmt"

	"github.com/ormasoftchile/bsif/pkg/bsif/schema"
)

type scxmlDoc struct {
	XMLName xml.Name     `xml:"scxml"`
	Initial string       `xml:"initial,attr"`
	States  []scxmlState `xml:"state"`
}

type scxmlState struct {
	ID          string            `xml:"id,attr"`
	Transitions []scxmlTransition `xml:"transition"`
	OnEntry     *scxmlExec        `xml:"onentry,omitempty"`
	OnExit      *scxmlExec        `xml:"onexit,omitempty"`
}

type scxmlExec struct {
	Action string `xml:"action,attr,omitempty"`
}

type scxmlTransition struct {
	Event  string `xml:"event,attr,omitempty"`
	Target string `xml:"target,attr"`
	Cond   string `xml:"cond,attr,omitempty"`
}

// Export renders doc's state machine as SCXML.
func Export(doc *schema.Document) ([]byte, error) {
	sm, ok := doc.Semantics.(schema.StateMachine)
	if !ok {
		return nil, fmt.Errorf("scxml export only supports state-machine semantics, got %s", doc.Semantics.Type())
	}
	out := scxmlDoc{Initial: sm.Initial}
	index := map[string]int{}
	for _, s := range sm.States {
		st := scxmlState{ID: s.Name}
		if s.Entry != "" {
			st.OnEntry = &scxmlExec{Action: s.Entry}
		}
		if s.Exit != "" {
			st.OnExit = &scxmlExec{Action: s.Exit}
		}
		index[s.Name] = len(out.States)
		out.States = append(out.States, st)
	}
	for _, t := range sm.Transitions {
		i, ok := index[t.From]
		if !ok {
			continue
		}
		out.States[i].Transitions = append(out.States[i].Transitions, scxmlTransition{Event: t.Event, Target: t.To, Cond: t.Guard})
	}
	data, err := xml.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal scxml: %w", err)
	}
	return append([]byte(xml.Header), data...), nil
}

// Import parses SCXML back into a state-machine document. Best-effort:
// only the structure Export produces is guaranteed to round-trip.
func Import(data []byte) (*schema.Document, error) {
	var in scxmlDoc
	if err := xml.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("unmarshal scxml: %w", err)
	}
	sm := schema.StateMachine{Initial: in.Initial}
	for _, s := range in.States {
		st := schema.State{Name: s.ID}
		if s.OnEntry != nil {
			st.Entry = s.OnEntry.Action
		}
		if s.OnExit != nil {
			st.Exit = s.OnExit.Action
		}
		sm.States = append(sm.States, st)
		for _, t := range s.Transitions {
			sm.Transitions = append(sm.Transitions, schema.Transition{
				From: s.ID, To: t.Target, Event: t.Event, Guard: t.Cond,
			})
		}
	}
	return &schema.Document{
		Metadata:  schema.Metadata{BSIFVersion: "1.0.0", Name: "imported"},
		Semantics: sm,
	}, nil
}
