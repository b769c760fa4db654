package schema

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/ormasoftchile/bsif/pkg/bsif/ltl"
)

// EncodeJSON renders doc as canonical JSON: declared-object arrays keep
// insertion order, free-form maps are sorted lexicographically, output is
// tab-indented.
func EncodeJSON(doc *Document) ([]byte, error) {
	tree := encodeDocument(doc)
	return json.MarshalIndent(tree, "", "\t")
}

func encodeDocument(doc *Document) map[string]any {
	out := map[string]any{
		"metadata":  encodeMetadata(doc.Metadata),
		"semantics": encodeSemantics(doc.Semantics),
	}
	if len(doc.References) > 0 {
		refs := map[string]any{}
		for name, r := range doc.References {
			rm := map[string]any{"path": r.Path}
			if r.Version != "" {
				rm["version"] = r.Version
			}
			refs[name] = rm
		}
		out["references"] = refs
	}
	return out
}

func encodeMetadata(m Metadata) map[string]any {
	out := map[string]any{"bsif_version": m.BSIFVersion, "name": m.Name}
	if m.Version != "" {
		out["version"] = m.Version
	}
	if m.Description != "" {
		out["description"] = m.Description
	}
	if len(m.Authors) > 0 {
		out["authors"] = m.Authors
	}
	if len(m.Tags) > 0 {
		out["tags"] = m.Tags
	}
	return out
}

func encodeSemantics(s Semantics) map[string]any {
	switch v := s.(type) {
	case StateMachine:
		return encodeStateMachine(v)
	case Temporal:
		return encodeTemporal(v)
	case Constraints:
		return encodeConstraints(v)
	case Events:
		return encodeEvents(v)
	case Interaction:
		return encodeInteraction(v)
	case Hybrid:
		return encodeHybrid(v)
	default:
		panic(fmt.Sprintf("unhandled semantics variant %T", s))
	}
}

func encodeStateMachine(sm StateMachine) map[string]any {
	states := make([]any, 0, len(sm.States))
	for _, s := range sm.States {
		sm := map[string]any{"name": s.Name}
		if s.Parent != "" {
			sm["parent"] = s.Parent
		}
		if s.Parallel {
			sm["parallel"] = true
		}
		if s.Entry != "" {
			sm["entry"] = s.Entry
		}
		if s.Exit != "" {
			sm["exit"] = s.Exit
		}
		states = append(states, sm)
	}
	trans := make([]any, 0, len(sm.Transitions))
	for _, t := range sm.Transitions {
		tm := map[string]any{"from": t.From, "to": t.To}
		if t.Event != "" {
			tm["event"] = t.Event
		}
		if t.Guard != "" {
			tm["guard"] = t.Guard
		}
		if t.Action != "" {
			tm["action"] = t.Action
		}
		trans = append(trans, tm)
	}
	out := map[string]any{
		"type":        string(VariantStateMachine),
		"states":      states,
		"transitions": trans,
		"initial":     sm.Initial,
	}
	if len(sm.Final) > 0 {
		out["final"] = sm.Final
	}
	return out
}

func encodeTemporal(t Temporal) map[string]any {
	vars := map[string]any{}
	for name, vt := range t.Variables {
		vars[name] = string(vt)
	}
	props := make([]any, 0, len(t.Properties))
	for _, p := range t.Properties {
		props = append(props, map[string]any{
			"name":    p.Name,
			"formula": encodeFormula(p.Formula),
		})
	}
	return map[string]any{
		"type":       string(VariantTemporal),
		"logic":      t.Logic,
		"variables":  sortedMap(vars),
		"properties": props,
	}
}

func encodeFormula(f *ltl.Formula) map[string]any {
	out := map[string]any{"op": string(f.Op)}
	switch f.Op {
	case ltl.OpVariable:
		out["var"] = f.Var
	case ltl.OpLiteral:
		out["literal"] = f.Literal
	default:
		children := make([]any, 0, len(f.Children))
		for _, c := range f.Children {
			children = append(children, encodeFormula(c))
		}
		out["children"] = children
	}
	return out
}

func sortedMap(m map[string]any) map[string]any {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make(map[string]any, len(m))
	for _, k := range keys {
		out[k] = m[k]
	}
	return out
}

func encodeConstraints(c Constraints) map[string]any {
	target := map[string]any{}
	if c.Target.Function != "" {
		target["function"] = c.Target.Function
	}
	if c.Target.Method != "" {
		target["method"] = c.Target.Method
	}
	if c.Target.Class != "" {
		target["class"] = c.Target.Class
	}
	if c.Target.Module != "" {
		target["module"] = c.Target.Module
	}
	return map[string]any{
		"type":           string(VariantConstraints),
		"target":         target,
		"preconditions":  encodeConstraintList(c.Preconditions),
		"postconditions": encodeConstraintList(c.Postconditions),
		"invariants":     encodeConstraintList(c.Invariants),
	}
}

func encodeConstraintList(cs []Constraint) []any {
	out := make([]any, 0, len(cs))
	for _, c := range cs {
		out = append(out, map[string]any{"description": c.Description, "expression": c.Expression})
	}
	return out
}

func encodeEvents(e Events) map[string]any {
	events := map[string]any{}
	for _, d := range e.Events {
		ev := map[string]any{}
		if d.PayloadType != "" {
			ev["payload"] = d.PayloadType
		}
		events[d.Name] = ev
	}
	handlers := make([]any, 0, len(e.Handlers))
	for _, h := range e.Handlers {
		hm := map[string]any{"event": h.Event}
		if h.Action != "" {
			hm["action"] = h.Action
		}
		if h.Guard != "" {
			hm["guard"] = h.Guard
		}
		handlers = append(handlers, hm)
	}
	types := map[string]any{}
	for k, v := range e.Types {
		types[k] = v
	}
	out := map[string]any{
		"type":     string(VariantEvents),
		"events":   sortedMap(events),
		"handlers": handlers,
	}
	if len(types) > 0 {
		out["types"] = sortedMap(types)
	}
	return out
}

func encodeInteraction(in Interaction) map[string]any {
	parts := make([]any, 0, len(in.Participants))
	for _, p := range in.Participants {
		parts = append(parts, p.Name)
	}
	msgs := make([]any, 0, len(in.Messages))
	for _, m := range in.Messages {
		mm := map[string]any{"from": m.From, "to": m.To, "message": m.Message}
		if m.Condition != "" {
			mm["condition"] = m.Condition
		}
		msgs = append(msgs, mm)
	}
	return map[string]any{
		"type":         string(VariantInteraction),
		"participants": parts,
		"messages":     msgs,
	}
}

func encodeHybrid(h Hybrid) map[string]any {
	members := make([]any, 0, len(h.Members))
	for _, m := range h.Members {
		members = append(members, encodeSemantics(m))
	}
	return map[string]any{
		"type":    string(VariantHybrid),
		"members": members,
	}
}
