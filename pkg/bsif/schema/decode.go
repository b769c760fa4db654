package schema

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/ormasoftchile/bsif/pkg/bsif/diag"
	"github.com/ormasoftchile/bsif/pkg/bsif/ltl"
	"gopkg.in/yaml.v3"
)

var versionRe = regexp.MustCompile(`^\d+\.\d+\.\d+$`)

// knownTopFields are the only fields a conformant document may carry at
// its root. Anything else is an unknown field (E106).
var knownTopFields = map[string]bool{
	"bsif_version": true, "metadata": true, "semantics": true, "references": true,
}

var knownMetaFields = map[string]bool{
	"bsif_version": true, "name": true, "version": true, "description": true,
	"authors": true, "tags": true,
}

// Per-object known-field sets for the nested object walkers. Every
// conformant object is checked against exactly one of these before its
// fields are read; anything left over is an unknown field (E106) —
// unknown fields on known objects are rejected unless the containing
// variant explicitly allows extension (none here do).
var (
	knownStateMachineFields = map[string]bool{"type": true, "states": true, "transitions": true, "initial": true, "final": true}
	knownStateFields        = map[string]bool{"name": true, "parent": true, "parallel": true, "entry": true, "exit": true}
	knownTransitionFields   = map[string]bool{"from": true, "to": true, "event": true, "guard": true, "action": true}

	knownTemporalFields = map[string]bool{"type": true, "logic": true, "variables": true, "properties": true}
	knownPropertyFields = map[string]bool{"name": true, "formula": true}
	knownFormulaFields  = map[string]bool{"op": true, "var": true, "literal": true, "children": true}

	knownConstraintsFields      = map[string]bool{"type": true, "target": true, "preconditions": true, "postconditions": true, "invariants": true}
	knownConstraintTargetFields = map[string]bool{"function": true, "method": true, "class": true, "module": true}
	knownConstraintFields       = map[string]bool{"description": true, "expression": true}

	knownEventsFields    = map[string]bool{"type": true, "events": true, "handlers": true, "types": true}
	knownEventDeclFields = map[string]bool{"payload": true}
	knownHandlerFields   = map[string]bool{"event": true, "action": true, "guard": true}

	knownInteractionFields = map[string]bool{"type": true, "participants": true, "messages": true}
	knownParticipantFields = map[string]bool{"name": true}
	knownMessageFields     = map[string]bool{"from": true, "to": true, "message": true, "condition": true}

	knownHybridFields = map[string]bool{"type": true, "members": true}
)

// checkUnknownFields reports one diagnostic per key of m absent from
// known, pointed at path+key.
func checkUnknownFields(m map[string]any, known map[string]bool, path []string) diag.List {
	var errs diag.List
	for k := range m {
		if !known[k] {
			errs = append(errs, diag.Errorf(diag.CodeUnknownField, append(append([]string{}, path...), k), "unknown field %q", k))
		}
	}
	return errs
}

// Decode parses data (JSON or YAML, chosen by pathHint's extension) into a
// typed Document. It enforces lim before doing any structural walk and
// aborts on the first structural error, returning the diagnostic that
// caused the abort plus a SourceMap for locating later diagnostics.
// Every returned diagnostic with a pointer path carries a source
// location resolved through the map.
func Decode(data []byte, pathHint string, lim Limits) (*Document, *SourceMap, diag.List) {
	doc, sm, errs := decode(data, pathHint, lim)
	sm.Annotate(errs)
	return doc, sm, errs
}

func decode(data []byte, pathHint string, lim Limits) (*Document, *SourceMap, diag.List) {
	sm := NewSourceMap(data, pathHint)

	if int64(len(data)) > lim.MaxBytes {
		return nil, sm, diag.List{diag.Errorf(diag.CodeDocumentTooLarge, nil, "document exceeds maximum size of %d bytes", lim.MaxBytes)}
	}

	ext := strings.ToLower(filepath.Ext(pathHint))
	var tree any
	var perr error
	switch ext {
	case ".json":
		perr = json.Unmarshal(data, &tree)
		if perr != nil {
			return nil, sm, diag.List{diag.New(diag.CodeInvalidJSON, diag.SeverityError, perr.Error())}
		}
		sm.indexJSON(data)
	case ".yaml", ".yml":
		var raw any
		perr = yaml.Unmarshal(data, &raw)
		if perr != nil {
			return nil, sm, diag.List{diag.New(diag.CodeInvalidYAML, diag.SeverityError, perr.Error())}
		}
		tree = normalizeYAML(raw)
		sm.indexYAML(data)
	default:
		return nil, sm, diag.List{diag.New(diag.CodeInvalidSyntax, diag.SeverityError, "unrecognized extension: "+pathHint)}
	}

	if d := checkDepthAndStrings(tree, 0, lim); d != nil {
		return nil, sm, diag.List{d}
	}

	root, ok := tree.(map[string]any)
	if !ok {
		return nil, sm, diag.List{diag.New(diag.CodeInvalidFieldValue, diag.SeverityError, "document root must be an object")}
	}

	doc, errs := walkDocument(root)
	return doc, sm, errs
}

// DecodeFile reads path and decodes it with DefaultLimits.
func DecodeFile(path string) (*Document, *SourceMap, diag.List) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, diag.List{diag.New(diag.CodeInvalidSyntax, diag.SeverityError, err.Error())}
	}
	return Decode(data, path, DefaultLimits())
}

// normalizeYAML converts yaml.v3's generic decode (which already yields
// map[string]interface{} for mapping nodes, unlike yaml.v2) into the same
// shape json.Unmarshal would produce, recursing through nested containers.
func normalizeYAML(v any) any {
	switch x := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, val := range x {
			out[k] = normalizeYAML(val)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, val := range x {
			out[i] = normalizeYAML(val)
		}
		return out
	default:
		return v
	}
}

func walkDocument(root map[string]any) (*Document, diag.List) {
	var errs diag.List
	for k := range root {
		if !knownTopFields[k] {
			errs = append(errs, diag.Errorf(diag.CodeUnknownField, []string{k}, "unknown field %q", k))
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}

	metaRaw, ok := root["metadata"].(map[string]any)
	if !ok {
		return nil, diag.List{diag.Errorf(diag.CodeMissingRequiredField, []string{"metadata"}, "missing required field \"metadata\"")}
	}
	meta, merrs := walkMetadata(metaRaw)
	if len(merrs) > 0 {
		return nil, merrs
	}

	semRaw, ok := root["semantics"].(map[string]any)
	if !ok {
		return nil, diag.List{diag.Errorf(diag.CodeMissingRequiredField, []string{"semantics"}, "missing required field \"semantics\"")}
	}
	sem, serrs := walkSemantics(semRaw, []string{"semantics"})
	if len(serrs) > 0 {
		return nil, serrs
	}

	refs := map[string]Reference{}
	if refsRaw, ok := root["references"].(map[string]any); ok {
		for name, rv := range refsRaw {
			rm, ok := rv.(map[string]any)
			if !ok {
				return nil, diag.List{diag.Errorf(diag.CodeInvalidFieldValue, []string{"references", name}, "reference must be an object")}
			}
			path, _ := rm["path"].(string)
			if path == "" {
				return nil, diag.List{diag.Errorf(diag.CodeMissingRequiredField, []string{"references", name, "path"}, "reference %q missing \"path\"", name)}
			}
			version, _ := rm["version"].(string)
			refs[name] = Reference{Path: path, Version: version}
		}
	}

	return &Document{Metadata: meta, Semantics: sem, References: refs}, nil
}

func walkMetadata(m map[string]any) (Metadata, diag.List) {
	for k := range m {
		if !knownMetaFields[k] {
			return Metadata{}, diag.List{diag.Errorf(diag.CodeUnknownField, []string{"metadata", k}, "unknown field %q", k)}
		}
	}
	bv, _ := m["bsif_version"].(string)
	if bv == "" {
		return Metadata{}, diag.List{diag.Errorf(diag.CodeMissingRequiredField, []string{"metadata", "bsif_version"}, "missing required field \"bsif_version\"")}
	}
	if !versionRe.MatchString(bv) {
		return Metadata{}, diag.List{diag.Errorf(diag.CodeInvalidFieldValue, []string{"metadata", "bsif_version"}, "bsif_version %q does not match ^\\d+\\.\\d+\\.\\d+$", bv)}
	}
	name, _ := m["name"].(string)
	if name == "" {
		return Metadata{}, diag.List{diag.Errorf(diag.CodeMissingRequiredField, []string{"metadata", "name"}, "missing required field \"name\"")}
	}
	meta := Metadata{BSIFVersion: bv, Name: name}
	meta.Version, _ = m["version"].(string)
	meta.Description, _ = m["description"].(string)
	meta.Authors = stringSlice(m["authors"])
	meta.Tags = stringSlice(m["tags"])
	return meta, nil
}

func stringSlice(v any) []string {
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(arr))
	for _, e := range arr {
		if s, ok := e.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func walkSemantics(m map[string]any, path []string) (Semantics, diag.List) {
	typ, _ := m["type"].(string)
	switch VariantType(typ) {
	case VariantStateMachine:
		return walkStateMachine(m, path)
	case VariantTemporal:
		return walkTemporal(m, path)
	case VariantConstraints:
		return walkConstraints(m, path)
	case VariantEvents:
		return walkEvents(m, path)
	case VariantInteraction:
		return walkInteraction(m, path)
	case VariantHybrid:
		return walkHybrid(m, path)
	default:
		return nil, diag.List{diag.Errorf(diag.CodeInvalidFieldValue, path, "unknown semantics type %q", typ)}
	}
}

func walkStateMachine(m map[string]any, path []string) (Semantics, diag.List) {
	if errs := checkUnknownFields(m, knownStateMachineFields, path); len(errs) > 0 {
		return nil, errs
	}

	sm := StateMachine{}
	seen := map[string]bool{}
	statesRaw, _ := m["states"].([]any)
	for i, sv := range statesRaw {
		sMap, ok := sv.(map[string]any)
		if !ok {
			return nil, diag.List{diag.Errorf(diag.CodeInvalidFieldValue, append(path, "states"), "state %d must be an object", i)}
		}
		if errs := checkUnknownFields(sMap, knownStateFields, append(path, "states", strconv.Itoa(i))); len(errs) > 0 {
			return nil, errs
		}
		name, _ := sMap["name"].(string)
		if name == "" {
			return nil, diag.List{diag.Errorf(diag.CodeMissingRequiredField, append(path, "states"), "state %d missing \"name\"", i)}
		}
		if seen[name] {
			return nil, diag.List{diag.Errorf(diag.CodeDuplicateName, append(path, "states", name), "duplicate state name %q", name)}
		}
		seen[name] = true
		parallel, _ := sMap["parallel"].(bool)
		entry, _ := sMap["entry"].(string)
		exit, _ := sMap["exit"].(string)
		parent, _ := sMap["parent"].(string)
		sm.States = append(sm.States, State{Name: name, Parent: parent, Parallel: parallel, Entry: entry, Exit: exit})
	}

	transRaw, _ := m["transitions"].([]any)
	for i, tv := range transRaw {
		tMap, ok := tv.(map[string]any)
		if !ok {
			return nil, diag.List{diag.Errorf(diag.CodeInvalidFieldValue, append(path, "transitions"), "transition %d must be an object", i)}
		}
		if errs := checkUnknownFields(tMap, knownTransitionFields, append(path, "transitions", strconv.Itoa(i))); len(errs) > 0 {
			return nil, errs
		}
		from, _ := tMap["from"].(string)
		to, _ := tMap["to"].(string)
		if from == "" || to == "" {
			return nil, diag.List{diag.Errorf(diag.CodeMissingRequiredField, append(path, "transitions"), "transition %d missing \"from\" or \"to\"", i)}
		}
		event, _ := tMap["event"].(string)
		guard, _ := tMap["guard"].(string)
		action, _ := tMap["action"].(string)
		sm.Transitions = append(sm.Transitions, Transition{From: from, To: to, Event: event, Guard: guard, Action: action})
	}

	sm.Initial, _ = m["initial"].(string)
	if sm.Initial == "" {
		return nil, diag.List{diag.Errorf(diag.CodeMissingRequiredField, append(path, "initial"), "missing required field \"initial\"")}
	}
	sm.Final = stringSlice(m["final"])
	return sm, nil
}

func walkTemporal(m map[string]any, path []string) (Semantics, diag.List) {
	if errs := checkUnknownFields(m, knownTemporalFields, path); len(errs) > 0 {
		return nil, errs
	}

	t := Temporal{Variables: map[string]VariableType{}}
	t.Logic, _ = m["logic"].(string)
	if t.Logic == "" {
		t.Logic = "ltl"
	}
	if varsRaw, ok := m["variables"].(map[string]any); ok {
		for name, tv := range varsRaw {
			s, _ := tv.(string)
			t.Variables[name] = VariableType(s)
		}
	}
	propsRaw, _ := m["properties"].([]any)
	for i, pv := range propsRaw {
		pMap, ok := pv.(map[string]any)
		if !ok {
			return nil, diag.List{diag.Errorf(diag.CodeInvalidFieldValue, append(path, "properties"), "property %d must be an object", i)}
		}
		if errs := checkUnknownFields(pMap, knownPropertyFields, append(path, "properties", strconv.Itoa(i))); len(errs) > 0 {
			return nil, errs
		}
		name, _ := pMap["name"].(string)
		if name == "" {
			return nil, diag.List{diag.Errorf(diag.CodeMissingRequiredField, append(path, "properties"), "property %d missing \"name\"", i)}
		}
		formRaw, ok := pMap["formula"].(map[string]any)
		if !ok {
			return nil, diag.List{diag.Errorf(diag.CodeMissingRequiredField, append(path, "properties", name), "property %q missing \"formula\"", name)}
		}
		f, err := walkFormula(formRaw)
		if err != nil {
			return nil, diag.List{diag.Errorf(diag.CodeInvalidFieldValue, append(path, "properties", name, "formula"), "%v", err)}
		}
		t.Properties = append(t.Properties, Property{Name: name, Formula: f})
	}
	return t, nil
}

var ltlOps = map[string]ltl.Op{
	"variable": ltl.OpVariable, "literal": ltl.OpLiteral, "not": ltl.OpNot,
	"and": ltl.OpAnd, "or": ltl.OpOr, "implies": ltl.OpImplies, "iff": ltl.OpIff,
	"next": ltl.OpNext, "globally": ltl.OpGlobally, "finally": ltl.OpFinally,
	"until": ltl.OpUntil, "release": ltl.OpRelease,
}

func walkFormula(m map[string]any) (*ltl.Formula, error) {
	for k := range m {
		if !knownFormulaFields[k] {
			return nil, fmt.Errorf("unknown field %q", k)
		}
	}
	opStr, _ := m["op"].(string)
	op, ok := ltlOps[opStr]
	if !ok {
		return nil, fmt.Errorf("unknown LTL operator %q", opStr)
	}
	switch op {
	case ltl.OpVariable:
		v, _ := m["var"].(string)
		if v == "" {
			return nil, fmt.Errorf("variable node missing \"var\"")
		}
		return ltl.Variable(v), nil
	case ltl.OpLiteral:
		return ltl.Literal(m["literal"]), nil
	}
	wantArity := ltl.Arity(op)
	childrenRaw, _ := m["children"].([]any)
	if len(childrenRaw) != wantArity {
		return nil, fmt.Errorf("operator %q expects %d children, got %d", opStr, wantArity, len(childrenRaw))
	}
	children := make([]*ltl.Formula, 0, wantArity)
	for _, cv := range childrenRaw {
		cMap, ok := cv.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("formula child must be an object")
		}
		c, err := walkFormula(cMap)
		if err != nil {
			return nil, err
		}
		children = append(children, c)
	}
	return &ltl.Formula{Op: op, Children: children}, nil
}

func walkConstraints(m map[string]any, path []string) (Semantics, diag.List) {
	if errs := checkUnknownFields(m, knownConstraintsFields, path); len(errs) > 0 {
		return nil, errs
	}

	c := Constraints{}
	targetRaw, ok := m["target"].(map[string]any)
	if !ok {
		return nil, diag.List{diag.Errorf(diag.CodeMissingRequiredField, append(path, "target"), "missing required field \"target\"")}
	}
	if errs := checkUnknownFields(targetRaw, knownConstraintTargetFields, append(path, "target")); len(errs) > 0 {
		return nil, errs
	}
	c.Target.Function, _ = targetRaw["function"].(string)
	c.Target.Method, _ = targetRaw["method"].(string)
	c.Target.Class, _ = targetRaw["class"].(string)
	c.Target.Module, _ = targetRaw["module"].(string)
	count := 0
	if c.Target.Function != "" {
		count++
	}
	if c.Target.Method != "" || c.Target.Class != "" {
		count++
	}
	if c.Target.Module != "" {
		count++
	}
	if count != 1 {
		return nil, diag.List{diag.Errorf(diag.CodeInvalidFieldValue, append(path, "target"), "target must specify exactly one of function, method+class, module")}
	}
	var err error
	if c.Preconditions, err = walkConstraintList(m["preconditions"]); err != nil {
		return nil, diag.List{diag.Errorf(diag.CodeInvalidFieldValue, append(path, "preconditions"), "%v", err)}
	}
	if c.Postconditions, err = walkConstraintList(m["postconditions"]); err != nil {
		return nil, diag.List{diag.Errorf(diag.CodeInvalidFieldValue, append(path, "postconditions"), "%v", err)}
	}
	if c.Invariants, err = walkConstraintList(m["invariants"]); err != nil {
		return nil, diag.List{diag.Errorf(diag.CodeInvalidFieldValue, append(path, "invariants"), "%v", err)}
	}
	return c, nil
}

func walkConstraintList(v any) ([]Constraint, error) {
	arr, ok := v.([]any)
	if !ok {
		if v == nil {
			return nil, nil
		}
		return nil, fmt.Errorf("expected an array")
	}
	out := make([]Constraint, 0, len(arr))
	for _, ev := range arr {
		m, ok := ev.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("expected an object")
		}
		for k := range m {
			if !knownConstraintFields[k] {
				return nil, fmt.Errorf("unknown field %q", k)
			}
		}
		desc, _ := m["description"].(string)
		expr, _ := m["expression"].(string)
		out = append(out, Constraint{Description: desc, Expression: expr})
	}
	return out, nil
}

func walkEvents(m map[string]any, path []string) (Semantics, diag.List) {
	if errs := checkUnknownFields(m, knownEventsFields, path); len(errs) > 0 {
		return nil, errs
	}

	e := Events{Types: map[string]string{}}
	if eventsRaw, ok := m["events"].(map[string]any); ok {
		for name, dv := range eventsRaw {
			payload := ""
			if dMap, ok := dv.(map[string]any); ok {
				if errs := checkUnknownFields(dMap, knownEventDeclFields, append(path, "events", name)); len(errs) > 0 {
					return nil, errs
				}
				payload, _ = dMap["payload"].(string)
			}
			e.Events = append(e.Events, EventDeclaration{Name: name, PayloadType: payload})
		}
	}
	handlersRaw, _ := m["handlers"].([]any)
	for i, hv := range handlersRaw {
		hMap, ok := hv.(map[string]any)
		if !ok {
			return nil, diag.List{diag.Errorf(diag.CodeInvalidFieldValue, append(path, "handlers"), "handler %d must be an object", i)}
		}
		if errs := checkUnknownFields(hMap, knownHandlerFields, append(path, "handlers", strconv.Itoa(i))); len(errs) > 0 {
			return nil, errs
		}
		ev, _ := hMap["event"].(string)
		if ev == "" {
			return nil, diag.List{diag.Errorf(diag.CodeMissingRequiredField, append(path, "handlers"), "handler %d missing \"event\"", i)}
		}
		action, _ := hMap["action"].(string)
		guard, _ := hMap["guard"].(string)
		e.Handlers = append(e.Handlers, Handler{Event: ev, Action: action, Guard: guard})
	}
	if typesRaw, ok := m["types"].(map[string]any); ok {
		for name, tv := range typesRaw {
			s, _ := tv.(string)
			e.Types[name] = s
		}
	}
	return e, nil
}

func walkInteraction(m map[string]any, path []string) (Semantics, diag.List) {
	if errs := checkUnknownFields(m, knownInteractionFields, path); len(errs) > 0 {
		return nil, errs
	}

	in := Interaction{}
	partsRaw, _ := m["participants"].([]any)
	seen := map[string]bool{}
	for i, pv := range partsRaw {
		name, ok := pv.(string)
		if !ok {
			if pMap, ok2 := pv.(map[string]any); ok2 {
				if errs := checkUnknownFields(pMap, knownParticipantFields, append(path, "participants", strconv.Itoa(i))); len(errs) > 0 {
					return nil, errs
				}
				name, _ = pMap["name"].(string)
			}
		}
		if name == "" {
			return nil, diag.List{diag.Errorf(diag.CodeMissingRequiredField, append(path, "participants"), "participant %d missing \"name\"", i)}
		}
		if seen[name] {
			return nil, diag.List{diag.Errorf(diag.CodeDuplicateName, append(path, "participants", name), "duplicate participant name %q", name)}
		}
		seen[name] = true
		in.Participants = append(in.Participants, Participant{Name: name})
	}
	msgsRaw, _ := m["messages"].([]any)
	for i, mv := range msgsRaw {
		mMap, ok := mv.(map[string]any)
		if !ok {
			return nil, diag.List{diag.Errorf(diag.CodeInvalidFieldValue, append(path, "messages"), "message %d must be an object", i)}
		}
		if errs := checkUnknownFields(mMap, knownMessageFields, append(path, "messages", strconv.Itoa(i))); len(errs) > 0 {
			return nil, errs
		}
		from, _ := mMap["from"].(string)
		to, _ := mMap["to"].(string)
		message, _ := mMap["message"].(string)
		if from == "" || to == "" || message == "" {
			return nil, diag.List{diag.Errorf(diag.CodeMissingRequiredField, append(path, "messages"), "message %d missing \"from\", \"to\" or \"message\"", i)}
		}
		cond, _ := mMap["condition"].(string)
		in.Messages = append(in.Messages, MessageSeq{From: from, To: to, Message: message, Condition: cond})
	}
	return in, nil
}

func walkHybrid(m map[string]any, path []string) (Semantics, diag.List) {
	if errs := checkUnknownFields(m, knownHybridFields, path); len(errs) > 0 {
		return nil, errs
	}

	h := Hybrid{}
	membersRaw, _ := m["members"].([]any)
	for i, mv := range membersRaw {
		mMap, ok := mv.(map[string]any)
		if !ok {
			return nil, diag.List{diag.Errorf(diag.CodeInvalidFieldValue, append(path, "members"), "member %d must be an object", i)}
		}
		sub, errs := walkSemantics(mMap, append(path, "members", fmt.Sprint(i)))
		if len(errs) > 0 {
			return nil, errs
		}
		if sub.Type() == VariantHybrid {
			return nil, diag.List{diag.Errorf(diag.CodeInvalidFieldValue, append(path, "members"), "hybrid member %d must not itself be hybrid", i)}
		}
		h.Members = append(h.Members, sub)
	}
	return h, nil
}
