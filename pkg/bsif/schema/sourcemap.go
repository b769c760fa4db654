package schema

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ormasoftchile/bsif/pkg/bsif/diag"
)

// SourceMap turns a JSON pointer path produced deep in the typed walk
// into an editor-friendly file:line:column location. It indexes the
// document once at decode time: newline offsets for byte-offset lookups,
// plus one location per pointer path in the parsed tree.
type SourceMap struct {
	file       string
	lineStarts []int
	locs       map[string]*diag.Location
}

// NewSourceMap indexes the newline offsets of data once, up front. file
// is stamped into every location the map produces.
func NewSourceMap(data []byte, file string) *SourceMap {
	sm := &SourceMap{file: file, lineStarts: []int{0}, locs: map[string]*diag.Location{}}
	for i, b := range data {
		if b == '\n' {
			sm.lineStarts = append(sm.lineStarts, i+1)
		}
	}
	return sm
}

// Locate returns the 1-based line/column for a byte offset.
func (sm *SourceMap) Locate(offset int) *diag.Location {
	lo, hi := 0, len(sm.lineStarts)-1
	line := 0
	for lo <= hi {
		mid := (lo + hi) / 2
		if sm.lineStarts[mid] <= offset {
			line = mid
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	col := offset - sm.lineStarts[line] + 1
	return &diag.Location{File: sm.file, Line: line + 1, Column: col, Offset: offset}
}

// LocatePath returns the location recorded for a pointer path, falling
// back to the nearest indexed ancestor: validator paths may name a state
// ("states/c") where the index keys the array position ("states/2"), and
// the enclosing node is still the right place to point an editor at.
func (sm *SourceMap) LocatePath(path []string) *diag.Location {
	if sm == nil {
		return nil
	}
	for p := path; ; p = p[:len(p)-1] {
		if loc, ok := sm.locs[strings.Join(p, "/")]; ok {
			return loc
		}
		if len(p) == 0 {
			return nil
		}
	}
}

// Annotate fills the Location of every diagnostic that does not already
// carry one, resolving its pointer path against the index.
func (sm *SourceMap) Annotate(list diag.List) {
	if sm == nil {
		return
	}
	for _, d := range list {
		if d.Location == nil {
			d.Location = sm.LocatePath(d.Path)
		}
	}
}

// indexJSON walks data's token stream recording one location per pointer
// path. Object keys are recorded under the path of the value they
// introduce, so a diagnostic at "metadata/name" points at the "name" key
// rather than at its value.
func (sm *SourceMap) indexJSON(data []byte) {
	dec := json.NewDecoder(bytes.NewReader(data))
	type frame struct {
		obj   bool
		inKey bool
		key   string
		idx   int
	}
	var stack []*frame
	var path []string

	record := func(full []string, off int64) {
		key := strings.Join(full, "/")
		if _, ok := sm.locs[key]; !ok {
			sm.locs[key] = sm.Locate(int(off))
		}
	}
	// childPath names the value the innermost frame is currently
	// expecting.
	childPath := func() []string {
		if len(stack) == 0 {
			return path
		}
		top := stack[len(stack)-1]
		if top.obj {
			return append(path, top.key)
		}
		return append(path, strconv.Itoa(top.idx))
	}
	// valueDone advances the innermost frame past a completed value.
	valueDone := func() {
		if len(stack) == 0 {
			return
		}
		top := stack[len(stack)-1]
		if top.obj {
			top.inKey = true
		} else {
			top.idx++
		}
	}

	for {
		off := skipJSONPunct(data, dec.InputOffset())
		tok, err := dec.Token()
		if err != nil {
			return
		}
		switch t := tok.(type) {
		case json.Delim:
			switch t {
			case '{', '[':
				if len(stack) > 0 {
					path = childPath()
				}
				record(path, off)
				stack = append(stack, &frame{obj: t == '{', inKey: t == '{'})
			case '}', ']':
				stack = stack[:len(stack)-1]
				if len(path) > 0 {
					path = path[:len(path)-1]
				}
				valueDone()
			}
		case string:
			if len(stack) > 0 {
				top := stack[len(stack)-1]
				if top.obj && top.inKey {
					top.key = t
					top.inKey = false
					record(append(append([]string{}, path...), t), off)
					continue
				}
			}
			record(childPath(), off)
			valueDone()
		default:
			record(childPath(), off)
			valueDone()
		}
	}
}

// skipJSONPunct advances off past the whitespace and separators between
// the previous token's end and the next token's first byte.
func skipJSONPunct(data []byte, off int64) int64 {
	for int(off) < len(data) {
		switch data[off] {
		case ' ', '\t', '\n', '\r', ',', ':':
			off++
		default:
			return off
		}
	}
	return off
}

// indexYAML records one location per pointer path from the parsed node
// tree; yaml.v3 nodes carry 1-based line/column directly.
func (sm *SourceMap) indexYAML(data []byte) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return
	}
	node := &root
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = node.Content[0]
	}
	sm.indexYAMLNode(node, nil)
}

func (sm *SourceMap) indexYAMLNode(n *yaml.Node, path []string) {
	key := strings.Join(path, "/")
	if _, ok := sm.locs[key]; !ok {
		sm.locs[key] = &diag.Location{File: sm.file, Line: n.Line, Column: n.Column}
	}
	switch n.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			child := append(append([]string{}, path...), k.Value)
			sm.locs[strings.Join(child, "/")] = &diag.Location{File: sm.file, Line: k.Line, Column: k.Column}
			sm.indexYAMLNode(v, child)
		}
	case yaml.SequenceNode:
		for i, c := range n.Content {
			sm.indexYAMLNode(c, append(append([]string{}, path...), strconv.Itoa(i)))
		}
	}
}
