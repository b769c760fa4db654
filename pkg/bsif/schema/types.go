// Package schema defines the BSIF document model: metadata, the six
// semantics variants, and temporal properties built on package ltl's
// formula AST.
package schema

import "github.com/ormasoftchile/bsif/pkg/bsif/ltl"

// Document is the top-level BSIF unit: one Metadata plus exactly one
// Semantics. The document owns its semantics tree exclusively.
type Document struct {
	Metadata   Metadata             `json:"metadata"`
	Semantics  Semantics            `json:"semantics"`
	References map[string]Reference `json:"references,omitempty"`
}

// Metadata carries the document's identity fields.
type Metadata struct {
	BSIFVersion string   `yaml:"bsif_version" json:"bsif_version"`
	Name        string   `yaml:"name" json:"name"`
	Version     string   `yaml:"version,omitempty" json:"version,omitempty"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
	Authors     []string `yaml:"authors,omitempty" json:"authors,omitempty"`
	Tags        []string `yaml:"tags,omitempty" json:"tags,omitempty"`
}

// Reference names a document dependency by relative path, with an
// optional required version for compatibility checking.
type Reference struct {
	Path    string `yaml:"path" json:"path"`
	Version string `yaml:"version,omitempty" json:"version,omitempty"`
}

// VariantType is the discriminator string stored on every Semantics.
type VariantType string

const (
	VariantStateMachine VariantType = "state-machine"
	VariantTemporal     VariantType = "temporal"
	VariantConstraints  VariantType = "constraints"
	VariantEvents       VariantType = "events"
	VariantInteraction  VariantType = "interaction"
	VariantHybrid       VariantType = "hybrid"
)

// Semantics is the closed discriminated union of the six BSIF semantics
// variants. isSemantics is unexported so no type outside this package can
// implement the interface, so the six concrete types are the only
// variants. Go does not check type switches over it for exhaustiveness; a
// consumer that omits a variant compiles and must handle it by default.
type Semantics interface {
	Type() VariantType
	isSemantics()
}

// --- StateMachine ---

type StateMachine struct {
	States      []State      `json:"states"`
	Transitions []Transition `json:"transitions"`
	Initial     string       `json:"initial"`
	Final       []string     `json:"final,omitempty"`
}

func (StateMachine) Type() VariantType { return VariantStateMachine }
func (StateMachine) isSemantics()      {}

type State struct {
	Name     string `json:"name"`
	Parent   string `json:"parent,omitempty"`
	Parallel bool   `json:"parallel,omitempty"`
	Entry    string `json:"entry,omitempty"`
	Exit     string `json:"exit,omitempty"`
}

type Transition struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Event  string `json:"event,omitempty"`
	Guard  string `json:"guard,omitempty"`
	Action string `json:"action,omitempty"`
}

// --- Temporal ---

type VariableType string

const (
	VarBool   VariableType = "bool"
	VarInt    VariableType = "int"
	VarFloat  VariableType = "float"
	VarString VariableType = "string"
)

type Temporal struct {
	Logic      string                  `json:"logic"`
	Variables  map[string]VariableType `json:"variables"`
	Properties []Property              `json:"properties"`
}

func (Temporal) Type() VariantType { return VariantTemporal }
func (Temporal) isSemantics()      {}

type Property struct {
	Name    string       `json:"name"`
	Formula *ltl.Formula `json:"formula"`
}

// --- Constraints ---

type ConstraintTarget struct {
	Function string `json:"function,omitempty"`
	Method   string `json:"method,omitempty"`
	Class    string `json:"class,omitempty"`
	Module   string `json:"module,omitempty"`
}

type Constraint struct {
	Description string `json:"description"`
	Expression  string `json:"expression"`
}

type Constraints struct {
	Target         ConstraintTarget `json:"target"`
	Preconditions  []Constraint     `json:"preconditions"`
	Postconditions []Constraint     `json:"postconditions"`
	Invariants     []Constraint     `json:"invariants,omitempty"`
}

func (Constraints) Type() VariantType { return VariantConstraints }
func (Constraints) isSemantics()      {}

// --- Events ---

type EventDeclaration struct {
	Name        string `json:"-"`
	PayloadType string `json:"payload,omitempty"`
}

type Handler struct {
	Event  string `json:"event"`
	Action string `json:"action,omitempty"`
	Guard  string `json:"guard,omitempty"`
}

type Events struct {
	Events   []EventDeclaration `json:"events"`
	Handlers []Handler          `json:"handlers"`
	Types    map[string]string  `json:"types,omitempty"`
}

func (Events) Type() VariantType { return VariantEvents }
func (Events) isSemantics()      {}

// --- Interaction ---

type Participant struct {
	Name string `json:"name"`
}

type MessageSeq struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Message   string `json:"message"`
	Condition string `json:"condition,omitempty"`
}

type Interaction struct {
	Participants []Participant `json:"participants"`
	Messages     []MessageSeq  `json:"messages"`
}

func (Interaction) Type() VariantType { return VariantInteraction }
func (Interaction) isSemantics()      {}

// --- Hybrid ---

type Hybrid struct {
	Members []Semantics `json:"members"`
}

func (Hybrid) Type() VariantType { return VariantHybrid }
func (Hybrid) isSemantics()      {}
