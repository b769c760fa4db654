// Package diag defines the diagnostic taxonomy shared by the decoder,
// validator, resolver and executor.
package diag

import "fmt"

// Severity classifies how a Diagnostic should affect a caller's exit code.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Code is a stable, documented diagnostic identifier. E1xx codes are
// structural (decode-time), E2xx are semantic (validate-time), W3xx are
// warnings that never block validation.
type Code string

const (
	// Structural (E1xx)
	CodeInvalidSyntax        Code = "E101"
	CodeInvalidJSON          Code = "E102"
	CodeInvalidYAML          Code = "E103"
	CodeInvalidFieldValue    Code = "E104"
	CodeMissingRequiredField Code = "E105"
	CodeUnknownField         Code = "E106"
	CodeDocumentTooLarge     Code = "E107"
	CodeNestingTooDeep       Code = "E108"
	CodeStringTooLong        Code = "E109"

	// Semantic (E2xx)
	CodeUnknownState        Code = "E201"
	CodeUnreachableState    Code = "E202"
	CodeDuplicateName       Code = "E203"
	CodeUnknownParticipant  Code = "E204"
	CodeUnknownVariable     Code = "E205"
	CodeUnknownEvent        Code = "E206"
	CodeCircularReference   Code = "E207"
	CodeIncompatibleVersion Code = "E208"
	CodeResolutionLimit     Code = "E209"
	CodeNoTransition        Code = "E210"
	CodeUnresolvedReference Code = "E211"

	// Warnings (W3xx)
	CodeNondeterministicTransition Code = "W301"
	CodeUnusedDeclaration          Code = "W302"
	CodeDeepNesting                Code = "W303"
)

// Location is a source position in the original document, populated by
// the decoder's source map when available. The rendered form is the
// file:line:column prefix editors jump to.
type Location struct {
	File   string `json:"file,omitempty"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
	Offset int    `json:"offset,omitempty"`
}

func (l *Location) String() string {
	if l == nil {
		return ""
	}
	if l.File != "" {
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
	}
	return fmt.Sprintf("%d:%d", l.Line, l.Column)
}

// Diagnostic is a single decode/validate/resolve finding.
type Diagnostic struct {
	Code       Code      `json:"code"`
	Severity   Severity  `json:"severity"`
	Message    string    `json:"message"`
	Path       []string  `json:"path,omitempty"`
	Location   *Location `json:"location,omitempty"`
	Suggestion string    `json:"suggestion,omitempty"`
}

func (d *Diagnostic) Error() string {
	loc := "-"
	if d.Location != nil {
		loc = d.Location.String()
	}
	msg := fmt.Sprintf("%s: [%s] %s", loc, d.Code, d.Message)
	if len(d.Path) > 0 {
		msg += " at " + JoinPath(d.Path)
	}
	if d.Suggestion != "" {
		msg += " (suggestion: " + d.Suggestion + ")"
	}
	return msg
}

// JoinPath renders a path slice as a JSON-pointer-like string.
func JoinPath(path []string) string {
	if len(path) == 0 {
		return "$"
	}
	out := "$"
	for _, p := range path {
		out += "/" + p
	}
	return out
}

// List is an ordered collection of Diagnostics with helpers mirroring the
// separate error/warning bucketing callers need for exit-code decisions.
type List []*Diagnostic

func (l List) HasErrors() bool {
	for _, d := range l {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

func (l List) Errors() List {
	var out List
	for _, d := range l {
		if d.Severity == SeverityError {
			out = append(out, d)
		}
	}
	return out
}

func (l List) Warnings() List {
	var out List
	for _, d := range l {
		if d.Severity == SeverityWarning {
			out = append(out, d)
		}
	}
	return out
}

func New(code Code, sev Severity, msg string, path ...string) *Diagnostic {
	return &Diagnostic{Code: code, Severity: sev, Message: msg, Path: path}
}

func Errorf(code Code, path []string, format string, args ...any) *Diagnostic {
	return &Diagnostic{Code: code, Severity: SeverityError, Message: fmt.Sprintf(format, args...), Path: path}
}

func Warnf(code Code, path []string, format string, args ...any) *Diagnostic {
	return &Diagnostic{Code: code, Severity: SeverityWarning, Message: fmt.Sprintf(format, args...), Path: path}
}
