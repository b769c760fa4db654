// Package smtlib maps a BSIF constraints document to/from SMT-LIB
// assertions, using text/scanner to tokenize import input.
package smtlib

import (
	"fmt"
	"strings"
	"text/scanner"

	"github.com/ormasoftchile/bsif/pkg/bsif/schema"
)

// Export renders doc's constraints as SMT-LIB declare-const/assert forms.
func Export(doc *schema.Document) ([]byte, error) {
	c, ok := doc.Semantics.(schema.Constraints)
	if !ok {
		return nil, fmt.Errorf("smtlib export only supports constraints semantics, got %s", doc.Semantics.Type())
	}
	var b strings.Builder
	fmt.Fprintf(&b, "; %s\n", doc.Metadata.Name)
	for _, p := range c.Preconditions {
		fmt.Fprintf(&b, "(assert %s) ; pre: %s\n", toSExpr(p.Expression), p.Description)
	}
	for _, p := range c.Postconditions {
		fmt.Fprintf(&b, "(assert %s) ; post: %s\n", toSExpr(p.Expression), p.Description)
	}
	for _, inv := range c.Invariants {
		fmt.Fprintf(&b, "(assert %s) ; inv: %s\n", toSExpr(inv.Expression), inv.Description)
	}
	return []byte(b.String()), nil
}

// toSExpr wraps a bare boolean expression as an s-expression if it isn't
// already one.
func toSExpr(expr string) string {
	expr = strings.TrimSpace(expr)
	if strings.HasPrefix(expr, "(") {
		return expr
	}
	return "(" + expr + ")"
}

// Import tokenizes SMT-LIB text and extracts each top-level (assert ...)
// form as a Constraint invariant. Best-effort: it does not interpret the
// logical structure of the expression, only its token stream.
func Import(data []byte, name string) (*schema.Document, error) {
	var s scanner.Scanner
	s.Init(strings.NewReader(string(data)))
	s.Mode = scanner.ScanIdents | scanner.ScanStrings | scanner.ScanComments | scanner.SkipComments

	var invariants []schema.Constraint
	depth := 0
	var cur strings.Builder
	inAssert := false

	for tok := s.Scan(); tok != scanner.EOF; tok = s.Scan() {
		text := s.TokenText()
		switch text {
		case "(":
			depth++
			if depth == 1 {
				continue
			}
		case ")":
			depth--
			if depth == 0 && inAssert {
				invariants = append(invariants, schema.Constraint{Expression: strings.TrimSpace(cur.String())})
				cur.Reset()
				inAssert = false
				continue
			}
		case "assert":
			if depth == 1 {
				inAssert = true
				continue
			}
		}
		if inAssert {
			cur.WriteString(text)
			cur.WriteString(" ")
		}
	}

	return &schema.Document{
		Metadata: schema.Metadata{BSIFVersion: "1.0.0", Name: name},
		Semantics: schema.Constraints{
			Target:     schema.ConstraintTarget{Module: name},
			Invariants: invariants,
		},
	}, nil
}
