package validate

import (
	"regexp"

	"github.com/ormasoftchile/bsif/pkg/bsif/diag"
	"github.com/ormasoftchile/bsif/pkg/bsif/ltl"
	"github.com/ormasoftchile/bsif/pkg/bsif/schema"
)

var versionRe = regexp.MustCompile(`^\d+\.\d+\.\d+$`)

func validateTemporal(t schema.Temporal, path []string) diag.List {
	var errs diag.List
	for _, p := range t.Properties {
		ppath := append(append([]string{}, path...), "properties", p.Name, "formula")
		errs = append(errs, validateFormula(p.Formula, t.Variables, ppath)...)
	}
	return errs
}

// validateFormula checks operator arities (already enforced by the
// decoder, reconfirmed here since a hand-built AST can bypass it),
// variable references against the declared variable set, and literal type
// compatibility when a literal is paired directly with a variable under
// any binary operator (classical, until or release).
func validateFormula(f *ltl.Formula, vars map[string]schema.VariableType, path []string) diag.List {
	var errs diag.List
	ltl.Walk(f, func(node *ltl.Formula) {
		if node.Op == ltl.OpVariable {
			if _, ok := vars[node.Var]; !ok {
				errs = append(errs, diag.Errorf(diag.CodeUnknownVariable, path, "LTL formula references undeclared variable %q", node.Var))
			}
			return
		}
		wantArity := ltl.Arity(node.Op)
		if wantArity < 0 {
			errs = append(errs, diag.Errorf(diag.CodeInvalidFieldValue, path, "unknown LTL operator %q", node.Op))
			return
		}
		if len(node.Children) != wantArity {
			errs = append(errs, diag.Errorf(diag.CodeInvalidFieldValue, path, "operator %q expects %d children, got %d", node.Op, wantArity, len(node.Children)))
			return
		}
		if wantArity == 2 {
			errs = append(errs, checkLiteralCompat(node, vars, path)...)
		}
	})
	return errs
}

// checkLiteralCompat flags a literal paired with a variable under a
// binary operator when the literal's type cannot inhabit the variable's
// declared type.
func checkLiteralCompat(node *ltl.Formula, vars map[string]schema.VariableType, path []string) diag.List {
	a, b := node.Children[0], node.Children[1]
	v, lit := a, b
	if v.Op != ltl.OpVariable || lit.Op != ltl.OpLiteral {
		v, lit = b, a
	}
	if v.Op != ltl.OpVariable || lit.Op != ltl.OpLiteral {
		return nil
	}
	vt, ok := vars[v.Var]
	if !ok {
		return nil
	}
	compatible := false
	switch lit.Literal.(type) {
	case bool:
		compatible = vt == schema.VarBool
	case float64, int:
		compatible = vt == schema.VarInt || vt == schema.VarFloat
	case string:
		compatible = vt == schema.VarString
	default:
		compatible = true
	}
	if !compatible {
		return diag.List{diag.Errorf(diag.CodeInvalidFieldValue, path, "literal %v is not compatible with variable %q of type %s", lit.Literal, v.Var, vt)}
	}
	return nil
}
