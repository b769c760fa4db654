package validate

import (
	"github.com/ormasoftchile/bsif/pkg/bsif/diag"
	"github.com/ormasoftchile/bsif/pkg/bsif/schema"
)

func validateConstraints(c schema.Constraints, path []string) diag.List {
	var errs diag.List
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
		errs = append(errs, diag.Errorf(diag.CodeInvalidFieldValue, append(path, "target"), "target must specify exactly one of function, method+class, module"))
	}
	return errs
}
