package validate

import (
	"github.com/ormasoftchile/bsif/pkg/bsif/diag"
	"github.com/ormasoftchile/bsif/pkg/bsif/schema"
)

func validateEvents(e schema.Events, path []string) diag.List {
	var errs diag.List
	declared := map[string]bool{}
	for _, d := range e.Events {
		declared[d.Name] = true
	}
	for _, h := range e.Handlers {
		if !declared[h.Event] {
			errs = append(errs, diag.Errorf(diag.CodeUnknownEvent, append(append([]string{}, path...), "handlers"), "handler references undeclared event %q", h.Event))
		}
	}
	return errs
}
