package validate

import (
	"github.com/ormasoftchile/bsif/pkg/bsif/diag"
	"github.com/ormasoftchile/bsif/pkg/bsif/schema"
)

func validateInteraction(in schema.Interaction, path []string) diag.List {
	var errs diag.List
	declared := map[string]bool{}
	for _, p := range in.Participants {
		declared[p.Name] = true
	}
	for _, m := range in.Messages {
		mpath := append(append([]string{}, path...), "messages")
		if !declared[m.From] {
			errs = append(errs, diag.Errorf(diag.CodeUnknownParticipant, mpath, "message from undeclared participant %q", m.From))
		}
		if !declared[m.To] {
			errs = append(errs, diag.Errorf(diag.CodeUnknownParticipant, mpath, "message to undeclared participant %q", m.To))
		}
	}
	return errs
}
