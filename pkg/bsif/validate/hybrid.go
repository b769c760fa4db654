package validate

import (
	"strconv"

	"github.com/ormasoftchile/bsif/pkg/bsif/diag"
	"github.com/ormasoftchile/bsif/pkg/bsif/schema"
)

func validateHybrid(h schema.Hybrid, path []string) diag.List {
	var errs diag.List
	for i, m := range h.Members {
		mpath := append(append([]string{}, path...), "members", strconv.Itoa(i))
		switch sem := m.(type) {
		case schema.StateMachine:
			errs = append(errs, validateStateMachine(sem, mpath)...)
		case schema.Temporal:
			errs = append(errs, validateTemporal(sem, mpath)...)
		case schema.Constraints:
			errs = append(errs, validateConstraints(sem, mpath)...)
		case schema.Events:
			errs = append(errs, validateEvents(sem, mpath)...)
		case schema.Interaction:
			errs = append(errs, validateInteraction(sem, mpath)...)
		}
	}
	return errs
}
