// Package migrate holds the version-migration registry: named
// transforms from one bsif_version major to the next, applied to an
// already-decoded document.
package migrate

import (
	"fmt"

	"github.com/ormasoftchile/bsif/pkg/bsif/schema"
)

// Step transforms doc in place from one major version to the next.
type Step func(doc *schema.Document) error

var registry = map[string]Step{}

// Register adds a migration step keyed by "<fromMajor>to<toMajor>", e.g.
// "1to2". Intended to be called from init() in version-specific files as
// the format evolves; none are registered yet since BSIF is still at
// major version 1.
func Register(key string, step Step) {
	registry[key] = step
}

// Apply runs every registered step needed to bring doc from its current
// major version up to targetMajor, in order.
func Apply(doc *schema.Document, targetMajor string) error {
	for {
		from := majorOf(doc.Metadata.BSIFVersion)
		if from == targetMajor {
			return nil
		}
		key := from + "to" + nextMajor(from)
		step, ok := registry[key]
		if !ok {
			return fmt.Errorf("no migration registered for %s", key)
		}
		if err := step(doc); err != nil {
			return fmt.Errorf("migration %s: %w", key, err)
		}
	}
}

func majorOf(v string) string {
	for i, c := range v {
		if c == '.' {
			return v[:i]
		}
	}
	return v
}

func nextMajor(major string) string {
	n := 0
	for _, c := range major {
		n = n*10 + int(c-'0')
	}
	n++
	return fmt.Sprintf("%d", n)
}
