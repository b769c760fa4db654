package migrate_test

import (
	"testing"

	"github.com/ormasoftchile/bsif/pkg/bsif/migrate"
	"github.com/ormasoftchile/bsif/pkg/bsif/schema"
)

func TestApply_NoOpWhenAlreadyAtTarget(t *testing.T) {
	doc := &schema.Document{Metadata: schema.Metadata{BSIFVersion: "1.0.0", Name: "x"}}
	if err := migrate.Apply(doc, "1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestApply_FailsWithoutRegisteredStep(t *testing.T) {
	doc := &schema.Document{Metadata: schema.Metadata{BSIFVersion: "1.0.0", Name: "x"}}
	if err := migrate.Apply(doc, "2"); err == nil {
		t.Fatal("expected an error since no 1to2 migration is registered")
	}
}

func TestRegisterAndApply(t *testing.T) {
	migrate.Register("1to2", func(doc *schema.Document) error {
		doc.Metadata.BSIFVersion = "2.0.0"
		return nil
	})
	doc := &schema.Document{Metadata: schema.Metadata{BSIFVersion: "1.0.0", Name: "x"}}
	if err := migrate.Apply(doc, "2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Metadata.BSIFVersion != "2.0.0" {
		t.Errorf("version = %q, want 2.0.0", doc.Metadata.BSIFVersion)
	}
}
