package registryclient_test

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/ormasoftchile/bsif/pkg/bsif/registryclient"
)

func TestClient_PublishFetchSearch(t *testing.T) {
	srv := httptest.NewServer(registryclient.NewServer().Handler())
	defer srv.Close()

	c := registryclient.New(srv.URL)
	entry := registryclient.Entry{Name: "traffic-light", Version: "1.0.0", Body: json.RawMessage(`{"x":1}`)}
	if err := c.Publish(entry); err != nil {
		t.Fatalf("publish: %v", err)
	}

	fetched, err := c.Fetch("traffic-light", "1.0.0")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if fetched.Name != "traffic-light" || fetched.Version != "1.0.0" {
		t.Errorf("fetched = %+v", fetched)
	}

	results, err := c.Search("traffic")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 1 || results[0].Name != "traffic-light" {
		t.Errorf("search results = %+v", results)
	}
}

func TestClient_FetchMissingEntry(t *testing.T) {
	srv := httptest.NewServer(registryclient.NewServer().Handler())
	defer srv.Close()

	c := registryclient.New(srv.URL)
	if _, err := c.Fetch("nonexistent", "1.0.0"); err == nil {
		t.Fatal("expected an error fetching a nonexistent entry")
	}
}

func TestClient_SearchEmptyQueryReturnsAll(t *testing.T) {
	srv := httptest.NewServer(registryclient.NewServer().Handler())
	defer srv.Close()

	c := registryclient.New(srv.URL)
	for _, name := range []string{"a", "b"} {
		if err := c.Publish(registryclient.Entry{Name: name, Version: "1.0.0", Body: json.RawMessage(`{}`)}); err != nil {
			t.Fatalf("publish %s: %v", name, err)
		}
	}
	results, err := c.Search("")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("results = %d, want 2", len(results))
	}
}
