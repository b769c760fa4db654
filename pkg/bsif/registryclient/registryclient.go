// Package registryclient is a thin JSON-over-HTTP client for a BSIF
// document registry: publish, fetch and search against a plain REST
// document store.
package registryclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Client talks to a BSIF document registry server.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func New(baseURL string) *Client {
	return &Client{BaseURL: baseURL, HTTP: &http.Client{Timeout: 30 * time.Second}}
}

// Entry is one registry record: a named, versioned document body.
type Entry struct {
	Name    string          `json:"name"`
	Version string          `json:"version"`
	Body    json.RawMessage `json:"body"`
}

// Publish uploads an entry.
func (c *Client) Publish(entry Entry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal entry: %w", err)
	}
	resp, err := c.HTTP.Post(c.BaseURL+"/entries", "application/json", bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("publish request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("publish failed: %s: %s", resp.Status, body)
	}
	return nil
}

// Fetch retrieves one entry by name and version.
func (c *Client) Fetch(name, version string) (*Entry, error) {
	u := c.BaseURL + "/entries/" + url.PathEscape(name) + "/" + url.PathEscape(version)
	resp, err := c.HTTP.Get(u)
	if err != nil {
		return nil, fmt.Errorf("fetch request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("fetch failed: %s: %s", resp.Status, body)
	}
	var entry Entry
	if err := json.NewDecoder(resp.Body).Decode(&entry); err != nil {
		return nil, fmt.Errorf("decode entry: %w", err)
	}
	return &entry, nil
}

// Search lists entries whose name contains query.
func (c *Client) Search(query string) ([]Entry, error) {
	u := c.BaseURL + "/entries?q=" + url.QueryEscape(query)
	resp, err := c.HTTP.Get(u)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("search failed: %s: %s", resp.Status, body)
	}
	var entries []Entry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode entries: %w", err)
	}
	return entries, nil
}
