// Package catalog fetches the remote release manifest and selects versions from it.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/conn-castle/nodeup/internal/messages"
	"github.com/conn-castle/nodeup/internal/platform"
)

// IndexFile is the manifest name under the mirror root.
const IndexFile = "index.json"

const dateLayout = "2006-01-02"

// Entry is one published release as listed in the manifest.
type Entry struct {
	Version     string
	ReleaseDate time.Time
	// Files lists the platform asset identifiers published for the release.
	Files []string
	// LTS is the release line codename, or "" for non-LTS releases.
	LTS string
}

type rawEntry struct {
	Version string          `json:"version"`
	Date    string          `json:"date"`
	Files   []string        `json:"files"`
	LTS     json.RawMessage `json:"lts"`
}

// UnmarshalJSON decodes a manifest object. An unparsable date leaves ReleaseDate zero;
// "lts" is either false or a codename string.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var raw rawEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	e.Version = raw.Version
	e.Files = raw.Files
	e.ReleaseDate = time.Time{}
	if parsed, err := time.Parse(dateLayout, strings.TrimSpace(raw.Date)); err == nil {
		e.ReleaseDate = parsed
	}
	e.LTS = ""
	if len(raw.LTS) > 0 && bytes.HasPrefix(bytes.TrimSpace(raw.LTS), []byte(`"`)) {
		var codename string
		if err := json.Unmarshal(raw.LTS, &codename); err == nil {
			e.LTS = codename
		}
	}
	return nil
}

// HasAsset reports whether the release publishes the given platform asset.
func (e Entry) HasAsset(id string) bool {
	for _, f := range e.Files {
		if f == id {
			return true
		}
	}
	return false
}

// JSONGetter is the transport surface the client needs.
type JSONGetter interface {
	GetJSON(ctx context.Context, url string, v any) error
}

// Client reads the manifest from a mirror.
type Client struct {
	mirror   string
	getter   JSONGetter
	platform platform.Info
}

// NewClient returns a Client for mirror, filtering by p.
func NewClient(mirror string, getter JSONGetter, p platform.Info) *Client {
	return &Client{
		mirror:   strings.TrimRight(mirror, "/"),
		getter:   getter,
		platform: p,
	}
}

// URL returns the manifest location.
func (c *Client) URL() string {
	return c.mirror + "/" + IndexFile
}

// Fetch downloads and decodes the manifest. A null document is an empty catalog.
func (c *Client) Fetch(ctx context.Context) ([]Entry, error) {
	var entries []Entry
	if err := c.getter.GetJSON(ctx, c.URL(), &entries); err != nil {
		return nil, fmt.Errorf(messages.CatalogFetchFailedFmt, err)
	}
	if entries == nil {
		entries = []Entry{}
	}
	return entries, nil
}

// Available fetches the manifest and keeps only releases published for the client's platform.
func (c *Client) Available(ctx context.Context) ([]Entry, error) {
	entries, err := c.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	return FilterByAsset(entries, c.platform.AssetID()), nil
}

// FilterByAsset returns the entries that list asset id, preserving order.
func FilterByAsset(entries []Entry, id string) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.HasAsset(id) {
			out = append(out, e)
		}
	}
	return out
}
