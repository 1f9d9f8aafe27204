// Package models defines the domain types for Ansuz.
package models

import (
	"fmt"
	"time"
)

// Identity uniquely names a post: the source file path (relative to the
// content root) plus the 0-based ordinal of the sub-document within it.
type Identity struct {
	Path   string `json:"path"`
	Offset int    `json:"offset"`
}

func (id Identity) String() string {
	return fmt.Sprintf("%s#%d", id.Path, id.Offset)
}

// Post is one ingested article. Posts are never mutated after construction;
// every ingestion run produces a fresh set.
type Post struct {
	ID          Identity       `json:"id"`
	Title       string         `json:"title"`
	Date        time.Time      `json:"date"`
	Description string         `json:"description,omitempty"`
	Tags        []string       `json:"tags,omitempty"`
	Draft       bool           `json:"draft,omitempty"`
	Body        string         `json:"body"`
	Extra       map[string]any `json:"extra,omitempty"`
}

// FileMetadata is a lightweight representation returned by content listing.
type FileMetadata struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}
