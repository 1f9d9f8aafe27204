// Package storage defines the content directory abstraction. The ingestion
// pipeline only ever reads content; there is no write path.
package storage

import "github.com/starford/ansuz/internal/models"

// Provider is the interface for content file access.
type Provider interface {
	// List returns metadata for every .md file under dir (relative to the
	// content root), in lexical path order.
	List(dir string) ([]models.FileMetadata, error)
	// Read returns the raw bytes of the file at path (relative to the
	// content root).
	Read(path string) ([]byte, error)
}
