package index

import "github.com/starford/ansuz/internal/models"

// PostIndex defines the interface for catalog index operations.
// Consumers should depend on this interface rather than the concrete *DB type
// to facilitate testing with mocks.
type PostIndex interface {
	Rebuild(posts []*models.Post) error
	GetPost(path string, subdoc int) (*PostRow, error)
	ListPosts(limit, offset int, tag string, includeDrafts bool) ([]PostRow, int, error)
	Search(query string, limit int) ([]SearchResult, error)
	Close() error
}

// Verify *DB satisfies PostIndex at compile time.
var _ PostIndex = (*DB)(nil)
