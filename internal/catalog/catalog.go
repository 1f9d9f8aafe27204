// Package catalog merges parsed posts into the site-wide ordered catalog and
// publishes immutable snapshots of it.
package catalog

import (
	"fmt"
	"sort"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/models"
)

// Catalog is the complete ordered set of ingested posts: date descending,
// ties broken by discovery order. It holds references to the posts, not
// copies.
type Catalog struct {
	Posts    []*models.Post
	Warnings []string
}

// Build validates posts and produces a new Catalog. Two posts resolving to
// the same identity fail the build; a missing description is recorded as a
// warning, not a rejection. The input slice must be in discovery order and
// is left untouched.
func Build(posts []*models.Post) (*Catalog, error) {
	seen := make(map[models.Identity]struct{}, len(posts))
	var warnings []string
	for _, p := range posts {
		if _, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("%w: %s", apperr.ErrDuplicateIdentity, p.ID)
		}
		seen[p.ID] = struct{}{}
		if p.Description == "" {
			warnings = append(warnings, fmt.Sprintf("%s: missing description", p.ID))
		}
	}

	ordered := make([]*models.Post, len(posts))
	copy(ordered, posts)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Date.After(ordered[j].Date)
	})

	return &Catalog{Posts: ordered, Warnings: warnings}, nil
}

// Lookup returns the post with the given identity, or apperr.ErrNotFound.
func (c *Catalog) Lookup(id models.Identity) (*models.Post, error) {
	for _, p := range c.Posts {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", apperr.ErrNotFound, id)
}

// Len returns the number of posts in the catalog.
func (c *Catalog) Len() int { return len(c.Posts) }
