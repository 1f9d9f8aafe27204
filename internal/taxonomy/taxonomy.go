// Package taxonomy aggregates tag values across posts into a tag → posts index.
package taxonomy

import (
	"sort"

	"github.com/starford/ansuz/internal/models"
)

// Index maps a tag to the identities of the posts carrying it, ordered by
// post date descending with ties broken by input order.
type Index map[string][]models.Identity

// BuildIndex constructs the tag index for posts. The input slice is not
// mutated; ordering inside each tag bucket is derived from a stable sort of
// a copy, so re-running over the same posts yields an identical index.
func BuildIndex(posts []*models.Post) Index {
	ordered := make([]*models.Post, len(posts))
	copy(ordered, posts)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Date.After(ordered[j].Date)
	})

	idx := make(Index)
	for _, p := range ordered {
		for _, tag := range p.Tags {
			idx[tag] = append(idx[tag], p.ID)
		}
	}
	return idx
}

// Tags returns the tag names in lexical order, for deterministic output.
func (idx Index) Tags() []string {
	out := make([]string, 0, len(idx))
	for tag := range idx {
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}

// Posts returns the ordered identities for tag, or nil when the tag is unknown.
func (idx Index) Posts(tag string) []models.Identity {
	return idx[tag]
}
