// Package siteservice coordinates the ingestion pipeline, the search index,
// and the published catalog snapshot.
package siteservice

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/catalog"
	"github.com/starford/ansuz/internal/index"
	"github.com/starford/ansuz/internal/ingest"
	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/storage"
)

// PostDetail is the full representation of a post.
type PostDetail struct {
	ID          models.Identity `json:"id"`
	Title       string          `json:"title"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description,omitempty"`
	Tags        []string        `json:"tags"`
	Draft       bool            `json:"draft"`
	Body        string          `json:"body"`
	Extra       map[string]any  `json:"extra,omitempty"`
}

// PostListItem is a lightweight item in a list response.
type PostListItem struct {
	ID          models.Identity `json:"id"`
	Title       string          `json:"title"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description,omitempty"`
	Tags        []string        `json:"tags"`
	Draft       bool            `json:"draft"`
}

// TagSummary is one entry in the tag listing.
type TagSummary struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// IngestSummary reports the outcome of one ingestion run.
type IngestSummary struct {
	Files     int       `json:"files"`
	Posts     int       `json:"posts"`
	Tags      int       `json:"tags"`
	Skipped   int       `json:"skipped"`
	Unchanged bool      `json:"unchanged"`
	Errors    []string  `json:"errors,omitempty"`
	BuiltAt   time.Time `json:"built_at"`
}

// Service owns the published snapshot and serialises ingestion runs.
type Service struct {
	store  storage.Provider
	db     index.PostIndex
	snaps  *catalog.Store
	opts   ingest.Options
	logger *slog.Logger

	mu sync.Mutex // one ingestion run at a time
}

// NewService creates a new site service.
func NewService(store storage.Provider, db index.PostIndex, snaps *catalog.Store, opts ingest.Options, logger *slog.Logger) *Service {
	return &Service{store: store, db: db, snaps: snaps, opts: opts, logger: logger}
}

// Reingest runs the full pipeline. On success the search index is rebuilt and
// the new snapshot is published atomically; on any failure the previously
// published snapshot remains untouched. A run whose content fingerprint
// matches the current snapshot publishes nothing.
func (s *Service) Reingest(ctx context.Context) (*IngestSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := ingest.Run(ctx, s.store, s.opts, s.logger)
	if err != nil {
		return &IngestSummary{Errors: errorStrings(res)}, err
	}
	snap := res.Snapshot

	if cur := s.snaps.Current(); cur != nil && cur.Fingerprint == snap.Fingerprint {
		return &IngestSummary{
			Files:     res.Files,
			Posts:     cur.Catalog.Len(),
			Tags:      len(cur.Tags),
			Skipped:   len(res.Errors),
			Unchanged: true,
			BuiltAt:   cur.BuiltAt,
		}, nil
	}

	if err := s.db.Rebuild(snap.Catalog.Posts); err != nil {
		return nil, fmt.Errorf("siteservice: rebuild index: %w", err)
	}
	s.snaps.Publish(snap)

	return &IngestSummary{
		Files:   res.Files,
		Posts:   snap.Catalog.Len(),
		Tags:    len(snap.Tags),
		Skipped: len(res.Errors),
		Errors:  errorStrings(res),
		BuiltAt: snap.BuiltAt,
	}, nil
}

// Ready reports whether a catalog snapshot has been published.
func (s *Service) Ready() bool {
	return s.snaps.Current() != nil
}

// Snapshot returns the currently published snapshot, or nil.
func (s *Service) Snapshot() *catalog.Snapshot {
	return s.snaps.Current()
}

// GetPost returns the full post for an identity from the published snapshot.
func (s *Service) GetPost(_ context.Context, id models.Identity) (*PostDetail, error) {
	snap := s.snaps.Current()
	if snap == nil {
		return nil, apperr.ErrNotFound
	}
	p, err := snap.Catalog.Lookup(id)
	if err != nil {
		return nil, err
	}
	return &PostDetail{
		ID:          p.ID,
		Title:       p.Title,
		Date:        p.Date,
		Description: p.Description,
		Tags:        nonNilSlice(p.Tags),
		Draft:       p.Draft,
		Body:        p.Body,
		Extra:       p.Extra,
	}, nil
}

// ListPosts returns paginated posts in catalog order with optional tag filter.
func (s *Service) ListPosts(_ context.Context, limit, offset int, tag string, includeDrafts bool) ([]PostListItem, int, error) {
	rows, total, err := s.db.ListPosts(limit, offset, tag, includeDrafts)
	if err != nil {
		return nil, 0, err
	}
	items := make([]PostListItem, len(rows))
	for i, r := range rows {
		items[i] = PostListItem{
			ID:          r.ID(),
			Title:       r.Title,
			Date:        r.Date,
			Description: r.Description,
			Tags:        nonNilSlice(r.Tags),
			Draft:       r.Draft,
		}
	}
	return items, total, nil
}

// Tags returns every tag with its post count, in lexical order.
func (s *Service) Tags(_ context.Context) []TagSummary {
	snap := s.snaps.Current()
	if snap == nil {
		return []TagSummary{}
	}
	names := snap.Tags.Tags()
	out := make([]TagSummary, len(names))
	for i, name := range names {
		out[i] = TagSummary{Name: name, Count: len(snap.Tags[name])}
	}
	return out
}

// TagPosts returns the ordered post identities carrying tag, or
// apperr.ErrNotFound for an unknown tag.
func (s *Service) TagPosts(_ context.Context, tag string) ([]models.Identity, error) {
	snap := s.snaps.Current()
	if snap == nil {
		return nil, apperr.ErrNotFound
	}
	ids := snap.Tags.Posts(tag)
	if ids == nil {
		return nil, fmt.Errorf("%w: tag %q", apperr.ErrNotFound, tag)
	}
	return ids, nil
}

// Search delegates full-text search to the index.
func (s *Service) Search(_ context.Context, query string, limit int) ([]index.SearchResult, error) {
	return s.db.Search(query, limit)
}

func errorStrings(res *ingest.Result) []string {
	if res == nil || len(res.Errors) == 0 {
		return nil
	}
	out := make([]string, len(res.Errors))
	for i, pe := range res.Errors {
		out[i] = pe.Error()
	}
	return out
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
