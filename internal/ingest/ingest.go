// Package ingest runs the content ingestion pipeline: it splits every content
// file into sub-documents, parses their front matter concurrently, and reduces
// the results into a fresh catalog snapshot.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/catalog"
	"github.com/starford/ansuz/internal/checksum"
	"github.com/starford/ansuz/internal/frontmatter"
	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/splitter"
	"github.com/starford/ansuz/internal/storage"
	"github.com/starford/ansuz/internal/taxonomy"
)

// Ingestion modes.
const (
	ModeStrict  = "strict"
	ModeLenient = "lenient"
)

// Options configure one pipeline run.
type Options struct {
	// Mode is ModeStrict (any parse failure aborts the run) or ModeLenient
	// (failing files are skipped and reported).
	Mode string
	// Workers bounds concurrent per-file parsing. Zero means no limit.
	Workers int
	// Marker is the sub-document separator line; empty selects the default.
	Marker string
}

// Result is the outcome of a completed run. In lenient mode Errors lists the
// files that were skipped; in strict mode a non-empty Errors means the run
// failed and Snapshot is nil.
type Result struct {
	Snapshot *catalog.Snapshot
	Errors   []*apperr.ParseError
	Files    int
}

// fileResult carries one worker's output back across the barrier.
type fileResult struct {
	posts []*models.Post
	err   *apperr.ParseError
}

// Run executes the pipeline over every content file. Per-file work is
// independent and runs concurrently; aggregation happens only after all
// workers finish, so the output ordering is deterministic regardless of
// completion order. Run never publishes anything itself: on failure the
// caller's previously published snapshot stays untouched.
func Run(ctx context.Context, store storage.Provider, opts Options, logger *slog.Logger) (*Result, error) {
	metas, err := store.List("")
	if err != nil {
		return nil, fmt.Errorf("ingest: list content: %w", err)
	}

	sp := splitter.New(opts.Marker)
	results := make([]fileResult, len(metas))

	g, gCtx := errgroup.WithContext(ctx)
	if opts.Workers > 0 {
		g.SetLimit(opts.Workers)
	}
	for i, m := range metas {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			data, err := store.Read(m.Path)
			if err != nil {
				results[i] = fileResult{err: apperr.NewParseError(m.Path, 0, err)}
				return nil
			}
			results[i] = parseFile(m.Path, string(data), sp)
			return nil
		})
	}
	// Barrier: aggregation must see every per-file result.
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("ingest: aborted: %w", err)
	}

	var posts []*models.Post
	var parseErrs []*apperr.ParseError
	for _, r := range results {
		if r.err != nil {
			parseErrs = append(parseErrs, r.err)
			continue
		}
		posts = append(posts, r.posts...)
	}

	if len(parseErrs) > 0 {
		if opts.Mode == ModeStrict {
			return &Result{Errors: parseErrs, Files: len(metas)}, strictFailure(parseErrs)
		}
		for _, pe := range parseErrs {
			logger.Warn("ingest: file skipped",
				slog.String("path", pe.Path),
				slog.Int("offset", pe.Offset),
				slog.String("error", pe.Err.Error()))
		}
	}

	cat, err := catalog.Build(posts)
	if err != nil {
		return &Result{Errors: parseErrs, Files: len(metas)}, fmt.Errorf("ingest: build catalog: %w", err)
	}
	for _, w := range cat.Warnings {
		logger.Warn("ingest: validation", slog.String("warning", w))
	}

	checksums := make(map[string]string, len(metas))
	for _, m := range metas {
		checksums[m.Path] = m.Checksum
	}

	snap := &catalog.Snapshot{
		Catalog:     cat,
		Tags:        taxonomy.BuildIndex(cat.Posts),
		Fingerprint: checksum.Fingerprint(checksums),
		BuiltAt:     time.Now(),
	}

	logger.Info("ingest: run complete",
		slog.Int("files", len(metas)),
		slog.Int("posts", cat.Len()),
		slog.Int("tags", len(snap.Tags)),
		slog.Int("skipped", len(parseErrs)))

	return &Result{Snapshot: snap, Errors: parseErrs, Files: len(metas)}, nil
}

// parseFile splits one file and parses each sub-document. A failure in any
// sub-document makes the whole file contribute zero posts.
func parseFile(path, content string, sp *splitter.Splitter) fileResult {
	var posts []*models.Post
	for offset, doc := range sp.Split(content) {
		fm, body, err := frontmatter.Parse(doc)
		if err != nil {
			return fileResult{err: apperr.NewParseError(path, offset, err)}
		}
		posts = append(posts, &models.Post{
			ID:          models.Identity{Path: path, Offset: offset},
			Title:       fm.Title,
			Date:        fm.Date,
			Description: fm.Description,
			Tags:        fm.Tags,
			Draft:       fm.Draft,
			Body:        body,
			Extra:       fm.Extra,
		})
	}
	return fileResult{posts: posts}
}

func strictFailure(parseErrs []*apperr.ParseError) error {
	errs := make([]error, len(parseErrs))
	for i, pe := range parseErrs {
		errs[i] = pe
	}
	return fmt.Errorf("ingest: %d file(s) failed: %w", len(parseErrs), errors.Join(errs...))
}
