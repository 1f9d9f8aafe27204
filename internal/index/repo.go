package index

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/models"
)

const dateLayout = "2006-01-02"

// PostRow represents a row in the posts table.
type PostRow struct {
	Path        string
	Subdoc      int
	Title       string
	Date        time.Time
	Description string
	Tags        []string
	Draft       bool
}

// ID returns the post identity for this row.
func (r PostRow) ID() models.Identity {
	return models.Identity{Path: r.Path, Offset: r.Subdoc}
}

// SearchResult represents one search hit.
type SearchResult struct {
	Path    string
	Subdoc  int
	Title   string
	Snippet string
}

// Rebuild replaces the entire index with the given posts inside a single
// transaction. Posts must arrive in catalog order; the stored position
// preserves it for listing queries.
func (db *DB) Rebuild(posts []*models.Post) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	if _, err := tx.Exec(`DELETE FROM posts`); err != nil {
		return fmt.Errorf("index: clear posts: %w", err)
	}
	ftsClear(tx)

	stmt, err := tx.Prepare(`
		INSERT INTO posts (path, subdoc, pos, title, date, description, tags, draft, body)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("index: prepare insert: %w", err)
	}
	defer stmt.Close()

	for pos, p := range posts {
		tagsJSON, _ := json.Marshal(p.Tags)
		_, err := stmt.Exec(p.ID.Path, p.ID.Offset, pos, p.Title, p.Date.Format(dateLayout),
			p.Description, string(tagsJSON), p.Draft, p.Body)
		if err != nil {
			return fmt.Errorf("index: insert post %s: %w", p.ID, err)
		}
		if err := ftsInsert(tx, p.ID.Path, p.ID.Offset, p.Title, p.Body, p.Tags); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetPost returns one row by identity, or apperr.ErrNotFound.
func (db *DB) GetPost(path string, subdoc int) (*PostRow, error) {
	row := db.conn.QueryRow(`
		SELECT path, subdoc, title, date, description, tags, draft
		FROM posts WHERE path = ? AND subdoc = ?
	`, path, subdoc)
	r, err := scanPostRow(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s#%d", apperr.ErrNotFound, path, subdoc)
		}
		return nil, fmt.Errorf("index: get post: %w", err)
	}
	return r, nil
}

// ListPosts returns a page of posts in catalog order with an optional tag
// filter. Drafts are excluded unless includeDrafts is set.
func (db *DB) ListPosts(limit, offset int, tag string, includeDrafts bool) ([]PostRow, int, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	where := `WHERE 1=1`
	var args []any
	if !includeDrafts {
		where += ` AND draft = 0`
	}
	if tag != "" {
		// Tags are stored as a JSON array of strings.
		where += ` AND tags LIKE ?`
		args = append(args, `%"`+tag+`"%`)
	}

	var total int
	if err := db.conn.QueryRow(`SELECT count(*) FROM posts `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("index: count posts: %w", err)
	}

	query := `
		SELECT path, subdoc, title, date, description, tags, draft
		FROM posts ` + where + `
		ORDER BY pos
		LIMIT ? OFFSET ?
	`
	rows, err := db.conn.Query(query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("index: list posts: %w", err)
	}
	defer rows.Close()

	var out []PostRow
	for rows.Next() {
		r, err := scanPostRow(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *r)
	}
	return out, total, rows.Err()
}

func scanPostRow(scan func(...any) error) (*PostRow, error) {
	var r PostRow
	var date, tagsJSON string
	if err := scan(&r.Path, &r.Subdoc, &r.Title, &date, &r.Description, &tagsJSON, &r.Draft); err != nil {
		return nil, err
	}
	r.Date, _ = time.Parse(dateLayout, date)
	_ = json.Unmarshal([]byte(tagsJSON), &r.Tags)
	return &r, nil
}
