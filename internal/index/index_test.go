package index

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/models"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	f, err := os.CreateTemp("", "ansuz-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	db, err := Open(f.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func post(path string, offset int, date, title string, draft bool, tags ...string) *models.Post {
	d, _ := time.Parse("2006-01-02", date)
	return &models.Post{
		ID:    models.Identity{Path: path, Offset: offset},
		Title: title,
		Date:  d,
		Tags:  tags,
		Draft: draft,
		Body:  "body of " + title,
	}
}

func TestSchemaCreation(t *testing.T) {
	db := testDB(t)
	var count int
	if err := db.conn.QueryRow(`SELECT count(*) FROM posts`).Scan(&count); err != nil {
		t.Fatalf("posts table missing: %v", err)
	}
}

func TestRebuildAndGet(t *testing.T) {
	db := testDB(t)
	err := db.Rebuild([]*models.Post{
		post("a.md", 0, "2025-02-01", "A", false, "go"),
		post("a.md", 1, "2025-01-01", "A2", false),
	})
	if err != nil {
		t.Fatalf("Rebuild: %v", err)
	}

	r, err := db.GetPost("a.md", 1)
	if err != nil {
		t.Fatalf("GetPost: %v", err)
	}
	if r.Title != "A2" {
		t.Errorf("title = %q, want A2", r.Title)
	}
	if _, err := db.GetPost("a.md", 2); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestRebuildReplacesWholesale(t *testing.T) {
	db := testDB(t)
	_ = db.Rebuild([]*models.Post{
		post("a.md", 0, "2025-01-01", "A", false),
		post("b.md", 0, "2025-01-02", "B", false),
	})
	_ = db.Rebuild([]*models.Post{
		post("c.md", 0, "2025-01-03", "C", false),
	})

	rows, total, err := db.ListPosts(10, 0, "", true)
	if err != nil {
		t.Fatalf("ListPosts: %v", err)
	}
	if total != 1 || len(rows) != 1 || rows[0].Path != "c.md" {
		t.Errorf("rows = %v, total = %d; want only c.md", rows, total)
	}
}

func TestListPosts_OrderIsInsertionOrder(t *testing.T) {
	db := testDB(t)
	// Insertion order carries the catalog's date-descending ordering.
	_ = db.Rebuild([]*models.Post{
		post("new.md", 0, "2025-03-01", "New", false),
		post("old.md", 0, "2025-01-01", "Old", false),
	})
	rows, _, err := db.ListPosts(10, 0, "", true)
	if err != nil {
		t.Fatalf("ListPosts: %v", err)
	}
	if rows[0].Path != "new.md" || rows[1].Path != "old.md" {
		t.Errorf("order = %s, %s", rows[0].Path, rows[1].Path)
	}
}

func TestListPosts_TagFilter(t *testing.T) {
	db := testDB(t)
	_ = db.Rebuild([]*models.Post{
		post("a.md", 0, "2025-01-01", "A", false, "go", "web"),
		post("b.md", 0, "2025-01-02", "B", false, "web"),
		post("c.md", 0, "2025-01-03", "C", false),
	})
	rows, total, err := db.ListPosts(10, 0, "go", true)
	if err != nil {
		t.Fatalf("ListPosts: %v", err)
	}
	if total != 1 || rows[0].Path != "a.md" {
		t.Errorf("rows = %v, total = %d", rows, total)
	}
}

func TestListPosts_DraftsExcludedByDefault(t *testing.T) {
	db := testDB(t)
	_ = db.Rebuild([]*models.Post{
		post("pub.md", 0, "2025-01-01", "Pub", false),
		post("wip.md", 0, "2025-01-02", "WIP", true),
	})
	rows, total, err := db.ListPosts(10, 0, "", false)
	if err != nil {
		t.Fatalf("ListPosts: %v", err)
	}
	if total != 1 || rows[0].Path != "pub.md" {
		t.Errorf("rows = %v, total = %d; drafts should be excluded", rows, total)
	}

	_, total, _ = db.ListPosts(10, 0, "", true)
	if total != 2 {
		t.Errorf("total = %d with drafts included, want 2", total)
	}
}

func TestListPosts_Pagination(t *testing.T) {
	db := testDB(t)
	_ = db.Rebuild([]*models.Post{
		post("a.md", 0, "2025-01-03", "A", false),
		post("b.md", 0, "2025-01-02", "B", false),
		post("c.md", 0, "2025-01-01", "C", false),
	})
	rows, total, err := db.ListPosts(2, 1, "", true)
	if err != nil {
		t.Fatalf("ListPosts: %v", err)
	}
	if total != 3 {
		t.Errorf("total = %d, want 3", total)
	}
	if len(rows) != 2 || rows[0].Path != "b.md" {
		t.Errorf("rows = %v", rows)
	}
}

func TestSearch(t *testing.T) {
	db := testDB(t)
	_ = db.Rebuild([]*models.Post{
		post("a.md", 0, "2025-01-01", "Concurrency in Go", false),
		post("b.md", 0, "2025-01-02", "Cooking", false),
	})
	hits, err := db.Search("Concurrency", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 1 || hits[0].Path != "a.md" {
		t.Errorf("hits = %v", hits)
	}
}
