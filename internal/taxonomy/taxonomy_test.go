package taxonomy

import (
	"reflect"
	"testing"
	"time"

	"github.com/starford/ansuz/internal/models"
)

func post(path string, offset int, date string, tags ...string) *models.Post {
	d, _ := time.Parse("2006-01-02", date)
	return &models.Post{
		ID:   models.Identity{Path: path, Offset: offset},
		Date: d,
		Tags: tags,
	}
}

func TestBuildIndex_GroupsByTag(t *testing.T) {
	posts := []*models.Post{
		post("a.md", 0, "2025-01-01", "go"),
		post("b.md", 0, "2025-02-01", "go", "web"),
	}
	idx := BuildIndex(posts)
	if len(idx) != 2 {
		t.Fatalf("len(idx) = %d, want 2", len(idx))
	}
	if len(idx["go"]) != 2 || len(idx["web"]) != 1 {
		t.Errorf("bucket sizes: go=%d web=%d", len(idx["go"]), len(idx["web"]))
	}
}

func TestBuildIndex_DateDescendingWithin(t *testing.T) {
	posts := []*models.Post{
		post("old.md", 0, "2024-01-01", "go"),
		post("new.md", 0, "2025-01-01", "go"),
	}
	ids := BuildIndex(posts)["go"]
	if ids[0].Path != "new.md" || ids[1].Path != "old.md" {
		t.Errorf("order = %v, want new.md then old.md", ids)
	}
}

func TestBuildIndex_EqualDatesPreserveInputOrder(t *testing.T) {
	posts := []*models.Post{
		post("first.md", 0, "2025-01-01", "go"),
		post("second.md", 0, "2025-01-01", "go"),
	}
	ids := BuildIndex(posts)["go"]
	if ids[0].Path != "first.md" || ids[1].Path != "second.md" {
		t.Errorf("order = %v, want input order preserved", ids)
	}
}

func TestBuildIndex_Idempotent(t *testing.T) {
	posts := []*models.Post{
		post("a.md", 0, "2025-01-01", "go", "web"),
		post("a.md", 1, "2025-01-02", "go"),
		post("b.md", 0, "2025-01-01", "web"),
	}
	first := BuildIndex(posts)
	second := BuildIndex(posts)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("re-running over unchanged posts changed the index:\n%v\n%v", first, second)
	}
}

func TestBuildIndex_DoesNotMutateInput(t *testing.T) {
	posts := []*models.Post{
		post("a.md", 0, "2024-01-01", "go"),
		post("b.md", 0, "2025-01-01", "go"),
	}
	BuildIndex(posts)
	if posts[0].ID.Path != "a.md" || posts[1].ID.Path != "b.md" {
		t.Error("input slice order was mutated")
	}
}

func TestTags_LexicalOrder(t *testing.T) {
	idx := BuildIndex([]*models.Post{
		post("a.md", 0, "2025-01-01", "zeta", "alpha", "mid"),
	})
	got := idx.Tags()
	want := []string{"alpha", "mid", "zeta"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("tags = %v, want %v", got, want)
	}
}

func TestPosts_UnknownTag(t *testing.T) {
	idx := BuildIndex(nil)
	if idx.Posts("missing") != nil {
		t.Error("expected nil for unknown tag")
	}
}
