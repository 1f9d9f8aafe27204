package ingest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/testutil"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const validPost = "+++\ntitle = \"Solo\"\ndate = \"2025-04-01\"\n+++\nbody\n"

func TestRun_SingleFile(t *testing.T) {
	dir, store := testutil.TestContent(t)
	testutil.WriteFile(t, dir, "solo.md", validPost)

	res, err := Run(context.Background(), store, Options{Mode: ModeStrict}, discard())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Snapshot.Catalog.Len() != 1 {
		t.Fatalf("posts = %d, want 1", res.Snapshot.Catalog.Len())
	}
	p := res.Snapshot.Catalog.Posts[0]
	if p.ID.Path != "solo.md" || p.ID.Offset != 0 {
		t.Errorf("identity = %s", p.ID)
	}
	if p.Title != "Solo" {
		t.Errorf("title = %q", p.Title)
	}
}

func TestRun_BundledSubDocuments(t *testing.T) {
	dir, store := testutil.TestContent(t)
	bundle := "+++\ntitle=\"A\"\ndate=\"2025-01-01\"\n+++\nbody\n" +
		"%%%\n" +
		"+++\ntitle=\"A\"\ndate=\"2025-01-01\"\n+++\nbody\n"
	testutil.WriteFile(t, dir, "bundle.md", bundle)

	res, err := Run(context.Background(), store, Options{Mode: ModeStrict}, discard())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	cat := res.Snapshot.Catalog
	if cat.Len() != 2 {
		t.Fatalf("posts = %d, want 2", cat.Len())
	}
	// Date tie: discovery order preserved, offsets 0 then 1.
	if cat.Posts[0].ID.Offset != 0 || cat.Posts[1].ID.Offset != 1 {
		t.Errorf("order = %s, %s", cat.Posts[0].ID, cat.Posts[1].ID)
	}
	// No taxonomies declared: tag index is empty.
	if len(res.Snapshot.Tags) != 0 {
		t.Errorf("tags = %v, want empty", res.Snapshot.Tags)
	}
}

func TestRun_StrictAbortsOnMissingClosingFence(t *testing.T) {
	dir, store := testutil.TestContent(t)
	testutil.WriteFile(t, dir, "good.md", validPost)
	testutil.WriteFile(t, dir, "bad.md", "+++\ntitle = \"B\"\ndate = \"2025-01-01\"\nno closing fence")

	res, err := Run(context.Background(), store, Options{Mode: ModeStrict}, discard())
	if err == nil {
		t.Fatal("expected strict-mode failure")
	}
	if !errors.Is(err, apperr.ErrMalformedFrontMatter) {
		t.Errorf("err = %v, want ErrMalformedFrontMatter", err)
	}
	if res.Snapshot != nil {
		t.Error("failed run must not produce a snapshot")
	}
	if len(res.Errors) != 1 || res.Errors[0].Path != "bad.md" {
		t.Errorf("errors = %v", res.Errors)
	}
}

func TestRun_LenientSkipsFailingFile(t *testing.T) {
	dir, store := testutil.TestContent(t)
	testutil.WriteFile(t, dir, "good.md", validPost)
	testutil.WriteFile(t, dir, "bad.md", "+++\ntitle = \"B\"\nno closing fence")

	res, err := Run(context.Background(), store, Options{Mode: ModeLenient}, discard())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Snapshot.Catalog.Len() != 1 {
		t.Fatalf("posts = %d, want 1 (bad file skipped)", res.Snapshot.Catalog.Len())
	}
	if len(res.Errors) != 1 || res.Errors[0].Path != "bad.md" {
		t.Errorf("errors = %v, want one for bad.md", res.Errors)
	}
}

func TestRun_FailingSubDocumentDropsWholeFile(t *testing.T) {
	dir, store := testutil.TestContent(t)
	bundle := validPost + "%%%\n+++\ntitle = \"broken\"\n+++\nbody\n"
	testutil.WriteFile(t, dir, "bundle.md", bundle)

	res, err := Run(context.Background(), store, Options{Mode: ModeLenient}, discard())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Snapshot.Catalog.Len() != 0 {
		t.Errorf("posts = %d, want 0 (whole file contributes nothing)", res.Snapshot.Catalog.Len())
	}
	if len(res.Errors) != 1 || res.Errors[0].Offset != 1 {
		t.Errorf("errors = %v, want offset 1 recorded", res.Errors)
	}
}

func TestRun_ErrorCarriesPathAndOffset(t *testing.T) {
	dir, store := testutil.TestContent(t)
	bundle := validPost + "%%%\n+++\ntitle = \"X\"\ndate = \"not-a-date\"\n+++\nbody\n"
	testutil.WriteFile(t, dir, "posts/mix.md", bundle)

	res, _ := Run(context.Background(), store, Options{Mode: ModeStrict}, discard())
	if len(res.Errors) != 1 {
		t.Fatalf("errors = %v, want 1", res.Errors)
	}
	pe := res.Errors[0]
	if pe.Path != "posts/mix.md" || pe.Offset != 1 {
		t.Errorf("error location = %s#%d", pe.Path, pe.Offset)
	}
	if !errors.Is(pe, apperr.ErrInvalidDate) {
		t.Errorf("err = %v, want ErrInvalidDate", pe)
	}
}

func TestRun_DeterministicAcrossWorkerCounts(t *testing.T) {
	dir, store := testutil.TestContent(t)
	testutil.WriteFile(t, dir, "a.md", "+++\ntitle=\"A\"\ndate=\"2025-01-03\"\n+++\n")
	testutil.WriteFile(t, dir, "b.md", "+++\ntitle=\"B\"\ndate=\"2025-01-03\"\n+++\n")
	testutil.WriteFile(t, dir, "c.md", "+++\ntitle=\"C\"\ndate=\"2025-01-01\"\n+++\n")

	serial, err := Run(context.Background(), store, Options{Mode: ModeStrict, Workers: 1}, discard())
	if err != nil {
		t.Fatalf("Run workers=1: %v", err)
	}
	parallel, err := Run(context.Background(), store, Options{Mode: ModeStrict, Workers: 8}, discard())
	if err != nil {
		t.Fatalf("Run workers=8: %v", err)
	}
	for i := range serial.Snapshot.Catalog.Posts {
		a := serial.Snapshot.Catalog.Posts[i].ID
		b := parallel.Snapshot.Catalog.Posts[i].ID
		if a != b {
			t.Errorf("Posts[%d]: %s vs %s", i, a, b)
		}
	}
	if serial.Snapshot.Fingerprint != parallel.Snapshot.Fingerprint {
		t.Error("fingerprints differ across worker counts")
	}
}

func TestRun_TagIndexBuilt(t *testing.T) {
	dir, store := testutil.TestContent(t)
	testutil.WriteFile(t, dir, "a.md", "+++\ntitle=\"A\"\ndate=\"2025-01-01\"\n[taxonomies]\ntags=[\"go\"]\n+++\n")
	testutil.WriteFile(t, dir, "b.md", "+++\ntitle=\"B\"\ndate=\"2025-02-01\"\n[taxonomies]\ntags=[\"go\",\"web\"]\n+++\n")

	res, err := Run(context.Background(), store, Options{Mode: ModeStrict}, discard())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	tags := res.Snapshot.Tags
	if len(tags["go"]) != 2 || len(tags["web"]) != 1 {
		t.Errorf("tag buckets: %v", tags)
	}
	// Newest first within a tag.
	if tags["go"][0].Path != "b.md" {
		t.Errorf("go bucket order = %v", tags["go"])
	}
}

func TestRun_EmptyContentDir(t *testing.T) {
	_, store := testutil.TestContent(t)
	res, err := Run(context.Background(), store, Options{Mode: ModeStrict}, discard())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Snapshot.Catalog.Len() != 0 {
		t.Errorf("posts = %d, want 0", res.Snapshot.Catalog.Len())
	}
}
