package splitter

import (
	"strings"
	"testing"
)

func TestSplit_NoMarker(t *testing.T) {
	s := New("")
	input := "+++\ntitle=\"A\"\n+++\nbody"
	frags := s.Split(input)
	if len(frags) != 1 {
		t.Fatalf("len(frags) = %d, want 1", len(frags))
	}
	if frags[0] != input {
		t.Errorf("fragment = %q, want whole input", frags[0])
	}
}

func TestSplit_NMarkersYieldNPlusOne(t *testing.T) {
	s := New("")
	input := "one\n%%%\ntwo\n%%%\nthree"
	frags := s.Split(input)
	if len(frags) != 3 {
		t.Fatalf("len(frags) = %d, want 3", len(frags))
	}
	want := []string{"one", "two", "three"}
	for i, w := range want {
		if frags[i] != w {
			t.Errorf("frags[%d] = %q, want %q", i, frags[i], w)
		}
	}
}

func TestSplit_LeadingMarkerDiscardsEmptyFragment(t *testing.T) {
	s := New("")
	frags := s.Split("%%%\ncontent")
	if len(frags) != 1 {
		t.Fatalf("len(frags) = %d, want 1", len(frags))
	}
	if frags[0] != "content" {
		t.Errorf("fragment = %q", frags[0])
	}
}

func TestSplit_TrailingMarkerDiscardsEmptyFragment(t *testing.T) {
	s := New("")
	frags := s.Split("content\n%%%\n")
	if len(frags) != 1 {
		t.Fatalf("len(frags) = %d, want 1", len(frags))
	}
	if frags[0] != "content" {
		t.Errorf("fragment = %q", frags[0])
	}
}

func TestSplit_InteriorEmptyFragmentKept(t *testing.T) {
	s := New("")
	frags := s.Split("one\n%%%\n%%%\ntwo")
	if len(frags) != 3 {
		t.Fatalf("len(frags) = %d, want 3", len(frags))
	}
	if strings.TrimSpace(frags[1]) != "" {
		t.Errorf("middle fragment = %q, want empty", frags[1])
	}
}

func TestSplit_CustomMarker(t *testing.T) {
	s := New("<<<>>>")
	frags := s.Split("a\n<<<>>>\nb")
	if len(frags) != 2 {
		t.Fatalf("len(frags) = %d, want 2", len(frags))
	}
}

func TestSplit_MarkerInsideLineIgnored(t *testing.T) {
	s := New("")
	frags := s.Split("a %%% b\nc")
	if len(frags) != 1 {
		t.Fatalf("len(frags) = %d, want 1 (marker must be the whole line)", len(frags))
	}
}

func TestSplit_CRLFMarkerLine(t *testing.T) {
	s := New("")
	frags := s.Split("a\r\n%%%\r\nb")
	if len(frags) != 2 {
		t.Fatalf("len(frags) = %d, want 2", len(frags))
	}
}

func TestSplit_EmptyInput(t *testing.T) {
	s := New("")
	frags := s.Split("")
	if len(frags) != 0 {
		t.Errorf("len(frags) = %d, want 0", len(frags))
	}
}
