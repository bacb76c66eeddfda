package markdown

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestWrapText(t *testing.T) {
	got := WrapText("click on me: title 0\nnext line", 12)
	want := []string{"click on me:", "title 0", "next line"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("WrapText mismatch (-want +got):\n%s", diff)
	}
	if got := WrapText("", 10); len(got) != 0 {
		t.Errorf("empty text should wrap to nothing, got %q", got)
	}
	if got := WrapText("abc", 0); len(got) != 1 || got[0] != "abc" {
		t.Errorf("zero width should return text as-is, got %q", got)
	}
}

func TestWrapTextWideRunes(t *testing.T) {
	// Each CJK rune is two cells wide.
	got := WrapText("漢字 漢字", 5)
	if len(got) != 2 {
		t.Errorf("expected wide runes to wrap, got %q", got)
	}
}

func TestRenderNarrowFallsBack(t *testing.T) {
	r := NewRenderer(nil)
	lines := r.Render("# Keys\n\npress h", "notty", 10)
	if r.CacheLen() != 0 {
		t.Error("narrow renders should bypass the cache")
	}
	if len(lines) == 0 {
		t.Error("fallback should still produce text")
	}
}

func TestRenderCaches(t *testing.T) {
	r := NewRenderer(nil)
	first := r.Render("# Keys\n\npress **h** to click the header", "notty", 60)
	if !strings.Contains(strings.Join(first, "\n"), "header") {
		t.Errorf("rendered help lost its text: %q", first)
	}
	second := r.Render("# Keys\n\npress **h** to click the header", "notty", 60)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("cached render differs:\n%s", diff)
	}
	if r.CacheLen() != 1 {
		t.Errorf("CacheLen = %d, want 1", r.CacheLen())
	}
	r.Render("# Keys\n\npress **h** to click the header", "notty", 70)
	if r.CacheLen() != 2 {
		t.Errorf("width change should add an entry, CacheLen = %d", r.CacheLen())
	}
}
