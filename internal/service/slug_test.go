package service

import (
	"strings"
	"testing"

	"github.com/threadlog/internal/db"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "plain", input: "Hello World", expected: "hello-world"},
		{name: "punctuation", input: "What's new in Go 1.24?", expected: "what-s-new-in-go-1-24"},
		{name: "trims", input: "  spaced out  ", expected: "spaced-out"},
		{name: "collapses", input: "a -- b", expected: "a-b"},
		{name: "unicode letters kept", input: "Grüße", expected: "grüße"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := slugify(tt.input); got != tt.expected {
				t.Fatalf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestUniqueSlugAppendsSuffixOnCollision(t *testing.T) {
	gdb, cleanup := setupTestDB(t)
	defer cleanup()

	threads, thread := seedThread(t, gdb, nil)

	// Same title again: the second slug must differ from the first.
	second, err := threads.Create(testAuthor, ThreadInput{
		BoardID: thread.BoardID,
		Title:   thread.Title,
		Body:    "same title, different thread",
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if second.Slug == thread.Slug {
		t.Fatalf("expected distinct slug, both are %q", second.Slug)
	}
	if !strings.HasPrefix(second.Slug, thread.Slug+"-") {
		t.Fatalf("expected suffixed slug, got %q", second.Slug)
	}
}

func TestUniqueSlugForNonLatinTitle(t *testing.T) {
	gdb, cleanup := setupTestDB(t)
	defer cleanup()

	slug, err := uniqueSlug(gdb, &db.Thread{}, "!!! ???")
	if err != nil {
		t.Fatalf("uniqueSlug returned error: %v", err)
	}
	if slug == "" {
		t.Fatal("expected non-empty fallback slug")
	}
}

func TestExcerptFromMarkdown(t *testing.T) {
	got := excerptFromMarkdown("# Heading\n\nSome **bold** text with a [link](https://example.com).")
	if strings.ContainsAny(got, "#*[]<>") {
		t.Fatalf("expected markup stripped, got %q", got)
	}
	if !strings.Contains(got, "Some bold text with a link") {
		t.Fatalf("unexpected excerpt: %q", got)
	}

	long := strings.Repeat("word ", 100)
	truncated := excerptFromMarkdown(long)
	if len([]rune(truncated)) > excerptRuneLimit+1 {
		t.Fatalf("expected truncated excerpt, got %d runes", len([]rune(truncated)))
	}
	if !strings.HasSuffix(truncated, "…") {
		t.Fatalf("expected ellipsis suffix, got %q", truncated)
	}
}
