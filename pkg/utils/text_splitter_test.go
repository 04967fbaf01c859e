package utils

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSplitTextShortInput(t *testing.T) {
	got := SplitText("  Artículo 1. Objeto.  ", 100, 10)
	if len(got) != 1 || got[0] != "Artículo 1. Objeto." {
		t.Fatalf("unexpected chunks: %q", got)
	}

	if got := SplitText("   ", 100, 10); got != nil {
		t.Fatalf("expected nil for blank input, got %q", got)
	}
}

func TestSplitTextRespectsSizeAndWords(t *testing.T) {
	text := strings.Repeat("trabajador despedido ", 50)
	chunks := SplitText(text, 60, 10)

	if len(chunks) < 2 {
		t.Fatalf("expected several chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if n := utf8.RuneCountInString(c); n > 60 {
			t.Errorf("chunk %d has %d runes", i, n)
		}
		for _, w := range strings.Fields(c) {
			if w != "trabajador" && w != "despedido" {
				t.Errorf("chunk %d cut a word: %q", i, w)
			}
		}
	}
}

func TestSplitTextPrefersParagraphs(t *testing.T) {
	text := "Artículo 1. " + strings.Repeat("a ", 20) + "\n\nArtículo 2. " + strings.Repeat("b ", 20)
	chunks := SplitText(text, 70, 0)

	if !strings.HasPrefix(chunks[1], "Artículo 2.") {
		t.Fatalf("second chunk should start at the article heading, got %q", chunks[1])
	}
}

func TestSplitTextTerminatesWithLargeOverlap(t *testing.T) {
	chunks := SplitText(strings.Repeat("x", 500), 50, 80)
	if len(chunks) != 10 {
		t.Fatalf("expected 10 chunks, got %d", len(chunks))
	}
}

func TestSplitTextOverlapStartsOnWord(t *testing.T) {
	words := make([]string, 40)
	for i := range words {
		words[i] = fmt.Sprintf("art%02d", i)
	}
	chunks := SplitText(strings.Join(words, " "), 60, 25)

	if len(chunks) < 2 {
		t.Fatalf("expected several chunks, got %d", len(chunks))
	}
	for i := 1; i < len(chunks); i++ {
		first := strings.Fields(chunks[i])[0]
		if len(first) != 5 || !strings.HasPrefix(first, "art") {
			t.Fatalf("chunk %d starts mid-word: %q", i, chunks[i])
		}
		if !strings.Contains(chunks[i-1], first) {
			t.Errorf("chunk %d does not repeat %q from chunk %d", i, first, i-1)
		}
	}
}
