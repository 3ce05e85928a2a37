package chunker

import (
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		c := New()
		if c.maxSize != DefaultMaxSize {
			t.Errorf("expected maxSize %d, got %d", DefaultMaxSize, c.maxSize)
		}
	})

	t.Run("custom max size", func(t *testing.T) {
		c := New(WithMaxSize(500))
		if c.maxSize != 500 {
			t.Errorf("expected maxSize 500, got %d", c.maxSize)
		}
	})

	t.Run("zero and negative sizes ignored", func(t *testing.T) {
		c := New(WithMaxSize(0))
		if c.maxSize != DefaultMaxSize {
			t.Errorf("expected default maxSize, got %d", c.maxSize)
		}
		c = New(WithMaxSize(-10))
		if c.maxSize != DefaultMaxSize {
			t.Errorf("expected default maxSize, got %d", c.maxSize)
		}
	})
}

func TestChunker_Chunk_Empty(t *testing.T) {
	c := New()
	chunks := c.Chunk("paper-1", "")
	if len(chunks) != 0 {
		t.Errorf("expected 0 chunks for empty text, got %d", len(chunks))
	}
}

func TestChunker_Chunk_SingleSegment(t *testing.T) {
	c := New(WithMaxSize(100))
	text := "a short paper abstract"

	chunks := c.Chunk("paper-1", text)

	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Text != text {
		t.Errorf("expected chunk text %q, got %q", text, chunks[0].Text)
	}
	if chunks[0].Index != 0 {
		t.Errorf("expected index 0, got %d", chunks[0].Index)
	}
	if chunks[0].PaperID != "paper-1" {
		t.Errorf("expected paper id 'paper-1', got %q", chunks[0].PaperID)
	}
	if chunks[0].ID == "" {
		t.Error("expected non-empty chunk ID")
	}
}

func TestChunker_Chunk_RoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		maxSize int
		text    string
	}{
		{"word boundaries", 20, "the quick brown fox jumps over the lazy dog and keeps running"},
		{"no whitespace at all", 8, "abcdefghijklmnopqrstuvwxyz0123456789"},
		{"exact multiple of cap", 5, "aaaaabbbbbccccc"},
		{"newlines and tabs", 12, "line one\nline two\tline three\nline four"},
		{"multibyte runes", 7, strings.Repeat("héllo wörld ", 10)},
		{"leading and trailing space", 10, "   padded text with spaces   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(WithMaxSize(tt.maxSize))
			chunks := c.Chunk("paper-1", tt.text)

			var sb strings.Builder
			for i, ch := range chunks {
				if ch.Index != i {
					t.Errorf("chunk %d has index %d", i, ch.Index)
				}
				if ch.Text == "" {
					t.Errorf("chunk %d is empty", i)
				}
				sb.WriteString(ch.Text)
			}

			if sb.String() != tt.text {
				t.Errorf("concatenated chunks do not reproduce input:\nwant %q\ngot  %q", tt.text, sb.String())
			}
		})
	}
}

func TestChunker_Chunk_PrefersWordBoundaries(t *testing.T) {
	c := New(WithMaxSize(10))
	chunks := c.Chunk("paper-1", "alpha beta gamma delta")

	for i, ch := range chunks[:len(chunks)-1] {
		if !strings.HasSuffix(ch.Text, " ") {
			t.Errorf("chunk %d %q should end at a whitespace boundary", i, ch.Text)
		}
	}
}

func TestChunker_Chunk_RespectsCap(t *testing.T) {
	c := New(WithMaxSize(10))
	text := strings.Repeat("word ", 50)

	for _, ch := range c.Chunk("paper-1", text) {
		if len(ch.Text) > 10 {
			t.Errorf("chunk %q exceeds cap of 10 bytes", ch.Text)
		}
	}
}

func TestChunker_Chunk_HardSplitStaysRuneAligned(t *testing.T) {
	c := New(WithMaxSize(5))
	text := strings.Repeat("日本語", 4)

	chunks := c.Chunk("paper-1", text)

	var sb strings.Builder
	for _, ch := range chunks {
		if !strings.HasPrefix(text[sb.Len():], ch.Text) {
			t.Fatalf("chunk %q breaks rune alignment", ch.Text)
		}
		sb.WriteString(ch.Text)
	}
	if sb.String() != text {
		t.Errorf("concatenation mismatch: %q != %q", sb.String(), text)
	}
}
