package mcq

import (
	"errors"
	"strings"
	"testing"
)

func TestStripCodeFences(t *testing.T) {
	cases := []struct {
		name, in, want string
	}{
		{"plain", "1. Question", "1. Question"},
		{"fenced", "```\n1. Question\n```", "1. Question"},
		{"fenced with tag", "```text\n1. Question\n```", "1. Question"},
		{"unclosed fence", "```\n1. Question", "1. Question"},
		{"surrounding whitespace", "  \n```\n1. Question\n```  \n", "1. Question"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := StripCodeFences(c.in); got != c.want {
				t.Fatalf("StripCodeFences(%q) = %q, want %q", c.in, got, c.want)
			}
		})
	}
}

func TestSplit(t *testing.T) {
	raw := `Here are your questions:

1. First question?
(a) one
(b) two
(c) three
(d) four

2) Second question?
(a) one
(b) two
(c) three
(d) four

Q3. Third question?
(a) one
(b) two
(c) three
(d) four`

	blocks, err := Split(raw)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	if len(blocks) != 3 {
		t.Fatalf("got %d blocks, want 3", len(blocks))
	}
	if !strings.HasPrefix(string(blocks[0]), "1. First") {
		t.Fatalf("preamble not discarded: %q", blocks[0])
	}
	if !strings.HasPrefix(string(blocks[2]), "Q3. Third") {
		t.Fatalf("Q-prefixed number not recognized: %q", blocks[2])
	}
}

func TestSplitNumberVariants(t *testing.T) {
	// Each variant starts a new block; option lines never do.
	raw := "1. alpha\n(12) beta\nQ. 3) gamma\n(a) not a question start"
	blocks, err := Split(raw)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	if len(blocks) != 3 {
		t.Fatalf("got %d blocks, want 3: %q", len(blocks), blocks)
	}
	if !strings.HasSuffix(string(blocks[2]), "(a) not a question start") {
		t.Fatalf("option line split off as its own block: %q", blocks[2])
	}
}

func TestSplitEmpty(t *testing.T) {
	for _, raw := range []string{"", "   \n\n  ", "no numbering anywhere", "```\n```"} {
		if _, err := Split(raw); !errors.Is(err, ErrEmptyExtraction) {
			t.Fatalf("Split(%q) err = %v, want ErrEmptyExtraction", raw, err)
		}
	}
}
