package mcq

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	b := Block(`1. What is the capital of India?
(a) Mumbai
(b) Delhi ✅
(c) Chennai
(d) Kolkata
Ex: Delhi has been the capital since 1911.`)

	q, err := Parse(b)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if q.Text != "What is the capital of India?" {
		t.Fatalf("Text = %q", q.Text)
	}
	if len(q.Options) != 4 {
		t.Fatalf("got %d options", len(q.Options))
	}
	if q.Marked != "b" {
		t.Fatalf("Marked = %q, want b", q.Marked)
	}
	if q.Options[1].Text != "Delhi" {
		t.Fatalf("glyph not stripped from option: %q", q.Options[1].Text)
	}
	if q.Explanation != "Delhi has been the capital since 1911." {
		t.Fatalf("Explanation = %q", q.Explanation)
	}
}

func TestParseUppercaseAndUnparenthesized(t *testing.T) {
	b := Block(`3) Question text
A) first
B) second
C) third
D) fourth`)

	q, err := Parse(b)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	for i, want := range []string{"a", "b", "c", "d"} {
		if q.Options[i].Letter != want {
			t.Fatalf("option %d letter = %q, want %q", i, q.Options[i].Letter, want)
		}
	}
}

func TestParseWrappedLines(t *testing.T) {
	b := Block(`1. A question that
continues on the next line
(a) short
(b) an option that wraps
onto a second line ✅
(c) third
(d) fourth`)

	q, err := Parse(b)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if q.Text != "A question that continues on the next line" {
		t.Fatalf("Text = %q", q.Text)
	}
	if q.Options[1].Text != "an option that wraps onto a second line" {
		t.Fatalf("wrapped option = %q", q.Options[1].Text)
	}
	if q.Marked != "b" {
		t.Fatalf("glyph on continuation line not attributed: Marked = %q", q.Marked)
	}
}

func TestParseStripsDecorations(t *testing.T) {
	b := Block(`1. Decorated?
(a) one 🔴
(b) two ⭐
(c) three ✔️
(d) four`)

	q, err := Parse(b)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	for _, o := range q.Options[:3] {
		if o.Text != "one" && o.Text != "two" && o.Text != "three" {
			t.Fatalf("decoration survived: %q", o.Text)
		}
	}
	// Decorations are noise, not answer signals.
	if q.Marked != "" {
		t.Fatalf("Marked = %q, want empty", q.Marked)
	}
}

func TestParseSkipsAnswerDeclarationLines(t *testing.T) {
	b := Block(`1. Which river flows through Ahmedabad?
(a) Ganga
(b) Narmada
(c) Sabarmati
(d) Tapi
The correct answer is (c).`)

	q, err := Parse(b)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	// The declaration is an answer signal for the resolver, never option text.
	if q.Options[3].Text != "Tapi" {
		t.Fatalf("declaration glued onto option: %q", q.Options[3].Text)
	}
	if !Resolve(q, nil) || q.Correct != "c" {
		t.Fatalf("declaration lost to the resolver: Correct = %q", q.Correct)
	}
}

func TestParseSkipsDuplicateLetters(t *testing.T) {
	b := Block("1. Q?\n(a) first\n(a) repeat\n(b) y\n(c) z\n(d) w")
	q, err := Parse(b)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if q.Options[0].Text != "first" {
		t.Fatalf("duplicate overwrote first occurrence: %q", q.Options[0].Text)
	}
}

func TestParseRejects(t *testing.T) {
	cases := []struct {
		name string
		b    Block
	}{
		{"three options", Block("1. Q?\n(a) x\n(b) y\n(c) z")},
		{"no question text", Block("(a) x\n(b) y\n(c) z\n(d) w")},
		{"letter gap", Block("1. Q?\n(a) x\n(b) y\n(c) z\n(a) w")},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := Parse(c.b); !errors.Is(err, ErrRejectedBlock) {
				t.Fatalf("err = %v, want ErrRejectedBlock", err)
			}
		})
	}
}
