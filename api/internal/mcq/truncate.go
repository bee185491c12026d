package mcq

import (
	"strings"
	"unicode/utf8"
)

// Truncation never counts bytes: a byte cut in the middle of a Gujarati
// akshara produces mojibake that Telegram renders as ?. Everything here is
// rune-based and idempotent — re-truncating an already truncated string to
// the same budget is a no-op.

// TruncateRunes hard-cuts s to at most n runes.
func TruncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// TruncateWords greedily keeps whole words while under budget. Falls back to
// a hard rune cut when even the first word exceeds it.
func TruncateWords(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	var kept []string
	length := 0
	for _, w := range strings.Fields(s) {
		add := utf8.RuneCountInString(w)
		if len(kept) > 0 {
			add++ // joining space
		}
		if length+add > n {
			break
		}
		kept = append(kept, w)
		length += add
	}
	if len(kept) == 0 {
		return TruncateRunes(s, n)
	}
	return strings.Join(kept, " ")
}

// TruncateSentences keeps the longest prefix of whole sentences (split on
// .!?) that fits; when not even the first sentence fits, falls back to
// word-boundary truncation.
func TruncateSentences(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	var kept []string
	length := 0
	rest := s
	for rest != "" {
		i := strings.IndexAny(rest, ".!?")
		if i < 0 {
			break
		}
		sentence := strings.TrimSpace(rest[:i+1])
		rest = strings.TrimLeft(rest[i+1:], " ")
		add := utf8.RuneCountInString(sentence)
		if len(kept) > 0 {
			add++
		}
		if length+add > n {
			break
		}
		kept = append(kept, sentence)
		length += add
	}
	if len(kept) == 0 {
		return TruncateWords(s, n)
	}
	return strings.Join(kept, " ")
}

var terminalPunct = ".!?"

// Enforce rewrites the question fields down to the given budgets. A pure
// normalizing transform: it never rejects, only shortens.
func Enforce(q *Question, lim Limits) {
	lim = lim.orDefault()

	q.Text = TruncateSentences(strings.TrimSpace(q.Text), lim.Question)

	for i := range q.Options {
		o := &q.Options[i]
		text := strings.TrimSpace(o.Text)
		short := TruncateWords(text, lim.Option)
		if short != text && utf8.RuneCountInString(short)+3 <= lim.Option {
			short += "..."
		}
		o.Text = short
	}

	if q.Explanation != "" {
		e := TruncateSentences(strings.TrimSpace(q.Explanation), lim.Explanation)
		if e != "" && !strings.ContainsRune(terminalPunct, lastRune(e)) {
			if utf8.RuneCountInString(e) >= lim.Explanation {
				e = TruncateRunes(e, lim.Explanation-1)
			}
			e = strings.TrimRight(e, " ") + "."
		}
		q.Explanation = e
	}
}

func lastRune(s string) rune {
	r, _ := utf8.DecodeLastRuneInString(s)
	return r
}
