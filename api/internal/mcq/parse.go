package mcq

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// ErrRejectedBlock marks a per-question parse failure (missing options or
// question text). Rejected blocks are dropped, never preserved verbatim:
// raw text would bypass the length and mark invariants downstream.
var ErrRejectedBlock = errors.New("block rejected")

// Option is one answer choice, keyed by its lowercase letter.
type Option struct {
	Letter string
	Text   string
}

// Question is the central record of the pipeline. Created by Parse, mutated
// in place by ResolveBatch (sets Correct) and Enforce (rewrites text),
// consumed once by Assemble. Nothing persists across requests.
type Question struct {
	Text        string
	Options     []Option // always 4, letters a..d in order
	Correct     string   // lowercase letter; empty until resolved
	Explanation string   // without the "Ex:" marker
	Marked      string   // letter that carried the mark glyph in the source, if any

	Raw Block // original block, kept for answer detection
}

// Stray decorations the model puts on options. Only CorrectMark and the
// plain check are trusted as answer signals; the rest is noise to strip.
var (
	answerGlyphRe = regexp.MustCompile(`[✅✓]`)
	strayGlyphRe  = regexp.MustCompile(`[✅✓✔️☑️🔴🟢⭐🎯🔍📝🔑💡🔄📄🌍📊]`)

	explanationLineRe = regexp.MustCompile(`(?i)^\s*ex\s*:\s*`)
)

func (q *Question) hasOption(letter string) bool {
	for _, o := range q.Options {
		if o.Letter == letter {
			return true
		}
	}
	return false
}

// Parse extracts one Question from a raw block. Pure: no side effects, no
// shared state. Multi-line questions and wrapped option text are folded back
// with single spaces.
func Parse(b Block) (*Question, error) {
	q := &Question{Raw: b}
	seen := make(map[string]bool, 4)

	for _, line := range strings.Split(string(b), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		switch {
		case explanationLineRe.MatchString(line):
			q.Explanation = strings.TrimSpace(explanationLineRe.ReplaceAllString(line, ""))

		case optionLineRe.MatchString(line) && !questionStartRe.MatchString(line):
			m := optionLineRe.FindStringSubmatch(line)
			letter := strings.ToLower(m[1])
			if seen[letter] {
				continue
			}
			seen[letter] = true
			text := strings.TrimSpace(m[2])
			if answerGlyphRe.MatchString(text) {
				q.Marked = letter
			}
			text = strings.TrimSpace(strayGlyphRe.ReplaceAllString(text, ""))
			q.Options = append(q.Options, Option{Letter: letter, Text: text})

		case questionStartRe.MatchString(line):
			body := strings.TrimSpace(questionStartRe.ReplaceAllString(line, ""))
			if q.Text == "" {
				q.Text = body
			} else {
				q.Text += " " + body
			}

		case textualAnswerRe.MatchString(line):
			// "The correct answer is (c)" — an answer signal, not option text.
			// The resolver reads it from Raw; gluing it onto an option would
			// leak the answer into the poll.

		default:
			// Wrapped line: continues the last option if any, else the question.
			if n := len(q.Options); n > 0 {
				if answerGlyphRe.MatchString(line) {
					q.Marked = q.Options[n-1].Letter
				}
				line = strings.TrimSpace(strayGlyphRe.ReplaceAllString(line, ""))
				if line != "" {
					q.Options[n-1].Text += " " + line
				}
			} else if q.Text != "" {
				q.Text += " " + line
			} else {
				q.Text = line
			}
		}
	}

	if strings.TrimSpace(q.Text) == "" {
		return nil, fmt.Errorf("%w: no question text", ErrRejectedBlock)
	}
	if len(q.Options) != 4 {
		return nil, fmt.Errorf("%w: %d options", ErrRejectedBlock, len(q.Options))
	}
	// Four deduped options from the a-d alphabet are necessarily a..d;
	// only the order needs fixing.
	sort.Slice(q.Options, func(i, j int) bool { return q.Options[i].Letter < q.Options[j].Letter })
	return q, nil
}
