package mcq

import (
	"errors"
	"regexp"
	"strings"
)

// Block is the raw text span of one question as emitted by the model.
// Ephemeral: produced by Split, consumed by Parse.
type Block string

// ErrEmptyExtraction means the splitter found no question-like content at
// all. Callers recover by retrying with another model or telling the user;
// it is the only batch-fatal condition in the pipeline.
var ErrEmptyExtraction = errors.New("no question blocks found in response")

var (
	// "1. ", "12) ", "(3) ", "Q4. ", "Q. 5) " — a line that starts a question.
	questionStartRe = regexp.MustCompile(`^\s*(?:[Qq]\.?\s*)?\(?\d{1,3}\)?[.)]\s+`)
	// "(a) text" or "a) text", any case.
	optionLineRe = regexp.MustCompile(`^\s*\(?([A-Da-d])\)\s*(.*)$`)

	fenceOpenRe = regexp.MustCompile("^```[A-Za-z]*[ \t]*\r?\n?")
)

// StripCodeFences removes a wrapping triple-backtick fence (with optional
// language tag). Tolerant of surrounding whitespace and of a missing closing
// fence — Gemini drops it when the reply gets cut off.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if m := fenceOpenRe.FindString(s); m != "" {
		s = s[len(m):]
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// Split segments a raw model response into per-question blocks on lines that
// start a question number. Text before the first question line is discarded;
// whitespace-only spans are dropped.
func Split(raw string) ([]Block, error) {
	text := StripCodeFences(raw)

	var (
		blocks  []Block
		current []string
		started bool
	)
	flush := func() {
		if len(current) == 0 {
			return
		}
		if b := strings.TrimSpace(strings.Join(current, "\n")); b != "" {
			blocks = append(blocks, Block(b))
		}
		current = current[:0]
	}

	for _, line := range strings.Split(text, "\n") {
		if questionStartRe.MatchString(line) && !optionLineRe.MatchString(line) {
			flush()
			started = true
		}
		if !started {
			continue
		}
		current = append(current, line)
	}
	flush()

	if len(blocks) == 0 {
		return nil, ErrEmptyExtraction
	}
	return blocks, nil
}
