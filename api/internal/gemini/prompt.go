package gemini

import (
	"fmt"

	"pyq-bot/api/internal/mcq"
)

// Prompts live next to the client so the format they demand and the parser
// that consumes the reply stay in one repo hop of each other. All three ask
// for the same canonical layout the pipeline parses.

// TopicPrompt asks for freshly generated MCQs on a topic. The limits are
// restated in the prompt even though the pipeline enforces them anyway;
// asking keeps the model from writing paragraphs that truncation would gut.
func TopicPrompt(topic, language string, count int, lim mcq.Limits) string {
	return fmt.Sprintf(`You MUST generate compact MCQs with these limits:

• Question ≤ %d chars
• Each option ≤ %d chars
• Explanation ≤ %d chars
• Mark only ONE correct option with a single "%s"
• Randomize which option is correct across questions
• STRICT FORMAT:
1. Question text
(a) option
(b) option
(c) option
(d) option
Ex: explanation

If a question has statements, number them I. II. III. IV.

TOPIC: %s
LANGUAGE: %s
COUNT: %d
Difficulty: Hard
`, lim.Question, lim.Option, lim.Explanation, mcq.CorrectMark, topic, language, count)
}

// ExtractPrompt asks for verbatim extraction of every question in an
// attached document.
func ExtractPrompt(language string) string {
	return fmt.Sprintf(`Extract ALL multiple-choice questions from this document. Do not skip any.

TELEGRAM POLL LIMITS:
• Question: 4096 characters maximum
• Options: ~100 characters each
• Explanation: 200 characters maximum

FORMAT for every question:
1. Question text
(a) option
(b) option
(c) option
(d) option %s
Ex: explanation in %s

Keep the original question language. Mark the correct option with %s.
If the document has 30 questions, output ALL 30.
`, mcq.CorrectMark, language, mcq.CorrectMark)
}

// ContentPrompt asks the model to author questions from textbook content.
func ContentPrompt(language string, count int) string {
	return fmt.Sprintf(`Create %d exam-style multiple-choice questions from this document.
Meaningful questions only, no trivia about page layout.

FORMAT for every question:
1. Question text
(a) option
(b) option
(c) option
(d) option %s
Ex: short explanation in %s

Mark the single correct option with %s. Keep the original content language
for questions and options. Fit Telegram poll limits: question ≤ 4096 chars,
options ≤ 100 chars, explanation ≤ 200 chars.
`, count, mcq.CorrectMark, language, mcq.CorrectMark)
}

// TextChunkPrompt wraps locally extracted PDF text when the file is too big
// to attach whole.
func TextChunkPrompt(language, text string) string {
	return fmt.Sprintf(`The following is text extracted from part of a question paper.
Extract ALL multiple-choice questions from it, same rules as always:

1. Question text
(a) option
(b) option
(c) option
(d) option %s
Ex: explanation in %s

TEXT:
%s
`, mcq.CorrectMark, language, text)
}
