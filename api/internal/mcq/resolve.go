package mcq

import (
	"math/rand"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// FallbackMode picks how questions with no detectable answer get one.
type FallbackMode int

const (
	// FallbackFixed assigns the last option. Deterministic, used for
	// extracted papers where a wrong guess is at least reproducible.
	FallbackFixed FallbackMode = iota
	// FallbackBalanced spreads fallback letters evenly across the batch.
	// Exists because Gemini clusters correct answers on one letter when it
	// forgets to mark them; a fixed default would make that obvious to
	// anyone taking the poll.
	FallbackBalanced
)

// Matcher scores an option against the explanation text. Higher is a better
// match; zero means no signal. Pluggable so a stronger matcher (edit
// distance, embeddings) can replace the default without touching the cascade.
type Matcher interface {
	Score(option, explanation string) int
}

// WordOverlap is the default Matcher: size of the intersection of lowercase
// word sets. Crude but right often enough for explanation lines that restate
// the answer.
type WordOverlap struct{}

func (WordOverlap) Score(option, explanation string) int {
	if option == "" || explanation == "" {
		return 0
	}
	exp := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(explanation)) {
		exp[w] = true
	}
	n := 0
	for _, w := range strings.Fields(strings.ToLower(option)) {
		if exp[w] {
			n++
			delete(exp, w)
		}
	}
	return n
}

var textualAnswerRe = regexp.MustCompile(`(?i)correct\s*answer\s*(?:is|:)\s*\(?([A-Da-d])\)?|\bcorrect\s*:\s*\(?([A-Da-d])\)?`)

// Resolve runs the per-question cascade: explicit mark, textual declaration,
// fuzzy explanation match. Reports whether the question was resolved; the
// fallback for the remainder is a batch decision, see ResolveBatch.
func Resolve(q *Question, m Matcher) bool {
	if q.Marked != "" && q.hasOption(q.Marked) {
		q.Correct = q.Marked
		return true
	}

	if g := textualAnswerRe.FindStringSubmatch(string(q.Raw)); g != nil {
		letter := strings.ToLower(g[1] + g[2])
		if q.hasOption(letter) {
			q.Correct = letter
			return true
		}
	}

	if m == nil {
		m = WordOverlap{}
	}
	best, bestScore, tied := "", 0, false
	for _, o := range q.Options {
		switch s := m.Score(o.Text, q.Explanation); {
		case s > bestScore:
			best, bestScore, tied = o.Letter, s, false
		case s == bestScore && s > 0:
			tied = true
		}
	}
	if bestScore > 0 && !tied {
		q.Correct = best
		return true
	}
	return false
}

// ResolveBatch resolves every question, then distributes fallback letters
// over the unresolved remainder in a second pass (balanced mode needs to see
// the whole batch before assigning anything). Cannot fail; returns how many
// questions needed a fallback so the caller can log that the model ignored
// its instructions.
func ResolveBatch(qs []*Question, mode FallbackMode, m Matcher, rng *rand.Rand) int {
	var unresolved []*Question
	for _, q := range qs {
		if !Resolve(q, m) {
			unresolved = append(unresolved, q)
		}
	}
	if len(unresolved) == 0 {
		return 0
	}

	switch mode {
	case FallbackBalanced:
		if rng == nil {
			rng = rand.New(rand.NewSource(time.Now().UnixNano()))
		}
		pool := balancedPool(len(unresolved), rng)
		for i, q := range unresolved {
			q.Correct = pool[i]
		}
	default:
		for _, q := range unresolved {
			q.Correct = q.Options[len(q.Options)-1].Letter
		}
	}
	log.Debug().Int("count", len(unresolved)).Int("batch", len(qs)).Msg("answer_fallback_used")
	return len(unresolved)
}

// balancedPool builds n letters where each of a..d appears n/4 or n/4+1
// times. The remainder goes to distinct random letters, and the pool itself
// is shuffled so assignment order carries no pattern.
func balancedPool(n int, rng *rand.Rand) []string {
	letters := []string{"a", "b", "c", "d"}
	pool := make([]string, 0, n)
	for i := 0; i < n/4; i++ {
		pool = append(pool, letters...)
	}
	perm := rng.Perm(len(letters))
	for i := 0; i < n%4; i++ {
		pool = append(pool, letters[perm[i]])
	}
	rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	return pool
}
