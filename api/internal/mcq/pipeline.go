package mcq

import (
	"math/rand"

	"github.com/rs/zerolog/log"
)

// Options is the request-scoped configuration for one pipeline run. Passed
// explicitly — the pipeline reads no ambient state.
type Options struct {
	Limits   Limits
	Fallback FallbackMode
	Matcher  Matcher    // nil means WordOverlap
	Rand     *rand.Rand // nil means time-seeded; fixed in tests
}

// Stats describe what one run did. Fallbacks > 0 means the model ignored its
// formatting instructions; informational, not an error.
type Stats struct {
	Blocks    int // question-like spans found by the splitter
	Emitted   int
	Dropped   int // rejected blocks (missing options or question text)
	Fallbacks int
}

// Result is the assembled output plus its stats.
type Result struct {
	Text      string
	Questions []*Question
	Stats     Stats
}

// ParseBlocks parses each block, dropping rejected ones. A malformed block
// never aborts the batch.
func ParseBlocks(blocks []Block) (qs []*Question, dropped int) {
	qs = make([]*Question, 0, len(blocks))
	for _, b := range blocks {
		q, err := Parse(b)
		if err != nil {
			dropped++
			log.Debug().Err(err).Msg("block_dropped")
			continue
		}
		qs = append(qs, q)
	}
	return qs, dropped
}

// Process runs the whole per-request pipeline over one raw model response:
// split, parse, resolve, enforce, assemble. The only fatal condition is
// finding no usable questions at all. Flows that need a step between
// resolution and enforcement (the bilingual composer) call the stages
// directly instead.
func Process(raw string, opts Options) (Result, error) {
	blocks, err := Split(raw)
	if err != nil {
		return Result{}, err
	}

	qs, dropped := ParseBlocks(blocks)
	st := Stats{Blocks: len(blocks), Dropped: dropped}
	if len(qs) == 0 {
		return Result{Stats: st}, ErrEmptyExtraction
	}

	st.Fallbacks = ResolveBatch(qs, opts.Fallback, opts.Matcher, opts.Rand)
	for _, q := range qs {
		Enforce(q, opts.Limits)
	}
	st.Emitted = len(qs)

	return Result{Text: Assemble(qs), Questions: qs, Stats: st}, nil
}
