package bilingual

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"pyq-bot/api/internal/mcq"
)

// Translator turns a source-language line into short exam English. The
// production implementation is the Gemini client.
type Translator interface {
	Translate(ctx context.Context, text string) (string, error)
}

// Compose merges a source line with its translation. Degrades to the source
// alone when the translation is empty — never adds a dangling separator.
func Compose(source, translated string) string {
	translated = strings.TrimSpace(translated)
	if translated == "" {
		return source
	}
	return source + " / " + translated
}

// Stats counts translation outcomes for one batch. Misses == attempts means
// the whole batch degraded to source-only and the user deserves one warning.
type Stats struct {
	Attempted  int64
	Translated int64
	Misses     int64
}

// Composer applies classification, translation and composition to a parsed
// batch. Translation calls run through a bounded worker pool with a shared
// rate limit; when the batch deadline passes, remaining fields stay
// source-only rather than blocking the request.
type Composer struct {
	Translator Translator
	Workers    int           // concurrent translation calls, default 4
	Timeout    time.Duration // whole-batch budget, default 3m
	Limiter    *rate.Limiter // nil means 5 calls/sec
}

func (c *Composer) workers() int {
	if c.Workers <= 0 {
		return 4
	}
	return c.Workers
}

// Apply rewrites each question's fields according to its mode. Mutates the
// questions in place; the caller runs length enforcement afterwards, so
// composed "source / english" lines still land under budget.
func (c *Composer) Apply(ctx context.Context, qs []*mcq.Question) Stats {
	if c.Limiter == nil {
		c.Limiter = rate.NewLimiter(rate.Every(200*time.Millisecond), 1)
	}
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Minute
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var st Stats
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers())

	for _, q := range qs {
		mode := Classify(string(q.Raw))
		switch mode {
		case ModeGujaratiGrammar:
			// Source-only: nothing to do.
		case ModeEnglishGrammar:
			c.toEnglish(gctx, g, &st, &q.Text)
			for i := range q.Options {
				c.toEnglish(gctx, g, &st, &q.Options[i].Text)
			}
			c.toEnglish(gctx, g, &st, &q.Explanation)
		default:
			c.compose(gctx, g, &st, &q.Text)
			for i := range q.Options {
				c.compose(gctx, g, &st, &q.Options[i].Text)
			}
			c.compose(gctx, g, &st, &q.Explanation)
		}
	}
	// Workers only record misses, never fail the batch.
	_ = g.Wait()

	if st.Attempted > 0 && st.Translated == 0 {
		log.Warn().Int64("attempted", st.Attempted).Msg("translation_unavailable_for_batch")
	}
	return st
}

// toEnglish replaces *field with its English rendering; already-English text
// is left alone, failures keep the source.
func (c *Composer) toEnglish(ctx context.Context, g *errgroup.Group, st *Stats, field *string) {
	text := *field
	if text == "" || MostlyEnglish(text) {
		return
	}
	atomic.AddInt64(&st.Attempted, 1)
	g.Go(func() error {
		if en := c.translate(ctx, st, text); en != "" {
			*field = en
		}
		return nil
	})
}

// compose rewrites *field to "source / english" when it carries Gujarati
// script; Latin-script fields pass through untouched.
func (c *Composer) compose(ctx context.Context, g *errgroup.Group, st *Stats, field *string) {
	text := *field
	if text == "" || !HasGujarati(text) {
		return
	}
	atomic.AddInt64(&st.Attempted, 1)
	g.Go(func() error {
		*field = Compose(text, c.translate(ctx, st, text))
		return nil
	})
}

func (c *Composer) translate(ctx context.Context, st *Stats, text string) string {
	if c.Translator == nil {
		atomic.AddInt64(&st.Misses, 1)
		return ""
	}
	if err := c.Limiter.Wait(ctx); err != nil {
		atomic.AddInt64(&st.Misses, 1)
		return ""
	}
	out, err := c.Translator.Translate(ctx, text)
	out = strings.TrimSpace(out)
	if err != nil || out == "" {
		atomic.AddInt64(&st.Misses, 1)
		log.Debug().Err(err).Msg("translation_miss")
		return ""
	}
	atomic.AddInt64(&st.Translated, 1)
	return out
}
