package telegram

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"

	"pyq-bot/api/internal/files"
	"pyq-bot/api/internal/gemini"
	"pyq-bot/api/internal/mcq"
	"pyq-bot/api/internal/store"
)

const defaultLanguage = "Hindi and English"

var quotedArgsRe = regexp.MustCompile(`^"(.*?)"\s+(\d+)(?:\s+"(.*?)")?\s*$`)

var errBadArgs = errors.New("bad /ai arguments")

// parseAIArgs accepts both quoted and unquoted forms:
//
//	/ai "Indian History" 30 "Hindi"
//	/ai Gupta Empire 20 "Hindi and English"
//	/ai Science 15
func parseAIArgs(args string) (topic string, amount int, language string, err error) {
	args = strings.TrimSpace(args)
	language = defaultLanguage
	if args == "" {
		return "", 0, "", errBadArgs
	}

	if m := quotedArgsRe.FindStringSubmatch(args); m != nil {
		topic = m[1]
		amount, _ = strconv.Atoi(m[2])
		if m[3] != "" {
			language = strings.TrimSpace(m[3])
		}
	} else {
		// Unquoted: ... topic amount [language], amount before language.
		fields := strings.Fields(args)
		numIdx := -1
		for i := len(fields) - 1; i >= 0; i-- {
			if _, e := strconv.Atoi(fields[i]); e == nil {
				numIdx = i
				break
			}
		}
		if numIdx < 1 {
			return "", 0, "", errBadArgs
		}
		topic = strings.Trim(strings.Join(fields[:numIdx], " "), `"`)
		amount, _ = strconv.Atoi(fields[numIdx])
		if rest := strings.Join(fields[numIdx+1:], " "); rest != "" {
			language = strings.Trim(rest, `"`)
		}
	}

	topic = strings.TrimSpace(topic)
	if topic == "" {
		return "", 0, "", errBadArgs
	}
	if amount < 1 || amount > 500 {
		return "", 0, "", fmt.Errorf("%w: amount must be 1-500", errBadArgs)
	}
	return topic, amount, language, nil
}

func (r *Router) handleAI(msg *tgbotapi.Message) {
	cid := msg.Chat.ID
	topic, amount, language, err := parseAIArgs(msg.CommandArguments())
	if err != nil {
		r.send(cid, "❌ Usage: /ai \"Topic\" 20 \"Language\"\nExample: /ai \"Gupta Empire\" 20 \"Hindi and English\"")
		return
	}

	r.send(cid, fmt.Sprintf("⏳ Generating %d MCQs on %q (%s)...\n⏰ This may take 1-3 minutes.", amount, topic, language))
	r.typing(cid)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	limits := mcq.StrictLimits()
	raw, err := r.Gemini.Generate(ctx, gemini.TopicPrompt(topic, language, amount, limits), nil)
	if err != nil {
		log.Error().Err(err).Str("topic", topic).Msg("ai_generation_failed")
		r.send(cid, "❌ All AI models failed. Please try again later.")
		return
	}

	// Balanced fallback: generated batches need the per-letter spread, a
	// model that forgets ticks tends to cluster answers on one letter.
	res, err := mcq.Process(raw, mcq.Options{Limits: limits, Fallback: mcq.FallbackBalanced})
	if err != nil {
		if errors.Is(err, mcq.ErrEmptyExtraction) {
			r.send(cid, "❌ Could not extract any valid questions. Try again or reduce the request size.")
			return
		}
		r.sendError(cid, err)
		return
	}

	r.recordBatch(store.BatchRow{
		ChatID: cid, Kind: "ai", Topic: topic, Language: language,
		Model: r.Cfg.GeminiModels[0], Requested: amount,
		Emitted: res.Stats.Emitted, Dropped: res.Stats.Dropped, Fallbacks: res.Stats.Fallbacks,
	})

	caption := fmt.Sprintf("✅ Generated %d MCQs\n📚 Topic: %s\n🌍 Language: %s", res.Stats.Emitted, topic, language)
	if res.Stats.Emitted < amount {
		caption += fmt.Sprintf("\n(asked for %d, model produced %d usable)", amount, res.Stats.Emitted)
	}
	r.sendBatch(cid, res.Text, files.DeriveName(topic, language), caption)
}
