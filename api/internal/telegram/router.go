package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"

	"pyq-bot/api/internal/config"
	"pyq-bot/api/internal/gemini"
	"pyq-bot/api/internal/store"
)

type Router struct {
	Bot     *tgbotapi.BotAPI
	Gemini  *gemini.Client
	Batches *store.BatchRepo
	Cfg     *config.Config
}

// HandleUpdate is the single entry point for both polling and webhook modes.
func (r *Router) HandleUpdate(upd tgbotapi.Update) {
	if upd.Message == nil {
		return
	}
	msg := upd.Message
	cid := msg.Chat.ID

	// Owner-only bot.
	if msg.From == nil || msg.From.ID != r.Cfg.OwnerID {
		log.Warn().Int64("chat", cid).Msg("unauthorized_access")
		r.send(cid, "❌ Access denied. This is a private bot.")
		return
	}

	if msg.IsCommand() {
		r.handleCommand(msg)
		return
	}
	if msg.Document != nil || len(msg.Photo) > 0 {
		r.handleFile(msg)
		return
	}
}

func (r *Router) handleCommand(msg *tgbotapi.Message) {
	cid := msg.Chat.ID
	switch msg.Command() {
	case "start":
		r.send(cid, startText)
	case "health":
		r.send(cid, "✅ OK")
	case "setlang":
		r.handleSetLang(msg)
	case "setcount":
		r.handleSetCount(msg)
	case "status":
		r.handleStatus(cid)
	case "recent":
		r.handleRecent(cid)
	case "ai":
		r.handleAI(msg)
	case "bi":
		st := getState(cid)
		st.mu.Lock()
		st.AwaitBi, st.AwaitPDF = true, false
		st.mu.Unlock()
		r.send(cid, "📄 Send a TXT file of MCQs to convert to bilingual format.")
	case "pdf":
		st := getState(cid)
		st.mu.Lock()
		st.AwaitPDF, st.AwaitBi = true, false
		st.mu.Unlock()
		r.send(cid, fmt.Sprintf("📄 Send me a PDF file (≤%dMB).\n\nAfter sending, choose:\n• /mcq - for question papers (extracts all)\n• /content - for textbooks (generates questions)", r.Cfg.MaxPDFSizeMB))
	case "mcq":
		r.handlePDFProcess(msg, true)
	case "content":
		r.handlePDFProcess(msg, false)
	default:
		r.send(cid, "Unknown command. See /start.")
	}
}

const startText = `🔒 QuickPYQ Bot (owner-only)

Commands:
/ai "Topic" 25 "Language" - generate MCQs on any topic
/bi - convert a TXT of MCQs to bilingual format
/pdf - process a PDF file (then /mcq or /content)
/setlang - set explanation language
/setcount - set question count for /content
/recent - recent batches
/status - current settings

All output is Telegram-poll ready: questions ≤4096 chars,
options ≤100 chars, explanations ≤200 chars, one ✅ per question.`

func (r *Router) handleSetLang(msg *tgbotapi.Message) {
	cid := msg.Chat.ID
	lang := strings.TrimSpace(msg.CommandArguments())
	if lang == "" {
		r.send(cid, "Usage: /setlang Gujarati  (or Hindi / English)")
		return
	}
	st := getState(cid)
	st.mu.Lock()
	st.Language = lang
	st.mu.Unlock()
	r.send(cid, "✅ Explanation language set to "+lang)
}

func (r *Router) handleSetCount(msg *tgbotapi.Message) {
	cid := msg.Chat.ID
	n, err := strconv.Atoi(strings.TrimSpace(msg.CommandArguments()))
	if err != nil || n < 1 || n > 100 {
		r.send(cid, "❌ Use: /setcount 25 (1-100)")
		return
	}
	st := getState(cid)
	st.mu.Lock()
	st.Count = n
	st.mu.Unlock()
	r.send(cid, fmt.Sprintf("✅ Question count set to %d", n))
}

func (r *Router) handleStatus(cid int64) {
	st := getState(cid)
	st.mu.Lock()
	lang, count := st.Language, st.Count
	st.mu.Unlock()
	r.send(cid, fmt.Sprintf(
		"📊 Current settings:\n\n• Explanation language: %s\n• Question count: %d\n• PDF limit: %dMB\n• Models: %s",
		lang, count, r.Cfg.MaxPDFSizeMB, strings.Join(r.Cfg.GeminiModels, ", ")))
}

func (r *Router) handleRecent(cid int64) {
	if r.Batches == nil {
		r.send(cid, "History is disabled (no database configured).")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	rows, err := r.Batches.Recent(ctx, cid, 10)
	if err != nil {
		r.sendError(cid, err)
		return
	}
	if len(rows) == 0 {
		r.send(cid, "No batches yet.")
		return
	}
	var b strings.Builder
	b.WriteString("Recent batches:\n")
	for _, row := range rows {
		fmt.Fprintf(&b, "• %s %s %q (%s): %d emitted, %d dropped, %d fallback\n",
			row.CreatedAt.Format("02 Jan 15:04"), row.Kind, row.Topic, row.Language,
			row.Emitted, row.Dropped, row.Fallbacks)
	}
	r.send(cid, b.String())
}

// recordBatch writes history; failures are logged, never user-visible.
func (r *Router) recordBatch(row store.BatchRow) {
	if r.Batches == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.Batches.Insert(ctx, row); err != nil {
		log.Error().Err(err).Msg("batch_record_failed")
	}
}
