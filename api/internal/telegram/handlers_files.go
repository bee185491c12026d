package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"

	"pyq-bot/api/internal/bilingual"
	"pyq-bot/api/internal/files"
	"pyq-bot/api/internal/gemini"
	"pyq-bot/api/internal/mcq"
	"pyq-bot/api/internal/store"
	"pyq-bot/api/internal/util"
)

// handleFile routes an uploaded document or photo by the pending handshake.
func (r *Router) handleFile(msg *tgbotapi.Message) {
	cid := msg.Chat.ID
	st := getState(cid)
	st.mu.Lock()
	awaitBi, awaitPDF := st.AwaitBi, st.AwaitPDF
	st.mu.Unlock()

	switch {
	case awaitBi && msg.Document != nil:
		r.acceptBiUpload(msg)
	case awaitPDF && msg.Document != nil:
		r.acceptPDFUpload(msg)
	case len(msg.Photo) > 0:
		r.processImage(msg)
	default:
		r.send(cid, "Send /pdf or /bi first, then upload the file.")
	}
}

// ---------------- /bi: bilingual TXT conversion ----------------

func (r *Router) acceptBiUpload(msg *tgbotapi.Message) {
	cid := msg.Chat.ID
	doc := msg.Document
	if !strings.HasSuffix(strings.ToLower(doc.FileName), ".txt") {
		r.send(cid, "❌ Only TXT allowed.")
		return
	}
	st := getState(cid)
	st.mu.Lock()
	st.AwaitBi = false
	st.mu.Unlock()

	r.send(cid, "⏳ Converting...")
	data, err := r.downloadFile(doc.FileID)
	if err != nil {
		r.sendError(cid, err)
		return
	}
	r.processBilingual(cid, string(data), doc.FileName)
}

func (r *Router) processBilingual(cid int64, text, origName string) {
	blocks, err := mcq.Split(text)
	if err != nil {
		r.send(cid, "❌ No questions detected in the file.")
		return
	}
	r.send(cid, fmt.Sprintf("📄 Detected %d questions...", len(blocks)))

	qs, dropped := mcq.ParseBlocks(blocks)
	if len(qs) == 0 {
		r.send(cid, "❌ Could not extract any valid questions from the file.")
		return
	}
	fallbacks := mcq.ResolveBatch(qs, mcq.FallbackFixed, nil, nil)

	// Translate between resolution and enforcement, so composed lines are
	// still cut down to budget afterwards.
	comp := bilingual.Composer{
		Translator: r.Gemini,
		Workers:    r.Cfg.TranslationWorkers,
		Timeout:    r.Cfg.TranslationTimeout,
	}
	bst := comp.Apply(context.Background(), qs)

	limits := r.Cfg.Limits()
	for _, q := range qs {
		mcq.Enforce(q, limits)
	}
	out := mcq.Assemble(qs)

	r.recordBatch(store.BatchRow{
		ChatID: cid, Kind: "bi", Topic: origName, Language: "bilingual",
		Requested: len(blocks), Emitted: len(qs), Dropped: dropped, Fallbacks: fallbacks,
	})

	caption := fmt.Sprintf("✅ Converted %d questions to bilingual format", len(qs))
	if bst.Attempted > 0 && bst.Translated == 0 {
		caption += "\n⚠️ Translation unavailable, output is source-only."
	}
	r.sendBatch(cid, out, files.OutputName(origName, ".txt"), caption)
}

// ---------------- /pdf upload + /mcq | /content ----------------

func (r *Router) acceptPDFUpload(msg *tgbotapi.Message) {
	cid := msg.Chat.ID
	doc := msg.Document
	if !strings.HasSuffix(strings.ToLower(doc.FileName), ".pdf") {
		r.send(cid, "❌ Only PDF files here. Use /bi for TXT.")
		return
	}
	if doc.FileSize > r.Cfg.MaxPDFSizeMB*1024*1024 {
		r.send(cid, fmt.Sprintf("❌ PDF too large. Max %dMB.", r.Cfg.MaxPDFSizeMB))
		return
	}

	r.send(cid, "📥 Downloading PDF...")
	data, err := r.downloadFile(doc.FileID)
	if err != nil {
		r.sendError(cid, err)
		return
	}
	if !util.IsPDF(data) {
		r.send(cid, "❌ That file does not look like a PDF.")
		return
	}

	st := getState(cid)
	st.mu.Lock()
	st.PDF, st.PDFName = data, doc.FileName
	st.AwaitPDF = false
	st.mu.Unlock()

	r.send(cid, fmt.Sprintf("✅ PDF received: %s\n\nChoose processing:\n• /mcq - extract ALL questions\n• /content - generate questions", doc.FileName))
}

func (r *Router) handlePDFProcess(msg *tgbotapi.Message, extract bool) {
	cid := msg.Chat.ID
	st := getState(cid)
	st.mu.Lock()
	data, name := st.PDF, st.PDFName
	lang, count := st.Language, st.Count
	st.mu.Unlock()

	if len(data) == 0 {
		r.send(cid, "❌ No PDF found. Please send a PDF first using /pdf")
		return
	}

	mode := "content"
	if extract {
		mode = "mcq"
	}
	r.send(cid, fmt.Sprintf("🔄 Processing %s PDF (%.1fMB)...\n⏰ This can take a few minutes.", mode, float64(len(data))/(1024*1024)))
	r.typing(cid)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
	defer cancel()

	raw, err := r.pdfToRawQuestions(ctx, data, lang, count, extract)
	if err != nil {
		log.Error().Err(err).Str("file", name).Msg("pdf_processing_failed")
		r.send(cid, "❌ Failed to process PDF. The file might be too large or contain complex images.")
		return
	}

	res, err := mcq.Process(raw, mcq.Options{Limits: r.Cfg.Limits(), Fallback: mcq.FallbackFixed})
	if err != nil {
		if errors.Is(err, mcq.ErrEmptyExtraction) {
			r.send(cid, "❌ Could not extract any valid questions. Try again or reduce the request size.")
			return
		}
		r.sendError(cid, err)
		return
	}

	st.mu.Lock()
	st.PDF, st.PDFName = nil, ""
	st.mu.Unlock()

	r.recordBatch(store.BatchRow{
		ChatID: cid, Kind: mode, Topic: name, Language: lang,
		Requested: count, Emitted: res.Stats.Emitted,
		Dropped: res.Stats.Dropped, Fallbacks: res.Stats.Fallbacks,
	})

	action := "generated"
	if extract {
		action = "extracted"
	}
	r.sendBatch(cid, res.Text, files.OutputName(name, ".pdf"),
		fmt.Sprintf("✅ Successfully %s %d Telegram-poll-ready questions", action, res.Stats.Emitted))
}

// pdfToRawQuestions gets raw question text out of a PDF. Small files go to
// Gemini whole as an inline blob; big ones are read page-range by page-range
// with the local text extractor so one call never carries the whole file.
func (r *Router) pdfToRawQuestions(ctx context.Context, data []byte, lang string, count int, extract bool) (string, error) {
	pages, err := files.PageCount(data)
	if err != nil {
		pages = 0 // encrypted or odd PDF: let Gemini try the whole blob
		log.Warn().Err(err).Msg("pdf_page_count_failed")
	}

	if pages <= r.Cfg.PagesPerChunk {
		prompt := gemini.ExtractPrompt(lang)
		if !extract {
			prompt = gemini.ContentPrompt(lang, count)
		}
		return r.Gemini.Generate(ctx, prompt, &gemini.Blob{MIME: "application/pdf", Data: data})
	}

	var parts []string
	for _, pr := range files.PlanChunks(pages, r.Cfg.PagesPerChunk) {
		text, err := files.ExtractPages(data, pr.From, pr.To)
		if err != nil || strings.TrimSpace(text) == "" {
			log.Warn().Err(err).Int("from", pr.From).Int("to", pr.To).Msg("pdf_chunk_empty")
			continue
		}
		out, err := r.Gemini.Generate(ctx, gemini.TextChunkPrompt(lang, text), nil)
		if err != nil {
			return "", fmt.Errorf("chunk %d-%d: %w", pr.From, pr.To, err)
		}
		parts = append(parts, mcq.StripCodeFences(out))
	}
	if len(parts) == 0 {
		return "", errors.New("no text recovered from PDF")
	}
	return strings.Join(parts, "\n\n"), nil
}

// ---------------- single image ----------------

func (r *Router) processImage(msg *tgbotapi.Message) {
	cid := msg.Chat.ID
	photo := msg.Photo[len(msg.Photo)-1] // largest size last

	r.send(cid, "🖼️ Processing image...")
	data, err := r.downloadFile(photo.FileID)
	if err != nil {
		r.sendError(cid, err)
		return
	}

	st := getState(cid)
	st.mu.Lock()
	lang := st.Language
	st.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	raw, err := r.Gemini.Generate(ctx, gemini.ExtractPrompt(lang),
		&gemini.Blob{MIME: util.SniffMime(data), Data: data})
	if err != nil {
		r.send(cid, "❌ All AI models failed. Please try again later.")
		return
	}

	res, err := mcq.Process(raw, mcq.Options{Limits: r.Cfg.Limits(), Fallback: mcq.FallbackFixed})
	if err != nil {
		r.send(cid, "❌ Could not extract any valid questions from the image.")
		return
	}

	r.recordBatch(store.BatchRow{
		ChatID: cid, Kind: "mcq", Topic: "image", Language: lang,
		Emitted: res.Stats.Emitted, Dropped: res.Stats.Dropped, Fallbacks: res.Stats.Fallbacks,
	})
	r.sendBatch(cid, res.Text, "image_MCQ.txt",
		fmt.Sprintf("✅ Extracted %d questions", res.Stats.Emitted))
}
