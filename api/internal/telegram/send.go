package telegram

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"

	"pyq-bot/api/internal/files"
)

func (r *Router) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := r.Bot.Send(msg); err != nil {
		log.Error().Err(err).Int64("chat", chatID).Msg("send_failed")
	}
}

func (r *Router) sendError(chatID int64, err error) {
	r.send(chatID, fmt.Sprintf("❌ Error: %v", err))
}

func (r *Router) typing(chatID int64) {
	_, _ = r.Bot.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping))
}

// sendDocument uploads a generated text file with a short retry: Telegram
// times out often enough on mobile networks that one attempt loses batches.
func (r *Router) sendDocument(chatID int64, name string, data []byte, caption string) bool {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: name, Bytes: data})
	if len(caption) > 1000 {
		caption = caption[:1000]
	}
	doc.Caption = caption
	for attempt := 1; attempt <= 3; attempt++ {
		if _, err := r.Bot.Send(doc); err != nil {
			log.Warn().Err(err).Int("attempt", attempt).Msg("send_document_failed")
			time.Sleep(2 * time.Second)
			continue
		}
		return true
	}
	return false
}

// sendBatch delivers finished output, chunked so each file holds at most
// QuestionsPerFile questions. The assembler's blank-line separator is the
// split point, so chunks are themselves valid output. Nothing is sent until
// the whole batch is chunked — output is all-or-nothing upstream of here.
func (r *Router) sendBatch(chatID int64, text, baseName, caption string) {
	chunks := chunkQuestions(text, r.Cfg.QuestionsPerFile)
	for i, chunk := range chunks {
		name, label := baseName, caption
		if len(chunks) > 1 {
			name = files.PartName(baseName, i+1)
			label = fmt.Sprintf("%s (part %d/%d)", caption, i+1, len(chunks))
		}
		if !r.sendDocument(chatID, name, []byte(chunk), label) {
			r.send(chatID, fmt.Sprintf("❌ Failed to send %s after retries.", name))
			return
		}
	}
}

// chunkQuestions splits assembled output into groups of at most per
// questions, on the blank-line separator.
func chunkQuestions(text string, per int) []string {
	if per <= 0 {
		per = 15
	}
	qs := strings.Split(text, "\n\n")
	var out []string
	for i := 0; i < len(qs); i += per {
		j := i + per
		if j > len(qs) {
			j = len(qs)
		}
		out = append(out, strings.Join(qs[i:j], "\n\n"))
	}
	return out
}

// downloadFile fetches an uploaded file's bytes through the Bot API.
func (r *Router) downloadFile(fileID string) ([]byte, error) {
	url, err := r.Bot.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("get file url: %w", err)
	}
	resp, err := http.Get(url)
	if err != nil {
		return nil, fmt.Errorf("download: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download: status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
