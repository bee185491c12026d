package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"

	"pyq-bot/api/internal/mcq"
)

// Client calls the Gemini API with an ordered model fallback list: when one
// model 404s or keeps failing, the next is tried. The list is config, not
// policy — first usable answer wins.
type Client struct {
	APIKey  string
	Models  []string
	Retries int // attempts per model, default 2

	// Generation knobs shared by all calls.
	Temperature     float32
	MaxOutputTokens int32
}

// Blob is an inline attachment (PDF or image bytes) for multimodal prompts.
type Blob struct {
	MIME string
	Data []byte
}

func New(apiKey string, models []string) *Client {
	return &Client{
		APIKey:          strings.TrimSpace(apiKey),
		Models:          models,
		Retries:         2,
		Temperature:     0.3,
		MaxOutputTokens: 8192,
	}
}

func (c *Client) retries() int {
	if c.Retries <= 0 {
		return 2
	}
	return c.Retries
}

// Generate sends a text prompt (plus optional inline blob) and returns the
// plain-text reply of the first model that produces one.
func (c *Client) Generate(ctx context.Context, prompt string, blob *Blob) (string, error) {
	if c.APIKey == "" {
		return "", errors.New("GEMINI_API_KEY is empty")
	}
	cl, err := genai.NewClient(ctx, option.WithAPIKey(c.APIKey))
	if err != nil {
		return "", err
	}
	defer cl.Close()

	parts := []genai.Part{genai.Text(prompt)}
	if blob != nil {
		parts = append(parts, &genai.Blob{MIMEType: blob.MIME, Data: blob.Data})
	}

	var lastErr error
	for _, model := range c.Models {
		m := cl.GenerativeModel(strings.TrimSpace(model))
		m.GenerationConfig = genai.GenerationConfig{
			Temperature:     ptrFloat32(c.Temperature),
			MaxOutputTokens: ptrInt32(c.MaxOutputTokens),
		}

		for attempt := 1; attempt <= c.retries(); attempt++ {
			resp, err := m.GenerateContent(ctx, parts...)
			if err != nil {
				lastErr = fmt.Errorf("gemini %s: %w", model, err)
				if ctx.Err() != nil {
					return "", lastErr
				}
				if isModelMissing(err) {
					log.Warn().Str("model", model).Msg("gemini_model_unavailable")
					break // next model, retrying a 404 is pointless
				}
				log.Warn().Err(err).Str("model", model).Int("attempt", attempt).Msg("gemini_call_failed")
				time.Sleep(time.Duration(attempt) * 2 * time.Second)
				continue
			}
			if txt := firstText(resp); strings.TrimSpace(txt) != "" {
				log.Info().Str("model", model).Int("len", len(txt)).Msg("gemini_ok")
				return txt, nil
			}
			lastErr = fmt.Errorf("gemini %s: empty response", model)
		}
	}
	if lastErr == nil {
		lastErr = errors.New("gemini: no models configured")
	}
	return "", lastErr
}

// Translate implements bilingual.Translator: one source line in, one short
// English line out.
func (c *Client) Translate(ctx context.Context, text string) (string, error) {
	out, err := c.Generate(ctx, "Translate to short exam English:\n"+text, nil)
	if err != nil {
		return "", err
	}
	out = mcq.StripCodeFences(out)
	if i := strings.IndexByte(out, '\n'); i >= 0 {
		out = out[:i]
	}
	return strings.TrimSpace(out), nil
}

func firstText(resp *genai.GenerateContentResponse) string {
	var b strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, p := range cand.Content.Parts {
			if t, ok := p.(genai.Text); ok {
				b.WriteString(string(t))
			}
		}
	}
	return b.String()
}

func isModelMissing(err error) bool {
	s := err.Error()
	return strings.Contains(s, "404") || strings.Contains(s, "not found")
}

func ptrFloat32(v float32) *float32 { return &v }
func ptrInt32(v int32) *int32       { return &v }
