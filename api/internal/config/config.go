package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"pyq-bot/api/internal/mcq"
)

type Config struct {
	Port       string
	WebhookURL string

	TelegramBotToken string
	OwnerID          int64

	GeminiAPIKey string
	GeminiModels []string

	// Per-field budgets; env overrides exist because Telegram tightens these
	// occasionally and redeploying a constant is annoying.
	QuestionLimit    int
	OptionLimit      int
	ExplanationLimit int

	QuestionsPerFile int
	MaxPDFSizeMB     int
	PagesPerChunk    int

	TranslationWorkers int
	TranslationTimeout time.Duration
}

func mustEnv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		log.Fatal().Str("env", k).Msg("missing required env")
	}
	return v
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getEnvInt(k string, def int) int {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func Load() *Config {
	_ = godotenv.Load()

	ownerID, _ := strconv.ParseInt(getEnv("OWNER_ID", "0"), 10, 64)

	models := strings.Split(getEnv("GEMINI_MODELS",
		"gemini-2.5-pro,gemini-2.5-flash,gemini-2.5-flash-lite,gemini-pro-latest,gemini-flash-latest"), ",")
	for i := range models {
		models[i] = strings.TrimSpace(models[i])
	}

	return &Config{
		Port:       getEnv("PORT", "8000"),
		WebhookURL: os.Getenv("WEBHOOK_URL"),

		TelegramBotToken: mustEnv("BOT_TOKEN"),
		OwnerID:          ownerID,

		GeminiAPIKey: mustEnv("GEMINI_API_KEY"),
		GeminiModels: models,

		QuestionLimit:    getEnvInt("QUESTION_LIMIT", 4096),
		OptionLimit:      getEnvInt("OPTION_LIMIT", 100),
		ExplanationLimit: getEnvInt("EXPLANATION_LIMIT", 200),

		QuestionsPerFile: getEnvInt("QUESTIONS_PER_FILE", 15),
		MaxPDFSizeMB:     getEnvInt("MAX_PDF_SIZE_MB", 15),
		PagesPerChunk:    getEnvInt("PAGES_PER_CHUNK", 10),

		TranslationWorkers: getEnvInt("TRANSLATION_WORKERS", 4),
		TranslationTimeout: time.Duration(getEnvInt("TRANSLATION_TIMEOUT_SEC", 180)) * time.Second,
	}
}

// Limits builds the pipeline budgets from config.
func (c *Config) Limits() mcq.Limits {
	return mcq.Limits{
		Question:    c.QuestionLimit,
		Option:      c.OptionLimit,
		Explanation: c.ExplanationLimit,
	}
}
