package config

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port        string `envconfig:"PORT" default:"8080"`
	Environment string `envconfig:"ENV" default:"development"`

	// Path of the SQLite database file. Tables are created on startup if absent.
	DBPath string `envconfig:"DB_PATH" default:"studytool.db"`

	JWTSecret string `envconfig:"JWT_SECRET" required:"true"`

	// Summarization service settings. The API key may be left empty when
	// GCP_PROJECT_ID is set, in which case it is fetched from Secret Manager
	// at startup.
	OpenAIAPIKey       string `envconfig:"OPENAI_API_KEY"`
	OpenAIModel        string `envconfig:"OPENAI_MODEL" default:"gpt-4o-mini"`
	OpenAIBaseURL      string `envconfig:"OPENAI_BASE_URL" default:"https://api.openai.com/v1"`
	OpenAIMaxTokens    int    `envconfig:"OPENAI_MAX_TOKENS" default:"1000"`
	GCPProjectID       string `envconfig:"GCP_PROJECT_ID"`
	OpenAIAPIKeySecret string `envconfig:"OPENAI_API_KEY_SECRET_NAME" default:"openai-api-key"`

	// Text extraction service settings
	ExtractorBaseURL           string `envconfig:"EXTRACTOR_BASE_URL" required:"true"`
	ExtractorRequestTimeoutSec int    `envconfig:"EXTRACTOR_REQUEST_TIMEOUT_SEC" default:"120"`

	// Usage limit settings
	FreeDailyLimit int `envconfig:"FREE_DAILY_LIMIT" default:"2"`

	// Text above this many characters is summarized chunk by chunk and the
	// partial summaries combined.
	SummaryChunkChars int `envconfig:"SUMMARY_CHUNK_CHARS" default:"12000"`

	MaxUploadMB int `envconfig:"MAX_UPLOAD_MB" default:"25"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
