package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/ualiu/neighbours-only/internal/moderation"
)

const (
	DefaultLimitFeed     = 20
	MaxLimitFeed         = 100
	DefaultLimitComments = 50
	MaxLimitComments     = 200
	DefaultLimitLearning = 50
	MaxLimitLearning     = 500
)

type Config struct {
	AppEnv   string
	LogLevel string
	Port     string
	MongoURI string
	MongoDB  string

	JWTSecret string

	// Moderation
	ModerationEnabled bool
	ReportThreshold   int
	FlaggedVisible    bool

	// Classifier
	AnthropicAPIKey     string
	ClassifierURL       string
	ClassifierModel     string
	ClassifierMaxTokens int
	ClassifierTimeout   time.Duration
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(getEnv(key, ""))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

// LoadConfig reads .env (if present) and the environment.
func LoadConfig() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}
	return FromEnv()
}

// FromEnv builds the config from the current environment only.
func FromEnv() Config {
	cfg := Config{
		AppEnv:   getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Port:     getEnv("PORT", "3000"),
		MongoURI: getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:  getEnv("MONGO_DB", "neighbours_only"),

		JWTSecret: getEnv("JWT_SECRET", ""),

		ModerationEnabled: getEnvBool("MODERATION_ENABLED", false),
		ReportThreshold:   getEnvInt("MODERATION_REPORT_THRESHOLD", 3),
		FlaggedVisible:    getEnvBool("MODERATION_FLAGGED_VISIBLE", false),

		AnthropicAPIKey:     getEnv("ANTHROPIC_API_KEY", ""),
		ClassifierURL:       getEnv("CLASSIFIER_URL", "https://api.anthropic.com/v1/messages"),
		ClassifierModel:     getEnv("CLASSIFIER_MODEL", "claude-sonnet-4-20250514"),
		ClassifierMaxTokens: getEnvInt("CLASSIFIER_MAX_TOKENS", 800),
		ClassifierTimeout:   getEnvDuration("CLASSIFIER_TIMEOUT", 12*time.Second),
	}
	if cfg.ReportThreshold <= 0 {
		cfg.ReportThreshold = 3
	}
	if cfg.ClassifierMaxTokens <= 0 {
		cfg.ClassifierMaxTokens = 800
	}
	return cfg
}

// ClassifierEnabled is true only when moderation is switched on and a key is set.
func (c Config) ClassifierEnabled() bool {
	return c.ModerationEnabled && c.AnthropicAPIKey != ""
}

// ModerationSettings projects the escalation settings.
func (c Config) ModerationSettings() moderation.EscalationConfig {
	return moderation.EscalationConfig{
		Threshold: c.ReportThreshold,
		Timeout:   c.ClassifierTimeout,
		Mapper:    moderation.Mapper{FlaggedVisible: c.FlaggedVisible},
	}
}

func (c Config) Anthropic() moderation.AnthropicConfig {
	return moderation.AnthropicConfig{
		Endpoint:  c.ClassifierURL,
		APIKey:    c.AnthropicAPIKey,
		Model:     c.ClassifierModel,
		MaxTokens: c.ClassifierMaxTokens,
		Timeout:   c.ClassifierTimeout,
	}
}
