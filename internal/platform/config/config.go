package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Server captures process-level configuration. Domain configuration (the rule
// table) is loaded separately by internal/rules and is not part of this struct.
type Server struct {
	Addr          string
	LogLevel      string
	JWTSigningKey string

	// RulesPath points at the YAML rule table. A missing or unreadable file
	// degrades to the built-in table, never a startup failure.
	RulesPath string

	// DatabaseURL selects the postgres stores when set; empty means in-memory.
	DatabaseURL string

	// RedisURL enables the suggestion cache when set.
	RedisURL string

	// KafkaBrokers enables the audit kafka sink when non-empty.
	KafkaBrokers string
	KafkaTopic   string

	// Gemini backs the free-text tag suggester. An empty API key disables the
	// LLM path entirely; the keyword fallback still runs.
	GeminiAPIKey     string
	GeminiModel      string
	SuggesterTimeout time.Duration
}

// FromEnv builds a Server config from environment variables so main stays lean.
// A .env file in the working directory is honored when present.
func FromEnv() Server {
	_ = godotenv.Load()

	cfg := Server{
		Addr:             getenv("CIVITAS_ADDR", ":8080"),
		LogLevel:         getenv("CIVITAS_LOG_LEVEL", "info"),
		JWTSigningKey:    getenv("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		RulesPath:        getenv("CIVITAS_RULES_PATH", "rules.yml"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		RedisURL:         os.Getenv("REDIS_URL"),
		KafkaBrokers:     os.Getenv("KAFKA_BROKERS"),
		KafkaTopic:       getenv("KAFKA_AUDIT_TOPIC", "civitas.audit"),
		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		GeminiModel:      getenv("GEMINI_MODEL", "gemini-1.5-flash"),
		SuggesterTimeout: getDuration("SUGGESTER_TIMEOUT", 10*time.Second),
	}
	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
