package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const devJWTSecret = "sensei-learn-dev-signing-key"

type Config struct {
	Port           string
	AllowedOrigins []string

	DB          DBConfig
	LocalDBPath string
	JWTSecret   string

	CloudSync bool
	SyncDelay time.Duration

	QuizSessionTTL time.Duration
	ProfileIdleTTL time.Duration
	SweepInterval  time.Duration

	Coach CoachConfig
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// DSN is the lib/pq connection string.
func (c DBConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// URL is the same connection in URL form, as golang-migrate expects it.
func (c DBConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode)
}

// CoachConfig selects the LLM behind the study coach. An empty key for the
// chosen provider leaves the coach on its built-in replies.
type CoachConfig struct {
	Provider string // gemini, anthropic, openai or mock

	GeminiAPIKey string
	GeminiModel  string

	AnthropicAPIKey string
	AnthropicModel  string

	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string

	Timeout     time.Duration
	MaxAttempts int
}

// Load reads .env (if present) and then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "*")),
		DB: DBConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "sensei"),
			Password: getEnv("DB_PASSWORD", "sensei_password"),
			Name:     getEnv("DB_NAME", "sensei_learn"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		LocalDBPath: getEnv("LOCAL_DB_PATH", "data/sensei-local.db"),
		JWTSecret:   getEnv("JWT_SECRET", ""),
		Coach: CoachConfig{
			Provider:        strings.ToLower(getEnv("COACH_PROVIDER", "gemini")),
			GeminiAPIKey:    getEnv("GEMINI_API_KEY", ""),
			GeminiModel:     getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
			AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
			AnthropicModel:  getEnv("ANTHROPIC_MODEL", "claude-3-5-haiku-latest"),
			OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
			OpenAIModel:     getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			OpenAIBaseURL:   getEnv("OPENAI_BASE_URL", ""),
		},
	}

	var err error
	if cfg.CloudSync, err = getBool("CLOUD_SYNC", true); err != nil {
		return nil, err
	}
	if cfg.SyncDelay, err = getDuration("SYNC_DELAY", time.Second); err != nil {
		return nil, err
	}
	if cfg.QuizSessionTTL, err = getDuration("QUIZ_SESSION_TTL", 30*time.Minute); err != nil {
		return nil, err
	}
	if cfg.ProfileIdleTTL, err = getDuration("PROFILE_IDLE_TTL", time.Hour); err != nil {
		return nil, err
	}
	if cfg.SweepInterval, err = getDuration("SWEEP_INTERVAL", 5*time.Minute); err != nil {
		return nil, err
	}
	if cfg.Coach.Timeout, err = getDuration("COACH_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.Coach.MaxAttempts, err = getInt("COACH_MAX_ATTEMPTS", 3); err != nil {
		return nil, err
	}

	if cfg.JWTSecret == "" {
		log.Printf("[config] JWT_SECRET not set, using the development key")
		cfg.JWTSecret = devJWTSecret
	}

	switch cfg.Coach.Provider {
	case "gemini", "anthropic", "openai", "mock":
	default:
		return nil, fmt.Errorf("COACH_PROVIDER: unknown provider %q", cfg.Coach.Provider)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getBool(key string, fallback bool) (bool, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func getInt(key string, fallback int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

// getDuration accepts Go durations ("1500ms") or bare milliseconds ("1500").
func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	if ms, err := strconv.Atoi(v); err == nil {
		return time.Duration(ms) * time.Millisecond, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
