package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultSystemPrompt is the fixed instruction sent with every reasoning call.
const DefaultSystemPrompt = `You are PlayCheck, a gaming assistant.
When a user asks whether their PC can run a specific game, you must:
1. Extract the game name and user's PC specs.
2. Call the 'scrape_steam_requirements' tool to fetch system requirements.
3. Use the tool result to generate a compatibility response.

If system requirements are missing, explain that clearly. If they are available, compare minimum/recommended specs against the user's hardware and suggest settings (Low/Medium/High).
`

var ErrMissingAPIKey = errors.New("GEMINI_API_KEY (or GOOGLE_API_KEY) is not set")

type Config struct {
	// Server
	Port               string
	RateLimitPerMinute int
	RequestTimeout     time.Duration

	// Gemini AI
	GeminiAPIKey         string
	GeminiModel          string
	GeminiConcurrentReqs int
	SystemPrompt         string

	// Agent
	MaxIterations int

	// Steam
	SteamBaseURL string
	UserAgent    string
	HTTPTimeout  time.Duration

	// Redis (optional turn fan-out)
	RedisURL string

	// Logging
	LogLevel string
}

// fileConfig mirrors Config for the optional YAML overlay. Zero values are
// treated as "not set".
type fileConfig struct {
	Port                 string `yaml:"port"`
	RateLimitPerMinute   int    `yaml:"rate_limit_per_minute"`
	RequestTimeoutSecs   int    `yaml:"request_timeout_seconds"`
	GeminiModel          string `yaml:"gemini_model"`
	GeminiConcurrentReqs int    `yaml:"gemini_concurrent_requests"`
	SystemPrompt         string `yaml:"system_prompt"`
	MaxIterations        int    `yaml:"max_iterations"`
	SteamBaseURL         string `yaml:"steam_base_url"`
	UserAgent            string `yaml:"user_agent"`
	HTTPTimeoutSeconds   int    `yaml:"http_timeout_seconds"`
	RedisURL             string `yaml:"redis_url"`
	LogLevel             string `yaml:"log_level"`
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:                 getEnvOrDefault("PORT", "8080"),
		RateLimitPerMinute:   getEnvAsIntOrDefault("RATE_LIMIT_PER_MINUTE", 30),
		RequestTimeout:       time.Duration(getEnvAsIntOrDefault("REQUEST_TIMEOUT_SECONDS", 120)) * time.Second,
		GeminiAPIKey:         getEnvOrDefault("GEMINI_API_KEY", os.Getenv("GOOGLE_API_KEY")),
		GeminiModel:          getEnvOrDefault("GEMINI_MODEL", "gemini-2.5-flash"),
		GeminiConcurrentReqs: getEnvAsIntOrDefault("GEMINI_CONCURRENT_REQUESTS", 5),
		SystemPrompt:         DefaultSystemPrompt,
		MaxIterations:        getEnvAsIntOrDefault("MAX_ITERATIONS", 5),
		SteamBaseURL:         getEnvOrDefault("STEAM_BASE_URL", "https://store.steampowered.com"),
		UserAgent:            getEnvOrDefault("USER_AGENT", "Mozilla/5.0"),
		HTTPTimeout:          time.Duration(getEnvAsIntOrDefault("HTTP_TIMEOUT_SECONDS", 15)) * time.Second,
		RedisURL:             getEnvOrDefault("REDIS_URL", ""),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
	}

	return cfg
}

// LoadFile loads the environment and then overlays the YAML file at path.
// An empty path is the same as Load.
func LoadFile(path string) (*Config, error) {
	cfg := Load()
	if path == "" {
		return cfg, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(b, &fc); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	cfg.apply(fc)

	return cfg, nil
}

func (c *Config) apply(fc fileConfig) {
	if fc.Port != "" {
		c.Port = fc.Port
	}
	if fc.RateLimitPerMinute > 0 {
		c.RateLimitPerMinute = fc.RateLimitPerMinute
	}
	if fc.RequestTimeoutSecs > 0 {
		c.RequestTimeout = time.Duration(fc.RequestTimeoutSecs) * time.Second
	}
	if fc.GeminiModel != "" {
		c.GeminiModel = fc.GeminiModel
	}
	if fc.GeminiConcurrentReqs > 0 {
		c.GeminiConcurrentReqs = fc.GeminiConcurrentReqs
	}
	if fc.SystemPrompt != "" {
		c.SystemPrompt = fc.SystemPrompt
	}
	if fc.MaxIterations > 0 {
		c.MaxIterations = fc.MaxIterations
	}
	if fc.SteamBaseURL != "" {
		c.SteamBaseURL = fc.SteamBaseURL
	}
	if fc.UserAgent != "" {
		c.UserAgent = fc.UserAgent
	}
	if fc.HTTPTimeoutSeconds > 0 {
		c.HTTPTimeout = time.Duration(fc.HTTPTimeoutSeconds) * time.Second
	}
	if fc.RedisURL != "" {
		c.RedisURL = fc.RedisURL
	}
	if fc.LogLevel != "" {
		c.LogLevel = fc.LogLevel
	}
}

// WriteTimeout leaves room after RequestTimeout for the final response to be
// written.
func (c *Config) WriteTimeout() time.Duration {
	return c.RequestTimeout + 15*time.Second
}

// Validate checks the settings needed to talk to the language model.
func (c *Config) Validate() error {
	if c.GeminiAPIKey == "" {
		return ErrMissingAPIKey
	}
	if c.MaxIterations < 1 {
		return fmt.Errorf("MAX_ITERATIONS must be at least 1, got %d", c.MaxIterations)
	}
	return nil
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}
