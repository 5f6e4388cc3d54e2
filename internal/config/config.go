package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultBaseURL = "https://api.scraperapi.com"

type Config struct {
	Debug  bool
	DryRun bool

	ApiKey  string
	BaseURL string

	DbConnectionString string

	Workers          int
	ConcurrencyLimit int
	RetryCount       int
	RenderJS         bool
	CountryCode      string
	Delay            time.Duration
	RandomDelay      time.Duration

	OpenAIApiKey        string
	OpenAILanguageModel string

	OtlpMetricsURL string
	OtlpTracesURL  string
}

var config *Config

func GetConfig() *Config {
	if config != nil {
		return config
	}
	config = &Config{}

	// Local .env is applied first, the real environment wins
	if err := godotenv.Load(); err == nil {
		slog.Debug("loaded .env file")
	}

	// Debug mode
	debug := os.Getenv("HARVESTER_DEBUG")
	if strings.ToLower(debug) == "true" || debug == "1" {
		config.Debug = true
	}
	if config.Debug {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	// Dry run mode: fetch and parse but never touch the database
	dryRun := os.Getenv("HARVESTER_DRY_RUN")
	if strings.ToLower(dryRun) == "true" || dryRun == "1" {
		config.DryRun = true
	}

	// Gateway API key
	config.ApiKey = os.Getenv("HARVESTER_API_KEY")
	if len(config.ApiKey) == 0 {
		slog.Error("Gateway API key not found in the environment (HARVESTER_API_KEY)")
		os.Exit(1)
	}

	// Gateway base URL
	config.BaseURL = os.Getenv("HARVESTER_API_BASE_URL")
	if len(config.BaseURL) == 0 {
		config.BaseURL = defaultBaseURL
	}

	// Database connection string
	config.DbConnectionString = os.Getenv("HARVESTER_DB_STRING")
	if len(config.DbConnectionString) == 0 && !config.DryRun {
		slog.Error("Database connection string is not set in the environment (HARVESTER_DB_STRING)")
		os.Exit(1)
	}

	config.Workers = intEnv("HARVESTER_WORKERS", 5)
	config.ConcurrencyLimit = intEnv("HARVESTER_CONCURRENCY_LIMIT", 50)
	config.RetryCount = intEnv("HARVESTER_RETRY_COUNT", 3)
	config.Delay = time.Duration(intEnv("HARVESTER_DELAY_MS", 0)) * time.Millisecond
	config.RandomDelay = time.Duration(intEnv("HARVESTER_RANDOM_DELAY_MS", 0)) * time.Millisecond

	renderJS := os.Getenv("HARVESTER_RENDER_JS")
	if strings.ToLower(renderJS) == "true" || renderJS == "1" {
		config.RenderJS = true
	}
	config.CountryCode = os.Getenv("HARVESTER_COUNTRY_CODE")

	// Optional LLM extraction engine
	config.OpenAIApiKey = os.Getenv("HARVESTER_OPENAI_API_KEY")
	config.OpenAILanguageModel = os.Getenv("HARVESTER_OPENAI_LANGUAGE_MODEL")
	if len(config.OpenAIApiKey) > 0 && len(config.OpenAILanguageModel) == 0 {
		slog.Error("OpenAI language model not set while the API key is (HARVESTER_OPENAI_LANGUAGE_MODEL)")
		os.Exit(1)
	}

	// Optional OTLP telemetry endpoints
	config.OtlpMetricsURL = os.Getenv("HARVESTER_OTLP_METRICS_URL")
	config.OtlpTracesURL = os.Getenv("HARVESTER_OTLP_TRACES_URL")

	slog.Debug("Configuration parameters",
		"HARVESTER_DEBUG", config.Debug,
		"HARVESTER_DRY_RUN", config.DryRun,
		"HARVESTER_API_BASE_URL", config.BaseURL,
		"HARVESTER_WORKERS", config.Workers,
		"HARVESTER_CONCURRENCY_LIMIT", config.ConcurrencyLimit,
		"HARVESTER_RETRY_COUNT", config.RetryCount,
		"HARVESTER_RENDER_JS", config.RenderJS,
		"HARVESTER_COUNTRY_CODE", config.CountryCode,
		"HARVESTER_DELAY_MS", config.Delay,
		"HARVESTER_RANDOM_DELAY_MS", config.RandomDelay)

	return config
}

func intEnv(name string, fallback int) int {
	raw := os.Getenv(name)
	if len(raw) == 0 {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		slog.Error("invalid integer in the environment", "name", name, "value", raw)
		os.Exit(1)
	}
	return value
}
