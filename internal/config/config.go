package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the configuration for the search service
type Config struct {
	Server     ServerConfig
	Corpus     CorpusConfig
	Fetch      FetchConfig
	Politeness PolitenessConfig
	Log        LogConfig
}

// ServerConfig holds HTTP API settings
type ServerConfig struct {
	Addr         string
	WriteTimeout time.Duration
}

// CorpusConfig describes where the group pages come from
type CorpusConfig struct {
	// BaseURL, when set, makes the indexer fetch pages over HTTP relative to it.
	BaseURL string
	// Dir is the local directory holding the pages when BaseURL is empty.
	Dir string
	// LinkBase prefixes each page name to build the link shown with results.
	LinkBase       string
	CatalogFile    string
	IndexOnStartup bool
}

// FetchConfig holds HTTP retrieval settings
type FetchConfig struct {
	Timeout      time.Duration
	UserAgent    string
	MaxBodyBytes int64
}

// PolitenessConfig holds the rules applied to HTTP retrieval
type PolitenessConfig struct {
	MinDelay            time.Duration
	RobotsCacheDuration time.Duration
	EnableRobotsCheck   bool
	UserAgent           string
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string
	Format string
}

// Load loads configuration from environment variables with defaults
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:         GetStringEnv("SERVER_ADDR", ":8080"),
			WriteTimeout: GetDurationEnv("SERVER_WRITE_TIMEOUT", 15*time.Second),
		},
		Corpus: CorpusConfig{
			BaseURL:        GetStringEnv("CORPUS_BASE_URL", ""),
			Dir:            GetStringEnv("CORPUS_DIR", "./cuadro"),
			LinkBase:       GetStringEnv("CORPUS_LINK_BASE", "./cuadro/"),
			CatalogFile:    GetStringEnv("CORPUS_CATALOG_FILE", ""),
			IndexOnStartup: GetBoolEnv("CORPUS_INDEX_ON_STARTUP", true),
		},
		Fetch: FetchConfig{
			Timeout:      GetDurationEnv("FETCH_TIMEOUT", 30*time.Second),
			UserAgent:    GetStringEnv("FETCH_USER_AGENT", "CuadroSearch/1.0"),
			MaxBodyBytes: int64(GetIntEnv("FETCH_MAX_BODY_BYTES", 10<<20)),
		},
		Politeness: PolitenessConfig{
			MinDelay:            GetDurationEnv("POLITENESS_MIN_DELAY", 200*time.Millisecond),
			RobotsCacheDuration: GetDurationEnv("POLITENESS_ROBOTS_CACHE_DURATION", 24*time.Hour),
			EnableRobotsCheck:   GetBoolEnv("POLITENESS_ENABLE_ROBOTS_CHECK", true),
			UserAgent:           GetStringEnv("POLITENESS_USER_AGENT", "CuadroSearch/1.0"),
		},
		Log: LogConfig{
			Level:  GetStringEnv("LOG_LEVEL", "info"),
			Format: GetStringEnv("LOG_FORMAT", "text"),
		},
	}
}

func GetStringEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func GetIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func GetBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func GetDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
