package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/quimicadatos/cuadro-search/internal/config"
)

var configKeys = []string{
	"SERVER_ADDR", "SERVER_WRITE_TIMEOUT",
	"CORPUS_BASE_URL", "CORPUS_DIR", "CORPUS_LINK_BASE", "CORPUS_CATALOG_FILE", "CORPUS_INDEX_ON_STARTUP",
	"FETCH_TIMEOUT", "FETCH_USER_AGENT", "FETCH_MAX_BODY_BYTES",
	"POLITENESS_MIN_DELAY", "POLITENESS_ROBOTS_CACHE_DURATION", "POLITENESS_ENABLE_ROBOTS_CHECK", "POLITENESS_USER_AGENT",
	"LOG_LEVEL", "LOG_FORMAT",
}

// clearEnv blanks every key Load reads; empty values fall back to defaults.
func clearEnv(t *testing.T) {
	for _, key := range configKeys {
		t.Setenv(key, "")
	}
}

func TestLoadDefaultConfig(t *testing.T) {
	clearEnv(t)

	cfg := config.Load()

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 15*time.Second, cfg.Server.WriteTimeout)

	assert.Equal(t, "", cfg.Corpus.BaseURL)
	assert.Equal(t, "./cuadro", cfg.Corpus.Dir)
	assert.Equal(t, "./cuadro/", cfg.Corpus.LinkBase)
	assert.Equal(t, "", cfg.Corpus.CatalogFile)
	assert.True(t, cfg.Corpus.IndexOnStartup)

	assert.Equal(t, 30*time.Second, cfg.Fetch.Timeout)
	assert.Equal(t, "CuadroSearch/1.0", cfg.Fetch.UserAgent)
	assert.Equal(t, int64(10<<20), cfg.Fetch.MaxBodyBytes)

	assert.Equal(t, 200*time.Millisecond, cfg.Politeness.MinDelay)
	assert.Equal(t, 24*time.Hour, cfg.Politeness.RobotsCacheDuration)
	assert.True(t, cfg.Politeness.EnableRobotsCheck)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoadConfigFromEnv(t *testing.T) {
	clearEnv(t)
	envVars := map[string]string{
		"SERVER_ADDR":                    ":9090",
		"CORPUS_BASE_URL":                "https://example.com/cuadro/",
		"CORPUS_DIR":                     "/srv/cuadro",
		"CORPUS_CATALOG_FILE":            "catalog.yaml",
		"CORPUS_INDEX_ON_STARTUP":        "false",
		"FETCH_TIMEOUT":                  "5s",
		"FETCH_MAX_BODY_BYTES":           "1024",
		"POLITENESS_MIN_DELAY":           "1s",
		"POLITENESS_ENABLE_ROBOTS_CHECK": "false",
		"LOG_LEVEL":                      "debug",
		"LOG_FORMAT":                     "json",
	}
	for key, value := range envVars {
		t.Setenv(key, value)
	}

	cfg := config.Load()

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "https://example.com/cuadro/", cfg.Corpus.BaseURL)
	assert.Equal(t, "/srv/cuadro", cfg.Corpus.Dir)
	assert.Equal(t, "catalog.yaml", cfg.Corpus.CatalogFile)
	assert.False(t, cfg.Corpus.IndexOnStartup)
	assert.Equal(t, 5*time.Second, cfg.Fetch.Timeout)
	assert.Equal(t, int64(1024), cfg.Fetch.MaxBodyBytes)
	assert.Equal(t, time.Second, cfg.Politeness.MinDelay)
	assert.False(t, cfg.Politeness.EnableRobotsCheck)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestGetIntEnv(t *testing.T) {
	tests := []struct {
		name         string
		envValue     string
		defaultValue int
		expected     int
	}{
		{"Valid int", "42", 10, 42},
		{"Invalid int", "not_a_number", 10, 10},
		{"Negative int", "-5", 10, -5},
		{"Zero", "0", 10, 0},
		{"Unset", "", 10, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_INT", tt.envValue)
			assert.Equal(t, tt.expected, config.GetIntEnv("TEST_INT", tt.defaultValue))
		})
	}
}

func TestGetBoolEnv(t *testing.T) {
	tests := []struct {
		name         string
		envValue     string
		defaultValue bool
		expected     bool
	}{
		{"True string", "true", false, true},
		{"False string", "false", true, false},
		{"1 (true)", "1", false, true},
		{"Invalid bool", "invalid", true, true},
		{"Unset", "", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_BOOL", tt.envValue)
			assert.Equal(t, tt.expected, config.GetBoolEnv("TEST_BOOL", tt.defaultValue))
		})
	}
}

func TestGetDurationEnv(t *testing.T) {
	tests := []struct {
		name         string
		envValue     string
		defaultValue time.Duration
		expected     time.Duration
	}{
		{"Seconds", "5s", time.Second, 5 * time.Second},
		{"Combined", "1h30m", time.Second, 90 * time.Minute},
		{"Invalid duration", "invalid", 5 * time.Second, 5 * time.Second},
		{"Unset", "", 10 * time.Second, 10 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_DURATION", tt.envValue)
			assert.Equal(t, tt.expected, config.GetDurationEnv("TEST_DURATION", tt.defaultValue))
		})
	}
}

func TestGetStringEnv(t *testing.T) {
	t.Setenv("TEST_STRING", "value")
	assert.Equal(t, "value", config.GetStringEnv("TEST_STRING", "default"))

	t.Setenv("TEST_STRING", "")
	assert.Equal(t, "default", config.GetStringEnv("TEST_STRING", "default"))
}
