// Package config reads the dashboard's runtime settings from the
// environment. A .env file in the working directory is folded in first when
// present; missing values fall back to defaults and malformed ones are
// ignored, never fatal.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Defaults the environment can override.
const (
	DefaultTickInterval  = 5 * time.Second
	DefaultClockInterval = time.Second
	DefaultNotifyTTL     = 4 * time.Second
	DefaultHistorySize   = 360
	DefaultTableRows     = 12
	DefaultTableStep     = 10 * time.Minute
	DefaultHTTPAddr      = ":8080"
)

// Config carries every tunable the dashboard honors.
type Config struct {
	TickInterval  time.Duration // sensor walk period
	ClockInterval time.Duration // time-of-day refresh period
	NotifyTTL     time.Duration // notification lifetime
	HistorySize   int           // ring buffer capacity per sensor
	TableRows     int           // synthesized table length
	TableStep     time.Duration // spacing between table rows
	Seed          int64         // random seed, 0 seeds from the clock
	HTTPAddr      string        // serve mode listen address
	LogFile       string        // extra log sink alongside stdout
	PrefsPath     string        // preference file override
	Language      string        // language override, beats the stored preference
}

// Load reads settings from the environment.
func Load() Config {
	_ = godotenv.Load()
	return Config{
		TickInterval:  getd("WATERDASH_TICK_INTERVAL", DefaultTickInterval),
		ClockInterval: getd("WATERDASH_CLOCK_INTERVAL", DefaultClockInterval),
		NotifyTTL:     getd("WATERDASH_NOTIFY_TTL", DefaultNotifyTTL),
		HistorySize:   geti("WATERDASH_HISTORY", DefaultHistorySize),
		TableRows:     geti("WATERDASH_TABLE_ROWS", DefaultTableRows),
		TableStep:     getd("WATERDASH_TABLE_STEP", DefaultTableStep),
		Seed:          geti64("WATERDASH_SEED", 0),
		HTTPAddr:      getenv("WATERDASH_HTTP_ADDR", DefaultHTTPAddr),
		LogFile:       getenv("WATERDASH_LOG", ""),
		PrefsPath:     getenv("WATERDASH_PREFS", ""),
		Language:      getenv("WATERDASH_LANG", ""),
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func geti(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func geti64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return def
}

func getd(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return def
}
