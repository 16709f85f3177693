package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Addr           string        // API bind address, e.g., "127.0.0.1:8080" (Windows) or ":8080" (Docker)
	LogDir         string        // rotating log directory; empty logs to stderr only
	LogLevel       string        // debug | info | warn | error
	HTTPTimeout    time.Duration // fetch timeout; 0 means none
	MaxBodyBytes   int64         // fetch body cap
	UserAgent      string
	PublicAPIKeys  []string
	AdminAPIKeys   []string
	PublicRPM      int
	PublicBurst    int
	AllowedOrigins []string
	SlackWebhook   string
}

const (
	defaultMaxBodyBytes = 10 << 20
	defaultUserAgent    = "pagegrader/1.0"
)

func FromEnv() Config {
	// Bind address (Windows-friendly default)
	addr := os.Getenv("API_ADDR")
	if addr == "" {
		addr = "127.0.0.1:8080"
	}

	// Empty lets each binary pick its own default (api: info, grader: warn).
	logLevel := strings.ToLower(strings.TrimSpace(os.Getenv("LOG_LEVEL")))

	// Fetch tuning; no timeout unless asked for.
	var timeout time.Duration
	if v := os.Getenv("HTTP_TIMEOUT_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms >= 0 {
			timeout = time.Duration(ms) * time.Millisecond
		}
	}

	maxBody := int64(defaultMaxBodyBytes)
	if v := os.Getenv("MAX_BODY_BYTES"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			maxBody = n
		}
	}

	ua := os.Getenv("USER_AGENT")
	if ua == "" {
		ua = defaultUserAgent
	}

	return Config{
		Addr:           addr,
		LogDir:         os.Getenv("LOG_DIR"),
		LogLevel:       logLevel,
		HTTPTimeout:    timeout,
		MaxBodyBytes:   maxBody,
		UserAgent:      ua,
		PublicAPIKeys:  splitList(os.Getenv("PUBLIC_API_KEYS")),
		AdminAPIKeys:   splitList(os.Getenv("ADMIN_API_KEYS")),
		PublicRPM:      intEnv("PUBLIC_RPM", 120),
		PublicBurst:    intEnv("PUBLIC_BURST", 60),
		AllowedOrigins: splitList(os.Getenv("ALLOWED_ORIGINS")),
		SlackWebhook:   os.Getenv("SLACK_WEBHOOK_URL"),
	}
}

func intEnv(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return def
}

// splitList parses "a,b, c" into [a b c], dropping empties.
func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
