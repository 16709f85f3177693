// cmd/preflight/main.go
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/hamed0406/pagegrader/internal/config"
	"github.com/hamed0406/pagegrader/internal/document"
)

func main() {
	fail := func(msg string) {
		fmt.Fprintln(os.Stderr, "✖", msg)
		os.Exit(1)
	}
	warn := func(msg string) { fmt.Fprintln(os.Stderr, "⚠", msg) }
	ok := func(msg string) { fmt.Println("✔", msg) }

	cfg := config.FromEnv()

	if len(cfg.AdminAPIKeys) == 0 {
		warn("ADMIN_API_KEYS is empty (POST /api/grade is open to anyone).")
	}
	if len(cfg.PublicAPIKeys) == 0 && len(cfg.AdminAPIKeys) == 0 {
		warn("no API keys set; all routes are open (dev mode).")
	}
	for _, name := range []string{"ADMIN_API_KEYS", "PUBLIC_API_KEYS"} {
		if strings.Contains(os.Getenv(name), " ") {
			warn(name + " contains spaces; use comma-separated with no spaces, e.g. key1,key2")
		}
	}

	ok("API_ADDR=" + cfg.Addr)

	if cfg.HTTPTimeout == 0 {
		warn("HTTP_TIMEOUT_MS unset; the CLI waits on slow pages indefinitely (API caps at 30s).")
	} else {
		ok("HTTP_TIMEOUT_MS=" + cfg.HTTPTimeout.String())
	}

	if cfg.SlackWebhook != "" {
		if _, err := document.NormalizeURL(cfg.SlackWebhook); err != nil || !strings.HasPrefix(cfg.SlackWebhook, "https://") {
			fail("SLACK_WEBHOOK_URL must be an https URL.")
		}
		ok("SLACK_WEBHOOK_URL present")
	} else {
		warn("SLACK_WEBHOOK_URL empty; failing runs will not be announced.")
	}

	if len(cfg.AllowedOrigins) == 0 {
		warn("ALLOWED_ORIGINS empty; CORS allows every origin.")
	} else {
		ok("ALLOWED_ORIGINS=" + strings.Join(cfg.AllowedOrigins, ","))
	}

	ok("preflight passed")
}
