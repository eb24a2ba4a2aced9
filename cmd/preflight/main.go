// cmd/preflight/main.go
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hamed0406/connprobe/internal/config"
	apimw "github.com/hamed0406/connprobe/internal/httpapi/middleware"
)

type level int

const (
	lvlOK level = iota
	lvlWarn
	lvlFail
)

type finding struct {
	lvl level
	msg string
}

func (f finding) String() string {
	switch f.lvl {
	case lvlFail:
		return "✖ " + f.msg
	case lvlWarn:
		return "⚠ " + f.msg
	}
	return "✔ " + f.msg
}

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		fmt.Fprintln(os.Stderr, "✖", err)
		os.Exit(1)
	}
	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, "✖", err)
		os.Exit(1)
	}
	if report(os.Stdout, os.Stderr, check(cfg, os.Getenv)) {
		os.Exit(1)
	}
}

// report prints findings and says whether any of them failed.
func report(stdout, stderr io.Writer, fs []finding) bool {
	failed := false
	for _, f := range fs {
		w := stdout
		if f.lvl != lvlOK {
			w = stderr
		}
		fmt.Fprintln(w, f)
		failed = failed || f.lvl == lvlFail
	}
	if !failed {
		fmt.Fprintln(stdout, finding{msg: "preflight passed"})
	}
	return failed
}

func check(cfg config.Config, getenv func(string) string) []finding {
	var out []finding
	ok := func(msg string) { out = append(out, finding{lvlOK, msg}) }
	warn := func(msg string) { out = append(out, finding{lvlWarn, msg}) }
	fail := func(msg string) { out = append(out, finding{lvlFail, msg}) }

	if len(cfg.PublicAPIKeys) == 0 && len(cfg.AdminAPIKeys) == 0 {
		warn("PUBLIC_API_KEYS and ADMIN_API_KEYS empty; /api/test-* is open to anyone.")
	}
	for _, name := range []string{"ADMIN_API_KEYS", "PUBLIC_API_KEYS"} {
		if strings.Contains(getenv(name), " ") {
			warn(name + " contains spaces; use comma-separated with no spaces, e.g. key1,key2")
		}
	}
	ok("API_ADDR=" + cfg.Addr)

	if strings.TrimSpace(getenv("DATABASE_URL")) == "" {
		warn("DATABASE_URL empty; using DB_* parts " + config.Redact(cfg.DatabaseURL))
	}
	if _, err := pgxpool.ParseConfig(cfg.DatabaseURL); err != nil {
		fail("database url does not parse: " + err.Error())
	} else {
		ok("database " + config.Redact(cfg.DatabaseURL))
	}

	if _, err := redis.ParseURL(cfg.RedisURL); err != nil {
		fail("redis url does not parse: " + err.Error())
	} else {
		ok("redis " + config.Redact(cfg.RedisURL))
	}

	if len(cfg.AllowedOrigins) == 0 {
		warn("ALLOWED_ORIGINS empty; CORS allows every origin.")
	} else {
		ok("ALLOWED_ORIGINS=" + strings.Join(cfg.AllowedOrigins, ","))
	}

	if len(cfg.TrustedProxies) == 0 {
		ok("TRUSTED_PROXIES empty; rate limiting keys on the peer address.")
	} else if _, err := apimw.ParseTrustedProxies(cfg.TrustedProxies); err != nil {
		fail("TRUSTED_PROXIES: " + err.Error())
	} else {
		ok("TRUSTED_PROXIES=" + strings.Join(cfg.TrustedProxies, ","))
	}

	if cfg.ProbeTimeout == 0 {
		warn("PROBE_TIMEOUT=0; a hung backend will hold requests open.")
	} else {
		ok("PROBE_TIMEOUT=" + cfg.ProbeTimeout.String())
	}

	if cfg.WatchInterval > 0 {
		ok("watcher every " + cfg.WatchInterval.String())
		if cfg.SlackWebhook == "" {
			warn("SLACK_WEBHOOK_URL empty; alerts only go to the log.")
		}
		if len(cfg.AdminAPIKeys) == 0 {
			warn("ADMIN_API_KEYS empty; POST /api/watch/scan is open to anyone.")
		}
	}
	return out
}
