package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	Addr     string `env:"API_ADDR"  env-default:"127.0.0.1:8080"` // "127.0.0.1:8080" (Windows) or ":8080" (Docker)
	LogDir   string `env:"LOG_DIR"   env-default:"logs"`
	LogLevel string `env:"LOG_LEVEL" env-default:"info"`

	// Empty means build from the DB_* / REDIS_* parts below.
	DatabaseURL string `env:"DATABASE_URL"`
	RedisURL    string `env:"REDIS_URL"`
	DB          DBParts
	Redis       RedisParts

	// 0 disables the bound and lets a hung backend block the request.
	ProbeTimeout    time.Duration `env:"PROBE_TIMEOUT"    env-default:"5s"`
	ProbeConcurrent bool          `env:"PROBE_CONCURRENT" env-default:"false"`
	RetryAttempts   int           `env:"RETRY_ATTEMPTS"   env-default:"1"`
	RetryBackoff    time.Duration `env:"RETRY_BACKOFF"    env-default:"300ms"`

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" env-default:"10s"`
	AllowedOrigins  []string      `env:"ALLOWED_ORIGINS"`
	PublicAPIKeys   []string      `env:"PUBLIC_API_KEYS"`
	AdminAPIKeys    []string      `env:"ADMIN_API_KEYS"`
	PublicRPM       int           `env:"PUBLIC_RPM"   env-default:"120"`
	PublicBurst     int           `env:"PUBLIC_BURST" env-default:"60"`
	// IPs or CIDRs of reverse proxies whose X-Forwarded-For is trusted.
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	WatchInterval   time.Duration `env:"WATCH_INTERVAL"    env-default:"0s"`
	WatchCooldown   time.Duration `env:"WATCH_COOLDOWN"    env-default:"10m"`
	AlertOnRecovery bool          `env:"ALERT_ON_RECOVERY" env-default:"true"`
	SlackWebhook    string        `env:"SLACK_WEBHOOK_URL"`
	StateBackend    string        `env:"STATE_BACKEND"     env-default:"memory"` // memory | redis
}

type DBParts struct {
	Host     string `env:"DB_HOST"     env-default:"localhost"`
	Port     string `env:"DB_PORT"     env-default:"5432"`
	User     string `env:"DB_USER"     env-default:"netmon_user"`
	Password string `env:"DB_PASSWORD" env-default:"netmon_password"`
	Name     string `env:"DB_NAME"     env-default:"network_monitor"`
	SSLMode  string `env:"DB_SSLMODE"  env-default:"disable"`
}

type RedisParts struct {
	Host     string `env:"REDIS_HOST"     env-default:"localhost"`
	Port     string `env:"REDIS_PORT"     env-default:"6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       string `env:"REDIS_DB"       env-default:"0"`
}

// FromEnv reads the process environment. Values already in the
// environment win over defaults; see LoadDotEnv for .env support.
func FromEnv() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("read env: %w", err)
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = strings.TrimSpace(os.Getenv("POSTGRES_URL"))
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = cfg.DB.URL()
	}
	if cfg.RedisURL == "" {
		cfg.RedisURL = cfg.Redis.URL()
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("validate: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.RetryAttempts < 1 {
		c.RetryAttempts = 1
	}
	if c.ProbeTimeout < 0 {
		return fmt.Errorf("PROBE_TIMEOUT must be >= 0, got %s", c.ProbeTimeout)
	}
	if c.WatchInterval < 0 {
		return fmt.Errorf("WATCH_INTERVAL must be >= 0, got %s", c.WatchInterval)
	}
	switch c.StateBackend {
	case "memory", "redis":
	default:
		return fmt.Errorf("STATE_BACKEND must be memory or redis, got %q", c.StateBackend)
	}
	return nil
}

func (p DBParts) URL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(p.User, p.Password),
		Host:     p.Host + ":" + p.Port,
		Path:     "/" + p.Name,
		RawQuery: "sslmode=" + url.QueryEscape(p.SSLMode),
	}
	return u.String()
}

func (p RedisParts) URL() string {
	u := url.URL{Scheme: "redis", Host: p.Host + ":" + p.Port, Path: "/" + p.DB}
	if p.Password != "" {
		u.User = url.UserPassword("", p.Password)
	}
	return u.String()
}

// LoadDotEnv loads path into the environment when the file exists.
// Variables that are already set are left alone.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Redact hides the password of a connection URL so it can be logged.
func Redact(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "<unparseable>"
	}
	return u.Redacted()
}
