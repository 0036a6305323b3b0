package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// DefaultAPIBaseURL is used when API_BASE_URL is not set. It points at the
// deployed volunteer server so a fresh checkout renders real data.
const DefaultAPIBaseURL = "https://vrc-server-110406681774.asia-south1.run.app"

// Provider exposes read access to the application configuration. Modules and
// handlers depend on this interface rather than on *Config so tests can
// substitute their own values.
type Provider interface {
	GetServerAddr() string
	GetAPIBaseURL() string
	GetSessionSecret() string
	GetLoginPath() string
	GetHTTPTimeout() time.Duration
	GetViewCacheSize() int
	GetScanMaxSessions() int
	GetMaxUploadBytes() int64
	GetUploadDir() string
}

// Config holds all configuration for the application.
type Config struct {
	ServerAddr      string
	APIBaseURL      string
	SessionSecret   string
	LoginPath       string
	HTTPTimeout     time.Duration
	ViewCacheSize   int
	ScanMaxSessions int
	MaxUploadBytes  int64
	UploadDir       string
}

// New loads configuration from environment variables.
func New() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	cfg := &Config{
		ServerAddr:      getEnv("APP_ADDR", ":8080"),
		APIBaseURL:      getEnv("API_BASE_URL", ""),
		SessionSecret:   os.Getenv("SESSION_SECRET"),
		LoginPath:       getEnv("LOGIN_PATH", "/admin/login"),
		HTTPTimeout:     getDuration("HTTP_TIMEOUT", 0),
		ViewCacheSize:   getInt("VIEW_CACHE_SIZE", 256),
		ScanMaxSessions: getInt("SCAN_MAX_SESSIONS", 64),
		MaxUploadBytes:  int64(getInt("MAX_UPLOAD_BYTES", 5<<20)),
		UploadDir:       getEnv("UPLOAD_DIR", filepath.Join(os.TempDir(), "vrcadmin-uploads")),
	}

	if cfg.APIBaseURL == "" {
		log.Printf("API_BASE_URL is not set, using %s", DefaultAPIBaseURL)
		cfg.APIBaseURL = DefaultAPIBaseURL
	}

	if cfg.SessionSecret == "" {
		log.Fatal("Required environment variable SESSION_SECRET is not set.")
	}

	return cfg
}

func (c *Config) GetServerAddr() string         { return c.ServerAddr }
func (c *Config) GetAPIBaseURL() string         { return c.APIBaseURL }
func (c *Config) GetSessionSecret() string      { return c.SessionSecret }
func (c *Config) GetLoginPath() string          { return c.LoginPath }
func (c *Config) GetHTTPTimeout() time.Duration { return c.HTTPTimeout }
func (c *Config) GetViewCacheSize() int         { return c.ViewCacheSize }
func (c *Config) GetScanMaxSessions() int       { return c.ScanMaxSessions }
func (c *Config) GetMaxUploadBytes() int64      { return c.MaxUploadBytes }
func (c *Config) GetUploadDir() string          { return c.UploadDir }

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Printf("Ignoring invalid %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

// getDuration accepts Go duration strings ("30s") or plain seconds ("30").
func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	log.Printf("Ignoring invalid %s=%q", key, v)
	return fallback
}
