package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig   `json:"server"`
	Portal   PortalConfig   `json:"portal"`
	Browser  BrowserConfig  `json:"browser"`
	Lookup   LookupConfig   `json:"lookup"`
	Redis    RedisConfig    `json:"redis"`
	History  HistoryConfig  `json:"history"`
	Log      LogConfig      `json:"log"`
	Security SecurityConfig `json:"security"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port         int    `json:"port"`
	Environment  string `json:"environment"`
	ReadTimeout  int    `json:"read_timeout"`
	WriteTimeout int    `json:"write_timeout"`
	IdleTimeout  int    `json:"idle_timeout"`
}

// PortalConfig describes the court portal and the DOM contract of its pages.
type PortalConfig struct {
	BaseURL            string `json:"base_url"`
	SearchPath         string `json:"search_path"`
	CaseTypeSelector   string `json:"case_type_selector"`
	CaseNumberSelector string `json:"case_number_selector"`
	CaseYearSelector   string `json:"case_year_selector"`
	CaptchaSelector    string `json:"captcha_selector"`
	CaptchaInput       string `json:"captcha_input"`
	SubmitSelector     string `json:"submit_selector"`
	ResultTableID      string `json:"result_table_id"`
}

// BrowserConfig holds headless browser configuration. Fixed per deployment.
type BrowserConfig struct {
	Headless     bool   `json:"headless"`
	NoSandbox    bool   `json:"no_sandbox"`
	BinaryPath   string `json:"binary_path"`
	UserAgent    string `json:"user_agent"`
	WindowWidth  int    `json:"window_width"`
	WindowHeight int    `json:"window_height"`
}

// LookupConfig holds the waits and limits of a single case lookup
type LookupConfig struct {
	ElementTimeout       time.Duration `json:"element_timeout"`
	ScrollSettle         time.Duration `json:"scroll_settle"`
	ResultSettle         time.Duration `json:"result_settle"`
	OrderSettle          time.Duration `json:"order_settle"`
	Timeout              time.Duration `json:"timeout"`
	MaxConcurrentLookups int           `json:"max_concurrent_lookups"`
	MaxBatchSize         int           `json:"max_batch_size"`
	CacheTTL             time.Duration `json:"cache_ttl"`
	CatalogRequired      bool          `json:"catalog_required"`
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Enabled      bool          `json:"enabled"`
	Host         string        `json:"host"`
	Port         int           `json:"port"`
	Password     string        `json:"password"`
	DB           int           `json:"db"`
	PoolSize     int           `json:"pool_size"`
	DialTimeout  time.Duration `json:"dial_timeout"`
	ReadTimeout  time.Duration `json:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout"`
}

// HistoryConfig holds the query history database configuration
type HistoryConfig struct {
	DSN string `json:"dsn"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"`
}

// SecurityConfig holds security configuration
type SecurityConfig struct {
	RateLimit RateLimitConfig `json:"rate_limit"`
	CORS      CORSConfig      `json:"cors"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	RequestsPerMinute int           `json:"requests_per_minute"`
	BurstSize         int           `json:"burst_size"`
	CleanupInterval   time.Duration `json:"cleanup_interval"`
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	AllowedOrigins   []string `json:"allowed_origins"`
	AllowedMethods   []string `json:"allowed_methods"`
	AllowedHeaders   []string `json:"allowed_headers"`
	AllowCredentials bool     `json:"allow_credentials"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnvAsInt("PORT", 8080),
			Environment:  getEnv("ENVIRONMENT", "development"),
			ReadTimeout:  getEnvAsInt("READ_TIMEOUT", 30),
			WriteTimeout: getEnvAsInt("WRITE_TIMEOUT", 180),
			IdleTimeout:  getEnvAsInt("IDLE_TIMEOUT", 60),
		},
		Portal: DefaultPortalConfig(),
		Browser: BrowserConfig{
			Headless:     getEnvAsBool("BROWSER_HEADLESS", true),
			NoSandbox:    getEnvAsBool("BROWSER_NO_SANDBOX", true),
			BinaryPath:   getEnv("BROWSER_BINARY_PATH", ""),
			UserAgent:    getEnv("BROWSER_USER_AGENT", defaultUserAgent),
			WindowWidth:  getEnvAsInt("BROWSER_WINDOW_WIDTH", 1366),
			WindowHeight: getEnvAsInt("BROWSER_WINDOW_HEIGHT", 768),
		},
		Lookup: LookupConfig{
			ElementTimeout:       getEnvAsDuration("ELEMENT_TIMEOUT", 10*time.Second),
			ScrollSettle:         getEnvAsDuration("SETTLE_SCROLL", 500*time.Millisecond),
			ResultSettle:         getEnvAsDuration("SETTLE_RESULT", 3*time.Second),
			OrderSettle:          getEnvAsDuration("SETTLE_ORDER", 2*time.Second),
			Timeout:              getEnvAsDuration("LOOKUP_TIMEOUT", 90*time.Second),
			MaxConcurrentLookups: getEnvAsInt("MAX_CONCURRENT_LOOKUPS", 3),
			MaxBatchSize:         getEnvAsInt("MAX_BATCH_SIZE", 10),
			CacheTTL:             getEnvAsDuration("CASE_CACHE_TTL", 15*time.Minute),
			CatalogRequired:      getEnvAsBool("CATALOG_REQUIRED", true),
		},
		Redis: RedisConfig{
			Enabled:      getEnvAsBool("REDIS_ENABLED", true),
			Host:         getEnv("REDIS_HOST", "localhost"),
			Port:         getEnvAsInt("REDIS_PORT", 6379),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           getEnvAsInt("REDIS_DB", 0),
			PoolSize:     getEnvAsInt("REDIS_POOL_SIZE", 10),
			DialTimeout:  time.Duration(getEnvAsInt("REDIS_DIAL_TIMEOUT", 5)) * time.Second,
			ReadTimeout:  time.Duration(getEnvAsInt("REDIS_READ_TIMEOUT", 3)) * time.Second,
			WriteTimeout: time.Duration(getEnvAsInt("REDIS_WRITE_TIMEOUT", 3)) * time.Second,
		},
		History: HistoryConfig{
			DSN: getEnv("HISTORY_DSN", "file:db.sqlite3?_pragma=busy_timeout(5000)"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Security: SecurityConfig{
			RateLimit: RateLimitConfig{
				RequestsPerMinute: getEnvAsInt("RATE_LIMIT_RPM", 30),
				BurstSize:         getEnvAsInt("RATE_LIMIT_BURST", 5),
				CleanupInterval:   time.Duration(getEnvAsInt("RATE_LIMIT_CLEANUP", 60)) * time.Second,
			},
			CORS: CORSConfig{
				AllowedOrigins:   getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
				AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
				AllowedHeaders:   []string{"*"},
				AllowCredentials: false,
			},
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// DefaultPortalConfig returns the Delhi High Court case-status portal layout,
// overridable through PORTAL_* variables.
func DefaultPortalConfig() PortalConfig {
	return PortalConfig{
		BaseURL:            getEnv("PORTAL_BASE_URL", "https://delhihighcourt.nic.in"),
		SearchPath:         getEnv("PORTAL_SEARCH_PATH", "/app/get-case-type-status"),
		CaseTypeSelector:   getEnv("PORTAL_CASE_TYPE_SELECTOR", `select[name="case_type"]`),
		CaseNumberSelector: getEnv("PORTAL_CASE_NUMBER_SELECTOR", `input[name="case_number"]`),
		CaseYearSelector:   getEnv("PORTAL_CASE_YEAR_SELECTOR", `select[name="case_year"]`),
		CaptchaSelector:    getEnv("PORTAL_CAPTCHA_SELECTOR", "#captcha-code"),
		CaptchaInput:       getEnv("PORTAL_CAPTCHA_INPUT", "#captchaInput"),
		SubmitSelector:     getEnv("PORTAL_SUBMIT_SELECTOR", "#search"),
		ResultTableID:      getEnv("PORTAL_RESULT_TABLE_ID", "caseTable"),
	}
}

// Validate checks the values that cannot be defaulted sensibly
func (c *Config) Validate() error {
	origin, err := url.Parse(c.Portal.BaseURL)
	if err != nil || origin.Scheme == "" || origin.Host == "" {
		return fmt.Errorf("PORTAL_BASE_URL must be an absolute URL, got %q", c.Portal.BaseURL)
	}
	if c.Portal.ResultTableID == "" {
		return fmt.Errorf("PORTAL_RESULT_TABLE_ID is required")
	}
	if c.Lookup.MaxConcurrentLookups < 1 {
		return fmt.Errorf("MAX_CONCURRENT_LOOKUPS must be at least 1")
	}
	if c.Lookup.MaxBatchSize < 1 {
		return fmt.Errorf("MAX_BATCH_SIZE must be at least 1")
	}
	return nil
}

// SearchURL returns the absolute URL of the case-status search form
func (p PortalConfig) SearchURL() string {
	return strings.TrimRight(p.BaseURL, "/") + "/" + strings.TrimLeft(p.SearchPath, "/")
}

const defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/139.0.0.0 Safari/537.36"

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvAsDuration accepts Go duration strings ("500ms", "3s")
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

// ResultTableSelector returns the CSS selector of the result table shared by
// the search result page and the order page
func (p PortalConfig) ResultTableSelector() string {
	return "table#" + p.ResultTableID
}
