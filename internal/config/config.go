// Package config builds the immutable process configuration from the
// environment. Load is called once in main and the result is passed down.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"dhonk_backend/internal/entities"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Port     string
	LogLevel string
	GinMode  string

	Database DatabaseConfig
	LLM      LLMConfig

	IntentRulesPath string
	Contacts        entities.ContactDirectory
	Prompts         Prompts
}

type DatabaseConfig struct {
	Driver     string
	Host       string
	Name       string
	User       string
	Password   string
	Port       int
	SSLMode    string
	SQLitePath string
	Table      string
	SeedCSV    string
}

type LLMConfig struct {
	APIKey         string
	BaseURL        string
	Model          string
	Temperature    float64
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
}

// Load reads .env (if present) and then the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	dbPort, err := getEnvInt("DB_PORT", 5432)
	if err != nil {
		return Config{}, err
	}
	temperature, err := getEnvFloat("LLM_TEMPERATURE", 0.6)
	if err != nil {
		return Config{}, err
	}
	connectTimeout, err := getEnvDuration("LLM_CONNECT_TIMEOUT", 10*time.Second)
	if err != nil {
		return Config{}, err
	}
	readTimeout, err := getEnvDuration("LLM_READ_TIMEOUT", 90*time.Second)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port:     getEnv("PORT", "5001"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		GinMode:  getEnv("GIN_MODE", "release"),
		Database: DatabaseConfig{
			Driver:     strings.ToLower(getEnv("DB_DRIVER", DriverPostgres)),
			Host:       getEnv("DB_HOST", "localhost"),
			Name:       getEnv("DB_NAME", "dhonk_craft_user"),
			User:       getEnv("DB_USER", "postgres"),
			Password:   os.Getenv("DB_PASSWORD"),
			Port:       dbPort,
			SSLMode:    getEnv("DB_SSLMODE", "disable"),
			SQLitePath: getEnv("SQLITE_PATH", "dhonk.db"),
			Table:      getEnv("CONTENT_TABLE", "dhonk_pages"),
			SeedCSV:    os.Getenv("CONTENT_SEED_CSV"),
		},
		LLM: LLMConfig{
			APIKey:         os.Getenv("OPENROUTER_API_KEY"),
			BaseURL:        getEnv("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1/chat/completions"),
			Model:          getEnv("OPENROUTER_MODEL", "mistralai/mistral-7b-instruct"),
			Temperature:    temperature,
			ConnectTimeout: connectTimeout,
			ReadTimeout:    readTimeout,
		},
		IntentRulesPath: os.Getenv("INTENT_RULES_PATH"),
		Contacts:        loadContacts(),
		Prompts:         DefaultPrompts(),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot start with.
func (c Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}
	if !validIdentifier(c.Database.Table) {
		return fmt.Errorf("invalid CONTENT_TABLE %q", c.Database.Table)
	}
	if c.LLM.ConnectTimeout <= 0 || c.LLM.ReadTimeout <= 0 {
		return fmt.Errorf("llm timeouts must be positive")
	}
	return nil
}

// PostgresDSN returns a pgx connection URL for the configured database.
func (d DatabaseConfig) PostgresDSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:     "/" + d.Name,
		RawQuery: url.Values{"sslmode": []string{d.SSLMode}}.Encode(),
	}
	return u.String()
}

// validIdentifier allows plain SQL identifiers only, since the table name is
// interpolated into queries.
func validIdentifier(s string) bool {
	if s == "" || len(s) > 63 {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return n, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return f, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return d, nil
}
