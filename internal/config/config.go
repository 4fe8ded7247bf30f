package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hongminglow/taskdesk/internal/auth"
)

// Store drivers.
const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
	DriverMemory   = "memory"
)

// Config holds runtime configuration sourced from an optional YAML file and env vars.
type Config struct {
	Port          string        `yaml:"port"`
	StoreDriver   string        `yaml:"store_driver"`
	DatabaseURL   string        `yaml:"database_url"`
	MongoURI      string        `yaml:"mongodb_uri"`
	MongoDatabase string        `yaml:"mongodb_database"`
	JWTSecret     string        `yaml:"jwt_secret"`
	JWTIssuer     string        `yaml:"jwt_issuer"`
	JWTTTL        time.Duration `yaml:"-"` // always auth.SessionTTL from Load
	CORSOrigins   []string      `yaml:"cors_allowed_origins"`
	LogLevel      string        `yaml:"log_level"`
	LogFormat     string        `yaml:"log_format"`
	MaxDelay      time.Duration `yaml:"-"`
	BcryptCost    int           `yaml:"bcrypt_cost"`

	MaxRequestDelayMs int `yaml:"max_request_delay_ms"`
}

// Load reads configuration from the environment and performs minimal validation.
// When path is non-empty (or CONFIG_FILE is set) the YAML file is read first and
// env vars override it.
func Load(path string) (Config, error) {
	var file Config
	if path == "" {
		path = strings.TrimSpace(os.Getenv("CONFIG_FILE"))
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &file); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	cfg := Config{
		Port:          fallback(os.Getenv("PORT"), file.Port, "8080"),
		StoreDriver:   strings.ToLower(fallback(os.Getenv("STORE_DRIVER"), file.StoreDriver, DriverPostgres)),
		DatabaseURL:   fallback(os.Getenv("DATABASE_URL"), file.DatabaseURL, ""),
		MongoURI:      fallback(os.Getenv("MONGODB_URI"), file.MongoURI, ""),
		MongoDatabase: fallback(os.Getenv("MONGODB_DATABASE"), file.MongoDatabase, "user_management"),
		JWTSecret:     fallback(os.Getenv("JWT_SECRET"), file.JWTSecret, ""),
		JWTIssuer:     fallback(os.Getenv("JWT_ISSUER"), file.JWTIssuer, "taskdesk"),
		LogLevel:      fallback(os.Getenv("LOG_LEVEL"), file.LogLevel, "info"),
		LogFormat:     fallback(os.Getenv("LOG_FORMAT"), file.LogFormat, "json"),
	}

	origins := strings.Join(file.CORSOrigins, ",")
	cfg.CORSOrigins = parseCSV(fallback(os.Getenv("CORS_ALLOWED_ORIGINS"), origins, "*"))

	cfg.JWTTTL = auth.SessionTTL
	cfg.MaxDelay = time.Duration(positiveInt(os.Getenv("MAX_REQUEST_DELAY_MS"), file.MaxRequestDelayMs, 30_000)) * time.Millisecond
	cfg.BcryptCost = positiveInt(os.Getenv("BCRYPT_COST"), file.BcryptCost, 10)

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.StoreDriver {
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required")
		}
	case DriverMongo:
		if c.MongoURI == "" {
			return errors.New("MONGODB_URI is required")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	return nil
}

// HTTPAddress returns the host:port pair for the HTTP server to bind to.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}

// fallback returns the first non-blank value, trimmed.
func fallback(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// positiveInt parses env when set and positive, else uses file when positive, else def.
func positiveInt(env string, file, def int) int {
	if n, err := strconv.Atoi(strings.TrimSpace(env)); err == nil && n > 0 {
		return n
	}
	if file > 0 {
		return file
	}
	return def
}

func parseCSV(input string) []string {
	parts := strings.Split(input, ",")
	var out []string
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
