package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the full service configuration, built from environment variables.
type Config struct {
	Server    Server
	Database  DatabaseConfig
	Redis     RedisConfig
	Auth      AuthConfig
	Kafka     KafkaConfig
	Pricing   PricingConfig
	Cart      CartConfig
	RateLimit RateLimitConfig
	SeedFile  string
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr           string
	Environment    string
	LogLevel       string
	RequestTimeout time.Duration

	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
}

// DatabaseConfig points at Postgres. An empty URL selects in-memory stores.
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig points at Redis. An empty URL keeps carts in process memory.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// AuthConfig holds session token settings.
type AuthConfig struct {
	JWTSigningKey string
	TokenTTL      time.Duration
	Issuer        string
}

// KafkaConfig configures domain event publishing. No brokers disables it.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// PricingConfig holds the flat checkout pricing policy in decimal strings so
// amounts are parsed exactly into cents.
type PricingConfig struct {
	FreeShippingThreshold string
	FlatShippingFee       string
	TaxRate               float64
}

// CartConfig controls server-held cart sessions.
type CartConfig struct {
	SessionTTL time.Duration
}

// RateLimitConfig sets per-client sliding-window budgets. Zero requests
// leaves a class unlimited.
type RateLimitConfig struct {
	Disabled      bool
	AuthRequests  int
	AuthWindow    time.Duration
	WriteRequests int
	WriteWindow   time.Duration
}

// IsDevelopment reports whether the service runs in a local/dev environment.
func (c Config) IsDevelopment() bool {
	return c.Server.Environment == "" || c.Server.Environment == "development"
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() Config {
	return Config{
		Server: Server{
			Addr:           getEnv("BREWLEAF_ADDR", ":8080"),
			Environment:    getEnv("BREWLEAF_ENV", "development"),
			LogLevel:       getEnv("LOG_LEVEL", "info"),
			RequestTimeout: getEnvDuration("REQUEST_TIMEOUT", 30*time.Second),

			ReadHeaderTimeout: getEnvDuration("HTTP_READ_HEADER_TIMEOUT", 5*time.Second),
			ReadTimeout:       getEnvDuration("HTTP_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:      getEnvDuration("HTTP_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:       getEnvDuration("HTTP_IDLE_TIMEOUT", 60*time.Second),
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 20),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     getEnvInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getEnvDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getEnvDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getEnvDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Auth: AuthConfig{
			// Use a default for development - should be overridden in production
			JWTSigningKey: getEnv("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
			TokenTTL:      getEnvDuration("JWT_TTL", 24*time.Hour),
			Issuer:        getEnv("JWT_ISSUER", "brewleaf"),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(os.Getenv("KAFKA_BROKERS")),
			Topic:   getEnv("KAFKA_TOPIC", "brewleaf.events"),
		},
		Pricing: PricingConfig{
			FreeShippingThreshold: getEnv("FREE_SHIPPING_THRESHOLD", "50.00"),
			FlatShippingFee:       getEnv("FLAT_SHIPPING_FEE", "5.99"),
			TaxRate:               getEnvFloat("TAX_RATE", 0.08),
		},
		Cart: CartConfig{
			SessionTTL: getEnvDuration("CART_SESSION_TTL", 7*24*time.Hour),
		},
		RateLimit: RateLimitConfig{
			Disabled:      getEnvBool("RATE_LIMIT_DISABLED", false),
			AuthRequests:  getEnvInt("RATE_LIMIT_AUTH_REQUESTS", 10),
			AuthWindow:    getEnvDuration("RATE_LIMIT_AUTH_WINDOW", time.Minute),
			WriteRequests: getEnvInt("RATE_LIMIT_WRITE_REQUESTS", 60),
			WriteWindow:   getEnvDuration("RATE_LIMIT_WRITE_WINDOW", time.Minute),
		},
		SeedFile: os.Getenv("SEED_FILE"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
