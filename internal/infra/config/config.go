package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/getsops/sops/v3/decrypt"
	"github.com/joho/godotenv"
)

const devSecretKey = "dev-insecure-secret-key-change-me"

// Config aggregates application configuration values loaded from environment variables.
type Config struct {
	Env         string
	HTTPAddr    string
	ProjectName string
	APIPrefix   string
	LogLevel    string

	SecretKey          string
	SecretKeyDefaulted bool
	AccessTokenTTL     time.Duration
	CORSAllowedOrigins []string

	DatabaseURL string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	MongoURI       string
	MongoDB        string
	IdempotencyTTL time.Duration

	KafkaBrokers       []string
	KafkaTopicPrefix   string
	KafkaClientID      string
	KafkaConsumerGroup string
	OutboxPollInterval time.Duration
	OutboxBatchSize    int
	RetryBackoff       []time.Duration

	AMQPURL      string
	AMQPExchange string

	S3Endpoint       string
	S3PublicEndpoint string
	S3AccessKey      string
	S3SecretKey      string
	S3Bucket         string
	S3UseSSL         bool
	MaxPhotoBytes    int64

	Currency             string
	BookingPaymentWindow time.Duration
	BookingSweepInterval time.Duration
	RoomFixturesPath     string
}

// Secrets is the shape of the optional sops-encrypted SECRETS_FILE.
type Secrets struct {
	SecretKey      string `json:"secret_key"`
	DatabaseURL    string `json:"database_url"`
	RedisPassword  string `json:"redis_password"`
	MinioSecretKey string `json:"minio_secret_key"`
	AMQPURL        string `json:"amqp_url"`
}

// Load reads .env when present, then the process environment, then the
// optional SECRETS_FILE.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds the configuration from the current environment only.
func FromEnv() (Config, error) {
	cfg := Config{
		Env:                getEnv("APP_ENV", "dev"),
		HTTPAddr:           getEnv("HTTP_ADDR", ":8080"),
		ProjectName:        getEnv("PROJECT_NAME", "Resort Booking"),
		APIPrefix:          getEnv("API_PREFIX", "/api/v1"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		SecretKey:          os.Getenv("SECRET_KEY"),
		CORSAllowedOrigins: splitAndTrim(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		RedisAddr:          os.Getenv("REDIS_ADDR"),
		RedisPassword:      os.Getenv("REDIS_PASSWORD"),
		MongoURI:           os.Getenv("MONGO_URI"),
		MongoDB:            getEnv("MONGO_DB", "resort"),
		KafkaBrokers:       splitAndTrim(os.Getenv("KAFKA_BROKERS")),
		KafkaTopicPrefix:   getEnv("KAFKA_TOPIC_PREFIX", ""),
		KafkaClientID:      getEnv("KAFKA_CLIENT_ID", "resort-api"),
		KafkaConsumerGroup: getEnv("KAFKA_CONSUMER_GROUP", "resort-notifications"),
		AMQPURL:            os.Getenv("AMQP_URL"),
		AMQPExchange:       getEnv("AMQP_EXCHANGE", "resort.notifications"),
		S3Endpoint:         os.Getenv("MINIO_ENDPOINT"),
		S3PublicEndpoint:   os.Getenv("MINIO_PUBLIC_ENDPOINT"),
		S3AccessKey:        getEnv("MINIO_ACCESS_KEY", "minioadmin"),
		S3SecretKey:        getEnv("MINIO_SECRET_KEY", "minioadmin"),
		S3Bucket:           getEnv("MINIO_BUCKET", "resort-photos"),
		Currency:           strings.ToUpper(getEnv("RESORT_CURRENCY", "INR")),
		RoomFixturesPath:   os.Getenv("ROOM_FIXTURES"),
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = postgresURLFromParts()
	}

	var err error
	tokenMinutes, err := parseIntEnv("ACCESS_TOKEN_EXPIRE_MINUTES", 60*24)
	if err != nil {
		return Config{}, err
	}
	if tokenMinutes <= 0 {
		return Config{}, fmt.Errorf("ACCESS_TOKEN_EXPIRE_MINUTES must be positive")
	}
	cfg.AccessTokenTTL = time.Duration(tokenMinutes) * time.Minute

	if cfg.RedisDB, err = parseIntEnv("REDIS_DB", 0); err != nil {
		return Config{}, err
	}
	if cfg.IdempotencyTTL, err = parseDurationEnv("IDEMPOTENCY_TTL", 24*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.OutboxPollInterval, err = parseDurationEnv("OUTBOX_POLL_INTERVAL", 500*time.Millisecond); err != nil {
		return Config{}, err
	}
	if cfg.OutboxBatchSize, err = parseIntEnv("OUTBOX_BATCH_SIZE", 50); err != nil {
		return Config{}, err
	}
	if cfg.BookingPaymentWindow, err = parseDurationEnv("BOOKING_PAYMENT_WINDOW", time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.BookingSweepInterval, err = parseDurationEnv("BOOKING_SWEEP_INTERVAL", 0); err != nil {
		return Config{}, err
	}
	for _, raw := range splitAndTrim(getEnv("RETRY_BACKOFF", "1s,5s,30s")) {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("invalid RETRY_BACKOFF component %q: %w", raw, err)
		}
		cfg.RetryBackoff = append(cfg.RetryBackoff, d)
	}
	if cfg.S3UseSSL, err = parseBoolEnv("MINIO_USE_SSL", false); err != nil {
		return Config{}, err
	}
	maxPhotoMB, err := parseIntEnv("MAX_PHOTO_MB", 10)
	if err != nil {
		return Config{}, err
	}
	cfg.MaxPhotoBytes = int64(maxPhotoMB) << 20
	if cfg.S3PublicEndpoint == "" {
		cfg.S3PublicEndpoint = cfg.S3Endpoint
	}

	if path := os.Getenv("SECRETS_FILE"); path != "" {
		secrets, err := LoadSecrets(path)
		if err != nil {
			return Config{}, err
		}
		cfg.applySecrets(secrets)
	}

	if cfg.SecretKey == "" {
		if !cfg.IsDev() {
			return Config{}, fmt.Errorf("SECRET_KEY is required when APP_ENV=%s", cfg.Env)
		}
		cfg.SecretKey = devSecretKey
		cfg.SecretKeyDefaulted = true
	}
	if len(cfg.Currency) != 3 {
		return Config{}, fmt.Errorf("invalid RESORT_CURRENCY %q", cfg.Currency)
	}
	return cfg, nil
}

// LoadSecrets decrypts a sops JSON file. Plain JSON files are accepted too,
// which keeps local setups simple.
func LoadSecrets(path string) (Secrets, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Secrets{}, fmt.Errorf("read secrets file: %w", err)
	}
	if isSopsDocument(data) {
		if data, err = decrypt.Data(data, "json"); err != nil {
			return Secrets{}, fmt.Errorf("decrypt secrets file: %w", err)
		}
	}
	var out Secrets
	if err := json.Unmarshal(data, &out); err != nil {
		return Secrets{}, fmt.Errorf("parse secrets file: %w", err)
	}
	return out, nil
}

func isSopsDocument(data []byte) bool {
	var envelope struct {
		Sops json.RawMessage `json:"sops"`
	}
	return json.Unmarshal(data, &envelope) == nil && len(envelope.Sops) > 0
}

func (c *Config) applySecrets(s Secrets) {
	if s.SecretKey != "" {
		c.SecretKey = s.SecretKey
	}
	if s.DatabaseURL != "" {
		c.DatabaseURL = s.DatabaseURL
	}
	if s.RedisPassword != "" {
		c.RedisPassword = s.RedisPassword
	}
	if s.MinioSecretKey != "" {
		c.S3SecretKey = s.MinioSecretKey
	}
	if s.AMQPURL != "" {
		c.AMQPURL = s.AMQPURL
	}
}

func (c Config) IsDev() bool {
	return c.Env == "dev" || c.Env == "local" || c.Env == "test"
}

func postgresURLFromParts() string {
	host := os.Getenv("POSTGRES_SERVER")
	if host == "" {
		return ""
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(getEnv("POSTGRES_USER", "postgres"), os.Getenv("POSTGRES_PASSWORD")),
		Host:     host + ":" + getEnv("POSTGRES_PORT", "5432"),
		Path:     "/" + getEnv("POSTGRES_DB", "resort"),
		RawQuery: "sslmode=" + getEnv("POSTGRES_SSLMODE", "disable"),
	}
	return u.String()
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func splitAndTrim(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if v := strings.TrimSpace(part); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func parseIntEnv(key string, def int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s integer: %w", key, err)
	}
	return v, nil
}

func parseDurationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s duration: %w", key, err)
	}
	return d, nil
}

func parseBoolEnv(key string, def bool) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "t", "true", "yes", "y", "on":
		return true, nil
	case "0", "f", "false", "no", "n", "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid %s boolean: %q", key, raw)
	}
}
