package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"

	pkgkafka "github.com/LibertytechX/seeds-metrics/pkg/kafka"
)

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int
}

// KafkaConfig covers the outbound event topic and the inbound repayment feed.
// An empty RepaymentsTopic disables the repayment listener.
type KafkaConfig struct {
	Brokers         []string
	Topic           string
	RepaymentsTopic string
	ConsumerGroup   string
	ClientID        string
	TLS             bool
	SASLEnabled     bool
	SASLMechanism   string
	SASLUsername    string
	SASLPassword    string
	HandlerRetries  int
	RetryBackoff    time.Duration
}

// Client converts the settings into the shared Kafka client config.
func (k KafkaConfig) Client() pkgkafka.Config {
	return pkgkafka.Config{
		Brokers:       k.Brokers,
		ClientID:      k.ClientID,
		ConsumerGroup: k.ConsumerGroup,
		SASLMechanism: k.SASLMechanism,
		SASLUsername:  k.SASLUsername,
		SASLPassword:  k.SASLPassword,
		TLS:           k.TLS,
		SASLEnabled:   k.SASLEnabled,

		HandlerRetries: k.HandlerRetries,
		RetryBackoff:   k.RetryBackoff,
	}
}

type RedisConfig struct {
	Addr        string
	Password    string
	DB          int
	SnapshotTTL time.Duration
}

// BatchConfig controls the scheduled portfolio recompute and outbox relay.
type BatchConfig struct {
	Enabled        bool
	Workers        int
	Schedule       string
	RelaySchedule  string
	RelayBatchSize int
	Timezone       string
	MigrationsPath string
}

type LogConfig struct {
	Level  string
	Format string
}

// TLSConfig enables TLS on the gRPC listener when both files are set. A
// client CA additionally requires client certificates.
type TLSConfig struct {
	CertFile     string
	KeyFile      string
	ClientCAFile string
}

type TracingConfig struct {
	OTLPEndpoint string
	Insecure     bool
	SampleRatio  float64
}

type AuthConfig struct {
	JWTSecret        string
	JWTPublicKey     string
	JWTPublicKeyFile string
	Issuer           string
	Leeway           time.Duration
}

type Config struct {
	GRPCPort       int
	HTTPPort       int
	GRPCReflection bool
	GRPCTLS        TLSConfig
	DB             DatabaseConfig
	Kafka          KafkaConfig
	Redis          RedisConfig
	Batch          BatchConfig
	Log            LogConfig
	Auth           AuthConfig
	Tracing        TracingConfig
	ServiceName    string
}

// Validate reports every missing or malformed required value at once.
func (c Config) Validate() error {
	var errs []error
	if c.DB.Password == "" {
		errs = append(errs, errors.New("DB_PASSWORD environment variable is required"))
	}
	if len(c.Kafka.Brokers) == 0 {
		errs = append(errs, errors.New("KAFKA_BROKERS must list at least one broker"))
	}
	if c.Kafka.Topic == "" {
		errs = append(errs, errors.New("KAFKA_TOPIC must not be empty"))
	}
	if c.Kafka.RepaymentsTopic != "" && c.Kafka.ConsumerGroup == "" {
		errs = append(errs, errors.New("KAFKA_CONSUMER_GROUP is required when KAFKA_REPAYMENTS_TOPIC is set"))
	}
	if c.Kafka.SASLEnabled && c.Kafka.SASLUsername == "" {
		errs = append(errs, errors.New("KAFKA_SASL_USERNAME is required when SASL is enabled"))
	}
	if c.Auth.JWTSecret == "" && c.Auth.JWTPublicKey == "" && c.Auth.JWTPublicKeyFile == "" {
		errs = append(errs, errors.New("one of JWT_PUBLIC_KEY_FILE, JWT_PUBLIC_KEY or JWT_SECRET is required"))
	}
	if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
		errs = append(errs, fmt.Errorf("OTEL_TRACES_SAMPLER_ARG must be within [0,1], got %v", c.Tracing.SampleRatio))
	}
	if c.Batch.Workers <= 0 {
		errs = append(errs, fmt.Errorf("BATCH_WORKERS must be positive, got %d", c.Batch.Workers))
	}
	if _, err := time.LoadLocation(c.Batch.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("METRICS_TIMEZONE: %w", err))
	}
	return errors.Join(errs...)
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present; real environment variables win.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		GRPCPort:       getEnvInt("GRPC_PORT", 9095),
		HTTPPort:       getEnvInt("HTTP_PORT", 8095),
		GRPCReflection: getEnvBool("GRPC_REFLECTION", false),
		GRPCTLS: TLSConfig{
			CertFile:     getEnv("GRPC_TLS_CERT_FILE", ""),
			KeyFile:      getEnv("GRPC_TLS_KEY_FILE", ""),
			ClientCAFile: getEnv("GRPC_TLS_CLIENT_CA_FILE", ""),
		},
		DB: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "seeds"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "seeds_metrics"),
			SSLMode:  getEnv("DB_SSLMODE", "require"),
			MaxConns: getEnvInt("DB_MAX_CONNS", 10),
		},
		Kafka: KafkaConfig{
			Brokers:         splitList(getEnv("KAFKA_BROKERS", "localhost:9092")),
			Topic:           getEnv("KAFKA_TOPIC", "loanmetrics.events"),
			RepaymentsTopic: getEnv("KAFKA_REPAYMENTS_TOPIC", ""),
			ConsumerGroup:   getEnv("KAFKA_CONSUMER_GROUP", "seeds-metrics"),
			ClientID:        getEnv("KAFKA_CLIENT_ID", "seeds-metrics"),
			TLS:             getEnvBool("KAFKA_TLS", false),
			SASLEnabled:     getEnvBool("KAFKA_SASL_ENABLED", false),
			SASLMechanism:   getEnv("KAFKA_SASL_MECHANISM", "SCRAM-SHA-512"),
			SASLUsername:    getEnv("KAFKA_SASL_USERNAME", ""),
			SASLPassword:    getEnv("KAFKA_SASL_PASSWORD", ""),
			HandlerRetries:  getEnvInt("KAFKA_HANDLER_RETRIES", 3),
			RetryBackoff:    getEnvDuration("KAFKA_RETRY_BACKOFF", 200*time.Millisecond),
		},
		Redis: RedisConfig{
			Addr:        getEnv("REDIS_ADDR", "localhost:6379"),
			Password:    getEnv("REDIS_PASSWORD", ""),
			DB:          getEnvInt("REDIS_DB", 0),
			SnapshotTTL: getEnvDuration("REDIS_SNAPSHOT_TTL", 15*time.Minute),
		},
		Batch: BatchConfig{
			Enabled:        getEnvBool("BATCH_ENABLED", true),
			Workers:        getEnvInt("BATCH_WORKERS", 8),
			Schedule:       getEnv("BATCH_SCHEDULE", "0 2 * * *"),
			RelaySchedule:  getEnv("OUTBOX_RELAY_SCHEDULE", "@every 10s"),
			RelayBatchSize: getEnvInt("OUTBOX_RELAY_BATCH_SIZE", 100),
			Timezone:       getEnv("METRICS_TIMEZONE", "Africa/Lagos"),
			MigrationsPath: getEnv("MIGRATIONS_PATH", "file://internal/infrastructure/persistence/postgres/migrations"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Auth: AuthConfig{
			JWTSecret:        getEnv("JWT_SECRET", ""),
			JWTPublicKey:     getEnv("JWT_PUBLIC_KEY", ""),
			JWTPublicKeyFile: getEnv("JWT_PUBLIC_KEY_FILE", ""),
			Issuer:           getEnv("JWT_ISSUER", "seeds"),
			Leeway:           getEnvDuration("JWT_LEEWAY", 30*time.Second),
		},
		Tracing: TracingConfig{
			OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			Insecure:     getEnvBool("OTEL_EXPORTER_OTLP_INSECURE", false),
			SampleRatio:  getEnvFloat("OTEL_TRACES_SAMPLER_ARG", 1),
		},
		ServiceName: getEnv("SERVICE_NAME", "seeds-metrics"),
	}
}

func (c Config) GRPCAddr() string {
	return fmt.Sprintf(":%d", c.GRPCPort)
}

func (c Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
