package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	pkgkafka "github.com/kushwaha-yash/loan-risk/pkg/kafka"
	"github.com/kushwaha-yash/loan-risk/pkg/postgres"
)

const ServiceName = "loan-risk-service"

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

type TLSConfig struct {
	CertFile string
	KeyFile  string
}

// Enabled reports whether both halves of the key pair are configured.
func (t TLSConfig) Enabled() bool { return t.CertFile != "" && t.KeyFile != "" }

// Config holds all configuration for the loan risk service.
type Config struct {
	GRPCPort           int
	HTTPPort           int
	DB                 DatabaseConfig
	Kafka              KafkaConfig
	TLS                TLSConfig
	ModelBundlePath    string
	QuestionsPath      string
	MigrationsDir      string
	LogLevel           string
	LogFormat          string
	Environment        string
	SubmitRPS          int
	SubmitBurst        int
	MemoryAssessments  int
	PersistenceEnabled bool
	EventsEnabled      bool
	GRPCReflection     bool
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first; variables already set take precedence.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		GRPCPort: getEnvInt("GRPC_PORT", 9090),
		HTTPPort: getEnvInt("HTTP_PORT", 8080),
		DB: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "risk"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "loan_risk"),
			SSLMode:  getEnv("DB_SSLMODE", "require"),
			MaxConns: getEnvInt("DB_MAX_CONNS", 10),
		},
		Kafka: KafkaConfig{
			Brokers: pkgkafka.ParseBrokers(getEnv("KAFKA_BROKERS", "localhost:9092")),
			Topic:   getEnv("KAFKA_TOPIC", "loanrisk.assessments"),
		},
		TLS: TLSConfig{
			CertFile: getEnv("GRPC_TLS_CERT_FILE", ""),
			KeyFile:  getEnv("GRPC_TLS_KEY_FILE", ""),
		},
		ModelBundlePath:    getEnv("MODEL_BUNDLE_PATH", "configs/model_bundle.json"),
		QuestionsPath:      getEnv("QUESTIONS_PATH", "configs/questions.json"),
		MigrationsDir:      getEnv("MIGRATIONS_DIR", "migrations"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", "json"),
		Environment:        getEnv("ENVIRONMENT", "development"),
		SubmitRPS:          getEnvInt("HTTP_SUBMIT_RPS", 0),
		SubmitBurst:        getEnvInt("HTTP_SUBMIT_BURST", 0),
		MemoryAssessments:  getEnvInt("MEMORY_ASSESSMENT_LIMIT", 10000),
		PersistenceEnabled: getEnvBool("PERSISTENCE_ENABLED", true),
		EventsEnabled:      getEnvBool("EVENTS_ENABLED", true),
		GRPCReflection:     getEnvBool("GRPC_REFLECTION", false),
	}
}

// Validate reports every configuration problem at once.
func (c Config) Validate() error {
	var errs []error
	if c.ModelBundlePath == "" {
		errs = append(errs, errors.New("MODEL_BUNDLE_PATH is required"))
	}
	if c.QuestionsPath == "" {
		errs = append(errs, errors.New("QUESTIONS_PATH is required"))
	}
	for name, port := range map[string]int{"GRPC_PORT": c.GRPCPort, "HTTP_PORT": c.HTTPPort} {
		if port <= 0 || port > 65535 {
			errs = append(errs, fmt.Errorf("%s %d is out of range", name, port))
		}
	}
	if c.GRPCPort == c.HTTPPort {
		errs = append(errs, fmt.Errorf("GRPC_PORT and HTTP_PORT must differ, both are %d", c.GRPCPort))
	}
	if c.SubmitRPS < 0 || c.SubmitBurst < 0 {
		errs = append(errs, errors.New("HTTP_SUBMIT_RPS and HTTP_SUBMIT_BURST must not be negative"))
	}
	if c.PersistenceEnabled && c.DB.Password == "" {
		errs = append(errs, errors.New("DB_PASSWORD is required when persistence is enabled"))
	}
	if c.EventsEnabled && len(c.Kafka.Brokers) == 0 {
		errs = append(errs, errors.New("KAFKA_BROKERS is required when events are enabled"))
	}
	if (c.TLS.CertFile == "") != (c.TLS.KeyFile == "") {
		errs = append(errs, errors.New("GRPC_TLS_CERT_FILE and GRPC_TLS_KEY_FILE must be set together"))
	}
	return errors.Join(errs...)
}

// Postgres converts the database settings for pkg/postgres.
func (c Config) Postgres() postgres.Config {
	return postgres.Config{
		Host:     c.DB.Host,
		Port:     c.DB.Port,
		User:     c.DB.User,
		Password: c.DB.Password,
		Database: c.DB.Name,
		SSLMode:  c.DB.SSLMode,
		MaxConns: int32(c.DB.MaxConns),
	}
}

// MigrationsSource returns the golang-migrate source URL for MigrationsDir.
func (c Config) MigrationsSource() string {
	return "file://" + c.MigrationsDir
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
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return b
		}
	}
	return fallback
}
