package config

import (
	"os"
	"strings"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Kafka    KafkaConfig
	Redis    RedisConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port string
	Host string
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// KafkaConfig holds Kafka configuration. JournalTopic carries outbound
// trade/transaction events; ExecutionsTopic carries inbound broker fills.
type KafkaConfig struct {
	Brokers         []string
	JournalTopic    string
	ExecutionsTopic string
	ConsumerGroup   string
}

// RedisConfig holds Redis configuration for the preferences store
type RedisConfig struct {
	Addr string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "tradejournal"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Kafka: KafkaConfig{
			Brokers:         strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
			JournalTopic:    getEnv("KAFKA_JOURNAL_TOPIC", "journal-events"),
			ExecutionsTopic: getEnv("KAFKA_EXECUTIONS_TOPIC", "broker-executions"),
			ConsumerGroup:   getEnv("KAFKA_CONSUMER_GROUP", "trade-journal"),
		},
		Redis: RedisConfig{
			Addr: getEnv("REDIS_ADDR", "localhost:6379"),
		},
	}
}

// ConnectionString returns the PostgreSQL connection string
func (d *DatabaseConfig) ConnectionString() string {
	return "postgres://" + d.User + ":" + d.Password + "@" + d.Host + ":" + d.Port + "/" + d.DBName + "?sslmode=" + d.SSLMode
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
