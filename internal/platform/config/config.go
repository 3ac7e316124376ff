package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName  string
	HTTPPort     string
	BaseURL      string
	PostgresDSN  string
	KafkaBrokers []string

	PostgresMaxOpenConns int
	PostgresMaxIdleConns int

	// UploadToken guards the catalog write endpoints. Empty disables the
	// check, which is only sensible in local development.
	UploadToken string

	OutboxRelayInterval time.Duration
	OutboxRelayBatch    int
}

func Load() (Config, error) {
	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "patchbay"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	baseURL := strings.TrimSpace(os.Getenv("BASE_URL"))
	if baseURL == "" {
		baseURL = "http://localhost:" + port
	}

	var brokers []string
	for _, value := range strings.Split(os.Getenv("KAFKA_BROKERS"), ",") {
		value = strings.TrimSpace(value)
		if value != "" {
			brokers = append(brokers, value)
		}
	}
	if len(brokers) == 0 {
		brokers = []string{"localhost:9092"}
	}

	return Config{
		ServiceName:  service,
		HTTPPort:     port,
		BaseURL:      baseURL,
		PostgresDSN:  os.Getenv("POSTGRES_DSN"),
		KafkaBrokers: brokers,

		PostgresMaxOpenConns: envInt("POSTGRES_MAX_OPEN_CONNS", 25),
		PostgresMaxIdleConns: envInt("POSTGRES_MAX_IDLE_CONNS", 5),

		UploadToken: strings.TrimSpace(os.Getenv("UPLOAD_API_TOKEN")),

		OutboxRelayInterval: envDuration("OUTBOX_RELAY_INTERVAL", 5*time.Second),
		OutboxRelayBatch:    envInt("OUTBOX_RELAY_BATCH", 100),
	}, nil
}

func envInt(name string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

func envDuration(name string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}
