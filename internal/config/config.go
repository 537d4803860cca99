// Package config loads service configuration from environment variables.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Configuration is the full service configuration.
type Configuration struct {
	Service       ServiceConfig
	Taxonomy      TaxonomyConfig
	Analysis      AnalysisConfig
	Kafka         KafkaConfig
	Observability ObservabilityConfig
}

// ServiceConfig holds identity and listener settings.
type ServiceConfig struct {
	Principal string
	HTTPPort  string
}

// TaxonomyConfig selects the taxonomy source.
type TaxonomyConfig struct {
	// Path of a YAML taxonomy file. Empty means the embedded default.
	Path string
}

// AnalysisConfig holds pipeline tuning knobs.
type AnalysisConfig struct {
	// SessionIdleTimeout bounds how long a live session may sit without a
	// new chunk before it is abandoned by the reaper.
	SessionIdleTimeout time.Duration
}

// KafkaConfig holds event publishing settings.
type KafkaConfig struct {
	Enabled       bool
	Brokers       []string
	TopicAnalysis string
	TopicAlerts   string
	Principal     string
}

// ObservabilityConfig holds logging and metrics settings.
type ObservabilityConfig struct {
	LogLevel    string
	LogFormat   string
	MetricsPort string
}

// Load reads configuration from the environment, falling back to defaults
// for anything unset or unparseable.
func Load() *Configuration {
	principal := envOrDefault("SERVICE_PRINCIPAL", "svc-call-readiness")

	return &Configuration{
		Service: ServiceConfig{
			Principal: principal,
			HTTPPort:  envOrDefault("HTTP_PORT", "8080"),
		},
		Taxonomy: TaxonomyConfig{
			Path: envOrDefault("TAXONOMY_PATH", ""),
		},
		Analysis: AnalysisConfig{
			SessionIdleTimeout: envOrDefaultDuration("SESSION_IDLE_TIMEOUT", 30*time.Minute),
		},
		Kafka: KafkaConfig{
			Enabled:       envOrDefaultBool("KAFKA_ENABLED", false),
			Brokers:       envOrDefaultSlice("KAFKA_BROKERS", nil),
			TopicAnalysis: envOrDefault("KAFKA_TOPIC_ANALYSIS", "call.readiness.analysis"),
			TopicAlerts:   envOrDefault("KAFKA_TOPIC_ALERTS", "call.readiness.alerts"),
			Principal:     envOrDefault("KAFKA_PRINCIPAL", principal),
		},
		Observability: ObservabilityConfig{
			LogLevel:    envOrDefault("LOG_LEVEL", "info"),
			LogFormat:   envOrDefault("LOG_FORMAT", "json"),
			MetricsPort: envOrDefault("METRICS_PORT", "9090"),
		},
	}
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parsed, err := strconv.ParseBool(strings.ToLower(v))
	if err != nil {
		return def
	}
	return parsed
}

func envOrDefaultDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return parsed
}

func envOrDefaultSlice(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
