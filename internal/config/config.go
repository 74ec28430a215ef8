/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/friendsincode/grimnir_timer/internal/models"
)

// StoreBackend selects where the schedule image is kept.
type StoreBackend string

const (
	StoreMemory   StoreBackend = "memory"
	StoreFile     StoreBackend = "file"
	StoreSQLite   StoreBackend = "sqlite"
	StorePostgres StoreBackend = "postgres"
	StoreMySQL    StoreBackend = "mysql"
	StoreRedis    StoreBackend = "redis"
	StoreS3       StoreBackend = "s3"
)

// IsDatabase reports whether the backend goes through gorm.
func (b StoreBackend) IsDatabase() bool {
	return b == StoreSQLite || b == StorePostgres || b == StoreMySQL
}

// ActuatorBackend selects how the activation signal leaves the process.
type ActuatorBackend string

const (
	ActuatorLog  ActuatorBackend = "log"
	ActuatorGPIO ActuatorBackend = "gpio"
)

// Config covers process level configuration read from environment variables.
type Config struct {
	Environment string
	Slots       int

	// Schedule image persistence
	StoreBackend StoreBackend
	StorePath    string // image file for the file backend
	StoreName    string // image name/key for db, redis and s3 backends
	DBDSN        string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	S3AccessKeyID     string
	S3SecretAccessKey string
	S3Region          string
	S3Bucket          string
	S3Endpoint        string // For S3-compatible services (MinIO, etc.)
	S3UsePathStyle    bool

	// Command transport
	SerialPort       string // "-" reads stdin and writes stdout
	SerialBaud       int
	MaxCommandLength int

	// Evaluation loop and output
	TickInterval    time.Duration
	ActuatorBackend ActuatorBackend
	GPIOValuePath   string
	GPIOActiveLow   bool

	// Observability
	MetricsBind       string // empty disables the ops server
	TracingEnabled    bool
	OTLPEndpoint      string
	TracingSampleRate float64
	NATSURL           string // empty disables event forwarding
	NATSSubjectPrefix string

	LegacyEnvWarnings []string
}

// Load reads environment variables, applies defaults, and validates the result.
func Load() (*Config, error) {
	cfg := &Config{
		Environment: getEnvAny([]string{"GRIMNIR_TIMER_ENV", "TIMER_ENV"}, "development"),
		Slots:       getEnvIntAny([]string{"GRIMNIR_TIMER_SLOTS", "TIMER_SLOTS"}, models.MaxRules),

		StoreBackend: StoreBackend(getEnvAny([]string{"GRIMNIR_TIMER_STORE_BACKEND", "TIMER_STORE_BACKEND"}, string(StoreFile))),
		StorePath:    getEnvAny([]string{"GRIMNIR_TIMER_STORE_PATH", "TIMER_STORE_PATH"}, "./timer.eeprom"),
		StoreName:    getEnvAny([]string{"GRIMNIR_TIMER_STORE_NAME", "TIMER_STORE_NAME"}, "default"),
		DBDSN:        getEnvAny([]string{"GRIMNIR_TIMER_DB_DSN", "TIMER_DB_DSN"}, ""),

		RedisAddr:     getEnvAny([]string{"GRIMNIR_TIMER_REDIS_ADDR", "TIMER_REDIS_ADDR"}, "localhost:6379"),
		RedisPassword: getEnvAny([]string{"GRIMNIR_TIMER_REDIS_PASSWORD", "TIMER_REDIS_PASSWORD"}, ""),
		RedisDB:       getEnvIntAny([]string{"GRIMNIR_TIMER_REDIS_DB", "TIMER_REDIS_DB"}, 0),

		S3AccessKeyID:     getEnvAny([]string{"GRIMNIR_TIMER_S3_ACCESS_KEY_ID", "AWS_ACCESS_KEY_ID"}, ""),
		S3SecretAccessKey: getEnvAny([]string{"GRIMNIR_TIMER_S3_SECRET_ACCESS_KEY", "AWS_SECRET_ACCESS_KEY"}, ""),
		S3Region:          getEnvAny([]string{"GRIMNIR_TIMER_S3_REGION", "AWS_REGION"}, "us-east-1"),
		S3Bucket:          getEnvAny([]string{"GRIMNIR_TIMER_S3_BUCKET", "S3_BUCKET"}, ""),
		S3Endpoint:        getEnvAny([]string{"GRIMNIR_TIMER_S3_ENDPOINT", "S3_ENDPOINT"}, ""),
		S3UsePathStyle:    getEnvBoolAny([]string{"GRIMNIR_TIMER_S3_USE_PATH_STYLE", "S3_USE_PATH_STYLE"}, false),

		SerialPort:       getEnvAny([]string{"GRIMNIR_TIMER_SERIAL_PORT", "TIMER_SERIAL_PORT"}, "-"),
		SerialBaud:       getEnvIntAny([]string{"GRIMNIR_TIMER_SERIAL_BAUD", "TIMER_SERIAL_BAUD"}, 9600),
		MaxCommandLength: getEnvIntAny([]string{"GRIMNIR_TIMER_MAX_COMMAND_LENGTH", "TIMER_MAX_COMMAND_LENGTH"}, 64),

		TickInterval:    getEnvDurationAny([]string{"GRIMNIR_TIMER_TICK", "TIMER_TICK"}, time.Second),
		ActuatorBackend: ActuatorBackend(getEnvAny([]string{"GRIMNIR_TIMER_ACTUATOR", "TIMER_ACTUATOR"}, string(ActuatorLog))),
		GPIOValuePath:   getEnvAny([]string{"GRIMNIR_TIMER_GPIO_VALUE_PATH", "TIMER_GPIO_VALUE_PATH"}, ""),
		GPIOActiveLow:   getEnvBoolAny([]string{"GRIMNIR_TIMER_GPIO_ACTIVE_LOW", "TIMER_GPIO_ACTIVE_LOW"}, false),

		MetricsBind:       getEnvAny([]string{"GRIMNIR_TIMER_METRICS_BIND", "TIMER_METRICS_BIND"}, ""),
		TracingEnabled:    getEnvBoolAny([]string{"GRIMNIR_TIMER_TRACING_ENABLED", "TIMER_TRACING_ENABLED"}, false),
		OTLPEndpoint:      getEnvAny([]string{"GRIMNIR_TIMER_OTLP_ENDPOINT", "TIMER_OTLP_ENDPOINT"}, "localhost:4317"),
		TracingSampleRate: getEnvFloatAny([]string{"GRIMNIR_TIMER_TRACING_SAMPLE_RATE", "TIMER_TRACING_SAMPLE_RATE"}, 1.0),
		NATSURL:           getEnvAny([]string{"GRIMNIR_TIMER_NATS_URL", "TIMER_NATS_URL"}, ""),
		NATSSubjectPrefix: getEnvAny([]string{"GRIMNIR_TIMER_NATS_SUBJECT_PREFIX", "TIMER_NATS_SUBJECT_PREFIX"}, "grimnir.timer"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.LegacyEnvWarnings = detectLegacyEnvWarnings()

	return cfg, nil
}

// Validate checks field combinations that Load cannot default away.
func (c *Config) Validate() error {
	if c.Slots < 1 || c.Slots > 64 {
		return fmt.Errorf("GRIMNIR_TIMER_SLOTS must be between 1 and 64, got %d", c.Slots)
	}

	switch c.StoreBackend {
	case StoreMemory:
	case StoreFile:
		if c.StorePath == "" {
			return fmt.Errorf("GRIMNIR_TIMER_STORE_PATH must be provided for the file backend")
		}
	case StoreSQLite, StorePostgres, StoreMySQL:
		if c.DBDSN == "" {
			return fmt.Errorf("GRIMNIR_TIMER_DB_DSN must be provided for the %s backend", c.StoreBackend)
		}
	case StoreRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("GRIMNIR_TIMER_REDIS_ADDR must be provided for the redis backend")
		}
	case StoreS3:
		if c.S3Bucket == "" {
			return fmt.Errorf("GRIMNIR_TIMER_S3_BUCKET must be provided for the s3 backend")
		}
	default:
		return fmt.Errorf("unsupported store backend %q", c.StoreBackend)
	}

	switch c.ActuatorBackend {
	case ActuatorLog:
	case ActuatorGPIO:
		if c.GPIOValuePath == "" {
			return fmt.Errorf("GRIMNIR_TIMER_GPIO_VALUE_PATH must be provided for the gpio actuator")
		}
	default:
		return fmt.Errorf("unsupported actuator %q", c.ActuatorBackend)
	}

	if c.SerialBaud <= 0 {
		return fmt.Errorf("GRIMNIR_TIMER_SERIAL_BAUD must be positive")
	}
	if c.MaxCommandLength < 8 {
		return fmt.Errorf("GRIMNIR_TIMER_MAX_COMMAND_LENGTH must be at least 8")
	}
	if c.TickInterval < 100*time.Millisecond {
		return fmt.Errorf("GRIMNIR_TIMER_TICK must be at least 100ms")
	}

	if strings.EqualFold(c.Environment, "production") && c.StoreBackend == StoreMemory {
		return fmt.Errorf("the memory store backend loses the schedule on restart and is not allowed in production")
	}
	return nil
}

func detectLegacyEnvWarnings() []string {
	legacy := map[string]string{
		"SERIAL_PORT":  "use GRIMNIR_TIMER_SERIAL_PORT (or TIMER_SERIAL_PORT)",
		"SERIAL_BAUD":  "use GRIMNIR_TIMER_SERIAL_BAUD (or TIMER_SERIAL_BAUD)",
		"EEPROM_PATH":  "use GRIMNIR_TIMER_STORE_PATH (or TIMER_STORE_PATH)",
		"TIMER_EEPROM": "use GRIMNIR_TIMER_STORE_PATH (or TIMER_STORE_PATH)",
	}

	warnings := make([]string, 0, len(legacy))
	for key, recommendation := range legacy {
		if os.Getenv(key) != "" {
			warnings = append(warnings, fmt.Sprintf("legacy env key %s is set; %s", key, recommendation))
		}
	}
	return warnings
}

// getEnvAny returns the first non-empty environment variable value from keys, or def if none set.
func getEnvAny(keys []string, def string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return def
}

// getEnvIntAny returns the first set integer environment variable value from keys, or def.
func getEnvIntAny(keys []string, def int) int {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			if parsed, err := strconv.Atoi(v); err == nil {
				return parsed
			}
		}
	}
	return def
}

// getEnvBoolAny returns the first set boolean environment variable value from keys, or def.
func getEnvBoolAny(keys []string, def bool) bool {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			v = strings.ToLower(strings.TrimSpace(v))
			if v == "true" || v == "1" || v == "yes" {
				return true
			}
			if v == "false" || v == "0" || v == "no" {
				return false
			}
		}
	}
	return def
}

// getEnvFloatAny returns the first set float environment variable value from keys, or def.
func getEnvFloatAny(keys []string, def float64) float64 {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			if parsed, err := strconv.ParseFloat(v, 64); err == nil {
				return parsed
			}
		}
	}
	return def
}

// getEnvDurationAny accepts Go durations ("500ms") or plain seconds ("2").
func getEnvDurationAny(keys []string, def time.Duration) time.Duration {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			if parsed, err := time.ParseDuration(v); err == nil {
				return parsed
			}
			if secs, err := strconv.Atoi(v); err == nil {
				return time.Duration(secs) * time.Second
			}
		}
	}
	return def
}
