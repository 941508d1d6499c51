package config

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultWeeks             = 4
	DefaultPageSize          = 1000
	DefaultRequestsPerMinute = 100

	// MaxWeeks is the largest threshold that still fits in a time.Duration
	MaxWeeks = int(math.MaxInt64 / int64(7*24*time.Hour))
)

// Config holds all configuration for a cleanup run
type Config struct {
	SlackAPIToken     string
	Weeks             int
	DryRun            bool
	PageSize          int
	RequestsPerMinute int
	LogLevel          string
	LogDir            string // empty means stderr
	AuditDBPath       string // empty disables the audit journal
}

// Load returns a Config populated from the environment. Command line values
// are applied on top by the caller before Validate.
func Load() *Config {
	return &Config{
		SlackAPIToken:     getEnvOrDefault("SLACK_API_TOKEN", ""),
		Weeks:             getEnvAsIntOrDefault("CLEANER_WEEKS", DefaultWeeks),
		DryRun:            getEnvAsBoolOrDefault("CLEANER_DRY_RUN", false),
		PageSize:          DefaultPageSize,
		RequestsPerMinute: getEnvAsIntOrDefault("RATE_LIMIT_PER_MINUTE", DefaultRequestsPerMinute),
		LogLevel:          getEnvOrDefault("LOG_LEVEL", "WARN"),
		LogDir:            getEnvOrDefault("LOG_DIR", ""),
		AuditDBPath:       getEnvOrDefault("AUDIT_DB_PATH", ""),
	}
}

// Validate reports every invalid setting at once
func (c *Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.SlackAPIToken) == "" {
		problems = append(problems, "missing Slack API token (argument or SLACK_API_TOKEN)")
	}
	if c.Weeks <= 0 || c.Weeks > MaxWeeks {
		problems = append(problems, fmt.Sprintf("weeks must be between 1 and %d, got %d", MaxWeeks, c.Weeks))
	}
	if c.PageSize <= 0 {
		problems = append(problems, fmt.Sprintf("page size must be positive, got %d", c.PageSize))
	}
	if c.RequestsPerMinute <= 0 {
		problems = append(problems, fmt.Sprintf("rate limit must be positive, got %d", c.RequestsPerMinute))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// ParseWeeks parses the optional positional weeks argument
func ParseWeeks(s string) (int, error) {
	weeks, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("weeks must be an integer: %w", err)
	}
	if weeks <= 0 || weeks > MaxWeeks {
		return 0, fmt.Errorf("weeks must be between 1 and %d, got %d", MaxWeeks, weeks)
	}
	return weeks, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsIntOrDefault(key string, defaultValue int) int {
	value := getEnvOrDefault(key, "")
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvAsBoolOrDefault(key string, defaultValue bool) bool {
	value := getEnvOrDefault(key, "")
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}
