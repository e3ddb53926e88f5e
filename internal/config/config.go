package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// ErrConfiguration is wrapped by every missing or invalid setting.
var ErrConfiguration = errors.New("configuration error")

// Config holds connection settings for vCenter and the mail relay.
// Source: environment, optionally seeded from a .env file.
type Config struct {
	VCenterHost     string
	VCenterUsername string
	VCenterPassword string
	VCenterInsecure bool

	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string

	From string
	To   []string
}

// Load loads configuration from environment variables only.
func Load() (*Config, error) {
	return LoadWithFile("")
}

// LoadWithFile loads configuration from an optional .env file and environment variables.
func LoadWithFile(envFile string) (*Config, error) {
	// Attempt to load .env file if provided, but don't fail if it doesn't exist.
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	smtpPassword, err := secretFromEnv("SMTP_PASSWORD")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		VCenterHost:     os.Getenv("VCENTER_HOST"),
		VCenterUsername: os.Getenv("VCENTER_USER"),
		VCenterPassword: os.Getenv("VCENTER_PASSWORD"),
		VCenterInsecure: parseBool(os.Getenv("VCENTER_INSECURE")),
		SMTPHost:        os.Getenv("SMTP_HOST"),
		SMTPPort:        getEnvOrDefault("SMTP_PORT", "25"),
		SMTPUsername:    os.Getenv("SMTP_USERNAME"),
		SMTPPassword:    smtpPassword,
		From:            os.Getenv("REPORT_FROM"),
		To:              splitList(os.Getenv("REPORT_TO")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if all required fields are set.
func (c *Config) Validate() error {
	required := []struct {
		key   string
		value string
	}{
		{"VCENTER_HOST", c.VCenterHost},
		{"VCENTER_USER", c.VCenterUsername},
		{"VCENTER_PASSWORD", c.VCenterPassword},
		{"SMTP_HOST", c.SMTPHost},
		{"REPORT_FROM", c.From},
	}
	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("%w: %s is required", ErrConfiguration, r.key)
		}
	}
	if len(c.To) == 0 {
		return fmt.Errorf("%w: REPORT_TO is required", ErrConfiguration)
	}
	if port, err := strconv.Atoi(c.SMTPPort); err != nil || port <= 0 || port > 65535 {
		return fmt.Errorf("%w: SMTP_PORT %q is not a valid port", ErrConfiguration, c.SMTPPort)
	}
	if c.SMTPUsername != "" && c.SMTPPassword == "" {
		return fmt.Errorf("%w: SMTP_PASSWORD is required when SMTP_USERNAME is set", ErrConfiguration)
	}
	return nil
}

// secretFromEnv reads KEY, or the file named by KEY_FILE (Docker secrets)
// when that is set.
func secretFromEnv(key string) (string, error) {
	file := os.Getenv(key + "_FILE")
	if file == "" {
		return os.Getenv(key), nil
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return "", fmt.Errorf("%w: reading %s_FILE: %v", ErrConfiguration, key, err)
	}
	return strings.TrimSpace(string(data)), nil
}

// parseBool converts a string to a boolean, defaulting to false.
func parseBool(s string) bool {
	b, _ := strconv.ParseBool(s)
	return b
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
