package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"VCENTER_HOST", "VCENTER_USER", "VCENTER_PASSWORD", "VCENTER_INSECURE",
	"SMTP_HOST", "SMTP_PORT", "SMTP_USERNAME", "SMTP_PASSWORD", "SMTP_PASSWORD_FILE",
	"REPORT_FROM", "REPORT_TO",
}

// Base valid environment
var validEnv = map[string]string{
	"VCENTER_HOST":     "vcenter.example.com",
	"VCENTER_USER":     "administrator@vsphere.local",
	"VCENTER_PASSWORD": "password",
	"SMTP_HOST":        "mail-relay.example.com",
	"REPORT_FROM":      "ops@example.com",
	"REPORT_TO":        "admin@example.com",
}

func setEnv(t *testing.T, env map[string]string) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
	for k, v := range env {
		t.Setenv(k, v)
	}
}

func TestLoad(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		setEnv(t, validEnv)
		t.Setenv("VCENTER_INSECURE", "true")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "vcenter.example.com", cfg.VCenterHost)
		assert.True(t, cfg.VCenterInsecure)
		assert.Equal(t, "25", cfg.SMTPPort)
		assert.Equal(t, []string{"admin@example.com"}, cfg.To)
		assert.Empty(t, cfg.SMTPUsername)
	})

	t.Run("insecure defaults to false when empty", func(t *testing.T) {
		setEnv(t, validEnv)
		cfg, err := Load()
		require.NoError(t, err)
		assert.False(t, cfg.VCenterInsecure, "VCENTER_INSECURE should default to false")
	})

	t.Run("multiple recipients", func(t *testing.T) {
		setEnv(t, validEnv)
		t.Setenv("REPORT_TO", " a@example.com, ,b@example.com ")
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, []string{"a@example.com", "b@example.com"}, cfg.To)
	})

	// Table-driven test for missing variables
	missingVarTests := []struct {
		name    string
		unset   string // The env var to leave unset
		wantErr string
	}{
		{"missing VCENTER_HOST", "VCENTER_HOST", "VCENTER_HOST is required"},
		{"missing VCENTER_USER", "VCENTER_USER", "VCENTER_USER is required"},
		{"missing VCENTER_PASSWORD", "VCENTER_PASSWORD", "VCENTER_PASSWORD is required"},
		{"missing SMTP_HOST", "SMTP_HOST", "SMTP_HOST is required"},
		{"missing REPORT_FROM", "REPORT_FROM", "REPORT_FROM is required"},
		{"missing REPORT_TO", "REPORT_TO", "REPORT_TO is required"},
	}

	for _, tt := range missingVarTests {
		t.Run(tt.name, func(t *testing.T) {
			setEnv(t, validEnv)
			t.Setenv(tt.unset, "")

			_, err := Load()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrConfiguration)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_SMTPPasswordFile(t *testing.T) {
	setEnv(t, validEnv)
	secret := filepath.Join(t.TempDir(), "smtp_password")
	require.NoError(t, os.WriteFile(secret, []byte("from-file\n"), 0o600))
	t.Setenv("SMTP_USERNAME", "relay-user")
	t.Setenv("SMTP_PASSWORD", "from-env")
	t.Setenv("SMTP_PASSWORD_FILE", secret)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.SMTPPassword)
}

func TestLoad_SMTPPasswordFileMissing(t *testing.T) {
	setEnv(t, validEnv)
	t.Setenv("SMTP_PASSWORD_FILE", "/nonexistent/secret")

	_, err := Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfiguration)
	assert.Contains(t, err.Error(), "SMTP_PASSWORD_FILE")
}

func TestParseBool(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"true string", "true", true},
		{"false string", "false", false},
		{"empty string", "", false},
		{"invalid string", "abc", false},
		{"number 1", "1", true},
		{"number 0", "0", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseBool(tt.input))
		})
	}
}

func TestLoadWithFile_RealEnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := dir + "/.env"
	content := "VCENTER_HOST=envfile.example.com\nVCENTER_USER=envuser\nVCENTER_PASSWORD=envpass\nVCENTER_INSECURE=true\n" +
		"SMTP_HOST=relay.example.com\nSMTP_PORT=2525\nREPORT_FROM=from@example.com\nREPORT_TO=to@example.com\n"
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0o644))

	// godotenv.Load does NOT overwrite existing env vars, so we must unset them.
	for _, key := range envKeys {
		t.Setenv(key, "")
		_ = os.Unsetenv(key)
	}

	cfg, err := LoadWithFile(envFile)
	require.NoError(t, err)
	assert.Equal(t, "envfile.example.com", cfg.VCenterHost)
	assert.Equal(t, "envuser", cfg.VCenterUsername)
	assert.True(t, cfg.VCenterInsecure)
	assert.Equal(t, "2525", cfg.SMTPPort)
}

func TestLoadWithFile_NonExistentFile(t *testing.T) {
	setEnv(t, validEnv)

	cfg, err := LoadWithFile("/nonexistent/.env")
	require.NoError(t, err)
	assert.Equal(t, "vcenter.example.com", cfg.VCenterHost)
}

func TestLoadWithFile_GodotenvError(t *testing.T) {
	// A directory path causes godotenv to return a non-IsNotExist error
	dir := t.TempDir()
	_, err := LoadWithFile(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error loading .env file")
}

func validConfig() *Config {
	return &Config{
		VCenterHost:     "vcenter.example.com",
		VCenterUsername: "admin",
		VCenterPassword: "pass",
		SMTPHost:        "relay.example.com",
		SMTPPort:        "25",
		From:            "from@example.com",
		To:              []string{"to@example.com"},
	}
}

func TestValidate_AllFieldsSet(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_BadPort(t *testing.T) {
	for _, port := range []string{"", "abc", "0", "70000"} {
		cfg := validConfig()
		cfg.SMTPPort = port
		err := cfg.Validate()
		require.Error(t, err, port)
		assert.Contains(t, err.Error(), "SMTP_PORT")
	}
}

func TestValidate_UsernameWithoutPassword(t *testing.T) {
	cfg := validConfig()
	cfg.SMTPUsername = "relay-user"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SMTP_PASSWORD is required")
}
