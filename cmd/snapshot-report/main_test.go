package main

import (
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/EpicMandM/snapshot-report/internal/config"
	"github.com/EpicMandM/snapshot-report/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetEnvOrDefault_UsesEnvVar(t *testing.T) {
	t.Setenv("TEST_KEY_XYZ", "from_env")
	assert.Equal(t, "from_env", getEnvOrDefault("TEST_KEY_XYZ", "fallback"))
}

func TestGetEnvOrDefault_UsesDefault(t *testing.T) {
	_ = os.Unsetenv("TEST_KEY_XYZ")
	assert.Equal(t, "fallback", getEnvOrDefault("TEST_KEY_XYZ", "fallback"))
}

func TestGetEnvOrDefault_EmptyEnvUsesDefault(t *testing.T) {
	t.Setenv("TEST_KEY_XYZ", "")
	assert.Equal(t, "fallback", getEnvOrDefault("TEST_KEY_XYZ", "fallback"))
}

func TestParseBool(t *testing.T) {
	assert.True(t, parseBool("true"))
	assert.True(t, parseBool("1"))
	assert.False(t, parseBool(""))
	assert.False(t, parseBool("nope"))
}

func TestRun_MissingConfigFailsFast(t *testing.T) {
	for _, k := range []string{"VCENTER_HOST", "VCENTER_USER", "VCENTER_PASSWORD", "SMTP_HOST", "REPORT_FROM", "REPORT_TO"} {
		t.Setenv(k, "")
	}
	t.Setenv("ENV_FILE", "/nonexistent/.env")

	var buf bytes.Buffer
	err := run(context.Background(), logger.NewWithWriter(&buf))
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrConfiguration)
	assert.Contains(t, buf.String(), "MESSAGE=Failed to load infrastructure config")
}
