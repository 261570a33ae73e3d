package logger

import (
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("debug"))
	assert.Equal(t, LevelWarn, ParseLevel(" WARN "))
	assert.Equal(t, LevelError, ParseLevel("ERROR"))
	assert.Equal(t, LevelInfo, ParseLevel("chatty"))
	assert.Equal(t, LevelInfo, ParseLevel(""))
}

func TestSetupLoggerWritesFileAndFiltersLevels(t *testing.T) {
	dir := t.TempDir()

	err := SetupLogger(Config{
		LogsDirectory: dir,
		LogFileFormat: "test_%s.log",
		Level:         "WARN",
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		Close()
		SetLevel("INFO")
	})

	assert.True(t, IsInitialized())
	assert.Error(t, SetupLogger(Config{LogsDirectory: dir}), "second setup must fail")

	LogInfo("quiet %d", 1)
	LogWarn("loud %d", 2)

	raw, err := os.ReadFile(GetLogFilePath())
	require.NoError(t, err)
	out := string(raw)

	assert.NotContains(t, out, "quiet 1")
	assert.Contains(t, out, "[WARN]")
	assert.Contains(t, out, "loud 2")
	assert.True(t, strings.Contains(out, "logger_test.go:"), "caller file should be recorded")
}

func TestGetClientIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.0.0.7:5123"
	assert.Equal(t, "10.0.0.7", GetClientIP(r))

	r.Header.Set("X-Real-IP", "192.168.1.2")
	assert.Equal(t, "192.168.1.2", GetClientIP(r))

	r.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	assert.Equal(t, "203.0.113.9", GetClientIP(r))
}
