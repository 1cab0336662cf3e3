package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerWritesJSONLines(t *testing.T) {
	var term, js bytes.Buffer
	l := New(&term, &js, DEBUG)

	l.Info("booking", "reserved seat")
	l.Warn("NOTIFY", "enqueue failed")

	lines := strings.Split(strings.TrimSpace(js.String()), "\n")
	require.Len(t, lines, 2)

	var entry LogEntry
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "INFO", entry.Level)
	assert.Equal(t, "BOOKING", entry.Category)
	assert.Equal(t, "reserved seat", entry.Message)
	assert.Equal(t, "logger_test.go", entry.File)

	assert.Contains(t, term.String(), "enqueue failed")
}

func TestLoggerRespectsMinLevel(t *testing.T) {
	var term bytes.Buffer
	l := New(&term, nil, WARN)

	l.Debug("APP", "hidden")
	l.Info("APP", "hidden too")
	l.Error("APP", "visible")

	assert.NotContains(t, term.String(), "hidden")
	assert.Contains(t, term.String(), "visible")
}

func TestFatalCallsExit(t *testing.T) {
	l := New(&bytes.Buffer{}, nil, INFO)
	code := -1
	l.exit = func(c int) { code = c }

	l.Fatal("CONFIG", "missing dsn")
	assert.Equal(t, 1, code)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, DEBUG, ParseLevel("debug"))
	assert.Equal(t, WARN, ParseLevel("warning"))
	assert.Equal(t, ERROR, ParseLevel(" ERROR "))
	assert.Equal(t, INFO, ParseLevel("nonsense"))
}
