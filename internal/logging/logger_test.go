package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var classicLine = regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2},\d{3} - sharepoint - INFO - Result: ok\n$`)

func TestClassicFormat(t *testing.T) {
	var buf bytes.Buffer
	base, err := New(Options{Output: &buf})
	require.NoError(t, err)

	Component(base, "sharepoint").Info("Result: ok")
	assert.Regexp(t, classicLine, buf.String())
}

func TestClassicDefaultName(t *testing.T) {
	var buf bytes.Buffer
	base, err := New(Options{Format: "classic", Output: &buf})
	require.NoError(t, err)

	base.Warn("careful", "port", 8080)
	assert.Contains(t, buf.String(), " - root - WARNING - careful port=8080")
}

func TestClassicGroupsQualifyKeys(t *testing.T) {
	var buf bytes.Buffer
	base, err := New(Options{Output: &buf})
	require.NoError(t, err)

	base.WithGroup("req").With("id", "abc").Info("hello")
	assert.Contains(t, buf.String(), "hello req.id=abc")
}

func TestClassicLevelNames(t *testing.T) {
	var buf bytes.Buffer
	base, err := New(Options{Level: "debug", Output: &buf})
	require.NoError(t, err)

	base.Debug("d")
	base.Info("i")
	base.Warn("w")
	base.Error("e")
	base.Log(context.Background(), slog.LevelWarn+2, "between")

	out := buf.String()
	assert.Contains(t, out, " - DEBUG - d\n")
	assert.Contains(t, out, " - INFO - i\n")
	assert.Contains(t, out, " - WARNING - w\n")
	assert.Contains(t, out, " - ERROR - e\n")
	assert.Contains(t, out, " - WARN+2 - between\n")
	assert.NotContains(t, out, " - WARN - ")
}

func TestLevelThreshold(t *testing.T) {
	var buf bytes.Buffer
	base, err := New(Options{Level: "warn", Output: &buf})
	require.NoError(t, err)

	base.Info("hidden")
	assert.Empty(t, buf.String())
	base.Error("shown")
	assert.Contains(t, buf.String(), "ERROR - shown")
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	base, err := New(Options{Format: "json", Output: &buf})
	require.NoError(t, err)

	Component(base, "payroll").Info("Result: x")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "payroll", rec[NameKey])
	assert.Equal(t, "Result: x", rec["msg"])
}

func TestUnknownFormatAndLevel(t *testing.T) {
	_, err := New(Options{Format: "xml"})
	assert.Error(t, err)
	_, err = New(Options{Level: "loud"})
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	l, err := ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, l)

	l, err = ParseLevel("DEBUG")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, l)
}

func TestStdLogger(t *testing.T) {
	var buf bytes.Buffer
	base, err := New(Options{Output: &buf})
	require.NoError(t, err)

	StdLogger(base, "http").Print("GET /health")
	assert.True(t, strings.Contains(buf.String(), " - http - INFO - GET /health"))
}
