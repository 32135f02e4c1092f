package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &m))
	return m
}

func TestLoggerWritesServiceAndContextFields(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{ServiceName: "expiry-tracker", Level: zerolog.DebugLevel, Output: &buf})

	ctx := l.WithRequestID(context.Background(), "req-1")
	ctx = l.WithUserID(ctx, "42")
	l.Info(ctx, "hello")

	line := decodeLine(t, &buf)
	assert.Equal(t, "expiry-tracker", line["service"])
	assert.Equal(t, "req-1", line["request_id"])
	assert.Equal(t, "42", line["user_id"])
	assert.Equal(t, "info", line["level"])
	assert.Equal(t, "hello", line["message"])
	assert.Contains(t, line, "time")
}

func TestLoggerErrorIncludesErr(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{ServiceName: "svc", Output: &buf})

	l.Error(context.Background(), "store write failed", errors.New("disk full"))

	line := decodeLine(t, &buf)
	assert.Equal(t, "error", line["level"])
	assert.Equal(t, "disk full", line["error"])
}

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{ServiceName: "svc", Level: zerolog.WarnLevel, Output: &buf})

	l.Info(context.Background(), "dropped")
	assert.Zero(t, buf.Len())

	l.Warn(context.Background(), "kept")
	assert.NotZero(t, buf.Len())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.InfoLevel, ParseLevel(""))
	assert.Equal(t, zerolog.DebugLevel, ParseLevel(" DEBUG "))
	assert.Equal(t, zerolog.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("loud"))
}
