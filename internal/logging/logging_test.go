package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferLogger(level Level) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	l := New(Config{Level: level, Output: &buf, Prefix: "test"})
	l.sink.now = func() time.Time { return time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC) }
	return l, &buf
}

func TestLevelString(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{Level(99), "UNKNOWN"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.level.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  Level
	}{
		{"debug", LevelDebug},
		{"DEBUG", LevelDebug},
		{"info", LevelInfo},
		{"", LevelInfo},
		{"Warning", LevelWarn},
		{" error ", LevelError},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.input)
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, got, tt.input)
	}

	_, err := ParseLevel("verbose")
	assert.ErrorIs(t, err, ErrUnknownLevel)
}

func TestLoggerFormat(t *testing.T) {
	l, buf := newBufferLogger(LevelInfo)

	l.WithComponent("store").WithField("path", "/a.txt").Info("opened %d bytes", 12)

	assert.Equal(t, "2024-05-06T07:08:09.000 [INFO] test: opened 12 bytes {component=store, path=/a.txt}\n", buf.String())
}

func TestLoggerLevelFilter(t *testing.T) {
	l, buf := newBufferLogger(LevelWarn)

	l.Debug("hidden")
	l.Info("hidden")
	l.Warn("shown")
	l.Error("shown too")
	assert.Equal(t, 2, strings.Count(buf.String(), "\n"))
	assert.False(t, l.Enabled(LevelInfo))

	// Derived loggers follow the parent's level.
	child := l.WithComponent("c")
	l.SetLevel(LevelDebug)
	child.Debug("now visible")
	assert.Contains(t, buf.String(), "now visible")
}

func TestWithFieldDoesNotMutateParent(t *testing.T) {
	l, buf := newBufferLogger(LevelInfo)
	_ = l.WithField("k", "v")

	l.Info("plain")
	assert.NotContains(t, buf.String(), "k=v")
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Error("nothing")
	assert.False(t, l.Enabled(LevelError))
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inkwell.log")
	l, closer, err := OpenFile(path, LevelDebug)
	require.NoError(t, err)

	l.Debug("hello")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[DEBUG] inkwell: hello")
}
