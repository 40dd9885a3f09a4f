package log_test

import (
	"bytes"
	"strings"
	"testing"

	"bennypowers.dev/embedcss/internal/log"
	"github.com/stretchr/testify/assert"
)

func capture(t *testing.T, level log.Level) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	original := log.GetLevel()
	log.SetOutput(&buf)
	log.SetLevel(level)
	t.Cleanup(func() {
		log.SetOutput(nil)
		log.SetLevel(original)
	})
	return &buf
}

func emitAll() {
	log.Debug("skipped fence at %d", 1)
	log.Info("parsed %s", "a.html")
	log.Warn("unknown dialect %q", "stylus")
	log.Error("failed: %v", "boom")
}

func TestLevels(t *testing.T) {
	messages := []string{"skipped fence at 1", "parsed a.html", `unknown dialect "stylus"`, "failed: boom"}

	tests := []struct {
		name  string
		level log.Level
		// shown is how many of messages, from the end, pass the level
		shown int
	}{
		{"debug", log.LevelDebug, 4},
		{"info", log.LevelInfo, 3},
		{"warn", log.LevelWarn, 2},
		{"error", log.LevelError, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := capture(t, tt.level)
			emitAll()
			out := buf.String()

			cut := len(messages) - tt.shown
			for _, m := range messages[:cut] {
				assert.NotContains(t, out, m)
			}
			for _, m := range messages[cut:] {
				assert.Contains(t, out, m)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	buf := capture(t, log.LevelDebug)
	emitAll()

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	assert.Len(t, lines, 4)
	for i, label := range []string{"DEBU", "INFO", "WARN", "ERRO"} {
		assert.Contains(t, lines[i], label)
		assert.Contains(t, lines[i], "embedcss")
	}
}

func TestNilOutputDiscards(t *testing.T) {
	log.SetOutput(nil)
	assert.NotPanics(t, func() { log.Error("dropped") })
}

func TestGetLevel(t *testing.T) {
	original := log.GetLevel()
	defer log.SetLevel(original)

	for _, level := range []log.Level{log.LevelDebug, log.LevelWarn, log.LevelError, log.LevelInfo} {
		log.SetLevel(level)
		assert.Equal(t, level, log.GetLevel())
	}
}
