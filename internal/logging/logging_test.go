package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"DEBUG", LevelDebug},
		{"warning", LevelWarn},
		{"Error", LevelError},
		{"nonsense", LevelInfo},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.in), "ParseLevel(%q)", tt.in)
	}
}

func TestLoggerFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(LevelWarn)
	log.SetOutput(&buf)

	log.Debug("hidden %d", 1)
	log.Info("hidden too")
	log.Warn("shown %s", "warn")
	log.Error("shown error")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "[WARN] shown warn")
	assert.Contains(t, out, "[ERROR] shown error")
	assert.Equal(t, 2, strings.Count(out, "\n"))
}

func TestNamedSharesSink(t *testing.T) {
	var buf bytes.Buffer
	root := New(LevelInfo)
	root.SetOutput(&buf)

	child := root.Named("catalog").Named("http")
	child.Info("fetched %d rows", 12)

	assert.Contains(t, buf.String(), "[INFO] catalog.http: fetched 12 rows")

	// Level changes on the root apply to children
	root.SetLevel(LevelError)
	child.Info("dropped")
	assert.NotContains(t, buf.String(), "dropped")
	assert.False(t, child.Enabled(LevelWarn))
}

func TestDiscard(t *testing.T) {
	log := Discard()
	log.Error("nothing")
	assert.False(t, log.Enabled(LevelError))
}
