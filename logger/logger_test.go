package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger("params", &buf, LevelInfo)

	l.Debug("hidden %d", 1)
	assert.Empty(t, buf.String())

	l.Info("loaded %d lines", 3)
	assert.Contains(t, buf.String(), "[INFO] params | loaded 3 lines")

	buf.Reset()
	l.SetLevel(LevelError)
	l.Info("skipped")
	l.Error("boom %s", "now")
	assert.NotContains(t, buf.String(), "skipped")
	assert.Contains(t, buf.String(), "[ERROR] params | boom now")
}

func TestDiscard(t *testing.T) {
	l := Discard()
	assert.NotPanics(t, func() {
		l.Debug("a")
		l.Info("b")
		l.Error("c")
	})
}
