package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewEmitsJSONAtOrAboveLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, false, slog.LevelInfo)

	l.Debug("should not appear")
	l.Info("candidate rejected", "symbology", "UPC-A")

	out := buf.String()
	assert.False(t, strings.Contains(out, "should not appear"))
	assert.True(t, strings.Contains(out, "candidate rejected"))
	assert.True(t, strings.Contains(out, `"symbology":"UPC-A"`))
}

func TestNewAddSourceIncludesCallSite(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, true, slog.LevelDebug)
	l.Debug("hello")
	assert.True(t, strings.Contains(buf.String(), "logging_test.go"))
}
