package utils

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf)
	l.Info("room started", "room", "r-1")

	out := buf.String()
	assert.Contains(t, out, "room started")
	assert.Contains(t, out, "room=r-1")
	assert.Contains(t, out, "vibejo")
}

func TestInitLevel(t *testing.T) {
	defer Print.SetLevel(log.InfoLevel)

	Init("debug")
	assert.Equal(t, log.DebugLevel, Print.GetLevel())

	Init("error")
	assert.Equal(t, log.ErrorLevel, Print.GetLevel())

	Init("loud")
	assert.Equal(t, log.InfoLevel, Print.GetLevel())
}
