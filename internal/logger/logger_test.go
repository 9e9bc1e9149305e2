package logger

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
)

func TestNewWithConfig(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithConfig(&buf, "ipc", log.InfoLevel, false, false, log.LogfmtFormatter)

	l.Debug("hidden")
	l.Info("request served", "id", "r1")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "prefix=ipc")
	assert.Contains(t, out, `msg="request served"`)
	assert.Contains(t, out, "id=r1")
}

func TestFactoriesFollowGlobalLevel(t *testing.T) {
	prev := log.GetLevel()
	defer log.SetLevel(prev)

	log.SetLevel(log.DebugLevel)
	assert.Equal(t, log.DebugLevel, New("x").GetLevel())
	assert.Equal(t, log.DebugLevel, Default("x").GetLevel())

	log.SetLevel(log.WarnLevel)
	assert.Equal(t, log.WarnLevel, Default("x").GetLevel())
}

func TestDiscard(t *testing.T) {
	assert.NotPanics(t, func() { Discard().Error("dropped") })
}
