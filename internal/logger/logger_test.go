// ABOUTME: Tests for logger construction.
// ABOUTME: Verifies levels and that the rotating log file is created.
package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesToLogFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")

	l, err := New(Config{LogDir: dir})
	require.NoError(t, err)
	assert.Equal(t, log.WarnLevel, l.GetLevel())

	l.Warn("persist failed", "practice", "abc12345")

	data, err := os.ReadFile(filepath.Join(dir, "practice.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "persist failed")
	assert.Contains(t, string(data), "abc12345")
}

func TestDebugLevel(t *testing.T) {
	l, err := New(Config{Debug: true})
	require.NoError(t, err)
	assert.Equal(t, log.DebugLevel, l.GetLevel())
}

func TestDiscard(t *testing.T) {
	l := Discard()
	l.Error("dropped")
	assert.Equal(t, log.FatalLevel, l.GetLevel())
}
