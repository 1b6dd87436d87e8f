package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dblens/console/internal/logtail"
)

func TestNew_WritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dblens.log")

	logger, err := New(path, false)
	require.NoError(t, err)
	logger.Named("poller").Info("poll ok")
	logger.Debug("hidden")
	_ = logger.Sync()

	lines, err := logtail.Read(path, 0)
	require.NoError(t, err)
	require.Len(t, lines, 1)

	entry := logtail.ParseLine(lines[0])
	assert.Equal(t, "INFO", entry.Level)
	assert.Equal(t, "poller", entry.Logger)
	assert.Equal(t, "poll ok", entry.Message)
}

func TestNew_VerboseEnablesDebug(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dblens.log")

	logger, err := New(path, true)
	require.NoError(t, err)
	logger.Debug("visible")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `"msg":"visible"`))
}

func TestNew_EmptyPathErrors(t *testing.T) {
	_, err := New("  ", false)
	assert.Error(t, err)
}

func TestNop(t *testing.T) {
	assert.NotPanics(t, func() { Nop().Info("ignored") })
}
