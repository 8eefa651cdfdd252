package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebugIsSuppressedUnlessVerbose(t *testing.T) {
	t.Cleanup(func() {
		SetVerbose(false)
		Reset()
	})

	var buf bytes.Buffer
	SetWriterForAll(&buf)

	SetVerbose(false)
	Debug("hidden %d", 1)
	assert.Empty(t, buf.String())

	SetVerbose(true)
	Debug("shown %d", 2)
	assert.Contains(t, buf.String(), "shown 2")
	assert.Contains(t, buf.String(), "DEBUG")
}

func TestLogFileStripsColors(t *testing.T) {
	t.Cleanup(Reset)

	var console bytes.Buffer
	SetWriterForAll(&console)

	path := filepath.Join(t.TempDir(), "pcc.log")
	require.NoError(t, SetLogFile(path))

	Warn("cycle at %s", "a.ts")
	require.NoError(t, Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "WARN")
	assert.Contains(t, string(data), "cycle at a.ts")
	assert.NotContains(t, string(data), "\033[")
	assert.Contains(t, console.String(), ColorYellow)
}

func TestSetLogFileEmptyPathIsNoop(t *testing.T) {
	assert.NoError(t, SetLogFile(""))
	assert.NoError(t, Close())
}
