package logx

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsoleMasking(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Init(Config{Level: "info", ConsoleOnly: true, HideSecretsInConsole: true, Console: &buf}))
	t.Cleanup(func() { _ = Close() })

	hex := strings.Repeat("ab", 64)
	S().Infow("FOUND "+hex, "address", "abcdef", "private_key", "deadbeef", "seed", hex)
	WithFields("secret", "zzz").Infow("child")

	out := buf.String()
	assert.Contains(t, out, "abcdef")
	assert.NotContains(t, out, "deadbeef")
	assert.NotContains(t, out, hex)
	assert.NotContains(t, out, "zzz")
	assert.Contains(t, out, "[REDACTED]")
}

func TestConsoleNoMasking(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Init(Config{Level: "info", ConsoleOnly: true, Console: &buf}))
	t.Cleanup(func() { _ = Close() })

	S().Infow("FOUND", "private_key", "deadbeef")
	assert.Contains(t, buf.String(), "deadbeef")
}

func TestLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Init(Config{Level: "warn", ConsoleOnly: true, Console: &buf}))
	t.Cleanup(func() { _ = Close() })

	S().Infow("hidden")
	S().Warnw("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestFileOutput(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "sub", "app.log")
	require.NoError(t, Init(Config{Level: "info", FilePath: path, HideSecretsInConsole: true, Console: &buf}))

	S().Infow("to file", "private_key", "deadbeef")
	require.NoError(t, Close())

	matches, err := filepath.Glob(filepath.Join(filepath.Dir(path), "*.log"))
	require.NoError(t, err)
	require.Len(t, matches, 1)
	body, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	assert.Contains(t, string(body), "to file")
	// masking applies to the console only
	assert.Contains(t, string(body), "deadbeef")
	assert.NotContains(t, buf.String(), "deadbeef")
}
