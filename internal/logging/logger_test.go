package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DigitalHumanitiesCraft/histdem/internal/config"
	"github.com/DigitalHumanitiesCraft/histdem/internal/warnings"
)

func TestLoggerWritesTimestampedLines(t *testing.T) {
	dir := t.TempDir()
	logger, err := New(dir)
	require.NoError(t, err)

	logger.Printf("processed %d datasets", 10)

	wc := warnings.NewCollector()
	wc.Warnf("147", "Bild 1", "missing title")
	logger.RecordWarnings(wc.Items())
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(filepath.Join(dir, config.HistdemDir, "logs", "histdem.log"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "processed 10 datasets")
	assert.Contains(t, lines[1], "WARNING Dataset 147: Bild 1 - missing title")
	assert.True(t, strings.HasPrefix(lines[0], "["))
}

func TestLoggerAppends(t *testing.T) {
	dir := t.TempDir()
	for _, msg := range []string{"first run", "second run"} {
		logger, err := New(dir)
		require.NoError(t, err)
		logger.Printf("%s", msg)
		require.NoError(t, logger.Close())
	}

	data, err := os.ReadFile(filepath.Join(dir, config.HistdemDir, "logs", "histdem.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "first run")
	assert.Contains(t, string(data), "second run")
}

func TestNilLogger(t *testing.T) {
	var logger *Logger
	logger.Printf("dropped")
	logger.RecordWarnings(nil)
	assert.NoError(t, logger.Close())
}
