package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/DigitalHumanitiesCraft/histdem/internal/config"
	"github.com/DigitalHumanitiesCraft/histdem/internal/warnings"
)

// Logger appends timestamped lines to .histdem/logs/histdem.log so a run can
// be reconstructed after the terminal output is gone. The console stays
// reserved for the report text; the file keeps the machine trail.
type Logger struct {
	file *os.File
}

// New creates (or reuses) the log file for the current project directory.
func New(projectDir string) (*Logger, error) {
	logDir := filepath.Join(projectDir, config.HistdemDir, "logs")
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, fmt.Errorf("logging: ensure log dir: %w", err)
	}
	path := filepath.Join(logDir, "histdem.log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("logging: open log file: %w", err)
	}
	return &Logger{file: f}, nil
}

// Close releases the file handle.
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}

// Printf writes a single timestamped line to the log file.
func (l *Logger) Printf(format string, args ...any) {
	if l == nil || l.file == nil {
		return
	}
	line := fmt.Sprintf(format, args...)
	line = strings.TrimRight(line, "\n")
	timestamp := time.Now().Format(time.RFC3339)
	fmt.Fprintf(l.file, "[%s] %s\n", timestamp, line)
}

// RecordWarnings writes every collected data-quality warning to the log
// file, one line each, so reports survive past the terminal session.
func (l *Logger) RecordWarnings(items []warnings.Warning) {
	for _, w := range items {
		l.Printf("%s", w)
	}
}
