// Package warnings accumulates non-fatal data-quality messages raised while
// parsing and converting dataset records. Conversion never stops on a bad
// field; it degrades to a fallback value and leaves a note here instead. The
// caller drains the collector once at the end of the run and decides how loud
// to be about it.
package warnings

import (
	"fmt"
	"strings"
)

// Level represents the severity of a collected message.
type Level string

const (
	LevelWarning Level = "WARNING"
	LevelError   Level = "ERROR"
)

// Warning is one recorded data-quality message, tied to the dataset and field
// it was raised for.
type Warning struct {
	Level     Level
	DatasetID string
	Field     string
	Message   string
}

// String renders the warning the way the conversion report prints it.
func (w Warning) String() string {
	return fmt.Sprintf("%s Dataset %s: %s - %s", w.Level, w.DatasetID, w.Field, w.Message)
}

// Collector is an append-only, ordered list of warnings. It is passed
// explicitly to every parse and synthesis call that can raise one; there is
// no package-level state. Messages are never deduplicated.
type Collector struct {
	items []Warning
}

// NewCollector returns an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Warnf records a WARNING-level message.
func (c *Collector) Warnf(datasetID, field, format string, args ...any) {
	c.append(LevelWarning, datasetID, field, format, args...)
}

// Errorf records an ERROR-level message.
func (c *Collector) Errorf(datasetID, field, format string, args ...any) {
	c.append(LevelError, datasetID, field, format, args...)
}

func (c *Collector) append(level Level, datasetID, field, format string, args ...any) {
	if c == nil {
		return
	}
	c.items = append(c.items, Warning{
		Level:     level,
		DatasetID: datasetID,
		Field:     field,
		Message:   strings.TrimSpace(fmt.Sprintf(format, args...)),
	})
}

// Items returns the collected warnings in emission order. The returned slice
// is a copy; appending to the collector afterwards does not affect it.
func (c *Collector) Items() []Warning {
	if c == nil || len(c.items) == 0 {
		return nil
	}
	out := make([]Warning, len(c.items))
	copy(out, c.items)
	return out
}

// Count reports how many messages have been collected.
func (c *Collector) Count() int {
	if c == nil {
		return 0
	}
	return len(c.items)
}
