package warnings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorOrder(t *testing.T) {
	c := NewCollector()
	c.Warnf("147", "Bild 1", "missing title")
	c.Errorf("148", "CSV Codes", "empty filename before %q", " - ")
	c.Warnf("147", "Jahr", "value %d out of range", 1900)

	require.Equal(t, 3, c.Count())
	items := c.Items()
	assert.Equal(t, LevelWarning, items[0].Level)
	assert.Equal(t, LevelError, items[1].Level)
	assert.Equal(t, `empty filename before " - "`, items[1].Message)
	assert.Equal(t, "value 1900 out of range", items[2].Message)
}

func TestCollectorItemsIsCopy(t *testing.T) {
	c := NewCollector()
	c.Warnf("147", "Titel", "first")
	items := c.Items()
	c.Warnf("147", "Titel", "second")

	assert.Len(t, items, 1)
	assert.Equal(t, 2, c.Count())
}

func TestNilCollector(t *testing.T) {
	var c *Collector
	c.Warnf("147", "Titel", "dropped")
	c.Errorf("147", "Titel", "dropped")

	assert.Zero(t, c.Count())
	assert.Nil(t, c.Items())
}

func TestWarningString(t *testing.T) {
	w := Warning{
		Level:     LevelWarning,
		DatasetID: "147",
		Field:     "Bild 2",
		Message:   "missing title",
	}
	assert.Equal(t, "WARNING Dataset 147: Bild 2 - missing title", w.String())
}
