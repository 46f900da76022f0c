package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecordGet(t *testing.T) {
	rec := Record{
		FieldID:    "147",
		FieldTitle: "  Census Serbia 1863  ",
		FieldNotes: "   ",
	}

	assert.Equal(t, "147", rec.ID())
	assert.Equal(t, "Census Serbia 1863", rec.Get(FieldTitle))

	// Whitespace-only and absent fields read the same.
	assert.Equal(t, "", rec.Get(FieldNotes))
	assert.False(t, rec.Has(FieldNotes))
	assert.Equal(t, "", rec.Get(FieldYear))
	assert.False(t, rec.Has(FieldYear))
}

func TestNumberedFields(t *testing.T) {
	assert.Equal(t, "Bild 1", ImageField(1))
	assert.Equal(t, "Zusatzdatei 10", ExtraFileField(10))
	assert.Equal(t, "Literatur 4", LiteratureField(4))
}

func TestFileFields(t *testing.T) {
	fields := FileFields()
	assert.Len(t, fields, 2+MaxExtraFiles+MaxImages)
	assert.Equal(t, FieldCSVCodes, fields[0])
	assert.Equal(t, FieldCSVLabels, fields[1])
	assert.Equal(t, "Zusatzdatei 1", fields[2])
	assert.Equal(t, "Bild 1", fields[2+MaxExtraFiles])
}
