package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DigitalHumanitiesCraft/histdem/internal/warnings"
)

func TestParseEntry(t *testing.T) {
	tests := []struct {
		name         string
		raw          string
		wantFilename string
		wantTitle    string
		wantLevel    warnings.Level
		wantWarnings int
	}{
		{
			name:         "well-formed",
			raw:          "147_codes.csv - Data with Codes",
			wantFilename: "147_codes.csv",
			wantTitle:    "Data with Codes",
		},
		{
			name:         "title-contains-separator",
			raw:          "scan.jpg - Census 1863 - district volume",
			wantFilename: "scan.jpg",
			wantTitle:    "Census 1863 - district volume",
		},
		{
			name: "empty",
			raw:  "",
		},
		{
			name: "whitespace-only",
			raw:  "   ",
		},
		{
			name:         "missing-separator",
			raw:          "map1.jpg",
			wantFilename: "map1.jpg",
			wantLevel:    warnings.LevelWarning,
			wantWarnings: 1,
		},
		{
			// Leading whitespace is trimmed first, so the separator is no
			// longer intact and the value reads as a bare filename.
			name:         "separator-at-start",
			raw:          " - Title only",
			wantFilename: "- Title only",
			wantLevel:    warnings.LevelWarning,
			wantWarnings: 1,
		},
		{
			// A trailing separator loses its final space to trimming, so the
			// whole value reads as a filename without a title.
			name:         "trailing-separator",
			raw:          "doc.pdf - ",
			wantFilename: "doc.pdf -",
			wantLevel:    warnings.LevelWarning,
			wantWarnings: 1,
		},
		{
			name:         "surrounding-whitespace-trimmed",
			raw:          "  doc.pdf - Sample data  ",
			wantFilename: "doc.pdf",
			wantTitle:    "Sample data",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wc := warnings.NewCollector()
			entry := ParseEntry(tt.raw, "Bild 1", "147", wc)

			assert.Equal(t, tt.wantFilename, entry.Filename)
			assert.Equal(t, tt.wantTitle, entry.Title)
			require.Equal(t, tt.wantWarnings, wc.Count())
			if tt.wantWarnings > 0 {
				w := wc.Items()[0]
				assert.Equal(t, tt.wantLevel, w.Level)
				assert.Equal(t, "147", w.DatasetID)
				assert.Equal(t, "Bild 1", w.Field)
			}
		})
	}
}

// Well-formed entries survive a reassembly round trip.
func TestParseEntryRoundTrip(t *testing.T) {
	inputs := []string{
		"147_codes.csv - Codes",
		"sample.pdf - Sample of the census",
		"map.jpg - Karte - Ausschnitt Nord",
	}
	for _, raw := range inputs {
		wc := warnings.NewCollector()
		entry := ParseEntry(raw, "CSV Codes", "147", wc)
		require.Zero(t, wc.Count(), "input %q", raw)
		assert.Equal(t, raw, entry.Filename+" - "+entry.Title)
	}
}
