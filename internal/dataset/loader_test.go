package dataset

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTable = `Legende,,,
Feld,Beschreibung,Datensatz 1,Datensatz 2,
,,,
,,,
Datensatz ID,interne Nummer,147,148
Datensatz Titel,Anzeigetitel,Census Serbia 1863,Census Albania 1918
Land,,Serbia,Albania
Jahr,,1863,1918
CSV Codes,Datei mit Codes,147_codes.csv - Data with Codes,
Anmerkungen,,"multi
line note",
`

func TestParseTable(t *testing.T) {
	records, err := ParseTable(strings.NewReader(sampleTable))
	require.NoError(t, err)
	require.Len(t, records, 2)

	first, second := records[0], records[1]
	assert.Equal(t, "147", first.ID())
	assert.Equal(t, "Census Serbia 1863", first.Get(FieldTitle))
	assert.Equal(t, "1863", first.Get(FieldYear))
	assert.Equal(t, "147_codes.csv - Data with Codes", first.Get(FieldCSVCodes))
	assert.Equal(t, "multi\nline note", first.Get(FieldNotes))

	assert.Equal(t, "148", second.ID())
	assert.Equal(t, "Albania", second.Get(FieldCountry))

	// Empty cells are simply absent from the record.
	assert.False(t, second.Has(FieldCSVCodes))
	assert.Equal(t, "", second.Get(FieldCSVCodes))
}

func TestParseTableShortRows(t *testing.T) {
	table := strings.Join([]string{
		"Legende",
		"Feld,Beschreibung,Datensatz 1,Datensatz 2",
		",",
		",",
		"Datensatz ID,,147,148",
		"Datensatz Titel,,Only first column", // second dataset cell missing entirely
		"Land",                     // no value columns at all
	}, "\n")

	records, err := ParseTable(strings.NewReader(table))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Only first column", records[0].Get(FieldTitle))
	assert.False(t, records[1].Has(FieldTitle))
	assert.False(t, records[0].Has(FieldCountry))
}

func TestParseTableErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{
			name:    "empty-input",
			input:   "",
			wantErr: "no dataset header row",
		},
		{
			name:    "only-legend-row",
			input:   "Legende,,\n",
			wantErr: "no dataset header row",
		},
		{
			name:    "header-without-datasets",
			input:   "Legende,,\nFeld,Beschreibung, , \n",
			wantErr: "names no datasets",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTable(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadTableMissingFile(t *testing.T) {
	_, err := LoadTable("does/not/exist.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open table")
}
