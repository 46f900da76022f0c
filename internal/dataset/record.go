// Package dataset models one historical dataset as it arrives from the
// project's field-oriented CSV: each dataset occupies one column, each row is
// a named field. The package owns the record type, the table loader, the
// "filename - title" entry convention, and the dataset-id to folder mapping.
package dataset

import (
	"fmt"
	"strings"
)

// Field names used by the histdem CSV. The vocabulary is fixed by the data
// entry spreadsheet; numbered fields (Bild 1..5, Zusatzdatei 1..10,
// Literatur 1..4) are addressed through the helper constructors below.
const (
	FieldID              = "Datensatz ID"
	FieldTitle           = "Datensatz Titel"
	FieldCountry         = "Land"
	FieldCountryWikidata = "Land Wikidata"
	FieldRegion          = "Region"
	FieldRegionWikidata  = "Region Wikidata"
	FieldPID             = "PID"
	FieldYear            = "Jahr"
	FieldDateFrom        = "Datum Von"
	FieldDateTo          = "Datum Bis"
	FieldPersonCount     = "Anzahl Personen"
	FieldHouseholdCount  = "Anzahl Haushalte"
	FieldCitation        = "Zitierempfehlung"
	FieldKeywords        = "Schlagwörter"
	FieldLanguageCodes   = "Sprachcodes"
	FieldHeading         = "Überschrift"
	FieldDescription     = "Beschreibung"
	FieldNotes           = "Anmerkungen"
	FieldCSVCodes        = "CSV Codes"
	FieldCSVLabels       = "CSV Labels"
)

const (
	// MaxImages is the number of numbered "Bild" fields.
	MaxImages = 5
	// MaxExtraFiles is the number of numbered "Zusatzdatei" fields.
	MaxExtraFiles = 10
	// MaxLiterature is the number of numbered "Literatur" fields.
	MaxLiterature = 4
)

// ImageField returns the field name for the n-th image (1-based).
func ImageField(n int) string { return numbered("Bild", n) }

// ExtraFileField returns the field name for the n-th additional file (1-based).
func ExtraFileField(n int) string { return numbered("Zusatzdatei", n) }

// LiteratureField returns the field name for the n-th literature entry (1-based).
func LiteratureField(n int) string { return numbered("Literatur", n) }

func numbered(prefix string, n int) string {
	return fmt.Sprintf("%s %d", prefix, n)
}

// Record holds one dataset's field values, keyed by field name. Values are
// stored trimmed; fields that were empty in the CSV are simply absent.
// Records are built once by the loader and read-only afterwards.
type Record map[string]string

// Get returns the trimmed value for a field, or the empty string when the
// field is absent. Callers never see a missing-key distinction; an empty
// field and an absent field mean the same thing.
func (r Record) Get(field string) string {
	return strings.TrimSpace(r[field])
}

// Has reports whether the field carries a non-empty value.
func (r Record) Has(field string) bool {
	return r.Get(field) != ""
}

// ID returns the dataset identifier, the short numeric string that names the
// record everywhere (PID, output file, folder mapping).
func (r Record) ID() string {
	return r.Get(FieldID)
}

// RequiredFields lists the fields every dataset must fill in, in report order.
func RequiredFields() []string {
	return []string{
		FieldID,
		FieldTitle,
		FieldCountry,
		FieldPID,
		FieldPersonCount,
		FieldHouseholdCount,
		FieldCitation,
		FieldKeywords,
		FieldLanguageCodes,
		FieldHeading,
		FieldDescription,
	}
}

// FileFields lists every field that carries a "filename - title" entry, in
// report order: the two CSV data files, the additional files, the images.
func FileFields() []string {
	fields := []string{FieldCSVCodes, FieldCSVLabels}
	for i := 1; i <= MaxExtraFiles; i++ {
		fields = append(fields, ExtraFileField(i))
	}
	for i := 1; i <= MaxImages; i++ {
		fields = append(fields, ImageField(i))
	}
	return fields
}
