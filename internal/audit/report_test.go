package audit

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DigitalHumanitiesCraft/histdem/internal/dataset"
)

func TestAuditRecordOrder(t *testing.T) {
	auditor := NewAuditor(dataset.FolderMap{}, t.TempDir())

	rec := cleanRecord()
	rec[dataset.FieldPID] = "o:histdem.99"
	delete(rec, dataset.FieldDescription)

	section := auditor.AuditRecord(rec)
	assert.Equal(t, "147", section.DatasetID)
	assert.Equal(t, "Census Serbia 1863", section.Title)
	assert.False(t, section.Clean())

	// Rules report in a fixed order: required fields first, PID later,
	// file existence last.
	require.GreaterOrEqual(t, len(section.Issues), 3)
	assert.Contains(t, section.Issues[0], `required field "Beschreibung" is empty`)
	assert.Contains(t, strings.Join(section.Issues, "\n"), "does not match Datensatz ID")
	assert.Contains(t, section.Issues[len(section.Issues)-1], "no folder mapping found")
}

func TestAuditRecordUnknownID(t *testing.T) {
	auditor := NewAuditor(dataset.FolderMap{}, t.TempDir())
	section := auditor.AuditRecord(dataset.Record{})
	assert.Equal(t, "Unknown", section.DatasetID)
	assert.Equal(t, "Unknown", section.Title)
	assert.False(t, section.Clean())
}

func TestReportCounts(t *testing.T) {
	report := Report{Sections: []Section{
		{DatasetID: "147"},
		{DatasetID: "148", Issues: []string{"a", "b"}},
		{DatasetID: "149", Issues: []string{"c"}},
	}}

	assert.Equal(t, 3, report.TotalIssues())
	assert.Equal(t, 2, report.DatasetsWithIssues())
	assert.Equal(t, 1, report.ExitCode())

	clean := Report{Sections: []Section{{DatasetID: "147"}}}
	assert.Equal(t, 0, clean.ExitCode())
}

func TestWriteReport(t *testing.T) {
	report := Report{Sections: []Section{
		{DatasetID: "147", Title: "Census Serbia 1863"},
		{DatasetID: "148", Title: "Census Albania 1918", Issues: []string{
			`required field "PID" is empty`,
		}},
	}}

	var buf bytes.Buffer
	WriteReport(&buf, report, "histdem-data.csv")
	out := buf.String()

	assert.Contains(t, out, "CSV DATA VALIDATION REPORT")
	assert.Contains(t, out, "File: histdem-data.csv")
	assert.Contains(t, out, "Datasets: 2")
	assert.Contains(t, out, "Dataset 147: Census Serbia 1863")
	assert.Contains(t, out, "[OK] no issues found")
	assert.Contains(t, out, "[ERROR] 1 issue(s) found:")
	assert.Contains(t, out, `- required field "PID" is empty`)
	assert.Contains(t, out, "Datasets with issues: 1")
	assert.Contains(t, out, "Total issues found: 1")
	assert.Contains(t, out, "please fix the 1 issue(s) before converting")
}

func TestWriteReportTruncatesLongTitles(t *testing.T) {
	long := strings.Repeat("ü", 80)
	report := Report{Sections: []Section{{DatasetID: "147", Title: long}}}

	var buf bytes.Buffer
	WriteReport(&buf, report, "x.csv")

	assert.Contains(t, buf.String(), "Dataset 147: "+strings.Repeat("ü", 60))
	assert.NotContains(t, buf.String(), strings.Repeat("ü", 61))
}
