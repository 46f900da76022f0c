package audit

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/DigitalHumanitiesCraft/histdem/internal/dataset"
)

// Section holds the audit outcome for one dataset.
type Section struct {
	DatasetID string
	Title     string
	Issues    []string
}

// Clean reports whether the dataset passed every rule.
func (s Section) Clean() bool {
	return len(s.Issues) == 0
}

// Report aggregates the audit outcome for a whole table.
type Report struct {
	Sections []Section
}

// TotalIssues counts every issue across all datasets.
func (r Report) TotalIssues() int {
	total := 0
	for _, s := range r.Sections {
		total += len(s.Issues)
	}
	return total
}

// DatasetsWithIssues counts datasets that failed at least one rule.
func (r Report) DatasetsWithIssues() int {
	count := 0
	for _, s := range r.Sections {
		if !s.Clean() {
			count++
		}
	}
	return count
}

// ExitCode maps the aggregate outcome to the process contract: zero iff no
// issues were found anywhere.
func (r Report) ExitCode() int {
	if r.TotalIssues() == 0 {
		return 0
	}
	return 1
}

// Auditor applies the consistency rules in report order.
type Auditor struct {
	files FileChecker
}

// NewAuditor builds an auditor that resolves referenced files through the
// given folder mapping under baseDir.
func NewAuditor(folders dataset.FolderMap, baseDir string) *Auditor {
	return &Auditor{files: FileChecker{Folders: folders, BaseDir: baseDir}}
}

// AuditRecord runs every rule against one record. Rule order only affects
// report readability, not correctness.
func (a *Auditor) AuditRecord(rec dataset.Record) Section {
	section := Section{
		DatasetID: orUnknown(rec.ID()),
		Title:     orUnknown(rec.Get(dataset.FieldTitle)),
	}

	rules := []func(dataset.Record) (bool, []string){
		CheckRequiredFields,
		CheckFileEntries,
		CheckCodesLabels,
		CheckDateRange,
		CheckPID,
		CheckLanguageCodes,
		a.files.CheckFilesExist,
	}
	for _, rule := range rules {
		if ok, issues := rule(rec); !ok {
			section.Issues = append(section.Issues, issues...)
		}
	}
	return section
}

// AuditTable audits every record in order.
func (a *Auditor) AuditTable(records []dataset.Record) Report {
	report := Report{}
	for _, rec := range records {
		report.Sections = append(report.Sections, a.AuditRecord(rec))
	}
	return report
}

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

const reportRule = 80

// WriteReport renders the human-readable audit report: a header, one section
// per dataset with its issues (or a clean line), and the summary with the
// aggregate counts.
func WriteReport(w io.Writer, report Report, source string) {
	writeHeader(w, "CSV DATA VALIDATION REPORT")
	fmt.Fprintf(w, "File: %s\n", source)
	fmt.Fprintf(w, "Datasets: %d\n", len(report.Sections))

	for _, section := range report.Sections {
		title := section.Title
		if runes := []rune(title); len(runes) > 60 {
			title = string(runes[:60])
		}
		heading := fmt.Sprintf("Dataset %s: %s", section.DatasetID, title)
		fmt.Fprintf(w, "\n%s\n%s\n", sectionStyle.Render(heading), sectionStyle.Render(strings.Repeat("-", len(heading))))

		if section.Clean() {
			fmt.Fprintln(w, okStyle.Render("[OK] no issues found - data is complete and consistent"))
			continue
		}
		fmt.Fprintln(w, errorStyle.Render(fmt.Sprintf("[ERROR] %d issue(s) found:", len(section.Issues))))
		for _, issue := range section.Issues {
			fmt.Fprintf(w, "  - %s\n", issue)
		}
	}

	writeHeader(w, "SUMMARY")
	fmt.Fprintf(w, "Datasets checked: %d\n", len(report.Sections))
	fmt.Fprintf(w, "Datasets with issues: %d\n", report.DatasetsWithIssues())
	fmt.Fprintf(w, "Total issues found: %d\n", report.TotalIssues())

	if report.TotalIssues() == 0 {
		fmt.Fprintln(w, okStyle.Render("\n[OK] all data is consistent and complete"))
	} else {
		fmt.Fprintln(w, errorStyle.Render(fmt.Sprintf("\n[ERROR] please fix the %d issue(s) before converting", report.TotalIssues())))
	}
	fmt.Fprintln(w)
}

func writeHeader(w io.Writer, text string) {
	bar := strings.Repeat("=", reportRule)
	fmt.Fprintf(w, "\n%s\n%s\n%s\n\n", headerStyle.Render(bar), headerStyle.Render(text), headerStyle.Render(bar))
}

func orUnknown(value string) string {
	if value == "" {
		return "Unknown"
	}
	return value
}
