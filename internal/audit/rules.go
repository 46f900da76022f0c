// Package audit evaluates the data-quality rules over dataset records and
// renders the validation report. The rules share the field-entry grammar with
// the document synthesizer so the two tools never disagree about what a
// well-formed value looks like.
package audit

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/DigitalHumanitiesCraft/histdem/internal/dataset"
	"github.com/DigitalHumanitiesCraft/histdem/internal/warnings"
)

var pidPattern = regexp.MustCompile(`^o:histdem\.\d+$`)

// CheckRequiredFields verifies the fixed list of mandatory fields, one issue
// per empty field.
func CheckRequiredFields(rec dataset.Record) (bool, []string) {
	var issues []string
	for _, field := range dataset.RequiredFields() {
		if !rec.Has(field) {
			issues = append(issues, fmt.Sprintf("required field %q is empty", field))
		}
	}
	return len(issues) == 0, issues
}

// CheckFileEntries validates the "filename - title" convention for every
// file-bearing field: the grammar's own warnings surface as issues, plus the
// audit-only checks that the filename has an extension and carries no stray
// whitespace.
func CheckFileEntries(rec dataset.Record) (bool, []string) {
	var issues []string
	for _, field := range dataset.FileFields() {
		raw := rec.Get(field)
		if raw == "" {
			continue
		}

		wc := warnings.NewCollector()
		entry := dataset.ParseEntry(raw, field, rec.ID(), wc)
		for _, w := range wc.Items() {
			issues = append(issues, fmt.Sprintf("%s: %s", field, w.Message))
		}

		// The extension check runs on the raw left-hand side so that a
		// stray space around the filename is reported too.
		left := raw
		if before, _, found := strings.Cut(raw, " - "); found {
			left = before
		}
		if entry.Filename != "" && !strings.Contains(entry.Filename, ".") {
			issues = append(issues, fmt.Sprintf("%s: filename without extension: %q", field, entry.Filename))
		}
		if strings.HasPrefix(left, " ") {
			issues = append(issues, fmt.Sprintf("%s: filename has a leading space", field))
		}
		if strings.HasSuffix(left, " ") {
			issues = append(issues, fmt.Sprintf("%s: filename has a trailing space", field))
		}
	}
	return len(issues) == 0, issues
}

// CheckCodesLabels verifies that the codes and labels files form a pair: the
// expected suffixes and an identical base name. Both fields must be present
// for the rule to apply.
func CheckCodesLabels(rec dataset.Record) (bool, []string) {
	codes := rec.Get(dataset.FieldCSVCodes)
	labels := rec.Get(dataset.FieldCSVLabels)
	if codes == "" || labels == "" {
		return true, nil
	}

	codesFile := entryFilename(codes)
	labelsFile := entryFilename(labels)

	var issues []string
	if !strings.HasSuffix(codesFile, "_codes.csv") {
		issues = append(issues, fmt.Sprintf("codes filename does not end with '_codes.csv': %q", codesFile))
	}
	if !strings.HasSuffix(labelsFile, "_labels.csv") {
		issues = append(issues, fmt.Sprintf("labels filename does not end with '_labels.csv': %q", labelsFile))
	}

	codesBase := strings.TrimSuffix(codesFile, "_codes.csv")
	labelsBase := strings.TrimSuffix(strings.TrimSuffix(labelsFile, "_labels.csv"), "_codes.csv")
	if codesBase != labelsBase {
		issues = append(issues, fmt.Sprintf("base filenames do not match: codes=%q vs labels=%q", codesBase, labelsBase))
	}

	return len(issues) == 0, issues
}

// CheckDateRange verifies that Datum Von and Datum Bis come in pairs and that
// a given Jahr falls inside the range. Non-numeric values are skipped, not
// flagged: the required-field and entry checks have already reported them and
// a second report for the same cell would only add noise.
func CheckDateRange(rec dataset.Record) (bool, []string) {
	year := rec.Get(dataset.FieldYear)
	from := rec.Get(dataset.FieldDateFrom)
	to := rec.Get(dataset.FieldDateTo)

	var issues []string
	if from != "" && to == "" {
		issues = append(issues, fmt.Sprintf("incomplete date range: 'Datum Von' (%s) present but 'Datum Bis' is missing", from))
	}
	if to != "" && from == "" {
		issues = append(issues, fmt.Sprintf("incomplete date range: 'Datum Bis' (%s) present but 'Datum Von' is missing", to))
	}

	if from != "" && to != "" && year != "" {
		yearN, errY := strconv.Atoi(year)
		fromN, errF := strconv.Atoi(from)
		toN, errT := strconv.Atoi(to)
		if errY == nil && errF == nil && errT == nil && (yearN < fromN || yearN > toN) {
			issues = append(issues, fmt.Sprintf("year %s is outside the date range %s-%s", year, from, to))
		}
	}

	return len(issues) == 0, issues
}

// CheckPID verifies the persistent identifier shape (o:histdem.<digits>) and
// that it embeds the dataset id exactly. An empty PID is rule 1's problem.
func CheckPID(rec dataset.Record) (bool, []string) {
	pid := rec.Get(dataset.FieldPID)
	id := rec.ID()

	var issues []string
	if pid != "" && !pidPattern.MatchString(pid) {
		issues = append(issues, fmt.Sprintf("PID format incorrect: %q (expected: o:histdem.NNN)", pid))
	}
	if pid != "" && id != "" {
		if expected := "o:histdem." + id; pid != expected {
			issues = append(issues, fmt.Sprintf("PID %q does not match Datensatz ID %q (expected: %s)", pid, id, expected))
		}
	}
	return len(issues) == 0, issues
}

// CheckLanguageCodes verifies each comma-separated code has the ISO 639-1
// shape: exactly two characters, lowercase. No vocabulary lookup is done.
func CheckLanguageCodes(rec dataset.Record) (bool, []string) {
	raw := rec.Get(dataset.FieldLanguageCodes)
	if raw == "" {
		return true, nil
	}

	var issues []string
	for _, code := range strings.Split(raw, ",") {
		code = strings.TrimSpace(code)
		if len([]rune(code)) != 2 || code != strings.ToLower(code) || code == strings.ToUpper(code) {
			issues = append(issues, fmt.Sprintf("language code %q does not look like ISO 639-1", code))
		}
	}
	return len(issues) == 0, issues
}

// FileChecker verifies that referenced files exist on disk, resolving each
// dataset's folder through the mapping rooted at BaseDir.
type FileChecker struct {
	Folders dataset.FolderMap
	BaseDir string
}

// CheckFilesExist resolves every file-bearing field of the record and reports
// a missing mapping, a missing folder, and a missing file as three distinct
// issues.
func (fc FileChecker) CheckFilesExist(rec dataset.Record) (bool, []string) {
	var issues []string
	for _, field := range dataset.FileFields() {
		raw := rec.Get(field)
		if raw == "" {
			continue
		}
		filename := entryFilename(raw)
		if filename == "" {
			continue
		}
		if msg := fc.checkFile(rec.ID(), filename); msg != "" {
			issues = append(issues, fmt.Sprintf("%s: %s", field, msg))
		}
	}
	return len(issues) == 0, issues
}

func (fc FileChecker) checkFile(datasetID, filename string) string {
	folder, ok := fc.Folders.Folder(datasetID)
	if !ok {
		return fmt.Sprintf("no folder mapping found for dataset %s", datasetID)
	}
	folderPath := filepath.Join(fc.BaseDir, folder)
	if _, err := os.Stat(folderPath); err != nil {
		return fmt.Sprintf("folder %q does not exist", folder)
	}
	if _, err := os.Stat(filepath.Join(folderPath, filename)); err != nil {
		return fmt.Sprintf("file not found: %s/%s", folder, filename)
	}
	return ""
}

// entryFilename extracts the filename half of a compound entry without
// raising warnings, for rules that only care about the name.
func entryFilename(raw string) string {
	raw = strings.TrimSpace(raw)
	if before, _, found := strings.Cut(raw, " - "); found {
		return strings.TrimSpace(before)
	}
	return raw
}
