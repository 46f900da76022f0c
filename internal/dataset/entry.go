package dataset

import (
	"strings"

	"github.com/DigitalHumanitiesCraft/histdem/internal/warnings"
)

// entrySeparator splits a compound field value into filename and title. Only
// the first occurrence counts: titles may legally contain " - " themselves
// (subtitles do), filenames must not.
const entrySeparator = " - "

// Entry is one parsed "filename - title" field value. Either part may be
// empty when the raw value did not follow the convention.
type Entry struct {
	Filename string
	Title    string
}

// ParseEntry parses the `"<filename> - <title>"` convention shared by every
// file-bearing field. Violations are recorded on the collector and never
// abort the caller:
//
//   - empty input parses to an empty entry with no warning (the field is
//     simply unused);
//   - a value without the separator is taken as a bare filename plus a
//     warning, since the title is required by convention;
//   - an empty filename before the separator is unrecoverable for the entry
//     and recorded at error level;
//   - an empty title after the separator keeps the filename and warns.
func ParseEntry(raw, field, datasetID string, wc *warnings.Collector) Entry {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Entry{}
	}

	if !strings.Contains(raw, entrySeparator) {
		wc.Warnf(datasetID, field, "missing title (expected format: 'filename - Title'), got: %q", raw)
		return Entry{Filename: raw}
	}

	filename, title, _ := strings.Cut(raw, entrySeparator)
	filename = strings.TrimSpace(filename)
	title = strings.TrimSpace(title)

	if filename == "" {
		wc.Errorf(datasetID, field, "empty filename before %q", entrySeparator)
		return Entry{}
	}
	if title == "" {
		wc.Warnf(datasetID, field, "empty title after %q", entrySeparator)
		return Entry{Filename: filename}
	}

	return Entry{Filename: filename, Title: title}
}
