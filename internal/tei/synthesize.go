package tei

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/DigitalHumanitiesCraft/histdem/internal/dataset"
	"github.com/DigitalHumanitiesCraft/histdem/internal/warnings"
)

// Fallback literals used when neither the record nor the template supplies a
// value. They are deliberately conspicuous so reviewers can grep generated
// documents for leftover placeholders.
const (
	placeholderYear    = "YEAR"
	placeholderCountry = "COUNTRY"
	placeholderQID     = "QXXX"
	unknownID          = "id_unknown"
)

var (
	trailingYearPattern = regexp.MustCompile(`(\d{4})\.?\s*$`)

	// wikidataQIDs maps source locations to their Wikidata identifiers, used
	// when the CSV carries no explicit QID. "Krušev ac" covers an encoding
	// artifact seen in the source data.
	wikidataQIDs = map[string]string{
		"Serbia":     "Q403",
		"Albania":    "Q222",
		"Montenegro": "Q236",
		"Turkey":     "Q43",
		"Bosnia":     "Q225",
		"Greece":     "Q41",
		"Bulgaria":   "Q219",
		"Romania":    "Q218",
		"Croatia":    "Q224",
		"Istanbul":   "Q406",
		"Kruševac":   "Q201442",
		"Krušev ac":  "Q201442",
	}

	languageNames = map[string]string{
		"sr": "Serbian",
		"sq": "Albanian",
		"en": "English",
		"de": "German",
		"hy": "Armenian",
		"tr": "Turkish",
	}

	imageMIMETypes = map[string]string{
		"jpg":  "image/jpeg",
		"jpeg": "image/jpeg",
		"png":  "image/png",
		"pdf":  "application/pdf",
	}

	strippedExtensions = []string{".csv", ".pdf", ".jpg", ".JPG", ".jpeg", ".png"}
)

// Synthesizer turns one dataset record into a complete TEI document, filling
// boilerplate from the extracted template and recording every field defect on
// the warning collector. Synthesis is best-effort: malformed input degrades
// to a fallback value, it never aborts the document.
type Synthesizer struct {
	template TemplateData
	folders  dataset.FolderMap
	now      func() time.Time
}

// Option customizes a Synthesizer during construction.
type Option func(*Synthesizer)

// WithClock overrides the clock that feeds the publication date, the single
// node that may differ between two otherwise identical runs.
func WithClock(clock func() time.Time) Option {
	return func(s *Synthesizer) {
		s.now = clock
	}
}

// NewSynthesizer builds a synthesizer over the given template data and folder
// mapping.
func NewSynthesizer(tmpl TemplateData, folders dataset.FolderMap, opts ...Option) *Synthesizer {
	s := &Synthesizer{
		template: tmpl,
		folders:  folders,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Synthesize builds the TEI document for one record. The tree is fully
// determined by the record, the template data and the injected clock; two
// calls with the same inputs produce structurally identical documents.
func (s *Synthesizer) Synthesize(rec dataset.Record, wc *warnings.Collector) *Node {
	id := rec.ID()
	if id == "" {
		id = "000"
	}
	title := rec.Get(dataset.FieldTitle)
	if title == "" {
		title = "Untitled Dataset"
	}

	citation := rec.Get(dataset.FieldCitation)
	authors := parseCitationAuthors(citation)

	root := NewNode("TEI", "")
	header := root.AppendNew("teiHeader", "").WithAttr("xml:lang", "en")
	fileDesc := header.AppendNew("fileDesc", "")

	s.buildTitleStmt(fileDesc, id, title, authors)
	s.buildPublicationStmt(fileDesc, rec, id)
	s.buildSeriesStmt(fileDesc)
	s.buildSourceDesc(fileDesc, rec, id, title, citation, authors, wc)
	s.buildEncodingDesc(header)
	s.buildProfileDesc(header, rec)
	s.buildBody(root, rec)

	return root
}

func (s *Synthesizer) buildTitleStmt(fileDesc *Node, id, title string, authors []string) {
	titleStmt := fileDesc.AppendNew("titleStmt", "")
	titleStmt.AppendNew("title", fmt.Sprintf("Nr. %s: %s", id, title))

	editors := 0
	for _, name := range authors {
		if editors == 3 {
			break
		}
		editors++
		forename, surname, ok := splitPersonName(name)
		if !ok {
			continue
		}
		editor := titleStmt.AppendNew("editor", "").WithAttr("ana", "marcrelator:edt")
		appendPersName(editor, forename, surname)
	}
	if len(authors) == 0 {
		editor := titleStmt.AppendNew("editor", "").WithAttr("ana", "marcrelator:edt")
		appendPersName(editor, "FIRST", "LAST")
	}

	respStmt := titleStmt.AppendNew("respStmt", "").WithAttr("ana", "marcrelator:mrk")
	respStmt.AppendNew("resp", "XML encoding")
	appendPersName(respStmt, "Christian", "Steiner")

	funder := titleStmt.AppendNew("funder", "").WithAttr("ana", "marcrelator:fnd")
	funder.AppendNew("orgName", orDefault(s.template.FunderName, "Austrian Science Fund (FWF)")).
		WithAttr("ref", orDefault(s.template.FunderRef, "https://www.fwf.ac.at/de/"))
	funder.AppendNew("num", orDefault(s.template.FunderNum, "P 38285-G"))
}

func (s *Synthesizer) buildPublicationStmt(fileDesc *Node, rec dataset.Record, id string) {
	pubStmt := fileDesc.AppendNew("publicationStmt", "")

	publisher := pubStmt.AppendNew("publisher", "")
	publisher.AppendNew("orgName", orDefault(s.template.PublisherName, "Institut für Geschichte, Universität Graz")).
		WithAttr("corresp", orDefault(s.template.PublisherCorresp, "http://geschichte.uni-graz.at/"))

	authority := pubStmt.AppendNew("authority", "").WithAttr("ana", "marcrelator:his")
	authority.AppendNew("orgName", orDefault(s.template.AuthorityName, "Digital Humanities Craft OG")).
		WithAttr("corresp", orDefault(s.template.AuthorityCorresp, "https://dhcraft.org"))

	authority2 := pubStmt.AppendNew("authority", "").WithAttr("ana", "marcrelator:his")
	authority2.AppendNew("orgName", "Institut für Digitale Geisteswissenschaften, Universität Graz").
		WithAttr("ref", "https://digital-humanities.uni-graz.at")

	distributor := pubStmt.AppendNew("distributor", "").WithAttr("ana", "marcrelator:rps")
	distributor.AppendNew("orgName", orDefault(s.template.DistributorName, "GAMS - Geisteswissenschaftliches Asset Management System")).
		WithAttr("ref", orDefault(s.template.DistributorRef, "https://gams.uni-graz.at"))

	availability := pubStmt.AppendNew("availability", "")
	availability.AppendNew("licence", orDefault(s.template.LicenseText, "Creative Commons BY-NC 4.0")).
		WithAttr("target", orDefault(s.template.LicenseTarget, "https://creativecommons.org/licenses/by-nc/4.0"))

	year := fmt.Sprintf("%d", s.now().Year())
	pubStmt.AppendNew("date", year).WithAttr("when", year).WithAttr("ana", "dcterms:issued")

	pubStmt.AppendNew("pubPlace", orDefault(s.template.PubPlace, "Graz")).WithAttr("ana", "marcrelator:pup")

	pid := rec.Get(dataset.FieldPID)
	if pid == "" {
		pid = fmt.Sprintf("o:histdem.%s", id)
	}
	pubStmt.AppendNew("idno", pid).WithAttr("type", "PID")
}

func (s *Synthesizer) buildSeriesStmt(fileDesc *Node) {
	seriesStmt := fileDesc.AppendNew("seriesStmt", "")

	for _, title := range s.template.SeriesTitles {
		node := seriesStmt.AppendNew("title", title.Text)
		if title.Ref != "" {
			node.WithAttr("ref", title.Ref)
		}
		if title.Lang != "" {
			node.WithAttr("xml:lang", title.Lang)
		}
	}

	if pdr := s.template.ProjectDirector; pdr != nil {
		stmt := seriesStmt.AppendNew("respStmt", "").WithAttr("ana", "marcrelator:pdr")
		stmt.AppendNew("resp", pdr.Resp)
		appendPersName(stmt, pdr.Forename, pdr.Surname)
	}
	if team := s.template.ResearchTeam; team != nil {
		stmt := seriesStmt.AppendNew("respStmt", "").WithAttr("ana", "marcrelator:rth")
		stmt.AppendNew("resp", team.Resp)
		stmt.AppendNew("orgName", team.Name).WithAttr("ref", team.Ref)
	}
}

func (s *Synthesizer) buildSourceDesc(fileDesc *Node, rec dataset.Record, id, title, citation string, authors []string, wc *warnings.Collector) {
	sourceDesc := fileDesc.AppendNew("sourceDesc", "")
	sourceBibl := sourceDesc.AppendNew("bibl", "")

	year := rec.Get(dataset.FieldYear)
	from := rec.Get(dataset.FieldDateFrom)
	to := rec.Get(dataset.FieldDateTo)
	switch {
	case from != "" && to != "":
		sourceBibl.AppendNew("date", from+"-"+to).
			WithAttr("from", from).WithAttr("to", to).WithAttr("ana", "dcterms:created")
	case year != "":
		sourceBibl.AppendNew("date", year).
			WithAttr("when", year).WithAttr("ana", "dcterms:created")
	default:
		sourceBibl.AppendNew("date", placeholderYear).
			WithAttr("when", placeholderYear).WithAttr("ana", "dcterms:created")
	}

	country := orDefault(rec.Get(dataset.FieldCountry), placeholderCountry)
	countryQID := rec.Get(dataset.FieldCountryWikidata)
	if countryQID == "" {
		countryQID = orDefault(wikidataQIDs[country], "None")
	}
	sourceBibl.AppendNew("country", country).
		WithAttr("ana", "marcrelator:prp").WithAttr("ref", "wd:"+countryQID)

	if region := rec.Get(dataset.FieldRegion); region != "" {
		regionQID := rec.Get(dataset.FieldRegionWikidata)
		if regionQID == "" {
			regionQID = orDefault(wikidataQIDs[region], placeholderQID)
		}
		sourceBibl.AppendNew("region", region).
			WithAttr("ana", "marcrelator:prp").WithAttr("ref", "wd:"+regionQID)
	}

	if citation != "" {
		s.buildCitationBibl(sourceDesc, rec, title, citation, authors)
	}

	dataBibl := NewNode("bibl", "").WithAttr("type", "data")
	s.appendDataFile(dataBibl, rec, id, dataset.FieldCSVCodes, "codes", "Data with Codes", wc)
	s.appendDataFile(dataBibl, rec, id, dataset.FieldCSVLabels, "labels", "Data with Labels", wc)
	sourceDesc.Append(dataBibl)

	if additional := s.buildAdditionalBibl(rec, id, wc); additional != nil {
		sourceDesc.Append(additional)
	}
}

func (s *Synthesizer) buildCitationBibl(sourceDesc *Node, rec dataset.Record, title, citation string, authors []string) {
	bibl := sourceDesc.AppendNew("bibl", "").WithAttr("type", "citation")

	for _, name := range authors {
		bibl.AppendNew("author", name)
	}
	bibl.AppendNew("title", title).WithAttr("level", "a")
	bibl.AppendNew("title", "Mosaic Historical Microdata File").WithAttr("level", "s")

	switch {
	case strings.Contains(citation, "mosaic.ipums.org"):
		bibl.AppendNew("publisher", "mosaic.ipums.org")
	case strings.Contains(citation, "censusmosaic.org"):
		bibl.AppendNew("publisher", "www.censusmosaic.org")
	default:
		bibl.AppendNew("publisher", "mosaic.ipums.org")
	}

	if m := trailingYearPattern.FindStringSubmatch(citation); m != nil {
		bibl.AppendNew("date", m[1])
	} else {
		bibl.AppendNew("date", orDefault(rec.Get(dataset.FieldYear), "2024"))
	}

	rs := bibl.AppendNew("rs", "").WithAttr("type", "citation_recommendation")
	appendMixed(rs, citation)
}

func (s *Synthesizer) appendDataFile(dataBibl *Node, rec dataset.Record, id, field, rsType, defaultTitle string, wc *warnings.Collector) {
	raw := rec.Get(field)
	if raw == "" {
		return
	}
	entry := dataset.ParseEntry(raw, field, id, wc)
	if entry.Filename == "" {
		return
	}
	rs := dataBibl.AppendNew("rs", "").WithAttr("type", rsType)
	rs.AppendNew("title", orDefault(entry.Title, defaultTitle))
	rs.AppendNew("media", "").
		WithAttr("url", s.folders.FileURL(id, entry.Filename)).
		WithAttr("mimeType", "text/csv").
		WithAttr("xml:id", sanitizeID(entry.Filename))
}

func (s *Synthesizer) buildAdditionalBibl(rec dataset.Record, id string, wc *warnings.Collector) *Node {
	bibl := NewNode("bibl", "").WithAttr("type", "additional")

	for i := 1; i <= dataset.MaxExtraFiles; i++ {
		field := dataset.ExtraFileField(i)
		raw := rec.Get(field)
		if raw == "" {
			continue
		}
		entry := dataset.ParseEntry(raw, field, id, wc)
		if entry.Filename == "" {
			continue
		}
		rsType := "literature"
		if strings.Contains(strings.ToLower(entry.Title), "sample") {
			rsType = "sample"
		}
		rs := bibl.AppendNew("rs", "").WithAttr("type", rsType)
		rs.AppendNew("title", orDefault(entry.Title, entry.Filename))
		mime := "application/octet-stream"
		if strings.HasSuffix(entry.Filename, ".pdf") {
			mime = "application/pdf"
		}
		rs.AppendNew("media", "").
			WithAttr("url", s.folders.FileURL(id, entry.Filename)).
			WithAttr("mimeType", mime).
			WithAttr("xml:id", sanitizeID(entry.Filename))
	}

	for i := 1; i <= dataset.MaxImages; i++ {
		field := dataset.ImageField(i)
		raw := rec.Get(field)
		if raw == "" {
			continue
		}
		entry := dataset.ParseEntry(raw, field, id, wc)
		if entry.Filename == "" {
			continue
		}
		lower := strings.ToLower(entry.Title)
		rsType := "scan"
		if strings.Contains(lower, "map") || strings.Contains(lower, "karte") {
			rsType = "map"
		}
		rs := bibl.AppendNew("rs", "").WithAttr("type", rsType)
		rs.AppendNew("title", orDefault(entry.Title, entry.Filename))

		mime := imageMIME(entry.Filename)
		tag := "media"
		if strings.HasPrefix(mime, "image/") {
			tag = "graphic"
		}
		rs.AppendNew(tag, "").
			WithAttr("url", s.folders.FileURL(id, entry.Filename)).
			WithAttr("mimeType", mime).
			WithAttr("xml:id", sanitizeID(entry.Filename))
	}

	for i := 1; i <= dataset.MaxLiterature; i++ {
		raw := rec.Get(dataset.LiteratureField(i))
		if raw == "" {
			continue
		}
		rs := bibl.AppendNew("rs", "").WithAttr("type", "literature")
		rs.AppendNew("title", raw)
	}

	if len(bibl.Children) == 0 {
		return nil
	}
	return bibl
}

func (s *Synthesizer) buildEncodingDesc(header *Node) {
	encodingDesc := header.AppendNew("encodingDesc", "")
	projectDesc := encodingDesc.AppendNew("projectDesc", "")

	if ref := s.template.ProjectRef; ref != nil {
		ab := projectDesc.AppendNew("ab", "")
		ab.AppendNew("ref", ref.Text).
			WithAttr("target", ref.Target).
			WithAttr("type", ref.Type)
	}
	for _, p := range s.template.ProjectParagraphs {
		projectDesc.AppendNew("p", p)
	}

	listPrefix := encodingDesc.AppendNew("listPrefixDef", "")
	marc := listPrefix.AppendNew("prefixDef", "").
		WithAttr("ident", "marcrelator").
		WithAttr("matchPattern", "([a-z]+)").
		WithAttr("replacementPattern", "http://id.loc.gov/vocabulary/relators/$1")
	marc.AppendNew("p", "Taxonomie Rollen MARC")

	dc := listPrefix.AppendNew("prefixDef", "").
		WithAttr("ident", "dcterms").
		WithAttr("matchPattern", "([a-z]+)").
		WithAttr("replacementPattern", "http://purl.org/dc/terms/$1")
	dc.AppendNew("p", "DCterms")

	wd := listPrefix.AppendNew("prefixDef", "").
		WithAttr("ident", "wd").
		WithAttr("matchPattern", `(Q\d+)`).
		WithAttr("replacementPattern", "https://www.wikidata.org/entity/$1")
	wd.AppendNew("p", "Wikidata")
}

func (s *Synthesizer) buildProfileDesc(header *Node, rec dataset.Record) {
	profileDesc := header.AppendNew("profileDesc", "")

	langUsage := profileDesc.AppendNew("langUsage", "")
	codes := orDefault(rec.Get(dataset.FieldLanguageCodes), "en")
	for _, code := range strings.Split(codes, ",") {
		code = strings.TrimSpace(code)
		name, ok := languageNames[code]
		if !ok {
			name = strings.ToUpper(code)
		}
		langUsage.AppendNew("language", name).WithAttr("ident", code)
	}

	textClass := profileDesc.AppendNew("textClass", "")
	list := textClass.AppendNew("keywords", "").AppendNew("list", "")
	for _, keyword := range strings.Split(rec.Get(dataset.FieldKeywords), ",") {
		keyword = strings.TrimSpace(keyword)
		if keyword == "" {
			continue
		}
		list.AppendNew("item", "").AppendNew("term", keyword)
	}
}

func (s *Synthesizer) buildBody(root *Node, rec dataset.Record) {
	body := root.AppendNew("text", "").AppendNew("body", "")

	head := rec.Get(dataset.FieldHeading)
	if head == "" {
		country := orDefault(rec.Get(dataset.FieldCountry), placeholderCountry)
		head = strings.TrimSpace(country + " " + rec.Get(dataset.FieldYear))
	}
	body.AppendNew("head", head)

	description := rec.Get(dataset.FieldDescription)
	if description == "" {
		body.AppendNew("p", "Description pending.")
	} else {
		for _, para := range strings.Split(description, "\n\n") {
			if para = strings.TrimSpace(para); para != "" {
				body.AppendNew("p", para)
			}
		}
	}

	body.AppendNew("note", orDefault(rec.Get(dataset.FieldNotes), "No additional notes."))
}

// parseCitationAuthors pulls author names out of the first clause of a
// citation: the text before the first period or, failing that, before the
// first emphasis marker, split on commas and " and ". The split is a lossy
// best-effort heuristic over human-entered text and the result is meant for
// human review.
func parseCitationAuthors(citation string) []string {
	if citation == "" {
		return nil
	}

	var clause string
	if idx := strings.Index(citation, "."); idx > 0 {
		clause = citation[:idx]
	} else if idx := strings.Index(citation, "*"); idx > 0 {
		clause = citation[:idx]
	} else {
		return nil
	}

	clause = strings.ReplaceAll(clause, " and ", ", ")
	var authors []string
	for _, name := range strings.Split(clause, ",") {
		if name = strings.TrimSpace(name); name != "" {
			authors = append(authors, name)
		}
	}
	return authors
}

// splitPersonName divides a name into forename (all tokens but the last) and
// surname (last token). Single-token names cannot be split.
func splitPersonName(name string) (forename, surname string, ok bool) {
	tokens := strings.Fields(name)
	if len(tokens) < 2 {
		return "", "", false
	}
	return strings.Join(tokens[:len(tokens)-1], " "), tokens[len(tokens)-1], true
}

func appendPersName(parent *Node, forename, surname string) {
	persName := parent.AppendNew("persName", "")
	persName.AppendNew("forename", forename)
	persName.AppendNew("surname", surname)
}

// sanitizeID derives an XML id from a filename. XML ids must start with a
// letter or underscore and avoid most punctuation, so known extensions are
// stripped and spaces, periods and hyphens become underscores.
func sanitizeID(filename string) string {
	if filename == "" {
		return unknownID
	}
	id := filename
	for _, ext := range strippedExtensions {
		id = strings.ReplaceAll(id, ext, "")
	}
	id = strings.NewReplacer(" ", "_", ".", "_", "-", "_").Replace(id)
	if id == "" {
		return unknownID
	}
	if id[0] >= '0' && id[0] <= '9' {
		id = "_" + id
	}
	return id
}

func imageMIME(filename string) string {
	parts := strings.Split(filename, ".")
	ext := strings.ToLower(parts[len(parts)-1])
	if mime, ok := imageMIMETypes[ext]; ok {
		return mime
	}
	return "image/jpeg"
}

func orDefault(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}
