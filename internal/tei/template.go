package tei

import (
	"encoding/xml"
	"fmt"
	"os"
	"strings"
)

// TemplateData carries organization-wide boilerplate pulled from an exemplar
// TEI file: publisher, funder, license, series and project description
// metadata that would otherwise be duplicated into every generated document.
// The zero value is a valid "nothing extracted" state; every consumer falls
// back to its own default literal for an empty field.
type TemplateData struct {
	PublisherName    string
	PublisherCorresp string

	AuthorityName    string
	AuthorityCorresp string

	DistributorName string
	DistributorRef  string

	LicenseText   string
	LicenseTarget string

	PubPlace string

	FunderName string
	FunderRef  string
	FunderNum  string

	SeriesTitles []SeriesTitle

	ProjectDirector *PersonCredit
	ResearchTeam    *OrgCredit

	ProjectParagraphs []string
	ProjectRef        *ProjectRef
}

// SeriesTitle is one title of the publication series, with its language and
// reference attributes.
type SeriesTitle struct {
	Text string
	Lang string
	Ref  string
}

// PersonCredit names a person with their responsibility line.
type PersonCredit struct {
	Forename string
	Surname  string
	Resp     string
}

// OrgCredit names an organization with a reference URL and responsibility line.
type OrgCredit struct {
	Name string
	Ref  string
	Resp string
}

// ProjectRef is the project-context link inside the project description.
type ProjectRef struct {
	Text   string
	Target string
	Type   string
}

// exemplar mirrors the subset of the TEI header the extractor reads. Element
// matching is by local name, so the TEI default namespace needs no special
// handling.
type exemplar struct {
	XMLName xml.Name `xml:"TEI"`
	Header  struct {
		FileDesc struct {
			TitleStmt struct {
				Funder *struct {
					OrgName *exemplarOrg `xml:"orgName"`
					Num     string       `xml:"num"`
				} `xml:"funder"`
			} `xml:"titleStmt"`
			PublicationStmt *struct {
				Publisher *struct {
					OrgName *exemplarOrg `xml:"orgName"`
				} `xml:"publisher"`
				Authorities []struct {
					OrgName *exemplarOrg `xml:"orgName"`
				} `xml:"authority"`
				Distributor *struct {
					OrgName *exemplarOrg `xml:"orgName"`
				} `xml:"distributor"`
				Availability *struct {
					Licence *struct {
						Target string `xml:"target,attr"`
						Text   string `xml:",chardata"`
					} `xml:"licence"`
				} `xml:"availability"`
				PubPlace string `xml:"pubPlace"`
			} `xml:"publicationStmt"`
			SeriesStmt *struct {
				Titles []struct {
					Text string `xml:",chardata"`
					Lang string `xml:"lang,attr"`
					Ref  string `xml:"ref,attr"`
				} `xml:"title"`
				RespStmts []struct {
					Ana      string `xml:"ana,attr"`
					Resp     string `xml:"resp"`
					PersName *struct {
						Forename string `xml:"forename"`
						Surname  string `xml:"surname"`
					} `xml:"persName"`
					OrgName *exemplarOrg `xml:"orgName"`
				} `xml:"respStmt"`
			} `xml:"seriesStmt"`
		} `xml:"fileDesc"`
		EncodingDesc struct {
			ProjectDesc *struct {
				Ab *struct {
					Ref *struct {
						Text   string `xml:",chardata"`
						Target string `xml:"target,attr"`
						Type   string `xml:"type,attr"`
					} `xml:"ref"`
				} `xml:"ab"`
				Paragraphs []string `xml:"p"`
			} `xml:"projectDesc"`
		} `xml:"encodingDesc"`
	} `xml:"teiHeader"`
}

type exemplarOrg struct {
	Text    string `xml:",chardata"`
	Corresp string `xml:"corresp,attr"`
	Ref     string `xml:"ref,attr"`
}

// ExtractTemplate reads the exemplar document and pulls the reusable metadata
// out of its header. The exemplar is optional input: a missing or unparsable
// file returns zero TemplateData and an error the caller may log, never a
// hard failure of the run.
func ExtractTemplate(path string) (TemplateData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return TemplateData{}, fmt.Errorf("tei: read template: %w", err)
	}
	tmpl, err := ParseTemplate(data)
	if err != nil {
		return TemplateData{}, fmt.Errorf("tei: parse template %s: %w", path, err)
	}
	return tmpl, nil
}

// ParseTemplate extracts TemplateData from exemplar document bytes.
func ParseTemplate(data []byte) (TemplateData, error) {
	var doc exemplar
	if err := xml.Unmarshal(data, &doc); err != nil {
		return TemplateData{}, err
	}

	var tmpl TemplateData
	fd := doc.Header.FileDesc

	if pub := fd.PublicationStmt; pub != nil {
		if pub.Publisher != nil && pub.Publisher.OrgName != nil {
			tmpl.PublisherName = clean(pub.Publisher.OrgName.Text)
			tmpl.PublisherCorresp = pub.Publisher.OrgName.Corresp
		}
		if len(pub.Authorities) > 0 && pub.Authorities[0].OrgName != nil {
			tmpl.AuthorityName = clean(pub.Authorities[0].OrgName.Text)
			tmpl.AuthorityCorresp = pub.Authorities[0].OrgName.Corresp
		}
		if pub.Distributor != nil && pub.Distributor.OrgName != nil {
			tmpl.DistributorName = clean(pub.Distributor.OrgName.Text)
			tmpl.DistributorRef = pub.Distributor.OrgName.Ref
		}
		if pub.Availability != nil && pub.Availability.Licence != nil {
			tmpl.LicenseText = clean(pub.Availability.Licence.Text)
			tmpl.LicenseTarget = pub.Availability.Licence.Target
		}
		tmpl.PubPlace = clean(pub.PubPlace)
	}

	if funder := fd.TitleStmt.Funder; funder != nil {
		if funder.OrgName != nil {
			tmpl.FunderName = clean(funder.OrgName.Text)
			tmpl.FunderRef = funder.OrgName.Ref
		}
		tmpl.FunderNum = clean(funder.Num)
	}

	if series := fd.SeriesStmt; series != nil {
		for _, title := range series.Titles {
			tmpl.SeriesTitles = append(tmpl.SeriesTitles, SeriesTitle{
				Text: clean(title.Text),
				Lang: title.Lang,
				Ref:  title.Ref,
			})
		}
		for _, resp := range series.RespStmts {
			switch {
			case strings.Contains(resp.Ana, "pdr"):
				if resp.PersName != nil {
					tmpl.ProjectDirector = &PersonCredit{
						Forename: clean(resp.PersName.Forename),
						Surname:  clean(resp.PersName.Surname),
						Resp:     respOr(resp.Resp, "Project director"),
					}
				}
			case strings.Contains(resp.Ana, "rth"):
				if resp.OrgName != nil {
					tmpl.ResearchTeam = &OrgCredit{
						Name: clean(resp.OrgName.Text),
						Ref:  resp.OrgName.Ref,
						Resp: respOr(resp.Resp, "Software development"),
					}
				}
			}
		}
	}

	if desc := doc.Header.EncodingDesc.ProjectDesc; desc != nil {
		for _, p := range desc.Paragraphs {
			if text := clean(p); text != "" {
				tmpl.ProjectParagraphs = append(tmpl.ProjectParagraphs, text)
			}
		}
		if desc.Ab != nil && desc.Ab.Ref != nil {
			tmpl.ProjectRef = &ProjectRef{
				Text:   clean(desc.Ab.Ref.Text),
				Target: desc.Ab.Ref.Target,
				Type:   desc.Ab.Ref.Type,
			}
		}
	}

	return tmpl, nil
}

func clean(s string) string {
	return strings.TrimSpace(s)
}

func respOr(resp, fallback string) string {
	if r := clean(resp); r != "" {
		return r
	}
	return fallback
}
