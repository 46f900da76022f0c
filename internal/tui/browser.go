// Package tui is the interactive audit browser. It uses bubbletea, which
// follows The Elm Architecture: the model holds the state, Update reacts to
// messages, View renders the state to a string.
//
// The browser shows one list entry per dataset with its issue count; enter
// opens a scrollable view of that dataset's issues, esc goes back.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/DigitalHumanitiesCraft/histdem/internal/audit"
)

type browserState int

const (
	// stateList shows the dataset list, stateDetail the issue view for
	// one dataset.
	stateList browserState = iota
	stateDetail
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Padding(0, 1)
	cleanStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	issueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Padding(1, 1)
	detailFrame = lipgloss.NewStyle().Padding(0, 1)
)

// datasetItem implements list.Item for one audited dataset.
type datasetItem struct {
	section audit.Section
}

func (i datasetItem) Title() string {
	return fmt.Sprintf("Dataset %s: %s", i.section.DatasetID, i.section.Title)
}

func (i datasetItem) Description() string {
	if i.section.Clean() {
		return cleanStyle.Render("clean")
	}
	return issueStyle.Render(fmt.Sprintf("%d issue(s)", len(i.section.Issues)))
}

func (i datasetItem) FilterValue() string {
	return i.section.DatasetID + " " + i.section.Title
}

// Browser is the bubbletea model over one audit report.
type Browser struct {
	state    browserState
	report   audit.Report
	source   string
	list     list.Model
	viewport viewport.Model
	selected int
	width    int
	height   int
}

// NewBrowser builds the browser for a finished audit run.
func NewBrowser(report audit.Report, source string) *Browser {
	items := make([]list.Item, len(report.Sections))
	for i, section := range report.Sections {
		items[i] = datasetItem{section: section}
	}

	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = fmt.Sprintf("histdem audit · %s", source)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)

	return &Browser{
		state:    stateList,
		report:   report,
		source:   source,
		list:     l,
		viewport: viewport.New(0, 0),
	}
}

// Init implements tea.Model.
func (b *Browser) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (b *Browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.width = msg.Width
		b.height = msg.Height
		b.list.SetSize(msg.Width, msg.Height-2)
		b.viewport.Width = msg.Width
		b.viewport.Height = msg.Height - 4
		return b, nil

	case tea.KeyMsg:
		switch b.state {
		case stateList:
			switch msg.String() {
			case "q", "ctrl+c":
				return b, tea.Quit
			case "enter":
				if item, ok := b.list.SelectedItem().(datasetItem); ok {
					b.selected = b.list.Index()
					b.viewport.SetContent(renderSection(item.section))
					b.viewport.GotoTop()
					b.state = stateDetail
				}
				return b, nil
			}
		case stateDetail:
			switch msg.String() {
			case "q", "ctrl+c":
				return b, tea.Quit
			case "esc", "backspace":
				b.state = stateList
				return b, nil
			}
		}
	}

	var cmd tea.Cmd
	switch b.state {
	case stateDetail:
		b.viewport, cmd = b.viewport.Update(msg)
	default:
		b.list, cmd = b.list.Update(msg)
	}
	return b, cmd
}

// View implements tea.Model.
func (b *Browser) View() string {
	switch b.state {
	case stateDetail:
		section := b.report.Sections[b.selected]
		header := titleStyle.Render(fmt.Sprintf("Dataset %s: %s", section.DatasetID, section.Title))
		help := helpStyle.Render("esc back · q quit · ↑/↓ scroll")
		return header + "\n" + detailFrame.Render(b.viewport.View()) + "\n" + help
	default:
		summary := fmt.Sprintf("%d dataset(s) · %d with issues · %d issue(s) total",
			len(b.report.Sections), b.report.DatasetsWithIssues(), b.report.TotalIssues())
		return b.list.View() + "\n" + helpStyle.Render(summary+" · enter details · q quit")
	}
}

func renderSection(section audit.Section) string {
	if section.Clean() {
		return cleanStyle.Render("[OK] no issues found - data is complete and consistent")
	}
	var sb strings.Builder
	sb.WriteString(issueStyle.Render(fmt.Sprintf("%d issue(s) found:", len(section.Issues))))
	sb.WriteString("\n\n")
	for _, issue := range section.Issues {
		sb.WriteString("  - " + issue + "\n")
	}
	return sb.String()
}
