package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/DigitalHumanitiesCraft/histdem/internal/tui"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Walk the audit report interactively",
	Long: `Runs the audit and opens the result in a terminal browser: one list
entry per dataset with its issue count, enter for the full issue list.`,
	RunE: runBrowse,
}

func runBrowse(cmd *cobra.Command, args []string) error {
	report, source, err := buildReport()
	if err != nil {
		return err
	}

	p := tea.NewProgram(tui.NewBrowser(report, source), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run browser: %w", err)
	}
	return nil
}
