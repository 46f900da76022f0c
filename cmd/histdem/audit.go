package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/DigitalHumanitiesCraft/histdem/internal/audit"
	"github.com/DigitalHumanitiesCraft/histdem/internal/dataset"
	"github.com/DigitalHumanitiesCraft/histdem/internal/logging"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Validate the data table and report inconsistencies",
	Long: `Runs every consistency rule over the data table and prints a
human-readable report, one section per dataset. The exit code is 0 when no
issue was found anywhere and 1 otherwise, so the audit gates CI and scripts.`,
	RunE: runAudit,
}

func runAudit(cmd *cobra.Command, args []string) error {
	report, source, err := buildReport()
	if err != nil {
		return err
	}
	audit.WriteReport(os.Stdout, report, source)
	os.Exit(report.ExitCode())
	return nil
}

// buildReport loads the table and audits every record. Shared by audit and
// browse.
func buildReport() (audit.Report, string, error) {
	cfg, err := loadConfig()
	if err != nil {
		return audit.Report{}, "", err
	}
	logger, err := logging.New(cfg.ProjectDir)
	if err != nil {
		return audit.Report{}, "", err
	}
	defer logger.Close()

	records, err := dataset.LoadTable(cfg.CSVPath())
	if err != nil {
		return audit.Report{}, "", err
	}

	auditor := audit.NewAuditor(cfg.Folders(), cfg.BaseDir())
	report := auditor.AuditTable(records)
	logger.Printf("audit: %d datasets, %d issues", len(report.Sections), report.TotalIssues())
	return report, cfg.CSVPath(), nil
}
