// cmd/histdem/main.go
//
// Entry point for the histdem CLI. One binary carries the whole pipeline:
//
//	histdem audit      validate the data table, report inconsistencies
//	histdem convert    generate one TEI file per dataset
//	histdem compress   reduce oversized images in the dataset folders
//	histdem browse     walk the audit report interactively
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/DigitalHumanitiesCraft/histdem/internal/config"
)

var (
	flagCSV      string
	flagTemplate string
	flagOutput   string
	flagBase     string
)

var rootCmd = &cobra.Command{
	Use:   "histdem",
	Short: "histdem converts the project's dataset table into TEI-XML records",
	Long: `histdem is the data pipeline for the histdem corpus of historical
census datasets. The source of truth is a wide-format CSV where every dataset
occupies one column; the tools audit that table for inconsistencies, convert
it into per-dataset TEI-XML records, and keep the referenced image scans
within the repository size limit.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagCSV, "csv", "", "data table (default from .histdem/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagTemplate, "template", "", "exemplar TEI file for shared metadata")
	rootCmd.PersistentFlags().StringVar(&flagOutput, "output", "", "output directory for generated TEI files")
	rootCmd.PersistentFlags().StringVar(&flagBase, "base", "", "directory the dataset folders live under")

	rootCmd.AddCommand(auditCmd)
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(compressCmd)
	rootCmd.AddCommand(browseCmd)
}

// loadConfig initializes the .histdem directory and loads the project
// configuration, with command-line flags layered on top.
func loadConfig() (*config.Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}
	if err := config.InitDir(cwd); err != nil {
		return nil, err
	}
	cfg, err := config.NewConfig(cwd)
	if err != nil {
		return nil, err
	}
	if flagCSV != "" {
		cfg.Project.Paths.CSV = flagCSV
	}
	if flagTemplate != "" {
		cfg.Project.Paths.Template = flagTemplate
	}
	if flagOutput != "" {
		cfg.Project.Paths.Output = flagOutput
	}
	if flagBase != "" {
		cfg.Project.Paths.Base = flagBase
	}
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
