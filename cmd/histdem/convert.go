package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/DigitalHumanitiesCraft/histdem/internal/dataset"
	"github.com/DigitalHumanitiesCraft/histdem/internal/logging"
	"github.com/DigitalHumanitiesCraft/histdem/internal/tei"
	"github.com/DigitalHumanitiesCraft/histdem/internal/warnings"
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Generate one TEI-XML file per dataset from the data table",
	Long: `Reads the wide-format data table, extracts shared metadata from the
exemplar TEI (when present), and writes one <id>_tei.xml per dataset into the
output directory. Conversion is best-effort: defective fields degrade to
placeholder values and are listed as warnings at the end of the run; they
never stop a document from being written.`,
	RunE: runConvert,
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.ProjectDir)
	if err != nil {
		return err
	}
	defer logger.Close()

	tmpl, err := tei.ExtractTemplate(cfg.TemplatePath())
	if err != nil {
		fmt.Printf("Warning: template %s not usable, falling back to built-in defaults\n", cfg.TemplatePath())
		logger.Printf("template unavailable: %v", err)
	} else {
		fmt.Printf("[OK] Loaded template data from %s\n", cfg.TemplatePath())
	}

	fmt.Printf("\nReading CSV file: %s\n", cfg.CSVPath())
	records, err := dataset.LoadTable(cfg.CSVPath())
	if err != nil {
		return err
	}
	fmt.Printf("Found %d datasets\n\n", len(records))
	logger.Printf("convert: %d datasets from %s", len(records), cfg.CSVPath())

	if err := os.MkdirAll(cfg.OutputDir(), 0o755); err != nil {
		return fmt.Errorf("ensure output dir: %w", err)
	}

	wc := warnings.NewCollector()
	synth := tei.NewSynthesizer(tmpl, cfg.Folders())

	written := 0
	for i, rec := range records {
		id := rec.ID()
		if id == "" {
			id = fmt.Sprintf("%d", i+1)
		}
		title := rec.Get(dataset.FieldTitle)
		if title == "" {
			title = "Untitled"
		}
		fmt.Printf("Processing Dataset %s: %s\n", id, title)

		outPath := filepath.Join(cfg.OutputDir(), fmt.Sprintf("%s_tei.xml", id))
		if err := synthesizeOne(synth, rec, wc, outPath); err != nil {
			// A defective dataset must not take the rest of the run down.
			fmt.Printf("  [ERROR] %v\n", err)
			logger.Printf("dataset %s failed: %v", id, err)
			continue
		}
		written++
		fmt.Printf("  [OK] Written to %s\n", outPath)
	}

	fmt.Printf("\n[OK] Conversion complete! Generated %d TEI files in %q\n", written, cfg.OutputDir())

	if wc.Count() > 0 {
		printWarnings(wc)
		logger.RecordWarnings(wc.Items())
	}
	printRunNotes()
	return nil
}

// synthesizeOne builds and writes a single document, converting a synthesis
// panic into an error so the per-dataset loop continues.
func synthesizeOne(synth *tei.Synthesizer, rec dataset.Record, wc *warnings.Collector, outPath string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("synthesis failed: %v", r)
		}
	}()
	doc := synth.Synthesize(rec, wc)
	if writeErr := os.WriteFile(outPath, []byte(tei.Render(doc)), 0o644); writeErr != nil {
		return fmt.Errorf("write document: %w", writeErr)
	}
	return nil
}

func printWarnings(wc *warnings.Collector) {
	bar := "================================================================================"
	fmt.Printf("\n%s\n", bar)
	fmt.Println("WARNINGS AND ERRORS IN CSV DATA:")
	fmt.Println(bar)
	for _, w := range wc.Items() {
		fmt.Printf("  %s\n", w)
	}
	fmt.Println(bar)
	fmt.Println("NOTE: TEI files were generated despite the warnings, but may be incomplete.")
	fmt.Println("Please fix the CSV data and run the conversion again.")
	fmt.Printf("%s\n\n", bar)
}

func printRunNotes() {
	fmt.Println("\nAutomated features:")
	fmt.Println("  - standard metadata extracted from the exemplar TEI template")
	fmt.Println("  - authors parsed from the citation text")
	fmt.Println("  - inline markup (*italic*) converted to <hi rend='italic'>")
	fmt.Println("  - countries and regions mapped to Wikidata QIDs")
	fmt.Println("  - file URLs prefixed with their dataset folder")
	fmt.Println("\nManual follow-up required:")
	fmt.Println("  1. review author parsing accuracy (complex names may need fixing)")
	fmt.Println("  2. add Wikidata QIDs for unknown places (search for 'wd:QXXX')")
	fmt.Println("  3. validate against the histdem.rng schema")
}
