package main

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/DigitalHumanitiesCraft/histdem/internal/compress"
	"github.com/DigitalHumanitiesCraft/histdem/internal/logging"
)

var flagDryRun bool

var compressCmd = &cobra.Command{
	Use:   "compress [all|dataset-id]",
	Short: "Reduce oversized images in the dataset folders",
	Long: `Re-encodes images above the configured size bound (1 MiB by
default) at descending JPEG quality, downscaling once when quality alone is
not enough. A .backup copy of every touched file is kept. Pass a dataset id
to limit the run to one folder, or "all" for every mapped folder.`,
	Args: cobra.ExactArgs(1),
	RunE: runCompress,
}

func init() {
	compressCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "report what would be compressed without writing")
}

func runCompress(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.ProjectDir)
	if err != nil {
		return err
	}
	defer logger.Close()

	folders := cfg.Folders()
	mode := args[0]

	var ids []string
	if mode == "all" {
		for id := range folders {
			ids = append(ids, id)
		}
		sort.Strings(ids)
	} else {
		if _, ok := folders.Folder(mode); !ok {
			return fmt.Errorf("unknown dataset id %q (use 'all' or a mapped id, e.g. '147')", mode)
		}
		ids = []string{mode}
	}

	opts := compress.Options{
		MaxBytes:     cfg.Compress().MaxBytes,
		QualityStart: cfg.Compress().QualityStart,
		QualityMin:   cfg.Compress().QualityMin,
	}

	if flagDryRun {
		fmt.Println("\n=== DRY RUN (no changes) ===")
	} else {
		fmt.Println("\n=== IMAGE COMPRESSION ===")
		fmt.Printf("Maximum file size: %.2f MB\n", mb(opts.MaxBytes))
		fmt.Println("Backup files (.backup) are created for every touched image")
	}

	totalFolders, totalImages, totalCompressed, totalFailed := 0, 0, 0, 0
	var totalSaved int64

	for _, id := range ids {
		folder, _ := folders.Folder(id)
		dir := filepath.Join(cfg.BaseDir(), folder)

		fmt.Printf("\nDataset %s: %s\n", id, folder)
		stats, err := compress.Folder(dir, opts, flagDryRun)
		if err != nil {
			fmt.Printf("  [WARNING] %v\n", err)
			logger.Printf("compress: dataset %s: %v", id, err)
			continue
		}
		totalFolders++
		totalImages += stats.Total
		totalCompressed += stats.Compressed
		totalFailed += stats.Failed
		totalSaved += stats.SavedBytes

		for _, r := range stats.Results {
			name := filepath.Base(r.Path)
			switch {
			case r.Skipped:
				fmt.Printf("  [OK] %s: %.2f MB (already under limit)\n", name, mb(r.OriginalBytes))
			case flagDryRun:
				fmt.Printf("  [WOULD COMPRESS] %s: %.2f MB\n", name, mb(r.OriginalBytes))
			case r.Compressed:
				q := ""
				if r.Quality > 0 {
					q = fmt.Sprintf(" (quality: %d)", r.Quality)
				}
				fmt.Printf("  [COMPRESSED] %s: %.2f MB -> %.2f MB%s [saved: %.2f MB]\n",
					name, mb(r.OriginalBytes), mb(r.NewBytes), q, mb(r.SavedBytes()))
			default:
				fmt.Printf("  [FAILED] %s: %.2f MB\n", name, mb(r.OriginalBytes))
			}
		}
	}

	fmt.Println("\nSUMMARY")
	fmt.Printf("Folders processed: %d\n", totalFolders)
	fmt.Printf("Images found: %d\n", totalImages)
	fmt.Printf("Images compressed: %d\n", totalCompressed)
	if totalFailed > 0 {
		fmt.Printf("Failed: %d\n", totalFailed)
	}
	if !flagDryRun {
		fmt.Printf("Space saved: %.2f MB\n", mb(totalSaved))
	}
	logger.Printf("compress: %d folders, %d images, %d compressed, %d failed", totalFolders, totalImages, totalCompressed, totalFailed)
	return nil
}

func mb(bytes int64) float64 {
	return float64(bytes) / (1024 * 1024)
}
