// Package compress reduces oversized dataset images in place. Referenced
// scans and maps arrive straight from archive digitization and routinely
// exceed the repository's size limit; this pass walks a dataset folder,
// re-encodes anything above the bound at descending JPEG quality, and falls
// back to a single moderate downscale when quality alone is not enough. A
// .backup copy of every touched file is kept next to the original.
package compress

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
)

const (
	qualityStep = 5
	// downscaleFactor is applied once when the quality descent bottoms out.
	downscaleFactor = 0.9
)

// Options bound one compression pass.
type Options struct {
	// MaxBytes is the target upper bound for the encoded file.
	MaxBytes int64
	// QualityStart and QualityMin bracket the JPEG quality descent.
	QualityStart int
	QualityMin   int
}

// Result describes what happened to one file.
type Result struct {
	Path          string
	Skipped       bool // already under the bound
	Compressed    bool
	OriginalBytes int64
	NewBytes      int64
	Quality       int // 0 when quality played no role
}

// SavedBytes reports how much smaller the file got.
func (r Result) SavedBytes() int64 {
	if !r.Compressed {
		return 0
	}
	return r.OriginalBytes - r.NewBytes
}

// imageExtensions lists the file types the pass will touch.
var imageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".tif": true, ".tiff": true,
}

// IsImage reports whether the path names a supported image file.
func IsImage(path string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(path))]
}

// File compresses a single image to the configured bound. Files already
// under the bound are skipped. On any failure the original file is left (or
// restored) untouched and the error returned.
func File(path string, opts Options) (Result, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Result{Path: path}, fmt.Errorf("compress: stat: %w", err)
	}
	result := Result{Path: path, OriginalBytes: info.Size(), NewBytes: info.Size()}
	if info.Size() <= opts.MaxBytes {
		result.Skipped = true
		return result, nil
	}

	img, err := decode(path)
	if err != nil {
		return result, fmt.Errorf("compress: decode %s: %w", path, err)
	}

	if err := ensureBackup(path); err != nil {
		return result, err
	}

	size, quality, err := encodeUnderBound(path, img, opts)
	if err == nil {
		result.Compressed = true
		result.NewBytes = size
		result.Quality = quality
		return result, nil
	}

	// Quality alone was not enough; shrink once and try again.
	resized := downscale(img)
	size, quality, err = encodeUnderBound(path, resized, opts)
	if err != nil {
		restoreBackup(path)
		return result, fmt.Errorf("compress: %s does not fit under %d bytes", path, opts.MaxBytes)
	}
	result.Compressed = true
	result.NewBytes = size
	result.Quality = quality
	return result, nil
}

// FolderStats summarizes one folder pass.
type FolderStats struct {
	Results    []Result
	Total      int
	Compressed int
	Failed     int
	SavedBytes int64
}

// Folder compresses every supported image directly inside dir, in name
// order. When dryRun is set nothing is written; files above the bound are
// reported as would-compress instead.
func Folder(dir string, opts Options, dryRun bool) (FolderStats, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return FolderStats{}, fmt.Errorf("compress: read folder: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if !entry.IsDir() && IsImage(entry.Name()) {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(paths)

	stats := FolderStats{}
	for _, path := range paths {
		stats.Total++
		if dryRun {
			info, err := os.Stat(path)
			if err != nil {
				stats.Failed++
				continue
			}
			result := Result{Path: path, OriginalBytes: info.Size(), NewBytes: info.Size()}
			if info.Size() <= opts.MaxBytes {
				result.Skipped = true
			} else {
				result.Compressed = true // would be
			}
			stats.Results = append(stats.Results, result)
			if result.Compressed {
				stats.Compressed++
			}
			continue
		}

		result, err := File(path, opts)
		stats.Results = append(stats.Results, result)
		if err != nil {
			stats.Failed++
			continue
		}
		if result.Compressed {
			stats.Compressed++
			stats.SavedBytes += result.SavedBytes()
		}
	}
	return stats, nil
}

func decode(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return png.Decode(file)
	case ".tif", ".tiff":
		return tiff.Decode(file)
	default:
		return jpeg.Decode(file)
	}
}

// encodeUnderBound re-encodes img over path at descending quality until the
// output fits. JPEG output is used for .jpg/.jpeg sources, PNG otherwise
// (PNG has no quality knob, so it gets exactly one attempt).
func encodeUnderBound(path string, img image.Image, opts Options) (int64, int, error) {
	asJPEG := false
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		asJPEG = true
	}

	tmp := path + ".tmp"
	defer os.Remove(tmp)

	quality := opts.QualityStart
	for {
		size, err := encodeTo(tmp, img, asJPEG, quality)
		if err != nil {
			return 0, 0, err
		}
		if size <= opts.MaxBytes {
			if err := os.Rename(tmp, path); err != nil {
				return 0, 0, err
			}
			if !asJPEG {
				quality = 0
			}
			return size, quality, nil
		}
		if !asJPEG || quality-qualityStep < opts.QualityMin {
			return 0, 0, fmt.Errorf("no quality fits")
		}
		quality -= qualityStep
	}
}

func encodeTo(path string, img image.Image, asJPEG bool, quality int) (int64, error) {
	file, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	if asJPEG {
		err = jpeg.Encode(file, img, &jpeg.Options{Quality: quality})
	} else {
		err = png.Encode(file, img)
	}
	if err != nil {
		return 0, err
	}
	info, err := file.Stat()
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

func downscale(img image.Image) image.Image {
	bounds := img.Bounds()
	width := int(float64(bounds.Dx()) * downscaleFactor)
	height := int(float64(bounds.Dy()) * downscaleFactor)
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

func ensureBackup(path string) error {
	backup := path + ".backup"
	if _, err := os.Stat(backup); err == nil {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("compress: read for backup: %w", err)
	}
	if err := os.WriteFile(backup, data, 0o644); err != nil {
		return fmt.Errorf("compress: write backup: %w", err)
	}
	return nil
}

func restoreBackup(path string) {
	backup := path + ".backup"
	if data, err := os.ReadFile(backup); err == nil {
		_ = os.WriteFile(path, data, 0o644)
	}
}
