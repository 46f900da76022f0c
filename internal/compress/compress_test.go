package compress

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsImage(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"map1.jpg", true},
		{"scan.JPG", true},
		{"figure.jpeg", true},
		{"plate.png", true},
		{"archive.tif", true},
		{"archive.tiff", true},
		{"data.csv", false},
		{"notes.pdf", false},
		{"noext", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsImage(tt.path), "path %q", tt.path)
	}
}

func TestResultSavedBytes(t *testing.T) {
	assert.Equal(t, int64(500), Result{Compressed: true, OriginalBytes: 1500, NewBytes: 1000}.SavedBytes())
	assert.Zero(t, Result{Skipped: true, OriginalBytes: 1500, NewBytes: 1500}.SavedBytes())
}

func writeTestImage(t *testing.T, path string, asJPEG bool, side int) int64 {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, side, side))
	for x := 0; x < side; x++ {
		for y := 0; y < side; y++ {
			img.Set(x, y, color.RGBA{uint8(x * 7), uint8(y * 13), uint8(x ^ y), 255})
		}
	}
	var buf bytes.Buffer
	if asJPEG {
		require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 100}))
	} else {
		require.NoError(t, png.Encode(&buf, img))
	}
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return int64(buf.Len())
}

func TestFileSkipsSmallFiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "small.jpg")
	size := writeTestImage(t, path, true, 16)

	result, err := File(path, Options{MaxBytes: size + 1, QualityStart: 95, QualityMin: 60})
	require.NoError(t, err)
	assert.True(t, result.Skipped)
	assert.False(t, result.Compressed)
	assert.Equal(t, size, result.OriginalBytes)

	// Skipped files get no backup.
	assert.NoFileExists(t, path+".backup")
}

func TestFileMissing(t *testing.T) {
	_, err := File(filepath.Join(t.TempDir(), "gone.jpg"), Options{MaxBytes: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stat")
}

func TestFileUndecodable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.jpg")
	require.NoError(t, os.WriteFile(path, []byte("not an image at all"), 0o644))

	_, err := File(path, Options{MaxBytes: 1, QualityStart: 95, QualityMin: 60})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode")
}

// A bound no encoding can meet leaves the original file restored from its
// backup.
func TestFileRestoresOnFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plate.png")
	writeTestImage(t, path, false, 32)
	original, err := os.ReadFile(path)
	require.NoError(t, err)

	_, err = File(path, Options{MaxBytes: 10, QualityStart: 95, QualityMin: 60})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not fit under 10 bytes")

	restored, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, original, restored)
	assert.FileExists(t, path+".backup")
}

func TestFolderDryRun(t *testing.T) {
	dir := t.TempDir()
	big := writeTestImage(t, filepath.Join(dir, "b_large.jpg"), true, 64)
	writeTestImage(t, filepath.Join(dir, "a_small.jpg"), true, 8)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip me"), 0o644))

	stats, err := Folder(dir, Options{MaxBytes: big - 1, QualityStart: 95, QualityMin: 60}, true)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.Compressed)
	assert.Zero(t, stats.Failed)
	require.Len(t, stats.Results, 2)

	// Name order: a_small before b_large.
	assert.True(t, stats.Results[0].Skipped)
	assert.Contains(t, stats.Results[0].Path, "a_small.jpg")
	assert.True(t, stats.Results[1].Compressed)

	// Dry run never touches the files.
	assert.NoFileExists(t, filepath.Join(dir, "b_large.jpg.backup"))
	info, err := os.Stat(filepath.Join(dir, "b_large.jpg"))
	require.NoError(t, err)
	assert.Equal(t, big, info.Size())
}

func TestFolderMissingDir(t *testing.T) {
	_, err := Folder(filepath.Join(t.TempDir(), "absent"), Options{MaxBytes: 1}, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read folder")
}
