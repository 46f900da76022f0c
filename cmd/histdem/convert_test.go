package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DigitalHumanitiesCraft/histdem/internal/dataset"
	"github.com/DigitalHumanitiesCraft/histdem/internal/tei"
	"github.com/DigitalHumanitiesCraft/histdem/internal/warnings"
)

func TestSynthesizeOneWritesDocument(t *testing.T) {
	synth := tei.NewSynthesizer(tei.TemplateData{}, dataset.DefaultFolders())
	path := filepath.Join(t.TempDir(), "147_tei.xml")
	rec := dataset.Record{
		dataset.FieldID:    "147",
		dataset.FieldTitle: "Census Serbia 1863",
	}

	require.NoError(t, synthesizeOne(synth, rec, warnings.NewCollector(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Nr. 147: Census Serbia 1863")
	assert.Contains(t, string(data), `<?xml version="1.0" encoding="UTF-8"?>`)
}

// A blow-up while assembling one document must come back as an error, not
// take the per-dataset loop down.
func TestSynthesizeOneRecoversFromPanic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "147_tei.xml")
	rec := dataset.Record{dataset.FieldID: "147"}

	var synth *tei.Synthesizer // nil synthesizer fails partway through assembly
	err := synthesizeOne(synth, rec, warnings.NewCollector(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "synthesis failed")
	assert.NoFileExists(t, path)
}

func TestSynthesizeOneWriteFailure(t *testing.T) {
	synth := tei.NewSynthesizer(tei.TemplateData{}, dataset.DefaultFolders())
	path := filepath.Join(t.TempDir(), "missing", "147_tei.xml")

	err := synthesizeOne(synth, dataset.Record{dataset.FieldID: "147"}, warnings.NewCollector(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write document")
}
