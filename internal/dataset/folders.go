package dataset

import "fmt"

// FolderMap associates a dataset id with the on-disk folder holding its data
// files. Ids outside the map have no folder association; callers degrade
// gracefully (existence checks report the missing mapping, URLs stay bare).
type FolderMap map[string]string

// DefaultFolders returns the folder mapping for the current corpus. The
// mapping is part of the repository layout, not of the CSV, so it lives in
// code; project config may override single entries.
func DefaultFolders() FolderMap {
	return FolderMap{
		"147": "datafile_147_Serbia_1863",
		"21":  "datafile_21_Albania_1918",
		"262": "datafile_262_Montenegro_1879",
		"266": "datafile_266_Armenians_in_Istanbul_1907",
		"153": "datafile_153_Rhodope_mountains_around_1900",
		"234": "datafile_234_Wallachia_1838",
		"154": "datafile_154_Dalmatia_1674",
		"164": "datafile_164_Istanbul_1907",
		"165": "datafile_165_Istanbul_1885",
		"152": "datafile_152_Hungary_1869",
	}
}

// Folder returns the folder name for a dataset id.
func (m FolderMap) Folder(datasetID string) (string, bool) {
	folder, ok := m[datasetID]
	return folder, ok
}

// FileURL builds the relative URL for a data file as referenced from the
// generated TEI. Output documents live in their own subdirectory, hence the
// ../ prefix. Without a folder mapping the filename is returned bare.
func (m FolderMap) FileURL(datasetID, filename string) string {
	if filename == "" {
		return ""
	}
	if folder, ok := m[datasetID]; ok {
		return fmt.Sprintf("../%s/%s", folder, filename)
	}
	return filename
}
