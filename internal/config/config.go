// Package config handles project configuration and the .histdem directory
// structure. Every project that runs the histdem tools gets a .histdem/
// folder in its root holding the config file and the run logs.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/DigitalHumanitiesCraft/histdem/internal/dataset"
)

const (
	// HistdemDir is the name of the directory created in each project.
	HistdemDir = ".histdem"

	defaultCSVPath      = "histdem-data.csv"
	defaultTemplatePath = "147_tei.xml"
	defaultOutputDir    = "output"

	defaultMaxImageBytes = 1 << 20
	defaultQualityStart  = 95
	defaultQualityMin    = 60
)

const defaultProjectConfigYAML = `# histdem project configuration
version: 1

paths:
  # Wide-format data table, one dataset per column.
  csv: histdem-data.csv
  # Exemplar TEI used to extract shared metadata. Optional; conversion falls
  # back to built-in defaults when the file is missing.
  template: 147_tei.xml
  # Generated TEI files are written here, one <id>_tei.xml per dataset.
  output: output
  # Dataset folders (datafile_147_Serbia_1863, ...) are resolved under this.
  base: .

# Per-dataset folder overrides. Unlisted ids use the built-in mapping.
folders: {}

compress:
  # Images above this size are reduced in place (bytes).
  max_bytes: 1048576
  quality_start: 95
  quality_min: 60
`

// PathsConfig locates the project inputs and outputs.
type PathsConfig struct {
	CSV      string `yaml:"csv"`
	Template string `yaml:"template"`
	Output   string `yaml:"output"`
	Base     string `yaml:"base"`
}

// CompressConfig bounds the image reduction pass.
type CompressConfig struct {
	MaxBytes     int64 `yaml:"max_bytes"`
	QualityStart int   `yaml:"quality_start"`
	QualityMin   int   `yaml:"quality_min"`
}

// ProjectConfig models .histdem/config.yaml.
type ProjectConfig struct {
	Version  int               `yaml:"version"`
	Paths    PathsConfig       `yaml:"paths"`
	Folders  map[string]string `yaml:"folders"`
	Compress CompressConfig    `yaml:"compress"`
}

// Config holds the runtime configuration for the histdem tools.
type Config struct {
	// ProjectDir is the directory the command was run from.
	ProjectDir string

	// HistdemProjectDir is ProjectDir/.histdem.
	HistdemProjectDir string

	Project ProjectConfig
}

// InitDir creates the .histdem directory structure and the default config
// file in the given project directory.
func InitDir(projectDir string) error {
	histdemDir := filepath.Join(projectDir, HistdemDir)
	for _, dir := range []string{
		histdemDir,
		filepath.Join(histdemDir, "logs"),
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("config: ensure %s: %w", dir, err)
		}
	}
	return ensureProjectConfig(filepath.Join(histdemDir, "config.yaml"))
}

// NewConfig loads the project configuration, falling back to defaults when
// the config file does not exist yet.
func NewConfig(projectDir string) (*Config, error) {
	cfg := &Config{
		ProjectDir:        projectDir,
		HistdemProjectDir: filepath.Join(projectDir, HistdemDir),
		Project:           defaultProjectConfig(),
	}
	if err := cfg.loadProjectConfig(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// CSVPath returns the data table location.
func (c *Config) CSVPath() string {
	return c.resolve(c.Project.Paths.CSV)
}

// TemplatePath returns the exemplar TEI location.
func (c *Config) TemplatePath() string {
	return c.resolve(c.Project.Paths.Template)
}

// OutputDir returns where generated documents are written.
func (c *Config) OutputDir() string {
	return c.resolve(c.Project.Paths.Output)
}

// BaseDir returns the directory the dataset folders live under.
func (c *Config) BaseDir() string {
	return c.resolve(c.Project.Paths.Base)
}

// LogsDir returns the run log directory.
func (c *Config) LogsDir() string {
	return filepath.Join(c.HistdemProjectDir, "logs")
}

// ProjectConfigPath returns the on-disk location of the config file.
func (c *Config) ProjectConfigPath() string {
	return filepath.Join(c.HistdemProjectDir, "config.yaml")
}

// Folders returns the dataset folder mapping: the built-in table with the
// project's overrides applied on top.
func (c *Config) Folders() dataset.FolderMap {
	folders := dataset.DefaultFolders()
	for id, folder := range c.Project.Folders {
		folders[strings.TrimSpace(id)] = strings.TrimSpace(folder)
	}
	return folders
}

// Compress returns the image reduction bounds.
func (c *Config) Compress() CompressConfig {
	return c.Project.Compress
}

func (c *Config) resolve(path string) string {
	path = strings.TrimSpace(path)
	if path == "" || filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Clean(filepath.Join(c.ProjectDir, path))
}

func (c *Config) loadProjectConfig() error {
	path := c.ProjectConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	var parsed ProjectConfig
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	parsed.applyDefaults()
	if err := parsed.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	c.Project = parsed
	return nil
}

func defaultProjectConfig() ProjectConfig {
	return ProjectConfig{
		Version: 1,
		Paths: PathsConfig{
			CSV:      defaultCSVPath,
			Template: defaultTemplatePath,
			Output:   defaultOutputDir,
			Base:     ".",
		},
		Folders: map[string]string{},
		Compress: CompressConfig{
			MaxBytes:     defaultMaxImageBytes,
			QualityStart: defaultQualityStart,
			QualityMin:   defaultQualityMin,
		},
	}
}

func (pc *ProjectConfig) applyDefaults() {
	if pc.Version == 0 {
		pc.Version = 1
	}
	if pc.Paths.CSV == "" {
		pc.Paths.CSV = defaultCSVPath
	}
	if pc.Paths.Template == "" {
		pc.Paths.Template = defaultTemplatePath
	}
	if pc.Paths.Output == "" {
		pc.Paths.Output = defaultOutputDir
	}
	if pc.Paths.Base == "" {
		pc.Paths.Base = "."
	}
	if pc.Folders == nil {
		pc.Folders = map[string]string{}
	}
	if pc.Compress.MaxBytes == 0 {
		pc.Compress.MaxBytes = defaultMaxImageBytes
	}
	if pc.Compress.QualityStart == 0 {
		pc.Compress.QualityStart = defaultQualityStart
	}
	if pc.Compress.QualityMin == 0 {
		pc.Compress.QualityMin = defaultQualityMin
	}
}

func (pc *ProjectConfig) validate() error {
	if pc.Version < 1 {
		return fmt.Errorf("config version must be >= 1")
	}
	if pc.Compress.MaxBytes < 0 {
		return fmt.Errorf("compress.max_bytes must not be negative")
	}
	if pc.Compress.QualityMin > pc.Compress.QualityStart {
		return fmt.Errorf("compress.quality_min must not exceed compress.quality_start")
	}
	for id, folder := range pc.Folders {
		if strings.TrimSpace(id) == "" || strings.TrimSpace(folder) == "" {
			return fmt.Errorf("folders entries need both a dataset id and a folder name")
		}
	}
	return nil
}

func ensureProjectConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(defaultProjectConfigYAML), 0o644)
}
