// Package config loads the layered aiknowsys settings: built-in defaults,
// the user-wide file and the per-project file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"

	"github.com/aiknowsys/aiknowsys/internal/verbosity"
)

// EnvConfigHome names the variable that overrides Dir.
const EnvConfigHome = "AIKNOWSYS_CONFIG_HOME"

// ProjectFile is the per-project settings file, relative to the project root.
const ProjectFile = ".aiknowsys.yaml"

// GlobalFile is the user-wide settings file inside Dir().
const GlobalFile = "config.yaml"

// DefaultMaxEssentialsLines is the size above which quality-check warns
// about the essentials file as a whole.
const DefaultMaxEssentialsLines = 800

// Config holds the knowledge-base layout and thresholds.
type Config struct {
	Essentials  string `yaml:"essentials"`
	Changelog   string `yaml:"changelog"`
	Agents      string `yaml:"agents"`
	PatternsDir string `yaml:"patterns_dir"`
	SkillsDir   string `yaml:"skills_dir"`
	AgentsDir   string `yaml:"agents_dir"`

	Compression Compression `yaml:"compression"`
	Quality     Quality     `yaml:"quality"`

	// Sources lists the files that contributed, lowest priority first.
	Sources []string `yaml:"-"`
}

// Compression configures compress-essentials.
type Compression struct {
	MaxSectionLines int `yaml:"max_section_lines"`
}

// Quality configures quality-check.
type Quality struct {
	MaxEssentialsLines int `yaml:"max_essentials_lines"`
}

// Dir returns the directory holding GlobalFile, or "" when there is no home
// directory. $AIKNOWSYS_CONFIG_HOME is used as is; otherwise the directory
// is aiknowsys under $XDG_CONFIG_HOME, %APPDATA% on Windows, or ~/.config.
func Dir() string {
	if dir := os.Getenv(EnvConfigHome); dir != "" {
		return dir
	}

	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" && runtime.GOOS == "windows" {
		base = os.Getenv("APPDATA")
	}
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "aiknowsys")
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Essentials:  "CODEBASE_ESSENTIALS.md",
		Changelog:   "CODEBASE_CHANGELOG.md",
		Agents:      "AGENTS.md",
		PatternsDir: verbosity.DefaultPatternsDir,
		SkillsDir:   ".github/skills",
		AgentsDir:   ".github/agents",
		Compression: Compression{MaxSectionLines: verbosity.DefaultMaxSectionLines},
		Quality:     Quality{MaxEssentialsLines: DefaultMaxEssentialsLines},
	}
}

// Load builds the configuration for the project at root: defaults, then
// the global file, then the project file. Missing files are skipped;
// unreadable or invalid ones are errors.
func Load(root string) (*Config, error) {
	cfg := Default()

	paths := []string{filepath.Join(root, ProjectFile)}
	if dir := Dir(); dir != "" {
		paths = append([]string{filepath.Join(dir, GlobalFile)}, paths...)
	}

	for _, path := range paths {
		found, err := cfg.merge(path)
		if err != nil {
			return nil, err
		}
		if found {
			cfg.Sources = append(cfg.Sources, path)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// merge overlays the non-zero values of the YAML file at path.
func (c *Config) merge(path string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("reading config %s: %w", path, err)
	}

	var overlay Config
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return false, fmt.Errorf("parsing config %s: %w", path, err)
	}

	setString(&c.Essentials, overlay.Essentials)
	setString(&c.Changelog, overlay.Changelog)
	setString(&c.Agents, overlay.Agents)
	setString(&c.PatternsDir, overlay.PatternsDir)
	setString(&c.SkillsDir, overlay.SkillsDir)
	setString(&c.AgentsDir, overlay.AgentsDir)
	if overlay.Compression.MaxSectionLines != 0 {
		c.Compression.MaxSectionLines = overlay.Compression.MaxSectionLines
	}
	if overlay.Quality.MaxEssentialsLines != 0 {
		c.Quality.MaxEssentialsLines = overlay.Quality.MaxEssentialsLines
	}
	return true, nil
}

func setString(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

// Validate rejects settings the rest of the tool cannot work with.
func (c *Config) Validate() error {
	if err := c.Verbosity().Validate(); err != nil {
		return fmt.Errorf("compression.max_section_lines: %w", err)
	}
	if c.Quality.MaxEssentialsLines < 0 {
		return fmt.Errorf("quality.max_essentials_lines must not be negative, got %d", c.Quality.MaxEssentialsLines)
	}
	if filepath.IsAbs(c.PatternsDir) {
		return fmt.Errorf("patterns_dir must be relative to the project root, got %s", c.PatternsDir)
	}
	return nil
}

// Verbosity returns the classifier settings.
func (c *Config) Verbosity() verbosity.Config {
	return verbosity.Config{
		MaxSectionLines: c.Compression.MaxSectionLines,
		PatternsDir:     filepath.ToSlash(c.PatternsDir),
	}
}

// Marshal renders the configuration as YAML, as written by init.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	return data, nil
}
