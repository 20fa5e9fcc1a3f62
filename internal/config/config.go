package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains input, output, and log locations.
type Paths struct {
	Inputs    []string `toml:"inputs" yaml:"inputs"`
	OutputDir string   `toml:"output_dir" yaml:"output_dir"`
	HTMLFile  string   `toml:"html_file" yaml:"html_file"`
	LogDir    string   `toml:"log_dir" yaml:"log_dir"`
}

// Breakpoint names a responsive width threshold.
type Breakpoint struct {
	Label string `toml:"label" yaml:"label"`
	Width int    `toml:"width" yaml:"width"`
}

// Variants controls which resized copies are written per breakpoint.
type Variants struct {
	// Retina adds a second copy at twice the breakpoint width, suffixed "@2x".
	Retina bool `toml:"retina" yaml:"retina"`
	// Formats lists the extra encodings written next to the source format.
	Formats []string `toml:"formats" yaml:"formats"`
}

// QualityOverride replaces default qualities for a single source file.
// Zero fields inherit the default.
type QualityOverride struct {
	JPEG int `toml:"jpeg" yaml:"jpeg"`
	WebP int `toml:"webp" yaml:"webp"`
	AVIF int `toml:"avif" yaml:"avif"`
}

// Quality holds default encoder qualities and per-file overrides keyed by
// source file name (for example "local-joinville.jpg").
type Quality struct {
	JPEG      int                        `toml:"jpeg" yaml:"jpeg"`
	WebP      int                        `toml:"webp" yaml:"webp"`
	AVIF      int                        `toml:"avif" yaml:"avif"`
	Overrides map[string]QualityOverride `toml:"overrides" yaml:"overrides"`
}

// Placeholder configures the blurred preview embedded into the HTML document.
type Placeholder struct {
	Enabled   bool    `toml:"enabled" yaml:"enabled"`
	Size      int     `toml:"size" yaml:"size"`
	BlurSigma float64 `toml:"blur_sigma" yaml:"blur_sigma"`
	Quality   int     `toml:"quality" yaml:"quality"`
	Format    string  `toml:"format" yaml:"format"`
}

// HTML controls placeholder substitution in the site entry document.
type HTML struct {
	Patch bool `toml:"patch" yaml:"patch"`
}

// Workflow contains run-level settings.
type Workflow struct {
	// Jobs is the number of images processed concurrently. 1 keeps runs sequential.
	Jobs int `toml:"jobs" yaml:"jobs"`
	// WatchDebounceMillis delays re-runs in watch mode until events settle.
	WatchDebounceMillis int `toml:"watch_debounce_ms" yaml:"watch_debounce_ms"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format" yaml:"format"`
	Level  string `toml:"level" yaml:"level"`
}

// Config encapsulates all configuration values for imgprep.
//
// Configuration sections:
//   - Paths: input images, output directory, HTML document, log directory
//   - Breakpoints: label/width table shared by every image
//   - Variants: retina copies and extra output formats
//   - Quality: encoder qualities with per-file overrides
//   - Placeholder: blurred data URL preview settings
//   - HTML: placeholder substitution toggle
//   - Workflow: worker count and watch debounce
//   - Logging: log format and level
type Config struct {
	Paths       Paths        `toml:"paths" yaml:"paths"`
	Breakpoints []Breakpoint `toml:"breakpoints" yaml:"breakpoints"`
	Variants    Variants     `toml:"variants" yaml:"variants"`
	Quality     Quality      `toml:"quality" yaml:"quality"`
	Placeholder Placeholder  `toml:"placeholder" yaml:"placeholder"`
	HTML        HTML         `toml:"html" yaml:"html"`
	Workflow    Workflow     `toml:"workflow" yaml:"workflow"`
	Logging     Logging      `toml:"logging" yaml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/imgprep/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		if err := decodeFile(resolvedPath, &cfg); err != nil {
			return nil, "", false, err
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func decodeFile(path string, cfg *Config) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	// Lists replace their defaults rather than merging with them.
	cfg.Paths.Inputs = nil
	cfg.Breakpoints = nil
	cfg.Variants.Formats = nil

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.NewDecoder(file).Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("parse config: %w", err)
		}
	default:
		if err := toml.NewDecoder(file).Decode(cfg); err != nil {
			return fmt.Errorf("parse config: %w", err)
		}
	}

	defaults := Default()
	if cfg.Paths.Inputs == nil {
		cfg.Paths.Inputs = defaults.Paths.Inputs
	}
	if cfg.Breakpoints == nil {
		cfg.Breakpoints = defaults.Breakpoints
	}
	if cfg.Variants.Formats == nil {
		cfg.Variants.Formats = defaults.Variants.Formats
	}
	return nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	projectPath, err := filepath.Abs("imgprep.toml")
	if err != nil {
		return "", false, err
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}

	return defaultPath, false, nil
}

// PatchHTML reports whether placeholder substitution should run.
func (c *Config) PatchHTML() bool {
	return c.HTML.Patch && c.Placeholder.Enabled && strings.TrimSpace(c.Paths.HTMLFile) != ""
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// SampleConfig returns the annotated sample configuration.
func SampleConfig() string {
	return sampleConfig
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
