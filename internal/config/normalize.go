package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeBreakpoints()
	c.normalizeVariants()
	c.normalizeQuality()
	c.normalizePlaceholder()
	c.normalizeWorkflow()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	inputs := make([]string, 0, len(c.Paths.Inputs))
	for _, input := range c.Paths.Inputs {
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		expanded, err := expandPath(input)
		if err != nil {
			return fmt.Errorf("paths.inputs: %w", err)
		}
		inputs = append(inputs, expanded)
	}
	if len(inputs) == 0 {
		expanded, err := expandPath(defaultInputDir)
		if err != nil {
			return fmt.Errorf("paths.inputs: %w", err)
		}
		inputs = append(inputs, expanded)
	}
	c.Paths.Inputs = inputs

	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	if c.Paths.OutputDir, err = expandPath(strings.TrimSpace(c.Paths.OutputDir)); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if c.Paths.HTMLFile, err = expandPath(strings.TrimSpace(c.Paths.HTMLFile)); err != nil {
		return fmt.Errorf("paths.html_file: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeBreakpoints() {
	for i := range c.Breakpoints {
		c.Breakpoints[i].Label = strings.TrimSpace(c.Breakpoints[i].Label)
	}
}

func (c *Config) normalizeVariants() {
	formats := make([]string, 0, len(c.Variants.Formats))
	seen := make(map[string]struct{}, len(c.Variants.Formats))
	for _, format := range c.Variants.Formats {
		normalized := normalizeFormat(format)
		if normalized == "" {
			continue
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		formats = append(formats, normalized)
	}
	c.Variants.Formats = formats
}

func (c *Config) normalizeQuality() {
	if c.Quality.JPEG <= 0 {
		c.Quality.JPEG = defaultJPEGQuality
	}
	if c.Quality.WebP <= 0 {
		c.Quality.WebP = defaultWebPQuality
	}
	if c.Quality.AVIF <= 0 {
		c.Quality.AVIF = defaultAVIFQuality
	}
	if len(c.Quality.Overrides) == 0 {
		return
	}
	overrides := make(map[string]QualityOverride, len(c.Quality.Overrides))
	for name, override := range c.Quality.Overrides {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		overrides[name] = override
	}
	c.Quality.Overrides = overrides
}

func (c *Config) normalizePlaceholder() {
	if c.Placeholder.Size <= 0 {
		c.Placeholder.Size = defaultPlaceholderSize
	}
	if c.Placeholder.BlurSigma < 0 {
		c.Placeholder.BlurSigma = 0
	}
	if c.Placeholder.Quality <= 0 {
		c.Placeholder.Quality = defaultPlaceholderQuality
	}
	c.Placeholder.Format = normalizeFormat(c.Placeholder.Format)
	if c.Placeholder.Format == "" {
		c.Placeholder.Format = defaultPlaceholderFormat
	}
}

func (c *Config) normalizeWorkflow() {
	if c.Workflow.Jobs <= 0 {
		c.Workflow.Jobs = defaultJobs
	}
	if c.Workflow.WatchDebounceMillis <= 0 {
		c.Workflow.WatchDebounceMillis = defaultWatchDebounceMillis
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	if value, ok := os.LookupEnv("IMGPREP_LOG_LEVEL"); ok && strings.TrimSpace(value) != "" {
		c.Logging.Level = value
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func normalizeFormat(format string) string {
	format = strings.ToLower(strings.TrimSpace(format))
	format = strings.TrimPrefix(format, ".")
	if format == "jpg" {
		return "jpeg"
	}
	return format
}
