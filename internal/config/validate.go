package config

import (
	"errors"
	"fmt"
	"strings"
)

var supportedExtraFormats = map[string]struct{}{
	"jpeg": {},
	"png":  {},
	"webp": {},
	"avif": {},
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateBreakpoints(); err != nil {
		return err
	}
	if err := c.validateVariants(); err != nil {
		return err
	}
	if err := c.validateQuality(); err != nil {
		return err
	}
	if err := c.validatePlaceholder(); err != nil {
		return err
	}
	if err := c.validateWorkflow(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if len(c.Paths.Inputs) == 0 {
		return errors.New("paths.inputs must list at least one file or directory")
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		return errors.New("paths.output_dir must be set")
	}
	for _, input := range c.Paths.Inputs {
		if input == c.Paths.OutputDir {
			return fmt.Errorf("paths.output_dir %q must differ from input %q", c.Paths.OutputDir, input)
		}
	}
	return nil
}

func (c *Config) validateBreakpoints() error {
	if len(c.Breakpoints) == 0 {
		return errors.New("breakpoints must define at least one entry")
	}
	seen := make(map[string]struct{}, len(c.Breakpoints))
	for i, bp := range c.Breakpoints {
		if bp.Label == "" {
			return fmt.Errorf("breakpoints[%d].label must be set", i)
		}
		if strings.ContainsAny(bp.Label, `/\@.`) {
			return fmt.Errorf("breakpoints[%d].label %q must not contain path separators, '@' or '.'", i, bp.Label)
		}
		if bp.Label == "blur" {
			return fmt.Errorf("breakpoints[%d].label %q is reserved for placeholders", i, bp.Label)
		}
		if _, dup := seen[bp.Label]; dup {
			return fmt.Errorf("breakpoints[%d].label %q is duplicated", i, bp.Label)
		}
		seen[bp.Label] = struct{}{}
		if bp.Width <= 0 {
			return fmt.Errorf("breakpoints[%d].width must be positive", i)
		}
	}
	return nil
}

func (c *Config) validateVariants() error {
	for _, format := range c.Variants.Formats {
		if _, ok := supportedExtraFormats[format]; !ok {
			return fmt.Errorf("variants.formats: unsupported format %q", format)
		}
	}
	return nil
}

func (c *Config) validateQuality() error {
	if err := checkQuality("quality.jpeg", c.Quality.JPEG); err != nil {
		return err
	}
	if err := checkQuality("quality.webp", c.Quality.WebP); err != nil {
		return err
	}
	if err := checkQuality("quality.avif", c.Quality.AVIF); err != nil {
		return err
	}
	for name, override := range c.Quality.Overrides {
		prefix := fmt.Sprintf("quality.overrides.%q", name)
		for _, field := range []struct {
			key   string
			value int
		}{
			{"jpeg", override.JPEG},
			{"webp", override.WebP},
			{"avif", override.AVIF},
		} {
			if field.value == 0 {
				continue
			}
			if err := checkQuality(prefix+"."+field.key, field.value); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *Config) validatePlaceholder() error {
	if !c.Placeholder.Enabled {
		return nil
	}
	if c.Placeholder.Size > maxPlaceholderSize {
		return fmt.Errorf("placeholder.size must be at most %d", maxPlaceholderSize)
	}
	if err := checkQuality("placeholder.quality", c.Placeholder.Quality); err != nil {
		return err
	}
	if _, ok := supportedExtraFormats[c.Placeholder.Format]; !ok {
		return fmt.Errorf("placeholder.format: unsupported format %q", c.Placeholder.Format)
	}
	return nil
}

func (c *Config) validateWorkflow() error {
	if c.Workflow.Jobs > maxJobs {
		return fmt.Errorf("workflow.jobs must be at most %d", maxJobs)
	}
	if c.Workflow.WatchDebounceMillis < minWatchDebounceMillis {
		return fmt.Errorf("workflow.watch_debounce_ms must be at least %d", minWatchDebounceMillis)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
}

func checkQuality(key string, value int) error {
	if value < 1 || value > maxQuality {
		return fmt.Errorf("%s must be between 1 and %d", key, maxQuality)
	}
	return nil
}
