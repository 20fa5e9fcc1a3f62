package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"imgprep/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test:
// <base>/images as the only input, <base>/out as output and <base>/index.html
// as the HTML document. Directories are created; the HTML file is not.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.Inputs = []string{filepath.Join(base, "images")}
	cfgVal.Paths.OutputDir = filepath.Join(base, "out")
	cfgVal.Paths.HTMLFile = filepath.Join(base, "index.html")
	cfgVal.Logging.Level = "debug"

	if err := os.MkdirAll(cfgVal.Paths.Inputs[0], 0o755); err != nil {
		t.Fatalf("mkdir inputs: %v", err)
	}

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}
	return builder.cfg
}

// WithBreakpoints replaces the breakpoint table, usually with tiny widths so
// real encoders stay fast.
func WithBreakpoints(bps ...config.Breakpoint) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Breakpoints = bps
	}
}

// WithoutRetina disables 2x variants.
func WithoutRetina() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Variants.Retina = false
	}
}

// WithFormats sets the extra output formats.
func WithFormats(formats ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Variants.Formats = formats
	}
}

// WithQualityOverride registers a per-file quality override.
func WithQualityOverride(name string, override config.QualityOverride) ConfigOption {
	return func(b *configBuilder) {
		if b.cfg.Quality.Overrides == nil {
			b.cfg.Quality.Overrides = map[string]config.QualityOverride{}
		}
		b.cfg.Quality.Overrides[name] = override
	}
}

// InputDir returns the first input directory of a generated config.
func InputDir(cfg *config.Config) string {
	return cfg.Paths.Inputs[0]
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.OutputDir)
}
