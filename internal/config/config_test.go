package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"imgprep/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if len(cfg.Paths.Inputs) != 1 || cfg.Paths.Inputs[0] != filepath.Join(cwd, "images") {
		t.Fatalf("unexpected inputs: %v", cfg.Paths.Inputs)
	}
	if cfg.Paths.OutputDir != filepath.Join(cwd, "images", "optimized") {
		t.Fatalf("unexpected output dir: %q", cfg.Paths.OutputDir)
	}
	if cfg.Paths.HTMLFile != filepath.Join(cwd, "index.html") {
		t.Fatalf("unexpected html file: %q", cfg.Paths.HTMLFile)
	}
	if cfg.Paths.LogDir != "" {
		t.Fatalf("expected no log dir by default, got %q", cfg.Paths.LogDir)
	}
	if !cfg.Variants.Retina {
		t.Fatal("expected retina variants enabled by default")
	}
	if strings.Join(cfg.Variants.Formats, ",") != "webp,avif" {
		t.Fatalf("unexpected formats: %v", cfg.Variants.Formats)
	}
	if cfg.Quality.AVIF != 50 || cfg.Quality.JPEG != 85 || cfg.Quality.WebP != 80 {
		t.Fatalf("unexpected quality defaults: %+v", cfg.Quality)
	}
	if !cfg.PatchHTML() {
		t.Fatal("expected html patching enabled by default")
	}
	if cfg.Workflow.Jobs != 1 {
		t.Fatalf("expected sequential default, got %d jobs", cfg.Workflow.Jobs)
	}
}

func TestDefaultBreakpointTable(t *testing.T) {
	want := []config.Breakpoint{
		{Label: "sm", Width: 576},
		{Label: "md", Width: 768},
		{Label: "lg", Width: 992},
		{Label: "xl", Width: 1200},
		{Label: "xxl", Width: 1400},
	}
	got := config.Default().Breakpoints
	if len(got) != len(want) {
		t.Fatalf("expected %d breakpoints, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("breakpoint %d: got %+v want %+v", i, got[i], want[i])
		}
	}
}

func TestLoadCustomTOML(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "imgprep.toml")

	type payload struct {
		Paths struct {
			Inputs    []string `toml:"inputs"`
			OutputDir string   `toml:"output_dir"`
		} `toml:"paths"`
		Breakpoints []config.Breakpoint `toml:"breakpoints"`
		Quality     struct {
			AVIF      int                               `toml:"avif"`
			Overrides map[string]config.QualityOverride `toml:"overrides"`
		} `toml:"quality"`
		Variants struct {
			Retina  bool     `toml:"retina"`
			Formats []string `toml:"formats"`
		} `toml:"variants"`
	}
	custom := payload{}
	custom.Paths.Inputs = []string{filepath.Join(tempDir, "src"), filepath.Join(tempDir, "hero.png")}
	custom.Paths.OutputDir = filepath.Join(tempDir, "out")
	custom.Breakpoints = []config.Breakpoint{{Label: "thumb", Width: 320}}
	custom.Quality.AVIF = 40
	custom.Quality.Overrides = map[string]config.QualityOverride{"local-joinville.jpg": {AVIF: 90}}
	custom.Variants.Formats = []string{"WEBP", ".avif", "webp"}

	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("expected config at %q, got %q (exists=%v)", configPath, resolved, exists)
	}
	if len(cfg.Paths.Inputs) != 2 {
		t.Fatalf("expected inputs to replace defaults, got %v", cfg.Paths.Inputs)
	}
	if len(cfg.Breakpoints) != 1 || cfg.Breakpoints[0].Label != "thumb" {
		t.Fatalf("expected breakpoints to replace defaults, got %+v", cfg.Breakpoints)
	}
	if cfg.Variants.Retina {
		t.Fatal("expected retina disabled by explicit false")
	}
	if strings.Join(cfg.Variants.Formats, ",") != "webp,avif" {
		t.Fatalf("expected normalized formats, got %v", cfg.Variants.Formats)
	}
	if cfg.Quality.AVIF != 40 {
		t.Fatalf("expected avif quality 40, got %d", cfg.Quality.AVIF)
	}
	if cfg.Quality.JPEG != 85 {
		t.Fatalf("expected jpeg default to survive partial config, got %d", cfg.Quality.JPEG)
	}
	if cfg.Quality.Overrides["local-joinville.jpg"].AVIF != 90 {
		t.Fatalf("expected override to load, got %+v", cfg.Quality.Overrides)
	}
}

func TestLoadYAML(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "imgprep.yaml")
	content := `paths:
  inputs: [photos]
  output_dir: public/img
breakpoints:
  - label: sm
    width: 480
placeholder:
  format: jpg
  size: 64
logging:
  level: DEBUG
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected yaml config to be found")
	}
	if len(cfg.Breakpoints) != 1 || cfg.Breakpoints[0].Width != 480 {
		t.Fatalf("unexpected breakpoints: %+v", cfg.Breakpoints)
	}
	if cfg.Placeholder.Format != "jpeg" || cfg.Placeholder.Size != 64 {
		t.Fatalf("unexpected placeholder: %+v", cfg.Placeholder)
	}
	if !cfg.Placeholder.Enabled {
		t.Fatal("expected placeholder default to survive partial config")
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("expected normalized level, got %q", cfg.Logging.Level)
	}
	if !filepath.IsAbs(cfg.Paths.OutputDir) {
		t.Fatalf("expected absolute output dir, got %q", cfg.Paths.OutputDir)
	}
}

func TestValidateRejectsBadConfig(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{
			name:   "duplicate label",
			mutate: func(c *config.Config) {
				c.Breakpoints = append(c.Breakpoints, config.Breakpoint{Label: "sm", Width: 10})
			},
			want:   "duplicated",
		},
		{
			name:   "zero width",
			mutate: func(c *config.Config) { c.Breakpoints[0].Width = 0 },
			want:   "width must be positive",
		},
		{
			name:   "reserved label",
			mutate: func(c *config.Config) { c.Breakpoints[0].Label = "blur" },
			want:   "reserved",
		},
		{
			name:   "unknown format",
			mutate: func(c *config.Config) { c.Variants.Formats = []string{"gif"} },
			want:   "variants.formats",
		},
		{
			name:   "override out of range",
			mutate: func(c *config.Config) { c.Quality.Overrides = map[string]config.QualityOverride{"a.jpg": {AVIF: 101}} },
			want:   `quality.overrides."a.jpg".avif`,
		},
		{
			name:   "too many jobs",
			mutate: func(c *config.Config) { c.Workflow.Jobs = 1000 },
			want:   "workflow.jobs",
		},
		{
			name:   "bad level",
			mutate: func(c *config.Config) { c.Logging.Level = "loud" },
			want:   "logging.level",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Paths.Inputs = []string{"/tmp/in"}
			cfg.Paths.OutputDir = "/tmp/out"
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestEnvOverridesLogLevel(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())
	t.Setenv("IMGPREP_LOG_LEVEL", "warn")

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Logging.Level != "warn" {
		t.Fatalf("expected env level, got %q", cfg.Logging.Level)
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "imgprep.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load sample: %v", err)
	}
	if !exists {
		t.Fatal("expected sample to exist")
	}
	if got := cfg.Quality.Overrides["local-joinville.jpg"].AVIF; got != 90 {
		t.Fatalf("expected sample override avif=90, got %d", got)
	}
	if len(cfg.Breakpoints) != 5 {
		t.Fatalf("expected five sample breakpoints, got %d", len(cfg.Breakpoints))
	}
}

func TestApplyOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	t.Chdir(dir)

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	err = cfg.ApplyOverrides(config.Overrides{
		Inputs:    []string{"photos", "extra/hero.jpg"},
		OutputDir: "public/img",
		Jobs:      4,
		NoRetina:  true,
		NoHTML:    true,
	})
	if err != nil {
		t.Fatalf("ApplyOverrides returned error: %v", err)
	}
	cwd, _ := os.Getwd()
	if cfg.Paths.Inputs[0] != filepath.Join(cwd, "photos") || cfg.Paths.Inputs[1] != filepath.Join(cwd, "extra", "hero.jpg") {
		t.Fatalf("unexpected inputs %v", cfg.Paths.Inputs)
	}
	if cfg.Paths.OutputDir != filepath.Join(cwd, "public", "img") {
		t.Fatalf("unexpected output %q", cfg.Paths.OutputDir)
	}
	if cfg.Workflow.Jobs != 4 || cfg.Variants.Retina || cfg.PatchHTML() {
		t.Fatalf("overrides not applied: %+v", cfg)
	}

	if err := cfg.ApplyOverrides(config.Overrides{OutputDir: "photos"}); err == nil {
		t.Fatal("expected output equal to an input to be rejected")
	}
}
