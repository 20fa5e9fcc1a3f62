package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"imgprep/internal/faults"
	"imgprep/internal/testsupport"
)

const tinyConfig = `[[breakpoints]]
label = "xs"
width = 16

[[breakpoints]]
label = "sm"
width = 32

[variants]
retina = true
formats = ["webp"]

[quality.overrides."hero.png"]
webp = 95
`

type cliEnv struct {
	dir        string
	configPath string
}

// setupCLIEnv runs the test from a temp project directory containing
// images/, index.html and imgprep.toml.
func setupCLIEnv(t *testing.T) *cliEnv {
	t.Helper()
	dir := t.TempDir()
	home := filepath.Join(dir, "home")
	if err := os.MkdirAll(home, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", home)
	t.Setenv("IMGPREP_LOG_LEVEL", "error")
	project := filepath.Join(dir, "site")
	if err := os.MkdirAll(filepath.Join(project, "images"), 0o755); err != nil {
		t.Fatalf("mkdir images: %v", err)
	}
	t.Chdir(project)

	configPath := filepath.Join(project, "imgprep.toml")
	testsupport.WriteFile(t, configPath, []byte(tinyConfig))
	return &cliEnv{dir: project, configPath: configPath}
}

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func TestBuildWritesVariantsAndPatchesHTML(t *testing.T) {
	env := setupCLIEnv(t)
	testsupport.WritePNG(t, filepath.Join(env.dir, "images", "hero.png"), 64, 32)
	testsupport.WriteFile(t, filepath.Join(env.dir, "index.html"),
		[]byte(`<img src="images/optimized/hero-blur.webp" alt="hero">`))

	out, _, err := runCLI(t)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	requireContains(t, out, "hero.png")
	requireContains(t, out, "64x32")
	requireContains(t, out, "HTML: 1 placeholder(s) inlined")

	for _, name := range []string{"hero-xs.png", "hero-xs.webp", "hero-sm@2x.png", "hero-sm@2x.webp"} {
		if _, err := os.Stat(filepath.Join(env.dir, "images", "optimized", name)); err != nil {
			t.Fatalf("expected %s: %v", name, err)
		}
	}
	html, err := os.ReadFile(filepath.Join(env.dir, "index.html"))
	if err != nil {
		t.Fatal(err)
	}
	requireContains(t, string(html), `src="data:image/webp;base64,`)
}

func TestBuildFlagsOverrideConfig(t *testing.T) {
	env := setupCLIEnv(t)
	photos := filepath.Join(env.dir, "photos")
	testsupport.WriteJPEG(t, filepath.Join(photos, "beach.jpg"), 40, 20)

	out, _, err := runCLI(t, "--no-retina", "--no-html", "-o", "public/img", "-j", "2", "photos")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	requireContains(t, out, "beach.jpg")
	if strings.Contains(out, "HTML:") {
		t.Fatalf("expected no html line with --no-html, got %q", out)
	}
	if _, err := os.Stat(filepath.Join(env.dir, "public", "img", "beach-sm.jpg")); err != nil {
		t.Fatalf("expected variant in overridden output: %v", err)
	}
	if _, err := os.Stat(filepath.Join(env.dir, "public", "img", "beach-sm@2x.jpg")); !os.IsNotExist(err) {
		t.Fatalf("expected no retina variant, stat err=%v", err)
	}
}

func TestBuildRefusesToWipeWorkingDirectory(t *testing.T) {
	setupCLIEnv(t)
	_, _, err := runCLI(t, "-o", ".")
	if !errors.Is(err, faults.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestBuildReportsDecodeFailure(t *testing.T) {
	env := setupCLIEnv(t)
	testsupport.WriteFile(t, filepath.Join(env.dir, "images", "broken.jpg"), []byte("not a jpeg"))
	_, _, err := runCLI(t)
	if !errors.Is(err, faults.ErrDecode) {
		t.Fatalf("expected decode error, got %v", err)
	}
	if faults.Hint(err) == "" {
		t.Fatal("expected a hint for decode errors")
	}
}

func TestCheckCommand(t *testing.T) {
	env := setupCLIEnv(t)
	testsupport.WriteFile(t, filepath.Join(env.dir, "index.html"), []byte("<html></html>"))

	out, _, err := runCLI(t, "check")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	requireContains(t, out, "== Preflight ==")
	requireContains(t, out, "Output parent:")
	requireContains(t, out, "[OK]")
	requireContains(t, out, env.configPath)
}

func TestConfigInitAndShow(t *testing.T) {
	env := setupCLIEnv(t)

	target := filepath.Join(env.dir, "conf", "imgprep.toml")
	out, _, err := runCLI(t, "config", "init", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}
	if _, _, err := runCLI(t, "config", "init", target); err == nil {
		t.Fatal("expected init to refuse overwriting an existing file")
	}

	out, _, err = runCLI(t, "--config", target, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	for _, want := range []string{"xxl", "1400", "2800", "avif", "local-joinville.jpg", "90"} {
		requireContains(t, out, want)
	}

	out, _, err = runCLI(t, "config", "show")
	if err != nil {
		t.Fatalf("config show (project config): %v", err)
	}
	requireContains(t, out, env.configPath)
	requireContains(t, out, "hero.png")
	if strings.Contains(out, "xxl") {
		t.Fatalf("expected project breakpoints to replace defaults, got %q", out)
	}
}
