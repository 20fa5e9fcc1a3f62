package imageset_test

import (
	"iter"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"imgprep/internal/imageset"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func names(seq iter.Seq[imageset.Source]) []string {
	var out []string
	for src := range seq {
		out = append(out, src.Name)
	}
	return out
}

func TestCollectDirectoryYieldsJPGThenPNG(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.png", "a.png", "z.jpg", "hero.jpg", "anim.gif", "notes.txt", "upper.JPG", "photo.jpeg"} {
		touch(t, filepath.Join(dir, name))
	}
	touch(t, filepath.Join(dir, "nested", "deep.jpg"))
	if err := os.Mkdir(filepath.Join(dir, "folder.jpg"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	got := names(imageset.Collect([]string{dir}))
	want := []string{"hero.jpg", "z.jpg", "a.png", "b.png"}
	if !slices.Equal(got, want) {
		t.Fatalf("unexpected images: got %v want %v", got, want)
	}
}

func TestCollectNeverYieldsGIF(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "anim.gif"))
	gif := filepath.Join(dir, "anim.gif")

	if got := names(imageset.Collect([]string{dir, gif})); len(got) != 0 {
		t.Fatalf("expected no images, got %v", got)
	}
}

func TestCollectAcceptsFilesCaseInsensitively(t *testing.T) {
	dir := t.TempDir()
	upper := filepath.Join(dir, "Upper.JPG")
	jpeg := filepath.Join(dir, "photo.jpeg")
	touch(t, upper)
	touch(t, jpeg)
	missing := filepath.Join(dir, "missing.png")
	bogus := filepath.Join(dir, "missing-dir")

	got := names(imageset.Collect([]string{upper, jpeg, missing, bogus}))
	want := []string{"Upper.JPG", "photo.jpeg", "missing.png"}
	if !slices.Equal(got, want) {
		t.Fatalf("unexpected images: got %v want %v", got, want)
	}
}

func TestCollectIsLazy(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.jpg", "b.jpg", "c.jpg"} {
		touch(t, filepath.Join(dir, name))
	}
	count := 0
	for range imageset.Collect([]string{dir}) {
		count++
		if count == 2 {
			break
		}
	}
	if count != 2 {
		t.Fatalf("expected early stop after 2, got %d", count)
	}
}

func TestNewSource(t *testing.T) {
	src := imageset.NewSource(filepath.Join("images", "local-joinville.JPG"))
	if src.Name != "local-joinville.JPG" || src.Stem != "local-joinville" || src.Ext != ".JPG" {
		t.Fatalf("unexpected source: %+v", src)
	}
}

func TestMatchesDirectoryScan(t *testing.T) {
	cases := map[string]bool{
		"a.jpg":  true,
		"a.png":  true,
		"a.JPG":  false,
		"a.jpeg": false,
		"a.gif":  false,
	}
	for name, want := range cases {
		if got := imageset.MatchesDirectoryScan(name); got != want {
			t.Fatalf("MatchesDirectoryScan(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestCollectYieldsMissingImagePaths(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "gone.jpg")
	var got []string
	for src := range imageset.Collect([]string{missing, filepath.Join(t.TempDir(), "gone.txt")}) {
		got = append(got, src.Path)
	}
	if len(got) != 1 || got[0] != missing {
		t.Fatalf("expected only the missing image path, got %v", got)
	}
}
