// Package imageset enumerates the source images a run should process.
//
// Directories contribute the *.jpg and *.png files directly inside them
// (non-recursive); explicit file arguments are accepted with a .jpg, .jpeg
// or .png extension in any case. Everything else is skipped without error:
// unreadable or missing images surface later when they are decoded.
package imageset

import (
	"iter"
	"os"
	"path/filepath"
	"strings"
)

// directoryPatterns are matched in order against directory entries. Matching
// is case-sensitive, so a directory scan never picks up "photo.JPG".
var directoryPatterns = []string{"*.jpg", "*.png"}

var fileExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
}

// Source is one discovered input image.
type Source struct {
	Path string
	// Name is the base file name, used to look up per-file settings.
	Name string
	Stem string
	// Ext keeps the extension exactly as written, including the dot.
	Ext string
}

// NewSource derives name, stem and extension from a path.
func NewSource(path string) Source {
	name := filepath.Base(path)
	ext := filepath.Ext(name)
	return Source{
		Path: path,
		Name: name,
		Stem: strings.TrimSuffix(name, ext),
		Ext:  ext,
	}
}

// IsSupported reports whether a file name carries an accepted image extension.
func IsSupported(name string) bool {
	_, ok := fileExtensions[strings.ToLower(filepath.Ext(name))]
	return ok
}

// MatchesDirectoryScan reports whether a directory scan would pick up name.
func MatchesDirectoryScan(name string) bool {
	for _, pattern := range directoryPatterns {
		if ok, _ := filepath.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

// Collect returns a lazy sequence over the images named by paths. Each call
// to the returned sequence re-reads the filesystem.
func Collect(paths []string) iter.Seq[Source] {
	return func(yield func(Source) bool) {
		for _, path := range paths {
			info, err := os.Stat(path)
			if err == nil && info.IsDir() {
				if !yieldDirectory(path, yield) {
					return
				}
				continue
			}
			if !IsSupported(path) {
				continue
			}
			if !yield(NewSource(path)) {
				return
			}
		}
	}
}

func yieldDirectory(dir string, yield func(Source) bool) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return true
	}
	for _, pattern := range directoryPatterns {
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			if ok, _ := filepath.Match(pattern, entry.Name()); !ok {
				continue
			}
			if !yield(NewSource(filepath.Join(dir, entry.Name()))) {
				return false
			}
		}
	}
	return true
}
