package variants

import "strings"

// Density distinguishes standard variants from high-density copies.
type Density int

const (
	Density1x Density = 1
	Density2x Density = 2
)

// Suffix returns the file name suffix for the density ("" or "@2x").
func (d Density) Suffix() string {
	if d == Density2x {
		return "@2x"
	}
	return ""
}

func (d Density) String() string {
	if d == Density2x {
		return "2x"
	}
	return "1x"
}

// FileName builds "{stem}-{label}[@2x]{ext}".
func FileName(stem, label string, density Density, ext string) string {
	return stem + "-" + label + density.Suffix() + ext
}

// BlurFileName is the name earlier tooling used for on-disk placeholders;
// HTML documents may still reference it.
func BlurFileName(stem, ext string) string {
	return stem + "-blur" + ext
}

// IsVariantOf reports whether fileName is a variant of stem for one of labels,
// in any density and extension.
func IsVariantOf(fileName, stem string, labels []string) bool {
	rest, ok := strings.CutPrefix(fileName, stem+"-")
	if !ok {
		return false
	}
	dot := strings.LastIndexByte(rest, '.')
	if dot <= 0 {
		return false
	}
	label := strings.TrimSuffix(rest[:dot], Density2x.Suffix())
	for _, candidate := range labels {
		if candidate == label {
			return true
		}
	}
	return false
}
