package variants

// Format names an output encoding.
type Format string

const (
	FormatJPEG Format = "jpeg"
	FormatPNG  Format = "png"
	FormatWebP Format = "webp"
	FormatAVIF Format = "avif"
)

// QualitySettings holds per-format encoder quality with optional overrides
// keyed by source file name. The zero value yields quality 0 everywhere,
// which encoders treat as their own default.
type QualitySettings struct {
	defaults  map[Format]int
	overrides map[string]map[Format]int
}

// NewQualitySettings copies defaults and overrides. Non-positive override
// values are dropped so they fall back to the default.
func NewQualitySettings(defaults map[Format]int, overrides map[string]map[Format]int) QualitySettings {
	qs := QualitySettings{
		defaults:  make(map[Format]int, len(defaults)),
		overrides: make(map[string]map[Format]int, len(overrides)),
	}
	for format, q := range defaults {
		qs.defaults[format] = q
	}
	for name, perFormat := range overrides {
		copied := make(map[Format]int, len(perFormat))
		for format, q := range perFormat {
			if q > 0 {
				copied[format] = q
			}
		}
		if len(copied) > 0 {
			qs.overrides[name] = copied
		}
	}
	return qs
}

// Lookup returns the quality for encoding fileName as format.
func (q QualitySettings) Lookup(fileName string, format Format) int {
	if perFormat, ok := q.overrides[fileName]; ok {
		if value, ok := perFormat[format]; ok {
			return value
		}
	}
	return q.defaults[format]
}

// Default returns the default quality for format.
func (q QualitySettings) Default(format Format) int {
	return q.defaults[format]
}

// Overridden reports whether fileName has any override.
func (q QualitySettings) Overridden(fileName string) bool {
	_, ok := q.overrides[fileName]
	return ok
}
