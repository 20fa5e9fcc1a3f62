package pipeline

import (
	"imgprep/internal/config"
	"imgprep/internal/faults"
	"imgprep/internal/variants"
)

// GeneratorOptions translates the configuration into variant generator options.
func GeneratorOptions(cfg *config.Config) (variants.Options, error) {
	breakpoints := make([]variants.Breakpoint, 0, len(cfg.Breakpoints))
	for _, bp := range cfg.Breakpoints {
		breakpoints = append(breakpoints, variants.Breakpoint{Label: bp.Label, Width: bp.Width})
	}
	table, err := variants.NewTable(breakpoints)
	if err != nil {
		return variants.Options{}, faults.Wrap(faults.ErrConfiguration, "pipeline", "breakpoints", "", err)
	}

	formats := make([]variants.Format, 0, len(cfg.Variants.Formats))
	for _, format := range cfg.Variants.Formats {
		formats = append(formats, variants.Format(format))
	}

	opts := variants.Options{
		Table:   table,
		Quality: QualitySettings(cfg.Quality),
		Retina:  cfg.Variants.Retina,
		Formats: formats,
	}
	if cfg.Placeholder.Enabled {
		opts.Placeholder = &variants.PlaceholderOptions{
			Size:      cfg.Placeholder.Size,
			BlurSigma: cfg.Placeholder.BlurSigma,
			Quality:   cfg.Placeholder.Quality,
			Format:    variants.Format(cfg.Placeholder.Format),
		}
	}
	return opts, nil
}

// QualitySettings converts the quality section into lookup form.
func QualitySettings(q config.Quality) variants.QualitySettings {
	overrides := make(map[string]map[variants.Format]int, len(q.Overrides))
	for name, o := range q.Overrides {
		overrides[name] = map[variants.Format]int{
			variants.FormatJPEG: o.JPEG,
			variants.FormatWebP: o.WebP,
			variants.FormatAVIF: o.AVIF,
		}
	}
	return variants.NewQualitySettings(map[variants.Format]int{
		variants.FormatJPEG: q.JPEG,
		variants.FormatWebP: q.WebP,
		variants.FormatAVIF: q.AVIF,
	}, overrides)
}
