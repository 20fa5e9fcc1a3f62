package config

const (
	defaultInputDir            = "images"
	defaultOutputDir           = "images/optimized"
	defaultHTMLFile            = "index.html"
	defaultJPEGQuality         = 85
	defaultWebPQuality         = 80
	defaultAVIFQuality         = 50
	defaultPlaceholderSize     = 100
	defaultPlaceholderBlur     = 5.0
	defaultPlaceholderQuality  = 20
	defaultPlaceholderFormat   = "webp"
	defaultJobs                = 1
	defaultWatchDebounceMillis = 500
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
	maxQuality                 = 100
	maxPlaceholderSize         = 256
	maxJobs                    = 64
	minWatchDebounceMillis     = 50
)

// DefaultBreakpoints returns the stock responsive width table.
func DefaultBreakpoints() []Breakpoint {
	return []Breakpoint{
		{Label: "sm", Width: 576},
		{Label: "md", Width: 768},
		{Label: "lg", Width: 992},
		{Label: "xl", Width: 1200},
		{Label: "xxl", Width: 1400},
	}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			Inputs:    []string{defaultInputDir},
			OutputDir: defaultOutputDir,
			HTMLFile:  defaultHTMLFile,
		},
		Breakpoints: DefaultBreakpoints(),
		Variants: Variants{
			Retina:  true,
			Formats: []string{"webp", "avif"},
		},
		Quality: Quality{
			JPEG: defaultJPEGQuality,
			WebP: defaultWebPQuality,
			AVIF: defaultAVIFQuality,
		},
		Placeholder: Placeholder{
			Enabled:   true,
			Size:      defaultPlaceholderSize,
			BlurSigma: defaultPlaceholderBlur,
			Quality:   defaultPlaceholderQuality,
			Format:    defaultPlaceholderFormat,
		},
		HTML: HTML{
			Patch: true,
		},
		Workflow: Workflow{
			Jobs:                defaultJobs,
			WatchDebounceMillis: defaultWatchDebounceMillis,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
