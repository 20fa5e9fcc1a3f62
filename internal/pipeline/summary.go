package pipeline

import (
	"time"

	"imgprep/internal/htmlpatch"
	"imgprep/internal/variants"
)

// ImageSummary describes the output for one source image.
type ImageSummary struct {
	Name        string
	Width       int
	Height      int
	Files       int
	Bytes       int64
	Placeholder bool
}

// Summary describes a completed run.
type Summary struct {
	RunID     string
	OutputDir string
	// Images are listed in enumeration order.
	Images []ImageSummary
	// Skipped lists sources left out because their stem was already taken.
	Skipped []string
	Files   int
	Bytes   int64
	// HTML is nil when no patch was attempted.
	HTML     *htmlpatch.Report
	Duration time.Duration
}

func summarize(result variants.Result) ImageSummary {
	return ImageSummary{
		Name:        result.Source.Name,
		Width:       result.Width,
		Height:      result.Height,
		Files:       len(result.Files),
		Bytes:       result.TotalBytes(),
		Placeholder: result.Placeholder != "",
	}
}
