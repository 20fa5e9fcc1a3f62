// Package logging assembles structured slog loggers used across imgprep.
//
// It owns the console and JSON handlers, level parsing, and output plumbing,
// and exposes helpers so pipeline code tags lines with the run id, the
// component, and the image being processed. The console handler lifts the
// component and image attributes into a readable prefix; the JSON handler
// keeps them as plain fields.
package logging
