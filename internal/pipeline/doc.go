// Package pipeline runs one complete imgprep pass.
//
// A run takes the output lock, checks the filesystem, wipes the output
// directory, enumerates sources, generates variants (sequentially or with a
// bounded worker pool), merges the placeholder data URLs and finally patches
// the HTML document once. Every run carries its own run_id on the logger.
package pipeline
