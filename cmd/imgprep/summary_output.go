package main

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"imgprep/internal/pipeline"
)

func printSummary(out io.Writer, summary pipeline.Summary) {
	if len(summary.Images) == 0 {
		fmt.Fprintf(out, "No images found; %s is empty\n", summary.OutputDir)
		return
	}

	rows := make([][]string, 0, len(summary.Images))
	for _, img := range summary.Images {
		rows = append(rows, []string{
			img.Name,
			fmt.Sprintf("%dx%d", img.Width, img.Height),
			strconv.Itoa(img.Files),
			humanize.IBytes(uint64(img.Bytes)),
			yesNo(img.Placeholder),
		})
	}
	footer := []string{
		fmt.Sprintf("%d images", len(summary.Images)),
		"",
		strconv.Itoa(summary.Files),
		humanize.IBytes(uint64(summary.Bytes)),
		"",
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Image", "Source", "Files", "Size", "Placeholder"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignLeft},
		footer,
	))

	fmt.Fprintf(out, "Output: %s (%s)\n", summary.OutputDir, summary.Duration.Round(time.Millisecond))
	for _, path := range summary.Skipped {
		fmt.Fprintf(out, "Skipped duplicate stem: %s\n", path)
	}
	if line := htmlSummaryLine(summary); line != "" {
		fmt.Fprintln(out, line)
	}
}

func htmlSummaryLine(summary pipeline.Summary) string {
	report := summary.HTML
	if report == nil {
		return ""
	}
	if report.Missing {
		return "HTML: document missing; placeholders not inlined"
	}
	line := fmt.Sprintf("HTML: %d placeholder(s) inlined", len(report.Patched))
	if !report.Written {
		line += " (document unchanged)"
	}
	if len(report.NotFound) > 0 {
		notFound := append([]string(nil), report.NotFound...)
		sort.Strings(notFound)
		line += "; not referenced: " + strings.Join(notFound, ", ")
	}
	return line
}
