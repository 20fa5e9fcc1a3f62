// Package faults defines the error markers shared by imgprep stages.
//
// Stage code wraps failures with Wrap so the CLI (and tests) can classify
// them with errors.Is while the message keeps stage and operation context.
package faults

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrDecode        = errors.New("decode error")
	ErrEncode        = errors.New("encode error")
	ErrFilesystem    = errors.New("filesystem error")
	ErrConfiguration = errors.New("configuration error")
	ErrLocked        = errors.New("output directory locked")
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker. The marker should be one of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrFilesystem
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Hint returns a short operator hint for a classified error.
func Hint(err error) string {
	switch {
	case errors.Is(err, ErrDecode):
		return "check that the source is a valid JPEG or PNG image"
	case errors.Is(err, ErrEncode):
		return "check encoder quality settings and available memory"
	case errors.Is(err, ErrConfiguration):
		return "review the configuration file and command-line flags"
	case errors.Is(err, ErrLocked):
		return "another imgprep run is writing the same output directory"
	case errors.Is(err, ErrFilesystem):
		return "check permissions and free space for the output directory"
	default:
		return ""
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "stage failure"
	}
	return strings.Join(parts, ": ")
}
