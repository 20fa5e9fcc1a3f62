package variants

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"

	"imgprep/internal/faults"
	"imgprep/internal/imageset"
	"imgprep/internal/logging"
)

// Options describes which variants a Generator writes.
type Options struct {
	Table   Table
	Quality QualitySettings
	// Retina adds a 2x copy per breakpoint.
	Retina bool
	// Formats are written in addition to the source format.
	Formats []Format
	// Placeholder is nil when no data URL should be produced.
	Placeholder *PlaceholderOptions
}

// File describes one written variant.
type File struct {
	Path    string
	Label   string
	Density Density
	Format  Format
	Quality int
	Width   int
	Height  int
	Bytes   int64
}

// Result collects everything produced for one source image.
type Result struct {
	Source      imageset.Source
	Width       int
	Height      int
	Files       []File
	Placeholder string
}

// TotalBytes sums the size of all written variants.
func (r Result) TotalBytes() int64 {
	var total int64
	for _, f := range r.Files {
		total += f.Bytes
	}
	return total
}

// Generator resizes and re-encodes source images. It holds no per-image
// state and is safe for concurrent use.
type Generator struct {
	opts     Options
	encoders Encoders
	logger   *slog.Logger
}

// NewGenerator checks that every requested format has an encoder.
func NewGenerator(opts Options, encoders Encoders, logger *slog.Logger) (*Generator, error) {
	if opts.Table.Len() == 0 {
		return nil, errors.New("variants: breakpoint table is empty")
	}
	if encoders == nil {
		encoders = DefaultEncoders()
	}
	for _, format := range opts.Formats {
		if _, err := encoders.Get(format); err != nil {
			return nil, fmt.Errorf("variants: %w", err)
		}
	}
	if opts.Placeholder != nil {
		if _, err := encoders.Get(opts.Placeholder.Format); err != nil {
			return nil, fmt.Errorf("variants: placeholder: %w", err)
		}
	}
	return &Generator{
		opts:     opts,
		encoders: encoders,
		logger:   logging.NewComponentLogger(logger, "variants"),
	}, nil
}

// Generate decodes src and writes every variant into outDir.
func (g *Generator) Generate(ctx context.Context, src imageset.Source, outDir string) (Result, error) {
	result := Result{Source: src}
	logger := logging.WithContext(ctx, g.logger).With(logging.String(logging.FieldImage, src.Name))

	sourceFormat, err := SourceFormat(src.Ext)
	if err != nil {
		return result, faults.Wrap(faults.ErrDecode, "variants", "detect format", src.Path, err)
	}

	img, err := imaging.Open(src.Path, imaging.AutoOrientation(true))
	if err != nil {
		return result, faults.Wrap(faults.ErrDecode, "variants", "decode", src.Path, err)
	}
	bounds := img.Bounds()
	result.Width, result.Height = bounds.Dx(), bounds.Dy()
	logger.Debug("decoded source", logging.Int("width", result.Width), logging.Int("height", result.Height))

	formats := g.formatsFor(sourceFormat)
	resized := make(map[int]image.Image)

	for _, bp := range g.opts.Table.Entries() {
		for _, density := range g.densities() {
			if err := ctx.Err(); err != nil {
				return result, err
			}
			target := bp.Width * int(density)
			variant, ok := resized[target]
			if !ok {
				variant = FitWidth(img, target)
				resized[target] = variant
			}
			for _, format := range formats {
				file, err := g.write(variant, src, bp.Label, density, format, sourceFormat, outDir)
				if err != nil {
					return result, err
				}
				logger.Debug("wrote variant",
					logging.String("file", filepath.Base(file.Path)),
					logging.Int("quality", file.Quality),
					logging.Int("width", file.Width),
				)
				result.Files = append(result.Files, file)
			}
		}
	}

	if g.opts.Placeholder != nil {
		enc, _ := g.encoders.Get(g.opts.Placeholder.Format)
		url, err := DataURL(img, *g.opts.Placeholder, enc)
		if err != nil {
			return result, faults.Wrap(faults.ErrEncode, "placeholder", "encode", src.Path, err)
		}
		result.Placeholder = url
	}

	return result, nil
}

func (g *Generator) densities() []Density {
	if g.opts.Retina {
		return []Density{Density1x, Density2x}
	}
	return []Density{Density1x}
}

// formatsFor lists the source format first followed by the extra formats,
// skipping an extra that repeats the source format.
func (g *Generator) formatsFor(source Format) []Format {
	formats := []Format{source}
	for _, format := range g.opts.Formats {
		if format != source {
			formats = append(formats, format)
		}
	}
	return formats
}

func (g *Generator) write(img image.Image, src imageset.Source, label string, density Density, format, sourceFormat Format, outDir string) (File, error) {
	enc, err := g.encoders.Get(format)
	if err != nil {
		return File{}, faults.Wrap(faults.ErrEncode, "variants", "select encoder", src.Path, err)
	}
	ext := enc.Extension()
	if format == sourceFormat {
		ext = src.Ext
	}
	path := filepath.Join(outDir, FileName(src.Stem, label, density, ext))
	quality := g.opts.Quality.Lookup(src.Name, format)

	out, err := os.Create(path)
	if err != nil {
		return File{}, faults.Wrap(faults.ErrFilesystem, "variants", "create", path, err)
	}
	if err := enc.Encode(out, img, quality); err != nil {
		_ = out.Close()
		_ = os.Remove(path)
		return File{}, faults.Wrap(faults.ErrEncode, "variants", "encode "+string(format), path, err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(path)
		return File{}, faults.Wrap(faults.ErrFilesystem, "variants", "close", path, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return File{}, faults.Wrap(faults.ErrFilesystem, "variants", "stat", path, err)
	}
	bounds := img.Bounds()
	return File{
		Path:    path,
		Label:   label,
		Density: density,
		Format:  format,
		Quality: quality,
		Width:   bounds.Dx(),
		Height:  bounds.Dy(),
		Bytes:   info.Size(),
	}, nil
}
