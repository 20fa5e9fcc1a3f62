package variants

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/gen2brain/avif"
)

// avifSpeed trades encode time for size; 0 is slowest, 10 fastest.
const avifSpeed = 6

// Encoder writes an image in one output format.
type Encoder interface {
	Format() Format
	// Encode writes img at the given quality (1-100). Lossless formats ignore it.
	Encode(w io.Writer, img image.Image, quality int) error
	// Extension returns the file extension including the dot.
	Extension() string
	MIMEType() string
}

// Encoders maps formats to their encoder.
type Encoders map[Format]Encoder

// DefaultEncoders returns the production encoder set.
func DefaultEncoders() Encoders {
	return Encoders{
		FormatJPEG: jpegEncoder{},
		FormatPNG:  pngEncoder{},
		FormatWebP: webpEncoder{},
		FormatAVIF: avifEncoder{},
	}
}

// Get returns the encoder for format or an error naming the missing format.
func (e Encoders) Get(format Format) (Encoder, error) {
	enc, ok := e[format]
	if !ok || enc == nil {
		return nil, fmt.Errorf("no encoder registered for %q", format)
	}
	return enc, nil
}

// SourceFormat maps a source file extension to its output format.
func SourceFormat(ext string) (Format, error) {
	switch strings.ToLower(ext) {
	case ".jpg", ".jpeg":
		return FormatJPEG, nil
	case ".png":
		return FormatPNG, nil
	default:
		return "", fmt.Errorf("unsupported source extension %q", ext)
	}
}

type jpegEncoder struct{}

func (jpegEncoder) Format() Format    { return FormatJPEG }
func (jpegEncoder) Extension() string { return ".jpg" }
func (jpegEncoder) MIMEType() string  { return "image/jpeg" }

func (jpegEncoder) Encode(w io.Writer, img image.Image, quality int) error {
	if quality <= 0 {
		quality = 85
	}
	return imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(quality))
}

type pngEncoder struct{}

func (pngEncoder) Format() Format    { return FormatPNG }
func (pngEncoder) Extension() string { return ".png" }
func (pngEncoder) MIMEType() string  { return "image/png" }

func (pngEncoder) Encode(w io.Writer, img image.Image, _ int) error {
	return imaging.Encode(w, img, imaging.PNG, imaging.PNGCompressionLevel(png.BestCompression))
}

type webpEncoder struct{}

func (webpEncoder) Format() Format    { return FormatWebP }
func (webpEncoder) Extension() string { return ".webp" }
func (webpEncoder) MIMEType() string  { return "image/webp" }

func (webpEncoder) Encode(w io.Writer, img image.Image, quality int) error {
	if quality <= 0 {
		quality = 80
	}
	return webp.Encode(w, img, &webp.Options{Quality: float32(quality)})
}

type avifEncoder struct{}

func (avifEncoder) Format() Format    { return FormatAVIF }
func (avifEncoder) Extension() string { return ".avif" }
func (avifEncoder) MIMEType() string  { return "image/avif" }

func (avifEncoder) Encode(w io.Writer, img image.Image, quality int) error {
	if quality <= 0 {
		quality = 50
	}
	return avif.Encode(w, img, avif.Options{Quality: quality, QualityAlpha: quality, Speed: avifSpeed})
}
