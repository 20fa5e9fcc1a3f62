package variants

import (
	"bytes"
	"encoding/base64"
	"image"

	"github.com/disintegration/imaging"
)

// PlaceholderOptions configures the blurred preview.
type PlaceholderOptions struct {
	// Size bounds both dimensions of the preview.
	Size      int
	BlurSigma float64
	Quality   int
	Format    Format
}

// DataURL shrinks img into a Size×Size box, blurs it, encodes it with enc and
// returns "data:<mime>;base64,<payload>".
func DataURL(img image.Image, opts PlaceholderOptions, enc Encoder) (string, error) {
	small := image.Image(imaging.Fit(img, opts.Size, opts.Size, imaging.Lanczos))
	if opts.BlurSigma > 0 {
		small = imaging.Blur(small, opts.BlurSigma)
	}

	var buf bytes.Buffer
	if err := enc.Encode(&buf, small, opts.Quality); err != nil {
		return "", err
	}
	return "data:" + enc.MIMEType() + ";base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
