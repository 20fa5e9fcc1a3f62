package variants

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// FitWidth shrinks img to width pixels wide, keeping the aspect ratio. The
// height is round(width * h / w) with a minimum of one pixel. Images already
// at most width wide are returned unchanged; nothing is ever upscaled.
func FitWidth(img image.Image, width int) image.Image {
	bounds := img.Bounds()
	srcW, srcH := bounds.Dx(), bounds.Dy()
	if width <= 0 || srcW <= width {
		return img
	}
	height := int(math.Round(float64(width) * float64(srcH) / float64(srcW)))
	if height < 1 {
		height = 1
	}
	return imaging.Resize(img, width, height, imaging.Lanczos)
}
