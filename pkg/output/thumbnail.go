package output

import (
	"image"

	"github.com/nfnt/resize"
)

// Thumbnail downscales img to fit within maxSize x maxSize, keeping the
// aspect ratio. Images already small enough are returned unchanged.
func Thumbnail(img image.Image, maxSize uint) image.Image {
	if maxSize == 0 {
		return img
	}
	return resize.Thumbnail(maxSize, maxSize, img, resize.Lanczos3)
}
