package output

import (
	"fmt"
	"image"
	"image/color"

	"github.com/df07/go-normal-raytracer/pkg/core"
)

// ImageEncoder collects pixels into an in-memory RGBA image
type ImageEncoder struct {
	img  *image.RGBA
	next int
}

// NewImageEncoder creates an empty image encoder
func NewImageEncoder() *ImageEncoder {
	return &ImageEncoder{}
}

// Begin allocates the image
func (e *ImageEncoder) Begin(width, height int) error {
	e.img = image.NewRGBA(image.Rect(0, 0, width, height))
	e.next = 0
	return nil
}

// WritePixel stores the next pixel in row-major order
func (e *ImageEncoder) WritePixel(pixel core.RGB) error {
	if e.img == nil {
		return fmt.Errorf("image: WritePixel before Begin")
	}
	width := e.img.Rect.Dx()
	if e.next >= width*e.img.Rect.Dy() {
		return fmt.Errorf("image: pixel %d exceeds image bounds %v", e.next+1, e.img.Rect)
	}

	e.img.SetRGBA(e.next%width, e.next/width, color.RGBA{R: pixel.R, G: pixel.G, B: pixel.B, A: 255})
	e.next++
	return nil
}

// End checks that the image is complete
func (e *ImageEncoder) End() error {
	if e.img == nil {
		return fmt.Errorf("image: End before Begin")
	}
	if total := e.img.Rect.Dx() * e.img.Rect.Dy(); e.next != total {
		return fmt.Errorf("image: wrote %d of %d pixels", e.next, total)
	}
	return nil
}

// Image returns the collected image
func (e *ImageEncoder) Image() *image.RGBA {
	return e.img
}
