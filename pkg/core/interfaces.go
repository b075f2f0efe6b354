package core

// Logger interface for raytracer logging
type Logger interface {
	Printf(format string, args ...interface{})
}

// RGB is a quantized 8-bit pixel
type RGB struct {
	R, G, B uint8
}

// ImageEncoder consumes rendered pixels. Begin is called once with the
// image size, then WritePixel once per pixel in row-major order starting
// at the top-left corner, then End.
type ImageEncoder interface {
	Begin(width, height int) error
	WritePixel(pixel RGB) error
	End() error
}
