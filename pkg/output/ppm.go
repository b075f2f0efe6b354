package output

import (
	"bufio"
	"fmt"
	"io"

	"github.com/df07/go-normal-raytracer/pkg/core"
)

// PPMEncoder streams pixels as a plain-text (P3) portable pixmap
type PPMEncoder struct {
	w       *bufio.Writer
	width   int
	height  int
	written int
}

// NewPPMEncoder creates an encoder writing to w
func NewPPMEncoder(w io.Writer) *PPMEncoder {
	return &PPMEncoder{w: bufio.NewWriter(w)}
}

// Begin writes the P3 header
func (e *PPMEncoder) Begin(width, height int) error {
	e.width, e.height, e.written = width, height, 0
	_, err := fmt.Fprintf(e.w, "P3\n%d %d\n255\n", width, height)
	return err
}

// WritePixel writes one "r g b" line
func (e *PPMEncoder) WritePixel(pixel core.RGB) error {
	if e.written >= e.width*e.height {
		return fmt.Errorf("ppm: pixel %d exceeds %dx%d image", e.written+1, e.width, e.height)
	}
	e.written++
	_, err := fmt.Fprintf(e.w, "%d %d %d\n", pixel.R, pixel.G, pixel.B)
	return err
}

// End flushes buffered output. It fails if fewer pixels than announced
// were written.
func (e *PPMEncoder) End() error {
	if e.written != e.width*e.height {
		return fmt.Errorf("ppm: wrote %d of %d pixels", e.written, e.width*e.height)
	}
	return e.w.Flush()
}
