package output

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/df07/go-normal-raytracer/pkg/core"
)

// FormatPPM is the plain-text pixmap format; every other name is resolved
// through imaging (png, jpg, jpeg, gif, tif, tiff, bmp)
const FormatPPM = "ppm"

// ParseFormat normalizes an output format name or file extension
func ParseFormat(name string) (string, error) {
	name = strings.ToLower(strings.TrimPrefix(name, "."))
	if name == FormatPPM {
		return FormatPPM, nil
	}
	if _, err := imaging.FormatFromExtension(name); err != nil {
		return "", fmt.Errorf("unsupported output format %q: %w", name, err)
	}
	return name, nil
}

// FormatFromFilename returns the output format implied by a file name
func FormatFromFilename(filename string) (string, error) {
	return ParseFormat(filepath.Ext(filename))
}

// ContentType returns the MIME type for a format
func ContentType(format string) string {
	switch format {
	case FormatPPM:
		return "image/x-portable-pixmap"
	case "jpg", "jpeg":
		return "image/jpeg"
	case "tif", "tiff":
		return "image/tiff"
	default:
		return "image/" + format
	}
}

// Encode writes img to w in the given format
func Encode(w io.Writer, img image.Image, format string) error {
	format, err := ParseFormat(format)
	if err != nil {
		return err
	}

	if format == FormatPPM {
		return encodePPM(w, img)
	}

	imgFormat, err := imaging.FormatFromExtension(format)
	if err != nil {
		return err
	}
	if err := imaging.Encode(w, img, imgFormat, imaging.JPEGQuality(95)); err != nil {
		return fmt.Errorf("failed to encode %s: %w", format, err)
	}
	return nil
}

// Save writes img to filename, picking the format from its extension
func Save(img image.Image, filename string) error {
	format, err := FormatFromFilename(filename)
	if err != nil {
		return err
	}

	if format != FormatPPM {
		if err := imaging.Save(img, filename, imaging.JPEGQuality(95)); err != nil {
			return fmt.Errorf("failed to save %s: %w", filename, err)
		}
		return nil
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filename, err)
	}
	if err := encodePPM(file, img); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// encodePPM replays an image through the streaming PPM encoder
func encodePPM(w io.Writer, img image.Image) error {
	bounds := img.Bounds()
	encoder := NewPPMEncoder(w)
	if err := encoder.Begin(bounds.Dx(), bounds.Dy()); err != nil {
		return err
	}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			pixel := core.RGB{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8)}
			if err := encoder.WritePixel(pixel); err != nil {
				return err
			}
		}
	}

	return encoder.End()
}
