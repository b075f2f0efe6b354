package renderer

import (
	"fmt"
	"io"

	"github.com/df07/go-normal-raytracer/pkg/core"
)

// DefaultLogger implements core.Logger by writing to stdout
type DefaultLogger struct{}

func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// NewDefaultLogger creates a new default logger
func NewDefaultLogger() core.Logger {
	return &DefaultLogger{}
}

// WriterLogger implements core.Logger on top of an io.Writer
type WriterLogger struct {
	w io.Writer
}

// NewWriterLogger creates a logger writing to w, e.g. os.Stderr when stdout
// carries image data
func NewWriterLogger(w io.Writer) core.Logger {
	return &WriterLogger{w: w}
}

func (wl *WriterLogger) Printf(format string, args ...interface{}) {
	fmt.Fprintf(wl.w, format, args...)
}

// nopLogger discards everything; used when no logger is supplied
type nopLogger struct{}

func (nopLogger) Printf(string, ...interface{}) {}
