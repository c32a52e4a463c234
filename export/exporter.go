// Package export writes a rendered frame to files other tools can read.
package export

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"semgraph/render"
)

// ErrUnknownFormat is returned for a format name no exporter handles.
var ErrUnknownFormat = errors.New("unknown export format")

// Format names an export format.
type Format string

const (
	// FormatSVG draws the frame as a standalone SVG image.
	FormatSVG Format = "svg"
	// FormatJSON writes the draw records as JSON.
	FormatJSON Format = "json"
)

// Exporter writes a frame in one format.
type Exporter interface {
	// Export writes f to w.
	Export(f render.Frame, w io.Writer) error
	// Extension returns the file extension for this format, including the dot.
	Extension() string
	// Name returns a human-readable name for this format.
	Name() string
}

// NewExporter creates an exporter for the specified format.
func NewExporter(format Format) (Exporter, error) {
	switch format {
	case FormatSVG:
		return NewSVGExporter(), nil
	case FormatJSON:
		return NewJSONExporter(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
}

// ParseFormat converts a string to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "svg":
		return FormatSVG, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// Formats returns every supported format.
func Formats() []Format {
	return []Format{FormatSVG, FormatJSON}
}

// Descriptions returns human-readable descriptions of all formats.
func Descriptions() map[Format]string {
	return map[Format]string{
		FormatSVG:  "SVG image of halos, edges, nodes and labels",
		FormatJSON: "JSON draw records with positions and colours",
	}
}

// errWriter remembers the first write error so writers without error returns can be checked once.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	if err != nil {
		e.err = err
	}
	return n, err
}
