package io

import (
	"bufio"
	"fmt"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/tiff"

	"github.com/matzehuels/ocrsynth/pkg/canvas"
	"github.com/matzehuels/ocrsynth/pkg/errors"
)

// Format is an image encoding.
type Format string

// Supported formats.
const (
	FormatPNG  Format = "png"
	FormatTIFF Format = "tiff"
)

// Formats lists the supported formats.
var Formats = []Format{FormatPNG, FormatTIFF}

// ParseFormat validates a format name. "tif" is accepted as TIFF.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "png":
		return FormatPNG, nil
	case "tif", "tiff":
		return FormatTIFF, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported image format %q (must be png or tiff)", s)
}

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
}

// Extension returns the file extension including the dot.
func (f Format) Extension() string {
	if f == FormatTIFF {
		return ".tiff"
	}
	return ".png"
}

// ContentType returns the MIME type.
func (f Format) ContentType() string {
	if f == FormatTIFF {
		return "image/tiff"
	}
	return "image/png"
}

var pngEncoder = png.Encoder{CompressionLevel: png.BestCompression}

// Encode writes c to w in the given format.
func Encode(w io.Writer, c *canvas.Canvas, f Format) error {
	var err error
	switch f {
	case FormatPNG:
		err = pngEncoder.Encode(w, c.Gray())
	case FormatTIFF:
		err = tiff.Encode(w, c.Gray(), &tiff.Options{Compression: tiff.Deflate, Predictor: true})
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported image format %q", f)
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", f, err)
	}
	return nil
}

// WriteImage encodes c to a file at path, creating parent directories.
func WriteImage(path string, c *canvas.Canvas, f Format) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(path), err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	bw := bufio.NewWriter(file)
	if err := Encode(bw, c, f); err != nil {
		file.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		file.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return file.Close()
}

// WriteFile writes already-encoded bytes to path, creating parent directories.
func WriteFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
