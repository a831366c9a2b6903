// Package output encodes rendered images as PPM or PNG, and produces scaled
// previews.
package output

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Format is an image encoding supported by Encode
type Format string

const (
	FormatPPM       Format = "ppm" // Plain text P3
	FormatPPMBinary Format = "p6"  // Raw P6
	FormatPNG       Format = "png"
)

// ParseFormat resolves a user supplied format name
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "ppm", "p3":
		return FormatPPM, nil
	case "p6", "ppm-binary":
		return FormatPPMBinary, nil
	case "png":
		return FormatPNG, nil
	default:
		return "", fmt.Errorf("unknown output format %q (expected ppm, p6 or png)", name)
	}
}

// Extension returns the file extension, including the dot
func (f Format) Extension() string {
	if f == FormatPNG {
		return ".png"
	}
	return ".ppm"
}

// ContentType returns the MIME type used when serving or uploading
func (f Format) ContentType() string {
	if f == FormatPNG {
		return "image/png"
	}
	return "image/x-portable-pixmap"
}

// Encode writes img to w in the given format
func Encode(w io.Writer, img *image.RGBA, format Format) error {
	switch format {
	case FormatPPM:
		return WritePPM(w, img)
	case FormatPPMBinary:
		return WritePPMBinary(w, img)
	case FormatPNG:
		if err := png.Encode(w, img); err != nil {
			return fmt.Errorf("failed to encode PNG: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// EncodeBytes encodes img into memory
func EncodeBytes(img *image.RGBA, format Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, img, format); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SaveFile encodes img to filename, creating parent directories as needed
func SaveFile(filename string, img *image.RGBA, format Format) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	if err := Encode(file, img, format); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", filename, err)
	}
	return nil
}
