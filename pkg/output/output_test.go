package output

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func createTestImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.SetRGBA(0, 0, color.RGBA{255, 0, 0, 255})
	img.SetRGBA(1, 0, color.RGBA{0, 128, 0, 255})
	img.SetRGBA(0, 1, color.RGBA{0, 0, 7, 255})
	img.SetRGBA(1, 1, color.RGBA{10, 20, 30, 255})
	return img
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestWritePPM(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePPM(&buf, createTestImage()); err != nil {
		t.Fatalf("WritePPM failed: %v", err)
	}

	expected := "P3\n2 2\n255\n" +
		"255 0 0\n" +
		"0 128 0\n" +
		"0 0 7\n" +
		"10 20 30\n"
	if buf.String() != expected {
		t.Errorf("Unexpected PPM output:\n%q\nwant\n%q", buf.String(), expected)
	}
}

func TestWritePPM_SubImage(t *testing.T) {
	// Sub-images keep their original bounds; output must start at Min
	sub := createTestImage().SubImage(image.Rect(1, 1, 2, 2)).(*image.RGBA)

	var buf bytes.Buffer
	if err := WritePPM(&buf, sub); err != nil {
		t.Fatalf("WritePPM failed: %v", err)
	}
	if expected := "P3\n1 1\n255\n10 20 30\n"; buf.String() != expected {
		t.Errorf("Expected %q, got %q", expected, buf.String())
	}
}

func TestWritePPM_WriteError(t *testing.T) {
	if err := WritePPM(failingWriter{}, createTestImage()); err == nil {
		t.Error("Expected write error to propagate")
	}
}

func TestWritePPMBinary(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePPMBinary(&buf, createTestImage()); err != nil {
		t.Fatalf("WritePPMBinary failed: %v", err)
	}

	expected := append([]byte("P6\n2 2\n255\n"),
		255, 0, 0, 0, 128, 0,
		0, 0, 7, 10, 20, 30)
	if !bytes.Equal(buf.Bytes(), expected) {
		t.Errorf("Unexpected P6 output: %v", buf.Bytes())
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input       string
		expected    Format
		extension   string
		contentType string
	}{
		{"ppm", FormatPPM, ".ppm", "image/x-portable-pixmap"},
		{"P3", FormatPPM, ".ppm", "image/x-portable-pixmap"},
		{"p6", FormatPPMBinary, ".ppm", "image/x-portable-pixmap"},
		{" PNG ", FormatPNG, ".png", "image/png"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			f, err := ParseFormat(tt.input)
			if err != nil {
				t.Fatalf("ParseFormat(%q) failed: %v", tt.input, err)
			}
			if f != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, f)
			}
			if f.Extension() != tt.extension {
				t.Errorf("Expected extension %q, got %q", tt.extension, f.Extension())
			}
			if f.ContentType() != tt.contentType {
				t.Errorf("Expected content type %q, got %q", tt.contentType, f.ContentType())
			}
		})
	}

	if _, err := ParseFormat("exr"); err == nil {
		t.Error("Expected error for unsupported format")
	}
}

func TestEncode_PNGRoundTrip(t *testing.T) {
	img := createTestImage()
	data, err := EncodeBytes(img, FormatPNG)
	if err != nil {
		t.Fatalf("EncodeBytes failed: %v", err)
	}

	decoded, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("png.Decode failed: %v", err)
	}
	r, g, b, _ := decoded.At(1, 1).RGBA()
	if r>>8 != 10 || g>>8 != 20 || b>>8 != 30 {
		t.Errorf("Expected (10, 20, 30), got (%d, %d, %d)", r>>8, g>>8, b>>8)
	}
}

func TestEncode_UnknownFormat(t *testing.T) {
	if _, err := EncodeBytes(createTestImage(), Format("bmp")); err == nil {
		t.Error("Expected error for unknown format")
	}
}

func TestSaveFile(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "renders", "default", "out.ppm")
	if err := SaveFile(filename, createTestImage(), FormatPPM); err != nil {
		t.Fatalf("SaveFile failed: %v", err)
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		t.Fatalf("Failed to read saved file: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("P3\n2 2\n255\n")) {
		t.Errorf("Unexpected file contents: %q", data)
	}
}

func TestPreview(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 16, 8))
	fill := color.RGBA{100, 150, 200, 255}
	for y := 0; y < 8; y++ {
		for x := 0; x < 16; x++ {
			src.SetRGBA(x, y, fill)
		}
	}

	preview := Preview(src, 4)
	if preview.Bounds().Dx() != 4 || preview.Bounds().Dy() != 2 {
		t.Fatalf("Expected 4x2 preview, got %v", preview.Bounds())
	}

	// A uniform image stays uniform after filtering
	c := preview.RGBAAt(2, 1)
	if absDiff(c.R, fill.R) > 1 || absDiff(c.G, fill.G) > 1 || absDiff(c.B, fill.B) > 1 {
		t.Errorf("Expected roughly %v, got %v", fill, c)
	}
}

func TestPreview_NoUpscale(t *testing.T) {
	src := createTestImage()
	preview := Preview(src, 100)
	if preview.Bounds() != src.Bounds() {
		t.Fatalf("Expected unchanged bounds %v, got %v", src.Bounds(), preview.Bounds())
	}
	if preview == src {
		t.Error("Expected a copy, got the source image")
	}
	if preview.RGBAAt(1, 1) != src.RGBAAt(1, 1) {
		t.Errorf("Expected copied pixels to match")
	}
}

func absDiff(a, b uint8) uint8 {
	if a > b {
		return a - b
	}
	return b - a
}
