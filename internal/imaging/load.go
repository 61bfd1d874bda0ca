// Package imaging provides image loading, scalar matrix rendering, and
// overlay blending for the annotation canvas.
package imaging

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/gonum/mat"

	_ "golang.org/x/image/tiff"
)

// Load loads an image from the specified path.
func Load(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// IsGrayscale reports whether img carries no color information. Grayscale
// images are displayed through a colormap instead of directly.
func IsGrayscale(img image.Image) bool {
	switch img.(type) {
	case *image.Gray, *image.Gray16:
		return true
	}
	return false
}

// ToMatrix converts a grayscale image into a scalar matrix with values in
// [0, 1], row-major with row 0 at the image top.
func ToMatrix(img image.Image) *mat.Dense {
	b := img.Bounds()
	m := mat.NewDense(b.Dy(), b.Dx(), nil)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, _, _, _ := img.At(x, y).RGBA()
			m.Set(y-b.Min.Y, x-b.Min.X, float64(r)/65535.0)
		}
	}
	return m
}

// SupportedFormats returns the list of supported image formats.
func SupportedFormats() []string {
	return []string{".tiff", ".tif", ".png", ".jpg", ".jpeg"}
}

// IsSupportedFormat checks if the given path has a supported image format.
func IsSupportedFormat(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, format := range SupportedFormats() {
		if ext == format {
			return true
		}
	}
	return false
}
