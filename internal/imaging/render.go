package imaging

import (
	"image"
	"image/color"
	"image/draw"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"pixel-annotator/pkg/colorutil"
)

// RenderMatrix maps a scalar matrix through a colormap, normalizing values
// to the matrix's own min/max range.
func RenderMatrix(m *mat.Dense, cmap colorutil.Colormap) *image.NRGBA {
	data := m.RawMatrix().Data
	return RenderMatrixRange(m, cmap, floats.Min(data), floats.Max(data))
}

// RenderMatrixRange maps a scalar matrix through a colormap with an
// explicit value range, so multiple matrices can share one color scale.
func RenderMatrixRange(m *mat.Dense, cmap colorutil.Colormap, vmin, vmax float64) *image.NRGBA {
	rows, cols := m.Dims()
	out := image.NewNRGBA(image.Rect(0, 0, cols, rows))

	span := vmax - vmin
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			t := 0.0
			if span > 0 {
				t = (m.At(r, c) - vmin) / span
			}
			i := out.PixOffset(c, r)
			col := cmap.At(t)
			out.Pix[i+0] = col.R
			out.Pix[i+1] = col.G
			out.Pix[i+2] = col.B
			out.Pix[i+3] = 255
		}
	}
	return out
}

// ToNRGBA converts any image into non-premultiplied RGBA. When the input
// already has that representation it is returned unchanged.
func ToNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok {
		return n
	}
	b := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}

// BlendPixel composites src over dst with source-over alpha on
// non-premultiplied components.
func BlendPixel(dst, src color.NRGBA) color.NRGBA {
	if src.A == 0 {
		return dst
	}
	if src.A == 255 {
		return src
	}
	sa := float64(src.A) / 255.0
	da := float64(dst.A) / 255.0
	outA := sa + da*(1-sa)
	if outA == 0 {
		return color.NRGBA{}
	}
	blendChan := func(s, d uint8) uint8 {
		v := (float64(s)*sa + float64(d)*da*(1-sa)) / outA
		if v > 255 {
			v = 255
		}
		return uint8(v + 0.5)
	}
	return color.NRGBA{
		R: blendChan(src.R, dst.R),
		G: blendChan(src.G, dst.G),
		B: blendChan(src.B, dst.B),
		A: uint8(outA*255 + 0.5),
	}
}
