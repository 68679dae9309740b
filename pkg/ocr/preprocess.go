package ocr

import (
	"fmt"
	"image"
	"image/color"
	"os"

	"github.com/disintegration/imaging"
)

// PreprocessToTemp writes a cleaned-up copy of an image for recognition:
// grayscale, mild contrast and sharpen, upscaling of small captures,
// downscaling of oversized ones, then a global threshold. cropRight keeps
// only the right 45% of the frame, where the amount column of a ledger
// sheet usually sits. The caller removes the returned file.
func PreprocessToTemp(path string, cropRight bool) (string, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return "", fmt.Errorf("open image: %w", err)
	}
	g := imaging.Grayscale(img)
	g = imaging.AdjustContrast(g, 15)
	g = imaging.Sharpen(g, 0.7)
	if g.Bounds().Dy() < 900 {
		g = imaging.Resize(g, 0, 1200, imaging.Lanczos)
	}
	if g.Bounds().Dx() > 1800 {
		g = imaging.Resize(g, 1800, 0, imaging.Lanczos)
	}
	if cropRight {
		b := g.Bounds()
		x := b.Dx() * 55 / 100
		g = imaging.Crop(g, image.Rect(x, 0, b.Dx(), b.Dy()))
	}
	bin := binarize(g, 180)

	f, err := os.CreateTemp("", "ocr-*.png")
	if err != nil {
		return "", fmt.Errorf("temp file: %w", err)
	}
	_ = f.Close()
	if err := imaging.Save(bin, f.Name()); err != nil {
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("save preprocessed: %w", err)
	}
	return f.Name(), nil
}

// binarize performs a simple global threshold on a grayscale image.
func binarize(img image.Image, threshold uint8) *image.NRGBA {
	b := img.Bounds()
	out := image.NewNRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bb, _ := img.At(x, y).RGBA()
			gray := uint8((r + g + bb) / 3 >> 8)
			var v uint8
			if gray > threshold {
				v = 255
			}
			out.Set(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return out
}
