// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package print

import (
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// JPEGName returns the name of the converted copy of an image file.
func JPEGName(filename string) string {
	return strings.TrimSuffix(filename, filepath.Ext(filename)) + ".jpg"
}

// PrepareImage decodes src (png, jpeg or webp), flattens any transparency
// onto white, downscales it with Catmull-Rom when its longest side exceeds
// maxDim and writes it to dst as a JPEG. It returns the written size.
func PrepareImage(src, dst string, maxDim, quality int) (image.Point, error) {
	in, err := os.Open(src)
	if err != nil {
		return image.Point{}, fmt.Errorf("opening %s: %w", src, err)
	}
	img, _, err := image.Decode(in)
	in.Close()
	if err != nil {
		return image.Point{}, fmt.Errorf("decoding %s: %w", src, err)
	}

	b := img.Bounds()
	w, h := fitLongest(b.Dx(), b.Dy(), maxDim)

	canvas := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, xdraw.Src)
	if w == b.Dx() && h == b.Dy() {
		xdraw.Draw(canvas, canvas.Bounds(), img, b.Min, xdraw.Over)
	} else {
		xdraw.CatmullRom.Scale(canvas, canvas.Bounds(), img, b, xdraw.Over, nil)
	}

	out, err := os.Create(dst)
	if err != nil {
		return image.Point{}, fmt.Errorf("creating %s: %w", dst, err)
	}
	if err := jpeg.Encode(out, canvas, &jpeg.Options{Quality: quality}); err != nil {
		out.Close()
		return image.Point{}, fmt.Errorf("encoding %s: %w", dst, err)
	}
	if err := out.Close(); err != nil {
		return image.Point{}, err
	}
	return image.Pt(w, h), nil
}

// fitLongest scales w×h down so the longest side is maxDim. Sizes within
// the limit, and a non-positive limit, leave it unchanged.
func fitLongest(w, h, maxDim int) (int, int) {
	longest := max(w, h)
	if maxDim <= 0 || longest <= maxDim {
		return w, h
	}
	scale := float64(maxDim) / float64(longest)
	return max(1, int(float64(w)*scale)), max(1, int(float64(h)*scale))
}
