//go:build mage

package main

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
)

const (
	sampleDir      = "sample"
	sampleZip      = "assets_sample.zip"
	sampleCSV      = "works.csv"
	sampleSections = "sections.yaml"
)

type sampleWork struct {
	file      string
	title     string
	technique string
	size      string
	date      string
	desc      string
	tint      color.NRGBA
}

var sampleWorks = []sampleWork{
	{"01_파도.png", "파도", "캔버스에 유채", "53.0x45.5cm", "2024", "솟구치는 파도와\n멈춰 있는 고요", color.NRGBA{R: 40, G: 90, B: 200, A: 255}},
	{"02_봄밤의_가로등.png", "봄밤의 가로등", "캔버스에 아크릴", "40.9x31.8cm", "2023", "목련이 환하게 빛나던 밤", color.NRGBA{R: 240, G: 220, B: 120, A: 255}},
	{"03_사과.png", "사과", "종이에 수채", "30x30cm", "2025", "선물로 건네는 사과", color.NRGBA{R: 200, G: 40, B: 40, A: 200}},
}

// Sample writes a small archive, work list and sections file into sample/
// for smoke runs.
func Sample() error {
	mg.Deps(Init)

	zipPath := filepath.Join(sampleDir, sampleZip)
	f, err := os.Create(zipPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", zipPath, err)
	}
	zw := zip.NewWriter(f)
	for _, w := range sampleWorks {
		entry, err := zw.Create("assets_sample/" + w.file)
		if err != nil {
			f.Close()
			return err
		}
		if err := png.Encode(entry, swatch(w.tint)); err != nil {
			f.Close()
			return fmt.Errorf("encoding %s: %w", w.file, err)
		}
	}
	if err := zw.Close(); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	cw.Write([]string{"제목", "방법", "사이즈", "날짜", "설명"})
	for _, w := range sampleWorks {
		cw.Write([]string{w.title, w.technique, w.size, w.date, w.desc})
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(sampleDir, sampleCSV), buf.Bytes(), 0o644); err != nil {
		return err
	}

	sections := `sections:
  - id: s1
    title: 에너지의 빛
    intro: 파도는 솟구치고, 고요는 멈춰 있으면서도 살아 움직입니다.
    orders: [1]
  - id: s2
    title: 사람의 빛
    intro: |
      목련이 환하게 빛나던 봄밤.
      선물로 건네는 사과.
    orders: [2, 3]
`
	if err := os.WriteFile(filepath.Join(sampleDir, sampleSections), []byte(sections), 0o644); err != nil {
		return err
	}

	fmt.Printf("Sample inputs written to %s/\n", sampleDir)
	return nil
}

// swatch draws a 640×480 image in tint with a lighter diagonal band.
func swatch(tint color.NRGBA) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, 640, 480))
	for y := 0; y < 480; y++ {
		for x := 0; x < 640; x++ {
			c := tint
			if (x-y+640)%160 < 40 {
				c = color.NRGBA{R: 255, G: 255, B: 255, A: tint.A}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}
