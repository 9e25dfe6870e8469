/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"
	"path/filepath"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"uniboard/internal/domain"
	"uniboard/internal/render"
	"uniboard/internal/storage"
)

// PNGOptions controls PNG export behavior.
// Scale multiplies board pixels into output pixels; values below 1 are
// replaced with the default of 2.
type PNGOptions struct {
	Side       domain.ViewSide
	ShowLabels bool
	Scale      float64
}

// ExportBoardPNG rasterizes the board into a PNG file at outPath.
// A relative outPath resolves under the board's exports folder.
func ExportBoardPNG(h *storage.DocumentHandle, outPath string, opt PNGOptions) error {
	if h == nil || h.Doc == nil {
		return fmt.Errorf("document handle is nil")
	}
	scale := opt.Scale
	if scale < 1 {
		scale = 2
	}
	sc := render.BuildScene(h.Doc, render.Options{Side: opt.Side, ShowLabels: opt.ShowLabels})

	pixW := int(math.Round(sc.Width * scale))
	pixH := int(math.Round(sc.Height * scale))
	img := image.NewRGBA(image.Rect(0, 0, pixW, pixH))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.RGBA{255, 255, 255, 255}}, image.Point{}, draw.Src)

	for _, r := range sc.Rects {
		x0 := int(math.Round(r.X * scale))
		y0 := int(math.Round(r.Y * scale))
		x1 := int(math.Round((r.X+r.W)*scale)) - 1
		y1 := int(math.Round((r.Y+r.H)*scale)) - 1
		if r.Fill.A > 0 {
			fillRect(img, x0, y0, x1, y1, toRGBA(r.Fill))
		}
		if r.StrokeWidth > 0 {
			strokeRect(img, x0, y0, x1, y1, toRGBA(r.Stroke))
		}
	}
	// Scene lines are axis-aligned, so a thick line is a filled rect.
	for _, l := range sc.Lines {
		halfW := l.Width * scale / 2
		x0 := int(math.Round(math.Min(l.X1, l.X2)*scale - halfW))
		y0 := int(math.Round(math.Min(l.Y1, l.Y2)*scale - halfW))
		x1 := int(math.Round(math.Max(l.X1, l.X2)*scale + halfW))
		y1 := int(math.Round(math.Max(l.Y1, l.Y2)*scale + halfW))
		fillRect(img, x0, y0, x1, y1, toRGBA(l.Color))
	}
	for _, c := range sc.Circles {
		fillCircle(img, c.CX*scale, c.CY*scale, c.R*scale, toRGBA(c.Fill))
	}
	if len(sc.Labels) > 0 {
		d := font.Drawer{
			Dst:  img,
			Face: basicfont.Face7x13,
		}
		for _, lb := range sc.Labels {
			d.Src = image.NewUniform(toRGBA(lb.Color))
			d.Dot = fixed.P(int(math.Round(lb.X*scale)), int(math.Round(lb.Y*scale)))
			d.DrawString(lb.Text)
		}
	}

	outPath = resolveOutPath(h, outPath)
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create png: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close png: %w", err)
	}
	return nil
}

func toRGBA(c render.Color) color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// strokeRect draws a 1px axis-aligned rectangle border inclusive of endpoints.
func strokeRect(img *image.RGBA, x0, y0, x1, y1 int, col color.RGBA) {
	for x := x0; x <= x1; x++ {
		img.SetRGBA(x, y0, col)
		img.SetRGBA(x, y1, col)
	}
	for y := y0; y <= y1; y++ {
		img.SetRGBA(x0, y, col)
		img.SetRGBA(x1, y, col)
	}
}

func fillRect(img *image.RGBA, x0, y0, x1, y1 int, col color.RGBA) {
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			img.SetRGBA(x, y, col)
		}
	}
}

func fillCircle(img *image.RGBA, cx, cy, r float64, col color.RGBA) {
	if r <= 0 {
		return
	}
	x0 := int(math.Floor(cx - r))
	x1 := int(math.Ceil(cx + r))
	y0 := int(math.Floor(cy - r))
	y1 := int(math.Ceil(cy + r))
	rr := r * r
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			dx := float64(x) + 0.5 - cx
			dy := float64(y) + 0.5 - cy
			if dx*dx+dy*dy <= rr {
				img.SetRGBA(x, y, col)
			}
		}
	}
}
