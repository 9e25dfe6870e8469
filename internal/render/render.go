/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package render flattens a board document into a resolution-independent
// display list. The same scene is consumed by the canvas widget and the
// SVG/PNG/PDF exporters so all of them draw the board identically.
package render

import (
	"uniboard/internal/domain"
	"uniboard/internal/geom"
	"uniboard/internal/pins"
)

// Color is an 8-bit RGBA color.
type Color struct {
	R, G, B, A uint8
}

// Rect is an axis-aligned rectangle primitive. A zero StrokeWidth means no
// outline; a zero-alpha Fill means no fill.
type Rect struct {
	X, Y, W, H  float64
	Fill        Color
	Stroke      Color
	StrokeWidth float64
}

// Line is a straight segment primitive.
type Line struct {
	X1, Y1, X2, Y2 float64
	Color          Color
	Width          float64
}

// Circle is a filled circle primitive, used for holes, pins and wire
// endpoint handles.
type Circle struct {
	CX, CY, R   float64
	Fill        Color
	Stroke      Color
	StrokeWidth float64
}

// Label is a text primitive anchored at its baseline start.
type Label struct {
	X, Y  float64
	Text  string
	Size  float64
	Color Color
}

// Scene is the flattened drawing of one board view, in board pixels.
// Primitives are ordered back to front within each slice; slices layer as
// rects, lines, circles, labels.
type Scene struct {
	Width, Height float64
	Rects         []Rect
	Lines         []Line
	Circles       []Circle
	Labels        []Label
}

// Options selects the view to flatten.
type Options struct {
	Side       domain.ViewSide
	ShowLabels bool
	Selection  domain.Selection
}

var (
	boardFill    = Color{R: 0xe8, G: 0xd5, B: 0xa8, A: 0xff}
	boardStroke  = Color{R: 0xb0, G: 0x9a, B: 0x6e, A: 0xff}
	holeFill     = Color{R: 0x8a, G: 0x74, B: 0x4e, A: 0xff}
	pinFill      = Color{R: 0xc0, G: 0xc0, B: 0xc0, A: 0xff}
	pinStroke    = Color{R: 0x40, G: 0x40, B: 0x40, A: 0xff}
	labelColor   = Color{R: 0x20, G: 0x20, B: 0x20, A: 0xff}
	selectStroke = Color{R: 0xff, G: 0x8c, B: 0x00, A: 0xff}
	handleFill   = Color{R: 0xff, G: 0x8c, B: 0x00, A: 0xff}
)

var kindFills = map[domain.ComponentKind]Color{
	domain.KindResistor:  {R: 0xd2, G: 0xa8, B: 0x6e, A: 0xff},
	domain.KindCapacitor: {R: 0x5b, G: 0x8d, B: 0xd9, A: 0xff},
	domain.KindICDip:     {R: 0x38, G: 0x38, B: 0x38, A: 0xff},
	domain.KindJumper:    {R: 0x90, G: 0x90, B: 0x90, A: 0xff},
	domain.KindGeneric:   {R: 0x7a, G: 0xa3, B: 0x5a, A: 0xff},
}

var wireColors = map[domain.WireColor]Color{
	domain.WireRed:    {R: 0xd0, G: 0x20, B: 0x20, A: 0xff},
	domain.WireBlack:  {R: 0x10, G: 0x10, B: 0x10, A: 0xff},
	domain.WireBlue:   {R: 0x20, G: 0x40, B: 0xd0, A: 0xff},
	domain.WireGreen:  {R: 0x20, G: 0x90, B: 0x30, A: 0xff},
	domain.WireYellow: {R: 0xd8, G: 0xb8, B: 0x10, A: 0xff},
	domain.WireWhite:  {R: 0xf0, G: 0xf0, B: 0xf0, A: 0xff},
}

// WireStroke maps a palette entry to its drawing color.
func WireStroke(c domain.WireColor) Color {
	if col, ok := wireColors[c]; ok {
		return col
	}
	return wireColors[domain.WireRed]
}

// KindFill maps a component kind to its body color.
func KindFill(k domain.ComponentKind) Color {
	if col, ok := kindFills[k]; ok {
		return col
	}
	return kindFills[domain.KindGeneric]
}

// BuildScene flattens the document into drawing primitives. The back view
// is mirrored horizontally so hole columns read right to left, matching
// what a builder sees when the board is flipped over.
func BuildScene(doc *domain.Document, opt Options) *Scene {
	cfg := doc.Board
	tf := geom.ViewTransform(cfg, opt.Side)
	g := cfg.GridSizePx

	sc := &Scene{Width: cfg.PixelWidth() + g, Height: cfg.PixelHeight() + g}

	// Board substrate, half a cell of margin around the outermost holes.
	sc.Rects = append(sc.Rects, Rect{
		X: 0, Y: 0, W: sc.Width, H: sc.Height,
		Fill: boardFill, Stroke: boardStroke, StrokeWidth: 1,
	})

	// Hole grid.
	for gy := 0; gy <= cfg.HeightHoles; gy++ {
		for gx := 0; gx <= cfg.WidthHoles; gx++ {
			p := tf.Apply(geom.Pt{X: float64(gx) * g, Y: float64(gy) * g})
			sc.Circles = append(sc.Circles, Circle{
				CX: p.X + g/2, CY: p.Y + g/2, R: g * 0.12, Fill: holeFill,
			})
		}
	}

	// Wires route as an L, horizontal run first.
	for _, w := range doc.Wires {
		col := WireStroke(w.Color)
		width := g * 0.18
		selected := opt.Selection.Kind == domain.SelectWire && opt.Selection.ID == w.ID
		start := tf.Apply(geom.Pt{X: float64(w.StartX) * g, Y: float64(w.StartY) * g})
		bend := tf.Apply(geom.Pt{X: float64(w.Bend().X) * g, Y: float64(w.Bend().Y) * g})
		end := tf.Apply(geom.Pt{X: float64(w.EndX) * g, Y: float64(w.EndY) * g})
		half := g / 2
		if selected {
			hl := Line{Color: selectStroke, Width: width * 2}
			hl.X1, hl.Y1, hl.X2, hl.Y2 = start.X+half, start.Y+half, bend.X+half, bend.Y+half
			sc.Lines = append(sc.Lines, hl)
			hl.X1, hl.Y1, hl.X2, hl.Y2 = bend.X+half, bend.Y+half, end.X+half, end.Y+half
			sc.Lines = append(sc.Lines, hl)
		}
		sc.Lines = append(sc.Lines,
			Line{X1: start.X + half, Y1: start.Y + half, X2: bend.X + half, Y2: bend.Y + half, Color: col, Width: width},
			Line{X1: bend.X + half, Y1: bend.Y + half, X2: end.X + half, Y2: end.Y + half, Color: col, Width: width},
		)
		if selected {
			sc.Circles = append(sc.Circles,
				Circle{CX: start.X + half, CY: start.Y + half, R: g * 0.28, Fill: handleFill},
				Circle{CX: end.X + half, CY: end.Y + half, R: g * 0.28, Fill: handleFill},
			)
		}
	}

	// Components draw above wires so dragged parts stay visible.
	for _, c := range doc.Components {
		anchor := c.Anchor(cfg)
		body := componentBodyCells(c)
		x0 := float64(anchor.X+body.minX)*g - g*0.3
		y0 := float64(anchor.Y+body.minY)*g - g*0.3
		x1 := float64(anchor.X+body.maxX)*g + g*1.3
		y1 := float64(anchor.Y+body.maxY)*g + g*1.3
		p0 := tf.Apply(geom.Pt{X: x0, Y: y0})
		p1 := tf.Apply(geom.Pt{X: x1, Y: y1})
		if p1.X < p0.X {
			p0.X, p1.X = p1.X, p0.X
		}
		fill := KindFill(c.Kind)
		r := Rect{X: p0.X, Y: p0.Y, W: p1.X - p0.X, H: p1.Y - p0.Y, Fill: fill, Stroke: pinStroke, StrokeWidth: 1}
		if opt.Selection.Kind == domain.SelectComponent && opt.Selection.ID == c.ID {
			r.Stroke = selectStroke
			r.StrokeWidth = 2.5
		}
		sc.Rects = append(sc.Rects, r)

		for _, pin := range pins.Absolute(c, cfg) {
			p := tf.Apply(geom.Pt{X: float64(pin.X) * g, Y: float64(pin.Y) * g})
			sc.Circles = append(sc.Circles, Circle{
				CX: p.X + g/2, CY: p.Y + g/2, R: g * 0.2,
				Fill: pinFill, Stroke: pinStroke, StrokeWidth: 0.8,
			})
		}

		if opt.ShowLabels {
			text := c.Name
			if c.Value != "" {
				text += " " + c.Value
			}
			if text != "" {
				sc.Labels = append(sc.Labels, Label{
					X: p0.X, Y: p0.Y - g*0.15, Text: text, Size: g * 0.55, Color: labelColor,
				})
			}
		}
	}

	return sc
}

type cellBounds struct {
	minX, minY, maxX, maxY int
}

// componentBodyCells returns the rotated cell extents relative to the anchor.
func componentBodyCells(c domain.Component) cellBounds {
	w := c.WidthCells
	h := c.HeightCells
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	var b cellBounds
	for _, corner := range [][2]int{{0, 0}, {w - 1, 0}, {0, h - 1}, {w - 1, h - 1}} {
		rx, ry := geom.RotatePinOffset(corner[0], corner[1], c.Rotation)
		if rx < b.minX {
			b.minX = rx
		}
		if ry < b.minY {
			b.minY = ry
		}
		if rx > b.maxX {
			b.maxX = rx
		}
		if ry > b.maxY {
			b.maxY = ry
		}
	}
	return b
}
