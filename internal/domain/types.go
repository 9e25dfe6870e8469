/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

// This file defines the core data model for UniBoard Designer: the board
// configuration, placed components, wires, and the document shape that is
// serialized to the board.json manifest.

import (
	"fmt"
	"math"
)

// PixelsPerMM fixes the process-wide scale between physical pitch and the
// logical pixel space all entity coordinates live in. A standard 2.54 mm
// pitch therefore maps to a 20.32 px grid cell.
const PixelsPerMM = 8.0

// Board dimension and pitch limits enforced by Normalize and the UI forms.
const (
	MinHoles   = 5
	MaxHoles   = 500
	MinPitchMM = 0.1
	MaxPitchMM = 10.0
)

// BoardConfig describes the hole grid: counts, physical pitch, and the
// derived pixel size of one grid cell.
type BoardConfig struct {
	WidthHoles  int     `json:"width"`
	HeightHoles int     `json:"height"`
	PitchMM     float64 `json:"pitch"`
	GridSizePx  float64 `json:"gridSize"`
}

// DefaultBoardConfig returns the 40x30, 2.54 mm board the editor opens with.
func DefaultBoardConfig() BoardConfig {
	c := BoardConfig{WidthHoles: 40, HeightHoles: 30}
	c.SetPitch(2.54)
	return c
}

// SetPitch updates the pitch and recomputes GridSizePx, keeping the
// gridSize = pitch * PixelsPerMM invariant. Out-of-range pitches clamp.
func (c *BoardConfig) SetPitch(pitchMM float64) {
	if pitchMM < MinPitchMM {
		pitchMM = MinPitchMM
	}
	if pitchMM > MaxPitchMM {
		pitchMM = MaxPitchMM
	}
	c.PitchMM = pitchMM
	c.GridSizePx = pitchMM * PixelsPerMM
}

// SetHoles updates the hole counts, clamping to the valid range.
func (c *BoardConfig) SetHoles(width, height int) {
	c.WidthHoles = clampHoles(width)
	c.HeightHoles = clampHoles(height)
}

func clampHoles(n int) int {
	if n < MinHoles {
		return MinHoles
	}
	if n > MaxHoles {
		return MaxHoles
	}
	return n
}

// Normalize repairs a config loaded from disk: legacy manifests may carry
// only one of pitch/gridSize, and either may be missing or out of range.
// Pitch derived from gridSize is rounded to two decimals.
func (c *BoardConfig) Normalize() {
	c.WidthHoles = clampHoles(c.WidthHoles)
	c.HeightHoles = clampHoles(c.HeightHoles)
	switch {
	case c.PitchMM > 0:
		c.SetPitch(c.PitchMM)
	case c.GridSizePx > 0:
		c.SetPitch(math.Round(c.GridSizePx/PixelsPerMM*100) / 100)
	default:
		c.SetPitch(2.54)
	}
}

// PixelWidth returns the board's total width in pixels, the span used for
// back-view mirroring.
func (c BoardConfig) PixelWidth() float64 { return float64(c.WidthHoles) * c.GridSizePx }

// PixelHeight returns the board's total height in pixels.
func (c BoardConfig) PixelHeight() float64 { return float64(c.HeightHoles) * c.GridSizePx }

// ComponentKind identifies the footprint family of a placed component.
type ComponentKind string

const (
	KindResistor  ComponentKind = "resistor"
	KindCapacitor ComponentKind = "capacitor"
	KindICDip     ComponentKind = "icDip"
	KindJumper    ComponentKind = "jumper"
	KindGeneric   ComponentKind = "generic"
)

// Kinds lists all component kinds in toolbar order.
func Kinds() []ComponentKind {
	return []ComponentKind{KindResistor, KindCapacitor, KindICDip, KindJumper, KindGeneric}
}

// Valid reports whether k is one of the known kinds.
func (k ComponentKind) Valid() bool {
	switch k {
	case KindResistor, KindCapacitor, KindICDip, KindJumper, KindGeneric:
		return true
	}
	return false
}

// Prefix returns the reference-designator prefix used for auto-naming.
func (k ComponentKind) Prefix() string {
	switch k {
	case KindResistor:
		return "R"
	case KindCapacitor:
		return "C"
	case KindICDip:
		return "U"
	case KindJumper:
		return "J"
	default:
		return "P"
	}
}

// Label returns the human-readable kind name for toolbars and logs.
func (k ComponentKind) Label() string {
	switch k {
	case KindResistor:
		return "Resistor"
	case KindCapacitor:
		return "Capacitor"
	case KindICDip:
		return "IC (DIP)"
	case KindJumper:
		return "Jumper"
	default:
		return "Generic part"
	}
}

// Size is a width/height pair in grid cells.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// DefaultSizes returns the initial per-kind placement sizes. The map is
// user-editable at runtime and persisted with the document.
func DefaultSizes() map[ComponentKind]Size {
	return map[ComponentKind]Size{
		KindResistor:  {Width: 4, Height: 1},
		KindCapacitor: {Width: 2, Height: 1},
		KindICDip:     {Width: 4, Height: 3},
		KindJumper:    {Width: 2, Height: 1},
		KindGeneric:   {Width: 3, Height: 2},
	}
}

// GridPoint addresses one hole on the board.
type GridPoint struct {
	X int
	Y int
}

// Component is a placed part. X and Y are the pixel position of the
// top-left anchor cell (gridIndex * gridSizePx); the grid index is derived
// by division and rounding so that repitched boards keep anchors on holes.
type Component struct {
	ID          string        `json:"id"`
	Kind        ComponentKind `json:"type"`
	X           float64       `json:"x"`
	Y           float64       `json:"y"`
	WidthCells  int           `json:"width"`
	HeightCells int           `json:"height"`
	Rotation    int           `json:"rotation"`
	Name        string        `json:"name"`
	Value       string        `json:"value"`
}

// Anchor returns the component's grid anchor derived from its pixel
// position.
func (c Component) Anchor(cfg BoardConfig) GridPoint {
	if cfg.GridSizePx <= 0 {
		return GridPoint{}
	}
	return GridPoint{
		X: int(math.Round(c.X / cfg.GridSizePx)),
		Y: int(math.Round(c.Y / cfg.GridSizePx)),
	}
}

// SetAnchor moves the component so its anchor sits on the given grid cell.
func (c *Component) SetAnchor(p GridPoint, cfg BoardConfig) {
	c.X = float64(p.X) * cfg.GridSizePx
	c.Y = float64(p.Y) * cfg.GridSizePx
}

// Rotate cycles the rotation by +90 degrees.
func (c *Component) Rotate() { c.Rotation = (c.Rotation + 90) % 360 }

// WireColor is one of the fixed palette entries.
type WireColor string

const (
	WireRed    WireColor = "red"
	WireBlack  WireColor = "black"
	WireBlue   WireColor = "blue"
	WireGreen  WireColor = "green"
	WireYellow WireColor = "yellow"
	WireWhite  WireColor = "white"
)

// WireColors lists the palette in UI order.
func WireColors() []WireColor {
	return []WireColor{WireRed, WireBlack, WireBlue, WireGreen, WireYellow, WireWhite}
}

// Valid reports whether w is a palette color.
func (w WireColor) Valid() bool {
	switch w {
	case WireRed, WireBlack, WireBlue, WireGreen, WireYellow, WireWhite:
		return true
	}
	return false
}

// Wire is a point-to-point connection between two holes. Rendering routes
// it as two segments, horizontal then vertical; the bend is derived, never
// stored.
type Wire struct {
	ID     string    `json:"id"`
	StartX int       `json:"startX"`
	StartY int       `json:"startY"`
	EndX   int       `json:"endX"`
	EndY   int       `json:"endY"`
	Color  WireColor `json:"color"`
}

// Start returns the start endpoint as a grid point.
func (w Wire) Start() GridPoint { return GridPoint{X: w.StartX, Y: w.StartY} }

// End returns the end endpoint as a grid point.
func (w Wire) End() GridPoint { return GridPoint{X: w.EndX, Y: w.EndY} }

// Bend returns the corner of the L-shaped route: horizontal run first,
// vertical run second.
func (w Wire) Bend() GridPoint { return GridPoint{X: w.EndX, Y: w.StartY} }

// Document is the logical save payload: everything the editor persists.
type Document struct {
	Components   []Component            `json:"components"`
	Wires        []Wire                 `json:"wires"`
	Board        BoardConfig            `json:"boardConfig"`
	DefaultSizes map[ComponentKind]Size `json:"componentDefaultSizes"`
	ShowLabels   bool                   `json:"showLabels"`
}

// NewDocument returns an empty document with default board and sizes.
func NewDocument() *Document {
	return &Document{
		Components:   []Component{},
		Wires:        []Wire{},
		Board:        DefaultBoardConfig(),
		DefaultSizes: DefaultSizes(),
		ShowLabels:   true,
	}
}

// Normalize repairs a document loaded from disk. Legacy payloads may omit
// the size table, carry a partial board config, or use nil slices; loaded
// components and wires get their optional fields defaulted so the rest of
// the editor never sees a zero size or an unknown color.
func (d *Document) Normalize() {
	d.Board.Normalize()
	if d.Components == nil {
		d.Components = []Component{}
	}
	if d.Wires == nil {
		d.Wires = []Wire{}
	}
	defaults := DefaultSizes()
	if d.DefaultSizes == nil {
		d.DefaultSizes = map[ComponentKind]Size{}
	}
	for k, s := range defaults {
		cur, ok := d.DefaultSizes[k]
		if !ok || cur.Width < 1 || cur.Height < 1 {
			d.DefaultSizes[k] = s
		}
	}
	for i := range d.Components {
		c := &d.Components[i]
		if !c.Kind.Valid() {
			c.Kind = KindGeneric
		}
		def := d.DefaultSizes[c.Kind]
		if c.WidthCells < 1 {
			c.WidthCells = def.Width
		}
		if c.HeightCells < 1 {
			c.HeightCells = def.Height
		}
		c.Rotation = ((c.Rotation % 360) + 360) % 360
		if c.Rotation%90 != 0 {
			c.Rotation = 0
		}
	}
	for i := range d.Wires {
		if !d.Wires[i].Color.Valid() {
			d.Wires[i].Color = WireRed
		}
	}
}

// ComponentByID returns a pointer into the document's component slice, or
// nil when the id is stale.
func (d *Document) ComponentByID(id string) *Component {
	for i := range d.Components {
		if d.Components[i].ID == id {
			return &d.Components[i]
		}
	}
	return nil
}

// WireByID returns a pointer into the document's wire slice, or nil.
func (d *Document) WireByID(id string) *Wire {
	for i := range d.Wires {
		if d.Wires[i].ID == id {
			return &d.Wires[i]
		}
	}
	return nil
}

// RemoveComponent deletes the component with the given id. Unknown ids are
// a no-op.
func (d *Document) RemoveComponent(id string) {
	for i := range d.Components {
		if d.Components[i].ID == id {
			d.Components = append(d.Components[:i], d.Components[i+1:]...)
			return
		}
	}
}

// RemoveWire deletes the wire with the given id. Unknown ids are a no-op.
func (d *Document) RemoveWire(id string) {
	for i := range d.Wires {
		if d.Wires[i].ID == id {
			d.Wires = append(d.Wires[:i], d.Wires[i+1:]...)
			return
		}
	}
}

// NextName assigns the auto name for a new component of the given kind:
// prefix plus 1 + count of that kind. Ordinals are recomputed from the
// current count, so deleting and re-adding can repeat a name; the original
// editor behaved the same way and the duplication is accepted.
func (d *Document) NextName(kind ComponentKind) string {
	n := 0
	for i := range d.Components {
		if d.Components[i].Kind == kind {
			n++
		}
	}
	return fmt.Sprintf("%s%d", kind.Prefix(), n+1)
}

// SizeFor returns the active placement size for a kind, falling back to
// the built-in default when the map has no (or a degenerate) entry.
func (d *Document) SizeFor(kind ComponentKind) Size {
	if s, ok := d.DefaultSizes[kind]; ok && s.Width >= 1 && s.Height >= 1 {
		return s
	}
	return DefaultSizes()[kind]
}

// SetSizeFor updates the placement default for a kind, clamping to >= 1.
func (d *Document) SetSizeFor(kind ComponentKind, s Size) {
	if d.DefaultSizes == nil {
		d.DefaultSizes = map[ComponentKind]Size{}
	}
	if s.Width < 1 {
		s.Width = 1
	}
	if s.Height < 1 {
		s.Height = 1
	}
	d.DefaultSizes[kind] = s
}

// SelectionKind discriminates what the transient selection refers to.
type SelectionKind string

const (
	SelectComponent SelectionKind = "component"
	SelectWire      SelectionKind = "wire"
)

// Selection is a weak reference into the document; it never copies entity
// state. The zero value means nothing is selected.
type Selection struct {
	Kind SelectionKind
	ID   string
}

// None reports whether the selection is empty.
func (s Selection) None() bool { return s.ID == "" }

// ViewSide selects between the as-drawn front and the mirrored back view.
// It affects coordinate interpretation only and is never persisted.
type ViewSide string

const (
	ViewFront ViewSide = "front"
	ViewBack  ViewSide = "back"
)
