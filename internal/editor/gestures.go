/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package editor

import (
	"uniboard/internal/connect"
	"uniboard/internal/domain"
	"uniboard/internal/geom"
	"uniboard/internal/pins"
)

// Pointer entry points. Coordinates are presentation-frame pixels; the
// view side's mirroring is resolved here, once, via geom.PixelToGrid.
// The host guarantees press -> move* -> release ordering per gesture.

// PointerDown dispatches a primary press according to the active tool.
func (s *State) PointerDown(px, py float64) {
	cell := s.toGrid(px, py)
	s.setHover(cell)

	switch s.mode {
	case ModePlace:
		s.placeAt(cell)
	case ModeWire:
		if !geom.InBounds(cell, s.Doc.Board) {
			return // off-board press: no wire anchor
		}
		s.drag = drawWire
		s.drawStart = cell
	case ModeSelect:
		s.selectPress(cell)
	}
}

// PointerMove updates the hovered cell and, while a gesture is active,
// the live coordinates of whatever is being dragged.
func (s *State) PointerMove(px, py float64) {
	cell := s.toGrid(px, py)
	s.setHover(cell)

	switch s.drag {
	case dragComponent:
		c := s.Doc.ComponentByID(s.dragID)
		if c == nil { // stale drag reference: treat as no-op
			s.abortGesture()
			return
		}
		live := domain.GridPoint{X: cell.X - s.grabOffset.X, Y: cell.Y - s.grabOffset.Y}
		c.SetAnchor(live, s.Doc.Board)
		dx := live.X - s.dragStartAnchor.X
		dy := live.Y - s.dragStartAnchor.Y
		connect.ApplyDelta(s.Doc, s.bindings, dx, dy)
	case dragWireGroup:
		connect.MoveTo(s.Doc, s.group, cell)
	}
}

// PointerUp ends the active gesture. In wire mode a release on a cell
// different from the anchor commits the wire; releasing on the anchor
// cell cancels silently so zero-length wires never exist.
func (s *State) PointerUp(px, py float64) {
	cell := s.toGrid(px, py)
	s.setHover(cell)

	if s.drag == drawWire && cell != s.drawStart {
		w := domain.Wire{
			ID:     s.newID("w"),
			StartX: s.drawStart.X,
			StartY: s.drawStart.Y,
			EndX:   cell.X,
			EndY:   cell.Y,
			Color:  s.WireColor,
		}
		s.Doc.Wires = append(s.Doc.Wires, w)
	}
	s.abortGesture()
}

// CancelGesture is the secondary/alternate pointer action: it aborts an
// in-progress drag or draw and restores the pre-gesture coordinates of
// the dragged item. With nothing in progress it falls back to the select
// tool.
func (s *State) CancelGesture() {
	switch s.drag {
	case dragComponent:
		if c := s.Doc.ComponentByID(s.dragID); c != nil {
			c.SetAnchor(s.dragStartAnchor, s.Doc.Board)
		}
		connect.Restore(s.Doc, s.bindings)
	case dragWireGroup:
		connect.Restore(s.Doc, s.group)
	case drawWire:
		// nothing was committed
	default:
		s.SetMode(ModeSelect)
		return
	}
	s.abortGesture()
}

// placeAt creates a component of the active kind at the clicked cell.
// Off-board clicks are silently ignored.
func (s *State) placeAt(cell domain.GridPoint) {
	if !geom.InBounds(cell, s.Doc.Board) {
		return
	}
	size := s.Doc.SizeFor(s.placeKind)
	c := domain.Component{
		ID:          s.newID("c"),
		Kind:        s.placeKind,
		WidthCells:  size.Width,
		HeightCells: size.Height,
		Name:        s.Doc.NextName(s.placeKind),
	}
	c.SetAnchor(cell, s.Doc.Board)
	s.Doc.Components = append(s.Doc.Components, c)
	s.Sel = domain.Selection{Kind: domain.SelectComponent, ID: c.ID}
	// mode stays ModePlace: repeated placement without re-picking the tool
}

// selectPress handles a press in select mode: endpoint handles of the
// selected wire first, then component bodies topmost-first, then wire
// segments, then background.
func (s *State) selectPress(cell domain.GridPoint) {
	if s.Sel.Kind == domain.SelectWire {
		if w := s.Doc.WireByID(s.Sel.ID); w != nil {
			if cell == w.Start() || cell == w.End() {
				s.drag = dragWireGroup
				s.group = connect.BindJunction(s.Doc, cell)
				return
			}
		}
	}

	if id := s.hitComponent(cell); id != "" {
		s.Sel = domain.Selection{Kind: domain.SelectComponent, ID: id}
		c := s.Doc.ComponentByID(id)
		s.drag = dragComponent
		s.dragID = id
		s.dragStartAnchor = c.Anchor(s.Doc.Board)
		s.grabOffset = domain.GridPoint{X: cell.X - s.dragStartAnchor.X, Y: cell.Y - s.dragStartAnchor.Y}
		s.bindings = connect.BindComponent(s.Doc, *c, s.Doc.Board)
		return
	}

	if id := s.hitWire(cell); id != "" {
		s.Sel = domain.Selection{Kind: domain.SelectWire, ID: id}
		return
	}

	s.Sel = domain.Selection{}
}

// hitComponent returns the topmost component whose body covers the cell.
// Later entries draw on top, so scan back to front.
func (s *State) hitComponent(cell domain.GridPoint) string {
	for i := len(s.Doc.Components) - 1; i >= 0; i-- {
		c := s.Doc.Components[i]
		if componentCovers(c, cell, s.Doc.Board) {
			return c.ID
		}
	}
	return ""
}

// componentCovers tests the full rotated body rectangle, not just the
// pins, so axial parts are grabbable along their whole length.
func componentCovers(c domain.Component, cell domain.GridPoint, cfg domain.BoardConfig) bool {
	anchor := c.Anchor(cfg)
	w, h := c.WidthCells, c.HeightCells
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			rx, ry := geom.RotatePinOffset(x, y, c.Rotation)
			if anchor.X+rx == cell.X && anchor.Y+ry == cell.Y {
				return true
			}
		}
	}
	return false
}

// hitWire returns the topmost wire whose L-shaped route passes through
// the cell.
func (s *State) hitWire(cell domain.GridPoint) string {
	for i := len(s.Doc.Wires) - 1; i >= 0; i-- {
		w := s.Doc.Wires[i]
		if wireCovers(w, cell) {
			return w.ID
		}
	}
	return ""
}

func wireCovers(w domain.Wire, cell domain.GridPoint) bool {
	bend := w.Bend()
	// horizontal run: start -> bend
	if cell.Y == w.StartY && between(cell.X, w.StartX, bend.X) {
		return true
	}
	// vertical run: bend -> end
	if cell.X == w.EndX && between(cell.Y, w.StartY, w.EndY) {
		return true
	}
	return false
}

func between(v, a, b int) bool {
	if a > b {
		a, b = b, a
	}
	return v >= a && v <= b
}

// PinsOf exposes the absolute pin positions of a component for rendering
// overlays; it guards stale ids.
func (s *State) PinsOf(id string) []domain.GridPoint {
	c := s.Doc.ComponentByID(id)
	if c == nil {
		return nil
	}
	return pins.Absolute(*c, s.Doc.Board)
}

// Dragging reports whether any drag or draw gesture is active, and
// DrawingFrom returns the wire anchor cell while a wire draw is active.
func (s *State) Dragging() bool { return s.drag != dragNone }

// DrawingFrom returns the wire-draw anchor and whether one is active.
func (s *State) DrawingFrom() (domain.GridPoint, bool) {
	return s.drawStart, s.drag == drawWire
}

func (s *State) toGrid(px, py float64) domain.GridPoint {
	return geom.PixelToGrid(px, py, s.Doc.Board, s.View)
}

func (s *State) setHover(cell domain.GridPoint) {
	s.Hover = cell
	s.HoverValid = true
}
