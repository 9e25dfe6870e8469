/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package editor holds the application-state aggregate and the interaction
// state machine that drives placement, wire drawing, and drag gestures.
// It is deliberately free of any rendering dependency so a headless test
// harness can drive it exactly like the desktop canvas does.
package editor

import (
	"fmt"
	"time"

	"uniboard/internal/connect"
	"uniboard/internal/domain"
)

// Mode is the active tool.
type Mode int

const (
	ModeSelect Mode = iota
	ModeWire
	ModePlace
)

func (m Mode) String() string {
	switch m {
	case ModeWire:
		return "wire"
	case ModePlace:
		return "place"
	default:
		return "select"
	}
}

// dragKind is the transient gesture sub-state, orthogonal to the tool
// mode. Only one gesture can be active at a time.
type dragKind int

const (
	dragNone dragKind = iota
	dragComponent
	dragWireGroup
	drawWire
)

// State is the single mutable editor aggregate: the document, the tool
// mode, the selection, the view side, and any in-progress gesture. All
// mutation happens synchronously through its methods; there is exactly
// one writer.
type State struct {
	Doc  *domain.Document
	View domain.ViewSide
	Sel  domain.Selection

	// WireColor is the palette entry applied to newly drawn wires.
	WireColor domain.WireColor

	// Hover is the grid cell under the pointer, updated on every move;
	// HoverValid is false until the first pointer event.
	Hover      domain.GridPoint
	HoverValid bool

	mode      Mode
	placeKind domain.ComponentKind

	drag dragKind
	// component drag
	dragID          string
	dragStartAnchor domain.GridPoint
	grabOffset      domain.GridPoint
	bindings        []connect.Binding
	// wire endpoint group drag
	group []connect.Binding
	// wire drawing
	drawStart domain.GridPoint

	idSeq uint64
}

// NewState wraps a document in a fresh editor state: select tool, front
// view, red wire color, nothing selected.
func NewState(doc *domain.Document) *State {
	if doc == nil {
		doc = domain.NewDocument()
	}
	return &State{
		Doc:       doc,
		View:      domain.ViewFront,
		WireColor: domain.WireRed,
		mode:      ModeSelect,
		placeKind: domain.KindResistor,
		idSeq:     uint64(time.Now().UnixNano()),
	}
}

// Mode returns the active tool mode.
func (s *State) Mode() Mode { return s.mode }

// PlaceKind returns the component kind placed in ModePlace.
func (s *State) PlaceKind() domain.ComponentKind { return s.placeKind }

// SetMode switches tools. Switching always clears the selection and any
// in-progress gesture, including a pending wire-draw anchor.
func (s *State) SetMode(m Mode) {
	s.abortGesture()
	s.Sel = domain.Selection{}
	s.mode = m
}

// SetPlaceKind enters placement mode for the given kind.
func (s *State) SetPlaceKind(kind domain.ComponentKind) {
	if !kind.Valid() {
		return
	}
	s.SetMode(ModePlace)
	s.placeKind = kind
}

// SetViewSide flips between the front and mirrored back view. Entity data
// is untouched; only coordinate interpretation changes.
func (s *State) SetViewSide(side domain.ViewSide) { s.View = side }

// SetWireColor selects the palette color for new wires. In select mode it
// also recolors the currently selected wire.
func (s *State) SetWireColor(c domain.WireColor) {
	if !c.Valid() {
		return
	}
	s.WireColor = c
	if s.mode == ModeSelect && s.Sel.Kind == domain.SelectWire {
		if w := s.Doc.WireByID(s.Sel.ID); w != nil {
			w.Color = c
		}
	}
}

// SetBoardHoles resizes the hole grid, clamping to the valid range.
func (s *State) SetBoardHoles(width, height int) {
	s.Doc.Board.SetHoles(width, height)
}

// SetPitch changes the pitch and re-anchors every component so it stays
// on the same hole under the new grid size.
func (s *State) SetPitch(pitchMM float64) {
	old := s.Doc.Board
	s.Doc.Board.SetPitch(pitchMM)
	for i := range s.Doc.Components {
		anchor := s.Doc.Components[i].Anchor(old)
		s.Doc.Components[i].SetAnchor(anchor, s.Doc.Board)
	}
}

// UpdateComponentMeta edits the name/value attributes of a component.
// Stale ids are a no-op.
func (s *State) UpdateComponentMeta(id, name, value string) {
	c := s.Doc.ComponentByID(id)
	if c == nil {
		return
	}
	c.Name = name
	c.Value = value
}

// DeleteSelection removes the selected entity and clears the selection.
// A stale or empty selection is a no-op.
func (s *State) DeleteSelection() {
	switch s.Sel.Kind {
	case domain.SelectComponent:
		s.Doc.RemoveComponent(s.Sel.ID)
	case domain.SelectWire:
		s.Doc.RemoveWire(s.Sel.ID)
	}
	s.Sel = domain.Selection{}
}

// RotateSelection rotates a selected component by +90 degrees. Wire or
// empty selections are a no-op.
func (s *State) RotateSelection() {
	if s.Sel.Kind != domain.SelectComponent {
		return
	}
	c := s.Doc.ComponentByID(s.Sel.ID)
	if c == nil {
		return
	}
	c.Rotate()
}

// Escape resets the editor to the select tool, clearing all gesture
// state. Cancel semantics for in-progress drags are in CancelGesture.
func (s *State) Escape() {
	s.CancelGesture()
	s.SetMode(ModeSelect)
}

func (s *State) newID(prefix string) string {
	s.idSeq++
	return fmt.Sprintf("%s-%x", prefix, s.idSeq)
}

// abortGesture drops gesture bookkeeping without restoring coordinates;
// used on tool switches where nothing was moved yet or the caller already
// restored.
func (s *State) abortGesture() {
	s.drag = dragNone
	s.dragID = ""
	s.bindings = nil
	s.group = nil
}
