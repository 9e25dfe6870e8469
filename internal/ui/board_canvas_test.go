//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// These tests validate the Fyne-based canvas widget. They are gated behind
// the "fyne" build tag so CI (which is headless) does not need Fyne or a
// display. To run locally:
//
//	go test -tags fyne ./internal/ui
package ui

import (
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"

	"uniboard/internal/domain"
	"uniboard/internal/editor"
)

func canvasFixture() (*BoardCanvas, *editor.State) {
	doc := domain.NewDocument()
	doc.Board.SetHoles(10, 10)
	doc.Board.SetPitch(2.54)
	st := editor.NewState(doc)
	return NewBoardCanvas(st), st
}

func TestBoardCanvas_MinSizeTracksZoom(t *testing.T) {
	bc, st := canvasFixture()
	r, ok := bc.CreateRenderer().(*boardCanvasRenderer)
	if !ok {
		t.Fatalf("expected boardCanvasRenderer, got %T", bc.CreateRenderer())
	}
	base := r.MinSize()
	g := float32(st.Doc.Board.GridSizePx)
	wantW := float32(st.Doc.Board.WidthHoles)*g + g
	if base.Width < wantW-0.5 || base.Width > wantW+0.5 {
		t.Fatalf("unexpected min width: got %v, want approx %v", base.Width, wantW)
	}
	bc.SetZoom(2)
	doubled := r.MinSize()
	if doubled.Width < base.Width*2-0.5 || doubled.Width > base.Width*2+0.5 {
		t.Fatalf("zoomed min width: got %v, want approx %v", doubled.Width, base.Width*2)
	}
}

func TestBoardCanvas_SetZoomClamps(t *testing.T) {
	bc, _ := canvasFixture()
	bc.SetZoom(100)
	if bc.Zoom() != 4 {
		t.Fatalf("expected zoom clamp to 4, got %v", bc.Zoom())
	}
	bc.SetZoom(0)
	if bc.Zoom() != 0.25 {
		t.Fatalf("expected zoom clamp to 0.25, got %v", bc.Zoom())
	}
}

func TestBoardCanvas_MousePlacesComponent(t *testing.T) {
	bc, st := canvasFixture()
	st.SetPlaceKind(domain.KindResistor)
	g := float32(st.Doc.Board.GridSizePx)

	ev := &desktop.MouseEvent{Button: desktop.MouseButtonPrimary}
	ev.Position = fyne.NewPos(3*g, 4*g)
	bc.MouseDown(ev)
	bc.MouseUp(ev)

	if len(st.Doc.Components) != 1 {
		t.Fatalf("expected 1 component after click, got %d", len(st.Doc.Components))
	}
	anchor := st.Doc.Components[0].Anchor(st.Doc.Board)
	if anchor.X != 3 || anchor.Y != 4 {
		t.Fatalf("unexpected anchor: %+v", anchor)
	}
}

func TestBoardCanvas_ZoomedClickMapsToSameHole(t *testing.T) {
	bc, st := canvasFixture()
	st.SetPlaceKind(domain.KindJumper)
	bc.SetZoom(2)
	g := float32(st.Doc.Board.GridSizePx)

	ev := &desktop.MouseEvent{Button: desktop.MouseButtonPrimary}
	ev.Position = fyne.NewPos(2*g*2, 5*g*2) // widget coords are zoomed
	bc.MouseDown(ev)
	bc.MouseUp(ev)

	if len(st.Doc.Components) != 1 {
		t.Fatalf("expected 1 component, got %d", len(st.Doc.Components))
	}
	anchor := st.Doc.Components[0].Anchor(st.Doc.Board)
	if anchor.X != 2 || anchor.Y != 5 {
		t.Fatalf("unexpected anchor at zoom 2: %+v", anchor)
	}
}

func TestBoardCanvas_DragDrawsWire(t *testing.T) {
	bc, st := canvasFixture()
	st.SetMode(editor.ModeWire)
	g := float32(st.Doc.Board.GridSizePx)

	down := &desktop.MouseEvent{Button: desktop.MouseButtonPrimary}
	down.Position = fyne.NewPos(2*g, 2*g)
	bc.MouseDown(down)
	drag := &fyne.DragEvent{}
	drag.Position = fyne.NewPos(2*g, 6*g)
	bc.Dragged(drag)
	bc.DragEnd()

	if len(st.Doc.Wires) != 1 {
		t.Fatalf("expected 1 wire, got %d", len(st.Doc.Wires))
	}
	w := st.Doc.Wires[0]
	if w.StartX != 2 || w.StartY != 2 || w.EndX != 2 || w.EndY != 6 {
		t.Fatalf("unexpected wire endpoints: %+v", w)
	}
}

func TestBoardCanvas_RendererEmitsSceneObjects(t *testing.T) {
	bc, st := canvasFixture()
	st.SetPlaceKind(domain.KindResistor)
	ev := &desktop.MouseEvent{Button: desktop.MouseButtonPrimary}
	g := float32(st.Doc.Board.GridSizePx)
	ev.Position = fyne.NewPos(2*g, 2*g)
	bc.MouseDown(ev)
	bc.MouseUp(ev)

	r := bc.CreateRenderer().(*boardCanvasRenderer)
	r.Layout(fyne.NewSize(800, 600))
	// Board rect + component body, 11x11 holes + pins, at minimum.
	if len(r.Objects()) < 120 {
		t.Fatalf("expected a populated scene, got %d objects", len(r.Objects()))
	}
}
