//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"uniboard/internal/editor"
	"uniboard/internal/geom"
	"uniboard/internal/render"
)

// BoardCanvas renders the board document and forwards pointer gestures to
// the editor state machine. Positions arriving from Fyne are widget-local;
// the widget divides out the zoom factor and hands board pixels to the
// editor, which does grid snapping and back-view mirroring itself.
type BoardCanvas struct {
	widget.BaseWidget

	st   *editor.State
	zoom float32

	// OnChange fires after any gesture that may have mutated the document
	// or the selection, so the host can refresh inspector and status.
	OnChange func()

	lastDrag fyne.Position
}

// NewBoardCanvas creates the canvas over the given editor state.
func NewBoardCanvas(st *editor.State) *BoardCanvas {
	bc := &BoardCanvas{st: st, zoom: 1.0}
	bc.ExtendBaseWidget(bc)
	return bc
}

// SetState swaps in a new editor state, e.g. after opening another board.
func (bc *BoardCanvas) SetState(st *editor.State) {
	bc.st = st
	bc.Refresh()
}

// State returns the editor state the canvas is bound to.
func (bc *BoardCanvas) State() *editor.State { return bc.st }

// Zoom returns the current zoom factor.
func (bc *BoardCanvas) Zoom() float32 { return bc.zoom }

// SetZoom clamps and applies a zoom factor.
func (bc *BoardCanvas) SetZoom(z float32) {
	if z < 0.25 {
		z = 0.25
	}
	if z > 4 {
		z = 4
	}
	bc.zoom = z
	bc.Refresh()
}

func (bc *BoardCanvas) toBoard(pos fyne.Position) (float64, float64) {
	return float64(pos.X / bc.zoom), float64(pos.Y / bc.zoom)
}

// MouseDown starts a gesture. Secondary button cancels instead.
func (bc *BoardCanvas) MouseDown(e *desktop.MouseEvent) {
	if e.Button == desktop.MouseButtonSecondary {
		bc.st.CancelGesture()
		bc.notify()
		return
	}
	px, py := bc.toBoard(e.Position)
	bc.st.PointerDown(px, py)
	bc.lastDrag = e.Position
	bc.notify()
}

// MouseUp ends a gesture.
func (bc *BoardCanvas) MouseUp(e *desktop.MouseEvent) {
	if e.Button == desktop.MouseButtonSecondary {
		return
	}
	px, py := bc.toBoard(e.Position)
	bc.st.PointerUp(px, py)
	bc.notify()
}

// Dragged feeds move events while a button is held.
func (bc *BoardCanvas) Dragged(e *fyne.DragEvent) {
	px, py := bc.toBoard(e.Position)
	bc.st.PointerMove(px, py)
	bc.lastDrag = e.Position
	bc.notify()
}

// DragEnd finishes a drag. Fyne delivers DragEnd without a position, so
// the last drag position stands in for the release point.
func (bc *BoardCanvas) DragEnd() {
	if !bc.st.Dragging() {
		return
	}
	px, py := bc.toBoard(bc.lastDrag)
	bc.st.PointerUp(px, py)
	bc.notify()
}

// MouseIn implements desktop.Hoverable.
func (bc *BoardCanvas) MouseIn(e *desktop.MouseEvent) { bc.MouseMoved(e) }

// MouseMoved tracks the hovered cell for the status bar and the live wire
// preview.
func (bc *BoardCanvas) MouseMoved(e *desktop.MouseEvent) {
	px, py := bc.toBoard(e.Position)
	bc.st.PointerMove(px, py)
	if _, drawing := bc.st.DrawingFrom(); drawing {
		bc.Refresh()
	}
	if bc.OnChange != nil {
		bc.OnChange()
	}
}

// MouseOut implements desktop.Hoverable.
func (bc *BoardCanvas) MouseOut() {}

func (bc *BoardCanvas) notify() {
	bc.Refresh()
	if bc.OnChange != nil {
		bc.OnChange()
	}
}

// CreateRenderer implements fyne.Widget.
func (bc *BoardCanvas) CreateRenderer() fyne.WidgetRenderer {
	return &boardCanvasRenderer{bc: bc}
}

type boardCanvasRenderer struct {
	bc      *BoardCanvas
	objects []fyne.CanvasObject
	size    fyne.Size
}

func (r *boardCanvasRenderer) Destroy() {}

func (r *boardCanvasRenderer) Objects() []fyne.CanvasObject { return r.objects }

func (r *boardCanvasRenderer) MinSize() fyne.Size {
	st := r.bc.st
	sc := render.BuildScene(st.Doc, render.Options{Side: st.View})
	return fyne.NewSize(float32(sc.Width)*r.bc.zoom, float32(sc.Height)*r.bc.zoom)
}

func (r *boardCanvasRenderer) Layout(size fyne.Size) {
	r.size = size
	r.rebuild()
}

func (r *boardCanvasRenderer) Refresh() {
	r.rebuild()
	canvas.Refresh(r.bc)
}

// rebuild flattens the document through the shared display list and maps
// each primitive onto a Fyne canvas object. The object slice is rebuilt
// wholesale; boards are small enough that this stays cheap.
func (r *boardCanvasRenderer) rebuild() {
	st := r.bc.st
	zoom := r.bc.zoom
	sc := render.BuildScene(st.Doc, render.Options{
		Side:       st.View,
		ShowLabels: st.Doc.ShowLabels,
		Selection:  st.Sel,
	})

	objs := make([]fyne.CanvasObject, 0, len(sc.Rects)+len(sc.Lines)+len(sc.Circles)+len(sc.Labels)+1)
	for _, rc := range sc.Rects {
		obj := canvas.NewRectangle(toNRGBA(rc.Fill))
		obj.StrokeColor = toNRGBA(rc.Stroke)
		obj.StrokeWidth = float32(rc.StrokeWidth) * zoom
		obj.Move(fyne.NewPos(float32(rc.X)*zoom, float32(rc.Y)*zoom))
		obj.Resize(fyne.NewSize(float32(rc.W)*zoom, float32(rc.H)*zoom))
		objs = append(objs, obj)
	}
	for _, ln := range sc.Lines {
		obj := canvas.NewLine(toNRGBA(ln.Color))
		obj.StrokeWidth = float32(ln.Width) * zoom
		obj.Position1 = fyne.NewPos(float32(ln.X1)*zoom, float32(ln.Y1)*zoom)
		obj.Position2 = fyne.NewPos(float32(ln.X2)*zoom, float32(ln.Y2)*zoom)
		objs = append(objs, obj)
	}
	if obj := r.previewLine(); obj != nil {
		objs = append(objs, obj)
	}
	for _, ci := range sc.Circles {
		obj := canvas.NewCircle(toNRGBA(ci.Fill))
		obj.StrokeColor = toNRGBA(ci.Stroke)
		obj.StrokeWidth = float32(ci.StrokeWidth) * zoom
		d := float32(ci.R*2) * zoom
		obj.Move(fyne.NewPos(float32(ci.CX)*zoom-d/2, float32(ci.CY)*zoom-d/2))
		obj.Resize(fyne.NewSize(d, d))
		objs = append(objs, obj)
	}
	for _, lb := range sc.Labels {
		obj := canvas.NewText(lb.Text, toNRGBA(lb.Color))
		obj.TextSize = float32(lb.Size) * zoom
		obj.Move(fyne.NewPos(float32(lb.X)*zoom, float32(lb.Y)*zoom-obj.MinSize().Height))
		objs = append(objs, obj)
	}
	r.objects = objs
}

// previewLine shows the wire being drawn, from its anchor to the hovered
// cell, in the active palette color.
func (r *boardCanvasRenderer) previewLine() fyne.CanvasObject {
	st := r.bc.st
	start, drawing := st.DrawingFrom()
	if !drawing || !st.HoverValid {
		return nil
	}
	cfg := st.Doc.Board
	g := cfg.GridSizePx
	tf := geom.ViewTransform(cfg, st.View)
	p1 := tf.Apply(geom.Pt{X: float64(start.X) * g, Y: float64(start.Y) * g})
	p2 := tf.Apply(geom.Pt{X: float64(st.Hover.X) * g, Y: float64(st.Hover.Y) * g})
	col := render.WireStroke(st.WireColor)
	zoom := r.bc.zoom
	obj := canvas.NewLine(color.NRGBA{R: col.R, G: col.G, B: col.B, A: 0x90})
	obj.StrokeWidth = float32(g*0.18) * zoom
	obj.Position1 = fyne.NewPos(float32(p1.X+g/2)*zoom, float32(p1.Y+g/2)*zoom)
	obj.Position2 = fyne.NewPos(float32(p2.X+g/2)*zoom, float32(p2.Y+g/2)*zoom)
	return obj
}

func toNRGBA(c render.Color) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

var (
	_ fyne.Widget       = (*BoardCanvas)(nil)
	_ fyne.Draggable    = (*BoardCanvas)(nil)
	_ desktop.Mouseable = (*BoardCanvas)(nil)
	_ desktop.Hoverable = (*BoardCanvas)(nil)
)
