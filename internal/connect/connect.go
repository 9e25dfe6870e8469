/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package connect tracks which wire endpoints ride along when a component
// or a wire junction is dragged. Bindings are computed once at gesture
// start and each endpoint remembers its coordinate at that moment, so
// moves apply initial + delta rather than accumulating per-event deltas
// that would drift across rounding.
package connect

import (
	"uniboard/internal/domain"
	"uniboard/internal/pins"
)

// End names one of a wire's two endpoints.
type End int

const (
	Start End = iota
	Finish
)

// Binding identifies a wire endpoint captured at gesture start together
// with its coordinate at that moment.
type Binding struct {
	WireID string
	End    End
	At     domain.GridPoint
}

// BindComponent returns one binding per wire endpoint sitting on any pin
// of the component at its current position and rotation. A wire may bind
// by one endpoint, both, or neither.
func BindComponent(doc *domain.Document, c domain.Component, cfg domain.BoardConfig) []Binding {
	pinSet := make(map[domain.GridPoint]bool)
	for _, p := range pins.Absolute(c, cfg) {
		pinSet[p] = true
	}
	var out []Binding
	for i := range doc.Wires {
		w := doc.Wires[i]
		if pinSet[w.Start()] {
			out = append(out, Binding{WireID: w.ID, End: Start, At: w.Start()})
		}
		if pinSet[w.End()] {
			out = append(out, Binding{WireID: w.ID, End: Finish, At: w.End()})
		}
	}
	return out
}

// BindJunction returns a binding for every endpoint of every wire that
// touches the given grid cell, including the grabbed wire itself. Wires
// meeting at a point are treated as electrically joined and move as one.
func BindJunction(doc *domain.Document, at domain.GridPoint) []Binding {
	var out []Binding
	for i := range doc.Wires {
		w := doc.Wires[i]
		if w.Start() == at {
			out = append(out, Binding{WireID: w.ID, End: Start, At: w.Start()})
		}
		if w.End() == at {
			out = append(out, Binding{WireID: w.ID, End: Finish, At: w.End()})
		}
	}
	return out
}

// ApplyDelta moves every bound endpoint to its gesture-start coordinate
// plus the given grid delta. Stale wire ids are skipped.
func ApplyDelta(doc *domain.Document, bindings []Binding, dx, dy int) {
	for _, b := range bindings {
		w := doc.WireByID(b.WireID)
		if w == nil {
			continue
		}
		setEndpoint(w, b.End, domain.GridPoint{X: b.At.X + dx, Y: b.At.Y + dy})
	}
}

// MoveTo snaps every bound endpoint to the same cell, used when a
// junction group follows the pointer.
func MoveTo(doc *domain.Document, bindings []Binding, to domain.GridPoint) {
	for _, b := range bindings {
		w := doc.WireByID(b.WireID)
		if w == nil {
			continue
		}
		setEndpoint(w, b.End, to)
	}
}

// Restore puts every bound endpoint back to its gesture-start coordinate,
// used when a drag is cancelled.
func Restore(doc *domain.Document, bindings []Binding) {
	for _, b := range bindings {
		w := doc.WireByID(b.WireID)
		if w == nil {
			continue
		}
		setEndpoint(w, b.End, b.At)
	}
}

func setEndpoint(w *domain.Wire, end End, p domain.GridPoint) {
	if end == Start {
		w.StartX, w.StartY = p.X, p.Y
	} else {
		w.EndX, w.EndY = p.X, p.Y
	}
}
