/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package pins derives component pin topology from kind and cell size.
// Pins are never stored: keeping them a pure function of kind, size, and
// rotation means resizes and rotations can never leave stale pin data
// behind.
package pins

import (
	"uniboard/internal/domain"
	"uniboard/internal/geom"
)

// Offset is a pin position in the component's local, unrotated frame.
type Offset struct {
	RelX int
	RelY int
}

// Pins returns the pin offsets for a component footprint:
//   - resistor, capacitor: the two end leads, regardless of height
//   - icDip: two rows, one pin per column at the top and bottom edge
//   - jumper, generic: a full matrix, one pin per cell
func Pins(kind domain.ComponentKind, widthCells, heightCells int) []Offset {
	if widthCells < 1 {
		widthCells = 1
	}
	if heightCells < 1 {
		heightCells = 1
	}
	switch kind {
	case domain.KindResistor, domain.KindCapacitor:
		return []Offset{{RelX: 0, RelY: 0}, {RelX: widthCells - 1, RelY: 0}}
	case domain.KindICDip:
		out := make([]Offset, 0, 2*widthCells)
		for x := 0; x < widthCells; x++ {
			out = append(out, Offset{RelX: x, RelY: 0})
		}
		for x := 0; x < widthCells; x++ {
			out = append(out, Offset{RelX: x, RelY: heightCells - 1})
		}
		return out
	default:
		out := make([]Offset, 0, widthCells*heightCells)
		for y := 0; y < heightCells; y++ {
			for x := 0; x < widthCells; x++ {
				out = append(out, Offset{RelX: x, RelY: y})
			}
		}
		return out
	}
}

// Absolute resolves the grid coordinates of a placed component's pins,
// applying its rotation about the anchor cell and offsetting by the
// anchor itself.
func Absolute(c domain.Component, cfg domain.BoardConfig) []domain.GridPoint {
	anchor := c.Anchor(cfg)
	offs := Pins(c.Kind, c.WidthCells, c.HeightCells)
	out := make([]domain.GridPoint, len(offs))
	for i, o := range offs {
		rx, ry := geom.RotatePinOffset(o.RelX, o.RelY, c.Rotation)
		out[i] = domain.GridPoint{X: anchor.X + rx, Y: anchor.Y + ry}
	}
	return out
}
