/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package geom

import (
	"math"

	"uniboard/internal/domain"
)

// Pt is a 2D point in pixel space.
type Pt struct{ X, Y float64 }

// Affine2D is a 2D affine transform stored as matrix
// | a c e |
// | b d f |
// | 0 0 1 |
// and used to build the presentation frame (view scale, pan offset, and
// the single back-view reflection).
type Affine2D struct{ A, B, C, D, E, F float64 }

// Identity is the no-op transform.
var Identity = Affine2D{A: 1, D: 1}

// Mul composes transforms: m applied after n.
func (m Affine2D) Mul(n Affine2D) Affine2D {
	return Affine2D{
		A: m.A*n.A + m.C*n.B,
		B: m.B*n.A + m.D*n.B,
		C: m.A*n.C + m.C*n.D,
		D: m.B*n.C + m.D*n.D,
		E: m.A*n.E + m.C*n.F + m.E,
		F: m.B*n.E + m.D*n.F + m.F,
	}
}

// Apply transforms a point.
func (m Affine2D) Apply(p Pt) Pt {
	return Pt{
		X: m.A*p.X + m.C*p.Y + m.E,
		Y: m.B*p.X + m.D*p.Y + m.F,
	}
}

// Translate builds a translation transform.
func Translate(tx, ty float64) Affine2D { return Affine2D{A: 1, D: 1, E: tx, F: ty} }

// Scale builds a scaling transform.
func Scale(sx, sy float64) Affine2D { return Affine2D{A: sx, D: sy} }

// Rotate builds a rotation transform (radians).
func Rotate(rad float64) Affine2D {
	c := math.Cos(rad)
	s := math.Sin(rad)
	return Affine2D{A: c, B: s, C: -s, D: c}
}

// ViewTransform returns the logical→presentation transform for a view
// side: identity on the front, scale(-1,1) about the board width on the
// back, matching how the board is rendered mirrored.
func ViewTransform(cfg domain.BoardConfig, side domain.ViewSide) Affine2D {
	if side != domain.ViewBack {
		return Identity
	}
	return Translate(cfg.PixelWidth(), 0).Mul(Scale(-1, 1))
}
