/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package geom converts between pointer/pixel space and grid-index space,
// applies per-component rotation, and handles the whole-board front/back
// mirroring. Out-of-range grid coordinates are not an error here; they mean
// the pointer is off-board and callers decide what to do with that.
package geom

import (
	"math"

	"uniboard/internal/domain"
)

// MirrorX reflects a pixel x coordinate about the board's total pixel
// width. Applied exactly once, at the boundary between logical coordinates
// and the presentation frame, so nothing downstream double-flips.
func MirrorX(px float64, cfg domain.BoardConfig) float64 {
	return cfg.PixelWidth() - px
}

// PixelToGrid maps a pointer position to the nearest hole. On the back
// view the x coordinate is reflected first so a click on the mirrored
// rendering lands on the same logical hole as it would on the front.
func PixelToGrid(px, py float64, cfg domain.BoardConfig, side domain.ViewSide) domain.GridPoint {
	if cfg.GridSizePx <= 0 {
		return domain.GridPoint{}
	}
	if side == domain.ViewBack {
		px = MirrorX(px, cfg)
	}
	return domain.GridPoint{
		X: int(math.Round(px / cfg.GridSizePx)),
		Y: int(math.Round(py / cfg.GridSizePx)),
	}
}

// GridToPixel maps a hole to its pixel position. No mirroring: that is the
// presentation frame's job.
func GridToPixel(p domain.GridPoint, cfg domain.BoardConfig) (px, py float64) {
	return float64(p.X) * cfg.GridSizePx, float64(p.Y) * cfg.GridSizePx
}

// RotatePinOffset rotates a pin offset in the component's local frame
// about its top-left anchor cell. Rotation is one of 0, 90, 180, 270;
// anything else is treated as 0.
func RotatePinOffset(relX, relY, rotationDeg int) (int, int) {
	switch ((rotationDeg % 360) + 360) % 360 {
	case 90:
		return -relY, relX
	case 180:
		return -relX, -relY
	case 270:
		return relY, -relX
	default:
		return relX, relY
	}
}

// InBounds reports whether a grid point lies on the board.
func InBounds(p domain.GridPoint, cfg domain.BoardConfig) bool {
	return p.X >= 0 && p.X <= cfg.WidthHoles && p.Y >= 0 && p.Y <= cfg.HeightHoles
}
