package geom

import (
	"math"
	"testing"

	"uniboard/internal/domain"
)

func testConfig(w, h int) domain.BoardConfig {
	c := domain.BoardConfig{WidthHoles: w, HeightHoles: h}
	c.SetPitch(2.54)
	return c
}

func TestGridToPixelIsLeftInverseOfPixelToGrid(t *testing.T) {
	cfg := testConfig(10, 10)
	for _, p := range []domain.GridPoint{{X: 0, Y: 0}, {X: 4, Y: 2}, {X: 10, Y: 10}} {
		px, py := GridToPixel(p, cfg)
		if got := PixelToGrid(px, py, cfg, domain.ViewFront); got != p {
			t.Fatalf("round trip %+v -> (%v,%v) -> %+v", p, px, py, got)
		}
	}
}

func TestPixelToGridRoundsToNearestHole(t *testing.T) {
	cfg := testConfig(10, 10)
	// just under half a cell past hole 2
	px := 2*cfg.GridSizePx + cfg.GridSizePx*0.49
	if got := PixelToGrid(px, 0, cfg, domain.ViewFront); got.X != 2 {
		t.Fatalf("x = %d, want 2", got.X)
	}
	px = 2*cfg.GridSizePx + cfg.GridSizePx*0.51
	if got := PixelToGrid(px, 0, cfg, domain.ViewFront); got.X != 3 {
		t.Fatalf("x = %d, want 3", got.X)
	}
}

func TestMirroredAddressing(t *testing.T) {
	cfg := testConfig(10, 10)
	w := cfg.PixelWidth()
	for _, x := range []float64{0, 13.5, 101.6, w} {
		back := PixelToGrid(x, 42, cfg, domain.ViewBack)
		front := PixelToGrid(w-x, 42, cfg, domain.ViewFront)
		if back != front {
			t.Fatalf("back(%v) = %+v, front(W-x) = %+v", x, back, front)
		}
	}
}

func TestRotatePinOffsetQuadrants(t *testing.T) {
	cases := []struct {
		rot          int
		x, y         int
		wantX, wantY int
	}{
		{0, 2, 0, 2, 0},
		{90, 2, 0, 0, 2},
		{180, 2, 0, -2, 0},
		{270, 2, 0, 0, -2},
		{90, 1, 3, -3, 1},
		{360, 1, 3, 1, 3},
		{-90, 1, 0, 0, -1}, // normalized to 270
	}
	for _, c := range cases {
		gx, gy := RotatePinOffset(c.x, c.y, c.rot)
		if gx != c.wantX || gy != c.wantY {
			t.Fatalf("rotate (%d,%d) by %d = (%d,%d), want (%d,%d)", c.x, c.y, c.rot, gx, gy, c.wantX, c.wantY)
		}
	}
}

func TestInBoundsEdges(t *testing.T) {
	cfg := testConfig(10, 8)
	if !InBounds(domain.GridPoint{X: 0, Y: 0}, cfg) || !InBounds(domain.GridPoint{X: 10, Y: 8}, cfg) {
		t.Fatalf("board corners must be in bounds")
	}
	for _, p := range []domain.GridPoint{{X: -1, Y: 0}, {X: 0, Y: -1}, {X: 11, Y: 0}, {X: 0, Y: 9}} {
		if InBounds(p, cfg) {
			t.Fatalf("%+v should be out of bounds", p)
		}
	}
}

func TestViewTransformMirrorsOnceOnBack(t *testing.T) {
	cfg := testConfig(10, 10)
	m := ViewTransform(cfg, domain.ViewBack)
	got := m.Apply(Pt{X: 0, Y: 5})
	if math.Abs(got.X-cfg.PixelWidth()) > 1e-9 || got.Y != 5 {
		t.Fatalf("back transform of left edge = %+v", got)
	}
	if ViewTransform(cfg, domain.ViewFront) != Identity {
		t.Fatalf("front transform must be identity")
	}
}

func TestAffineCompose(t *testing.T) {
	m := Translate(10, 0).Mul(Scale(2, 2))
	got := m.Apply(Pt{X: 3, Y: 4})
	if got.X != 16 || got.Y != 8 {
		t.Fatalf("compose apply = %+v", got)
	}
}
