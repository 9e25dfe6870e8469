package connect

import (
	"testing"

	"uniboard/internal/domain"
)

func testDoc() *domain.Document {
	d := domain.NewDocument()
	d.Board.SetHoles(10, 10)
	return d
}

func placedResistor(d *domain.Document, at domain.GridPoint) domain.Component {
	c := domain.Component{ID: "c-1", Kind: domain.KindResistor, WidthCells: 3, HeightCells: 1, Name: "R1"}
	c.SetAnchor(at, d.Board)
	d.Components = append(d.Components, c)
	return c
}

func TestBindComponentFindsEndpointsOnPins(t *testing.T) {
	d := testDoc()
	c := placedResistor(d, domain.GridPoint{X: 2, Y: 2}) // pins (2,2) and (4,2)
	d.Wires = append(d.Wires,
		domain.Wire{ID: "w-1", StartX: 4, StartY: 2, EndX: 4, EndY: 5, Color: domain.WireRed},   // start on pin
		domain.Wire{ID: "w-2", StartX: 2, StartY: 2, EndX: 4, EndY: 2, Color: domain.WireBlue},  // both ends on pins
		domain.Wire{ID: "w-3", StartX: 7, StartY: 7, EndX: 8, EndY: 8, Color: domain.WireGreen}, // unrelated
	)

	got := BindComponent(d, c, d.Board)
	if len(got) != 3 {
		t.Fatalf("bindings = %+v, want 3 entries", got)
	}
	byWire := map[string]int{}
	for _, b := range got {
		byWire[b.WireID]++
	}
	if byWire["w-1"] != 1 || byWire["w-2"] != 2 || byWire["w-3"] != 0 {
		t.Fatalf("binding counts = %v", byWire)
	}
}

func TestComponentCoMotionIsExact(t *testing.T) {
	d := testDoc()
	c := placedResistor(d, domain.GridPoint{X: 2, Y: 2})
	d.Wires = append(d.Wires,
		domain.Wire{ID: "w-1", StartX: 4, StartY: 2, EndX: 4, EndY: 5, Color: domain.WireRed},
		domain.Wire{ID: "w-2", StartX: 7, StartY: 7, EndX: 8, EndY: 8, Color: domain.WireGreen},
	)
	bindings := BindComponent(d, c, d.Board)

	// simulate many intermediate moves; the final position must be exactly
	// initial + last delta, not a sum of per-move increments
	for _, delta := range [][2]int{{1, 0}, {2, 1}, {1, 0}} {
		ApplyDelta(d, bindings, delta[0], delta[1])
	}
	w := d.WireByID("w-1")
	if w.Start() != (domain.GridPoint{X: 5, Y: 2}) {
		t.Fatalf("bound endpoint = %+v, want (5,2)", w.Start())
	}
	if w.End() != (domain.GridPoint{X: 4, Y: 5}) {
		t.Fatalf("free endpoint moved: %+v", w.End())
	}
	if u := d.WireByID("w-2"); u.Start() != (domain.GridPoint{X: 7, Y: 7}) {
		t.Fatalf("unbound wire moved: %+v", u.Start())
	}
}

func TestJunctionGroupMovesTogether(t *testing.T) {
	d := testDoc()
	at := domain.GridPoint{X: 3, Y: 3}
	d.Wires = append(d.Wires,
		domain.Wire{ID: "w-1", StartX: 3, StartY: 3, EndX: 6, EndY: 3, Color: domain.WireRed},
		domain.Wire{ID: "w-2", StartX: 3, StartY: 3, EndX: 3, EndY: 7, Color: domain.WireBlue},
		domain.Wire{ID: "w-3", StartX: 1, StartY: 1, EndX: 3, EndY: 3, Color: domain.WireBlack},
		domain.Wire{ID: "w-4", StartX: 6, StartY: 6, EndX: 8, EndY: 8, Color: domain.WireGreen},
	)
	group := BindJunction(d, at)
	if len(group) != 3 {
		t.Fatalf("junction group size = %d, want 3", len(group))
	}
	to := domain.GridPoint{X: 5, Y: 5}
	MoveTo(d, group, to)
	if d.WireByID("w-1").Start() != to || d.WireByID("w-2").Start() != to || d.WireByID("w-3").End() != to {
		t.Fatalf("junction endpoints did not move together")
	}
	if d.WireByID("w-4").Start() != (domain.GridPoint{X: 6, Y: 6}) {
		t.Fatalf("unrelated endpoint moved")
	}
}

func TestRestorePutsEndpointsBack(t *testing.T) {
	d := testDoc()
	d.Wires = append(d.Wires, domain.Wire{ID: "w-1", StartX: 3, StartY: 3, EndX: 6, EndY: 3, Color: domain.WireRed})
	group := BindJunction(d, domain.GridPoint{X: 3, Y: 3})
	MoveTo(d, group, domain.GridPoint{X: 9, Y: 9})
	Restore(d, group)
	if d.WireByID("w-1").Start() != (domain.GridPoint{X: 3, Y: 3}) {
		t.Fatalf("restore failed: %+v", d.WireByID("w-1").Start())
	}
}

func TestStaleWireIDIsIgnored(t *testing.T) {
	d := testDoc()
	d.Wires = append(d.Wires, domain.Wire{ID: "w-1", StartX: 3, StartY: 3, EndX: 6, EndY: 3, Color: domain.WireRed})
	group := BindJunction(d, domain.GridPoint{X: 3, Y: 3})
	d.RemoveWire("w-1")
	// must not panic, must not resurrect the wire
	ApplyDelta(d, group, 1, 1)
	MoveTo(d, group, domain.GridPoint{X: 1, Y: 1})
	Restore(d, group)
	if len(d.Wires) != 0 {
		t.Fatalf("wires = %+v", d.Wires)
	}
}
