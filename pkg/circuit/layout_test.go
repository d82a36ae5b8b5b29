package circuit

import (
	"testing"
)

func TestLayoutDiagonal(t *testing.T) {
	d := mustBuild(t, threeNodeConfig())
	d.Layout(200, 200)

	want := []Point{{0, 0}, {100, 100}, {200, 200}}
	got := d.Positions()
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("node %d at %s, want %s", i, ptString(got[i]), ptString(want[i]))
		}
	}
}

func TestLayoutIdempotent(t *testing.T) {
	d := mustBuild(t, threeNodeConfig())
	d.Layout(640, 360)
	first := d.Positions()
	d.Layout(640, 360)
	second := d.Positions()

	for i := range first {
		if first[i] != second[i] {
			t.Errorf("node %d moved from %s to %s", i, ptString(first[i]), ptString(second[i]))
		}
	}
}

func TestLayoutResizeIsInstant(t *testing.T) {
	d := mustBuild(t, threeNodeConfig())
	d.Layout(200, 200)
	d.Layout(400, 100)

	if got := d.Node(1).Center(); got != (Point{200, 50}) {
		t.Errorf("after resize node 1 at %s, want (200.0,50.0)", ptString(got))
	}
	if got := d.Route(0).To; got != (Point{200, 50}) {
		t.Errorf("route endpoint %s does not follow the layout", ptString(got))
	}
}
