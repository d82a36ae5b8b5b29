package circuit

// Layout maps every node's fractional position onto a width x height
// surface. Positions change instantly; nothing is tweened.
func (d *Diagram) Layout(width, height float64) {
	for _, n := range d.nodes {
		n.cx = n.X * width
		n.cy = n.Y * height
	}
}

// Positions returns the pixel centres from the last layout, in node order.
func (d *Diagram) Positions() []Point {
	out := make([]Point, len(d.nodes))
	for i, n := range d.nodes {
		out[i] = n.Center()
	}
	return out
}
