package circuit

import (
	"image/color"
	"math"
	"math/rand/v2"
	"time"

	"github.com/lucasb-eyer/go-colorful"
)

// Rendering constants. Lengths are in surface pixels.
const (
	GridSpacing    = 28.0
	PacketSpeed    = 0.55 // route fractions per second
	PacketStagger  = 0.37 // phase offset per trace index
	PulseStep      = 0.02 // radians per frame
	SlowPulseExtra = 0.005
	HoverGrowth    = 4.0
	LabelOffset    = 13.0
)

// Palette holds the fixed colours of the board. Pipeline and group colours
// come from the Diagram.
type Palette struct {
	Accent      colorful.Color // baseline traces, nodes and grid
	Fallback    colorful.Color // pipeline colour when none is active
	Packet      colorful.Color
	PacketHot   colorful.Color
	PacketGlow  colorful.Color
	Label       colorful.Color
	LabelOnNode colorful.Color
}

// DefaultPalette returns the amber board palette.
func DefaultPalette() Palette {
	return Palette{
		Accent:      hex("#ffaa00"),
		Fallback:    hex("#c89600"),
		Packet:      hex("#ffcc44"),
		PacketHot:   hex("#ffe066"),
		PacketGlow:  hex("#ffaa00"),
		Label:       hex("#f5f0e8"),
		LabelOnNode: hex("#080708"),
	}
}

func hex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// rgba returns c with alpha a, the canvas "rgba(r,g,b,a)" form.
func rgba(c colorful.Color, a float64) color.NRGBA {
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(math.Round(clamp01(a) * 255))}
}

func clamp01(x float64) float64 {
	return math.Max(0, math.Min(1, x))
}

// Tier is the visual weight of a trace or node.
type Tier int

const (
	TierBaseline Tier = iota
	TierActive        // member of the active pipeline
	TierHovered       // active and touching the hovered node
)

// FrameStats summarises one drawn frame.
type FrameStats struct {
	Edges   int
	Packets int
	Nodes   int
	Elapsed float64 // seconds since the renderer epoch
}

// Renderer draws frames of a Diagram. It reads the layout and interaction
// state and writes only the node pulse phases.
type Renderer struct {
	d       *Diagram
	ctl     *Controller
	palette Palette
	epoch   time.Time
	grid    bool
}

// NewRenderer creates a renderer. Pulse phases are seeded from seed so two
// renderers with the same seed animate identically.
func NewRenderer(d *Diagram, ctl *Controller, palette Palette, epoch time.Time, seed uint64) *Renderer {
	rng := rand.New(rand.NewPCG(seed, uint64(len(d.nodes))))
	for _, n := range d.nodes {
		n.phase = rng.Float64() * 2 * math.Pi
	}
	return &Renderer{d: d, ctl: ctl, palette: palette, epoch: epoch, grid: true}
}

// SetGrid toggles the background dot grid.
func (r *Renderer) SetGrid(on bool) { r.grid = on }

// EdgeTier classifies trace i against the current interaction state.
func (r *Renderer) EdgeTier(i int) Tier {
	active := r.ctl.Active()
	if !active.HasEdge(i) {
		return TierBaseline
	}
	e := r.d.edges[i]
	if r.d.nodes[e.From].hovered || r.d.nodes[e.To].hovered {
		return TierHovered
	}
	return TierActive
}

// NodeTier classifies node i against the current interaction state.
func (r *Renderer) NodeTier(i int) Tier {
	switch {
	case r.d.nodes[i].hovered:
		return TierHovered
	case r.ctl.Active().HasNode(i):
		return TierActive
	default:
		return TierBaseline
	}
}

// PacketT returns the packet parameter of trace i after elapsed seconds.
func PacketT(i int, elapsed float64) float64 {
	offset := frac(float64(i) * PacketStagger)
	return frac(elapsed*PacketSpeed + offset)
}

// DrawFrame renders one complete frame at time now.
func (r *Renderer) DrawFrame(s Surface, now time.Time) FrameStats {
	w, h := s.Bounds()
	stats := FrameStats{Elapsed: now.Sub(r.epoch).Seconds()}

	s.Clear()
	if r.grid {
		r.drawGrid(s, w, h)
	}
	r.drawEras(s, w)

	for i := range r.d.edges {
		if r.drawEdge(s, i, stats.Elapsed) {
			stats.Packets++
		}
		stats.Edges++
	}
	for i := range r.d.nodes {
		r.drawNode(s, i)
		stats.Nodes++
	}
	return stats
}

func (r *Renderer) drawGrid(s Surface, w, h float64) {
	s.SetShadow(nil, 0)
	s.SetFill(rgba(r.palette.Accent, 0.04))
	for x := 0.0; x < w; x += GridSpacing {
		for y := 0.0; y < h; y += GridSpacing {
			s.BeginPath()
			s.Arc(x, y, 1)
			s.Fill()
		}
	}
}

func (r *Renderer) drawEras(s Surface, w float64) {
	for _, era := range r.d.eras {
		s.SetFill(rgba(era.Color, 0.6))
		s.FillText(era.Title, w*era.X, 40, TextStyle{Size: 10, Weight: 700, Align: AlignLeft})
		if era.Caption != "" {
			s.SetFill(rgba(era.Color, 0.4))
			s.FillText(era.Caption, w*era.CaptionX, 55, TextStyle{Size: 8, Weight: 600, Align: AlignLeft})
		}
	}
}

// drawEdge strokes trace i and, on active traces, its packet.
// Reports whether a packet was drawn.
func (r *Renderer) drawEdge(s Surface, i int, elapsed float64) bool {
	tier := r.EdgeTier(i)
	pipe := r.palette.Fallback
	if active := r.ctl.Active(); active != nil {
		pipe = active.Color
	}

	route := r.d.Route(i)
	pts := route.Points()
	s.BeginPath()
	s.MoveTo(pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		s.LineTo(p.X, p.Y)
	}

	switch tier {
	case TierHovered:
		s.SetStroke(rgba(pipe, 0.95), 2.2)
		s.SetShadow(rgba(pipe, 0.9), 10)
	case TierActive:
		s.SetStroke(rgba(pipe, 0.72), 1.6)
		s.SetShadow(rgba(pipe, 0.6), 6)
	default:
		s.SetStroke(rgba(r.palette.Accent, 0.10), 0.8)
		s.SetShadow(nil, 0)
	}
	s.Stroke()
	s.SetShadow(nil, 0)

	if tier == TierBaseline {
		return false
	}
	// Coincident endpoints leave nothing to travel along.
	if route.Length() < 1 {
		return false
	}

	p := route.PointAt(PacketT(i, elapsed))
	hot := tier == TierHovered
	radius, fill, blur := 2.0, r.palette.Packet, 8.0
	if hot {
		radius, fill, blur = 3.0, r.palette.PacketHot, 14.0
	}
	s.BeginPath()
	s.Arc(p.X, p.Y, radius)
	s.SetFill(rgba(fill, 1))
	s.SetShadow(rgba(r.palette.PacketGlow, 1), blur)
	s.Fill()
	s.SetShadow(nil, 0)
	return true
}

func (r *Renderer) drawNode(s Surface, i int) {
	n := r.d.nodes[i]
	n.phase += PulseStep
	if n.Slow {
		n.phase += SlowPulseExtra
	}
	glow := (math.Sin(n.phase) + 1) / 2

	tier := r.NodeTier(i)
	inPipe := r.ctl.Active().HasNode(i)
	pipe := r.palette.Accent
	if active := r.ctl.Active(); active != nil {
		pipe = active.Color
	}
	accent := r.palette.Accent

	radius := n.Radius
	if n.hovered {
		radius += HoverGrowth
	}

	if n.hovered || n.Slow || inPipe {
		// Outer ring.
		s.BeginPath()
		s.Arc(n.cx, n.cy, radius+8)
		switch {
		case inPipe && n.hovered:
			s.SetStroke(rgba(pipe, 0.55), 1)
		case inPipe:
			s.SetStroke(rgba(pipe, 0.2+glow*0.15), 1.5)
		case n.Slow:
			s.SetStroke(rgba(accent, 0.3), 1)
		default:
			s.SetStroke(rgba(accent, 0.2), 1)
		}
		s.Stroke()

		// Breathing halo.
		spread, alpha, haloColor := 16.0, 0.07*glow, accent
		switch {
		case inPipe:
			spread, alpha, haloColor = 14, 0.18*glow, pipe
		case n.Slow:
			alpha = 0.12 * glow
		}
		s.BeginPath()
		s.Arc(n.cx, n.cy, radius+spread*glow)
		s.SetStroke(rgba(haloColor, alpha), 1)
		s.Stroke()
	}

	// Body.
	var fill, shadow color.NRGBA
	var blur float64
	switch tier {
	case TierHovered:
		fill, shadow, blur = rgba(n.GroupColor, 1), rgba(n.GroupColor, 1), 20
	case TierActive:
		fill, shadow, blur = rgba(pipe, 0.55+glow*0.3), rgba(pipe, 0.9), 14+glow*8
	default:
		fill, shadow = rgba(accent, 0.18+glow*0.12), rgba(n.GroupColor, 1)
		blur = 4 + glow*3
		if n.Slow {
			blur = 12 + glow*8
		}
	}
	s.BeginPath()
	s.Arc(n.cx, n.cy, radius)
	s.SetFill(fill)
	s.SetShadow(shadow, blur)
	s.Fill()
	s.SetShadow(nil, 0)

	// Label.
	style := TextStyle{Size: 9, Weight: 400, Align: AlignCenter}
	switch tier {
	case TierHovered:
		s.SetFill(rgba(r.palette.LabelOnNode, 1))
		style.Size, style.Weight = 10, 500
	case TierActive:
		s.SetFill(rgba(r.palette.Label, 0.95))
		style.Weight = 500
	default:
		s.SetFill(rgba(r.palette.Label, 0.6))
	}
	s.FillText(n.Name, n.cx, n.cy+radius+LabelOffset, style)
}
