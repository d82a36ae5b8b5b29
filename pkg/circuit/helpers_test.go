package circuit

import (
	"fmt"
	"image/color"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// recordSurface is a Surface that only counts what it is asked to paint.
type recordSurface struct {
	w, h float64

	clears  int
	strokes int
	fills   int
	texts   []string
	arcs    []Point
	fill    color.Color
	stroke  color.Color
	width   float64
	blur    float64
}

func newRecordSurface(w, h float64) *recordSurface {
	return &recordSurface{w: w, h: h}
}

func (s *recordSurface) Bounds() (float64, float64) { return s.w, s.h }
func (s *recordSurface) Clear() {
	s.clears++
	s.strokes, s.fills = 0, 0
	s.texts, s.arcs = nil, nil
}
func (s *recordSurface) BeginPath()                         {}
func (s *recordSurface) MoveTo(x, y float64)                {}
func (s *recordSurface) LineTo(x, y float64)                {}
func (s *recordSurface) Arc(cx, cy, r float64)              { s.arcs = append(s.arcs, Point{cx, cy}) }
func (s *recordSurface) SetStroke(c color.Color, w float64) { s.stroke, s.width = c, w }
func (s *recordSurface) SetFill(c color.Color)              { s.fill = c }
func (s *recordSurface) SetShadow(c color.Color, b float64) { s.blur = b }
func (s *recordSurface) Stroke()                            { s.strokes++ }
func (s *recordSurface) Fill()                              { s.fills++ }
func (s *recordSurface) FillText(text string, x, y float64, style TextStyle) {
	s.texts = append(s.texts, text)
}

// recordPanel logs hover reports in order.
type recordPanel struct {
	events []string
}

func (p *recordPanel) HoverEnter(name, desc string) {
	p.events = append(p.events, "enter:"+name)
}

func (p *recordPanel) HoverExit() {
	p.events = append(p.events, "exit")
}

func (p *recordPanel) reset() { p.events = nil }

// threeNodeConfig is the diagonal fixture: nodes at (0,0), (0.5,0.5), (1,1)
// with traces a->b, b->c and pipelines "ends" {a,c} and "all".
func threeNodeConfig() Config {
	return Config{
		Name: "diagonal",
		Groups: []GroupConfig{{
			Label: "G",
			Color: "#ffaa00",
			Nodes: []NodeConfig{
				{ID: "a", Name: "A", X: 0, Y: 0, Description: "first"},
				{ID: "b", Name: "B", X: 0.5, Y: 0.5, Description: "middle"},
				{ID: "c", Name: "C", X: 1, Y: 1, Description: "last"},
			},
		}},
		Edges: []EdgeConfig{
			{From: At(0), To: At(1)},
			{From: Named("b"), To: Named("c")},
		},
		Pipelines: []PipelineConfig{
			{ID: "ends", Label: "Ends", Color: "#cc8800", Edges: nil, Nodes: []Ref{At(0), At(2)}},
			{ID: "all", Label: "All", Color: "#ffaa00", Edges: []Ref{At(0), Named("b->c")}, Nodes: []Ref{At(0), At(1), At(2)}},
		},
		Default: "all",
	}
}

func mustBuild(t *testing.T, cfg Config) *Diagram {
	t.Helper()
	d, err := Build(cfg)
	require.NoError(t, err)
	return d
}

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func at(seconds float64) time.Time {
	return epoch.Add(time.Duration(seconds * float64(time.Second)))
}

func newTestCircuit(t *testing.T, cfg Config, w, h float64) (*Circuit, *recordSurface, *ManualScheduler, *recordPanel) {
	t.Helper()
	surf := newRecordSurface(w, h)
	sched := &ManualScheduler{}
	panel := &recordPanel{}
	opts := DefaultOptions()
	opts.Panel = panel
	opts.Epoch = epoch
	c := New(mustBuild(t, cfg), surf, sched, opts)
	c.Resize()
	return c, surf, sched, panel
}

func ptString(p Point) string { return fmt.Sprintf("(%.1f,%.1f)", p.X, p.Y) }
