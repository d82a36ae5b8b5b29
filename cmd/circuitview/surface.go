package main

import (
	"image/color"
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/ha1tch/circuit-toolkit/pkg/circuit"
	"github.com/ha1tch/circuit-toolkit/pkg/circuitfile"
)

// minAlpha is the weakest paint still drawn; fainter ones vanish into the
// background at cell resolution.
const minAlpha = 0.06

type segment struct{ x0, y0, x1, y1 float64 }

type disc struct{ cx, cy, r float64 }

// cellSurface draws onto a rectangle of terminal cells. Each cell stands for
// cellW x cellH surface pixels. Lines become box-drawing runes, filled
// circles become dots and strokes of circles are skipped.
type cellSurface struct {
	screen       tcell.Screen
	x0, y0       int
	cols, rows   int
	cellW, cellH float64

	bg     colorful.Color
	stroke color.Color
	fill   color.Color
	glow   float64

	segs  []segment
	discs []disc
	pen   circuit.Point
}

func newCellSurface(screen tcell.Screen, cellW, cellH float64) *cellSurface {
	bg, _ := colorful.MakeColor(circuitfile.Background)
	return &cellSurface{screen: screen, cellW: cellW, cellH: cellH, bg: bg}
}

// Place moves the surface to the given cell rectangle.
func (s *cellSurface) Place(x, y, cols, rows int) {
	s.x0, s.y0 = x, y
	s.cols, s.rows = max(cols, 0), max(rows, 0)
}

// ToPixels maps a screen cell to the surface pixel at its centre. ok is
// false when the cell lies outside the surface.
func (s *cellSurface) ToPixels(col, row int) (x, y float64, ok bool) {
	c, r := col-s.x0, row-s.y0
	if c < 0 || r < 0 || c >= s.cols || r >= s.rows {
		return 0, 0, false
	}
	return (float64(c) + 0.5) * s.cellW, (float64(r) + 0.5) * s.cellH, true
}

func (s *cellSurface) Bounds() (float64, float64) {
	return float64(s.cols) * s.cellW, float64(s.rows) * s.cellH
}

func (s *cellSurface) Clear() {
	st := tcell.StyleDefault.Background(s.tcellColor(s.bg))
	for r := 0; r < s.rows; r++ {
		for c := 0; c < s.cols; c++ {
			s.screen.SetContent(s.x0+c, s.y0+r, ' ', nil, st)
		}
	}
	s.BeginPath()
}

func (s *cellSurface) BeginPath() {
	s.segs = s.segs[:0]
	s.discs = s.discs[:0]
}

func (s *cellSurface) MoveTo(x, y float64) { s.pen = circuit.Point{X: x, Y: y} }

func (s *cellSurface) LineTo(x, y float64) {
	s.segs = append(s.segs, segment{s.pen.X, s.pen.Y, x, y})
	s.pen = circuit.Point{X: x, Y: y}
}

func (s *cellSurface) Arc(cx, cy, r float64) { s.discs = append(s.discs, disc{cx, cy, r}) }

func (s *cellSurface) SetStroke(c color.Color, width float64) { s.stroke = c }
func (s *cellSurface) SetFill(c color.Color)                  { s.fill = c }
func (s *cellSurface) SetShadow(c color.Color, blur float64)  { s.glow = blur }

func (s *cellSurface) Stroke() {
	st, ok := s.style(s.stroke)
	if !ok {
		return
	}
	for _, sg := range s.segs {
		s.line(sg, st)
	}
}

func (s *cellSurface) Fill() {
	st, ok := s.style(s.fill)
	if !ok {
		return
	}
	for _, d := range s.discs {
		glyph := '●'
		switch {
		case d.r <= 1:
			glyph = '·'
		case d.r <= 3:
			glyph = '•'
		}
		s.set(s.cell(d.cx, d.cy), glyph, st)
	}
}

func (s *cellSurface) FillText(text string, x, y float64, style circuit.TextStyle) {
	st, ok := s.style(s.fill)
	if !ok {
		return
	}
	if style.Weight >= 600 {
		st = st.Bold(true)
	}
	runes := []rune(text)
	at := s.cell(x, y-1)
	col, row := at[0], at[1]
	switch style.Align {
	case circuit.AlignCenter:
		col -= len(runes) / 2
	case circuit.AlignRight:
		col -= len(runes)
	}
	for i, r := range runes {
		s.set([2]int{col + i, row}, r, st)
	}
}

// line rasterises one segment. Axis-aligned runs use box-drawing runes and
// merge into a cross where they meet a perpendicular run.
func (s *cellSurface) line(sg segment, st tcell.Style) {
	a := s.cell(sg.x0, sg.y0)
	b := s.cell(sg.x1, sg.y1)
	switch {
	case a[1] == b[1]:
		for c := min(a[0], b[0]); c <= max(a[0], b[0]); c++ {
			s.setLine([2]int{c, a[1]}, '─', st)
		}
	case a[0] == b[0]:
		for r := min(a[1], b[1]); r <= max(a[1], b[1]); r++ {
			s.setLine([2]int{a[0], r}, '│', st)
		}
	default:
		n := max(abs(b[0]-a[0]), abs(b[1]-a[1]))
		for i := 0; i <= n; i++ {
			t := float64(i) / float64(n)
			c := a[0] + int(math.Round(t*float64(b[0]-a[0])))
			r := a[1] + int(math.Round(t*float64(b[1]-a[1])))
			s.set([2]int{c, r}, '·', st)
		}
	}
}

func (s *cellSurface) setLine(at [2]int, glyph rune, st tcell.Style) {
	if cur, ok := s.runeAt(at); ok {
		if (cur == '─' && glyph == '│') || (cur == '│' && glyph == '─') || cur == '┼' {
			glyph = '┼'
		}
	}
	s.set(at, glyph, st)
}

func (s *cellSurface) cell(x, y float64) [2]int {
	return [2]int{int(math.Floor(x / s.cellW)), int(math.Floor(y / s.cellH))}
}

func (s *cellSurface) inside(at [2]int) bool {
	return at[0] >= 0 && at[1] >= 0 && at[0] < s.cols && at[1] < s.rows
}

func (s *cellSurface) runeAt(at [2]int) (rune, bool) {
	if !s.inside(at) {
		return 0, false
	}
	r, _, _, _ := s.screen.GetContent(s.x0+at[0], s.y0+at[1])
	return r, true
}

func (s *cellSurface) set(at [2]int, r rune, st tcell.Style) {
	if !s.inside(at) {
		return
	}
	s.screen.SetContent(s.x0+at[0], s.y0+at[1], r, nil, st)
}

// style blends c over the background. ok is false when the paint is too
// faint to show.
func (s *cellSurface) style(c color.Color) (tcell.Style, bool) {
	if c == nil {
		return tcell.StyleDefault, false
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	a := float64(n.A) / 255
	if a < minAlpha {
		return tcell.StyleDefault, false
	}
	fg := colorful.Color{R: float64(n.R) / 255, G: float64(n.G) / 255, B: float64(n.B) / 255}
	st := tcell.StyleDefault.
		Background(s.tcellColor(s.bg)).
		Foreground(s.tcellColor(s.bg.BlendRgb(fg, a)))
	if s.glow >= 10 {
		st = st.Bold(true)
	}
	return st, true
}

func (s *cellSurface) tcellColor(c colorful.Color) tcell.Color {
	r, g, b := c.Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
