package circuitfile

import (
	"fmt"
	"html"
	"image/color"
	"io"
	"sort"
	"strings"

	"github.com/ha1tch/circuit-toolkit/pkg/circuit"
)

// SVGSurface is a circuit.Surface that records a frame as SVG markup.
// Shadows become feGaussianBlur filters shared between elements with the
// same colour and blur.
type SVGSurface struct {
	width, height int

	body strings.Builder
	path strings.Builder

	stroke    color.Color
	lineWidth float64
	fill      color.Color
	shadow    color.Color
	blur      float64

	filters map[string]string // id -> definition
}

// NewSVGSurface creates a width x height SVG surface.
func NewSVGSurface(width, height int) *SVGSurface {
	return &SVGSurface{
		width:     width,
		height:    height,
		stroke:    color.Black,
		lineWidth: 1,
		fill:      color.Black,
		filters:   make(map[string]string),
	}
}

func (s *SVGSurface) Bounds() (float64, float64) {
	return float64(s.width), float64(s.height)
}

func (s *SVGSurface) Clear() {
	s.body.Reset()
	s.path.Reset()
	s.filters = make(map[string]string)
	hexc, _ := svgColor(Background)
	fmt.Fprintf(&s.body, "<rect width=\"%d\" height=\"%d\" fill=\"%s\"/>\n", s.width, s.height, hexc)
}

func (s *SVGSurface) BeginPath() { s.path.Reset() }

func (s *SVGSurface) MoveTo(x, y float64) { fmt.Fprintf(&s.path, "M%s %s", num(x), num(y)) }

func (s *SVGSurface) LineTo(x, y float64) { fmt.Fprintf(&s.path, "L%s %s", num(x), num(y)) }

func (s *SVGSurface) Arc(cx, cy, r float64) {
	fmt.Fprintf(&s.path, "M%s %sA%s %s 0 1 0 %s %sA%s %s 0 1 0 %s %sZ",
		num(cx+r), num(cy),
		num(r), num(r), num(cx-r), num(cy),
		num(r), num(r), num(cx+r), num(cy))
}

func (s *SVGSurface) SetStroke(c color.Color, width float64) {
	s.stroke, s.lineWidth = c, width
}

func (s *SVGSurface) SetFill(c color.Color) { s.fill = c }

func (s *SVGSurface) SetShadow(c color.Color, blur float64) {
	s.shadow, s.blur = c, blur
}

func (s *SVGSurface) Stroke() {
	if s.path.Len() == 0 {
		return
	}
	hexc, op := svgColor(s.stroke)
	fmt.Fprintf(&s.body, "<path d=\"%s\" fill=\"none\" stroke=\"%s\" stroke-opacity=\"%s\" stroke-width=\"%s\"%s/>\n",
		s.path.String(), hexc, num(op), num(s.lineWidth), s.filterAttr())
}

func (s *SVGSurface) Fill() {
	if s.path.Len() == 0 {
		return
	}
	hexc, op := svgColor(s.fill)
	fmt.Fprintf(&s.body, "<path d=\"%s\" fill=\"%s\" fill-opacity=\"%s\"%s/>\n",
		s.path.String(), hexc, num(op), s.filterAttr())
}

func (s *SVGSurface) FillText(text string, x, y float64, style circuit.TextStyle) {
	anchor := "start"
	switch style.Align {
	case circuit.AlignCenter:
		anchor = "middle"
	case circuit.AlignRight:
		anchor = "end"
	}
	weight := style.Weight
	if weight == 0 {
		weight = 400
	}
	hexc, op := svgColor(s.fill)
	fmt.Fprintf(&s.body, "<text x=\"%s\" y=\"%s\" font-family=\"monospace\" font-size=\"%s\" font-weight=\"%d\" text-anchor=\"%s\" fill=\"%s\" fill-opacity=\"%s\">%s</text>\n",
		num(x), num(y), num(style.Size), weight, anchor, hexc, num(op), html.EscapeString(text))
}

// filterAttr returns the filter reference for the current shadow, defining
// the filter on first use.
func (s *SVGSurface) filterAttr() string {
	if s.shadow == nil || s.blur <= 0 {
		return ""
	}
	hexc, op := svgColor(s.shadow)
	if op == 0 {
		return ""
	}
	id := fmt.Sprintf("glow-%s-%s-%s", strings.TrimPrefix(hexc, "#"), num(op*100), num(s.blur*10))
	id = strings.ReplaceAll(id, ".", "_")
	if _, ok := s.filters[id]; !ok {
		// Canvas shadowBlur is roughly twice the gaussian deviation.
		s.filters[id] = fmt.Sprintf(
			"<filter id=\"%s\" x=\"-100%%\" y=\"-100%%\" width=\"300%%\" height=\"300%%\">"+
				"<feGaussianBlur in=\"SourceAlpha\" stdDeviation=\"%s\" result=\"blur\"/>"+
				"<feFlood flood-color=\"%s\" flood-opacity=\"%s\"/>"+
				"<feComposite operator=\"in\" in2=\"blur\" result=\"glow\"/>"+
				"<feMerge><feMergeNode in=\"glow\"/><feMergeNode in=\"SourceGraphic\"/></feMerge>"+
				"</filter>",
			id, num(s.blur/2), hexc, num(op))
	}
	return fmt.Sprintf(" filter=\"url(#%s)\"", id)
}

// WriteTo writes the complete SVG document.
func (s *SVGSurface) WriteTo(w io.Writer) (int64, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
`, s.width, s.height, s.width, s.height)
	if len(s.filters) > 0 {
		ids := make([]string, 0, len(s.filters))
		for id := range s.filters {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		sb.WriteString("<defs>\n")
		for _, id := range ids {
			sb.WriteString(s.filters[id])
			sb.WriteString("\n")
		}
		sb.WriteString("</defs>\n")
	}
	sb.WriteString(s.body.String())
	sb.WriteString("</svg>\n")
	n, err := io.WriteString(w, sb.String())
	return int64(n), err
}

// String returns the SVG document.
func (s *SVGSurface) String() string {
	var sb strings.Builder
	s.WriteTo(&sb)
	return sb.String()
}

// RenderSVG renders one frame of d as SVG.
func RenderSVG(w io.Writer, d *circuit.Diagram, opts RenderOptions) (circuit.FrameStats, error) {
	s := NewSVGSurface(opts.Width, opts.Height)
	stats, err := RenderFrame(s, d, opts)
	if err != nil {
		return stats, err
	}
	_, err = s.WriteTo(w)
	return stats, err
}

// svgColor splits c into a #rrggbb string and an opacity.
func svgColor(c color.Color) (string, float64) {
	if c == nil {
		return "#000000", 0
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return fmt.Sprintf("#%02x%02x%02x", n.R, n.G, n.B), float64(n.A) / 255
}

// num formats a coordinate with at most two decimals.
func num(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" || s == "" {
		return "0"
	}
	return s
}
