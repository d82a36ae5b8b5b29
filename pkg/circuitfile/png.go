// Raster surface for still frames, drawn with gg at a multiple of the
// target size and downsampled.

package circuitfile

import (
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"

	"github.com/ha1tch/circuit-toolkit/pkg/circuit"
)

// Background is the board colour behind every frame.
var Background = color.NRGBA{R: 0x08, G: 0x07, B: 0x08, A: 0xff}

// glowPasses is the number of widened strokes used to fake a canvas shadow.
const glowPasses = 3

var (
	monoRegular = mustParseFont(gomono.TTF)
	monoBold    = mustParseFont(gomonobold.TTF)
)

func mustParseFont(ttf []byte) *truetype.Font {
	f, err := truetype.Parse(ttf)
	if err != nil {
		panic(err) // embedded font
	}
	return f
}

type faceKey struct {
	size float64
	bold bool
}

// PNGSurface is a circuit.Surface backed by a gg context.
type PNGSurface struct {
	dc            *gg.Context
	width, height int
	scale         float64

	stroke    color.Color
	lineWidth float64
	fill      color.Color
	shadow    color.Color
	blur      float64

	faces map[faceKey]font.Face
}

// NewPNGSurface creates a width x height surface supersampled by scale.
// Scales below 1 are treated as 1.
func NewPNGSurface(width, height, scale int) *PNGSurface {
	if scale < 1 {
		scale = 1
	}
	return &PNGSurface{
		dc:        gg.NewContext(width*scale, height*scale),
		width:     width,
		height:    height,
		scale:     float64(scale),
		stroke:    color.Black,
		lineWidth: 1,
		fill:      color.Black,
		faces:     make(map[faceKey]font.Face),
	}
}

func (s *PNGSurface) Bounds() (float64, float64) {
	return float64(s.width), float64(s.height)
}

func (s *PNGSurface) Clear() {
	s.dc.SetColor(Background)
	s.dc.Clear()
	s.dc.ClearPath()
}

func (s *PNGSurface) BeginPath() { s.dc.ClearPath() }

func (s *PNGSurface) MoveTo(x, y float64) { s.dc.MoveTo(x*s.scale, y*s.scale) }

func (s *PNGSurface) LineTo(x, y float64) { s.dc.LineTo(x*s.scale, y*s.scale) }

func (s *PNGSurface) Arc(cx, cy, r float64) {
	s.dc.DrawCircle(cx*s.scale, cy*s.scale, r*s.scale)
}

func (s *PNGSurface) SetStroke(c color.Color, width float64) {
	s.stroke, s.lineWidth = c, width
}

func (s *PNGSurface) SetFill(c color.Color) { s.fill = c }

func (s *PNGSurface) SetShadow(c color.Color, blur float64) {
	s.shadow, s.blur = c, blur
}

// glow paints the current path as a series of translucent strokes, widest
// first, so the shadow fades out from the edge.
func (s *PNGSurface) glow(base float64) {
	if s.shadow == nil || s.blur <= 0 {
		return
	}
	c := scaleAlpha(s.shadow, 1.0/(glowPasses+1))
	s.dc.SetColor(c)
	for i := glowPasses; i >= 1; i-- {
		s.dc.SetLineWidth((base + s.blur*float64(i)/glowPasses) * s.scale)
		s.dc.StrokePreserve()
	}
}

func (s *PNGSurface) Stroke() {
	s.glow(s.lineWidth)
	s.dc.SetColor(s.stroke)
	s.dc.SetLineWidth(s.lineWidth * s.scale)
	s.dc.Stroke()
}

func (s *PNGSurface) Fill() {
	s.glow(0)
	s.dc.SetColor(s.fill)
	s.dc.Fill()
}

func (s *PNGSurface) FillText(text string, x, y float64, style circuit.TextStyle) {
	s.dc.SetFontFace(s.face(style))
	s.dc.SetColor(s.fill)
	ax := 0.0
	switch style.Align {
	case circuit.AlignCenter:
		ax = 0.5
	case circuit.AlignRight:
		ax = 1
	}
	s.dc.DrawStringAnchored(text, x*s.scale, y*s.scale, ax, 0)
}

func (s *PNGSurface) face(style circuit.TextStyle) font.Face {
	size := style.Size
	if size <= 0 {
		size = 9
	}
	key := faceKey{size: size, bold: style.Weight >= 600}
	if f, ok := s.faces[key]; ok {
		return f
	}
	ttf := monoRegular
	if key.bold {
		ttf = monoBold
	}
	f := truetype.NewFace(ttf, &truetype.Options{
		Size:    size * s.scale,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	s.faces[key] = f
	return f
}

// Image returns the frame downsampled to the target size.
func (s *PNGSurface) Image() *image.RGBA {
	src := s.dc.Image()
	dst := image.NewRGBA(image.Rect(0, 0, s.width, s.height))
	if s.scale == 1 {
		draw.Copy(dst, image.Point{}, src, src.Bounds(), draw.Src, nil)
		return dst
	}
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// EncodePNG writes the frame as PNG.
func (s *PNGSurface) EncodePNG(w io.Writer) error {
	return png.Encode(w, s.Image())
}

func scaleAlpha(c color.Color, k float64) color.NRGBA {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = uint8(float64(n.A) * k)
	return n
}

// RenderPNG renders one frame of d as a 4x supersampled PNG.
func RenderPNG(w io.Writer, d *circuit.Diagram, opts RenderOptions) (circuit.FrameStats, error) {
	s := NewPNGSurface(opts.Width, opts.Height, 4)
	stats, err := RenderFrame(s, d, opts)
	if err != nil {
		return stats, err
	}
	return stats, s.EncodePNG(w)
}
