package circuitfile

import (
	"bytes"
	"image/color"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/circuit-toolkit/pkg/circuit"
)

func TestRenderSVGDefaultBoard(t *testing.T) {
	var buf bytes.Buffer
	stats, err := RenderSVG(&buf, DefaultDiagram(), DefaultRenderOptions())
	require.NoError(t, err)

	assert.Equal(t, 21, stats.Edges)
	assert.Equal(t, 7, stats.Packets, "one packet per xbrl trace")
	assert.Equal(t, 20, stats.Nodes)

	svg := buf.String()
	assert.True(t, strings.HasPrefix(svg, "<?xml"))
	assert.True(t, strings.HasSuffix(svg, "</svg>\n"))
	assert.Contains(t, svg, `width="900" height="600"`)
	assert.Contains(t, svg, `<filter id="glow-`)
	// 20 node labels, two era titles, two captions.
	assert.Equal(t, 24, strings.Count(svg, "<text "))
	assert.Contains(t, svg, ">ON-PREM HADOOP ERA</text>")
}

func TestRenderSVGHover(t *testing.T) {
	opts := DefaultRenderOptions()
	opts.Hover = &circuit.Point{X: 45, Y: 72} // Linux at (0.05, 0.12)

	var buf bytes.Buffer
	_, err := RenderSVG(&buf, DefaultDiagram(), opts)
	require.NoError(t, err)

	assert.Contains(t, buf.String(),
		`font-size="10" font-weight="500" text-anchor="middle" fill="#080708" fill-opacity="1">Linux</text>`)
}

func TestRenderUnknownPipeline(t *testing.T) {
	opts := DefaultRenderOptions()
	opts.Pipeline = "nope"
	_, err := RenderSVG(&bytes.Buffer{}, DefaultDiagram(), opts)
	assert.ErrorContains(t, err, `unknown pipeline "nope"`)
}

func TestRenderIsRepeatable(t *testing.T) {
	opts := DefaultRenderOptions()
	opts.Pipeline = "reso"
	opts.Elapsed = 1500 * time.Millisecond

	var a, b bytes.Buffer
	_, err := RenderSVG(&a, DefaultDiagram(), opts)
	require.NoError(t, err)
	_, err = RenderSVG(&b, DefaultDiagram(), opts)
	require.NoError(t, err)
	assert.Equal(t, a.String(), b.String())
}

func TestSVGEscapesText(t *testing.T) {
	s := NewSVGSurface(10, 10)
	s.Clear()
	s.SetFill(color.White)
	s.FillText("A & <B>", 1, 2, circuit.TextStyle{Size: 9, Align: circuit.AlignRight})
	out := s.String()
	assert.Contains(t, out, ">A &amp; &lt;B&gt;</text>")
	assert.Contains(t, out, `text-anchor="end"`)
	assert.Contains(t, out, `font-weight="400"`)
}

func TestSVGEmptyPathIsSkipped(t *testing.T) {
	s := NewSVGSurface(10, 10)
	s.Clear()
	s.BeginPath()
	s.Stroke()
	s.Fill()
	assert.NotContains(t, s.String(), "<path")
}

func TestNum(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{-0.001, "0"},
		{10, "10"},
		{1.5, "1.5"},
		{2.257, "2.26"},
		{-3.1, "-3.1"},
	}
	for _, tt := range tests {
		if got := num(tt.in); got != tt.want {
			t.Errorf("num(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRenderPNG(t *testing.T) {
	opts := DefaultRenderOptions()
	opts.Width, opts.Height = 180, 120

	var buf bytes.Buffer
	stats, err := RenderPNG(&buf, DefaultDiagram(), opts)
	require.NoError(t, err)
	assert.Equal(t, 20, stats.Nodes)

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 180, img.Bounds().Dx())
	assert.Equal(t, 120, img.Bounds().Dy())

	lit := 0
	for y := 0; y < 120; y++ {
		for x := 0; x < 180; x++ {
			r, g, _, _ := img.At(x, y).RGBA()
			if r>>8 > 0x40 || g>>8 > 0x40 {
				lit++
			}
		}
	}
	assert.Positive(t, lit, "frame is blank")
}

func TestPNGSurfaceFill(t *testing.T) {
	s := NewPNGSurface(20, 20, 2)
	w, h := s.Bounds()
	assert.Equal(t, 20.0, w)
	assert.Equal(t, 20.0, h)

	s.Clear()
	s.BeginPath()
	s.Arc(10, 10, 6)
	s.SetFill(color.White)
	s.Fill()

	img := s.Image()
	c := color.NRGBAModel.Convert(img.At(10, 10)).(color.NRGBA)
	assert.Greater(t, c.R, uint8(200))
	corner := color.NRGBAModel.Convert(img.At(0, 0)).(color.NRGBA)
	assert.InDelta(t, Background.R, corner.R, 2)
	assert.InDelta(t, Background.B, corner.B, 2)
}
