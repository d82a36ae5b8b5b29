package main

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ha1tch/circuit-toolkit/pkg/circuit"
)

func TestCellSurfaceLines(t *testing.T) {
	s := newTestScreen(t, 20, 10)
	cs := newCellSurface(s, 10, 10)
	cs.Place(2, 1, 10, 5)
	cs.Clear()

	cs.SetStroke(color.NRGBA{R: 255, G: 170, A: 255}, 1)
	cs.BeginPath()
	cs.MoveTo(5, 25)
	cs.LineTo(55, 25) // row 2, cols 0..5
	cs.Stroke()
	cs.BeginPath()
	cs.MoveTo(35, 5)
	cs.LineTo(35, 45) // col 3, rows 0..4
	cs.Stroke()

	at := func(c, r int) rune {
		ch, _, _, _ := s.GetContent(2+c, 1+r)
		return ch
	}
	assert.Equal(t, '─', at(0, 2))
	assert.Equal(t, '─', at(5, 2))
	assert.Equal(t, '│', at(3, 0))
	assert.Equal(t, '┼', at(3, 2))
	assert.Equal(t, ' ', at(6, 2))
}

func TestCellSurfaceSkipsFaintPaint(t *testing.T) {
	s := newTestScreen(t, 20, 10)
	cs := newCellSurface(s, 10, 10)
	cs.Place(0, 0, 10, 5)
	cs.Clear()

	cs.SetFill(color.NRGBA{R: 255, A: 10})
	cs.BeginPath()
	cs.Arc(15, 15, 1)
	cs.Fill()
	ch, _, _, _ := s.GetContent(1, 1)
	assert.Equal(t, ' ', ch)

	cs.SetFill(color.NRGBA{R: 255, A: 255})
	cs.Fill()
	ch, _, _, _ = s.GetContent(1, 1)
	assert.Equal(t, '·', ch)

	cs.BeginPath()
	cs.Arc(45, 15, 7)
	cs.Fill()
	ch, _, _, _ = s.GetContent(4, 1)
	assert.Equal(t, '●', ch)
}

func TestCellSurfaceText(t *testing.T) {
	s := newTestScreen(t, 20, 10)
	cs := newCellSurface(s, 10, 10)
	cs.Place(0, 0, 20, 5)
	cs.Clear()

	cs.SetFill(color.White)
	cs.FillText("Linux", 100, 21, circuit.TextStyle{Align: circuit.AlignCenter})
	assert.Equal(t, "  Linux ", rowText(s, 2)[6:14])

	// Text is clipped to the surface.
	cs.FillText("overflow", 180, 31, circuit.TextStyle{})
	assert.Equal(t, "ov", rowText(s, 3)[18:20])
}

func TestCellSurfacePixels(t *testing.T) {
	s := newTestScreen(t, 20, 10)
	cs := newCellSurface(s, 8, 16)
	cs.Place(1, 1, 10, 5)

	x, y, ok := cs.ToPixels(1, 1)
	assert.True(t, ok)
	assert.Equal(t, 4.0, x)
	assert.Equal(t, 8.0, y)

	_, _, ok = cs.ToPixels(11, 1)
	assert.False(t, ok)
	_, _, ok = cs.ToPixels(0, 1)
	assert.False(t, ok)
}
