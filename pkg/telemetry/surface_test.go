package telemetry

import (
	"image/color"

	"github.com/ha1tch/circuit-toolkit/pkg/circuit"
)

// nullSurface discards every paint.
type nullSurface struct{ w, h float64 }

func (s nullSurface) Bounds() (float64, float64)                         { return s.w, s.h }
func (nullSurface) Clear()                                               {}
func (nullSurface) BeginPath()                                           {}
func (nullSurface) MoveTo(x, y float64)                                  {}
func (nullSurface) LineTo(x, y float64)                                  {}
func (nullSurface) Arc(cx, cy, r float64)                                {}
func (nullSurface) SetStroke(c color.Color, width float64)               {}
func (nullSurface) SetFill(c color.Color)                                {}
func (nullSurface) SetShadow(c color.Color, blur float64)                {}
func (nullSurface) Stroke()                                              {}
func (nullSurface) Fill()                                                {}
func (nullSurface) FillText(string, float64, float64, circuit.TextStyle) {}
