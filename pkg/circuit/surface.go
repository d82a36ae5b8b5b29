package circuit

import (
	"image/color"
	"time"
)

// Align is the horizontal anchor of a text run.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// TextStyle describes a label.
type TextStyle struct {
	Size   float64 // pixels
	Weight int     // CSS-style weight, 400 regular, 700 bold
	Align  Align
}

// Surface is the 2D drawing context a frame is rendered onto.
//
// It follows the path model of an HTML canvas: BeginPath starts a new path,
// MoveTo/LineTo/Arc append to it and Stroke/Fill paint it with the current
// stroke or fill style. The shadow applies to every paint until reset with a
// zero blur.
type Surface interface {
	// Bounds returns the drawable size in pixels.
	Bounds() (width, height float64)

	Clear()
	BeginPath()
	MoveTo(x, y float64)
	LineTo(x, y float64)
	// Arc appends a full circle of radius r centred on (cx, cy).
	Arc(cx, cy, r float64)

	SetStroke(c color.Color, width float64)
	SetFill(c color.Color)
	SetShadow(c color.Color, blur float64)

	Stroke()
	Fill()
	// FillText draws text with its baseline at y using the fill colour.
	FillText(text string, x, y float64, style TextStyle)
}

// FrameFunc is invoked by a Scheduler with the frame timestamp.
type FrameFunc func(now time.Time)

// Scheduler delivers a callback on the host's next display frame.
// The returned cancel function guarantees fn will not run afterwards.
type Scheduler interface {
	Schedule(fn FrameFunc) (cancel func())
}

// InfoPanel receives hover reports.
type InfoPanel interface {
	HoverEnter(name, description string)
	HoverExit()
}

type nopPanel struct{}

func (nopPanel) HoverEnter(string, string) {}
func (nopPanel) HoverExit()                {}
