package circuitfile

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/ha1tch/circuit-toolkit/pkg/circuit"
)

// RenderOptions configures a single still frame.
type RenderOptions struct {
	Width, Height int
	Pipeline      string         // empty selects the diagram default
	Elapsed       time.Duration  // packet clock position
	Hover         *circuit.Point // pointer position, if any
	Seed          uint64
	Grid          bool
	Palette       circuit.Palette
	Logger        *slog.Logger
}

// DefaultRenderOptions returns a 900x600 frame of the default pipeline.
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{
		Width:   900,
		Height:  600,
		Grid:    true,
		Palette: circuit.DefaultPalette(),
	}
}

// stillEpoch anchors still frames so the same options give the same image.
var stillEpoch = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// RenderFrame draws one frame of d onto s. The surface must already have
// the requested size.
func RenderFrame(s circuit.Surface, d *circuit.Diagram, opts RenderOptions) (circuit.FrameStats, error) {
	copts := circuit.DefaultOptions()
	copts.Epoch = stillEpoch
	copts.Seed = opts.Seed
	copts.Grid = opts.Grid
	copts.Logger = opts.Logger
	if opts.Palette != (circuit.Palette{}) {
		copts.Palette = opts.Palette
	}

	c := circuit.New(d, s, &circuit.ManualScheduler{}, copts)
	if c.Disabled() {
		return circuit.FrameStats{}, fmt.Errorf("render: missing diagram or surface")
	}
	c.Resize()
	if opts.Pipeline != "" && !c.SetActivePipeline(opts.Pipeline) {
		return circuit.FrameStats{}, fmt.Errorf("unknown pipeline %q", opts.Pipeline)
	}
	if opts.Hover != nil {
		c.PointerMove(opts.Hover.X, opts.Hover.Y)
	}
	return c.Step(stillEpoch.Add(opts.Elapsed)), nil
}
