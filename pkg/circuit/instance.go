package circuit

import (
	"log/slog"
	"time"
)

// Hooks observe state changes of a Circuit. Every field is optional.
type Hooks struct {
	HoverChanged    func(prev, next *Node)
	PipelineChanged func(from, to string, known bool)
	FrameDrawn      func(stats FrameStats, took time.Duration)
}

// Options configures a Circuit.
type Options struct {
	// HoverSlack widens every node's hit area. Zero selects
	// DefaultHoverSlack; any negative value (NoHoverSlack) disables it.
	HoverSlack float64
	Palette    Palette
	Panel      InfoPanel
	Logger     *slog.Logger
	Hooks      Hooks
	Epoch      time.Time // packet clock origin; zero means time.Now()
	Seed       uint64    // pulse phase seed
	Grid       bool
}

// DefaultOptions returns the standard board settings.
func DefaultOptions() Options {
	return Options{
		HoverSlack: DefaultHoverSlack,
		Palette:    DefaultPalette(),
		Grid:       true,
	}
}

// Circuit is one live diagram: the model plus its layout, interaction state
// and render loop. All methods must be called from the host's event loop.
//
// A Circuit created without a surface or scheduler is disabled: every
// method is a no-op, so a missing canvas never takes the host down.
type Circuit struct {
	d        *Diagram
	surface  Surface
	ctl      *Controller
	renderer *Renderer
	loop     *Loop
	hooks    Hooks
	logger   *slog.Logger
	disabled bool

	width, height float64
	last          FrameStats
}

// New creates a hidden Circuit with the diagram's default pipeline active.
func New(d *Diagram, surface Surface, sched Scheduler, opts Options) *Circuit {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	c := &Circuit{d: d, surface: surface, hooks: opts.Hooks, logger: logger}
	if d == nil || surface == nil || sched == nil {
		logger.Warn("circuit disabled: missing collaborator",
			"diagram", d != nil, "surface", surface != nil, "scheduler", sched != nil)
		c.disabled = true
		return c
	}

	slack := opts.HoverSlack
	switch {
	case slack == 0:
		slack = DefaultHoverSlack
	case slack < 0:
		slack = 0
	}
	epoch := opts.Epoch
	if epoch.IsZero() {
		epoch = time.Now()
	}

	if opts.Palette == (Palette{}) {
		opts.Palette = DefaultPalette()
	}

	c.ctl = NewController(d, opts.Panel, slack)
	c.ctl.hooks = opts.Hooks
	c.ctl.logger = logger
	c.ctl.SetActivePipeline(d.DefaultPipeline())
	c.renderer = NewRenderer(d, c.ctl, opts.Palette, epoch, opts.Seed)
	c.renderer.SetGrid(opts.Grid)
	c.loop = NewLoop(sched, c.drawFrame)
	return c
}

// Disabled reports whether the Circuit was created without its collaborators.
func (c *Circuit) Disabled() bool { return c.disabled }

// Diagram returns the underlying diagram.
func (c *Circuit) Diagram() *Diagram { return c.d }

// Controller returns the interaction controller, or nil when disabled.
func (c *Circuit) Controller() *Controller { return c.ctl }

// Renderer returns the renderer, or nil when disabled.
func (c *Circuit) Renderer() *Renderer { return c.renderer }

// State returns Hidden or Visible.
func (c *Circuit) State() Visibility {
	if c.disabled {
		return Hidden
	}
	return c.loop.State()
}

// LastFrame returns statistics for the most recent frame.
func (c *Circuit) LastFrame() FrameStats { return c.last }

// Show handles the diagram entering the viewport: lay out against the
// current bounds, then start the loop.
func (c *Circuit) Show() {
	if c.disabled {
		return
	}
	c.relayout()
	if c.loop.State() == Hidden {
		c.logger.Debug("circuit visible", "width", c.width, "height", c.height)
	}
	c.loop.Start()
}

// Hide handles the diagram leaving the viewport. The pending frame is
// cancelled; model and interaction state are kept.
func (c *Circuit) Hide() {
	if c.disabled {
		return
	}
	if c.loop.State() == Visible {
		c.logger.Debug("circuit hidden")
	}
	c.loop.Stop()
}

// Resize re-lays out the nodes against the surface's current bounds.
func (c *Circuit) Resize() {
	if c.disabled {
		return
	}
	c.relayout()
}

func (c *Circuit) relayout() {
	c.width, c.height = c.surface.Bounds()
	c.d.Layout(c.width, c.height)
}

// PointerMove updates the hover state for a pointer at (x, y) relative to
// the surface. Positions outside the surface count as the pointer leaving.
func (c *Circuit) PointerMove(x, y float64) {
	if c.disabled {
		return
	}
	if !(Rect{W: c.width, H: c.height}).Contains(Point{x, y}) {
		c.ctl.PointerLeave()
		return
	}
	c.ctl.UpdateHover(Point{x, y})
}

// PointerLeave clears the hover state.
func (c *Circuit) PointerLeave() {
	if c.disabled {
		return
	}
	c.ctl.PointerLeave()
}

// SetActivePipeline selects the highlighted pipeline. Unknown ids select
// the no-highlight state. Reports whether id is known.
func (c *Circuit) SetActivePipeline(id string) bool {
	if c.disabled {
		return false
	}
	return c.ctl.SetActivePipeline(id)
}

// ActivePipeline returns the selected pipeline ID.
func (c *Circuit) ActivePipeline() string {
	if c.disabled {
		return ""
	}
	return c.ctl.ActivePipeline()
}

// Hovered returns the hovered node or nil.
func (c *Circuit) Hovered() *Node {
	if c.disabled {
		return nil
	}
	return c.ctl.Hovered()
}

// Step draws exactly one frame at time now, independent of the loop.
func (c *Circuit) Step(now time.Time) FrameStats {
	if c.disabled {
		return FrameStats{}
	}
	c.drawFrame(now)
	return c.last
}

func (c *Circuit) drawFrame(now time.Time) {
	start := time.Now()
	c.last = c.renderer.DrawFrame(c.surface, now)
	if c.hooks.FrameDrawn != nil {
		c.hooks.FrameDrawn(c.last, time.Since(start))
	}
}
