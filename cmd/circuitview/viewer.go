package main

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/ha1tch/circuit-toolkit/pkg/circuit"
	"github.com/ha1tch/circuit-toolkit/pkg/telemetry"
)

// MessageType selects the status bar style of a message.
type MessageType int

const (
	MsgInfo MessageType = iota
	MsgError
	MsgSuccess
	MsgWarning
)

// Flash timing for status bar messages, in milliseconds.
const (
	flashPhase  = 125
	flashPeriod = 500
)

// flashInverted reports whether a flashing message shows inverted elapsed
// milliseconds after it appeared: normal, inverted, normal, inverted, then
// normal for good.
func flashInverted(elapsed int64) bool {
	if elapsed < 0 || elapsed >= flashPeriod {
		return false
	}
	phase := elapsed / flashPhase
	return phase == 1 || phase == 3
}

// flashes reports whether messages of type t flash on arrival.
func flashes(t MessageType) bool {
	switch t {
	case MsgError, MsgSuccess, MsgWarning:
		return true
	}
	return false
}

// sidebarPanel keeps the hovered node's text for the sidebar.
type sidebarPanel struct {
	name, desc string
}

func (p *sidebarPanel) HoverEnter(name, desc string) { p.name, p.desc = name, desc }
func (p *sidebarPanel) HoverExit()                   { p.name, p.desc = "", "" }

// Viewer holds all viewer state. Every method runs on the event loop.
type Viewer struct {
	screen       tcell.Screen
	settings     Settings
	settingsPath string // where toggled settings are saved, empty to not save
	source       string // config path, empty for the built-in board
	logger       *slog.Logger
	metrics      *telemetry.Metrics

	diagram *circuit.Diagram
	c       *circuit.Circuit
	surface *cellSurface
	sched   *eventScheduler
	panel   *sidebarPanel
	paused  bool
	focused bool

	message           string
	messageType       MessageType
	messageFlashStart int64
}

// NewViewer creates a viewer for d on screen. The screen must be
// initialised. metrics may be nil.
func NewViewer(screen tcell.Screen, d *circuit.Diagram, settings Settings, logger *slog.Logger, metrics *telemetry.Metrics) *Viewer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	v := &Viewer{
		screen:   screen,
		settings: settings,
		logger:   logger,
		metrics:  metrics,
		surface:  newCellSurface(screen, settings.CellWidth, settings.CellHeight),
		sched:    newEventScheduler(screen, settings.FPS),
		panel:    &sidebarPanel{},
		focused:  true,
	}
	v.layout()
	v.setDiagram(d, d.DefaultPipeline())
	return v
}

// setDiagram replaces the live circuit, keeping the selected pipeline when
// the new diagram still has it.
func (v *Viewer) setDiagram(d *circuit.Diagram, pipeline string) {
	if v.c != nil {
		v.c.Hide()
	}
	v.panel.HoverExit()

	opts := circuit.DefaultOptions()
	opts.HoverSlack = v.settings.HoverSlack
	if opts.HoverSlack == 0 {
		opts.HoverSlack = circuit.NoHoverSlack
	}
	opts.Grid = v.settings.ShowGrid
	opts.Seed = v.settings.Seed
	opts.Panel = v.panel
	opts.Logger = v.logger
	if v.metrics != nil {
		opts.Hooks = v.metrics.Hooks(circuit.Hooks{})
	}

	v.diagram = d
	v.c = circuit.New(d, v.surface, v.sched, opts)
	if d.Pipeline(pipeline) != nil {
		v.c.SetActivePipeline(pipeline)
	}
	v.updateVisibility()
}

// layout places the canvas left of the sidebar, above the two status rows.
func (v *Viewer) layout() {
	w, h := v.screen.Size()
	sidebar := min(v.settings.SidebarWidth, w/2)
	v.surface.Place(0, 0, w-sidebar, h-2)
}

// updateVisibility runs the loop only while focused, unpaused and with a
// non-empty canvas.
func (v *Viewer) updateVisibility() {
	cols, rows := v.surface.cols, v.surface.rows
	if v.focused && !v.paused && cols > 0 && rows > 0 {
		v.c.Show()
		return
	}
	v.c.Hide()
}

// Run draws and handles events until the user quits.
func (v *Viewer) Run() {
	v.c.Step(time.Now())
	for {
		v.drawChrome()
		v.screen.Show()

		if v.handleEvent(v.screen.PollEvent()) {
			v.c.Hide()
			return
		}
	}
}

// handleEvent processes one event. It returns true when the viewer should
// exit.
func (v *Viewer) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case nil:
		return true
	case *frameEvent:
		ev.run()
	case *reloadEvent:
		v.applyReload(ev)
	case *tcell.EventResize:
		v.screen.Sync()
		v.layout()
		v.c.Resize()
		v.updateVisibility()
		v.c.Step(ev.When())
	case *tcell.EventFocus:
		v.focused = ev.Focused
		v.logger.Debug("focus", "focused", ev.Focused)
		v.updateVisibility()
	case *tcell.EventMouse:
		v.handleMouse(ev)
		v.redrawIfIdle(ev.When())
	case *tcell.EventKey:
		if v.handleKey(ev) {
			return true
		}
		v.redrawIfIdle(ev.When())
	case *tcell.EventInterrupt:
		// Redraw for message flash.
	}
	return false
}

// redrawIfIdle draws one frame when the loop is not running, so input
// still shows while paused or unfocused.
func (v *Viewer) redrawIfIdle(now time.Time) {
	if v.c.State() == circuit.Hidden && v.surface.cols > 0 && v.surface.rows > 0 {
		v.c.Step(now)
	}
}

func (v *Viewer) handleMouse(ev *tcell.EventMouse) {
	col, row := ev.Position()
	x, y, ok := v.surface.ToPixels(col, row)
	if !ok {
		v.c.PointerLeave()
		return
	}
	v.c.PointerMove(x, y)
}

func (v *Viewer) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyCtrlC, tcell.KeyEscape:
		return true
	case tcell.KeyTab:
		v.cyclePipeline(1)
		return false
	case tcell.KeyBacktab:
		v.cyclePipeline(-1)
		return false
	case tcell.KeyRune:
	default:
		return false
	}

	switch r := ev.Rune(); {
	case r == 'q':
		return true
	case r == '0':
		v.c.SetActivePipeline("")
		v.showMessage("No pipeline highlighted", MsgInfo)
	case r >= '1' && r <= '9':
		pipes := v.diagram.Pipelines()
		i := int(r - '1')
		if i >= len(pipes) {
			v.showMessage(fmt.Sprintf("No pipeline %c", r), MsgWarning)
			break
		}
		v.selectPipeline(pipes[i].ID)
	case r == ' ':
		v.paused = !v.paused
		v.updateVisibility()
		if v.paused {
			v.showMessage("Paused", MsgInfo)
		} else {
			v.showMessage("Running", MsgInfo)
		}
	case r == 'g':
		v.toggleGrid()
	case r == 'r':
		v.reload()
	}
	return false
}

// cyclePipeline moves the selection by step through the pipelines.
func (v *Viewer) cyclePipeline(step int) {
	pipes := v.diagram.Pipelines()
	if len(pipes) == 0 {
		return
	}
	cur := -1
	for i, p := range pipes {
		if p.ID == v.c.ActivePipeline() {
			cur = i
		}
	}
	next := (cur + step + len(pipes)) % len(pipes)
	if cur < 0 && step < 0 {
		next = len(pipes) - 1
	}
	v.selectPipeline(pipes[next].ID)
}

func (v *Viewer) selectPipeline(id string) {
	v.c.SetActivePipeline(id)
	label := id
	if p := v.diagram.Pipeline(id); p != nil && p.Label != "" {
		label = p.Label
	}
	v.showMessage("Pipeline: "+label, MsgInfo)
}

func (v *Viewer) toggleGrid() {
	v.settings.ShowGrid = !v.settings.ShowGrid
	v.c.Renderer().SetGrid(v.settings.ShowGrid)
	if v.settingsPath != "" {
		if err := SaveSettings(v.settingsPath, v.settings); err != nil {
			v.showMessage("Failed to save settings: "+err.Error(), MsgError)
			return
		}
	}
	if v.settings.ShowGrid {
		v.showMessage("Grid on", MsgSuccess)
	} else {
		v.showMessage("Grid off", MsgSuccess)
	}
}

func (v *Viewer) showMessage(msg string, t MessageType) {
	v.message = msg
	v.messageType = t
	v.messageFlashStart = time.Now().UnixMilli()
	if flashes(t) {
		go v.flashTicker()
	}
}

// flashTicker posts redraws while the status message flashes.
func (v *Viewer) flashTicker() {
	ticker := time.NewTicker(flashPhase * time.Millisecond)
	defer ticker.Stop()
	for i := 0; i <= flashPeriod/flashPhase; i++ {
		<-ticker.C
		v.screen.PostEvent(tcell.NewEventInterrupt(nil))
	}
}

// Styles
var (
	styleSidebar    = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleSidebarH   = tcell.StyleDefault.Foreground(tcell.NewRGBColor(0xff, 0xaa, 0x00)).Bold(true)
	styleSidebarDim = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleStatus     = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy)
	styleMsgInfo    = tcell.StyleDefault.Foreground(tcell.ColorSilver).Background(tcell.ColorNavy)
	styleMsgError   = tcell.StyleDefault.Foreground(tcell.ColorRed).Background(tcell.ColorNavy).Bold(true)
	styleMsgSuccess = tcell.StyleDefault.Foreground(tcell.ColorSilver).Background(tcell.ColorNavy)
	styleHelp       = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleBorder     = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

// drawChrome draws everything outside the canvas. The canvas itself is
// repainted by the circuit's frames.
func (v *Viewer) drawChrome() {
	w, h := v.screen.Size()
	v.drawSidebar(w, h)
	v.drawStatusBar(w, h)
}

func (v *Viewer) drawSidebar(w, h int) {
	left := v.surface.cols
	for y := 0; y < h-2; y++ {
		for x := left; x < w; x++ {
			v.screen.SetContent(x, y, ' ', nil, tcell.StyleDefault)
		}
		v.screen.SetContent(left, y, '│', nil, styleBorder)
	}
	x, y := left+2, 0
	width := w - x - 1

	title := v.diagram.Name
	if title == "" {
		title = "Circuit"
	}
	v.drawString(x, y, truncate(title, width), styleSidebarH)
	y += 2

	v.drawString(x, y, "Pipelines:", styleSidebarH)
	y++
	for i, p := range v.diagram.Pipelines() {
		prefix := "  "
		style := styleSidebar
		if p.ID == v.c.ActivePipeline() {
			prefix = "→ "
			r, g, b := p.Color.RGB255()
			style = style.Foreground(tcell.NewRGBColor(int32(r), int32(g), int32(b))).Bold(true)
		}
		label := p.Label
		if label == "" {
			label = p.ID
		}
		v.drawString(x, y, truncate(fmt.Sprintf("%s%d %s", prefix, i+1, label), width), style)
		y++
	}
	y++

	v.drawString(x, y, "Hover:", styleSidebarH)
	y++
	if v.panel.name == "" {
		v.drawString(x, y, "  (none)", styleSidebarDim)
		return
	}
	v.drawString(x, y, "  "+truncate(v.panel.name, width-2), styleSidebar)
	y += 2
	for _, line := range wrap(v.panel.desc, width) {
		if y >= h-3 {
			v.drawString(x, y, "...", styleSidebarDim)
			return
		}
		v.drawString(x, y, line, styleSidebarDim)
		y++
	}
}

func (v *Viewer) drawStatusBar(w, h int) {
	y := h - 1
	for x := 0; x < w; x++ {
		v.screen.SetContent(x, y, ' ', nil, styleStatus)
	}

	source := "[built-in]"
	if v.source != "" {
		source = filepath.Base(v.source)
	}
	v.drawString(1, y, source, styleStatus)

	state := v.c.State().String()
	if v.paused {
		state = "paused"
	}
	v.drawString(w/2-len(state)/2, y, state, styleStatus)

	if v.message != "" {
		style := styleMsgInfo
		switch v.messageType {
		case MsgError, MsgWarning:
			style = styleMsgError
		case MsgSuccess:
			style = styleMsgSuccess
		}
		if flashes(v.messageType) && flashInverted(time.Now().UnixMilli()-v.messageFlashStart) {
			style = style.Reverse(true)
		}
		v.drawString(w-len([]rune(v.message))-2, y, v.message, style)
	}

	y = h - 2
	for x := 0; x < w; x++ {
		v.screen.SetContent(x, y, ' ', nil, tcell.StyleDefault)
	}
	v.drawString(1, y, "1-9/Tab:Pipeline  0:None  Space:Pause  G:Grid  R:Reload  Q:Quit", styleHelp)
}

func (v *Viewer) drawString(x, y int, s string, style tcell.Style) {
	for i, r := range []rune(s) {
		v.screen.SetContent(x+i, y, r, nil, style)
	}
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if maxLen <= 0 {
		return ""
	}
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

// wrap breaks s into lines of at most width runes on word boundaries.
func wrap(s string, width int) []string {
	if width <= 0 {
		return nil
	}
	var lines []string
	var cur []rune
	for _, word := range strings.Fields(s) {
		w := []rune(word)
		switch {
		case len(cur) == 0:
			cur = w
		case len(cur)+1+len(w) <= width:
			cur = append(append(cur, ' '), w...)
		default:
			lines = append(lines, string(cur))
			cur = w
		}
		for len(cur) > width {
			lines = append(lines, string(cur[:width]))
			cur = cur[width:]
		}
	}
	if len(cur) > 0 {
		lines = append(lines, string(cur))
	}
	return lines
}
