package circuit

import "time"

// Visibility is the loop's lifecycle state.
type Visibility int

const (
	Hidden Visibility = iota
	Visible
)

func (v Visibility) String() string {
	if v == Visible {
		return "visible"
	}
	return "hidden"
}

// Loop drives a frame function through a Scheduler while visible.
// Each frame schedules the next one; Stop cancels the pending frame so no
// frame runs after it returns.
type Loop struct {
	sched  Scheduler
	frame  FrameFunc
	state  Visibility
	cancel func()
	gen    uint64
}

// NewLoop creates a hidden loop.
func NewLoop(sched Scheduler, frame FrameFunc) *Loop {
	return &Loop{sched: sched, frame: frame}
}

// State returns the current visibility.
func (l *Loop) State() Visibility { return l.state }

// Start moves the loop to Visible and schedules the first frame.
// Starting a running loop does nothing.
func (l *Loop) Start() {
	if l.state == Visible {
		return
	}
	l.state = Visible
	l.schedule()
}

// Stop moves the loop to Hidden and cancels the pending frame.
func (l *Loop) Stop() {
	if l.state == Hidden {
		return
	}
	l.state = Hidden
	l.gen++
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
}

func (l *Loop) schedule() {
	gen := l.gen
	l.cancel = l.sched.Schedule(func(now time.Time) {
		// A scheduler that fires late after Stop must not resurrect the loop.
		if l.state != Visible || gen != l.gen {
			return
		}
		l.cancel = nil
		l.frame(now)
		if l.state == Visible && gen == l.gen {
			l.schedule()
		}
	})
}

// ManualScheduler holds at most one pending frame until Advance is called.
// Used by tests and by one-shot renderers to step frames deterministically.
type ManualScheduler struct {
	pending FrameFunc
	seq     uint64
}

// Schedule stores fn as the pending frame.
func (m *ManualScheduler) Schedule(fn FrameFunc) func() {
	m.seq++
	id := m.seq
	m.pending = fn
	return func() {
		if m.seq == id {
			m.pending = nil
		}
	}
}

// Pending reports whether a frame is waiting.
func (m *ManualScheduler) Pending() bool { return m.pending != nil }

// Advance runs the pending frame at time now. It reports whether a frame ran.
func (m *ManualScheduler) Advance(now time.Time) bool {
	fn := m.pending
	if fn == nil {
		return false
	}
	m.pending = nil
	fn(now)
	return true
}
