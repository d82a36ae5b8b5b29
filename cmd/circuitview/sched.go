package main

import (
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/ha1tch/circuit-toolkit/pkg/circuit"
)

// frameRequest is one scheduled frame. cancelled is set from the event
// loop; the timer goroutine only reads the request it was given.
type frameRequest struct {
	fn        circuit.FrameFunc
	timer     *time.Timer
	cancelled atomic.Bool
}

// frameEvent carries a due frame into the tcell event loop, so frames run
// on the same goroutine as input handling.
type frameEvent struct {
	tcell.EventTime
	req *frameRequest
}

// eventScheduler delivers frames through the screen's event queue at a
// fixed rate.
type eventScheduler struct {
	screen   tcell.Screen
	interval time.Duration
}

func newEventScheduler(screen tcell.Screen, fps int) *eventScheduler {
	return &eventScheduler{screen: screen, interval: time.Second / time.Duration(max(fps, 1))}
}

func (s *eventScheduler) Schedule(fn circuit.FrameFunc) func() {
	req := &frameRequest{fn: fn}
	req.timer = time.AfterFunc(s.interval, func() {
		if req.cancelled.Load() {
			return
		}
		ev := &frameEvent{req: req}
		ev.SetEventNow()
		s.screen.PostEventWait(ev)
	})
	return func() {
		req.cancelled.Store(true)
		req.timer.Stop()
	}
}

// run executes the frame unless it was cancelled after being posted.
func (ev *frameEvent) run() bool {
	if ev.req.cancelled.Load() {
		return false
	}
	ev.req.fn(ev.When())
	return true
}
