package main

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
)

// TestFlashPhases checks the status bar flash pattern:
// normal(0-125) -> inverted(125-250) -> normal(250-375) -> inverted(375-500) -> normal(500+)
func TestFlashPhases(t *testing.T) {
	tests := []struct {
		elapsed      int64
		wantInverted bool
		description  string
	}{
		{-1000, false, "long before start - normal"},
		{-1, false, "before start - normal"},
		{0, false, "start of flash - normal"},
		{124, false, "end of phase 0 - normal"},
		{125, true, "start of phase 1 - inverted"},
		{249, true, "end of phase 1 - inverted"},
		{250, false, "start of phase 2 - normal"},
		{374, false, "end of phase 2 - normal"},
		{375, true, "start of phase 3 - inverted"},
		{499, true, "end of phase 3 - inverted"},
		{500, false, "after flash period - normal"},
		{1000, false, "long after flash - normal"},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			assert.Equal(t, tt.wantInverted, flashInverted(tt.elapsed), "elapsed=%d", tt.elapsed)
		})
	}
}

func TestFlashMessageTypes(t *testing.T) {
	assert.False(t, flashes(MsgInfo), "info messages don't flash")
	assert.True(t, flashes(MsgError))
	assert.True(t, flashes(MsgSuccess))
	assert.True(t, flashes(MsgWarning))
}

// TestFlashRestartsPerMessage shows each message starting its own cycle.
func TestFlashRestartsPerMessage(t *testing.T) {
	inverted := func(start, now int64) bool { return flashInverted(now - start) }

	first := int64(1000)
	assert.False(t, inverted(first, 1000))
	assert.True(t, inverted(first, 1150))
	assert.False(t, inverted(first, 1600))

	second := int64(2000)
	assert.False(t, inverted(second, 2000))
	assert.True(t, inverted(second, 2150))
	assert.False(t, inverted(second, 2300))
}

func TestInfoMessageNeverInverts(t *testing.T) {
	v, s := newTestViewer(t)
	v.showMessage("Paused", MsgInfo)
	v.messageFlashStart -= 150 // mid phase 1

	v.drawChrome()
	w, h := s.Size()
	x := w - len("Paused") - 2
	_, _, style, _ := s.GetContent(x, h-1)
	_, _, attrs := style.Decompose()
	assert.Zero(t, attrs&tcell.AttrReverse)

	v.showMessage("Reload failed", MsgError)
	v.messageFlashStart -= 150
	v.drawChrome()
	x = w - len("Reload failed") - 2
	_, _, style, _ = s.GetContent(x, h-1)
	_, _, attrs = style.Decompose()
	assert.NotZero(t, attrs&tcell.AttrReverse)
}
