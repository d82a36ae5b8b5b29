package main

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gdamore/tcell/v2"

	"github.com/ha1tch/circuit-toolkit/pkg/circuit"
	"github.com/ha1tch/circuit-toolkit/pkg/circuitfile"
)

// reloadDebounce collapses the burst of writes an editor makes on save.
const reloadDebounce = 150 * time.Millisecond

// reloadEvent carries a freshly loaded diagram, or the error loading it,
// into the event loop.
type reloadEvent struct {
	tcell.EventTime
	diagram *circuit.Diagram
	err     error
}

func newReloadEvent(d *circuit.Diagram, err error) *reloadEvent {
	ev := &reloadEvent{diagram: d, err: err}
	ev.SetEventNow()
	return ev
}

// reload re-reads the config file now.
func (v *Viewer) reload() {
	if v.source == "" {
		v.showMessage("Built-in board has no file to reload", MsgWarning)
		return
	}
	d, err := circuitfile.Load(v.source)
	v.applyReload(newReloadEvent(d, err))
}

// applyReload swaps in a reloaded diagram. A broken file keeps the current
// board on screen.
func (v *Viewer) applyReload(ev *reloadEvent) {
	if ev.err != nil {
		v.logger.Warn("reload failed", "path", v.source, "error", ev.err)
		v.showMessage("Reload failed: "+ev.err.Error(), MsgError)
		return
	}
	v.logger.Info("reloaded", "path", v.source, "nodes", ev.diagram.NodeCount())
	v.setDiagram(ev.diagram, v.c.ActivePipeline())
	v.c.Step(ev.When())
	v.showMessage("Reloaded", MsgSuccess)
}

// watch posts a reloadEvent whenever path changes, until ctx is done.
// The directory is watched so that editors replacing the file by rename
// are still seen.
func (v *Viewer) watch(ctx context.Context, path string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	target := filepath.Clean(path)
	if err := w.Add(filepath.Dir(target)); err != nil {
		w.Close()
		return err
	}

	go func() {
		defer w.Close()
		var pending *time.Timer
		for {
			select {
			case <-ctx.Done():
				if pending != nil {
					pending.Stop()
				}
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != target || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
					continue
				}
				if pending != nil {
					pending.Stop()
				}
				pending = time.AfterFunc(reloadDebounce, func() { v.postReload(ctx, target) })
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				v.logger.Warn("watch error", "error", err)
			}
		}
	}()
	return nil
}

// postReload loads path and queues the result for the event loop. It never
// blocks: the screen may already be finalized when a debounce timer fires
// during shutdown, and nothing drains the queue after that.
func (v *Viewer) postReload(ctx context.Context, path string) {
	if ctx.Err() != nil {
		return
	}
	d, err := circuitfile.Load(path)
	if perr := v.screen.PostEvent(newReloadEvent(d, err)); perr != nil {
		v.logger.Warn("reload dropped", "path", path, "error", perr)
	}
}
