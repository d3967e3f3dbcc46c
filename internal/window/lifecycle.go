package window

import (
	"github.com/Gaurav-Gosain/webdesk/internal/geom"
)

// Mount attaches the window to its surface. The Opening to Visible step is
// deferred by one frame so the opening transition has a start state.
func (w *Window) Mount() {
	if w.mounted || w.visibility != Opening {
		return
	}
	w.mounted = true
	w.sched.NextFrame(func() {
		if w.visibility != Opening {
			return
		}
		w.visibility = Visible
		w.log.Debug().Msg("window visible")
		w.host.Focus()
		w.host.Changed()
	})
}

// Open makes the window visible again. A window committed to closing stays
// committed; a window mid-minimize is restored (see TestOpen).
func (w *Window) Open() {
	switch w.visibility {
	case Opening:
		w.visibility = Visible
	case ClosingForMinimize:
		w.visibility = Visible
		w.kind = NotClosing
		w.vector = geom.Vector{}
	default:
		return
	}
	w.log.Debug().Msg("window opened")
	w.host.Focus()
	w.host.Changed()
}

// Close starts the close transition. It does nothing when the window has
// no close callbacks or is not open.
func (w *Window) Close() {
	if !w.CanClose() {
		w.log.Debug().Msg("close ignored: no close callbacks")
		return
	}
	if w.committing || (w.visibility != Opening && w.visibility != Visible) {
		return
	}
	if w.opts.OnClose != nil {
		w.committing = true
		w.opts.OnClose()
		w.committing = false
	}
	// OnClose may have torn the window down already.
	if w.visibility != Opening && w.visibility != Visible {
		return
	}
	w.kind = CloseKindClose
	w.visibility = ClosingForClose
	w.log.Debug().Msg("window closing")
	w.host.Changed()
}

// Minimize starts the minimize transition toward target. When target is
// nil the element returned by OnMinimize is used, and when that is nil or
// not laid out the window heads for the default point below the surface.
func (w *Window) Minimize(target Element) {
	if !w.CanMinimize() {
		w.log.Debug().Msg("minimize ignored: no minimize callbacks")
		return
	}
	if w.committing || (w.visibility != Opening && w.visibility != Visible) {
		return
	}

	var fromCallback Element
	if w.opts.OnMinimize != nil {
		w.committing = true
		fromCallback = w.opts.OnMinimize()
		w.committing = false
	}
	if w.visibility != Opening && w.visibility != Visible {
		return
	}
	if target == nil {
		target = fromCallback
	}

	center := w.Geometry().Center()
	dest, ok := w.targetCenter(target)
	if !ok {
		dest = geom.DefaultMinimizeTarget(w.surf.Size())
	}
	w.vector = geom.MinimizeVector(center, dest)
	w.kind = CloseKindMinimize
	w.visibility = ClosingForMinimize
	w.log.Debug().
		Float64("dx", w.vector.DX).
		Float64("dy", w.vector.DY).
		Msg("window minimizing")
	w.host.Changed()
}

// targetCenter resolves the center of an element. A nil element, one that
// is not laid out, or one that panics while measuring yields false.
func (w *Window) targetCenter(e Element) (p geom.Point, ok bool) {
	if e == nil {
		return geom.Point{}, false
	}
	defer func() {
		if r := recover(); r != nil {
			w.log.Warn().Interface("panic", r).Msg("minimize target failed to report bounds")
			p, ok = geom.Point{}, false
		}
	}()
	rect, ok := e.Bounds()
	if !ok {
		return geom.Point{}, false
	}
	return rect.Center(), true
}

// TransitionEnd is the completion signal from the visual layer. It
// finishes a pending close or minimize, and otherwise ends a layout
// transition.
func (w *Window) TransitionEnd() {
	if w.visibility.Closing() {
		w.finish()
		return
	}
	if w.transitioning {
		w.transitioning = false
		w.host.Changed()
	}
}

// Unmount is the teardown path. A pending close or minimize still fires
// its completion callback, once.
func (w *Window) Unmount() {
	w.mounted = false
	if w.visibility.Closing() {
		w.finish()
	}
}

func (w *Window) finish() {
	if w.finished {
		return
	}
	w.finished = true
	kind := w.kind
	w.visibility = Terminal
	w.manipulating = false
	w.transitioning = false
	w.log.Debug().Stringer("kind", kind).Msg("window finished")

	switch kind {
	case CloseKindClose:
		if w.opts.OnClosed != nil {
			w.opts.OnClosed()
		}
	case CloseKindMinimize:
		if w.opts.OnMinimized != nil {
			w.opts.OnMinimized()
		}
	}
	w.host.Changed()
	w.host.Release()
}

// Focus asks the host to raise and focus this window.
func (w *Window) Focus() {
	if w.visibility == Terminal {
		return
	}
	w.host.Focus()
}

// SendMessage delivers payload to another window through the host.
func (w *Window) SendMessage(to ID, payload any) {
	w.host.SendMessage(to, payload)
}
