package window

import "github.com/Gaurav-Gosain/webdesk/internal/geom"

// ToggleFullScreen enters or leaves fullscreen. Leaving fullscreen while
// independently maximized keeps the window covering the surface.
func (w *Window) ToggleFullScreen() {
	if !w.CanFullScreen() || w.visibility == Terminal {
		return
	}
	if !w.fullscreen {
		w.snapshot()
		w.fullscreen = true
		w.transitioning = true
	} else {
		w.fullscreen = false
		if !w.maximized {
			w.restore()
		}
	}
	w.log.Debug().Bool("fullscreen", w.fullscreen).Msg("fullscreen toggled")
	if w.opts.OnFullScreenChange != nil {
		w.opts.OnFullScreenChange(w.fullscreen)
	}
	w.host.Changed()
}

// ToggleMaximize is the header double-activation. It is ignored for
// fixed-size windows and while fullscreen.
func (w *Window) ToggleMaximize() {
	if !w.CanMaximize() || w.visibility == Terminal {
		return
	}
	if !w.maximized {
		w.snapshot()
		w.maximized = true
	} else {
		w.maximized = false
		w.restore()
	}
	w.transitioning = true
	w.log.Debug().Bool("maximized", w.maximized).Msg("maximize toggled")
	w.host.Changed()
}

func (w *Window) snapshot() {
	w.prior = w.natural
	w.hasPrior = true
}

func (w *Window) restore() {
	if w.hasPrior {
		w.natural = w.prior
	}
}

// DragStart begins a move gesture with the pointer at the given surface
// position. It cancels a running layout transition and focuses the window.
func (w *Window) DragStart(pointer geom.Point) {
	if !w.CanDrag() || w.visibility == Terminal {
		return
	}
	w.transitioning = false
	w.manipulating = true
	w.anchor = geom.AnchorAt(w.Geometry(), pointer)
	w.host.Focus()
	w.host.Changed()
}

// Drag moves the window to position. A maximized window is restored first
// and re-anchored so the pointer keeps its grip.
func (w *Window) Drag(pointer, position geom.Point) {
	if !w.CanDrag() || w.visibility == Terminal {
		return
	}
	if w.maximized {
		w.maximized = false
		w.restore()
		w.natural = geom.DragReanchor(w.natural, pointer, w.anchor)
		w.log.Debug().Msg("drag restored maximized window")
	} else {
		w.natural = w.natural.WithPosition(position)
	}
	w.host.Changed()
}

// DragStop ends a move gesture at position.
func (w *Window) DragStop(position geom.Point) {
	if !w.CanDrag() || w.visibility == Terminal {
		return
	}
	w.manipulating = false
	w.anchor = geom.DragAnchor{}
	w.natural = w.natural.WithPosition(position)
	w.host.Changed()
}

// ResizeStart begins a resize gesture.
func (w *Window) ResizeStart() {
	if !w.CanResize() || w.visibility == Terminal {
		return
	}
	w.transitioning = false
	w.manipulating = true
	w.host.Focus()
	w.host.Changed()
}

// Resize replaces the geometry during a gesture. The minimum size is only
// enforced when the gesture ends.
func (w *Window) Resize(size geom.Size, position geom.Point) {
	if !w.CanResize() || w.visibility == Terminal {
		return
	}
	w.transitioning = false
	w.natural = geom.NewRect(position, size)
	w.host.Changed()
}

// ResizeStop ends a resize gesture and clamps to the minimum size.
func (w *Window) ResizeStop(size geom.Size, position geom.Point) {
	if !w.CanResize() || w.visibility == Terminal {
		return
	}
	w.manipulating = false
	w.natural = geom.Clamp(geom.NewRect(position, size), w.opts.MinWidth, w.opts.MinHeight)
	w.host.Changed()
}
