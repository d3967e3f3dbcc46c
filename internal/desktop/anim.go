package desktop

import (
	"time"

	"github.com/Gaurav-Gosain/webdesk/internal/config"
	"github.com/Gaurav-Gosain/webdesk/internal/geom"
	"github.com/Gaurav-Gosain/webdesk/internal/window"
)

// animation is a linear move between two rectangles. Close and minimize
// animations end the window's lifecycle; layout ones only clear the
// transitioning flag.
type animation struct {
	from, to geom.Rect
	start    time.Time
	duration time.Duration
	closing  bool
}

func (a *animation) progress(now time.Time) float64 {
	if a.duration <= 0 {
		return 1
	}
	return float64(now.Sub(a.start)) / float64(a.duration)
}

func (a *animation) rect(now time.Time) geom.Rect {
	return geom.Lerp(a.from, a.to, a.progress(now))
}

// closeTarget shrinks r toward its center.
func closeTarget(r geom.Rect) geom.Rect {
	c := r.Center()
	return geom.Rect{X: c.X - 1, Y: c.Y, Width: 2, Height: 1}
}

// minimizeTarget moves r along v and shrinks it to a dock tile.
func minimizeTarget(r geom.Rect, v geom.Vector) geom.Rect {
	c := r.Center()
	w, h := float64(config.DockItemWidth), float64(config.DockHeight)
	return geom.Rect{X: c.X + v.DX - w/2, Y: c.Y + v.DY - h/2, Width: w, Height: h}
}

// advanceAnimations starts animations for windows that entered a closing
// phase or a layout transition, and reports completion to windows whose
// animation ran its course.
func (m *Model) advanceAnimations(now time.Time) {
	for _, w := range m.reg.Windows() {
		id := w.ID()
		anim, running := m.anims[id]

		switch {
		case w.Visibility().Closing():
			if running && anim.closing {
				break
			}
			from := w.Geometry()
			if running {
				from = anim.rect(now)
			}
			to := closeTarget(from)
			if w.Kind() == window.CloseKindMinimize {
				to = minimizeTarget(w.Geometry(), w.MinimizeVector())
			}
			m.anims[id] = &animation{from: from, to: to, start: now, duration: m.closeDuration(), closing: true}

		case w.Transitioning():
			if running {
				break
			}
			g := w.Geometry()
			m.anims[id] = &animation{from: g, to: g, start: now, duration: m.layoutDuration()}

		case running && anim.closing:
			// Restored mid-minimize.
			delete(m.anims, id)
		}
	}

	var done []window.ID
	for id, anim := range m.anims {
		if anim.progress(now) >= 1 {
			done = append(done, id)
		}
	}
	for _, id := range done {
		delete(m.anims, id)
		if w, ok := m.reg.Window(id); ok {
			w.TransitionEnd()
		}
	}
}

func (m *Model) closeDuration() time.Duration {
	if !config.AnimationsEnabled {
		return 0
	}
	return config.AnimationDuration
}

func (m *Model) layoutDuration() time.Duration {
	if !config.AnimationsEnabled {
		return 0
	}
	return config.FastAnimationDuration
}

// renderRect is where a window is drawn this frame.
func (m *Model) renderRect(w *window.Window) geom.Rect {
	if anim, ok := m.anims[w.ID()]; ok && anim.closing {
		return anim.rect(m.now)
	}
	return w.Geometry()
}
