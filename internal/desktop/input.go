package desktop

import (
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/Gaurav-Gosain/webdesk/internal/config"
	"github.com/Gaurav-Gosain/webdesk/internal/geom"
	"github.com/Gaurav-Gosain/webdesk/internal/window"
)

// Title bar columns, relative to the window's left edge.
const (
	closeButtonCol      = 2
	minimizeButtonCol   = 4
	fullScreenButtonCol = 6
)

// handleKey dispatches a key press through the keymap.
func (m *Model) handleKey(key string) tea.Cmd {
	action, ok := m.keys.Action(key)
	if !ok {
		return nil
	}
	m.log.Debug().Str("key", key).Str("action", action).Msg("key")

	switch action {
	case config.ActionQuit:
		m.Shutdown()
		return tea.Quit

	case config.ActionNewWindow:
		m.launch(m.nextApp)
		m.nextApp = (m.nextApp + 1) % len(m.apps)

	case config.ActionCloseWindow:
		if aw, ok := m.focusedApp(); ok {
			aw.handle.Close()
		}

	case config.ActionMinimizeWindow:
		if aw, ok := m.focusedApp(); ok {
			aw.handle.Minimize(nil)
		}

	case config.ActionRestoreWindow:
		wins := m.reg.Windows()
		for i := len(wins) - 1; i >= 0; i-- {
			if wins[i].Visibility() == window.ClosingForMinimize {
				wins[i].Open()
				break
			}
		}

	case config.ActionToggleFullScreen:
		if w, ok := m.focusedWindow(); ok {
			w.ToggleFullScreen()
		}

	case config.ActionToggleMaximize:
		if w, ok := m.focusedWindow(); ok {
			w.ToggleMaximize()
		}

	case config.ActionNextWindow:
		m.cycleFocus(1)

	case config.ActionPrevWindow:
		m.cycleFocus(-1)

	case config.ActionSendMessage:
		m.sendToNext()

	case config.ActionToggleHelp:
		m.showHelp = !m.showHelp
	}
	return nil
}

func (m *Model) focusedApp() (*appWindow, bool) {
	id, ok := m.reg.Focused()
	if !ok {
		return nil, false
	}
	aw, ok := m.windows[id]
	return aw, ok
}

// neighbor returns the open window step places after the focused one in
// launch order.
func (m *Model) neighbor(step int) (*window.Window, bool) {
	wins := m.openWindows()
	if len(wins) == 0 {
		return nil, false
	}
	cur := -1
	for i, w := range wins {
		if w.IsFocused() {
			cur = i
			break
		}
	}
	if cur < 0 {
		return wins[0], true
	}
	n := len(wins)
	return wins[((cur+step)%n+n)%n], true
}

func (m *Model) cycleFocus(step int) {
	if w, ok := m.neighbor(step); ok {
		w.Focus()
	}
}

// sendToNext sends a greeting from the focused window to the next one.
func (m *Model) sendToNext() {
	from, ok := m.focusedApp()
	if !ok {
		return
	}
	to, ok := m.neighbor(1)
	if !ok || to.ID() == from.handle.ID {
		return
	}
	title := m.apps[from.app].Name
	from.handle.SendMessage(to.ID(), fmt.Sprintf("Hello from %s", title))
}

// pointer converts a screen cell to surface coordinates.
func (m *Model) pointer(x, y int) geom.Point {
	return geom.Point{X: float64(x), Y: float64(y - m.topOffset())}
}

// windowAt returns the topmost open window under a surface point.
func (m *Model) windowAt(p geom.Point) (*window.Window, bool) {
	wins := m.reg.Windows()
	for i := len(wins) - 1; i >= 0; i-- {
		w := wins[i]
		if v := w.Visibility(); v != window.Opening && v != window.Visible {
			continue
		}
		if w.Geometry().Round().Contains(p) {
			return w, true
		}
	}
	return nil, false
}

func (m *Model) inDock(y int) bool {
	switch config.DockbarPosition {
	case "top":
		return y < config.DockHeight
	case "bottom":
		return y >= m.height-config.DockHeight
	}
	return false
}

// handleClick handles a left click at a screen cell.
func (m *Model) handleClick(x, y int) {
	if m.inDock(y) {
		if i := m.dockItemAt(x, y); i >= 0 {
			m.launch(i)
		}
		return
	}

	p := m.pointer(x, y)
	w, ok := m.windowAt(p)
	if !ok {
		if i := m.launcherItemAt(x, y); i >= 0 {
			m.launch(i)
		}
		return
	}

	g := w.Geometry().Round()
	col := int(p.X - g.X)
	row := int(p.Y - g.Y)

	if row == 0 {
		if !config.HideWindowButtons {
			switch col {
			case closeButtonCol:
				w.Close()
				return
			case minimizeButtonCol:
				w.Minimize(nil)
				return
			case fullScreenButtonCol:
				w.ToggleFullScreen()
				return
			}
		}

		if m.isDoubleClick(w.ID()) {
			w.ToggleMaximize()
			return
		}
		if w.CanDrag() {
			w.DragStart(p)
			m.gesture = gesture{kind: gestureDrag, id: w.ID(), offset: p.Sub(g.Position())}
			return
		}
		w.Focus()
		return
	}

	if col == int(g.Width)-1 && row == int(g.Height)-1 && w.CanResize() {
		w.ResizeStart()
		m.gesture = gesture{kind: gestureResize, id: w.ID(), origin: g.Position()}
		return
	}
	w.Focus()
}

// isDoubleClick records a title bar click and reports whether it
// completes a double click on the same window.
func (m *Model) isDoubleClick(id window.ID) bool {
	double := !m.lastClick.IsZero() &&
		m.lastClickID == id &&
		m.now.Sub(m.lastClick) <= config.DoubleClickInterval
	if double {
		m.lastClick = time.Time{}
		m.lastClickID = ""
		return true
	}
	m.lastClick = m.now
	m.lastClickID = id
	return false
}

// Gesturing reports whether a drag or resize is in progress.
func (m *Model) Gesturing() bool { return m.gesture.kind != gestureNone }

func (m *Model) handleMotion(x, y int) {
	if m.gesture.kind == gestureNone {
		return
	}
	w, ok := m.reg.Window(m.gesture.id)
	if !ok {
		m.gesture = gesture{}
		return
	}
	p := m.pointer(x, y)

	switch m.gesture.kind {
	case gestureDrag:
		wasMaximized := w.IsMaximized()
		w.Drag(p, m.gesture.position(p))
		if wasMaximized {
			m.gesture.offset = p.Sub(w.NaturalGeometry().Position())
		}
	case gestureResize:
		w.Resize(m.gesture.size(p), m.gesture.origin)
	}
}

func (m *Model) handleRelease(x, y int) {
	g := m.gesture
	m.gesture = gesture{}
	w, ok := m.reg.Window(g.id)
	if g.kind == gestureNone || !ok {
		return
	}
	p := m.pointer(x, y)

	switch g.kind {
	case gestureDrag:
		w.DragStop(g.position(p))
	case gestureResize:
		w.ResizeStop(g.size(p), g.origin)
	}
}

// position is the window origin that keeps the grab offset under p.
func (g gesture) position(p geom.Point) geom.Point {
	return geom.Point{X: p.X - g.offset.DX, Y: p.Y - g.offset.DY}
}

// size is the window size with its bottom-right corner under p.
func (g gesture) size(p geom.Point) geom.Size {
	return geom.Size{
		Width:  max(p.X-g.origin.X+1, 1),
		Height: max(p.Y-g.origin.Y+1, 1),
	}
}
