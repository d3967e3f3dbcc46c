package desktop

import (
	"fmt"

	"github.com/Gaurav-Gosain/webdesk/internal/config"
	"github.com/Gaurav-Gosain/webdesk/internal/geom"
	"github.com/Gaurav-Gosain/webdesk/internal/window"
	"github.com/Gaurav-Gosain/webdesk/internal/wm"
)

// App is a launchable desktop application.
type App struct {
	ID   string
	Name string
	Icon string
}

// DefaultApps is the launcher list. The first DockSize apps also sit in
// the dock.
var DefaultApps = []App{
	{ID: "finder", Name: "Finder", Icon: "◧"},
	{ID: "safari", Name: "Safari", Icon: "◎"},
	{ID: "messages", Name: "Messages", Icon: "✉"},
	{ID: "mail", Name: "Mail", Icon: "@"},
	{ID: "photos", Name: "Photos", Icon: "❀"},
	{ID: "music", Name: "Music", Icon: "♫"},
	{ID: "settings", Name: "Settings", Icon: "⚙"},
	{ID: "notes", Name: "Notes", Icon: "✎"},
	{ID: "calendar", Name: "Calendar", Icon: "▦"},
	{ID: "calculator", Name: "Calculator", Icon: "±"},
}

// DockSize is how many apps are pinned to the dock.
const DockSize = 5

// launcherWidth is the width of the app column on the right of the desktop.
const launcherWidth = 14

// dockApps returns the apps pinned to the dock.
func (m *Model) dockApps() []App {
	return m.apps[:min(DockSize, len(m.apps))]
}

// dockOrigin returns the screen position of the first dock tile.
func (m *Model) dockOrigin() (x, y int) {
	width := len(m.dockApps()) * config.DockItemWidth
	x = max((m.width-width)/2, 0)
	if config.DockbarPosition == "top" {
		return x, 0
	}
	return x, m.height - config.DockHeight
}

// dockTileRect returns the screen rectangle of the dock tile for app i.
func (m *Model) dockTileRect(i int) (geom.Rect, bool) {
	if config.DockbarPosition == "hidden" || i < 0 || i >= len(m.dockApps()) {
		return geom.Rect{}, false
	}
	x, y := m.dockOrigin()
	return geom.Rect{
		X:      float64(x + i*config.DockItemWidth),
		Y:      float64(y),
		Width:  config.DockItemWidth,
		Height: config.DockHeight,
	}, true
}

// dockElement is the minimize target for windows of app i. Its bounds are
// reported in surface coordinates and follow the dock as the terminal is
// resized.
func (m *Model) dockElement(i int) window.Element {
	return window.ElementFunc(func() (geom.Rect, bool) {
		r, ok := m.dockTileRect(i)
		if !ok {
			return geom.Rect{}, false
		}
		return r.Translate(geom.Vector{DY: -float64(m.topOffset())}), true
	})
}

// dockItemAt returns the dock tile under a screen position.
func (m *Model) dockItemAt(x, y int) int {
	for i := range m.dockApps() {
		r, ok := m.dockTileRect(i)
		if ok && r.Contains(geom.Point{X: float64(x), Y: float64(y)}) {
			return i
		}
	}
	return -1
}

// launcherItemAt returns the launcher entry under a screen position.
func (m *Model) launcherItemAt(x, y int) int {
	left := m.width - launcherWidth
	row := y - m.topOffset() - 1
	if x < left || row < 0 || row >= len(m.apps) {
		return -1
	}
	return row
}

// launch opens a new window for app i.
func (m *Model) launch(i int) {
	if i < 0 || i >= len(m.apps) {
		return
	}
	app := m.apps[i]
	m.activeApp = i

	surf := m.surface.Size()
	step := float64(m.launched % 8 * config.WindowCascadeStep)
	m.launched++
	pos := geom.Point{
		X: min(2+step*2, max(surf.Width-float64(m.winCfg.DefaultWidth)-launcherWidth, 0)),
		Y: min(1+step, max(surf.Height-float64(m.winCfg.DefaultHeight), 0)),
	}

	var h wm.Handle
	opts := window.Options{
		Title:           app.Name,
		Content:         fmt.Sprintf("This is the sample content of %s.", app.Name),
		DefaultWidth:    float64(m.winCfg.DefaultWidth),
		DefaultHeight:   float64(m.winCfg.DefaultHeight),
		DefaultPosition: pos,
		MinWidth:        float64(m.winCfg.MinWidth),
		MinHeight:       float64(m.winCfg.MinHeight),
		OnClose: func() {
			m.activeApp = -1
		},
		OnMinimize: func() window.Element {
			return m.dockElement(i)
		},
		OnMinimized: func() {
			m.activeApp = -1
		},
		OnMessage: func(msg window.Message) {
			m.receive(h.ID, msg)
		},
	}
	h = m.reg.CreateWindow(opts)
	m.windows[h.ID] = &appWindow{handle: h, app: i}
	m.log.Debug().Str("app", app.ID).Str("id", string(h.ID)).Msg("app launched")
}
