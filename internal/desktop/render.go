package desktop

import (
	"fmt"
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/Gaurav-Gosain/webdesk/internal/config"
	"github.com/Gaurav-Gosain/webdesk/internal/geom"
	"github.com/Gaurav-Gosain/webdesk/internal/theme"
	"github.com/Gaurav-Gosain/webdesk/internal/window"
)

// Layer depths outside the window stacking range.
const (
	backgroundZ = 0
	launcherZ   = 1
	dockZ       = 1 << 30
	helpZ       = dockZ + 1
)

// Windows smaller than this are drawn as a plain block.
const (
	minChromeWidth  = 10
	minChromeHeight = 3
)

// View renders the desktop.
func (m *Model) View() tea.View {
	var view tea.View
	if !m.quitting {
		view.SetContent(lipgloss.Sprint(m.canvas().Render()))
	}
	view.AltScreen = true
	view.MouseMode = tea.MouseModeAllMotion
	return view
}

func (m *Model) canvas() *lipgloss.Canvas {
	canvas := lipgloss.NewCanvas(max(m.width, 0), max(m.height, 0))
	if m.width <= 0 || m.height <= 0 {
		return canvas
	}

	layers := []*lipgloss.Layer{
		lipgloss.NewLayer(lipgloss.NewStyle().
			Background(theme.DesktopBg()).
			Width(m.width).
			Height(m.height).
			Render("")).Z(backgroundZ),
	}
	if l := m.renderLauncher(); l != nil {
		layers = append(layers, l)
	}

	top := m.topOffset()
	for _, w := range m.reg.Windows() {
		if w.Visibility() == window.Terminal {
			continue
		}
		_, animating := m.anims[w.ID()]
		r := m.renderRect(w).Round()
		content := m.renderWindow(w, r, animating && w.Visibility().Closing())
		clipped, x, y := clipToViewport(content, int(r.X), int(r.Y)+top, m.width, m.height)
		if clipped == "" {
			continue
		}
		layers = append(layers, lipgloss.NewLayer(clipped).X(x).Y(y).Z(w.ZIndex()).ID(string(w.ID())))
	}

	if config.DockbarPosition != "hidden" {
		layers = append(layers, m.renderDock())
	}
	if m.showHelp {
		layers = append(layers, m.renderHelp())
	}

	for _, layer := range layers {
		canvas.Compose(layer)
	}
	return canvas
}

func (m *Model) renderWindow(w *window.Window, r geom.Rect, animating bool) string {
	width, height := int(r.Width), int(r.Height)
	borderColor := theme.BorderUnfocused()
	if w.IsFocused() {
		borderColor = theme.BorderFocused()
	}

	if animating || width < minChromeWidth || height < minChromeHeight {
		return lipgloss.NewStyle().
			Background(borderColor).
			Width(max(width, 1)).
			Height(max(height, 1)).
			Render("")
	}

	border := config.GetBorderForStyle()
	body := lipgloss.NewStyle().
		Border(border).
		BorderTop(false).
		BorderForeground(borderColor).
		Foreground(theme.WindowFg()).
		Background(theme.WindowBg()).
		Width(width).
		Height(height - 1).
		Render(m.windowBody(w, width-2, height-2))

	return titleBar(w, width, border, borderColor) + "\n" + body
}

func titleBar(w *window.Window, width int, border lipgloss.Border, borderColor color.Color) string {
	edge := lipgloss.NewStyle().Foreground(borderColor)
	inner := width - 2

	var b strings.Builder
	b.WriteString(" ")
	if !config.HideWindowButtons {
		b.WriteString(button(w.CanClose(), theme.ButtonClose()))
		b.WriteString(" ")
		b.WriteString(button(w.CanMinimize(), theme.ButtonMinimize()))
		b.WriteString(" ")
		b.WriteString(button(w.CanFullScreen(), theme.ButtonFullScreen()))
		b.WriteString(" ")
	}

	used := ansi.StringWidth(b.String())
	title := ansi.Truncate(windowTitle(w), max(inner-used-1, 0), "…")
	label := b.String() + lipgloss.NewStyle().Bold(w.IsFocused()).Render(title) + " "
	if ansi.StringWidth(label) > inner {
		label = ansi.Truncate(label, inner, "")
	}
	fill := max(inner-ansi.StringWidth(label), 0)

	return edge.Render(border.TopLeft) + label + edge.Render(strings.Repeat(border.Top, fill)+border.TopRight)
}

func button(enabled bool, c color.Color) string {
	if !enabled {
		c = theme.ButtonDisabled()
	}
	return lipgloss.NewStyle().Foreground(c).Render("●")
}

func windowTitle(w *window.Window) string {
	switch w.Layout() {
	case window.Fullscreen:
		return w.Title() + " [fullscreen]"
	case window.Maximized:
		return w.Title() + " [maximized]"
	}
	return w.Title()
}

func (m *Model) windowBody(w *window.Window, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	lines := []string{fmt.Sprint(w.Content())}

	if aw, ok := m.windows[w.ID()]; ok && len(aw.messages) > 0 {
		msgStyle := lipgloss.NewStyle().Foreground(theme.MessageFg())
		lines = append(lines, "", "Messages:")
		for _, msg := range aw.messages {
			lines = append(lines, msgStyle.Render(fmt.Sprintf("%s: %v", m.senderName(msg.From), msg.Payload)))
		}
	}

	if len(lines) > height {
		lines = lines[:height]
	}
	for i, line := range lines {
		lines[i] = ansi.Truncate(line, width, "…")
	}
	return strings.Join(lines, "\n")
}

func (m *Model) senderName(id window.ID) string {
	if aw, ok := m.windows[id]; ok {
		return m.apps[aw.app].Name
	}
	if len(id) > 8 {
		return string(id[:8])
	}
	return string(id)
}

func (m *Model) renderLauncher() *lipgloss.Layer {
	x := m.width - launcherWidth
	if x < 0 {
		return nil
	}
	style := lipgloss.NewStyle().Foreground(theme.DockFg()).Width(launcherWidth)
	active := style.Foreground(theme.DockHighlight())

	lines := []string{style.Bold(true).Render("Apps")}
	for i, app := range m.apps {
		s := style
		if i == m.activeApp {
			s = active
		}
		lines = append(lines, s.Render(ansi.Truncate(app.Icon+" "+app.Name, launcherWidth, "…")))
	}
	return lipgloss.NewLayer(strings.Join(lines, "\n")).X(x).Y(m.topOffset()).Z(launcherZ)
}

func (m *Model) renderDock() *lipgloss.Layer {
	running := make(map[int]bool)
	for _, aw := range m.windows {
		running[aw.app] = true
	}

	base := lipgloss.NewStyle().
		Width(config.DockItemWidth).
		Height(config.DockHeight).
		Align(lipgloss.Center).
		Background(theme.DockBg())

	tiles := make([]string, 0, DockSize)
	for i, app := range m.dockApps() {
		style := base.Foreground(theme.DockDimmed())
		indicator := " "
		if running[i] {
			style = base.Foreground(theme.DockFg())
			indicator = "•"
		}
		if i == m.activeApp {
			style = base.Foreground(theme.DockHighlight())
		}
		name := ansi.Truncate(app.Name, config.DockItemWidth-2, "…")
		tiles = append(tiles, style.Render(app.Icon+"\n"+name+"\n"+indicator))
	}

	x, y := m.dockOrigin()
	return lipgloss.NewLayer(lipgloss.JoinHorizontal(lipgloss.Top, tiles...)).X(x).Y(y).Z(dockZ)
}

func (m *Model) renderHelp() *lipgloss.Layer {
	var b strings.Builder
	b.WriteString("Keybindings\n\n")
	for _, kb := range config.GetKeybindings(nil) {
		keys := m.keys.KeysFor(kb.Action)
		if keys == "" {
			continue
		}
		fmt.Fprintf(&b, "%-12s %s\n", keys, kb.Description)
	}
	b.WriteString("\nDrag a title bar to move, the bottom-right corner to resize.\nDouble-click a title bar to maximize.")

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.BorderFocused()).
		Foreground(theme.WindowFg()).
		Background(theme.WindowBg()).
		Padding(0, 1).
		Render(b.String())

	x := max((m.width-lipgloss.Width(box))/2, 0)
	y := max((m.height-lipgloss.Height(box))/2, 0)
	return lipgloss.NewLayer(box).X(x).Y(y).Z(helpZ)
}

// clipToViewport trims content that falls outside the screen and returns
// the position to draw what remains.
func clipToViewport(content string, x, y, viewportWidth, viewportHeight int) (string, int, int) {
	lines := strings.Split(content, "\n")
	if y < 0 {
		if -y >= len(lines) {
			return "", 0, 0
		}
		lines = lines[-y:]
		y = 0
	}
	if n := viewportHeight - y; n < len(lines) {
		if n <= 0 {
			return "", x, y
		}
		lines = lines[:n]
	}

	finalX := max(x, 0)
	limit := viewportWidth - finalX
	if limit <= 0 {
		return "", finalX, y
	}
	for i, line := range lines {
		if x < 0 {
			line = ansi.TruncateLeft(line, -x, "")
		}
		if ansi.StringWidth(line) > limit {
			line = ansi.Truncate(line, limit, "")
		}
		lines[i] = line
	}
	return strings.Join(lines, "\n"), finalX, y
}
