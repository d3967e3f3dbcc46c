package desktop

import (
	"fmt"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/Gaurav-Gosain/webdesk/internal/config"
	"github.com/Gaurav-Gosain/webdesk/internal/geom"
	"github.com/Gaurav-Gosain/webdesk/internal/window"
)

var epoch = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func newTestModel(t *testing.T) *Model {
	t.Helper()

	anim, dock, hide := config.AnimationsEnabled, config.DockbarPosition, config.HideWindowButtons
	t.Cleanup(func() {
		config.AnimationsEnabled = anim
		config.DockbarPosition = dock
		config.HideWindowButtons = hide
	})
	config.AnimationsEnabled = true
	config.DockbarPosition = "bottom"
	config.HideWindowButtons = false

	n := 0
	m, err := New(Options{
		NewID: func() window.ID {
			n++
			return window.ID(fmt.Sprintf("w%d", n))
		},
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return m
}

// settle runs the two frames a new window needs to become visible.
func settle(m *Model) {
	m.tick(epoch)
	m.tick(epoch)
}

func mustWindow(t *testing.T, m *Model, id window.ID) *window.Window {
	t.Helper()
	w, ok := m.reg.Window(id)
	if !ok {
		t.Fatalf("window %s not mounted", id)
	}
	return w
}

func TestLaunchMountsThenShows(t *testing.T) {
	m := newTestModel(t)
	m.launch(0)

	if m.reg.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", m.reg.Len())
	}
	if _, ok := m.reg.Window("w1"); ok {
		t.Fatal("window mounted before the first frame")
	}

	m.tick(epoch)
	w := mustWindow(t, m, "w1")
	if w.Visibility() != window.Opening {
		t.Errorf("Visibility() after mount = %v, want %v", w.Visibility(), window.Opening)
	}

	m.tick(epoch)
	if w.Visibility() != window.Visible {
		t.Errorf("Visibility() = %v, want %v", w.Visibility(), window.Visible)
	}
	if !w.IsFocused() {
		t.Error("new window not focused")
	}
	if m.activeApp != 0 {
		t.Errorf("activeApp = %d, want 0", m.activeApp)
	}
	if got := w.Geometry(); got != (geom.Rect{X: 2, Y: 1, Width: 48, Height: 14}) {
		t.Errorf("Geometry() = %+v, want {2 1 48 14}", got)
	}
}

func TestNewWindowKeyCyclesApps(t *testing.T) {
	m := newTestModel(t)
	m.Update(tea.KeyPressMsg{Code: 'n', Text: "n"})
	m.Update(tea.KeyPressMsg{Code: 'n', Text: "n"})
	settle(m)

	want := []string{"Finder", "Safari"}
	for i, id := range []window.ID{"w1", "w2"} {
		if got := mustWindow(t, m, id).Title(); got != want[i] {
			t.Errorf("window %s Title() = %q, want %q", id, got, want[i])
		}
	}
}

func TestCloseAnimationReleasesRecord(t *testing.T) {
	m := newTestModel(t)
	m.launch(0)
	settle(m)
	w := mustWindow(t, m, "w1")

	m.handleKey("x")
	if w.Visibility() != window.ClosingForClose {
		t.Fatalf("Visibility() = %v, want %v", w.Visibility(), window.ClosingForClose)
	}
	if m.activeApp != -1 {
		t.Errorf("activeApp = %d, want -1 after close", m.activeApp)
	}

	m.tick(epoch)
	if !m.reg.Has("w1") {
		t.Fatal("record released before the animation ran")
	}
	m.tick(epoch.Add(config.AnimationDuration / 2))
	if !m.reg.Has("w1") {
		t.Fatal("record released mid animation")
	}

	m.tick(epoch.Add(config.AnimationDuration))
	if m.reg.Has("w1") {
		t.Error("record still registered after the close animation")
	}
	if w.Visibility() != window.Terminal {
		t.Errorf("Visibility() = %v, want %v", w.Visibility(), window.Terminal)
	}
	if _, ok := m.windows["w1"]; ok {
		t.Error("desktop still tracks the closed window")
	}
}

func TestAnimationsDisabledFinishOnNextFrame(t *testing.T) {
	m := newTestModel(t)
	config.AnimationsEnabled = false
	m.launch(0)
	settle(m)

	m.handleKey("x")
	m.tick(epoch)
	if m.reg.Has("w1") {
		t.Error("record still registered with animations disabled")
	}
}

func TestMinimizeTargetsDockTile(t *testing.T) {
	m := newTestModel(t)
	m.launch(0)
	settle(m)
	w := mustWindow(t, m, "w1")

	m.handleKey("m")
	if w.Visibility() != window.ClosingForMinimize {
		t.Fatalf("Visibility() = %v, want %v", w.Visibility(), window.ClosingForMinimize)
	}

	// Window center {26, 8}; Finder tile {30, 37, 12, 3} has center {36, 38.5}.
	want := geom.Vector{DX: 10, DY: 30.5}
	if got := w.MinimizeVector(); got != want {
		t.Errorf("MinimizeVector() = %+v, want %+v", got, want)
	}

	m.tick(epoch)
	m.tick(epoch.Add(config.AnimationDuration))
	if m.reg.Has("w1") {
		t.Error("record still registered after the minimize animation")
	}
	if m.activeApp != -1 {
		t.Errorf("activeApp = %d, want -1 after minimize", m.activeApp)
	}
}

func TestMinimizeWithHiddenDockUsesDefaultTarget(t *testing.T) {
	m := newTestModel(t)
	config.DockbarPosition = "hidden"
	m.launch(0)
	settle(m)
	w := mustWindow(t, m, "w1")

	m.handleKey("m")
	// Surface is the full 120x40; default target is {60, 90}.
	want := geom.MinimizeVector(w.Geometry().Center(), geom.Point{X: 60, Y: 90})
	if got := w.MinimizeVector(); got != want {
		t.Errorf("MinimizeVector() = %+v, want %+v", got, want)
	}
}

func TestRestoreDuringMinimize(t *testing.T) {
	m := newTestModel(t)
	m.launch(0)
	settle(m)
	w := mustWindow(t, m, "w1")

	m.handleKey("m")
	m.tick(epoch)
	m.handleKey("r")
	if w.Visibility() != window.Visible {
		t.Fatalf("Visibility() = %v, want %v", w.Visibility(), window.Visible)
	}

	m.tick(epoch.Add(config.AnimationDuration))
	if !m.reg.Has("w1") {
		t.Error("restored window was released")
	}
	if _, ok := m.anims["w1"]; ok {
		t.Error("minimize animation kept running after restore")
	}
}

func TestCycleFocus(t *testing.T) {
	m := newTestModel(t)
	for i := 0; i < 3; i++ {
		m.launch(i)
	}
	settle(m)

	steps := []struct {
		key  string
		want window.ID
	}{
		{"tab", "w1"},
		{"tab", "w2"},
		{"shift+tab", "w1"},
		{"shift+tab", "w3"},
	}
	if id, _ := m.reg.Focused(); id != "w3" {
		t.Fatalf("Focused() = %s, want w3", id)
	}
	for _, s := range steps {
		m.handleKey(s.key)
		if id, _ := m.reg.Focused(); id != s.want {
			t.Errorf("after %s Focused() = %s, want %s", s.key, id, s.want)
		}
	}
}

func TestSendMessageToNextWindow(t *testing.T) {
	m := newTestModel(t)
	m.launch(0)
	m.launch(1)
	settle(m)

	m.handleKey("s")

	got := m.windows["w1"].messages
	if len(got) != 1 {
		t.Fatalf("w1 received %d messages, want 1", len(got))
	}
	if got[0].From != "w2" || got[0].Payload != "Hello from Safari" {
		t.Errorf("message = %+v, want from w2 with %q", got[0], "Hello from Safari")
	}
	if len(m.windows["w2"].messages) != 0 {
		t.Error("sender received its own message")
	}
}

func TestMessagesAreCapped(t *testing.T) {
	m := newTestModel(t)
	m.launch(0)
	m.launch(1)
	settle(m)

	for i := 0; i < config.MaxMessagesShown+3; i++ {
		m.reg.SendMessage("w1", "w2", i)
	}
	got := m.windows["w1"].messages
	if len(got) != config.MaxMessagesShown {
		t.Fatalf("kept %d messages, want %d", len(got), config.MaxMessagesShown)
	}
	if got[0].Payload != 3 {
		t.Errorf("oldest kept payload = %v, want 3", got[0].Payload)
	}
}

func TestTitleButtons(t *testing.T) {
	tests := []struct {
		name  string
		col   int
		check func(*testing.T, *window.Window)
	}{
		{"close", closeButtonCol, func(t *testing.T, w *window.Window) {
			if w.Visibility() != window.ClosingForClose {
				t.Errorf("Visibility() = %v, want %v", w.Visibility(), window.ClosingForClose)
			}
		}},
		{"minimize", minimizeButtonCol, func(t *testing.T, w *window.Window) {
			if w.Visibility() != window.ClosingForMinimize {
				t.Errorf("Visibility() = %v, want %v", w.Visibility(), window.ClosingForMinimize)
			}
		}},
		{"fullscreen", fullScreenButtonCol, func(t *testing.T, w *window.Window) {
			if !w.IsFullScreen() {
				t.Error("IsFullScreen() = false, want true")
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestModel(t)
			m.launch(0)
			settle(m)
			w := mustWindow(t, m, "w1")

			m.Update(tea.MouseClickMsg{X: 2 + tt.col, Y: 1, Button: tea.MouseLeft})
			tt.check(t, w)
		})
	}
}

func TestHiddenButtonsStartDrag(t *testing.T) {
	m := newTestModel(t)
	config.HideWindowButtons = true
	m.launch(0)
	settle(m)
	w := mustWindow(t, m, "w1")

	m.handleClick(2+closeButtonCol, 1)
	if w.Visibility() != window.Visible {
		t.Errorf("Visibility() = %v, want %v", w.Visibility(), window.Visible)
	}
	if !w.Manipulating() {
		t.Error("click on title bar did not start a drag")
	}
}

func TestDragTitleBar(t *testing.T) {
	m := newTestModel(t)
	m.launch(0)
	settle(m)
	w := mustWindow(t, m, "w1")

	m.handleClick(20, 1)
	if !w.Manipulating() {
		t.Fatal("Manipulating() = false after title bar click")
	}
	m.handleMotion(30, 5)
	if got := w.Geometry().Position(); got != (geom.Point{X: 12, Y: 5}) {
		t.Errorf("position during drag = %+v, want {12 5}", got)
	}
	m.handleRelease(31, 5)
	if w.Manipulating() {
		t.Error("Manipulating() = true after release")
	}
	if got := w.Geometry().Position(); got != (geom.Point{X: 13, Y: 5}) {
		t.Errorf("position after drag = %+v, want {13 5}", got)
	}
}

func TestDoubleClickTitleMaximizes(t *testing.T) {
	m := newTestModel(t)
	m.launch(0)
	settle(m)
	w := mustWindow(t, m, "w1")

	m.handleClick(20, 1)
	m.handleRelease(20, 1)
	m.handleClick(20, 1)
	if !w.IsMaximized() {
		t.Fatal("IsMaximized() = false after double click")
	}
	if got := w.Geometry(); got != geom.Bounds(m.surface.Size()) {
		t.Errorf("Geometry() = %+v, want surface bounds", got)
	}

	m.tick(epoch.Add(time.Second))
	m.handleClick(20, 0)
	m.handleRelease(20, 0)
	m.tick(epoch.Add(2 * time.Second))
	m.handleClick(20, 0)
	if !w.IsMaximized() {
		t.Error("clicks further apart than the double click interval toggled maximize")
	}
}

func TestResizeCorner(t *testing.T) {
	m := newTestModel(t)
	m.launch(0)
	settle(m)
	w := mustWindow(t, m, "w1")

	m.handleClick(49, 14)
	if !w.Manipulating() {
		t.Fatal("Manipulating() = false after corner click")
	}
	m.handleMotion(59, 19)
	if got := w.Geometry(); got != (geom.Rect{X: 2, Y: 1, Width: 58, Height: 19}) {
		t.Errorf("Geometry() during resize = %+v, want {2 1 58 19}", got)
	}

	m.handleRelease(10, 3)
	if got := w.Geometry(); got != (geom.Rect{X: 2, Y: 1, Width: 24, Height: 7}) {
		t.Errorf("Geometry() after resize = %+v, want clamped {2 1 24 7}", got)
	}
}

func TestDockAndLauncherClicks(t *testing.T) {
	tests := []struct {
		name string
		x, y int
		want string
	}{
		{"first dock tile", 31, 38, "Finder"},
		{"last dock tile", 30 + 4*config.DockItemWidth, 37, "Photos"},
		{"launcher row", 110, 3, "Messages"},
		{"launcher last row", 110, 10, "Calculator"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestModel(t)
			m.handleClick(tt.x, tt.y)
			settle(m)
			w := mustWindow(t, m, "w1")
			if w.Title() != tt.want {
				t.Errorf("Title() = %q, want %q", w.Title(), tt.want)
			}
		})
	}
}

func TestClickOnEmptyDesktopDoesNothing(t *testing.T) {
	m := newTestModel(t)
	m.handleClick(60, 30)
	m.handleClick(5, 38)
	if m.reg.Len() != 0 {
		t.Errorf("Len() = %d, want 0", m.reg.Len())
	}
}

func TestQuitUnregistersEverything(t *testing.T) {
	m := newTestModel(t)
	m.launch(0)
	m.launch(1)
	settle(m)
	closing := mustWindow(t, m, "w2")
	m.handleKey("x")

	_, cmd := m.Update(tea.KeyPressMsg{Code: 'q', Text: "q"})
	if cmd == nil {
		t.Fatal("quit returned no command")
	}
	if m.reg.Len() != 0 {
		t.Errorf("Len() = %d, want 0", m.reg.Len())
	}
	if len(m.windows) != 0 {
		t.Errorf("desktop still tracks %d windows", len(m.windows))
	}
	if closing.Visibility() != window.Terminal {
		t.Errorf("closing window Visibility() = %v, want %v", closing.Visibility(), window.Terminal)
	}
	if _, cmd := m.Update(TickMsg(epoch)); cmd != nil {
		t.Error("tick after quit scheduled another tick")
	}
}

func TestRenderIncludesChrome(t *testing.T) {
	m := newTestModel(t)
	m.launch(0)
	settle(m)
	m.showHelp = true

	out := m.canvas().Render()
	for _, want := range []string{"Apps", "Finder", "Keybindings"} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q", want)
		}
	}
}

func TestClipToViewport(t *testing.T) {
	tests := []struct {
		name    string
		content string
		x, y    int
		want    string
		wantX   int
		wantY   int
	}{
		{"inside", "ab\ncd", 1, 1, "ab\ncd", 1, 1},
		{"left edge", "abc\ndef", -1, 0, "bc\nef", 0, 0},
		{"top edge", "abc\ndef", 0, -1, "def", 0, 0},
		{"right edge", "abcd", 8, 0, "ab", 8, 0},
		{"bottom edge", "a\nb\nc", 0, 3, "a\nb", 0, 3},
		{"fully above", "a\nb", 0, -5, "", 0, 0},
		{"fully right", "a", 12, 0, "", 12, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, x, y := clipToViewport(tt.content, tt.x, tt.y, 10, 5)
			if got != tt.want || x != tt.wantX || y != tt.wantY {
				t.Errorf("clipToViewport() = %q, %d, %d, want %q, %d, %d", got, x, y, tt.want, tt.wantX, tt.wantY)
			}
		})
	}
}
