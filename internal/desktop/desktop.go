// Package desktop is the terminal surface of the window registry: a
// bubbletea model that draws windows, a launcher and a dock, and turns
// keyboard and mouse input into window operations.
package desktop

import (
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"

	"github.com/Gaurav-Gosain/webdesk/internal/config"
	"github.com/Gaurav-Gosain/webdesk/internal/frame"
	"github.com/Gaurav-Gosain/webdesk/internal/geom"
	"github.com/Gaurav-Gosain/webdesk/internal/window"
	"github.com/Gaurav-Gosain/webdesk/internal/wm"
)

// TickMsg drives frame callbacks and animations.
type TickMsg time.Time

// TickCmd schedules the next frame at the configured rate.
func TickCmd() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(max(config.FPS, 1)), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// Options configures a desktop Model.
type Options struct {
	Apps        []App
	Window      config.WindowConfig
	Keybindings config.KeybindingsConfig
	BaseZ       int
	Logger      *zerolog.Logger
	// NewID overrides window identity allocation.
	NewID func() window.ID
}

// surface is the desktop area above or below the dock.
type surface struct {
	m *Model
}

func (s surface) Size() geom.Size {
	h := s.m.height
	if config.DockbarPosition != "hidden" {
		h -= config.DockHeight
	}
	return geom.Size{Width: float64(max(s.m.width, 0)), Height: float64(max(h, 0))}
}

type appWindow struct {
	handle   wm.Handle
	app      int
	messages []window.Message
}

type gestureKind int

const (
	gestureNone gestureKind = iota
	gestureDrag
	gestureResize
)

type gesture struct {
	kind   gestureKind
	id     window.ID
	offset geom.Vector
	origin geom.Point
}

// Model is the desktop bubbletea model.
type Model struct {
	reg     *wm.Registry
	frames  *frame.Queue
	surface surface
	keys    *config.KeyMap
	log     zerolog.Logger

	apps      []App
	winCfg    config.WindowConfig
	windows   map[window.ID]*appWindow
	anims     map[window.ID]*animation
	activeApp int
	launched  int
	nextApp   int

	width, height int
	now           time.Time

	gesture     gesture
	lastClick   time.Time
	lastClickID window.ID

	showHelp bool
	quitting bool
	cancel   func()
}

// New builds a desktop model with its own registry.
func New(opts Options) (*Model, error) {
	if len(opts.Apps) == 0 {
		opts.Apps = DefaultApps
	}
	def := config.DefaultConfig().Window
	if opts.Window.DefaultWidth <= 0 {
		opts.Window.DefaultWidth = def.DefaultWidth
	}
	if opts.Window.DefaultHeight <= 0 {
		opts.Window.DefaultHeight = def.DefaultHeight
	}
	if opts.Window.MinWidth <= 0 {
		opts.Window.MinWidth = def.MinWidth
	}
	if opts.Window.MinHeight <= 0 {
		opts.Window.MinHeight = def.MinHeight
	}
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}

	m := &Model{
		frames:    &frame.Queue{},
		keys:      config.NewKeyMap(opts.Keybindings),
		log:       log,
		apps:      opts.Apps,
		winCfg:    opts.Window,
		windows:   make(map[window.ID]*appWindow),
		anims:     make(map[window.ID]*animation),
		activeApp: -1,
		width:     80,
		height:    24,
	}
	m.surface = surface{m: m}

	regLog := log.With().Str("component", "wm").Logger()
	reg, err := wm.New(wm.Options{
		BaseZ:     opts.BaseZ,
		Surface:   m.surface,
		Scheduler: m.frames,
		Logger:    &regLog,
		NewID:     opts.NewID,
	})
	if err != nil {
		return nil, err
	}
	m.reg = reg
	m.cancel = reg.OnChange(m.onRegistryEvent)
	return m, nil
}

// Registry returns the registry the desktop draws.
func (m *Model) Registry() *wm.Registry { return m.reg }

// Init starts the frame ticker.
func (m *Model) Init() tea.Cmd {
	return TickCmd()
}

// Update handles input, resizes and frame ticks.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TickMsg:
		if m.quitting {
			return m, nil
		}
		m.tick(time.Time(msg))
		return m, TickCmd()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		return m, m.handleKey(msg.String())

	case tea.MouseClickMsg:
		mouse := msg.Mouse()
		if mouse.Button == tea.MouseLeft {
			m.handleClick(mouse.X, mouse.Y)
		}
		return m, nil

	case tea.MouseMotionMsg:
		mouse := msg.Mouse()
		m.handleMotion(mouse.X, mouse.Y)
		return m, nil

	case tea.MouseReleaseMsg:
		mouse := msg.Mouse()
		m.handleRelease(mouse.X, mouse.Y)
		return m, nil
	}
	return m, nil
}

// tick runs one frame: deferred callbacks first, then mounting of new
// windows, whose own deferred step lands on the next frame.
func (m *Model) tick(now time.Time) {
	m.now = now
	m.frames.Flush()
	m.reg.MountPending()
	m.advanceAnimations(now)
}

// Shutdown unregisters every window. Pending closes and minimizes still
// fire their completion callbacks.
func (m *Model) Shutdown() {
	m.quitting = true
	m.reg.Clear()
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

func (m *Model) onRegistryEvent(ev wm.Event) {
	switch ev.Kind {
	case wm.EventUnregistered:
		delete(m.windows, ev.ID)
		delete(m.anims, ev.ID)
		if m.gesture.id == ev.ID {
			m.gesture = gesture{}
		}
	case wm.EventMessage:
		m.log.Debug().Str("to", string(ev.ID)).Str("from", string(ev.From)).Msg("message shown")
	}
}

func (m *Model) receive(id window.ID, msg window.Message) {
	aw, ok := m.windows[id]
	if !ok {
		return
	}
	aw.messages = append(aw.messages, msg)
	if n := len(aw.messages); n > config.MaxMessagesShown {
		aw.messages = aw.messages[n-config.MaxMessagesShown:]
	}
}

// topOffset is the screen row where the surface starts.
func (m *Model) topOffset() int {
	if config.DockbarPosition == "top" {
		return config.DockHeight
	}
	return 0
}

// focusedWindow returns the focused mounted window.
func (m *Model) focusedWindow() (*window.Window, bool) {
	id, ok := m.reg.Focused()
	if !ok {
		return nil, false
	}
	return m.reg.Window(id)
}

// openWindows returns windows that accept input, in launch order.
func (m *Model) openWindows() []*window.Window {
	var out []*window.Window
	for _, w := range m.reg.InRegistrationOrder() {
		if v := w.Visibility(); v == window.Opening || v == window.Visible {
			out = append(out, w)
		}
	}
	return out
}
