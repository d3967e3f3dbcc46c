// Package webdesk provides a window registry and lifecycle state machine
// for desktop-style interfaces, together with two ready-made surfaces: a
// terminal desktop built on Bubble Tea and an HTTP/WebSocket bridge for a
// browser front end.
//
// # Registry
//
// A registry needs a surface to size windows against and a scheduler that
// defers work to the next frame:
//
//	frames := webdesk.NewFrameQueue()
//	reg, err := webdesk.NewRegistry(
//		webdesk.WithSurface(1280, 800),
//		webdesk.WithScheduler(frames),
//	)
//	h := reg.CreateWindow(webdesk.Options{
//		Title:   "Notes",
//		OnClose: func() {},
//	})
//	reg.Mount(h.ID)
//	frames.Flush() // once per frame
//
// # Terminal desktop
//
//	model, err := webdesk.NewDesktop(webdesk.WithTheme("dracula"))
//	p := tea.NewProgram(model, webdesk.ProgramOptions()...)
//	if _, err := p.Run(); err != nil {
//		log.Fatal(err)
//	}
//
// # Browser bridge
//
//	srv, err := webdesk.NewBridge(webdesk.WithAddr(":7777"))
//	if err := srv.Run(ctx); err != nil {
//		log.Fatal(err)
//	}
package webdesk

import (
	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"

	"github.com/Gaurav-Gosain/webdesk/internal/bridge"
	"github.com/Gaurav-Gosain/webdesk/internal/config"
	"github.com/Gaurav-Gosain/webdesk/internal/desktop"
	"github.com/Gaurav-Gosain/webdesk/internal/frame"
	"github.com/Gaurav-Gosain/webdesk/internal/geom"
	"github.com/Gaurav-Gosain/webdesk/internal/window"
	"github.com/Gaurav-Gosain/webdesk/internal/wm"
)

// Registry tracks every window on one surface.
type Registry = wm.Registry

// Window is the per-window state machine.
type Window = window.Window

// Options configures a window created through Registry.CreateWindow.
type Options = window.Options

// Message is a payload delivered between windows.
type Message = window.Message

// Handle is the two-phase handle returned by Registry.CreateWindow.
type Handle = wm.Handle

// ID identifies a window.
type ID = window.ID

// Event is a registry change notification.
type Event = wm.Event

// Snapshot is a serializable view of a window.
type Snapshot = window.Snapshot

// Element is a minimize target.
type Element = window.Element

// ElementFunc adapts a function to Element.
type ElementFunc = window.ElementFunc

// Geometry types.
type (
	Rect  = geom.Rect
	Point = geom.Point
	Size  = geom.Size
)

// Surface reports the size windows are laid out against.
type Surface = window.Surface

// Scheduler defers work to the next frame.
type Scheduler = window.Scheduler

// FrameQueue is a Scheduler flushed by the caller once per frame.
type FrameQueue = frame.Queue

// Desktop is the terminal desktop model. It implements tea.Model.
type Desktop = desktop.Model

// Bridge is the HTTP and WebSocket server for a browser front end.
type Bridge = bridge.Server

// Config collects the settings shared by the constructors.
type Config struct {
	// Theme is the color theme name (e.g., "dracula", "nord").
	// Leave empty to use standard terminal colors.
	Theme string

	// Animations enables close and minimize transitions on the terminal
	// desktop.
	Animations bool

	// BorderStyle sets the window border style.
	// Valid values: "rounded", "normal", "thick", "double", "hidden"
	BorderStyle string

	// DockbarPosition sets where the dock appears.
	// Valid values: "bottom", "top", "hidden"
	DockbarPosition string

	// HideWindowButtons hides the close/minimize/fullscreen buttons.
	HideWindowButtons bool

	// FPS is the frame rate of the desktop and the bridge loop.
	FPS int

	// BaseZ is the stacking order of windows that were never focused.
	BaseZ int

	// Surface sizes a standalone registry and the bridge until a browser
	// reports its viewport.
	Surface Size

	// Scheduler is required by NewRegistry.
	Scheduler Scheduler

	// Addr is the bridge listen address.
	Addr string

	// AllowOrigins lists accepted websocket origins. Empty accepts any.
	AllowOrigins []string

	Logger *zerolog.Logger

	// NewID overrides window identity allocation.
	NewID func() ID

	// UserConfig is a custom user configuration. If nil, defaults are used.
	UserConfig *config.UserConfig
}

// Option is a functional option for the constructors.
type Option func(*Config)

// WithTheme sets the color theme.
func WithTheme(name string) Option {
	return func(c *Config) {
		c.Theme = name
	}
}

// WithAnimations enables or disables transitions.
func WithAnimations(enabled bool) Option {
	return func(c *Config) {
		c.Animations = enabled
	}
}

// WithBorderStyle sets the window border style.
func WithBorderStyle(style string) Option {
	return func(c *Config) {
		c.BorderStyle = style
	}
}

// WithDockbarPosition sets the dock position.
func WithDockbarPosition(position string) Option {
	return func(c *Config) {
		c.DockbarPosition = position
	}
}

// WithHideWindowButtons hides window control buttons.
func WithHideWindowButtons(hide bool) Option {
	return func(c *Config) {
		c.HideWindowButtons = hide
	}
}

// WithFPS sets the frame rate, clamped to the supported range.
func WithFPS(fps int) Option {
	return func(c *Config) {
		c.FPS = min(max(fps, config.MinFPS), config.MaxFPS)
	}
}

// WithBaseZ sets the stacking order of never-focused windows.
func WithBaseZ(z int) Option {
	return func(c *Config) {
		c.BaseZ = z
	}
}

// WithSurface sets a fixed surface size.
func WithSurface(width, height float64) Option {
	return func(c *Config) {
		c.Surface = Size{Width: width, Height: height}
	}
}

// WithScheduler sets the frame scheduler of a standalone registry.
func WithScheduler(s Scheduler) Option {
	return func(c *Config) {
		c.Scheduler = s
	}
}

// WithAddr sets the bridge listen address.
func WithAddr(addr string) Option {
	return func(c *Config) {
		c.Addr = addr
	}
}

// WithAllowOrigins restricts websocket origins.
func WithAllowOrigins(origins ...string) Option {
	return func(c *Config) {
		c.AllowOrigins = origins
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(log *zerolog.Logger) Option {
	return func(c *Config) {
		c.Logger = log
	}
}

// WithIDGenerator overrides window identity allocation.
func WithIDGenerator(fn func() ID) Option {
	return func(c *Config) {
		c.NewID = fn
	}
}

// WithUserConfig sets a custom user configuration.
func WithUserConfig(cfg *config.UserConfig) Option {
	return func(c *Config) {
		c.UserConfig = cfg
	}
}

// DefaultConfig returns the default settings.
func DefaultConfig() Config {
	return Config{
		Animations: true,
		FPS:        config.NormalFPS,
		Surface: Size{
			Width:  config.DefaultSurfaceWidth,
			Height: config.DefaultSurfaceHeight,
		},
		Addr: config.DefaultServerAddr,
	}
}

func build(opts []Option) Config {
	c := DefaultConfig()
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// NewFrameQueue returns a scheduler for NewRegistry. Call Flush once per
// frame.
func NewFrameQueue() *FrameQueue {
	return &frame.Queue{}
}

// NewRegistry creates a standalone registry. It returns a configuration
// error when no scheduler was given.
func NewRegistry(opts ...Option) (*Registry, error) {
	c := build(opts)
	return wm.New(wm.Options{
		BaseZ:     c.BaseZ,
		Surface:   window.FixedSurface(c.Surface),
		Scheduler: c.Scheduler,
		Logger:    c.Logger,
		NewID:     c.NewID,
	})
}

// NewDesktop creates the terminal desktop model. Appearance settings are
// process-wide and take precedence over the user configuration.
func NewDesktop(opts ...Option) (*Desktop, error) {
	c := build(opts)

	userConfig := c.UserConfig
	if userConfig == nil {
		userConfig = config.DefaultConfig()
	}
	config.ApplyOverrides(config.Overrides{
		BorderStyle:       c.BorderStyle,
		DockbarPosition:   c.DockbarPosition,
		HideWindowButtons: c.HideWindowButtons,
		NoAnimations:      !c.Animations,
		FPS:               c.FPS,
		ThemeName:         c.Theme,
	}, userConfig)

	baseZ := c.BaseZ
	if baseZ == 0 {
		baseZ = userConfig.Desktop.BaseZ
	}
	return desktop.New(desktop.Options{
		Window:      userConfig.Window,
		Keybindings: userConfig.Keybindings,
		BaseZ:       baseZ,
		Logger:      c.Logger,
		NewID:       c.NewID,
	})
}

// NewBridge creates the browser bridge server.
func NewBridge(opts ...Option) (*Bridge, error) {
	c := build(opts)
	return bridge.New(bridge.Config{
		Addr:         c.Addr,
		Surface:      c.Surface,
		AllowOrigins: c.AllowOrigins,
		BaseZ:        c.BaseZ,
		FPS:          c.FPS,
		Logger:       c.Logger,
		NewID:        c.NewID,
	})
}

// ProgramOptions returns recommended tea.ProgramOption values for running
// the desktop:
//
//	p := tea.NewProgram(model, webdesk.ProgramOptions()...)
func ProgramOptions() []tea.ProgramOption {
	return []tea.ProgramOption{
		tea.WithFPS(config.FPS),
		tea.WithFilter(FilterMouseMotion),
	}
}

// FilterMouseMotion is a tea.WithFilter function that drops mouse motion
// unless a drag or resize is in progress.
func FilterMouseMotion(model tea.Model, msg tea.Msg) tea.Msg {
	if _, ok := msg.(tea.MouseMotionMsg); !ok {
		return msg
	}
	d, ok := model.(*Desktop)
	if !ok || d.Gesturing() {
		return msg
	}
	return nil
}

// LoadUserConfig loads the user's configuration file, creating it with
// defaults on first run.
func LoadUserConfig() (*config.UserConfig, error) {
	return config.LoadUserConfig()
}

// ConfigPath returns the path to the configuration file.
func ConfigPath() (string, error) {
	return config.ConfigPath()
}
