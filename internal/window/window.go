// Package window implements the lifecycle and geometry state machine of a
// single desktop window. A Window never grants itself focus or stacking
// order; it asks its Host, which is normally a per-window registry context.
package window

import (
	"github.com/rs/zerolog"

	"github.com/Gaurav-Gosain/webdesk/internal/geom"
)

// Defaults applied to zero-valued Options fields.
const (
	DefaultWidth     = 600
	DefaultHeight    = 400
	DefaultMinWidth  = 300
	DefaultMinHeight = 200
	DefaultZIndex    = 1000
)

// Options configures a window. Zero values take the package defaults.
type Options struct {
	Title   string
	Content any

	DefaultWidth    float64
	DefaultHeight   float64
	DefaultPosition geom.Point
	MinWidth        float64
	MinHeight       float64

	// ZIndex overrides the registry's stacking order when set.
	ZIndex *int
	// Resizable defaults to true when nil.
	Resizable *bool

	// OnClose fires when a close is requested. Supplying it or OnClosed
	// enables the close control.
	OnClose func()
	// OnClosed fires once the close transition completes.
	OnClosed func()
	// OnMinimize fires when a minimize is requested and may return the
	// element to animate toward. Supplying it or OnMinimized enables the
	// minimize control.
	OnMinimize func() Element
	// OnMinimized fires once the minimize transition completes.
	OnMinimized func()
	// OnFullScreenChange fires on every fullscreen toggle.
	OnFullScreenChange func(bool)
	// OnMessage receives messages addressed to the window. The registry
	// subscribes it at registration time.
	OnMessage func(Message)
}

// WithDefaults returns a copy of o with zero-valued sizes filled in.
func (o Options) WithDefaults() Options {
	if o.DefaultWidth <= 0 {
		o.DefaultWidth = DefaultWidth
	}
	if o.DefaultHeight <= 0 {
		o.DefaultHeight = DefaultHeight
	}
	if o.MinWidth <= 0 {
		o.MinWidth = DefaultMinWidth
	}
	if o.MinHeight <= 0 {
		o.MinHeight = DefaultMinHeight
	}
	return o
}

// Bool returns a pointer to b, for the optional Options fields.
func Bool(b bool) *bool { return &b }

// Int returns a pointer to i, for the optional Options fields.
func Int(i int) *int { return &i }

// Env is what a window needs from the world around it. Host may be nil, in
// which case the window runs headless.
type Env struct {
	Host      Host
	Scheduler Scheduler
	Surface   Surface
	Logger    *zerolog.Logger
}

// Window is the per-window state machine.
type Window struct {
	id   ID
	opts Options

	host  Host
	sched Scheduler
	surf  Surface
	log   zerolog.Logger

	visibility Visibility
	kind       CloseKind
	committing bool // inside OnClose or OnMinimize
	maximized  bool
	fullscreen bool

	natural  geom.Rect
	prior    geom.Rect
	hasPrior bool

	transitioning bool
	manipulating  bool
	anchor        geom.DragAnchor
	vector        geom.Vector

	mounted  bool
	finished bool
}

// New builds a window in the Opening phase. It returns a
// *ConfigurationError when the environment is incomplete.
func New(id ID, opts Options, env Env) (*Window, error) {
	if id == "" {
		return nil, &ConfigurationError{Op: "window.New", Err: ErrNoIdentity}
	}
	if env.Scheduler == nil {
		return nil, &ConfigurationError{Op: "window.New", Err: ErrNoScheduler}
	}
	if env.Surface == nil {
		return nil, &ConfigurationError{Op: "window.New", Err: ErrNoSurface}
	}

	host := env.Host
	if host == nil {
		host = headless{}
	}
	log := zerolog.Nop()
	if env.Logger != nil {
		log = env.Logger.With().Str("window", string(id)).Logger()
	}

	opts = opts.WithDefaults()
	natural := geom.Clamp(geom.NewRect(opts.DefaultPosition, geom.Size{
		Width:  opts.DefaultWidth,
		Height: opts.DefaultHeight,
	}), opts.MinWidth, opts.MinHeight)

	return &Window{
		id:      id,
		opts:    opts,
		host:    host,
		sched:   env.Scheduler,
		surf:    env.Surface,
		log:     log,
		natural: natural,
	}, nil
}

// ID returns the window's identity.
func (w *Window) ID() ID { return w.id }

// Title returns the window title.
func (w *Window) Title() string { return w.opts.Title }

// Content returns the opaque content supplied at creation.
func (w *Window) Content() any { return w.opts.Content }

// Options returns the options the window was built with, defaults applied.
func (w *Window) Options() Options { return w.opts }

// Visibility returns the lifecycle phase.
func (w *Window) Visibility() Visibility { return w.visibility }

// Kind returns the close path taken, if any.
func (w *Window) Kind() CloseKind { return w.kind }

// Layout returns the effective layout. Fullscreen wins over maximized.
func (w *Window) Layout() LayoutMode {
	switch {
	case w.fullscreen:
		return Fullscreen
	case w.maximized:
		return Maximized
	default:
		return Normal
	}
}

// IsMaximized reports the maximize flag, independent of fullscreen.
func (w *Window) IsMaximized() bool { return w.maximized }

// IsFullScreen reports the fullscreen flag.
func (w *Window) IsFullScreen() bool { return w.fullscreen }

// Geometry returns the rectangle the window occupies on the surface.
func (w *Window) Geometry() geom.Rect {
	if w.fullscreen || w.maximized {
		return geom.Bounds(w.surf.Size())
	}
	return w.natural
}

// NaturalGeometry returns the window's own rectangle, ignoring layout.
func (w *Window) NaturalGeometry() geom.Rect { return w.natural }

// PriorGeometry returns the snapshot taken before the last maximize or
// fullscreen, if any.
func (w *Window) PriorGeometry() (geom.Rect, bool) { return w.prior, w.hasPrior }

// MinimizeVector returns the displacement computed by the last minimize.
func (w *Window) MinimizeVector() geom.Vector { return w.vector }

// IsFocused asks the host. Headless windows are always focused.
func (w *Window) IsFocused() bool { return w.host.IsFocused() }

// ZIndex returns the explicit z-index if one was supplied, otherwise the
// registry's order for this window.
func (w *Window) ZIndex() int {
	if w.opts.ZIndex != nil {
		return *w.opts.ZIndex
	}
	return w.host.ZOrder(DefaultZIndex)
}

// Transitioning reports whether a layout transition is running.
func (w *Window) Transitioning() bool { return w.transitioning }

// Manipulating reports whether a drag or resize gesture is in progress.
func (w *Window) Manipulating() bool { return w.manipulating }

// Resizable reports the resizable option.
func (w *Window) Resizable() bool {
	return w.opts.Resizable == nil || *w.opts.Resizable
}

// CanClose reports whether the close control is enabled.
func (w *Window) CanClose() bool {
	return w.opts.OnClose != nil || w.opts.OnClosed != nil
}

// CanMinimize reports whether the minimize control is enabled.
func (w *Window) CanMinimize() bool {
	return w.opts.OnMinimize != nil || w.opts.OnMinimized != nil
}

// CanFullScreen reports whether the fullscreen control is enabled.
func (w *Window) CanFullScreen() bool { return w.Resizable() }

// CanMaximize reports whether header double-activation would toggle maximize.
func (w *Window) CanMaximize() bool { return w.Resizable() && !w.fullscreen }

// CanResize reports whether resize gestures are accepted.
func (w *Window) CanResize() bool {
	return w.Resizable() && !w.maximized && !w.fullscreen
}

// CanDrag reports whether drag gestures are accepted.
func (w *Window) CanDrag() bool { return !w.fullscreen }

// Snapshot is a serializable view of a window.
type Snapshot struct {
	ID             ID          `json:"id"`
	Title          string      `json:"title"`
	Visibility     Visibility  `json:"visibility"`
	Layout         LayoutMode  `json:"layout"`
	Kind           CloseKind   `json:"close_kind"`
	Geometry       geom.Rect   `json:"geometry"`
	Natural        geom.Rect   `json:"natural"`
	MinimizeVector geom.Vector `json:"minimize_vector"`
	ZIndex         int         `json:"z_index"`
	Focused        bool        `json:"focused"`
	Transitioning  bool        `json:"transitioning"`
	Manipulating   bool        `json:"manipulating"`
	CanClose       bool        `json:"can_close"`
	CanMinimize    bool        `json:"can_minimize"`
	CanFullScreen  bool        `json:"can_fullscreen"`
	CanMaximize    bool        `json:"can_maximize"`
	CanResize      bool        `json:"can_resize"`
}

// Snapshot captures the window's current state.
func (w *Window) Snapshot() Snapshot {
	return Snapshot{
		ID:             w.id,
		Title:          w.opts.Title,
		Visibility:     w.visibility,
		Layout:         w.Layout(),
		Kind:           w.kind,
		Geometry:       w.Geometry(),
		Natural:        w.natural,
		MinimizeVector: w.vector,
		ZIndex:         w.ZIndex(),
		Focused:        w.IsFocused(),
		Transitioning:  w.transitioning,
		Manipulating:   w.manipulating,
		CanClose:       w.CanClose(),
		CanMinimize:    w.CanMinimize(),
		CanFullScreen:  w.CanFullScreen(),
		CanMaximize:    w.CanMaximize(),
		CanResize:      w.CanResize(),
	}
}
