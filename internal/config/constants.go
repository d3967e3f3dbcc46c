// Package config provides configuration constants, keybindings and user
// settings for the desktop and the browser bridge.
package config

import (
	"time"

	"charm.land/lipgloss/v2"
)

// =============================================================================
// Window Defaults (terminal desktop, in cells)
// =============================================================================

const (
	// DefaultWindowWidth is the width of new windows on the terminal desktop
	DefaultWindowWidth = 48

	// DefaultWindowHeight is the height of new windows on the terminal desktop
	DefaultWindowHeight = 14

	// MinWindowWidth is the minimum width a window can be resized to
	MinWindowWidth = 24

	// MinWindowHeight is the minimum height a window can be resized to
	MinWindowHeight = 7

	// WindowCascadeStep offsets each new window from the previous one
	WindowCascadeStep = 3
)

// =============================================================================
// Registry
// =============================================================================

const (
	// DefaultBaseZ is the stacking order of windows that were never focused
	DefaultBaseZ = 1000
)

// =============================================================================
// Animation Durations
// =============================================================================

const (
	// DefaultAnimationDuration is the duration of close and minimize transitions
	DefaultAnimationDuration = 300 * time.Millisecond

	// FastAnimationDuration is the duration of maximize and fullscreen transitions
	FastAnimationDuration = 200 * time.Millisecond

	// MaxAnimationDuration bounds the configurable animation duration
	MaxAnimationDuration = 5 * time.Second

	// DoubleClickInterval is the longest gap between two clicks on a title bar
	// that still counts as a double click
	DoubleClickInterval = 400 * time.Millisecond
)

// =============================================================================
// FPS and Refresh Rates
// =============================================================================

const (
	// NormalFPS is the refresh rate of the desktop and the bridge loop
	NormalFPS = 60

	// MinFPS and MaxFPS bound the configurable frame rate
	MinFPS = 10
	MaxFPS = 240
)

// =============================================================================
// UI Layout Dimensions
// =============================================================================

const (
	// DockHeight is the height of the dock area
	DockHeight = 3

	// DockItemWidth is the width of a dock tile including padding
	DockItemWidth = 12

	// TitleBarHeight is the height of a window title bar inside the border
	TitleBarHeight = 1

	// MaxMessagesShown is how many received messages a window lists
	MaxMessagesShown = 5
)

// =============================================================================
// Browser Bridge Defaults (in pixels)
// =============================================================================

const (
	// DefaultServerAddr is the listen address of `webdesk serve`
	DefaultServerAddr = "127.0.0.1:7777"

	// DefaultSurfaceWidth and DefaultSurfaceHeight size the browser surface
	// until the client reports its viewport
	DefaultSurfaceWidth  = 1280
	DefaultSurfaceHeight = 800

	// ServerWriteTimeout bounds a single websocket write
	ServerWriteTimeout = 10 * time.Second

	// ServerShutdownTimeout bounds graceful shutdown
	ServerShutdownTimeout = 5 * time.Second
)

// =============================================================================
// Runtime settings (set from user config and CLI flags)
// =============================================================================

var (
	// AnimationsEnabled turns close/minimize/maximize transitions on or off
	AnimationsEnabled = true

	// AnimationDuration is the close and minimize transition duration
	AnimationDuration = DefaultAnimationDuration

	// DockbarPosition is where the dock is drawn: bottom, top or hidden
	DockbarPosition = "bottom"

	// BorderStyle is the lipgloss border used for windows
	BorderStyle = "rounded"

	// HideWindowButtons hides the close/minimize/fullscreen buttons
	HideWindowButtons = false

	// FPS is the desktop frame rate
	FPS = NormalFPS
)

// GetBorderForStyle returns the lipgloss border for the configured style.
func GetBorderForStyle() lipgloss.Border {
	switch BorderStyle {
	case "normal":
		return lipgloss.NormalBorder()
	case "thick":
		return lipgloss.ThickBorder()
	case "double":
		return lipgloss.DoubleBorder()
	case "hidden":
		return lipgloss.HiddenBorder()
	case "rounded":
		fallthrough
	default:
		return lipgloss.RoundedBorder()
	}
}
