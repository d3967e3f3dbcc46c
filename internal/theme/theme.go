// Package theme maps bubbletint color themes onto the desktop's chrome:
// window borders, title buttons and the dock.
package theme

import (
	"fmt"
	"image/color"

	"charm.land/lipgloss/v2"
	tint "github.com/lrstanley/bubbletint/v2"

	"github.com/Gaurav-Gosain/webdesk/internal/logger"
)

var enabled bool

// Initialize sets up the theme registry with the specified theme name.
// An empty name disables theming and the built-in palette is used.
// Unknown names fall back to bubbletint's default theme.
func Initialize(themeName string) error {
	if themeName == "" {
		enabled = false
		return nil
	}

	enabled = true
	tint.NewDefaultRegistry()

	if themesDir, err := GetThemesDir(); err == nil {
		if _, err := LoadCustomThemes(themesDir); err != nil {
			logger.WithComponent("theme").Warn().Err(err).Msg("error loading custom themes")
		}
	}

	if !tint.SetTintID(themeName) {
		logger.WithComponent("theme").Warn().Str("theme", themeName).Msg("unknown theme, using default")
		tint.SetTintID("default")
	}
	return nil
}

// Names returns every registered theme ID, including custom ones.
func Names() ([]string, error) {
	if err := Initialize("default"); err != nil {
		return nil, fmt.Errorf("failed to initialize themes: %w", err)
	}
	return tint.TintIDs(), nil
}

// IsEnabled returns true if theming is enabled
func IsEnabled() bool {
	return enabled
}

// Current returns the active theme, or nil when theming is disabled.
func Current() *tint.Tint {
	if !enabled {
		return nil
	}
	return tint.Current()
}

func pick(fallback string, fromTheme func(t *tint.Tint) color.Color) color.Color {
	if t := Current(); t != nil {
		return fromTheme(t)
	}
	return lipgloss.Color(fallback)
}

// DesktopBg is the color behind all windows.
func DesktopBg() color.Color {
	return pick("#1b1b29", func(t *tint.Tint) color.Color { return t.Bg })
}

// WindowBg is the background of a window body.
func WindowBg() color.Color {
	return pick("#262637", func(t *tint.Tint) color.Color { return t.Black })
}

// WindowFg is the text color inside a window.
func WindowFg() color.Color {
	return pick("#e5e5e5", func(t *tint.Tint) color.Color { return t.Fg })
}

// BorderFocused is the border of the focused window.
func BorderFocused() color.Color {
	return pick("#AFFFFF", func(t *tint.Tint) color.Color { return t.BrightCyan })
}

// BorderUnfocused is the border of every other window.
func BorderUnfocused() color.Color {
	return pick("#808090", func(t *tint.Tint) color.Color { return t.BrightBlack })
}

// ButtonClose is the close button.
func ButtonClose() color.Color {
	return pick("#ff5f57", func(t *tint.Tint) color.Color { return t.BrightRed })
}

// ButtonMinimize is the minimize button.
func ButtonMinimize() color.Color {
	return pick("#febc2e", func(t *tint.Tint) color.Color { return t.BrightYellow })
}

// ButtonFullScreen is the fullscreen button.
func ButtonFullScreen() color.Color {
	return pick("#28c840", func(t *tint.Tint) color.Color { return t.BrightGreen })
}

// ButtonDisabled is used for controls the window cannot perform.
func ButtonDisabled() color.Color {
	return lipgloss.Color("#4a4a58")
}

// DockBg returns the background color for the dock.
func DockBg() color.Color {
	return lipgloss.Color("#2a2a3e")
}

// DockFg returns the foreground color for the dock.
func DockFg() color.Color {
	return lipgloss.Color("#a0a0a8")
}

// DockHighlight marks the app whose window is open.
func DockHighlight() color.Color {
	return pick("#00ff00", func(t *tint.Tint) color.Color { return t.BrightGreen })
}

// DockDimmed returns the dimmed color for the dock.
func DockDimmed() color.Color {
	return lipgloss.Color("#808090")
}

// MessageFg colors received messages inside windows.
func MessageFg() color.Color {
	return pick("#89b4fa", func(t *tint.Tint) color.Color { return t.BrightBlue })
}

// ColorToString converts a color.Color to a hex string
func ColorToString(c color.Color) string {
	if c == nil {
		return "#000000"
	}
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", uint8(r>>8), uint8(g>>8), uint8(b>>8))
}
