package config

import (
	"time"

	"github.com/Gaurav-Gosain/webdesk/internal/logger"
	"github.com/Gaurav-Gosain/webdesk/internal/theme"
)

// Overrides contains CLI flag values that can override user config.
// Zero values indicate the flag was not set and should use the user config default.
type Overrides struct {
	// BorderStyle overrides the window border style
	BorderStyle string

	// DockbarPosition overrides the dockbar position
	DockbarPosition string

	// HideWindowButtons overrides hiding window control buttons
	HideWindowButtons bool

	// NoAnimations disables transitions
	NoAnimations bool

	// FPS overrides the frame rate (0 means use config)
	FPS int

	// ThemeName is the theme to load
	ThemeName string
}

// ApplyOverrides applies CLI flag overrides to the runtime settings,
// falling back to user config values. userConfig may be nil.
func ApplyOverrides(overrides Overrides, userConfig *UserConfig) {
	var desk DesktopConfig
	if userConfig != nil {
		desk = userConfig.Desktop
	}

	if overrides.BorderStyle != "" {
		BorderStyle = overrides.BorderStyle
	} else if desk.BorderStyle != "" {
		BorderStyle = desk.BorderStyle
	}

	if overrides.DockbarPosition != "" {
		DockbarPosition = overrides.DockbarPosition
	} else if desk.DockbarPosition != "" {
		DockbarPosition = desk.DockbarPosition
	}

	HideWindowButtons = overrides.HideWindowButtons || desk.HideWindowButtons

	// nil means use default
	if desk.AnimationsEnabled != nil {
		AnimationsEnabled = *desk.AnimationsEnabled
	}
	if overrides.NoAnimations {
		AnimationsEnabled = false
	}
	if desk.AnimationMS > 0 {
		AnimationDuration = time.Duration(desk.AnimationMS) * time.Millisecond
	}

	fps := overrides.FPS
	if fps == 0 {
		fps = desk.FPS
	}
	if fps != 0 {
		FPS = min(max(fps, MinFPS), MaxFPS)
	}

	themeName := overrides.ThemeName
	if themeName == "" {
		themeName = desk.Theme
	}
	if themeName != "" {
		if err := theme.Initialize(themeName); err != nil {
			logger.WithComponent("config").Warn().Err(err).Str("theme", themeName).Msg("failed to load theme")
		}
	}
}
