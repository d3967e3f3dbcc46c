package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/pelletier/go-toml/v2"

	"github.com/Gaurav-Gosain/webdesk/internal/logger"
)

// ConfigFileName is the config path relative to the XDG config home.
const ConfigFileName = "webdesk/config.toml"

// UserConfig represents the user's custom configuration
type UserConfig struct {
	Desktop     DesktopConfig     `toml:"desktop"`
	Window      WindowConfig      `toml:"window"`
	Server      ServerConfig      `toml:"server"`
	Log         LogConfig         `toml:"log"`
	Keybindings KeybindingsConfig `toml:"keybindings"`
}

// DesktopConfig holds appearance and behavior of the terminal desktop
type DesktopConfig struct {
	Theme             string `toml:"theme"`               // Color theme name (e.g., dracula, nord, my-custom-theme)
	BorderStyle       string `toml:"border_style"`        // Border style: rounded, normal, thick, double, hidden
	DockbarPosition   string `toml:"dockbar_position"`    // Dockbar position: bottom, top, hidden
	HideWindowButtons bool   `toml:"hide_window_buttons"` // Hide close/minimize/fullscreen buttons
	AnimationsEnabled *bool  `toml:"animations_enabled"`  // Enable transitions (default: true)
	AnimationMS       int    `toml:"animation_ms"`        // Close/minimize transition duration in ms (default: 300)
	FPS               int    `toml:"fps"`                 // Frame rate (default: 60, range 10-240)
	BaseZ             int    `toml:"base_z"`              // Stacking order of never-focused windows (default: 1000)
}

// WindowConfig holds default window geometry on the terminal desktop, in cells
type WindowConfig struct {
	DefaultWidth  int `toml:"default_width"`
	DefaultHeight int `toml:"default_height"`
	MinWidth      int `toml:"min_width"`
	MinHeight     int `toml:"min_height"`
}

// ServerConfig holds browser bridge settings, in pixels
type ServerConfig struct {
	Addr          string   `toml:"addr"`           // Listen address (default: 127.0.0.1:7777)
	SurfaceWidth  int      `toml:"surface_width"`  // Surface width until the browser reports its viewport
	SurfaceHeight int      `toml:"surface_height"` // Surface height until the browser reports its viewport
	AllowOrigins  []string `toml:"allow_origins"`  // Allowed websocket origins; empty allows any
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string `toml:"level"`  // trace, debug, info, warn, error, off (default: info)
	File   string `toml:"file"`   // Log file; empty means $XDG_STATE_HOME/webdesk/webdesk.log
	Pretty bool   `toml:"pretty"` // Human-readable console format
}

// DefaultConfig returns the default configuration
func DefaultConfig() *UserConfig {
	return &UserConfig{
		Desktop: DesktopConfig{
			BorderStyle:     "rounded",
			DockbarPosition: "bottom",
			AnimationMS:     int(DefaultAnimationDuration.Milliseconds()),
			FPS:             NormalFPS,
			BaseZ:           DefaultBaseZ,
		},
		Window: WindowConfig{
			DefaultWidth:  DefaultWindowWidth,
			DefaultHeight: DefaultWindowHeight,
			MinWidth:      MinWindowWidth,
			MinHeight:     MinWindowHeight,
		},
		Server: ServerConfig{
			Addr:          DefaultServerAddr,
			SurfaceWidth:  DefaultSurfaceWidth,
			SurfaceHeight: DefaultSurfaceHeight,
		},
		Log: LogConfig{
			Level: "info",
		},
		Keybindings: DefaultKeybindings(),
	}
}

// ConfigPath returns the config file path, whether or not it exists yet.
func ConfigPath() (string, error) {
	if path, err := xdg.SearchConfigFile(ConfigFileName); err == nil {
		return path, nil
	}
	path, err := xdg.ConfigFile(ConfigFileName)
	if err != nil {
		return "", fmt.Errorf("failed to get config path: %w", err)
	}
	return path, nil
}

// DefaultLogPath returns the log file used when [log] file is empty.
func DefaultLogPath() (string, error) {
	path, err := xdg.StateFile("webdesk/webdesk.log")
	if err != nil {
		return "", fmt.Errorf("failed to get log path: %w", err)
	}
	return path, nil
}

// LoadUserConfig loads the user configuration from the XDG config
// directory, creating a default file on first run.
func LoadUserConfig() (*UserConfig, error) {
	configPath, err := xdg.SearchConfigFile(ConfigFileName)
	if err != nil {
		path, err := xdg.ConfigFile(ConfigFileName)
		if err != nil {
			return nil, fmt.Errorf("failed to get config path: %w", err)
		}
		return WriteDefaultConfig(path)
	}
	return LoadUserConfigFile(configPath)
}

// LoadUserConfigFile reads, completes and validates the config at path.
func LoadUserConfigFile(path string) (*UserConfig, error) {
	// #nosec G304 - reading the user's own config is intentional
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg UserConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	defaultCfg := DefaultConfig()
	fillMissingDesktop(&cfg, defaultCfg)
	fillMissingWindow(&cfg, defaultCfg)
	fillMissingServer(&cfg, defaultCfg)
	fillMissingLog(&cfg, defaultCfg)
	fillMissingKeybinds(&cfg, defaultCfg)

	validation := ValidateConfig(&cfg)
	if validation.HasErrors() {
		var msgs []string
		for _, e := range validation.Errors {
			msgs = append(msgs, e.String())
		}
		return nil, fmt.Errorf("configuration has %d error(s): %s", len(validation.Errors), strings.Join(msgs, "; "))
	}
	for _, warn := range validation.Warnings {
		logger.WithComponent("config").Warn().
			Str("section", warn.Field).
			Str("key", warn.Key).
			Msg(warn.Message)
	}

	return &cfg, nil
}

// WriteDefaultConfig writes the default configuration to path with a
// commented header and returns it.
func WriteDefaultConfig(path string) (*UserConfig, error) {
	cfg := DefaultConfig()

	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("# webdesk configuration file\n")
	sb.WriteString("#\n")
	sb.WriteString("# Configuration location: " + path + "\n")
	sb.WriteString("# Reset with: webdesk config reset\n\n")

	sb.WriteString("# ============================================================================\n")
	sb.WriteString("# [desktop]\n")
	sb.WriteString("# theme: Color theme name. Leave empty for the built-in palette.\n")
	sb.WriteString("#   CLI flag --theme overrides this. Custom themes: ~/.config/webdesk/themes/*.json\n")
	sb.WriteString("# border_style: rounded, normal, thick, double, hidden (default: rounded)\n")
	sb.WriteString("# dockbar_position: bottom, top, hidden (default: bottom)\n")
	sb.WriteString("# animations_enabled: true, false (default: true)\n")
	sb.WriteString("# animation_ms: close and minimize duration in ms, up to 5000 (default: 300)\n")
	sb.WriteString("# fps: 10 to 240 (default: 60)\n")
	sb.WriteString("#\n")
	sb.WriteString("# [window]: terminal desktop window sizes, in cells\n")
	sb.WriteString("# [server]: `webdesk serve` listen address and default surface, in pixels\n")
	sb.WriteString("# [log]: level (trace, debug, info, warn, error, off), file, pretty\n")
	sb.WriteString("# [keybindings]: action = [keys]. Run `webdesk keybinds` to list actions.\n")
	sb.WriteString("# ============================================================================\n\n")
	sb.Write(data)

	if err := os.WriteFile(path, []byte(sb.String()), 0600); err != nil {
		return nil, fmt.Errorf("failed to write config file: %w", err)
	}
	return cfg, nil
}

// ResetConfig overwrites the config file with defaults.
func ResetConfig() (string, error) {
	path, err := ConfigPath()
	if err != nil {
		return "", err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("failed to remove config file: %w", err)
	}
	if _, err := WriteDefaultConfig(path); err != nil {
		return "", err
	}
	return path, nil
}

func fillMissingDesktop(cfg, defaultCfg *UserConfig) {
	d, def := &cfg.Desktop, defaultCfg.Desktop
	if d.BorderStyle == "" {
		d.BorderStyle = def.BorderStyle
	}
	if d.DockbarPosition == "" {
		d.DockbarPosition = def.DockbarPosition
	}
	if d.AnimationMS == 0 {
		d.AnimationMS = def.AnimationMS
	}
	if d.FPS == 0 {
		d.FPS = def.FPS
	}
	if d.BaseZ == 0 {
		d.BaseZ = def.BaseZ
	}
}

func fillMissingWindow(cfg, defaultCfg *UserConfig) {
	w, def := &cfg.Window, defaultCfg.Window
	if w.DefaultWidth <= 0 {
		w.DefaultWidth = def.DefaultWidth
	}
	if w.DefaultHeight <= 0 {
		w.DefaultHeight = def.DefaultHeight
	}
	if w.MinWidth <= 0 {
		w.MinWidth = def.MinWidth
	}
	if w.MinHeight <= 0 {
		w.MinHeight = def.MinHeight
	}
}

func fillMissingServer(cfg, defaultCfg *UserConfig) {
	s, def := &cfg.Server, defaultCfg.Server
	if s.Addr == "" {
		s.Addr = def.Addr
	}
	if s.SurfaceWidth <= 0 {
		s.SurfaceWidth = def.SurfaceWidth
	}
	if s.SurfaceHeight <= 0 {
		s.SurfaceHeight = def.SurfaceHeight
	}
}

func fillMissingLog(cfg, defaultCfg *UserConfig) {
	if cfg.Log.Level == "" {
		cfg.Log.Level = defaultCfg.Log.Level
	}
}

func fillMissingKeybinds(cfg, defaultCfg *UserConfig) {
	if cfg.Keybindings == nil {
		cfg.Keybindings = KeybindingsConfig{}
	}
	for action, keys := range defaultCfg.Keybindings {
		if _, ok := cfg.Keybindings[action]; !ok {
			cfg.Keybindings[action] = keys
		}
	}
}
