package config

import (
	"fmt"
	"slices"
	"strings"
)

// ValidationIssue is one problem found in a config file.
type ValidationIssue struct {
	Field   string // section, e.g. "desktop"
	Key     string
	Message string
}

func (v ValidationIssue) String() string {
	return fmt.Sprintf("[%s] %s: %s", v.Field, v.Key, v.Message)
}

// ValidationResult collects errors, which stop startup, and warnings,
// which are logged.
type ValidationResult struct {
	Errors   []ValidationIssue
	Warnings []ValidationIssue
}

// HasErrors reports whether any errors were found.
func (r *ValidationResult) HasErrors() bool { return len(r.Errors) > 0 }

// HasWarnings reports whether any warnings were found.
func (r *ValidationResult) HasWarnings() bool { return len(r.Warnings) > 0 }

func (r *ValidationResult) errorf(field, key, format string, args ...any) {
	r.Errors = append(r.Errors, ValidationIssue{Field: field, Key: key, Message: fmt.Sprintf(format, args...)})
}

func (r *ValidationResult) warnf(field, key, format string, args ...any) {
	r.Warnings = append(r.Warnings, ValidationIssue{Field: field, Key: key, Message: fmt.Sprintf(format, args...)})
}

var (
	validBorderStyles  = []string{"rounded", "normal", "thick", "double", "hidden"}
	validDockPositions = []string{"bottom", "top", "hidden"}
	validLogLevels     = []string{"trace", "debug", "info", "warn", "warning", "error", "off", "disabled"}
)

// ValidateConfig checks a completed config.
func ValidateConfig(cfg *UserConfig) *ValidationResult {
	r := &ValidationResult{}

	d := cfg.Desktop
	if !slices.Contains(validBorderStyles, d.BorderStyle) {
		r.errorf("desktop", "border_style", "unknown style %q (want one of %s)", d.BorderStyle, strings.Join(validBorderStyles, ", "))
	}
	if !slices.Contains(validDockPositions, d.DockbarPosition) {
		r.errorf("desktop", "dockbar_position", "unknown position %q (want one of %s)", d.DockbarPosition, strings.Join(validDockPositions, ", "))
	}
	if d.AnimationMS < 0 || d.AnimationMS > int(MaxAnimationDuration.Milliseconds()) {
		r.errorf("desktop", "animation_ms", "%d out of range 0-%d", d.AnimationMS, MaxAnimationDuration.Milliseconds())
	}
	if d.FPS < MinFPS || d.FPS > MaxFPS {
		r.warnf("desktop", "fps", "%d out of range %d-%d, clamping", d.FPS, MinFPS, MaxFPS)
	}
	if d.BaseZ < 0 {
		r.errorf("desktop", "base_z", "must not be negative")
	}

	w := cfg.Window
	if w.MinWidth > w.DefaultWidth {
		r.warnf("window", "min_width", "%d exceeds default_width %d; new windows open at the minimum", w.MinWidth, w.DefaultWidth)
	}
	if w.MinHeight > w.DefaultHeight {
		r.warnf("window", "min_height", "%d exceeds default_height %d; new windows open at the minimum", w.MinHeight, w.DefaultHeight)
	}

	if !strings.Contains(cfg.Server.Addr, ":") {
		r.errorf("server", "addr", "%q is not a host:port address", cfg.Server.Addr)
	}

	if !slices.Contains(validLogLevels, strings.ToLower(cfg.Log.Level)) {
		r.warnf("log", "level", "unknown level %q, using info", cfg.Log.Level)
	}

	for action, keys := range cfg.Keybindings {
		if !slices.Contains(Actions(), action) {
			r.warnf("keybindings", action, "unknown action ignored")
			continue
		}
		if len(keys) == 0 {
			r.warnf("keybindings", action, "no keys bound")
		}
	}
	seen := map[string]string{}
	for _, action := range Actions() {
		for _, k := range cfg.Keybindings[action] {
			if other, dup := seen[k]; dup {
				r.errorf("keybindings", action, "key %q already bound to %s", k, other)
				continue
			}
			seen[k] = action
		}
	}

	return r
}
