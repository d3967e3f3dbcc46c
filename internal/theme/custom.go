package theme

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	tint "github.com/lrstanley/bubbletint/v2"

	"github.com/Gaurav-Gosain/webdesk/internal/logger"
)

// GetThemesDir returns the custom themes directory (~/.config/webdesk/themes/),
// creating it if needed.
func GetThemesDir() (string, error) {
	keepFile, err := xdg.ConfigFile("webdesk/themes/.keep")
	if err != nil {
		return "", fmt.Errorf("failed to get themes directory: %w", err)
	}
	return filepath.Dir(keepFile), nil
}

// LoadCustomThemes registers every *.json theme in themesDir with
// bubbletint and returns the IDs that loaded. Bad files are skipped.
func LoadCustomThemes(themesDir string) ([]string, error) {
	entries, err := os.ReadDir(themesDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read themes directory: %w", err)
	}

	var loaded []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".json") {
			continue
		}
		t, err := LoadCustomThemeFile(filepath.Join(themesDir, entry.Name()))
		if err != nil {
			logger.WithComponent("theme").Warn().Err(err).Str("file", entry.Name()).Msg("skipping custom theme")
			continue
		}
		tint.Register(t)
		loaded = append(loaded, t.ID)
	}
	return loaded, nil
}

// LoadCustomThemeFile parses a bubbletint JSON theme. The ID defaults to
// the lowercased file name and missing colors are filled in.
func LoadCustomThemeFile(path string) (*tint.Tint, error) {
	// #nosec G304 - path is from the user's config directory
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read theme file: %w", err)
	}

	var t tint.Tint
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse theme JSON: %w", err)
	}

	if t.ID == "" {
		base := filepath.Base(path)
		t.ID = strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base)))
	}
	if t.ID == "" {
		return nil, fmt.Errorf("theme has no ID")
	}
	if t.DisplayName == "" {
		t.DisplayName = t.ID
	}

	fillDefaults(&t)
	return &t, nil
}

// fillDefaults fills nil colors. Base colors get the built-in desktop
// palette; bright variants copy their base color.
func fillDefaults(t *tint.Tint) {
	base := []struct {
		c   **tint.Color
		hex string
	}{
		{&t.Fg, "#e5e5e5"},
		{&t.Bg, "#1b1b29"},
		{&t.Black, "#262637"},
		{&t.Red, "#ff5f57"},
		{&t.Green, "#28c840"},
		{&t.Yellow, "#febc2e"},
		{&t.Blue, "#89b4fa"},
		{&t.Purple, "#cba6f7"},
		{&t.Cyan, "#94e2d5"},
		{&t.White, "#e5e5e5"},
	}
	for _, b := range base {
		if *b.c == nil {
			*b.c = tint.FromHex(b.hex)
		}
	}

	if t.Cursor == nil {
		t.Cursor = copyColor(t.Fg)
	}

	bright := []struct {
		c    **tint.Color
		from *tint.Color
	}{
		{&t.BrightBlack, t.Black},
		{&t.BrightRed, t.Red},
		{&t.BrightGreen, t.Green},
		{&t.BrightYellow, t.Yellow},
		{&t.BrightBlue, t.Blue},
		{&t.BrightPurple, t.Purple},
		{&t.BrightCyan, t.Cyan},
		{&t.BrightWhite, t.White},
	}
	for _, b := range bright {
		if *b.c == nil {
			*b.c = copyColor(b.from)
		}
	}
}

func copyColor(c *tint.Color) *tint.Color {
	if c == nil {
		return nil
	}
	dup := *c
	return &dup
}
