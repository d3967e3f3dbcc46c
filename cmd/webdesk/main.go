// Package main implements webdesk, a desktop-style window manager that runs
// in the terminal or serves its window registry to a browser.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Gaurav-Gosain/webdesk/internal/theme"
)

// Version information (set via -ldflags at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
	builtBy = "unknown"
)

// Global flags
var (
	debugMode         bool
	logFile           string
	themeName         string
	listThemes        bool
	borderStyle       string
	dockbarPosition   string
	hideWindowButtons bool
	noAnimations      bool
	fps               int
)

var (
	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	warnColor    = color.New(color.FgYellow)
	infoColor    = color.New(color.FgCyan)
	keyColor     = color.New(color.FgYellow)
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "webdesk",
		Short: "Desktop-style window manager",
		Long: `webdesk - a desktop-style window manager

Runs a dock of sample apps whose windows can be opened, dragged, resized,
maximized, minimized to the dock and closed, in the terminal or in a
browser through the bridge server.`,
		Example: `  # Run the terminal desktop
  webdesk

  # Run with debug logging
  webdesk --debug --log-file /tmp/webdesk.log

  # Run with a specific theme
  webdesk --theme dracula

  # List all available themes
  webdesk --list-themes

  # Serve the window registry to a browser
  webdesk serve --addr :7777

  # Edit configuration
  webdesk config edit`,
		Version: version,
		RunE: func(_ *cobra.Command, _ []string) error {
			if listThemes {
				return printThemes()
			}
			return runLocal()
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to this file (default: from config or $XDG_STATE_HOME/webdesk/webdesk.log)")
	rootCmd.PersistentFlags().StringVar(&themeName, "theme", "", "Color theme to use (e.g., dracula, nord, tokyonight). Leave empty for the built-in palette")
	rootCmd.PersistentFlags().BoolVar(&listThemes, "list-themes", false, "List all available themes and exit")
	rootCmd.PersistentFlags().StringVar(&borderStyle, "border-style", "", "Window border style: rounded, normal, thick, double, hidden (default: from config or rounded)")
	rootCmd.PersistentFlags().StringVar(&dockbarPosition, "dockbar-position", "", "Dock position: bottom, top, hidden (default: from config or bottom)")
	rootCmd.PersistentFlags().BoolVar(&hideWindowButtons, "hide-window-buttons", false, "Hide window control buttons (close, minimize, fullscreen)")
	rootCmd.PersistentFlags().BoolVar(&noAnimations, "no-animations", false, "Disable transitions")
	rootCmd.PersistentFlags().IntVar(&fps, "fps", 0, "Frame rate (default: from config or 60, min: 10, max: 240)")

	var serveAddr string
	var serveOrigins []string

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the window registry to a browser",
		Long: `Serve the window registry over HTTP and WebSocket

The browser renders the windows and reports pointer gestures, its viewport
and transition completions back over /api/stream. REST endpoints under
/api/windows create windows and run lifecycle actions.`,
		Example: `  # Serve on the configured address
  webdesk serve

  # Serve on all interfaces, accepting one origin
  webdesk serve --addr 0.0.0.0:7777 --allow-origin http://localhost:5173`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), serveAddr, serveOrigins)
		},
	}
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default: from config or 127.0.0.1:7777)")
	serveCmd.Flags().StringSliceVar(&serveOrigins, "allow-origin", nil, "Allowed websocket origin (repeatable, default: any)")

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage webdesk configuration",
		Long:  `Manage the webdesk configuration file and settings`,
	}

	configPathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print configuration file path",
		Long:  `Print the path to the webdesk configuration file`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return printConfigPath()
		},
	}

	configEditCmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit configuration in $EDITOR",
		Long: `Open the webdesk configuration file in your default editor

The editor is determined by checking $EDITOR, $VISUAL, or common editors
like vim, vi and nano in that order.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return editConfigFile()
		},
	}

	var resetYes bool
	configResetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset configuration to defaults",
		Long: `Reset the webdesk configuration file to default settings

This will overwrite your existing configuration after confirmation.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return resetConfigToDefaults(cmd.InOrStdin(), resetYes)
		},
	}
	configResetCmd.Flags().BoolVarP(&resetYes, "yes", "y", false, "Skip the confirmation prompt")

	configCmd.AddCommand(configPathCmd, configEditCmd, configResetCmd)

	keybindsCmd := &cobra.Command{
		Use:     "keybinds",
		Aliases: []string{"keys", "kb"},
		Short:   "List keybindings",
		Long:    `Display the configured keybindings of the terminal desktop`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return listKeybindings()
		},
	}

	rootCmd.AddCommand(serveCmd, configCmd, keybindsCmd)

	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(fmt.Sprintf("%s\nCommit: %s\nBuilt: %s\nBy: %s", version, commit, date, builtBy)),
	); err != nil {
		os.Exit(1)
	}
}

func printThemes() error {
	names, err := theme.Names()
	if err != nil {
		return err
	}
	for _, name := range names {
		fmt.Println(name)
	}
	return nil
}
