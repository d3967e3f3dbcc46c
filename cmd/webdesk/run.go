package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "charm.land/bubbletea/v2"

	"github.com/Gaurav-Gosain/webdesk/internal/bridge"
	"github.com/Gaurav-Gosain/webdesk/internal/config"
	"github.com/Gaurav-Gosain/webdesk/internal/desktop"
	"github.com/Gaurav-Gosain/webdesk/internal/geom"
	"github.com/Gaurav-Gosain/webdesk/internal/logger"
	"github.com/Gaurav-Gosain/webdesk/pkg/webdesk"
)

// loadConfig loads the user config, falling back to defaults with a
// warning.
func loadConfig() *config.UserConfig {
	userConfig, err := config.LoadUserConfig()
	if err != nil {
		warnColor.Fprintf(os.Stderr, "Warning: failed to load config, using defaults: %v\n", err)
		return config.DefaultConfig()
	}
	return userConfig
}

func logLevel(userConfig *config.UserConfig) string {
	if debugMode {
		return "debug"
	}
	return userConfig.Log.Level
}

func applyFlags(userConfig *config.UserConfig) {
	config.ApplyOverrides(config.Overrides{
		BorderStyle:       borderStyle,
		DockbarPosition:   dockbarPosition,
		HideWindowButtons: hideWindowButtons,
		NoAnimations:      noAnimations,
		FPS:               fps,
		ThemeName:         themeName,
	}, userConfig)
}

func runLocal() error {
	userConfig := loadConfig()

	// The desktop owns the terminal, so logs always go to a file.
	path := logFile
	if path == "" {
		path = userConfig.Log.File
	}
	if path == "" {
		var err error
		if path, err = config.DefaultLogPath(); err != nil {
			return err
		}
	}
	if err := logger.SetOutputFile(path, logLevel(userConfig), userConfig.Log.Pretty); err != nil {
		return err
	}
	defer logger.CloseLogFile()

	applyFlags(userConfig)

	log := logger.WithComponent("desktop")
	if debugMode {
		configPath, _ := config.ConfigPath()
		log.Debug().Str("config", configPath).Str("log", path).Msg("starting")
	}

	model, err := desktop.New(desktop.Options{
		Window:      userConfig.Window,
		Keybindings: userConfig.Keybindings,
		BaseZ:       userConfig.Desktop.BaseZ,
		Logger:      log,
	})
	if err != nil {
		return fmt.Errorf("failed to create desktop: %w", err)
	}

	p := tea.NewProgram(
		model,
		tea.WithFPS(config.FPS),
		tea.WithoutSignalHandler(),
		tea.WithFilter(webdesk.FilterMouseMotion),
	)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		<-sigChan
		p.Send(tea.QuitMsg{})
	}()

	_, err = p.Run()
	model.Shutdown()
	if err != nil {
		return fmt.Errorf("program error: %w", err)
	}
	return nil
}

func runServe(ctx context.Context, addr string, origins []string) error {
	userConfig := loadConfig()

	if logFile != "" {
		if err := logger.SetOutputFile(logFile, logLevel(userConfig), userConfig.Log.Pretty); err != nil {
			return err
		}
		defer logger.CloseLogFile()
	} else {
		logger.Init(os.Stderr, logLevel(userConfig), true)
	}

	applyFlags(userConfig)

	server := userConfig.Server
	if addr == "" {
		addr = server.Addr
	}
	if len(origins) == 0 {
		origins = server.AllowOrigins
	}

	srv, err := bridge.New(bridge.Config{
		Addr: addr,
		Surface: geom.Size{
			Width:  float64(server.SurfaceWidth),
			Height: float64(server.SurfaceHeight),
		},
		AllowOrigins: origins,
		BaseZ:        userConfig.Desktop.BaseZ,
		FPS:          config.FPS,
		Logger:       logger.WithComponent("bridge"),
	})
	if err != nil {
		return fmt.Errorf("failed to create bridge: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	infoColor.Printf("Serving webdesk on http://%s\n", addr)
	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("bridge error: %w", err)
	}
	return nil
}
