package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/Gaurav-Gosain/webdesk/internal/config"
)

func printConfigPath() error {
	path, err := config.ConfigPath()
	if err != nil {
		return err
	}
	fmt.Println(path)
	return nil
}

// findEditor returns the user's editor, trying $EDITOR, $VISUAL and then
// common editors on PATH.
func findEditor() (string, error) {
	for _, env := range []string{"EDITOR", "VISUAL"} {
		if editor := os.Getenv(env); editor != "" {
			return editor, nil
		}
	}
	for _, editor := range []string{"vim", "vi", "nano"} {
		if path, err := exec.LookPath(editor); err == nil {
			return path, nil
		}
	}
	return "", errors.New("no editor found: set $EDITOR")
}

func editConfigFile() error {
	// Creates the file with defaults on first run.
	if _, err := config.LoadUserConfig(); err != nil {
		warnColor.Fprintf(os.Stderr, "Warning: current config is invalid: %v\n", err)
	}
	path, err := config.ConfigPath()
	if err != nil {
		return err
	}
	editor, err := findEditor()
	if err != nil {
		return err
	}

	// #nosec G204 - the editor is chosen by the user
	cmd := exec.Command(editor, path)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to run editor: %w", err)
	}

	if _, err := config.LoadUserConfigFile(path); err != nil {
		errorColor.Fprintf(os.Stderr, "✗ %v\n", err)
		return err
	}
	successColor.Println("✓ Configuration is valid")
	return nil
}

func resetConfigToDefaults(in io.Reader, yes bool) error {
	path, err := config.ConfigPath()
	if err != nil {
		return err
	}
	if !yes {
		keyColor.Printf("This will overwrite %s. Continue? [y/N] ", path)
		answer, _ := bufio.NewReader(in).ReadString('\n')
		answer = strings.ToLower(strings.TrimSpace(answer))
		if answer != "y" && answer != "yes" {
			fmt.Println("Aborted")
			return nil
		}
	}

	path, err = config.ResetConfig()
	if err != nil {
		return err
	}
	successColor.Printf("✓ Configuration reset: %s\n", path)
	return nil
}

func listKeybindings() error {
	userConfig, err := config.LoadUserConfig()
	if err != nil {
		warnColor.Fprintf(os.Stderr, "Warning: failed to load config, showing defaults: %v\n", err)
		userConfig = config.DefaultConfig()
	}
	keys := config.NewKeyMap(userConfig.Keybindings)

	infoColor.Println("Keybindings")
	for _, kb := range config.GetKeybindings(nil) {
		bound := keys.KeysFor(kb.Action)
		if bound == "" {
			bound = "(unbound)"
		}
		keyColor.Printf("  %-14s", bound)
		fmt.Printf(" %-18s %s\n", kb.Action, kb.Description)
	}
	return nil
}
