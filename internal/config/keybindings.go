package config

import (
	"slices"
	"strings"
)

// Desktop actions that can be bound to keys.
const (
	ActionNewWindow        = "new_window"
	ActionCloseWindow      = "close_window"
	ActionMinimizeWindow   = "minimize_window"
	ActionRestoreWindow    = "restore_window"
	ActionToggleFullScreen = "toggle_fullscreen"
	ActionToggleMaximize   = "toggle_maximize"
	ActionNextWindow       = "next_window"
	ActionPrevWindow       = "prev_window"
	ActionSendMessage      = "send_message"
	ActionToggleHelp       = "toggle_help"
	ActionQuit             = "quit"
)

// Keybinding represents a single keybinding entry
type Keybinding struct {
	Action      string
	Keys        []string
	Description string
}

// KeybindingsConfig maps actions to the keys that trigger them.
type KeybindingsConfig map[string][]string

var keybindingHelp = []Keybinding{
	{ActionNewWindow, []string{"n"}, "Open the next app in a new window"},
	{ActionCloseWindow, []string{"x", "w"}, "Close focused window"},
	{ActionMinimizeWindow, []string{"m"}, "Minimize focused window to its dock tile"},
	{ActionRestoreWindow, []string{"r"}, "Restore a window that is still minimizing"},
	{ActionToggleFullScreen, []string{"f"}, "Toggle fullscreen"},
	{ActionToggleMaximize, []string{"z"}, "Toggle maximize"},
	{ActionNextWindow, []string{"tab"}, "Focus next window"},
	{ActionPrevWindow, []string{"shift+tab"}, "Focus previous window"},
	{ActionSendMessage, []string{"s"}, "Send a message to the next window"},
	{ActionToggleHelp, []string{"?"}, "Toggle help"},
	{ActionQuit, []string{"q", "ctrl+c"}, "Quit"},
}

// Actions lists every bindable action in display order.
func Actions() []string {
	out := make([]string, len(keybindingHelp))
	for i, kb := range keybindingHelp {
		out[i] = kb.Action
	}
	return out
}

// DefaultKeybindings returns the default action to keys map.
func DefaultKeybindings() KeybindingsConfig {
	m := make(KeybindingsConfig, len(keybindingHelp))
	for _, kb := range keybindingHelp {
		m[kb.Action] = slices.Clone(kb.Keys)
	}
	return m
}

// GetKeybindings returns the help entries with keys taken from cfg. A nil
// cfg yields the defaults.
func GetKeybindings(cfg KeybindingsConfig) []Keybinding {
	out := make([]Keybinding, 0, len(keybindingHelp))
	for _, kb := range keybindingHelp {
		if keys, ok := cfg[kb.Action]; ok {
			kb.Keys = keys
		}
		out = append(out, kb)
	}
	return out
}

// KeyMap resolves key presses to actions.
type KeyMap struct {
	byKey map[string]string
}

// NewKeyMap builds a KeyMap. Unknown actions are ignored.
func NewKeyMap(cfg KeybindingsConfig) *KeyMap {
	km := &KeyMap{byKey: make(map[string]string)}
	for _, kb := range GetKeybindings(cfg) {
		for _, k := range kb.Keys {
			km.byKey[normalizeKey(k)] = kb.Action
		}
	}
	return km
}

// Action returns the action bound to key.
func (km *KeyMap) Action(key string) (string, bool) {
	a, ok := km.byKey[normalizeKey(key)]
	return a, ok
}

// KeysFor returns the keys bound to action, joined for display.
func (km *KeyMap) KeysFor(action string) string {
	var keys []string
	for k, a := range km.byKey {
		if a == action {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	return strings.Join(keys, "/")
}

func normalizeKey(k string) string {
	k = strings.TrimSpace(k)
	// Single characters are case sensitive ("M" differs from "m").
	if len(k) == 1 {
		return k
	}
	return strings.ToLower(k)
}
