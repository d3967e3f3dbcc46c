package window

import "fmt"

// Visibility is the lifecycle phase of a window.
type Visibility int

const (
	// Opening is the phase between construction and the first frame.
	Opening Visibility = iota
	// Visible is the steady interactive phase.
	Visible
	// ClosingForClose is waiting for the close transition to complete.
	ClosingForClose
	// ClosingForMinimize is waiting for the minimize transition to complete.
	ClosingForMinimize
	// Terminal means the window is done and its record is released.
	Terminal
)

var visibilityNames = [...]string{"opening", "visible", "closing", "minimizing", "terminal"}

func (v Visibility) String() string {
	if v < 0 || int(v) >= len(visibilityNames) {
		return "unknown"
	}
	return visibilityNames[v]
}

// MarshalText encodes the phase by name.
func (v Visibility) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText decodes a phase name written by MarshalText.
func (v *Visibility) UnmarshalText(text []byte) error {
	i, err := lookupName(visibilityNames[:], string(text), "visibility")
	if err != nil {
		return err
	}
	*v = Visibility(i)
	return nil
}

// Closing reports whether a close or minimize is in flight.
func (v Visibility) Closing() bool {
	return v == ClosingForClose || v == ClosingForMinimize
}

// LayoutMode is how a window occupies the surface.
type LayoutMode int

const (
	// Normal windows use their own geometry.
	Normal LayoutMode = iota
	// Maximized windows cover the surface.
	Maximized
	// Fullscreen windows cover the surface with the header hidden.
	Fullscreen
)

var layoutNames = [...]string{"normal", "maximized", "fullscreen"}

func (m LayoutMode) String() string {
	if m < 0 || int(m) >= len(layoutNames) {
		return "unknown"
	}
	return layoutNames[m]
}

// MarshalText encodes the layout by name.
func (m LayoutMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText decodes a layout name written by MarshalText.
func (m *LayoutMode) UnmarshalText(text []byte) error {
	i, err := lookupName(layoutNames[:], string(text), "layout mode")
	if err != nil {
		return err
	}
	*m = LayoutMode(i)
	return nil
}

// CloseKind records which close path a window took.
type CloseKind int

const (
	// NotClosing is the zero kind.
	NotClosing CloseKind = iota
	// CloseKindClose is the close path.
	CloseKindClose
	// CloseKindMinimize is the minimize path.
	CloseKindMinimize
)

func (k CloseKind) String() string {
	switch k {
	case CloseKindClose:
		return "close"
	case CloseKindMinimize:
		return "minimize"
	default:
		return "none"
	}
}

// MarshalText encodes the kind by name.
func (k CloseKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name written by MarshalText.
func (k *CloseKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "none":
		*k = NotClosing
	case "close":
		*k = CloseKindClose
	case "minimize":
		*k = CloseKindMinimize
	default:
		return fmt.Errorf("unknown close kind %q", text)
	}
	return nil
}

func lookupName(names []string, name, what string) (int, error) {
	for i, n := range names {
		if n == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown %s %q", what, name)
}
