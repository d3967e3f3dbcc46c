package bridge

import (
	"errors"
	"fmt"

	"github.com/Gaurav-Gosain/webdesk/internal/geom"
	"github.com/Gaurav-Gosain/webdesk/internal/window"
	"github.com/Gaurav-Gosain/webdesk/internal/wm"
)

// Server to client message types.
const (
	typeSnapshot  = "snapshot"
	typeEvent     = "event"
	typeLifecycle = "lifecycle"
	typeError     = "error"
)

type snapshotMessage struct {
	Type    string            `json:"type"`
	Surface geom.Size         `json:"surface"`
	Focused window.ID         `json:"focused,omitempty"`
	Windows []window.Snapshot `json:"windows"`
}

type eventMessage struct {
	Type  string   `json:"type"`
	Event wm.Event `json:"event"`
}

type lifecycleMessage struct {
	Type       string    `json:"type"`
	ID         window.ID `json:"id"`
	Name       string    `json:"name"`
	FullScreen *bool     `json:"fullscreen,omitempty"`
}

type errorMessage struct {
	Type  string `json:"type"`
	Op    string `json:"op,omitempty"`
	Error string `json:"error"`
}

// Command is a client to server instruction on the stream.
type Command struct {
	Op       string      `json:"op"`
	ID       window.ID   `json:"id,omitempty"`
	Pointer  *geom.Point `json:"pointer,omitempty"`
	Position *geom.Point `json:"position,omitempty"`
	Size     *geom.Size  `json:"size,omitempty"`
	Target   *geom.Rect  `json:"target,omitempty"`
	To       window.ID   `json:"to,omitempty"`
	Payload  any         `json:"payload,omitempty"`
}

var (
	errMissingID      = errors.New("missing id")
	errMissingSize    = errors.New("missing size")
	errMissingPointer = errors.New("missing pointer")
	errMissingPos     = errors.New("missing position")
	errMissingTo      = errors.New("missing recipient")
)

// apply executes cmd. It runs on the loop goroutine. Commands naming a
// window that is not registered are ignored.
func (s *Server) apply(cmd Command) error {
	if cmd.Op == "viewport" {
		if cmd.Size == nil || cmd.Size.Width <= 0 || cmd.Size.Height <= 0 {
			return errMissingSize
		}
		s.surface.size = *cmd.Size
		s.dirty = true
		return nil
	}

	if err := validate(cmd); err != nil {
		return err
	}
	w, ok := s.reg.Window(cmd.ID)
	if !ok {
		s.log.Debug().Str("op", cmd.Op).Str("id", string(cmd.ID)).Msg("command for unknown window ignored")
		return nil
	}

	switch cmd.Op {
	case "focus":
		w.Focus()
	case "drag_start":
		w.DragStart(*cmd.Pointer)
	case "drag":
		w.Drag(*cmd.Pointer, *cmd.Position)
	case "drag_stop":
		w.DragStop(*cmd.Position)
	case "resize_start":
		w.ResizeStart()
	case "resize":
		w.Resize(*cmd.Size, *cmd.Position)
	case "resize_stop":
		w.ResizeStop(*cmd.Size, *cmd.Position)
	case "transition_end":
		w.TransitionEnd()
	case "send_message":
		s.reg.SendMessage(cmd.To, cmd.ID, cmd.Payload)
	default:
		return applyAction(w, actionName(cmd.Op), rectElement(cmd.Target))
	}
	return nil
}

// validate checks that cmd carries the fields its op needs.
func validate(cmd Command) error {
	if cmd.ID == "" {
		return errMissingID
	}
	switch cmd.Op {
	case "drag_start":
		if cmd.Pointer == nil {
			return errMissingPointer
		}
	case "drag":
		if cmd.Pointer == nil {
			return errMissingPointer
		}
		if cmd.Position == nil {
			return errMissingPos
		}
	case "drag_stop":
		if cmd.Position == nil {
			return errMissingPos
		}
	case "resize", "resize_stop":
		if cmd.Size == nil {
			return errMissingSize
		}
		if cmd.Position == nil {
			return errMissingPos
		}
	case "send_message":
		if cmd.To == "" {
			return errMissingTo
		}
	case "focus", "resize_start", "transition_end":
	default:
		if !isAction(actionName(cmd.Op)) {
			return fmt.Errorf("unknown op %q", cmd.Op)
		}
	}
	return nil
}

// actionName maps stream ops onto the REST action names.
func actionName(op string) string {
	switch op {
	case "toggle_fullscreen":
		return "fullscreen"
	case "toggle_maximize":
		return "maximize"
	}
	return op
}

func isAction(action string) bool {
	switch action {
	case "close", "minimize", "open", "focus", "fullscreen", "maximize":
		return true
	}
	return false
}

// applyAction runs one of the lifecycle actions shared by REST and the
// stream.
func applyAction(w *window.Window, action string, target window.Element) error {
	switch action {
	case "close":
		w.Close()
	case "minimize":
		w.Minimize(target)
	case "open":
		w.Open()
	case "focus":
		w.Focus()
	case "fullscreen":
		w.ToggleFullScreen()
	case "maximize":
		w.ToggleMaximize()
	default:
		return fmt.Errorf("unknown action %q", action)
	}
	return nil
}

// rectElement adapts an optional browser-reported rectangle.
func rectElement(r *geom.Rect) window.Element {
	if r == nil {
		return nil
	}
	rect := *r
	return window.ElementFunc(func() (geom.Rect, bool) { return rect, true })
}
