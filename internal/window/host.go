package window

import "github.com/Gaurav-Gosain/webdesk/internal/geom"

// ID identifies a window. IDs are opaque and never reused.
type ID string

// Message is a fire-and-forget payload addressed to a window.
type Message struct {
	From    ID  `json:"from"`
	To      ID  `json:"to"`
	Payload any `json:"payload"`
}

// Handler receives messages addressed to a window.
type Handler interface {
	HandleMessage(Message)
}

type funcHandler struct {
	fn func(Message)
}

func (h *funcHandler) HandleMessage(m Message) { h.fn(m) }

// MessageHandler wraps fn in a Handler. Each call returns a distinct
// handler, so subscribing the same function twice yields two entries.
func MessageHandler(fn func(Message)) Handler {
	return &funcHandler{fn: fn}
}

// Element is something a window can minimize toward, such as a dock tile.
// Bounds reports false when the element is not currently laid out.
type Element interface {
	Bounds() (geom.Rect, bool)
}

// ElementFunc adapts a function to the Element interface.
type ElementFunc func() (geom.Rect, bool)

// Bounds calls f.
func (f ElementFunc) Bounds() (geom.Rect, bool) { return f() }

// Surface is the area windows are laid out in.
type Surface interface {
	Size() geom.Size
}

// FixedSurface is a Surface with a constant size.
type FixedSurface geom.Size

// Size returns the surface size.
func (s FixedSurface) Size() geom.Size { return geom.Size(s) }

// Scheduler defers work to the next rendered frame.
type Scheduler interface {
	NextFrame(fn func())
}

// Host is the registry side of a window: it owns focus, stacking and
// message routing, and it hears about every state change.
type Host interface {
	Focus()
	IsFocused() bool
	ZOrder(fallback int) int
	SendMessage(to ID, payload any)
	Subscribe(h Handler)
	Unsubscribe(h Handler)
	Changed()
	Release()
}

// headless is used when a window runs without a registry. It is always
// focused and drops messages.
type headless struct{}

func (headless) Focus() {}
func (headless) IsFocused() bool { return true }
func (headless) ZOrder(fallback int) int { return fallback }
func (headless) SendMessage(ID, any) {}
func (headless) Subscribe(Handler) {}
func (headless) Unsubscribe(Handler) {}
func (headless) Changed() {}
func (headless) Release() {}
