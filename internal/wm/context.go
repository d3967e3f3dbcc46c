package wm

import (
	"errors"

	"github.com/Gaurav-Gosain/webdesk/internal/window"
)

var (
	// ErrNoManager is returned when a window context is requested without
	// a registry.
	ErrNoManager = errors.New("no window registry")
	// ErrNoWindow is returned when a window context is requested without a
	// window identity.
	ErrNoWindow = errors.New("no window identity")
)

// Context is the per-window view of a registry. It implements window.Host.
type Context struct {
	r  *Registry
	id window.ID
}

var _ window.Host = (*Context)(nil)

// ContextFor returns the context for id. It fails fast when either the
// registry or the identity is missing.
func ContextFor(r *Registry, id window.ID) (*Context, error) {
	if r == nil {
		return nil, &window.ConfigurationError{Op: "wm.ContextFor", Err: ErrNoManager}
	}
	if id == "" {
		return nil, &window.ConfigurationError{Op: "wm.ContextFor", Err: ErrNoWindow}
	}
	if rec, ok := r.records[id]; ok {
		return rec.ctx, nil
	}
	return &Context{r: r, id: id}, nil
}

// ID returns the window identity the context is bound to.
func (c *Context) ID() window.ID { return c.id }

// Focus raises and focuses the window.
func (c *Context) Focus() { c.r.Focus(c.id) }

// IsFocused reports whether the window holds focus.
func (c *Context) IsFocused() bool { return c.r.IsFocused(c.id) }

// ZOrder returns the window's stacking order.
func (c *Context) ZOrder(fallback int) int { return c.r.ZOrderOf(c.id, fallback) }

// SendMessage sends payload to another window, from this one.
func (c *Context) SendMessage(to window.ID, payload any) {
	c.r.SendMessage(to, c.id, payload)
}

// Subscribe adds a message handler for this window.
func (c *Context) Subscribe(h window.Handler) { c.r.Subscribe(c.id, h) }

// Unsubscribe removes a message handler for this window.
func (c *Context) Unsubscribe(h window.Handler) { c.r.Unsubscribe(c.id, h) }

// OnMessage subscribes fn and returns a function that unsubscribes it.
func (c *Context) OnMessage(fn func(window.Message)) (cancel func()) {
	h := window.MessageHandler(fn)
	c.Subscribe(h)
	return func() { c.Unsubscribe(h) }
}

// Changed reports a state change of the window to registry listeners.
func (c *Context) Changed() { c.r.changed(c.id) }

// Release removes the window's record.
func (c *Context) Release() { c.r.Unregister(c.id) }
