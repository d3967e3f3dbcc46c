package wm

import (
	"fmt"

	"github.com/Gaurav-Gosain/webdesk/internal/window"
)

// EventKind classifies registry change notifications.
type EventKind int

const (
	// EventRegistered fires after a record is added.
	EventRegistered EventKind = iota
	// EventUnregistered fires after a record is removed.
	EventUnregistered
	// EventMounted fires after a window is attached to its record.
	EventMounted
	// EventFocused fires after focus and stacking order change.
	EventFocused
	// EventChanged fires whenever a window's state changes.
	EventChanged
	// EventMessage fires after a message was delivered.
	EventMessage
)

var eventNames = [...]string{"registered", "unregistered", "mounted", "focused", "changed", "message"}

func (k EventKind) String() string {
	if k < 0 || int(k) >= len(eventNames) {
		return "unknown"
	}
	return eventNames[k]
}

// MarshalText encodes the kind by name.
func (k EventKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name written by MarshalText.
func (k *EventKind) UnmarshalText(text []byte) error {
	for i, n := range eventNames {
		if n == string(text) {
			*k = EventKind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown event kind %q", text)
}

// Event is a registry change notification.
type Event struct {
	Kind    EventKind `json:"kind"`
	ID      window.ID `json:"id"`
	From    window.ID `json:"from,omitempty"`
	Payload any       `json:"payload,omitempty"`
}

// OnChange registers fn to be called after every registry change. The
// returned function removes it.
func (r *Registry) OnChange(fn func(Event)) (cancel func()) {
	r.nextListener++
	id := r.nextListener
	r.listeners = append(r.listeners, listener{id: id, fn: fn})
	return func() {
		for i, l := range r.listeners {
			if l.id == id {
				r.listeners = append(r.listeners[:i:i], r.listeners[i+1:]...)
				return
			}
		}
	}
}

func (r *Registry) emit(ev Event) {
	if len(r.listeners) == 0 {
		return
	}
	ls := make([]listener, len(r.listeners))
	copy(ls, r.listeners)
	for _, l := range ls {
		l.fn(ev)
	}
}
