package wm

import "github.com/Gaurav-Gosain/webdesk/internal/window"

// subscribers is an insertion-ordered set of handlers keyed by identity.
type subscribers struct {
	order []window.Handler
	index map[window.Handler]struct{}
}

func (s *subscribers) add(h window.Handler) {
	if h == nil {
		return
	}
	if s.index == nil {
		s.index = make(map[window.Handler]struct{})
	}
	if _, ok := s.index[h]; ok {
		return
	}
	s.index[h] = struct{}{}
	s.order = append(s.order, h)
}

func (s *subscribers) remove(h window.Handler) {
	if _, ok := s.index[h]; !ok {
		return
	}
	delete(s.index, h)
	for i, x := range s.order {
		if x == h {
			s.order = append(s.order[:i:i], s.order[i+1:]...)
			break
		}
	}
}

// snapshot returns a copy so delivery is unaffected by handlers that
// subscribe or unsubscribe while being called.
func (s *subscribers) snapshot() []window.Handler {
	out := make([]window.Handler, len(s.order))
	copy(out, s.order)
	return out
}

func (s *subscribers) len() int { return len(s.order) }

// SendMessage delivers payload synchronously to every handler subscribed
// to the window to. Unknown destinations are ignored.
func (r *Registry) SendMessage(to, from window.ID, payload any) {
	rec, ok := r.records[to]
	if !ok {
		r.log.Debug().Str("to", string(to)).Str("from", string(from)).Msg("message to unknown window dropped")
		return
	}
	msg := window.Message{From: from, To: to, Payload: payload}
	handlers := rec.subs.snapshot()
	for _, h := range handlers {
		h.HandleMessage(msg)
	}
	r.log.Debug().
		Str("to", string(to)).
		Str("from", string(from)).
		Int("handlers", len(handlers)).
		Msg("message delivered")
	r.emit(Event{Kind: EventMessage, ID: to, From: from, Payload: payload})
}

// Subscribe adds h to the window's message handlers. Adding the same
// handler twice has no effect.
func (r *Registry) Subscribe(id window.ID, h window.Handler) {
	if rec, ok := r.records[id]; ok {
		rec.subs.add(h)
	}
}

// Unsubscribe removes h. Removing an absent handler has no effect.
func (r *Registry) Unsubscribe(id window.ID, h window.Handler) {
	if rec, ok := r.records[id]; ok {
		rec.subs.remove(h)
	}
}
