package wm

import "github.com/Gaurav-Gosain/webdesk/internal/window"

// Handle is returned by CreateWindow. Its operations reach the window once
// a surface has mounted it; before that they are dropped.
type Handle struct {
	ID window.ID
	r  *Registry
}

// CreateWindow allocates an identity, registers a record and returns a
// handle to it.
func (r *Registry) CreateWindow(opts window.Options) Handle {
	id := r.newID()
	for r.Has(id) {
		id = r.newID()
	}
	r.Register(id, opts)
	return Handle{ID: id, r: r}
}

func (h Handle) lookup(op string) (*window.Window, bool) {
	if h.r == nil {
		return nil, false
	}
	w, ok := h.r.Window(h.ID)
	if !ok {
		h.r.log.Debug().Str("id", string(h.ID)).Str("op", op).Msg("handle operation before mount dropped")
	}
	return w, ok
}

// Close closes the window.
func (h Handle) Close() {
	if w, ok := h.lookup("close"); ok {
		w.Close()
	}
}

// Minimize minimizes the window toward target, which may be nil.
func (h Handle) Minimize(target window.Element) {
	if w, ok := h.lookup("minimize"); ok {
		w.Minimize(target)
	}
}

// Open reopens the window.
func (h Handle) Open() {
	if w, ok := h.lookup("open"); ok {
		w.Open()
	}
}

// SendMessage sends payload from this window to another.
func (h Handle) SendMessage(to window.ID, payload any) {
	if h.r != nil {
		h.r.SendMessage(to, h.ID, payload)
	}
}

// Window returns the mounted window, if any.
func (h Handle) Window() (*window.Window, bool) {
	if h.r == nil {
		return nil, false
	}
	return h.r.Window(h.ID)
}
