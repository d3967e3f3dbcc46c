// Package wm is the window registry: it owns identities, stacking order,
// focus and message routing for every window on a surface.
package wm

import (
	"sort"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Gaurav-Gosain/webdesk/internal/window"
)

// DefaultBaseZ is the stacking order given to windows that were never
// focused.
const DefaultBaseZ = window.DefaultZIndex

// Options configures a Registry.
type Options struct {
	// BaseZ is the initial stacking order. Zero means DefaultBaseZ.
	BaseZ     int
	Surface   window.Surface
	Scheduler window.Scheduler
	Logger    *zerolog.Logger
	// NewID allocates window identities. It defaults to random UUIDs.
	NewID func() window.ID
}

type record struct {
	id   window.ID
	opts window.Options
	z    int
	seq  uint64
	subs subscribers
	win  *window.Window
	ctx  *Context
}

type listener struct {
	id int
	fn func(Event)
}

// Registry tracks every window on one surface. It is not safe for
// concurrent use; callers drive it from a single UI goroutine.
type Registry struct {
	base    int
	counter int
	seq     uint64
	focused window.ID
	records map[window.ID]*record

	surface window.Surface
	sched   window.Scheduler
	newID   func() window.ID
	log     zerolog.Logger

	listeners    []listener
	nextListener int
}

// New creates a registry. Surface and Scheduler are required.
func New(opts Options) (*Registry, error) {
	if opts.Surface == nil {
		return nil, &window.ConfigurationError{Op: "wm.New", Err: window.ErrNoSurface}
	}
	if opts.Scheduler == nil {
		return nil, &window.ConfigurationError{Op: "wm.New", Err: window.ErrNoScheduler}
	}
	if opts.BaseZ == 0 {
		opts.BaseZ = DefaultBaseZ
	}
	if opts.NewID == nil {
		opts.NewID = createID
	}
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}
	return &Registry{
		base:    opts.BaseZ,
		counter: opts.BaseZ,
		records: make(map[window.ID]*record),
		surface: opts.Surface,
		sched:   opts.Scheduler,
		newID:   opts.NewID,
		log:     log,
	}, nil
}

func createID() window.ID {
	return window.ID(uuid.New().String())
}

// Surface returns the surface windows are laid out in.
func (r *Registry) Surface() window.Surface { return r.surface }

// Register adds a record for id. The window's OnMessage callback, if any,
// becomes its first message subscriber. Registering an existing id does
// nothing and reports false.
func (r *Registry) Register(id window.ID, opts window.Options) bool {
	if id == "" {
		r.log.Warn().Msg("register with empty id ignored")
		return false
	}
	if _, exists := r.records[id]; exists {
		r.log.Warn().Str("id", string(id)).Msg("window already registered")
		return false
	}
	r.seq++
	rec := &record{
		id:   id,
		opts: opts,
		z:    r.base,
		seq:  r.seq,
	}
	rec.ctx = &Context{r: r, id: id}
	if opts.OnMessage != nil {
		rec.subs.add(window.MessageHandler(opts.OnMessage))
	}
	r.records[id] = rec
	r.log.Debug().Str("id", string(id)).Str("title", opts.Title).Msg("window registered")
	r.emit(Event{Kind: EventRegistered, ID: id})
	return true
}

// Unregister removes the record for id and tears down its window. A
// pending close or minimize still completes. Unknown ids are ignored.
func (r *Registry) Unregister(id window.ID) {
	rec, ok := r.records[id]
	if !ok {
		return
	}
	delete(r.records, id)
	if r.focused == id {
		r.focused = ""
	}
	if rec.win != nil {
		rec.win.Unmount()
	}
	r.log.Debug().Str("id", string(id)).Msg("window unregistered")
	r.emit(Event{Kind: EventUnregistered, ID: id})
}

// Clear unregisters every window in registration order.
func (r *Registry) Clear() {
	for _, rec := range r.sorted(bySeq) {
		r.Unregister(rec.id)
	}
}

// Focus raises id above every other window and makes it the focused one.
func (r *Registry) Focus(id window.ID) {
	rec, ok := r.records[id]
	if !ok {
		r.log.Debug().Str("id", string(id)).Msg("focus on unknown window ignored")
		return
	}
	r.counter++
	rec.z = r.counter
	r.focused = id
	r.emit(Event{Kind: EventFocused, ID: id})
}

// ZOrderOf returns the registry's stacking order for id, or fallback when
// id is unknown.
func (r *Registry) ZOrderOf(id window.ID, fallback int) int {
	if rec, ok := r.records[id]; ok {
		return rec.z
	}
	return fallback
}

// Focused returns the focused window, if any.
func (r *Registry) Focused() (window.ID, bool) {
	return r.focused, r.focused != ""
}

// IsFocused reports whether id holds focus.
func (r *Registry) IsFocused(id window.ID) bool {
	return id != "" && r.focused == id
}

// Has reports whether id is registered.
func (r *Registry) Has(id window.ID) bool {
	_, ok := r.records[id]
	return ok
}

// Len returns the number of registered windows.
func (r *Registry) Len() int { return len(r.records) }

// Mount builds and mounts the window for a registered record. Mounting an
// already mounted record returns the existing window.
func (r *Registry) Mount(id window.ID) (*window.Window, bool) {
	rec, ok := r.records[id]
	if !ok {
		return nil, false
	}
	if rec.win != nil {
		return rec.win, true
	}
	logger := r.log.With().Str("component", "window").Logger()
	win, err := window.New(id, rec.opts, window.Env{
		Host:      rec.ctx,
		Scheduler: r.sched,
		Surface:   r.surface,
		Logger:    &logger,
	})
	if err != nil {
		r.log.Error().Err(err).Str("id", string(id)).Msg("failed to build window")
		return nil, false
	}
	rec.win = win
	win.Mount()
	r.emit(Event{Kind: EventMounted, ID: id})
	return win, true
}

// MountPending mounts every record that has no window yet, in
// registration order.
func (r *Registry) MountPending() []*window.Window {
	var mounted []*window.Window
	for _, rec := range r.sorted(bySeq) {
		if rec.win != nil {
			continue
		}
		if win, ok := r.Mount(rec.id); ok {
			mounted = append(mounted, win)
		}
	}
	return mounted
}

// Window returns the mounted window for id.
func (r *Registry) Window(id window.ID) (*window.Window, bool) {
	rec, ok := r.records[id]
	if !ok || rec.win == nil {
		return nil, false
	}
	return rec.win, true
}

// Record is a read-only view of a registry entry.
type Record struct {
	ID     window.ID
	Title  string
	ZOrder int
	Window *window.Window
}

// Records returns every entry from bottom to top of the stack. Entries
// with equal order keep their registration order.
func (r *Registry) Records() []Record {
	recs := r.sorted(byStack)
	out := make([]Record, 0, len(recs))
	for _, rec := range recs {
		out = append(out, Record{
			ID:     rec.id,
			Title:  rec.opts.Title,
			ZOrder: r.effectiveZ(rec),
			Window: rec.win,
		})
	}
	return out
}

// Windows returns the mounted windows from bottom to top.
func (r *Registry) Windows() []*window.Window {
	var out []*window.Window
	for _, rec := range r.sorted(byStack) {
		if rec.win != nil {
			out = append(out, rec.win)
		}
	}
	return out
}

// InRegistrationOrder returns the mounted windows in the order their
// records were registered.
func (r *Registry) InRegistrationOrder() []*window.Window {
	var out []*window.Window
	for _, rec := range r.sorted(bySeq) {
		if rec.win != nil {
			out = append(out, rec.win)
		}
	}
	return out
}

// Snapshots returns the state of every mounted window from bottom to top.
func (r *Registry) Snapshots() []window.Snapshot {
	wins := r.Windows()
	out := make([]window.Snapshot, 0, len(wins))
	for _, w := range wins {
		out = append(out, w.Snapshot())
	}
	return out
}

func (r *Registry) effectiveZ(rec *record) int {
	if rec.opts.ZIndex != nil {
		return *rec.opts.ZIndex
	}
	return rec.z
}

type ordering int

const (
	bySeq ordering = iota
	byStack
)

func (r *Registry) sorted(o ordering) []*record {
	recs := make([]*record, 0, len(r.records))
	for _, rec := range r.records {
		recs = append(recs, rec)
	}
	sort.Slice(recs, func(i, j int) bool {
		if o == byStack {
			zi, zj := r.effectiveZ(recs[i]), r.effectiveZ(recs[j])
			if zi != zj {
				return zi < zj
			}
		}
		return recs[i].seq < recs[j].seq
	})
	return recs
}

func (r *Registry) changed(id window.ID) {
	if _, ok := r.records[id]; !ok {
		return
	}
	r.emit(Event{Kind: EventChanged, ID: id})
}
