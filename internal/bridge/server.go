// Package bridge serves the window registry to a browser. The browser is
// the visual layer: it reports its viewport, pointer gestures and
// transition completions, and renders the snapshots pushed back to it.
package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"slices"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/Gaurav-Gosain/webdesk/internal/config"
	"github.com/Gaurav-Gosain/webdesk/internal/geom"
	"github.com/Gaurav-Gosain/webdesk/internal/loop"
	"github.com/Gaurav-Gosain/webdesk/internal/window"
	"github.com/Gaurav-Gosain/webdesk/internal/wm"
)

// inboxSize bounds the messages kept per window for GET requests.
const inboxSize = 50

// Config configures the bridge server.
type Config struct {
	Addr string
	// Surface is used until a client reports its viewport.
	Surface geom.Size
	// AllowOrigins lists accepted websocket origins. Empty accepts any.
	AllowOrigins []string
	BaseZ        int
	FPS          int
	Logger       *zerolog.Logger
	NewID        func() window.ID
}

// DefaultConfig returns the bridge defaults.
func DefaultConfig() Config {
	return Config{
		Addr: config.DefaultServerAddr,
		Surface: geom.Size{
			Width:  config.DefaultSurfaceWidth,
			Height: config.DefaultSurfaceHeight,
		},
		FPS: config.NormalFPS,
	}
}

// viewport is the browser's surface. It is only touched on the loop
// goroutine.
type viewport struct {
	size geom.Size
}

func (v *viewport) Size() geom.Size { return v.size }

// Server represents the HTTP and websocket bridge
type Server struct {
	cfg      Config
	log      zerolog.Logger
	loop     *loop.Loop
	reg      *wm.Registry
	surface  *viewport
	router   *mux.Router
	upgrader websocket.Upgrader
	hub      *hub
	httpSrv  *http.Server

	// Loop goroutine only.
	inbox map[window.ID][]window.Message
	dirty bool
}

// New creates a bridge server with its own loop and registry.
func New(cfg Config) (*Server, error) {
	def := DefaultConfig()
	if cfg.Addr == "" {
		cfg.Addr = def.Addr
	}
	if cfg.Surface.Width <= 0 || cfg.Surface.Height <= 0 {
		cfg.Surface = def.Surface
	}
	if cfg.FPS <= 0 {
		cfg.FPS = def.FPS
	}
	log := zerolog.Nop()
	if cfg.Logger != nil {
		log = *cfg.Logger
	}

	loopLog := log.With().Str("component", "loop").Logger()
	lp := loop.New(loop.Config{TargetFPS: cfg.FPS, Logger: &loopLog})

	surface := &viewport{size: cfg.Surface}
	regLog := log.With().Str("component", "wm").Logger()
	reg, err := wm.New(wm.Options{
		BaseZ:     cfg.BaseZ,
		Surface:   surface,
		Scheduler: lp,
		Logger:    &regLog,
		NewID:     cfg.NewID,
	})
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:     cfg,
		log:     log,
		loop:    lp,
		reg:     reg,
		surface: surface,
		router:  mux.NewRouter(),
		hub:     newHub(log),
		inbox:   make(map[window.ID][]window.Message),
	}
	s.upgrader = websocket.Upgrader{CheckOrigin: s.checkOrigin}

	reg.OnChange(s.onRegistryEvent)
	lp.OnFrame(s.onFrame)
	s.setupRoutes()
	return s, nil
}

func (s *Server) checkOrigin(r *http.Request) bool {
	if len(s.cfg.AllowOrigins) == 0 {
		return true
	}
	return slices.Contains(s.cfg.AllowOrigins, r.Header.Get("Origin"))
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/health", s.handleHealth).Methods("GET")

	api.HandleFunc("/windows", s.handleListWindows).Methods("GET")
	api.HandleFunc("/windows", s.handleCreateWindow).Methods("POST")
	api.HandleFunc("/windows/{id}", s.handleGetWindow).Methods("GET")
	api.HandleFunc("/windows/{id}/messages", s.handleGetMessages).Methods("GET")
	api.HandleFunc("/windows/{id}/messages", s.handleSendMessage).Methods("POST")
	api.HandleFunc("/windows/{id}/{action}", s.handleWindowAction).Methods("POST")

	api.HandleFunc("/stream", s.handleStream)
}

// Handler returns the HTTP handler with CORS applied.
func (s *Server) Handler() http.Handler {
	return s.enableCORS(s.router)
}

// enableCORS adds CORS headers
func (s *Server) enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Run listens on the configured address and serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve runs the loop and serves HTTP on ln until ctx is done, then tears
// every window down and shuts the server down.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	loopCtx, stopLoop := context.WithCancel(context.Background())
	defer stopLoop()
	go func() {
		if err := s.loop.Run(loopCtx); err != nil && !errors.Is(err, context.Canceled) {
			s.log.Error().Err(err).Msg("loop exited")
		}
	}()

	s.httpSrv = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: config.ServerWriteTimeout,
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpSrv.Serve(ln)
	}()
	s.log.Info().Str("addr", ln.Addr().String()).Msg("bridge listening")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ServerShutdownTimeout)
	defer cancel()
	s.teardown(shutdownCtx)
	if err := s.httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down http server: %w", err)
	}
	s.log.Info().Msg("bridge stopped")
	return nil
}

// teardown unregisters every window and disconnects every client.
func (s *Server) teardown(ctx context.Context) {
	if err := s.loop.Do(ctx, s.reg.Clear); err != nil {
		s.log.Warn().Err(err).Msg("failed to clear registry on shutdown")
	}
	s.hub.closeAll()
}

// do runs fn on the loop goroutine on behalf of a request.
func (s *Server) do(w http.ResponseWriter, r *http.Request, fn func()) bool {
	if err := s.loop.Do(r.Context(), fn); err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return false
	}
	return true
}

func (s *Server) onRegistryEvent(ev wm.Event) {
	if ev.Kind == wm.EventUnregistered {
		delete(s.inbox, ev.ID)
	}
	s.dirty = true
	// Plain state changes reach clients through the next snapshot.
	if ev.Kind != wm.EventChanged {
		s.hub.broadcast(eventMessage{Type: typeEvent, Event: ev})
	}
}

func (s *Server) onFrame(uint64) {
	if !s.dirty {
		return
	}
	s.dirty = false
	s.hub.broadcast(s.snapshot())
}

func (s *Server) snapshot() snapshotMessage {
	focused, _ := s.reg.Focused()
	return snapshotMessage{
		Type:    typeSnapshot,
		Surface: s.surface.Size(),
		Focused: focused,
		Windows: s.reg.Snapshots(),
	}
}

// HTTP Handlers

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	var n int
	if !s.do(w, r, func() { n = s.reg.Len() }) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "healthy",
		"windows": n,
	})
}

func (s *Server) handleListWindows(w http.ResponseWriter, r *http.Request) {
	var snap snapshotMessage
	if !s.do(w, r, func() { snap = s.snapshot() }) {
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleGetWindow(w http.ResponseWriter, r *http.Request) {
	id := window.ID(mux.Vars(r)["id"])
	var (
		snap window.Snapshot
		ok   bool
	)
	if !s.do(w, r, func() {
		var win *window.Window
		if win, ok = s.reg.Window(id); ok {
			snap = win.Snapshot()
		}
	}) {
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "window not found")
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// CreateRequest is the body of POST /api/windows.
type CreateRequest struct {
	Title     string      `json:"title"`
	Content   any         `json:"content,omitempty"`
	Width     float64     `json:"width,omitempty"`
	Height    float64     `json:"height,omitempty"`
	Position  *geom.Point `json:"position,omitempty"`
	MinWidth  float64     `json:"min_width,omitempty"`
	MinHeight float64     `json:"min_height,omitempty"`
	ZIndex    *int        `json:"z_index,omitempty"`
	Resizable *bool       `json:"resizable,omitempty"`
	// Closable and Minimizable default to true.
	Closable    *bool `json:"closable,omitempty"`
	Minimizable *bool `json:"minimizable,omitempty"`
}

func (s *Server) handleCreateWindow(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var id window.ID
	if !s.do(w, r, func() { id = s.createWindow(req) }) {
		return
	}
	writeJSON(w, http.StatusCreated, map[string]window.ID{"id": id})
}

func (s *Server) handleWindowAction(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := window.ID(vars["id"])
	action := vars["action"]

	var target window.Element
	if action == "minimize" && r.ContentLength != 0 {
		var body struct {
			Target *geom.Rect `json:"target"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		target = rectElement(body.Target)
	}

	var (
		found bool
		err   error
	)
	if !s.do(w, r, func() {
		var win *window.Window
		if win, found = s.reg.Window(id); found {
			err = applyAction(win, action, target)
		}
	}) {
		return
	}
	switch {
	case err != nil:
		writeError(w, http.StatusBadRequest, err.Error())
	case !found:
		writeError(w, http.StatusNotFound, "window not found")
	default:
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func (s *Server) handleGetMessages(w http.ResponseWriter, r *http.Request) {
	id := window.ID(mux.Vars(r)["id"])
	var (
		msgs []window.Message
		ok   bool
	)
	if !s.do(w, r, func() {
		ok = s.reg.Has(id)
		msgs = slices.Clone(s.inbox[id])
	}) {
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "window not found")
		return
	}
	if msgs == nil {
		msgs = []window.Message{}
	}
	writeJSON(w, http.StatusOK, msgs)
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	from := window.ID(mux.Vars(r)["id"])
	var req struct {
		To      window.ID `json:"to"`
		Payload any       `json:"payload"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.To == "" {
		writeError(w, http.StatusBadRequest, "missing recipient")
		return
	}
	if !s.do(w, r, func() { s.reg.SendMessage(req.To, from, req.Payload) }) {
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "sent"})
}

// createWindow registers and mounts a window. It runs on the loop.
func (s *Server) createWindow(req CreateRequest) window.ID {
	var id window.ID
	opts := window.Options{
		Title:         req.Title,
		Content:       req.Content,
		DefaultWidth:  req.Width,
		DefaultHeight: req.Height,
		MinWidth:      req.MinWidth,
		MinHeight:     req.MinHeight,
		ZIndex:        req.ZIndex,
		Resizable:     req.Resizable,
		OnFullScreenChange: func(on bool) {
			s.hub.broadcast(lifecycleMessage{Type: typeLifecycle, ID: id, Name: "fullscreen", FullScreen: &on})
		},
		OnMessage: func(msg window.Message) {
			in := append(s.inbox[id], msg)
			if len(in) > inboxSize {
				in = in[len(in)-inboxSize:]
			}
			s.inbox[id] = in
		},
	}
	if req.Position != nil {
		opts.DefaultPosition = *req.Position
	}
	if req.Closable == nil || *req.Closable {
		opts.OnClose = func() { s.lifecycle(id, "close") }
		opts.OnClosed = func() { s.lifecycle(id, "closed") }
	}
	if req.Minimizable == nil || *req.Minimizable {
		opts.OnMinimize = func() window.Element {
			s.lifecycle(id, "minimize")
			return nil
		}
		opts.OnMinimized = func() { s.lifecycle(id, "minimized") }
	}

	h := s.reg.CreateWindow(opts)
	id = h.ID
	s.reg.Mount(id)
	return id
}

func (s *Server) lifecycle(id window.ID, name string) {
	s.hub.broadcast(lifecycleMessage{Type: typeLifecycle, ID: id, Name: name})
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	c := s.hub.add(conn)
	defer s.hub.remove(c)
	go c.writePump()

	var snap snapshotMessage
	if err := s.loop.Do(r.Context(), func() { snap = s.snapshot() }); err != nil {
		return
	}
	s.hub.sendTo(c, snap)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Debug().Err(err).Msg("websocket read failed")
			}
			return
		}
		var cmd Command
		if err := json.Unmarshal(data, &cmd); err != nil {
			s.hub.sendTo(c, errorMessage{Type: typeError, Error: "malformed command: " + err.Error()})
			continue
		}
		var applyErr error
		ctx, cancel := context.WithTimeout(r.Context(), config.ServerWriteTimeout)
		err = s.loop.Do(ctx, func() { applyErr = s.apply(cmd) })
		cancel()
		if err != nil {
			return
		}
		if applyErr != nil {
			s.hub.sendTo(c, errorMessage{Type: typeError, Op: cmd.Op, Error: applyErr.Error()})
		}
	}
}

// writeTimeout bounds a single websocket write.
func writeTimeout() time.Time {
	return time.Now().Add(config.ServerWriteTimeout)
}
