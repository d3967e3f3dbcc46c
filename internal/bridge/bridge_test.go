package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Gaurav-Gosain/webdesk/internal/geom"
	"github.com/Gaurav-Gosain/webdesk/internal/window"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	n := 0
	s, err := New(Config{
		FPS:     200,
		Surface: geom.Size{Width: 1280, Height: 800},
		NewID: func() window.ID {
			n++
			return window.ID(fmt.Sprintf("w%d", n))
		},
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = s.loop.Run(ctx) }()
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		s.hub.closeAll()
		srv.Close()
		cancel()
	})
	return s, srv
}

func doJSON(t *testing.T, method, url string, body any, out any) int {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("NewRequest() error = %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s error = %v", method, url, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s %s: %v", method, url, err)
		}
	}
	return resp.StatusCode
}

func createWindow(t *testing.T, srv *httptest.Server, req CreateRequest) window.ID {
	t.Helper()
	var out struct {
		ID window.ID `json:"id"`
	}
	if code := doJSON(t, "POST", srv.URL+"/api/windows", req, &out); code != http.StatusCreated {
		t.Fatalf("create status = %d, want %d", code, http.StatusCreated)
	}
	return out.ID
}

// waitFor polls GET /api/windows/{id} until cond holds.
func waitFor(t *testing.T, srv *httptest.Server, id window.ID, cond func(map[string]any) bool) map[string]any {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	var snap map[string]any
	for time.Now().Before(deadline) {
		snap = nil
		if code := doJSON(t, "GET", srv.URL+"/api/windows/"+string(id), nil, &snap); code == http.StatusOK && cond(snap) {
			return snap
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("window %s never reached the expected state, last = %v", id, snap)
	return nil
}

func visibility(v string) func(map[string]any) bool {
	return func(s map[string]any) bool { return s["visibility"] == v }
}

func TestHealth(t *testing.T) {
	_, srv := newTestServer(t)

	var out map[string]any
	if code := doJSON(t, "GET", srv.URL+"/api/health", nil, &out); code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
	if out["status"] != "healthy" {
		t.Errorf("status = %v, want healthy", out["status"])
	}
	if out["windows"] != float64(0) {
		t.Errorf("windows = %v, want 0", out["windows"])
	}
}

func TestCreateWindowMountsAndShows(t *testing.T) {
	_, srv := newTestServer(t)

	id := createWindow(t, srv, CreateRequest{
		Title:    "Notes",
		Width:    640,
		Height:   480,
		Position: &geom.Point{X: 10, Y: 20},
	})
	if id != "w1" {
		t.Fatalf("id = %q, want w1", id)
	}

	snap := waitFor(t, srv, id, visibility("visible"))
	g := snap["geometry"].(map[string]any)
	if g["x"] != float64(10) || g["y"] != float64(20) || g["width"] != float64(640) || g["height"] != float64(480) {
		t.Errorf("geometry = %v, want {10 20 640 480}", g)
	}
	if snap["focused"] != true {
		t.Errorf("focused = %v, want true", snap["focused"])
	}

	var list snapshotMessage
	doJSON(t, "GET", srv.URL+"/api/windows", nil, &list)
	if len(list.Windows) != 1 || list.Focused != id {
		t.Errorf("list = %+v, want one focused window", list)
	}
	if list.Surface != (geom.Size{Width: 1280, Height: 800}) {
		t.Errorf("surface = %v, want 1280x800", list.Surface)
	}
}

func TestCreateWindowBadBody(t *testing.T) {
	_, srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/windows", "application/json", strings.NewReader("{"))
	if err != nil {
		t.Fatalf("POST error = %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestWindowActions(t *testing.T) {
	_, srv := newTestServer(t)
	id := createWindow(t, srv, CreateRequest{Title: "A"})
	waitFor(t, srv, id, visibility("visible"))

	url := srv.URL + "/api/windows/" + string(id)
	if code := doJSON(t, "POST", url+"/maximize", nil, nil); code != http.StatusOK {
		t.Fatalf("maximize status = %d, want 200", code)
	}
	waitFor(t, srv, id, func(s map[string]any) bool { return s["layout"] == "maximized" })

	if code := doJSON(t, "POST", url+"/fullscreen", nil, nil); code != http.StatusOK {
		t.Fatalf("fullscreen status = %d, want 200", code)
	}
	waitFor(t, srv, id, func(s map[string]any) bool { return s["layout"] == "fullscreen" })

	if code := doJSON(t, "POST", url+"/close", nil, nil); code != http.StatusOK {
		t.Fatalf("close status = %d, want 200", code)
	}
	waitFor(t, srv, id, visibility("closing"))
}

func TestWindowActionErrors(t *testing.T) {
	_, srv := newTestServer(t)
	id := createWindow(t, srv, CreateRequest{Title: "A"})

	tests := []struct {
		name string
		path string
		want int
	}{
		{"unknown window", "/api/windows/nope/close", http.StatusNotFound},
		{"unknown action", "/api/windows/" + string(id) + "/explode", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if code := doJSON(t, "POST", srv.URL+tt.path, nil, nil); code != tt.want {
				t.Errorf("status = %d, want %d", code, tt.want)
			}
		})
	}
}

func TestMinimizeWithTarget(t *testing.T) {
	_, srv := newTestServer(t)
	id := createWindow(t, srv, CreateRequest{
		Title:    "A",
		Width:    400,
		Height:   300,
		Position: &geom.Point{X: 100, Y: 100},
	})
	waitFor(t, srv, id, visibility("visible"))

	body := map[string]any{"target": geom.Rect{X: 590, Y: 760, Width: 20, Height: 40}}
	if code := doJSON(t, "POST", srv.URL+"/api/windows/"+string(id)+"/minimize", body, nil); code != http.StatusOK {
		t.Fatalf("minimize status = %d, want 200", code)
	}

	snap := waitFor(t, srv, id, visibility("minimizing"))
	v := snap["minimize_vector"].(map[string]any)
	// Window center is (300, 250), target center is (600, 780).
	if v["dx"] != float64(300) || v["dy"] != float64(530) {
		t.Errorf("minimize_vector = %v, want {300 530}", v)
	}
}

func TestNonClosableWindow(t *testing.T) {
	_, srv := newTestServer(t)
	no := false
	id := createWindow(t, srv, CreateRequest{Title: "A", Closable: &no})
	waitFor(t, srv, id, visibility("visible"))

	doJSON(t, "POST", srv.URL+"/api/windows/"+string(id)+"/close", nil, nil)
	snap := waitFor(t, srv, id, visibility("visible"))
	if snap["can_close"] != false {
		t.Errorf("can_close = %v, want false", snap["can_close"])
	}
}

func TestMessages(t *testing.T) {
	_, srv := newTestServer(t)
	a := createWindow(t, srv, CreateRequest{Title: "A"})
	b := createWindow(t, srv, CreateRequest{Title: "B"})

	body := map[string]any{"to": b, "payload": "hi"}
	if code := doJSON(t, "POST", srv.URL+"/api/windows/"+string(a)+"/messages", body, nil); code != http.StatusAccepted {
		t.Fatalf("send status = %d, want 202", code)
	}

	var got []window.Message
	if code := doJSON(t, "GET", srv.URL+"/api/windows/"+string(b)+"/messages", nil, &got); code != http.StatusOK {
		t.Fatalf("get status = %d, want 200", code)
	}
	want := window.Message{From: a, To: b, Payload: "hi"}
	if len(got) != 1 || got[0] != want {
		t.Errorf("messages = %+v, want [%+v]", got, want)
	}

	var empty []window.Message
	doJSON(t, "GET", srv.URL+"/api/windows/"+string(a)+"/messages", nil, &empty)
	if len(empty) != 0 {
		t.Errorf("sender inbox = %+v, want empty", empty)
	}

	if code := doJSON(t, "GET", srv.URL+"/api/windows/nope/messages", nil, nil); code != http.StatusNotFound {
		t.Errorf("unknown window status = %d, want 404", code)
	}
}

func dialStream(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/stream"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// next reads stream messages until one of the given type satisfies cond.
func next(t *testing.T, conn *websocket.Conn, typ string, cond func(map[string]any) bool) map[string]any {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		var msg map[string]any
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("waiting for %s: ReadJSON() error = %v", typ, err)
		}
		if msg["type"] == typ && (cond == nil || cond(msg)) {
			return msg
		}
	}
}

func TestStreamSnapshotOnConnect(t *testing.T) {
	_, srv := newTestServer(t)
	createWindow(t, srv, CreateRequest{Title: "A"})

	conn := dialStream(t, srv)
	msg := next(t, conn, typeSnapshot, nil)
	wins, _ := msg["windows"].([]any)
	if len(wins) != 1 {
		t.Errorf("windows = %v, want 1 entry", msg["windows"])
	}
}

func TestStreamErrors(t *testing.T) {
	_, srv := newTestServer(t)
	conn := dialStream(t, srv)
	next(t, conn, typeSnapshot, nil)

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"malformed", "{", "malformed command"},
		{"unknown op", `{"op":"explode","id":"w1"}`, "unknown op"},
		{"missing id", `{"op":"close"}`, "missing id"},
		{"drag without pointer", `{"op":"drag_start","id":"w1"}`, "missing pointer"},
		{"resize without size", `{"op":"resize","id":"w1","position":{"x":0,"y":0}}`, "missing size"},
		{"bad viewport", `{"op":"viewport"}`, "missing size"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(tt.raw)); err != nil {
				t.Fatalf("WriteMessage() error = %v", err)
			}
			msg := next(t, conn, typeError, nil)
			if got, _ := msg["error"].(string); !strings.Contains(got, tt.want) {
				t.Errorf("error = %q, want it to contain %q", got, tt.want)
			}
		})
	}
}

func TestStreamCommands(t *testing.T) {
	s, srv := newTestServer(t)
	id := createWindow(t, srv, CreateRequest{
		Title:    "A",
		Width:    400,
		Height:   300,
		Position: &geom.Point{X: 10, Y: 10},
	})
	waitFor(t, srv, id, visibility("visible"))

	conn := dialStream(t, srv)
	next(t, conn, typeSnapshot, nil)

	send := func(cmd Command) {
		t.Helper()
		if err := conn.WriteJSON(cmd); err != nil {
			t.Fatalf("WriteJSON() error = %v", err)
		}
	}

	// Unknown windows are ignored without an error reply.
	send(Command{Op: "close", ID: "nope"})

	send(Command{Op: "viewport", Size: &geom.Size{Width: 1024, Height: 768}})
	next(t, conn, typeSnapshot, func(m map[string]any) bool {
		sz := m["surface"].(map[string]any)
		return sz["width"] == float64(1024) && sz["height"] == float64(768)
	})

	send(Command{Op: "drag_start", ID: id, Pointer: &geom.Point{X: 20, Y: 15}})
	send(Command{Op: "drag", ID: id, Pointer: &geom.Point{X: 60, Y: 35}, Position: &geom.Point{X: 50, Y: 30}})
	send(Command{Op: "drag_stop", ID: id, Position: &geom.Point{X: 100, Y: 50}})
	waitFor(t, srv, id, func(m map[string]any) bool {
		g := m["geometry"].(map[string]any)
		return m["manipulating"] == false && g["x"] == float64(100) && g["y"] == float64(50)
	})

	send(Command{Op: "resize_start", ID: id})
	send(Command{Op: "resize_stop", ID: id, Size: &geom.Size{Width: 10, Height: 10}, Position: &geom.Point{X: 100, Y: 50}})
	// The stop size is below the minimum and gets clamped.
	waitFor(t, srv, id, func(m map[string]any) bool {
		g := m["geometry"].(map[string]any)
		return m["manipulating"] == false &&
			g["width"] == float64(window.DefaultMinWidth) &&
			g["height"] == float64(window.DefaultMinHeight)
	})

	send(Command{Op: "toggle_maximize", ID: id})
	waitFor(t, srv, id, func(m map[string]any) bool { return m["layout"] == "maximized" })
	send(Command{Op: "transition_end", ID: id})
	waitFor(t, srv, id, func(m map[string]any) bool { return m["transitioning"] == false })

	send(Command{Op: "close", ID: id})
	next(t, conn, typeLifecycle, func(m map[string]any) bool { return m["name"] == "close" })
	send(Command{Op: "transition_end", ID: id})
	next(t, conn, typeLifecycle, func(m map[string]any) bool { return m["name"] == "closed" })
	next(t, conn, typeEvent, func(m map[string]any) bool {
		ev := m["event"].(map[string]any)
		return ev["kind"] == "unregistered" && ev["id"] == string(id)
	})

	var n int
	if err := s.loop.Do(context.Background(), func() { n = s.reg.Len() }); err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if n != 0 {
		t.Errorf("registry len = %d, want 0", n)
	}
}

func TestStreamSendMessage(t *testing.T) {
	_, srv := newTestServer(t)
	a := createWindow(t, srv, CreateRequest{Title: "A"})
	b := createWindow(t, srv, CreateRequest{Title: "B"})

	conn := dialStream(t, srv)
	next(t, conn, typeSnapshot, nil)

	if err := conn.WriteJSON(Command{Op: "send_message", ID: a, To: b, Payload: "ping"}); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}
	msg := next(t, conn, typeEvent, func(m map[string]any) bool {
		return m["event"].(map[string]any)["kind"] == "message"
	})
	ev := msg["event"].(map[string]any)
	if ev["id"] != string(b) || ev["from"] != string(a) || ev["payload"] != "ping" {
		t.Errorf("event = %v, want message from %s to %s", ev, a, b)
	}
}

func TestTeardownUnregistersAll(t *testing.T) {
	s, srv := newTestServer(t)
	createWindow(t, srv, CreateRequest{Title: "A"})
	createWindow(t, srv, CreateRequest{Title: "B"})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	s.teardown(ctx)

	var n int
	if err := s.loop.Do(ctx, func() { n = s.reg.Len() }); err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if n != 0 {
		t.Errorf("registry len = %d, want 0", n)
	}
	if got := s.hub.len(); got != 0 {
		t.Errorf("clients = %d, want 0", got)
	}
}

func TestCheckOrigin(t *testing.T) {
	tests := []struct {
		name   string
		allow  []string
		origin string
		want   bool
	}{
		{"any", nil, "http://evil.example", true},
		{"allowed", []string{"http://localhost:5173"}, "http://localhost:5173", true},
		{"rejected", []string{"http://localhost:5173"}, "http://evil.example", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Server{cfg: Config{AllowOrigins: tt.allow}}
			r := httptest.NewRequest("GET", "/api/stream", nil)
			r.Header.Set("Origin", tt.origin)
			if got := s.checkOrigin(r); got != tt.want {
				t.Errorf("checkOrigin() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestServeShutsDown(t *testing.T) {
	s, err := New(Config{Addr: "127.0.0.1:0", FPS: 200})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}
}
