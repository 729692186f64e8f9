// Package web provides an HTTP status server for the mode-display daemon.
package web

import (
	"context"
	"image/png"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/sweeney/mode-display/internal/display"
	"github.com/sweeney/mode-display/internal/input"
	"github.com/sweeney/mode-display/internal/status"
)

// Server serves the status page over HTTP.
type Server struct {
	httpServer *http.Server
	tracker    *status.Tracker
	buttons    *input.Source
	now        func() time.Time
	push       time.Duration
	upgrader   websocket.Upgrader
}

// New creates a Server that reads state from tracker. Remote presses are
// fed into buttons and debounced like the physical ones; pass nil to
// disable them. push is the websocket update interval.
func New(addr string, tracker *status.Tracker, buttons *input.Source, push time.Duration) *Server {
	s := &Server{
		tracker: tracker,
		buttons: buttons,
		now:     time.Now,
		push:    push,
	}

	r := mux.NewRouter()
	r.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	r.HandleFunc("/index.html", s.handleIndex).Methods(http.MethodGet)
	r.HandleFunc("/index.json", s.handleJSON).Methods(http.MethodGet)
	r.HandleFunc("/frame.png", s.handleFrame).Methods(http.MethodGet)
	r.HandleFunc("/ws", s.handleWS)
	r.HandleFunc("/mode/{button:cycle|reset}", s.handlePress).Methods(http.MethodPost)

	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: r,
	}
	return s
}

// ListenAndServe starts listening. It blocks until the server is shut down.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Serve accepts connections on the given listener. Useful for tests.
func (s *Server) Serve(ln net.Listener) error {
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	snap := s.tracker.Snapshot()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	renderHTML(w, snap, s.buttons != nil)
}

func (s *Server) handleJSON(w http.ResponseWriter, r *http.Request) {
	snap := s.tracker.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	w.Write(status.FormatJSON(snap))
}

// handleFrame renders what the OLED is showing as a PNG.
func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	snap := s.tracker.Snapshot()
	c := display.NewCanvas()
	display.Draw(c, snap.Frame)

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	if err := png.Encode(w, c.Image()); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handlePress(w http.ResponseWriter, r *http.Request) {
	if s.buttons == nil {
		http.Error(w, "remote control disabled", http.StatusForbidden)
		return
	}
	if !sameOrigin(r) {
		http.Error(w, "cross-origin request", http.StatusForbidden)
		return
	}

	var b input.Button
	switch mux.Vars(r)["button"] {
	case "cycle":
		b = input.ButtonCycle
	case "reset":
		b = input.ButtonReset
	}

	if !s.buttons.Edge(b).Trigger(s.now()) {
		http.Error(w, "debounced", http.StatusTooManyRequests)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// sameOrigin reports whether r carries no Origin header (curl, scripts) or
// one naming this host, the same rule the websocket upgrader applies.
func sameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, r.Host)
}
