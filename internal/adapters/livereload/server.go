// Package livereload serves the output directory and pushes change
// notifications to connected browsers over Server-Sent Events.
package livereload

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/browser"
	"go.trai.ch/press/internal/core/domain"
	"go.trai.ch/press/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	// EventsPath is the SSE endpoint clients subscribe to.
	EventsPath = "/__press/events"
	// ClientPath serves the browser client script.
	ClientPath = "/__press/client.js"

	clientBuffer    = 16
	shutdownTimeout = 2 * time.Second
)

//go:embed client.js
var clientScript []byte

var clientTag = []byte(`<script src="` + ClientPath + `"></script>`)

var _ ports.Reloader = (*Server)(nil)

type event struct {
	name string
	data []byte
}

// Server is a static file server with a live-reload push channel.
type Server struct {
	dir    string
	cfg    domain.ServeConfig
	logger ports.Logger
	open   func(url string) error

	mu      sync.Mutex
	clients map[uuid.UUID]chan event
	url     string
	done    chan struct{}
}

// Option configures a Server.
type Option func(*Server)

// WithOpener replaces the function used to open the browser.
func WithOpener(open func(url string) error) Option {
	return func(s *Server) {
		s.open = open
	}
}

// NewServer creates a Server for dir. Nothing listens until Start.
func NewServer(dir string, cfg domain.ServeConfig, logger ports.Logger, opts ...Option) *Server {
	s := &Server{
		dir:     dir,
		cfg:     cfg,
		logger:  logger,
		open:    browser.OpenURL,
		clients: make(map[uuid.UUID]chan event),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start binds the listener and serves in the background until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrServerStartFailed.Error()), "addr", addr)
	}

	host := s.cfg.Host
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	port := ln.Addr().(*net.TCPAddr).Port
	s.mu.Lock()
	s.url = "http://" + net.JoinHostPort(host, strconv.Itoa(port)) + "/"
	s.mu.Unlock()

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error(zerr.Wrap(err, domain.ErrServerStartFailed.Error()))
		}
	}()
	go func() {
		<-ctx.Done()
		s.closeClients()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(fmt.Sprintf("serving %s at %s", s.dir, s.URL()))
	if s.cfg.Open {
		if err := s.open(s.URL()); err != nil {
			s.logger.Warn("could not open browser: " + err.Error())
		}
	}
	return nil
}

// URL returns the address browsers should open. It is empty before Start.
func (s *Server) URL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.url
}

// Reload asks every connected client to reload the page.
func (s *Server) Reload() {
	s.broadcast(event{name: "reload", data: []byte("{}")})
}

// InjectCSS pushes the stylesheet content for path to every connected client.
func (s *Server) InjectCSS(path string, content []byte) {
	data, err := json.Marshal(struct {
		Path    string `json:"path"`
		Content string `json:"content"`
	}{Path: filepath.ToSlash(path), Content: string(content)})
	if err != nil {
		s.logger.Error(err)
		return
	}
	s.broadcast(event{name: "css", data: data})
}

// Handler returns the HTTP handler serving files, the client script and the event stream.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(EventsPath, s.serveEvents)
	mux.HandleFunc(ClientPath, serveClient)
	mux.HandleFunc("/", s.serveFile)

	if !s.cfg.CORS {
		return mux
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		mux.ServeHTTP(w, r)
	})
}

func serveClient(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(clientScript)
}

func (s *Server) serveFile(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")

	name := filepath.Join(s.dir, filepath.FromSlash(path.Clean("/"+r.URL.Path)))
	info, err := os.Stat(name)
	if err == nil && info.IsDir() {
		name = filepath.Join(name, "index.html")
		info, err = os.Stat(name)
	}
	if err != nil || filepath.Ext(name) != ".html" {
		http.FileServer(http.Dir(s.dir)).ServeHTTP(w, r)
		return
	}

	page, err := os.ReadFile(name) //nolint:gosec // Path is cleaned and rooted at the served directory
	if err != nil {
		http.Error(w, "failed to read page", http.StatusInternalServerError)
		return
	}
	http.ServeContent(w, r, name, info.ModTime(), bytes.NewReader(InjectClient(page)))
}

// InjectClient inserts the client script tag before the closing body tag,
// or appends it when the page has none.
func InjectClient(page []byte) []byte {
	idx := bytes.LastIndex(bytes.ToLower(page), []byte("</body>"))
	if idx < 0 {
		return append(append([]byte(nil), page...), clientTag...)
	}
	out := make([]byte, 0, len(page)+len(clientTag))
	out = append(out, page[:idx]...)
	out = append(out, clientTag...)
	return append(out, page[idx:]...)
}

func (s *Server) serveEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	id, ch, ok := s.subscribe()
	if !ok {
		http.Error(w, "server shutting down", http.StatusServiceUnavailable)
		return
	}
	defer s.unsubscribe(id)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	_, _ = fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-s.done:
			return
		case ev := <-ch:
			_, _ = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.name, ev.data)
			flusher.Flush()
		}
	}
}

func (s *Server) subscribe() (uuid.UUID, chan event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	select {
	case <-s.done:
		return uuid.UUID{}, nil, false
	default:
	}
	id := uuid.New()
	ch := make(chan event, clientBuffer)
	s.clients[id] = ch
	return id, ch, true
}

func (s *Server) unsubscribe(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.clients, id)
}

// broadcast queues ev for every client; a client whose queue is full misses it.
func (s *Server) broadcast(ev event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, ch := range s.clients {
		select {
		case ch <- ev:
		default:
			s.logger.Warn("live-reload client " + id.String() + " is not keeping up, dropping " + ev.name)
		}
	}
}

func (s *Server) closeClients() {
	s.mu.Lock()
	defer s.mu.Unlock()
	select {
	case <-s.done:
	default:
		close(s.done)
	}
}
