// Package devserver serves the built site over HTTP, watches the
// content directory for changes, rebuilds on the fly and pushes a
// live-reload signal to connected browsers over a websocket.
package devserver

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/alderfall/alder/internal/config"
)

// liveReloadScript is injected nowhere by this package directly — the
// served fragments are plain HTML, so it's exposed as its own route
// and templates are expected to include it in dev builds.
const liveReloadScript = `<script>
(function() {
  var ws = new WebSocket("ws://" + location.host + "/__alder/reload");
  ws.onmessage = function() { location.reload(); };
})();
</script>`

// Server is a dev-mode HTTP server: static file serving plus a
// broadcast channel for rebuild notifications.
type Server struct {
	cfg     *config.Config
	log     *slog.Logger
	router  chi.Router
	onBuild func() error

	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

// New builds a Server that serves cfg.OutputDir and re-runs onBuild
// whenever the file watcher fires.
func New(cfg *config.Config, log *slog.Logger, onBuild func() error) *Server {
	s := &Server{
		cfg:      cfg,
		log:      log,
		onBuild:  onBuild,
		upgrader: websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }},
		clients:  make(map[*websocket.Conn]struct{}),
	}

	r := chi.NewRouter()
	r.Get("/__alder/reload", s.handleReloadSocket)
	r.Get("/__alder/livereload.js", s.handleLiveReloadScript)
	r.Handle("/*", http.FileServer(http.Dir(cfg.OutputDir)))
	s.router = r

	return s
}

func (s *Server) handleLiveReloadScript(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/javascript")
	_, _ = w.Write([]byte(liveReloadScript))
}

func (s *Server) handleReloadSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", "err", err)
		return
	}

	s.mu.Lock()
	s.clients[conn] = struct{}{}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.clients, conn)
		s.mu.Unlock()
		_ = conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Broadcast pushes a reload notification to every connected browser.
func (s *Server) Broadcast() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for conn := range s.clients {
		if err := conn.WriteMessage(websocket.TextMessage, []byte("reload")); err != nil {
			s.log.Debug("dropping dead reload client", "err", err)
			delete(s.clients, conn)
			_ = conn.Close()
		}
	}
}

// ListenAndServe starts the HTTP server on addr. It blocks until
// the server errors out.
func (s *Server) ListenAndServe(addr string) error {
	s.log.Info("dev server listening", "addr", addr)
	return http.ListenAndServe(addr, s.router)
}

// Watch watches dirs for filesystem changes, calling onBuild on every
// write, create, remove or rename event and broadcasting a reload when
// that rebuild succeeds. It blocks until the watcher's
// channel closes or ctx-equivalent cancellation isn't needed because
// the process owns the watcher for its whole lifetime.
func (s *Server) Watch(dirs ...string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	for _, dir := range dirs {
		if err := w.Add(dir); err != nil {
			return err
		}
	}

	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			s.log.Info("change detected, rebuilding", "file", ev.Name)
			if err := s.onBuild(); err != nil {
				s.log.Error("rebuild failed", "err", err)
				continue
			}
			s.Broadcast()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			s.log.Warn("watcher error", "err", err)
		}
	}
}
