// Package server serves the dashboard pages over HTTP and streams chart
// frames to the browser over a websocket.
package server

import (
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/user/riskboard-go/internal/catalog"
	"github.com/user/riskboard-go/internal/chart"
	"github.com/user/riskboard-go/internal/dashboard"
	"github.com/user/riskboard-go/internal/models"
	"github.com/user/riskboard-go/internal/sample"
)

//go:embed templates/*.html
var templateFiles embed.FS

// Image size limits for the one-shot chart endpoint.
const (
	defaultImageWidth  = 640
	defaultImageHeight = 384
	maxImageSide       = 4096
)

// Config holds the dependencies of a Server.
type Config struct {
	Engine chart.Engine
	// Seed for sample data; 0 draws new numbers for every session.
	Seed   uint64
	Logger *slog.Logger
}

// Server hosts one dashboard session per websocket connection.
type Server struct {
	engine    chart.Engine
	seed      uint64
	logger    *slog.Logger
	templates *template.Template
	upgrader  websocket.Upgrader

	mu       sync.Mutex
	sessions map[string]*liveSession
}

type liveSession struct {
	sess *dashboard.Session
	conn *liveConn
}

// New creates a Server. Panics if the embedded templates do not parse.
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		engine:    cfg.Engine,
		seed:      cfg.Seed,
		logger:    logger,
		templates: template.Must(template.New("").ParseFS(templateFiles, "templates/*.html")),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 64 * 1024,
		},
		sessions: make(map[string]*liveSession),
	}
}

// RegisterRoutes adds the dashboard routes to mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /pages/{name}", s.handlePage)
	mux.HandleFunc("GET /pages/{name}/charts/{file}", s.handleChartImage)
	mux.HandleFunc("GET /ws/{name}", s.handleLive)
	mux.HandleFunc("GET /healthz", s.handleHealth)
}

// Handler returns a mux with every route registered.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)
	return mux
}

// Sessions returns the number of live websocket sessions.
func (s *Server) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Close unmounts every live session and closes its websocket. Hijacked
// connections are not covered by http.Server.Shutdown, so call Close
// after it.
func (s *Server) Close() {
	s.mu.Lock()
	sessions := make([]*liveSession, 0, len(s.sessions))
	for _, ls := range s.sessions {
		sessions = append(sessions, ls)
	}
	s.mu.Unlock()

	for _, ls := range sessions {
		ls.sess.Unmount()
		ls.conn.close()
	}
}

func (s *Server) track(sess *dashboard.Session, conn *liveConn) {
	s.mu.Lock()
	s.sessions[sess.ID()] = &liveSession{sess: sess, conn: conn}
	s.mu.Unlock()
}

func (s *Server) untrack(sess *dashboard.Session) {
	s.mu.Lock()
	delete(s.sessions, sess.ID())
	s.mu.Unlock()
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		s.logger.Error("template render failed", "template", name, "error", err)
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, "index.html", dashboard.Pages())
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	page, err := dashboard.Lookup(r.PathValue("name"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	s.render(w, "page.html", page)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"engine":   s.engine.Name(),
		"sessions": s.Sessions(),
	})
}

// imageTarget is a fixed-size chart.Target that keeps the last frame.
type imageTarget struct {
	id     string
	width  int
	height int
	frame  *models.Frame
}

func (t *imageTarget) ID() string                 { return t.id }
func (t *imageTarget) Bounds() (int, int)         { return t.width, t.height }
func (t *imageTarget) Present(frame models.Frame) { t.frame = &frame }

// handleChartImage renders one chart of a page to PNG with a throwaway
// adapter.
func (s *Server) handleChartImage(w http.ResponseWriter, r *http.Request) {
	page, err := dashboard.Lookup(r.PathValue("name"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	name, ok := strings.CutSuffix(r.PathValue("file"), ".png")
	if !ok {
		http.NotFound(w, r)
		return
	}
	component, ok := page.Chart(name)
	if !ok {
		http.Error(w, "unknown chart "+strconv.Quote(name), http.StatusNotFound)
		return
	}

	q := r.URL.Query()
	width, err := intParam(q.Get("width"), defaultImageWidth)
	if err != nil {
		http.Error(w, "width: "+err.Error(), http.StatusBadRequest)
		return
	}
	height, err := intParam(q.Get("height"), defaultImageHeight)
	if err != nil {
		http.Error(w, "height: "+err.Error(), http.StatusBadRequest)
		return
	}
	seed := s.seed
	if v := q.Get("seed"); v != "" {
		if seed, err = strconv.ParseUint(v, 10, 64); err != nil {
			http.Error(w, "seed: invalid number", http.StatusBadRequest)
			return
		}
	}

	target := &imageTarget{id: page.Name + "/" + name, width: width, height: height}
	adapter := chart.NewAdapter(s.engine, chart.NewViewport(width, height), s.logger)
	inst := adapter.Attach(target, component.Config(catalog.NewDataset(sample.New(seed))))
	if inst == nil {
		http.Error(w, "chart unavailable with engine "+s.engine.Name(), http.StatusUnprocessableEntity)
		return
	}
	adapter.Detach(inst)

	w.Header().Set("Content-Type", "image/"+target.frame.Format)
	w.Header().Set("Cache-Control", "no-store")
	if _, err := w.Write(target.frame.Data); err != nil {
		s.logger.Debug("chart image write failed", "chart", target.id, "error", err)
	}
}

var errParamRange = errors.New("out of range")

func intParam(v string, def int) (int, error) {
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.New("invalid number")
	}
	if n <= 0 || n > maxImageSide {
		return 0, errParamRange
	}
	return n, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
