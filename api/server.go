package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"github.com/wricardo/life-maze/game/config"
	"github.com/wricardo/life-maze/game/maze"
	"github.com/wricardo/life-maze/game/service"
)

// SocketHandler upgrades and serves websocket connections
type SocketHandler interface {
	ServeWS(w http.ResponseWriter, r *http.Request)
}

// Options configures the HTTP surface
type Options struct {
	// AssetsDir holds the avatar images 1.jpg through 5.jpg.
	AssetsDir string
	// AllowedOrigins feeds the CORS policy; "*" or empty allows any origin.
	AllowedOrigins []string
	Logger         logrus.FieldLogger
}

// Server represents the HTTP API server
type Server struct {
	lobby     service.LobbyService
	sockets   SocketHandler
	router    *mux.Router
	handler   http.Handler
	assetsDir string
	log       logrus.FieldLogger
}

// NewServer creates a new API server
func NewServer(lobby service.LobbyService, sockets SocketHandler, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}

	s := &Server{
		lobby:     lobby,
		sockets:   sockets,
		router:    mux.NewRouter(),
		assetsDir: opts.AssetsDir,
		log:       opts.Logger.WithField("component", "api"),
	}

	s.setupRoutes()
	s.handler = newCORS(opts.AllowedOrigins).Handler(s.router)
	return s
}

func newCORS(origins []string) *cors.Cors {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
	})
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	// WebSocket, either on /ws or as an upgrade of the root path
	s.router.HandleFunc("/ws", s.sockets.ServeWS)
	s.router.MatcherFunc(func(r *http.Request, _ *mux.RouteMatch) bool {
		return r.URL.Path == "/" && websocket.IsWebSocketUpgrade(r)
	}).HandlerFunc(s.sockets.ServeWS)

	// Room discovery
	s.router.HandleFunc("/rooms", s.handleListRooms).Methods("GET")

	// API routes
	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("", s.handleIndex).Methods("GET")
	api.HandleFunc("/health", s.handleHealth).Methods("GET")
	api.HandleFunc("/rooms", s.handleListRooms).Methods("GET")
	api.HandleFunc("/stats", s.handleStats).Methods("GET")
	api.HandleFunc("/levels", s.handleListLevels).Methods("GET")
	api.HandleFunc("/levels/{level:[0-9]+}/maze", s.handlePreviewMaze).Methods("GET")

	// Avatar images
	s.router.HandleFunc("/assets/images/{id:[1-5]}.jpg", s.handleAvatar).Methods("GET")

	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Not Found", http.StatusNotFound)
	})
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// Room Handlers

func (s *Server) handleListRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := s.lobby.ListRooms(r.Context())
	if err != nil {
		s.log.WithError(err).Error("Failed to list rooms")
		respondError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"rooms": rooms,
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.lobby.Stats(r.Context())
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

// Level Handlers

func (s *Server) handleListLevels(w http.ResponseWriter, r *http.Request) {
	levels, err := s.lobby.ListLevels(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":  len(levels),
		"levels": levels,
	})
}

func (s *Server) handlePreviewMaze(w http.ResponseWriter, r *http.Request) {
	level, err := strconv.Atoi(mux.Vars(r)["level"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid level")
		return
	}

	seedParam := r.URL.Query().Get("seed")
	if seedParam == "" {
		respondError(w, http.StatusBadRequest, "seed query parameter required")
		return
	}
	seed, err := strconv.ParseInt(seedParam, 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "seed must be an integer")
		return
	}

	preview, err := s.lobby.PreviewMaze(r.Context(), level, seed)
	switch {
	case errors.Is(err, config.ErrLevelNotFound):
		respondError(w, http.StatusNotFound, err.Error())
		return
	case errors.Is(err, maze.ErrInvalidSeed), errors.Is(err, maze.ErrInvalidSize):
		respondError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if r.URL.Query().Get("format") == "ascii" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte(preview.ASCII))
		return
	}
	respondJSON(w, http.StatusOK, preview)
}

// Asset Handlers

func (s *Server) handleAvatar(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["id"] + ".jpg"

	data, err := os.ReadFile(filepath.Join(s.assetsDir, name))
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.log.WithError(err).WithField("file", name).Error("Failed to read avatar")
			http.Error(w, "Error reading file", http.StatusInternalServerError)
			return
		}
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(data)
}

// Index and health

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"service": "lifemaze",
		"endpoints": []string{
			"GET /rooms",
			"GET /api/levels",
			"GET /api/levels/{level}/maze?seed={seed}",
			"GET /api/stats",
			"GET /assets/images/{1-5}.jpg",
			"WS  /ws",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
