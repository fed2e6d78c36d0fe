package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"

	"github.com/vovakirdan/blockfall/internal/registry"
	"github.com/vovakirdan/blockfall/internal/session"
	"github.com/vovakirdan/blockfall/internal/storage"
)

//go:embed static
var staticFiles embed.FS

// topScores is the number of entries the scores endpoint returns.
const topScores = 10

// ServerConfig holds configuration for the HTTP server.
type ServerConfig struct {
	// Address is the host:port to listen on (e.g., ":8080").
	Address string
}

// DefaultServerConfig returns a config with sensible defaults.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{Address: ":8080"}
}

// Server serves the browser client, the /ws endpoint and the scoreboard.
type Server struct {
	config ServerConfig
	hub    *Hub
	store  *storage.Store
	logger *log.Logger
}

// NewServer creates a server. store may be nil, in which case scores are
// neither kept nor served.
func NewServer(cfg ServerConfig, l session.Launcher, store *storage.Store) *Server {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "blockfall-web",
	})

	l.Transport = session.TransportWeb
	if l.Logger == nil {
		l.Logger = logger
	}
	if store != nil {
		l.Sink = store
	}

	return &Server{
		config: cfg,
		hub:    NewHub(l, logger),
		store:  store,
		logger: logger,
	}
}

// Hub returns the server's client hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Handler returns the HTTP routes. Sessions started through it stop when
// ctx is cancelled.
func (s *Server) Handler(ctx context.Context) http.Handler {
	router := mux.NewRouter()

	static, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err) // embedded at build time
	}
	router.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		s.hub.ServeWS(ctx, w, r)
	}).Methods(http.MethodGet)
	router.HandleFunc("/variants", s.handleVariants).Methods(http.MethodGet)
	router.HandleFunc("/scores/{variant}", s.handleScores).Methods(http.MethodGet)
	router.PathPrefix("/").Handler(http.FileServer(http.FS(static))).Methods(http.MethodGet)

	return router
}

// ListenAndServe runs the hub and the HTTP server until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	go s.hub.Run(ctx)

	srv := &http.Server{
		Addr:              s.config.Address,
		Handler:           s.Handler(ctx),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info("starting HTTP server", "address", s.config.Address)

	errc := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		if err != nil {
			return fmt.Errorf("web: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

type variantJSON struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Width       int    `json:"width,omitempty"`
	Height      int    `json:"height,omitempty"`
}

func (s *Server) handleVariants(w http.ResponseWriter, _ *http.Request) {
	variants := registry.List()
	out := make([]variantJSON, 0, len(variants))
	for _, v := range variants {
		out = append(out, variantJSON{
			ID:          v.ID,
			Title:       v.Title,
			Description: v.Description,
			Width:       v.Width,
			Height:      v.Height,
		})
	}
	s.writeJSON(w, out)
}

type scoreJSON struct {
	Player    string    `json:"player"`
	Lines     int       `json:"lines"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Server) handleScores(w http.ResponseWriter, r *http.Request) {
	variant := mux.Vars(r)["variant"]
	if !registry.Exists(variant) {
		http.Error(w, "unknown variant", http.StatusNotFound)
		return
	}

	out := []scoreJSON{}
	if s.store != nil {
		scores, err := s.store.TopScores(variant, topScores)
		if err != nil {
			s.logger.Error("cannot load scores", "variant", variant, "error", err)
			http.Error(w, "cannot load scores", http.StatusInternalServerError)
			return
		}
		for _, e := range scores {
			out = append(out, scoreJSON{Player: e.Player, Lines: e.Score, CreatedAt: e.CreatedAt})
		}
	}
	s.writeJSON(w, out)
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("cannot write response", "error", err)
	}
}
