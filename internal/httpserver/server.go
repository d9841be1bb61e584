// internal/httpserver/server.go
//
// HTTP server wiring for the wordul backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs, logging).
//   - Public endpoints: "/", "/health", "/debug/words".
//   - Game endpoints: mounted under /game (routes_game.go).
//
// Notes:
//   - The server keeps no game in memory. Each request restores the session
//     from the attempt store and the sealed secret cookie, applies one
//     action and persists. Letters typed into the active row but not yet
//     submitted live in a per-process draft cache.
//   - Requests of one player are serialized by a per-player lock.
//   - CORS is origin-aware and credentials-enabled (so cookies work).

package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/patrickmn/go-cache"

	"github.com/robalobadob/wordul/internal/config"
	"github.com/robalobadob/wordul/internal/secret"
	"github.com/robalobadob/wordul/internal/store"
	"github.com/robalobadob/wordul/internal/words"
)

// Server bundles router, attempt store and cookie crypto.
type Server struct {
	r        *chi.Mux
	cfg      config.Config
	store    store.Store
	sealer   *secret.Sealer
	locks    *keyedMutex
	limiters *cache.Cache // *rate.Limiter per client, evicted when idle
	drafts   *cache.Cache // [game.WordLength]string active row per player
	now      func() time.Time
}

// New constructs a Server, installs middleware, and registers routes.
func New(cfg config.Config, st store.Store) (*Server, error) {
	sealer, err := secret.NewSealer(cfg.CookieSecret)
	if err != nil {
		return nil, err
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 24 * time.Hour
	}
	s := &Server{
		r:        chi.NewRouter(),
		cfg:      cfg,
		store:    st,
		sealer:   sealer,
		locks:    newKeyedMutex(),
		limiters: cache.New(10*time.Minute, 10*time.Minute),
		drafts:   cache.New(cfg.SessionTTL, cfg.SessionTTL),
		now:      time.Now,
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(requestLogger)
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(10 * time.Second))
	s.r.Use(jsonContentType)
	s.r.Use(cors(cfg.ClientOrigin))

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"service": "wordul",
			"endpoints": []string{
				"/health", "POST /game/new", "GET /game", "POST /game/key",
				"POST /game/guess", "POST /game/reset",
			},
			"revealDelayMs": cfg.RevealDelay.Milliseconds(),
		})
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	s.r.Get("/debug/words", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]int{"answers": words.Count()})
	})

	s.mountGame(s.r)

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s, nil
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv.ListenAndServe()
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }
