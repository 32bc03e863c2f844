// Package httpapi serves a read-only JSON view of the results board while the
// SSH server is running.
//
// Routes:
//   - GET /healthz
//   - GET /api/games/{gameID}/results?limit=N
//   - GET /api/games/{gameID}/stats
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/vovakirdan/colormatch/internal/registry"
	"github.com/vovakirdan/colormatch/internal/storage"
)

const (
	defaultLimit = 10
	maxLimit     = 100
)

// Board is the part of the results board the API reads.
type Board interface {
	TopResults(gameID string, limit int) ([]storage.Result, error)
	Stats(gameID string) (storage.Stats, error)
}

// Server bundles the router and the board it serves.
type Server struct {
	r      *chi.Mux
	board  Board
	logger *log.Logger
}

// New constructs a Server, installs middleware, and registers routes.
func New(board Board, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{r: chi.NewRouter(), board: board, logger: logger}

	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(s.requestLogger)
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(10 * time.Second))
	s.r.Use(jsonContentType)

	s.r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	s.r.Route("/api/games/{gameID}", func(r chi.Router) {
		r.Use(knownGame)
		r.Get("/results", s.handleResults)
		r.Get("/stats", s.handleStats)
	})

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found")
	})
	s.r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed")
	})

	return s
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "address", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// knownGame rejects game IDs that are not registered.
func knownGame(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !registry.Exists(chi.URLParam(r, "gameID")) {
			writeError(w, http.StatusNotFound, "unknown_game")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", chimw.GetReqID(r.Context()),
		)
	})
}

// ------------------------------ handlers -----------------------------------

type resultJSON struct {
	RunID     string    `json:"run_id"`
	Session   string    `json:"session"`
	Score     int       `json:"score"`
	Won       bool      `json:"won"`
	Moves     int       `json:"moves"`
	TimeLeft  int       `json:"time_left"`
	TimeBonus int       `json:"time_bonus"`
	CreatedAt time.Time `json:"created_at"`
}

type resultsRes struct {
	GameID  string       `json:"game_id"`
	Results []resultJSON `json:"results"`
}

type statsRes struct {
	GameID     string     `json:"game_id"`
	Games      int        `json:"games"`
	Wins       int        `json:"wins"`
	BestScore  int        `json:"best_score"`
	AvgScore   float64    `json:"avg_score"`
	AvgMoves   float64    `json:"avg_moves"`
	LastPlayed *time.Time `json:"last_played,omitempty"`
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "gameID")

	limit := defaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxLimit {
			writeError(w, http.StatusBadRequest, "bad_limit")
			return
		}
		limit = n
	}

	results, err := s.board.TopResults(gameID, limit)
	if err != nil {
		s.logger.Error("query results", "game", gameID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal")
		return
	}

	res := resultsRes{GameID: gameID, Results: make([]resultJSON, 0, len(results))}
	for _, e := range results {
		res.Results = append(res.Results, resultJSON{
			RunID:     e.RunID,
			Session:   e.Session,
			Score:     e.Score,
			Won:       e.Won,
			Moves:     e.Moves,
			TimeLeft:  e.TimeLeft,
			TimeBonus: e.TimeBonus,
			CreatedAt: e.CreatedAt.UTC(),
		})
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "gameID")

	st, err := s.board.Stats(gameID)
	if err != nil {
		s.logger.Error("query stats", "game", gameID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal")
		return
	}

	res := statsRes{
		GameID:    gameID,
		Games:     st.Games,
		Wins:      st.Wins,
		BestScore: st.BestScore,
		AvgScore:  st.AvgScore,
		AvgMoves:  st.AvgMoves,
	}
	if !st.LastPlayed.IsZero() {
		t := st.LastPlayed.UTC()
		res.LastPlayed = &t
	}
	writeJSON(w, http.StatusOK, res)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}
