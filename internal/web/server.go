// Package web serves saved stories over HTTP and streams their prose to
// browsers over a websocket.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"heroforge/internal/logger"
	"heroforge/internal/store"
	"heroforge/internal/story"
)

// Streamer writes the prose for one act of a story to w.
type Streamer interface {
	StreamAct(ctx context.Context, s *story.Story, act int, w io.Writer) (int, error)
}

type Server struct {
	db       store.Store
	prose    Streamer
	upgrader websocket.Upgrader
}

// NewServer builds the handler set. A nil CheckOrigin in the upgrader means
// gorilla's same-origin check applies.
func NewServer(db store.Store, prose Streamer) *Server {
	return &Server{
		db:    db,
		prose: prose,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/stories", s.handleListStories)
	mux.HandleFunc("GET /api/stories/{id}", s.handleGetStory)
	mux.HandleFunc("GET /api/stories/{id}/markdown", s.handleGetMarkdown)
	mux.HandleFunc("GET /ws/prose", s.handleProse)
	return mux
}

// ListenAndServe blocks until ctx is cancelled or the listener fails.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	logger.Info("web server listening", "address", addr)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		logger.Info("web server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

type storySummary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Revision  int       `json:"revision"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Server) handleListStories(w http.ResponseWriter, r *http.Request) {
	items, err := s.db.ListStories(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out := make([]storySummary, 0, len(items))
	for _, item := range items {
		out = append(out, storySummary{ID: item.ID, Title: item.Title, Revision: item.Revision, UpdatedAt: item.UpdatedAt})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetStory(w http.ResponseWriter, r *http.Request) {
	rec, err := s.db.GetStory(r.Context(), r.PathValue("id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	data, err := story.Encode(rec.Story)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleGetMarkdown(w http.ResponseWriter, r *http.Request) {
	rec, err := s.db.GetStory(r.Context(), r.PathValue("id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(story.Markdown(rec.Story)))
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, store.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	logger.Error("request failed", "path", r.URL.Path, "error", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
