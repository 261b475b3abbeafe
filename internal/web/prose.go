package web

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"sync"

	"github.com/gorilla/websocket"

	"heroforge/internal/logger"
	"heroforge/internal/prose"
	"heroforge/internal/story"
)

// statusFrame is the last frame of a prose stream.
type statusFrame struct {
	Act   int    `json:"act"`
	Done  bool   `json:"done,omitempty"`
	Bytes int    `json:"bytes,omitempty"`
	Error string `json:"error,omitempty"`
	Code  string `json:"code,omitempty"`
}

// frameWriter sends each Write as one text frame.
type frameWriter struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (fw *frameWriter) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	fw.mu.Lock()
	defer fw.mu.Unlock()
	if err := fw.conn.WriteMessage(websocket.TextMessage, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (fw *frameWriter) writeJSON(v any) error {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	return fw.conn.WriteJSON(v)
}

// handleProse streams one act as text frames followed by a status frame.
// Closing the socket cancels the upstream request.
func (s *Server) handleProse(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	act, err := strconv.Atoi(r.URL.Query().Get("act"))
	if err != nil || act < 1 || act > story.ActCount {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "act must be 1, 2 or 3"})
		return
	}
	if s.prose == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "prose generation is not configured"})
		return
	}
	rec, err := s.db.GetStory(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// the reader only exists to notice the client going away
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	fw := &frameWriter{conn: conn}
	logger.Info("streaming prose", "id", rec.ID, "act", act, "remote_addr", r.RemoteAddr)
	n, err := s.prose.StreamAct(ctx, rec.Story, act, fw)

	frame := statusFrame{Act: act, Done: err == nil, Bytes: n}
	if err != nil {
		if ctx.Err() != nil {
			logger.Info("prose stream cancelled", "id", rec.ID, "act", act)
			return
		}
		frame.Error = err.Error()
		frame.Code = errorCode(err)
		logger.Warning("prose stream failed", "id", rec.ID, "act", act, "error", err)
	}
	if err := fw.writeJSON(frame); err != nil {
		logger.Debug("writing status frame", "error", err)
		return
	}
	fw.mu.Lock()
	_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	fw.mu.Unlock()
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, prose.ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, prose.ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, prose.ErrUnavailable):
		return "unavailable"
	}
	return "failed"
}
