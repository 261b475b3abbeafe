package web

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"heroforge/internal/motif"
	"heroforge/internal/prose"
	"heroforge/internal/roll"
	"heroforge/internal/store"
	"heroforge/internal/store/sqlite"
	"heroforge/internal/story"
)

type fakeStreamer struct {
	chunks []string
	err    error
	block  bool

	started   chan struct{}
	cancelled chan struct{}
}

func (f *fakeStreamer) StreamAct(ctx context.Context, s *story.Story, act int, w io.Writer) (int, error) {
	if f.started != nil {
		close(f.started)
	}
	if f.block {
		<-ctx.Done()
		close(f.cancelled)
		return 0, ctx.Err()
	}
	n := 0
	for _, chunk := range f.chunks {
		written, err := io.WriteString(w, chunk)
		n += written
		if err != nil {
			return n, err
		}
	}
	return n, f.err
}

func testStore(t *testing.T) (*sqlite.Client, *store.StoryRecord) {
	t.Helper()
	ctx := context.Background()
	db, err := sqlite.New(ctx, "sqlite://"+filepath.Join(t.TempDir(), "web.db"))
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { _ = db.Close(ctx) })
	if err := db.EnsureSchema(ctx); err != nil {
		t.Fatalf("ensuring schema: %v", err)
	}

	pools := motif.Pools{
		motif.Being:  {"lantern keeper", "river witch", "stone giant"},
		motif.Human:  {"ferryman", "weaver"},
		motif.Object: {"bone flute", "copper ring"},
		motif.Place:  {"salt marsh", "glass tower"},
	}
	rec := store.NewRecord(story.Generate(motif.NewPicker(pools, roll.New(3))), 3)
	if err := db.SaveStory(ctx, rec); err != nil {
		t.Fatalf("saving story: %v", err)
	}
	return db, rec
}

func dialProse(t *testing.T, srv *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/prose?" + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dialing: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readFrames(t *testing.T, conn *websocket.Conn) ([]string, statusFrame) {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var frames []string
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("reading frame: %v", err)
		}
		var status statusFrame
		if strings.HasPrefix(string(data), `{"act":`) && json.Unmarshal(data, &status) == nil {
			return frames, status
		}
		frames = append(frames, string(data))
	}
}

func TestStoryEndpoints(t *testing.T) {
	db, rec := testStore(t)
	srv := httptest.NewServer(NewServer(db, nil).Handler())
	defer srv.Close()

	t.Run("story json decodes", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/api/stories/" + rec.ID)
		if err != nil {
			t.Fatalf("requesting: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
		data, _ := io.ReadAll(resp.Body)
		got, err := story.Decode(data)
		if err != nil {
			t.Fatalf("decoding: %v", err)
		}
		if got.Title() != rec.Title {
			t.Fatalf("expected %q, got %q", rec.Title, got.Title())
		}
	})

	t.Run("markdown", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/api/stories/" + rec.ID + "/markdown")
		if err != nil {
			t.Fatalf("requesting: %v", err)
		}
		defer resp.Body.Close()
		data, _ := io.ReadAll(resp.Body)
		if !strings.HasPrefix(resp.Header.Get("Content-Type"), "text/markdown") {
			t.Fatalf("expected markdown content type, got %q", resp.Header.Get("Content-Type"))
		}
		if string(data) != story.Markdown(rec.Story) {
			t.Fatalf("expected rendered outline")
		}
	})

	t.Run("list", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/api/stories")
		if err != nil {
			t.Fatalf("requesting: %v", err)
		}
		defer resp.Body.Close()
		var list []storySummary
		if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
			t.Fatalf("decoding: %v", err)
		}
		if len(list) != 1 || list[0].ID != rec.ID {
			t.Fatalf("expected the saved story, got %+v", list)
		}
	})

	t.Run("unknown story is 404", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/api/stories/00000000-0000-0000-0000-000000000000")
		if err != nil {
			t.Fatalf("requesting: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", resp.StatusCode)
		}
	})
}

func TestProseSocket(t *testing.T) {
	db, rec := testStore(t)

	t.Run("streams chunks then done", func(t *testing.T) {
		srv := httptest.NewServer(NewServer(db, &fakeStreamer{chunks: []string{"Once ", "upon ", "a time."}}).Handler())
		defer srv.Close()

		conn := dialProse(t, srv, "id="+rec.ID+"&act=1")
		frames, status := readFrames(t, conn)
		if strings.Join(frames, "") != "Once upon a time." {
			t.Fatalf("expected streamed prose, got %q", frames)
		}
		if !status.Done || status.Act != 1 || status.Bytes != len("Once upon a time.") {
			t.Fatalf("unexpected status frame: %+v", status)
		}
	})

	t.Run("service errors end with an error frame", func(t *testing.T) {
		failing := &fakeStreamer{
			chunks: []string{"Once"},
			err:    &prose.ActError{Act: 2, Err: fmt.Errorf("%w: slow down", prose.ErrRateLimited)},
		}
		srv := httptest.NewServer(NewServer(db, failing).Handler())
		defer srv.Close()

		conn := dialProse(t, srv, "id="+rec.ID+"&act=2")
		frames, status := readFrames(t, conn)
		if len(frames) != 1 {
			t.Fatalf("expected partial prose before the error, got %q", frames)
		}
		if status.Done || status.Code != "rate_limited" || status.Error == "" {
			t.Fatalf("unexpected status frame: %+v", status)
		}
	})

	t.Run("closing the socket cancels the stream", func(t *testing.T) {
		blocking := &fakeStreamer{block: true, started: make(chan struct{}), cancelled: make(chan struct{})}
		srv := httptest.NewServer(NewServer(db, blocking).Handler())
		defer srv.Close()

		conn := dialProse(t, srv, "id="+rec.ID+"&act=3")
		<-blocking.started
		conn.Close()
		select {
		case <-blocking.cancelled:
		case <-time.After(5 * time.Second):
			t.Fatalf("expected stream to be cancelled")
		}
	})

	t.Run("bad requests are rejected before upgrade", func(t *testing.T) {
		srv := httptest.NewServer(NewServer(db, &fakeStreamer{}).Handler())
		defer srv.Close()

		tests := []struct {
			query  string
			status int
		}{
			{"id=" + rec.ID + "&act=0", http.StatusBadRequest},
			{"id=" + rec.ID, http.StatusBadRequest},
			{"id=00000000-0000-0000-0000-000000000000&act=1", http.StatusNotFound},
		}
		for _, tt := range tests {
			resp, err := http.Get(srv.URL + "/ws/prose?" + tt.query)
			if err != nil {
				t.Fatalf("requesting: %v", err)
			}
			resp.Body.Close()
			if resp.StatusCode != tt.status {
				t.Fatalf("%s: expected %d, got %d", tt.query, tt.status, resp.StatusCode)
			}
		}
	})

	t.Run("missing prose client is unavailable", func(t *testing.T) {
		srv := httptest.NewServer(NewServer(db, nil).Handler())
		defer srv.Close()
		resp, err := http.Get(srv.URL + "/ws/prose?id=" + rec.ID + "&act=1")
		if err != nil {
			t.Fatalf("requesting: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusServiceUnavailable {
			t.Fatalf("expected 503, got %d", resp.StatusCode)
		}
	})
}
