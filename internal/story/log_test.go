package story

import (
	"bytes"
	"strings"
	"testing"

	"heroforge/internal/logger"
	"heroforge/internal/motif"
)

func captureDebug(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	logger.SetOutput(&buf, "text", "DEBUG")
	t.Cleanup(logger.Reset)
	return &buf
}

func TestRegenerateLogsCascade(t *testing.T) {
	buf := captureDebug(t)
	s := testStory(t, 35)

	if _, _, err := RegenerateBeatReport(testPicker(36), s, int(KindMentor)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "beat regenerated") || !strings.Contains(out, "beat=3") {
		t.Fatalf("expected regeneration log for beat 3, got %q", out)
	}
	if !strings.Contains(out, "cascade=\"[3 7 8]\"") {
		t.Fatalf("expected cascade [3 7 8] in log, got %q", out)
	}
}

func TestSyncLogsRewrittenCount(t *testing.T) {
	old := legacyStory(t)
	edited := withHero(old, Entity{
		Name: val(motif.Human, "New"),
		Mods: []Modifier{{Label: "wants", Value: val(motif.Object, "a sword")}},
	})

	buf := captureDebug(t)
	Sync(old, edited)
	out := buf.String()
	if !strings.Contains(out, "story synced") || !strings.Contains(out, "rewritten=") {
		t.Fatalf("expected sync log with rewritten count, got %q", out)
	}
	if strings.Contains(out, "rewritten=0") {
		t.Fatalf("expected at least one rewritten field, got %q", out)
	}
}
