package history

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/rotorops/fleetboard/internal/models"
)

func testStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "history.json")
	return &Store{Path: path, Logger: zerolog.Nop()}, dir
}

func TestLoadMissingFile(t *testing.T) {
	s, _ := testStore(t)
	h := s.Load()
	if h == nil || len(h) != 0 {
		t.Fatalf("expected empty history, got %v", h)
	}
}

func TestLoadCorruptFile(t *testing.T) {
	s, _ := testStore(t)
	if err := os.WriteFile(s.Path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("seed corrupt file: %v", err)
	}
	h := s.Load()
	if len(h) != 0 {
		t.Fatalf("expected empty history from corrupt file, got %v", h)
	}
}

func TestMergeFirstWriterWins(t *testing.T) {
	h := models.History{}
	added := Merge(h, []models.Snapshot{
		{Tail: "N123BH", Date: "2024-04-20", Hours: 100},
		{Tail: "N123BH", Date: "2024-04-21", Hours: 103},
	})
	if added != 2 {
		t.Fatalf("expected 2 added, got %d", added)
	}

	added = Merge(h, []models.Snapshot{
		{Tail: "N123BH", Date: "2024-04-20", Hours: 999},
		{Tail: "N123BH", Date: "2024-04-22", Hours: 105},
	})
	if added != 1 {
		t.Fatalf("expected 1 added on remerge, got %d", added)
	}
	if got := h["N123BH"]["2024-04-20"].Hours; got != 100 {
		t.Fatalf("existing entry overwritten: got %v, want 100", got)
	}
	if got := h["N123BH"]["2024-04-22"].Hours; got != 105 {
		t.Fatalf("new entry missing: got %v", got)
	}
}

func TestMergeIdempotent(t *testing.T) {
	snaps := []models.Snapshot{
		{Tail: "N123BH", Date: "2024-04-20", Hours: 100},
		{Tail: "N456XY", Date: "2024-04-20", Hours: 50},
	}
	h := models.History{}
	Merge(h, snaps)
	if added := Merge(h, snaps); added != 0 {
		t.Fatalf("expected idempotent remerge, got %d added", added)
	}
	if len(h) != 2 || len(h["N123BH"]) != 1 {
		t.Fatalf("unexpected history shape: %v", h)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s, _ := testStore(t)
	h := models.History{
		"N123BH": {"2024-04-20": {Hours: 100.5}, "2024-04-21": {Hours: 103}},
	}
	if err := s.Save(h); err != nil {
		t.Fatalf("save: %v", err)
	}
	got := s.Load()
	if got["N123BH"]["2024-04-20"].Hours != 100.5 || got["N123BH"]["2024-04-21"].Hours != 103 {
		t.Fatalf("round trip mismatch: %v", got)
	}
}

func TestSaveReplacesAtomically(t *testing.T) {
	s, dir := testStore(t)
	if err := s.Save(models.History{"N123BH": {"2024-04-20": {Hours: 1}}}); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if err := s.Save(models.History{"N123BH": {"2024-04-20": {Hours: 1}, "2024-04-21": {Hours: 2}}}); err != nil {
		t.Fatalf("second save: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".history-") {
			t.Fatalf("temp file left behind: %s", e.Name())
		}
	}
	if got := s.Load(); len(got["N123BH"]) != 2 {
		t.Fatalf("expected replaced file with 2 days, got %v", got)
	}
}

func TestSaveCreatesParentDirs(t *testing.T) {
	dir := t.TempDir()
	s := &Store{Path: filepath.Join(dir, "data", "nested", "history.json"), Logger: zerolog.Nop()}
	if err := s.Save(models.History{}); err != nil {
		t.Fatalf("save into nested dir: %v", err)
	}
	if _, err := os.Stat(s.Path); err != nil {
		t.Fatalf("expected history file to exist: %v", err)
	}
}
