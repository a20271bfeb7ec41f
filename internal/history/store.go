package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/rotorops/fleetboard/internal/models"
)

// Store persists the accumulated airframe-hour snapshots as one JSON file.
// The file is the only copy of days no longer present in any export, so
// Save always goes through a temp file and an atomic rename.
type Store struct {
	Path   string
	Logger zerolog.Logger
}

// Load reads the history file. A missing, unreadable, or corrupt file
// degrades to an empty history so a build can cold-start; accumulation
// resumes from the current run.
func (s *Store) Load() models.History {
	raw, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			s.Logger.Debug().Str("path", s.Path).Msg("no history file, starting empty")
		} else {
			s.Logger.Warn().Err(err).Str("path", s.Path).Msg("history unreadable, starting empty")
		}
		return models.History{}
	}
	var h models.History
	if err := json.Unmarshal(raw, &h); err != nil {
		s.Logger.Warn().Err(err).Str("path", s.Path).Msg("history corrupt, starting empty")
		return models.History{}
	}
	if h == nil {
		h = models.History{}
	}
	return h
}

// Merge folds snapshots into h without ever replacing an existing
// (tail, day) entry. Returns the number of entries added. Re-merging the
// same snapshots is a no-op.
func Merge(h models.History, snaps []models.Snapshot) int {
	added := 0
	for _, snap := range snaps {
		days, ok := h[snap.Tail]
		if !ok {
			days = map[string]models.HistoryEntry{}
			h[snap.Tail] = days
		}
		if _, ok := days[snap.Date]; ok {
			continue
		}
		days[snap.Date] = models.HistoryEntry{Hours: snap.Hours}
		added++
	}
	return added
}

// Save writes h to the store path, replacing the previous file atomically.
func (s *Store) Save(h models.History) error {
	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create history dir: %w", err)
	}

	raw, err := json.MarshalIndent(h, "", "  ")
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".history-*")
	if err != nil {
		return fmt.Errorf("create temp history: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp history: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp history: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp history: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod temp history: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.Path); err != nil {
		return fmt.Errorf("replace history: %w", err)
	}
	return nil
}
