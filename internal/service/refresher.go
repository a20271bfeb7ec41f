package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/rotorops/fleetboard/internal/models"
)

// ErrNoReport means no build has completed yet in this process.
var ErrNoReport = errors.New("no report built yet")

// BuildFunc produces one finished report, typically Pipeline.Run.
type BuildFunc func(ctx context.Context) (*models.Report, error)

// Refresher serializes builds and keeps the last good report for the
// API to serve. A failed refresh leaves the previous report in place.
type Refresher struct {
	Build  BuildFunc
	Logger zerolog.Logger

	runMu   sync.Mutex
	mu      sync.RWMutex
	current *models.Report
	builtAt time.Time
}

// Current returns the most recent report, or ErrNoReport before the
// first successful refresh.
func (r *Refresher) Current() (*models.Report, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.current == nil {
		return nil, ErrNoReport
	}
	return r.current, nil
}

// BuiltAt reports when the served report was produced.
func (r *Refresher) BuiltAt() (time.Time, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.builtAt, r.current != nil
}

// Refresh runs one build. Concurrent callers queue; the history file
// and report artifact are only ever written by one run at a time.
func (r *Refresher) Refresh(ctx context.Context) (*models.Report, error) {
	r.runMu.Lock()
	defer r.runMu.Unlock()

	rep, err := r.Build(ctx)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	r.current = rep
	r.builtAt = time.Now()
	r.mu.Unlock()
	return rep, nil
}

// RunPeriodic refreshes on the interval until ctx is cancelled.
func (r *Refresher) RunPeriodic(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := r.Refresh(ctx); err != nil {
				r.Logger.Error().Err(err).Msg("scheduled refresh failed")
			}
		}
	}
}
