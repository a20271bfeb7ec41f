package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/rotorops/fleetboard/internal/models"
)

func TestRefresherCurrentBeforeFirstRun(t *testing.T) {
	r := &Refresher{Logger: zerolog.Nop()}
	if _, err := r.Current(); !errors.Is(err, ErrNoReport) {
		t.Fatalf("err = %v, want ErrNoReport", err)
	}
	if _, ok := r.BuiltAt(); ok {
		t.Fatal("BuiltAt reported a build before any ran")
	}
}

func TestRefreshSwapsReport(t *testing.T) {
	n := 0
	r := &Refresher{
		Logger: zerolog.Nop(),
		Build: func(ctx context.Context) (*models.Report, error) {
			n++
			return &models.Report{Meta: models.Meta{AircraftCount: n}}, nil
		},
	}

	if _, err := r.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if _, err := r.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	rep, err := r.Current()
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if rep.Meta.AircraftCount != 2 {
		t.Fatalf("served report is from run %d, want 2", rep.Meta.AircraftCount)
	}
	if _, ok := r.BuiltAt(); !ok {
		t.Fatal("BuiltAt missing after successful refresh")
	}
}

func TestRefreshKeepsLastGoodOnFailure(t *testing.T) {
	fail := false
	r := &Refresher{
		Logger: zerolog.Nop(),
		Build: func(ctx context.Context) (*models.Report, error) {
			if fail {
				return nil, errors.New("daily due list: boom")
			}
			return &models.Report{Meta: models.Meta{RunID: "good"}}, nil
		},
	}

	if _, err := r.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	fail = true
	if _, err := r.Refresh(context.Background()); err == nil {
		t.Fatal("expected refresh error")
	}

	rep, err := r.Current()
	if err != nil {
		t.Fatalf("current after failed refresh: %v", err)
	}
	if rep.Meta.RunID != "good" {
		t.Fatalf("served run id = %q, want the last good run", rep.Meta.RunID)
	}
}

func TestRunPeriodicStopsOnCancel(t *testing.T) {
	built := make(chan struct{}, 16)
	r := &Refresher{
		Logger: zerolog.Nop(),
		Build: func(ctx context.Context) (*models.Report, error) {
			built <- struct{}{}
			return &models.Report{}, nil
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.RunPeriodic(ctx, 5*time.Millisecond)
		close(done)
	}()

	select {
	case <-built:
	case <-time.After(2 * time.Second):
		t.Fatal("no scheduled refresh ran")
	}
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("RunPeriodic did not stop after cancel")
	}
}

func TestRunPeriodicZeroIntervalReturns(t *testing.T) {
	r := &Refresher{Logger: zerolog.Nop()}
	done := make(chan struct{})
	go func() {
		r.RunPeriodic(context.Background(), 0)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("RunPeriodic with zero interval should return immediately")
	}
}
