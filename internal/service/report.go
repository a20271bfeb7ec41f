package service

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/rotorops/fleetboard/internal/history"
	"github.com/rotorops/fleetboard/internal/ingest"
	"github.com/rotorops/fleetboard/internal/models"
)

// Builder runs one report build: read the exports, fold snapshots into
// history, estimate utilization, classify tracked inspections, and
// assemble the dashboard payload.
type Builder struct {
	DailyCSV        string
	WeeklyCSV       string
	History         *history.Store
	Rules           []models.Rule
	Thresholds      Thresholds
	FleetName       string
	ComponentWindow float64
	Logger          zerolog.Logger

	// Now pins the clock for reproducible builds; nil means wall clock.
	Now func() time.Time
}

func (b *Builder) now() time.Time {
	if b.Now != nil {
		return b.Now()
	}
	return time.Now()
}

// Build executes one run. A missing daily export or a header without the
// required columns is fatal; a weekly export is merged only when present,
// and row-level junk is skipped and counted.
func (b *Builder) Build() (*models.Report, error) {
	start := time.Now()

	daily, err := ingest.ReadExport(b.DailyCSV)
	if err != nil {
		return nil, fmt.Errorf("daily due list: %w", err)
	}
	skipped := daily.Skipped
	snaps := ingest.ExtractSnapshots(daily.Rows)

	if b.WeeklyCSV != "" {
		if _, statErr := os.Stat(b.WeeklyCSV); statErr == nil {
			weekly, err := ingest.ReadExport(b.WeeklyCSV)
			if err != nil {
				return nil, fmt.Errorf("weekly due list: %w", err)
			}
			skipped += weekly.Skipped
			snaps = append(snaps, ingest.ExtractSnapshots(weekly.Rows)...)
			b.Logger.Debug().Str("path", weekly.Path).Msg("weekly export merged into history")
		}
	}

	hist := b.History.Load()
	added := history.Merge(hist, snaps)
	if err := b.History.Save(hist); err != nil {
		return nil, fmt.Errorf("save history: %w", err)
	}

	now := b.now()
	report := &models.Report{
		Aircraft:   assembleAircraft(daily.Rows, hist, b.Rules, b.Thresholds, now),
		Components: collectComponents(daily.Rows, b.ComponentWindow),
	}
	report.Meta = models.Meta{
		ReportDate:    latestReportDate(daily.Rows),
		GeneratedUTC:  now.UTC().Format("2006-01-02T15:04:05") + "Z",
		FleetName:     b.FleetName,
		Source:        daily.Path,
		AircraftCount: len(report.Aircraft),
		RunID:         uuid.NewString(),
		SkippedRows:   skipped,
	}

	b.logSummary(report, hist, added, time.Since(start))
	return report, nil
}

func assembleAircraft(rows []ingest.Row, hist models.History, rules []models.Rule, th Thresholds, now time.Time) []models.Aircraft {
	type acc struct {
		hours      *float64
		reportDate *string
		items      []models.DueItem
	}
	byTail := map[string]*acc{}

	for _, r := range rows {
		if r.ItemType != "INSPECTION" || r.Tail == "" {
			continue
		}
		label, ok := TagInspection(r.ATA, rules)
		if !ok {
			continue
		}
		a, ok := byTail[r.Tail]
		if !ok {
			// Airframe totals come from the first tracked row for the tail.
			a = &acc{hours: r.AirframeHours, reportDate: r.ReportDate}
			byTail[r.Tail] = a
		}
		a.items = append(a.items, models.DueItem{
			Inspection:     label,
			ATA:            r.ATA,
			Description:    r.Description,
			DueDate:        r.DueDate,
			RemainingDays:  r.RemainingDays,
			RemainingHours: r.RemainingHours,
			NextDueStatus:  r.NextDueStatus,
			Status:         Classify(r.RemainingDays, r.RemainingHours, th),
		})
	}

	tails := make([]string, 0, len(byTail))
	for tail := range byTail {
		tails = append(tails, tail)
	}
	sort.Strings(tails)

	out := make([]models.Aircraft, 0, len(tails))
	for _, tail := range tails {
		a := byTail[tail]
		SortItems(a.items)
		util := EstimateUtilization(hist[tail], now)
		out = append(out, models.Aircraft{
			Tail:               tail,
			AirframeHours:      a.hours,
			AirframeReportDate: a.reportDate,
			AvgDaily:           util.AvgDaily,
			ProjectionWeekly:   util.ProjectionWeekly,
			ProjectionMonthly:  util.ProjectionMonthly,
			DailyData:          util.DailyData,
			Items:              a.items,
		})
	}
	return out
}

// collectComponents gathers life-limited parts and overhaul inspections
// inside the remaining-hours window, nearest due first.
func collectComponents(rows []ingest.Row, window float64) []models.Component {
	comps := make([]models.Component, 0)
	add := func(r ingest.Row, itemType string) {
		if r.RemainingHours == nil || *r.RemainingHours > window {
			return
		}
		comps = append(comps, models.Component{
			Tail:           r.Tail,
			ATA:            r.ATA,
			Description:    r.Description,
			ItemType:       itemType,
			RemainingHours: *r.RemainingHours,
		})
	}
	for _, r := range rows {
		if r.ItemType == "PART" {
			add(r, models.ComponentPart)
		}
	}
	for _, r := range rows {
		if r.ItemType == "INSPECTION" && r.RequirementType == "OVERHAUL" {
			add(r, models.ComponentOverhaul)
		}
	}
	sort.SliceStable(comps, func(i, j int) bool {
		return comps[i].RemainingHours < comps[j].RemainingHours
	})
	return comps
}

func latestReportDate(rows []ingest.Row) *string {
	var latest *string
	for i := range rows {
		d := rows[i].ReportDate
		if d == nil {
			continue
		}
		if latest == nil || *d > *latest {
			latest = d
		}
	}
	return latest
}

func (b *Builder) logSummary(rep *models.Report, hist models.History, added int, elapsed time.Duration) {
	total := 0
	for _, days := range hist {
		total += len(days)
	}
	b.Logger.Info().
		Str("source", rep.Meta.Source).
		Int("aircraft", rep.Meta.AircraftCount).
		Int("components", len(rep.Components)).
		Int("snapshots_added", added).
		Int("snapshots_total", total).
		Int("skipped_rows", rep.Meta.SkippedRows).
		Dur("elapsed", elapsed).
		Msg("report built")

	for _, a := range rep.Aircraft {
		e := b.Logger.Debug().Str("tail", a.Tail).Int("history_pts", len(a.DailyData))
		if a.AvgDaily != nil {
			e = e.Float64("avg_daily", *a.AvgDaily)
		} else {
			e = e.Str("avg_daily", "no data yet")
		}
		e.Msg("utilization")
	}
}

// WriteReportFile writes the report with the same atomic replace
// discipline as the history store, so dashboard readers never observe a
// truncated file.
func WriteReportFile(path string, rep *models.Report) error {
	raw, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".dashboard-*")
	if err != nil {
		return fmt.Errorf("create temp report: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp report: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp report: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod temp report: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace report: %w", err)
	}
	return nil
}
