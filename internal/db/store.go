package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rotorops/fleetboard/internal/models"
)

// Store archives build runs to Postgres. The report file stays the system
// of record; the archive exists for trend queries across runs.
type Store struct {
	Pool *pgxpool.Pool
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &Store{Pool: pool}, nil
}

func (s *Store) Close() {
	s.Pool.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.Pool.Ping(ctx)
}

func (s *Store) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.Pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS fleet_runs (
			id uuid PRIMARY KEY,
			generated_at timestamptz NOT NULL,
			report_date date,
			fleet_name text NOT NULL,
			source text NOT NULL,
			aircraft_count int NOT NULL,
			skipped_rows int NOT NULL,
			report jsonb NOT NULL
		);
		CREATE TABLE IF NOT EXISTS fleet_utilization (
			run_id uuid NOT NULL REFERENCES fleet_runs(id) ON DELETE CASCADE,
			tail text NOT NULL,
			avg_daily double precision,
			projection_weekly double precision,
			projection_monthly double precision,
			airframe_hours double precision,
			item_count int NOT NULL,
			PRIMARY KEY (run_id, tail)
		);
	`)
	if err != nil {
		return fmt.Errorf("ensure archive schema: %w", err)
	}
	return nil
}

// ArchiveRun stores one build: the run row plus a per-tail utilization row
// for each aircraft. Re-archiving the same run id is a no-op.
func (s *Store) ArchiveRun(ctx context.Context, rep *models.Report) error {
	raw, err := json.Marshal(rep)
	if err != nil {
		return fmt.Errorf("encode report for archive: %w", err)
	}
	generatedAt, err := time.Parse(time.RFC3339, rep.Meta.GeneratedUTC)
	if err != nil {
		generatedAt = time.Now().UTC()
	}

	return s.WithTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			INSERT INTO fleet_runs (id, generated_at, report_date, fleet_name, source, aircraft_count, skipped_rows, report)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
			ON CONFLICT (id) DO NOTHING
		`, rep.Meta.RunID, generatedAt, rep.Meta.ReportDate, rep.Meta.FleetName, rep.Meta.Source, rep.Meta.AircraftCount, rep.Meta.SkippedRows, raw)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return nil
		}

		rows := make([][]any, 0, len(rep.Aircraft))
		for _, a := range rep.Aircraft {
			rows = append(rows, []any{rep.Meta.RunID, a.Tail, a.AvgDaily, a.ProjectionWeekly, a.ProjectionMonthly, a.AirframeHours, len(a.Items)})
		}
		if len(rows) == 0 {
			return nil
		}
		_, err = tx.CopyFrom(ctx, pgx.Identifier{"fleet_utilization"},
			[]string{"run_id", "tail", "avg_daily", "projection_weekly", "projection_monthly", "airframe_hours", "item_count"},
			pgx.CopyFromRows(rows))
		return err
	})
}

func (s *Store) LatestRun(ctx context.Context) (*models.RunRecord, error) {
	row := s.Pool.QueryRow(ctx, `
		SELECT id, generated_at, report_date, fleet_name, source, aircraft_count, skipped_rows, report
		FROM fleet_runs ORDER BY generated_at DESC LIMIT 1
	`)
	return scanRun(row)
}

func (s *Store) ListRuns(ctx context.Context, limit int) ([]models.RunRecord, error) {
	if limit <= 0 || limit > 200 {
		limit = 30
	}
	rows, err := s.Pool.Query(ctx, `
		SELECT id, generated_at, report_date, fleet_name, source, aircraft_count, skipped_rows
		FROM fleet_runs ORDER BY generated_at DESC LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.RunRecord
	for rows.Next() {
		var r models.RunRecord
		var reportDate *time.Time
		if err := rows.Scan(&r.ID, &r.GeneratedAt, &reportDate, &r.FleetName, &r.Source, &r.AircraftCount, &r.SkippedRows); err != nil {
			return nil, err
		}
		r.ReportDate = isoDatePtr(reportDate)
		out = append(out, r)
	}
	return out, rows.Err()
}

// TrendPoint is one archived utilization sample for an aircraft.
type TrendPoint struct {
	GeneratedAt   time.Time `json:"generated_at"`
	AvgDaily      *float64  `json:"avg_daily"`
	AirframeHours *float64  `json:"airframe_hours"`
}

// UtilizationTrend returns one aircraft's archived daily rates, oldest
// first, for trending beyond the report's own seven-day chart window.
func (s *Store) UtilizationTrend(ctx context.Context, tail string, limit int) ([]TrendPoint, error) {
	if limit <= 0 || limit > 365 {
		limit = 90
	}
	rows, err := s.Pool.Query(ctx, `
		SELECT r.generated_at, u.avg_daily, u.airframe_hours
		FROM fleet_utilization u
		JOIN fleet_runs r ON r.id = u.run_id
		WHERE u.tail = $1
		ORDER BY r.generated_at DESC LIMIT $2
	`, tail, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []TrendPoint
	for rows.Next() {
		var p TrendPoint
		if err := rows.Scan(&p.GeneratedAt, &p.AvgDaily, &p.AirframeHours); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// Oldest first for charting.
	for i, j := 0, len(points)-1; i < j; i, j = i+1, j-1 {
		points[i], points[j] = points[j], points[i]
	}
	return points, nil
}

func scanRun(row pgx.Row) (*models.RunRecord, error) {
	var r models.RunRecord
	var reportDate *time.Time
	if err := row.Scan(&r.ID, &r.GeneratedAt, &reportDate, &r.FleetName, &r.Source, &r.AircraftCount, &r.SkippedRows, &r.Report); err != nil {
		return nil, err
	}
	r.ReportDate = isoDatePtr(reportDate)
	return &r, nil
}

func isoDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	iso := t.Format("2006-01-02")
	return &iso
}
