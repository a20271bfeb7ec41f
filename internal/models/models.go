package models

import (
	"encoding/json"
	"time"
)

// Urgency buckets for a due item, ordered from most to least pressing.
type Urgency string

const (
	UrgencyOverdue   Urgency = "OVERDUE"
	UrgencyCritical  Urgency = "CRITICAL"
	UrgencyComingDue Urgency = "COMING DUE"
	UrgencyOK        Urgency = "OK"
	UrgencyUnknown   Urgency = "UNKNOWN"
)

// Rule selects tracked inspections out of the raw due list. Rules are
// evaluated in table order and the first match supplies the label.
type Rule struct {
	Label string `json:"label" mapstructure:"label" validate:"required"`
	Match string `json:"match" mapstructure:"match" validate:"required"`
	Mode  string `json:"mode" mapstructure:"mode" validate:"oneof=exact contains"`
}

const (
	RuleModeExact    = "exact"
	RuleModeContains = "contains"
)

// Snapshot is one observed (tail, day, cumulative airframe hours) reading
// taken from an export row.
type Snapshot struct {
	Tail  string
	Date  string // YYYY-MM-DD
	Hours float64
}

// HistoryEntry is the persisted per-day record. The wire shape is kept
// compatible with history files written by earlier versions of the tool.
type HistoryEntry struct {
	Hours float64 `json:"hours"`
}

// History maps tail number -> ISO day -> entry. ISO day keys sort
// chronologically as plain strings.
type History map[string]map[string]HistoryEntry

type DayPoint struct {
	Date  string  `json:"date"`
	Hours float64 `json:"hours"`
}

// Utilization is the flight-hour usage estimate for one airframe.
// Pointer fields are null on the wire when no estimate exists.
type Utilization struct {
	AvgDaily          *float64   `json:"avg_daily"`
	ProjectionWeekly  *float64   `json:"projection_weekly"`
	ProjectionMonthly *float64   `json:"projection_monthly"`
	DailyData         []DayPoint `json:"daily_data"`
	CurrentHours      *float64   `json:"current_hours,omitempty"`
}

type DueItem struct {
	Inspection     string   `json:"inspection"`
	ATA            string   `json:"ata"`
	Description    string   `json:"description"`
	DueDate        *string  `json:"due_date"`
	RemainingDays  *float64 `json:"remaining_days"`
	RemainingHours *float64 `json:"remaining_hours"`
	NextDueStatus  string   `json:"next_due_status"`
	Status         Urgency  `json:"status"`
}

type Aircraft struct {
	Tail               string     `json:"tail"`
	AirframeHours      *float64   `json:"airframe_hours"`
	AirframeReportDate *string    `json:"airframe_report_date"`
	AvgDaily           *float64   `json:"avg_daily"`
	ProjectionWeekly   *float64   `json:"projection_weekly"`
	ProjectionMonthly  *float64   `json:"projection_monthly"`
	DailyData          []DayPoint `json:"daily_data"`
	Items              []DueItem  `json:"items"`
}

const (
	ComponentPart     = "PART"
	ComponentOverhaul = "OVERHAUL"
)

// Component is a life-limited part or overhaul inspection inside the
// configured remaining-hours window.
type Component struct {
	Tail           string  `json:"tail"`
	ATA            string  `json:"ata"`
	Description    string  `json:"description"`
	ItemType       string  `json:"item_type"`
	RemainingHours float64 `json:"remaining_hours"`
}

type Meta struct {
	ReportDate    *string `json:"report_date"`
	GeneratedUTC  string  `json:"generated_utc"`
	FleetName     string  `json:"fleet_name"`
	Source        string  `json:"source"`
	AircraftCount int     `json:"aircraft_count"`
	RunID         string  `json:"run_id"`
	SkippedRows   int     `json:"skipped_rows"`
}

// Report is the full dashboard payload.
type Report struct {
	Meta       Meta        `json:"meta"`
	Aircraft   []Aircraft  `json:"aircraft"`
	Components []Component `json:"components"`
}

// RunRecord is an archived build run as stored in Postgres.
type RunRecord struct {
	ID            string          `json:"id"`
	GeneratedAt   time.Time       `json:"generated_at"`
	ReportDate    *string         `json:"report_date"`
	FleetName     string          `json:"fleet_name"`
	Source        string          `json:"source"`
	AircraftCount int             `json:"aircraft_count"`
	SkippedRows   int             `json:"skipped_rows"`
	Report        json.RawMessage `json:"report,omitempty"`
}
