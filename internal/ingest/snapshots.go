package ingest

import "github.com/rotorops/fleetboard/internal/models"

// ExtractSnapshots pulls distinct (tail, day, airframe hours) readings out
// of export rows. The first reading seen for a (tail, day) pair wins; rows
// without a tail, a parseable report date, or numeric hours are ignored.
func ExtractSnapshots(rows []Row) []models.Snapshot {
	seen := map[string]bool{}
	var out []models.Snapshot
	for _, r := range rows {
		if r.Tail == "" || r.ReportDate == nil || r.AirframeHours == nil {
			continue
		}
		key := r.Tail + "|" + *r.ReportDate
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, models.Snapshot{Tail: r.Tail, Date: *r.ReportDate, Hours: *r.AirframeHours})
	}
	return out
}
