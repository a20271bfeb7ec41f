package duesheet

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/rotorops/fleetboard/internal/models"
)

// Render produces the printable due sheet handed out at the morning
// briefing: per-aircraft tracked inspections in urgency order, then the
// component watch list.
func Render(rep *models.Report) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 9, tr(fmt.Sprintf("%s Maintenance Due Sheet", rep.Meta.FleetName)), "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	meta := fmt.Sprintf("Report date: %s     Generated: %s     Aircraft: %d",
		strOr(rep.Meta.ReportDate, "unknown"), rep.Meta.GeneratedUTC, rep.Meta.AircraftCount)
	pdf.CellFormat(0, 5, meta, "", 1, "L", false, 0, "")
	pdf.Ln(3)

	for _, a := range rep.Aircraft {
		aircraftHeader(pdf, a)
		itemTable(pdf, tr, a.Items)
		pdf.Ln(4)
	}

	if len(rep.Components) > 0 {
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(0, 7, "Components / Overhauls Coming Due", "", 1, "L", false, 0, "")
		componentTable(pdf, tr, rep.Components)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render due sheet: %w", err)
	}
	return buf.Bytes(), nil
}

func aircraftHeader(pdf *gofpdf.Fpdf, a models.Aircraft) {
	pdf.SetFont("Arial", "B", 12)
	head := a.Tail
	if a.AirframeHours != nil {
		head += fmt.Sprintf("   %.1f hrs", *a.AirframeHours)
	}
	if a.AvgDaily != nil {
		head += fmt.Sprintf("   avg %.2f hrs/day", *a.AvgDaily)
	}
	pdf.CellFormat(0, 7, head, "", 1, "L", false, 0, "")
}

func itemTable(pdf *gofpdf.Fpdf, tr func(string) string, items []models.DueItem) {
	cols := []struct {
		w     float64
		title string
	}{
		{40, "Inspection"}, {55, "ATA / Code"}, {76, "Description"},
		{24, "Due Date"}, {18, "Days"}, {18, "Hours"}, {26, "Status"},
	}
	pdf.SetFont("Arial", "B", 8)
	pdf.SetFillColor(230, 230, 230)
	for _, c := range cols {
		pdf.CellFormat(c.w, 6, c.title, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 8)
	for _, it := range items {
		setStatusColor(pdf, it.Status)
		pdf.CellFormat(40, 6, tr(clip(it.Inspection, 30)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(55, 6, tr(clip(it.ATA, 42)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(76, 6, tr(clip(it.Description, 58)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(24, 6, strOr(it.DueDate, "-"), "1", 0, "C", false, 0, "")
		pdf.CellFormat(18, 6, numOr(it.RemainingDays), "1", 0, "R", false, 0, "")
		pdf.CellFormat(18, 6, numOr(it.RemainingHours), "1", 0, "R", false, 0, "")
		pdf.CellFormat(26, 6, string(it.Status), "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}
	pdf.SetTextColor(0, 0, 0)
}

func componentTable(pdf *gofpdf.Fpdf, tr func(string) string, comps []models.Component) {
	pdf.SetFont("Arial", "B", 8)
	pdf.SetFillColor(230, 230, 230)
	widths := []float64{28, 55, 120, 28, 26}
	titles := []string{"Tail", "ATA / Code", "Description", "Type", "Rem. Hours"}
	for i, w := range widths {
		pdf.CellFormat(w, 6, titles[i], "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 8)
	for _, c := range comps {
		pdf.CellFormat(28, 6, c.Tail, "1", 0, "L", false, 0, "")
		pdf.CellFormat(55, 6, tr(clip(c.ATA, 42)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(120, 6, tr(clip(c.Description, 92)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(28, 6, c.ItemType, "1", 0, "C", false, 0, "")
		pdf.CellFormat(26, 6, fmt.Sprintf("%.1f", c.RemainingHours), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}
}

func setStatusColor(pdf *gofpdf.Fpdf, u models.Urgency) {
	switch u {
	case models.UrgencyOverdue:
		pdf.SetTextColor(200, 0, 0)
	case models.UrgencyCritical:
		pdf.SetTextColor(200, 120, 0)
	default:
		pdf.SetTextColor(0, 0, 0)
	}
}

func strOr(s *string, def string) string {
	if s == nil {
		return def
	}
	return *s
}

func numOr(f *float64) string {
	if f == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f", *f)
}

func clip(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
