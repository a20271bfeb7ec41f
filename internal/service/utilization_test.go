package service

import (
	"testing"
	"time"

	"github.com/rotorops/fleetboard/internal/models"
)

var estimateNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func TestEstimateThirtyDayWindow(t *testing.T) {
	days := map[string]models.HistoryEntry{
		"2024-04-01": {Hours: 100},
		"2024-05-01": {Hours: 130},
	}
	u := EstimateUtilization(days, estimateNow)
	if u.AvgDaily == nil || *u.AvgDaily != 1.0 {
		t.Fatalf("expected avg 1.0, got %v", u.AvgDaily)
	}
	if u.ProjectionWeekly == nil || *u.ProjectionWeekly != 7.0 {
		t.Fatalf("expected weekly projection 7.0, got %v", u.ProjectionWeekly)
	}
	if u.ProjectionMonthly == nil || *u.ProjectionMonthly != 30.0 {
		t.Fatalf("expected monthly projection 30.0, got %v", u.ProjectionMonthly)
	}
	if u.CurrentHours == nil || *u.CurrentHours != 130 {
		t.Fatalf("expected current hours 130, got %v", u.CurrentHours)
	}
}

func TestEstimateUsesNewestBaselineInWindow(t *testing.T) {
	days := map[string]models.HistoryEntry{
		"2024-03-12": {Hours: 10}, // older reading must not widen the window
		"2024-03-27": {Hours: 40},
		"2024-05-01": {Hours: 100},
	}
	u := EstimateUtilization(days, estimateNow)
	if u.AvgDaily == nil || *u.AvgDaily != 2.0 {
		t.Fatalf("expected avg (100-40)/30 = 2.0, got %v", u.AvgDaily)
	}
}

func TestEstimateSevenDayFallback(t *testing.T) {
	days := map[string]models.HistoryEntry{
		"2024-04-24": {Hours: 100},
		"2024-05-01": {Hours: 114},
	}
	u := EstimateUtilization(days, estimateNow)
	if u.AvgDaily == nil || *u.AvgDaily != 2.0 {
		t.Fatalf("expected avg (114-100)/7 = 2.0, got %v", u.AvgDaily)
	}
	if u.ProjectionMonthly == nil || *u.ProjectionMonthly != 60.0 {
		t.Fatalf("expected monthly projection 60.0, got %v", u.ProjectionMonthly)
	}
}

func TestEstimateFullSpanFallback(t *testing.T) {
	days := map[string]models.HistoryEntry{
		"2024-04-28": {Hours: 100},
		"2024-04-30": {Hours: 106},
	}
	u := EstimateUtilization(days, estimateNow)
	if u.AvgDaily == nil || *u.AvgDaily != 3.0 {
		t.Fatalf("expected avg (106-100)/2 = 3.0, got %v", u.AvgDaily)
	}
}

func TestEstimateSingleSnapshot(t *testing.T) {
	days := map[string]models.HistoryEntry{"2024-04-30": {Hours: 250}}
	u := EstimateUtilization(days, estimateNow)
	if u.AvgDaily != nil || u.ProjectionWeekly != nil || u.ProjectionMonthly != nil {
		t.Fatalf("expected absent estimate for single snapshot, got %+v", u)
	}
	if u.CurrentHours == nil || *u.CurrentHours != 250 {
		t.Fatalf("expected current hours 250, got %v", u.CurrentHours)
	}
	if len(u.DailyData) != 1 {
		t.Fatalf("expected one chart point, got %d", len(u.DailyData))
	}
}

func TestEstimateEmptyHistory(t *testing.T) {
	u := EstimateUtilization(nil, estimateNow)
	if u.AvgDaily != nil || u.CurrentHours != nil {
		t.Fatalf("expected fully absent estimate, got %+v", u)
	}
	if u.DailyData == nil || len(u.DailyData) != 0 {
		t.Fatalf("expected empty, non-nil chart series")
	}
}

func TestEstimateRecentSeries(t *testing.T) {
	days := map[string]models.HistoryEntry{}
	for i := 0; i < 10; i++ {
		d := time.Date(2024, 4, 20+i, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
		days[d] = models.HistoryEntry{Hours: float64(100 + i)}
	}
	u := EstimateUtilization(days, estimateNow)
	if len(u.DailyData) != 7 {
		t.Fatalf("expected 7 chart points, got %d", len(u.DailyData))
	}
	if u.DailyData[0].Date != "2024-04-23" || u.DailyData[6].Date != "2024-04-29" {
		t.Fatalf("expected newest 7 days chronological, got %s..%s", u.DailyData[0].Date, u.DailyData[6].Date)
	}
	for i := 1; i < len(u.DailyData); i++ {
		if u.DailyData[i-1].Date >= u.DailyData[i].Date {
			t.Fatalf("chart series not ascending at %d", i)
		}
	}
}
