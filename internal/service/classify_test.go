package service

import (
	"testing"

	"github.com/rotorops/fleetboard/internal/models"
)

func fptr(v float64) *float64 { return &v }

func TestClassifyDaysPrecedence(t *testing.T) {
	th := DefaultThresholds()

	// Calendar margin wins even when the hour margin is tighter.
	if got := Classify(fptr(50), fptr(5), th); got != models.UrgencyOK {
		t.Fatalf("expected OK when days are comfortable, got %s", got)
	}
	if got := Classify(fptr(-1), fptr(5000), th); got != models.UrgencyOverdue {
		t.Fatalf("expected OVERDUE on negative days regardless of hours, got %s", got)
	}
}

func TestClassifyDayBoundaries(t *testing.T) {
	th := DefaultThresholds()
	cases := []struct {
		days float64
		want models.Urgency
	}{
		{-0.5, models.UrgencyOverdue},
		{0, models.UrgencyCritical},
		{7, models.UrgencyCritical},
		{7.5, models.UrgencyComingDue},
		{8, models.UrgencyComingDue},
		{30, models.UrgencyComingDue},
		{31, models.UrgencyOK},
	}
	for _, c := range cases {
		if got := Classify(fptr(c.days), nil, th); got != c.want {
			t.Fatalf("Classify(days=%v) = %s, want %s", c.days, got, c.want)
		}
	}
}

func TestClassifyHoursFallback(t *testing.T) {
	th := DefaultThresholds()
	cases := []struct {
		hours float64
		want  models.Urgency
	}{
		{-10, models.UrgencyOverdue},
		{0, models.UrgencyCritical},
		{25, models.UrgencyCritical},
		{26, models.UrgencyComingDue},
		{100, models.UrgencyComingDue},
		{100.5, models.UrgencyOK},
	}
	for _, c := range cases {
		if got := Classify(nil, fptr(c.hours), th); got != c.want {
			t.Fatalf("Classify(hours=%v) = %s, want %s", c.hours, got, c.want)
		}
	}
}

func TestClassifyUnknown(t *testing.T) {
	if got := Classify(nil, nil, DefaultThresholds()); got != models.UrgencyUnknown {
		t.Fatalf("expected UNKNOWN with no margins, got %s", got)
	}
}

func TestClassifyCustomThresholds(t *testing.T) {
	th := Thresholds{CriticalDays: 3, ComingDueDays: 10, CriticalHours: 10, ComingDueHours: 40}
	if got := Classify(fptr(5), nil, th); got != models.UrgencyComingDue {
		t.Fatalf("expected COMING DUE under tightened thresholds, got %s", got)
	}
	if got := Classify(nil, fptr(35), th); got != models.UrgencyComingDue {
		t.Fatalf("expected COMING DUE under tightened hour thresholds, got %s", got)
	}
}

func TestRankKeyPrefersDays(t *testing.T) {
	it := models.DueItem{Status: models.UrgencyCritical, RemainingDays: fptr(3), RemainingHours: fptr(900)}
	bucket, v := RankKey(it)
	if bucket != 1 || v != 3 {
		t.Fatalf("expected (1, 3), got (%d, %v)", bucket, v)
	}
}

func TestRankKeySentinel(t *testing.T) {
	it := models.DueItem{Status: models.UrgencyUnknown}
	_, v := RankKey(it)
	if v != 999999 {
		t.Fatalf("expected sentinel margin, got %v", v)
	}
}

func TestSortItemsOrdering(t *testing.T) {
	items := []models.DueItem{
		{Inspection: "ok-far", Status: models.UrgencyOK, RemainingDays: fptr(200)},
		{Inspection: "unknown", Status: models.UrgencyUnknown},
		{Inspection: "critical-hours", Status: models.UrgencyCritical, RemainingHours: fptr(10)},
		{Inspection: "overdue", Status: models.UrgencyOverdue, RemainingDays: fptr(-4)},
		{Inspection: "critical-days", Status: models.UrgencyCritical, RemainingDays: fptr(2)},
		{Inspection: "coming-due", Status: models.UrgencyComingDue, RemainingDays: fptr(20)},
	}
	SortItems(items)

	want := []string{"overdue", "critical-days", "critical-hours", "coming-due", "ok-far", "unknown"}
	for i, name := range want {
		if items[i].Inspection != name {
			t.Fatalf("position %d: expected %s, got %s", i, name, items[i].Inspection)
		}
	}
}

func TestSortItemsStable(t *testing.T) {
	items := []models.DueItem{
		{Inspection: "first", Status: models.UrgencyCritical, RemainingDays: fptr(5)},
		{Inspection: "second", Status: models.UrgencyCritical, RemainingDays: fptr(5)},
	}
	SortItems(items)
	if items[0].Inspection != "first" || items[1].Inspection != "second" {
		t.Fatalf("equal keys must keep input order, got %s then %s", items[0].Inspection, items[1].Inspection)
	}
}
