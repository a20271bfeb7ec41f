package service

import (
	"sort"

	"github.com/rotorops/fleetboard/internal/models"
)

// Thresholds drive urgency classification. Days and hours share the same
// comparator shape; a calendar margin always wins over an hour margin.
type Thresholds struct {
	CriticalDays   float64
	ComingDueDays  float64
	CriticalHours  float64
	ComingDueHours float64
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		CriticalDays:   7,
		ComingDueDays:  30,
		CriticalHours:  25,
		ComingDueHours: 100,
	}
}

// Classify buckets one due item from its remaining margins. Remaining days
// take precedence whenever present, even if the hour margin is tighter; an
// item with neither margin is UNKNOWN.
func Classify(remainingDays, remainingHours *float64, th Thresholds) models.Urgency {
	if remainingDays != nil {
		switch d := *remainingDays; {
		case d < 0:
			return models.UrgencyOverdue
		case d <= th.CriticalDays:
			return models.UrgencyCritical
		case d <= th.ComingDueDays:
			return models.UrgencyComingDue
		default:
			return models.UrgencyOK
		}
	}
	if remainingHours != nil {
		switch h := *remainingHours; {
		case h < 0:
			return models.UrgencyOverdue
		case h <= th.CriticalHours:
			return models.UrgencyCritical
		case h <= th.ComingDueHours:
			return models.UrgencyComingDue
		default:
			return models.UrgencyOK
		}
	}
	return models.UrgencyUnknown
}

var urgencyOrder = map[models.Urgency]int{
	models.UrgencyOverdue:   0,
	models.UrgencyCritical:  1,
	models.UrgencyComingDue: 2,
	models.UrgencyOK:        3,
	models.UrgencyUnknown:   4,
}

const rankSentinel = 999999

// RankKey orders items most-pressing first: urgency bucket, then remaining
// days, then remaining hours. An item with neither margin sorts last in its
// bucket via the sentinel.
func RankKey(it models.DueItem) (int, float64) {
	bucket, ok := urgencyOrder[it.Status]
	if !ok {
		bucket = 9
	}
	if it.RemainingDays != nil {
		return bucket, *it.RemainingDays
	}
	if it.RemainingHours != nil {
		return bucket, *it.RemainingHours
	}
	return bucket, rankSentinel
}

// SortItems sorts items in place, stably, by RankKey. Ties keep input
// order, so repeated builds over the same export are byte-identical.
func SortItems(items []models.DueItem) {
	sort.SliceStable(items, func(i, j int) bool {
		bi, vi := RankKey(items[i])
		bj, vj := RankKey(items[j])
		if bi != bj {
			return bi < bj
		}
		return vi < vj
	})
}
