package service

import (
	"sort"
	"time"

	"github.com/rotorops/fleetboard/internal/models"
)

const (
	monthWindowDays = 30
	weekWindowDays  = 7
	recentSeriesLen = 7
)

// EstimateUtilization derives a daily-usage estimate from one airframe's
// snapshot map (ISO day -> entry). Window precedence: the newest reading at
// least 30 days old divided over a nominal 30, then at least 7 days old
// over a nominal 7, then the full recorded span. Fewer than two readings,
// or a zero span, yields nil fields rather than a zero rate.
func EstimateUtilization(days map[string]models.HistoryEntry, now time.Time) models.Utilization {
	dates := make([]string, 0, len(days))
	for d := range days {
		dates = append(dates, d)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates))) // newest first

	u := models.Utilization{DailyData: recentSeries(dates, days)}
	if len(dates) == 0 {
		return u
	}
	latest := days[dates[0]].Hours
	u.CurrentHours = &latest
	if len(dates) < 2 {
		return u
	}

	monthCutoff := now.AddDate(0, 0, -monthWindowDays).Format("2006-01-02")
	weekCutoff := now.AddDate(0, 0, -weekWindowDays).Format("2006-01-02")

	var rate *float64
	if base, ok := newestAtOrBefore(dates, monthCutoff); ok {
		r := (latest - days[base].Hours) / monthWindowDays
		rate = &r
	} else if base, ok := newestAtOrBefore(dates, weekCutoff); ok {
		r := (latest - days[base].Hours) / weekWindowDays
		rate = &r
	} else {
		oldest := dates[len(dates)-1]
		if span := daySpan(oldest, dates[0]); span > 0 {
			r := (latest - days[oldest].Hours) / float64(span)
			rate = &r
		}
	}
	if rate == nil {
		return u
	}

	weekly := *rate * weekWindowDays
	monthly := *rate * monthWindowDays
	u.AvgDaily = rate
	u.ProjectionWeekly = &weekly
	u.ProjectionMonthly = &monthly
	return u
}

// ISO day strings compare chronologically as plain strings.
func newestAtOrBefore(datesDesc []string, cutoff string) (string, bool) {
	for _, d := range datesDesc {
		if d <= cutoff {
			return d, true
		}
	}
	return "", false
}

func daySpan(oldest, newest string) int {
	a, errA := time.Parse("2006-01-02", oldest)
	b, errB := time.Parse("2006-01-02", newest)
	if errA != nil || errB != nil {
		return 0
	}
	return int(b.Sub(a).Hours() / 24)
}

// recentSeries is the chart feed: the newest days, chronological, never
// nil so it marshals as an empty array.
func recentSeries(datesDesc []string, days map[string]models.HistoryEntry) []models.DayPoint {
	n := len(datesDesc)
	if n > recentSeriesLen {
		n = recentSeriesLen
	}
	recent := make([]string, n)
	copy(recent, datesDesc[:n])
	sort.Strings(recent)

	points := make([]models.DayPoint, 0, n)
	for _, d := range recent {
		points = append(points, models.DayPoint{Date: d, Hours: days[d].Hours})
	}
	return points
}
