package services

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/PrayerLoop/models"
)

const monthlySeriesLength = 12

// ComputeSnapshot summarizes one user's prayer history as seen from now in
// loc. It has no side effects; likesByPrayer and commentsByPrayer may omit
// prayers with no engagement.
func ComputeSnapshot(prayers []models.Prayer, likesByPrayer, commentsByPrayer map[int]int, loc *time.Location, now time.Time) models.AnalyticsSnapshot {
	snapshot := models.AnalyticsSnapshot{
		Categories: []models.CategoryShare{},
		Monthly:    []models.MonthlyActivity{},
	}
	if len(prayers) == 0 {
		return snapshot
	}
	if loc == nil {
		loc = time.UTC
	}

	sorted := make([]models.Prayer, len(prayers))
	copy(sorted, prayers)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Datetime_Create.Before(sorted[j].Datetime_Create)
	})

	first := sorted[0].Datetime_Create
	last := sorted[len(sorted)-1].Datetime_Create
	snapshot.TotalPrayers = len(sorted)
	snapshot.FirstPrayerAt = &first
	snapshot.LastPrayerAt = &last

	snapshot.Frequency = computeFrequency(len(sorted), first, now)
	snapshot.Engagement = computeEngagement(sorted, likesByPrayer, commentsByPrayer)
	snapshot.Streaks = computeStreaks(sorted, loc, now)
	snapshot.TimeOfDay = computeTimeOfDay(sorted, loc)
	snapshot.WordCounts = computeWordCounts(sorted)
	snapshot.Categories, snapshot.ContentTypes = computeCategories(sorted)
	snapshot.Monthly = computeMonthly(sorted, likesByPrayer, commentsByPrayer, loc)

	return snapshot
}

func computeFrequency(count int, first, now time.Time) models.PrayerFrequency {
	days := math.Floor(now.Sub(first).Hours() / 24)
	if days < 1 {
		days = 1
	}
	n := float64(count)
	return models.PrayerFrequency{
		Daily:   round2(n / math.Max(1, days)),
		Weekly:  round2(n / math.Max(1, days/7)),
		Monthly: round2(n / math.Max(1, days/30)),
	}
}

// computeEngagement expects prayers in ascending creation order. The
// highlight only moves on a strictly greater count, so the earliest prayer
// wins ties.
func computeEngagement(prayers []models.Prayer, likes, comments map[int]int) models.PrayerEngagement {
	var e models.PrayerEngagement

	mostLiked, mostCommented := prayers[0], prayers[0]
	for _, p := range prayers {
		l, c := likes[p.Prayer_ID], comments[p.Prayer_ID]
		e.TotalLikes += l
		e.TotalComments += c
		if l > likes[mostLiked.Prayer_ID] {
			mostLiked = p
		}
		if c > comments[mostCommented.Prayer_ID] {
			mostCommented = p
		}
	}

	n := float64(len(prayers))
	e.AverageLikes = round2(float64(e.TotalLikes) / n)
	e.AverageComments = round2(float64(e.TotalComments) / n)
	e.MostLiked = highlight(mostLiked, likes[mostLiked.Prayer_ID])
	e.MostCommented = highlight(mostCommented, comments[mostCommented.Prayer_ID])
	return e
}

func highlight(p models.Prayer, count int) *models.PrayerHighlight {
	return &models.PrayerHighlight{
		Prayer_ID:       p.Prayer_ID,
		Content:         p.Content,
		Count:           count,
		Datetime_Create: p.Datetime_Create,
	}
}

func computeStreaks(prayers []models.Prayer, loc *time.Location, now time.Time) models.PrayerStreaks {
	present := make(map[time.Time]bool)
	var dates []time.Time
	for _, p := range prayers {
		d := civilDate(p.Datetime_Create, loc)
		if !present[d] {
			present[d] = true
			dates = append(dates, d)
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	var streaks models.PrayerStreaks
	run := 0
	for i, d := range dates {
		if i > 0 && dates[i-1].AddDate(0, 0, 1).Equal(d) {
			run++
		} else {
			run = 1
		}
		if run > streaks.Longest {
			streaks.Longest = run
		}
	}

	day := civilDate(now, loc)
	if !present[day] {
		day = day.AddDate(0, 0, -1)
	}
	for present[day] {
		streaks.Current++
		day = day.AddDate(0, 0, -1)
	}
	return streaks
}

// civilDate returns t's calendar date in loc as midnight UTC, which makes
// day arithmetic immune to DST.
func civilDate(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

func timeOfDay(hour int) string {
	switch {
	case hour >= 5 && hour < 12:
		return models.TimeOfDayMorning
	case hour >= 12 && hour < 17:
		return models.TimeOfDayAfternoon
	case hour >= 17 && hour < 21:
		return models.TimeOfDayEvening
	default:
		return models.TimeOfDayNight
	}
}

func computeTimeOfDay(prayers []models.Prayer, loc *time.Location) models.TimeOfDayBreakdown {
	var b models.TimeOfDayBreakdown
	for _, p := range prayers {
		switch timeOfDay(p.Datetime_Create.In(loc).Hour()) {
		case models.TimeOfDayMorning:
			b.Morning++
		case models.TimeOfDayAfternoon:
			b.Afternoon++
		case models.TimeOfDayEvening:
			b.Evening++
		default:
			b.Night++
		}
	}

	// earlier buckets win ties
	buckets := []struct {
		name  string
		count int
	}{
		{models.TimeOfDayMorning, b.Morning},
		{models.TimeOfDayAfternoon, b.Afternoon},
		{models.TimeOfDayEvening, b.Evening},
		{models.TimeOfDayNight, b.Night},
	}
	best := -1
	for _, bucket := range buckets {
		if bucket.count > best {
			best = bucket.count
			b.Preferred = bucket.name
		}
	}
	return b
}

func computeWordCounts(prayers []models.Prayer) models.WordCountStats {
	var stats models.WordCountStats
	total := 0
	for i, p := range prayers {
		n := len(strings.Fields(p.Content))
		total += n
		if i == 0 || n < stats.Min {
			stats.Min = n
		}
		if n > stats.Max {
			stats.Max = n
		}
	}
	stats.Average = int(math.Round(float64(total) / float64(len(prayers))))
	return stats
}

func computeCategories(prayers []models.Prayer) ([]models.CategoryShare, models.ContentTypeTally) {
	var tally models.ContentTypeTally
	counts := make(map[string]int)

	for _, p := range prayers {
		fellowship := p.Fellowship
		if fellowship == "" {
			fellowship = models.DefaultFellowship
		}
		counts[fellowship]++

		hasThanks := p.Thanksgiving != nil && strings.TrimSpace(*p.Thanksgiving) != ""
		hasIntercession := p.Intercession != nil && strings.TrimSpace(*p.Intercession) != ""
		switch {
		case hasThanks && hasIntercession:
			tally.Mixed++
		case hasThanks:
			tally.ThanksgivingOnly++
		case hasIntercession:
			tally.IntercessionOnly++
		default:
			tally.Unclassified++
		}
	}

	shares := make([]models.CategoryShare, 0, len(counts))
	total := float64(len(prayers))
	for f, n := range counts {
		shares = append(shares, models.CategoryShare{
			Fellowship: f,
			Count:      n,
			Percentage: round2(float64(n) / total * 100),
		})
	}
	sort.Slice(shares, func(i, j int) bool {
		if shares[i].Count != shares[j].Count {
			return shares[i].Count > shares[j].Count
		}
		return shares[i].Fellowship < shares[j].Fellowship
	})
	return shares, tally
}

func computeMonthly(prayers []models.Prayer, likes, comments map[int]int, loc *time.Location) []models.MonthlyActivity {
	byMonth := make(map[string]*models.MonthlyActivity)
	for _, p := range prayers {
		key := p.Datetime_Create.In(loc).Format("2006-01")
		m, ok := byMonth[key]
		if !ok {
			m = &models.MonthlyActivity{Month: key}
			byMonth[key] = m
		}
		m.Count++
		m.Likes += likes[p.Prayer_ID]
		m.Comments += comments[p.Prayer_ID]
	}

	series := make([]models.MonthlyActivity, 0, len(byMonth))
	for _, m := range byMonth {
		series = append(series, *m)
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Month < series[j].Month })

	if len(series) > monthlySeriesLength {
		series = series[len(series)-monthlySeriesLength:]
	}
	return series
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// AnalyticsSince maps a time range name to the earliest creation time to
// include. A nil result means no lower bound.
func AnalyticsSince(timeRange string, now time.Time) (*time.Time, error) {
	var since time.Time
	switch timeRange {
	case "", models.TimeRangeAll:
		return nil, nil
	case models.TimeRangeLastYear:
		since = now.AddDate(-1, 0, 0)
	case models.TimeRangeLast6Months:
		since = now.AddDate(0, -6, 0)
	default:
		return nil, &ValidationError{Field: "range", Message: "range must be one of all, last_year, last_6_months"}
	}
	return &since, nil
}
