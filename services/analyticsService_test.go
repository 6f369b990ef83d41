package services

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PrayerLoop/models"
)

func day(y int, m time.Month, d, hour int) time.Time {
	return time.Date(y, m, d, hour, 0, 0, 0, time.UTC)
}

func strPtr(s string) *string {
	return &s
}

func TestComputeSnapshotEmpty(t *testing.T) {
	got := ComputeSnapshot(nil, nil, nil, time.UTC, day(2024, 1, 3, 12))

	want := models.AnalyticsSnapshot{
		Categories: []models.CategoryShare{},
		Monthly:    []models.MonthlyActivity{},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ComputeSnapshot() mismatch (-want +got):\n%s", diff)
	}
}

func TestComputeStreaks(t *testing.T) {
	tests := []struct {
		name    string
		created []time.Time
		now     time.Time
		loc     *time.Location
		want    models.PrayerStreaks
	}{
		{
			name:    "three consecutive days ending today",
			created: []time.Time{day(2024, 1, 1, 10), day(2024, 1, 2, 10), day(2024, 1, 3, 10)},
			now:     day(2024, 1, 3, 20),
			want:    models.PrayerStreaks{Current: 3, Longest: 3},
		},
		{
			name:    "run ending yesterday still counts",
			created: []time.Time{day(2024, 1, 1, 10), day(2024, 1, 2, 10), day(2024, 1, 3, 10)},
			now:     day(2024, 1, 4, 9),
			want:    models.PrayerStreaks{Current: 3, Longest: 3},
		},
		{
			name:    "run broken two days ago",
			created: []time.Time{day(2024, 1, 1, 10), day(2024, 1, 2, 10), day(2024, 1, 3, 10)},
			now:     day(2024, 1, 5, 9),
			want:    models.PrayerStreaks{Current: 0, Longest: 3},
		},
		{
			name:    "gap splits runs",
			created: []time.Time{day(2024, 1, 1, 10), day(2024, 1, 2, 10), day(2024, 1, 5, 10), day(2024, 1, 5, 11)},
			now:     day(2024, 1, 5, 12),
			want:    models.PrayerStreaks{Current: 1, Longest: 2},
		},
		{
			name:    "month boundary is consecutive",
			created: []time.Time{day(2024, 1, 31, 10), day(2024, 2, 1, 10)},
			now:     day(2024, 2, 1, 12),
			want:    models.PrayerStreaks{Current: 2, Longest: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prayers := make([]models.Prayer, len(tt.created))
			for i, c := range tt.created {
				prayers[i] = prayerAt(i+1, intPtr(1), c)
			}
			loc := tt.loc
			if loc == nil {
				loc = time.UTC
			}
			got := ComputeSnapshot(prayers, nil, nil, loc, tt.now)
			assert.Equal(t, tt.want, got.Streaks)
		})
	}
}

func TestComputeStreaksUsesLocalDates(t *testing.T) {
	loc := newYork(t)
	// both are January 1st in New York
	prayers := []models.Prayer{
		prayerAt(1, intPtr(1), day(2024, 1, 1, 15)),
		prayerAt(2, intPtr(1), day(2024, 1, 2, 3)),
	}

	got := ComputeSnapshot(prayers, nil, nil, loc, day(2024, 1, 2, 4))
	assert.Equal(t, models.PrayerStreaks{Current: 1, Longest: 1}, got.Streaks)
}

func TestComputeEngagement(t *testing.T) {
	prayers := []models.Prayer{
		prayerAt(1, intPtr(1), day(2024, 1, 1, 10)),
		prayerAt(2, intPtr(1), day(2024, 1, 2, 10)),
		prayerAt(3, intPtr(1), day(2024, 1, 3, 10)),
	}
	likes := map[int]int{1: 2, 2: 5, 3: 5}
	comments := map[int]int{1: 1}

	got := ComputeSnapshot(prayers, likes, comments, time.UTC, day(2024, 1, 3, 12)).Engagement

	want := models.PrayerEngagement{
		TotalLikes:      12,
		TotalComments:   1,
		AverageLikes:    4,
		AverageComments: 0.33,
		MostLiked: &models.PrayerHighlight{
			Prayer_ID: 2, Content: "Please pray", Count: 5, Datetime_Create: day(2024, 1, 2, 10),
		},
		MostCommented: &models.PrayerHighlight{
			Prayer_ID: 1, Content: "Please pray", Count: 1, Datetime_Create: day(2024, 1, 1, 10),
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("engagement mismatch (-want +got):\n%s", diff)
	}
}

func TestComputeEngagementWithoutInteractions(t *testing.T) {
	prayers := []models.Prayer{
		prayerAt(5, intPtr(1), day(2024, 1, 2, 10)),
		prayerAt(4, intPtr(1), day(2024, 1, 1, 10)),
	}

	got := ComputeSnapshot(prayers, nil, nil, time.UTC, day(2024, 1, 3, 12)).Engagement

	require.NotNil(t, got.MostLiked)
	assert.Equal(t, 4, got.MostLiked.Prayer_ID)
	assert.Equal(t, 0, got.MostLiked.Count)
	assert.Equal(t, 4, got.MostCommented.Prayer_ID)
}

func TestComputeTimeOfDay(t *testing.T) {
	tests := []struct {
		name  string
		hours []int
		want  models.TimeOfDayBreakdown
	}{
		{
			name:  "night wins on count",
			hours: []int{6, 13, 18, 23, 2},
			want:  models.TimeOfDayBreakdown{Morning: 1, Afternoon: 1, Evening: 1, Night: 2, Preferred: models.TimeOfDayNight},
		},
		{
			name:  "earlier bucket wins a tie",
			hours: []int{20, 5},
			want:  models.TimeOfDayBreakdown{Morning: 1, Evening: 1, Preferred: models.TimeOfDayMorning},
		},
		{
			name:  "bucket edges",
			hours: []int{4, 11, 12, 16, 17, 21},
			want:  models.TimeOfDayBreakdown{Morning: 1, Afternoon: 2, Evening: 1, Night: 2, Preferred: models.TimeOfDayAfternoon},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var prayers []models.Prayer
			for i, h := range tt.hours {
				prayers = append(prayers, prayerAt(i+1, intPtr(1), day(2024, 1, i+1, h)))
			}
			got := ComputeSnapshot(prayers, nil, nil, time.UTC, day(2024, 2, 1, 0))
			assert.Equal(t, tt.want, got.TimeOfDay)
		})
	}
}

func TestComputeWordCountsAndCategories(t *testing.T) {
	mk := func(id int, content, fellowship string, thanks, intercession *string) models.Prayer {
		p := prayerAt(id, intPtr(1), day(2024, 1, id, 10))
		p.Content = content
		p.Fellowship = fellowship
		p.Thanksgiving = thanks
		p.Intercession = intercession
		return p
	}
	prayers := []models.Prayer{
		mk(1, "one two three", "general", strPtr("Grateful"), nil),
		mk(2, "one", "youth", nil, strPtr("Healing")),
		mk(3, "a b c d e f", "", strPtr("Joy"), strPtr("Peace")),
		mk(4, "  spaced   words  ", "general", strPtr("  "), nil),
	}

	got := ComputeSnapshot(prayers, nil, nil, time.UTC, day(2024, 1, 10, 0))

	assert.Equal(t, models.WordCountStats{Average: 3, Min: 1, Max: 6}, got.WordCounts)

	wantShares := []models.CategoryShare{
		{Fellowship: "general", Count: 3, Percentage: 75},
		{Fellowship: "youth", Count: 1, Percentage: 25},
	}
	if diff := cmp.Diff(wantShares, got.Categories); diff != "" {
		t.Errorf("categories mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, models.ContentTypeTally{ThanksgivingOnly: 1, IntercessionOnly: 1, Mixed: 1, Unclassified: 1}, got.ContentTypes)
}

func TestComputeMonthlyKeepsLastTwelve(t *testing.T) {
	var prayers []models.Prayer
	likes := make(map[int]int)
	start := day(2023, 1, 15, 12)
	for i := 0; i < 14; i++ {
		id := i + 1
		prayers = append(prayers, prayerAt(id, intPtr(1), start.AddDate(0, i, 0)))
		likes[id] = id
	}
	// second prayer in the final month
	prayers = append(prayers, prayerAt(99, intPtr(1), day(2024, 2, 20, 12)))
	likes[99] = 1

	got := ComputeSnapshot(prayers, likes, nil, time.UTC, day(2024, 3, 1, 0)).Monthly

	require.Len(t, got, 12)
	assert.Equal(t, models.MonthlyActivity{Month: "2023-03", Count: 1, Likes: 3}, got[0])
	assert.Equal(t, models.MonthlyActivity{Month: "2024-02", Count: 2, Likes: 15}, got[11])
}

func TestComputeFrequency(t *testing.T) {
	now := day(2024, 1, 11, 10)

	t.Run("ten days of history", func(t *testing.T) {
		var prayers []models.Prayer
		for i := 0; i < 10; i++ {
			prayers = append(prayers, prayerAt(i+1, intPtr(1), day(2024, 1, i+1, 10)))
		}
		got := ComputeSnapshot(prayers, nil, nil, time.UTC, now)

		assert.Equal(t, models.PrayerFrequency{Daily: 1, Weekly: 7, Monthly: 10}, got.Frequency)
		assert.Equal(t, 10, got.TotalPrayers)
		require.NotNil(t, got.FirstPrayerAt)
		assert.True(t, got.FirstPrayerAt.Equal(day(2024, 1, 1, 10)))
		assert.True(t, got.LastPrayerAt.Equal(day(2024, 1, 10, 10)))
	})

	t.Run("first prayer today", func(t *testing.T) {
		prayers := []models.Prayer{
			prayerAt(1, intPtr(1), day(2024, 1, 11, 8)),
			prayerAt(2, intPtr(1), day(2024, 1, 11, 9)),
		}
		got := ComputeSnapshot(prayers, nil, nil, time.UTC, now)

		assert.Equal(t, models.PrayerFrequency{Daily: 2, Weekly: 2, Monthly: 2}, got.Frequency)
	})
}

func TestComputeSnapshotLeavesInputOrder(t *testing.T) {
	prayers := []models.Prayer{
		prayerAt(2, intPtr(1), day(2024, 1, 2, 10)),
		prayerAt(1, intPtr(1), day(2024, 1, 1, 10)),
	}

	got := ComputeSnapshot(prayers, nil, nil, time.UTC, day(2024, 1, 3, 0))

	assert.Equal(t, 2, prayers[0].Prayer_ID)
	assert.True(t, got.FirstPrayerAt.Equal(day(2024, 1, 1, 10)))
}

func TestAnalyticsSince(t *testing.T) {
	now := day(2024, 8, 31, 12)

	for _, r := range []string{"", models.TimeRangeAll} {
		since, err := AnalyticsSince(r, now)
		require.NoError(t, err)
		assert.Nil(t, since)
	}

	since, err := AnalyticsSince(models.TimeRangeLastYear, now)
	require.NoError(t, err)
	assert.True(t, since.Equal(day(2023, 8, 31, 12)))

	since, err = AnalyticsSince(models.TimeRangeLast6Months, now)
	require.NoError(t, err)
	assert.True(t, since.Equal(now.AddDate(0, -6, 0)))

	_, err = AnalyticsSince("forever", now)
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "range", verr.Field)
}
