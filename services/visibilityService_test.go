package services

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/doug-martin/goqu/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PrayerLoop/initializers"
	"github.com/PrayerLoop/models"
)

func intPtr(v int) *int {
	return &v
}

func prayerAt(id int, author *int, created time.Time) models.Prayer {
	return models.Prayer{
		Prayer_ID:       id,
		User_Profile_ID: author,
		Author_Name:     "Test",
		Content:         "Please pray",
		Fellowship:      models.DefaultFellowship,
		Datetime_Create: created,
	}
}

func TestFilterVisible(t *testing.T) {
	loc := newYork(t)
	now := time.Date(2024, 3, 13, 14, 0, 0, 0, time.UTC)
	clock := fixedClock(loc, now, 8)
	filter := NewVisibilityFilter(clock, 4)

	weeksAgo := func(n int) time.Time { return now.AddDate(0, 0, -7*n) }

	author := intPtr(7)
	viewer := intPtr(9)

	tests := []struct {
		name     string
		prayer   models.Prayer
		viewer   *int
		settings map[int]*int
		want     bool
	}{
		{"current week is visible to anonymous viewers", prayerAt(1, author, now), nil, nil, true},
		{"guest prayer from long ago", prayerAt(2, nil, weeksAgo(30)), viewer, nil, true},
		{"five weeks old with a four week window", prayerAt(3, author, weeksAgo(5)), viewer, map[int]*int{7: intPtr(4)}, false},
		{"five weeks old, seen by its author", prayerAt(4, author, weeksAgo(5)), author, map[int]*int{7: intPtr(4)}, true},
		{"four weeks old with a four week window", prayerAt(5, author, weeksAgo(4)), nil, map[int]*int{7: intPtr(4)}, true},
		{"unset window falls back to the default", prayerAt(6, author, weeksAgo(5)), viewer, map[int]*int{7: nil}, false},
		{"author missing from the map uses the default", prayerAt(7, author, weeksAgo(3)), viewer, map[int]*int{}, true},
		{"zero window never expires", prayerAt(8, author, weeksAgo(100)), nil, map[int]*int{7: intPtr(0)}, true},
		{"negative window uses the default", prayerAt(9, author, weeksAgo(5)), nil, map[int]*int{7: intPtr(-3)}, false},
		{"one week window, previous week", prayerAt(10, author, weeksAgo(1)), viewer, map[int]*int{7: intPtr(1)}, true},
		{"one week window, two weeks back", prayerAt(11, author, weeksAgo(2)), viewer, map[int]*int{7: intPtr(1)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := filter.FilterVisible([]models.Prayer{tt.prayer}, tt.viewer, tt.settings)
			assert.Equal(t, tt.want, len(got) == 1)
		})
	}
}

func TestFilterVisiblePreservesOrder(t *testing.T) {
	now := time.Date(2024, 3, 13, 14, 0, 0, 0, time.UTC)
	filter := NewVisibilityFilter(fixedClock(newYork(t), now, 8), 4)

	prayers := []models.Prayer{
		prayerAt(1, intPtr(1), now),
		prayerAt(2, intPtr(2), now.AddDate(0, 0, -70)),
		prayerAt(3, nil, now.AddDate(0, 0, -70)),
		prayerAt(4, intPtr(3), now.AddDate(0, 0, -14)),
	}

	got := filter.FilterVisible(prayers, nil, map[int]*int{2: intPtr(4), 3: nil})

	ids := make([]int, len(got))
	for i, p := range got {
		ids[i] = p.Prayer_ID
	}
	assert.Equal(t, []int{1, 3, 4}, ids)
	assert.NotNil(t, filter.FilterVisible(nil, nil, nil))
}

func TestResolveWindow(t *testing.T) {
	filter := NewVisibilityFilter(nil, 6)

	assert.Equal(t, 6, filter.ResolveWindow(nil))
	assert.Equal(t, 6, filter.ResolveWindow(intPtr(-1)))
	assert.Equal(t, 0, filter.ResolveWindow(intPtr(0)))
	assert.Equal(t, 12, filter.ResolveWindow(intPtr(12)))
}

func TestAuthorIDs(t *testing.T) {
	now := time.Now()
	prayers := []models.Prayer{
		prayerAt(1, intPtr(5), now),
		prayerAt(2, nil, now),
		prayerAt(3, intPtr(2), now),
		prayerAt(4, intPtr(5), now),
	}

	assert.Equal(t, []int{5, 2}, AuthorIDs(prayers))
	assert.Equal(t, []int{}, AuthorIDs(nil))
}

func setupMockDB(t *testing.T) sqlmock.Sqlmock {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	original := initializers.DB
	initializers.DB = goqu.New("postgres", db)
	t.Cleanup(func() {
		db.Close()
		initializers.DB = original
	})
	return mock
}

func TestLoadVisibilitySettings(t *testing.T) {
	mock := setupMockDB(t)

	mock.ExpectQuery(`SELECT "user_profile_id", "prayer_visibility_weeks" FROM "user_profile" WHERE \("user_profile_id" IN \(5, 2\)\)`).
		WillReturnRows(sqlmock.NewRows([]string{"user_profile_id", "prayer_visibility_weeks"}).
			AddRow(5, 2).
			AddRow(2, nil))

	settings, err := LoadVisibilitySettings(context.Background(), []int{5, 2})
	require.NoError(t, err)

	require.Contains(t, settings, 5)
	require.Contains(t, settings, 2)
	assert.Equal(t, 2, *settings[5])
	assert.Nil(t, settings[2])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadVisibilitySettingsSkipsEmptyQuery(t *testing.T) {
	mock := setupMockDB(t)

	settings, err := LoadVisibilitySettings(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, settings)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadVisibilitySettingsStorageError(t *testing.T) {
	mock := setupMockDB(t)
	mock.ExpectQuery(`SELECT`).WillReturnError(assert.AnError)

	_, err := LoadVisibilitySettings(context.Background(), []int{1})

	var storageErr *StorageError
	assert.ErrorAs(t, err, &storageErr)
	assert.ErrorIs(t, err, assert.AnError)
}
