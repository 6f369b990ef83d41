package services

import (
	"context"
	"fmt"

	"github.com/doug-martin/goqu/v9"

	"github.com/PrayerLoop/initializers"
	"github.com/PrayerLoop/models"
)

// VisibilityFilter applies authors' visibility windows to a prayer list.
type VisibilityFilter struct {
	clock        *WeekClock
	defaultWeeks int
}

func NewVisibilityFilter(clock *WeekClock, defaultWeeks int) *VisibilityFilter {
	return &VisibilityFilter{clock: clock, defaultWeeks: defaultWeeks}
}

// ResolveWindow maps an author's setting to a number of weeks, where 0
// means unlimited. nil and negative settings fall back to the default.
func (f *VisibilityFilter) ResolveWindow(setting *int) int {
	if setting == nil || *setting < 0 {
		return f.defaultWeeks
	}
	return *setting
}

// FilterVisible returns the prayers viewerID may see, preserving order.
// visibilityByAuthor must already hold every author's setting; authors
// missing from the map use the default window. viewerID is nil for
// anonymous viewers.
func (f *VisibilityFilter) FilterVisible(prayers []models.Prayer, viewerID *int, visibilityByAuthor map[int]*int) []models.Prayer {
	current := f.clock.CurrentWeekKey()
	visible := make([]models.Prayer, 0, len(prayers))

	for _, p := range prayers {
		week := f.clock.WeekKeyFor(p.Datetime_Create)

		switch {
		case week == current:
			visible = append(visible, p)
		case p.User_Profile_ID == nil:
			visible = append(visible, p)
		case viewerID != nil && p.IsAuthoredBy(*viewerID):
			visible = append(visible, p)
		default:
			window := f.ResolveWindow(visibilityByAuthor[*p.User_Profile_ID])
			if window == 0 {
				visible = append(visible, p)
				continue
			}
			age, err := WeeksBetween(week, current)
			if err == nil && age <= window {
				visible = append(visible, p)
			}
		}
	}
	return visible
}

// AuthorIDs returns the distinct registered authors of prayers.
func AuthorIDs(prayers []models.Prayer) []int {
	seen := make(map[int]struct{})
	ids := []int{}
	for _, p := range prayers {
		if p.User_Profile_ID == nil {
			continue
		}
		if _, ok := seen[*p.User_Profile_ID]; ok {
			continue
		}
		seen[*p.User_Profile_ID] = struct{}{}
		ids = append(ids, *p.User_Profile_ID)
	}
	return ids
}

// LoadVisibilitySettings fetches every listed author's setting in one
// query.
func LoadVisibilitySettings(ctx context.Context, authorIDs []int) (map[int]*int, error) {
	settings := make(map[int]*int, len(authorIDs))
	if len(authorIDs) == 0 {
		return settings, nil
	}

	var rows []models.VisibilitySetting
	err := initializers.DB.From("user_profile").
		Select("user_profile_id", "prayer_visibility_weeks").
		Where(goqu.C("user_profile_id").In(authorIDs)).
		ScanStructsContext(ctx, &rows)
	if err != nil {
		return nil, storageErr("load visibility settings", fmt.Errorf("%d authors: %w", len(authorIDs), err))
	}

	for _, r := range rows {
		settings[r.User_Profile_ID] = r.Prayer_Visibility_Weeks
	}
	return settings, nil
}
