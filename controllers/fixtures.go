package controllers

import (
	"database/sql/driver"
	"time"

	"github.com/PrayerLoop/models"
)

// Test fixture data for use in tests

// testNow is Wednesday 2024-03-13 10:00 in America/New_York; its week key
// is 2024-03-10.
var testNow = time.Date(2024, 3, 13, 14, 0, 0, 0, time.UTC)

// MockUser creates a sample user profile for testing
func MockUser() models.UserProfile {
	return models.UserProfile{
		User_Profile_ID: 1,
		Username:        "testuser",
		First_Name:      "Test",
		Last_Name:       "User",
		Email:           "test@example.com",
		Datetime_Create: time.Now(),
		Datetime_Update: time.Now(),
	}
}

// MockOtherUser is a second registered user who does not own MockPrayer.
func MockOtherUser() models.UserProfile {
	return models.UserProfile{
		User_Profile_ID: 2,
		Username:        "otheruser",
		First_Name:      "Other",
		Last_Name:       "User",
		Email:           "other@example.com",
		Datetime_Create: time.Now(),
		Datetime_Update: time.Now(),
	}
}

// prayerColumns matches the columns goqu selects for models.Prayer.
var prayerColumns = []string{
	"prayer_id", "wall_id", "organization_id", "user_profile_id", "author_name",
	"content", "thanksgiving", "intercession", "fellowship",
	"datetime_create", "datetime_update", "deleted",
}

var wallColumns = []string{
	"wall_id", "organization_id", "week_key", "is_active", "theme",
	"prayer_count", "participant_count", "total_likes", "total_comments",
	"stats_updated_at", "created_by", "datetime_create",
}

// prayerRow returns a row for a legacy-content prayer by authorID (nil for
// a guest) on wall 10 of organization 1.
func prayerRow(prayerID int, authorID interface{}, created time.Time) []driver.Value {
	return []driver.Value{
		prayerID, 10, 1, authorID, "Test", "Please pray for my family", nil, nil,
		models.DefaultFellowship, created, created, false,
	}
}

func wallRow(wallID int, week string) []driver.Value {
	return []driver.Value{wallID, 1, week, true, "{}", 3, 2, 5, 1, nil, nil, testNow}
}
