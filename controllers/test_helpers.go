package controllers

import (
	"database/sql"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/PrayerLoop/initializers"
	"github.com/PrayerLoop/models"
	"github.com/PrayerLoop/services"
	"github.com/doug-martin/goqu/v9"
	"github.com/gin-gonic/gin"
)

// SetupTestDB creates a mock database and sets it as the global DB for testing
func SetupTestDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create sqlmock: %v", err)
	}

	goquDB := goqu.New("postgres", db)

	originalDB := initializers.DB
	initializers.DB = goquDB

	cleanup := func() {
		// Small delay to allow goroutines (history rows, push notifications) to complete
		time.Sleep(10 * time.Millisecond)
		db.Close()
		initializers.DB = originalDB
	}

	return db, mock, cleanup
}

// SetupTestContext creates a test Gin context with a response recorder
func SetupTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	return c, w
}

// SetAuthenticatedUser sets the currentUser value in the Gin context
// This simulates what the CheckAuth middleware does
func SetAuthenticatedUser(c *gin.Context, user models.UserProfile) {
	c.Set("currentUser", user)
}

// testZone is the organization zone used by controller tests.
var testZone = mustLoadLocation("America/New_York")

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

// SetupTestServices installs wall services pinned to now, backed by the
// global DB. No stats refresher runs, so scheduled refreshes never reach
// the mock.
func SetupTestServices(t *testing.T, now time.Time) *services.WeekClock {
	t.Helper()

	clock := services.NewWeekClock(testZone, func() time.Time { return now }, 4)
	directory := services.NewWallDirectory(services.DBWallStore{}, clock)
	services.SetWallServices(clock, directory, services.NewVisibilityFilter(clock, 4), nil)

	if err := services.InitModerationFilter(""); err != nil {
		t.Fatalf("Failed to load moderation filter: %v", err)
	}
	return clock
}
