package controllers

import (
	"net/http"

	"github.com/doug-martin/goqu/v9"
	"github.com/gin-gonic/gin"

	"github.com/PrayerLoop/initializers"
	"github.com/PrayerLoop/models"
	"github.com/PrayerLoop/services"
)

// LikePrayer records that the current user is praying along. Liking twice
// is a no-op.
func LikePrayer(c *gin.Context) {
	actorID := currentUserID(c)
	if actorID == nil {
		respondError(c, services.ErrUnauthorized)
		return
	}

	prayerID, ok := paramID(c, "prayer_id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid prayer ID"})
		return
	}

	ctx := c.Request.Context()
	prayer, err := loadPrayer(ctx, prayerID)
	if err != nil {
		respondError(c, err)
		return
	}
	clock := services.GetWeekClock()
	if !clock.IsCurrentWeek(clock.WeekKeyFor(prayer.Datetime_Create)) {
		c.JSON(http.StatusForbidden, gin.H{"error": "This wall is read-only"})
		return
	}

	like := models.Like{Prayer_ID: prayerID, User_Profile_ID: *actorID}
	result, err := initializers.DB.Insert("prayer_like").
		Rows(like).
		OnConflict(goqu.DoNothing()).
		Executor().ExecContext(ctx)
	if err != nil {
		respondError(c, &services.StorageError{Op: "like prayer", Err: err})
		return
	}

	if rows, _ := result.RowsAffected(); rows > 0 {
		if prayer.Wall_ID != nil {
			services.GetWallDirectory().ScheduleStatsRefresh(*prayer.Wall_ID)
		}
		if prayer.User_Profile_ID != nil {
			go services.NotifyAuthorOfLike(*prayer.User_Profile_ID, *actorID, prayerID)
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Prayer liked", "liked": true})
}

func UnlikePrayer(c *gin.Context) {
	actorID := currentUserID(c)
	if actorID == nil {
		respondError(c, services.ErrUnauthorized)
		return
	}

	prayerID, ok := paramID(c, "prayer_id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid prayer ID"})
		return
	}

	ctx := c.Request.Context()
	prayer, err := loadPrayer(ctx, prayerID)
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := initializers.DB.Delete("prayer_like").
		Where(goqu.C("prayer_id").Eq(prayerID), goqu.C("user_profile_id").Eq(*actorID)).
		Executor().ExecContext(ctx)
	if err != nil {
		respondError(c, &services.StorageError{Op: "unlike prayer", Err: err})
		return
	}

	if rows, _ := result.RowsAffected(); rows > 0 && prayer.Wall_ID != nil {
		services.GetWallDirectory().ScheduleStatsRefresh(*prayer.Wall_ID)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Prayer unliked", "liked": false})
}
