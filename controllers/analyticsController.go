package controllers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/PrayerLoop/initializers"
	"github.com/PrayerLoop/models"
	"github.com/PrayerLoop/services"
)

// GetAnalytics returns the current user's prayer analytics.
// GET /users/me/analytics?range=all|last_year|last_6_months&tz=Area/City
func GetAnalytics(c *gin.Context) {
	actorID := currentUserID(c)
	if actorID == nil {
		respondError(c, services.ErrUnauthorized)
		return
	}

	clock := services.GetWeekClock()
	now := clock.Now()

	since, err := services.AnalyticsSince(c.DefaultQuery("range", models.TimeRangeAll), now)
	if err != nil {
		respondError(c, err)
		return
	}

	loc := clock.Location()
	if tz := c.Query("tz"); tz != "" {
		loc, err = time.LoadLocation(tz)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid time zone", "field": "tz"})
			return
		}
	}

	ctx := c.Request.Context()
	query := initializers.DB.From("prayer").
		Where(
			goqu.C("user_profile_id").Eq(*actorID),
			goqu.C("deleted").IsFalse(),
		).
		Order(goqu.C("datetime_create").Asc(), goqu.C("prayer_id").Asc())
	if since != nil {
		query = query.Where(goqu.C("datetime_create").Gte(*since))
	}

	var prayers []models.Prayer
	if err := query.ScanStructsContext(ctx, &prayers); err != nil {
		log.Printf("Failed to load prayers for analytics (user %d): %v", *actorID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load analytics"})
		return
	}

	ids := make([]int, len(prayers))
	for i, p := range prayers {
		ids[i] = p.Prayer_ID
	}

	var likes, comments map[int]int
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		likes, err = countByPrayer(gctx, "prayer_like", ids)
		return err
	})
	g.Go(func() error {
		var err error
		comments, err = countByPrayer(gctx, "prayer_comment", ids)
		return err
	})
	if err := g.Wait(); err != nil {
		log.Printf("Failed to load engagement for analytics (user %d): %v", *actorID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load analytics"})
		return
	}

	c.JSON(http.StatusOK, services.ComputeSnapshot(prayers, likes, comments, loc, now))
}

// countByPrayer returns the number of rows in table per prayer ID.
func countByPrayer(ctx context.Context, table string, prayerIDs []int) (map[int]int, error) {
	counts := make(map[int]int, len(prayerIDs))
	if len(prayerIDs) == 0 {
		return counts, nil
	}

	var rows []models.PrayerCount
	err := initializers.DB.From(table).
		Select(goqu.C("prayer_id"), goqu.COUNT("*").As("count")).
		Where(goqu.C("prayer_id").In(prayerIDs)).
		GroupBy(goqu.C("prayer_id")).
		ScanStructsContext(ctx, &rows)
	if err != nil {
		return nil, err
	}

	for _, r := range rows {
		counts[r.Prayer_ID] = r.Count
	}
	return counts, nil
}
