package controllers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/doug-martin/goqu/v9"
	"github.com/gin-gonic/gin"

	"github.com/PrayerLoop/initializers"
	"github.com/PrayerLoop/models"
	"github.com/PrayerLoop/services"
)

const (
	defaultRecentWalls = 8
	maxRecentWalls     = 52
)

// ListPrayers returns one week of an organization's wall, filtered by the
// authors' visibility windows.
func ListPrayers(c *gin.Context) {
	orgID, ok := paramID(c, "organization_id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid organization ID"})
		return
	}

	var fellowship string
	if raw := c.Query("fellowship"); raw != "" {
		f, ok := models.NormalizeFellowship(raw)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid fellowship", "field": "fellowship"})
			return
		}
		fellowship = f
	}

	ctx := c.Request.Context()
	viewerID := currentUserID(c)
	directory := services.GetWallDirectory()
	clock := directory.Clock()
	week := clock.NormalizeToWeekKey(c.Query("week"))

	wall, err := directory.ResolveWall(ctx, week, orgID, viewerID)
	if err != nil {
		respondError(c, err)
		return
	}

	rng, err := clock.WeekUTCRange(week)
	if err != nil {
		respondError(c, err)
		return
	}

	query := initializers.DB.From("prayer").
		Where(services.PrayerScope(wall, rng)).
		Order(goqu.I("prayer.datetime_create").Desc(), goqu.I("prayer.prayer_id").Desc())
	if fellowship != "" {
		query = query.Where(goqu.I("prayer.fellowship").Eq(fellowship))
	}

	prayers := []models.Prayer{}
	if err := query.ScanStructsContext(ctx, &prayers); err != nil {
		log.Printf("Failed to list prayers for organization %d week %s: %v", orgID, week, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve prayers"})
		return
	}

	settings, err := services.LoadVisibilitySettings(ctx, services.AuthorIDs(prayers))
	if err != nil {
		respondError(c, err)
		return
	}
	prayers = services.GetVisibilityFilter().FilterVisible(prayers, viewerID, settings)

	if c.Query("redact") == "true" {
		redactPrayers(prayers)
	}

	c.JSON(http.StatusOK, gin.H{
		"weekKey":  week,
		"prayers":  prayers,
		"wall":     wall.Summary(),
		"readOnly": !clock.IsCurrentWeek(week),
	})
}

func redactPrayers(prayers []models.Prayer) {
	filter := services.GetModerationFilter()
	if filter == nil {
		return
	}
	for i := range prayers {
		prayers[i].Content = filter.CleanContent(prayers[i].Content)
		if prayers[i].Thanksgiving != nil {
			t := filter.CleanContent(*prayers[i].Thanksgiving)
			prayers[i].Thanksgiving = &t
		}
		if prayers[i].Intercession != nil {
			s := filter.CleanContent(*prayers[i].Intercession)
			prayers[i].Intercession = &s
		}
	}
}

// GetRecentWalls lists the organization's walls for the most recent weeks,
// newest first. Weeks without a wall are omitted.
func GetRecentWalls(c *gin.Context) {
	orgID, ok := paramID(c, "organization_id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid organization ID"})
		return
	}

	n := defaultRecentWalls
	if raw := c.Query("weeks"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > maxRecentWalls {
			c.JSON(http.StatusBadRequest, gin.H{"error": "weeks must be between 1 and 52", "field": "weeks"})
			return
		}
		n = v
	}

	clock := services.GetWeekClock()
	keys := clock.RecentWeekKeys(n)
	weeks := make([]string, len(keys))
	for i, k := range keys {
		weeks[i] = string(k)
	}

	var walls []models.Wall
	err := initializers.DB.From("wall").
		Where(
			goqu.C("organization_id").Eq(orgID),
			goqu.C("week_key").In(weeks),
		).
		Order(goqu.C("week_key").Desc()).
		ScanStructsContext(c.Request.Context(), &walls)
	if err != nil {
		log.Printf("Failed to list walls for organization %d: %v", orgID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve walls"})
		return
	}

	summaries := make([]models.WallSummary, 0, len(walls))
	for _, w := range walls {
		summaries = append(summaries, w.Summary())
	}

	c.JSON(http.StatusOK, gin.H{
		"currentWeek": clock.CurrentWeekKey(),
		"walls":       summaries,
	})
}
