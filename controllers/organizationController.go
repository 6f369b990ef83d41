package controllers

import (
	"log"
	"net/http"

	"github.com/doug-martin/goqu/v9"
	"github.com/gin-gonic/gin"

	"github.com/PrayerLoop/initializers"
	"github.com/PrayerLoop/models"
	"github.com/PrayerLoop/services"
)

// GetOrganization returns the organization with the bounds of its current
// week and the fellowship tags a prayer may carry.
func GetOrganization(c *gin.Context) {
	orgID, ok := paramID(c, "organization_id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid organization ID"})
		return
	}

	var org models.Organization
	found, err := initializers.DB.From("organization").
		Where(goqu.C("organization_id").Eq(orgID)).
		ScanStructContext(c.Request.Context(), &org)
	if err != nil {
		log.Printf("Failed to fetch organization %d: %v", orgID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch organization"})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Organization not found"})
		return
	}

	clock := services.GetWeekClock()
	week := clock.CurrentWeekKey()
	rng, err := clock.WeekUTCRange(week)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"organization": org,
		"currentWeek":  week,
		"weekRange":    rng,
		"fellowships":  models.Fellowships,
	})
}
