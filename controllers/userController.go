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

const (
	minPushTokenLength = 20
	maxPushTokenLength = 500
	maxVisibilityWeeks = 520
)

func Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}

// GetUserProfile returns the authenticated user along with the visibility
// window that currently applies to their past prayers.
func GetUserProfile(c *gin.Context) {
	user := c.MustGet("currentUser").(models.UserProfile)

	c.JSON(http.StatusOK, gin.H{
		"user":                     user,
		"effectiveVisibilityWeeks": services.GetVisibilityFilter().ResolveWindow(user.Prayer_Visibility_Weeks),
	})
}

// UpdateVisibility sets how many weeks the user's past prayers stay
// visible to others. null restores the default; 0 keeps them visible.
func UpdateVisibility(c *gin.Context) {
	actorID := currentUserID(c)
	if actorID == nil {
		respondError(c, services.ErrUnauthorized)
		return
	}

	var req models.VisibilityUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	if w := req.Prayer_Visibility_Weeks; w != nil && (*w < 0 || *w > maxVisibilityWeeks) {
		respondError(c, &models.ValidationError{Field: "prayerVisibilityWeeks", Message: "prayerVisibilityWeeks must be between 0 and 520"})
		return
	}

	_, err := initializers.DB.Update("user_profile").
		Set(goqu.Record{
			"prayer_visibility_weeks": req.Prayer_Visibility_Weeks,
			"datetime_update":         goqu.L("NOW()"),
		}).
		Where(goqu.C("user_profile_id").Eq(*actorID)).
		Executor().ExecContext(c.Request.Context())
	if err != nil {
		respondError(c, &services.StorageError{Op: "update visibility", Err: err})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":                  "Visibility updated",
		"prayerVisibilityWeeks":    req.Prayer_Visibility_Weeks,
		"effectiveVisibilityWeeks": services.GetVisibilityFilter().ResolveWindow(req.Prayer_Visibility_Weeks),
	})
}

// StorePushToken registers or refreshes a device token for the current
// user.
func StorePushToken(c *gin.Context) {
	actorID := currentUserID(c)
	if actorID == nil {
		respondError(c, services.ErrUnauthorized)
		return
	}

	var req models.PushTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	if len(req.PushToken) < minPushTokenLength || len(req.PushToken) > maxPushTokenLength {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid push token length"})
		return
	}

	_, err := initializers.DB.Insert("user_push_tokens").
		Rows(goqu.Record{
			"user_profile_id": *actorID,
			"push_token":      req.PushToken,
			"platform":        req.Platform,
		}).
		OnConflict(goqu.DoUpdate("push_token", goqu.Record{
			"user_profile_id": *actorID,
			"platform":        req.Platform,
			"updated_at":      goqu.L("NOW()"),
		})).
		Executor().ExecContext(c.Request.Context())
	if err != nil {
		log.Printf("Failed to store push token for user %d: %v", *actorID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store push token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Push token stored successfully"})
}
