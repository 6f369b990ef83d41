package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/PrayerLoop/models"
	"github.com/PrayerLoop/services"
)

// respondError writes the HTTP response for an error returned by the
// services. Storage failures are logged and reported generically.
func respondError(c *gin.Context, err error) {
	var validationErr *models.ValidationError
	var storageErr *services.StorageError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Message, "field": validationErr.Field})
	case errors.Is(err, models.ErrInvalidWeekKey):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid week"})
	case errors.Is(err, services.ErrModerationRejected):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": services.ModerationRejectedReason})
	case errors.Is(err, services.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to modify this prayer"})
	case errors.Is(err, services.ErrOrgNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Organization not found"})
	case errors.Is(err, services.ErrPrayerNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Prayer not found"})
	case errors.Is(err, services.ErrCommentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
	case errors.As(err, &storageErr):
		log.Printf("Storage error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong. Please try again."})
	default:
		log.Printf("Unhandled error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong. Please try again."})
	}
}

// currentUserID returns the authenticated user's ID, or nil for an
// anonymous request.
func currentUserID(c *gin.Context) *int {
	v, ok := c.Get("currentUser")
	if !ok {
		return nil
	}
	user, ok := v.(models.UserProfile)
	if !ok || user.User_Profile_ID == 0 {
		return nil
	}
	id := user.User_Profile_ID
	return &id
}

func paramID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
