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

const maxInboxSize = 100

// GetNotifications returns the current user's inbox, newest first.
// ?status=UNREAD narrows it to unread entries.
func GetNotifications(c *gin.Context) {
	actorID := currentUserID(c)
	if actorID == nil {
		respondError(c, services.ErrUnauthorized)
		return
	}

	query := initializers.DB.From("notification").
		Where(goqu.C("user_profile_id").Eq(*actorID)).
		Order(goqu.C("datetime_create").Desc(), goqu.C("notification_id").Desc()).
		Limit(maxInboxSize)

	switch status := c.Query("status"); status {
	case "":
	case models.NotificationStatusRead, models.NotificationStatusUnread:
		query = query.Where(goqu.C("notification_status").Eq(status))
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be READ or UNREAD", "field": "status"})
		return
	}

	notifications := []models.Notification{}
	if err := query.ScanStructsContext(c.Request.Context(), &notifications); err != nil {
		log.Printf("Failed to load notifications for user %d: %v", *actorID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

// ToggleNotificationStatus flips one of the current user's notifications
// between READ and UNREAD.
func ToggleNotificationStatus(c *gin.Context) {
	actorID := currentUserID(c)
	if actorID == nil {
		respondError(c, services.ErrUnauthorized)
		return
	}

	notificationID, ok := paramID(c, "notification_id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notification ID"})
		return
	}

	ctx := c.Request.Context()
	owned := goqu.And(
		goqu.C("notification_id").Eq(notificationID),
		goqu.C("user_profile_id").Eq(*actorID),
	)

	var currentStatus string
	found, err := initializers.DB.From("notification").
		Select("notification_status").
		Where(owned).
		ScanValContext(ctx, &currentStatus)
	if err != nil {
		respondError(c, &services.StorageError{Op: "load notification", Err: err})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return
	}

	newStatus := models.NotificationStatusRead
	if currentStatus == models.NotificationStatusRead {
		newStatus = models.NotificationStatusUnread
	}

	_, err = initializers.DB.Update("notification").
		Set(goqu.Record{"notification_status": newStatus, "datetime_update": goqu.L("NOW()")}).
		Where(owned).
		Executor().ExecContext(ctx)
	if err != nil {
		respondError(c, &services.StorageError{Op: "update notification", Err: err})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as " + newStatus, "notificationStatus": newStatus})
}

func DeleteNotification(c *gin.Context) {
	actorID := currentUserID(c)
	if actorID == nil {
		respondError(c, services.ErrUnauthorized)
		return
	}

	notificationID, ok := paramID(c, "notification_id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notification ID"})
		return
	}

	result, err := initializers.DB.Delete("notification").
		Where(
			goqu.C("notification_id").Eq(notificationID),
			goqu.C("user_profile_id").Eq(*actorID),
		).
		Executor().ExecContext(c.Request.Context())
	if err != nil {
		respondError(c, &services.StorageError{Op: "delete notification", Err: err})
		return
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification deleted successfully"})
}

func MarkAllNotificationsAsRead(c *gin.Context) {
	actorID := currentUserID(c)
	if actorID == nil {
		respondError(c, services.ErrUnauthorized)
		return
	}

	result, err := initializers.DB.Update("notification").
		Set(goqu.Record{"notification_status": models.NotificationStatusRead, "datetime_update": goqu.L("NOW()")}).
		Where(
			goqu.C("user_profile_id").Eq(*actorID),
			goqu.C("notification_status").Eq(models.NotificationStatusUnread),
		).
		Executor().ExecContext(c.Request.Context())
	if err != nil {
		respondError(c, &services.StorageError{Op: "mark notifications read", Err: err})
		return
	}

	rowsAffected, _ := result.RowsAffected()
	c.JSON(http.StatusOK, gin.H{
		"message":      "All notifications marked as read",
		"updatedCount": rowsAffected,
	})
}
