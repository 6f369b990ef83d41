package services

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strconv"

	"github.com/PrayerLoop/initializers"
	"github.com/PrayerLoop/models"
)

const likeDebounceMinutes = 60

// shouldSendDebounced reports whether a notification may be sent, using an
// atomic upsert so concurrent triggers inside the window send only once.
func shouldSendDebounced(notifType string, targetUserID int, entityID int, windowMinutes int) bool {
	query := `
		INSERT INTO notification_debounce (notification_type, target_user_id, entity_id, last_triggered_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (notification_type, target_user_id, entity_id)
		DO UPDATE SET last_triggered_at = NOW()
		WHERE notification_debounce.last_triggered_at < NOW() - ($4 || ' minutes')::INTERVAL
		RETURNING debounce_id
	`

	var debounceID int
	err := initializers.DB.QueryRow(query, notifType, targetUserID, entityID, strconv.Itoa(windowMinutes)).Scan(&debounceID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false
		}
		log.Printf("Error in debounce check: %v", err)
		return true
	}
	return true
}

// createInAppNotification adds an unread entry to the user's inbox.
func createInAppNotification(userID, actorID int, notifType, message string, prayerID int) {
	notification := models.Notification{
		User_Profile_ID:      userID,
		Notification_Type:    notifType,
		Notification_Message: message,
		Notification_Status:  models.NotificationStatusUnread,
		Target_Prayer_ID:     &prayerID,
		Created_By:           &actorID,
	}
	if _, err := initializers.DB.Insert("notification").Rows(notification).Executor().Exec(); err != nil {
		log.Printf("Failed to create %s notification for user %d: %v", notifType, userID, err)
	}
}

func sendPush(userID int, notifType string, payload NotificationPayload) {
	push := GetPushNotificationService()
	if push == nil {
		return
	}
	if err := push.SendNotificationToUser(userID, payload); err != nil {
		log.Printf("Failed to send %s push notification: %v", notifType, err)
	}
}

// NotifyAuthorOfComment tells a registered author that someone commented
// on their prayer. Meant to run in its own goroutine; failures are logged.
func NotifyAuthorOfComment(authorID int, actorID int, actorName string, prayerID int) {
	if authorID == actorID {
		return
	}

	message := fmt.Sprintf("%s commented on your prayer", actorName)
	createInAppNotification(authorID, actorID, models.NotificationTypePrayerComment, message, prayerID)

	sendPush(authorID, models.NotificationTypePrayerComment, NotificationPayload{
		Title: "New comment",
		Body:  message,
		Data: map[string]string{
			"type":     models.NotificationTypePrayerComment,
			"prayerId": strconv.Itoa(prayerID),
		},
	})
}

// NotifyAuthorOfLike tells a registered author someone is praying with
// them, at most once per prayer per debounce window.
func NotifyAuthorOfLike(authorID int, actorID int, prayerID int) {
	if authorID == actorID {
		return
	}

	if !shouldSendDebounced(models.NotificationTypePrayerLike, authorID, prayerID, likeDebounceMinutes) {
		return
	}

	message := "Someone is praying with you"
	createInAppNotification(authorID, actorID, models.NotificationTypePrayerLike, message, prayerID)

	sendPush(authorID, models.NotificationTypePrayerLike, NotificationPayload{
		Title: message,
		Body:  "Your prayer received new support on the wall",
		Data: map[string]string{
			"type":     models.NotificationTypePrayerLike,
			"prayerId": strconv.Itoa(prayerID),
		},
	})
}
