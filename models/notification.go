package models

import "time"

const (
	NotificationTypePrayerComment = "PRAYER_COMMENT"
	NotificationTypePrayerLike    = "PRAYER_LIKE"
)

const (
	NotificationStatusRead   = "READ"
	NotificationStatusUnread = "UNREAD"
)

// Notification is one entry in a user's in-app inbox.
type Notification struct {
	Notification_ID      int       `json:"notificationId" goqu:"skipinsert"`
	User_Profile_ID      int       `json:"userProfileId"`
	Notification_Type    string    `json:"notificationType"`
	Notification_Message string    `json:"notificationMessage"`
	Notification_Status  string    `json:"notificationStatus"`
	Target_Prayer_ID     *int      `json:"targetPrayerId"`
	Created_By           *int      `json:"createdBy"`
	DateTime_Create      time.Time `json:"datetimeCreate" goqu:"skipinsert"`
	DateTime_Update      time.Time `json:"datetimeUpdate" goqu:"skipinsert"`
}
