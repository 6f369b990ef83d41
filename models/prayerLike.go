package models

import "time"

// Like records that a user prayed along with a prayer. One row per
// (prayer, user).
type Like struct {
	Prayer_Like_ID  int       `json:"prayerLikeId" db:"prayer_like_id" goqu:"skipinsert"`
	Prayer_ID       int       `json:"prayerId" db:"prayer_id"`
	User_Profile_ID int       `json:"userProfileId" db:"user_profile_id"`
	DateTime_Create time.Time `json:"datetimeCreate" db:"datetime_create" goqu:"skipinsert"`
}

// PrayerCount is a (prayer_id, n) row from a grouped count query.
type PrayerCount struct {
	Prayer_ID int `db:"prayer_id"`
	Count     int `db:"count"`
}
