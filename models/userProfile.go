package models

import "time"

type UserProfile struct {
	User_Profile_ID         int       `json:"userProfileId" goqu:"skipinsert"`
	Username                string    `json:"username"`
	Email                   string    `json:"email"`
	First_Name              string    `json:"firstName"`
	Last_Name               string    `json:"lastName"`
	Admin                   bool      `json:"admin" goqu:"skipinsert"`
	Prayer_Visibility_Weeks *int      `json:"prayerVisibilityWeeks"`
	Datetime_Create         time.Time `json:"datetimeCreate" goqu:"skipinsert"`
	Datetime_Update         time.Time `json:"datetimeUpdate" goqu:"skipinsert"`
	Deleted                 bool      `json:"deleted" goqu:"skipinsert"`
}

// VisibilitySetting is one author's row from the bulk visibility lookup.
// A nil value means "use the deployment default"; 0 means always visible.
type VisibilitySetting struct {
	User_Profile_ID         int  `db:"user_profile_id"`
	Prayer_Visibility_Weeks *int `db:"prayer_visibility_weeks"`
}

type VisibilityUpdate struct {
	Prayer_Visibility_Weeks *int `json:"prayerVisibilityWeeks"`
}
