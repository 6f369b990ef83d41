package models

import "time"

const (
	HistoryActionCreated = "created"
	HistoryActionEdited  = "edited"
	HistoryActionDeleted = "deleted"
)

// PrayerEditHistory is one row of prayer_edit_history. Only registered
// authors get history rows; guest submissions have no actor.
type PrayerEditHistory struct {
	Prayer_Edit_History_ID int       `json:"prayerEditHistoryId" goqu:"skipinsert"`
	Prayer_ID              int       `json:"prayerId"`
	User_Profile_ID        int       `json:"userProfileId"`
	Action_Type            string    `json:"actionType"`
	DateTime_Create        time.Time `json:"datetimeCreate" goqu:"skipinsert"`
}

type HistoryEntry struct {
	History_ID      int       `json:"historyId" db:"prayer_edit_history_id"`
	Action_Type     string    `json:"actionType" db:"action_type"`
	Actor_ID        int       `json:"actorId" db:"user_profile_id"`
	Actor_Name      string    `json:"actorName" db:"actor_name"`
	DateTime_Create time.Time `json:"datetimeCreate" db:"datetime_create"`
}
