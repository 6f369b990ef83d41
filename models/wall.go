package models

import (
	"encoding/json"
	"time"
)

const DefaultWallTheme = "{}"

// Wall is the aggregate container for one organization's prayers in one week.
// The count columns are a cache refreshed after mutations; prayer, like and
// comment rows are the system of record.
type Wall struct {
	Wall_ID           int        `json:"wallId" goqu:"skipinsert"`
	Organization_ID   int        `json:"organizationId"`
	Week_Key          WeekKey    `json:"weekKey"`
	Is_Active         bool       `json:"isActive"`
	Theme             string     `json:"theme"`
	Prayer_Count      int        `json:"prayerCount" goqu:"skipinsert"`
	Participant_Count int        `json:"participantCount" goqu:"skipinsert"`
	Total_Likes       int        `json:"totalLikes" goqu:"skipinsert"`
	Total_Comments    int        `json:"totalComments" goqu:"skipinsert"`
	Stats_Updated_At  *time.Time `json:"statsUpdatedAt" goqu:"skipinsert"`
	Created_By        *int       `json:"createdBy"`
	Datetime_Create   time.Time  `json:"datetimeCreate" goqu:"skipinsert"`
}

type WallStats struct {
	PrayerCount      int `json:"prayerCount"`
	ParticipantCount int `json:"participantCount"`
	TotalLikes       int `json:"totalLikes"`
	TotalComments    int `json:"totalComments"`
}

// WallSummary is the wall shape returned alongside a prayer listing.
type WallSummary struct {
	ID       int             `json:"id"`
	WeekKey  WeekKey         `json:"weekKey"`
	Theme    json.RawMessage `json:"theme"`
	Stats    WallStats       `json:"stats"`
	IsActive bool            `json:"isActive"`
}

func (w Wall) Stats() WallStats {
	return WallStats{
		PrayerCount:      w.Prayer_Count,
		ParticipantCount: w.Participant_Count,
		TotalLikes:       w.Total_Likes,
		TotalComments:    w.Total_Comments,
	}
}

func (w Wall) Summary() WallSummary {
	theme := json.RawMessage(DefaultWallTheme)
	if w.Theme != "" && json.Valid([]byte(w.Theme)) {
		theme = json.RawMessage(w.Theme)
	}
	return WallSummary{
		ID:       w.Wall_ID,
		WeekKey:  w.Week_Key,
		Theme:    theme,
		Stats:    w.Stats(),
		IsActive: w.Is_Active,
	}
}
