package models

import "time"

const (
	TimeRangeAll         = "all"
	TimeRangeLastYear    = "last_year"
	TimeRangeLast6Months = "last_6_months"
)

const (
	TimeOfDayMorning   = "morning"
	TimeOfDayAfternoon = "afternoon"
	TimeOfDayEvening   = "evening"
	TimeOfDayNight     = "night"
)

// AnalyticsSnapshot is computed fresh for every request.
type AnalyticsSnapshot struct {
	TotalPrayers  int                `json:"totalPrayers"`
	FirstPrayerAt *time.Time         `json:"firstPrayerAt"`
	LastPrayerAt  *time.Time         `json:"lastPrayerAt"`
	Frequency     PrayerFrequency    `json:"frequency"`
	Streaks       PrayerStreaks      `json:"streaks"`
	Engagement    PrayerEngagement   `json:"engagement"`
	TimeOfDay     TimeOfDayBreakdown `json:"timeOfDay"`
	WordCounts    WordCountStats     `json:"wordCounts"`
	Categories    []CategoryShare    `json:"categories"`
	ContentTypes  ContentTypeTally   `json:"contentTypes"`
	Monthly       []MonthlyActivity  `json:"monthly"`
}

type PrayerFrequency struct {
	Daily   float64 `json:"daily"`
	Weekly  float64 `json:"weekly"`
	Monthly float64 `json:"monthly"`
}

type PrayerStreaks struct {
	Current int `json:"currentStreak"`
	Longest int `json:"longestStreak"`
}

type PrayerEngagement struct {
	TotalLikes      int              `json:"totalLikes"`
	TotalComments   int              `json:"totalComments"`
	AverageLikes    float64          `json:"averageLikes"`
	AverageComments float64          `json:"averageComments"`
	MostLiked       *PrayerHighlight `json:"mostLikedPrayer"`
	MostCommented   *PrayerHighlight `json:"mostCommentedPrayer"`
}

type PrayerHighlight struct {
	Prayer_ID       int       `json:"prayerId"`
	Content         string    `json:"content"`
	Count           int       `json:"count"`
	Datetime_Create time.Time `json:"datetimeCreate"`
}

type TimeOfDayBreakdown struct {
	Morning   int    `json:"morning"`
	Afternoon int    `json:"afternoon"`
	Evening   int    `json:"evening"`
	Night     int    `json:"night"`
	Preferred string `json:"preferred"`
}

type WordCountStats struct {
	Average int `json:"average"`
	Min     int `json:"min"`
	Max     int `json:"max"`
}

type CategoryShare struct {
	Fellowship string  `json:"fellowship"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

type ContentTypeTally struct {
	ThanksgivingOnly int `json:"thanksgivingOnly"`
	IntercessionOnly int `json:"intercessionOnly"`
	Mixed            int `json:"mixed"`
	Unclassified     int `json:"unclassified"`
}

type MonthlyActivity struct {
	Month    string `json:"month"`
	Count    int    `json:"count"`
	Likes    int    `json:"likes"`
	Comments int    `json:"comments"`
}
