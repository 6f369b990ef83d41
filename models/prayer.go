package models

import "time"

type Prayer struct {
	Prayer_ID       int       `json:"prayerId" goqu:"skipinsert"`
	Wall_ID         *int      `json:"wallId"`
	Organization_ID int       `json:"organizationId"`
	User_Profile_ID *int      `json:"authorId"`
	Author_Name     string    `json:"authorName"`
	Content         string    `json:"content"`
	Thanksgiving    *string   `json:"thanksgiving"`
	Intercession    *string   `json:"intercession"`
	Fellowship      string    `json:"fellowship"`
	Datetime_Create time.Time `json:"datetimeCreate"`
	Datetime_Update time.Time `json:"datetimeUpdate"`
	Deleted         bool      `json:"-" goqu:"skipinsert"`
}

// IsAuthoredBy reports whether userID is the registered author.
// Guest prayers have no author and are never owned by anyone.
func (p Prayer) IsAuthoredBy(userID int) bool {
	return p.User_Profile_ID != nil && *p.User_Profile_ID == userID
}

// PrayerSubmission is the raw request body. It accepts both the legacy
// single-field shape and the thanksgiving/intercession shape; call Resolve
// once to turn it into a PrayerContent.
type PrayerSubmission struct {
	Content      string `json:"content"`
	Thanksgiving string `json:"thanksgiving"`
	Intercession string `json:"intercession"`
	Author_Name  string `json:"authorName"`
	Fellowship   string `json:"fellowship"`
}

type PrayerUpdate struct {
	Content      string  `json:"content"`
	Thanksgiving string  `json:"thanksgiving"`
	Intercession string  `json:"intercession"`
	Fellowship   *string `json:"fellowship"`
}

func (s PrayerSubmission) Resolve() PrayerContent {
	return resolveContent(s.Content, s.Thanksgiving, s.Intercession)
}

// HasContent reports whether the update carries new text at all.
func (u PrayerUpdate) HasContent() bool {
	return u.Content != "" || u.Thanksgiving != "" || u.Intercession != ""
}

func (u PrayerUpdate) Resolve() PrayerContent {
	return resolveContent(u.Content, u.Thanksgiving, u.Intercession)
}

// ContentOf rebuilds the variant a stored prayer was written with.
func ContentOf(p Prayer) PrayerContent {
	if p.Thanksgiving != nil || p.Intercession != nil {
		return DualContent{Thanksgiving: deref(p.Thanksgiving), Intercession: deref(p.Intercession)}
	}
	return LegacyContent{Text: p.Content}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
