package models

// ModerationResult is never persisted.
type ModerationResult struct {
	IsValid       bool     `json:"isValid"`
	Reason        string   `json:"reason,omitempty"`
	DetectedTerms []string `json:"-"`
}
