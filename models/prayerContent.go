package models

import (
	"strings"
	"unicode/utf8"
)

const (
	MaxContentLength    = 512
	MaxDualContentTotal = 500
	MaxAuthorNameLength = 50
)

// PrayerContent is either LegacyContent or DualContent.
type PrayerContent interface {
	// Display is the primary text shown on the wall.
	Display() string
	// Parts returns every user-written fragment, for moderation.
	Parts() []string
	// Validate checks emptiness and length limits.
	Validate() error
	isPrayerContent()
}

type LegacyContent struct {
	Text string
}

type DualContent struct {
	Thanksgiving string
	Intercession string
}

func resolveContent(text, thanksgiving, intercession string) PrayerContent {
	thanksgiving = strings.TrimSpace(thanksgiving)
	intercession = strings.TrimSpace(intercession)
	if thanksgiving != "" || intercession != "" {
		return DualContent{Thanksgiving: thanksgiving, Intercession: intercession}
	}
	return LegacyContent{Text: strings.TrimSpace(text)}
}

func (LegacyContent) isPrayerContent() {}
func (DualContent) isPrayerContent()   {}

func (c LegacyContent) Display() string { return c.Text }
func (c LegacyContent) Parts() []string { return []string{c.Text} }

func (c LegacyContent) Validate() error {
	if c.Text == "" {
		return &ValidationError{Field: "content", Message: "Prayer content is required"}
	}
	if utf8.RuneCountInString(c.Text) > MaxContentLength {
		return &ValidationError{Field: "content", Message: "Prayer content must be 512 characters or fewer"}
	}
	return nil
}

// Display joins the non-empty sections, thanksgiving first.
func (c DualContent) Display() string {
	var parts []string
	if c.Thanksgiving != "" {
		parts = append(parts, c.Thanksgiving)
	}
	if c.Intercession != "" {
		parts = append(parts, c.Intercession)
	}
	return strings.Join(parts, "\n\n")
}

func (c DualContent) Parts() []string { return []string{c.Thanksgiving, c.Intercession} }

func (c DualContent) Validate() error {
	if c.Thanksgiving == "" && c.Intercession == "" {
		return &ValidationError{Field: "content", Message: "Prayer content is required"}
	}
	total := utf8.RuneCountInString(c.Thanksgiving) + utf8.RuneCountInString(c.Intercession)
	if total > MaxDualContentTotal {
		return &ValidationError{Field: "content", Message: "Thanksgiving and intercession must be 500 characters or fewer combined"}
	}
	return nil
}

// Sections returns the optional columns to persist for c.
func Sections(c PrayerContent) (thanksgiving, intercession *string) {
	d, ok := c.(DualContent)
	if !ok {
		return nil, nil
	}
	if d.Thanksgiving != "" {
		t := d.Thanksgiving
		thanksgiving = &t
	}
	if d.Intercession != "" {
		i := d.Intercession
		intercession = &i
	}
	return thanksgiving, intercession
}

// ValidateAuthorName trims and checks the display name used on the wall.
func ValidateAuthorName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", &ValidationError{Field: "authorName", Message: "Author name is required"}
	}
	if utf8.RuneCountInString(name) > MaxAuthorNameLength {
		return "", &ValidationError{Field: "authorName", Message: "Author name must be 50 characters or fewer"}
	}
	return name, nil
}

// ValidationError is returned for malformed input, before any store access.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
