package models

import "strings"

const DefaultFellowship = "general"

var Fellowships = []string{"general", "youth", "young_adults", "couples", "seniors", "children"}

// NormalizeFellowship lower-cases the tag and maps empty input to the
// default. ok is false when the tag is not in the closed set.
func NormalizeFellowship(tag string) (string, bool) {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if tag == "" {
		return DefaultFellowship, true
	}
	for _, f := range Fellowships {
		if f == tag {
			return tag, true
		}
	}
	return "", false
}
