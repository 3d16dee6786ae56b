// Package streets canonicalizes free-text street names and sign rule text.
// Normalize is the single source of truth for name comparison: the grouping
// key and the centerline lookup key both go through it, so two names match
// exactly when they normalize identically.
package streets

import (
	"regexp"
	"strings"
)

var (
	apostrophes = regexp.MustCompile(`['\x{2018}\x{2019}]`)
	punctuation = regexp.MustCompile(`[.,]`)
	whitespace  = regexp.MustCompile(`\s+`)
	ordinals    = regexp.MustCompile(`\b(\d+)(ST|ND|RD|TH)\b`)
)

// compass words collapse to single letters so "EAST 5 ST" and "E 5TH
// STREET" meet in the middle.
var compassWords = []struct{ word, abbr string }{
	{"EAST", "E"},
	{"WEST", "W"},
	{"NORTH", "N"},
	{"SOUTH", "S"},
}

var suffixWords = []struct{ word, abbr string }{
	{"STREET", "ST"},
	{"AVENUE", "AVE"},
	{"BOULEVARD", "BLVD"},
	{"PLACE", "PL"},
	{"ROAD", "RD"},
	{"DRIVE", "DR"},
	{"COURT", "CT"},
	{"PARKWAY", "PKWY"},
}

var wordBoundary = func() map[string]*regexp.Regexp {
	m := make(map[string]*regexp.Regexp)
	for _, r := range compassWords {
		m[r.word] = regexp.MustCompile(`\b` + r.word + `\b`)
	}
	for _, r := range suffixWords {
		m[r.word] = regexp.MustCompile(`\b` + r.word + `\b`)
	}
	return m
}()

// Normalize canonicalizes a street name into a comparable key: uppercase,
// punctuation stripped, compass words reduced to letters, common suffix
// words abbreviated, ordinal suffixes dropped from numbered streets,
// whitespace collapsed. Idempotent.
func Normalize(name string) string {
	t := strings.ToUpper(strings.TrimSpace(name))
	t = apostrophes.ReplaceAllString(t, "")
	t = punctuation.ReplaceAllString(t, " ")

	for _, r := range compassWords {
		t = wordBoundary[r.word].ReplaceAllString(t, r.abbr)
	}
	for _, r := range suffixWords {
		t = wordBoundary[r.word].ReplaceAllString(t, r.abbr)
	}

	t = ordinals.ReplaceAllString(t, "$1")
	t = whitespace.ReplaceAllString(t, " ")
	return strings.TrimSpace(t)
}
