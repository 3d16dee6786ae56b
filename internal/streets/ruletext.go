package streets

import (
	"regexp"
	"strings"
)

var (
	curlyQuotes  = regexp.MustCompile(`[\x{2018}\x{2019}]`)
	broomMarker  = regexp.MustCompile(`(?i)\bSANITATION\s+BROOM\s+SYMBOL\b`)
	supersedes   = regexp.MustCompile(`(?i)\bSUPERSEDES\b.*$`)
	arrowMarker  = regexp.MustCompile(`<->`)
	emptyParens  = regexp.MustCompile(`\(\s*\)`)
	strayParens  = regexp.MustCompile(`[()]`)
	multiSpace   = regexp.MustCompile(`\s+`)
)

// CleanRuleText normalizes raw sign description text at ingest time. An
// empty result means the row carries no usable rule and should be dropped.
func CleanRuleText(raw string) string {
	t := curlyQuotes.ReplaceAllString(raw, "'")
	t = multiSpace.ReplaceAllString(t, " ")
	t = strings.TrimSpace(t)

	t = strings.TrimSpace(broomMarker.ReplaceAllString(t, ""))
	t = strings.TrimSpace(supersedes.ReplaceAllString(t, ""))

	return strings.TrimSpace(multiSpace.ReplaceAllString(t, " "))
}

// CleanRuleForDisplay strips formatting artifacts that survive ingest but
// read as junk in a popup: direction arrows, empty parenthesis remnants,
// stray parentheses.
func CleanRuleForDisplay(raw string) string {
	t := arrowMarker.ReplaceAllString(raw, " ")
	t = emptyParens.ReplaceAllString(t, " ")
	t = strayParens.ReplaceAllString(t, " ")
	return strings.TrimSpace(multiSpace.ReplaceAllString(t, " "))
}

// SideLabel renders a single-letter side as a human label.
func SideLabel(side string) string {
	s := strings.ToUpper(strings.TrimSpace(side))
	switch s {
	case "N", "S", "E", "W":
		return s + " side"
	case "":
		return "Side unknown"
	}
	return s + " side"
}
