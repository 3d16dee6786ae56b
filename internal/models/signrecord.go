package models

import "strings"

// SignRecord is one parking sign from the city sign dataset, converted to
// geographic coordinates. Records with empty rule text or implausible
// coordinates are dropped during conversion and never reach this type.
type SignRecord struct {
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
	OnStreet   string  `json:"onStreet"`
	FromStreet string  `json:"fromStreet"`
	ToStreet   string  `json:"toStreet"`
	Side       string  `json:"side"` // single letter N/S/E/W, or ""
	RuleText   string  `json:"ruleText"`
}

// NormalizeSideLetter reduces a raw side-of-street value to a single compass
// letter. "NORTH", "N/E" and "n" all become "N"; anything else keeps its
// first character.
func NormalizeSideLetter(v string) string {
	s := strings.ToUpper(strings.TrimSpace(v))
	switch {
	case strings.HasPrefix(s, "N"):
		return "N"
	case strings.HasPrefix(s, "S"):
		return "S"
	case strings.HasPrefix(s, "E"):
		return "E"
	case strings.HasPrefix(s, "W"):
		return "W"
	}
	if s == "" {
		return ""
	}
	return s[:1]
}
