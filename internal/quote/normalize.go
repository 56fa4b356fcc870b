package quote

import "strings"

// missingSentinels are the provider spellings of "not available",
// compared after uppercasing.
var missingSentinels = map[string]struct{}{
	"N/A": {},
	"N/D": {},
	"NA":  {},
	"ND":  {},
}

// Normalize maps a raw field value to a trimmed string, or nil when the
// value is absent, blank or one of the sentinels. The input is not modified
// and Normalize(Normalize(v)) equals Normalize(v).
func Normalize(v *string) *string {
	if v == nil {
		return nil
	}
	s := strings.TrimSpace(*v)
	if s == "" {
		return nil
	}
	if _, ok := missingSentinels[strings.ToUpper(s)]; ok {
		return nil
	}
	return &s
}

// IsMissing reports whether v normalizes to the missing marker.
func IsMissing(v *string) bool {
	return Normalize(v) == nil
}
