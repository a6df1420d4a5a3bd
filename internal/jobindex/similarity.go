package jobindex

import "strings"

// TokenSetRatio scores how alike two strings are on a 0-100 scale using
// their word-token sets. Full containment of one set in the other scores 100,
// so "data entry clerk" matches "data entry clerk (remote)" exactly; partial
// overlap falls back to the Dice coefficient over the two sets.
func TokenSetRatio(a, b string) float64 {
	ta := tokenSet(a)
	tb := tokenSet(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	common := 0
	for tok := range ta {
		if tb[tok] {
			common++
		}
	}

	if common == len(ta) || common == len(tb) {
		return 100
	}

	return 100 * 2 * float64(common) / float64(len(ta)+len(tb))
}

func tokenSet(s string) map[string]bool {
	fields := strings.Fields(strings.ToLower(s))
	set := make(map[string]bool, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, `.,;:!?"'()[]{}`)
		if f != "" {
			set[f] = true
		}
	}
	return set
}
