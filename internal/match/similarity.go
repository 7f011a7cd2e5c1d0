// package match scores local-library candidates against a normalized descriptor.
//
// Scoring is a weighted blend of fuzzy title and artist similarity with a
// hard version-compatibility gate in front of it: no amount of textual
// similarity lets a live recording stand in for a studio track.
package match

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Ratio computes edit-distance similarity between two strings on a 0-100
// scale, case-insensitive.
func Ratio(a, b string) float64 {
	a, b = strings.ToLower(strings.TrimSpace(a)), strings.ToLower(strings.TrimSpace(b))
	if a == b {
		return 100
	}
	if a == "" || b == "" {
		return 0
	}
	maxLen := len([]rune(a))
	if l := len([]rune(b)); l > maxLen {
		maxLen = l
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 100 * (1 - float64(dist)/float64(maxLen))
}

// TokenSetRatio compares the two strings as word sets, tolerant of token
// order and of one string carrying extra tokens. The shared-token core is
// compared against each full token sequence and the best ratio wins.
func TokenSetRatio(a, b string) float64 {
	ta, tb := tokens(a), tokens(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	common, restA, restB := intersect(ta, tb)
	core := strings.Join(common, " ")
	full1 := strings.TrimSpace(core + " " + strings.Join(restA, " "))
	full2 := strings.TrimSpace(core + " " + strings.Join(restB, " "))

	best := Ratio(full1, full2)
	if core != "" {
		if r := Ratio(core, full1); r > best {
			best = r
		}
		if r := Ratio(core, full2); r > best {
			best = r
		}
	}
	return best
}

// Similarity is the scorer's similarity primitive: the best of plain edit
// distance, token-set comparison, and a containment check that rewards one
// string being wholly inside the other ("Hey Jude" in "Hey Jude - Remastered 2015").
func Similarity(a, b string) float64 {
	best := Ratio(a, b)
	if r := TokenSetRatio(a, b); r > best {
		best = r
	}
	la, lb := strings.ToLower(strings.TrimSpace(a)), strings.ToLower(strings.TrimSpace(b))
	if la != "" && lb != "" && la != lb && (strings.Contains(la, lb) || strings.Contains(lb, la)) {
		if best < 85 {
			best = 85
		}
	}
	return best
}

func tokens(s string) []string {
	fields := strings.Fields(strings.ToLower(s))
	sorted := make([]string, len(fields))
	copy(sorted, fields)
	sort.Strings(sorted)
	return sorted
}

func intersect(a, b []string) (common, restA, restB []string) {
	counts := make(map[string]int, len(b))
	for _, t := range b {
		counts[t]++
	}
	matchedB := make(map[string]int, len(b))
	for _, t := range a {
		if counts[t] > 0 {
			counts[t]--
			matchedB[t]++
			common = append(common, t)
		} else {
			restA = append(restA, t)
		}
	}
	for _, t := range b {
		if matchedB[t] > 0 {
			matchedB[t]--
			continue
		}
		restB = append(restB, t)
	}
	return common, restA, restB
}
