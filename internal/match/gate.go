package match

import (
	"strings"

	"github.com/calegray/syncopate/internal/normalize"
)

// remixPairThreshold is the minimum similarity between a source and a
// candidate remix/edit annotation for the pair to be considered the same
// variant.
const remixPairThreshold = 85

// cleanSourceAllowed lists the annotation kinds a candidate may carry when
// the source title carries none. Everything else (live, remix, acoustic,
// demo, alternate takes) disqualifies the candidate outright.
var cleanSourceAllowed = map[normalize.TagKind]bool{
	normalize.TagRemaster:   true,
	normalize.TagMono:       true,
	normalize.TagStereo:     true,
	normalize.TagExplicit:   true,
	normalize.TagClean:      true,
	normalize.TagRadioEdit:  true,
	normalize.TagSoundtrack: true,
	normalize.TagDeluxe:     true,
	normalize.TagFeatured:   true,
	normalize.TagYear:       true,
}

// VersionsCompatible is the hard version filter. A clean source title only
// accepts candidates whose annotations are all allow-listed. An annotated
// source requires liveness to agree on both sides, and remix/edit-type
// annotations must pair up with at least remixPairThreshold similarity.
func VersionsCompatible(source, candidate []normalize.Tag) bool {
	src := significant(source)
	cand := significant(candidate)

	if len(src) == 0 {
		for _, t := range cand {
			if !cleanSourceAllowed[t.Kind] {
				return false
			}
		}
		return true
	}

	if hasLive(src) != hasLive(cand) {
		return false
	}

	srcRemix := remixText(src)
	candRemix := remixText(cand)
	if (srcRemix == "") != (candRemix == "") {
		return false
	}
	if srcRemix != "" && Similarity(srcRemix, candRemix) < remixPairThreshold {
		return false
	}

	return true
}

// significant drops featured-artist tags; they are handled by the
// featured-mismatch penalty, not the gate.
func significant(tags []normalize.Tag) []normalize.Tag {
	var out []normalize.Tag
	for _, t := range tags {
		if t.Kind == normalize.TagFeatured {
			continue
		}
		out = append(out, t)
	}
	return out
}

func hasLive(tags []normalize.Tag) bool {
	return normalize.HasKind(tags, normalize.TagLive)
}

func remixText(tags []normalize.Tag) string {
	var parts []string
	for _, t := range tags {
		switch t.Kind {
		case normalize.TagRemix, normalize.TagRadioEdit, normalize.TagAlternate:
			parts = append(parts, t.Raw)
		}
	}
	return strings.ToLower(strings.Join(parts, " "))
}
