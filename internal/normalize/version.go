package normalize

import (
	"regexp"
	"strconv"
	"strings"
)

// TagKind classifies a version annotation pulled from a title.
type TagKind int

const (
	TagOther TagKind = iota
	TagRemaster
	TagLive
	TagRemix
	TagAcoustic
	TagDemo
	TagDeluxe
	TagExplicit
	TagClean
	TagRadioEdit
	TagMono
	TagStereo
	TagSoundtrack
	TagFeatured
	TagInstrumental
	TagAlternate
	TagYear
)

func (k TagKind) String() string {
	switch k {
	case TagRemaster:
		return "remaster"
	case TagLive:
		return "live"
	case TagRemix:
		return "remix"
	case TagAcoustic:
		return "acoustic"
	case TagDemo:
		return "demo"
	case TagDeluxe:
		return "deluxe"
	case TagExplicit:
		return "explicit"
	case TagClean:
		return "clean"
	case TagRadioEdit:
		return "radio edit"
	case TagMono:
		return "mono"
	case TagStereo:
		return "stereo"
	case TagSoundtrack:
		return "soundtrack"
	case TagFeatured:
		return "featured"
	case TagInstrumental:
		return "instrumental"
	case TagAlternate:
		return "alternate"
	case TagYear:
		return "year"
	default:
		return "other"
	}
}

// Tag is a single version annotation: the raw segment text, its
// classification, and the release year when one is present.
// Tags are attached transiently during scoring and never persisted.
type Tag struct {
	Raw  string
	Kind TagKind
	Year int
}

var (
	segment   = regexp.MustCompile(`[(\[]([^)\]]+)[)\]]`)
	yearDigit = regexp.MustCompile(`\b(19|20)\d{2}\b`)

	liveWord    = regexp.MustCompile(`(?i)\b(?:live|concert|tour|in concert|unplugged at)\b`)
	remixWord   = regexp.MustCompile(`(?i)\b(?:remix|rework|re-?edit|edit|dub|flip|bootleg|vip)\b`)
	altWord     = regexp.MustCompile(`(?i)\b(?:alternate|alt\.?|early take|take \d+|outtake|rough mix|alternative mix)\b`)
	featMarker  = regexp.MustCompile(`(?i)^(?:feat\.?|ft\.?|featuring|with|f\.)\s+`)
	soundtrack  = regexp.MustCompile(`(?i)\b(?:soundtrack|motion picture|theme|from "|from the\b|from ')`)
	yearOnlySeg = regexp.MustCompile(`^\s*(19|20)\d{2}\s*$`)
)

// Tags extracts version annotations from a title. Both parenthesized and
// bracketed segments and dash-suffixed variants ("Song - Remastered 2011")
// are read. Featured clauses classify as [TagFeatured].
func Tags(title string) []Tag {
	var tags []Tag
	for _, m := range segment.FindAllStringSubmatch(title, -1) {
		tags = appendTag(tags, m[1])
	}
	// dash-suffix variants: everything after the first " - " in the
	// annotation-free remainder is a variant description
	stripped := bracketed.ReplaceAllString(title, "")
	if idx := strings.Index(stripped, " - "); idx >= 0 {
		for _, part := range strings.Split(stripped[idx+3:], " - ") {
			tags = appendTag(tags, part)
		}
	}
	return tags
}

func appendTag(tags []Tag, raw string) []Tag {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return tags
	}
	tag := Tag{Raw: raw, Kind: classify(raw)}
	if y := yearDigit.FindString(raw); y != "" {
		tag.Year, _ = strconv.Atoi(y)
	}
	return append(tags, tag)
}

func classify(raw string) TagKind {
	lower := strings.ToLower(raw)
	switch {
	case featMarker.MatchString(raw):
		return TagFeatured
	case strings.Contains(lower, "unplugged") || strings.Contains(lower, "acoustic"):
		return TagAcoustic
	case strings.Contains(lower, "remaster"):
		return TagRemaster
	case liveWord.MatchString(raw):
		return TagLive
	case strings.Contains(lower, "radio edit") || strings.Contains(lower, "single version") || strings.Contains(lower, "single edit"):
		return TagRadioEdit
	case strings.Contains(lower, "demo"):
		return TagDemo
	case strings.Contains(lower, "instrumental"):
		return TagInstrumental
	case altWord.MatchString(raw):
		return TagAlternate
	case remixWord.MatchString(raw):
		return TagRemix
	case strings.Contains(lower, "deluxe") || strings.Contains(lower, "anniversary") || strings.Contains(lower, "expanded") || strings.Contains(lower, "bonus track"):
		return TagDeluxe
	case lower == "explicit" || strings.Contains(lower, "explicit version"):
		return TagExplicit
	case lower == "clean" || strings.Contains(lower, "clean version"):
		return TagClean
	case lower == "mono" || strings.Contains(lower, "mono version") || strings.Contains(lower, "mono mix"):
		return TagMono
	case lower == "stereo" || strings.Contains(lower, "stereo version") || strings.Contains(lower, "stereo mix"):
		return TagStereo
	case soundtrack.MatchString(raw):
		return TagSoundtrack
	case yearOnlySeg.MatchString(raw):
		return TagYear
	default:
		return TagOther
	}
}

// HasKind reports whether any tag in the set carries the given kind.
func HasKind(tags []Tag, kind TagKind) bool {
	for _, t := range tags {
		if t.Kind == kind {
			return true
		}
	}
	return false
}

// OfKind returns the tags of the given kind.
func OfKind(tags []Tag, kind TagKind) []Tag {
	var out []Tag
	for _, t := range tags {
		if t.Kind == kind {
			out = append(out, t)
		}
	}
	return out
}
