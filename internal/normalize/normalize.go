// package normalize cleans raw track references into comparable descriptor fields.
//
// Streaming exports and playlist files report the same song in many shapes:
// "Title - Artist" free text, titles carrying "(feat. X)" clauses, artist
// fields contaminated with "2015 Remaster - Artist" noise. Normalization
// reduces all of them to one structured form. Cleaning is idempotent:
// normalizing an already-normalized descriptor yields the same result.
package normalize

import (
	"regexp"
	"strings"

	"github.com/calegray/syncopate/internal/models"
)

// Descriptor is a normalized track reference.
//
// Title is the compare form: featured-artist clauses removed, version
// annotations ("(Live at Wembley)", "- Remastered 2011") kept so the
// scorer's version gate can read them. SearchTitle is the retrieval form
// with all annotations stripped.
type Descriptor struct {
	Title       string
	Artist      string
	Album       string
	SearchTitle string
	// Featured records that the original title carried a featured-artist
	// clause before cleaning removed it.
	Featured bool
}

var (
	// featured-artist clauses inside parentheses or brackets
	featBracketed = regexp.MustCompile(`(?i)\s*[(\[](?:feat\.?|ft\.?|featuring|with|f\.)\s+[^)\]]*[)\]]`)
	// trailing unbracketed featured clause: "Song feat. Somebody".
	// "with" is deliberately excluded here, it appears in too many real titles.
	featTrailing = regexp.MustCompile(`(?i)\s+(?:feat\.?|ft\.?|featuring|f\.)\s+.+$`)

	// artist-field contamination: "2015 Remaster - Artist", "Remastered - Artist"
	artistNoisePrefix = regexp.MustCompile(`(?i)^\s*(?:\d{2,4}\s+)?(?:remaster(?:ed)?|mono|stereo|deluxe(?:\s+edition)?)(?:\s+\d{2,4})?\s*-\s*`)
	artistNoiseSuffix = regexp.MustCompile(`(?i)\s*-\s*(?:\d{2,4}\s+)?(?:remaster(?:ed)?|mono|stereo|deluxe(?:\s+edition)?)(?:\s+\d{2,4})?\s*$`)

	bracketed  = regexp.MustCompile(`\s*[(\[][^)\]]*[)\]]`)
	whitespace = regexp.MustCompile(`\s+`)
)

// Normalize reduces a raw descriptor to its structured, cleaned form.
// It never fails: on any parse ambiguity the least-destructive
// interpretation wins (the original string as title, empty artist).
func Normalize(raw models.RawDescriptor) Descriptor {
	title, artist, album := raw.Title, raw.Artist, raw.Album
	if text := strings.TrimSpace(raw.Text); text != "" {
		title, artist = SplitLine(text)
		album = ""
	}

	d := Descriptor{
		Title:    CleanTitle(title),
		Artist:   CleanArtist(artist),
		Album:    collapse(album),
		Featured: featBracketed.MatchString(title) || featTrailing.MatchString(title),
	}
	d.SearchTitle = SearchVariant(d.Title)
	return d
}

// SplitLine splits a free-text "Title - Artist" reference on the first
// " - ". Lines without a separator become a title with an empty artist.
func SplitLine(line string) (title, artist string) {
	if idx := strings.Index(line, " - "); idx >= 0 {
		return strings.TrimSpace(line[:idx]), strings.TrimSpace(line[idx+3:])
	}
	return strings.TrimSpace(line), ""
}

// CleanTitle strips featured-artist clauses from a title while keeping
// version annotations intact.
func CleanTitle(title string) string {
	title = featBracketed.ReplaceAllString(title, "")
	title = featTrailing.ReplaceAllString(title, "")
	return collapse(title)
}

// CleanArtist strips featured-artist clauses and remaster/edition noise
// from an artist field.
func CleanArtist(artist string) string {
	artist = featBracketed.ReplaceAllString(artist, "")
	artist = featTrailing.ReplaceAllString(artist, "")
	artist = artistNoisePrefix.ReplaceAllString(artist, "")
	artist = artistNoiseSuffix.ReplaceAllString(artist, "")
	return collapse(artist)
}

// SearchVariant returns the retrieval-oriented form of a title: every
// parenthesized or bracketed segment removed, dash-suffixed variant
// descriptions ("Song - Remastered 2011") dropped.
func SearchVariant(title string) string {
	stripped := bracketed.ReplaceAllString(title, "")
	if idx := strings.Index(stripped, " - "); idx >= 0 {
		stripped = stripped[:idx]
	}
	cleaned := collapse(stripped)
	if cleaned == "" {
		// a title that was nothing but annotations keeps its original form
		return collapse(title)
	}
	return cleaned
}

// ShortTitle reports whether a title falls on the short-title retrieval
// path, where album narrowing is required to keep false positives down.
func ShortTitle(searchTitle string) bool {
	return len(strings.TrimSpace(searchTitle)) <= 4
}

func collapse(s string) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
}
