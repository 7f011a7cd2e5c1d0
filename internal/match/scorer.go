package match

import (
	"sort"
	"strings"

	"github.com/calegray/syncopate/internal/models"
	"github.com/calegray/syncopate/internal/normalize"
)

// Canonical scoring constants. The confidence bands the decision engine
// reads are defined in the resolve package; everything here is about
// ranking candidates.
const (
	titleWeight  = 0.7
	artistWeight = 0.3

	artistFloor = 50 // reject cross-artist matches outright

	baseThreshold       = 70
	shortThreshold      = 90 // short titles need near-exact matches
	shortTitleFloor     = 95
	shortArtistFloor    = 70
	featMismatchPenalty = -25

	remasterBonus       = 8
	recentRemasterBonus = 4 // on top, for remasters from recentRemasterYear on
	recentRemasterYear  = 2010
	deluxeBonus         = 2
	livePenalty         = -15
	demoPenalty         = -10
	acousticPenalty     = -10 // inverted to a bonus for acoustic playlists

	albumBonusStrong   = 5
	albumBonusModerate = 2
	albumBonusMinimal  = 0.5
)

// Result pairs a candidate with its pre-bonus weighted similarity and the
// final score after preference and album adjustments.
type Result struct {
	Candidate     models.Candidate
	CombinedScore float64
	FinalScore    float64
}

// Options tunes a scoring pass.
type Options struct {
	// ShortTitle raises the acceptance floors for titles of four
	// characters or fewer.
	ShortTitle bool
	// PlaylistName is the target playlist's own name; an acoustic or
	// unplugged collection inverts the acoustic penalty.
	PlaylistName string
}

// Outcome is the scorer's output: candidates clearing the threshold,
// ranked by final score and deduplicated by candidate id, plus the single
// best result regardless of threshold for diagnostics and escalation.
type Outcome struct {
	Ranked []Result
	Best   *Result
}

// Score ranks candidates against the descriptor. Candidates failing the
// version gate, the artist floor, or the short-title floors are dropped
// entirely and never appear in Best.
func Score(d normalize.Descriptor, candidates []models.Candidate, opts Options) Outcome {
	srcTags := normalize.Tags(d.Title)
	srcFeat := d.Featured || hasFeatureClause(d.Title)
	acousticTarget := acousticPlaylist(opts.PlaylistName)

	threshold := float64(baseThreshold)
	if opts.ShortTitle {
		threshold = shortThreshold
	}

	var out Outcome
	seen := make(map[string]bool, len(candidates))

	for _, c := range candidates {
		if c.ID != "" && seen[c.ID] {
			continue
		}

		candTags := normalize.Tags(c.Title)
		if !VersionsCompatible(srcTags, candTags) {
			continue
		}

		candClean := normalize.CleanTitle(c.Title)
		candSearch := normalize.SearchVariant(candClean)

		// short titles are scored on plain edit distance: the token-set
		// and containment boosts would hand "One More" a perfect score
		// against "One", which is exactly what the raised floor guards
		titleSim := Similarity
		if opts.ShortTitle {
			titleSim = Ratio
		}
		titleScore := titleSim(d.Title, candClean)
		if s := titleSim(d.SearchTitle, candSearch); s > titleScore {
			titleScore = s
		}

		var artistScore float64
		if d.Artist != "" {
			artistScore = Similarity(d.Artist, normalize.CleanArtist(c.Artist))
			if artistScore < artistFloor {
				continue
			}
		}

		combined := titleScore*titleWeight + artistScore*artistWeight
		if d.Artist == "" {
			combined = titleScore
		}

		final := combined
		// a candidate carrying a featured clause the source lacks is
		// usually a different recording, unless the clean titles agree
		// and the clause is the only difference
		if !srcFeat && hasFeatureClause(c.Title) && !strings.EqualFold(d.Title, candClean) {
			final += featMismatchPenalty
		}
		final += preferenceAdjustment(candTags, acousticTarget)
		final += albumBonus(d, c)

		if c.ID != "" {
			seen[c.ID] = true
		}

		// a short-title candidate under the raised floors is out of the
		// running entirely; surfacing it through Best would let the
		// decision engine accept what the floor just rejected
		if opts.ShortTitle && (titleScore < shortTitleFloor || (d.Artist != "" && artistScore < shortArtistFloor)) {
			continue
		}

		result := Result{Candidate: c, CombinedScore: combined, FinalScore: final}
		if out.Best == nil || final > out.Best.FinalScore {
			best := result
			out.Best = &best
		}
		if combined < threshold {
			continue
		}
		out.Ranked = append(out.Ranked, result)
	}

	sort.SliceStable(out.Ranked, func(i, j int) bool {
		return out.Ranked[i].FinalScore > out.Ranked[j].FinalScore
	})
	return out
}

func preferenceAdjustment(tags []normalize.Tag, acousticTarget bool) float64 {
	var adj float64
	for _, t := range tags {
		switch t.Kind {
		case normalize.TagRemaster:
			adj += remasterBonus
			if t.Year >= recentRemasterYear {
				adj += recentRemasterBonus
			}
		case normalize.TagDeluxe:
			adj += deluxeBonus
		case normalize.TagLive:
			adj += livePenalty
		case normalize.TagDemo:
			adj += demoPenalty
		case normalize.TagAcoustic:
			if acousticTarget {
				adj += -acousticPenalty
			} else {
				adj += acousticPenalty
			}
		}
	}
	return adj
}

func albumBonus(d normalize.Descriptor, c models.Candidate) float64 {
	if d.Album == "" || c.Album == "" {
		return 0
	}
	switch sim := Similarity(d.Album, c.Album); {
	case sim >= 80:
		return albumBonusStrong
	case sim >= 60:
		return albumBonusModerate
	case sim > 0:
		return albumBonusMinimal
	default:
		return 0
	}
}

func acousticPlaylist(name string) bool {
	lower := strings.ToLower(name)
	return strings.Contains(lower, "acoustic") || strings.Contains(lower, "unplugged")
}

var featClause = []string{"feat.", "feat ", "ft.", "ft ", "featuring", "(with ", "[with "}

func hasFeatureClause(title string) bool {
	lower := strings.ToLower(title)
	for _, marker := range featClause {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
