package resolve

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/calegray/syncopate/internal/library"
	"github.com/calegray/syncopate/internal/match"
	"github.com/calegray/syncopate/internal/models"
	"github.com/calegray/syncopate/internal/normalize"
	"github.com/calegray/syncopate/internal/shared"
)

const (
	// defaultCandidateLimit caps the candidate set for cost control.
	defaultCandidateLimit = 100
	// albumNarrowThreshold is the album-name similarity needed to restrict
	// a short-title search to one album.
	albumNarrowThreshold = 70
	// artistPickThreshold is the minimum similarity for an artist search
	// hit to be used for narrowing.
	artistPickThreshold = 50
	// titlePrefilter drops artist tracks with no meaningful similarity to
	// either title variant before scoring.
	titlePrefilter = 40
)

// Retriever produces a bounded candidate set for a normalized descriptor
// using tiered artist-scoped search. It never scans the whole library: an
// unknown artist is signalled upward as [shared.ErrArtistNotFound] and the
// decision engine escalates instead.
type Retriever struct {
	lib    library.Searcher
	limit  int
	logger *log.Logger
}

// NewRetriever creates a Retriever over the given library capability.
// A non-positive limit falls back to the default cap.
func NewRetriever(lib library.Searcher, limit int, logger *log.Logger) *Retriever {
	if limit <= 0 {
		limit = defaultCandidateLimit
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Retriever{lib: lib, limit: limit, logger: logger}
}

// Retrieve returns a deduplicated candidate list for the descriptor.
//
// An empty artist, or an artist with no matching tracks, yields an empty
// set rather than a library-wide scan. Transient library query failures
// degrade this retrieval attempt to an empty set.
func (r *Retriever) Retrieve(ctx context.Context, d normalize.Descriptor) ([]models.Candidate, error) {
	if d.Artist == "" {
		return nil, nil
	}

	artists, err := r.lib.SearchArtists(ctx, d.Artist)
	if err != nil {
		if errors.Is(err, shared.ErrLibraryQuery) {
			r.logger.Warn("artist search failed, skipping retrieval", "artist", d.Artist, "err", err)
			return nil, nil
		}
		return nil, err
	}

	artist, ok := pickArtist(d.Artist, artists)
	if !ok {
		return nil, fmt.Errorf("%w: %q", shared.ErrArtistNotFound, d.Artist)
	}

	var candidates []models.Candidate
	if normalize.ShortTitle(d.SearchTitle) {
		candidates, err = r.shortTitleCandidates(ctx, d, artist)
	} else {
		candidates, err = r.artistCandidates(ctx, d, artist)
	}
	if err != nil {
		if errors.Is(err, shared.ErrLibraryQuery) {
			r.logger.Warn("candidate retrieval failed", "artist", artist.Name, "err", err)
			return nil, nil
		}
		return nil, err
	}

	return dedupe(candidates, r.limit), nil
}

// shortTitleCandidates narrows by album first: short titles ("Yes",
// "1-800") throw excessive false positives under artist-wide title search.
func (r *Retriever) shortTitleCandidates(ctx context.Context, d normalize.Descriptor, artist models.ArtistRef) ([]models.Candidate, error) {
	if d.Album != "" {
		albums, err := r.lib.ArtistAlbums(ctx, artist)
		if err != nil {
			return nil, err
		}
		if album, ok := pickAlbum(d.Album, albums); ok {
			return r.lib.AlbumTracks(ctx, album)
		}
	}
	return r.lib.ArtistTracks(ctx, artist)
}

// artistCandidates searches the artist's track list with both the raw and
// the search-cleaned title variant, unioned.
func (r *Retriever) artistCandidates(ctx context.Context, d normalize.Descriptor, artist models.ArtistRef) ([]models.Candidate, error) {
	tracks, err := r.lib.ArtistTracks(ctx, artist)
	if err != nil {
		return nil, err
	}

	var out []models.Candidate
	for _, track := range tracks {
		if titleRelevant(d.Title, track.Title) || titleRelevant(d.SearchTitle, track.Title) {
			out = append(out, track)
		}
	}
	return out, nil
}

func titleRelevant(want, have string) bool {
	if want == "" {
		return false
	}
	lw, lh := strings.ToLower(want), strings.ToLower(have)
	if strings.Contains(lh, lw) || strings.Contains(lw, lh) {
		return true
	}
	return match.Similarity(want, have) >= titlePrefilter
}

func pickArtist(name string, artists []models.ArtistRef) (models.ArtistRef, bool) {
	var best models.ArtistRef
	bestScore := float64(artistPickThreshold)
	found := false
	for _, a := range artists {
		if score := match.Similarity(name, a.Name); score >= bestScore {
			best, bestScore, found = a, score, true
		}
	}
	return best, found
}

func pickAlbum(name string, albums []models.AlbumRef) (models.AlbumRef, bool) {
	var best models.AlbumRef
	bestScore := float64(albumNarrowThreshold)
	found := false
	for _, a := range albums {
		if score := match.Similarity(name, a.Name); score >= bestScore {
			best, bestScore, found = a, score, true
		}
	}
	return best, found
}

func dedupe(candidates []models.Candidate, limit int) []models.Candidate {
	seen := make(map[string]bool, len(candidates))
	var out []models.Candidate
	for _, c := range candidates {
		if c.ID != "" && seen[c.ID] {
			continue
		}
		if c.ID != "" {
			seen[c.ID] = true
		}
		out = append(out, c)
		if len(out) >= limit {
			break
		}
	}
	return out
}
