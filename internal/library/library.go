// package library exposes the local media library as search and playlist
// capabilities.
//
// The resolution engine only ever talks to the [Searcher] and
// [PlaylistMutator] interfaces; the Subsonic adapter in this package is one
// implementation, backed by a Navidrome/Airsonic/Gonic server. All queries
// are idempotent and side-effect-free; Append is the only mutation.
package library

import (
	"context"

	"github.com/calegray/syncopate/internal/models"
)

// Searcher is the library search capability consumed by the candidate
// retriever. SearchTracks is the library-wide fallback and must only be
// called from explicitly gated paths (operator-driven manual search).
type Searcher interface {
	// SearchArtists returns library artists matching the given name.
	SearchArtists(ctx context.Context, name string) ([]models.ArtistRef, error)

	// ArtistTracks returns every track belonging to the artist.
	ArtistTracks(ctx context.Context, artist models.ArtistRef) ([]models.Candidate, error)

	// ArtistAlbums returns the artist's albums.
	ArtistAlbums(ctx context.Context, artist models.ArtistRef) ([]models.AlbumRef, error)

	// AlbumTracks returns the tracks on an album.
	AlbumTracks(ctx context.Context, album models.AlbumRef) ([]models.Candidate, error)

	// SearchTracks performs a library-wide title search.
	SearchTracks(ctx context.Context, title string) ([]models.Candidate, error)
}

// PlaylistMutator manages target playlists in the library.
type PlaylistMutator interface {
	// Playlists lists the library's playlists.
	Playlists(ctx context.Context) ([]models.Playlist, error)

	// CurrentTracks returns the playlist's current contents in order.
	CurrentTracks(ctx context.Context, playlistID string) ([]models.Candidate, error)

	// Append adds tracks to the end of the playlist in the given order.
	Append(ctx context.Context, playlistID string, tracks []models.Candidate) error

	// CreatePlaylist creates an empty playlist and returns it.
	CreatePlaylist(ctx context.Context, name string) (*models.Playlist, error)
}
