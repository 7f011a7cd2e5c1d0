package sources

import (
	"context"
	"fmt"
	"strings"

	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/calegray/syncopate/internal/models"
	"github.com/calegray/syncopate/internal/shared"
)

// SpotifySource lists tracks from Spotify playlists using the client
// credentials flow.
type SpotifySource struct {
	clientID     string
	clientSecret string
	client       *spotify.Client
}

// NewSpotifySource creates an unauthenticated SpotifySource.
func NewSpotifySource(clientID, clientSecret string) *SpotifySource {
	return &SpotifySource{clientID: clientID, clientSecret: clientSecret}
}

// Name implements [Source].
func (s *SpotifySource) Name() string { return "spotify" }

// Authenticate obtains an app token via the client credentials flow.
func (s *SpotifySource) Authenticate(ctx context.Context) error {
	if s.clientID == "" || s.clientSecret == "" {
		return fmt.Errorf("%w: spotify client id/secret", shared.ErrMissingCredentials)
	}

	config := &clientcredentials.Config{
		ClientID:     s.clientID,
		ClientSecret: s.clientSecret,
		TokenURL:     spotifyauth.TokenURL,
	}
	token, err := config.Token(ctx)
	if err != nil {
		return fmt.Errorf("%w: spotify auth: %v", shared.ErrInvalidCredentials, err)
	}

	httpClient := spotifyauth.New().Client(ctx, token)
	s.client = spotify.New(httpClient)
	return nil
}

// ListTracks fetches a playlist by ID or open.spotify.com URL and returns
// its tracks as structured raw descriptors in playlist order.
func (s *SpotifySource) ListTracks(ctx context.Context, ref string) (*models.SourcePlaylist, error) {
	if s.client == nil {
		return nil, fmt.Errorf("%w: spotify source not authenticated", shared.ErrAdapter)
	}

	playlistID, err := parsePlaylistRef(ref)
	if err != nil {
		return nil, err
	}

	playlist, err := s.client.GetPlaylist(ctx, playlistID)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch playlist %s: %v", shared.ErrAdapter, playlistID, err)
	}

	out := &models.SourcePlaylist{
		Playlist: models.Playlist{
			ID:         string(playlist.ID),
			Name:       playlist.Name,
			TrackCount: int(playlist.Tracks.Total),
		},
	}

	page := playlist.Tracks
	for {
		for _, item := range page.Tracks {
			out.Tracks = append(out.Tracks, itemToDescriptor(item))
		}
		if err := s.client.NextPage(ctx, &page); err == spotify.ErrNoMorePages {
			break
		} else if err != nil {
			return nil, fmt.Errorf("%w: playlist page: %v", shared.ErrAdapter, err)
		}
	}

	return out, nil
}

func itemToDescriptor(item spotify.PlaylistTrack) models.RawDescriptor {
	track := item.Track
	var artist string
	if len(track.Artists) > 0 {
		artist = track.Artists[0].Name
	}
	return models.RawDescriptor{
		Title:  track.Name,
		Artist: artist,
		Album:  track.Album.Name,
	}
}

func parsePlaylistRef(ref string) (spotify.ID, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", fmt.Errorf("%w: empty playlist reference", shared.ErrAdapter)
	}
	if strings.Contains(ref, "open.spotify.com") {
		parts := strings.Split(ref, "/")
		last := parts[len(parts)-1]
		last = strings.SplitN(last, "?", 2)[0]
		if last == "" {
			return "", fmt.Errorf("%w: malformed playlist URL %q", shared.ErrAdapter, ref)
		}
		return spotify.ID(last), nil
	}
	return spotify.ID(strings.TrimPrefix(ref, "spotify:playlist:")), nil
}
