package library

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/charmbracelet/log"
	subsonic "github.com/delucks/go-subsonic"
	"golang.org/x/time/rate"

	"github.com/calegray/syncopate/internal/models"
	"github.com/calegray/syncopate/internal/shared"
)

const (
	subsonicAPIVersion = "1.16.1"
	subsonicClientName = "syncopate"
)

// SubsonicLibrary implements [Searcher] and [PlaylistMutator] against a
// Subsonic-compatible media server.
type SubsonicLibrary struct {
	URL      string
	Username string
	Password string

	client  subsonic.Client
	httpc   *http.Client
	salt    string
	token   string
	limiter *rate.Limiter
	cache   *LookupCache
	logger  *log.Logger
}

// SubsonicOpts configures a SubsonicLibrary.
type SubsonicOpts struct {
	URL      string
	Username string
	Password string
	// RequestsPerSecond throttles calls to the server; zero disables it.
	RequestsPerSecond float64
	// Cache is an optional artist-lookup cache.
	Cache  *LookupCache
	Logger *log.Logger
}

// NewSubsonicLibrary creates an unauthenticated SubsonicLibrary.
func NewSubsonicLibrary(opts SubsonicOpts) *SubsonicLibrary {
	lib := &SubsonicLibrary{
		URL:      opts.URL,
		Username: opts.Username,
		Password: opts.Password,
		httpc:    http.DefaultClient,
		cache:    opts.Cache,
		logger:   opts.Logger,
	}
	if lib.logger == nil {
		lib.logger = shared.NewLogger(nil)
	}
	if opts.RequestsPerSecond > 0 {
		lib.limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}
	return lib
}

// Authenticate pings the server for a salt and establishes the session.
func (l *SubsonicLibrary) Authenticate(ctx context.Context) error {
	pingURL := fmt.Sprintf("%s/rest/ping.view?u=%s&p=%s&v=%s&c=%s&f=json",
		l.URL, url.QueryEscape(l.Username), url.QueryEscape(l.Password), subsonicAPIVersion, subsonicClientName)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pingURL, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrLibraryOffline, err)
	}
	resp, err := l.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrLibraryOffline, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrLibraryOffline, err)
	}

	var ping struct {
		SubsonicResponse struct {
			Status string `json:"status"`
			Salt   string `json:"salt"`
		} `json:"subsonic-response"`
	}
	if err := json.Unmarshal(body, &ping); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrLibraryOffline, err)
	}
	if ping.SubsonicResponse.Status != "ok" {
		return fmt.Errorf("%w: ping status %s", shared.ErrInvalidCredentials, ping.SubsonicResponse.Status)
	}

	l.salt = ping.SubsonicResponse.Salt
	l.token = saltedPassword(l.Password, l.salt)
	l.client = subsonic.Client{
		Client:       l.httpc,
		BaseUrl:      l.URL,
		User:         l.Username,
		ClientName:   subsonicClientName,
		PasswordAuth: true,
	}
	return l.client.Authenticate(l.Password)
}

// SearchArtists returns library artists matching the given name, using the
// lookup cache when one is configured.
func (l *SubsonicLibrary) SearchArtists(ctx context.Context, name string) ([]models.ArtistRef, error) {
	if l.cache != nil {
		if cached, ok := l.cache.Artist(name); ok {
			return []models.ArtistRef{cached}, nil
		}
	}

	if err := l.wait(ctx); err != nil {
		return nil, err
	}
	result, err := l.client.Search2(name, map[string]string{
		"artistCount": "10",
		"albumCount":  "0",
		"songCount":   "0",
	})
	if err != nil {
		return nil, fmt.Errorf("%w: artist search %q: %v", shared.ErrLibraryQuery, name, err)
	}

	var artists []models.ArtistRef
	if result != nil {
		for _, a := range result.Artist {
			artists = append(artists, models.ArtistRef{ID: a.ID, Name: a.Name})
		}
	}

	if l.cache != nil && len(artists) > 0 {
		if err := l.cache.PutArtist(name, artists[0]); err != nil {
			l.logger.Debug("artist cache write failed", "query", name, "err", err)
		}
	}
	return artists, nil
}

// ArtistAlbums returns the artist's albums.
func (l *SubsonicLibrary) ArtistAlbums(ctx context.Context, artist models.ArtistRef) ([]models.AlbumRef, error) {
	if err := l.wait(ctx); err != nil {
		return nil, err
	}
	dir, err := l.client.GetMusicDirectory(artist.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: albums of %q: %v", shared.ErrLibraryQuery, artist.Name, err)
	}

	var albums []models.AlbumRef
	for _, child := range dir.Child {
		if !child.IsDir {
			continue
		}
		albums = append(albums, models.AlbumRef{ID: child.ID, Name: child.Title, Artist: child.Artist})
	}
	return albums, nil
}

// AlbumTracks returns the tracks on an album.
func (l *SubsonicLibrary) AlbumTracks(ctx context.Context, album models.AlbumRef) ([]models.Candidate, error) {
	if err := l.wait(ctx); err != nil {
		return nil, err
	}
	dir, err := l.client.GetMusicDirectory(album.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: tracks of album %q: %v", shared.ErrLibraryQuery, album.Name, err)
	}

	var tracks []models.Candidate
	for _, child := range dir.Child {
		if child.IsDir {
			continue
		}
		tracks = append(tracks, childToCandidate(child))
	}
	return tracks, nil
}

// ArtistTracks returns every track belonging to the artist, album by album.
func (l *SubsonicLibrary) ArtistTracks(ctx context.Context, artist models.ArtistRef) ([]models.Candidate, error) {
	albums, err := l.ArtistAlbums(ctx, artist)
	if err != nil {
		return nil, err
	}

	var tracks []models.Candidate
	for _, album := range albums {
		albumTracks, err := l.AlbumTracks(ctx, album)
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, albumTracks...)
	}
	return tracks, nil
}

// SearchTracks performs a library-wide title search. Only manual-search
// escalation paths call this.
func (l *SubsonicLibrary) SearchTracks(ctx context.Context, title string) ([]models.Candidate, error) {
	if err := l.wait(ctx); err != nil {
		return nil, err
	}
	result, err := l.client.Search2(title, map[string]string{
		"artistCount": "0",
		"albumCount":  "0",
		"songCount":   "100",
	})
	if err != nil {
		return nil, fmt.Errorf("%w: track search %q: %v", shared.ErrLibraryQuery, title, err)
	}

	var tracks []models.Candidate
	if result != nil {
		for _, song := range result.Song {
			tracks = append(tracks, childToCandidate(song))
		}
	}
	return tracks, nil
}

// Playlists lists the server's playlists. A fresh cached track count takes
// precedence over the server's, since Append and CurrentTracks keep the
// cache current without a refetch.
func (l *SubsonicLibrary) Playlists(ctx context.Context) ([]models.Playlist, error) {
	if err := l.wait(ctx); err != nil {
		return nil, err
	}
	playlists, err := l.client.GetPlaylists(map[string]string{})
	if err != nil {
		return nil, fmt.Errorf("%w: list playlists: %v", shared.ErrLibraryQuery, err)
	}

	var out []models.Playlist
	for _, pl := range playlists {
		count := pl.SongCount
		if l.cache != nil {
			if cached, ok := l.cache.TrackCount(pl.ID); ok {
				count = cached
			}
		}
		out = append(out, models.Playlist{ID: pl.ID, Name: pl.Name, TrackCount: count})
	}
	return out, nil
}

// CurrentTracks returns the playlist's current contents in order.
func (l *SubsonicLibrary) CurrentTracks(ctx context.Context, playlistID string) ([]models.Candidate, error) {
	if err := l.wait(ctx); err != nil {
		return nil, err
	}
	playlist, err := l.client.GetPlaylist(playlistID)
	if err != nil {
		return nil, fmt.Errorf("%w: playlist %s: %v", shared.ErrPlaylistNotFound, playlistID, err)
	}

	var tracks []models.Candidate
	for _, entry := range playlist.Entry {
		tracks = append(tracks, childToCandidate(entry))
	}

	if l.cache != nil {
		if err := l.cache.PutTrackCount(playlistID, len(tracks)); err != nil {
			l.logger.Debug("track count cache write failed", "playlist", playlistID, "err", err)
		}
	}
	return tracks, nil
}

// Append adds tracks to the end of the playlist in a single updatePlaylist
// call. The go-subsonic client cannot repeat the songIdToAdd parameter, so
// this goes through the REST surface directly.
func (l *SubsonicLibrary) Append(ctx context.Context, playlistID string, tracks []models.Candidate) error {
	if len(tracks) == 0 {
		return nil
	}
	if err := l.wait(ctx); err != nil {
		return err
	}

	params := l.authParams()
	params.Add("playlistId", playlistID)
	for _, track := range tracks {
		params.Add("songIdToAdd", track.ID)
	}

	if err := l.mutate(ctx, "updatePlaylist", params); err != nil {
		return err
	}

	// keep the cached count in step with our own mutation
	if l.cache != nil {
		if count, ok := l.cache.TrackCount(playlistID); ok {
			if err := l.cache.PutTrackCount(playlistID, count+len(tracks)); err != nil {
				l.logger.Debug("track count cache write failed", "playlist", playlistID, "err", err)
			}
		}
	}
	return nil
}

// CreatePlaylist creates an empty playlist and returns it.
func (l *SubsonicLibrary) CreatePlaylist(ctx context.Context, name string) (*models.Playlist, error) {
	if err := l.wait(ctx); err != nil {
		return nil, err
	}

	params := l.authParams()
	params.Add("name", name)
	if err := l.mutate(ctx, "createPlaylist", params); err != nil {
		return nil, err
	}

	playlists, err := l.Playlists(ctx)
	if err != nil {
		return nil, err
	}
	for _, pl := range playlists {
		if pl.Name == name {
			return &pl, nil
		}
	}
	return nil, fmt.Errorf("%w: %q not visible after create", shared.ErrPlaylistNotFound, name)
}

func (l *SubsonicLibrary) mutate(ctx context.Context, endpoint string, params url.Values) error {
	mutateURL := fmt.Sprintf("%s/rest/%s.view?%s", l.URL, endpoint, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, mutateURL, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrLibraryQuery, err)
	}

	resp, err := l.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", shared.ErrLibraryQuery, endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", shared.ErrLibraryQuery, endpoint, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s: status %d", shared.ErrLibraryQuery, endpoint, resp.StatusCode)
	}

	var envelope struct {
		SubsonicResponse struct {
			Status string `json:"status"`
			Error  struct {
				Code    int    `json:"code"`
				Message string `json:"message"`
			} `json:"error"`
		} `json:"subsonic-response"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("%w: %s: %v", shared.ErrLibraryQuery, endpoint, err)
	}
	if envelope.SubsonicResponse.Status == "failed" {
		return fmt.Errorf("%w: %s: %s (code %d)", shared.ErrLibraryQuery, endpoint,
			envelope.SubsonicResponse.Error.Message, envelope.SubsonicResponse.Error.Code)
	}
	return nil
}

func (l *SubsonicLibrary) authParams() url.Values {
	params := url.Values{}
	params.Add("u", l.Username)
	params.Add("t", l.token)
	params.Add("s", l.salt)
	params.Add("v", subsonicAPIVersion)
	params.Add("c", subsonicClientName)
	params.Add("f", "json")
	return params
}

func (l *SubsonicLibrary) wait(ctx context.Context) error {
	if l.limiter == nil {
		return nil
	}
	return l.limiter.Wait(ctx)
}

func childToCandidate(child *subsonic.Child) models.Candidate {
	return models.Candidate{
		ID:         child.ID,
		Title:      child.Title,
		Artist:     child.Artist,
		Album:      child.Album,
		DurationMs: child.Duration * 1000,
	}
}

func saltedPassword(password, salt string) string {
	hasher := md5.New()
	hasher.Write([]byte(password + salt))
	return hex.EncodeToString(hasher.Sum(nil))
}
