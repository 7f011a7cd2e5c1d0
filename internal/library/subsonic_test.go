package library

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	subsonic "github.com/delucks/go-subsonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calegray/syncopate/internal/models"
	"github.com/calegray/syncopate/internal/shared"
)

func TestSaltedPassword(t *testing.T) {
	assert.Equal(t, "948dd9b7c1a15f7ebcd5df5aed482763", saltedPassword("sekret", "c19b2d"))
}

func TestChildToCandidate(t *testing.T) {
	child := &subsonic.Child{
		ID:       "300",
		Title:    "Hey Jude",
		Artist:   "The Beatles",
		Album:    "Past Masters",
		Duration: 431,
	}

	got := childToCandidate(child)
	want := models.Candidate{
		ID:         "300",
		Title:      "Hey Jude",
		Artist:     "The Beatles",
		Album:      "Past Masters",
		DurationMs: 431000,
	}
	assert.Equal(t, want, got)
}

func TestAppend(t *testing.T) {
	t.Run("repeats songIdToAdd per track", func(t *testing.T) {
		var gotPath string
		var gotIDs []string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotIDs = r.URL.Query()["songIdToAdd"]
			w.Write([]byte(`{"subsonic-response":{"status":"ok"}}`))
		}))
		defer server.Close()

		lib := NewSubsonicLibrary(SubsonicOpts{URL: server.URL})
		err := lib.Append(t.Context(), "pl9", []models.Candidate{
			{ID: "t1"}, {ID: "t2"}, {ID: "t3"},
		})
		require.NoError(t, err)

		assert.Equal(t, "/rest/updatePlaylist.view", gotPath)
		assert.Equal(t, []string{"t1", "t2", "t3"}, gotIDs)
	})

	t.Run("bumps the cached track count", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"subsonic-response":{"status":"ok"}}`))
		}))
		defer server.Close()

		cache := newTestCache(t)
		require.NoError(t, cache.PutTrackCount("pl9", 2))

		lib := NewSubsonicLibrary(SubsonicOpts{URL: server.URL, Cache: cache})
		err := lib.Append(t.Context(), "pl9", []models.Candidate{{ID: "t1"}, {ID: "t2"}, {ID: "t3"}})
		require.NoError(t, err)

		count, ok := cache.TrackCount("pl9")
		require.True(t, ok)
		assert.Equal(t, 5, count)
	})

	t.Run("empty plan is a no-op", func(t *testing.T) {
		lib := NewSubsonicLibrary(SubsonicOpts{URL: "http://unreachable.invalid"})
		assert.NoError(t, lib.Append(t.Context(), "pl9", nil))
	})

	t.Run("server failure surfaces as a query error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"subsonic-response":{"status":"failed","error":{"code":70,"message":"playlist not found"}}}`))
		}))
		defer server.Close()

		lib := NewSubsonicLibrary(SubsonicOpts{URL: server.URL})
		err := lib.Append(t.Context(), "gone", []models.Candidate{{ID: "t1"}})
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrLibraryQuery))
		assert.Contains(t, err.Error(), "playlist not found")
	})
}

func TestPlaylists(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/getPlaylists", r.URL.Path)
		w.Write([]byte(`<subsonic-response xmlns="http://subsonic.org/restapi" status="ok" version="1.16.1">
			<playlists>
				<playlist id="p1" name="Road Trip" songCount="3"/>
				<playlist id="p2" name="Gym" songCount="7"/>
			</playlists>
		</subsonic-response>`))
	}))
	defer server.Close()

	cache := newTestCache(t)
	require.NoError(t, cache.PutTrackCount("p1", 5))

	lib := NewSubsonicLibrary(SubsonicOpts{URL: server.URL, Cache: cache})
	lib.client = subsonic.Client{Client: server.Client(), BaseUrl: server.URL, User: "u", ClientName: subsonicClientName, PasswordAuth: true}

	playlists, err := lib.Playlists(t.Context())
	require.NoError(t, err)
	require.Len(t, playlists, 2)

	assert.Equal(t, 5, playlists[0].TrackCount, "fresh cached count wins over the server's")
	assert.Equal(t, 7, playlists[1].TrackCount, "uncached playlists keep the server count")
}

func TestCurrentTracks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/getPlaylist", r.URL.Path)
		w.Write([]byte(`<subsonic-response xmlns="http://subsonic.org/restapi" status="ok" version="1.16.1">
			<playlist id="pl9" name="Road Trip" songCount="2">
				<entry id="t1" title="Hey Jude" artist="The Beatles" album="Past Masters" duration="431"/>
				<entry id="t2" title="Rain" artist="The Beatles" duration="182"/>
			</playlist>
		</subsonic-response>`))
	}))
	defer server.Close()

	cache := newTestCache(t)
	lib := NewSubsonicLibrary(SubsonicOpts{URL: server.URL, Cache: cache})
	lib.client = subsonic.Client{Client: server.Client(), BaseUrl: server.URL, User: "u", ClientName: subsonicClientName, PasswordAuth: true}

	tracks, err := lib.CurrentTracks(t.Context(), "pl9")
	require.NoError(t, err)
	require.Len(t, tracks, 2)
	assert.Equal(t, "Hey Jude", tracks[0].Title)

	count, ok := cache.TrackCount("pl9")
	require.True(t, ok, "fetch should refresh the cached count")
	assert.Equal(t, 2, count)
}

func TestCreatePlaylist(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/rest/createPlaylist.view":
			assert.Equal(t, "Road Trip", r.URL.Query().Get("name"))
			w.Write([]byte(`{"subsonic-response":{"status":"ok"}}`))
		case "/rest/getPlaylists.view", "/rest/getPlaylists":
			// the go-subsonic client requests f=xml and parses the XML envelope
			w.Write([]byte(`<subsonic-response xmlns="http://subsonic.org/restapi" status="ok" version="1.16.1">
				<playlists><playlist id="p1" name="Road Trip" songCount="0"/></playlists>
			</subsonic-response>`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	lib := NewSubsonicLibrary(SubsonicOpts{URL: server.URL})
	lib.client = subsonic.Client{Client: server.Client(), BaseUrl: server.URL, User: "u", ClientName: subsonicClientName, PasswordAuth: true}

	pl, err := lib.CreatePlaylist(t.Context(), "Road Trip")
	require.NoError(t, err)
	assert.Equal(t, "p1", pl.ID)
	assert.Equal(t, "Road Trip", pl.Name)
}
