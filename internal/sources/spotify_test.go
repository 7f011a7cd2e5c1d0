package sources

import (
	"testing"

	"github.com/zmb3/spotify/v2"
)

func TestParsePlaylistRef(t *testing.T) {
	tests := []struct {
		name    string
		ref     string
		want    spotify.ID
		wantErr bool
	}{
		{"bare id", "37i9dQZF1DXcBWIGoYBM5M", spotify.ID("37i9dQZF1DXcBWIGoYBM5M"), false},
		{"uri form", "spotify:playlist:37i9dQZF1DXcBWIGoYBM5M", spotify.ID("37i9dQZF1DXcBWIGoYBM5M"), false},
		{"share url", "https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M", spotify.ID("37i9dQZF1DXcBWIGoYBM5M"), false},
		{"share url with query", "https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M?si=abc123", spotify.ID("37i9dQZF1DXcBWIGoYBM5M"), false},
		{"empty", "   ", "", true},
		{"malformed url", "https://open.spotify.com/playlist/", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parsePlaylistRef(tt.ref)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parsePlaylistRef(%q) error = %v, wantErr %v", tt.ref, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parsePlaylistRef(%q) = %q, want %q", tt.ref, got, tt.want)
			}
		})
	}
}

func TestItemToDescriptor(t *testing.T) {
	item := spotify.PlaylistTrack{}
	item.Track.Name = "Hey Jude"
	item.Track.Album.Name = "Past Masters"
	item.Track.Artists = []spotify.SimpleArtist{{Name: "The Beatles"}, {Name: "Nobody Else"}}

	desc := itemToDescriptor(item)
	if desc.Title != "Hey Jude" || desc.Artist != "The Beatles" || desc.Album != "Past Masters" {
		t.Errorf("unexpected descriptor %+v", desc)
	}

	empty := itemToDescriptor(spotify.PlaylistTrack{})
	if empty.Artist != "" {
		t.Errorf("expected empty artist, got %q", empty.Artist)
	}
}
