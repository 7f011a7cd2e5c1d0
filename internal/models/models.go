// package models defines the data model shared by the resolution and sync packages
package models

import "strings"

// RawDescriptor is a track reference as reported by a playlist source,
// before any cleaning. Sources produce either a single free-text line
// ("Title - Artist") or structured fields; exactly one form is populated.
type RawDescriptor struct {
	// Text holds the free-text form. When non-empty the structured
	// fields are ignored.
	Text   string
	Title  string
	Artist string
	Album  string
}

// Candidate is a track entry from the local media library under
// consideration as a match. Read-only from the engine's perspective.
type Candidate struct {
	ID         string
	Title      string
	Artist     string
	Album      string
	DurationMs int
}

// ArtistRef identifies an artist in the local library.
type ArtistRef struct {
	ID   string
	Name string
}

// AlbumRef identifies an album in the local library.
type AlbumRef struct {
	ID     string
	Name   string
	Artist string
}

// Playlist represents a playlist on either side of a sync.
type Playlist struct {
	ID         string
	Name       string
	TrackCount int
}

// SourcePlaylist is a source playlist with its raw track references in
// stable source order.
type SourcePlaylist struct {
	Playlist Playlist
	Tracks   []RawDescriptor
}

// Signature returns the normalized membership key used by the sync
// reconciler: lowercase "<title>_<artist>". Two tracks with equal
// signatures are the same track for sync purposes.
func Signature(title, artist string) string {
	return strings.ToLower(strings.TrimSpace(title)) + "_" + strings.ToLower(strings.TrimSpace(artist))
}

// SyncPlan is the single mutation a reconciliation run applies to a
// target playlist: the candidates missing from it, in source order.
type SyncPlan struct {
	PlaylistID  string
	TracksToAdd []Candidate
}
