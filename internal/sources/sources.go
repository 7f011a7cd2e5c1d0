// package sources adapts external playlist sources into raw track descriptors.
//
// One adapter per source type: the Spotify playlist API and line-oriented
// playlist files. Adapters produce descriptors in stable source order and
// never clean them; normalization is the engine's job.
package sources

import (
	"context"

	"github.com/calegray/syncopate/internal/models"
)

// Source lists the raw track references of a source playlist.
// Implementations surface failures wrapped in [shared.ErrAdapter]; an
// adapter failure aborts the whole run.
type Source interface {
	// Name returns the adapter name, e.g. "spotify" or "file".
	Name() string

	// ListTracks fetches the playlist identified by ref (an ID, URL, or
	// path, depending on the adapter) with its tracks in source order.
	ListTracks(ctx context.Context, ref string) (*models.SourcePlaylist, error)
}
