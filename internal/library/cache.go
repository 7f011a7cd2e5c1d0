package library

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/calegray/syncopate/internal/models"
	"github.com/calegray/syncopate/internal/shared"
)

// LookupCache caches artist-name resolutions and playlist track counts in
// SQLite so repeated sync runs against the same library skip redundant
// queries. Library metadata caching lives here, on the capability side;
// the resolution engine itself never caches match decisions.
type LookupCache struct {
	db  *sql.DB
	ttl time.Duration
}

const defaultCacheTTL = 24 * time.Hour

const cacheSchema = `
CREATE TABLE IF NOT EXISTS artist_lookups (
	query       TEXT PRIMARY KEY,
	artist_id   TEXT NOT NULL,
	artist_name TEXT NOT NULL,
	cached_at   TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE IF NOT EXISTS playlist_counts (
	playlist_id  TEXT PRIMARY KEY,
	track_count  INTEGER NOT NULL,
	cached_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);`

// NewLookupCache opens (or creates) the cache schema on the given database.
func NewLookupCache(db *sql.DB) (*LookupCache, error) {
	if db == nil {
		return nil, shared.ErrCacheUnavailable
	}
	if _, err := db.Exec(cacheSchema); err != nil {
		return nil, fmt.Errorf("%w: schema: %v", shared.ErrCacheUnavailable, err)
	}
	return &LookupCache{db: db, ttl: defaultCacheTTL}, nil
}

// Artist returns the cached resolution for an artist-name query, if it is
// present and fresh.
func (c *LookupCache) Artist(query string) (models.ArtistRef, bool) {
	var ref models.ArtistRef
	var cachedAt time.Time
	row := c.db.QueryRow(
		`SELECT artist_id, artist_name, cached_at FROM artist_lookups WHERE query = ?`,
		cacheKey(query),
	)
	if err := row.Scan(&ref.ID, &ref.Name, &cachedAt); err != nil {
		return models.ArtistRef{}, false
	}
	if time.Since(cachedAt) > c.ttl {
		return models.ArtistRef{}, false
	}
	return ref, true
}

// PutArtist stores an artist-name resolution.
func (c *LookupCache) PutArtist(query string, ref models.ArtistRef) error {
	_, err := c.db.Exec(
		`INSERT INTO artist_lookups (query, artist_id, artist_name, cached_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(query) DO UPDATE SET artist_id = excluded.artist_id, artist_name = excluded.artist_name, cached_at = excluded.cached_at`,
		cacheKey(query), ref.ID, ref.Name, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("%w: put artist: %v", shared.ErrCacheUnavailable, err)
	}
	return nil
}

// TrackCount returns a cached playlist track count.
func (c *LookupCache) TrackCount(playlistID string) (int, bool) {
	var count int
	var cachedAt time.Time
	row := c.db.QueryRow(`SELECT track_count, cached_at FROM playlist_counts WHERE playlist_id = ?`, playlistID)
	if err := row.Scan(&count, &cachedAt); err != nil {
		return 0, false
	}
	if time.Since(cachedAt) > c.ttl {
		return 0, false
	}
	return count, true
}

// PutTrackCount stores a playlist track count.
func (c *LookupCache) PutTrackCount(playlistID string, count int) error {
	_, err := c.db.Exec(
		`INSERT INTO playlist_counts (playlist_id, track_count, cached_at) VALUES (?, ?, ?)
		 ON CONFLICT(playlist_id) DO UPDATE SET track_count = excluded.track_count, cached_at = excluded.cached_at`,
		playlistID, count, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("%w: put track count: %v", shared.ErrCacheUnavailable, err)
	}
	return nil
}

// Clear drops all cached lookups.
func (c *LookupCache) Clear() error {
	var errs []error
	for _, table := range []string{"artist_lookups", "playlist_counts"} {
		if _, err := c.db.Exec(`DELETE FROM ` + table); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: clear: %v", shared.ErrCacheUnavailable, errors.Join(errs...))
	}
	return nil
}

func cacheKey(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}
