package sources

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/calegray/syncopate/internal/models"
	"github.com/calegray/syncopate/internal/shared"
)

// FileSource reads line-oriented playlist files. Plain text files carry
// one "Title - Artist" reference per line; m3u/m3u8 files are read via
// their #EXTINF metadata lines ("#EXTINF:123,Artist - Title").
type FileSource struct{}

// NewFileSource creates a FileSource.
func NewFileSource() *FileSource { return &FileSource{} }

// Name implements [Source].
func (s *FileSource) Name() string { return "file" }

// ListTracks parses the playlist file at the given path.
func (s *FileSource) ListTracks(ctx context.Context, ref string) (*models.SourcePlaylist, error) {
	f, err := os.Open(ref)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", shared.ErrAdapter, ref, err)
	}
	defer f.Close()

	name := strings.TrimSuffix(filepath.Base(ref), filepath.Ext(ref))
	out := &models.SourcePlaylist{Playlist: models.Playlist{ID: ref, Name: name}}

	extended := false
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue
		case line == "#EXTM3U":
			extended = true
		case strings.HasPrefix(line, "#EXTINF:"):
			if desc, ok := parseExtinf(line); ok {
				out.Tracks = append(out.Tracks, desc)
			}
		case strings.HasPrefix(line, "#"):
			continue
		default:
			// in extended m3u the bare lines are file paths, already
			// covered by their #EXTINF entries
			if extended {
				continue
			}
			out.Tracks = append(out.Tracks, models.RawDescriptor{Text: line})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", shared.ErrAdapter, ref, err)
	}

	out.Playlist.TrackCount = len(out.Tracks)
	return out, nil
}

// parseExtinf reads "#EXTINF:<seconds>,Artist - Title" into a structured
// descriptor. Malformed entries are skipped rather than failing the run.
func parseExtinf(line string) (models.RawDescriptor, bool) {
	rest := strings.TrimPrefix(line, "#EXTINF:")
	idx := strings.Index(rest, ",")
	if idx < 0 || idx == len(rest)-1 {
		return models.RawDescriptor{}, false
	}
	display := strings.TrimSpace(rest[idx+1:])
	if display == "" {
		return models.RawDescriptor{}, false
	}

	// the m3u convention is "Artist - Title", the reverse of free-text
	// playlist lines
	if sep := strings.Index(display, " - "); sep >= 0 {
		return models.RawDescriptor{
			Artist: strings.TrimSpace(display[:sep]),
			Title:  strings.TrimSpace(display[sep+3:]),
		}, true
	}
	return models.RawDescriptor{Title: display}, true
}
