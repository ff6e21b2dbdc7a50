package album

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"cdrip/internal/services"
	"cdrip/internal/services/mid3v2"
)

// Metadata is the album configuration users supply alongside the music files.
// Songs is the ordered track title list; the remaining fields apply to every
// track. Any field may be empty, in which case the matching frame is not
// written.
type Metadata struct {
	Artist string   `json:"artist"`
	Album  string   `json:"album"`
	Genre  string   `json:"genre"`
	Date   string   `json:"date"`
	Songs  []string `json:"songs"`
}

// LoadMetadata reads album configuration from a JSON file.
func LoadMetadata(path string) (*Metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, services.Wrap(services.ErrNotFound, "album", "load metadata", path, err)
	}

	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, services.Wrap(services.ErrValidation, "album", "load metadata",
			fmt.Sprintf("parse %s", path), err)
	}

	meta.Artist = strings.TrimSpace(meta.Artist)
	meta.Album = strings.TrimSpace(meta.Album)
	meta.Genre = strings.TrimSpace(meta.Genre)
	meta.Date = strings.TrimSpace(meta.Date)
	for i, song := range meta.Songs {
		meta.Songs[i] = strings.TrimSpace(song)
	}
	return &meta, nil
}

// DiscoverMetadata locates the album configuration JSON inside dir when the
// user does not name one explicitly. The lexically first *.json wins.
func DiscoverMetadata(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("read album directory: %w", err)
	}

	var candidates []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".json") {
			candidates = append(candidates, entry.Name())
		}
	}
	if len(candidates) == 0 {
		return "", services.Wrap(services.ErrNotFound, "album", "discover metadata",
			fmt.Sprintf("no .json config file found in %s", dir), nil)
	}
	sort.Strings(candidates)
	return filepath.Join(dir, candidates[0]), nil
}

// Tags builds the per-track tag set for the given title and 1-based track
// number.
func (m *Metadata) Tags(title string, track int) mid3v2.Tags {
	tags := mid3v2.Tags{Title: strings.TrimSpace(title), Track: track}
	if m != nil {
		tags.Artist = m.Artist
		tags.Album = m.Album
		tags.Genre = m.Genre
		tags.Year = m.Date
	}
	return tags
}
