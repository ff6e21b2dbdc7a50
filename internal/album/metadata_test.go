package album_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"cdrip/internal/album"
	"cdrip/internal/services"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoadMetadata(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "album.json")
	writeFile(t, path, `{
		"artist": " Modest Mouse ",
		"album": "The Moon & Antarctica",
		"genre": "Indie",
		"date": "2000",
		"songs": ["3rd Planet", " Gravity Rides Everything "]
	}`)

	meta, err := album.LoadMetadata(path)
	if err != nil {
		t.Fatalf("LoadMetadata returned error: %v", err)
	}
	if meta.Artist != "Modest Mouse" {
		t.Fatalf("artist not trimmed: %q", meta.Artist)
	}
	if len(meta.Songs) != 2 || meta.Songs[1] != "Gravity Rides Everything" {
		t.Fatalf("unexpected songs: %v", meta.Songs)
	}
}

func TestLoadMetadataMissingFile(t *testing.T) {
	_, err := album.LoadMetadata(filepath.Join(t.TempDir(), "absent.json"))
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestLoadMetadataBadJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "album.json")
	writeFile(t, path, "{not json")

	_, err := album.LoadMetadata(path)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDiscoverMetadata(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "track01.wav"), "RIFF")
	writeFile(t, filepath.Join(dir, "zz.json"), "{}")
	writeFile(t, filepath.Join(dir, "album.json"), "{}")

	path, err := album.DiscoverMetadata(dir)
	if err != nil {
		t.Fatalf("DiscoverMetadata returned error: %v", err)
	}
	if filepath.Base(path) != "album.json" {
		t.Fatalf("expected lexically first json, got %s", path)
	}
}

func TestDiscoverMetadataNone(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "track01.wav"), "RIFF")

	_, err := album.DiscoverMetadata(dir)
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestTags(t *testing.T) {
	meta := &album.Metadata{Artist: "a", Album: "b", Genre: "g", Date: "1999"}
	tags := meta.Tags("Song", 4)
	if tags.Artist != "a" || tags.Album != "b" || tags.Genre != "g" || tags.Year != "1999" {
		t.Fatalf("unexpected tags: %+v", tags)
	}
	if tags.Title != "Song" || tags.Track != 4 {
		t.Fatalf("unexpected title/track: %+v", tags)
	}

	var nilMeta *album.Metadata
	tags = nilMeta.Tags("Solo", 1)
	if tags.Artist != "" || tags.Title != "Solo" {
		t.Fatalf("unexpected nil-metadata tags: %+v", tags)
	}
}
