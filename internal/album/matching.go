package album

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"cdrip/internal/services"
)

// Match pairs a metadata song title with the music file it describes.
type Match struct {
	Title string
	Path  string
}

// MatchTitles maps ordered song titles onto the music files in dir. Only
// files with one of the given extensions are considered; with no extensions
// both WAV and MP3 files count. Tagging passes ".mp3" so WAV sources sitting
// next to their converted outputs do not skew the counts.
//
// Titles are resolved from the last track backwards: higher track numbers
// carry more digits in their file names, so matching them first keeps "1"
// from claiming "track12". A file matches when its stem contains the track
// number or the title. Zero candidates, multiple candidates, and a
// title/file count mismatch are all hard errors.
func MatchTitles(titles []string, dir string, exts ...string) ([]Match, error) {
	if len(exts) == 0 {
		exts = []string{".wav", ".mp3"}
	}
	files, err := musicFiles(dir, exts...)
	if err != nil {
		return nil, err
	}
	return matchFiles(titles, files)
}

func matchFiles(titles, files []string) ([]Match, error) {
	if len(titles) != len(files) {
		return nil, services.Wrap(services.ErrValidation, "album", "match titles",
			fmt.Sprintf("found %d music files, but given %d titles", len(files), len(titles)), nil)
	}

	matches := make([]Match, len(titles))
	remaining := append([]string{}, files...)

	for i := len(titles) - 1; i >= 0; i-- {
		title := titles[i]
		trackNumber := strconv.Itoa(i + 1)

		var candidates []string
		for _, file := range remaining {
			stem := fileStem(file)
			if strings.Contains(stem, trackNumber) || (title != "" && strings.Contains(stem, title)) {
				candidates = append(candidates, file)
			}
		}

		switch len(candidates) {
		case 0:
			return nil, services.Wrap(services.ErrValidation, "album", "match titles",
				fmt.Sprintf("found no music files matching %s-%s", trackNumber, title), nil)
		case 1:
		default:
			return nil, services.Wrap(services.ErrValidation, "album", "match titles",
				fmt.Sprintf("found multiple music files matching %s-%s: %s",
					trackNumber, title, strings.Join(candidates, ", ")), nil)
		}

		matches[i] = Match{Title: title, Path: candidates[0]}
		remaining = removeString(remaining, candidates[0])
	}

	return matches, nil
}

// musicFiles lists files in dir with one of the given extensions, in name
// order.
func musicFiles(dir string, exts ...string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory: %w", err)
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		for _, want := range exts {
			if ext == want {
				files = append(files, filepath.Join(dir, entry.Name()))
				break
			}
		}
	}
	sort.Strings(files)
	return files, nil
}

func fileStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func removeString(values []string, drop string) []string {
	out := values[:0]
	for _, v := range values {
		if v != drop {
			out = append(out, v)
		}
	}
	return out
}
