package album

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DiscPrefix returns the file name prefix for tracks ripped from the given
// 1-based disc number, e.g. "cd01track".
func DiscPrefix(disc int) string {
	return fmt.Sprintf("cd%02dtrack", disc)
}

// RawTrackName returns the album-relative WAV name for a renumbered track,
// e.g. RawTrackName("cd01track", 3) == "cd01track03.wav".
func RawTrackName(prefix string, number int) string {
	return fmt.Sprintf("%s%02d.wav", prefix, number)
}

// MP3Name maps a WAV file name onto its MP3 counterpart, stripping the
// intermediate ".cdda" marker cdparanoia leaves in batch output.
func MP3Name(wavName string) string {
	stem := strings.TrimSuffix(filepath.Base(wavName), filepath.Ext(wavName))
	stem = strings.TrimSuffix(stem, ".cdda")
	return stem + ".mp3"
}

// DeriveTitle produces a human-readable album title from a directory name,
// e.g. "the_lonesome-crowded.west" becomes "The Lonesome Crowded West". Used
// as a fallback when the metadata JSON omits the album field.
func DeriveTitle(dir string) string {
	base := filepath.Base(filepath.Clean(dir))
	cleaned := strings.Builder{}
	prevSpace := false
	for _, r := range base {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			cleaned.WriteRune(r)
			prevSpace = false
		case unicode.IsSpace(r) || r == '-' || r == '_' || r == '.':
			if !prevSpace {
				cleaned.WriteRune(' ')
				prevSpace = true
			}
		}
	}
	title := strings.TrimSpace(cleaned.String())
	if title == "" {
		return "Unknown Album"
	}
	return cases.Title(language.Und).String(title)
}
