package encoding

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// listWAVs returns the WAV files directly inside dir, sorted by name so track
// order is stable across runs.
func listWAVs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	wavs := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".wav") {
			wavs = append(wavs, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(wavs)
	return wavs, nil
}
