package cdparanoia

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Track is one audio track reported by the disc table of contents.
type Track struct {
	Number  int
	Sectors int
	Length  time.Duration
}

// TOC is the audio table of contents of the loaded disc.
type TOC struct {
	Tracks []Track
}

// TrackCount returns the number of audio tracks on the disc.
func (t *TOC) TrackCount() int {
	if t == nil {
		return 0
	}
	return len(t.Tracks)
}

// TotalLength returns the summed audio duration.
func (t *TOC) TotalLength() time.Duration {
	if t == nil {
		return 0
	}
	var total time.Duration
	for _, track := range t.Tracks {
		total += track.Length
	}
	return total
}

// parseTOC extracts track rows from `cdparanoia -Q` output. Rows look like:
//
//	  1.    13584 [03:01.09]        0 [00:00.00]    no   no  2
//
// The header, separator, and TOTAL lines are skipped.
func parseTOC(lines []string) (*TOC, error) {
	toc := &TOC{}
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}
		if !strings.HasSuffix(fields[0], ".") {
			continue
		}
		number, err := strconv.Atoi(strings.TrimSuffix(fields[0], "."))
		if err != nil || number <= 0 {
			continue
		}
		sectors, err := strconv.Atoi(fields[1])
		if err != nil {
			continue
		}
		length, err := parseMSFLength(fields[2])
		if err != nil {
			return nil, fmt.Errorf("track %d: %w", number, err)
		}
		toc.Tracks = append(toc.Tracks, Track{Number: number, Sectors: sectors, Length: length})
	}
	if len(toc.Tracks) == 0 {
		return nil, errors.New("no audio tracks in table of contents")
	}
	return toc, nil
}

// parseMSFLength parses the bracketed [mm:ss.ff] track length, where ff is a
// CD frame count (75 frames per second).
func parseMSFLength(raw string) (time.Duration, error) {
	value := strings.TrimSuffix(strings.TrimPrefix(raw, "["), "]")
	mainPart, framePart, ok := strings.Cut(value, ".")
	if !ok {
		return 0, fmt.Errorf("malformed length %q", raw)
	}
	minutePart, secondPart, ok := strings.Cut(mainPart, ":")
	if !ok {
		return 0, fmt.Errorf("malformed length %q", raw)
	}
	minutes, err := strconv.Atoi(minutePart)
	if err != nil {
		return 0, fmt.Errorf("malformed length %q", raw)
	}
	seconds, err := strconv.Atoi(secondPart)
	if err != nil {
		return 0, fmt.Errorf("malformed length %q", raw)
	}
	frames, err := strconv.Atoi(framePart)
	if err != nil {
		return 0, fmt.Errorf("malformed length %q", raw)
	}
	total := time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second +
		time.Duration(frames)*time.Second/75
	return total, nil
}
