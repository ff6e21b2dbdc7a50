package ffmpeg

import (
	"strconv"
	"strings"
	"time"
)

// ProgressUpdate captures ffmpeg -progress output.
type ProgressUpdate struct {
	OutTime time.Duration
	Done    bool
}

// parseProgress reads the key=value lines ffmpeg emits with -progress pipe:1.
// Only out_time_us and the final progress=end marker are of interest.
func parseProgress(line string) (ProgressUpdate, bool) {
	key, value, ok := strings.Cut(strings.TrimSpace(line), "=")
	if !ok {
		return ProgressUpdate{}, false
	}
	value = strings.TrimSpace(value)
	switch key {
	case "out_time_us", "out_time_ms":
		// Both keys carry microseconds; out_time_ms is a historical misnomer.
		micros, err := strconv.ParseInt(value, 10, 64)
		if err != nil || micros < 0 {
			return ProgressUpdate{}, false
		}
		return ProgressUpdate{OutTime: time.Duration(micros) * time.Microsecond}, true
	case "progress":
		return ProgressUpdate{Done: value == "end"}, true
	default:
		return ProgressUpdate{}, false
	}
}
