package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"cdrip/internal/config"
)

// Requirement defines an external binary cdrip shells out to.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// Requirements returns the external tools the pipeline invokes, resolved
// against the configured binary names.
func Requirements(cfg *config.Config) []Requirement {
	ripper := "cdparanoia"
	encoder := "ffmpeg"
	tagger := "mid3v2"
	ejector := "eject"
	if cfg != nil {
		ripper = cfg.Cdparanoia.Binary
		encoder = cfg.FFmpeg.Binary
		tagger = cfg.Mid3v2.Binary
		ejector = cfg.Drive.EjectBinary
	}
	return []Requirement{
		{Name: "cdparanoia", Command: ripper, Description: "CD audio extraction"},
		{Name: "ffmpeg", Command: encoder, Description: "WAV to MP3 transcoding"},
		{Name: "mid3v2", Command: tagger, Description: "ID3 tag writing"},
		{Name: "eject", Command: ejector, Description: "tray control between discs", Optional: true},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if resolved, err := exec.LookPath(cmd); err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
		} else {
			status.Command = resolved
			status.Available = true
		}
		results = append(results, status)
	}
	return results
}

// MissingRequired returns the names of unavailable non-optional binaries.
func MissingRequired(statuses []Status) []string {
	var missing []string
	for _, status := range statuses {
		if !status.Available && !status.Optional {
			missing = append(missing, status.Name)
		}
	}
	return missing
}
