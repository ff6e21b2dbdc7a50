package cdparanoia

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"cdrip/internal/services"
)

// TrackFile describes one WAV produced by a batch rip.
type TrackFile struct {
	Number int
	Path   string
	Size   int64
}

// Ripper defines the behaviour the rip orchestrator needs.
type Ripper interface {
	QueryTOC(ctx context.Context, device string) (*TOC, error)
	Rip(ctx context.Context, device, destDir string, progress func(ProgressUpdate)) ([]TrackFile, error)
}

// ProgressUpdate captures cdparanoia per-track progress output.
type ProgressUpdate struct {
	Track   int
	Message string
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec services.Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// Client wraps cdparanoia CLI interactions.
type Client struct {
	binary      string
	ripTimeout  time.Duration
	abortOnSkip bool
	exec        services.Executor
}

// New constructs a cdparanoia client.
func New(binary string, ripTimeoutSeconds int, abortOnSkip bool, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("cdparanoia binary required")
	}
	client := &Client{
		binary:      binary,
		ripTimeout:  time.Duration(ripTimeoutSeconds) * time.Second,
		abortOnSkip: abortOnSkip,
		exec:        services.CommandExecutor{},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// QueryTOC reads the disc table of contents without ripping.
func (c *Client) QueryTOC(ctx context.Context, device string) (*TOC, error) {
	args := []string{"-Q"}
	if device != "" {
		args = append(args, "-d", device)
	}

	var lines []string
	err := c.exec.Run(ctx, c.binary, args, "", func(line string) {
		lines = append(lines, line)
	})
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "cdparanoia", "query toc", "", err)
	}

	toc, err := parseTOC(lines)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "cdparanoia", "query toc", err.Error(), nil)
	}
	return toc, nil
}

// Rip extracts every audio track on the disc into destDir in batch mode and
// returns the produced WAV files ordered by track number.
func (c *Client) Rip(ctx context.Context, device, destDir string, progress func(ProgressUpdate)) ([]TrackFile, error) {
	if destDir == "" {
		return nil, errors.New("destination directory required")
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return nil, fmt.Errorf("create destination: %w", err)
	}

	ripCtx := ctx
	if c.ripTimeout > 0 {
		var cancel context.CancelFunc
		ripCtx, cancel = context.WithTimeout(ctx, c.ripTimeout)
		defer cancel()
	}

	args := make([]string, 0, 5)
	if c.abortOnSkip {
		args = append(args, "-X")
	}
	args = append(args, "-B")
	if device != "" {
		args = append(args, "-d", device)
	}

	// cdparanoia writes batch output into its working directory.
	err := c.exec.Run(ripCtx, c.binary, args, destDir, func(line string) {
		if progress == nil {
			return
		}
		if update, ok := parseProgress(line); ok {
			progress(update)
		}
	})
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "cdparanoia", "rip", "", err)
	}

	tracks, err := gatherTrackFiles(destDir)
	if err != nil {
		return nil, fmt.Errorf("inspect rip outputs: %w", err)
	}
	if len(tracks) == 0 {
		return nil, services.Wrap(services.ErrExternalTool, "cdparanoia", "rip",
			"produced no WAV files; check the disc for read errors", nil)
	}
	return tracks, nil
}

// parseProgress recognizes cdparanoia's "outputting to trackNN.cdda.wav"
// lines, which mark the start of each track extraction.
func parseProgress(line string) (ProgressUpdate, bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "outputting to ") {
		return ProgressUpdate{}, false
	}
	name := strings.TrimSpace(strings.TrimPrefix(trimmed, "outputting to "))
	number, ok := TrackNumberFromName(name)
	if !ok {
		return ProgressUpdate{}, false
	}
	return ProgressUpdate{Track: number, Message: name}, true
}

// TrackNumberFromName extracts NN from cdparanoia batch names such as
// track01.cdda.wav.
func TrackNumberFromName(name string) (int, bool) {
	base := strings.ToLower(filepath.Base(name))
	if !strings.HasPrefix(base, "track") {
		return 0, false
	}
	rest := strings.TrimPrefix(base, "track")
	digits := 0
	for digits < len(rest) && rest[digits] >= '0' && rest[digits] <= '9' {
		digits++
	}
	if digits == 0 {
		return 0, false
	}
	number := 0
	for _, r := range rest[:digits] {
		number = number*10 + int(r-'0')
	}
	if number <= 0 {
		return 0, false
	}
	return number, true
}

func gatherTrackFiles(dir string) ([]TrackFile, error) {
	items, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	result := make([]TrackFile, 0, len(items))
	for _, item := range items {
		if item.IsDir() {
			continue
		}
		name := item.Name()
		if !strings.HasSuffix(strings.ToLower(name), ".wav") {
			continue
		}
		number, ok := TrackNumberFromName(name)
		if !ok {
			continue
		}
		info, err := item.Info()
		if err != nil {
			continue
		}
		result = append(result, TrackFile{
			Number: number,
			Path:   filepath.Join(dir, name),
			Size:   info.Size(),
		})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Number < result[j].Number })
	return result, nil
}
