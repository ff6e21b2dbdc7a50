package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cdrip/internal/services"
)

// Transcoder defines the behaviour the encoding pipeline needs.
type Transcoder interface {
	Transcode(ctx context.Context, wavPath, mp3Path string, progress func(ProgressUpdate)) error
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

// Client wraps ffmpeg CLI interactions for WAV to MP3 transcoding.
type Client struct {
	binary  string
	codec   string
	bitrate string
	timeout time.Duration
	exec    services.Executor
}

// New constructs an ffmpeg client with fixed encoder settings. The settings
// are deliberately deterministic so re-encoding the same WAV reproduces the
// same MP3 bytes.
func New(binary, codec, bitrate string, timeoutSeconds int, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("ffmpeg binary required")
	}
	codec = strings.TrimSpace(codec)
	if codec == "" {
		codec = "libmp3lame"
	}
	bitrate = strings.TrimSpace(bitrate)
	if bitrate == "" {
		bitrate = "192k"
	}
	client := &Client{
		binary:  binary,
		codec:   codec,
		bitrate: bitrate,
		timeout: time.Duration(timeoutSeconds) * time.Second,
		exec:    services.CommandExecutor{},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Transcode converts one WAV file into one MP3 file, overwriting mp3Path.
func (c *Client) Transcode(ctx context.Context, wavPath, mp3Path string, progress func(ProgressUpdate)) error {
	if _, err := os.Stat(wavPath); err != nil {
		return services.Wrap(services.ErrNotFound, "ffmpeg", "transcode", wavPath, err)
	}
	if dir := filepath.Dir(mp3Path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	encCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		encCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	args := []string{
		"-hide_banner",
		"-nostdin",
		"-loglevel", "error",
		"-y",
		"-i", wavPath,
		"-codec:a", c.codec,
		"-b:a", c.bitrate,
		"-bitexact",
	}
	if progress != nil {
		args = append(args, "-progress", "pipe:1")
	}
	args = append(args, mp3Path)

	err := c.exec.Run(encCtx, c.binary, args, "", func(line string) {
		if progress == nil {
			return
		}
		if update, ok := parseProgress(line); ok {
			progress(update)
		}
	})
	if err != nil {
		_ = os.Remove(mp3Path)
		return services.Wrap(services.ErrExternalTool, "ffmpeg", "transcode", filepath.Base(wavPath), err)
	}

	if _, err := os.Stat(mp3Path); errors.Is(err, os.ErrNotExist) {
		return services.Wrap(services.ErrExternalTool, "ffmpeg", "transcode",
			"produced no output file", nil)
	}
	return nil
}
