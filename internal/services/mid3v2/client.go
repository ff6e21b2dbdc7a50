package mid3v2

import (
	"context"
	"errors"
	"os"
	"strconv"
	"strings"

	"cdrip/internal/services"
)

// Tags holds the ID3 frames cdrip writes. Empty fields are left untouched on
// the file; Track 0 means unset.
type Tags struct {
	Artist string
	Album  string
	Title  string
	Genre  string
	Year   string
	Track  int
}

// IsZero reports whether no frame would be written.
func (t Tags) IsZero() bool {
	return t.Artist == "" && t.Album == "" && t.Title == "" &&
		t.Genre == "" && t.Year == "" && t.Track <= 0
}

// Tagger defines the behaviour the tagging pipeline needs.
type Tagger interface {
	Apply(ctx context.Context, mp3Path string, tags Tags) error
	List(ctx context.Context, mp3Path string) ([]string, error)
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

// Client wraps mid3v2 CLI interactions.
type Client struct {
	binary string
	exec   services.Executor
}

// New constructs a mid3v2 client.
func New(binary string, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("mid3v2 binary required")
	}
	client := &Client{binary: binary, exec: services.CommandExecutor{}}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Apply writes the populated tag frames to the MP3 file.
func (c *Client) Apply(ctx context.Context, mp3Path string, tags Tags) error {
	if _, err := os.Stat(mp3Path); err != nil {
		return services.Wrap(services.ErrNotFound, "mid3v2", "apply", mp3Path, err)
	}
	if tags.IsZero() {
		return nil
	}

	args := buildArgs(tags)
	args = append(args, mp3Path)

	if err := c.exec.Run(ctx, c.binary, args, "", nil); err != nil {
		return services.Wrap(services.ErrExternalTool, "mid3v2", "apply", mp3Path, err)
	}
	return nil
}

// List returns the tag listing mid3v2 -l prints for the file.
func (c *Client) List(ctx context.Context, mp3Path string) ([]string, error) {
	if _, err := os.Stat(mp3Path); err != nil {
		return nil, services.Wrap(services.ErrNotFound, "mid3v2", "list", mp3Path, err)
	}

	var lines []string
	err := c.exec.Run(ctx, c.binary, []string{"-l", mp3Path}, "", func(line string) {
		lines = append(lines, line)
	})
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "mid3v2", "list", mp3Path, err)
	}
	return lines, nil
}

func buildArgs(tags Tags) []string {
	args := make([]string, 0, 12)
	if tags.Artist != "" {
		args = append(args, "-a", tags.Artist)
	}
	if tags.Album != "" {
		args = append(args, "-A", tags.Album)
	}
	if tags.Title != "" {
		args = append(args, "-t", tags.Title)
	}
	if tags.Genre != "" {
		args = append(args, "-g", tags.Genre)
	}
	if tags.Year != "" {
		args = append(args, "-y", tags.Year)
	}
	if tags.Track > 0 {
		args = append(args, "-T", strconv.Itoa(tags.Track))
	}
	return args
}
