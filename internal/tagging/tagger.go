package tagging

import (
	"context"
	"fmt"
	"os"

	"log/slog"

	"github.com/google/uuid"

	"cdrip/internal/album"
	"cdrip/internal/catalog"
	"cdrip/internal/config"
	"cdrip/internal/logging"
	"cdrip/internal/services"
	"cdrip/internal/services/mid3v2"
)

// Options control a tagging pass.
type Options struct {
	// MetadataPath names the album configuration JSON. When empty the
	// lexically first *.json inside the album directory is used.
	MetadataPath string
	// OutputDir is where the MP3s live. Defaults to the album directory.
	OutputDir string
}

// TaggedFile pairs an MP3 with the tags written to it.
type TaggedFile struct {
	Path  string
	Title string
	Track int
}

// Result reports what a tagging pass wrote.
type Result struct {
	Metadata *album.Metadata
	Files    []TaggedFile
}

// Tagger matches album metadata titles to MP3 files and writes ID3 tags.
type Tagger struct {
	cfg    *config.Config
	store  *catalog.Store
	logger *slog.Logger
	client mid3v2.Tagger
}

// NewTagger constructs the tagger using default dependencies.
func NewTagger(cfg *config.Config, store *catalog.Store, logger *slog.Logger) *Tagger {
	client, err := mid3v2.New(cfg.Mid3v2.Binary)
	if err != nil {
		logger.Warn("mid3v2 client unavailable", logging.Error(err))
	}
	return NewTaggerWithClient(cfg, store, logger, client)
}

// NewTaggerWithClient allows injecting the tag writer (used in tests).
func NewTaggerWithClient(cfg *config.Config, store *catalog.Store, logger *slog.Logger, client mid3v2.Tagger) *Tagger {
	return &Tagger{
		cfg:    cfg,
		store:  store,
		logger: logging.NewComponentLogger(logger, "tagger"),
		client: client,
	}
}

// Tag loads album metadata, matches song titles to the MP3s in the output
// directory, and writes one tag set per file with sequential track numbers
// starting at 1.
func (t *Tagger) Tag(ctx context.Context, albumDir string, opts Options) (*Result, error) {
	albumDir, err := config.ExpandPath(albumDir)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(albumDir)
	if err != nil || !info.IsDir() {
		return nil, services.Wrap(services.ErrNotFound, "tagging", "inspect album dir",
			fmt.Sprintf("album directory %q does not exist", albumDir), err)
	}
	if t.client == nil {
		return nil, services.Wrap(services.ErrConfiguration, "tagging", "client",
			"mid3v2 client is not configured", nil)
	}

	metadataPath := opts.MetadataPath
	if metadataPath == "" {
		metadataPath, err = album.DiscoverMetadata(albumDir)
		if err != nil {
			return nil, err
		}
	}
	meta, err := album.LoadMetadata(metadataPath)
	if err != nil {
		return nil, err
	}

	outputDir := opts.OutputDir
	if outputDir == "" {
		outputDir = albumDir
	}
	outputDir, err = config.ExpandPath(outputDir)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	log := logging.NewRunLogger(t.logger, runID)
	run := t.beginRun(ctx, runID, albumDir, meta)
	result, err := t.tagAll(ctx, log, meta, outputDir)
	t.finishRun(ctx, run, result, err)
	return result, err
}

func (t *Tagger) tagAll(ctx context.Context, log *slog.Logger, meta *album.Metadata, outputDir string) (*Result, error) {
	matches, err := album.MatchTitles(meta.Songs, outputDir, ".mp3")
	if err != nil {
		return nil, err
	}

	result := &Result{Metadata: meta}
	for i, match := range matches {
		track := i + 1
		tags := meta.Tags(match.Title, track)
		log.InfoContext(ctx, "tagging",
			logging.String("mp3", match.Path),
			logging.String("title", match.Title),
			logging.Int("track", track))
		if err := t.client.Apply(ctx, match.Path, tags); err != nil {
			return result, err
		}
		result.Files = append(result.Files, TaggedFile{Path: match.Path, Title: match.Title, Track: track})
	}
	return result, nil
}

func (t *Tagger) beginRun(ctx context.Context, runID, albumDir string, meta *album.Metadata) *catalog.Run {
	if t.store == nil {
		return nil
	}
	title := meta.Album
	if title == "" {
		title = album.DeriveTitle(albumDir)
	}
	run, err := t.store.NewRun(ctx, runID, "tag", albumDir, title, catalog.StatusTagging)
	if err != nil {
		t.logger.WarnContext(ctx, "failed to record tagging start", logging.Error(err))
		return nil
	}
	return run
}

func (t *Tagger) finishRun(ctx context.Context, run *catalog.Run, result *Result, tagErr error) {
	if t.store == nil || run == nil {
		return
	}
	if result != nil {
		run.TrackCount = len(result.Files)
	}
	if tagErr != nil {
		if err := t.store.MarkFailed(ctx, run, tagErr); err != nil {
			t.logger.WarnContext(ctx, "failed to record tagging failure", logging.Error(err))
		}
		return
	}
	run.Status = catalog.StatusCompleted
	if err := t.store.Update(ctx, run); err != nil {
		t.logger.WarnContext(ctx, "failed to record tagging completion", logging.Error(err))
	}
}
