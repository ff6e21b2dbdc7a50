package encoding

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"log/slog"

	"github.com/google/uuid"

	"cdrip/internal/album"
	"cdrip/internal/catalog"
	"cdrip/internal/config"
	"cdrip/internal/logging"
	"cdrip/internal/services"
	"cdrip/internal/services/ffmpeg"
)

// Options control a directory conversion.
type Options struct {
	OutputDir string
	Overwrite bool
	DeleteWAV bool
	Progress  bool
}

// Result reports what a conversion produced.
type Result struct {
	OutputDir string
	Converted []string
	Skipped   []string
}

// Converter turns a directory of WAV files into MP3s, one output per input.
type Converter struct {
	cfg    *config.Config
	store  *catalog.Store
	logger *slog.Logger
	client ffmpeg.Transcoder
}

// NewConverter constructs the converter using default dependencies.
func NewConverter(cfg *config.Config, store *catalog.Store, logger *slog.Logger) *Converter {
	client, err := ffmpeg.New(cfg.FFmpeg.Binary, cfg.FFmpeg.Codec, cfg.FFmpeg.Bitrate, cfg.FFmpeg.Timeout)
	if err != nil {
		logger.Warn("ffmpeg client unavailable", logging.Error(err))
	}
	return NewConverterWithClient(cfg, store, logger, client)
}

// NewConverterWithClient allows injecting the transcoder (used in tests).
func NewConverterWithClient(cfg *config.Config, store *catalog.Store, logger *slog.Logger, client ffmpeg.Transcoder) *Converter {
	return &Converter{
		cfg:    cfg,
		store:  store,
		logger: logging.NewComponentLogger(logger, "converter"),
		client: client,
	}
}

// Convert transcodes every WAV in inputDir into MP3s in the output directory.
// Existing outputs are skipped unless overwrite is requested.
func (c *Converter) Convert(ctx context.Context, inputDir string, opts Options) (*Result, error) {
	inputDir, err := config.ExpandPath(inputDir)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(inputDir)
	if err != nil || !info.IsDir() {
		return nil, services.Wrap(services.ErrNotFound, "encoding", "inspect input dir",
			fmt.Sprintf("input directory %q does not exist", inputDir), err)
	}
	if c.client == nil {
		return nil, services.Wrap(services.ErrConfiguration, "encoding", "client",
			"ffmpeg client is not configured", nil)
	}

	outputDir := opts.OutputDir
	if outputDir == "" {
		outputDir = inputDir
	}
	outputDir, err = config.ExpandPath(outputDir)
	if err != nil {
		return nil, err
	}

	wavs, err := listWAVs(inputDir)
	if err != nil {
		return nil, fmt.Errorf("list wav files: %w", err)
	}
	if len(wavs) == 0 {
		return nil, services.Wrap(services.ErrValidation, "encoding", "list inputs",
			fmt.Sprintf("no WAV files in %q", inputDir), nil)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	runID := uuid.NewString()
	log := logging.NewRunLogger(c.logger, runID)
	run := c.beginRun(ctx, runID, inputDir)
	result, err := c.convertAll(ctx, log, wavs, outputDir, opts)
	c.finishRun(ctx, run, result, err)
	return result, err
}

func (c *Converter) convertAll(ctx context.Context, log *slog.Logger, wavs []string, outputDir string, opts Options) (*Result, error) {
	started := time.Now()
	result := &Result{OutputDir: outputDir}
	bar := newProgressBar(len(wavs), opts.Progress)

	for _, wav := range wavs {
		mp3 := filepath.Join(outputDir, album.MP3Name(wav))

		if !opts.Overwrite {
			if _, statErr := os.Stat(mp3); statErr == nil {
				log.InfoContext(ctx, "output exists, skipping",
					logging.String("mp3", mp3))
				result.Skipped = append(result.Skipped, mp3)
				barAdd(bar)
				continue
			}
		}

		log.InfoContext(ctx, "transcoding",
			logging.String("wav", wav), logging.String("mp3", mp3))
		err := c.client.Transcode(ctx, wav, mp3, func(update ffmpeg.ProgressUpdate) {
			if update.Done {
				log.DebugContext(ctx, "transcode finished",
					logging.String("mp3", mp3))
			}
		})
		if err != nil {
			barFinish(bar)
			return result, err
		}
		result.Converted = append(result.Converted, mp3)
		barAdd(bar)

		if opts.DeleteWAV {
			if removeErr := os.Remove(wav); removeErr != nil {
				log.WarnContext(ctx, "failed to delete source wav",
					logging.String("wav", wav), logging.Error(removeErr))
			}
		}
	}
	barFinish(bar)
	log.InfoContext(ctx, "conversion finished",
		logging.Int("converted", len(result.Converted)),
		logging.Int("skipped", len(result.Skipped)),
		logging.Duration("elapsed", time.Since(started)))
	return result, nil
}

func (c *Converter) beginRun(ctx context.Context, runID, inputDir string) *catalog.Run {
	if c.store == nil {
		return nil
	}
	run, err := c.store.NewRun(ctx, runID, "convert", inputDir, album.DeriveTitle(inputDir), catalog.StatusConverting)
	if err != nil {
		c.logger.WarnContext(ctx, "failed to record conversion start", logging.Error(err))
		return nil
	}
	return run
}

func (c *Converter) finishRun(ctx context.Context, run *catalog.Run, result *Result, convertErr error) {
	if c.store == nil || run == nil {
		return
	}
	if result != nil {
		run.TrackCount = len(result.Converted) + len(result.Skipped)
	}
	if convertErr != nil {
		if err := c.store.MarkFailed(ctx, run, convertErr); err != nil {
			c.logger.WarnContext(ctx, "failed to record conversion failure", logging.Error(err))
		}
		return
	}
	run.Status = catalog.StatusConverted
	if err := c.store.Update(ctx, run); err != nil {
		c.logger.WarnContext(ctx, "failed to record conversion completion", logging.Error(err))
	}
}
