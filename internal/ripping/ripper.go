package ripping

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"log/slog"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"cdrip/internal/album"
	"cdrip/internal/catalog"
	"cdrip/internal/config"
	"cdrip/internal/disc"
	"cdrip/internal/fileutil"
	"cdrip/internal/logging"
	"cdrip/internal/services"
	"cdrip/internal/services/cdparanoia"
)

// wavBytesPerSector is the audio payload of one CD sector; cdparanoia writes
// 44 bytes of RIFF header on top of the raw samples.
const (
	wavBytesPerSector = 2352
	wavHeaderBytes    = 44
)

// DiscWaiter blocks until a readable disc is present in the drive.
type DiscWaiter interface {
	Wait(ctx context.Context) error
}

// Options control a multi-disc rip.
type Options struct {
	Discs    int
	Device   string
	WaitDisc bool
	Eject    bool
	DryRun   bool
}

// DiscResult reports the renamed WAV files produced from one disc.
type DiscResult struct {
	Disc   int
	Tracks []string
}

// Result summarizes a completed rip.
type Result struct {
	RawDir     string
	Discs      []DiscResult
	TrackCount int
}

// Ripper drives cdparanoia across one or more discs and collects the output
// into the album's raw directory.
type Ripper struct {
	cfg     *config.Config
	store   *catalog.Store
	logger  *slog.Logger
	client  cdparanoia.Ripper
	ejector disc.Ejector
	waiter  DiscWaiter
	statfs  func(path string) (total, free uint64, err error)
}

// NewRipper constructs the rip orchestrator using default dependencies.
func NewRipper(cfg *config.Config, store *catalog.Store, logger *slog.Logger) *Ripper {
	client, err := cdparanoia.New(cfg.Cdparanoia.Binary, cfg.Cdparanoia.RipTimeout, cfg.Cdparanoia.AbortOnSkip)
	if err != nil {
		logger.Warn("cdparanoia client unavailable", logging.Error(err))
	}
	waitTimeout := time.Duration(cfg.Drive.WaitTimeout) * time.Second
	waiter := disc.NewInsertMonitor(cfg.Drive.Device, cfg.Drive.UdevMonitor, waitTimeout, logger)
	return NewRipperWithDependencies(cfg, store, logger, client, disc.NewEjector(cfg.Drive.EjectBinary), waiter)
}

// NewRipperWithDependencies allows injecting all collaborators (used in tests).
func NewRipperWithDependencies(cfg *config.Config, store *catalog.Store, logger *slog.Logger, client cdparanoia.Ripper, ejector disc.Ejector, waiter DiscWaiter) *Ripper {
	return &Ripper{
		cfg:     cfg,
		store:   store,
		logger:  logging.NewComponentLogger(logger, "ripper"),
		client:  client,
		ejector: ejector,
		waiter:  waiter,
		statfs:  realStatfs,
	}
}

// Rip extracts every disc of an album into <albumDir>/raw with renumbered
// cdNNtrackMM.wav names. It records the run in the catalog when a store is
// configured.
func (r *Ripper) Rip(ctx context.Context, albumDir string, opts Options) (*Result, error) {
	albumDir, err := config.ExpandPath(albumDir)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(albumDir)
	if err != nil || !info.IsDir() {
		return nil, services.Wrap(services.ErrNotFound, "ripping", "inspect album dir",
			fmt.Sprintf("album directory %q does not exist", albumDir), err)
	}
	if opts.Discs <= 0 {
		opts.Discs = 1
	}
	device := strings.TrimSpace(opts.Device)
	if device == "" {
		device = r.cfg.Drive.Device
	}
	if r.client == nil {
		return nil, services.Wrap(services.ErrConfiguration, "ripping", "client",
			"cdparanoia client is not configured", nil)
	}

	lock := flock.New(filepath.Join(albumDir, ".cdrip.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire album lock: %w", err)
	}
	if !locked {
		return nil, services.Wrap(services.ErrValidation, "ripping", "lock",
			fmt.Sprintf("another rip is already running in %q", albumDir), nil)
	}
	defer func() {
		_ = lock.Unlock()
	}()

	runID := uuid.NewString()
	log := logging.NewRunLogger(r.logger, runID)
	log.InfoContext(ctx, "starting rip",
		logging.String("album_dir", albumDir),
		logging.Int("discs", opts.Discs),
		logging.Bool("dry_run", opts.DryRun))

	run := r.beginRun(ctx, runID, albumDir, opts)
	result, err := r.ripDiscs(ctx, log, albumDir, device, opts)
	r.finishRun(ctx, run, result, err)
	return result, err
}

func (r *Ripper) ripDiscs(ctx context.Context, log *slog.Logger, albumDir, device string, opts Options) (*Result, error) {
	rawDir := filepath.Join(albumDir, "raw")
	if !opts.DryRun {
		if err := os.MkdirAll(rawDir, 0o755); err != nil {
			return nil, fmt.Errorf("create raw dir: %w", err)
		}
		if err := r.cfg.EnsureDirectories(); err != nil {
			return nil, services.Wrap(services.ErrConfiguration, "ripping", "ensure staging dir",
				"staging directory is not writable; adjust paths.staging_dir", err)
		}
	}

	result := &Result{RawDir: rawDir}
	for discNumber := 1; discNumber <= opts.Discs; discNumber++ {
		if opts.WaitDisc && r.waiter != nil {
			log.InfoContext(ctx, "waiting for disc",
				logging.Int("disc", discNumber), logging.String("device", device))
			if err := r.waiter.Wait(ctx); err != nil {
				return result, err
			}
		}

		// Track numbers continue across discs so titles keep lining up
		// with their whole-album position.
		discResult, err := r.ripOne(ctx, log, rawDir, device, discNumber, result.TrackCount, opts)
		if err != nil {
			return result, err
		}
		result.Discs = append(result.Discs, *discResult)
		result.TrackCount += len(discResult.Tracks)

		if opts.Eject && r.ejector != nil && !opts.DryRun {
			if err := r.ejector.Eject(ctx, device); err != nil {
				log.WarnContext(ctx, "eject failed", logging.Error(err))
			}
		}
	}
	return result, nil
}

func (r *Ripper) ripOne(ctx context.Context, log *slog.Logger, rawDir, device string, discNumber, trackOffset int, opts Options) (*DiscResult, error) {
	toc, err := r.client.QueryTOC(ctx, device)
	if err != nil {
		return nil, err
	}
	log.InfoContext(ctx, "disc table of contents read",
		logging.Int("disc", discNumber),
		logging.Int("tracks", len(toc.Tracks)),
		logging.Int64("estimated_bytes", estimateBytes(toc)))

	if err := r.checkFreeSpace(r.cfg.Paths.StagingDir, estimateBytes(toc)); err != nil {
		return nil, err
	}

	prefix := album.DiscPrefix(discNumber)
	if opts.DryRun {
		discResult := &DiscResult{Disc: discNumber}
		for _, track := range toc.Tracks {
			dest := filepath.Join(rawDir, album.RawTrackName(prefix, trackOffset+track.Number))
			log.InfoContext(ctx, "dry run: would rip track",
				logging.Int("track", track.Number), logging.String("destination", dest))
			discResult.Tracks = append(discResult.Tracks, dest)
		}
		return discResult, nil
	}

	staging, err := os.MkdirTemp(r.cfg.Paths.StagingDir, "rip-disc-*")
	if err != nil {
		return nil, fmt.Errorf("create staging dir: %w", err)
	}
	defer func() {
		_ = os.RemoveAll(staging)
	}()

	tracks, err := r.client.Rip(ctx, device, staging, func(update cdparanoia.ProgressUpdate) {
		log.InfoContext(ctx, "ripping track",
			logging.Int("disc", discNumber),
			logging.Int("track", update.Track))
	})
	if err != nil {
		return nil, err
	}

	discResult := &DiscResult{Disc: discNumber}
	for _, track := range tracks {
		dest := filepath.Join(rawDir, album.RawTrackName(prefix, trackOffset+track.Number))
		if err := fileutil.MoveFile(track.Path, dest); err != nil {
			return nil, fmt.Errorf("move %s into raw dir: %w", filepath.Base(track.Path), err)
		}
		discResult.Tracks = append(discResult.Tracks, dest)
	}
	log.InfoContext(ctx, "disc ripped",
		logging.Int("disc", discNumber),
		logging.Int("tracks", len(discResult.Tracks)),
		logging.String("raw_dir", rawDir))
	return discResult, nil
}

func (r *Ripper) checkFreeSpace(dir string, needed int64) error {
	if r.statfs == nil || needed <= 0 {
		return nil
	}
	_, free, err := r.statfs(dir)
	if err != nil {
		// Preflight only; the rip itself surfaces real write failures.
		r.logger.Warn("free space check failed", logging.Error(err))
		return nil
	}
	if free < uint64(needed) {
		return services.Wrap(services.ErrConfiguration, "ripping", "free space",
			fmt.Sprintf("staging dir %q has %d bytes free but the disc needs about %d", dir, free, needed), nil)
	}
	return nil
}

func (r *Ripper) beginRun(ctx context.Context, runID, albumDir string, opts Options) *catalog.Run {
	if r.store == nil || opts.DryRun {
		return nil
	}
	run, err := r.store.NewRun(ctx, runID, "rip", albumDir, album.DeriveTitle(albumDir), catalog.StatusRipping)
	if err != nil {
		r.logger.WarnContext(ctx, "failed to record rip start", logging.Error(err))
		return nil
	}
	run.DiscCount = opts.Discs
	return run
}

func (r *Ripper) finishRun(ctx context.Context, run *catalog.Run, result *Result, ripErr error) {
	if r.store == nil || run == nil {
		return
	}
	if result != nil {
		run.TrackCount = result.TrackCount
		run.DiscCount = len(result.Discs)
	}
	if ripErr != nil {
		if err := r.store.MarkFailed(ctx, run, ripErr); err != nil {
			r.logger.WarnContext(ctx, "failed to record rip failure", logging.Error(err))
		}
		return
	}
	run.Status = catalog.StatusRipped
	if err := r.store.Update(ctx, run); err != nil {
		r.logger.WarnContext(ctx, "failed to record rip completion", logging.Error(err))
	}
}

func estimateBytes(toc *cdparanoia.TOC) int64 {
	if toc == nil {
		return 0
	}
	var total int64
	for _, track := range toc.Tracks {
		total += int64(track.Sectors)*wavBytesPerSector + wavHeaderBytes
	}
	return total
}
