package disc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pilebones/go-udev/netlink"

	"cdrip/internal/logging"
	"cdrip/internal/services"
)

// InsertMonitor waits for an audio disc to appear in the configured drive.
// It listens for udev netlink media-change events and falls back to polling
// the CDROM_DRIVE_STATUS ioctl, so it also succeeds when the disc was loaded
// before the monitor started or when netlink is unavailable.
type InsertMonitor struct {
	device     string
	useNetlink bool
	timeout    time.Duration
	logger     *slog.Logger
	status     func(device string) (DriveStatus, error)
}

// NewInsertMonitor creates a monitor for the given device node. A positive
// timeout bounds how long Wait blocks before giving up on the drive.
func NewInsertMonitor(device string, useNetlink bool, timeout time.Duration, logger *slog.Logger) *InsertMonitor {
	return &InsertMonitor{
		device:     strings.TrimSpace(device),
		useNetlink: useNetlink,
		timeout:    timeout,
		logger:     logging.NewComponentLogger(logger, "disc-monitor"),
		status:     CheckDriveStatus,
	}
}

// Wait blocks until the drive reports a readable disc, the configured wait
// timeout elapses, or the context ends.
func (m *InsertMonitor) Wait(ctx context.Context) error {
	if status, err := m.status(m.device); err == nil && status == DriveStatusDiscOK {
		return nil
	}

	m.logger.Info("waiting for disc",
		logging.String("device", m.device),
		logging.Duration("timeout", m.timeout))

	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	if m.useNetlink {
		// An observed event is still confirmed through the status ioctl.
		m.waitNetlink(ctx)
	}
	return m.pollReady(ctx)
}

// pollReady polls the drive at 1-second intervals until it reports
// DriveStatusDiscOK or the context ends.
func (m *InsertMonitor) pollReady(ctx context.Context) error {
	const pollInterval = time.Second

	var last DriveStatus
	for {
		status, err := m.status(m.device)
		if err != nil {
			return err
		}
		last = status
		if status == DriveStatusDiscOK {
			return nil
		}

		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return services.Wrap(services.ErrTimeout, "disc", "wait for disc",
					fmt.Sprintf("drive %s not ready after %s (last status: %s)", m.device, m.timeout, last), ctx.Err())
			}
			return fmt.Errorf("drive %s not ready (last status: %s): %w", m.device, last, ctx.Err())
		case <-time.After(pollInterval):
		}
	}
}

// waitNetlink listens for a media-change uevent on the configured device.
// Returns false when the netlink socket cannot be used, so the caller can
// fall back to polling.
func (m *InsertMonitor) waitNetlink(ctx context.Context) bool {
	conn := new(netlink.UEventConn)
	if err := conn.Connect(netlink.UdevEvent); err != nil {
		m.logger.Warn("netlink unavailable, falling back to polling", logging.Error(err))
		return false
	}
	defer conn.Close()

	queue := make(chan netlink.UEvent)
	errs := make(chan error)
	monitorQuit := conn.Monitor(queue, errs, discMatcher())
	defer close(monitorQuit)

	// Re-check the tray periodically in case the insert event raced the
	// monitor setup.
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return true
		case uevent := <-queue:
			devname := extractDeviceName(uevent)
			if devname != m.device {
				m.logger.Debug("ignoring event for other device",
					logging.String("device", devname))
				continue
			}
			m.logger.Info("disc media detected",
				logging.String("device", devname),
				logging.String("action", string(uevent.Action)))
			return true
		case err := <-errs:
			m.logger.Warn("netlink monitor error", logging.Error(err))
		case <-ticker.C:
			if status, err := m.status(m.device); err == nil && status == DriveStatusDiscOK {
				return true
			}
		}
	}
}

// discMatcher matches SUBSYSTEM=block media-change events for optical drives.
func discMatcher() netlink.Matcher {
	action := "change|add"
	rules := &netlink.RuleDefinitions{}
	rules.AddRule(netlink.RuleDefinition{
		Action: &action,
		Env: map[string]string{
			"SUBSYSTEM":      "block",
			"ID_CDROM":       "1",
			"ID_CDROM_MEDIA": "1",
		},
	})
	return rules
}

func extractDeviceName(uevent netlink.UEvent) string {
	if devname := uevent.Env["DEVNAME"]; devname != "" {
		return devname
	}

	devpath := uevent.Env["DEVPATH"]
	if devpath == "" {
		return ""
	}
	parts := strings.Split(devpath, "/")
	return "/dev/" + parts[len(parts)-1]
}
