package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeDrive()
	c.normalizeBinaries()
	c.normalizeEncoder()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.LibraryDir, err = expandPath(c.Paths.LibraryDir); err != nil {
		return fmt.Errorf("paths.library_dir: %w", err)
	}
	if c.Paths.StagingDir, err = expandPath(c.Paths.StagingDir); err != nil {
		return fmt.Errorf("paths.staging_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeDrive() {
	c.Drive.Device = strings.TrimSpace(c.Drive.Device)
	if c.Drive.Device == "" {
		if value, ok := os.LookupEnv("CDRIP_DEVICE"); ok {
			c.Drive.Device = strings.TrimSpace(value)
		}
	}
	if c.Drive.Device == "" {
		c.Drive.Device = defaultDevice
	}
	c.Drive.EjectBinary = strings.TrimSpace(c.Drive.EjectBinary)
	if c.Drive.EjectBinary == "" {
		c.Drive.EjectBinary = defaultEjectBinary
	}
	if c.Drive.WaitTimeout <= 0 {
		c.Drive.WaitTimeout = defaultDriveWaitTimeout
	}
}

func (c *Config) normalizeBinaries() {
	c.Cdparanoia.Binary = strings.TrimSpace(c.Cdparanoia.Binary)
	if c.Cdparanoia.Binary == "" {
		c.Cdparanoia.Binary = defaultCdparanoiaBinary
	}
	c.FFmpeg.Binary = strings.TrimSpace(c.FFmpeg.Binary)
	if c.FFmpeg.Binary == "" {
		c.FFmpeg.Binary = defaultFFmpegBinary
	}
	c.Mid3v2.Binary = strings.TrimSpace(c.Mid3v2.Binary)
	if c.Mid3v2.Binary == "" {
		c.Mid3v2.Binary = defaultMid3v2Binary
	}
}

func (c *Config) normalizeEncoder() {
	c.FFmpeg.Codec = strings.TrimSpace(c.FFmpeg.Codec)
	if c.FFmpeg.Codec == "" {
		c.FFmpeg.Codec = defaultCodec
	}
	c.FFmpeg.Bitrate = strings.TrimSpace(c.FFmpeg.Bitrate)
	if c.FFmpeg.Bitrate == "" {
		c.FFmpeg.Bitrate = defaultBitrate
	}
	if c.FFmpeg.Timeout <= 0 {
		c.FFmpeg.Timeout = defaultEncodeTimeout
	}
	if c.Cdparanoia.RipTimeout <= 0 {
		c.Cdparanoia.RipTimeout = defaultRipTimeout
	}
}

func (c *Config) normalizeLogging() {
	format := strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if format == "" {
		format = defaultLogFormat
	}
	c.Logging.Format = format

	level := strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if level == "" {
		level = defaultLogLevel
	}
	c.Logging.Level = level
}
