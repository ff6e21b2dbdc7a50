package config

const (
	defaultLibraryDir       = "~/music"
	defaultStagingDir       = "~/.local/share/cdrip/staging"
	defaultLogDir           = "~/.local/share/cdrip/logs"
	defaultDevice           = "/dev/sr0"
	defaultDriveWaitTimeout = 300
	defaultEjectBinary      = "eject"
	defaultCdparanoiaBinary = "cdparanoia"
	defaultRipTimeout       = 1800
	defaultFFmpegBinary     = "ffmpeg"
	defaultCodec            = "libmp3lame"
	defaultBitrate          = "192k"
	defaultEncodeTimeout    = 600
	defaultMid3v2Binary     = "mid3v2"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LibraryDir: defaultLibraryDir,
			StagingDir: defaultStagingDir,
			LogDir:     defaultLogDir,
		},
		Drive: Drive{
			Device:      defaultDevice,
			EjectBinary: defaultEjectBinary,
			WaitTimeout: defaultDriveWaitTimeout,
			UdevMonitor: true,
		},
		Cdparanoia: Cdparanoia{
			Binary:      defaultCdparanoiaBinary,
			RipTimeout:  defaultRipTimeout,
			AbortOnSkip: true,
		},
		FFmpeg: FFmpeg{
			Binary:  defaultFFmpegBinary,
			Codec:   defaultCodec,
			Bitrate: defaultBitrate,
			Timeout: defaultEncodeTimeout,
		},
		Mid3v2: Mid3v2{
			Binary: defaultMid3v2Binary,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
