// Package ffmpeg wraps the ffmpeg CLI for WAV to MP3 transcoding with
// deterministic encoder settings.
package ffmpeg
