// Package encoding converts directories of ripped WAV files into MP3s via
// ffmpeg, one output per input, with stable sorted ordering and
// skip-or-overwrite handling for existing outputs.
package encoding
