// Package mid3v2 wraps the mid3v2 CLI for writing and listing ID3 tags on
// MP3 files.
package mid3v2
