// Package cdparanoia wraps the cdparanoia CLI: querying a disc's table of
// contents and batch-extracting audio tracks to WAV files.
package cdparanoia
