// Package tagging applies album metadata to converted MP3s. Song titles from
// the album configuration are matched to files by track number or title, then
// written out through mid3v2 with sequential track numbers.
package tagging
