// Package ripping orchestrates cdparanoia across one or more discs of an
// album. It guards the album directory with a file lock, checks staging free
// space against the disc's table of contents, rips each disc into a private
// staging directory, and renumbers the batch output into the album's raw
// directory so multi-disc sets sort in play order.
package ripping
