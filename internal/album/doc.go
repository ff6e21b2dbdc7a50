// Package album models the user-supplied album metadata and the conventions
// for naming ripped track files, including the matching of ordered song
// titles onto the music files they describe.
package album
