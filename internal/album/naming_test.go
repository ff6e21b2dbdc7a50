package album_test

import (
	"testing"

	"cdrip/internal/album"
)

func TestDiscPrefix(t *testing.T) {
	if got := album.DiscPrefix(1); got != "cd01track" {
		t.Fatalf("unexpected prefix: %q", got)
	}
	if got := album.DiscPrefix(12); got != "cd12track" {
		t.Fatalf("unexpected prefix: %q", got)
	}
}

func TestRawTrackName(t *testing.T) {
	if got := album.RawTrackName("cd01track", 3); got != "cd01track03.wav" {
		t.Fatalf("unexpected name: %q", got)
	}
	if got := album.RawTrackName("cd02track", 14); got != "cd02track14.wav" {
		t.Fatalf("unexpected name: %q", got)
	}
}

func TestMP3Name(t *testing.T) {
	cases := map[string]string{
		"track01.cdda.wav":     "track01.mp3",
		"cd01track03.wav":      "cd01track03.mp3",
		"/tmp/rip/track02.wav": "track02.mp3",
	}
	for in, want := range cases {
		if got := album.MP3Name(in); got != want {
			t.Fatalf("MP3Name(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDeriveTitle(t *testing.T) {
	cases := map[string]string{
		"/music/the_lonesome-crowded.west": "The Lonesome Crowded West",
		"good news":                        "Good News",
		"///":                              "Unknown Album",
	}
	for in, want := range cases {
		if got := album.DeriveTitle(in); got != want {
			t.Fatalf("DeriveTitle(%q) = %q, want %q", in, got, want)
		}
	}
}
