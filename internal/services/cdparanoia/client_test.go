package cdparanoia_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cdrip/internal/services"
	"cdrip/internal/services/cdparanoia"
)

type fakeExecutor struct {
	binary string
	args   []string
	dir    string
	lines  []string
	files  map[string][]byte
	err    error
}

func (f *fakeExecutor) Run(_ context.Context, binary string, args []string, dir string, onLine func(string)) error {
	f.binary = binary
	f.args = args
	f.dir = dir
	for _, line := range f.lines {
		if onLine != nil {
			onLine(line)
		}
	}
	for name, data := range f.files {
		if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
			return err
		}
	}
	return f.err
}

const tocOutput = `cdparanoia III release 10.2 (September 11, 2008)

Table of contents (audio tracks only):
track        length               begin        copy pre ch
===========================================================
  1.    13584 [03:01.09]        0 [00:00.00]    no   no  2
  2.    15222 [03:22.72]    13584 [03:01.09]    no   no  2
TOTAL   28806 [06:24.06]       (audio only)
`

func TestQueryTOCParsesTracks(t *testing.T) {
	exec := &fakeExecutor{lines: strings.Split(tocOutput, "\n")}
	client, err := cdparanoia.New("cdparanoia", 60, true, cdparanoia.WithExecutor(exec))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	toc, err := client.QueryTOC(context.Background(), "/dev/sr0")
	if err != nil {
		t.Fatalf("QueryTOC returned error: %v", err)
	}
	if toc.TrackCount() != 2 {
		t.Fatalf("expected 2 tracks, got %d", toc.TrackCount())
	}
	if toc.Tracks[0].Number != 1 || toc.Tracks[0].Sectors != 13584 {
		t.Fatalf("unexpected first track: %+v", toc.Tracks[0])
	}
	if toc.Tracks[1].Length.Seconds() < 200 || toc.Tracks[1].Length.Seconds() > 210 {
		t.Fatalf("unexpected second track length: %v", toc.Tracks[1].Length)
	}
	if exec.args[0] != "-Q" {
		t.Fatalf("expected -Q flag, got %v", exec.args)
	}
	if exec.args[1] != "-d" || exec.args[2] != "/dev/sr0" {
		t.Fatalf("expected device args, got %v", exec.args)
	}
}

func TestQueryTOCNoTracks(t *testing.T) {
	exec := &fakeExecutor{lines: []string{"no disc"}}
	client, _ := cdparanoia.New("cdparanoia", 60, true, cdparanoia.WithExecutor(exec))

	_, err := client.QueryTOC(context.Background(), "")
	if err == nil {
		t.Fatal("expected error for empty TOC")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("unexpected error class: %v", err)
	}
}

func TestRipGathersTrackFiles(t *testing.T) {
	dest := t.TempDir()
	exec := &fakeExecutor{
		lines: []string{
			"Ripping from sector       0 (track  1 [0:00.00])",
			"outputting to track01.cdda.wav",
			"outputting to track02.cdda.wav",
		},
		files: map[string][]byte{
			"track01.cdda.wav": []byte("RIFFone"),
			"track02.cdda.wav": []byte("RIFFtwo"),
		},
	}
	client, _ := cdparanoia.New("cdparanoia", 60, true, cdparanoia.WithExecutor(exec))

	var seen []int
	tracks, err := client.Rip(context.Background(), "/dev/sr0", dest, func(u cdparanoia.ProgressUpdate) {
		seen = append(seen, u.Track)
	})
	if err != nil {
		t.Fatalf("Rip returned error: %v", err)
	}
	if len(tracks) != 2 {
		t.Fatalf("expected 2 tracks, got %d", len(tracks))
	}
	if tracks[0].Number != 1 || tracks[1].Number != 2 {
		t.Fatalf("tracks out of order: %+v", tracks)
	}
	if len(seen) != 2 || seen[0] != 1 || seen[1] != 2 {
		t.Fatalf("unexpected progress updates: %v", seen)
	}
	if exec.dir != dest {
		t.Fatalf("expected rip to run in %q, ran in %q", dest, exec.dir)
	}
	if exec.args[0] != "-X" || exec.args[1] != "-B" {
		t.Fatalf("unexpected args: %v", exec.args)
	}
}

func TestRipWithoutAbortOnSkip(t *testing.T) {
	dest := t.TempDir()
	exec := &fakeExecutor{files: map[string][]byte{"track01.cdda.wav": []byte("RIFF")}}
	client, _ := cdparanoia.New("cdparanoia", 60, false, cdparanoia.WithExecutor(exec))

	if _, err := client.Rip(context.Background(), "", dest, nil); err != nil {
		t.Fatalf("Rip returned error: %v", err)
	}
	if exec.args[0] != "-B" {
		t.Fatalf("expected -B first without -X, got %v", exec.args)
	}
}

func TestRipNoOutputFails(t *testing.T) {
	client, _ := cdparanoia.New("cdparanoia", 60, true, cdparanoia.WithExecutor(&fakeExecutor{}))
	_, err := client.Rip(context.Background(), "", t.TempDir(), nil)
	if err == nil {
		t.Fatal("expected error when no WAVs produced")
	}
	if !strings.Contains(err.Error(), "no WAV files") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRipExecutorFailure(t *testing.T) {
	exec := &fakeExecutor{err: errors.New("exit status 1")}
	client, _ := cdparanoia.New("cdparanoia", 60, true, cdparanoia.WithExecutor(exec))
	_, err := client.Rip(context.Background(), "", t.TempDir(), nil)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
}

func TestTrackNumberFromName(t *testing.T) {
	cases := []struct {
		name string
		want int
		ok   bool
	}{
		{"track01.cdda.wav", 1, true},
		{"track12.cdda.wav", 12, true},
		{"TRACK03.WAV", 3, true},
		{"song.wav", 0, false},
		{"track.wav", 0, false},
	}
	for _, tc := range cases {
		got, ok := cdparanoia.TrackNumberFromName(tc.name)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("%s: got (%d, %v), want (%d, %v)", tc.name, got, ok, tc.want, tc.ok)
		}
	}
}

func TestNewRequiresBinary(t *testing.T) {
	if _, err := cdparanoia.New("  ", 60, true); err == nil {
		t.Fatal("expected error for empty binary")
	}
}
