package encoding_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"cdrip/internal/catalog"
	"cdrip/internal/encoding"
	"cdrip/internal/logging"
	"cdrip/internal/services/ffmpeg"
	"cdrip/internal/testsupport"
)

type fakeTranscoder struct {
	calls []string
	err   error
}

func (f *fakeTranscoder) Transcode(_ context.Context, wavPath, mp3Path string, progress func(ffmpeg.ProgressUpdate)) error {
	f.calls = append(f.calls, wavPath)
	if f.err != nil {
		return f.err
	}
	if err := os.WriteFile(mp3Path, []byte("ID3"), 0o644); err != nil {
		return err
	}
	if progress != nil {
		progress(ffmpeg.ProgressUpdate{Done: true})
	}
	return nil
}

func newTestConverter(t *testing.T, store *catalog.Store, client ffmpeg.Transcoder) (*encoding.Converter, string) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	inputDir := filepath.Join(testsupport.BaseDir(cfg), "album")
	if err := os.MkdirAll(inputDir, 0o755); err != nil {
		t.Fatalf("mkdir input dir: %v", err)
	}
	return encoding.NewConverterWithClient(cfg, store, logging.NewNop(), client), inputDir
}

func writeWAVs(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		testsupport.WriteFile(t, filepath.Join(dir, name), 64)
	}
}

func TestConvertProducesOneMP3PerWAV(t *testing.T) {
	client := &fakeTranscoder{}
	converter, inputDir := newTestConverter(t, nil, client)
	writeWAVs(t, inputDir, "track01.wav", "track02.wav")

	result, err := converter.Convert(context.Background(), inputDir, encoding.Options{})
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if len(result.Converted) != 2 {
		t.Fatalf("expected 2 conversions, got %d", len(result.Converted))
	}
	for _, name := range []string{"track01.mp3", "track02.mp3"} {
		if _, statErr := os.Stat(filepath.Join(inputDir, name)); statErr != nil {
			t.Fatalf("expected %s: %v", name, statErr)
		}
	}
	if len(client.calls) != 2 {
		t.Fatalf("expected 2 transcode invocations, got %d", len(client.calls))
	}
}

func TestConvertSortsInputsByName(t *testing.T) {
	client := &fakeTranscoder{}
	converter, inputDir := newTestConverter(t, nil, client)
	writeWAVs(t, inputDir, "cd01track02.wav", "cd01track01.wav", "cd02track01.wav")

	if _, err := converter.Convert(context.Background(), inputDir, encoding.Options{}); err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	want := []string{
		filepath.Join(inputDir, "cd01track01.wav"),
		filepath.Join(inputDir, "cd01track02.wav"),
		filepath.Join(inputDir, "cd02track01.wav"),
	}
	if len(client.calls) != len(want) {
		t.Fatalf("expected %d invocations, got %d", len(want), len(client.calls))
	}
	for i, call := range client.calls {
		if call != want[i] {
			t.Fatalf("invocation %d: got %s, want %s", i, call, want[i])
		}
	}
}

func TestConvertStripsCddaMarker(t *testing.T) {
	client := &fakeTranscoder{}
	converter, inputDir := newTestConverter(t, nil, client)
	writeWAVs(t, inputDir, "track01.cdda.wav")

	result, err := converter.Convert(context.Background(), inputDir, encoding.Options{})
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	want := filepath.Join(inputDir, "track01.mp3")
	if len(result.Converted) != 1 || result.Converted[0] != want {
		t.Fatalf("expected %s, got %#v", want, result.Converted)
	}
}

func TestConvertSkipsExistingOutputs(t *testing.T) {
	client := &fakeTranscoder{}
	converter, inputDir := newTestConverter(t, nil, client)
	writeWAVs(t, inputDir, "track01.wav")
	testsupport.WriteFile(t, filepath.Join(inputDir, "track01.mp3"), 16)

	result, err := converter.Convert(context.Background(), inputDir, encoding.Options{})
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if len(client.calls) != 0 {
		t.Fatalf("expected no invocations for existing output, got %d", len(client.calls))
	}
	if len(result.Skipped) != 1 {
		t.Fatalf("expected 1 skip, got %d", len(result.Skipped))
	}
}

func TestConvertOverwriteReencodesExisting(t *testing.T) {
	client := &fakeTranscoder{}
	converter, inputDir := newTestConverter(t, nil, client)
	writeWAVs(t, inputDir, "track01.wav")
	testsupport.WriteFile(t, filepath.Join(inputDir, "track01.mp3"), 16)

	result, err := converter.Convert(context.Background(), inputDir, encoding.Options{Overwrite: true})
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if len(client.calls) != 1 {
		t.Fatalf("expected 1 invocation with overwrite, got %d", len(client.calls))
	}
	if len(result.Converted) != 1 || len(result.Skipped) != 0 {
		t.Fatalf("unexpected result: %#v", result)
	}
}

func TestConvertDeleteWAVRemovesSources(t *testing.T) {
	client := &fakeTranscoder{}
	converter, inputDir := newTestConverter(t, nil, client)
	writeWAVs(t, inputDir, "track01.wav")

	if _, err := converter.Convert(context.Background(), inputDir, encoding.Options{DeleteWAV: true}); err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if _, statErr := os.Stat(filepath.Join(inputDir, "track01.wav")); !os.IsNotExist(statErr) {
		t.Fatalf("expected source wav to be removed: %v", statErr)
	}
	if _, statErr := os.Stat(filepath.Join(inputDir, "track01.mp3")); statErr != nil {
		t.Fatalf("expected mp3 output: %v", statErr)
	}
}

func TestConvertSeparateOutputDir(t *testing.T) {
	client := &fakeTranscoder{}
	converter, inputDir := newTestConverter(t, nil, client)
	writeWAVs(t, inputDir, "track01.wav")
	outputDir := filepath.Join(filepath.Dir(inputDir), "out")

	result, err := converter.Convert(context.Background(), inputDir, encoding.Options{OutputDir: outputDir})
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if result.OutputDir != outputDir {
		t.Fatalf("expected output dir %s, got %s", outputDir, result.OutputDir)
	}
	if _, statErr := os.Stat(filepath.Join(outputDir, "track01.mp3")); statErr != nil {
		t.Fatalf("expected mp3 in output dir: %v", statErr)
	}
}

func TestConvertMissingInputDirSkipsInvocation(t *testing.T) {
	client := &fakeTranscoder{}
	converter, inputDir := newTestConverter(t, nil, client)

	missing := filepath.Join(inputDir, "does-not-exist")
	if _, err := converter.Convert(context.Background(), missing, encoding.Options{}); err == nil {
		t.Fatal("expected error for missing input dir")
	}
	if len(client.calls) != 0 {
		t.Fatalf("expected no invocations, got %d", len(client.calls))
	}
}

func TestConvertEmptyInputDirErrors(t *testing.T) {
	client := &fakeTranscoder{}
	converter, inputDir := newTestConverter(t, nil, client)

	if _, err := converter.Convert(context.Background(), inputDir, encoding.Options{}); err == nil {
		t.Fatal("expected error for directory without WAV files")
	}
	if len(client.calls) != 0 {
		t.Fatalf("expected no invocations, got %d", len(client.calls))
	}
}

func TestConvertFailureMarksCatalogRunFailed(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	inputDir := filepath.Join(testsupport.BaseDir(cfg), "album")
	if err := os.MkdirAll(inputDir, 0o755); err != nil {
		t.Fatalf("mkdir input dir: %v", err)
	}
	writeWAVs(t, inputDir, "track01.wav")

	client := &fakeTranscoder{err: fmt.Errorf("ffmpeg exited with status 1")}
	converter := encoding.NewConverterWithClient(cfg, store, logging.NewNop(), client)

	if _, err := converter.Convert(context.Background(), inputDir, encoding.Options{}); err == nil {
		t.Fatal("expected convert error")
	}

	runs, err := store.Recent(context.Background(), 5)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(runs) != 1 || runs[0].Status != catalog.StatusFailed {
		t.Fatalf("expected failed catalog run, got %#v", runs)
	}
}
