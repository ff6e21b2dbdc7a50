package deps_test

import (
	"os"
	"path/filepath"
	"testing"

	"cdrip/internal/deps"
)

func TestCheckBinariesReportsMissing(t *testing.T) {
	statuses := deps.CheckBinaries([]deps.Requirement{
		{Name: "ghost", Command: "definitely-not-a-real-binary-7731"},
	})
	if len(statuses) != 1 {
		t.Fatalf("expected 1 status, got %d", len(statuses))
	}
	if statuses[0].Available {
		t.Fatal("expected binary to be unavailable")
	}
	if statuses[0].Detail == "" {
		t.Fatal("expected detail for missing binary")
	}
}

func TestCheckBinariesFindsStub(t *testing.T) {
	binDir := t.TempDir()
	stub := filepath.Join(binDir, "stub-tool")
	if err := os.WriteFile(stub, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	t.Setenv("PATH", binDir)

	statuses := deps.CheckBinaries([]deps.Requirement{
		{Name: "stub", Command: "stub-tool", Description: "test stub"},
	})
	if !statuses[0].Available {
		t.Fatalf("expected stub to be available: %+v", statuses[0])
	}
	if statuses[0].Command != stub {
		t.Fatalf("expected resolved path %q, got %q", stub, statuses[0].Command)
	}
}

func TestCheckBinariesEmptyCommand(t *testing.T) {
	statuses := deps.CheckBinaries([]deps.Requirement{{Name: "blank"}})
	if statuses[0].Available {
		t.Fatal("expected unavailable status")
	}
	if statuses[0].Detail != "command not configured" {
		t.Fatalf("unexpected detail: %q", statuses[0].Detail)
	}
}

func TestMissingRequiredSkipsOptional(t *testing.T) {
	missing := deps.MissingRequired([]deps.Status{
		{Name: "cdparanoia", Available: false},
		{Name: "eject", Available: false, Optional: true},
		{Name: "ffmpeg", Available: true},
	})
	if len(missing) != 1 || missing[0] != "cdparanoia" {
		t.Fatalf("unexpected missing list: %v", missing)
	}
}

func TestRequirementsUsesConfiguredBinaries(t *testing.T) {
	reqs := deps.Requirements(nil)
	if len(reqs) != 4 {
		t.Fatalf("expected 4 requirements, got %d", len(reqs))
	}
	if reqs[0].Command != "cdparanoia" || reqs[1].Command != "ffmpeg" || reqs[2].Command != "mid3v2" {
		t.Fatalf("unexpected default commands: %+v", reqs)
	}
}
