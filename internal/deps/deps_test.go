package deps

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"reflect"
	"testing"
)

func writeStub(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
}

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	writeStub(t, present)
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
		{Name: "Unset", Command: "  "},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}
	if !results[0].Available() || results[0].Detail() != "" || results[0].Path != present {
		t.Fatalf("unexpected status for present binary: %#v", results[0])
	}
	if results[1].Available() || results[1].Detail() == "" {
		t.Fatalf("expected missing binary to be unavailable with detail, got %#v", results[1])
	}
	if results[1].Command != "clearly-not-present-binary" {
		t.Fatalf("unexpected command recorded: %s", results[1].Command)
	}
	if !errors.Is(results[2].Err, ErrNotConfigured) || results[2].Detail() != "command not configured" {
		t.Fatalf("unexpected detail for unset command: %q", results[2].Detail())
	}
}

func TestMissingListsUnavailable(t *testing.T) {
	statuses := []Status{
		{Requirement: Requirement{Name: "FFmpeg"}, Path: "/usr/bin/ffmpeg"},
		{Requirement: Requirement{Name: "FFprobe"}, Err: exec.ErrNotFound},
	}
	if got := Missing(statuses); !reflect.DeepEqual(got, []string{"FFprobe"}) {
		t.Fatalf("Missing = %v", got)
	}
}

func TestResolveFFprobePrefersSibling(t *testing.T) {
	dir := t.TempDir()
	ffmpeg := filepath.Join(dir, executableName("ffmpeg"))
	ffprobe := filepath.Join(dir, executableName("ffprobe"))
	writeStub(t, ffmpeg)
	writeStub(t, ffprobe)

	if got := ResolveFFprobe(ffmpeg, "ffprobe"); got != ffprobe {
		t.Fatalf("expected sibling %q, got %q", ffprobe, got)
	}
	if got := ResolveFFprobe(ffmpeg, ""); got != ffprobe {
		t.Fatalf("expected sibling for empty ffprobe, got %q", got)
	}
}

func TestResolveFFprobeKeepsExplicitCommand(t *testing.T) {
	dir := t.TempDir()
	ffmpeg := filepath.Join(dir, executableName("ffmpeg"))
	writeStub(t, ffmpeg)
	writeStub(t, filepath.Join(dir, executableName("ffprobe")))

	if got := ResolveFFprobe(ffmpeg, "/opt/tools/ffprobe"); got != "/opt/tools/ffprobe" {
		t.Fatalf("explicit ffprobe overridden: %q", got)
	}
}

func TestResolveFFprobeFallsBackToPath(t *testing.T) {
	dir := t.TempDir()
	ffmpeg := filepath.Join(dir, executableName("ffmpeg"))
	writeStub(t, ffmpeg)

	if got := ResolveFFprobe(ffmpeg, "ffprobe"); got != "ffprobe" {
		t.Fatalf("expected bare ffprobe without sibling, got %q", got)
	}
	if got := ResolveFFprobe("ffmpeg", "ffprobe"); got != "ffprobe" {
		t.Fatalf("expected bare ffprobe for PATH ffmpeg, got %q", got)
	}
}

func TestRequirements(t *testing.T) {
	reqs := Requirements("ffmpeg", "ffprobe")
	if len(reqs) != 2 || reqs[0].Name != "FFmpeg" || reqs[1].Name != "FFprobe" {
		t.Fatalf("unexpected requirements: %#v", reqs)
	}
	for _, req := range reqs {
		if req.Purpose == "" {
			t.Fatalf("%s has no purpose", req.Name)
		}
	}
}
