package ffprobe

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"slidecast/internal/services"
)

func TestResultAccessors(t *testing.T) {
	tests := []struct {
		name      string
		result    Result
		wantVideo bool
		wantAudio bool
		wantSecs  float64
		wantOK    bool
		wantBytes uint64
		wantRate  uint64
	}{
		{
			name: "recording",
			result: Result{
				Streams: []Stream{{CodecType: "video", Width: 1920}, {CodecType: "audio"}},
				Format:  Format{Duration: "123.45", Size: "1000", BitRate: "32000"},
			},
			wantVideo: true, wantAudio: true, wantSecs: 123.45, wantOK: true, wantBytes: 1000, wantRate: 32000,
		},
		{
			name:      "silent still",
			result:    Result{Streams: []Stream{{CodecType: "video"}}, Format: Format{Duration: "N/A", Size: "-1", BitRate: "nope"}},
			wantVideo: true,
		},
		{
			name:      "audio only",
			result:    Result{Streams: []Stream{{CodecType: "audio"}}, Format: Format{Duration: "4"}},
			wantAudio: true, wantSecs: 4, wantOK: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := tt.result.Video(); ok != tt.wantVideo {
				t.Fatalf("Video ok = %v, want %v", ok, tt.wantVideo)
			}
			if got := tt.result.HasAudio(); got != tt.wantAudio {
				t.Fatalf("HasAudio = %v, want %v", got, tt.wantAudio)
			}
			secs, ok := tt.result.Seconds()
			if ok != tt.wantOK || secs != tt.wantSecs {
				t.Fatalf("Seconds = %v,%v want %v,%v", secs, ok, tt.wantSecs, tt.wantOK)
			}
			if got := tt.result.Bytes(); got != tt.wantBytes {
				t.Fatalf("Bytes = %d, want %d", got, tt.wantBytes)
			}
			if got := tt.result.BitsPerSecond(); got != tt.wantRate {
				t.Fatalf("BitsPerSecond = %d, want %d", got, tt.wantRate)
			}
		})
	}
}

// fakeCommand re-executes the test binary as a stand-in for ffprobe.
func fakeCommand(t *testing.T) {
	t.Helper()
	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		cs := append([]string{"-test.run=TestHelperProcess", "--", name}, args...)
		cmd := exec.CommandContext(ctx, os.Args[0], cs...)
		cmd.Env = append(os.Environ(), "GO_WANT_HELPER_PROCESS=1")
		return cmd
	}
	t.Cleanup(func() { commandContext = original })
}

// TestHelperProcess answers based on the probed path: paths containing
// "broken" fail, "nodur" reports N/A, everything else lasts 12.5 seconds.
func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	args := os.Args
	for len(args) > 0 && args[0] != "--" {
		args = args[1:]
	}
	if len(args) < 2 {
		os.Exit(2)
	}
	args = args[2:]
	path := args[len(args)-1]
	joined := strings.Join(args, " ")
	switch {
	case strings.Contains(path, "broken"):
		fmt.Fprintln(os.Stderr, "Invalid data found when processing input")
		os.Exit(1)
	case strings.Contains(path, "nodur"):
		fmt.Println("N/A")
	case strings.Contains(joined, "stream=width,height"):
		if strings.Contains(path, "audio") {
			fmt.Println(`{"streams":[]}`)
		} else {
			fmt.Println(`{"streams":[{"width":1280,"height":720}]}`)
		}
	case strings.Contains(joined, "-show_streams"):
		fmt.Println(`{"streams":[{"codec_type":"video"}],"format":{"duration":"3.5"}}`)
	default:
		fmt.Println("12.5")
	}
	os.Exit(0)
}

type recordingRemuxer struct {
	calls [][2]string
	err   error
}

func (r *recordingRemuxer) Remux(_ context.Context, src, dest string) error {
	r.calls = append(r.calls, [2]string{src, dest})
	return r.err
}

func TestDurationParsesOutput(t *testing.T) {
	fakeCommand(t)
	prober := NewProber("ffprobe")
	seconds, err := prober.Duration(context.Background(), "assets/clip.mp4")
	if err != nil {
		t.Fatalf("Duration returned error: %v", err)
	}
	if seconds != 12.5 {
		t.Fatalf("expected 12.5, got %v", seconds)
	}
}

func TestDurationRemuxesOnceOnFailure(t *testing.T) {
	fakeCommand(t)
	remux := &recordingRemuxer{}
	scratch := filepath.Join(t.TempDir(), "copy.webm")
	prober := NewProber("ffprobe", WithRemux(remux, func(ext string) string {
		if ext != "webm" {
			t.Fatalf("expected webm scratch extension, got %q", ext)
		}
		return scratch
	}))

	seconds, err := prober.Duration(context.Background(), "assets/nodur.webm")
	if err != nil {
		t.Fatalf("Duration returned error: %v", err)
	}
	if seconds != 12.5 {
		t.Fatalf("expected remuxed duration 12.5, got %v", seconds)
	}
	if len(remux.calls) != 1 || remux.calls[0] != [2]string{"assets/nodur.webm", scratch} {
		t.Fatalf("unexpected remux calls: %v", remux.calls)
	}
}

func TestDurationFailsAfterRetry(t *testing.T) {
	fakeCommand(t)
	remux := &recordingRemuxer{}
	scratch := filepath.Join(t.TempDir(), "broken-copy.webm")
	prober := NewProber("ffprobe", WithRemux(remux, func(string) string { return scratch }))

	_, err := prober.Duration(context.Background(), "assets/broken.webm")
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
	if len(remux.calls) != 1 {
		t.Fatalf("expected a single remux attempt, got %d", len(remux.calls))
	}
}

func TestDurationReportsRemuxFailure(t *testing.T) {
	fakeCommand(t)
	remux := &recordingRemuxer{err: errors.New("remux failed")}
	prober := NewProber("ffprobe", WithRemux(remux, func(string) string { return filepath.Join(t.TempDir(), "x.webm") }))

	_, err := prober.Duration(context.Background(), "assets/broken.webm")
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
	if !strings.Contains(err.Error(), "failed to regenerate") {
		t.Fatalf("expected regenerate detail, got %v", err)
	}
}

func TestDurationWithoutRemuxer(t *testing.T) {
	fakeCommand(t)
	_, err := NewProber("ffprobe").Duration(context.Background(), "assets/broken.webm")
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
	if !strings.Contains(err.Error(), "Invalid data") {
		t.Fatalf("expected stderr in error, got %v", err)
	}
}

func TestFrameSize(t *testing.T) {
	fakeCommand(t)
	prober := NewProber("ffprobe")
	width, height, err := prober.FrameSize(context.Background(), "assets/record.webm")
	if err != nil {
		t.Fatalf("FrameSize returned error: %v", err)
	}
	if width != 1280 || height != 720 {
		t.Fatalf("unexpected frame size %dx%d", width, height)
	}
	if _, _, err := prober.FrameSize(context.Background(), "assets/audio.m4a"); !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected missing video stream error, got %v", err)
	}
}

func TestInspect(t *testing.T) {
	fakeCommand(t)
	result, err := NewProber("ffprobe").Inspect(context.Background(), "assets/clip.mp4")
	if err != nil {
		t.Fatalf("Inspect returned error: %v", err)
	}
	secs, _ := result.Seconds()
	if _, ok := result.Video(); !ok || secs != 3.5 {
		t.Fatalf("unexpected inspect result: %+v", result)
	}
	if len(result.RawJSON()) == 0 {
		t.Fatal("expected raw json to be retained")
	}
}
