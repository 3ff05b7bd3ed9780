package ffprobe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"slidecast/internal/fileutil"
	"slidecast/internal/logging"
	"slidecast/internal/services"
)

var commandContext = exec.CommandContext

// Remuxer rewrites a media file without re-encoding.
type Remuxer interface {
	Remux(ctx context.Context, src, dest string) error
}

// Prober runs ffprobe queries.
type Prober struct {
	binary  string
	remux   Remuxer
	scratch func(ext string) string
	logger  *slog.Logger
}

// Option configures a Prober.
type Option func(*Prober)

// WithRemux enables the single remux retry of Duration. scratch returns a
// fresh path with the given extension for the remuxed copy.
func WithRemux(remux Remuxer, scratch func(ext string) string) Option {
	return func(p *Prober) {
		p.remux = remux
		p.scratch = scratch
	}
}

// WithLogger sets the logger used for retry diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Prober) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewProber constructs a Prober for the given ffprobe binary.
func NewProber(binary string, opts ...Option) *Prober {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffprobe"
	}
	p := &Prober{binary: binary, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Duration returns the playback length of path in seconds. A failed probe
// is retried once on a remuxed copy when a Remuxer is configured.
func (p *Prober) Duration(ctx context.Context, path string) (float64, error) {
	seconds, err := p.duration(ctx, path)
	if err == nil {
		return seconds, nil
	}
	if errors.Is(err, context.Canceled) || p.remux == nil || p.scratch == nil {
		return 0, services.Wrap(services.ErrExternalTool, "ffprobe", "duration", path, err)
	}

	logging.WarnWithContext(p.logger, "duration probe failed; remuxing asset", "probe_remux_retry",
		logging.String("path", path),
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "asset header may be incomplete"),
	)
	copyPath := p.scratch(strings.TrimPrefix(filepath.Ext(path), "."))
	defer func() { _ = fileutil.RemoveFiles(copyPath) }()
	if rerr := p.remux.Remux(ctx, path, copyPath); rerr != nil {
		return 0, services.Wrap(services.ErrExternalTool, "ffprobe", "duration",
			fmt.Sprintf("failed to regenerate %s", path), rerr)
	}
	seconds, err = p.duration(ctx, copyPath)
	if err != nil {
		return 0, services.Wrap(services.ErrExternalTool, "ffprobe", "duration",
			fmt.Sprintf("could not get the duration of %s", path), err)
	}
	return seconds, nil
}

func (p *Prober) duration(ctx context.Context, path string) (float64, error) {
	output, err := p.run(ctx, "-v", "error", "-show_entries", "format=duration",
		"-of", "compact=nokey=1:print_section=0", path)
	if err != nil {
		return 0, err
	}
	text := strings.TrimSpace(string(output))
	seconds, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(seconds) || seconds < 0 {
		return 0, fmt.Errorf("unexpected duration %q", text)
	}
	return seconds, nil
}

// FrameSize returns the dimensions of the first video stream of path.
func (p *Prober) FrameSize(ctx context.Context, path string) (int, int, error) {
	output, err := p.run(ctx, "-v", "error", "-select_streams", "v:0",
		"-show_entries", "stream=width,height", "-of", "json", path)
	if err != nil {
		return 0, 0, services.Wrap(services.ErrExternalTool, "ffprobe", "frame size", path, err)
	}
	var payload struct {
		Streams []struct {
			Width  int `json:"width"`
			Height int `json:"height"`
		} `json:"streams"`
	}
	if err := json.Unmarshal(output, &payload); err != nil {
		return 0, 0, services.Wrap(services.ErrExternalTool, "ffprobe", "frame size", "parse output", err)
	}
	if len(payload.Streams) == 0 {
		return 0, 0, services.Wrap(services.ErrExternalTool, "ffprobe", "frame size",
			fmt.Sprintf("%s has no video stream", path), nil)
	}
	return payload.Streams[0].Width, payload.Streams[0].Height, nil
}

func (p *Prober) run(ctx context.Context, args ...string) ([]byte, error) {
	cmd := commandContext(ctx, p.binary, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	output, err := cmd.Output()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if detail := strings.TrimSpace(stderr.String()); detail != "" {
			return nil, fmt.Errorf("%w: %s", err, detail)
		}
		return nil, err
	}
	return output, nil
}
