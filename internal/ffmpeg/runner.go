package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"slidecast/internal/fileutil"
	"slidecast/internal/filtergraph"
	"slidecast/internal/logging"
	"slidecast/internal/services"
)

var globalArgs = []string{"-loglevel", "error", "-progress", "-", "-nostats", "-y"}

var framePattern = regexp.MustCompile(`frame=(\d+)`)

// Runner invokes ffmpeg.
type Runner struct {
	binary  string
	exec    Executor
	logger  *slog.Logger
	timeout time.Duration
}

// Option configures a Runner.
type Option func(*Runner)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(r *Runner) {
		if exec != nil {
			r.exec = exec
		}
	}
}

// WithLogger sets the logger used for job diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithTimeout bounds every ffmpeg invocation. Zero disables the limit.
func WithTimeout(timeout time.Duration) Option {
	return func(r *Runner) {
		if timeout > 0 {
			r.timeout = timeout
		}
	}
}

// NewRunner constructs a Runner for the given ffmpeg binary.
func NewRunner(binary string, opts ...Option) *Runner {
	if strings.TrimSpace(binary) == "" {
		binary = "ffmpeg"
	}
	r := &Runner{binary: binary, exec: commandExecutor{}, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Binary returns the ffmpeg executable name.
func (r *Runner) Binary() string { return r.binary }

// Render runs job, writing first to staging and moving the result onto
// job.Output on success. Progress is fed to tracker. Scratch files of the
// job and the staging file are removed whatever the outcome.
func (r *Runner) Render(ctx context.Context, job filtergraph.Job, staging string, tracker *Tracker) error {
	final := job.Output
	if staging != "" {
		job.Output = staging
	}
	scratch := job.Graph.Scratch()
	defer func() {
		leftovers := scratch
		if staging != "" {
			leftovers = append(leftovers, staging)
		}
		if err := fileutil.RemoveFiles(leftovers...); err != nil {
			logging.WarnWithContext(r.logger, "scratch cleanup failed", "scratch_cleanup_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "remove stale files from the capsule tmp directory"),
			)
		}
	}()

	if err := job.Validate(); err != nil {
		return services.Wrap(services.ErrUnsupportedConfiguration, "render", "validate job", "", err)
	}

	args := append(append([]string{}, globalArgs...), job.Args()...)
	r.logger.Debug("ffmpeg job",
		logging.String("output", final),
		logging.Int("inputs", len(job.Graph.Inputs())),
		logging.String("filter_complex", job.Graph.Program()),
	)

	var last int64
	onStdout := func(line string) {
		frame, ok := parseFrame(line)
		if !ok {
			return
		}
		last = frame
		if tracker != nil {
			tracker.Observe(frame)
		}
	}

	runCtx, cancel := r.context(ctx)
	defer cancel()
	started := time.Now()
	stderr, err := r.exec.Run(runCtx, r.binary, args, onStdout)
	if tracker != nil {
		tracker.Complete(last)
	}
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return services.Wrap(services.ErrExternalTool, "render", "ffmpeg",
			fmt.Sprintf("render %s failed: %s", final, diagnostic(stderr)), err)
	}

	if staging != "" {
		if err := fileutil.MoveFile(staging, final); err != nil {
			return fmt.Errorf("publish %s: %w", final, err)
		}
	}
	r.logger.Info("ffmpeg job completed",
		logging.String(logging.FieldEventType, "render_completed"),
		logging.String("output", final),
		logging.Int64("frames", last),
		logging.Duration("elapsed", time.Since(started)),
	)
	return nil
}

// ExtractFrame writes the frame of clip at seconds to dest.
func (r *Runner) ExtractFrame(ctx context.Context, clip string, seconds float64, dest string) error {
	args := []string{"-loglevel", "error", "-y",
		"-ss", filtergraph.FormatFloat(seconds), "-i", clip, "-vframes", "1", dest}
	return r.oneShot(ctx, "extract frame", clip, args)
}

// Remux copies the streams of src into dest without re-encoding.
func (r *Runner) Remux(ctx context.Context, src, dest string) error {
	args := []string{"-loglevel", "error", "-y", "-i", src, "-c", "copy", dest}
	return r.oneShot(ctx, "remux", src, args)
}

func (r *Runner) oneShot(ctx context.Context, operation, subject string, args []string) error {
	runCtx, cancel := r.context(ctx)
	defer cancel()
	stderr, err := r.exec.Run(runCtx, r.binary, args, nil)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return services.Wrap(services.ErrExternalTool, "ffmpeg", operation,
			fmt.Sprintf("%s: %s", subject, diagnostic(stderr)), err)
	}
	return nil
}

func (r *Runner) context(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout > 0 {
		return context.WithTimeout(ctx, r.timeout)
	}
	return context.WithCancel(ctx)
}

func parseFrame(line string) (int64, bool) {
	match := framePattern.FindStringSubmatch(line)
	if match == nil {
		return 0, false
	}
	frame, err := strconv.ParseInt(match[1], 10, 64)
	if err != nil {
		return 0, false
	}
	return frame, true
}

func diagnostic(stderr string) string {
	if stderr = strings.TrimSpace(stderr); stderr == "" {
		return "no diagnostic output"
	}
	return stderr
}
