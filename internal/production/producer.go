package production

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"slidecast/internal/compose"
	"slidecast/internal/config"
	"slidecast/internal/deps"
	"slidecast/internal/ffmpeg"
	"slidecast/internal/logging"
	"slidecast/internal/media/ffprobe"
	"slidecast/internal/prodcache"
	"slidecast/internal/services"
	"slidecast/internal/structure"
	"slidecast/internal/timeline"
)

// Outcome tells whether a Result was rendered or served from the cache.
type Outcome string

const (
	Built Outcome = "built"
	Hit   Outcome = "hit"
)

// Result describes one produced file.
type Result struct {
	Outcome Outcome
	Path    string
	Hash    string
}

// Producer renders the segments and the final file of one capsule.
type Producer struct {
	cfg     *config.Config
	store   prodcache.Store
	runner  *ffmpeg.Runner
	prober  timeline.DurationProber
	tracker *ffmpeg.Tracker
	logger  *slog.Logger
}

// Option configures a Producer.
type Option func(*Producer)

// WithTracker sets the progress tracker shared by every job of a build.
func WithTracker(tracker *ffmpeg.Tracker) Option {
	return func(p *Producer) {
		if tracker != nil {
			p.tracker = tracker
		}
	}
}

// WithProber replaces the ffprobe-backed duration prober.
func WithProber(prober timeline.DurationProber) Option {
	return func(p *Producer) {
		if prober != nil {
			p.prober = prober
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Producer) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// New constructs a Producer for the capsule laid out by store.
func New(cfg *config.Config, store prodcache.Store, runner *ffmpeg.Runner, opts ...Option) *Producer {
	p := &Producer{
		cfg:     cfg,
		store:   store,
		runner:  runner,
		tracker: ffmpeg.NewTracker(nil),
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = logging.NewComponentLogger(p.logger, "production")
	if p.prober == nil {
		p.prober = ffprobe.NewProber(deps.ResolveFFprobe(cfg.FFmpegBinary(), cfg.FFprobeBinary()),
			ffprobe.WithRemux(runner, store.ScratchPath),
			ffprobe.WithLogger(p.logger),
		)
	}
	p.prober = newMemoProber(p.prober)
	return p
}

// Tracker returns the progress tracker of the producer.
func (p *Producer) Tracker() *ffmpeg.Tracker { return p.tracker }

func (p *Producer) resolver() timeline.Resolver {
	return timeline.Resolver{
		DefaultSlideDuration: p.cfg.Render.DefaultSlideDuration,
		Prober:               p.prober,
		ExtraPath: func(slide structure.Slide) string {
			if slide.Extra == nil {
				return ""
			}
			return p.store.Extra(*slide.Extra)
		},
	}
}

func (p *Producer) composer(frames compose.FrameExtractor) compose.Composer {
	return compose.Composer{
		Settings: compose.SettingsFromConfig(p.cfg),
		Assets:   p.store,
		Timeline: p.resolver(),
		Frames:   frames,
	}
}

func (p *Producer) frames(seconds float64) float64 {
	return float64(p.cfg.Render.FrameRate) * seconds
}

// begin prepares the capsule directory and takes the production lock when
// enabled. The returned release func is never nil.
func (p *Producer) begin(ctx context.Context) (context.Context, func(), error) {
	ctx = services.WithCapsuleID(ctx, filepath.Base(p.store.Root()))
	if err := p.store.EnsureDirectories(); err != nil {
		return ctx, func() {}, fmt.Errorf("prepare capsule directory: %w", err)
	}
	if !p.cfg.Cache.Lock {
		return ctx, func() {}, nil
	}
	lock, err := p.store.Lock()
	if err != nil {
		return ctx, func() {}, err
	}
	return ctx, func() {
		if err := lock.Release(); err != nil {
			logging.WarnWithContext(logging.WithContext(ctx, p.logger), "release production lock failed", "lock_release_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "remove tmp/.lock if no build is running"),
			)
		}
	}, nil
}

// ProduceSegment renders segment index of capsule unless its stored hash
// is current. On success the segment's produced hash is updated in place.
// Progress covers the one segment and ends at 1.00.
func (p *Producer) ProduceSegment(ctx context.Context, capsule *structure.Capsule, index int) (Result, error) {
	if index < 0 || index >= len(capsule.Structure) {
		return Result{}, services.Wrap(services.ErrValidation, "production", "segment",
			fmt.Sprintf("segment index %d out of range [0, %d)", index, len(capsule.Structure)), nil)
	}
	ctx, release, err := p.begin(ctx)
	defer release()
	if err != nil {
		return Result{}, err
	}

	duration, err := p.resolver().SegmentDuration(ctx, capsule.Structure[index])
	if err != nil {
		return Result{}, err
	}
	p.tracker.SetTotal(p.frames(duration))

	result, err := p.produceSegment(ctx, &capsule.Structure[index], index)
	if err != nil {
		return Result{}, err
	}
	p.tracker.Finish()
	return result, nil
}

// ProduceCapsule renders every stale segment in document order, then joins
// all segments with the soundtrack into the capsule file. Segment hashes
// and the capsule hash are written back into capsule.
func (p *Producer) ProduceCapsule(ctx context.Context, capsule *structure.Capsule) (Result, error) {
	ctx, release, err := p.begin(ctx)
	defer release()
	if err != nil {
		return Result{}, err
	}
	logger := logging.WithContext(ctx, p.logger)

	key, err := prodcache.CapsuleKey(*capsule)
	if err != nil {
		return Result{}, err
	}
	output := p.store.CapsuleOutput()
	if p.current(prodcache.Decide(capsule.ProducedHash, key), output) {
		logger.Info("capsule up to date",
			logging.String(logging.FieldEventType, "capsule_cache_hit"),
			logging.String("output", output),
		)
		p.tracker.Finish()
		return Result{Outcome: Hit, Path: output, Hash: key}, nil
	}

	total, err := p.buildTotal(ctx, *capsule)
	if err != nil {
		return Result{}, err
	}
	p.tracker.SetTotal(total)

	started := time.Now()
	segments := make([]string, 0, len(capsule.Structure))
	for i := range capsule.Structure {
		result, err := p.produceSegment(ctx, &capsule.Structure[i], i)
		if err != nil {
			return Result{}, fmt.Errorf("segment %d: %w", i, err)
		}
		segments = append(segments, result.Path)
	}

	stageCtx := services.WithStage(ctx, "capsule")
	job, err := p.composer(nil).Capsule(stageCtx, *capsule, segments, output)
	if err != nil {
		return Result{}, err
	}
	if err := p.runner.Render(stageCtx, job, p.store.ScratchPath("mp4"), p.tracker); err != nil {
		return Result{}, err
	}

	key, err = prodcache.CapsuleKey(*capsule)
	if err != nil {
		return Result{}, err
	}
	capsule.ProducedHash = &key
	p.tracker.Finish()
	logger.Info("capsule produced",
		logging.String(logging.FieldEventType, "capsule_produced"),
		logging.String("output", output),
		logging.Int("segments", len(segments)),
		logging.Duration("elapsed", time.Since(started)),
	)
	return Result{Outcome: Built, Path: output, Hash: key}, nil
}

// buildTotal is the number of frames a capsule build is expected to render:
// the capsule itself plus every segment that is not served from the cache.
func (p *Producer) buildTotal(ctx context.Context, capsule structure.Capsule) (float64, error) {
	res := p.resolver()
	capsuleDuration, err := res.CapsuleDuration(ctx, capsule)
	if err != nil {
		return 0, err
	}
	total := p.frames(capsuleDuration)
	for _, seg := range capsule.Structure {
		decision, err := p.decideSegment(seg)
		if err != nil {
			return 0, err
		}
		if p.current(decision, p.store.SegmentOutput(decision.Key)) {
			continue
		}
		duration, err := res.SegmentDuration(ctx, seg)
		if err != nil {
			return 0, err
		}
		total += p.frames(duration)
	}
	return total, nil
}

func (p *Producer) decideSegment(seg structure.Segment) (prodcache.Decision, error) {
	key, err := prodcache.SegmentKey(seg)
	if err != nil {
		return prodcache.Decision{}, err
	}
	return prodcache.Decide(seg.ProducedHash, key), nil
}

// current reports whether a cache decision can be served: the hash matches
// and the file it names is still on disk.
func (p *Producer) current(decision prodcache.Decision, output string) bool {
	if decision.Outcome != prodcache.Hit {
		return false
	}
	_, ok := p.store.OutputInfo(output)
	return ok
}

func (p *Producer) produceSegment(ctx context.Context, seg *structure.Segment, index int) (Result, error) {
	ctx = services.WithSegment(ctx, index)
	logger := logging.WithContext(ctx, p.logger)

	decision, err := p.decideSegment(*seg)
	if err != nil {
		return Result{}, err
	}
	output := p.store.SegmentOutput(decision.Key)
	if p.current(decision, output) {
		logger.Debug("segment up to date",
			logging.String(logging.FieldEventType, "segment_cache_hit"),
			logging.String("output", output),
		)
		p.tracker.Skip()
		return Result{Outcome: Hit, Path: output, Hash: decision.Key}, nil
	}
	if decision.Outcome == prodcache.Hit {
		logging.WarnWithContext(logger, "cached segment output missing; rebuilding", "segment_output_missing",
			logging.String("output", output),
			logging.String(logging.FieldErrorHint, "produced files were removed outside slidecast"),
		)
	}

	frames := &scratchFrames{store: p.store, runner: p.runner}
	job, err := p.composer(frames).Segment(ctx, *seg, output)
	if err != nil {
		if cerr := frames.discard(); cerr != nil {
			logging.WarnWithContext(logger, "scratch cleanup failed", "scratch_cleanup_failed", logging.Error(cerr))
		}
		return Result{}, err
	}
	if err := p.runner.Render(ctx, job, p.store.ScratchPath("mp4"), p.tracker); err != nil {
		return Result{}, err
	}

	previous := seg.ProducedHash
	key := decision.Key
	seg.ProducedHash = &key
	if p.cfg.Cache.PruneSuperseded {
		removed, err := p.store.Prune(previous, key)
		if err != nil {
			logging.WarnWithContext(logger, "prune superseded segment failed", "segment_prune_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check permissions of the produced directory"),
			)
		} else if removed {
			logger.Debug("superseded segment removed", logging.ShortHash("hash", *previous))
		}
	}
	logger.Info("segment produced",
		logging.String(logging.FieldEventType, "segment_produced"),
		logging.String("output", output),
		logging.Int("slides", len(seg.Slides)),
		logging.Bool("recorded", seg.Record != nil),
	)
	return Result{Outcome: Built, Path: output, Hash: key}, nil
}
