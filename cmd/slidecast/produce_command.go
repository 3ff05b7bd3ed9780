package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"slidecast/internal/deps"
	"slidecast/internal/ffmpeg"
	"slidecast/internal/logging"
	"slidecast/internal/preflight"
	"slidecast/internal/production"
	"slidecast/internal/services"
	"slidecast/internal/structure"
)

type produceOptions struct {
	structurePath string
	structureOut  string
	bar           bool
}

func newProduceCommand(ctx *commandContext) *cobra.Command {
	produceCmd := &cobra.Command{
		Use:   "produce",
		Short: "Render a capsule or one of its segments",
	}
	produceCmd.AddCommand(newProduceCapsuleCommand(ctx))
	produceCmd.AddCommand(newProduceSegmentCommand(ctx))
	return produceCmd
}

func (o *produceOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.structurePath, "structure", "s", "-", "Structure document to read (- for stdin)")
	cmd.Flags().StringVar(&o.structureOut, "structure-out", "", "Write the document with refreshed produced hashes to this file")
	cmd.Flags().BoolVar(&o.bar, "bar", false, "Show a progress bar on stderr when it is a terminal")
}

func newProduceCapsuleCommand(ctx *commandContext) *cobra.Command {
	var opts produceOptions
	cmd := &cobra.Command{
		Use:   "capsule <capsule-id>",
		Short: "Render every stale segment and join them into the capsule video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProduce(cmd, ctx, args[0], opts, func(p *production.Producer, capsule *structure.Capsule) (production.Result, error) {
				return p.ProduceCapsule(runContext(cmd), capsule)
			})
		},
	}
	opts.bind(cmd)
	return cmd
}

func newProduceSegmentCommand(ctx *commandContext) *cobra.Command {
	var opts produceOptions
	var index int
	cmd := &cobra.Command{
		Use:   "segment <capsule-id>",
		Short: "Render a single segment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProduce(cmd, ctx, args[0], opts, func(p *production.Producer, capsule *structure.Capsule) (production.Result, error) {
				return p.ProduceSegment(runContext(cmd), capsule, index)
			})
		},
	}
	opts.bind(cmd)
	cmd.Flags().IntVarP(&index, "index", "i", 0, "Zero-based segment index")
	return cmd
}

func runProduce(cmd *cobra.Command, ctx *commandContext, capsuleID string, opts produceOptions,
	produce func(*production.Producer, *structure.Capsule) (production.Result, error)) error {
	capsule, err := readStructure(cmd, opts.structurePath)
	if err != nil {
		return err
	}

	logger, err := ctx.logger(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	trackerOpts := []ffmpeg.TrackerOption{ffmpeg.WithProgressLogger(logger)}
	if opts.bar && isTerminal(cmd.ErrOrStderr()) {
		bar := newProgressBar(cmd.ErrOrStderr())
		defer bar.Finish()
		trackerOpts = append(trackerOpts, ffmpeg.WithListener(func(v float64) {
			_ = bar.Set(int(v * 100))
		}))
	}
	tracker := ffmpeg.NewTracker(out, trackerOpts...)

	producer, store, err := ctx.producer(logger, capsuleID, tracker)
	if err != nil {
		return err
	}
	if renderExecutor == nil {
		if missing := deps.Missing(preflight.CheckSystemDeps(ctx.config)); len(missing) > 0 {
			return services.Wrap(services.ErrConfiguration, "preflight", "tools",
				fmt.Sprintf("unavailable: %s", strings.Join(missing, ", ")), nil)
		}
	}
	if err := preflight.CheckAssets(store, *capsule); err != nil {
		return err
	}

	result, err := produce(producer, capsule)
	if err != nil {
		return err
	}
	if opts.structureOut != "" {
		if err := writeStructure(opts.structureOut, *capsule); err != nil {
			return err
		}
	}
	logger.Debug("production finished",
		logging.String(logging.FieldEventType, "production_finished"),
		logging.String("outcome", string(result.Outcome)),
		logging.ShortHash("hash", result.Hash),
	)
	fmt.Fprintln(out, result.Path)
	return nil
}

// runContext tags the command context with a fresh correlation id so every
// log line of one invocation can be grouped.
func runContext(cmd *cobra.Command) context.Context {
	return services.WithRequestID(cmd.Context(), uuid.NewString())
}

func readStructure(cmd *cobra.Command, path string) (*structure.Capsule, error) {
	path = strings.TrimSpace(path)
	var r io.Reader = cmd.InOrStdin()
	if path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, services.Wrap(services.ErrValidation, "cli", "read structure", path, err)
		}
		defer f.Close()
		r = f
	}
	capsule, err := structure.Parse(r)
	if err != nil {
		return nil, err
	}
	return &capsule, nil
}

func writeStructure(path string, capsule structure.Capsule) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write structure: %w", err)
	}
	if err := capsule.Encode(f); err != nil {
		f.Close()
		return fmt.Errorf("write structure: %w", err)
	}
	return f.Close()
}

func newProgressBar(w io.Writer) *progressbar.ProgressBar {
	return progressbar.NewOptions(100,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("rendering"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionClearOnFinish(),
	)
}
