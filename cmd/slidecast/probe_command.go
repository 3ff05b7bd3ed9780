package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"slidecast/internal/timeline"
)

func newProbeCommand(ctx *commandContext) *cobra.Command {
	probeCmd := &cobra.Command{
		Use:   "probe",
		Short: "Inspect asset files with ffprobe",
	}

	probeCmd.AddCommand(&cobra.Command{
		Use:   "duration <file>",
		Short: "Print the duration in seconds",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := ctx.logger(cmd)
			if err != nil {
				return err
			}
			seconds, err := ctx.prober(logger).Duration(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), timeline.Round3(seconds))
			return nil
		},
	})

	probeCmd.AddCommand(&cobra.Command{
		Use:   "size <file>",
		Short: "Print the frame size of the first video stream",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := ctx.logger(cmd)
			if err != nil {
				return err
			}
			width, height, err := ctx.prober(logger).FrameSize(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%dx%d\n", width, height)
			return nil
		},
	})

	var raw bool
	inspectCmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Summarize container and streams",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := ctx.logger(cmd)
			if err != nil {
				return err
			}
			result, err := ctx.prober(logger).Inspect(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if raw {
				_, err := out.Write(result.RawJSON())
				return err
			}
			fmt.Fprintf(out, "Format:   %s\n", result.Format.FormatName)
			if secs, ok := result.Seconds(); ok {
				fmt.Fprintf(out, "Duration: %.3fs\n", secs)
			} else {
				fmt.Fprintln(out, "Duration: unknown")
			}
			fmt.Fprintf(out, "Size:     %s\n", humanize.IBytes(result.Bytes()))
			fmt.Fprintf(out, "Bitrate:  %s\n", humanize.SI(float64(result.BitsPerSecond()), "b/s"))
			if v, ok := result.Video(); ok {
				fmt.Fprintf(out, "Video:    %s %dx%d\n", v.CodecName, v.Width, v.Height)
			}
			fmt.Fprintf(out, "Audio:    %s\n", yesNo(result.HasAudio()))
			return nil
		},
	}
	inspectCmd.Flags().BoolVar(&raw, "raw", false, "Print the raw ffprobe JSON")
	probeCmd.AddCommand(inspectCmd)

	return probeCmd
}
