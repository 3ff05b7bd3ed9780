package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"slidecast/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check the data directory and external tools",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := isTerminal(out)

			lines := renderSectionHeader("Environment", colorize)
			lines = append(lines, renderStatusLine("Config", statusInfo, ctx.configPath, colorize))
			results := preflight.RunAll(cmd.Context(), cfg)
			lines = append(lines, checkLines(results, colorize)...)
			fmt.Fprintln(out, strings.Join(lines, "\n"))

			if failed := preflight.Failed(results); len(failed) > 0 {
				return fmt.Errorf("%d check(s) failed", len(failed))
			}
			return nil
		},
	}
}
