package main

import (
	"encoding/json"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"slidecast/internal/ffmpeg"
	"slidecast/internal/prodcache"
	"slidecast/internal/production"
)

func newPlanCommand(ctx *commandContext) *cobra.Command {
	var structurePath string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "plan <capsule-id>",
		Short: "Show which segments a build would render",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			capsule, err := readStructure(cmd, structurePath)
			if err != nil {
				return err
			}
			logger, err := ctx.logger(cmd)
			if err != nil {
				return err
			}
			producer, _, err := ctx.producer(logger, args[0], ffmpeg.NewTracker(nil))
			if err != nil {
				return err
			}
			plans, err := producer.Plan(cmd.Context(), *capsule)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(plans)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderPlan(plans))
			return nil
		},
	}
	cmd.Flags().StringVarP(&structurePath, "structure", "s", "-", "Structure document to read (- for stdin)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the plan as JSON")
	return cmd
}

// renderPlan lays out one row per segment. Numeric columns are right
// aligned; a missing output shows as "-".
func renderPlan(plans []production.SegmentPlan) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"#", "Slides", "Sentences", "Recorded", "Duration", "Action", "Output"})

	var cached int
	for _, p := range plans {
		output := "-"
		if p.Present {
			output = humanize.IBytes(uint64(p.Size))
		}
		action := "render"
		if p.Outcome == prodcache.Hit {
			action = "cached"
			cached++
		}
		tw.AppendRow(table.Row{p.Index, p.Slides, p.Sentences, yesNo(p.Recorded), fmt.Sprintf("%.3fs", p.Duration), action, output})
	}
	tw.AppendFooter(table.Row{"", "", "", "", "", fmt.Sprintf("%d/%d reusable", cached, len(plans)), ""})

	right := []int{1, 2, 3, 5, 7}
	configs := make([]table.ColumnConfig, 0, len(right))
	for _, n := range right {
		configs = append(configs, table.ColumnConfig{Number: n, Align: text.AlignRight, AlignHeader: text.AlignLeft})
	}
	tw.SetColumnConfigs(configs)
	return tw.Render()
}
