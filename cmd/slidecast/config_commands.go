package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"slidecast/internal/config"
)

var skipConfigLoad = map[string]string{"skipConfigLoad": "true"}

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{Use: "config", Short: "Configuration utilities"}
	configCmd.AddCommand(newConfigInitCommand(), newConfigValidateCommand(ctx))
	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Write a sample configuration file",
		Annotations: skipConfigLoad,
		RunE: func(cmd *cobra.Command, _ []string) error {
			target, err := initTarget(targetPath)
			if err != nil {
				return err
			}
			if !overwrite {
				_, statErr := os.Stat(target)
				if statErr == nil {
					return fmt.Errorf("%s already exists (pass --overwrite to replace it)", target)
				}
				if !errors.Is(statErr, fs.ErrNotExist) {
					return fmt.Errorf("check config path: %w", statErr)
				}
			}
			if err := config.CreateSample(target); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Point paths.data_dir (or SLIDECAST_DATA_DIR) at the directory holding your capsules.")
			return nil
		},
	}
	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing file")
	return cmd
}

func initTarget(flagValue string) (string, error) {
	if p := strings.TrimSpace(flagValue); p != "" {
		return config.ExpandPath(p)
	}
	return config.DefaultConfigPath()
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "validate",
		Short:       "Load the configuration and print the effective settings",
		Annotations: skipConfigLoad,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, path, exists, err := config.Load(ctx.configFlagValue())
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return err
			}
			source := path
			if !exists {
				source = "defaults (" + path + " not found)"
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, settingsTable(source, cfg))
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}

func settingsTable(source string, cfg *config.Config) string {
	r := cfg.Render
	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)
	tw.AppendRows([]table.Row{
		{"config", source},
		{"data dir", cfg.Paths.DataDir},
		{"canvas", fmt.Sprintf("%dx%d @ %d fps", r.Width, r.Height, r.FrameRate)},
		{"video", r.VideoCodec + " " + r.PixelFormat},
		{"audio", fmt.Sprintf("%s %s %d Hz", r.AudioCodec, r.AudioBitrate, r.AudioRate)},
		{"ffmpeg", cfg.FFmpegBinary()},
		{"ffprobe", cfg.FFprobeBinary()},
		{"lock", yesNo(cfg.Cache.Lock)},
		{"prune superseded", yesNo(cfg.Cache.PruneSuperseded)},
	})
	return tw.Render()
}
