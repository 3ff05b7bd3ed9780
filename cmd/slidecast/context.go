package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"slidecast/internal/config"
	"slidecast/internal/deps"
	"slidecast/internal/ffmpeg"
	"slidecast/internal/logging"
	"slidecast/internal/media/ffprobe"
	"slidecast/internal/prodcache"
	"slidecast/internal/production"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error
}

func newCommandContext(configFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, path, _, err := config.Load(c.configFlagValue())
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = path
	})
	return c.config, c.configErr
}

func (c *commandContext) configFlagValue() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

// logger builds a logger writing to the command's stderr.
func (c *commandContext) logger(cmd *cobra.Command) (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	level := cfg.Logging.Level
	if c.logLevelFlag != nil && strings.TrimSpace(*c.logLevelFlag) != "" {
		level = *c.logLevelFlag
	}
	return logging.New(logging.Options{
		Level:  level,
		Format: cfg.Logging.Format,
		Writer: cmd.ErrOrStderr(),
	})
}

func (c *commandContext) runner(logger *slog.Logger) *ffmpeg.Runner {
	opts := []ffmpeg.Option{
		ffmpeg.WithLogger(logger),
		ffmpeg.WithTimeout(c.config.RenderTimeout()),
	}
	if renderExecutor != nil {
		opts = append(opts, ffmpeg.WithExecutor(renderExecutor))
	}
	return ffmpeg.NewRunner(c.config.FFmpegBinary(), opts...)
}

// prober returns an ffprobe wrapper whose remux retry writes its scratch
// copy to the system temp directory.
func (c *commandContext) prober(logger *slog.Logger) *ffprobe.Prober {
	scratch := func(ext string) string {
		return filepath.Join(os.TempDir(), "slidecast-"+uuid.NewString()+"."+ext)
	}
	return ffprobe.NewProber(
		deps.ResolveFFprobe(c.config.FFmpegBinary(), c.config.FFprobeBinary()),
		ffprobe.WithRemux(c.runner(logger), scratch),
		ffprobe.WithLogger(logger),
	)
}

// producer wires a Producer for capsuleID with progress reported to tracker.
func (c *commandContext) producer(logger *slog.Logger, capsuleID string, tracker *ffmpeg.Tracker) (*production.Producer, prodcache.Store, error) {
	store, err := prodcache.NewStore(c.config.Paths.DataDir, capsuleID)
	if err != nil {
		return nil, prodcache.Store{}, err
	}
	opts := []production.Option{
		production.WithLogger(logger),
		production.WithTracker(tracker),
	}
	if durationProber != nil {
		opts = append(opts, production.WithProber(durationProber))
	}
	return production.New(c.config, store, c.runner(logger), opts...), store, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
