package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/okian/contestboard/internal/adapters/judge"
	service "github.com/okian/contestboard/internal/app"
	"github.com/okian/contestboard/internal/config"
	"github.com/okian/contestboard/pkg/logger"
	"github.com/okian/contestboard/pkg/metrics"
)

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// cli carries state shared by the subcommands once the root has loaded
// configuration and logging.
type cli struct {
	cfg *config.Config
	log logger.Logger

	judgeURL string
	logLevel string
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:          "contestboard",
		Short:        "Standings, aggregate ranking and Elo ladder for VJudge contests",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.setup(cmd)
		},
	}
	root.PersistentFlags().StringVar(&c.judgeURL, "judge-url", "", "judge base URL (overrides judge_base_url)")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "log level (overrides log_level)")
	root.AddCommand(newServeCmd(c), newRankCmd(c), newWatchCmd(c))
	return root
}

// setup loads configuration (defaults -> optional file -> env -> flags) and
// initializes logging. Logs go to stderr so command output stays clean.
func (c *cli) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(cmd.Context())
	if err != nil {
		return err
	}
	if c.judgeURL != "" {
		cfg.JudgeBaseURL = c.judgeURL
	}
	if c.logLevel != "" {
		cfg.LogLevel = c.logLevel
	}

	if err := logger.Init(logger.WithFormat(cfg.LogFormat), logger.WithWriter(cmd.ErrOrStderr())); err != nil {
		return err
	}
	c.log = logger.Get().Named("cli")

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		c.log.Warn(cmd.Context(), "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	metrics.Init(cfg.MetricsOptions()...)
	c.cfg = cfg
	return nil
}

// newSession builds a session service wired to the configured judge.
func (c *cli) newSession() *service.Service {
	client := judge.NewClient(
		judge.WithBaseURL(c.cfg.JudgeBaseURL),
		judge.WithTimeout(c.cfg.FetchTimeout()),
		judge.WithRateLimit(c.cfg.FetchRatePerSec, c.cfg.FetchBurst),
	)
	return service.New(client,
		service.WithFetchConcurrency(c.cfg.FetchConcurrency),
		service.WithIncludeLate(c.cfg.IncludeLate),
	)
}
