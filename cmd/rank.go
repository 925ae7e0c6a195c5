package main

import (
	"context"
	"io"
	"strings"

	"github.com/spf13/cobra"

	service "github.com/okian/contestboard/internal/app"
	"github.com/okian/contestboard/internal/domain/input"
	"github.com/okian/contestboard/pkg/logger"
)

// rankFlags mirror the session inputs.
type rankFlags struct {
	contests    string
	teams       string
	merge       string
	selected    string
	eloMode     string
	output      string
	includeLate bool
	auto        bool
}

func newRankCmd(c *cli) *cobra.Command {
	var f rankFlags
	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Fetch contests once and print the standings",
		Example: `  contestboard rank --contests "123456, 123457" --teams "Alpha, (Beta, Beta Prime)"
  contestboard rank --contests 123456 --auto --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkOutput(f.output); err != nil {
				return err
			}
			req := f.request(cmd, c.cfg.SessionDefaults())
			return c.rank(cmd.Context(), cmd.OutOrStdout(), req, f.output)
		},
	}
	fl := cmd.Flags()
	fl.StringVarP(&f.contests, "contests", "c", "", "comma separated contest ids")
	fl.StringVarP(&f.teams, "teams", "t", "", `team list; parenthesize aliases, e.g. "Alpha, (Beta, Beta Prime)"`)
	fl.StringVar(&f.merge, "merge", "", "alias groups to merge in auto mode")
	fl.StringVar(&f.selected, "select", "", "contest ids feeding the aggregate and Elo views (default all)")
	fl.StringVar(&f.eloMode, "elo-mode", "", "normal, gain-only or zero-participation")
	fl.StringVarP(&f.output, "output", "o", outputTable, "table, json or yaml")
	fl.BoolVar(&f.includeLate, "include-late", false, "count submissions after the contest end")
	fl.BoolVar(&f.auto, "auto", false, "discover teams from the ranklists")
	_ = cmd.MarkFlagRequired("contests")
	return cmd
}

// request layers explicitly set flags over the configured defaults.
func (f rankFlags) request(cmd *cobra.Command, req service.Request) service.Request {
	req.ContestIDs = f.contests
	req.Teams = f.teams
	req.Merge = f.merge
	req.Trigger = "cli"
	if cmd.Flags().Changed("elo-mode") {
		req.EloMode = f.eloMode
	}
	if cmd.Flags().Changed("include-late") {
		req.IncludeLate = f.includeLate
	}
	if cmd.Flags().Changed("auto") {
		req.AutoDiscover = f.auto
	}
	if strings.TrimSpace(f.selected) != "" {
		ids, _ := input.ParseContestIDs(f.selected)
		req.Selection = input.Selection{Mode: input.SelectCustom, Selected: ids}
	}
	return req
}

func (c *cli) rank(ctx context.Context, out io.Writer, req service.Request, output string) error {
	views, err := c.newSession().Compute(ctx, req)
	if err != nil {
		c.log.Error(ctx, "standings failed", logger.Error(err))
		return err
	}
	return render(out, views, output)
}
