package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	service "github.com/okian/contestboard/internal/app"
	"github.com/okian/contestboard/internal/domain/elo"
	"github.com/okian/contestboard/internal/domain/standings"
	"github.com/okian/contestboard/pkg/format"
)

// Output formats.
const (
	outputTable = "table"
	outputJSON  = "json"
	outputYAML  = "yaml"
)

// ErrUnknownOutput is returned for an unsupported --output value.
var ErrUnknownOutput = errors.New("unknown output format")

func checkOutput(output string) error {
	switch output {
	case outputTable, outputJSON, outputYAML:
		return nil
	default:
		return fmt.Errorf("%w: %q (want table, json or yaml)", ErrUnknownOutput, output)
	}
}

// render writes views in the chosen format.
func render(w io.Writer, views service.Views, output string) error {
	switch output {
	case outputTable:
		return renderTable(w, views)
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(views)
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(views); err != nil {
			return err
		}
		return enc.Close()
	default:
		return checkOutput(output)
	}
}

func renderTable(w io.Writer, views service.Views) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if len(views.InvalidIDs) > 0 {
		fmt.Fprintf(tw, "Ignored invalid contest ids: %s\n", strings.Join(views.InvalidIDs, ", "))
	}
	if len(views.Pending) > 0 {
		fmt.Fprintf(tw, "Fetching: %s\n", strings.Join(views.Pending, ", "))
	}

	for _, c := range views.Contests {
		title := c.Title
		if title == "" {
			title = "Contest " + c.ContestID
		}
		fmt.Fprintf(tw, "\n%s\t%s\n", title, c.URL)
		if c.Error != "" {
			fmt.Fprintf(tw, "  %s\n", c.Error)
			continue
		}
		fmt.Fprintln(tw, "#\tTEAM\tSTATUS\tCONTEST RANK\tSOLVED\tPENALTY\tMATCHED AS")
		for _, r := range c.Rows {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
				r.Rank, r.Team, r.Status.Label(), contestRank(r), solved(r), penalty(r), matchedAs(r))
		}
	}

	fmt.Fprintf(tw, "\nAggregate over %d contest(s)\n", len(views.Selected))
	fmt.Fprintln(tw, "#\tTEAM\tSOLVED\tPENALTY\tCONTESTS")
	for _, r := range views.Aggregate {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%d\n", r.Rank, r.DisplayName, r.Solved, format.Penalty(r.PenaltySeconds), r.Appearances)
	}

	fmt.Fprintf(tw, "\nElo ladder (%s)\n", views.EloMode)
	fmt.Fprintln(tw, "#\tTEAM\tRATING\tW\tL\tD\tCONTESTS")
	for _, r := range views.Elo {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%d\t%d\t%d\n",
			r.Rank, r.Name, format.Rating(r.Rating, elo.DefaultBaseRating), r.Wins, r.Losses, r.Draws, r.Contests)
	}
	return tw.Flush()
}

func contestRank(r standings.Row) string {
	if r.Status != standings.Found || r.ContestRank <= 0 {
		return "-"
	}
	return strconv.Itoa(r.ContestRank)
}

func solved(r standings.Row) string {
	if r.Status != standings.Found {
		return "-"
	}
	return strconv.Itoa(r.Solved)
}

func penalty(r standings.Row) string {
	if r.Status != standings.Found {
		return "-"
	}
	return format.Penalty(r.PenaltySeconds)
}

func matchedAs(r standings.Row) string {
	switch {
	case r.Suggestion != "":
		return fmt.Sprintf("did you mean %q?", r.Suggestion)
	case r.Alias != "" && r.Alias != r.Team:
		return r.Alias
	default:
		return ""
	}
}
