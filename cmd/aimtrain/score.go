package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"aimtrain/internal/scoring"
)

var scoreCmd = &cobra.Command{
	Use:   "score [input.json]",
	Short: "Score run metrics",
	Long:  "score reads a JSON scoring input (mode, target_count, duration_seconds, elapsed_seconds, metrics) from a file or STDIN and prints the breakdown.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var r io.Reader = cmd.InOrStdin()
		if len(args) == 1 {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			r = f
		}
		in, err := readScoreInput(r)
		if err != nil {
			return err
		}
		return printBreakdown(cmd.OutOrStdout(), scoring.Compute(in))
	},
}

func readScoreInput(r io.Reader) (scoring.Input, error) {
	var in scoring.Input
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return in, fmt.Errorf("decode scoring input: %w", err)
	}
	mode, err := scoring.ParseMode(string(in.Mode))
	if err != nil {
		return in, err
	}
	in.Mode = mode
	return in, nil
}

func printBreakdown(out io.Writer, b scoring.Breakdown) error {
	table := tablewriter.NewWriter(out)
	table.Header([]string{"Component", "Points"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	data := [][]string{{"base", fmt.Sprintf("%d / %d", b.BaseScore, b.BaseMax)}}
	for _, x := range b.Bonuses {
		data = append(data, []string{x.Name, strconv.Itoa(x.Value)})
	}
	data = append(data,
		[]string{"final", strconv.Itoa(b.FinalScore)},
		[]string{"rank", scoring.Rank(b.FinalScore, b.BaseMax)},
		[]string{"coins", strconv.Itoa(scoring.Coins(b.FinalScore))},
	)
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}
