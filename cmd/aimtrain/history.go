package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"aimtrain/internal/logging"
	"aimtrain/internal/record"
	"aimtrain/internal/store"
)

var (
	histDB     string
	histDSN    string
	histLimit  int
	histExport string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List stored runs",
	Long:  "history prints the most recent runs from the database with the coin balance, and can export them to Parquet.",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(histDB, histDSN)
		if err != nil {
			return err
		}
		defer st.Close()

		runs, err := st.Recent(histLimit)
		if err != nil {
			return err
		}
		balance, err := st.Balance()
		if err != nil {
			return err
		}
		if err := printRuns(cmd.OutOrStdout(), runs); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "coins: %d\n", balance)

		if histExport != "" {
			if err := store.ExportParquet(runs, histExport); err != nil {
				return err
			}
			logging.FromContext(cmd.Context()).Info("exported runs", "path", histExport, "runs", len(runs))
		}
		return nil
	},
}

func printRuns(out io.Writer, runs []record.Record) error {
	table := tablewriter.NewWriter(out)
	table.Header([]string{"When", "Mode", "Setting", "Score", "Rank", "Coins", "Acc", "ID"})

	var data [][]string
	for _, r := range runs {
		data = append(data, []string{
			r.Timestamp.Local().Format("2006-01-02 15:04"),
			string(r.Mode),
			r.Setting,
			strconv.Itoa(r.Breakdown.FinalScore),
			r.Rank,
			strconv.Itoa(r.Coins),
			fmt.Sprintf("%.1f%%", r.Metrics.OverallAccuracy*100),
			shortID(r.ID),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func init() {
	historyCmd.Flags().StringVar(&histDB, "db", "sqlite", "Database backend: sqlite or postgres")
	historyCmd.Flags().StringVar(&histDSN, "db-dsn", "", "Database DSN (sqlite default: aimtrain.db)")
	historyCmd.Flags().IntVar(&histLimit, "limit", record.DefaultCapacity, "Number of runs to list")
	historyCmd.Flags().StringVar(&histExport, "export", "", "Write the listed runs to this Parquet file")
}
