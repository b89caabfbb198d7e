package main

import (
	"github.com/spf13/cobra"

	"aimtrain/internal/logging"
	"aimtrain/internal/sim"
)

var (
	replayInput     string
	replayJSON      bool
	replayPrintOnly bool
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay an input log",
	Long:  "replay re-runs a recorded input log through a fresh session and rescores it.",
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := newWriters(writerOptions{PrintOnly: replayPrintOnly, JSON: replayJSON})
		if err != nil {
			return err
		}
		defer w.Close()
		rec, err := sim.ReplayLogFile(replayInput, w)
		if err != nil {
			return err
		}
		logging.FromContext(cmd.Context()).Info("replay complete", "id", rec.ID, "final_score", rec.Breakdown.FinalScore)
		return nil
	},
}

func init() {
	replayCmd.Flags().StringVar(&replayInput, "input", "", "Path to an input log written by simulate --log-file")
	replayCmd.Flags().BoolVar(&replayJSON, "json", false, "Print the run as JSON even on a terminal")
	replayCmd.Flags().BoolVar(&replayPrintOnly, "print-only", false, "Skip GreptimeDB even when GREPTIMEDB_ENDPOINT is set")
	replayCmd.MarkFlagRequired("input")
}
