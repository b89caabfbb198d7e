package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"aimtrain/internal/config"
	"aimtrain/internal/logging"
	"aimtrain/internal/record"
	"aimtrain/internal/scoring"
	"aimtrain/internal/session"
	"aimtrain/internal/sim"
)

var (
	simMode      string
	simSetting   string
	simSeed      int64
	simFast      bool
	simJSON      bool
	simPrintOnly bool
	simLogFile   string
	simDB        string
	simDSN       string
	simTUI       bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Play one challenge with the simulated player",
	Long:  "simulate runs a single speed, accuracy or tracking challenge driven by the bot player and writes the scored run to the configured sinks.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		mode, err := scoring.ParseMode(simMode)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		opts := writerOptions{
			PrintOnly: simPrintOnly,
			JSON:      simJSON,
			LogFile:   simLogFile,
			DBBackend: simDB,
			DBDSN:     simDSN,
		}
		var tui *sim.TUIWriter
		if simTUI {
			tui = sim.NewTUIWriter()
			defer tui.Close()
			opts.Quiet = true
			opts.ExtraSinks = append(opts.ExtraSinks, tui)
			ctx = logging.NewContext(ctx, logging.NewWriter(io.Discard, slog.LevelError))
		}

		w, err := newWriters(opts)
		if err != nil {
			return err
		}
		defer w.Close()

		_, err = runChallenge(ctx, cfg, mode, simSetting, simSeed, w, simFast && tui == nil)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		if err != nil || tui == nil {
			return err
		}
		select {
		case <-tui.Done():
		case <-ctx.Done():
		}
		return nil
	},
}

// runChallenge plays one run of mode/setting with the bot and writes the
// result through writer. A zero seed picks one from the clock.
func runChallenge(ctx context.Context, cfg *config.Config, mode scoring.Mode, setting string, seed int64, writer sim.RecordWriter, fast bool) (record.Record, error) {
	log := logging.FromContext(ctx)
	settings, err := cfg.Settings(mode, setting)
	if err != nil {
		return record.Record{}, err
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	sess, err := session.New(settings, seed)
	if err != nil {
		return record.Record{}, err
	}
	runner := sim.NewRunner(sess, sim.NewBot(cfg.Bot, seed), writer, cfg.TickInterval())
	log.Debug("challenge ready", "mode", mode, "setting", setting, "seed", seed)

	var rec record.Record
	if fast {
		rec, err = runner.RunFast(ctx)
	} else {
		rec, err = runner.Run(ctx)
	}
	if err != nil {
		return record.Record{}, err
	}
	log.Info("challenge complete", "id", rec.ID, "final_score", rec.Breakdown.FinalScore, "rank", rec.Rank, "coins", rec.Coins)
	return rec, nil
}

func init() {
	simulateCmd.Flags().StringVar(&simMode, "mode", "speed", "Challenge mode: speed, accuracy, tracking")
	simulateCmd.Flags().StringVar(&simSetting, "setting", "30", "Preset name for the mode (e.g. 30, 60, 100, 30s)")
	simulateCmd.Flags().Int64Var(&simSeed, "seed", 0, "Random seed (0 picks one from the clock)")
	simulateCmd.Flags().BoolVar(&simFast, "fast", false, "Step the run without waiting on the wall clock")
	simulateCmd.Flags().BoolVar(&simJSON, "json", false, "Print the run as JSON even on a terminal")
	simulateCmd.Flags().BoolVar(&simPrintOnly, "print-only", false, "Skip GreptimeDB even when GREPTIMEDB_ENDPOINT is set")
	simulateCmd.Flags().StringVar(&simLogFile, "log-file", "", "Path to export run records (JSONL); inputs go to <path>.inputs")
	simulateCmd.Flags().StringVar(&simDB, "db", "", "Persist runs to a database: sqlite or postgres")
	simulateCmd.Flags().BoolVar(&simTUI, "tui", false, "Watch the run in a terminal UI")
	simulateCmd.Flags().StringVar(&simDSN, "db-dsn", "", "Database DSN (sqlite default: aimtrain.db)")
}
