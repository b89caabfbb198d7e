package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"aimtrain/internal/admin"
	"aimtrain/internal/config"
	"aimtrain/internal/logging"
	"aimtrain/internal/record"
	"aimtrain/internal/scoring"
	"aimtrain/internal/sim"
)

var (
	serveAddr     string
	serveDB       string
	serveDSN      string
	serveBotEvery time.Duration
	serveBotMode  string
	serveBotSet   string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve run history and the live feed",
	Long:  "serve starts the HTTP API (runs, heatmaps, scoring) with a websocket feed of completed runs. With --bot-every it keeps the simulated player running.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		log := logging.FromContext(ctx)
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		hub := admin.NewHub(16)
		history := record.NewHistory(cfg.History.Capacity)
		w, err := newWriters(writerOptions{
			Quiet:      true,
			DBBackend:  serveDB,
			DBDSN:      serveDSN,
			History:    history,
			ExtraSinks: []sim.RecordWriter{hub},
		})
		if err != nil {
			return err
		}
		defer w.Close()

		var source admin.RunSource = admin.HistorySource{History: history}
		if w.Store != nil {
			source = w.Store
		}
		srv := admin.NewServer(source, hub, log)

		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error { return srv.Start(ctx, serveAddr) })
		if serveBotEvery > 0 {
			mode, err := scoring.ParseMode(serveBotMode)
			if err != nil {
				return err
			}
			g.Go(func() error { return botLoop(ctx, cfg, mode, serveBotSet, w, serveBotEvery) })
		}
		return g.Wait()
	},
}

// botLoop plays back-to-back bot runs until ctx is done.
func botLoop(ctx context.Context, cfg *config.Config, mode scoring.Mode, setting string, w *writers, every time.Duration) error {
	log := logging.FromContext(ctx)
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := runChallenge(ctx, cfg, mode, setting, 0, w, true); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				log.Warn("bot run failed", "err", err)
			}
		}
	}
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "Listen address")
	serveCmd.Flags().StringVar(&serveDB, "db", "", "Persist and list runs from a database: sqlite or postgres")
	serveCmd.Flags().StringVar(&serveDSN, "db-dsn", "", "Database DSN (sqlite default: aimtrain.db)")
	serveCmd.Flags().DurationVar(&serveBotEvery, "bot-every", 0, "Play a bot run at this interval (0 disables)")
	serveCmd.Flags().StringVar(&serveBotMode, "bot-mode", "speed", "Mode for bot runs")
	serveCmd.Flags().StringVar(&serveBotSet, "bot-setting", "30", "Preset for bot runs")
}
