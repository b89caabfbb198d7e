package main

import (
	"github.com/spf13/cobra"

	"aimtrain/internal/dashboard"
	"aimtrain/internal/logging"
	"aimtrain/internal/sim"
)

var (
	dashOut   string
	dashTitle string
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Render Grafana dashboards for runs stored in GreptimeDB",
	Long:  "dashboard renders the bundled Grafana dashboard templates. GREPTIMEDB_DATASOURCE_UID must name the Grafana datasource.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := dashboard.Render(dashOut, dashboard.Params{Title: dashTitle, RunTable: sim.RunTable}); err != nil {
			return err
		}
		logging.FromContext(cmd.Context()).Info("dashboards rendered", "dir", dashOut)
		return nil
	},
}

func init() {
	dashboardCmd.Flags().StringVar(&dashOut, "out", "build", "Output directory")
	dashboardCmd.Flags().StringVar(&dashTitle, "title", "Aim trainer runs", "Dashboard title")
}
