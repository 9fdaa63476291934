package main

import (
	"github.com/spf13/cobra"
)

var version = "dev"

var hostFlag string

var rootCmd = &cobra.Command{
	Use:   "restful",
	Short: "Class-based views on top of the foundation router",
	Long: `restful serves the demo views and resources.

Configuration comes from the environment (and a .env file):
HTTP_ADDR, LOG_LEVEL, LOG_FORMAT, APP_ENV, METRICS_ENABLED,
STATS_INTERVAL, DEMO_PAGE_LIMIT, DEMO_SECTIONS and REDIS_URL.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.SetVersionTemplate("restful version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&hostFlag, "host", "router",
		"Host router: router or chi")
}
