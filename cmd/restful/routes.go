package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/restful/core/logger"
	"github.com/dmitrymomot/restful/core/router"
)

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "Print the route table in match order",
	RunE:  runRoutes,
}

func init() {
	rootCmd.AddCommand(routesCmd)
}

func runRoutes(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	app, err := newApplication(cfg, logger.Nop(), hostFlag, nil)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "METHOD\tPATTERN\tNAME\tENVELOPE\tSCHEMA")
	for _, rt := range app.host.Routes() {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", rt.Method, rt.Pattern, dash(rt.Name), dash(rt.Envelope), schema(rt))
	}
	return tw.Flush()
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func schema(rt router.Route) string {
	if rt.Schema == nil {
		return "-"
	}
	return rt.Schema.String()
}
