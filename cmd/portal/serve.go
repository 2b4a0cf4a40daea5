package main

import (
	"github.com/spf13/cobra"

	"github.com/drake/portal/mockapi"
)

func (c *cli) newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the mock projects endpoint",
		Long: `Serves the built-in project fixture on /api/projects and Prometheus
metrics on /metrics until interrupted.`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{logSinkAnnotation: "stderr"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return mockapi.New(c.logger).ListenAndServe(cmd.Context(), addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":3000", "listen address")
	return cmd
}
