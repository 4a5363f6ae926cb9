package main

import (
	"encoding/json"
	"errors"

	"github.com/spf13/cobra"

	"github.com/hupe1980/alertmesh/core"
)

func newInvestigateCmd() *cobra.Command {
	var (
		alert      core.Alert
		summarize  bool
		compactOut bool
	)

	cmd := &cobra.Command{
		Use:   "investigate",
		Short: "Run one investigation and print the report as JSON",
		Example: `  alertmesh investigate --type high_memory --service web-app
  alertmesh investigate --type high_cpu --service payment-api --summarize`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if alert.Type == "" || alert.Service == "" {
				return errors.New("--type and --service are required")
			}

			mesh, err := loadMesh(cmd, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer mesh.Close()

			var out any

			if summarize {
				report, summary, err := mesh.Summarize(contextOf(cmd), alert)
				if err != nil {
					return err
				}

				out = map[string]any{"report": report, "summary": summary}
			} else {
				report, err := mesh.Investigate(contextOf(cmd), alert)
				if err != nil {
					return err
				}

				out = report
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			if !compactOut {
				enc.SetIndent("", "  ")
			}

			return enc.Encode(out)
		},
	}

	cmd.Flags().StringVar(&alert.Type, "type", "", "alert type, e.g. high_cpu, high_memory, high_latency")
	cmd.Flags().StringVar(&alert.Service, "service", "", "affected service")
	cmd.Flags().BoolVar(&summarize, "summarize", false, "also summarize the investigation")
	cmd.Flags().BoolVar(&compactOut, "compact", false, "print compact JSON")

	return cmd
}
