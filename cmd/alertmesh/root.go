package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/hupe1980/alertmesh"
	"github.com/hupe1980/alertmesh/config"
	"github.com/hupe1980/alertmesh/logging"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "alertmesh",
		Short:         "Alert investigation agent",
		Long:          "alertmesh turns an alert into a fixed plan of simulated infrastructure\nqueries, runs them and returns an investigation report.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
	}

	pf := root.PersistentFlags()
	pf.String("config", "", "config file (default ./alertmesh.yaml when present)")
	pf.String("log-level", "info", "log level: debug, info, warn, error")
	pf.String("log-format", "json", "log format: json or text")
	pf.String("memory", config.MemoryInMemory, "memory backend: inmemory or redis")
	pf.String("redis-addr", "localhost:6379", "redis address for the redis memory backend")
	pf.String("summarizer", config.ProviderRule, "summarizer: rule, openai or anthropic")

	root.AddCommand(newServeCmd(), newInvestigateCmd(), newToolsCmd())

	return root
}

// loadMesh builds an AlertMesh from the config file, environment and flags
// of cmd. Logs go to logOut so command output stays machine readable.
func loadMesh(cmd *cobra.Command, logOut io.Writer) (*alertmesh.AlertMesh, error) {
	path, _ := cmd.Flags().GetString("config")

	cfg, err := config.Load(path, cmd.Flags())
	if err != nil {
		return nil, err
	}

	logger := logging.NewLogger(cfg.LoggerConfig(logOut))

	return alertmesh.New(func(o *alertmesh.Options) {
		o.Config = cfg
		o.Logger = logger
	})
}
