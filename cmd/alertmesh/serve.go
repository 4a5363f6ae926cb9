package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long: `Starts the HTTP API (/health, /alerts, /investigate, /tools, /summarize,
/metrics). The server shuts down gracefully on SIGINT or SIGTERM.`,
		RunE: runServe,
	}

	cmd.Flags().String("addr", ":8080", "listen address")

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	mesh, err := loadMesh(cmd, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer mesh.Close()

	if mesh.Config().Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(contextOf(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return mesh.Serve(ctx)
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}

	return context.Background()
}
