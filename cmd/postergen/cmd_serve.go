package main

import (
	"postergen/internal/logging"
	"postergen/internal/server"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var listenAddr string

// serveCmd runs the HTTP API
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the poster API over HTTP",
	Long: `Starts the JSON HTTP API for one poster session: form editing, uploads,
extraction, background templates, generation and history downloads.

Example:
  postergen serve --listen 127.0.0.1:8080`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&listenAddr, "listen", "l", "", "Listen address (overrides server.listen)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext()
	defer stop()

	sess, err := newSession(ctx)
	if err != nil {
		return err
	}

	addr := cfg.Server.Listen
	if listenAddr != "" {
		addr = listenAddr
	}

	srv := server.New(sess, server.Options{
		Mode:           cfg.Server.Mode,
		MaxUploadBytes: cfg.Server.MaxUploadBytes(),
		Logger:         logger.Named("http"),
		Usage:          tracker,
	})

	logger.Info("Starting server",
		zap.String("addr", addr),
		zap.String("poster_model", cfg.Gemini.PosterModel))
	logging.Boot("serving on %s", addr)

	return srv.ListenAndServe(ctx, addr, cfg.Server.GetReadHeaderTimeout(), cfg.Server.GetShutdownTimeout())
}
