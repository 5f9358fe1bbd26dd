package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/theirongolddev/payg/internal/model"
	"github.com/theirongolddev/payg/internal/server"

	"github.com/spf13/cobra"
)

var flagServeAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the catalog and cost comparison over HTTP",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagServeAddr, "addr", "", "HTTP listen address (default from config, 127.0.0.1:8787)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, cat, err := loadEnvironment()
	if err != nil {
		return err
	}

	addr := cfg.Server.Addr
	if flagServeAddr != "" {
		addr = flagServeAddr
	}
	mode, err := model.ParseBucketMode(cfg.General.BucketMode)
	if flagMode != "" {
		mode, err = model.ParseBucketMode(flagMode)
	}
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc := server.New(server.Config{
		Addr:           addr,
		DefaultPrompts: cfg.General.DefaultPromptsPerDay,
		Mode:           mode,
	}, cat, slog.Default())
	return svc.Run(ctx)
}
