package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"heroforge/internal/logger"
	"heroforge/internal/web"
)

func webCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "web",
		Short: "Serve saved stories over HTTP and stream prose over a websocket",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWeb(addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (defaults to web.addr in the config)")
	return cmd
}

func runWeb(addr string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if addr == "" {
		addr = cfg.Web.Addr
	}

	db, err := openDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close(context.Background())

	var streamer web.Streamer
	if client, err := newProse(cfg); err != nil {
		logger.Warning("prose streaming disabled", "reason", err.Error())
	} else {
		streamer = client
	}

	fmt.Fprintf(os.Stderr, "Listening on http://%s\n", addr)
	return web.NewServer(db, streamer).ListenAndServe(ctx, addr)
}
